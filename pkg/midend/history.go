package midend

import "puzzlecore/pkg/backend"

// entry is one (state, movetype, movestr) triple, the unit the data model
// calls a MoveHistory element. The movetype and move string are tracked
// here rather than on the backend.State value, since the operation that
// produced a state (plain move vs. solve vs. restart) is something only
// the middle-end's call site knows.
type entry struct {
	state   backend.State
	mt      backend.MoveType
	moveStr string
}

// History is the append-only move list plus integer position pointer
// described in the data model: position 1 means the initial state is
// current, undo decrements, redo increments, and a new move at position p
// truncates everything after p before appending. Grounded on the
// reference collection's own GameHistory tracker (appended states plus a
// current index), generalized from a single-session board-hash cache into
// the generic position-pointer contract this spec requires.
type History struct {
	entries  []entry
	position int // 1-based; always in [1, len(entries)]
}

// NewHistory starts a fresh history rooted at initial, tagged NEW with an
// empty move string.
func NewHistory(initial backend.State) *History {
	return &History{
		entries:  []entry{{state: initial, mt: backend.MoveNew}},
		position: 1,
	}
}

// Len returns the number of states currently recorded.
func (h *History) Len() int { return len(h.entries) }

// Position returns the current 1-based position.
func (h *History) Position() int { return h.position }

// Current returns the state at the current position.
func (h *History) Current() backend.State { return h.entries[h.position-1].state }

// CurrentType returns the movetype tag of the entry at the current position.
func (h *History) CurrentType() backend.MoveType { return h.entries[h.position-1].mt }

// CurrentMoveStr returns the move string of the entry at the current position.
func (h *History) CurrentMoveStr() string { return h.entries[h.position-1].moveStr }

// CanUndo reports whether Undo would move the position.
func (h *History) CanUndo() bool { return h.position > 1 }

// CanRedo reports whether Redo would move the position.
func (h *History) CanRedo() bool { return h.position < len(h.entries) }

// Undo moves the position back one step, returning the new current state
// and whether a move actually happened.
func (h *History) Undo() (backend.State, bool) {
	if !h.CanUndo() {
		return h.Current(), false
	}
	h.position--
	return h.Current(), true
}

// Redo moves the position forward one step, returning the new current
// state and whether a move actually happened.
func (h *History) Redo() (backend.State, bool) {
	if !h.CanRedo() {
		return h.Current(), false
	}
	h.position++
	return h.Current(), true
}

// Append truncates any history after the current position, then appends
// (state, mt, moveStr) as the new current entry. This is the "new move at
// position p" rule from the data model: redo history beyond p is
// discarded.
func (h *History) Append(state backend.State, mt backend.MoveType, moveStr string) {
	h.entries = h.entries[:h.position]
	h.entries = append(h.entries, entry{state: state, mt: mt, moveStr: moveStr})
	h.position = len(h.entries)
}

// StateEntry is one exported (state, movetype, movestr) triple, returned
// by All for callers (serialise) that need all three fields.
type StateEntry struct {
	State   backend.State
	Type    backend.MoveType
	MoveStr string
}

// All returns every recorded entry regardless of position, including any
// still-redoable tail.
func (h *History) All() []StateEntry {
	out := make([]StateEntry, len(h.entries))
	for i, e := range h.entries {
		out[i] = StateEntry{State: e.state, Type: e.mt, MoveStr: e.moveStr}
	}
	return out
}

// Reset discards all history and starts over at initial, tagged NEW.
func (h *History) Reset(initial backend.State) {
	h.entries = []entry{{state: initial, mt: backend.MoveNew}}
	h.position = 1
}
