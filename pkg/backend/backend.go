// Package backend defines the capability contract every puzzle back-end
// implements (spec §4.D), plus the shared domain types (GameParameters,
// GameState, move types, the canonical input button space) the middle-end
// and every back-end exchange. A back-end never appears to the middle-end
// as anything but a Backend value; this is the static-dispatch boundary the
// spec's Design Notes call for in place of the reference collection's
// struct-of-function-pointers.
package backend

import (
	"puzzlecore/pkg/drawing"
	"puzzlecore/pkg/prng"
)

// MoveType classifies how a history entry arose (spec glossary). Any type
// other than Move is "special": it suppresses victory flashes.
type MoveType int

const (
	MoveNew MoveType = iota
	MoveMove
	MoveSolve
	MoveRestart
)

// IsSpecial reports whether this movetype suppresses flash effects.
func (m MoveType) IsSpecial() bool { return m != MoveMove }

// Params is a back-end's configuration record (spec's GameParameters). Each
// back-end defines its own concrete type; the middle-end only ever holds
// one behind this interface.
type Params interface {
	// Clone returns an independent deep copy.
	Clone() Params
}

// State is a back-end's playable board snapshot (spec's GameState), opaque
// to the middle-end beyond what Backend's own methods extract from it —
// the same opacity pattern as UI. The middle-end treats States as
// immutable values it never mutates in place; a back-end's ExecuteMove
// always returns a fresh State. The movetype tag and move string the data
// model associates with a state are tracked by pkg/midend's History
// alongside the state, not carried on the State value itself: they are
// properties of a history *entry* (what operation produced this state),
// which a back-end has no way to know for RESTART in particular, since
// restart reconstructs a state through the same NewGame path as a brand
// new puzzle.
type State interface{}

// UI is an opaque per-session, per-back-end UI state (e.g. a drag in
// progress). The middle-end never inspects it beyond encode/decode.
type UI interface{}

// Preset is one named, pre-configured parameter set in a back-end's preset
// menu (spec's Presets entity). Presets may nest via SubMenu.
type Preset struct {
	Name    string
	Params  Params
	SubMenu []Preset
}

// Button is the middle-end-facing canonical input code (spec §6's "Input
// button space"). Host-specific codes are translated into this set by
// pkg/facade before ever reaching InterpretMove.
type Button int

const (
	LeftButton Button = iota
	LeftDrag
	LeftRelease
	MiddleButton
	MiddleDrag
	MiddleRelease
	RightButton
	RightDrag
	RightRelease
	CursorUp
	CursorDown
	CursorLeft
	CursorRight
	CursorSelect
	CursorSelect2
	UIUndo
	UIRedo
	UINewGame
)

// IsButtonPress reports whether b is one of the three primary button-press
// codes (as opposed to a drag or release of that same button).
func (b Button) IsButtonPress() bool {
	return b == LeftButton || b == MiddleButton || b == RightButton
}

// Mods are modifier bit flags combined with a Button or ASCII character.
type Mods uint8

const (
	ModShift Mods = 1 << iota
	ModCtrl
	ModNumKeypad
)

// InputEvent is a single normalized input, already translated by the
// façade into the canonical button space. Exactly one of Button or Char is
// meaningful: if HasChar is true, Char is an ASCII character passed
// through unchanged (e.g. a typed digit in number-placement puzzles);
// otherwise Button identifies a mouse or cursor event.
type InputEvent struct {
	X, Y    int
	Button  Button
	HasChar bool
	Char    rune
	Mods    Mods
}

// InterpretResult classifies what InterpretMove returned.
type InterpretResult int

const (
	// Ignored means the event produced no change; the caller does nothing.
	Ignored InterpretResult = iota
	// UIUpdate means UI state changed (e.g. a drag advanced) but no move
	// should be appended to history; the caller should still redraw.
	UIUpdate
	// Move means the returned move string should be executed and, on
	// success, appended to history.
	Move
)

// Flags is a bitset of optional back-end capabilities/behaviors.
type Flags uint32

const (
	// SolveAnimates means a SOLVE move should be animated like a normal
	// move rather than jumping instantly to the solved state.
	SolveAnimates Flags = 1 << iota
	// IsTimed means the back-end wants timer() calls while TimingState
	// returns true (e.g. a countdown or mine-sweeper-style fuse).
	IsTimed
	// NotifiesChangedState means the middle-end should call
	// Backend.ChangedState after undo/redo so the back-end can react
	// (e.g. to recompute UI-only derived state).
	NotifiesChangedState
)

// Backend is the capability set every puzzle implements (spec §4.D table).
// A failing operation returns a non-nil error carrying a human-readable
// reason; Go's usual (T, error) shape replaces the reference collection's
// "return NULL, reason string" convention used for failures that don't fit
// that shape (Solve, ExecuteMove).
type Backend interface {
	// Name is the back-end's short identifier, used as the save-file GAME
	// header and as the <GAMENAME> prefix for environment overrides.
	Name() string

	DefaultParams() Params
	Presets() []Preset
	EncodeParams(p Params, full bool) string
	// DecodeParams mutates p in place from s. Decoding is total: fields
	// s does not mention keep their previous value in p.
	DecodeParams(p Params, s string)
	ValidateParams(p Params, full bool) error

	// NewDesc generates a new puzzle instance. Deterministic in (p, the
	// draws taken from rng): two calls with an identically-seeded rng
	// stream produce byte-identical descriptions (spec property 7).
	NewDesc(p Params, rng *prng.Source) (desc string, aux string, err error)
	// ValidateDesc MUST reject any string NewDesc cannot produce.
	ValidateDesc(p Params, desc string) error

	NewGame(p Params, desc string) (State, error)
	DupGame(s State) State

	// Solve returns the move string that carries current to a solved
	// state, computed with the help of initial and aux (which may be
	// empty). Returns an error (ErrUnsolvable or a more specific reason)
	// if no solution exists or aux is insufficient.
	Solve(initial, current State, aux string) (string, error)

	// TextFormat renders a printable board, or ok=false if the back-end
	// does not support it.
	TextFormat(s State) (text string, ok bool)

	NewUI(s State) UI
	EncodeUI(ui UI) string
	DecodeUI(s State, encoded string) UI
	// ChangedState is called after undo/redo when Flags includes
	// NotifiesChangedState.
	ChangedState(ui UI, oldState, newState State)

	// InterpretMove turns a normalized input event into a move string to
	// execute, or an InterpretResult sentinel.
	InterpretMove(s State, ui UI, ev InputEvent) (moveStr string, result InterpretResult)
	// ExecuteMove returns the new state, or an error if the move is
	// invalid (to be dropped silently by the middle-end).
	ExecuteMove(s State, moveStr string) (State, error)

	Redraw(dr drawing.Drawing, old State, cur State, dir int, ui UI, animTime, flashTime float64)
	AnimLength(old, new State, dir int, ui UI) float64
	FlashLength(old, new State, dir int, ui UI) float64
	// Status returns -1 (lost), 0 (in progress) or +1 (won).
	Status(s State) int

	ColourTable() []string // symbolic colour names; index == Colour
	PreferredTileSize() int
	ComputeSize(p Params, tileSize int) (w, h int)

	Flags() Flags
	TimingState(s State, ui UI) bool
}
