// Package midend implements the generic puzzle controller: lifecycle,
// undo/redo, input normalization, serialization, and presets (spec §4.E).
// A Midend holds exactly one back-end descriptor and mediates every call
// between a host façade and that back-end; nothing in this package knows
// the concrete shape of any puzzle's parameters or board.
package midend

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"

	"puzzlecore/pkg/backend"
	"puzzlecore/pkg/drawing"
	"puzzlecore/pkg/presetfile"
	"puzzlecore/pkg/prng"
)

// ErrUnsolvable is returned by Solve when the back-end cannot produce a
// solving move string.
var ErrUnsolvable = errors.New("midend: puzzle is not solvable from here")

// ErrExecuteMoveInvalid marks a move the back-end rejected; per §7 this is
// dropped silently by callers, never surfaced as a hard failure.
var ErrExecuteMoveInvalid = errors.New("midend: move rejected by back-end")

// InternalInvariantViolated is the one fatal error kind: an assertion that
// must never trigger on correct inputs. Callers that encounter it should
// treat it as a programming error, not a recoverable condition — the
// top-level recover() in cmd/puzzlecli's run() is the only place that
// catches a panic carrying one of these.
type InternalInvariantViolated struct {
	Reason string
}

func (e *InternalInvariantViolated) Error() string {
	return "midend: internal invariant violated: " + e.Reason
}

func panicInvariant(reason string) {
	panic(&InternalInvariantViolated{Reason: reason})
}

// Notifier is called whenever the midend's current description changes
// out from under the host (new_game, game_id, restart, deserialise) — the
// spec's optional "id changed" notifier.
type Notifier func()

// Midend is the generic controller described by spec §4.E.
type Midend struct {
	be  backend.Backend
	dr  drawing.Drawing
	cs  ConfigSource
	rng *prng.Source

	masterSeed uint64

	params  backend.Params
	seed    string // RandomSeed string, if genmode == GenModeSeed
	desc    string
	privDesc string
	hasPriv bool
	aux     string
	genMode GenMode

	ui   backend.UI
	hist *History

	tileSize   int
	tileSizeFromUser bool
	width, height int

	animTime   float64 // elapsed since the animated move started
	animLength float64
	animDir    int
	flashTime   float64
	flashLength float64
	elapsed     float64 // total elapsed play time

	lastStatus int
	notify     Notifier

	buttonLatch      *backend.Button
	priorityOverride func(held, pressed backend.Button) bool
}

// New constructs a Midend for a given back-end, an optional drawing handle
// (nil is valid for headless/solver-only use), and a ConfigSource for
// environment overrides. masterSeed seeds the RNG the back-end's generator
// will draw from.
func New(be backend.Backend, dr drawing.Drawing, cs ConfigSource, masterSeed uint64) *Midend {
	if cs == nil {
		cs = OSConfigSource{}
	}
	m := &Midend{
		be:         be,
		dr:         dr,
		cs:         cs,
		masterSeed: masterSeed,
		params:     be.DefaultParams(),
		tileSize:   be.PreferredTileSize(),
	}
	if override, ok := DefaultParamsOverride(cs, be.Name()); ok {
		be.DecodeParams(m.params, override)
	}
	if ts, ok := TileSizeOverride(cs, be.Name()); ok {
		m.tileSize = ts
	}
	return m
}

// SetNotifier installs the "id changed" callback.
func (m *Midend) SetNotifier(n Notifier) { m.notify = n }

// Params returns the live parameters. Mutate via DecodeParams, not
// directly, so overrides and validation stay consistent.
func (m *Midend) Params() backend.Params { return m.params }

func (m *Midend) fireNotify() {
	if m.notify != nil {
		m.notify()
	}
}

// mintSeed produces a 15-digit decimal seed string with a nonzero leading
// digit, derived from the master seed and a per-call counter so repeated
// calls within one session diverge.
func (m *Midend) mintSeed(callIndex uint64) string {
	h := sha256.New()
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], m.masterSeed)
	binary.BigEndian.PutUint64(buf[8:16], callIndex)
	h.Write(buf[:])
	sum := h.Sum(nil)
	digits := make([]byte, 15)
	for i := range digits {
		v := sum[i%len(sum)]
		d := int(v) % 10
		if i == 0 && d == 0 {
			d = 1 + int(v)%9
		}
		digits[i] = byte('0' + d)
	}
	return string(digits)
}

var newGameCalls uint64

// NewGame builds a fresh puzzle instance. If a seed or description has
// already been committed (via GameID or a prior NewGame), it is reused;
// otherwise a fresh 15-digit seed is minted and a description generated.
// The aux string, if the back-end produced one, is self-tested by running
// it through Solve + ExecuteMove and asserting the result reaches status
// +1 — an internal consistency check per §4.E.
func (m *Midend) NewGame() error {
	switch m.genMode {
	case GenModeDesc:
		if err := m.be.ValidateDesc(m.params, m.desc); err != nil {
			return fmt.Errorf("midend: stored description invalid: %w", err)
		}
	default:
		if m.seed == "" {
			newGameCalls++
			m.seed = m.mintSeed(newGameCalls)
		}
		rng := prng.FromSeedString(m.seed, m.be.Name()+"/new_desc")
		desc, aux, err := m.be.NewDesc(m.params, rng)
		if err != nil {
			return fmt.Errorf("midend: new_desc: %w", err)
		}
		m.desc = desc
		m.aux = aux
		m.genMode = GenModeDesc
	}

	state, err := m.be.NewGame(m.params, m.desc)
	if err != nil {
		return fmt.Errorf("midend: new_game: %w", err)
	}

	m.hist = NewHistory(state)
	m.ui = m.be.NewUI(state)
	m.resetClocks()
	m.lastStatus = m.be.Status(state)
	m.dropDrawstate()

	if m.aux != "" {
		if err := m.selfTestAux(state); err != nil {
			panicInvariant("aux self-test failed: " + err.Error())
		}
	}

	m.fireNotify()
	return nil
}

// selfTestAux runs Solve using the freshly-generated aux info and checks
// the resulting move string actually reaches a won state.
func (m *Midend) selfTestAux(initial backend.State) error {
	moveStr, err := m.be.Solve(initial, initial, m.aux)
	if err != nil {
		return err
	}
	final, err := m.be.ExecuteMove(initial, moveStr)
	if err != nil {
		return fmt.Errorf("solve move did not execute: %w", err)
	}
	if m.be.Status(final) != 1 {
		return fmt.Errorf("solved state did not reach won status")
	}
	return nil
}

func (m *Midend) dropDrawstate() {
	// A concrete drawing.Drawing implementation owns its own cached
	// offscreen state; the midend only needs to force a full repaint.
	if m.dr != nil && m.width > 0 && m.height > 0 {
		m.dr.Update(drawing.Rect{X: 0, Y: 0, W: m.width, H: m.height})
	}
}

func (m *Midend) resetClocks() {
	m.resetAnimClocks()
	m.elapsed = 0
}

func (m *Midend) resetAnimClocks() {
	m.animTime, m.animLength, m.animDir = 0, 0, 0
	m.flashTime, m.flashLength = 0, 0
}

// Size binary-searches a tile size to fit within (x, y). When user is
// true the tile size is bounded only by the requested box and persists
// across future resizes; when false it is additionally capped at the
// back-end's preferred tile size.
func (m *Midend) Size(x, y int, user bool) (w, h int) {
	lo, hi := 1, x
	if y < hi {
		hi = y
	}
	best := 1
	for lo <= hi {
		mid := (lo + hi) / 2
		w, h := m.be.ComputeSize(m.params, mid)
		if w <= x && h <= y {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if !user {
		if pref := m.be.PreferredTileSize(); best > pref {
			best = pref
		}
	}
	m.tileSize = best
	m.tileSizeFromUser = user
	m.width, m.height = m.be.ComputeSize(m.params, best)
	m.dropDrawstate()
	return m.width, m.height
}

// ForceRedraw discards any cached drawstate and requests a full repaint at
// the current size.
func (m *Midend) ForceRedraw() {
	m.width, m.height = m.be.ComputeSize(m.params, m.tileSize)
	m.dropDrawstate()
}

// CanUndo reports whether Undo would change history position.
func (m *Midend) CanUndo() bool { return m.hist != nil && m.hist.CanUndo() }

// CanRedo reports whether Redo would change history position.
func (m *Midend) CanRedo() bool { return m.hist != nil && m.hist.CanRedo() }

// Undo moves history back one position, arming a flash and notifying the
// back-end of the transition per the finish_move algorithm.
func (m *Midend) Undo() bool { return m.shiftHistory(m.hist.Undo) }

// Redo moves history forward one position.
func (m *Midend) Redo() bool { return m.shiftHistory(m.hist.Redo) }

func (m *Midend) shiftHistory(step func() (backend.State, bool)) bool {
	if m.hist == nil {
		return false
	}
	prev := m.hist.Current()
	prevMT := m.hist.CurrentType()
	next, moved := step()
	if !moved {
		return false
	}
	m.finishMove(prev, next, prevMT, m.hist.CurrentType(), -1)
	if m.be.Flags()&backend.NotifiesChangedState != 0 {
		m.be.ChangedState(m.ui, prev, next)
	}
	m.lastStatus = m.be.Status(next)
	return true
}

// finishMove implements §4.E's move-completion algorithm: arm a flash only
// when neither adjacent movetype is special (SOLVE/RESTART), then reset
// the animation clock and re-evaluate timer arming.
func (m *Midend) finishMove(oldState, newState backend.State, oldMT, newMT backend.MoveType, dir int) {
	flashWarranted := !oldMT.IsSpecial() && !newMT.IsSpecial()
	if flashWarranted {
		fl := m.be.FlashLength(oldState, newState, dir, m.ui)
		if fl > 0 {
			m.flashLength = fl
			m.flashTime = 0
		}
	}
	m.animTime, m.animLength, m.animDir = 0, 0, 0
}

// ProcessKey normalizes one raw host input event through the button
// latch (§5; may expand into a synthesized release followed by the
// actual press), forwards each resulting event to the back-end in order,
// and — for any that return a move string — executes it and appends to
// history. The first ExecuteMoveInvalid encountered, if any, is returned;
// earlier successful moves in the same call are not rolled back.
func (m *Midend) ProcessKey(ev backend.InputEvent) error {
	events := m.applyButtonLatch(ev)
	var firstErr error
	for _, e := range events {
		if err := m.processSingleEvent(e); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *Midend) processSingleEvent(ev backend.InputEvent) error {
	cur := m.hist.Current()
	prevMT := m.hist.CurrentType()
	moveStr, result := m.be.InterpretMove(cur, m.ui, ev)
	switch result {
	case backend.Move:
		next, err := m.be.ExecuteMove(cur, moveStr)
		if err != nil {
			return ErrExecuteMoveInvalid
		}
		m.hist.Append(next, backend.MoveMove, moveStr)
		m.finishMove(cur, next, prevMT, backend.MoveMove, 1)
		m.lastStatus = m.be.Status(next)
		return nil
	default:
		return nil
	}
}

// RestartGame appends a RESTART entry reconstructed from the public
// description (never from history[0]), a distinct operation from undoing
// every move — the only observable difference is which movetype tag the
// new current entry carries, which matters for puzzles that rewrite their
// description mid-play. Its move string is the description itself.
func (m *Midend) RestartGame() error {
	state, err := m.be.NewGame(m.params, m.desc)
	if err != nil {
		return fmt.Errorf("midend: restart: %w", err)
	}
	prev := m.hist.Current()
	prevMT := m.hist.CurrentType()
	m.hist.Append(state, backend.MoveRestart, m.desc)
	m.finishMove(prev, state, prevMT, backend.MoveRestart, 0)
	m.lastStatus = m.be.Status(state)
	return nil
}

// Solve asks the back-end to solve from (initial, current, aux) and
// appends the resulting move string as a SOLVE entry. If the back-end's
// Flags include SolveAnimates, the move is animated like a normal move;
// regardless, subsequent flashes are suppressed since SOLVE is special.
func (m *Midend) Solve() error {
	initial := m.hist.All()[0].State
	cur := m.hist.Current()
	prevMT := m.hist.CurrentType()
	moveStr, err := m.be.Solve(initial, cur, m.aux)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsolvable, err)
	}
	next, err := m.be.ExecuteMove(cur, moveStr)
	if err != nil {
		panicInvariant("solve produced a move string execute_move rejected")
	}
	m.hist.Append(next, backend.MoveSolve, moveStr)
	if m.be.Flags()&backend.SolveAnimates != 0 {
		m.animLength = m.be.AnimLength(cur, next, 1, m.ui)
		m.animTime = 0
		m.animDir = 1
	} else {
		m.finishMove(cur, next, prevMT, backend.MoveSolve, 0)
	}
	m.lastStatus = m.be.Status(next)
	return nil
}

// GameID commits a parsed game identifier. Params are decoded and
// validated into a scratch clone, and the seed/description validated
// separately; mutation of live state happens only after both succeed,
// per §4.E's "commit only after both succeed" rule. Once committed, aux
// is cleared and genMode is set so the next NewGame call uses the
// accepted seed or description verbatim.
func (m *Midend) GameID(s string, defaultMode GenMode) error {
	id, err := ParseGameID(s, defaultMode)
	if err != nil {
		return err
	}

	candidate := m.params.Clone()
	if id.ParamsStr != "" {
		m.be.DecodeParams(candidate, id.ParamsStr)
	}
	if err := m.be.ValidateParams(candidate, true); err != nil {
		return fmt.Errorf("midend: invalid parameters: %w", err)
	}

	switch id.Mode {
	case GenModeSeed:
		// Nothing further to validate: the seed is an opaque string and
		// any value is acceptable input to new_desc.
	case GenModeDesc:
		if err := m.be.ValidateDesc(candidate, id.Desc); err != nil {
			return fmt.Errorf("midend: invalid description: %w", err)
		}
	}

	m.params = candidate
	m.aux = ""
	m.genMode = id.Mode
	switch id.Mode {
	case GenModeSeed:
		m.seed = id.Seed
		m.desc = ""
	case GenModeDesc:
		m.desc = id.Desc
		m.seed = ""
	}
	m.fireNotify()
	return nil
}

// Timer advances the animation and flash clocks by dt seconds, finishing
// the move whose animation ended, and re-evaluates timer arming.
func (m *Midend) Timer(dt float64) {
	if m.animLength > 0 {
		m.animTime += dt
		if m.animTime >= m.animLength {
			m.animTime, m.animLength, m.animDir = 0, 0, 0
		}
	}
	if m.flashLength > 0 {
		m.flashTime += dt
		if m.flashTime >= m.flashLength {
			m.flashTime, m.flashLength = 0, 0
		}
	}
	m.elapsed += dt
}

// TimerShouldRun reports whether the platform timer should be armed: the
// back-end wants timed ticks while TimingState holds, or an animation or
// flash is in progress.
func (m *Midend) TimerShouldRun() bool {
	if m.be.Flags()&backend.IsTimed != 0 && m.be.TimingState(m.hist.Current(), m.ui) {
		return true
	}
	return m.animLength > 0 || m.flashLength > 0
}

// Status returns the current win/loss/in-progress status.
func (m *Midend) Status() int { return m.lastStatus }

// Elapsed returns total elapsed play time in seconds.
func (m *Midend) Elapsed() float64 { return m.elapsed }

// Presets assembles the back-end's built-in preset menu, any <GAME>_PRESETS
// environment additions, and any entries from a <GAME>_PRESETS_FILE YAML
// bank, in that order, de-duplicating by name so a later source can never
// shadow an earlier one (first occurrence wins). A missing or malformed
// preset bank file is treated the same as an absent override: skipped, not
// reported, matching every other ConfigSource override in this file.
func (m *Midend) Presets() []backend.Preset {
	var all []backend.Preset
	all = append(all, m.be.Presets()...)

	for _, ov := range PresetOverrides(m.cs, m.be.Name()) {
		p := m.be.DefaultParams()
		m.be.DecodeParams(p, ov.ParamsStr)
		all = append(all, backend.Preset{Name: ov.Name, Params: p})
	}

	if path, ok := PresetBankPath(m.cs, m.be.Name()); ok {
		if bank, err := presetfile.Load(path); err == nil {
			all = append(all, bank.Presets(m.be)...)
		}
	}

	seen := make(map[string]bool, len(all))
	presets := make([]backend.Preset, 0, len(all))
	for _, p := range all {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		presets = append(presets, p)
	}
	return presets
}

// ColourTable returns one RGB triple per entry of the back-end's colour
// table: the <GAME>_COLOUR_<i> override from the ConfigSource where one is
// set, and zero (black) for every entry without an override.
func (m *Midend) ColourTable() [][3]byte {
	names := m.be.ColourTable()
	out := make([][3]byte, len(names))
	for i := range names {
		if rgb, ok := ColourOverride(m.cs, m.be.Name(), i); ok {
			out[i] = rgb
		}
	}
	return out
}

// Serialise writes the session's full state in the §6 save-file format.
func (m *Midend) Serialise(w io.Writer) error {
	sd := &SaveData{
		Game:     m.be.Name(),
		Params:   m.be.EncodeParams(m.params, false),
		CParams:  m.be.EncodeParams(m.params, true),
		Desc:     m.desc,
		NStates:  m.hist.Len(),
		StatePos: m.hist.Position(),
	}
	if m.genMode == GenModeSeed && m.seed != "" {
		sd.HasSeed = true
		sd.Seed = m.seed
	}
	if m.hasPriv {
		sd.HasPriv = true
		sd.PrivDesc = m.privDesc
	}
	if m.aux != "" {
		sd.HasAux = true
		sd.AuxInfo = []byte(m.aux)
	}
	if m.ui != nil {
		sd.HasUI = true
		sd.UI = m.be.EncodeUI(m.ui)
	}
	sd.HasTime = true
	sd.Time = strconv.FormatFloat(m.elapsed, 'f', -1, 64)

	states := m.hist.All()
	for _, s := range states[1:] {
		kind := "MOVE"
		switch s.Type {
		case backend.MoveSolve:
			kind = "SOLVE"
		case backend.MoveRestart:
			kind = "RESTART"
		}
		sd.Moves = append(sd.Moves, MoveRecord{Kind: kind, Str: s.MoveStr})
	}

	return WriteSave(w, sd)
}

// Deserialise replaces the session's entire state from a save file. On any
// error the Midend is left completely untouched, per §6/§7.
func (m *Midend) Deserialise(r io.Reader) error {
	sd, err := ReadSave(r, m.be.Name())
	if err != nil {
		return err
	}

	params := m.be.DefaultParams()
	m.be.DecodeParams(params, sd.CParams)
	if err := m.be.ValidateParams(params, true); err != nil {
		return fmt.Errorf("%w: params: %v", ErrSaveFileCorrupt, err)
	}
	if err := m.be.ValidateDesc(params, sd.Desc); err != nil {
		return fmt.Errorf("%w: desc: %v", ErrSaveFileCorrupt, err)
	}

	initial, err := m.be.NewGame(params, sd.Desc)
	if err != nil {
		return fmt.Errorf("%w: new_game: %v", ErrSaveFileCorrupt, err)
	}

	entries := make([]entry, 0, sd.NStates)
	entries = append(entries, entry{state: initial, mt: backend.MoveNew})
	cur := initial
	for _, mv := range sd.Moves {
		next, err := m.be.ExecuteMove(cur, mv.Str)
		if err != nil {
			return fmt.Errorf("%w: replaying move %q: %v", ErrSaveFileCorrupt, mv.Str, err)
		}
		mt := backend.MoveMove
		switch mv.Kind {
		case "SOLVE":
			mt = backend.MoveSolve
		case "RESTART":
			mt = backend.MoveRestart
		}
		entries = append(entries, entry{state: next, mt: mt, moveStr: mv.Str})
		cur = next
	}
	if len(entries) != sd.NStates {
		return fmt.Errorf("%w: NSTATES disagrees with move count", ErrSaveFileCorrupt)
	}

	// Everything validated: commit.
	m.params = params
	m.desc = sd.Desc
	m.genMode = GenModeDesc
	if sd.HasSeed {
		m.genMode = GenModeSeed
		m.seed = sd.Seed
	}
	m.hasPriv = sd.HasPriv
	m.privDesc = sd.PrivDesc
	if sd.HasAux {
		m.aux = string(sd.AuxInfo)
	} else {
		m.aux = ""
	}

	m.hist = &History{entries: entries, position: sd.StatePos}

	if sd.HasUI {
		m.ui = m.be.DecodeUI(m.hist.Current(), sd.UI)
	} else {
		m.ui = m.be.NewUI(m.hist.Current())
	}
	m.resetAnimClocks()
	m.elapsed = 0
	if sd.HasTime {
		if v, err := strconv.ParseFloat(sd.Time, 64); err == nil {
			m.elapsed = v
		}
	}
	m.lastStatus = m.be.Status(m.hist.Current())
	m.dropDrawstate()
	m.fireNotify()
	return nil
}
