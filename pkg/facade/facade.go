// Package facade is the host-facing shim (spec §4.H): every operation
// forwards straight to the middle-end with no additional logic of its own,
// except translating host-specific key/mouse encodings into the
// middle-end's canonical button set before calling Midend.ProcessKey.
package facade

import (
	"puzzlecore/pkg/backend"
	"puzzlecore/pkg/midend"
)

// HostMouse is a host's raw mouse button identifier, independent of this
// engine's canonical Button codes — a host toolkit numbers its buttons
// however it likes; a façade translates before the event ever reaches a
// back-end.
type HostMouse int

const (
	HostMouseLeft HostMouse = iota
	HostMouseMiddle
	HostMouseRight
)

// HostMouseAction distinguishes press/drag/release, independent of which
// physical button moved.
type HostMouseAction int

const (
	HostMousePress HostMouseAction = iota
	HostMouseDrag
	HostMouseRelease
)

// Facade wraps a *midend.Midend and exposes the host entry points named in
// §4.H's table: every method forwards to the identically-named middle-end
// operation, except TranslateMouse/TranslateKey, which carry the one piece
// of real logic this layer owns.
type Facade struct {
	Mid *midend.Midend
}

// New wraps an existing middle-end instance.
func New(m *midend.Midend) *Facade {
	return &Facade{Mid: m}
}

// TranslateMouse converts a host mouse event at (x, y) into the canonical
// button space and forwards it to the middle-end.
func (f *Facade) TranslateMouse(x, y int, button HostMouse, action HostMouseAction, mods backend.Mods) error {
	ev := backend.InputEvent{X: x, Y: y, Mods: mods, Button: mouseButton(button, action)}
	return f.Mid.ProcessKey(ev)
}

func mouseButton(button HostMouse, action HostMouseAction) backend.Button {
	switch button {
	case HostMouseMiddle:
		switch action {
		case HostMouseDrag:
			return backend.MiddleDrag
		case HostMouseRelease:
			return backend.MiddleRelease
		default:
			return backend.MiddleButton
		}
	case HostMouseRight:
		switch action {
		case HostMouseDrag:
			return backend.RightDrag
		case HostMouseRelease:
			return backend.RightRelease
		default:
			return backend.RightButton
		}
	default:
		switch action {
		case HostMouseDrag:
			return backend.LeftDrag
		case HostMouseRelease:
			return backend.LeftRelease
		default:
			return backend.LeftButton
		}
	}
}

// HostKey is a host's raw keyboard identifier: either a printable character
// (Char, HasChar true) or one of the named control keys below.
type HostKey struct {
	Char    rune
	HasChar bool
	Named   NamedKey
}

// NamedKey enumerates the non-character keys a host may report. The two
// distinct backspace byte values (the 0x08 control code and the 0x7F DEL
// byte that some terminals send instead) are reported as NamedBackspace and
// NamedBackspaceDEL; TranslateKey normalizes both to canonicalBackspace.
type NamedKey int

const (
	NamedNone NamedKey = iota
	NamedEnter
	NamedSpace
	NamedBackspace
	NamedBackspaceDEL
	NamedCursorUp
	NamedCursorDown
	NamedCursorLeft
	NamedCursorRight
	NamedUndo
	NamedRedo
	NamedNewGame
)

// TranslateKey converts a host keyboard event at (x, y) — the current
// pointer position, carried along for back-ends that key off it — into the
// canonical button/char space and forwards it to the middle-end.
//
// Enter/Return normalizes to CursorSelect, Space to CursorSelect2, and
// either backspace encoding to the single canonicalBackspace character,
// matching §5's keyboard-normalization rule.
func (f *Facade) TranslateKey(x, y int, key HostKey, mods backend.Mods) error {
	ev := backend.InputEvent{X: x, Y: y, Mods: mods}

	switch {
	case key.Named == NamedEnter:
		ev.Button = backend.CursorSelect
	case key.Named == NamedSpace:
		ev.Button = backend.CursorSelect2
	case key.Named == NamedBackspace || key.Named == NamedBackspaceDEL:
		ev.HasChar = true
		ev.Char = canonicalBackspace
	case key.Named == NamedCursorUp:
		ev.Button = backend.CursorUp
	case key.Named == NamedCursorDown:
		ev.Button = backend.CursorDown
	case key.Named == NamedCursorLeft:
		ev.Button = backend.CursorLeft
	case key.Named == NamedCursorRight:
		ev.Button = backend.CursorRight
	case key.Named == NamedUndo:
		ev.Button = backend.UIUndo
	case key.Named == NamedRedo:
		ev.Button = backend.UIRedo
	case key.Named == NamedNewGame:
		ev.Button = backend.UINewGame
	case key.HasChar:
		ev.HasChar = true
		ev.Char = key.Char
	default:
		return nil // nothing recognizable to forward
	}

	return f.Mid.ProcessKey(ev)
}

// canonicalBackspace is the single ASCII code both host backspace
// encodings (0x08 and 0x7F) normalize to before reaching a back-end.
const canonicalBackspace = '\b'

// SetPriorityOverride forwards to the middle-end unchanged — one of the
// "no additional logic" passthroughs §4.H calls for.
func (f *Facade) SetPriorityOverride(override func(held, pressed backend.Button) bool) {
	f.Mid.SetPriorityOverride(override)
}

func (f *Facade) NewGame() error     { return f.Mid.NewGame() }
func (f *Facade) RestartGame() error { return f.Mid.RestartGame() }
func (f *Facade) Undo() bool         { return f.Mid.Undo() }
func (f *Facade) Redo() bool         { return f.Mid.Redo() }
func (f *Facade) CanUndo() bool      { return f.Mid.CanUndo() }
func (f *Facade) CanRedo() bool      { return f.Mid.CanRedo() }
func (f *Facade) Solve() error       { return f.Mid.Solve() }
func (f *Facade) Status() int        { return f.Mid.Status() }
func (f *Facade) ForceRedraw()       { f.Mid.ForceRedraw() }

func (f *Facade) GameID(s string, defaultMode midend.GenMode) error {
	return f.Mid.GameID(s, defaultMode)
}

func (f *Facade) Presets() []backend.Preset { return f.Mid.Presets() }

func (f *Facade) Timer(dt float64) { f.Mid.Timer(dt) }
