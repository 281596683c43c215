package midend

import (
	"fmt"
	"strconv"
	"strings"

	"puzzlecore/pkg/backend"
	"puzzlecore/pkg/drawing"
	"puzzlecore/pkg/prng"
)

// counterParams/counterState/counterBackend are a minimal stand-in
// back-end used only to exercise Midend's lifecycle, history, button
// latch, and serialisation logic without needing a real puzzle. The
// "puzzle" is: reach Target by repeatedly applying "+" (increment) or
// "-" (decrement), clamped to [0, Target].

type counterParams struct {
	Target int
}

func (p *counterParams) Clone() backend.Params {
	cp := *p
	return &cp
}

type counterState struct {
	value  int
	target int
}

type counterUI struct{ touches int }

type counterBackend struct{}

func (counterBackend) Name() string { return "counter" }

func (counterBackend) DefaultParams() backend.Params { return &counterParams{Target: 5} }

func (counterBackend) Presets() []backend.Preset {
	return []backend.Preset{
		{Name: "Small", Params: &counterParams{Target: 3}},
		{Name: "Large", Params: &counterParams{Target: 10}},
	}
}

func (counterBackend) EncodeParams(p backend.Params, full bool) string {
	cp := p.(*counterParams)
	return strconv.Itoa(cp.Target)
}

func (counterBackend) DecodeParams(p backend.Params, s string) {
	cp := p.(*counterParams)
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		cp.Target = n
	}
}

func (counterBackend) ValidateParams(p backend.Params, full bool) error {
	cp := p.(*counterParams)
	if cp.Target <= 0 {
		return fmt.Errorf("target must be positive")
	}
	return nil
}

func (counterBackend) NewDesc(p backend.Params, rng *prng.Source) (string, string, error) {
	cp := p.(*counterParams)
	start := rng.Intn(cp.Target + 1)
	return strconv.Itoa(start), "", nil
}

func (counterBackend) ValidateDesc(p backend.Params, desc string) error {
	cp := p.(*counterParams)
	n, err := strconv.Atoi(desc)
	if err != nil || n < 0 || n > cp.Target {
		return fmt.Errorf("bad description %q", desc)
	}
	return nil
}

func (counterBackend) NewGame(p backend.Params, desc string) (backend.State, error) {
	cp := p.(*counterParams)
	n, err := strconv.Atoi(desc)
	if err != nil {
		return nil, err
	}
	return &counterState{value: n, target: cp.Target}, nil
}

func (counterBackend) DupGame(s backend.State) backend.State {
	cs := s.(*counterState)
	cp := *cs
	return &cp
}

func (counterBackend) Solve(initial, current backend.State, aux string) (string, error) {
	cs := current.(*counterState)
	n := cs.target - cs.value
	if n < 0 {
		return "", fmt.Errorf("already past target")
	}
	return "S" + strings.Repeat("+", n), nil
}

func (counterBackend) TextFormat(s backend.State) (string, bool) {
	cs := s.(*counterState)
	return strconv.Itoa(cs.value), true
}

func (counterBackend) NewUI(s backend.State) backend.UI { return &counterUI{} }
func (counterBackend) EncodeUI(ui backend.UI) string {
	return strconv.Itoa(ui.(*counterUI).touches)
}
func (counterBackend) DecodeUI(s backend.State, encoded string) backend.UI {
	n, _ := strconv.Atoi(encoded)
	return &counterUI{touches: n}
}
func (counterBackend) ChangedState(ui backend.UI, oldState, newState backend.State) {}

func (counterBackend) InterpretMove(s backend.State, ui backend.UI, ev backend.InputEvent) (string, backend.InterpretResult) {
	cs := s.(*counterState)
	switch ev.Button {
	case backend.LeftButton:
		if cs.value >= cs.target {
			return "", backend.Ignored
		}
		return "+", backend.Move
	case backend.RightButton:
		if cs.value <= 0 {
			return "", backend.Ignored
		}
		return "-", backend.Move
	case backend.LeftDrag, backend.RightDrag, backend.LeftRelease, backend.RightRelease, backend.MiddleButton, backend.MiddleDrag, backend.MiddleRelease:
		ui.(*counterUI).touches++
		return "", backend.UIUpdate
	default:
		return "", backend.Ignored
	}
}

func (counterBackend) ExecuteMove(s backend.State, moveStr string) (backend.State, error) {
	cs := s.(*counterState)
	body := strings.TrimPrefix(moveStr, "S")
	v := cs.value
	for _, step := range body {
		switch step {
		case '+':
			v++
		case '-':
			v--
		default:
			return nil, fmt.Errorf("bad move char %q", step)
		}
	}
	if v < 0 || v > cs.target {
		return nil, fmt.Errorf("out of range")
	}
	return &counterState{value: v, target: cs.target}, nil
}

func (counterBackend) Redraw(dr drawing.Drawing, old backend.State, cur backend.State, dir int, ui backend.UI, animTime, flashTime float64) {
}

func (counterBackend) AnimLength(old, newState backend.State, dir int, ui backend.UI) float64 {
	return 0
}

func (counterBackend) FlashLength(old, newState backend.State, dir int, ui backend.UI) float64 {
	cs := newState.(*counterState)
	if cs.value == cs.target {
		return 0.5
	}
	return 0
}

func (counterBackend) Status(s backend.State) int {
	cs := s.(*counterState)
	if cs.value == cs.target {
		return 1
	}
	return 0
}

func (counterBackend) ColourTable() []string { return []string{"background", "ink"} }
func (counterBackend) PreferredTileSize() int { return 32 }
func (counterBackend) ComputeSize(p backend.Params, tileSize int) (int, int) {
	return tileSize * 4, tileSize * 2
}

func (counterBackend) Flags() backend.Flags { return 0 }
func (counterBackend) TimingState(s backend.State, ui backend.UI) bool { return false }
