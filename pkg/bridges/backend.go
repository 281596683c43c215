package bridges

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"puzzlecore/pkg/backend"
	"puzzlecore/pkg/drawing"
	"puzzlecore/pkg/prng"
)

// Params is the bridge-drawing back-end's GameParameters.
type Params struct {
	W, H       int
	MaxPerEdge int // usually 2
	Difficulty Difficulty
}

func (p *Params) Clone() backend.Params {
	cp := *p
	return &cp
}

// State is the bridge-drawing back-end's GameState.
type State struct {
	Board *Board
}

// UI tracks nothing persistent: every move is a single click, so there is no
// drag gesture to remember between InterpretMove calls.
type UI struct{}

// Backend implements backend.Backend for the bridge-drawing puzzle.
type Backend struct{}

func (Backend) Name() string { return "bridges" }

func (Backend) DefaultParams() backend.Params {
	return &Params{W: 9, H: 9, MaxPerEdge: 2, Difficulty: Medium}
}

func (Backend) Presets() []backend.Preset {
	return []backend.Preset{
		{Name: "Easy 7x7", Params: &Params{W: 7, H: 7, MaxPerEdge: 2, Difficulty: Easy}},
		{Name: "Medium 9x9", Params: &Params{W: 9, H: 9, MaxPerEdge: 2, Difficulty: Medium}},
		{Name: "Hard 11x11", Params: &Params{W: 11, H: 11, MaxPerEdge: 2, Difficulty: Hard}},
	}
}

func (Backend) EncodeParams(p backend.Params, full bool) string {
	pp := p.(*Params)
	s := fmt.Sprintf("%dx%d", pp.W, pp.H)
	if full {
		s += fmt.Sprintf("m%dd%d", pp.MaxPerEdge, pp.Difficulty)
	}
	return s
}

var paramsRe = regexp.MustCompile(`^(\d+)x(\d+)(?:m(\d+)d(\d+))?$`)

func (Backend) DecodeParams(p backend.Params, s string) {
	pp := p.(*Params)
	m := paramsRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return
	}
	if w, err := strconv.Atoi(m[1]); err == nil {
		pp.W = w
	}
	if h, err := strconv.Atoi(m[2]); err == nil {
		pp.H = h
	}
	if m[3] != "" {
		if max, err := strconv.Atoi(m[3]); err == nil {
			pp.MaxPerEdge = max
		}
	}
	if m[4] != "" {
		if d, err := strconv.Atoi(m[4]); err == nil {
			pp.Difficulty = Difficulty(d)
		}
	}
}

func (Backend) ValidateParams(p backend.Params, full bool) error {
	pp := p.(*Params)
	if pp.W < 3 || pp.H < 3 {
		return fmt.Errorf("bridges: board %dx%d is too small", pp.W, pp.H)
	}
	if pp.MaxPerEdge < 1 {
		return fmt.Errorf("bridges: max bridges per edge must be at least 1")
	}
	return nil
}

func (Backend) NewDesc(p backend.Params, rng *prng.Source) (string, string, error) {
	pp := p.(*Params)
	res, err := Generate(pp.W, pp.H, pp.MaxPerEdge, pp.Difficulty, rng)
	if err != nil {
		return "", "", err
	}
	return EncodeDescription(res.Board), "", nil
}

func (Backend) ValidateDesc(p backend.Params, desc string) error {
	pp := p.(*Params)
	_, err := DecodeDescription(pp.W, pp.H, pp.MaxPerEdge, desc)
	return err
}

func (Backend) NewGame(p backend.Params, desc string) (backend.State, error) {
	pp := p.(*Params)
	board, err := DecodeDescription(pp.W, pp.H, pp.MaxPerEdge, desc)
	if err != nil {
		return nil, err
	}
	return &State{Board: board}, nil
}

func (Backend) DupGame(s backend.State) backend.State {
	st := s.(*State)
	return &State{Board: st.Board.Clone()}
}

func (Backend) Solve(initial, current backend.State, aux string) (string, error) {
	st := current.(*State)
	work := st.Board.Clone()
	if status := Solve(work, Hard); status != Solved {
		return "", fmt.Errorf("bridges: no solution found from the current position")
	}
	var sb strings.Builder
	for ei, e := range work.Edges {
		if e.Count != st.Board.Edges[ei].Count {
			fmt.Fprintf(&sb, "B%d=%d;", ei, e.Count)
		}
	}
	return sb.String(), nil
}

func (Backend) TextFormat(s backend.State) (string, bool) {
	st := s.(*State)
	return TextFormat(st.Board), true
}

func (Backend) NewUI(s backend.State) backend.UI { return &UI{} }

func (Backend) EncodeUI(ui backend.UI) string { return "" }

func (Backend) DecodeUI(s backend.State, encoded string) backend.UI { return &UI{} }

func (Backend) ChangedState(ui backend.UI, oldState, newState backend.State) {}

var moveRe = regexp.MustCompile(`B(\d+)=(\d+)`)

// edgeAt finds the edge (if any) whose connecting line of empty cells passes
// through (x, y), so a click anywhere along a candidate bridge's path
// toggles that edge rather than requiring a pixel-perfect midpoint.
func edgeAt(b *Board, x, y int) (int, bool) {
	for ei, e := range b.Edges {
		a, c := b.Islands[e.A], b.Islands[e.B]
		if e.Horizontal {
			if y != a.Y || x <= a.X || x >= c.X {
				continue
			}
		} else {
			if x != a.X || y <= a.Y || y >= c.Y {
				continue
			}
		}
		return ei, true
	}
	return 0, false
}

func (Backend) InterpretMove(s backend.State, uiv backend.UI, ev backend.InputEvent) (string, backend.InterpretResult) {
	st := s.(*State)
	ei, ok := edgeAt(st.Board, ev.X, ev.Y)
	if !ok {
		return "", backend.Ignored
	}
	e := st.Board.Edges[ei]

	var next int
	switch ev.Button {
	case backend.LeftButton:
		next = e.Count + 1
		if next > e.Max {
			next = 0
		}
	case backend.RightButton:
		next = e.Count - 1
		if next < 0 {
			next = e.Max
		}
	default:
		return "", backend.Ignored
	}
	return fmt.Sprintf("B%d=%d", ei, next), backend.Move
}

func (Backend) ExecuteMove(s backend.State, moveStr string) (backend.State, error) {
	st := s.(*State)
	matches := moveRe.FindAllStringSubmatch(moveStr, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("bridges: malformed move string %q", moveStr)
	}
	board := st.Board.Clone()
	for _, m := range matches {
		ei, _ := strconv.Atoi(m[1])
		count, _ := strconv.Atoi(m[2])
		if ei < 0 || ei >= len(board.Edges) {
			return nil, fmt.Errorf("bridges: no such edge %d", ei)
		}
		if count < 0 || count > board.Edges[ei].Max {
			return nil, fmt.Errorf("bridges: edge %d cannot carry %d bridges", ei, count)
		}
		board.Edges[ei].Count = count
	}
	return &State{Board: board}, nil
}

const (
	colBackground drawing.Colour = iota
	colIsland
	colIslandDone
	colBridge
	colText
)

func (Backend) ColourTable() []string {
	return []string{"background", "island", "island-done", "bridge", "text"}
}

func (Backend) PreferredTileSize() int { return 32 }

func (Backend) ComputeSize(p backend.Params, tileSize int) (int, int) {
	pp := p.(*Params)
	return pp.W * tileSize, pp.H * tileSize
}

func (Backend) Flags() backend.Flags { return 0 }

func (Backend) TimingState(s backend.State, ui backend.UI) bool { return false }

func (Backend) AnimLength(old, newState backend.State, dir int, ui backend.UI) float64 {
	return 0
}

func (Backend) FlashLength(old, newState backend.State, dir int, ui backend.UI) float64 {
	st := newState.(*State)
	if st.Board.Solved() {
		return 0.5
	}
	return 0
}

func (Backend) Status(s backend.State) int {
	st := s.(*State)
	if st.Board.Solved() {
		return 1
	}
	return 0
}

func (Backend) Redraw(dr drawing.Drawing, old, cur backend.State, dir int, uiv backend.UI, animTime, flashTime float64) {
	st := cur.(*State)
	const tile = 32

	dr.StartDraw()
	defer dr.EndDraw()

	r := drawing.Rect{X: 0, Y: 0, W: st.Board.W * tile, H: st.Board.H * tile}
	dr.DrawRect(r, colBackground)

	for _, e := range st.Board.Edges {
		if e.Count == 0 {
			continue
		}
		a, c := st.Board.Islands[e.A], st.Board.Islands[e.B]
		from := drawing.Point{X: a.X*tile + tile/2, Y: a.Y*tile + tile/2}
		to := drawing.Point{X: c.X*tile + tile/2, Y: c.Y*tile + tile/2}
		dr.DrawLine(from, to, colBridge)
		if e.Count == 2 {
			if e.Horizontal {
				dr.DrawLine(drawing.Point{X: from.X, Y: from.Y + 3}, drawing.Point{X: to.X, Y: to.Y + 3}, colBridge)
			} else {
				dr.DrawLine(drawing.Point{X: from.X + 3, Y: from.Y}, drawing.Point{X: to.X + 3, Y: to.Y}, colBridge)
			}
		}
	}

	for i, isl := range st.Board.Islands {
		colour := colIsland
		if st.Board.CurrentCount(i) == isl.Clue {
			colour = colIslandDone
		}
		centre := drawing.Point{X: isl.X*tile + tile/2, Y: isl.Y*tile + tile/2}
		dr.DrawCircle(centre, tile/2-2, colour, colText, true)
		dr.DrawText(centre, true, tile/2, drawing.AlignCentre, colText, strconv.Itoa(isl.Clue))
	}

	dr.Update(r)
}
