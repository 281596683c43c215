package slide

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"puzzlecore/pkg/backend"
	"puzzlecore/pkg/drawing"
	"puzzlecore/pkg/prng"
)

// Params is the sliding-block back-end's GameParameters: board extents and
// an optional cap on the generator's/solver's move budget (-1 = unbounded).
type Params struct {
	W, H      int
	MoveLimit int
}

func (p *Params) Clone() backend.Params {
	cp := *p
	return &cp
}

// State is the sliding-block back-end's GameState: a board plus the target
// cell the main block must reach.
type State struct {
	Board            *Board
	TargetX, TargetY int
}

// UI tracks an in-progress click-drag-release gesture selecting a block to
// slide.
type UI struct {
	Dragging bool
	Src      int
}

// Backend implements backend.Backend for the sliding-block puzzle.
type Backend struct{}

func (Backend) Name() string { return "slide" }

func (Backend) DefaultParams() backend.Params {
	return &Params{W: 7, H: 9, MoveLimit: -1}
}

func (Backend) Presets() []backend.Preset {
	return []backend.Preset{
		{Name: "Small", Params: &Params{W: 5, H: 6, MoveLimit: -1}},
		{Name: "Classic", Params: &Params{W: 7, H: 9, MoveLimit: -1}},
		{Name: "Large", Params: &Params{W: 9, H: 11, MoveLimit: -1}},
	}
}

func (Backend) EncodeParams(p backend.Params, full bool) string {
	pp := p.(*Params)
	s := fmt.Sprintf("%dx%d", pp.W, pp.H)
	if full && pp.MoveLimit >= 0 {
		s += "m" + strconv.Itoa(pp.MoveLimit)
	}
	return s
}

var paramsRe = regexp.MustCompile(`^(\d+)x(\d+)(?:m(\d+))?$`)

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
		if limit, err := strconv.Atoi(m[3]); err == nil {
			pp.MoveLimit = limit
		}
	}
}

func (Backend) ValidateParams(p backend.Params, full bool) error {
	pp := p.(*Params)
	if pp.W < 4 || pp.H < 3 {
		return fmt.Errorf("slide: board %dx%d is too small", pp.W, pp.H)
	}
	return nil
}

func (Backend) NewDesc(p backend.Params, rng *prng.Source) (string, string, error) {
	pp := p.(*Params)
	res, err := Generate(pp.W, pp.H, pp.MoveLimit, rng)
	if err != nil {
		return "", "", err
	}
	return EncodeDescription(res.Board, res.TargetX, res.TargetY, res.MinMoves), "", nil
}

func (Backend) ValidateDesc(p backend.Params, desc string) error {
	pp := p.(*Params)
	_, _, _, _, err := DecodeDescription(pp.W, pp.H, desc)
	return err
}

func (Backend) NewGame(p backend.Params, desc string) (backend.State, error) {
	pp := p.(*Params)
	board, tx, ty, _, err := DecodeDescription(pp.W, pp.H, desc)
	if err != nil {
		return nil, err
	}
	return &State{Board: board, TargetX: tx, TargetY: ty}, nil
}

func (Backend) DupGame(s backend.State) backend.State {
	st := s.(*State)
	return &State{Board: st.Board.Clone(), TargetX: st.TargetX, TargetY: st.TargetY}
}

func (Backend) Solve(initial, current backend.State, aux string) (string, error) {
	st := current.(*State)
	_, moves, err := Solve(st.Board, st.TargetX, st.TargetY, -1)
	if err != nil {
		return "", err
	}
	return strings.Join(moves, ""), nil
}

func (Backend) TextFormat(s backend.State) (string, bool) {
	st := s.(*State)
	return TextFormat(st.Board), true
}

func (Backend) NewUI(s backend.State) backend.UI { return &UI{} }

func (Backend) EncodeUI(ui backend.UI) string {
	u := ui.(*UI)
	return fmt.Sprintf("%t,%d", u.Dragging, u.Src)
}

func (Backend) DecodeUI(s backend.State, encoded string) backend.UI {
	u := &UI{}
	parts := strings.Split(encoded, ",")
	if len(parts) == 2 {
		u.Dragging = parts[0] == "true"
		u.Src, _ = strconv.Atoi(parts[1])
	}
	return u
}

func (Backend) ChangedState(ui backend.UI, oldState, newState backend.State) {}

var moveRe = regexp.MustCompile(`M(\d+)-(\d+)`)

func (Backend) InterpretMove(s backend.State, uiv backend.UI, ev backend.InputEvent) (string, backend.InterpretResult) {
	st := s.(*State)
	ui := uiv.(*UI)
	inBounds := ev.X >= 0 && ev.X < st.Board.W && ev.Y >= 0 && ev.Y < st.Board.H

	switch ev.Button {
	case backend.LeftButton:
		if !inBounds {
			return "", backend.Ignored
		}
		which, _ := BuildBlockIndex(st.Board)
		idx := ev.Y*st.Board.W + ev.X
		if which[idx] < 0 {
			return "", backend.Ignored
		}
		ui.Dragging = true
		ui.Src = which[idx]
		return "", backend.UIUpdate

	case backend.LeftDrag:
		if !ui.Dragging {
			return "", backend.Ignored
		}
		return "", backend.UIUpdate

	case backend.LeftRelease:
		if !ui.Dragging {
			return "", backend.Ignored
		}
		ui.Dragging = false
		if !inBounds {
			return "", backend.Ignored
		}
		which, blocks := BuildBlockIndex(st.Board)
		cells, ok := blocks[ui.Src]
		if !ok {
			return "", backend.Ignored
		}
		dst := ev.Y*st.Board.W + ev.X
		isMain := st.Board.Cells[ui.Src] == CellMainAnchor
		want := delta{
			dx: dst%st.Board.W - ui.Src%st.Board.W,
			dy: dst/st.Board.W - ui.Src/st.Board.W,
		}
		for _, d := range reachableTranslations(st.Board, ui.Src, cells, which, isMain) {
			if d == want {
				return fmt.Sprintf("M%d-%d", ui.Src, dst), backend.Move
			}
		}
		return "", backend.Ignored

	default:
		return "", backend.Ignored
	}
}

func (Backend) ExecuteMove(s backend.State, moveStr string) (backend.State, error) {
	st := s.(*State)
	matches := moveRe.FindAllStringSubmatch(moveStr, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("slide: malformed move string %q", moveStr)
	}
	board := st.Board.Clone()
	for _, m := range matches {
		src, _ := strconv.Atoi(m[1])
		dst, _ := strconv.Atoi(m[2])
		if err := applyAnchorMove(board, src, dst); err != nil {
			return nil, err
		}
	}
	return &State{Board: board, TargetX: st.TargetX, TargetY: st.TargetY}, nil
}

func applyAnchorMove(board *Board, src, dst int) error {
	which, blocks := BuildBlockIndex(board)
	cells, ok := blocks[src]
	if !ok {
		return fmt.Errorf("slide: no block anchored at %d", src)
	}
	isMain := board.Cells[src] == CellMainAnchor
	d := delta{
		dx: dst%board.W - src%board.W,
		dy: dst/board.W - src/board.W,
	}
	if !validTranslation(board, cells, which, src, d, isMain) {
		return fmt.Errorf("slide: illegal move M%d-%d", src, dst)
	}
	nb := translateBoard(board, cells, d)
	*board = *nb
	return nil
}

const (
	colBackground drawing.Colour = iota
	colWall
	colMain
	colBlock
	colForcefield
)

func (Backend) ColourTable() []string {
	return []string{"background", "wall", "main", "block", "forcefield"}
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
	if st.Board.Cells[st.TargetY*st.Board.W+st.TargetX] == CellMainAnchor {
		return 0.5
	}
	return 0
}

func (Backend) Status(s backend.State) int {
	st := s.(*State)
	if st.Board.Cells[st.TargetY*st.Board.W+st.TargetX] == CellMainAnchor {
		return 1
	}
	return 0
}

func (Backend) Redraw(dr drawing.Drawing, old, cur backend.State, dir int, uiv backend.UI, animTime, flashTime float64) {
	st := cur.(*State)
	which, _ := BuildBlockIndex(st.Board)
	const tile = 32

	dr.StartDraw()
	defer dr.EndDraw()

	for y := 0; y < st.Board.H; y++ {
		for x := 0; x < st.Board.W; x++ {
			i := y*st.Board.W + x
			colour := colBackground
			switch {
			case st.Board.Cells[i] == CellWall:
				colour = colWall
			case st.Board.Cells[i] == CellEmpty:
				colour = colBackground
			case which[i] >= 0 && st.Board.Cells[which[i]] == CellMainAnchor:
				colour = colMain
			default:
				colour = colBlock
			}
			r := drawing.Rect{X: x * tile, Y: y * tile, W: tile, H: tile}
			dr.DrawRect(r, colour)
			if st.Board.Forcefield[i] {
				dr.DrawRect(drawing.Rect{X: r.X + 4, Y: r.Y + 4, W: tile - 8, H: tile - 8}, colForcefield)
			}
			dr.Update(r)
		}
	}
}
