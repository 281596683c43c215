// Package bridges implements the bridge-drawing back-end (spec §4.G): an
// island/line-cell board, a three-pass deductive solver built on pkg/dsf,
// and a random island-graph generator, wired behind backend.Backend.
package bridges

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Island is one numbered node: the bridges terminating at it must sum to
// Clue exactly in a solved puzzle.
type Island struct {
	X, Y, Clue int
}

// Edge is a candidate (or drawn) bridge between two islands with no island
// between them — the "surrounds" relation of spec §3. A is always the
// lower island index.
type Edge struct {
	A, B       int
	Horizontal bool
	Max        int // capacity, normally 2
	Count      int // bridges currently drawn, 0..Max
	Excluded   bool // permanently ruled out (would close a loop)
}

// Board is one bridge-drawing puzzle instance: islands plus the derived
// edges between nearest neighbours in each of the four cardinal directions.
type Board struct {
	W, H     int
	Islands  []Island
	Edges    []Edge
	adjacent [][]int // adjacent[island index] = edge indices touching it
}

// NewBoard derives the surrounds relation (edges) for a set of islands: for
// each row and column, consecutive islands (by straight-line visibility)
// are connected by one candidate edge.
func NewBoard(w, h int, islands []Island, maxPerEdge int) *Board {
	b := &Board{W: w, H: h, Islands: append([]Island(nil), islands...)}
	b.adjacent = make([][]int, len(b.Islands))

	byRow := make(map[int][]int) // y -> island indices, to be sorted by X
	byCol := make(map[int][]int) // x -> island indices, to be sorted by Y
	for i, isl := range b.Islands {
		byRow[isl.Y] = append(byRow[isl.Y], i)
		byCol[isl.X] = append(byCol[isl.X], i)
	}
	addRun := func(idxs []int, horizontal bool) {
		sort.Slice(idxs, func(i, j int) bool {
			if horizontal {
				return b.Islands[idxs[i]].X < b.Islands[idxs[j]].X
			}
			return b.Islands[idxs[i]].Y < b.Islands[idxs[j]].Y
		})
		for k := 0; k+1 < len(idxs); k++ {
			a, c := idxs[k], idxs[k+1]
			if a > c {
				a, c = c, a
			}
			ei := len(b.Edges)
			b.Edges = append(b.Edges, Edge{A: a, B: c, Horizontal: horizontal, Max: maxPerEdge})
			b.adjacent[a] = append(b.adjacent[a], ei)
			b.adjacent[c] = append(b.adjacent[c], ei)
		}
	}
	rowKeys := make([]int, 0, len(byRow))
	for y := range byRow {
		rowKeys = append(rowKeys, y)
	}
	sort.Ints(rowKeys)
	for _, y := range rowKeys {
		addRun(byRow[y], true)
	}

	colKeys := make([]int, 0, len(byCol))
	for x := range byCol {
		colKeys = append(colKeys, x)
	}
	sort.Ints(colKeys)
	for _, x := range colKeys {
		addRun(byCol[x], false)
	}
	return b
}

// Clone deep-copies a board (used for solver trials and move execution).
func (b *Board) Clone() *Board {
	nb := &Board{
		W:       b.W,
		H:       b.H,
		Islands: append([]Island(nil), b.Islands...),
		Edges:   append([]Edge(nil), b.Edges...),
	}
	nb.adjacent = make([][]int, len(b.adjacent))
	for i, es := range b.adjacent {
		nb.adjacent[i] = append([]int(nil), es...)
	}
	return nb
}

// CurrentCount returns the total bridges currently drawn at island i.
func (b *Board) CurrentCount(i int) int {
	total := 0
	for _, ei := range b.adjacent[i] {
		total += b.Edges[ei].Count
	}
	return total
}

// FreeCapacity returns how many more bridges could still be added at
// island i across every edge that touches it.
func (b *Board) FreeCapacity(i int) int {
	total := 0
	for _, ei := range b.adjacent[i] {
		e := b.Edges[ei]
		if e.Excluded {
			continue
		}
		total += e.Max - e.Count
	}
	return total
}

// Solved reports whether every island's drawn bridges equal its clue and
// the bridge graph connects every island (a disconnected-but-locally-
// satisfied board is not a solution).
func (b *Board) Solved() bool {
	for i, isl := range b.Islands {
		if b.CurrentCount(i) != isl.Clue {
			return false
		}
	}
	return b.isConnected()
}

func (b *Board) isConnected() bool {
	if len(b.Islands) == 0 {
		return true
	}
	seen := make([]bool, len(b.Islands))
	stack := []int{0}
	seen[0] = true
	count := 1
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, ei := range b.adjacent[i] {
			e := b.Edges[ei]
			if e.Count == 0 {
				continue
			}
			other := e.A
			if other == i {
				other = e.B
			}
			if !seen[other] {
				seen[other] = true
				count++
				stack = append(stack, other)
			}
		}
	}
	return count == len(b.Islands)
}

// EncodeDescription renders islands as run-length island/empty tokens over
// the grid (lowercase a-z for an empty run of that length, uppercase A-Z
// for a run of bare island cells) followed by one clue digit per island in
// row-major order, matching §4.G point 4's "run-length encoding of islands
// and empty runs... followed by one clue digit per island".
func EncodeDescription(b *Board) string {
	islandAt := make(map[int]int, len(b.Islands)) // cell index -> island index
	for i, isl := range b.Islands {
		islandAt[isl.Y*b.W+isl.X] = i
	}

	var sb strings.Builder
	n := b.W * b.H
	i := 0
	for i < n {
		_, isIsland := islandAt[i]
		j := i
		for j < n {
			_, jIsland := islandAt[j]
			if jIsland != isIsland {
				break
			}
			if j-i == 26 {
				break
			}
			j++
		}
		run := j - i
		if isIsland {
			sb.WriteByte('A' + byte(run-1))
		} else {
			sb.WriteByte('a' + byte(run-1))
		}
		i = j
	}

	sb.WriteByte(',')
	for _, isl := range orderedByCell(b) {
		sb.WriteString(strconv.Itoa(isl.Clue))
	}
	return sb.String()
}

func orderedByCell(b *Board) []Island {
	out := append([]Island(nil), b.Islands...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// DecodeDescription parses the grammar EncodeDescription emits into a
// maxPerEdge-capped Board.
func DecodeDescription(w, h, maxPerEdge int, s string) (*Board, error) {
	body, cluesStr, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("bridges: description %q has no clue trailer", s)
	}

	n := w * h
	isIsland := make([]bool, n)
	pos := 0
	for _, r := range body {
		var run int
		var island bool
		switch {
		case r >= 'a' && r <= 'z':
			run = int(r-'a') + 1
			island = false
		case r >= 'A' && r <= 'Z':
			run = int(r-'A') + 1
			island = true
		default:
			return nil, fmt.Errorf("bridges: unrecognized token %q", r)
		}
		for k := 0; k < run; k++ {
			if pos >= n {
				return nil, fmt.Errorf("bridges: description overflows %dx%d board", w, h)
			}
			isIsland[pos] = island
			pos++
		}
	}
	if pos != n {
		return nil, fmt.Errorf("bridges: description covers %d cells, want %d", pos, n)
	}

	var islands []Island
	for idx, present := range isIsland {
		if present {
			islands = append(islands, Island{X: idx % w, Y: idx / w})
		}
	}
	if len(cluesStr) != len(islands) {
		return nil, fmt.Errorf("bridges: %d clue digits for %d islands", len(cluesStr), len(islands))
	}
	for i, r := range cluesStr {
		if r < '1' || r > '9' {
			return nil, fmt.Errorf("bridges: invalid clue digit %q", r)
		}
		islands[i].Clue = int(r - '0')
	}

	return NewBoard(w, h, islands, maxPerEdge), nil
}
