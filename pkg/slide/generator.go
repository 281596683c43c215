package slide

import (
	"fmt"
	"sort"

	"puzzlecore/pkg/dsf"
	"puzzlecore/pkg/prng"
)

// GenResult is one freshly generated puzzle instance: the board plus its
// target cell and the minimum move count the generator verified while
// building it.
type GenResult struct {
	Board            *Board
	TargetX, TargetY int
	MinMoves         int
}

// Generate implements spec §4.F's merge-driven generator: plant singleton
// anchors and the main block, delete as many singletons as remain solvable,
// then greedily merge adjacent blocks (in a shuffled edge order) as long as
// the puzzle stays solvable within moveLimit.
func Generate(w, h, moveLimit int, rng *prng.Source) (*GenResult, error) {
	if w < 4 || h < 3 {
		return nil, fmt.Errorf("slide: board %dx%d too small to generate", w, h)
	}

	b := NewBoard(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == 0 || y == 0 || x == w-1 || y == h-1 {
				b.Cells[b.idx(x, y)] = CellWall
			} else {
				b.Cells[b.idx(x, y)] = CellAnchor
			}
		}
	}

	mainX, mainY := 1, 1
	b.Cells[b.idx(mainX, mainY)] = CellMainAnchor
	b.Cells[b.idx(mainX+1, mainY)] = 1

	targetX, targetY := w-3, h-2
	b.Forcefield[b.idx(targetX, targetY)] = true
	b.Forcefield[b.idx(targetX+1, targetY)] = true

	// Step 3: sweep singletons in reverse row-major order, deleting any
	// whose removal leaves the puzzle solvable within the move limit.
	for i := len(b.Cells) - 1; i >= 0; i-- {
		if b.Cells[i] != CellAnchor || b.Forcefield[i] {
			continue
		}
		b.Cells[i] = CellEmpty
		if _, _, err := Solve(b, targetX, targetY, moveLimit); err != nil {
			b.Cells[i] = CellAnchor
		}
	}

	// Step 4: enumerate inter-block edges, shuffle, and greedily merge.
	if err := mergeBlocks(b, targetX, targetY, moveLimit, rng); err != nil {
		return nil, err
	}

	length, _, err := Solve(b, targetX, targetY, moveLimit)
	if err != nil {
		return nil, fmt.Errorf("slide: generated board unsolvable: %w", err)
	}

	return &GenResult{Board: b, TargetX: targetX, TargetY: targetY, MinMoves: length}, nil
}

type blockEdge struct{ a, b int } // anchor indices, a < b

func mergeBlocks(b *Board, targetX, targetY, moveLimit int, rng *prng.Source) error {
	which, blocks := BuildBlockIndex(b)

	anchors := make([]int, 0, len(blocks))
	for a := range blocks {
		anchors = append(anchors, a)
	}
	sort.Ints(anchors)

	edgeSet := map[blockEdge]bool{}
	addEdge := func(i, j int) {
		a1, a2 := which[i], which[j]
		if a1 < 0 || a2 < 0 || a1 == a2 {
			return
		}
		if a1 > a2 {
			a1, a2 = a2, a1
		}
		edgeSet[blockEdge{a1, a2}] = true
	}
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			i := b.idx(x, y)
			if x+1 < b.W {
				addEdge(i, b.idx(x+1, y))
			}
			if y+1 < b.H {
				addEdge(i, b.idx(x, y+1))
			}
		}
	}
	edges := make([]blockEdge, 0, len(edgeSet))
	for e := range edgeSet {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].a != edges[j].a {
			return edges[i].a < edges[j].a
		}
		return edges[i].b < edges[j].b
	})
	perm := rng.ShuffleInts(len(edges))

	// classOf maps an anchor's original index to a compact dsf element id;
	// classAnchor tracks each class's current representative (the
	// lexicographically-first cell of whatever merged block it now is),
	// since a merge relabels the surviving anchor.
	classOf := make(map[int]int, len(anchors))
	classAnchor := make(map[int]int, len(anchors))
	for i, a := range anchors {
		classOf[a] = i
		classAnchor[i] = a
	}
	forest := dsf.New(len(anchors))
	tried := map[[2]int]bool{}

	for _, p := range perm {
		e := edges[p]
		c1, ok1 := classOf[e.a]
		c2, ok2 := classOf[e.b]
		if !ok1 || !ok2 {
			continue
		}
		r1, _ := forest.Find(c1)
		r2, _ := forest.Find(c2)
		if r1 == r2 {
			continue
		}
		lo, hi := r1, r2
		if lo > hi {
			lo, hi = hi, lo
		}
		if tried[[2]int{lo, hi}] {
			continue
		}

		a1, a2 := classAnchor[r1], classAnchor[r2]
		_, curBlocks := BuildBlockIndex(b)
		cells1, cells2 := curBlocks[a1], curBlocks[a2]
		if cells1 == nil || cells2 == nil {
			tried[[2]int{lo, hi}] = true
			continue
		}

		merged := append(append([]int(nil), cells1...), cells2...)
		saveCells := make(map[int]Cell, len(merged))
		for _, ci := range merged {
			saveCells[ci] = b.Cells[ci]
		}
		isMain := b.Cells[a1] == CellMainAnchor || b.Cells[a2] == CellMainAnchor

		sorted := append([]int(nil), merged...)
		sort.Ints(sorted)
		rewriteBlock(b, sorted, isMain)

		if _, _, err := Solve(b, targetX, targetY, moveLimit); err != nil {
			for ci, c := range saveCells {
				b.Cells[ci] = c
			}
			tried[[2]int{lo, hi}] = true
			continue
		}

		if err := forest.Merge(c1, c2, false); err != nil {
			return fmt.Errorf("slide: merge bookkeeping: %w", err)
		}
		newRoot, _ := forest.Find(c1)
		classAnchor[newRoot] = sorted[0]
	}
	return nil
}

// rewriteBlock re-links a merged block's cells into a single back-link chain
// in ascending row-major order: the first cell becomes the (main) anchor,
// and every later cell's byte is its distance back to its immediate
// predecessor in that order.
func rewriteBlock(b *Board, sortedCells []int, isMain bool) {
	for i, ci := range sortedCells {
		if i == 0 {
			if isMain {
				b.Cells[ci] = CellMainAnchor
			} else {
				b.Cells[ci] = CellAnchor
			}
			continue
		}
		b.Cells[ci] = Cell(ci - sortedCells[i-1])
	}
}
