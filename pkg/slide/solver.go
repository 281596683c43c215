package slide

import (
	"errors"
	"fmt"
)

// ErrUnsolvable is returned by Solve when no sequence of block translations
// reaches the target within the given move limit.
var ErrUnsolvable = errors.New("slide: no solution within move limit")

type delta struct{ dx, dy int }

var directions = [4]delta{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// node is one visited board in the solver's BFS frontier: the visited set
// entry and the predecessor link move reconstruction walks back through.
type node struct {
	board           *Board
	dist            int
	parent          *node
	moveSrc, moveDst int // row-major cell indices; -1 for the root
}

// Solve implements solve_board (spec §4.F): BFS over every reachable block
// translation from b, stopping at the first board whose target cell holds
// CellMainAnchor. moveLimit < 0 means unbounded. Returns the path length and
// the move strings "M<src>-<dst>" in order, or ErrUnsolvable.
func Solve(b *Board, targetX, targetY, moveLimit int) (length int, moves []string, err error) {
	targetIdx := targetY*b.W + targetX

	root := &node{board: b.Clone(), moveSrc: -1, moveDst: -1}
	if root.board.Cells[targetIdx] == CellMainAnchor {
		return 0, nil, nil
	}

	visited := map[string]*node{root.board.key(): root}
	queue := []*node{root}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if moveLimit >= 0 && cur.dist >= moveLimit {
			continue
		}

		which, blocks := BuildBlockIndex(cur.board)
		for anchorIdx, cells := range blocks {
			isMain := cur.board.Cells[anchorIdx] == CellMainAnchor
			for _, d := range reachableTranslations(cur.board, anchorIdx, cells, which, isMain) {
				candidate := translateBoard(cur.board, cells, d)
				key := candidate.key()
				if _, seen := visited[key]; seen {
					continue
				}
				newAnchorIdx := anchorIdx + d.dy*cur.board.W + d.dx
				child := &node{
					board:   candidate,
					dist:    cur.dist + 1,
					parent:  cur,
					moveSrc: anchorIdx,
					moveDst: newAnchorIdx,
				}
				visited[key] = child
				if candidate.Cells[targetIdx] == CellMainAnchor {
					return child.dist, reconstructMoves(child), nil
				}
				queue = append(queue, child)
			}
		}
	}

	return -1, nil, ErrUnsolvable
}

func reconstructMoves(n *node) []string {
	var rev []string
	for n.parent != nil {
		rev = append(rev, fmt.Sprintf("M%d-%d", n.moveSrc, n.moveDst))
		n = n.parent
	}
	moves := make([]string, len(rev))
	for i, m := range rev {
		moves[len(rev)-1-i] = m
	}
	return moves
}

// reachableTranslations BFS-explores, from delta (0,0), every non-zero
// translation of the block anchored at anchorIdx that is legal against the
// static rest of the board (spec §4.F's per-anchor inner BFS). The
// reached-bitmap is keyed by delta since board extents bound the reachable
// offsets.
func reachableTranslations(b *Board, anchorIdx int, cells []int, which []int, isMain bool) []delta {
	reached := map[delta]bool{{0, 0}: true}
	queue := []delta{{0, 0}}
	var out []delta

	for len(queue) > 0 {
		d := queue[0]
		queue = queue[1:]
		for _, dir := range directions {
			nd := delta{d.dx + dir.dx, d.dy + dir.dy}
			if reached[nd] {
				continue
			}
			if !validTranslation(b, cells, which, anchorIdx, nd, isMain) {
				continue
			}
			reached[nd] = true
			queue = append(queue, nd)
			out = append(out, nd)
		}
	}
	return out
}

// validTranslation implements the per-cell predicate of spec §4.F: every
// translated cell must land on EMPTY or on a cell already in the same
// block, and (unless this is the main block) never on a forcefield cell.
func validTranslation(b *Board, cells []int, which []int, anchorIdx int, d delta, isMain bool) bool {
	for _, ci := range cells {
		x, y := ci%b.W, ci/b.W
		nx, ny := x+d.dx, y+d.dy
		if nx < 0 || nx >= b.W || ny < 0 || ny >= b.H {
			return false
		}
		nidx := ny*b.W + nx
		sameBlock := which[nidx] == anchorIdx
		if b.Cells[nidx] != CellEmpty && !sameBlock {
			return false
		}
		if !isMain && b.Forcefield[nidx] {
			return false
		}
	}
	return true
}

// translateBoard erases the block's cells from their current squares, then
// stamps the same byte values at the translated squares. Back-link
// distances are translation-invariant (a uniform shift changes no pairwise
// row-major index difference), so every cell keeps its original value;
// only its position moves. Two full passes avoid a cell overwriting another
// cell of the same block before it has been read.
func translateBoard(b *Board, cells []int, d delta) *Board {
	nb := b.Clone()
	orig := make([]Cell, len(cells))
	for i, ci := range cells {
		orig[i] = b.Cells[ci]
	}
	for _, ci := range cells {
		nb.Cells[ci] = CellEmpty
	}
	for i, ci := range cells {
		x, y := ci%b.W, ci/b.W
		nx, ny := x+d.dx, y+d.dy
		nb.Cells[ny*b.W+nx] = orig[i]
	}
	return nb
}
