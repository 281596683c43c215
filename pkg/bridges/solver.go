package bridges

import "puzzlecore/pkg/dsf"

// Difficulty selects which of the solver's three escalating passes run
// (spec §4.G: "Easy runs Pass 1 only; Medium Pass 1+2; Hard all three").
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// Status classifies a Solve outcome.
type Status int

const (
	Solved Status = iota
	Stuck
	Impossible
)

// Solve runs the fixed-point deductive solver against b in place, up to
// the passes difficulty allows, until no pass makes further progress.
func Solve(b *Board, difficulty Difficulty) Status {
	forest := dsf.New(len(b.Islands))
	for i := range b.Edges {
		if b.Edges[i].Count > 0 {
			forest.Merge(b.Edges[i].A, b.Edges[i].B, false)
		}
	}

	for {
		changed := pass1(b, forest)
		if difficulty >= Medium {
			if pass2(b, forest) {
				changed = true
			}
		}
		if st := checkContradiction(b); st == Impossible {
			return Impossible
		}
		if !changed {
			if difficulty >= Hard && pass3(b, forest) {
				continue
			}
			break
		}
	}

	if b.Solved() {
		return Solved
	}
	return Stuck
}

// pass1 is the per-island pass: fill every edge to capacity when an
// island's clue exactly equals its current bridges plus remaining
// capacity, and force at least one bridge in every direction when the
// clue exceeds what any (neighbourCount-1) directions alone could supply.
func pass1(b *Board, forest *dsf.Forest) bool {
	changed := false
	for i, isl := range b.Islands {
		cur := b.CurrentCount(i)
		if cur == isl.Clue {
			continue
		}
		free := b.FreeCapacity(i)
		if isl.Clue == cur+free {
			for _, ei := range b.adjacent[i] {
				e := &b.Edges[ei]
				if e.Excluded || e.Count == e.Max {
					continue
				}
				if e.Count == 0 {
					forest.Merge(e.A, e.B, false)
				}
				e.Count = e.Max
				changed = true
			}
			continue
		}
		neighbourCount := len(b.adjacent[i])
		maxPerDir := 0
		for _, ei := range b.adjacent[i] {
			if b.Edges[ei].Max > maxPerDir {
				maxPerDir = b.Edges[ei].Max
			}
		}
		if neighbourCount > 0 && isl.Clue > (neighbourCount-1)*maxPerDir {
			for _, ei := range b.adjacent[i] {
				e := &b.Edges[ei]
				if e.Excluded || e.Count > 0 {
					continue
				}
				forest.Merge(e.A, e.B, false)
				e.Count = 1
				changed = true
			}
		}
	}
	return changed
}

// pass2 is the per-edge pass: refuse to draw a first bridge on an edge
// whose islands are already connected through other bridges (it would
// close a loop), and force a bridge when no other direction at either
// endpoint has enough spare capacity to make up the island's remaining
// clue.
func pass2(b *Board, forest *dsf.Forest) bool {
	changed := false
	for ei := range b.Edges {
		e := &b.Edges[ei]
		if e.Excluded || e.Count > 0 {
			continue
		}
		if forest.Connected(e.A, e.B) {
			e.Excluded = true
			changed = true
			continue
		}
		if edgeIsOnlyWay(b, e.A, ei) || edgeIsOnlyWay(b, e.B, ei) {
			forest.Merge(e.A, e.B, false)
			e.Count = 1
			changed = true
		}
	}
	return changed
}

func edgeIsOnlyWay(b *Board, island, edgeIdx int) bool {
	isl := b.Islands[island]
	cur := b.CurrentCount(island)
	remaining := isl.Clue - cur
	if remaining <= 0 {
		return false
	}
	e := b.Edges[edgeIdx]
	availableElsewhere := 0
	for _, ei := range b.adjacent[island] {
		if ei == edgeIdx {
			continue
		}
		oe := b.Edges[ei]
		if oe.Excluded {
			continue
		}
		availableElsewhere += oe.Max - oe.Count
	}
	return availableElsewhere < remaining && e.Max-e.Count > 0
}

// pass3 is the subgroup-isolation pass, run as two complementary inner
// loops over every edge. The first speculatively raises an edge's own
// bridge count and checks whether doing so leaves a fully-satisfied proper
// subset of the islands connected together — if so the explored count is
// an upper bound on that edge's true maximum, since the whole graph must
// stay connected. The second instead forbids the edge outright and lets
// pass1/pass2 push everything else as far as they legitimately can
// without it: if that alone already contradicts a clue, or still strands
// a fully-satisfied proper subset, the edge can't be the one left at
// zero — it's the only way out of that subset, and must carry a bridge.
func pass3(b *Board, forest *dsf.Forest) bool {
	raised := raiseBoundsOnIsolation(b, forest)
	forced := forceBridgeWhenOnlyWayOut(b, forest)
	return raised || forced
}

func raiseBoundsOnIsolation(b *Board, forest *dsf.Forest) bool {
	changed := false
	for ei := range b.Edges {
		e := b.Edges[ei]
		if e.Excluded || e.Count >= e.Max {
			continue
		}
		for trial := e.Count + 1; trial <= e.Max; trial++ {
			trialBoard := b.Clone()
			trialForest := forest.Clone()
			trialBoard.Edges[ei].Count = trial
			if trial > 0 && e.Count == 0 {
				trialForest.Merge(trialBoard.Edges[ei].A, trialBoard.Edges[ei].B, false)
			}
			for pass1(trialBoard, trialForest) || pass2(trialBoard, trialForest) {
			}
			if checkContradiction(trialBoard) == Impossible {
				continue
			}
			if isolatesProperSubcomponent(trialBoard, trialForest, trialBoard.Edges[ei].A) {
				if b.Edges[ei].Max > trial-1 {
					b.Edges[ei].Max = trial - 1
					changed = true
				}
				break
			}
		}
	}
	return changed
}

func forceBridgeWhenOnlyWayOut(b *Board, forest *dsf.Forest) bool {
	changed := false
	for ei := range b.Edges {
		e := b.Edges[ei]
		if e.Excluded || e.Count > 0 {
			continue
		}
		trialBoard := b.Clone()
		trialForest := forest.Clone()
		trialBoard.Edges[ei].Excluded = true
		for pass1(trialBoard, trialForest) || pass2(trialBoard, trialForest) {
		}
		stillStranded := checkContradiction(trialBoard) == Impossible
		if !stillStranded {
			stillStranded = isolatesProperSubcomponent(trialBoard, trialForest, e.A)
		}
		if stillStranded {
			forest.Merge(e.A, e.B, false)
			b.Edges[ei].Count = 1
			changed = true
		}
	}
	return changed
}

func isolatesProperSubcomponent(b *Board, forest *dsf.Forest, reference int) bool {
	root, _ := forest.Find(reference)
	size := forest.Size(reference)
	if size == len(b.Islands) {
		return false
	}
	for i, isl := range b.Islands {
		r, _ := forest.Find(i)
		if r != root {
			continue
		}
		if b.CurrentCount(i) != isl.Clue {
			return false
		}
	}
	return true
}

// checkContradiction reports Impossible when any island's current bridges
// exceed its clue, or its clue can no longer be reached given remaining
// capacity.
func checkContradiction(b *Board) Status {
	for i, isl := range b.Islands {
		cur := b.CurrentCount(i)
		if cur > isl.Clue {
			return Impossible
		}
		if cur+b.FreeCapacity(i) < isl.Clue {
			return Impossible
		}
	}
	return Stuck
}
