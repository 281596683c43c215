package bridges

import (
	"testing"

	"pgregory.net/rapid"
)

// sampleBoard is a 3x3 diamond: four edge-midpoint islands around a centre
// island, each joined to the centre by a candidate edge.
func sampleBoard() *Board {
	islands := []Island{
		{X: 1, Y: 0, Clue: 1},
		{X: 0, Y: 1, Clue: 1},
		{X: 1, Y: 1, Clue: 4},
		{X: 2, Y: 1, Clue: 1},
		{X: 1, Y: 2, Clue: 1},
	}
	return NewBoard(3, 3, islands, 2)
}

func TestNewBoardDerivesOrthogonalEdgesOnly(t *testing.T) {
	b := sampleBoard()
	// The outer islands are not orthogonally aligned with each other, only
	// with the centre island; expect exactly 4 edges.
	if len(b.Edges) != 4 {
		t.Fatalf("expected 4 derived edges, got %d: %+v", len(b.Edges), b.Edges)
	}
	for i := range b.Islands {
		if len(b.adjacent[i]) == 0 {
			t.Fatalf("island %d has no adjacent edges", i)
		}
	}
}

func TestCurrentCountAndFreeCapacity(t *testing.T) {
	b := sampleBoard()
	centre := 2 // index of the (1,1) island in islands slice
	if b.CurrentCount(centre) != 0 {
		t.Fatalf("fresh board should have zero bridges drawn")
	}
	if b.FreeCapacity(centre) != 4*2 {
		t.Fatalf("centre island touches 4 edges at capacity 2 each, got free=%d", b.FreeCapacity(centre))
	}
	before := b.FreeCapacity(b.Edges[0].A)
	b.Edges[0].Count = 2
	after := b.FreeCapacity(b.Edges[0].A)
	if after != before-2 {
		t.Fatalf("drawing 2 bridges should reduce free capacity by 2: before=%d after=%d", before, after)
	}
}

func TestSolvedRequiresConnectivity(t *testing.T) {
	// Two disjoint islands whose clues are satisfied by a bridge between
	// each other, plus a second pair not reachable from the first: every
	// clue is met locally but the graph isn't fully connected.
	islands := []Island{
		{X: 0, Y: 0, Clue: 1},
		{X: 2, Y: 0, Clue: 1},
		{X: 0, Y: 2, Clue: 1},
		{X: 2, Y: 2, Clue: 1},
	}
	b := NewBoard(3, 3, islands, 2)
	b.Edges[0].Count = 1 // top pair
	b.Edges[1].Count = 1 // bottom pair
	for i, isl := range b.Islands {
		if b.CurrentCount(i) != isl.Clue {
			t.Fatalf("island %d clue not met by construction: got %d want %d", i, b.CurrentCount(i), isl.Clue)
		}
	}
	if b.Solved() {
		t.Fatalf("two satisfied-but-disconnected components must not count as solved")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	b := sampleBoard()
	desc := EncodeDescription(b)

	decoded, err := DecodeDescription(b.W, b.H, 2, desc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Islands) != len(b.Islands) {
		t.Fatalf("island count mismatch: got %d want %d", len(decoded.Islands), len(b.Islands))
	}
	for i, isl := range orderedByCell(b) {
		got := orderedByCell(decoded)[i]
		if got != isl {
			t.Fatalf("island %d mismatch: got %+v want %+v", i, got, isl)
		}
	}
}

func TestDecodeRejectsClueCountMismatch(t *testing.T) {
	// "AaAaAaAaA" covers all 9 cells of a 3x3 board with 5 islands, but
	// only 2 clue digits follow.
	if _, err := DecodeDescription(3, 3, 2, "AaAaAaAaA,11"); err == nil {
		t.Fatalf("expected an error when clue digits don't match island count")
	}
}

func TestDecodeRejectsMissingTrailer(t *testing.T) {
	if _, err := DecodeDescription(3, 3, 2, "i"); err == nil {
		t.Fatalf("expected an error for a description with no clue trailer")
	}
}

// TestEncodeDecodeRoundTripProperty checks that, for any set of distinct
// island positions and clues on a grid, EncodeDescription/DecodeDescription
// preserve every island's (X, Y, Clue) regardless of how many islands are
// planted or where.
func TestEncodeDecodeRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := rapid.IntRange(3, 8).Draw(t, "w")
		h := rapid.IntRange(3, 8).Draw(t, "h")

		count := rapid.IntRange(1, (w*h+1)/2).Draw(t, "count")
		seen := make(map[int]bool, count)
		var islands []Island
		for len(islands) < count {
			idx := rapid.IntRange(0, w*h-1).Draw(t, "idx")
			if seen[idx] {
				continue
			}
			seen[idx] = true
			clue := rapid.IntRange(1, 9).Draw(t, "clue")
			islands = append(islands, Island{X: idx % w, Y: idx / w, Clue: clue})
		}

		b := NewBoard(w, h, islands, 2)
		desc := EncodeDescription(b)

		decoded, err := DecodeDescription(w, h, 2, desc)
		if err != nil {
			t.Fatalf("decode %q: %v", desc, err)
		}
		want := orderedByCell(b)
		got := orderedByCell(decoded)
		if len(got) != len(want) {
			t.Fatalf("island count changed: got %d want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("island %d: got %+v want %+v (desc %q)", i, got[i], want[i], desc)
			}
		}
	})
}
