package dsf

import (
	"testing"

	"pgregory.net/rapid"
)

func TestMergeSmallerIndexWins(t *testing.T) {
	f := New(10)
	if err := f.Merge(7, 2, false); err != nil {
		t.Fatalf("merge: %v", err)
	}
	root, _ := f.Find(7)
	if root != 2 {
		t.Fatalf("expected root 2 (smaller index), got %d", root)
	}
	root, _ = f.Find(2)
	if root != 2 {
		t.Fatalf("root of root should be itself, got %d", root)
	}
}

func TestContradictoryMergeSelf(t *testing.T) {
	f := New(3)
	if err := f.Merge(1, 1, true); err != ErrContradictoryMerge {
		t.Fatalf("expected ErrContradictoryMerge, got %v", err)
	}
}

func TestParityPropagation(t *testing.T) {
	f := New(4)
	// 0 and 1 opposite; 1 and 2 opposite => 0 and 2 same.
	if err := f.Merge(0, 1, true); err != nil {
		t.Fatal(err)
	}
	if err := f.Merge(1, 2, true); err != nil {
		t.Fatal(err)
	}
	if f.Parity(0, 2) {
		t.Fatalf("0 and 2 should have equal parity (opposite of opposite)")
	}
	if !f.Parity(0, 1) {
		t.Fatalf("0 and 1 should have opposite parity")
	}
}

func TestSnapshotRestore(t *testing.T) {
	f := New(5)
	f.Merge(0, 1, false)
	snap := f.Snapshot()
	f.Merge(2, 3, false)
	f.Merge(1, 2, false)
	f.Restore(snap)
	if f.Connected(1, 2) {
		t.Fatalf("restore should have undone the later merges")
	}
	if !f.Connected(0, 1) {
		t.Fatalf("restore should have kept the merge taken before the snapshot")
	}
}

// TestRapidMergeFindInvariant checks, across random sequences of merges,
// that every element's Find always resolves to a root whose class contains
// it, and that two elements merged (even transitively, even under
// parity) are always reported Connected.
func TestRapidMergeFindInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 40).Draw(t, "n")
		f := New(n)
		ops := rapid.IntRange(0, 200).Draw(t, "ops")

		type pair struct{ x, y int }
		var merged []pair

		for i := 0; i < ops; i++ {
			x := rapid.IntRange(0, n-1).Draw(t, "x")
			y := rapid.IntRange(0, n-1).Draw(t, "y")
			inv := rapid.Bool().Draw(t, "inv")
			if err := f.Merge(x, y, inv); err == nil {
				merged = append(merged, pair{x, y})
			}
		}

		for _, p := range merged {
			if !f.Connected(p.x, p.y) {
				t.Fatalf("merged pair (%d,%d) not connected after further ops", p.x, p.y)
			}
		}

		for x := 0; x < n; x++ {
			root, _ := f.Find(x)
			root2, _ := f.Find(root)
			if root2 != root {
				t.Fatalf("root %d is not idempotent under Find", root)
			}
		}
	})
}
