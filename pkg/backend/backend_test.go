package backend

import "testing"

func TestMoveTypeIsSpecial(t *testing.T) {
	cases := map[MoveType]bool{
		MoveNew:     true,
		MoveMove:    false,
		MoveSolve:   true,
		MoveRestart: true,
	}
	for mt, want := range cases {
		if got := mt.IsSpecial(); got != want {
			t.Fatalf("MoveType(%d).IsSpecial() = %v, want %v", mt, got, want)
		}
	}
}

func TestButtonIsButtonPress(t *testing.T) {
	for _, b := range []Button{LeftButton, MiddleButton, RightButton} {
		if !b.IsButtonPress() {
			t.Fatalf("button %d should be a press", b)
		}
	}
	for _, b := range []Button{LeftDrag, LeftRelease, CursorUp, UIUndo} {
		if b.IsButtonPress() {
			t.Fatalf("button %d should not be a press", b)
		}
	}
}

func TestFlagsBitset(t *testing.T) {
	f := SolveAnimates | IsTimed
	if f&SolveAnimates == 0 {
		t.Fatalf("SolveAnimates bit lost")
	}
	if f&IsTimed == 0 {
		t.Fatalf("IsTimed bit lost")
	}
	if f&NotifiesChangedState != 0 {
		t.Fatalf("NotifiesChangedState should not be set")
	}
}
