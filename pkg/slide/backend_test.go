package slide

import (
	"testing"

	"puzzlecore/pkg/backend"
	"puzzlecore/pkg/prng"
)

var _ backend.Backend = Backend{}

func TestBackendLifecycle(t *testing.T) {
	be := Backend{}
	params := be.DefaultParams().(*Params)
	params.W, params.H = 6, 5

	rng := prng.NewSource(123, "slide_backend_test")
	desc, aux, err := be.NewDesc(params, rng)
	if err != nil {
		t.Fatalf("new_desc: %v", err)
	}
	if err := be.ValidateDesc(params, desc); err != nil {
		t.Fatalf("validate_desc rejected a description new_desc produced: %v", err)
	}

	initial, err := be.NewGame(params, desc)
	if err != nil {
		t.Fatalf("new_game: %v", err)
	}

	moveStr, err := be.Solve(initial, initial, aux)
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	final, err := be.ExecuteMove(initial, moveStr)
	if err != nil {
		t.Fatalf("execute_move rejected the solver's own move string: %v", err)
	}
	if be.Status(final) != 1 {
		t.Fatalf("expected won status after applying the solver's move string")
	}
}

func TestParamsEncodeDecodeRoundTrip(t *testing.T) {
	be := Backend{}
	p := &Params{W: 8, H: 6, MoveLimit: 30}
	encoded := be.EncodeParams(p, true)

	decoded := be.DefaultParams().(*Params)
	be.DecodeParams(decoded, encoded)
	if *decoded != *p {
		t.Fatalf("params round-trip mismatch: got %+v, want %+v", decoded, p)
	}
}
