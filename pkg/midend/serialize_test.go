package midend

import (
	"bytes"
	"strings"
	"testing"
)

func sampleSaveData() *SaveData {
	return &SaveData{
		Game:     "slide",
		Params:   "7x6m25",
		CParams:  "7x6m25d0",
		HasSeed:  false,
		Desc:     "aamd1d-1d1ea7wea5wea3wea1wem,5,3,25",
		HasAux:   true,
		AuxInfo:  []byte("hint-data"),
		NStates:  3,
		StatePos: 3,
		Moves: []MoveRecord{
			{Kind: "MOVE", Str: "M22-26"},
			{Kind: "MOVE", Str: "M26-34"},
		},
	}
}

func TestSaveRoundTrip(t *testing.T) {
	sd := sampleSaveData()
	var buf bytes.Buffer
	if err := WriteSave(&buf, sd); err != nil {
		t.Fatalf("WriteSave: %v", err)
	}

	parsed, err := ReadSave(&buf, "slide")
	if err != nil {
		t.Fatalf("ReadSave: %v", err)
	}

	if parsed.Game != sd.Game || parsed.Params != sd.Params || parsed.Desc != sd.Desc {
		t.Fatalf("round trip mismatch: %+v vs %+v", parsed, sd)
	}
	if parsed.NStates != sd.NStates || parsed.StatePos != sd.StatePos {
		t.Fatalf("state counters mismatch")
	}
	if len(parsed.Moves) != len(sd.Moves) {
		t.Fatalf("move count mismatch: got %d want %d", len(parsed.Moves), len(sd.Moves))
	}
	if !bytes.Equal(parsed.AuxInfo, sd.AuxInfo) {
		t.Fatalf("auxinfo mismatch after obfuscate round trip: got %q want %q", parsed.AuxInfo, sd.AuxInfo)
	}

	// Re-serialising the parsed data must be byte-identical (spec property 3).
	var buf2 bytes.Buffer
	if err := WriteSave(&buf2, parsed); err != nil {
		t.Fatalf("WriteSave (2nd): %v", err)
	}
	if !bytes.Equal(buf.Bytes(), buf2.Bytes()) {
		t.Fatalf("re-serialised save differs from original:\n%q\nvs\n%q", buf.Bytes(), buf2.Bytes())
	}
}

// TestLoadSaveFileScenario exercises S1's save-file parse: after loading,
// can_undo is true and can_redo is false.
func TestLoadSaveFileScenario(t *testing.T) {
	raw := "SAVEFILE:41:Simon Tatham's Portable Puzzle Collection\n" +
		"VERSION :1:1\n" +
		"GAME    :5:slide\n" +
		"PARAMS  :6:7x6m25\n" +
		"CPARAMS :6:7x6m25\n" +
		"DESC    :4:desc\n" +
		"NSTATES :1:3\n" +
		"STATEPOS:1:3\n" +
		"MOVE    :6:M22-26\n" +
		"MOVE    :6:M26-34\n"

	sd, err := ReadSave(strings.NewReader(raw), "slide")
	if err != nil {
		t.Fatalf("ReadSave: %v", err)
	}
	if sd.NStates != 3 || sd.StatePos != 3 {
		t.Fatalf("expected NSTATES=3 STATEPOS=3, got %d %d", sd.NStates, sd.StatePos)
	}
	canUndo := sd.StatePos > 1
	canRedo := sd.StatePos < sd.NStates
	if !canUndo {
		t.Fatalf("expected can_undo() true")
	}
	if canRedo {
		t.Fatalf("expected can_redo() false")
	}
}

func TestReadSaveWrongGame(t *testing.T) {
	sd := sampleSaveData()
	var buf bytes.Buffer
	if err := WriteSave(&buf, sd); err != nil {
		t.Fatalf("WriteSave: %v", err)
	}
	if _, err := ReadSave(&buf, "bridges"); err != ErrWrongGame {
		t.Fatalf("expected ErrWrongGame, got %v", err)
	}
}

func TestReadSaveCorruptTruncated(t *testing.T) {
	raw := "SAVEFILE:41:Simon Tatham's Portable Puzzle Collectio"
	if _, err := ReadSave(strings.NewReader(raw), ""); err == nil {
		t.Fatalf("expected an error for truncated input")
	}
}
