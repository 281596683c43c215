package midend

import (
	"bytes"
	"testing"

	"pgregory.net/rapid"
)

// TestObfuscateRoundTrip checks S5: obfuscate(obfuscate(b, encode), decode) == b.
func TestObfuscateRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 256).Draw(t, "n")
		b := make([]byte, n)
		for i := range b {
			b[i] = byte(rapid.IntRange(0, 255).Draw(t, "byte"))
		}

		enc := obfuscateAux(b)
		dec := deobfuscateAux(enc)

		if !bytes.Equal(dec, b) {
			t.Fatalf("round trip mismatch: got %v, want %v", dec, b)
		}
	})
}

func TestObfuscateChangesData(t *testing.T) {
	b := []byte("the quick brown fox jumps over the lazy dog, twice")
	enc := obfuscateAux(b)
	if bytes.Equal(enc, b) {
		t.Fatalf("obfuscation should change non-empty data")
	}
}
