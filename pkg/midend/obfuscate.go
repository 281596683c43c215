package midend

import (
	"crypto/sha1"
	"strconv"
)

// keystream derives a byte stream of the requested length from seed by
// concatenating SHA-1(seed || "0"), SHA-1(seed || "1"), SHA-1(seed || "2"),
// … and truncating to length, per §6's "keystream derived from SHA-1 of
// the other half concatenated with successive decimal indices".
func keystream(seed []byte, length int) []byte {
	out := make([]byte, 0, length)
	for i := 0; len(out) < length; i++ {
		h := sha1.New()
		h.Write(seed)
		h.Write([]byte(strconv.Itoa(i)))
		out = append(out, h.Sum(nil)...)
	}
	return out[:length]
}

func xorBytes(a, ks []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ ks[i]
	}
	return out
}

// obfuscateAux XORs an AUXINFO payload for serialisation. The string is
// split into two halves; the first half is keyed off the (unmodified)
// second half, then the second half is keyed off the now-obfuscated first
// half — so deobfuscateAux, which undoes these two steps in reverse order,
// is this function's exact inverse (S5, §8 property 5 sibling scenario).
func obfuscateAux(data []byte) []byte {
	n1 := len(data) / 2
	a, b := data[:n1], data[n1:]

	newA := xorBytes(a, keystream(b, len(a)))
	newB := xorBytes(b, keystream(newA, len(b)))

	out := make([]byte, 0, len(data))
	out = append(out, newA...)
	out = append(out, newB...)
	return out
}

// deobfuscateAux is obfuscateAux's inverse.
func deobfuscateAux(data []byte) []byte {
	n1 := len(data) / 2
	newA, newB := data[:n1], data[n1:]

	b := xorBytes(newB, keystream(newA, len(newB)))
	a := xorBytes(newA, keystream(b, len(newA)))

	out := make([]byte, 0, len(data))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
