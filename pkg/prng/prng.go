// Package prng provides the deterministic random stream the middle-end
// hands to a back-end's generator, plus the Fisher-Yates shuffle every
// generator that needs a random permutation shares.
//
// Reproducibility is a hard contract (spec §4.B, §8 property 7): identical
// (masterSeed, stage) must produce an identical stream of draws, so that two
// independent new_desc calls for the same (params, seed) emit byte-identical
// descriptions. The per-stage derivation follows dshills-dungo's pkg/rng:
// fold the master seed and a stage label through SHA-256 before seeding
// math/rand, so unrelated stages (e.g. a back-end's "main generation" stream
// vs. its "aux solve self-test" stream) never collide even when reseeded
// from the same master seed.
package prng

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
)

// Source is a seeded, deterministic random stream.
type Source struct {
	seed uint64
	r    *rand.Rand
}

// NewSource derives a stage-specific stream from masterSeed and stage.
func NewSource(masterSeed uint64, stage string) *Source {
	h := sha256.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], masterSeed)
	h.Write(buf[:])
	h.Write([]byte(stage))
	sum := h.Sum(nil)
	derived := binary.BigEndian.Uint64(sum[:8])
	return &Source{seed: derived, r: rand.New(rand.NewSource(int64(derived)))}
}

// FromSeedString derives a stream from a puzzle's ASCII RandomSeed string,
// the form a GameDescription's "params#seed" identifier carries.
func FromSeedString(seed string, stage string) *Source {
	h := sha256.Sum256([]byte(seed))
	master := binary.BigEndian.Uint64(h[:8])
	return NewSource(master, stage)
}

// Seed returns the derived stream seed (for diagnostics/tests, not part of
// the reproducibility contract itself).
func (s *Source) Seed() uint64 { return s.seed }

// Intn returns a pseudo-random integer in [0, n). Panics if n <= 0.
func (s *Source) Intn(n int) int { return s.r.Intn(n) }

// Uint32Upto returns a pseudo-random integer in [0, limit), matching the
// back-end contract's random_upto(limit) primitive used by Shuffle.
func (s *Source) Uint32Upto(limit int) int { return s.r.Intn(limit) }

// Float64 returns a pseudo-random float64 in [0.0, 1.0).
func (s *Source) Float64() float64 { return s.r.Float64() }

// Bool returns a pseudo-random boolean.
func (s *Source) Bool() bool { return s.r.Intn(2) == 1 }

// Shuffle performs an in-place Fisher-Yates permutation of the first n
// elements of a slice-like sequence, via swap(i, j). This is deliberately
// not rand.Shuffle: the spec pins the exact iteration direction (i from n-1
// down to 1, swap(i, random_upto(i+1))) as part of the reproducibility
// contract, since back-ends replicate this algorithm move-for-move from the
// reference collection and any deviation would desynchronize descriptions
// generated from an externally-supplied seed.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := s.Uint32Upto(i + 1)
		swap(i, j)
	}
}

// ShuffleInts returns a freshly Fisher-Yates-shuffled copy of [0, n).
func (s *Source) ShuffleInts(n int) []int {
	arr := make([]int, n)
	for i := range arr {
		arr[i] = i
	}
	s.Shuffle(n, func(i, j int) { arr[i], arr[j] = arr[j], arr[i] })
	return arr
}
