package engine

import (
	crand "crypto/rand"
	"encoding/binary"
)

// xorshift64star is a small deterministic PRNG (Vigna's xorshift64* with the
// usual 12/25/27 shifts and the 2685821657736338717 multiplier). It is not
// cryptographic; it exists so the same seed reproduces the same permutation
// on any platform.
type xorshift64star struct {
	state uint64
}

func newXorshift64star(seed uint64) *xorshift64star {
	if seed == 0 {
		// The all-zero state is a fixed point of xorshift.
		seed = 0x9e3779b97f4a7c15
	}
	return &xorshift64star{state: seed}
}

func (x *xorshift64star) next() uint64 {
	x.state ^= x.state >> 12
	x.state ^= x.state << 25
	x.state ^= x.state >> 27
	return x.state * 2685821657736338717
}

func (x *xorshift64star) intn(n int) int {
	return int(x.next() % uint64(n))
}

func (x *xorshift64star) float64() float64 {
	return float64(x.next()>>11) / float64(1<<53)
}

// Shuffle returns a Fisher-Yates permutation of items driven by seed. The
// input is never modified; the same seed always yields the same order, which
// is what lets two players in one session resume an identical ordering
// independently.
func Shuffle[T any](items []T, seed uint64) []T {
	out := make([]T, len(items))
	copy(out, items)
	rng := newXorshift64star(seed)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ShuffleRandom shuffles with a seed drawn from crypto/rand for sessions that
// do not need reproducibility.
func ShuffleRandom[T any](items []T) []T {
	return Shuffle(items, randomSeed())
}

func randomSeed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand failing means the platform is broken; fall back to a
		// fixed odd constant rather than returning an error from a shuffle.
		return 0x9e3779b97f4a7c15
	}
	return binary.BigEndian.Uint64(b[:])
}
