// Package entropy provides the seedable random source threaded through the
// simulation. Every stochastic step (growth jitter, shipping bonuses,
// investment offers, hiring) draws from a Source handed in by the caller.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
)

// Source is the randomness a simulation step may consume.
// *math/rand.Rand satisfies it.
type Source interface {
	Float64() float64 // [0, 1)
	Intn(n int) int   // [0, n)
	Read([]byte) (int, error)
}

// New returns a deterministic source for the given seed. A zero seed draws
// a fresh seed from crypto/rand.
func New(seed int64) *mathrand.Rand {
	if seed == 0 {
		seed = CryptoSeed()
	}
	return mathrand.New(mathrand.NewSource(seed))
}

// CryptoSeed returns a non-zero seed from crypto/rand.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen.
		return 1
	}
	seed := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if seed == 0 {
		return 1
	}
	return seed
}

// Between returns a float in [lo, hi).
func Between(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Chance reports true with probability p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}

// Pick returns a random element of items. items must be non-empty.
func Pick[T any](src Source, items []T) T {
	return items[src.Intn(len(items))]
}
