package segment

import "math/rand/v2"

// Source is the randomness both components draw from. *rand.Rand satisfies it.
// A Source is owned by one goroutine at a time.
type Source interface {
	Float64() float64
	IntN(n int) int
}

func NewSource(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

func intBetween(rng Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo+1)
}
