package bulk

import (
	"math/rand/v2"

	"github.com/zeebo/xxh3"
)

const (
	jitterMin  = 0.95
	jitterSpan = 0.10
	// second PCG seed word
	jitterStream = 0x9e3779b97f4a7c15
)

// Jitter returns the deterministic multiplier in [0.95, 1.05) for id.
// The same id yields the same value on every run and platform.
func Jitter(id string) float64 {
	seed := xxh3.HashString(id)
	rng := rand.New(rand.NewPCG(seed, jitterStream))
	return jitterMin + rng.Float64()*jitterSpan
}
