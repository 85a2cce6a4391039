package ai

import (
	"math/rand"
)

// seededSource implements Source using a seeded math/rand generator, keeping
// enemy decisions reproducible for a given seed.
type seededSource struct {
	rng *rand.Rand
}

// NewSeededSource returns a deterministic Source for the given seed.
//
// Postcondition: Two sources with the same seed produce the same sequence.
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a value in [0, n).
//
// Precondition: n > 0. Panics with "ai: Intn called with n <= 0" if n <= 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("ai: Intn called with n <= 0")
	}
	return s.rng.Intn(n)
}
