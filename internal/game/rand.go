package game

import (
	"math/rand/v2"
	"sync"
)

// Rand is a seedable random source that is safe to share between a
// session and the strategies bound to it.
type Rand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand returns a source seeded with seed. A zero seed picks one at random.
func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Rand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntN returns a value in [0, n).
func (r *Rand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.IntN(n)
}

// Float64 returns a value in [0.0, 1.0).
func (r *Rand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Float64()
}

// Shuffle is a Fisher-Yates shuffle over n elements.
func (r *Rand) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.r.Shuffle(n, swap)
}

// Pick returns a uniformly chosen candidate, or NoTarget for an empty list.
func (r *Rand) Pick(cs []Candidate) int {
	if len(cs) == 0 {
		return NoTarget
	}
	return cs[r.IntN(len(cs))].ID
}
