package dice

import (
	"math/rand/v2"
	"sync"
)

// RandomRoller draws from a PCG source. It is safe for concurrent use.
type RandomRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomRoller returns a roller seeded with seed, or from the runtime
// entropy source when seed is 0.
func NewRandomRoller(seed uint64) *RandomRoller {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &RandomRoller{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float64 implements Roller.
func (r *RandomRoller) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// IntN implements Roller.
func (r *RandomRoller) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}
