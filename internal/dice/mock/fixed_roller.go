package mockdice

import "sync"

// FixedRoller implements dice.Roller with scripted results. Queued values are
// returned first; once exhausted, the fallback values are repeated.
type FixedRoller struct {
	mu     sync.Mutex
	floats []float64
	ints   []int

	FallbackFloat float64
	FallbackInt   int
}

// NewFixedRoller returns a roller that always yields f and 0 unless values
// are queued.
func NewFixedRoller(f float64) *FixedRoller {
	return &FixedRoller{FallbackFloat: f}
}

// QueueFloats appends Float64 results.
func (r *FixedRoller) QueueFloats(vals ...float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.floats = append(r.floats, vals...)
}

// QueueInts appends IntN results. Values are reduced modulo n when drawn.
func (r *FixedRoller) QueueInts(vals ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ints = append(r.ints, vals...)
}

// Float64 implements dice.Roller.
func (r *FixedRoller) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.floats) == 0 {
		return r.FallbackFloat
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

// IntN implements dice.Roller.
func (r *FixedRoller) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n <= 0 {
		return 0
	}
	v := r.FallbackInt
	if len(r.ints) > 0 {
		v = r.ints[0]
		r.ints = r.ints[1:]
	}
	if v < 0 {
		v = -v
	}
	return v % n
}
