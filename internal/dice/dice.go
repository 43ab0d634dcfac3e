package dice

// Between returns a uniform value in [lo, hi]. Swapped bounds are tolerated.
func Between(r Roller, lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi == lo {
		return lo
	}
	return lo + r.Float64()*(hi-lo)
}

// IntBetween returns a uniform integer in [lo, hi] inclusive.
func IntBetween(r Roller, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi == lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// Chance reports success for probability p in [0, 1]. p <= 0 never
// succeeds and p >= 1 always does; neither consumes a roll.
func Chance(r Roller, p float64) bool {
	switch {
	case p <= 0:
		return false
	case p >= 1:
		return true
	}
	return r.Float64() < p
}

// Percent is Chance for a percentage in [0, 100].
func Percent(r Roller, pct float64) bool {
	return Chance(r, pct/100)
}

// Pick returns a uniformly chosen element, false when s is empty.
func Pick[T any](r Roller, s []T) (T, bool) {
	var zero T
	if len(s) == 0 {
		return zero, false
	}
	return s[r.IntN(len(s))], true
}

// Shuffle permutes s in place (Fisher-Yates).
func Shuffle[T any](r Roller, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// Weighted picks an index with probability proportional to weights. Zero or
// negative weights are never picked; -1 means nothing was pickable.
func Weighted(r Roller, weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	roll := r.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if roll < w {
			return i
		}
		roll -= w
	}
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return -1
}
