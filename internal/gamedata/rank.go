package gamedata

import (
	"encoding/json"
	"fmt"
)

// RankValue is a per-rank numeric parameter. In JSON it is either a single
// number (same at every rank) or an array indexed by rank-1.
type RankValue []float64

// Scalar returns a RankValue with one entry.
func Scalar(v float64) RankValue { return RankValue{v} }

// UnmarshalJSON accepts a number or an array of numbers.
func (v *RankValue) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*v = RankValue{f}
		return nil
	}
	var arr []float64
	if err := json.Unmarshal(b, &arr); err != nil {
		return fmt.Errorf("rank value must be a number or an array: %w", err)
	}
	*v = arr
	return nil
}

// MarshalJSON writes single-entry values as a plain number.
func (v RankValue) MarshalJSON() ([]byte, error) {
	if len(v) == 1 {
		return json.Marshal(v[0])
	}
	return json.Marshal([]float64(v))
}

// At returns the value for a 1-based rank, clamped to the last defined entry.
// Unset values are 0 and ranks below 1 read the first entry.
func (v RankValue) At(rank int) float64 {
	if len(v) == 0 {
		return 0
	}
	i := rank - 1
	if i < 0 {
		i = 0
	}
	if i >= len(v) {
		i = len(v) - 1
	}
	return v[i]
}

// IsSet reports whether any value was declared.
func (v RankValue) IsSet() bool { return len(v) > 0 }

// Clone copies the backing slice.
func (v RankValue) Clone() RankValue {
	if v == nil {
		return nil
	}
	return append(RankValue(nil), v...)
}
