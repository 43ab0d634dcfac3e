// Package dice provides the random source used by combat and loot rolls.
package dice

//go:generate mockgen -destination=mock/mock_roller.go -package=mockdice -source=roller.go

// Roller is the only source of randomness in the simulation. Swapping it
// lets tests pin every roll.
type Roller interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n). n <= 0 yields 0.
	IntN(n int) int
}
