// Package entity provides the hero, monsters, items, and inventory the
// simulation mutates.
package entity

import "github.com/samdwyer/barquest/internal/stats"

// Combatant is the interface for any entity that can take part in combat.
// Both the player and enemies implement this interface.
type Combatant interface {
	// Identity
	GetID() string
	GetName() string
	GetLevel() int
	IsAlive() bool

	// Stats
	GetHP() float64
	GetMaxHP() float64
	EffectiveStats() stats.AttributeSet
	ActiveModifiers() []stats.TimedModifier

	// Mutations
	TakeDamage(amount float64) float64 // Returns actual damage taken
	Heal(amount float64) float64       // Returns actual amount healed
}

// HPFraction returns current over maximum HP in [0, 1]; 0 when the maximum
// is unknown.
func HPFraction(c Combatant) float64 {
	maxHP := c.GetMaxHP()
	if maxHP <= 0 {
		return 0
	}
	return min(1, max(0, c.GetHP()/maxHP))
}
