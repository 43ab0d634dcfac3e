package entity

import (
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/barquest/internal/gamedata"
	"github.com/samdwyer/barquest/internal/stats"
)

// Enemy is a monster instance inside an encounter.
type Enemy struct {
	Def       *gamedata.MonsterDef `json:"-"` // Reference to the monster definition
	ID        string               `json:"id"`
	DefID     string               `json:"defId"`
	Name      string               `json:"name"`
	Family    string               `json:"family"`
	Level     int                  `json:"level"`
	IsBoss    bool                 `json:"isBoss"`
	Symbol    rune                 `json:"symbol"`
	Stats     stats.AttributeSet   `json:"stats"`
	InitialHP float64              `json:"initialHp"`

	Debuffs        []stats.TimedModifier `json:"debuffs,omitempty"`
	AttackProgress float64               `json:"attackProgress"`
	Stun           time.Duration         `json:"stun,omitempty"`

	Elemental *gamedata.ElementalProfile `json:"elemental,omitempty"`
	Skills    []gamedata.MonsterSkill    `json:"skills,omitempty"`
}

// Scaling multiplies a monster's offensive and defensive numbers on spawn.
type Scaling struct {
	HP     float64
	Damage float64
	Armor  float64
}

// IdentityScaling leaves definitions unchanged.
var IdentityScaling = Scaling{HP: 1, Damage: 1, Armor: 1}

// NewEnemyFromDef creates a new enemy from a data-driven definition with a
// fresh instance id.
func NewEnemyFromDef(def *gamedata.MonsterDef, id string, scale Scaling) *Enemy {
	s := def.Stats.Clone()
	s.Normalize()
	s.HP = math.Round(s.HP * orOne(scale.HP))
	s.AttMin *= orOne(scale.Damage)
	s.AttMax *= orOne(scale.Damage)
	s.Armor *= orOne(scale.Armor)

	var elemental *gamedata.ElementalProfile
	if def.Elemental != nil {
		e := *def.Elemental
		e.Min *= orOne(scale.Damage)
		e.Max *= orOne(scale.Damage)
		elemental = &e
	}

	return &Enemy{
		Def:       def,
		ID:        id,
		DefID:     def.ID,
		Name:      def.Name,
		Family:    def.Family,
		Level:     max(1, def.Level),
		IsBoss:    def.IsBoss,
		Symbol:    def.GlyphRune(),
		Stats:     s,
		InitialHP: s.HP,
		Elemental: elemental,
		Skills:    append([]gamedata.MonsterSkill(nil), def.Skills...),
	}
}

func orOne(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

func roundHP(v float64) float64 { return math.Round(v) }

// Color returns the tcell color for this enemy.
func (e *Enemy) Color() tcell.Color {
	if e.Def != nil {
		return e.Def.TCellColor()
	}
	return tcell.ColorPurple
}

// HasDebuff reports whether a debuff with id is active.
func (e *Enemy) HasDebuff(id string) bool { return stats.Has(e.Debuffs, id) }

// Debuff returns the active debuff with id, or nil.
func (e *Enemy) Debuff(id string) *stats.TimedModifier {
	if i := stats.Find(e.Debuffs, id); i >= 0 {
		return &e.Debuffs[i]
	}
	return nil
}

// IsStunned reports whether the enemy cannot attack.
func (e *Enemy) IsStunned() bool { return e.Stun > 0 }

// =============================================================================
// Combatant interface implementation
// =============================================================================

// GetID returns the instance id.
func (e *Enemy) GetID() string { return e.ID }

// GetName returns the enemy's name.
func (e *Enemy) GetName() string { return e.Name }

// GetLevel returns the enemy's level.
func (e *Enemy) GetLevel() int { return e.Level }

// IsAlive returns true if the enemy has HP remaining.
func (e *Enemy) IsAlive() bool { return e.Stats.HP > 0 }

// GetHP returns current HP.
func (e *Enemy) GetHP() float64 { return e.Stats.HP }

// GetMaxHP returns the spawn HP.
func (e *Enemy) GetMaxHP() float64 { return e.InitialHP }

// EffectiveStats returns stats with debuffs applied.
func (e *Enemy) EffectiveStats() stats.AttributeSet {
	return stats.ComputeEffectiveStats(e.Stats, e.Debuffs, stats.FormNone)
}

// ActiveModifiers returns the enemy's debuffs.
func (e *Enemy) ActiveModifiers() []stats.TimedModifier { return e.Debuffs }

// TakeDamage reduces HP and returns actual damage taken. HP may not go
// below zero.
func (e *Enemy) TakeDamage(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, max(0, e.Stats.HP))
	e.Stats.HP = max(0, e.Stats.HP-amount)
	return actual
}

// Heal restores HP up to the spawn HP.
func (e *Enemy) Heal(amount float64) float64 {
	if amount <= 0 || e.Stats.HP >= e.InitialHP {
		return 0
	}
	actual := min(amount, e.InitialHP-e.Stats.HP)
	e.Stats.HP += actual
	return actual
}

// Clone returns a deep copy sharing only the immutable definition.
func (e *Enemy) Clone() *Enemy {
	c := *e
	c.Stats = e.Stats.Clone()
	c.Debuffs = stats.Clone(e.Debuffs)
	if e.Elemental != nil {
		el := *e.Elemental
		c.Elemental = &el
	}
	c.Skills = append([]gamedata.MonsterSkill(nil), e.Skills...)
	return &c
}
