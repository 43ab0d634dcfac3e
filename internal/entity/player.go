package entity

import (
	"maps"
	"slices"
	"time"

	"github.com/samdwyer/barquest/internal/gamedata"
	"github.com/samdwyer/barquest/internal/stats"
)

// Player is the hero controlled by the user.
type Player struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	ClassID string `json:"classId"`
	Level   int    `json:"level"`
	XP      int    `json:"xp"`

	TalentPoints int `json:"talentPoints"`

	// BaseStats are the class stats at the current level. Stats is the
	// recalculated set with gear, set bonuses, and talents; its HP field is
	// the current hit points.
	BaseStats stats.AttributeSet `json:"baseStats"`
	Stats     stats.AttributeSet `json:"stats"`
	MaxHP     float64            `json:"maxHp"`
	Resource  stats.ResourcePool `json:"resource"`

	LearnedSkills  map[string]int `json:"learnedSkills"`
	Talents        map[string]int `json:"talents"`
	EquippedSkills []string       `json:"equippedSkills"`

	Buffs        []stats.TimedModifier `json:"buffs,omitempty"`
	Form         stats.Form            `json:"form,omitempty"`
	Shield       float64               `json:"shield,omitempty"`
	Invulnerable time.Duration         `json:"invulnerable,omitempty"`
	Stun         time.Duration         `json:"stun,omitempty"`

	AttackProgress float64 `json:"attackProgress,omitempty"`

	Reputation        map[string]int `json:"reputation"`
	CompletedDungeons map[string]int `json:"completedDungeons"`
}

// NewPlayer creates a level 1 hero of the given class with its starting
// skills learned at rank 1. Call RecalculateStats before use.
func NewPlayer(id, name string, class *gamedata.ClassDef) *Player {
	p := &Player{
		ID:                id,
		Name:              name,
		Level:             1,
		BaseStats:         stats.NewAttributeSet(),
		Stats:             stats.NewAttributeSet(),
		LearnedSkills:     make(map[string]int),
		Talents:           make(map[string]int),
		Reputation:        make(map[string]int),
		CompletedDungeons: make(map[string]int),
	}
	if class != nil {
		p.ClassID = class.ID
		p.Resource.Type = class.Resource
		p.BaseStats = class.StatsAtLevel(1)
		p.Stats = p.BaseStats.Clone()
		for _, id := range class.StartingSkills {
			p.LearnedSkills[id] = 1
			p.EquippedSkills = append(p.EquippedSkills, id)
		}
	}
	return p
}

// EnsureMaps allocates any nil map, e.g. after decoding an older profile.
func (p *Player) EnsureMaps() {
	if p.LearnedSkills == nil {
		p.LearnedSkills = make(map[string]int)
	}
	if p.Talents == nil {
		p.Talents = make(map[string]int)
	}
	if p.Reputation == nil {
		p.Reputation = make(map[string]int)
	}
	if p.CompletedDungeons == nil {
		p.CompletedDungeons = make(map[string]int)
	}
	if p.Level < 1 {
		p.Level = 1
	}
	p.BaseStats.Normalize()
	p.Stats.Normalize()
}

// SkillRank returns the learned rank of a skill, 0 when unknown.
func (p *Player) SkillRank(id string) int { return p.LearnedSkills[id] }

// TalentRank returns the learned rank of a talent, 0 when unknown.
func (p *Player) TalentRank(id string) int { return p.Talents[id] }

// HasBuff reports whether a buff with id is active.
func (p *Player) HasBuff(id string) bool { return stats.Has(p.Buffs, id) }

// Buff returns the active buff with id, or nil.
func (p *Player) Buff(id string) *stats.TimedModifier {
	if i := stats.Find(p.Buffs, id); i >= 0 {
		return &p.Buffs[i]
	}
	return nil
}

// IsStunned reports whether the player cannot act.
func (p *Player) IsStunned() bool { return p.Stun > 0 }

// HPPercent returns current HP as a percentage of max.
func (p *Player) HPPercent() float64 { return HPFraction(p) * 100 }

// RestoreFloor sets HP and resource to at least pct of their maxima.
func (p *Player) RestoreFloor(pct float64) {
	p.Stats.HP = max(p.Stats.HP, roundHP(p.MaxHP*pct/100))
	if p.Resource.Type != stats.ResourceRage {
		p.Resource.Current = max(p.Resource.Current, roundHP(p.Resource.Max*pct/100))
	}
}

// FullRestore refills HP and non-rage resource.
func (p *Player) FullRestore() {
	p.Stats.HP = p.MaxHP
	p.Resource.Fill()
}

// ClearCombatState drops everything that only lives for an encounter.
func (p *Player) ClearCombatState() {
	p.Buffs = nil
	p.Form = stats.FormNone
	p.Shield = 0
	p.Invulnerable = 0
	p.Stun = 0
	p.AttackProgress = 0
}

// =============================================================================
// Combatant interface implementation
// =============================================================================

// GetID returns the hero id.
func (p *Player) GetID() string { return p.ID }

// GetName returns the hero's name.
func (p *Player) GetName() string { return p.Name }

// GetLevel returns the hero's level.
func (p *Player) GetLevel() int { return p.Level }

// IsAlive returns true if the hero has HP remaining.
func (p *Player) IsAlive() bool { return p.Stats.HP > 0 }

// GetHP returns current HP.
func (p *Player) GetHP() float64 { return p.Stats.HP }

// GetMaxHP returns maximum HP.
func (p *Player) GetMaxHP() float64 { return p.MaxHP }

// EffectiveStats returns stats with buffs and form applied.
func (p *Player) EffectiveStats() stats.AttributeSet {
	return stats.ComputeEffectiveStats(p.Stats, p.Buffs, p.Form)
}

// ActiveModifiers returns the hero's buffs.
func (p *Player) ActiveModifiers() []stats.TimedModifier { return p.Buffs }

// TakeDamage reduces HP and returns actual damage taken.
func (p *Player) TakeDamage(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	actual := min(amount, max(0, p.Stats.HP))
	p.Stats.HP -= amount
	if p.Stats.HP < 0 {
		p.Stats.HP = 0
	}
	return actual
}

// Heal restores HP up to max and returns the actual amount healed.
func (p *Player) Heal(amount float64) float64 {
	if amount <= 0 || p.Stats.HP >= p.MaxHP {
		return 0
	}
	actual := min(amount, p.MaxHP-p.Stats.HP)
	p.Stats.HP += actual
	return actual
}

// Clone returns a deep copy for read-only consumers.
func (p *Player) Clone() *Player {
	c := *p
	c.BaseStats = p.BaseStats.Clone()
	c.Stats = p.Stats.Clone()
	c.LearnedSkills = maps.Clone(p.LearnedSkills)
	c.Talents = maps.Clone(p.Talents)
	c.EquippedSkills = slices.Clone(p.EquippedSkills)
	c.Buffs = stats.Clone(p.Buffs)
	c.Reputation = maps.Clone(p.Reputation)
	c.CompletedDungeons = maps.Clone(p.CompletedDungeons)
	return &c
}
