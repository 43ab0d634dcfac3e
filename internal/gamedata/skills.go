package gamedata

import (
	"io/fs"
	"time"

	"github.com/samdwyer/barquest/internal/stats"
)

// Skills are data-driven: each skill is an ordered list of effects resolved
// by the combat processor. Numeric parameters are RankValues so a skill can
// grow with its learned rank, and talents may patch an effect's parameter by
// (effect index, property) for a single cast.
//
// Example:
//
//	{
//	  "id": "mage_fireball",
//	  "name": "Fireball",
//	  "school": "fire",
//	  "cooldown": 0,
//	  "effects": [
//	    {"type": "resource_cost", "amount": 20},
//	    {"type": "damage", "source": "spell", "damageType": "fire", "baseValue": [40, 55, 70]}
//	  ]
//	}

// EffectType tags an effect descriptor.
type EffectType string

const (
	EffectResourceCost    EffectType = "resource_cost"
	EffectDamage          EffectType = "damage"
	EffectDebuff          EffectType = "debuff"
	EffectBuff            EffectType = "buff"
	EffectHeal            EffectType = "heal"
	EffectShield          EffectType = "shield"
	EffectInvulnerability EffectType = "invulnerability"
	EffectDeathWard       EffectType = "death_ward"
	EffectConsumeDebuff   EffectType = "consume_debuff_for_damage"
	EffectStackingDamage  EffectType = "stacking_damage_and_cost"
	EffectTransformation  EffectType = "transformation"
	EffectMultiStrike     EffectType = "multi_strike"
	EffectStealth         EffectType = "stealth"
	EffectChannel         EffectType = "channel"
)

// SelfTargeted reports whether the effect applies to the caster only and
// therefore needs no living enemy target.
func (t EffectType) SelfTargeted() bool {
	switch t {
	case EffectResourceCost, EffectBuff, EffectHeal, EffectShield, EffectInvulnerability,
		EffectDeathWard, EffectTransformation, EffectStealth:
		return true
	}
	return false
}

// TargetType selects which enemies an effect hits.
type TargetType string

const (
	TargetPrimary    TargetType = "primary"
	TargetAllEnemies TargetType = "all_enemies"
	TargetSelf       TargetType = "self"
)

// DamageSource selects the base damage path.
type DamageSource string

const (
	SourceWeapon DamageSource = "weapon"
	SourceSpell  DamageSource = "spell"
)

// DebuffKind selects debuff semantics.
type DebuffKind string

const (
	DebuffDot          DebuffKind = "dot"
	DebuffStatModifier DebuffKind = "stat_modifier"
	DebuffCC           DebuffKind = "cc"
)

// StatModDef is a rank-scaled stat change.
type StatModDef struct {
	Stat   stats.Stat         `json:"stat"`
	Kind   stats.ModifierKind `json:"modifier"`
	Values RankValue          `json:"value"`
}

// At resolves the mod for a rank.
func (d StatModDef) At(rank int) stats.StatMod {
	kind := d.Kind
	if kind == "" {
		kind = stats.Additive
	}
	return stats.StatMod{Stat: d.Stat, Kind: kind, Value: d.Values.At(rank)}
}

// ResolveStatMods converts a list of definitions at a rank.
func ResolveStatMods(defs []StatModDef, rank int) []stats.StatMod {
	if len(defs) == 0 {
		return nil
	}
	out := make([]stats.StatMod, len(defs))
	for i, d := range defs {
		out[i] = d.At(rank)
	}
	return out
}

// EffectConditions gate or boost an effect based on the target's state.
// Without a Multiplier the effect only resolves while the target's HP
// percentage is below TargetHPBelow; with one, the effect always resolves and
// the multiplier applies below the threshold.
type EffectConditions struct {
	TargetHPBelow float64   `json:"targetHpLessThan"`
	Multiplier    RankValue `json:"multiplier,omitempty"`
}

// EffectDef is one entry of a skill's effect list.
type EffectDef struct {
	Type       EffectType    `json:"type"`
	Target     TargetType    `json:"target,omitempty"`
	Source     DamageSource  `json:"source,omitempty"`
	DamageType stats.Element `json:"damageType,omitempty"`

	Amount     RankValue `json:"amount,omitempty"`
	Multiplier RankValue `json:"multiplier,omitempty"`
	BaseValue  RankValue `json:"baseValue,omitempty"`
	Duration   RankValue `json:"duration,omitempty"` // seconds
	Ticks      RankValue `json:"ticks,omitempty"`

	Conditions *EffectConditions `json:"conditions,omitempty"`

	DebuffType DebuffKind   `json:"debuffType,omitempty"`
	ID         string       `json:"id,omitempty"`
	Name       string       `json:"name,omitempty"`
	StatMods   []StatModDef `json:"statMods,omitempty"`
	IsStacking bool         `json:"is_stacking,omitempty"`
	MaxStacks  int          `json:"maxStacks,omitempty"`

	Strikes RankValue `json:"strikes,omitempty"`

	RequiredDebuff string    `json:"requiredDebuff,omitempty"`
	DamagePerStack RankValue `json:"damagePerStack,omitempty"`

	StackBuffID         string    `json:"stackBuffId,omitempty"`
	StackMultiplier     RankValue `json:"stackMultiplier,omitempty"`
	CostStackMultiplier float64   `json:"costStackMultiplier,omitempty"`

	Form stats.Form `json:"form,omitempty"`

	HealPercent   RankValue `json:"healPercent,omitempty"`
	PreserveHPPct bool      `json:"preserveHpPct,omitempty"`

	Waves        RankValue `json:"waves,omitempty"`
	WaveInterval RankValue `json:"waveInterval,omitempty"` // seconds
}

// Property returns the patchable rank parameter named by a talent, or nil.
func (e *EffectDef) Property(name string) *RankValue {
	switch name {
	case "amount":
		return &e.Amount
	case "multiplier":
		return &e.Multiplier
	case "baseValue":
		return &e.BaseValue
	case "duration":
		return &e.Duration
	case "ticks":
		return &e.Ticks
	case "strikes":
		return &e.Strikes
	case "damagePerStack":
		return &e.DamagePerStack
	case "stackMultiplier":
		return &e.StackMultiplier
	case "healPercent":
		return &e.HealPercent
	case "waves":
		return &e.Waves
	case "waveInterval":
		return &e.WaveInterval
	}
	return nil
}

// Clone deep-copies the effect so a cast may patch it freely.
func (e EffectDef) Clone() EffectDef {
	out := e
	out.Amount = e.Amount.Clone()
	out.Multiplier = e.Multiplier.Clone()
	out.BaseValue = e.BaseValue.Clone()
	out.Duration = e.Duration.Clone()
	out.Ticks = e.Ticks.Clone()
	out.Strikes = e.Strikes.Clone()
	out.DamagePerStack = e.DamagePerStack.Clone()
	out.StackMultiplier = e.StackMultiplier.Clone()
	out.HealPercent = e.HealPercent.Clone()
	out.Waves = e.Waves.Clone()
	out.WaveInterval = e.WaveInterval.Clone()
	if e.Conditions != nil {
		c := *e.Conditions
		c.Multiplier = e.Conditions.Multiplier.Clone()
		out.Conditions = &c
	}
	if e.StatMods != nil {
		out.StatMods = make([]StatModDef, len(e.StatMods))
		for i, m := range e.StatMods {
			m.Values = m.Values.Clone()
			out.StatMods[i] = m
		}
	}
	return out
}

// DurationAt converts the rank duration in seconds.
func (e *EffectDef) DurationAt(rank int) time.Duration {
	return Seconds(e.Duration.At(rank))
}

// Seconds converts fractional seconds to a Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// SkillDef defines a player skill loaded from JSON.
type SkillDef struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ClassID     string      `json:"class"`
	School      string      `json:"school,omitempty"`
	Cooldown    float64     `json:"cooldown"` // seconds
	LevelReq    int         `json:"levelReq,omitempty"`
	MaxRank     int         `json:"maxRank,omitempty"`
	Effects     []EffectDef `json:"effects"`
}

// CooldownDuration returns the cooldown as a Duration.
func (s *SkillDef) CooldownDuration() time.Duration {
	return Seconds(s.Cooldown)
}

// RankCap returns the maximum learnable rank, at least 1.
func (s *SkillDef) RankCap() int {
	if s.MaxRank <= 0 {
		return 1
	}
	return s.MaxRank
}

// CostEffect returns the resource cost effect, or nil for free skills.
func (s *SkillDef) CostEffect() *EffectDef {
	for i := range s.Effects {
		if s.Effects[i].Type == EffectResourceCost {
			return &s.Effects[i]
		}
	}
	return nil
}

// CloneEffects returns a deep copy of the effect list.
func (s *SkillDef) CloneEffects() []EffectDef {
	out := make([]EffectDef, len(s.Effects))
	for i, e := range s.Effects {
		out[i] = e.Clone()
	}
	return out
}

// SkillsFile represents the structure of skills.json.
type SkillsFile struct {
	Skills []SkillDef `json:"skills"`
}

// LoadSkills loads skill definitions from skills.json in fsys.
func LoadSkills(fsys fs.FS) ([]SkillDef, error) {
	file, err := Load[SkillsFile](fsys, "skills.json")
	if err != nil {
		return nil, err
	}
	return file.Skills, nil
}
