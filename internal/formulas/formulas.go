// Package formulas holds the pure combat math: derived stats, damage rolls,
// mitigation, crit resolution, and costs.
package formulas

import (
	"math"
	"time"

	"github.com/samdwyer/barquest/internal/dice"
	"github.com/samdwyer/barquest/internal/stats"
)

// Derived stat coefficients.
const (
	BaseHP        = 100
	HPPerLevel    = 20
	HPPerStrength = 10
	HPPerSpirit   = 5

	BaseMana         = 50
	ManaPerLevel     = 15
	ManaPerIntellect = 10

	AttackPowerPerStrength = 2
	SpellPowerPerIntellect = 2

	// MaxRage and MaxEnergy are fixed pool sizes regardless of level.
	MaxRage   = 100
	MaxEnergy = 100
)

// Mitigation constants.
const (
	MitigationBase       = 100
	MitigationLevelScale = 20
	MaxDamageReduction   = 0.75
)

// DefaultCritDamage is the crit damage percentage used when a set carries none.
const DefaultCritDamage = 150

// DefaultAttackInterval applies when an entity has no weapon speed.
const DefaultAttackInterval = 2 * time.Second

// MaxHP returns the maximum hit points for a level and stat set.
func MaxHP(level int, s stats.AttributeSet) float64 {
	raw := BaseHP + HPPerLevel*float64(level) + HPPerStrength*s.Strength + HPPerSpirit*s.Spirit
	return math.Round(raw * s.MaxHPMultiplier)
}

// MaxMana returns the maximum mana for a level and stat set.
func MaxMana(level int, s stats.AttributeSet) float64 {
	return math.Round(BaseMana + ManaPerLevel*float64(level) + ManaPerIntellect*s.Intellect)
}

// MaxResource returns the pool size for a resource type.
func MaxResource(t stats.ResourceType, level int, s stats.AttributeSet) float64 {
	switch t {
	case stats.ResourceRage:
		return MaxRage
	case stats.ResourceEnergy:
		return MaxEnergy
	default:
		return MaxMana(level, s)
	}
}

// AttackPower is a linear scalar of Strength.
func AttackPower(s stats.AttributeSet) float64 {
	return AttackPowerPerStrength * s.Strength
}

// SpellPower is a linear scalar of Intellect.
func SpellPower(s stats.AttributeSet) float64 {
	return SpellPowerPerIntellect * s.Intellect
}

// AttackInterval converts a weapon speed in seconds and a haste percentage
// into the time between basic attacks.
func AttackInterval(speedSeconds, hastePct float64) time.Duration {
	if speedSeconds <= 0 {
		return DefaultAttackInterval
	}
	haste := 1 + hastePct/100
	if haste <= 0 {
		haste = 1
	}
	return time.Duration(speedSeconds / haste * float64(time.Second))
}

// MeleeDamage rolls uniformly in [lo, hi] and adds ratio of attack power.
func MeleeDamage(r dice.Roller, lo, hi, attackPower, ratio float64) float64 {
	return dice.Between(r, lo, hi) + attackPower*ratio
}

// SpellDamage scales a base value by spell power.
func SpellDamage(base, spellPower float64) float64 {
	return base * (1 + spellPower/100)
}

// ElementalDamage reduces base by a resistance percentage clamped to [0, 100].
func ElementalDamage(base, resistance float64) float64 {
	res := math.Max(0, math.Min(100, resistance))
	return math.Round(base * (1 - res/100))
}

// DamageReduction is the shared armor and resistance curve:
// value / (value + 100 + 20*level), capped at 75%. Non-positive values
// mitigate nothing.
func DamageReduction(value float64, attackerLevel int) float64 {
	if value <= 0 {
		return 0
	}
	denom := value + MitigationBase + MitigationLevelScale*float64(attackerLevel)
	if denom <= 0 {
		return 0
	}
	return math.Min(MaxDamageReduction, value/denom)
}

// Mitigate applies DamageReduction to an amount.
func Mitigate(amount, value float64, attackerLevel int) float64 {
	return amount * (1 - DamageReduction(value, attackerLevel))
}

// CritMultiplier converts a crit damage percentage into a multiplier.
func CritMultiplier(critDmg float64) float64 {
	if critDmg <= 0 {
		critDmg = DefaultCritDamage
	}
	return critDmg / 100
}

// CritCheck gathers the inputs of a crit resolution.
type CritCheck struct {
	CritPct         float64
	Precision       float64
	TargetEvasion   float64
	CritChanceTaken float64
	// Bonus is a flat crit chance added by talents, e.g. an execute window.
	Bonus float64
}

// CritResult reports both rolls of a crit resolution.
type CritResult struct {
	Hit    bool
	Crit   bool
	Chance float64
}

// ResolveCrit first rolls the hit check with probability
// min(100, precision-evasion)/100. A miss zeroes the crit chance; otherwise a
// second, independent roll is made against crit + crit-taken + bonus.
func ResolveCrit(r dice.Roller, c CritCheck) CritResult {
	hitPct := math.Min(100, c.Precision-c.TargetEvasion)
	if !dice.Percent(r, hitPct) {
		return CritResult{}
	}
	chance := c.CritPct + c.CritChanceTaken + c.Bonus
	return CritResult{Hit: true, Crit: dice.Percent(r, chance), Chance: chance}
}

// StackingCost is the cost of a skill whose price grows with a self-buff's
// stacks: base * (1 + stacks*stackMultiplier).
func StackingCost(base float64, stacks int, stackMultiplier float64) float64 {
	return base * (1 + float64(stacks)*stackMultiplier)
}

// ResourceCost applies percentage cost reductions and rounds. Reductions
// never drive the cost below zero.
func ResourceCost(base, reductionPct float64) float64 {
	if base <= 0 {
		return 0
	}
	cost := base * (1 - reductionPct/100)
	return math.Max(0, math.Round(cost))
}

// XPToNextLevel is floor(100 * level^1.5).
func XPToNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(100 * math.Pow(float64(level), 1.5)))
}

// KillReward is the gold and experience granted for one kill.
type KillReward struct {
	Gold int
	XP   int
}

// BossRewardMultiplier scales rewards for dungeon bosses.
const BossRewardMultiplier = 5

// KillRewards computes rewards for an enemy of a level. Gold scales with the
// dungeon tier and the heroic multiplier; experience with the tier only.
func KillRewards(enemyLevel, tier int, heroicGoldMultiplier float64, boss bool) KillReward {
	if tier < 1 {
		tier = 1
	}
	if heroicGoldMultiplier <= 0 {
		heroicGoldMultiplier = 1
	}
	xp := enemyLevel * 10 * tier
	gold := float64((5+2*enemyLevel)*tier) * heroicGoldMultiplier
	if boss {
		xp *= BossRewardMultiplier
		gold *= BossRewardMultiplier
	}
	return KillReward{Gold: int(math.Round(gold)), XP: xp}
}
