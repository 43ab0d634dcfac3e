package combat

import (
	"time"

	"github.com/samdwyer/barquest/internal/gamedata"
	"github.com/samdwyer/barquest/internal/stats"
)

// PoisonDetonationSkill bursts every poisoned enemy at once. Its damage is
// derived from the hero's Deadly Poison rank rather than its own effects.
const PoisonDetonationSkill = "rogue_poison_detonation"

const (
	deadlyPoisonSkill = "rogue_deadly_poison"
	detonationRatio   = 0.5
	detonationSlowID  = "detonation_slow"
)

var detonationSlow = stats.TimedModifier{
	ID:        detonationSlowID,
	Name:      "Detonation Slow",
	Duration:  6 * time.Second,
	Stacks:    1,
	MaxStacks: 5,
	StatMods:  []stats.StatMod{{Stat: stats.StatSpeed, Kind: stats.Multiplicative, Value: 1.1}},
	Source:    PoisonDetonationSkill,
	IsDebuff:  true,
}

// detonatePoison consumes the poison on every living enemy for
// detonationRatio of a full Deadly Poison per stack, then slows them.
func (p *Processor) detonatePoison(st *State, skill *gamedata.SkillDef, rank int) Result {
	pl := st.Player
	c := &cast{skill: skill, rank: rank, effects: skill.CloneEffects()}
	p.applyTalentPatches(pl, c)

	cost := p.skillCost(st, c)
	unlimited := pl.HasBuff(BuffUnlimitedResource)
	if !unlimited && pl.Resource.Current < cost {
		st.Log.Add(CatInfo, "Not enough "+resourceName(pl.Resource.Type)+"!")
		return Result{Reason: ReasonResource}
	}

	var poisoned int
	for _, e := range st.LivingEnemies() {
		if e.HasDebuff(DebuffPoison) {
			poisoned++
		}
	}
	if poisoned == 0 {
		st.Log.Add(CatInfo, "No enemies are poisoned.")
		return Result{Reason: ReasonMissingDebuff}
	}

	perStack := p.deadlyPoisonAmount(pl.SkillRank(deadlyPoisonSkill)) * detonationRatio
	for _, e := range st.LivingEnemies() {
		m := e.Debuff(DebuffPoison)
		if m == nil {
			continue
		}
		stacks := m.StackCount()
		e.Debuffs = stats.Remove(e.Debuffs, DebuffPoison)
		p.strike(st, c, strikeSpec{
			base:       perStack * float64(stacks),
			skillMult:  1,
			condMult:   1,
			element:    stats.ElementNature,
			label:      skill.Name,
			resistance: true,
		}, e)
		if !e.IsAlive() {
			continue
		}
		if slow := e.Debuff(detonationSlowID); slow != nil {
			slow.AddStack()
			slow.Duration = detonationSlow.Duration
		} else {
			m := detonationSlow
			m.StatMods = append([]stats.StatMod(nil), detonationSlow.StatMods...)
			e.Debuffs = append(e.Debuffs, m)
		}
	}

	if !unlimited {
		pl.Resource.Spend(cost)
	}
	if cd := skill.CooldownDuration(); cd > 0 {
		st.Cooldowns[skill.ID] = cd
	}
	pl.AttackProgress = 0
	if st.Stealthed {
		breakStealth(st)
	}
	return Result{OK: true, DeadEnemyIDs: c.dead}
}

// deadlyPoisonAmount reads the Deadly Poison dot total at a rank, treating an
// unlearned skill as rank 1.
func (p *Processor) deadlyPoisonAmount(rank int) float64 {
	skill := p.data.Skills.GetByID(deadlyPoisonSkill)
	if skill == nil {
		return 0
	}
	rank = min(max(rank, 1), skill.RankCap())
	for i := range skill.Effects {
		e := &skill.Effects[i]
		if e.Type == gamedata.EffectDebuff && e.ID == DebuffPoison {
			return e.Amount.At(rank)
		}
	}
	return 0
}
