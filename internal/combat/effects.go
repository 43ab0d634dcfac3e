package combat

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/samdwyer/barquest/internal/entity"
	"github.com/samdwyer/barquest/internal/formulas"
	"github.com/samdwyer/barquest/internal/gamedata"
	"github.com/samdwyer/barquest/internal/stats"
)

// applyEffect resolves one effect of a cast and reports whether it did
// anything.
func (p *Processor) applyEffect(st *State, c *cast, e *gamedata.EffectDef) bool {
	switch e.Type {
	case gamedata.EffectResourceCost:
		return false
	case gamedata.EffectShield:
		return p.applyShield(st, c, e)
	case gamedata.EffectInvulnerability:
		return p.applyInvulnerability(st, c, e)
	case gamedata.EffectDeathWard:
		return p.applyDeathWard(st, c, e)
	case gamedata.EffectBuff:
		return p.applyBuff(st, c, e)
	case gamedata.EffectHeal:
		return p.applyHeal(st, c, e)
	case gamedata.EffectTransformation:
		return p.applyTransformation(st, e)
	case gamedata.EffectStealth:
		return p.applyStealth(st, c, e)
	case gamedata.EffectChannel:
		return p.queueChannel(st, c, e)
	}

	applied := false
	for _, target := range targets(st, e) {
		if !target.IsAlive() {
			continue
		}
		var ok bool
		switch e.Type {
		case gamedata.EffectDamage:
			ok = p.applyDamage(st, c, e, target)
		case gamedata.EffectDebuff:
			ok = p.applyDebuff(st, c, e, target)
		case gamedata.EffectConsumeDebuff:
			ok = p.consumeDebuff(st, c, e, target)
		case gamedata.EffectStackingDamage:
			ok = p.applyStackingDamage(st, c, e, target)
		case gamedata.EffectMultiStrike:
			ok = p.applyMultiStrike(st, c, e, target)
		default:
			p.logger.Warn("unhandled effect type",
				zap.String("skill", c.skill.ID),
				zap.String("type", string(e.Type)),
			)
		}
		applied = applied || ok
	}
	return applied
}

// conditionMultiplier evaluates an effect's target-HP condition. A condition
// without a multiplier gates the effect; one with a multiplier boosts it
// below the threshold.
func conditionMultiplier(e *gamedata.EffectDef, target *entity.Enemy, rank int) (mult float64, ok bool) {
	cond := e.Conditions
	if cond == nil || cond.TargetHPBelow <= 0 {
		return 1, true
	}
	below := target.GetMaxHP() > 0 && entity.HPFraction(target)*100 < cond.TargetHPBelow
	if !cond.Multiplier.IsSet() {
		return 1, below
	}
	if below {
		return cond.Multiplier.At(rank), true
	}
	return 1, true
}

// baseDamage returns the unmodified damage of an effect: a weapon roll plus
// the attack power term, or a spell value scaled by spell power.
func (p *Processor) baseDamage(pl stats.AttributeSet, e *gamedata.EffectDef, rank int) float64 {
	if e.Source == gamedata.SourceWeapon {
		return formulas.MeleeDamage(p.rng, pl.AttMin, pl.AttMax, formulas.AttackPower(pl), p.cfg.AttackPowerRatio)
	}
	return formulas.SpellDamage(e.BaseValue.At(rank), formulas.SpellPower(pl))
}

func (p *Processor) applyDamage(st *State, c *cast, e *gamedata.EffectDef, target *entity.Enemy) bool {
	cond, ok := conditionMultiplier(e, target, c.rank)
	if !ok {
		return false
	}
	mult := 1.0
	if e.Multiplier.IsSet() {
		mult = e.Multiplier.At(c.rank)
	}
	pl := st.Player.EffectiveStats()
	p.strike(st, c, strikeSpec{
		base:      p.baseDamage(pl, e, c.rank),
		skillMult: mult,
		condMult:  cond,
		element:   elementOf(e),
		label:     c.skill.Name,
		onHit:     true,
	}, target)
	return true
}

func elementOf(e *gamedata.EffectDef) stats.Element {
	if e.DamageType == "" {
		return stats.ElementPhysical
	}
	return e.DamageType
}

func (p *Processor) applyMultiStrike(st *State, c *cast, e *gamedata.EffectDef, target *entity.Enemy) bool {
	n := int(e.Strikes.At(c.rank))
	if n <= 0 {
		n = 1
	}
	mult := 1.0
	if e.Multiplier.IsSet() {
		mult = e.Multiplier.At(c.rank)
	}
	for i := 0; i < n && target.IsAlive(); i++ {
		pl := st.Player.EffectiveStats()
		p.strike(st, c, strikeSpec{
			base:      p.baseDamage(pl, e, c.rank),
			skillMult: mult,
			condMult:  1,
			element:   elementOf(e),
			label:     fmt.Sprintf("%s (%d/%d)", c.skill.Name, i+1, n),
			onHit:     true,
		}, target)
	}
	return true
}

func (p *Processor) consumeDebuff(st *State, c *cast, e *gamedata.EffectDef, target *entity.Enemy) bool {
	d := target.Debuff(e.RequiredDebuff)
	if d == nil {
		return false
	}
	stacks := d.StackCount()
	target.Debuffs = stats.Remove(target.Debuffs, e.RequiredDebuff)
	p.strike(st, c, strikeSpec{
		base:       e.DamagePerStack.At(c.rank) * float64(stacks),
		skillMult:  1,
		condMult:   1,
		element:    elementOf(e),
		label:      c.skill.Name,
		resistance: true,
	}, target)
	return true
}

func (p *Processor) applyStackingDamage(st *State, c *cast, e *gamedata.EffectDef, target *entity.Enemy) bool {
	pl := st.Player
	stacks := stackCount(pl.Buff(e.StackBuffID))
	eff := pl.EffectiveStats()
	p.strike(st, c, strikeSpec{
		base:      p.baseDamage(eff, e, c.rank),
		skillMult: 1 + float64(stacks)*e.StackMultiplier.At(c.rank),
		condMult:  1,
		element:   elementOf(e),
		label:     c.skill.Name,
		onHit:     true,
	}, target)

	dur := e.DurationAt(c.rank)
	if b := pl.Buff(e.StackBuffID); b != nil {
		b.AddStack()
		b.Duration = dur
	} else {
		name := e.Name
		if name == "" {
			name = e.StackBuffID
		}
		pl.Buffs = append(pl.Buffs, stats.TimedModifier{
			ID:        e.StackBuffID,
			Name:      name,
			Duration:  dur,
			Stacks:    1,
			MaxStacks: e.MaxStacks,
			Source:    c.skill.ID,
		})
	}
	return true
}

func (p *Processor) applyDebuff(st *State, c *cast, e *gamedata.EffectDef, target *entity.Enemy) bool {
	dur := e.DurationAt(c.rank)
	switch e.DebuffType {
	case gamedata.DebuffDot:
		total := e.Amount.At(c.rank)
		pl := st.Player.EffectiveStats()
		if e.Source == gamedata.SourceSpell {
			total = formulas.SpellDamage(total, formulas.SpellPower(pl))
		}
		total *= pl.ElementMultiplier(elementOf(e))
		ticks := max(1, int(e.Ticks.At(c.rank)))
		target.Debuffs = applyDot(target.Debuffs, stats.TimedModifier{
			ID:        e.ID,
			Name:      e.Name,
			Duration:  dur,
			MaxStacks: e.MaxStacks,
			Element:   elementOf(e),
			Source:    c.skill.ID,
			IsDebuff:  true,
		}, total, ticks, e.IsStacking)
		st.Log.Addf(CatDebuff, "%s afflicts %s.", e.Name, target.Name)

	case gamedata.DebuffCC:
		target.Stun += dur
		if existing := target.Debuff(e.ID); existing != nil {
			existing.Duration = max(existing.Duration, target.Stun)
		} else {
			target.Debuffs = append(target.Debuffs, stats.TimedModifier{
				ID: e.ID, Name: e.Name, Duration: target.Stun, Source: c.skill.ID, IsDebuff: true,
			})
		}
		st.Log.Addf(CatDebuff, "%s is stunned for %.1fs.", target.Name, dur.Seconds())
		p.float(st, target.ID, "Stunned", CatDebuff)

	default:
		mods := gamedata.ResolveStatMods(e.StatMods, c.rank)
		if existing := target.Debuff(e.ID); existing != nil {
			if e.IsStacking {
				existing.AddStack()
			}
			existing.Duration = dur
			existing.StatMods = mods
		} else {
			target.Debuffs = append(target.Debuffs, stats.TimedModifier{
				ID:        e.ID,
				Name:      e.Name,
				Duration:  dur,
				Stacks:    1,
				MaxStacks: e.MaxStacks,
				StatMods:  mods,
				Source:    c.skill.ID,
				IsDebuff:  true,
			})
		}
		st.Log.Addf(CatDebuff, "%s is afflicted by %s.", target.Name, e.Name)
	}
	return true
}

// applyDot adds or refreshes a periodic damage modifier. The total is split
// evenly across ticks spread over the duration. A refresh renews the duration
// and payload but keeps the running tick countdown, so recasting faster than
// the interval still lets ticks land. A stacking dot also gains a stack.
func applyDot(mods []stats.TimedModifier, m stats.TimedModifier, total float64, ticks int, stacking bool) []stats.TimedModifier {
	m.TickInterval = m.Duration / time.Duration(ticks)
	m.NextTickIn = m.TickInterval
	m.DamagePerTick = total / float64(ticks)
	if i := stats.Find(mods, m.ID); i >= 0 {
		cur := &mods[i]
		cur.Duration = m.Duration
		cur.DamagePerTick = m.DamagePerTick
		cur.Source = m.Source
		if cur.TickInterval <= 0 {
			cur.TickInterval = m.TickInterval
			cur.NextTickIn = m.NextTickIn
		}
		if stacking {
			cur.MaxStacks = max(m.MaxStacks, cur.MaxStacks)
			cur.AddStack()
		}
		return mods
	}
	m.Stacks = 1
	return append(mods, m)
}

func (p *Processor) applyShield(st *State, c *cast, e *gamedata.EffectDef) bool {
	amount := e.Amount.At(c.rank)
	if amount <= 0 {
		return false
	}
	st.Player.Shield += amount
	st.Log.Addf(CatShield, "%s absorbs the next %.0f damage.", c.skill.Name, amount)
	p.float(st, st.Player.ID, fmt.Sprintf("+%.0f shield", amount), CatShield)
	return true
}

func (p *Processor) applyInvulnerability(st *State, c *cast, e *gamedata.EffectDef) bool {
	dur := e.DurationAt(c.rank)
	if dur <= 0 {
		return false
	}
	st.Player.Invulnerable += dur
	st.Log.Addf(CatBuff, "%s: you are immune to damage.", c.skill.Name)
	return true
}

func (p *Processor) applyDeathWard(st *State, c *cast, e *gamedata.EffectDef) bool {
	id := e.ID
	if id == "" {
		id = BuffDeathWard
	}
	st.Player.Buffs = stats.Upsert(st.Player.Buffs, stats.TimedModifier{
		ID:       id,
		Name:     e.Name,
		Duration: e.DurationAt(c.rank),
		Value:    e.HealPercent.At(c.rank),
		Source:   c.skill.ID,
	})
	st.Log.Addf(CatBuff, "%s watches over you.", e.Name)
	return true
}

func (p *Processor) applyBuff(st *State, c *cast, e *gamedata.EffectDef) bool {
	pl := st.Player
	dur := e.DurationAt(c.rank)
	if dur <= 0 {
		return false
	}
	hpPct := entity.HPFraction(pl)

	m := stats.TimedModifier{
		ID:        e.ID,
		Name:      e.Name,
		Duration:  dur,
		MaxStacks: e.MaxStacks,
		StatMods:  gamedata.ResolveStatMods(e.StatMods, c.rank),
		Source:    c.skill.ID,
	}
	if e.Amount.IsSet() && e.Ticks.IsSet() {
		eff := pl.EffectiveStats()
		total := formulas.SpellDamage(e.Amount.At(c.rank), formulas.SpellPower(eff)) * eff.HealingMultiplier
		ticks := max(1, int(e.Ticks.At(c.rank)))
		m.TickInterval = dur / time.Duration(ticks)
		m.NextTickIn = m.TickInterval
		m.HealingPerTick = total / float64(ticks)
	}
	if existing := pl.Buff(e.ID); existing != nil {
		m.Stacks = existing.Stacks
		if m.IsPeriodic() && existing.IsPeriodic() {
			m.NextTickIn = min(existing.NextTickIn, m.TickInterval)
		}
	}
	pl.Buffs = stats.Upsert(pl.Buffs, m)

	if len(m.StatMods) > 0 {
		entity.RecalculateStats(pl, st.Inventory, p.data)
		if e.PreserveHPPct {
			pl.Stats.HP = math.Round(pl.MaxHP * hpPct)
		}
	}
	st.Log.Addf(CatBuff, "You gain %s.", e.Name)
	p.float(st, pl.ID, e.Name, CatBuff)
	return true
}

func (p *Processor) applyHeal(st *State, c *cast, e *gamedata.EffectDef) bool {
	pl := st.Player
	eff := pl.EffectiveStats()
	amount := formulas.SpellDamage(e.BaseValue.At(c.rank), formulas.SpellPower(eff))
	amount *= eff.HealingMultiplier * eff.HealingReceivedMultiplier
	healed := pl.Heal(math.Round(amount))
	st.Log.Addf(CatHeal, "%s heals you for %.0f.", c.skill.Name, healed)
	p.float(st, pl.ID, fmt.Sprintf("+%.0f", healed), CatHeal)
	return true
}

func (p *Processor) applyTransformation(st *State, e *gamedata.EffectDef) bool {
	pl := st.Player
	if pl.Form == e.Form {
		pl.Form = stats.FormNone
		st.Log.Add(CatBuff, "You return to your normal form.")
	} else {
		pl.Form = e.Form
		st.Log.Addf(CatBuff, "You assume %s form.", e.Form)
	}
	return true
}

func (p *Processor) applyStealth(st *State, c *cast, e *gamedata.EffectDef) bool {
	id := e.ID
	if id == "" {
		id = BuffStealth
	}
	st.Stealthed = true
	st.AutoAttack = false
	st.Player.Buffs = stats.Upsert(st.Player.Buffs, stats.TimedModifier{
		ID:       id,
		Name:     e.Name,
		Duration: e.DurationAt(c.rank),
		Source:   c.skill.ID,
	})
	st.Log.Add(CatBuff, "You melt into the shadows.")
	return true
}

func (p *Processor) queueChannel(st *State, c *cast, e *gamedata.EffectDef) bool {
	if !st.AnyAlive() {
		return false
	}
	waves := int(e.Waves.At(c.rank))
	interval := gamedata.Seconds(e.WaveInterval.At(c.rank))
	if waves <= 0 || interval <= 0 {
		return false
	}
	eff := st.Player.EffectiveStats()
	st.Pending = append(st.Pending, PendingAction{
		SkillID:    c.skill.ID,
		Name:       c.skill.Name,
		Waves:      waves,
		Interval:   interval,
		Remaining:  interval,
		Damage:     formulas.SpellDamage(e.BaseValue.At(c.rank), formulas.SpellPower(eff)),
		Element:    elementOf(e),
		AllEnemies: e.Target == gamedata.TargetAllEnemies,
	})
	st.Log.Addf(CatInfo, "You begin channeling %s.", c.skill.Name)
	return true
}

func (p *Processor) float(st *State, id, text string, cat Category) {
	st.Floating = append(st.Floating, FloatingText{EntityID: id, Text: text, Category: cat})
}
