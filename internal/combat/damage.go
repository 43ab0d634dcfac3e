package combat

import (
	"context"
	"fmt"
	"math"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/barquest/internal/dice"
	"github.com/samdwyer/barquest/internal/entity"
	"github.com/samdwyer/barquest/internal/formulas"
	"github.com/samdwyer/barquest/internal/gamedata"
	"github.com/samdwyer/barquest/internal/stats"
	"github.com/samdwyer/barquest/internal/telemetry"
)

// strikeSpec describes one damage instance against an enemy.
type strikeSpec struct {
	base      float64
	skillMult float64
	condMult  float64
	element   stats.Element
	label     string

	// resistance mitigates with the element's resistance instead of armor.
	resistance bool
	// onHit runs on-hit and on-crit talent hooks and the poison proc.
	onHit bool
}

// strike applies the damage pipeline: skill multiplier, double damage,
// conditional multiplier, crit, global multiplier, element multiplier, then
// mitigation and rounding.
func (p *Processor) strike(st *State, c *cast, s strikeSpec, target *entity.Enemy) (dealt float64, crit bool) {
	pl := st.Player
	eff := pl.EffectiveStats()
	tgt := target.EffectiveStats()

	dmg := s.base * s.skillMult
	if pl.HasBuff(BuffDoubleDamage) {
		dmg *= 2
	}
	dmg *= s.condMult

	roll := formulas.ResolveCrit(p.rng, formulas.CritCheck{
		CritPct:         eff.CritPct,
		Precision:       eff.Precision,
		TargetEvasion:   tgt.Evasion,
		CritChanceTaken: tgt.CritChanceTaken,
		Bonus:           p.executeCritBonus(pl, target),
	})
	crit = roll.Crit
	if crit {
		dmg *= formulas.CritMultiplier(eff.CritDmg)
	}
	dmg *= eff.DamageMultiplier
	dmg *= eff.ElementMultiplier(s.element)

	defense := tgt.Armor
	if s.resistance && s.element != stats.ElementPhysical {
		defense = tgt.Resistance(s.element)
	}
	dmg = roundDamage(formulas.Mitigate(dmg, defense, pl.Level))
	dealt = target.TakeDamage(dmg)

	if crit {
		st.Log.Addf(CatCrit, "CRITICAL! %s hits %s for %.0f.", s.label, target.Name, dmg)
		p.float(st, target.ID, fmt.Sprintf("%.0f!", dmg), CatCrit)
	} else {
		st.Log.Addf(CatPlayerAttack, "%s hits %s for %.0f.", s.label, target.Name, dmg)
		p.float(st, target.ID, fmt.Sprintf("%.0f", dmg), CatPlayerAttack)
	}

	if s.onHit {
		p.gainRageOnHit(pl)
		p.fire(st, c, gamedata.OnHit, target, crit)
		if crit {
			p.fire(st, c, gamedata.OnCrit, target, crit)
		}
		p.poisonProc(st, target)
	}

	if !target.IsAlive() {
		c.markDead(target.ID)
		if c.skill != nil {
			st.KilledBy[target.ID] = c.skill.ID
		}
	}
	return dealt, crit
}

// BasicAttack swings the weapon at the current target and resets the attack
// gauge. It returns the ids of enemies that died.
func (p *Processor) BasicAttack(st *State) []string {
	pl := st.Player
	pl.AttackProgress = 0
	target := st.CurrentTarget()
	if target == nil || !target.IsAlive() {
		return nil
	}
	c := &cast{}
	eff := pl.EffectiveStats()
	p.strike(st, c, strikeSpec{
		base:      formulas.MeleeDamage(p.rng, eff.AttMin, eff.AttMax, formulas.AttackPower(eff), p.cfg.AttackPowerRatio),
		skillMult: 1,
		condMult:  1,
		element:   stats.ElementPhysical,
		label:     "Your attack",
		onHit:     true,
	}, target)
	if pl.Resource.Type == stats.ResourceRage {
		pl.Resource.Gain(p.cfg.RagePerHitDealt)
	}
	return c.dead
}

// Intake reports how an incoming hit was absorbed.
type Intake struct {
	Incoming float64
	Absorbed float64
	Taken    float64
	Immune   bool
	Warded   bool
	Defeated bool
}

// DamagePlayer applies incoming damage: invulnerability blocks it, the shield
// absorbs first, and the remainder reduces HP. A lethal hit consumes a death
// ward, healing a percentage of max HP, if one is active.
func (p *Processor) DamagePlayer(st *State, amount float64, source string) Intake {
	pl := st.Player
	in := Intake{Incoming: amount}
	if amount <= 0 {
		return in
	}
	if pl.Invulnerable > 0 {
		in.Immune = true
		st.Log.Addf(CatShield, "You are immune to %s's attack.", source)
		p.float(st, pl.ID, "Immune", CatShield)
		return in
	}

	remaining := amount
	if pl.Shield > 0 {
		in.Absorbed = math.Min(pl.Shield, remaining)
		pl.Shield -= in.Absorbed
		remaining -= in.Absorbed
	}
	in.Taken = pl.TakeDamage(remaining)

	switch {
	case in.Absorbed > 0 && remaining <= 0:
		st.Log.Addf(CatShield, "Your shield absorbs %.0f damage from %s.", in.Absorbed, source)
	case in.Absorbed > 0:
		st.Log.Addf(CatEnemyAttack, "%s hits you for %.0f (%.0f absorbed).", source, remaining, in.Absorbed)
	default:
		st.Log.Addf(CatEnemyAttack, "%s hits you for %.0f.", source, remaining)
	}
	if remaining > 0 {
		p.float(st, pl.ID, fmt.Sprintf("-%.0f", remaining), CatEnemyAttack)
	}

	if pl.IsAlive() {
		return in
	}
	if ward := pl.Buff(BuffDeathWard); ward != nil {
		pct := ward.Value
		pl.Buffs = stats.Remove(pl.Buffs, BuffDeathWard)
		pl.Stats.HP = math.Max(1, math.Round(pl.MaxHP*pct/100))
		in.Warded = true
		st.Log.Add(CatHeal, "A guardian spirit saves you from death!")
		p.float(st, pl.ID, "Saved!", CatHeal)
		return in
	}
	in.Defeated = true
	return in
}

// ResolveEnemyAttacks lets every enemy whose gauge is full attack once. It
// stops at the first lethal hit and reports defeat.
func (p *Processor) ResolveEnemyAttacks(ctx context.Context, st *State) (defeated bool) {
	for _, e := range st.Enemies {
		if !e.IsAlive() || e.AttackProgress < 1 {
			continue
		}
		e.AttackProgress = 0
		if st.Stealthed {
			continue
		}
		if p.enemyAttack(st, e).Defeated {
			_, span := telemetry.Tracer("combat").Start(ctx, "combat.defeat")
			span.SetAttributes(
				attribute.String("enemy.id", e.DefID),
				attribute.Int("player.level", st.Player.Level),
			)
			span.End()
			return true
		}
	}
	return false
}

func (p *Processor) enemyAttack(st *State, e *entity.Enemy) Intake {
	pl := st.Player
	eff := pl.EffectiveStats()
	if dice.Percent(p.rng, eff.Evasion) {
		st.Log.Addf(CatDodge, "You dodge %s's attack.", e.Name)
		p.float(st, pl.ID, "Dodge", CatDodge)
		p.fire(st, &cast{}, gamedata.OnDodge, e, false)
		return Intake{}
	}

	es := e.EffectiveStats()
	mult, element, name := 1.0, stats.ElementPhysical, e.Name
	if sk := p.readyMonsterSkill(st, e); sk != nil {
		mult = sk.Multiplier
		if mult <= 0 {
			mult = 1
		}
		if sk.Element != "" {
			element = sk.Element
		}
		name = e.Name + "'s " + sk.Name
		st.MonsterCooldowns[MonsterCooldownKey(e.ID, sk.ID)] = gamedata.Seconds(sk.Cooldown)
	}

	physical := formulas.MeleeDamage(p.rng, es.AttMin, es.AttMax, formulas.AttackPower(es), p.cfg.AttackPowerRatio) * mult
	if element == stats.ElementPhysical {
		physical = formulas.Mitigate(physical, eff.Armor, e.Level)
	} else {
		physical = formulas.Mitigate(physical, eff.Resistance(element), e.Level)
	}
	var elemental float64
	if prof := e.Elemental; prof != nil {
		elemental = formulas.Mitigate(dice.Between(p.rng, prof.Min, prof.Max)*mult, eff.Resistance(prof.Element), e.Level)
	}
	total := roundDamage((physical + elemental) * eff.DamageTakenMultiplier)

	in := p.DamagePlayer(st, total, name)
	if !in.Immune && pl.Resource.Type == stats.ResourceRage {
		pl.Resource.Gain(p.cfg.RagePerHitTaken)
	}
	return in
}

func (p *Processor) readyMonsterSkill(st *State, e *entity.Enemy) *gamedata.MonsterSkill {
	for i := range e.Skills {
		sk := &e.Skills[i]
		if st.MonsterCooldowns[MonsterCooldownKey(e.ID, sk.ID)] <= 0 {
			return sk
		}
	}
	return nil
}
