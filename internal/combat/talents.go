package combat

import (
	"github.com/samdwyer/barquest/internal/dice"
	"github.com/samdwyer/barquest/internal/entity"
	"github.com/samdwyer/barquest/internal/gamedata"
	"github.com/samdwyer/barquest/internal/stats"
)

// Poison proc tuning.
const poisonMaxStacks = 5

// fire resolves every learned talent trigger listening for event, then hands
// the event to the cast's special handler.
func (p *Processor) fire(st *State, c *cast, event gamedata.TriggerEvent, target *entity.Enemy, crit bool) {
	pl := st.Player
	for _, t := range p.learnedTalents(pl) {
		for _, tr := range t.def.Triggers {
			if tr.Event != event || !dice.Percent(p.rng, tr.Chance.At(t.rank)) {
				continue
			}
			if g := tr.Buff; g != nil {
				p.grantBuff(st, g, t.rank, t.def.ID)
			}
			if g := tr.Debuff; g != nil && target != nil && target.IsAlive() {
				p.grantDebuff(st, g, t.rank, t.def.ID, target)
			}
			if tr.Resource.IsSet() {
				pl.Resource.Gain(tr.Resource.At(t.rank))
			}
		}
	}
	if c != nil && c.special != nil {
		c.special(event, target, crit)
	}
}

func grantModifier(g *gamedata.ModifierGrant, rank int, source string) stats.TimedModifier {
	return stats.TimedModifier{
		ID:        g.ID,
		Name:      g.Name,
		Duration:  gamedata.Seconds(g.Duration),
		Stacks:    1,
		MaxStacks: g.MaxStacks,
		StatMods:  gamedata.ResolveStatMods(g.StatMods, rank),
		Element:   g.Element,
		Source:    source,
	}
}

func (p *Processor) grantBuff(st *State, g *gamedata.ModifierGrant, rank int, source string) {
	pl := st.Player
	m := grantModifier(g, rank, source)
	if existing := pl.Buff(g.ID); existing != nil && g.MaxStacks > 1 {
		existing.AddStack()
		existing.Duration = m.Duration
	} else {
		pl.Buffs = stats.Upsert(pl.Buffs, m)
	}
	if len(m.StatMods) > 0 {
		entity.RecalculateStats(pl, st.Inventory, p.data)
	}
	st.Log.Addf(CatBuff, "%s activates.", g.Name)
	p.float(st, pl.ID, g.Name, CatBuff)
}

func (p *Processor) grantDebuff(st *State, g *gamedata.ModifierGrant, rank int, source string, target *entity.Enemy) {
	m := grantModifier(g, rank, source)
	m.IsDebuff = true
	if g.TotalDamage.IsSet() && g.Ticks > 0 {
		total := g.TotalDamage.At(rank)
		eff := st.Player.EffectiveStats()
		total *= eff.ElementMultiplier(g.Element)
		target.Debuffs = applyDot(target.Debuffs, m, total, g.Ticks, g.MaxStacks > 1)
	} else {
		target.Debuffs = stats.Upsert(target.Debuffs, m)
	}
	st.Log.Addf(CatDebuff, "%s afflicts %s.", g.Name, target.Name)
}

// poisonProc rolls every learned poison proc against the struck target.
func (p *Processor) poisonProc(st *State, target *entity.Enemy) {
	if !target.IsAlive() {
		return
	}
	for _, t := range p.learnedTalents(st.Player) {
		pp := t.def.PoisonProc
		if pp == nil || !dice.Percent(p.rng, pp.Chance.At(t.rank)) {
			continue
		}
		eff := st.Player.EffectiveStats()
		total := pp.TotalDamage.At(t.rank) * eff.ElementMultiplier(stats.ElementNature)
		target.Debuffs = applyDot(target.Debuffs, stats.TimedModifier{
			ID:        DebuffPoison,
			Name:      "Poison",
			Duration:  gamedata.Seconds(pp.Duration),
			MaxStacks: poisonMaxStacks,
			Element:   stats.ElementNature,
			Source:    t.def.ID,
			IsDebuff:  true,
		}, total, max(1, pp.Ticks), true)
		st.Log.Addf(CatDebuff, "%s is poisoned.", target.Name)
	}
}

// executeCritBonus sums talent crit bonuses that apply to a wounded target.
func (p *Processor) executeCritBonus(pl *entity.Player, target *entity.Enemy) float64 {
	var bonus float64
	pct := entity.HPFraction(target) * 100
	for _, t := range p.learnedTalents(pl) {
		if ec := t.def.ExecuteCrit; ec != nil && pct < ec.BelowHPPct {
			bonus += ec.Bonus.At(t.rank)
		}
	}
	return bonus
}

func (p *Processor) gainRageOnHit(pl *entity.Player) {
	if pl.Resource.Type != stats.ResourceRage {
		return
	}
	for _, t := range p.learnedTalents(pl) {
		if t.def.RageOnHit.IsSet() {
			pl.Resource.Gain(t.def.RageOnHit.At(t.rank))
		}
	}
}

// NotifyKill fires on-kill talent triggers for an enemy that just died.
func (p *Processor) NotifyKill(st *State, e *entity.Enemy) {
	p.fire(st, nil, gamedata.OnKill, e, false)
}
