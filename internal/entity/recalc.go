package entity

import (
	"slices"

	"github.com/samdwyer/barquest/internal/formulas"
	"github.com/samdwyer/barquest/internal/gamedata"
	"github.com/samdwyer/barquest/internal/stats"
)

// RecalculateStats rebuilds the hero's stats: class stats at level, then
// equipped items, then set bonuses, then talent stat mods. Max HP and the
// resource pool are derived from the result with active buffs applied, and
// current values are clamped. A hero without a max HP yet starts full.
func RecalculateStats(p *Player, inv *Inventory, data *gamedata.GameData) {
	p.EnsureMaps()
	hp := p.Stats.HP
	fresh := p.MaxHP <= 0

	base := stats.NewAttributeSet()
	var class *gamedata.ClassDef
	if data != nil {
		class = data.Classes.GetByID(p.ClassID)
	}
	if class != nil {
		base = class.StatsAtLevel(p.Level)
		if p.Resource.Type == "" {
			p.Resource.Type = class.Resource
		}
	}
	p.BaseStats = base.Clone()

	out := base
	if inv != nil {
		for _, it := range inv.Equipped() {
			out.Merge(it.StatBlock())
		}
		if data != nil {
			applySetBonuses(&out, inv, data)
		}
	}
	if data != nil {
		applyTalents(&out, p, data)
	}
	p.Stats = out

	eff := p.EffectiveStats()
	p.MaxHP = formulas.MaxHP(p.Level, eff)
	if p.Resource.Type == "" {
		p.Resource.Type = stats.ResourceMana
	}
	p.Resource.Max = formulas.MaxResource(p.Resource.Type, p.Level, eff)

	if fresh {
		p.Stats.HP = p.MaxHP
		p.Resource.Fill()
	} else {
		p.Stats.HP = min(max(0, hp), p.MaxHP)
	}
	p.Resource.Current = min(max(0, p.Resource.Current), p.Resource.Max)
}

func applySetBonuses(out *stats.AttributeSet, inv *Inventory, data *gamedata.GameData) {
	counts := inv.SetPieces()
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		set := data.Sets.GetByID(id)
		if set == nil {
			continue
		}
		for _, b := range set.Bonuses {
			if counts[id] < b.Pieces {
				continue
			}
			for _, m := range gamedata.ResolveStatMods(b.Stats, 1) {
				out.Apply(m, 1)
			}
		}
	}
}

func applyTalents(out *stats.AttributeSet, p *Player, data *gamedata.GameData) {
	ids := make([]string, 0, len(p.Talents))
	for id, rank := range p.Talents {
		if rank > 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	for _, id := range ids {
		t := data.Talents.GetByID(id)
		if t == nil {
			continue
		}
		rank := min(p.Talents[id], t.RankCap())
		for _, m := range gamedata.ResolveStatMods(t.StatMods, rank) {
			out.Apply(m, 1)
		}
	}
}
