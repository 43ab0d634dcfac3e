package game

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/samdwyer/barquest/internal/combat"
	"github.com/samdwyer/barquest/internal/entity"
	"github.com/samdwyer/barquest/internal/formulas"
	"github.com/samdwyer/barquest/internal/stats"
)

// TickResult reports what one step did.
type TickResult struct {
	Dead     []string
	Cleared  bool
	Defeated bool
	Levels   int
}

// Tick advances the live encounter by delta. It does nothing outside a
// fighting dungeon run.
func (s *Session) Tick(ctx context.Context, delta time.Duration) TickResult {
	var res TickResult
	if !s.InCombat() || s.run.Phase != PhaseFighting || delta <= 0 {
		return res
	}
	st := s.combat
	p := s.player

	if !st.AnyAlive() {
		p.AttackProgress = 0
		return res
	}

	eff := p.EffectiveStats()
	if p.Stun > 0 {
		p.Stun = max(0, p.Stun-delta)
	} else if st.AutoAttack {
		interval := formulas.AttackInterval(eff.Speed, eff.HastePct)
		p.AttackProgress = math.Min(1, p.AttackProgress+float64(delta)/float64(interval))
	}

	if p.Invulnerable > 0 {
		p.Invulnerable = max(0, p.Invulnerable-delta)
	}

	s.regen(delta)
	decayCooldowns(st.Cooldowns, delta)
	decayCooldowns(st.MonsterCooldowns, delta)
	s.tickBuffs(delta)
	dead := s.tickEnemies(delta)

	if st.AutoAttack && p.AttackProgress >= 1 {
		if t := st.CurrentTarget(); t != nil && t.IsAlive() {
			dead = append(dead, s.proc.BasicAttack(st)...)
		} else {
			st.CycleTarget()
		}
	} else if t := st.CurrentTarget(); t == nil || !t.IsAlive() {
		st.CycleTarget()
	}

	for _, e := range st.Enemies {
		if e.IsAlive() && e.AttackProgress >= 1 {
			if s.proc.ResolveEnemyAttacks(ctx, st) {
				s.defeat(ctx)
				res.Defeated = true
				return res
			}
			break
		}
	}

	dead = append(dead, s.proc.ResolvePending(st, delta)...)
	dead = append(dead, s.collectDead()...)
	dead = unique(dead)
	s.resolveDeaths(ctx, dead)
	res.Dead = dead
	res.Cleared = s.run != nil && s.run.Phase == PhaseCleared

	res.Levels = s.checkLevelUp()
	return res
}

func (s *Session) regen(delta time.Duration) {
	p := s.player
	sec := delta.Seconds()
	if s.cfg.HPRegenPct > 0 && p.IsAlive() {
		p.Heal(p.MaxHP * s.cfg.HPRegenPct / 100 * sec)
	}
	if p.Resource.Type == stats.ResourceRage {
		return
	}
	if rate := s.cfg.ResourceRegen[p.Resource.Type]; rate > 0 {
		p.Resource.Gain(rate * sec)
	}
}

func decayCooldowns(cds map[string]time.Duration, delta time.Duration) {
	for id, left := range cds {
		left -= delta
		if left <= 0 {
			delete(cds, id)
			continue
		}
		cds[id] = left
	}
}

func (s *Session) tickBuffs(delta time.Duration) {
	p := s.player
	st := s.combat
	if len(p.Buffs) == 0 {
		return
	}
	active, payloads, expired := stats.Tick(p.Buffs, delta)
	p.Buffs = active

	received := p.EffectiveStats().HealingReceivedMultiplier
	for _, pl := range payloads {
		if pl.Healing <= 0 {
			continue
		}
		healed := p.Heal(math.Round(pl.Healing * received))
		if healed > 0 {
			st.Log.Addf(combat.CatHeal, "%s heals you for %.0f.", pl.Name, healed)
			st.Floating = append(st.Floating, combat.FloatingText{EntityID: p.ID, Text: fmt.Sprintf("+%.0f", healed), Category: combat.CatHeal})
		}
	}
	if len(expired) == 0 {
		return
	}
	for _, m := range expired {
		if m.ID == combat.BuffStealth {
			st.Stealthed = false
		}
		st.Log.Addf(combat.CatInfo, "%s fades.", m.Name)
	}
	entity.RecalculateStats(p, s.inv, s.data)
}

// tickEnemies accrues attack progress and ticks debuffs, returning enemies
// killed by periodic damage.
func (s *Session) tickEnemies(delta time.Duration) []string {
	st := s.combat
	var dead []string
	for _, e := range st.Enemies {
		if !e.IsAlive() {
			continue
		}
		if e.Stun > 0 {
			e.Stun = max(0, e.Stun-delta)
		} else {
			eff := e.EffectiveStats()
			interval := formulas.AttackInterval(eff.Speed, eff.HastePct)
			e.AttackProgress = math.Min(1, e.AttackProgress+float64(delta)/float64(interval))
		}
		if len(e.Debuffs) == 0 {
			continue
		}
		active, payloads, _ := stats.Tick(e.Debuffs, delta)
		e.Debuffs = active
		for _, pl := range payloads {
			dmg := math.Round(pl.Damage)
			if dmg <= 0 || !e.IsAlive() {
				continue
			}
			e.TakeDamage(dmg)
			st.Log.Addf(combat.CatDebuff, "%s takes %.0f from %s.", e.Name, dmg, pl.Name)
			st.Floating = append(st.Floating, combat.FloatingText{EntityID: e.ID, Text: fmt.Sprintf("%.0f", dmg), Category: combat.CatDebuff})
		}
		if !e.IsAlive() {
			dead = append(dead, e.ID)
		}
	}
	return dead
}

func unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
