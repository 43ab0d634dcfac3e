package game

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/barquest/internal/combat"
	"github.com/samdwyer/barquest/internal/dice"
	"github.com/samdwyer/barquest/internal/entity"
	"github.com/samdwyer/barquest/internal/formulas"
	"github.com/samdwyer/barquest/internal/loot"
	"github.com/samdwyer/barquest/internal/telemetry"
)

// resolveDeaths runs death resolution once for each enemy id and marks the
// wave cleared when nobody is left standing.
func (s *Session) resolveDeaths(ctx context.Context, ids []string) {
	if s.run == nil {
		return
	}
	for _, id := range ids {
		if s.run.resolved[id] {
			continue
		}
		e := s.combat.Enemy(id)
		if e == nil || e.IsAlive() {
			continue
		}
		s.run.resolved[id] = true
		s.resolveDeath(ctx, e)
	}
	if s.run.Phase == PhaseFighting && !s.combat.AnyAlive() {
		s.run.Phase = PhaseCleared
		s.combat.Pending = nil
		s.player.AttackProgress = 0
	}
}

// collectDead returns enemies that died without being resolved yet.
func (s *Session) collectDead() []string {
	var out []string
	for _, e := range s.combat.Enemies {
		if !e.IsAlive() && !s.run.resolved[e.ID] {
			out = append(out, e.ID)
		}
	}
	return out
}

func (s *Session) resolveDeath(ctx context.Context, e *entity.Enemy) {
	run := s.run
	dg := run.Dungeon

	_, span := telemetry.Tracer("game").Start(ctx, "combat.enemy_death")
	defer span.End()

	e.AttackProgress = 0
	reward := formulas.KillRewards(e.Level, max(1, dg.Tier), s.cfg.goldMultiplier(run.Heroic), e.IsBoss)
	s.inv.Gold += reward.Gold
	s.player.XP += reward.XP
	run.GoldEarned += reward.Gold
	run.XPEarned += reward.XP
	s.combat.Log.Addf(combat.CatXP, "%s dies. +%d gold, +%d XP.", e.Name, reward.Gold, reward.XP)

	dropped := false
	if !e.IsBoss {
		remaining := run.Quota - run.Kills
		if dice.Chance(s.rng, loot.DropChance(run.PendingDrops, remaining)) {
			if it := s.loot.Roll(loot.DropContext{Level: e.Level, Family: e.Family, Biome: dg.Biome}); it != nil {
				s.inv.Add(it)
				run.Drops = append(run.Drops, it)
				run.PendingDrops--
				dropped = true
				s.combat.Log.Addf(combat.CatLoot, "%s drops %s [%s].", e.Name, it.Name, it.Rarity)
			}
		}
		run.Kills++
	} else {
		run.BossDefeated = true
	}

	s.proc.NotifyKill(s.combat, e)
	s.advanceQuests(questEvent{
		kind:      eventKill,
		dungeonID: dg.ID,
		enemy:     e,
		skillID:   s.combat.KilledBy[e.ID],
	})

	if cur := s.combat.CurrentTarget(); cur != nil && cur.ID == e.ID {
		s.combat.CycleTarget()
	}

	span.SetAttributes(
		attribute.String("enemy.id", e.DefID),
		attribute.Bool("enemy.boss", e.IsBoss),
		attribute.Int("reward.gold", reward.Gold),
		attribute.Int("reward.xp", reward.XP),
		attribute.Bool("drop", dropped),
	)
}
