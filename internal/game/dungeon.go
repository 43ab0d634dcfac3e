package game

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/barquest/internal/combat"
	"github.com/samdwyer/barquest/internal/dice"
	"github.com/samdwyer/barquest/internal/entity"
	"github.com/samdwyer/barquest/internal/gamedata"
	"github.com/samdwyer/barquest/internal/loot"
	"github.com/samdwyer/barquest/internal/telemetry"
)

// Wave size bounds.
const (
	minWaveSize = 1
	maxWaveSize = 3
)

// chestGoldPerTier is the base gold of the end-of-dungeon chest.
const chestGoldPerTier = 25

// Run is one pass through a dungeon.
type Run struct {
	Dungeon *gamedata.DungeonDef
	Heroic  bool
	Phase   Phase

	Wave         int
	Kills        int
	Quota        int
	PendingDrops int
	BossSpawned  bool
	BossDefeated bool

	GoldEarned int
	XPEarned   int
	Drops      []*entity.Item

	resolved  map[string]bool
	scheduled bool
}

// Summary reports how the last run ended.
type Summary struct {
	DungeonID   string
	DungeonName string
	Heroic      bool
	Outcome     Phase
	Kills       int
	Gold        int
	XP          int
	GoldLost    int
	Drops       []*entity.Item
}

// EnterDungeon starts a run and spawns the first wave.
func (s *Session) EnterDungeon(ctx context.Context, dungeonID string, heroic bool) error {
	if s.InCombat() {
		return ErrInCombat
	}
	dg := s.data.Dungeons.GetByID(dungeonID)
	if dg == nil {
		return fmt.Errorf("%w: %s", ErrUnknownDungeon, dungeonID)
	}
	if s.player.Level < dg.LevelReq {
		return fmt.Errorf("%w: %s requires level %d", ErrLevelTooLow, dg.Name, dg.LevelReq)
	}

	_, span := telemetry.Tracer("game").Start(ctx, "dungeon.enter")
	span.SetAttributes(
		attribute.String("dungeon.id", dg.ID),
		attribute.Bool("heroic", heroic),
		attribute.Int("player.level", s.player.Level),
	)
	defer span.End()

	s.epoch++
	s.combat.Reset()
	s.combat.Log.Clear()
	s.combat.AutoAttack = s.cfg.AutoAttack
	s.recalc()
	s.run = &Run{
		Dungeon:      dg,
		Heroic:       heroic,
		Quota:        dg.Quota(),
		PendingDrops: s.cfg.DropsPerRun,
		resolved:     make(map[string]bool),
	}
	s.summary = nil
	s.view = ViewDungeon

	mode := "normal"
	if heroic {
		mode = "heroic"
	}
	s.combat.Log.Addf(combat.CatInfo, "You enter %s (%s).", dg.Name, mode)
	s.logger.Info("dungeon entered",
		zap.String("dungeon", dg.ID),
		zap.Bool("heroic", heroic),
		zap.Int("level", s.player.Level),
	)
	s.spawnWave()
	return nil
}

func (s *Session) spawnWave() {
	run := s.run
	pool := s.data.DungeonPool(run.Dungeon)
	weights := make([]float64, len(pool))
	for i, m := range pool {
		weights[i] = float64(max(1, m.SpawnWeight))
	}
	n := dice.IntBetween(s.rng, minWaveSize, maxWaveSize)
	enemies := make([]*entity.Enemy, 0, n)
	for range n {
		idx := dice.Weighted(s.rng, weights)
		if idx < 0 {
			break
		}
		enemies = append(enemies, s.spawn(pool[idx]))
	}
	run.Wave++
	run.Phase = PhaseFighting
	run.scheduled = false
	s.combat.SetEnemies(enemies)
	s.combat.Log.Addf(combat.CatInfo, "Wave %d: %d enemies approach.", run.Wave, len(enemies))
}

func (s *Session) spawnBoss() {
	run := s.run
	def := s.data.Monsters.GetByID(run.Dungeon.BossID)
	if def == nil {
		s.logger.Warn("dungeon boss missing", zap.String("boss", run.Dungeon.BossID))
		run.BossDefeated = true
		s.endDungeon()
		return
	}
	run.BossSpawned = true
	run.Phase = PhaseFighting
	run.scheduled = false
	s.combat.SetEnemies([]*entity.Enemy{s.spawn(def)})
	s.combat.Log.Addf(combat.CatInfo, "%s appears!", def.Name)
}

func (s *Session) spawn(def *gamedata.MonsterDef) *entity.Enemy {
	k := s.cfg.scaling(s.run.Heroic)
	return entity.NewEnemyFromDef(def, s.ids.New(), entity.Scaling{HP: k, Damage: k, Armor: k})
}

// AdvanceWave resolves a cleared wave: ending the dungeon after the boss,
// spawning the boss once the quota is met, else spawning another wave. It
// does nothing unless the encounter for epoch is still live and cleared.
func (s *Session) AdvanceWave(epoch uint64) bool {
	if epoch != s.epoch || !s.InCombat() || s.run.Phase != PhaseCleared {
		return false
	}
	switch {
	case s.run.BossDefeated:
		s.endDungeon()
	case s.run.Kills >= s.run.Quota && !s.run.BossSpawned:
		s.spawnBoss()
	default:
		s.spawnWave()
	}
	return true
}

// PendingAdvance reports, once per cleared wave, that AdvanceWave should be
// scheduled for the returned epoch.
func (s *Session) PendingAdvance() (uint64, bool) {
	if !s.InCombat() || s.run.Phase != PhaseCleared || s.run.scheduled {
		return 0, false
	}
	s.run.scheduled = true
	return s.epoch, true
}

func (s *Session) endDungeon() {
	run := s.run
	dg := run.Dungeon
	p := s.player

	chest := int(float64(chestGoldPerTier*max(1, dg.Tier)) * s.cfg.goldMultiplier(run.Heroic))
	s.inv.Gold += chest
	run.GoldEarned += chest
	level := p.Level
	if boss := s.data.Monsters.GetByID(dg.BossID); boss != nil {
		level = boss.Level
	}
	if it := s.loot.Roll(loot.DropContext{Level: level, Biome: dg.Biome}); it != nil {
		s.inv.Add(it)
		run.Drops = append(run.Drops, it)
	}
	p.CompletedDungeons[dg.ID]++
	s.combat.Log.Addf(combat.CatLoot, "You open the chest: %d gold.", chest)
	s.advanceQuests(questEvent{kind: eventClear, dungeonID: dg.ID})
	s.checkLevelUp()

	s.logger.Info("dungeon completed",
		zap.String("dungeon", dg.ID),
		zap.Int("kills", run.Kills),
		zap.Int("gold", run.GoldEarned),
		zap.Int("xp", run.XPEarned),
	)
	s.finish(PhaseVictory, 0)
}

// Flee abandons the run. Nothing earned so far is lost.
func (s *Session) Flee() error {
	if !s.InCombat() {
		return ErrNotInCombat
	}
	s.combat.Log.Add(combat.CatInfo, "You flee the dungeon.")
	s.finish(PhaseFled, 0)
	return nil
}

// defeat applies the death penalty and ends the run.
func (s *Session) defeat(ctx context.Context) {
	p := s.player
	lost := int(float64(s.inv.Gold) * s.cfg.DefeatGoldPenaltyPct / 100)
	s.inv.Gold -= lost
	s.combat.Log.Addf(combat.CatDeath, "You have been defeated and lose %d gold.", lost)

	_, span := telemetry.Tracer("game").Start(ctx, "dungeon.end")
	span.SetAttributes(
		attribute.String("dungeon.id", s.run.Dungeon.ID),
		attribute.String("outcome", PhaseDefeat.String()),
		attribute.Int("gold_lost", lost),
	)
	span.End()

	s.finish(PhaseDefeat, lost)
	p.RestoreFloor(s.cfg.RestoreFloorPct)
}

// finish tears the encounter down and records the summary.
func (s *Session) finish(outcome Phase, goldLost int) {
	run := s.run
	run.Phase = outcome
	s.summary = &Summary{
		DungeonID:   run.Dungeon.ID,
		DungeonName: run.Dungeon.Name,
		Heroic:      run.Heroic,
		Outcome:     outcome,
		Kills:       run.Kills,
		Gold:        run.GoldEarned,
		XP:          run.XPEarned,
		GoldLost:    goldLost,
		Drops:       run.Drops,
	}
	s.epoch++
	s.combat.Reset()
	s.run = nil
	s.recalc()
	if outcome == PhaseFled {
		s.view = ViewTown
	} else {
		s.view = ViewSummary
	}
}

// LastSummary returns how the previous run ended, or nil.
func (s *Session) LastSummary() *Summary { return s.summary }

// Dismiss leaves the summary view.
func (s *Session) Dismiss() {
	if s.view == ViewSummary {
		s.view = ViewTown
	}
}
