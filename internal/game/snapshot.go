package game

import (
	"maps"
	"slices"
	"time"

	"github.com/samdwyer/barquest/internal/combat"
	"github.com/samdwyer/barquest/internal/entity"
)

// RunInfo is the presenter's view of a dungeon run.
type RunInfo struct {
	DungeonID   string
	DungeonName string
	Heroic      bool
	Phase       Phase
	Wave        int
	Kills       int
	Quota       int
	BossSpawned bool
}

// Snapshot is a deep copy of everything a presenter draws. It shares no
// memory with the session.
type Snapshot struct {
	Epoch      uint64
	View       View
	Run        *RunInfo
	Player     *entity.Player
	Inventory  *entity.Inventory
	Quests     []entity.ActiveQuest
	Enemies    []*entity.Enemy
	Target     int
	AutoAttack bool
	Stealthed  bool
	Cooldowns  map[string]time.Duration
	Log        []combat.Entry
	Floating   []combat.FloatingText
	Summary    *Summary
}

// Snapshot copies the session state, including floating text not yet
// drained. It does not modify the session.
func (s *Session) Snapshot() Snapshot {
	st := s.combat
	snap := Snapshot{
		Epoch:      s.epoch,
		View:       s.view,
		Player:     s.player.Clone(),
		Inventory:  s.inv.Clone(),
		Target:     st.Target,
		AutoAttack: st.AutoAttack,
		Stealthed:  st.Stealthed,
		Cooldowns:  maps.Clone(st.Cooldowns),
		Log:        st.Log.Entries(),
		Floating:   slices.Clone(st.Floating),
	}
	for _, q := range s.quests {
		snap.Quests = append(snap.Quests, *q)
	}
	for _, e := range st.Enemies {
		snap.Enemies = append(snap.Enemies, e.Clone())
	}
	if run := s.run; run != nil {
		snap.Run = &RunInfo{
			DungeonID:   run.Dungeon.ID,
			DungeonName: run.Dungeon.Name,
			Heroic:      run.Heroic,
			Phase:       run.Phase,
			Wave:        run.Wave,
			Kills:       run.Kills,
			Quota:       run.Quota,
			BossSpawned: run.BossSpawned,
		}
	}
	if s.summary != nil {
		sum := *s.summary
		sum.Drops = make([]*entity.Item, 0, len(s.summary.Drops))
		for _, it := range s.summary.Drops {
			sum.Drops = append(sum.Drops, it.Clone())
		}
		snap.Summary = &sum
	}
	return snap
}
