package game

import (
	"github.com/samdwyer/barquest/internal/combat"
	"github.com/samdwyer/barquest/internal/dice"
	"github.com/samdwyer/barquest/internal/entity"
	"github.com/samdwyer/barquest/internal/gamedata"
)

type eventKind int

const (
	eventKill eventKind = iota
	eventClear
)

// questEvent is something that may advance a quest.
type questEvent struct {
	kind      eventKind
	dungeonID string
	enemy     *entity.Enemy
	skillID   string
}

// advanceQuests applies an event to every active quest and completes the
// ones that reach their target.
func (s *Session) advanceQuests(ev questEvent) {
	var done []*entity.ActiveQuest
	for _, aq := range s.quests {
		def := s.data.Quests.GetByID(aq.QuestID)
		if def == nil {
			continue
		}
		if s.questProgress(def, ev) {
			aq.Progress++
			if def.Type == gamedata.QuestCollect {
				s.combat.Log.Addf(combat.CatQuest, "You found %s (%d/%d).",
					def.Requirements.ItemName, min(aq.Progress, def.Requirements.Target()), def.Requirements.Target())
			}
		}
		if aq.Progress >= def.Requirements.Target() {
			done = append(done, aq)
		}
	}
	for _, aq := range done {
		s.completeQuest(aq)
	}
}

func (s *Session) questProgress(def *gamedata.QuestDef, ev questEvent) bool {
	req := def.Requirements
	inDungeon := req.DungeonID == "" || req.DungeonID == ev.dungeonID
	switch def.Type {
	case gamedata.QuestHunt:
		return ev.kind == eventKill && inDungeon && !ev.enemy.IsBoss
	case gamedata.QuestBoss:
		return ev.kind == eventKill && ev.enemy.DefID == req.BossID
	case gamedata.QuestCollect:
		return ev.kind == eventKill && inDungeon && dice.Percent(s.rng, req.DropChance)
	case gamedata.QuestChallenge:
		return ev.kind == eventKill && inDungeon && ev.skillID != "" && req.CountsSkill(ev.skillID)
	case gamedata.QuestClear:
		return ev.kind == eventClear && inDungeon
	}
	return false
}

func (s *Session) completeQuest(aq *entity.ActiveQuest) {
	def := s.data.Quests.GetByID(aq.QuestID)
	s.quests = removeQuest(s.quests, aq.QuestID)

	r := def.Rewards
	s.inv.Gold += r.Gold
	s.player.XP += r.XP
	if s.run != nil {
		s.run.GoldEarned += r.Gold
		s.run.XPEarned += r.XP
	}
	if rep := r.Reputation; rep != nil {
		s.player.Reputation[rep.FactionID] += rep.Amount
	}
	s.combat.Log.Addf(combat.CatQuest, "Quest complete: %s! +%d gold, +%d XP.", def.Name, r.Gold, r.XP)

	if next := s.data.NextQuest(def); next != nil && !s.hasQuest(next.ID) {
		s.quests = append(s.quests, &entity.ActiveQuest{QuestID: next.ID})
		s.combat.Log.Addf(combat.CatQuest, "New quest: %s.", next.Name)
	}
}

func (s *Session) hasQuest(id string) bool {
	for _, aq := range s.quests {
		if aq.QuestID == id {
			return true
		}
	}
	return false
}

func removeQuest(qs []*entity.ActiveQuest, id string) []*entity.ActiveQuest {
	out := qs[:0]
	for _, q := range qs {
		if q.QuestID != id {
			out = append(out, q)
		}
	}
	return out
}
