package gamedata

import "io/fs"

// QuestType selects what advances a quest.
type QuestType string

const (
	QuestHunt      QuestType = "hunt"      // kills inside a dungeon
	QuestClear     QuestType = "clear"     // dungeon completions
	QuestBoss      QuestType = "boss"      // a specific boss kill
	QuestCollect   QuestType = "collect"   // items dropped with a chance per kill
	QuestChallenge QuestType = "challenge" // kills landed by a specific skill
)

// QuestRequirements are the completion conditions of a quest.
type QuestRequirements struct {
	DungeonID  string   `json:"dungeonId,omitempty"`
	KillCount  int      `json:"killCount,omitempty"`
	BossID     string   `json:"bossId,omitempty"`
	ItemName   string   `json:"itemName,omitempty"`
	DropChance float64  `json:"dropChance,omitempty"` // percent per kill
	SkillIDs   []string `json:"skillIds,omitempty"`
	Count      int      `json:"count,omitempty"`
}

// CountsSkill reports whether a kill landed by skillID advances a challenge.
func (r QuestRequirements) CountsSkill(skillID string) bool {
	for _, id := range r.SkillIDs {
		if id == skillID {
			return true
		}
	}
	return false
}

// Target returns the progress needed to complete.
func (r QuestRequirements) Target() int {
	switch {
	case r.Count > 0:
		return r.Count
	case r.KillCount > 0:
		return r.KillCount
	default:
		return 1
	}
}

// ReputationReward raises standing with a faction.
type ReputationReward struct {
	FactionID string `json:"factionId"`
	Amount    int    `json:"amount"`
}

// QuestRewards are granted on completion.
type QuestRewards struct {
	Gold       int               `json:"gold"`
	XP         int               `json:"xp"`
	Reputation *ReputationReward `json:"reputation,omitempty"`
}

// QuestDef defines a quest loaded from JSON.
type QuestDef struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Type         QuestType         `json:"type"`
	Requirements QuestRequirements `json:"requirements"`
	Rewards      QuestRewards      `json:"rewards"`
	Next         string            `json:"next,omitempty"`
}

// FactionDef defines a faction loaded from JSON.
type FactionDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// QuestsFile represents the structure of quests.json.
type QuestsFile struct {
	Quests   []QuestDef   `json:"quests"`
	Factions []FactionDef `json:"factions"`
}

// LoadQuests loads quests and factions from quests.json in fsys.
func LoadQuests(fsys fs.FS) (QuestsFile, error) {
	return Load[QuestsFile](fsys, "quests.json")
}
