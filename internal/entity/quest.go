package entity

// ActiveQuest tracks progress on an accepted quest.
type ActiveQuest struct {
	QuestID  string `json:"questId"`
	Progress int    `json:"progress"`
}
