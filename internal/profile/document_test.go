package profile

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/barquest/internal/entity"
	"github.com/samdwyer/barquest/internal/gamedata"
	"github.com/samdwyer/barquest/internal/stats"
)

func testHero(t *testing.T) (*entity.Player, *entity.Inventory, []*entity.ActiveQuest) {
	t.Helper()
	data, err := gamedata.LoadGameData()
	require.NoError(t, err)
	p := entity.NewPlayer("h1", "Ada", data.Classes.GetByID("rogue"))
	inv := entity.NewInventory()
	inv.Gold = 120
	inv.Potions[entity.PotionHealth] = 2
	inv.Add(&entity.Item{ID: "i1", TemplateID: "dagger", Name: "Keen Dagger", Slot: gamedata.SlotWeapon, Rarity: gamedata.RarityMagic, Level: 3})
	entity.RecalculateStats(p, inv, data)
	return p, inv, []*entity.ActiveQuest{{QuestID: "q_wolves", Progress: 4}}
}

func TestNewDocument(t *testing.T) {
	p, inv, quests := testHero(t)
	p.Shield = 30
	p.Buffs = []stats.TimedModifier{{ID: "stealth", Duration: time.Second}}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	doc := NewDocument(p, inv, quests, now)

	assert.Equal(t, CurrentVersion, doc.Version)
	assert.Equal(t, "h1", doc.HeroID)
	assert.Equal(t, now, doc.SavedAt)
	assert.Zero(t, doc.Player.Shield, "combat state is not persisted")
	assert.Empty(t, doc.Player.Buffs)
	assert.Equal(t, 30.0, p.Shield, "source hero is untouched")

	quests[0].Progress = 9
	assert.Equal(t, 4, doc.Quests[0].Progress)
}

func TestEncodeDecode(t *testing.T) {
	p, inv, quests := testHero(t)
	doc := NewDocument(p, inv, quests, time.Now())

	data, err := doc.Encode()
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, doc.HeroID, got.HeroID)
	assert.Equal(t, p.Level, got.Player.Level)
	assert.Equal(t, p.LearnedSkills, got.Player.LearnedSkills)
	assert.Equal(t, 120, got.Inventory.Gold)
	require.Len(t, got.Inventory.Items, 1)
	assert.Equal(t, "Keen Dagger", got.Inventory.Items[0].Name)
	assert.Equal(t, quests[0].QuestID, got.Quests[0].QuestID)
}

func TestDecode_OldVersionDefaultsMissingFields(t *testing.T) {
	raw := `{
		"version": 1,
		"hero_id": "old",
		"player": {"id": "old", "name": "Bram", "classId": "warrior", "level": 4, "xp": 50,
			"stats": {"HP": 80}, "learnedSkills": {"warrior_heroic_strike": 2}},
		"quests": [null, {"questId": ""}, {"questId": "q_treant"}]
	}`

	doc, err := Decode([]byte(raw))
	require.NoError(t, err)

	p := doc.Player
	assert.Equal(t, CurrentVersion, doc.Version)
	assert.NotNil(t, p.Reputation)
	assert.NotNil(t, p.CompletedDungeons)
	assert.NotNil(t, p.Talents)
	assert.Equal(t, 1.0, p.Stats.DamageMultiplier)
	assert.Equal(t, 80.0, p.Stats.HP)
	require.NotNil(t, doc.Inventory)
	assert.NotNil(t, doc.Inventory.Equipment)
	assert.NotNil(t, doc.Inventory.Potions)
	require.Len(t, doc.Quests, 1)
	assert.Equal(t, "q_treant", doc.Quests[0].QuestID)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		err  error
	}{
		{"not json", `{"version":`, ErrCorrupt},
		{"no player", `{"version": 1, "hero_id": "x"}`, ErrCorrupt},
		{"newer version", `{"version": 99, "player": {"id": "x"}}`, ErrNewerVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestMigrate_FillsHeroID(t *testing.T) {
	doc := &Document{Player: &entity.Player{ID: "p9"}}
	require.NoError(t, Migrate(doc))
	assert.Equal(t, "p9", doc.HeroID)
	assert.Equal(t, 1, doc.Player.Level)
}

func TestDocumentJSONKeys(t *testing.T) {
	p, inv, quests := testHero(t)
	data, err := NewDocument(p, inv, quests, time.Now()).Encode()
	require.NoError(t, err)

	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &keys))
	for _, k := range []string{"version", "hero_id", "saved_at", "player", "inventory", "quests"} {
		assert.Contains(t, keys, k)
	}
}
