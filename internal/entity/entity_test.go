package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/barquest/internal/gamedata"
	"github.com/samdwyer/barquest/internal/stats"
)

func loadData(t *testing.T) *gamedata.GameData {
	t.Helper()
	data, err := gamedata.LoadGameData()
	require.NoError(t, err)
	return data
}

func newWarrior(t *testing.T, data *gamedata.GameData) (*Player, *Inventory) {
	t.Helper()
	p := NewPlayer("hero-1", "Brom", data.Classes.GetByID("warrior"))
	inv := NewInventory()
	RecalculateStats(p, inv, data)
	return p, inv
}

func itemFrom(data *gamedata.GameData, id, templateID string) *Item {
	tpl := data.Items.GetByID(templateID)
	var s *stats.AttributeSet
	if tpl.Stats != nil {
		c := tpl.Stats.Clone()
		s = &c
	}
	return &Item{ID: id, TemplateID: tpl.ID, Name: tpl.BaseName, Slot: tpl.Slot, Rarity: gamedata.RarityCommon, Stats: s, SetID: tpl.SetID}
}

func TestNewPlayer_StartsFull(t *testing.T) {
	data := loadData(t)
	p, _ := newWarrior(t, data)

	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 1, p.SkillRank("warrior_heroic_strike"))
	assert.Equal(t, []string{"warrior_heroic_strike"}, p.EquippedSkills)
	assert.Equal(t, 265.0, p.MaxHP)
	assert.Equal(t, 265.0, p.GetHP())
	assert.Equal(t, stats.ResourceRage, p.Resource.Type)
	assert.Equal(t, 100.0, p.Resource.Max)
	assert.Equal(t, 0.0, p.Resource.Current)
}

func TestRecalculateStats_ClampsCurrentHP(t *testing.T) {
	data := loadData(t)
	p, inv := newWarrior(t, data)
	p.Stats.HP = 100

	RecalculateStats(p, inv, data)
	assert.Equal(t, 100.0, p.GetHP())

	p.Stats.HP = 10_000
	RecalculateStats(p, inv, data)
	assert.Equal(t, p.MaxHP, p.GetHP())
}

func TestRecalculateStats_SetBonuses(t *testing.T) {
	data := loadData(t)
	p, inv := newWarrior(t, data)
	require.Equal(t, 30.0, p.Stats.Armor)

	inv.Add(itemFrom(data, "a", "warden_helm"))
	inv.Add(itemFrom(data, "b", "warden_chest"))
	_, _, err := inv.Equip("a")
	require.NoError(t, err)
	_, _, err = inv.Equip("b")
	require.NoError(t, err)

	RecalculateStats(p, inv, data)
	// 30 base + 12 + 24 from the pieces + 30 from the two-piece bonus
	assert.Equal(t, 96.0, p.Stats.Armor)
	assert.Equal(t, 1.0, p.Stats.DamageMultiplier)

	inv.Add(itemFrom(data, "c", "warden_boots"))
	_, _, err = inv.Equip("c")
	require.NoError(t, err)
	RecalculateStats(p, inv, data)
	assert.Equal(t, 106.0, p.Stats.Armor)
	assert.Equal(t, 22.0, p.Stats.Strength)
	assert.InDelta(t, 1.05, p.Stats.DamageMultiplier, 1e-9)
}

func TestRecalculateStats_TalentStatMods(t *testing.T) {
	data := loadData(t)
	p, inv := newWarrior(t, data)
	p.Talents["wr_toughness"] = 2

	RecalculateStats(p, inv, data)
	assert.InDelta(t, 33.0, p.Stats.Armor, 1e-9)
	assert.Equal(t, 30.0, p.BaseStats.Armor)
}

func TestRecalculateStats_MaxHPFollowsBuffs(t *testing.T) {
	data := loadData(t)
	p, inv := newWarrior(t, data)
	p.Buffs = []stats.TimedModifier{{
		ID:       "last_stand",
		Duration: 10_000_000_000,
		StatMods: []stats.StatMod{{Stat: stats.StatMaxHPMultiplier, Kind: stats.Multiplicative, Value: 1.2}},
	}}

	RecalculateStats(p, inv, data)
	assert.Equal(t, 318.0, p.MaxHP)
}

func TestInventory_EquipSwapsPrevious(t *testing.T) {
	data := loadData(t)
	inv := NewInventory()
	inv.Add(itemFrom(data, "s1", "sword"))
	inv.Add(itemFrom(data, "s2", "dagger"))

	_, prev, err := inv.Equip("s1")
	require.NoError(t, err)
	assert.Nil(t, prev)
	assert.Len(t, inv.Items, 1)

	_, prev, err = inv.Equip("s2")
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, "s1", prev.ID)
	assert.Equal(t, "s2", inv.Equipment[gamedata.SlotWeapon].ID)
	assert.Equal(t, 0, inv.Find("s1"))
	assert.Equal(t, -1, inv.Find("s2"))
	assert.Len(t, inv.Items, 1)
}

func TestInventory_RingAutoSlot(t *testing.T) {
	data := loadData(t)
	inv := NewInventory()
	for _, id := range []string{"r1", "r2", "r3"} {
		inv.Add(itemFrom(data, id, "ring"))
	}

	_, _, err := inv.Equip("r1")
	require.NoError(t, err)
	_, _, err = inv.Equip("r2")
	require.NoError(t, err)
	assert.Equal(t, "r1", inv.Equipment[gamedata.SlotRing].ID)
	assert.Equal(t, "r2", inv.Equipment[gamedata.SlotRing2].ID)

	_, prev, err := inv.Equip("r3")
	require.NoError(t, err)
	assert.Equal(t, "r1", prev.ID)
	assert.Equal(t, "r3", inv.Equipment[gamedata.SlotRing].ID)
	assert.Equal(t, "r2", inv.Equipment[gamedata.SlotRing2].ID)
}

func TestInventory_Errors(t *testing.T) {
	inv := NewInventory()
	_, _, err := inv.Equip("missing")
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = inv.Unequip(gamedata.SlotHead)
	assert.ErrorIs(t, err, ErrSlotEmpty)

	assert.ErrorIs(t, inv.Spend(10), ErrNotEnoughGold)
	inv.Gold = 15
	assert.NoError(t, inv.Spend(10))
	assert.Equal(t, 5, inv.Gold)

	assert.ErrorIs(t, inv.UsePotion(PotionHealth), ErrNoPotion)
	inv.Potions[PotionHealth] = 1
	assert.NoError(t, inv.UsePotion(PotionHealth))
	assert.Equal(t, 0, inv.Potions[PotionHealth])
}

func TestInventory_CloneIsDeep(t *testing.T) {
	data := loadData(t)
	inv := NewInventory()
	inv.Add(itemFrom(data, "h", "warden_helm"))
	_, _, err := inv.Equip("h")
	require.NoError(t, err)

	c := inv.Clone()
	c.Equipment[gamedata.SlotHead].Stats.Armor = 999
	assert.Equal(t, 12.0, inv.Equipment[gamedata.SlotHead].Stats.Armor)
}

func TestItem_StatBlockAddsAffixes(t *testing.T) {
	base := stats.NewAttributeSet()
	base.Armor = 5
	it := &Item{
		Stats: &base,
		Affixes: []gamedata.AffixRoll{
			{Ref: stats.StatStrength, Value: 4},
			{Ref: stats.ResistanceStat(stats.ElementFire), Value: 7},
			{Ref: "Nonsense", Value: 3},
		},
	}

	block := it.StatBlock()
	assert.Equal(t, 5.0, block.Armor)
	assert.Equal(t, 4.0, block.Strength)
	assert.Equal(t, 7.0, block.Resistance(stats.ElementFire))
	assert.Equal(t, 5.0, it.Stats.Armor)
}

func TestEnemy_FromDefScaling(t *testing.T) {
	data := loadData(t)
	def := data.Monsters.GetByID("wolf")

	e := NewEnemyFromDef(def, "e1", Scaling{HP: 1.5, Damage: 2})
	assert.Equal(t, "e1", e.GetID())
	assert.Equal(t, 90.0, e.GetHP())
	assert.Equal(t, 90.0, e.GetMaxHP())
	assert.Equal(t, 8.0, e.Stats.AttMin)
	assert.Equal(t, 10.0, e.Stats.Armor)
	assert.Equal(t, 60.0, def.Stats.HP)
}

func TestEnemy_DamageAndHeal(t *testing.T) {
	data := loadData(t)
	e := NewEnemyFromDef(data.Monsters.GetByID("wolf"), "e1", IdentityScaling)

	assert.Equal(t, 0.0, e.TakeDamage(-5))
	assert.Equal(t, 20.0, e.TakeDamage(20))
	assert.Equal(t, 20.0, e.Heal(50))
	assert.Equal(t, 60.0, e.TakeDamage(500))
	assert.False(t, e.IsAlive())
	assert.Equal(t, 0.0, e.GetHP())
}

func TestPlayer_RestoreFloorSkipsRage(t *testing.T) {
	data := loadData(t)
	p, _ := newWarrior(t, data)
	p.Stats.HP = 0
	p.Resource.Current = 0

	p.RestoreFloor(20)
	assert.Equal(t, 53.0, p.GetHP())
	assert.Equal(t, 0.0, p.Resource.Current)
	assert.InDelta(t, 20.0, p.HPPercent(), 0.1)
}

func TestPlayer_ClearCombatState(t *testing.T) {
	p := NewPlayer("x", "x", nil)
	p.Shield = 10
	p.Form = stats.FormShadow
	p.Buffs = []stats.TimedModifier{{ID: "a", Duration: 1}}
	p.AttackProgress = 0.5

	p.ClearCombatState()
	assert.Zero(t, p.Shield)
	assert.Equal(t, stats.FormNone, p.Form)
	assert.Empty(t, p.Buffs)
	assert.Zero(t, p.AttackProgress)
}
