package loot

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/samdwyer/barquest/internal/dice"
	mockdice "github.com/samdwyer/barquest/internal/dice/mock"
	"github.com/samdwyer/barquest/internal/entity"
	"github.com/samdwyer/barquest/internal/gamedata"
	"github.com/samdwyer/barquest/internal/uuid"
	mockuuid "github.com/samdwyer/barquest/internal/uuid/mock"
)

func loadData(t *testing.T) *gamedata.GameData {
	t.Helper()
	data, err := gamedata.LoadGameData()
	require.NoError(t, err)
	return data
}

func TestScaleAffix(t *testing.T) {
	assert.Equal(t, 15.0, ScaleAffix(5, 10))
	assert.Equal(t, 2.0, ScaleAffix(1, 1))
	assert.Equal(t, 0.0, ScaleAffix(0, 0))
}

func TestGenerateItem_RareWithMaterialPlaceholder(t *testing.T) {
	data := loadData(t)
	naming := data.Naming
	naming.Patterns = map[gamedata.Rarity][]string{
		gamedata.RarityRare: {"{qualifier} {material} {baseName} {suffix_theme} {mystery}"},
	}
	sword := data.Items.GetByID("sword")
	require.NotNil(t, sword)

	for seed := uint64(1); seed <= 200; seed++ {
		gen := NewGenerator(naming, uuid.NewGoogleUUIDGenerator(), dice.NewRandomRoller(seed), nil)
		it := gen.GenerateItem(Request{
			Template: sword,
			Level:    10,
			Rarity:   gamedata.RarityRare,
			Affixes:  data.Affixes.All(),
		})

		assert.NotContains(t, it.Name, "{")
		assert.NotContains(t, it.Name, "}")
		assert.NotContains(t, it.Name, "  ")
		assert.Contains(t, it.Name, "Sword")
		assert.GreaterOrEqual(t, len(it.Affixes), 2)
		assert.LessOrEqual(t, len(it.Affixes), 3)
		assert.Equal(t, 10, it.Level)
		assert.Equal(t, gamedata.RarityRare, it.Rarity)
		assert.True(t, uuid.Valid(it.ID))
	}
}

func TestGenerateItem_RarityAndAffixCountBounds(t *testing.T) {
	data := loadData(t)
	gen := NewGenerator(data.Naming, uuid.NewGoogleUUIDGenerator(), dice.NewRandomRoller(42), nil)
	templates := data.Items.All()

	for _, rarity := range []gamedata.Rarity{gamedata.RarityCommon, gamedata.RarityMagic, gamedata.RarityRare, gamedata.RarityEpic} {
		span := data.Naming.AffixCounts[rarity]
		for i := 0; i < 100; i++ {
			tpl := &templates[i%len(templates)]
			it := gen.GenerateItem(Request{Template: tpl, Level: 1 + i%20, Rarity: rarity, Affixes: data.Affixes.All(), Biome: "occult"})
			assert.Equal(t, rarity, it.Rarity)
			assert.False(t, it.Rarity.IsFixed())
			assert.GreaterOrEqual(t, len(it.Affixes), span[0], "rarity %s", rarity)
			assert.LessOrEqual(t, len(it.Affixes), span[1], "rarity %s", rarity)
			assert.NotContains(t, it.Name, "{")
			assert.NotEmpty(t, it.Name)
		}
	}
}

func TestGenerateItem_FixedRarityHasNoAffixes(t *testing.T) {
	data := loadData(t)
	gen := NewGenerator(data.Naming, uuid.NewGoogleUUIDGenerator(), dice.NewRandomRoller(3), nil)
	it := gen.GenerateItem(Request{Template: data.Items.GetByID("sword"), Level: 5, Rarity: gamedata.RarityLegendary, Affixes: data.Affixes.All()})
	assert.Empty(t, it.Affixes)
	assert.Equal(t, "Sword", it.Name)
}

func TestGenerateItem_MissingLookupsDegrade(t *testing.T) {
	ctrl := gomock.NewController(t)
	ids := mockuuid.NewMockGenerator(ctrl)
	ids.EXPECT().New().Return("item-1")

	naming := gamedata.NamingTables{
		Patterns: map[gamedata.Rarity][]string{
			gamedata.RarityCommon: {"{material} {qualifier} {prefix_theme} {baseName} {suffix_stat}"},
		},
	}
	gen := NewGenerator(naming, ids, mockdice.NewFixedRoller(0), nil)
	it := gen.GenerateItem(Request{
		Template: &gamedata.ItemTemplate{ID: "odd", BaseName: "Relic", MaterialType: "unobtainium"},
		Level:    3,
		Rarity:   gamedata.RarityCommon,
	})

	assert.Equal(t, "item-1", it.ID)
	assert.Equal(t, "Relic", it.Name)
	assert.Equal(t, 1.0, it.VendorPrice)
	assert.Empty(t, it.Affixes)
}

func TestGenerateItem_NilTemplate(t *testing.T) {
	gen := NewGenerator(gamedata.NamingTables{}, uuid.NewGoogleUUIDGenerator(), mockdice.NewFixedRoller(0), nil)
	it := gen.GenerateItem(Request{Rarity: gamedata.RarityMagic})
	require.NotNil(t, it)
	assert.Equal(t, "Trinket", it.Name)
}

func TestGenerateItem_QualifierScalesPrice(t *testing.T) {
	naming := gamedata.NamingTables{
		Patterns:   map[gamedata.Rarity][]string{gamedata.RarityCommon: {"{qualifier} {baseName}"}},
		Qualifiers: map[gamedata.Rarity][]gamedata.Qualifier{gamedata.RarityCommon: {{Name: "Gilded", PriceMultiplier: 2}}},
	}
	gen := NewGenerator(naming, uuid.NewGoogleUUIDGenerator(), mockdice.NewFixedRoller(0), nil)
	it := gen.GenerateItem(Request{
		Template: &gamedata.ItemTemplate{BaseName: "Cup", VendorPrice: 10},
		Level:    1,
		Rarity:   gamedata.RarityCommon,
	})
	assert.Equal(t, "Gilded Cup", it.Name)
	assert.Equal(t, 20.0, it.VendorPrice)
}

func TestGenerateItem_StatPlaceholdersUseFirstAffix(t *testing.T) {
	data := loadData(t)
	naming := data.Naming
	naming.Patterns = map[gamedata.Rarity][]string{gamedata.RarityMagic: {"{prefix_stat} {baseName} {suffix_stat}"}}
	roller := mockdice.NewFixedRoller(0)
	gen := NewGenerator(naming, uuid.NewGoogleUUIDGenerator(), roller, nil)

	pool := []gamedata.AffixDef{{ID: "s", Name: "of Strength", Ref: "Strength", Kind: gamedata.AffixSuffix, Range: [2]float64{2, 2}}}
	it := gen.GenerateItem(Request{Template: data.Items.GetByID("sword"), Level: 10, Rarity: gamedata.RarityMagic, Affixes: pool})

	require.Len(t, it.Affixes, 1)
	assert.Equal(t, 9.0, it.Affixes[0].Value)
	assert.Equal(t, "Mighty Sword of the Bear", it.Name)
}

func TestPickThemePriority(t *testing.T) {
	gen := NewGenerator(gamedata.NamingTables{
		FamilyThemes: map[string]string{"undead": "shadow"},
		BiomeThemes:  map[string]string{"frost": "ice"},
	}, nil, nil, nil)

	affixes := []gamedata.AffixRoll{{Ref: "Strength"}, {Ref: "ResElems.fire", Theme: "fire"}}
	assert.Equal(t, "fire", gen.pickTheme(affixes, "undead", "frost"))
	assert.Equal(t, "shadow", gen.pickTheme(nil, "undead", "frost"))
	assert.Equal(t, "ice", gen.pickTheme(nil, "beast", "frost"))
	assert.Equal(t, "", gen.pickTheme(nil, "", ""))
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Iron Sword", cleanName("  {junk} Iron  {x}Sword {"))
	assert.Equal(t, "", cleanName("{a}{b}"))
}

func TestRollRarity(t *testing.T) {
	chances := map[gamedata.Rarity]float64{
		gamedata.RarityCommon: 50, gamedata.RarityMagic: 30, gamedata.RarityRare: 15,
		gamedata.RarityEpic: 4, gamedata.RarityLegendary: 0.8, gamedata.RarityUnique: 0.2,
	}
	tests := []struct {
		roll float64
		want gamedata.Rarity
	}{
		{0, gamedata.RarityCommon},
		{0.49, gamedata.RarityCommon},
		{0.5, gamedata.RarityMagic},
		{0.95, gamedata.RarityEpic},
		{0.995, gamedata.RarityLegendary},
		{0.999, gamedata.RarityUnique},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.roll), func(t *testing.T) {
			assert.Equal(t, tt.want, RollRarity(mockdice.NewFixedRoller(tt.roll), chances))
		})
	}
	assert.Equal(t, gamedata.RarityCommon, RollRarity(mockdice.NewFixedRoller(0.9), nil))
}

func TestDropChance(t *testing.T) {
	assert.Equal(t, 0.0, DropChance(0, 10))
	assert.Equal(t, 0.5, DropChance(2, 4))
	assert.Equal(t, 1.0, DropChance(5, 2))
	assert.Equal(t, 1.0, DropChance(1, 0))
}

func TestSellAndBuyPrice(t *testing.T) {
	factors := map[gamedata.Rarity]float64{gamedata.RarityRare: 5}
	assert.Equal(t, 3, SellPrice(&entity.Item{VendorPrice: 14}, factors))
	assert.Equal(t, 35, SellPrice(&entity.Item{Level: 7, Rarity: gamedata.RarityRare}, factors))
	assert.Equal(t, 7, SellPrice(&entity.Item{Level: 7, Rarity: gamedata.RarityMagic}, factors))
	assert.Equal(t, 1, BuyPrice(&gamedata.ItemTemplate{}))
	assert.Equal(t, 12, BuyPrice(&gamedata.ItemTemplate{VendorPrice: 12}))
}

func TestTable_FixedRarityDowngradesOnEmptyPool(t *testing.T) {
	data := loadData(t)
	rng := dice.NewRandomRoller(9)
	table := NewTable(data, NewGenerator(data.Naming, uuid.NewGoogleUUIDGenerator(), rng, nil), rng, nil)

	require.Empty(t, table.FixedPool(gamedata.RarityUnique, 1))
	it := table.RollAt(DropContext{Level: 1, Biome: "nature"}, gamedata.RarityUnique)
	require.NotNil(t, it)
	assert.Equal(t, RarityDowngradeOnEmptyPool, it.Rarity)
	assert.Equal(t, gamedata.RarityEpic, it.Rarity)
}

func TestTable_FixedRarityMintsFromTable(t *testing.T) {
	data := loadData(t)
	rng := dice.NewRandomRoller(11)
	table := NewTable(data, NewGenerator(data.Naming, uuid.NewGoogleUUIDGenerator(), rng, nil), rng, nil)

	it := table.RollAt(DropContext{Level: 8}, gamedata.RarityLegendary)
	require.NotNil(t, it)
	assert.Equal(t, gamedata.RarityLegendary, it.Rarity)
	tpl := data.Fixed.GetByID(it.TemplateID)
	require.NotNil(t, tpl)
	assert.Equal(t, tpl.Name, it.Name)

	again := table.Generator().Mint(tpl)
	assert.NotEqual(t, it.ID, again.ID)
}

func TestTable_RollAlwaysProducesItem(t *testing.T) {
	data := loadData(t)
	rng := dice.NewRandomRoller(5)
	table := NewTable(data, NewGenerator(data.Naming, uuid.NewGoogleUUIDGenerator(), rng, nil), rng, nil)
	for i := 0; i < 200; i++ {
		it := table.Roll(DropContext{Level: 1 + i%15, Family: "undead"})
		require.NotNil(t, it)
		assert.False(t, strings.ContainsAny(it.Name, "{}"))
	}
}
