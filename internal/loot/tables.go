package loot

import (
	"math"

	"go.uber.org/zap"

	"github.com/samdwyer/barquest/internal/dice"
	"github.com/samdwyer/barquest/internal/entity"
	"github.com/samdwyer/barquest/internal/gamedata"
)

// RarityDowngradeOnEmptyPool is the rarity a Legendary or Unique roll falls
// back to when the fixed table has nothing that fits. The item is then
// generated procedurally at this rarity.
const RarityDowngradeOnEmptyPool = gamedata.RarityEpic

// Level window for templates and fixed items relative to the dropping
// monster.
const (
	levelWindowAbove = 2
	levelWindowBelow = 5
)

// RollRarity draws a rarity from percentage weights walked in ascending
// rarity order. Weights that do not sum to 100 leave the remainder to
// Common.
func RollRarity(r dice.Roller, chances map[gamedata.Rarity]float64) gamedata.Rarity {
	roll := r.Float64() * 100
	var cumulative float64
	for _, rarity := range gamedata.Rarities {
		cumulative += chances[rarity]
		if roll < cumulative {
			return rarity
		}
	}
	return gamedata.RarityCommon
}

// DropChance is the per-kill probability of an equipment drop: the drops
// still owed divided by the monsters left in the quota, clamped to [0, 1].
func DropChance(pendingDrops, remainingMonsters int) float64 {
	if pendingDrops <= 0 {
		return 0
	}
	if remainingMonsters <= 0 {
		return 1
	}
	return min(1, float64(pendingDrops)/float64(remainingMonsters))
}

// SellPrice is a quarter of the vendor price, or level times the rarity
// factor for items without one.
func SellPrice(it *entity.Item, factors map[gamedata.Rarity]float64) int {
	if it.VendorPrice > 0 {
		return int(math.Floor(it.VendorPrice / 4))
	}
	f := factors[it.Rarity]
	if f <= 0 {
		f = 1
	}
	return int(math.Ceil(float64(it.Level) * f))
}

// BuyPrice is the vendor price of a template, at least 1 gold.
func BuyPrice(tpl *gamedata.ItemTemplate) int {
	return max(1, int(math.Round(tpl.VendorPrice)))
}

// DropContext describes the kill that produced a drop.
type DropContext struct {
	Level  int
	Family string
	Biome  string
}

// Table rolls drops against the loaded templates, fixed items, and affixes.
type Table struct {
	data *gamedata.GameData
	gen  *Generator
	rng  dice.Roller
	log  *zap.Logger
}

// NewTable creates a drop table.
func NewTable(data *gamedata.GameData, gen *Generator, rng dice.Roller, logger *zap.Logger) *Table {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Table{data: data, gen: gen, rng: rng, log: logger}
}

// Generator returns the table's item generator.
func (t *Table) Generator() *Generator { return t.gen }

// Roll rolls a rarity and produces an item for it.
func (t *Table) Roll(ctx DropContext) *entity.Item {
	return t.RollAt(ctx, RollRarity(t.rng, t.data.Naming.DropChances))
}

// RollAt produces an item of the given rarity. Fixed rarities come from the
// fixed table; when none fits, the rarity_downgrade_on_empty_pool rule
// applies and a procedural item of RarityDowngradeOnEmptyPool is rolled.
func (t *Table) RollAt(ctx DropContext, rarity gamedata.Rarity) *entity.Item {
	if rarity.IsFixed() {
		pool := t.FixedPool(rarity, ctx.Level)
		if tpl, ok := dice.Pick(t.rng, pool); ok {
			return t.gen.Mint(tpl)
		}
		t.log.Debug("fixed pool empty, downgrading",
			zap.String("rarity", string(rarity)),
			zap.Int("level", ctx.Level),
		)
		rarity = RarityDowngradeOnEmptyPool
	}

	templates := t.TemplatePool(ctx.Level)
	tpl, ok := dice.Pick(t.rng, templates)
	if !ok {
		t.log.Warn("no item templates for level", zap.Int("level", ctx.Level))
		return nil
	}
	return t.gen.GenerateItem(Request{
		Template: tpl,
		Level:    max(1, ctx.Level),
		Rarity:   rarity,
		Affixes:  t.data.Affixes.All(),
		Family:   ctx.Family,
		Biome:    ctx.Biome,
	})
}

// FixedPool returns the fixed items of a rarity whose level fits.
func (t *Table) FixedPool(rarity gamedata.Rarity, level int) []*gamedata.ItemTemplate {
	return t.data.Fixed.Filter(func(tpl *gamedata.ItemTemplate) bool {
		return tpl.Rarity == rarity && inWindow(tpl.Level, level)
	})
}

// TemplatePool returns procedural templates whose level fits. Templates
// without a level fit every level.
func (t *Table) TemplatePool(level int) []*gamedata.ItemTemplate {
	return t.data.Items.Filter(func(tpl *gamedata.ItemTemplate) bool {
		return inWindow(tpl.Level, level)
	})
}

func inWindow(itemLevel, level int) bool {
	if itemLevel <= 0 {
		return true
	}
	return itemLevel <= level+levelWindowAbove && itemLevel >= level-levelWindowBelow
}
