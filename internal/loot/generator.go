// Package loot generates item instances: procedural affix rolls and names,
// fixed legendary and unique tables, drop chances, and vendor prices.
package loot

import (
	"math"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/samdwyer/barquest/internal/dice"
	"github.com/samdwyer/barquest/internal/entity"
	"github.com/samdwyer/barquest/internal/gamedata"
	"github.com/samdwyer/barquest/internal/uuid"
)

// Name pattern placeholders.
const (
	phBaseName    = "{baseName}"
	phMaterial    = "{material}"
	phQualifier   = "{qualifier}"
	phPrefixTheme = "{prefix_theme}"
	phSuffixTheme = "{suffix_theme}"
	phPrefixStat  = "{prefix_stat}"
	phSuffixStat  = "{suffix_stat}"
)

var placeholderRe = regexp.MustCompile(`\{[^{}]*\}`)

// Generator mints item instances from templates.
type Generator struct {
	naming gamedata.NamingTables
	ids    uuid.Generator
	rng    dice.Roller
	logger *zap.Logger
}

// NewGenerator creates a generator. A nil logger is replaced by a no-op one.
func NewGenerator(naming gamedata.NamingTables, ids uuid.Generator, rng dice.Roller, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{naming: naming, ids: ids, rng: rng, logger: logger}
}

// Request describes one procedural item.
type Request struct {
	Template *gamedata.ItemTemplate
	Level    int
	Rarity   gamedata.Rarity
	Affixes  []gamedata.AffixDef

	// Family and Biome select a naming theme when no rolled affix has one.
	Family string
	Biome  string
}

// ScaleAffix scales a rolled affix value by item level.
func ScaleAffix(base float64, level int) float64 {
	l := float64(level)
	return math.Round(base + base*l*0.1 + l*0.5)
}

// GenerateItem rolls a fresh item. Missing naming data resolves to empty
// substitutions; generation never fails.
func (g *Generator) GenerateItem(req Request) *entity.Item {
	tpl := req.Template
	if tpl == nil {
		tpl = &gamedata.ItemTemplate{BaseName: "Trinket", Slot: gamedata.SlotTrinket}
	}
	it := &entity.Item{
		ID:          g.ids.New(),
		TemplateID:  tpl.ID,
		Slot:        tpl.Slot,
		Rarity:      req.Rarity,
		Level:       max(1, req.Level),
		SetID:       tpl.SetID,
		VendorPrice: tpl.VendorPrice,
	}
	if it.VendorPrice <= 0 {
		it.VendorPrice = 1
	}
	if tpl.Stats != nil {
		s := tpl.Stats.Clone()
		it.Stats = &s
	}

	it.Affixes = g.rollAffixes(req.Rarity, it.Level, req.Affixes)
	it.Theme = g.pickTheme(it.Affixes, req.Family, req.Biome)
	it.Name = g.synthesizeName(tpl, it)
	return it
}

func (g *Generator) rollAffixes(rarity gamedata.Rarity, level int, pool []gamedata.AffixDef) []gamedata.AffixRoll {
	span := g.naming.AffixCounts[rarity]
	if rarity.IsFixed() {
		span = [2]int{0, 0}
	}
	n := dice.IntBetween(g.rng, span[0], span[1])
	n = min(n, len(pool))
	if n <= 0 {
		return nil
	}

	shuffled := append([]gamedata.AffixDef(nil), pool...)
	dice.Shuffle(g.rng, shuffled)

	rolls := make([]gamedata.AffixRoll, 0, n)
	for _, a := range shuffled[:n] {
		lo, hi := a.Range[0], a.Range[1]
		if hi < lo {
			lo, hi = hi, lo
		}
		base := lo + float64(g.rng.IntN(int(hi-lo)+1))
		rolls = append(rolls, gamedata.AffixRoll{
			Ref:   a.Ref,
			Value: ScaleAffix(base, level),
			Theme: a.Theme,
			Name:  a.Name,
		})
	}
	return rolls
}

// pickTheme prefers a rolled affix's theme, then the monster family's, then
// the dungeon biome's.
func (g *Generator) pickTheme(affixes []gamedata.AffixRoll, family, biome string) string {
	for _, a := range affixes {
		if a.Theme != "" {
			return a.Theme
		}
	}
	if t := g.naming.FamilyThemes[family]; t != "" {
		return t
	}
	return g.naming.BiomeThemes[biome]
}

func (g *Generator) synthesizeName(tpl *gamedata.ItemTemplate, it *entity.Item) string {
	pattern := phBaseName
	if p, ok := dice.Pick(g.rng, g.naming.Patterns[it.Rarity]); ok {
		pattern = p
	}

	name := strings.ReplaceAll(pattern, phBaseName, tpl.BaseName)

	if strings.Contains(name, phMaterial) {
		material, ok := dice.Pick(g.rng, g.naming.Materials[tpl.MaterialType])
		if !ok {
			g.logger.Debug("no material names", zap.String("template", tpl.ID), zap.String("material", tpl.MaterialType))
		}
		name = strings.ReplaceAll(name, phMaterial, material)
	}

	if strings.Contains(name, phQualifier) {
		var qualifier string
		if q, ok := dice.Pick(g.rng, g.naming.Qualifiers[it.Rarity]); ok {
			qualifier = q.Name
			if q.PriceMultiplier > 0 {
				it.VendorPrice = math.Round(it.VendorPrice * q.PriceMultiplier)
			}
		}
		name = strings.ReplaceAll(name, phQualifier, qualifier)
	}

	if strings.Contains(name, phPrefixTheme) || strings.Contains(name, phSuffixTheme) {
		theme := g.naming.Themes[it.Theme]
		prefix, _ := dice.Pick(g.rng, theme.Prefixes)
		suffix, _ := dice.Pick(g.rng, theme.Suffixes)
		name = strings.ReplaceAll(name, phPrefixTheme, prefix)
		name = strings.ReplaceAll(name, phSuffixTheme, suffix)
	}

	if strings.Contains(name, phPrefixStat) || strings.Contains(name, phSuffixStat) {
		var sn gamedata.StatNames
		if len(it.Affixes) > 0 {
			sn = g.naming.StatNames[it.Affixes[0].Ref]
		}
		name = strings.ReplaceAll(name, phPrefixStat, sn.Prefix)
		name = strings.ReplaceAll(name, phSuffixStat, sn.Suffix)
	}

	return cleanName(name)
}

// cleanName strips unresolved placeholders and stray braces, then collapses
// whitespace.
func cleanName(name string) string {
	name = placeholderRe.ReplaceAllString(name, "")
	name = strings.NewReplacer("{", "", "}", "").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

// Mint copies a fixed-table item with a fresh identity.
func (g *Generator) Mint(tpl *gamedata.ItemTemplate) *entity.Item {
	it := &entity.Item{
		ID:          g.ids.New(),
		TemplateID:  tpl.ID,
		Name:        tpl.Name,
		Slot:        tpl.Slot,
		Rarity:      tpl.Rarity,
		Level:       max(1, tpl.Level),
		Affixes:     append([]gamedata.AffixRoll(nil), tpl.Affixes...),
		SetID:       tpl.SetID,
		VendorPrice: tpl.VendorPrice,
		Theme:       tpl.Theme,
	}
	if it.Name == "" {
		it.Name = tpl.BaseName
	}
	if it.Rarity == "" {
		it.Rarity = gamedata.RarityCommon
	}
	if tpl.Stats != nil {
		s := tpl.Stats.Clone()
		it.Stats = &s
	}
	return it
}
