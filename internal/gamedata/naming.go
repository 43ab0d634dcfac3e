package gamedata

import (
	"io/fs"

	"github.com/samdwyer/barquest/internal/stats"
)

// Qualifier is a rarity-tier adjective that also scales vendor price.
type Qualifier struct {
	Name            string  `json:"name"`
	PriceMultiplier float64 `json:"priceMultiplier"`
}

// ThemeNames are the name fragments of a theme.
type ThemeNames struct {
	Prefixes []string `json:"prefixes"`
	Suffixes []string `json:"suffixes"`
}

// StatNames are the name fragments derived from an affix's stat.
type StatNames struct {
	Prefix string `json:"prefix"`
	Suffix string `json:"suffix"`
}

// NamingTables drive procedural item names.
type NamingTables struct {
	Patterns     map[Rarity][]string      `json:"patterns"`
	Qualifiers   map[Rarity][]Qualifier   `json:"qualifiers"`
	Materials    map[string][]string      `json:"materials"`
	Themes       map[string]ThemeNames    `json:"themes"`
	FamilyThemes map[string]string        `json:"familyThemes"`
	BiomeThemes  map[string]string        `json:"biomeThemes"`
	StatNames    map[stats.Stat]StatNames `json:"statNames"`
	AffixCounts  map[Rarity][2]int        `json:"affixCounts"`
	DropChances  map[Rarity]float64       `json:"dropChances"`
	SellFactors  map[Rarity]float64       `json:"sellFactors"`
}

// LoadNaming loads naming tables from naming.json in fsys.
func LoadNaming(fsys fs.FS) (NamingTables, error) {
	return Load[NamingTables](fsys, "naming.json")
}
