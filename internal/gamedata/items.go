package gamedata

import (
	"io/fs"

	"github.com/samdwyer/barquest/internal/stats"
)

// Slot is an equipment slot.
type Slot string

const (
	SlotHead      Slot = "head"
	SlotShoulders Slot = "shoulders"
	SlotChest     Slot = "chest"
	SlotHands     Slot = "hands"
	SlotLegs      Slot = "legs"
	SlotFeet      Slot = "feet"
	SlotBelt      Slot = "belt"
	SlotNeck      Slot = "neck"
	SlotRing      Slot = "ring"
	SlotRing2     Slot = "ring2"
	SlotTrinket   Slot = "trinket"
	SlotWeapon    Slot = "weapon"
	SlotOffhand   Slot = "offhand"
)

// Rarity is an item quality tier.
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityMagic     Rarity = "Magic"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
	RarityUnique    Rarity = "Unique"
)

// Rarities lists every rarity in ascending order.
var Rarities = []Rarity{RarityCommon, RarityMagic, RarityRare, RarityEpic, RarityLegendary, RarityUnique}

// Rank orders rarities; unknown values rank below Common.
func (r Rarity) Rank() int {
	for i, x := range Rarities {
		if x == r {
			return i
		}
	}
	return -1
}

// Less reports whether r is a lower quality than o.
func (r Rarity) Less(o Rarity) bool { return r.Rank() < o.Rank() }

// IsFixed reports whether items of this rarity come only from fixed tables.
func (r Rarity) IsFixed() bool {
	return r == RarityLegendary || r == RarityUnique
}

// AffixKind places an affix's name fragment before or after the base name.
type AffixKind string

const (
	AffixPrefix AffixKind = "prefix"
	AffixSuffix AffixKind = "suffix"
)

// AffixDef defines a rollable affix.
type AffixDef struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Ref   stats.Stat `json:"ref"` // Stat the affix adds to, e.g. "Strength" or "ResElems.fire"
	Kind  AffixKind  `json:"type"`
	Range [2]float64 `json:"range"`
	Theme string     `json:"theme,omitempty"`
}

// AffixRoll is a rolled affix on an item instance.
type AffixRoll struct {
	Ref   stats.Stat `json:"ref"`
	Value float64    `json:"value"`
	Theme string     `json:"theme,omitempty"`
	Name  string     `json:"name,omitempty"`
}

// ItemTemplate is a base item. Fixed-table items (Legendary, Unique) carry
// their own name, rarity, and affixes.
type ItemTemplate struct {
	ID           string              `json:"id"`
	BaseName     string              `json:"baseName"`
	Slot         Slot                `json:"slot"`
	MaterialType string              `json:"materialType,omitempty"`
	Level        int                 `json:"level,omitempty"`
	VendorPrice  float64             `json:"vendorPrice,omitempty"`
	Stats        *stats.AttributeSet `json:"stats,omitempty"`
	SetID        string              `json:"setId,omitempty"`

	Name    string      `json:"name,omitempty"`
	Rarity  Rarity      `json:"rarity,omitempty"`
	Affixes []AffixRoll `json:"affixes,omitempty"`
	Theme   string      `json:"theme,omitempty"`
}

// SetBonus grants stats once Pieces items of a set are equipped.
type SetBonus struct {
	Pieces int          `json:"pieces"`
	Stats  []StatModDef `json:"stats"`
}

// ItemSetDef groups templates into a set.
type ItemSetDef struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Items   []string   `json:"items"`
	Bonuses []SetBonus `json:"bonuses"`
}

// ItemsFile represents the structure of items.json.
type ItemsFile struct {
	Templates []ItemTemplate `json:"templates"`
	Fixed     []ItemTemplate `json:"fixed"`
	Sets      []ItemSetDef   `json:"sets"`
}

// AffixesFile represents the structure of affixes.json.
type AffixesFile struct {
	Affixes []AffixDef `json:"affixes"`
}

// LoadItems loads item templates, fixed items, and sets from items.json.
func LoadItems(fsys fs.FS) (ItemsFile, error) {
	return Load[ItemsFile](fsys, "items.json")
}

// LoadAffixes loads affix definitions from affixes.json in fsys.
func LoadAffixes(fsys fs.FS) ([]AffixDef, error) {
	file, err := Load[AffixesFile](fsys, "affixes.json")
	if err != nil {
		return nil, err
	}
	return file.Affixes, nil
}
