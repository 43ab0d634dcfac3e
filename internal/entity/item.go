package entity

import (
	"github.com/samdwyer/barquest/internal/gamedata"
	"github.com/samdwyer/barquest/internal/stats"
)

// Item is an item instance. Once inside an inventory or equipment slot it is
// owned by exactly that container.
type Item struct {
	ID          string               `json:"id"`
	TemplateID  string               `json:"templateId"`
	Name        string               `json:"name"`
	Slot        gamedata.Slot        `json:"slot"`
	Rarity      gamedata.Rarity      `json:"rarity"`
	Level       int                  `json:"level"`
	Affixes     []gamedata.AffixRoll `json:"affixes,omitempty"`
	Stats       *stats.AttributeSet  `json:"stats,omitempty"`
	SetID       string               `json:"setId,omitempty"`
	VendorPrice float64              `json:"vendorPrice,omitempty"`
	Theme       string               `json:"theme,omitempty"`
}

// StatBlock returns the stats the item grants: its embedded block plus every
// affix added to the referenced stat.
func (i *Item) StatBlock() stats.AttributeSet {
	out := stats.NewAttributeSet()
	if i.Stats != nil {
		out.Merge(*i.Stats)
	}
	for _, a := range i.Affixes {
		out.Add(a.Ref, a.Value)
	}
	return out
}

// IsRing reports whether the item fits either ring slot.
func (i *Item) IsRing() bool {
	return i.Slot == gamedata.SlotRing || i.Slot == gamedata.SlotRing2
}

// Clone returns a deep copy with the same identity.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	out := *i
	out.Affixes = append([]gamedata.AffixRoll(nil), i.Affixes...)
	if i.Stats != nil {
		s := i.Stats.Clone()
		out.Stats = &s
	}
	return &out
}
