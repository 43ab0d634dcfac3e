package entity

import (
	"errors"

	"github.com/samdwyer/barquest/internal/gamedata"
)

var (
	ErrItemNotFound     = errors.New("item not found")
	ErrSlotEmpty        = errors.New("equipment slot is empty")
	ErrNotEnoughGold    = errors.New("not enough gold")
	ErrNoPotion         = errors.New("no potion left")
	ErrInvalidEquipSlot = errors.New("item cannot be equipped")
)

// PotionKind selects which potion stack to use.
type PotionKind string

const (
	PotionHealth   PotionKind = "health"
	PotionResource PotionKind = "resource"
)

// Inventory holds the hero's bag, equipped items, gold, and potions.
type Inventory struct {
	Gold      int                     `json:"gold"`
	Items     []*Item                 `json:"items"`
	Equipment map[gamedata.Slot]*Item `json:"equipment"`
	Potions   map[PotionKind]int      `json:"potions"`
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{
		Equipment: make(map[gamedata.Slot]*Item),
		Potions:   make(map[PotionKind]int),
	}
}

// EnsureMaps allocates any nil map.
func (inv *Inventory) EnsureMaps() {
	if inv.Equipment == nil {
		inv.Equipment = make(map[gamedata.Slot]*Item)
	}
	if inv.Potions == nil {
		inv.Potions = make(map[PotionKind]int)
	}
}

// Add puts an item into the bag.
func (inv *Inventory) Add(it *Item) {
	if it != nil {
		inv.Items = append(inv.Items, it)
	}
}

// Find returns the bag index of the item with id, or -1.
func (inv *Inventory) Find(id string) int {
	for i, it := range inv.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Remove takes the item with id out of the bag.
func (inv *Inventory) Remove(id string) (*Item, error) {
	i := inv.Find(id)
	if i < 0 {
		return nil, ErrItemNotFound
	}
	it := inv.Items[i]
	inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
	return it, nil
}

// TargetSlot picks the slot an item goes into. Rings fill the first free
// ring slot and replace the first ring when both are taken.
func (inv *Inventory) TargetSlot(it *Item) gamedata.Slot {
	if !it.IsRing() {
		return it.Slot
	}
	if inv.Equipment[gamedata.SlotRing] == nil {
		return gamedata.SlotRing
	}
	if inv.Equipment[gamedata.SlotRing2] == nil {
		return gamedata.SlotRing2
	}
	return gamedata.SlotRing
}

// Equip moves an item from the bag into its slot. The previous occupant, if
// any, goes back to the bag and is returned.
func (inv *Inventory) Equip(id string) (equipped, previous *Item, err error) {
	i := inv.Find(id)
	if i < 0 {
		return nil, nil, ErrItemNotFound
	}
	if inv.Items[i].Slot == "" {
		return nil, nil, ErrInvalidEquipSlot
	}
	it, _ := inv.Remove(id)
	inv.EnsureMaps()

	slot := inv.TargetSlot(it)
	previous = inv.Equipment[slot]
	inv.Equipment[slot] = it
	if previous != nil {
		inv.Add(previous)
	}
	return it, previous, nil
}

// Unequip moves the item in slot back to the bag.
func (inv *Inventory) Unequip(slot gamedata.Slot) (*Item, error) {
	it := inv.Equipment[slot]
	if it == nil {
		return nil, ErrSlotEmpty
	}
	delete(inv.Equipment, slot)
	inv.Add(it)
	return it, nil
}

// Equipped returns equipped items in a stable slot order.
func (inv *Inventory) Equipped() []*Item {
	out := make([]*Item, 0, len(inv.Equipment))
	for _, slot := range equipOrder {
		if it := inv.Equipment[slot]; it != nil {
			out = append(out, it)
		}
	}
	return out
}

var equipOrder = []gamedata.Slot{
	gamedata.SlotWeapon, gamedata.SlotOffhand, gamedata.SlotHead, gamedata.SlotShoulders,
	gamedata.SlotChest, gamedata.SlotHands, gamedata.SlotLegs, gamedata.SlotFeet,
	gamedata.SlotBelt, gamedata.SlotNeck, gamedata.SlotRing, gamedata.SlotRing2,
	gamedata.SlotTrinket,
}

// EquipSlots lists every equipment slot in display order.
func EquipSlots() []gamedata.Slot {
	return append([]gamedata.Slot(nil), equipOrder...)
}

// SetPieces counts equipped items per set id.
func (inv *Inventory) SetPieces() map[string]int {
	counts := make(map[string]int)
	for _, it := range inv.Equipment {
		if it != nil && it.SetID != "" {
			counts[it.SetID]++
		}
	}
	return counts
}

// Spend removes gold if enough is available.
func (inv *Inventory) Spend(amount int) error {
	if amount > inv.Gold {
		return ErrNotEnoughGold
	}
	inv.Gold -= amount
	return nil
}

// UsePotion consumes one potion of kind.
func (inv *Inventory) UsePotion(kind PotionKind) error {
	if inv.Potions[kind] <= 0 {
		return ErrNoPotion
	}
	inv.Potions[kind]--
	return nil
}

// Clone returns a deep copy.
func (inv *Inventory) Clone() *Inventory {
	out := &Inventory{
		Gold:      inv.Gold,
		Items:     make([]*Item, 0, len(inv.Items)),
		Equipment: make(map[gamedata.Slot]*Item, len(inv.Equipment)),
		Potions:   make(map[PotionKind]int, len(inv.Potions)),
	}
	for _, it := range inv.Items {
		out.Items = append(out.Items, it.Clone())
	}
	for s, it := range inv.Equipment {
		if it != nil {
			out.Equipment[s] = it.Clone()
		}
	}
	for k, v := range inv.Potions {
		out.Potions[k] = v
	}
	return out
}
