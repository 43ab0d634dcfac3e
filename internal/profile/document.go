// Package profile persists hero profiles as versioned JSON documents.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/samdwyer/barquest/internal/entity"
)

// CurrentVersion is the document schema written by this build.
//
// Version history:
//
//	1: player, inventory, quests
//	2: reputation and completed dungeon counters on the player
const CurrentVersion = 2

var (
	// ErrNotFound is returned when no profile exists for a hero id.
	ErrNotFound = errors.New("profile not found")
	// ErrCorrupt is returned for documents that cannot be repaired.
	ErrCorrupt = errors.New("profile document is corrupt")
	// ErrNewerVersion is returned for documents written by a newer build.
	ErrNewerVersion = errors.New("profile written by a newer version")
)

// Document is the persisted form of a hero.
type Document struct {
	Version   int                   `json:"version"`
	HeroID    string                `json:"hero_id"`
	SavedAt   time.Time             `json:"saved_at"`
	Player    *entity.Player        `json:"player"`
	Inventory *entity.Inventory     `json:"inventory"`
	Quests    []*entity.ActiveQuest `json:"quests"`
}

// NewDocument copies a hero into a document stamped with the current
// version. Combat-only state is not persisted.
func NewDocument(p *entity.Player, inv *entity.Inventory, quests []*entity.ActiveQuest, now time.Time) *Document {
	pc := p.Clone()
	pc.ClearCombatState()
	doc := &Document{
		Version:   CurrentVersion,
		HeroID:    p.ID,
		SavedAt:   now.UTC(),
		Player:    pc,
		Inventory: inv.Clone(),
	}
	for _, q := range quests {
		c := *q
		doc.Quests = append(doc.Quests, &c)
	}
	return doc
}

// Encode marshals the document.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile %s: %w", d.HeroID, err)
	}
	return data, nil
}

// Decode unmarshals and migrates a document.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := Migrate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Migrate brings a decoded document up to CurrentVersion. Fields added
// after the document was written get their zero-value defaults: nil maps
// and slices are allocated, and stat multipliers that were never stored
// become identity.
func Migrate(d *Document) error {
	if d.Player == nil {
		return fmt.Errorf("%w: missing player", ErrCorrupt)
	}
	if d.Version > CurrentVersion {
		return fmt.Errorf("%w: version %d, max %d", ErrNewerVersion, d.Version, CurrentVersion)
	}

	p := d.Player
	if d.HeroID == "" {
		d.HeroID = p.ID
	}
	if p.ID == "" {
		p.ID = d.HeroID
	}
	p.EnsureMaps()
	p.ClearCombatState()

	if d.Inventory == nil {
		d.Inventory = entity.NewInventory()
	}
	d.Inventory.EnsureMaps()
	d.Inventory.Items = slices.DeleteFunc(d.Inventory.Items, func(it *entity.Item) bool { return it == nil })
	for slot, it := range d.Inventory.Equipment {
		if it == nil {
			delete(d.Inventory.Equipment, slot)
		}
	}
	d.Quests = slices.DeleteFunc(d.Quests, func(q *entity.ActiveQuest) bool { return q == nil || q.QuestID == "" })

	d.Version = CurrentVersion
	return nil
}
