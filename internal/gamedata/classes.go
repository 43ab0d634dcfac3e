package gamedata

import (
	"io/fs"

	"github.com/samdwyer/barquest/internal/stats"
)

// ClassDef defines a playable class loaded from JSON.
type ClassDef struct {
	ID             string             `json:"id"`       // Unique identifier (e.g., "warrior")
	Name           string             `json:"name"`     // Display name (e.g., "Warrior")
	Symbol         string             `json:"symbol"`   // Single character for rendering (e.g., "W")
	Color          string             `json:"color"`    // Hex color used by the terminal view
	Resource       stats.ResourceType `json:"resource"` // Mana, Rage or Energy
	BaseStats      stats.AttributeSet `json:"baseStats"`
	PerLevel       stats.AttributeSet `json:"perLevel"` // Added once per level above 1
	StartingSkills []string           `json:"startingSkills"`
}

// SymbolRune returns the symbol as a rune for rendering.
func (c *ClassDef) SymbolRune() rune {
	if len(c.Symbol) == 0 {
		return '?'
	}
	return rune(c.Symbol[0])
}

// StatsAtLevel returns base stats plus growth for every level above 1.
func (c *ClassDef) StatsAtLevel(level int) stats.AttributeSet {
	out := c.BaseStats.Clone()
	out.Normalize()
	for i := 1; i < level; i++ {
		out.Merge(c.PerLevel)
	}
	return out
}

// ClassesFile represents the structure of classes.json.
type ClassesFile struct {
	Classes []ClassDef `json:"classes"`
}

// LoadClasses loads class definitions from classes.json in fsys.
func LoadClasses(fsys fs.FS) ([]ClassDef, error) {
	file, err := Load[ClassesFile](fsys, "classes.json")
	if err != nil {
		return nil, err
	}
	return file.Classes, nil
}
