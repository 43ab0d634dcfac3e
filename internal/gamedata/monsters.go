package gamedata

import (
	"io/fs"

	"github.com/samdwyer/barquest/internal/stats"
)

// ElementalProfile adds a second, elemental damage roll to a monster's attack.
type ElementalProfile struct {
	Element stats.Element `json:"element"`
	Min     float64       `json:"min"`
	Max     float64       `json:"max"`
}

// MonsterSkill is a periodic empowered attack.
type MonsterSkill struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Cooldown   float64       `json:"cooldown"` // seconds
	Multiplier float64       `json:"multiplier"`
	Element    stats.Element `json:"element,omitempty"`
}

// MonsterDef defines a monster type loaded from JSON.
type MonsterDef struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Family      string             `json:"family"`
	Tier        int                `json:"tier"`
	Level       int                `json:"level"`
	IsBoss      bool               `json:"isBoss,omitempty"`
	Glyph       string             `json:"glyph"`
	Color       string             `json:"color"`
	SpawnWeight int                `json:"spawnWeight,omitempty"` // Relative spawn frequency (higher = more common)
	Stats       stats.AttributeSet `json:"stats"`
	Elemental   *ElementalProfile  `json:"elemental,omitempty"`
	Skills      []MonsterSkill     `json:"skills,omitempty"`
}

// GlyphRune returns the glyph as a rune for rendering.
func (m *MonsterDef) GlyphRune() rune {
	if len(m.Glyph) == 0 {
		return '?'
	}
	return rune(m.Glyph[0])
}

// MonstersFile represents the structure of monsters.json.
type MonstersFile struct {
	Monsters []MonsterDef `json:"monsters"`
}

// LoadMonsters loads monster definitions from monsters.json in fsys.
func LoadMonsters(fsys fs.FS) ([]MonsterDef, error) {
	file, err := Load[MonstersFile](fsys, "monsters.json")
	if err != nil {
		return nil, err
	}
	return file.Monsters, nil
}
