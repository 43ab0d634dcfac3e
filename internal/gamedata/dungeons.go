package gamedata

import "io/fs"

// DefaultKillTarget is the kill quota when a dungeon declares none.
const DefaultKillTarget = 25

// DungeonDef defines a dungeon loaded from JSON.
type DungeonDef struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tier        int      `json:"tier"`
	Biome       string   `json:"biome"`
	LevelReq    int      `json:"levelReq,omitempty"`
	KillTarget  int      `json:"killTarget,omitempty"`
	BossID      string   `json:"bossId"`
	Monsters    []string `json:"monsters,omitempty"` // Optional explicit pool; defaults to the tier's non-boss monsters
	FactionID   string   `json:"factionId,omitempty"`
}

// Quota returns the kill target, defaulting to DefaultKillTarget.
func (d *DungeonDef) Quota() int {
	if d.KillTarget <= 0 {
		return DefaultKillTarget
	}
	return d.KillTarget
}

// DungeonsFile represents the structure of dungeons.json.
type DungeonsFile struct {
	Dungeons []DungeonDef `json:"dungeons"`
}

// LoadDungeons loads dungeon definitions from dungeons.json in fsys.
func LoadDungeons(fsys fs.FS) ([]DungeonDef, error) {
	file, err := Load[DungeonsFile](fsys, "dungeons.json")
	if err != nil {
		return nil, err
	}
	return file.Dungeons, nil
}
