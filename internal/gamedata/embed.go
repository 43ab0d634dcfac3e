// Package gamedata provides the static reference tables (classes, skills,
// talents, monsters, dungeons, items, quests) and their registries.
package gamedata

import (
	"embed"
	"io/fs"
)

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS

// Embedded returns the data files compiled into the binary.
func Embedded() fs.FS {
	return dataFS
}
