package gamedata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Load reads and unmarshals a JSON file from fsys.
func Load[T any](fsys fs.FS, filename string) (T, error) {
	var result T

	content, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return result, fmt.Errorf("failed to read data file %s: %w", filename, err)
	}

	if err := json.Unmarshal(content, &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON from %s: %w", filename, err)
	}

	return result, nil
}

// MustLoad reads and unmarshals a JSON file, panicking on error.
// Use this for data that must be present for the game to function.
func MustLoad[T any](fsys fs.FS, filename string) T {
	result, err := Load[T](fsys, filename)
	if err != nil {
		panic(err)
	}
	return result
}

// Overlay serves data files from dir when present there and from the
// embedded set otherwise, so single tables can be replaced without
// rebuilding. An empty dir is the embedded set alone.
func Overlay(dir string) fs.FS {
	if dir == "" {
		return Embedded()
	}
	return overlayFS{top: os.DirFS(dir), base: dataFS}
}

type overlayFS struct {
	top, base fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.top.Open(name)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return o.base.Open(name)
}
