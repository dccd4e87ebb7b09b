package importer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/leitor-rpg/engine/internal/game/world"
)

// Source loads saved worlds from a format-specific file and produces
// normalized world records ready for storage.
//
// Precondition: path must name a readable file in the format the source
// expects.
// Postcondition: returns at least one world, or a non-nil error.
type Source interface {
	Load(path string) ([]*world.World, error)
}

// BrowserExport reads the save format the web client keeps in browser
// storage: a JSON array of worlds, with party wallets possibly still in
// the legacy single-number form. A file holding one bare world object is
// accepted too.
type BrowserExport struct{}

// Load parses the export file and normalizes every world in it.
func (BrowserExport) Load(path string) ([]*world.World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export %s: %w", path, err)
	}

	var worlds []*world.World
	if err := json.Unmarshal(data, &worlds); err != nil {
		var single world.World
		if err2 := json.Unmarshal(data, &single); err2 != nil {
			return nil, fmt.Errorf("parsing export %s: %w", path, err)
		}
		worlds = []*world.World{&single}
	}
	if len(worlds) == 0 {
		return nil, fmt.Errorf("export %s holds no worlds", path)
	}

	for i, w := range worlds {
		if w == nil {
			return nil, fmt.Errorf("export %s: world %d is null", path, i)
		}
		if w.ID == "" {
			return nil, fmt.Errorf("export %s: world %d has no id", path, i)
		}
		if w.Name == "" {
			return nil, fmt.Errorf("export %s: world %q has no name", path, w.ID)
		}
		w.Normalize()
	}
	return worlds, nil
}
