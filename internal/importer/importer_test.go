package importer_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leitor-rpg/engine/internal/game/world"
	"github.com/leitor-rpg/engine/internal/importer"
	"github.com/leitor-rpg/engine/internal/storage/postgres"
)

type memStore struct {
	worlds map[string]*world.World
	saves  int
}

func newMemStore() *memStore {
	return &memStore{worlds: map[string]*world.World{}}
}

func (m *memStore) Create(_ context.Context, w *world.World) error {
	if _, ok := m.worlds[w.ID]; ok {
		return fmt.Errorf("world %s: %w", w.ID, postgres.ErrWorldExists)
	}
	m.worlds[w.ID] = w
	return nil
}

func (m *memStore) Save(_ context.Context, w *world.World) error {
	if _, ok := m.worlds[w.ID]; !ok {
		return postgres.ErrWorldNotFound
	}
	m.worlds[w.ID] = w
	m.saves++
	return nil
}

func writeExport(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "itan_rpg_worlds.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

const exportTwoWorlds = `[
  {
    "id": "w1", "name": "Eldoria", "era": "Medieval", "mode": "offline",
    "party": [
      {"id": "c1", "name": "Ragnar", "class": "Bárbaro",
       "stats": {"for": 14, "def": 10, "vit": 12, "agi": 10, "int": 8},
       "hp": {"current": 30, "max": 30}, "wallet": 250}
    ],
    "messages": [], "monsters": [], "quests": []
  },
  {
    "id": "w2", "name": "Vharn", "mode": "online",
    "party": [], "messages": [], "monsters": [], "quests": []
  }
]`

func TestImporter_Run_WritesWorlds(t *testing.T) {
	store := newMemStore()
	imp := importer.New(importer.BrowserExport{}, store)

	n, err := imp.Run(context.Background(), writeExport(t, exportTwoWorlds))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, store.worlds, 2)

	w1 := store.worlds["w1"]
	require.Len(t, w1.Party, 1)
	assert.Equal(t, "Ragnar", w1.Party[0].Name)
}

func TestImporter_Run_DecodesLegacyWallet(t *testing.T) {
	store := newMemStore()
	imp := importer.New(importer.BrowserExport{}, store)

	_, err := imp.Run(context.Background(), writeExport(t, exportTwoWorlds))
	require.NoError(t, err)

	assert.Equal(t, 250, store.worlds["w1"].Party[0].Wallet.Iron)
}

func TestImporter_Run_SkipsExisting(t *testing.T) {
	store := newMemStore()
	store.worlds["w1"] = world.New("Eldoria", "", "", world.ModeOffline)
	store.worlds["w1"].ID = "w1"
	imp := importer.New(importer.BrowserExport{}, store)

	n, err := imp.Run(context.Background(), writeExport(t, exportTwoWorlds))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, store.saves)
}

func TestImporter_Run_OverwriteReplaces(t *testing.T) {
	store := newMemStore()
	store.worlds["w1"] = world.New("Old Eldoria", "", "", world.ModeOffline)
	store.worlds["w1"].ID = "w1"
	imp := importer.New(importer.BrowserExport{}, store)
	imp.Overwrite = true

	n, err := imp.Run(context.Background(), writeExport(t, exportTwoWorlds))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, "Eldoria", store.worlds["w1"].Name)
}

func TestBrowserExport_SingleObject(t *testing.T) {
	path := writeExport(t, `{"id": "solo", "name": "Solo", "mode": "offline"}`)

	worlds, err := importer.BrowserExport{}.Load(path)
	require.NoError(t, err)
	require.Len(t, worlds, 1)
	assert.Equal(t, "Solo", worlds[0].Name)
	assert.NotNil(t, worlds[0].Party)
}

func TestBrowserExport_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := importer.BrowserExport{}.Load(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
	t.Run("malformed json", func(t *testing.T) {
		_, err := importer.BrowserExport{}.Load(writeExport(t, `{not json`))
		assert.Error(t, err)
	})
	t.Run("empty array", func(t *testing.T) {
		_, err := importer.BrowserExport{}.Load(writeExport(t, `[]`))
		assert.Error(t, err)
	})
	t.Run("world without id", func(t *testing.T) {
		_, err := importer.BrowserExport{}.Load(writeExport(t, `[{"name": "NoID"}]`))
		assert.Error(t, err)
	})
}
