// Package importer migrates saved worlds from client export files into the
// server's store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leitor-rpg/engine/internal/game/world"
	"github.com/leitor-rpg/engine/internal/storage/postgres"
)

// Store is the subset of the world repository the importer writes through.
type Store interface {
	Create(ctx context.Context, w *world.World) error
	Save(ctx context.Context, w *world.World) error
}

// Importer orchestrates save import from a Source into a Store.
type Importer struct {
	source Source
	store  Store

	// Overwrite replaces worlds that already exist in the store instead
	// of skipping them.
	Overwrite bool
}

// New constructs an Importer backed by the given source and store.
//
// Precondition: source and store must be non-nil.
// Postcondition: returns a non-nil Importer.
func New(source Source, store Store) *Importer {
	return &Importer{source: source, store: store}
}

// Run loads worlds from path and inserts each into the store. Worlds whose
// ID already exists are skipped unless Overwrite is set, in which case the
// stored copy is replaced.
//
// Postcondition: returns the number of worlds written, or a non-nil error
// on the first failure.
func (imp *Importer) Run(ctx context.Context, path string) (int, error) {
	overall := time.Now()

	t0 := time.Now()
	worlds, err := imp.source.Load(path)
	if err != nil {
		return 0, fmt.Errorf("loading export: %w", err)
	}
	fmt.Printf("load    %d world(s) in %s\n", len(worlds), time.Since(t0).Round(time.Millisecond))

	written := 0
	for _, w := range worlds {
		t1 := time.Now()

		err := imp.store.Create(ctx, w)
		switch {
		case err == nil:
			written++
			fmt.Printf("wrote   %q  (%d members, %d messages)  in %s\n",
				w.Name, len(w.Party), len(w.Messages), time.Since(t1).Round(time.Millisecond))
		case isExists(err) && imp.Overwrite:
			if err := imp.store.Save(ctx, w); err != nil {
				return written, fmt.Errorf("replacing world %q: %w", w.Name, err)
			}
			written++
			fmt.Printf("replaced %q  in %s\n", w.Name, time.Since(t1).Round(time.Millisecond))
		case isExists(err):
			fmt.Printf("skipped %q  (already exists)\n", w.Name)
		default:
			return written, fmt.Errorf("writing world %q: %w", w.Name, err)
		}
	}

	fmt.Printf("total   %d written in %s\n", written, time.Since(overall).Round(time.Millisecond))
	return written, nil
}

func isExists(err error) bool {
	return errors.Is(err, postgres.ErrWorldExists)
}
