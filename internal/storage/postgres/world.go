package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leitor-rpg/engine/internal/game/world"
)

// ErrWorldNotFound is returned when a world lookup yields no results.
var ErrWorldNotFound = errors.New("world not found")

// ErrWorldExists is returned when a create collides with a stored world.
var ErrWorldExists = errors.New("world already exists")

// WorldRepository persists whole save slots: one row per world, with the
// party, transcript, bestiary, and quest log as JSONB documents.
type WorldRepository struct {
	db *pgxpool.Pool
}

// NewWorldRepository creates a WorldRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewWorldRepository(db *pgxpool.Pool) *WorldRepository {
	return &WorldRepository{db: db}
}

// Summary is the listing projection of a world, without the heavy JSONB
// documents.
type Summary struct {
	ID         string
	Name       string
	Era        string
	Mode       world.Mode
	CreatedAt  time.Time
	LastPlayed time.Time
	PartySize  int
}

// Create inserts a new world.
//
// Precondition: w.ID must be unique and non-empty.
func (r *WorldRepository) Create(ctx context.Context, w *world.World) error {
	party, messages, monsters, quests, err := marshalDocs(w)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO worlds
			(id, name, era, mode, created_at, last_played, seed,
			 world_details, initial_plot, party, messages, monsters, quests)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		w.ID, w.Name, w.Era, string(w.Mode), w.CreatedAt, w.LastPlayed, w.Seed,
		w.Details, w.InitialPlot, party, messages, monsters, quests,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("world %s: %w", w.ID, ErrWorldExists)
		}
		return fmt.Errorf("inserting world: %w", err)
	}
	return nil
}

// Get loads one world by id. Legacy documents are normalised on the way
// out: nil collections become empty, missing equipment slots stay empty,
// and old numeric wallets decode as iron.
//
// Postcondition: Returns a normalised World or ErrWorldNotFound.
func (r *WorldRepository) Get(ctx context.Context, id string) (*world.World, error) {
	var w world.World
	var mode string
	var party, messages, monsters, quests []byte
	err := r.db.QueryRow(ctx, `
		SELECT id, name, era, mode, created_at, last_played, seed,
		       world_details, initial_plot, party, messages, monsters, quests
		FROM worlds WHERE id = $1`,
		id,
	).Scan(
		&w.ID, &w.Name, &w.Era, &mode, &w.CreatedAt, &w.LastPlayed, &w.Seed,
		&w.Details, &w.InitialPlot, &party, &messages, &monsters, &quests,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorldNotFound
		}
		return nil, fmt.Errorf("querying world: %w", err)
	}
	w.Mode = world.Mode(mode)

	if err := unmarshalDocs(&w, party, messages, monsters, quests); err != nil {
		return nil, err
	}
	w.Normalize()
	return &w, nil
}

// List returns every save slot's summary, most recently played first.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *WorldRepository) List(ctx context.Context) ([]Summary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, era, mode, created_at, last_played,
		       COALESCE(jsonb_array_length(party), 0)
		FROM worlds ORDER BY last_played DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing worlds: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		var mode string
		if err := rows.Scan(&s.ID, &s.Name, &s.Era, &mode, &s.CreatedAt, &s.LastPlayed, &s.PartySize); err != nil {
			return nil, fmt.Errorf("scanning world row: %w", err)
		}
		s.Mode = world.Mode(mode)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Save persists the world's full mutable state after a settled turn.
//
// Postcondition: Returns nil on success, ErrWorldNotFound if no row updated.
func (r *WorldRepository) Save(ctx context.Context, w *world.World) error {
	party, messages, monsters, quests, err := marshalDocs(w)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE worlds
		SET name = $2, era = $3, mode = $4, last_played = $5, seed = $6,
		    world_details = $7, initial_plot = $8,
		    party = $9, messages = $10, monsters = $11, quests = $12,
		    updated_at = NOW()
		WHERE id = $1`,
		w.ID, w.Name, w.Era, string(w.Mode), w.LastPlayed, w.Seed,
		w.Details, w.InitialPlot, party, messages, monsters, quests,
	)
	if err != nil {
		return fmt.Errorf("saving world: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWorldNotFound
	}
	return nil
}

// UpdateMetadata changes a world's identity fields without touching the
// gameplay documents, so an edit cannot clobber a turn saved in between.
//
// Postcondition: Returns nil on success, ErrWorldNotFound if no row updated.
func (r *WorldRepository) UpdateMetadata(ctx context.Context, id, name, era string, mode world.Mode) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE worlds
		SET name = $2, era = $3, mode = $4, updated_at = NOW()
		WHERE id = $1`,
		id, name, era, string(mode),
	)
	if err != nil {
		return fmt.Errorf("updating world metadata: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWorldNotFound
	}
	return nil
}

// Delete removes a save slot.
//
// Postcondition: Returns nil on success, ErrWorldNotFound if no row deleted.
func (r *WorldRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM worlds WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting world: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWorldNotFound
	}
	return nil
}

func marshalDocs(w *world.World) (party, messages, monsters, quests []byte, err error) {
	if party, err = json.Marshal(w.Party); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encoding party: %w", err)
	}
	if messages, err = json.Marshal(w.Messages); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encoding messages: %w", err)
	}
	if monsters, err = json.Marshal(w.Monsters); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encoding monsters: %w", err)
	}
	if quests, err = json.Marshal(w.Quests); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("encoding quests: %w", err)
	}
	return party, messages, monsters, quests, nil
}

func unmarshalDocs(w *world.World, party, messages, monsters, quests []byte) error {
	if len(party) > 0 {
		if err := json.Unmarshal(party, &w.Party); err != nil {
			return fmt.Errorf("decoding party: %w", err)
		}
	}
	if len(messages) > 0 {
		if err := json.Unmarshal(messages, &w.Messages); err != nil {
			return fmt.Errorf("decoding messages: %w", err)
		}
	}
	if len(monsters) > 0 {
		if err := json.Unmarshal(monsters, &w.Monsters); err != nil {
			return fmt.Errorf("decoding monsters: %w", err)
		}
	}
	if len(quests) > 0 {
		if err := json.Unmarshal(quests, &w.Quests); err != nil {
			return fmt.Errorf("decoding quests: %w", err)
		}
	}
	return nil
}
