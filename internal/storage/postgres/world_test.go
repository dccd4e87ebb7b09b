package postgres_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leitor-rpg/engine/internal/game/character"
	"github.com/leitor-rpg/engine/internal/game/currency"
	"github.com/leitor-rpg/engine/internal/game/world"
	"github.com/leitor-rpg/engine/internal/storage/postgres"
	"github.com/leitor-rpg/engine/internal/testutil"
)

func setupWorldRepo(t *testing.T) (*postgres.WorldRepository, *pgxpool.Pool) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return postgres.NewWorldRepository(pc.RawPool), pc.RawPool
}

func makeTestWorld(name string) *world.World {
	w := world.New(name, "medieval", "314159", world.ModeOffline)
	hero := character.New("Ragnar")
	hero.Wallet = currency.Wallet{Iron: 25}
	w.Party = append(w.Party, hero)
	w.Messages = append(w.Messages, world.NewMessage(world.RoleSystem, "A jornada começa."))
	return w
}

func TestWorldRepository_CreateAndGet(t *testing.T) {
	repo, _ := setupWorldRepo(t)
	ctx := context.Background()

	w := makeTestWorld("Eldoria")
	require.NoError(t, repo.Create(ctx, w))

	got, err := repo.Get(ctx, w.ID)
	require.NoError(t, err)

	assert.Equal(t, w.ID, got.ID)
	assert.Equal(t, "Eldoria", got.Name)
	assert.Equal(t, world.ModeOffline, got.Mode)
	assert.Equal(t, w.Seed, got.Seed)
	assert.NotEmpty(t, got.Details)
	require.Len(t, got.Party, 1)
	assert.Equal(t, "Ragnar", got.Party[0].Name)
	assert.Equal(t, currency.Wallet{Iron: 25}, got.Party[0].Wallet)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "A jornada começa.", got.Messages[0].Text)
}

func TestWorldRepository_CreateDuplicate(t *testing.T) {
	repo, _ := setupWorldRepo(t)
	ctx := context.Background()

	w := makeTestWorld("Eldoria")
	require.NoError(t, repo.Create(ctx, w))
	assert.ErrorIs(t, repo.Create(ctx, w), postgres.ErrWorldExists)
}

func TestWorldRepository_GetMissing(t *testing.T) {
	repo, _ := setupWorldRepo(t)
	_, err := repo.Get(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, postgres.ErrWorldNotFound)
}

func TestWorldRepository_SavePersistsState(t *testing.T) {
	repo, _ := setupWorldRepo(t)
	ctx := context.Background()

	w := makeTestWorld("Eldoria")
	require.NoError(t, repo.Create(ctx, w))

	w.Party[0].XP.Current = 42
	w.Messages = append(w.Messages, world.NewMessage(world.RoleUser, "Ragnar: sigo em frente"))
	w.Touch()
	require.NoError(t, repo.Save(ctx, w))

	got, err := repo.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Party[0].XP.Current)
	assert.Len(t, got.Messages, 2)
}

func TestWorldRepository_UpdateMetadata(t *testing.T) {
	repo, _ := setupWorldRepo(t)
	ctx := context.Background()

	w := makeTestWorld("Eldoria")
	w.Messages = append(w.Messages, world.NewMessage(world.RoleUser, "Ragnar: olho em volta"))
	require.NoError(t, repo.Create(ctx, w))

	require.NoError(t, repo.UpdateMetadata(ctx, w.ID, "Nova Eldoria", "vitoriana", world.ModeOnline))

	got, err := repo.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nova Eldoria", got.Name)
	assert.Equal(t, "vitoriana", got.Era)
	assert.Equal(t, world.ModeOnline, got.Mode)
	// Gameplay documents are untouched.
	assert.Len(t, got.Messages, len(w.Messages))
	assert.Len(t, got.Party, len(w.Party))

	assert.ErrorIs(t,
		repo.UpdateMetadata(ctx, "00000000-0000-0000-0000-000000000000", "X", "", world.ModeOffline),
		postgres.ErrWorldNotFound)
}

func TestWorldRepository_SaveMissing(t *testing.T) {
	repo, _ := setupWorldRepo(t)
	w := makeTestWorld("Fantasma")
	assert.ErrorIs(t, repo.Save(context.Background(), w), postgres.ErrWorldNotFound)
}

func TestWorldRepository_ListOrdersByLastPlayed(t *testing.T) {
	repo, _ := setupWorldRepo(t)
	ctx := context.Background()

	first := makeTestWorld("Primeiro")
	second := makeTestWorld("Segundo")
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	first.Touch()
	require.NoError(t, repo.Save(ctx, first))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Primeiro", list[0].Name)
	assert.Equal(t, 1, list[0].PartySize)
}

func TestWorldRepository_Delete(t *testing.T) {
	repo, _ := setupWorldRepo(t)
	ctx := context.Background()

	w := makeTestWorld("Eldoria")
	require.NoError(t, repo.Create(ctx, w))
	require.NoError(t, repo.Delete(ctx, w.ID))

	_, err := repo.Get(ctx, w.ID)
	assert.ErrorIs(t, err, postgres.ErrWorldNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, w.ID), postgres.ErrWorldNotFound)
}

func TestWorldRepository_LegacyWalletDecodes(t *testing.T) {
	repo, raw := setupWorldRepo(t)
	ctx := context.Background()

	w := makeTestWorld("Antigo")
	require.NoError(t, repo.Create(ctx, w))

	// Old saves stored money as a bare iron count.
	_, err := raw.Exec(ctx,
		`UPDATE worlds SET party = jsonb_set(party, '{0,wallet}', '300'::jsonb) WHERE id = $1`,
		w.ID,
	)
	require.NoError(t, err)

	got, err := repo.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, currency.Wallet{Iron: 300}, got.Party[0].Wallet)
}
