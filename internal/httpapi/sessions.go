// Package httpapi exposes the game engine over a chi-routed JSON API.
package httpapi

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/leitor-rpg/engine/internal/game/dice"
	"github.com/leitor-rpg/engine/internal/game/item"
	"github.com/leitor-rpg/engine/internal/game/session"
	"github.com/leitor-rpg/engine/internal/game/shop"
	"github.com/leitor-rpg/engine/internal/game/world"
	"github.com/leitor-rpg/engine/internal/narrator"
	"github.com/leitor-rpg/engine/internal/observability"
	"github.com/leitor-rpg/engine/internal/storage/postgres"
)

// WorldStore is the persistence surface the API needs. It is satisfied by
// the postgres WorldRepository.
type WorldStore interface {
	Create(ctx context.Context, w *world.World) error
	Get(ctx context.Context, id string) (*world.World, error)
	List(ctx context.Context) ([]postgres.Summary, error)
	Save(ctx context.Context, w *world.World) error
	UpdateMetadata(ctx context.Context, id, name, era string, mode world.Mode) error
	Delete(ctx context.Context, id string) error
}

// SessionManager loads worlds on demand and keeps one live session per
// world for the life of the process.
type SessionManager struct {
	mu       sync.Mutex
	store    WorldStore
	sessions map[string]*session.Session
	logger   *zap.Logger

	narratorCfg  narrator.ClientConfig
	rules        *item.RuleTable
	catalog      *shop.Catalog
	triggerDelay time.Duration
	monsterDelay time.Duration
}

// SessionManagerConfig assembles a SessionManager.
type SessionManagerConfig struct {
	Store        WorldStore
	Logger       *zap.Logger
	Narrator     narrator.ClientConfig
	Rules        *item.RuleTable
	Catalog      *shop.Catalog
	TriggerDelay time.Duration
	MonsterDelay time.Duration
}

// NewSessionManager creates an empty manager.
//
// Precondition: cfg.Store and cfg.Logger are non-nil.
func NewSessionManager(cfg SessionManagerConfig) *SessionManager {
	return &SessionManager{
		store:        cfg.Store,
		sessions:     map[string]*session.Session{},
		logger:       cfg.Logger,
		narratorCfg:  cfg.Narrator,
		rules:        cfg.Rules,
		catalog:      cfg.Catalog,
		triggerDelay: cfg.TriggerDelay,
		monsterDelay: cfg.MonsterDelay,
	}
}

// Get returns the live session for a world, loading it from the store on
// first use. Online worlds get a live narrator only when an API key is
// configured.
func (m *SessionManager) Get(ctx context.Context, worldID string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[worldID]; ok {
		return s, nil
	}

	w, err := m.store.Get(ctx, worldID)
	if err != nil {
		return nil, err
	}

	wl := observability.WorldLogger(m.logger, w.ID, w.Name)

	var live narrator.Narrator
	if m.narratorCfg.APIKey != "" && w.Mode == world.ModeOnline {
		live = narrator.NewClient(
			m.narratorCfg,
			narrator.SystemPrompt(w.Party, w.Details, w.InitialPlot),
			wl.Named("narrator"),
		)
	}

	s := session.New(session.Config{
		World:        w,
		Live:         live,
		Rules:        m.rules,
		Catalog:      m.catalog,
		Roller:       dice.NewRoller(dice.NewCryptoSource(), wl.Named("dice")),
		Logger:       wl.Named("session"),
		TriggerDelay: m.triggerDelay,
		MonsterDelay: m.monsterDelay,
	})
	m.sessions[worldID] = s
	return s, nil
}

// Evict drops a world's live session, stopping its pending timers. The
// next Get reloads it from the store.
func (m *SessionManager) Evict(worldID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[worldID]; ok {
		s.Close()
		delete(m.sessions, worldID)
	}
}

// Close stops every live session.
func (m *SessionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.Close()
		delete(m.sessions, id)
	}
}
