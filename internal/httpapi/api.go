package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/leitor-rpg/engine/internal/game/bestiary"
	"github.com/leitor-rpg/engine/internal/storage/postgres"
)

// HealthChecker reports backend reachability, satisfied by the pgx pool
// wrapper.
type HealthChecker interface {
	Health(ctx context.Context, timeout time.Duration) error
}

// API bundles the HTTP surface of the game server.
type API struct {
	store        WorldStore
	sessions     *SessionManager
	health       HealthChecker
	logger       *zap.Logger
	baseMonsters []bestiary.Monster
}

// SetBaseBestiary seeds every newly created world with a starting roster.
func (a *API) SetBaseBestiary(monsters []bestiary.Monster) {
	a.baseMonsters = monsters
}

// New creates the API.
//
// Precondition: store, sessions, and logger are non-nil; health may be nil
// when no database backs the server (tests).
func New(store WorldStore, sessions *SessionManager, health HealthChecker, logger *zap.Logger) *API {
	return &API{
		store:    store,
		sessions: sessions,
		health:   health,
		logger:   logger,
	}
}

// Router builds the chi route tree.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Get("/health", a.handleHealth)

	r.Route("/worlds", func(r chi.Router) {
		r.Get("/", a.handleListWorlds)
		r.Post("/", a.handleCreateWorld)

		r.Route("/{worldID}", func(r chi.Router) {
			r.Get("/", a.handleGetWorld)
			r.Patch("/", a.handleUpdateWorld)
			r.Delete("/", a.handleDeleteWorld)

			r.Post("/turn", a.handlePlayTurn)
			r.Post("/skip", a.handleSkipTurn)
			r.Post("/active-character", a.handleSetActiveCharacter)

			r.Get("/combat", a.handleCombatState)
			r.Post("/combat/attack", a.handleAttack)
			r.Post("/combat/flee", a.handleFlee)

			r.Post("/items/consume", a.handleConsumeItem)
			r.Post("/items/trade", a.handleTradeItem)

			r.Get("/shop", a.handleShopStock)
			r.Post("/shop/buy", a.handleBuyItem)
			r.Post("/shop/leave", a.handleLeaveShop)
		})
	})
	return r
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if a.health != nil {
		if err := a.health.Health(r.Context(), 2*time.Second); err != nil {
			a.writeError(w, http.StatusServiceUnavailable, err)
			return
		}
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Warn("encoding response", zap.Error(err))
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed", zap.Error(err))
	}
	a.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeStoreError maps store sentinels onto HTTP statuses.
func (a *API) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, postgres.ErrWorldNotFound) {
		a.writeError(w, http.StatusNotFound, err)
		return
	}
	a.writeError(w, http.StatusInternalServerError, err)
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
