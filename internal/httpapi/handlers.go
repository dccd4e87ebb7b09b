package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/leitor-rpg/engine/internal/game/character"
	"github.com/leitor-rpg/engine/internal/game/combat"
	"github.com/leitor-rpg/engine/internal/game/session"
	"github.com/leitor-rpg/engine/internal/game/stats"
	"github.com/leitor-rpg/engine/internal/game/world"
)

type createWorldRequest struct {
	Name  string                 `json:"name"`
	Era   string                 `json:"era"`
	Seed  string                 `json:"seed"`
	Mode  world.Mode             `json:"mode"`
	Plot  string                 `json:"initialPlot"`
	Party []*character.Character `json:"party"`
}

func (a *API) handleCreateWorld(w http.ResponseWriter, r *http.Request) {
	var req createWorldRequest
	if err := decodeBody(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		a.writeError(w, http.StatusBadRequest, errors.New("name must not be empty"))
		return
	}
	if req.Mode != world.ModeOnline && req.Mode != world.ModeOffline {
		a.writeError(w, http.StatusBadRequest, fmt.Errorf("mode must be %q or %q", world.ModeOnline, world.ModeOffline))
		return
	}
	if len(req.Party) == 0 {
		a.writeError(w, http.StatusBadRequest, errors.New("party must not be empty"))
		return
	}

	nw := world.New(req.Name, req.Era, req.Seed, req.Mode)
	nw.InitialPlot = req.Plot
	nw.Monsters = append(nw.Monsters, a.baseMonsters...)
	for _, ch := range req.Party {
		fresh := character.New(ch.Name)
		fresh.Class = ch.Class
		fresh.Race = ch.Race
		fresh.Age = ch.Age
		fresh.Gender = ch.Gender
		if ch.Stats != (stats.Base{}) {
			fresh.Stats = ch.Stats
		}
		fresh.Normalize()
		nw.Party = append(nw.Party, fresh)
	}

	if err := a.store.Create(r.Context(), nw); err != nil {
		a.writeStoreError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, nw)
}

func (a *API) handleListWorlds(w http.ResponseWriter, r *http.Request) {
	list, err := a.store.List(r.Context())
	if err != nil {
		a.writeStoreError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, list)
}

func (a *API) handleGetWorld(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(w, r)
	if err != nil {
		return
	}
	a.writeJSON(w, http.StatusOK, s.World())
}

type updateWorldRequest struct {
	Name string `json:"name"`
	Era  string `json:"era"`
	Mode string `json:"mode"`
}

// handleUpdateWorld edits a world's metadata without touching gameplay
// state. Empty fields keep their stored value. The live session is evicted
// so the next action picks up the new identity (a mode switch changes which
// narrator the session gets).
func (a *API) handleUpdateWorld(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "worldID")
	var req updateWorldRequest
	if err := decodeBody(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	current, err := a.store.Get(r.Context(), id)
	if err != nil {
		a.writeStoreError(w, err)
		return
	}

	name, era, mode := current.Name, current.Era, current.Mode
	if req.Name != "" {
		name = req.Name
	}
	if req.Era != "" {
		era = req.Era
	}
	if req.Mode != "" {
		mode = world.Mode(req.Mode)
		if mode != world.ModeOnline && mode != world.ModeOffline {
			a.writeError(w, http.StatusBadRequest, fmt.Errorf("unknown mode %q", req.Mode))
			return
		}
	}

	if err := a.store.UpdateMetadata(r.Context(), id, name, era, mode); err != nil {
		a.writeStoreError(w, err)
		return
	}
	a.sessions.Evict(id)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleDeleteWorld(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "worldID")
	a.sessions.Evict(id)
	if err := a.store.Delete(r.Context(), id); err != nil {
		a.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type playTurnRequest struct {
	Input string `json:"input"`
}

type turnResponse struct {
	Narration    string          `json:"narration"`
	System       []string        `json:"system,omitempty"`
	Fallback     bool            `json:"fallback,omitempty"`
	CombatQueued bool            `json:"combatQueued,omitempty"`
	Shop         string          `json:"shop,omitempty"`
	Messages     []world.Message `json:"messages"`
}

func (a *API) handlePlayTurn(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(w, r)
	if err != nil {
		return
	}
	var req playTurnRequest
	if err := decodeBody(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Input == "" {
		a.writeError(w, http.StatusBadRequest, errors.New("input must not be empty"))
		return
	}

	res, err := s.PlayTurn(r.Context(), req.Input)
	if err != nil {
		a.writeError(w, http.StatusConflict, err)
		return
	}
	a.persist(r, s)
	a.writeJSON(w, http.StatusOK, a.turnResponse(s, res))
}

func (a *API) handleSkipTurn(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(w, r)
	if err != nil {
		return
	}
	res, err := s.SkipTurn(r.Context())
	if err != nil {
		a.writeError(w, http.StatusConflict, err)
		return
	}
	a.persist(r, s)
	a.writeJSON(w, http.StatusOK, a.turnResponse(s, res))
}

type setActiveCharacterRequest struct {
	Index int `json:"index"`
}

func (a *API) handleSetActiveCharacter(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(w, r)
	if err != nil {
		return
	}
	var req setActiveCharacterRequest
	if err := decodeBody(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.SetActiveCharacter(req.Index); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleCombatState(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(w, r)
	if err != nil {
		return
	}
	a.writeJSON(w, http.StatusOK, s.CombatState())
}

type attackRequest struct {
	AttackerID string `json:"attackerId"`
	Heavy      bool   `json:"heavy"`
}

func (a *API) handleAttack(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(w, r)
	if err != nil {
		return
	}
	var req attackRequest
	if err := decodeBody(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.Attack(req.AttackerID, req.Heavy)
	if err != nil {
		a.writeError(w, combatErrorStatus(err), err)
		return
	}
	a.persist(r, s)
	a.writeJSON(w, http.StatusOK, map[string]any{
		"result": res,
		"state":  s.CombatState(),
	})
}

func (a *API) handleFlee(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(w, r)
	if err != nil {
		return
	}
	if err := s.Flee(); err != nil {
		a.writeError(w, combatErrorStatus(err), err)
		return
	}
	a.persist(r, s)
	a.writeJSON(w, http.StatusOK, s.CombatState())
}

func (a *API) handleShopStock(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(w, r)
	if err != nil {
		return
	}
	stock, err := s.ShopStock()
	if err != nil {
		a.writeError(w, http.StatusConflict, err)
		return
	}
	shopType, _ := s.CurrentShop()
	a.writeJSON(w, http.StatusOK, map[string]any{
		"type":  shopType,
		"items": stock,
	})
}

type consumeItemRequest struct {
	ItemID string `json:"itemId"`
}

func (a *API) handleConsumeItem(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(w, r)
	if err != nil {
		return
	}
	var req consumeItemRequest
	if err := decodeBody(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	msg, err := s.ConsumeItem(req.ItemID)
	if err != nil {
		a.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	a.persist(r, s)
	a.writeJSON(w, http.StatusOK, map[string]string{"result": msg})
}

type tradeItemRequest struct {
	ItemID      string `json:"itemId"`
	TargetIndex int    `json:"targetIndex"`
}

func (a *API) handleTradeItem(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(w, r)
	if err != nil {
		return
	}
	var req tradeItemRequest
	if err := decodeBody(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.TradeItem(req.ItemID, req.TargetIndex); err != nil {
		a.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	a.persist(r, s)
	w.WriteHeader(http.StatusNoContent)
}

type buyItemRequest struct {
	ItemID string `json:"itemId"`
}

func (a *API) handleBuyItem(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(w, r)
	if err != nil {
		return
	}
	var req buyItemRequest
	if err := decodeBody(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	bought, err := s.BuyItem(req.ItemID)
	if err != nil {
		if errors.Is(err, session.ErrNoShop) {
			a.writeError(w, http.StatusConflict, err)
			return
		}
		a.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	a.persist(r, s)
	a.writeJSON(w, http.StatusOK, bought)
}

func (a *API) handleLeaveShop(w http.ResponseWriter, r *http.Request) {
	s, err := a.session(w, r)
	if err != nil {
		return
	}
	s.LeaveShop()
	w.WriteHeader(http.StatusNoContent)
}

// session resolves the request's world into a live session, writing the
// error response itself on failure.
func (a *API) session(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	id := chi.URLParam(r, "worldID")
	s, err := a.sessions.Get(r.Context(), id)
	if err != nil {
		a.writeStoreError(w, err)
		return nil, err
	}
	return s, nil
}

// persist saves the session's world after a settled change. Persistence
// failures are logged, not surfaced; the in-memory session stays canonical.
func (a *API) persist(r *http.Request, s *session.Session) {
	if err := a.store.Save(r.Context(), s.World()); err != nil {
		a.logger.Error("persisting world", zap.Error(err))
	}
}

func (a *API) turnResponse(s *session.Session, res session.TurnResult) turnResponse {
	return turnResponse{
		Narration:    res.Narration,
		System:       res.System,
		Fallback:     res.Fallback,
		CombatQueued: res.CombatQueued,
		Shop:         string(res.Shop),
		Messages:     s.Messages(),
	}
}

func combatErrorStatus(err error) int {
	switch {
	case errors.Is(err, combat.ErrNotActive), errors.Is(err, combat.ErrActive):
		return http.StatusConflict
	case errors.Is(err, combat.ErrNotYourTurn):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
