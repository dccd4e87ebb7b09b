package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/leitor-rpg/engine/internal/game/shop"
	"github.com/leitor-rpg/engine/internal/game/tags"
	"github.com/leitor-rpg/engine/internal/game/world"
	"github.com/leitor-rpg/engine/internal/narrator"
)

// TurnResult is what one narrated turn produced.
type TurnResult struct {
	// Narration is the model's reply with command tags stripped.
	Narration string
	// System lines describe tag side effects (items granted, level-ups).
	System []string
	// Fallback is true when the live narrator failed and the canned
	// offline line was used instead. Tags are never applied on fallback.
	Fallback bool
	// CombatQueued is true when a combat trigger was scheduled.
	CombatQueued bool
	// Shop is the storefront opened this turn, empty when none.
	Shop shop.Type
}

// PlayTurn runs one narrated turn for the active character: effects tick,
// the narrator replies, the reply is recorded with its tags stripped, and
// the tags mutate game state. While an encounter is active the reply is
// recorded but its tags are ignored.
func (s *Session) PlayTurn(ctx context.Context, input string) (TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.activeCharacterLocked()
	if active == nil {
		return TurnResult{}, fmt.Errorf("session: world has no party")
	}
	s.appendMessageLocked(world.RoleUser, fmt.Sprintf("%s: %s", active.Name, input))
	return s.resolveTurnLocked(ctx, input)
}

// SkipTurn lets the party wait and watch. The wait note goes to the
// narrator as the turn's action and is recorded as a system line.
func (s *Session) SkipTurn(ctx context.Context) (TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeCharacterLocked() == nil {
		return TurnResult{}, fmt.Errorf("session: world has no party")
	}
	s.appendMessageLocked(world.RoleSystem, WaitNote)
	return s.resolveTurnLocked(ctx, WaitNote)
}

func (s *Session) resolveTurnLocked(ctx context.Context, input string) (TurnResult, error) {
	for _, ch := range s.world.Party {
		ch.TickEffects()
	}
	defer s.world.Touch()

	turn := narrator.TurnContext{
		Message:      input,
		Active:       s.activeCharacterLocked(),
		MonsterNames: s.registry.Names(),
		ActiveQuests: s.quests.Active(),
	}

	raw, fallback := s.narrateLocked(ctx, turn)
	result := TurnResult{Narration: tags.Strip(raw), Fallback: fallback}

	if fallback {
		s.appendMessageLocked(world.RoleSystem, result.Narration)
		return result, nil
	}
	s.appendMessageLocked(world.RoleModel, result.Narration)

	if s.engine.Active() {
		return result, nil
	}

	applier := tags.Applier{
		Party:       s.world.Party,
		ActiveIndex: s.activeIndex,
		Quests:      s.quests,
		Rules:       s.rules,
		Logger:      s.logger,
	}
	ev := applier.Apply(tags.Parse(raw))
	for _, line := range ev.Messages {
		s.appendMessageLocked(world.RoleSystem, line)
	}
	result.System = ev.Messages

	if ev.CombatMonster != "" {
		s.scheduleEncounterLocked(ev.CombatMonster)
		result.CombatQueued = true
	}
	if ev.ShopType != "" {
		s.currentShop = shop.Route(ev.ShopType)
		s.shopOpen = true
		result.Shop = s.currentShop
	}
	return result, nil
}

// narrateLocked picks the narrator for the world's mode and falls back to
// the canned offline lines when the live call fails.
func (s *Session) narrateLocked(ctx context.Context, turn narrator.TurnContext) (string, bool) {
	live := s.live
	if s.world.Mode == world.ModeOffline {
		live = nil
	}
	if live == nil {
		text, _ := s.offline.Narrate(ctx, turn)
		return text, false
	}

	text, err := live.Narrate(ctx, turn)
	if err != nil {
		s.logger.Warn("narrator failed, using offline line", zap.Error(err))
		text, _ = s.offline.Narrate(ctx, turn)
		return text, true
	}
	return text, false
}
