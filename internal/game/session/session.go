// Package session orchestrates one loaded world: turn flow, narration,
// tag application, shops, and combat pacing. It owns the single lock that
// keeps game-state mutation strictly sequential.
package session

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/leitor-rpg/engine/internal/game/bestiary"
	"github.com/leitor-rpg/engine/internal/game/character"
	"github.com/leitor-rpg/engine/internal/game/combat"
	"github.com/leitor-rpg/engine/internal/game/dice"
	"github.com/leitor-rpg/engine/internal/game/item"
	"github.com/leitor-rpg/engine/internal/game/quest"
	"github.com/leitor-rpg/engine/internal/game/shop"
	"github.com/leitor-rpg/engine/internal/game/world"
	"github.com/leitor-rpg/engine/internal/narrator"
)

// WaitNote is the system message sent when the party skips its turn.
const WaitNote = "(O grupo aguarda observando o desenrolar da situação...)"

// Config assembles a session's collaborators.
type Config struct {
	World    *world.World
	Live     narrator.Narrator // nil forces offline narration
	Rules    *item.RuleTable
	Catalog  *shop.Catalog
	Registry *bestiary.Registry
	Roller   *dice.Roller
	Logger   *zap.Logger

	// TriggerDelay and MonsterDelay override the default pacing; zero
	// keeps the defaults. Tests use tiny values.
	TriggerDelay time.Duration
	MonsterDelay time.Duration
}

// Session is the single-writer façade over one world's live state.
// All exported methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	world    *world.World
	quests   *quest.Log
	registry *bestiary.Registry
	engine   *combat.Engine
	roller   *dice.Roller
	live     narrator.Narrator
	offline  narrator.Narrator
	rules    *item.RuleTable
	catalog  *shop.Catalog
	logger   *zap.Logger

	activeIndex    int
	encounterLevel int
	currentShop    shop.Type
	shopOpen       bool
	pendingStart   *combat.DelayTimer
	pendingTurn    *combat.DelayTimer
	triggerDelay   time.Duration
	monsterDelay   time.Duration
}

// New builds a session over a normalised world.
//
// Precondition: cfg.World, cfg.Roller, and cfg.Logger are non-nil.
func New(cfg Config) *Session {
	cfg.World.Normalize()

	registry := cfg.Registry
	if registry == nil {
		registry = bestiary.NewRegistry(cfg.World.Monsters)
	}
	rules := cfg.Rules
	if rules == nil {
		rules = item.DefaultRuleTable()
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = shop.DefaultCatalog()
	}
	triggerDelay := cfg.TriggerDelay
	if triggerDelay <= 0 {
		triggerDelay = combat.TriggerDelay
	}
	monsterDelay := cfg.MonsterDelay
	if monsterDelay <= 0 {
		monsterDelay = combat.MonsterTurnDelay
	}

	return &Session{
		world:        cfg.World,
		quests:       quest.NewLog(cfg.World.Quests),
		registry:     registry,
		engine:       combat.NewEngine(cfg.Roller, cfg.Logger),
		roller:       cfg.Roller,
		live:         cfg.Live,
		offline:      narrator.Offline{},
		rules:        rules,
		catalog:      catalog,
		logger:       cfg.Logger,
		triggerDelay: triggerDelay,
		monsterDelay: monsterDelay,
	}
}

// World returns the session's world with quest and monster state synced
// back in, ready to persist.
func (s *Session) World() *world.World {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncWorldLocked()
	return s.world
}

func (s *Session) syncWorldLocked() {
	s.world.Quests = s.quests.All()
	s.world.Monsters = s.registry.All()
}

// ActiveCharacter returns the character taking turns.
func (s *Session) ActiveCharacter() *character.Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeCharacterLocked()
}

func (s *Session) activeCharacterLocked() *character.Character {
	if len(s.world.Party) == 0 {
		return nil
	}
	if s.activeIndex < 0 || s.activeIndex >= len(s.world.Party) {
		s.activeIndex = 0
	}
	return s.world.Party[s.activeIndex]
}

// SetActiveCharacter switches which party member is acting.
func (s *Session) SetActiveCharacter(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.world.Party) {
		return fmt.Errorf("session: character index %d out of range", index)
	}
	s.activeIndex = index
	return nil
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []world.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]world.Message, len(s.world.Messages))
	copy(out, s.world.Messages)
	return out
}

func (s *Session) appendMessageLocked(role world.Role, text string) {
	s.world.Messages = append(s.world.Messages, world.NewMessage(role, text))
}

// Close cancels any pending delayed combat work.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingStart != nil {
		s.pendingStart.Stop()
	}
	if s.pendingTurn != nil {
		s.pendingTurn.Stop()
	}
}
