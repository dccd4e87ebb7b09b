// Package world models a save slot: metadata, party, transcript, monster
// roster, and quest list, plus the seed interpretation fed to the narrator.
package world

import (
	"time"

	"github.com/google/uuid"

	"github.com/leitor-rpg/engine/internal/game/bestiary"
	"github.com/leitor-rpg/engine/internal/game/character"
	"github.com/leitor-rpg/engine/internal/game/quest"
)

// Mode selects whether turns go to the live narrator or the offline one.
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// Role of a transcript message.
type Role string

const (
	RoleUser   Role = "user"
	RoleModel  Role = "model"
	RoleSystem Role = "system"
)

// Message is one transcript entry.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	DiceRoll  bool      `json:"isDiceRoll,omitempty"`
}

// NewMessage builds a timestamped transcript entry.
func NewMessage(role Role, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}

// DefaultSeed is used when a world is created without a seed.
const DefaultSeed = "12345"

// World is one save slot.
type World struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Era         string                 `json:"era,omitempty"`
	Mode        Mode                   `json:"mode"`
	CreatedAt   time.Time              `json:"createdAt"`
	LastPlayed  time.Time              `json:"lastPlayed"`
	Seed        string                 `json:"seed,omitempty"`
	Details     string                 `json:"worldDetails,omitempty"`
	InitialPlot string                 `json:"initialPlot,omitempty"`
	Party       []*character.Character `json:"party"`
	Messages    []Message              `json:"messages"`
	Monsters    []bestiary.Monster     `json:"monsters"`
	Quests      []quest.Quest          `json:"quests"`
}

// New creates an empty world. An empty seed falls back to DefaultSeed; the
// seed's interpretation is rendered into Details at creation time.
func New(name, era, seed string, mode Mode) *World {
	if seed == "" {
		seed = DefaultSeed
	}
	now := time.Now().UTC()
	return &World{
		ID:         uuid.NewString(),
		Name:       name,
		Era:        era,
		Mode:       mode,
		CreatedAt:  now,
		LastPlayed: now,
		Seed:       seed,
		Details:    InterpretSeed(seed),
		Party:      []*character.Character{},
		Messages:   []Message{},
		Monsters:   []bestiary.Monster{},
		Quests:     []quest.Quest{},
	}
}

// Normalize fills nil collections and renormalises each party member after
// deserialisation.
func (w *World) Normalize() {
	if w.Party == nil {
		w.Party = []*character.Character{}
	}
	for _, ch := range w.Party {
		ch.Normalize()
	}
	if w.Messages == nil {
		w.Messages = []Message{}
	}
	if w.Monsters == nil {
		w.Monsters = []bestiary.Monster{}
	}
	if w.Quests == nil {
		w.Quests = []quest.Quest{}
	}
	if w.Seed == "" {
		w.Seed = DefaultSeed
	}
	if w.Details == "" {
		w.Details = InterpretSeed(w.Seed)
	}
}

// Touch stamps the world as just played.
func (w *World) Touch() {
	w.LastPlayed = time.Now().UTC()
}
