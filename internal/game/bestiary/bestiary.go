// Package bestiary holds the monster roster: statically loaded entries plus
// creatures synthesized at runtime when narration names something unknown.
package bestiary

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/leitor-rpg/engine/internal/game/character"
)

// Attack is one named monster attack with a dice damage formula.
type Attack struct {
	Name   string `json:"name" yaml:"name"`
	Damage string `json:"damage" yaml:"damage"`
}

// MonsterStats is the minimal attribute pair monsters carry.
type MonsterStats struct {
	Strength  int `json:"str" yaml:"str"`
	Dexterity int `json:"dex" yaml:"dex"`
}

// Monster is a bestiary entry.
type Monster struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Level       int             `json:"level" yaml:"level"`
	LevelRange  string          `json:"levelRange,omitempty" yaml:"levelRange,omitempty"`
	HP          character.Gauge `json:"hp" yaml:"hp"`
	AC          int             `json:"ac" yaml:"ac"`
	Stats       MonsterStats    `json:"stats" yaml:"stats"`
	Attacks     []Attack        `json:"attacks" yaml:"attacks"`
	Description string          `json:"description" yaml:"description"`
	Class       string          `json:"class,omitempty" yaml:"class,omitempty"`
}

// Validate checks a loaded entry for the fields combat depends on.
func (m Monster) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("bestiary: monster has no name")
	}
	if m.HP.Max <= 0 {
		return fmt.Errorf("bestiary: monster %q has no hit points", m.Name)
	}
	if len(m.Attacks) == 0 {
		return fmt.Errorf("bestiary: monster %q has no attacks", m.Name)
	}
	return nil
}

// Defaults for a creature the narration names but the bestiary doesn't know.
const (
	defaultLevel  = 1
	defaultHP     = 20
	defaultAC     = 10
	defaultAttack = "1d6"
)

// Synthesize builds a minimal monster for an unknown name.
func Synthesize(name string) Monster {
	return Monster{
		ID:          uuid.NewString(),
		Name:        name,
		Level:       defaultLevel,
		LevelRange:  "1-5",
		HP:          character.Gauge{Current: defaultHP, Max: defaultHP},
		AC:          defaultAC,
		Stats:       MonsterStats{Strength: 10, Dexterity: 10},
		Attacks:     []Attack{{Name: "Ataque", Damage: defaultAttack}},
		Description: "Inimigo desconhecido.",
		Class:       "(desconhecido)",
	}
}

// Registry is the known-monster index, addressable by id or by
// case-insensitive name. Not safe for concurrent use.
type Registry struct {
	monsters []Monster
}

// NewRegistry builds a registry seeded with the given monsters. Entries
// without an id are assigned one.
func NewRegistry(monsters []Monster) *Registry {
	r := &Registry{monsters: make([]Monster, 0, len(monsters))}
	for _, m := range monsters {
		r.Add(m)
	}
	return r
}

type bestiaryFile struct {
	Monsters []Monster `yaml:"monsters"`
}

// Load parses a YAML bestiary document into a registry.
func Load(data []byte) (*Registry, error) {
	var doc bestiaryFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("bestiary: parse: %w", err)
	}
	for _, m := range doc.Monsters {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}
	return NewRegistry(doc.Monsters), nil
}

// Add registers a monster, assigning an id if missing, and returns the
// stored entry.
func (r *Registry) Add(m Monster) Monster {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.HP.Current == 0 {
		m.HP.Current = m.HP.Max
	}
	r.monsters = append(r.monsters, m)
	return m
}

// FindByName looks a monster up by case-insensitive name.
func (r *Registry) FindByName(name string) (Monster, bool) {
	lower := strings.ToLower(name)
	for _, m := range r.monsters {
		if strings.ToLower(m.Name) == lower {
			return m, true
		}
	}
	return Monster{}, false
}

// FindByID looks a monster up by id.
func (r *Registry) FindByID(id string) (Monster, bool) {
	for _, m := range r.monsters {
		if m.ID == id {
			return m, true
		}
	}
	return Monster{}, false
}

// Resolve returns the named monster, synthesizing and registering a default
// entry when the name is unknown. The boolean reports whether the monster
// already existed.
func (r *Registry) Resolve(name string) (Monster, bool) {
	if m, ok := r.FindByName(name); ok {
		return m, true
	}
	return r.Add(Synthesize(name)), false
}

// All returns a copy of the roster.
func (r *Registry) All() []Monster {
	out := make([]Monster, len(r.monsters))
	copy(out, r.monsters)
	return out
}

// Names lists every known monster name in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.monsters))
	for i, m := range r.monsters {
		names[i] = m.Name
	}
	return names
}
