// Package character holds the party-member aggregate: base scores, gauges,
// equipment, inventory, wallet, effects, and social bonds.
package character

import (
	"github.com/google/uuid"

	"github.com/leitor-rpg/engine/internal/game/currency"
	"github.com/leitor-rpg/engine/internal/game/effect"
	"github.com/leitor-rpg/engine/internal/game/item"
	"github.com/leitor-rpg/engine/internal/game/stats"
)

// Gauge is a bounded resource pool such as HP or MP.
//
// Invariant: 0 <= Current <= Max.
type Gauge struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Damage lowers the gauge, flooring at zero.
func (g *Gauge) Damage(amount int) {
	if amount < 0 {
		amount = 0
	}
	g.Current -= amount
	if g.Current < 0 {
		g.Current = 0
	}
}

// Heal raises the gauge, capping at Max.
func (g *Gauge) Heal(amount int) {
	if amount < 0 {
		amount = 0
	}
	g.Current += amount
	if g.Current > g.Max {
		g.Current = g.Max
	}
}

// Set clamps an absolute value into [0, Max] and stores it.
func (g *Gauge) Set(value int) {
	g.Current = value
	if g.Current < 0 {
		g.Current = 0
	}
	if g.Current > g.Max {
		g.Current = g.Max
	}
}

// Depleted reports whether the gauge has hit zero.
func (g Gauge) Depleted() bool { return g.Current <= 0 }

// XP tracks progress toward the next level.
type XP struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// EvoPoints tracks evolution points earned and still unspent.
type EvoPoints struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Skill is one learned class skill.
type Skill struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Character is a persistent party member.
type Character struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Class       string          `json:"class"`
	Race        string          `json:"race"`
	Origin      string          `json:"origin"`
	Gender      string          `json:"gender"`
	Level       int             `json:"level"`
	Age         int             `json:"age"`
	Stats       stats.Base      `json:"stats"`
	XP          XP              `json:"xp"`
	EvoPoints   EvoPoints       `json:"evoPoints"`
	ClassPoints int             `json:"classPoints"`
	Skills      []Skill         `json:"skills"`
	HP          Gauge           `json:"hp"`
	MP          Gauge           `json:"mp"`
	Wallet      currency.Wallet `json:"wallet"`
	Conditions  []string        `json:"conditions"`
	Effects     *effect.Set     `json:"activeEffects"`
	Equipment   Equipment       `json:"equipment"`
	Inventory   []item.Item     `json:"inventory"`
	Social      []Bond          `json:"social"`
	PartnerID   string          `json:"partnerId,omitempty"`
}

// New creates a level-1 character with empty gear and a fresh effect set.
func New(name string) *Character {
	return &Character{
		ID:      uuid.NewString(),
		Name:    name,
		Level:   1,
		Stats:   stats.Base{Strength: 10, Defense: 10, Vitality: 10, Agility: 10, Intellect: 10},
		XP:      XP{Current: 0, Max: 100},
		HP:      Gauge{Current: 20, Max: 20},
		MP:      Gauge{Current: 10, Max: 10},
		Effects: effect.NewSet(),
	}
}

// Normalize fills nil collections after deserialisation so callers never
// see a nil effect set or nil slices on a loaded character.
func (c *Character) Normalize() {
	if c.Effects == nil {
		c.Effects = effect.NewSet()
	}
	if c.Conditions == nil {
		c.Conditions = []string{}
	}
	if c.Inventory == nil {
		c.Inventory = []item.Item{}
	}
	if c.Social == nil {
		c.Social = []Bond{}
	}
	if c.Skills == nil {
		c.Skills = []Skill{}
	}
}

// Alive reports whether the character can still act.
func (c *Character) Alive() bool { return !c.HP.Depleted() }

// ArmorClass computes the character's current armor class from defense and
// every equipped item.
func (c *Character) ArmorClass() int {
	return stats.ArmorClass(c.Stats, c.Equipment.Items())
}

// InitiativeMod is the agility-based initiative bonus.
func (c *Character) InitiativeMod() int {
	return stats.InitiativeMod(c.Stats)
}

// Derived computes the percentage-based attribute block.
func (c *Character) Derived() stats.Derived {
	return stats.Compute(stats.Input{
		Base:       c.Stats,
		Age:        c.Age,
		Conditions: c.Conditions,
		Effects:    c.Effects,
		HP:         c.HP.Current,
		MaxHP:      c.HP.Max,
	})
}

// WeaponDamageFormula returns the main-hand weapon's damage formula, or
// UnarmedDamage when nothing usable is equipped.
func (c *Character) WeaponDamageFormula() string {
	if w := c.Equipment.Get(item.SlotMainHand); w != nil && w.Damage != "" {
		return w.Damage
	}
	return UnarmedDamage
}

// UnarmedDamage is the damage formula used when no weapon is equipped.
const UnarmedDamage = "1d4"

// TickEffects advances every active effect by one game turn and returns the
// names of effects that expired.
func (c *Character) TickEffects() []string {
	if c.Effects == nil {
		return nil
	}
	return c.Effects.Tick()
}
