// Package combat runs the turn-based encounter state machine: initiative,
// player and monster attack resolution, and termination handling.
package combat

import (
	"github.com/google/uuid"

	"github.com/leitor-rpg/engine/internal/game/bestiary"
	"github.com/leitor-rpg/engine/internal/game/character"
	"github.com/leitor-rpg/engine/internal/game/stats"
)

// Side distinguishes player and monster combatants.
type Side string

const (
	SidePlayer  Side = "player"
	SideMonster Side = "monster"
)

// Combatant is an ephemeral projection of a character or monster into one
// encounter. It is created at combat start and discarded at combat end;
// only HP flows back to the source character.
type Combatant struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Side       Side            `json:"type"`
	HP         character.Gauge `json:"hp"`
	AC         int             `json:"ac"`
	Initiative int             `json:"initiative"`
	SourceID   string          `json:"sourceId"`
}

// Alive reports whether the combatant can still act or be targeted.
func (c *Combatant) Alive() bool { return !c.HP.Depleted() }

func projectCharacter(ch *character.Character, initiative int) Combatant {
	return Combatant{
		ID:         ch.ID,
		Name:       ch.Name,
		Side:       SidePlayer,
		HP:         ch.HP,
		AC:         ch.ArmorClass(),
		Initiative: initiative,
		SourceID:   ch.ID,
	}
}

func projectMonster(m bestiary.Monster, initiative int) Combatant {
	hp := m.HP
	if hp.Current == 0 {
		hp.Current = hp.Max
	}
	return Combatant{
		ID:         uuid.NewString(),
		Name:       m.Name,
		Side:       SideMonster,
		HP:         hp,
		AC:         m.AC,
		Initiative: initiative,
		SourceID:   m.ID,
	}
}

func monsterInitiativeMod(m bestiary.Monster) int {
	return stats.Modifier(m.Stats.Dexterity)
}
