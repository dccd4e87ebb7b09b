package session

import (
	"fmt"
	"strings"

	"github.com/leitor-rpg/engine/internal/game/character"
	"github.com/leitor-rpg/engine/internal/game/effect"
	"github.com/leitor-rpg/engine/internal/game/world"
)

// VigorDuration is how many turns the milk buff lasts.
const VigorDuration = 20

// ConsumeItem uses one unit of the identified inventory item on the active
// character. Potions heal 1d8+1, milk applies the vigor buff, books and
// maps are read without being spent, anything else is wasted. The outcome
// line is recorded in the transcript and returned.
func (s *Session) ConsumeItem(itemID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := s.activeCharacterLocked()
	if ch == nil {
		return "", fmt.Errorf("session: world has no party")
	}

	index := -1
	for i := range ch.Inventory {
		if ch.Inventory[i].ID == itemID {
			index = i
			break
		}
	}
	if index == -1 {
		return "", fmt.Errorf("session: item %q not in %s's inventory", itemID, ch.Name)
	}

	name := ch.Inventory[index].Name
	lower := strings.ToLower(name)

	var msg string
	keep := false
	switch {
	case strings.Contains(lower, "livro") || strings.Contains(lower, "mapa"):
		keep = true
		msg = fmt.Sprintf("Você lê %s.", name)
	case strings.Contains(lower, "poção") || strings.Contains(lower, "vida"):
		heal := s.roller.Source().Intn(8) + 2
		ch.HP.Heal(heal)
		msg = fmt.Sprintf("Bebeu %s: +%d HP.", name, heal)
	case strings.Contains(lower, "leite"):
		ch.Effects.Apply(effect.NameVigor, "Vigor restaurado e corpo fortalecido.", VigorDuration)
		msg = fmt.Sprintf("Bebeu %s. %s ativo por %d turnos!", name, effect.NameVigor, VigorDuration)
	default:
		msg = fmt.Sprintf("Usou %s, nada aconteceu.", name)
	}

	if !keep {
		if _, err := ch.RemoveItem(index); err != nil {
			return "", err
		}
	}

	s.appendMessageLocked(world.RoleSystem, msg)
	s.world.Touch()
	return msg, nil
}

// TradeItem hands one unit of the active character's identified item to
// another party member. The transfer respects the receiver's inventory
// capacity and is recorded in the transcript.
func (s *Session) TradeItem(itemID string, targetIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	giver := s.activeCharacterLocked()
	if giver == nil {
		return fmt.Errorf("session: world has no party")
	}
	if targetIndex < 0 || targetIndex >= len(s.world.Party) {
		return fmt.Errorf("session: party member %d out of range", targetIndex)
	}
	receiver := s.world.Party[targetIndex]
	if receiver == giver {
		return fmt.Errorf("session: %s cannot trade with themselves", giver.Name)
	}

	index := -1
	for i := range giver.Inventory {
		if giver.Inventory[i].ID == itemID {
			index = i
			break
		}
	}
	if index == -1 {
		return fmt.Errorf("session: item %q not in %s's inventory", itemID, giver.Name)
	}

	given, err := giver.RemoveItem(index)
	if err != nil {
		return err
	}
	if receiver.AddItem(given) == character.AddDropped {
		// Put the unit back; the receiver had no room.
		giver.AddItem(given)
		return fmt.Errorf("session: %s's inventory is full", receiver.Name)
	}

	s.appendMessageLocked(world.RoleSystem,
		fmt.Sprintf("%s deu %s para %s.", giver.Name, given.Name, receiver.Name))
	s.world.Touch()
	return nil
}
