package tags

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leitor-rpg/engine/internal/game/character"
	"github.com/leitor-rpg/engine/internal/game/currency"
	"github.com/leitor-rpg/engine/internal/game/item"
	"github.com/leitor-rpg/engine/internal/game/progress"
	"github.com/leitor-rpg/engine/internal/game/quest"
)

// GrantedItemPrice is the shop value assigned to narration-granted items.
const GrantedItemPrice = 50

// Applier mutates party and quest state from parsed tags. Combat and shop
// triggers are not executed here; they come back in Events so the session
// can schedule them.
type Applier struct {
	Party       []*character.Character
	ActiveIndex int
	Quests      *quest.Log
	Rules       *item.RuleTable
	Logger      *zap.Logger
}

// Events is what a tag pass asks the session layer to do next.
type Events struct {
	// Messages are system lines describing what the tags did.
	Messages []string
	// CombatMonster is the monster name to fight after the trigger delay,
	// empty when no combat tag appeared.
	CombatMonster string
	// ShopType is the storefront label to open, empty when none.
	ShopType string
}

// Apply processes every tag in order. A tag that cannot be applied is
// skipped; Apply never fails.
func (a *Applier) Apply(parsed []Tag) Events {
	var ev Events
	for _, t := range parsed {
		switch t.Kind {
		case KindItem:
			a.applyItem(t, &ev)
		case KindNPC:
			a.applyNPC(t)
		case KindQuest:
			a.applyQuest(t)
		case KindReward:
			a.applyReward(t, &ev)
		case KindCombat:
			if ev.CombatMonster == "" {
				ev.CombatMonster = t.Field(0)
			}
		case KindShop:
			if ev.ShopType == "" {
				ev.ShopType = t.Field(0)
			}
		}
	}
	return ev
}

// applyItem builds an item from the tag, inferring properties from the
// name and honoring explicit type and slot overrides, then hands it to the
// active character.
func (a *Applier) applyItem(t Tag, ev *Events) {
	ch := a.activeCharacter()
	if ch == nil {
		return
	}
	name := t.Field(0)
	it := a.Rules.Infer(name)
	it.ID = uuid.NewString()
	it.Description = "Item obtido."
	it.Price = GrantedItemPrice

	if rawType := strings.ToLower(t.Field(1)); rawType != "" {
		if typ := item.Type(rawType); typ.Valid() {
			it.Type = typ
		} else {
			it.Type = item.TypeGeneric
		}
	}
	if rawSlot := t.Field(2); rawSlot != "" {
		it.Slot = item.Slot(rawSlot)
	}

	outcome := ch.AddItem(it)
	switch outcome {
	case character.AddEquipped:
		ev.Messages = append(ev.Messages, fmt.Sprintf("%s equipou automaticamente: %s.", ch.Name, it.Name))
	case character.AddDropped:
		a.Logger.Warn("item dropped, inventory full",
			zap.String("character", ch.Name),
			zap.String("item", it.Name),
		)
	}
	a.Logger.Debug("item granted",
		zap.String("item", it.Name),
		zap.String("type", string(it.Type)),
		zap.String("slot", string(it.Slot)),
		zap.Int("outcome", int(outcome)),
	)
}

// applyNPC registers the sighting with every party member.
func (a *Applier) applyNPC(t Tag) {
	name := t.Field(0)
	gender := "Masculino"
	if strings.Contains(strings.ToLower(t.Field(1)), "fem") {
		gender = "Feminino"
	}
	occupation := t.Field(2)
	if occupation == "" {
		occupation = character.UnknownOccupation
	}
	personality := t.Field(3)
	if personality == "" {
		personality = character.NeutralPersonality
	}
	for _, member := range a.Party {
		member.MeetNPC(name, gender, occupation, personality)
	}
}

func (a *Applier) applyQuest(t Tag) {
	if a.Quests.Add(t.Field(0), t.Field(1), t.Field(2)) {
		a.Logger.Info("quest added", zap.String("title", t.Field(0)))
	}
}

// applyReward grants XP and iron to every living party member.
func (a *Applier) applyReward(t Tag, ev *Events) {
	xp, err := strconv.Atoi(t.Field(0))
	if err != nil {
		return
	}
	iron, err := strconv.Atoi(t.Field(1))
	if err != nil {
		return
	}
	for _, member := range a.Party {
		if !member.Alive() {
			continue
		}
		if wallet, err := member.Wallet.Add(currency.Iron, iron); err == nil {
			member.Wallet = wallet
		}
		for _, up := range progress.GrantXP(member, xp, a.Logger) {
			ev.Messages = append(ev.Messages, fmt.Sprintf("%s subiu para o Nível %d!", member.Name, up.NewLevel))
		}
	}
}

func (a *Applier) activeCharacter() *character.Character {
	if a.ActiveIndex < 0 || a.ActiveIndex >= len(a.Party) {
		return nil
	}
	return a.Party[a.ActiveIndex]
}
