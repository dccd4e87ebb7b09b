package character

import "github.com/leitor-rpg/engine/internal/game/item"

// Equipment holds the nine wearable slots. A nil entry means the slot is
// empty. The zero value is an empty set of slots.
type Equipment struct {
	Head       *item.Item `json:"head"`
	Body       *item.Item `json:"body"`
	Legs       *item.Item `json:"legs"`
	Feet       *item.Item `json:"feet"`
	MainHand   *item.Item `json:"mainHand"`
	OffHand    *item.Item `json:"offHand"`
	Accessory1 *item.Item `json:"accessory1"`
	Accessory2 *item.Item `json:"accessory2"`
	Backpack   *item.Item `json:"backpack"`
}

func (e *Equipment) slotRef(slot item.Slot) **item.Item {
	switch slot {
	case item.SlotHead:
		return &e.Head
	case item.SlotBody:
		return &e.Body
	case item.SlotLegs:
		return &e.Legs
	case item.SlotFeet:
		return &e.Feet
	case item.SlotMainHand:
		return &e.MainHand
	case item.SlotOffHand:
		return &e.OffHand
	case item.SlotAccessory1:
		return &e.Accessory1
	case item.SlotAccessory2:
		return &e.Accessory2
	case item.SlotBackpack:
		return &e.Backpack
	default:
		return nil
	}
}

// Get returns the item in the slot, or nil when the slot is empty or the
// slot name is not a wearable slot.
func (e *Equipment) Get(slot item.Slot) *item.Item {
	ref := e.slotRef(slot)
	if ref == nil {
		return nil
	}
	return *ref
}

// Set places an item in the slot, returning the item it displaced.
// A nil it empties the slot.
func (e *Equipment) Set(slot item.Slot, it *item.Item) (displaced *item.Item) {
	ref := e.slotRef(slot)
	if ref == nil {
		return nil
	}
	displaced = *ref
	*ref = it
	return displaced
}

// Empty reports whether the slot holds nothing.
func (e *Equipment) Empty(slot item.Slot) bool {
	return e.Get(slot) == nil
}

// Items returns every equipped item in slot order.
func (e *Equipment) Items() []item.Item {
	var out []item.Item
	for _, slot := range item.EquipSlots {
		if it := e.Get(slot); it != nil {
			out = append(out, *it)
		}
	}
	return out
}
