package character

import (
	"fmt"

	"github.com/leitor-rpg/engine/internal/game/item"
)

// Inventory capacity in item slots, before and after a backpack is worn.
const (
	BaseCapacity     = 8
	BackpackCapacity = 19
)

// Capacity returns the character's current inventory slot limit.
func (c *Character) Capacity() int {
	if !c.Equipment.Empty(item.SlotBackpack) {
		return BackpackCapacity
	}
	return BaseCapacity
}

// AddOutcome describes what AddItem did with an item.
type AddOutcome int

const (
	// AddEquipped means the item went straight into an empty equipment slot.
	AddEquipped AddOutcome = iota
	// AddStacked means the item merged with an existing inventory stack.
	AddStacked
	// AddStored means the item took a new inventory slot.
	AddStored
	// AddDropped means the inventory was full and the item was discarded.
	AddDropped
)

// AddItem places a granted item on the character. Items with an equip-slot
// affinity are worn immediately when that slot is free; otherwise they stack
// with a same-name non-equippable entry (up to the stack cap), take a free
// inventory slot, or are dropped when no room remains.
func (c *Character) AddItem(it item.Item) AddOutcome {
	if it.Quantity < 1 {
		it.Quantity = 1
	}
	if it.Slot.IsEquipSlot() && c.Equipment.Empty(it.Slot) {
		worn := it
		c.Equipment.Set(it.Slot, &worn)
		return AddEquipped
	}
	for i := range c.Inventory {
		existing := &c.Inventory[i]
		if existing.Name == it.Name && existing.Stackable() && existing.Quantity < item.MaxStack {
			existing.Quantity++
			return AddStacked
		}
	}
	if len(c.Inventory) < c.Capacity() {
		c.Inventory = append(c.Inventory, it)
		return AddStored
	}
	return AddDropped
}

// Equip moves the inventory item at index into its equipment slot. An item
// already occupying the slot swaps back into the same inventory position,
// so the slot-exclusive invariant holds without a capacity check.
func (c *Character) Equip(index int) error {
	if index < 0 || index >= len(c.Inventory) {
		return fmt.Errorf("character: equip index %d out of range", index)
	}
	it := c.Inventory[index]
	if !it.Slot.IsEquipSlot() {
		return fmt.Errorf("character: %q has no equipment slot", it.Name)
	}
	worn := it
	displaced := c.Equipment.Set(it.Slot, &worn)
	if displaced != nil {
		c.Inventory[index] = *displaced
		return nil
	}
	c.Inventory = append(c.Inventory[:index], c.Inventory[index+1:]...)
	return nil
}

// Unequip moves the item in slot back to inventory.
func (c *Character) Unequip(slot item.Slot) error {
	it := c.Equipment.Get(slot)
	if it == nil {
		return fmt.Errorf("character: slot %q is empty", slot)
	}
	if len(c.Inventory) >= c.Capacity() {
		return fmt.Errorf("character: inventory full, cannot unequip %q", it.Name)
	}
	c.Inventory = append(c.Inventory, *it)
	c.Equipment.Set(slot, nil)
	return nil
}

// RemoveItem takes one unit from the inventory entry at index, deleting the
// entry when its stack is exhausted. It returns the removed item with
// quantity 1.
func (c *Character) RemoveItem(index int) (item.Item, error) {
	if index < 0 || index >= len(c.Inventory) {
		return item.Item{}, fmt.Errorf("character: remove index %d out of range", index)
	}
	entry := &c.Inventory[index]
	taken := *entry
	taken.Quantity = 1
	if entry.Quantity > 1 {
		entry.Quantity--
		return taken, nil
	}
	c.Inventory = append(c.Inventory[:index], c.Inventory[index+1:]...)
	return taken, nil
}

// ItemCount sums the quantities of every inventory entry.
func (c *Character) ItemCount() int {
	total := 0
	for _, it := range c.Inventory {
		q := it.Quantity
		if q < 1 {
			q = 1
		}
		total += q
	}
	return total
}
