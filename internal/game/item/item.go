// Package item defines game items, equipment slots, and the keyword rule
// table that infers item properties from freeform names.
package item

// Type classifies an item's broad category.
type Type string

const (
	TypeWeapon  Type = "weapon"
	TypeArmor   Type = "armor"
	TypeGeneric Type = "item"
)

// Valid reports whether t is a known item type.
func (t Type) Valid() bool {
	return t == TypeWeapon || t == TypeArmor || t == TypeGeneric
}

// Slot identifies an equipment slot, or SlotNone for carried-only items.
type Slot string

const (
	SlotHead       Slot = "head"
	SlotBody       Slot = "body"
	SlotLegs       Slot = "legs"
	SlotFeet       Slot = "feet"
	SlotMainHand   Slot = "mainHand"
	SlotOffHand    Slot = "offHand"
	SlotAccessory1 Slot = "accessory1"
	SlotAccessory2 Slot = "accessory2"
	SlotBackpack   Slot = "backpack"
	SlotNone       Slot = "none"
)

// EquipSlots lists the nine wearable slots in display order.
var EquipSlots = []Slot{
	SlotHead, SlotBody, SlotLegs, SlotFeet,
	SlotMainHand, SlotOffHand,
	SlotAccessory1, SlotAccessory2, SlotBackpack,
}

// IsEquipSlot reports whether s is one of the nine wearable slots.
func (s Slot) IsEquipSlot() bool {
	for _, es := range EquipSlots {
		if s == es {
			return true
		}
	}
	return false
}

// Tag values for Tags.Main.
const (
	TagEquipable  = "Equipável"
	TagConsumable = "Consumível"
	TagMaterial   = "Material"
	TagSpecial    = "Especial"
)

// MaxStack caps the quantity of a stackable (non-equippable) item.
const MaxStack = 25

// StatModifier is a flat bonus an equipped item grants to one stat.
// Stat "ac" feeds armor class; the five base-stat names feed display stats.
type StatModifier struct {
	Stat  string `json:"stat" yaml:"stat"`
	Value int    `json:"value" yaml:"value"`
}

// Tags carries the item's coarse classification labels.
type Tags struct {
	Main      string `json:"main" yaml:"main"`
	Secondary string `json:"secondary" yaml:"secondary"`
}

// Item is a single inventory or equipment entry.
//
// Invariant: equippable items (weapon/armor type, or tagged Equipável) never
// stack; Quantity is meaningful only for stackable items.
type Item struct {
	ID           string        `json:"id" yaml:"id"`
	Name         string        `json:"name" yaml:"name"`
	Type         Type          `json:"type" yaml:"type"`
	Slot         Slot          `json:"slot,omitempty" yaml:"slot,omitempty"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	Price        int           `json:"price,omitempty" yaml:"price,omitempty"`
	Quantity     int           `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Damage       string        `json:"damage,omitempty" yaml:"damage,omitempty"`
	StatModifier *StatModifier `json:"statModifier,omitempty" yaml:"statModifier,omitempty"`
	Tags         *Tags         `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Stackable reports whether the item may share a stack with same-name items.
//
// Postcondition: returns false for every weapon, armor, and Equipável item.
func (i Item) Stackable() bool {
	if i.Type == TypeWeapon || i.Type == TypeArmor {
		return false
	}
	if i.Tags != nil && i.Tags.Main == TagEquipable {
		return false
	}
	return true
}

// ACBonus returns the armor-class contribution of this item, 0 when none.
func (i Item) ACBonus() int {
	if i.StatModifier != nil && i.StatModifier.Stat == "ac" {
		return i.StatModifier.Value
	}
	return 0
}
