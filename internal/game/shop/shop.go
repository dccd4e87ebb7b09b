// Package shop routes shop-trigger labels to storefronts and handles
// purchases against the four-tier wallet.
package shop

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/leitor-rpg/engine/internal/game/character"
	"github.com/leitor-rpg/engine/internal/game/item"
)

// Type identifies a storefront.
type Type string

const (
	TypeGeneral    Type = "general"
	TypeBlacksmith Type = "blacksmith"
	TypeMagic      Type = "magic"
)

// Route maps a free-text shop label to a storefront. Substring keywords
// pick the blacksmith and magic stores; everything else is the general
// store.
func Route(label string) Type {
	lower := strings.ToLower(label)
	if strings.Contains(lower, "ferre") || strings.Contains(lower, "arm") {
		return TypeBlacksmith
	}
	if strings.Contains(lower, "mag") {
		return TypeMagic
	}
	return TypeGeneral
}

// Catalog holds the stock of every storefront. Prices are iron-equivalent.
type Catalog struct {
	stores map[Type][]item.Item
}

type catalogFile struct {
	General    []item.Item `yaml:"general"`
	Blacksmith []item.Item `yaml:"blacksmith"`
	Magic      []item.Item `yaml:"magic"`
}

// Load parses a YAML catalog document.
func Load(data []byte) (*Catalog, error) {
	var doc catalogFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("shop: parse catalog: %w", err)
	}
	return &Catalog{stores: map[Type][]item.Item{
		TypeGeneral:    doc.General,
		TypeBlacksmith: doc.Blacksmith,
		TypeMagic:      doc.Magic,
	}}, nil
}

// DefaultCatalog returns the built-in stock.
func DefaultCatalog() *Catalog {
	ac := func(v int) *item.StatModifier { return &item.StatModifier{Stat: "ac", Value: v} }
	consumable := &item.Tags{Main: item.TagConsumable}
	return &Catalog{stores: map[Type][]item.Item{
		TypeGeneral: {
			{ID: "gen1", Name: "Poção de Vida", Type: item.TypeGeneric, Slot: item.SlotNone, Description: "Cura 1d8+2 HP.", Price: 50, Quantity: 1, Tags: consumable},
			{ID: "gen2", Name: "Tocha", Type: item.TypeGeneric, Slot: item.SlotNone, Description: "Ilumina o caminho.", Price: 5, Quantity: 1},
			{ID: "gen3", Name: "Corda (15m)", Type: item.TypeGeneric, Slot: item.SlotNone, Description: "Utilidade geral.", Price: 10, Quantity: 1},
			{ID: "gen4", Name: "Rações", Type: item.TypeGeneric, Slot: item.SlotNone, Description: "Comida para 1 dia.", Price: 2, Quantity: 1, Tags: consumable},
			{ID: "gen5", Name: "Frasco Vazio", Type: item.TypeGeneric, Slot: item.SlotNone, Description: "Para poções.", Price: 5, Quantity: 1, Tags: &item.Tags{Main: item.TagMaterial}},
			{ID: "gen6", Name: "Mochila de Couro", Type: item.TypeGeneric, Slot: item.SlotBackpack, Description: "Aumenta o inventário.", Price: 100, Quantity: 1, Tags: &item.Tags{Main: item.TagSpecial}},
		},
		TypeBlacksmith: {
			{ID: "bs1", Name: "Espada Longa", Type: item.TypeWeapon, Slot: item.SlotMainHand, Description: "Lâmina de aço.", Damage: "1d8", Price: 150, Quantity: 1},
			{ID: "bs2", Name: "Machado", Type: item.TypeWeapon, Slot: item.SlotMainHand, Description: "Pesado.", Damage: "1d10", Price: 170, Quantity: 1},
			{ID: "bs3", Name: "Escudo", Type: item.TypeArmor, Slot: item.SlotOffHand, Description: "+2 CA.", StatModifier: ac(2), Price: 100, Quantity: 1},
			{ID: "bs4", Name: "Cota de Malha", Type: item.TypeArmor, Slot: item.SlotBody, Description: "+4 CA.", StatModifier: ac(4), Price: 400, Quantity: 1},
			{ID: "bs5", Name: "Capacete de Ferro", Type: item.TypeArmor, Slot: item.SlotHead, Description: "+1 CA.", StatModifier: ac(1), Price: 80, Quantity: 1},
			{ID: "bs6", Name: "Grevas de Aço", Type: item.TypeArmor, Slot: item.SlotLegs, Description: "+1 CA.", StatModifier: ac(1), Price: 120, Quantity: 1},
		},
		TypeMagic: {
			{ID: "mag1", Name: "Poção de Mana", Type: item.TypeGeneric, Slot: item.SlotNone, Description: "Restaura energia.", Price: 100, Quantity: 1, Tags: consumable},
			{ID: "mag2", Name: "Pergaminho", Type: item.TypeGeneric, Slot: item.SlotNone, Description: "Magia básica.", Price: 50, Quantity: 1, Tags: consumable},
			{ID: "mag3", Name: "Cajado", Type: item.TypeWeapon, Slot: item.SlotMainHand, Description: "Foco arcano.", Damage: "1d6", Price: 200, Quantity: 1},
		},
	}}
}

// Stock lists the storefront's items.
func (c *Catalog) Stock(t Type) []item.Item {
	out := make([]item.Item, len(c.stores[t]))
	copy(out, c.stores[t])
	return out
}

// Buy sells the identified stock item to the character: the wallet pays
// the iron-equivalent price, then the buyer receives a fresh copy of the
// item. A full inventory rejects the purchase before any money moves.
func (c *Catalog) Buy(ch *character.Character, shopType Type, itemID string) (item.Item, error) {
	var stock *item.Item
	for i := range c.stores[shopType] {
		if c.stores[shopType][i].ID == itemID {
			stock = &c.stores[shopType][i]
			break
		}
	}
	if stock == nil {
		return item.Item{}, fmt.Errorf("shop: item %q not in %s stock", itemID, shopType)
	}
	if !c.hasRoom(ch, *stock) {
		return item.Item{}, fmt.Errorf("shop: inventory full, cannot buy %q", stock.Name)
	}

	wallet, err := ch.Wallet.Spend(stock.Price)
	if err != nil {
		return item.Item{}, fmt.Errorf("shop: buy %q: %w", stock.Name, err)
	}
	ch.Wallet = wallet

	bought := *stock
	bought.ID = uuid.NewString()
	bought.Quantity = 1
	ch.AddItem(bought)
	return bought, nil
}

// hasRoom reports whether AddItem would keep the item: an empty matching
// equip slot, a stackable entry with room, or a free inventory slot.
func (c *Catalog) hasRoom(ch *character.Character, it item.Item) bool {
	if it.Slot.IsEquipSlot() && ch.Equipment.Empty(it.Slot) {
		return true
	}
	for _, existing := range ch.Inventory {
		if existing.Name == it.Name && existing.Stackable() && existing.Quantity < item.MaxStack {
			return true
		}
	}
	return len(ch.Inventory) < ch.Capacity()
}
