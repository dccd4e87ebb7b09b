package item

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule maps name keywords to the properties an item of that kind carries.
// Rules are evaluated in order; the first keyword match wins.
type Rule struct {
	Keywords []string `yaml:"keywords"`
	Type     Type     `yaml:"type"`
	Slot     Slot     `yaml:"slot"`
	Damage   string   `yaml:"damage,omitempty"`
	ACBonus  int      `yaml:"acBonus,omitempty"`
	MainTag  string   `yaml:"mainTag"`
}

// Validate checks that the rule is internally consistent.
func (r Rule) Validate() error {
	if len(r.Keywords) == 0 {
		return fmt.Errorf("item: rule has no keywords")
	}
	if !r.Type.Valid() {
		return fmt.Errorf("item: rule %q has invalid type %q", r.Keywords[0], r.Type)
	}
	if r.Slot != SlotNone && !r.Slot.IsEquipSlot() {
		return fmt.Errorf("item: rule %q has invalid slot %q", r.Keywords[0], r.Slot)
	}
	return nil
}

// RuleTable resolves item properties from names.
type RuleTable struct {
	rules    []Rule
	fallback Rule
}

// DefaultRules returns the built-in inference table. The ordering matters:
// more specific weapon and armor keywords come before the generic fallthroughs.
func DefaultRules() []Rule {
	return []Rule{
		{
			Keywords: []string{"espada", "machado", "faca", "adaga", "martelo", "lança", "lâmina"},
			Type:     TypeWeapon, Slot: SlotMainHand, Damage: "1d6", MainTag: TagEquipable,
		},
		{
			Keywords: []string{"arco", "besta"},
			Type:     TypeWeapon, Slot: SlotMainHand, Damage: "1d8", MainTag: TagEquipable,
		},
		{
			Keywords: []string{"escudo"},
			Type:     TypeArmor, Slot: SlotOffHand, ACBonus: 2, MainTag: TagEquipable,
		},
		{
			Keywords: []string{"capacete", "elmo", "coroa"},
			Type:     TypeArmor, Slot: SlotHead, ACBonus: 1, MainTag: TagEquipable,
		},
		{
			Keywords: []string{"peitoral", "armadura", "túnica", "manto", "camisa", "veste"},
			Type:     TypeArmor, Slot: SlotBody, ACBonus: 2, MainTag: TagEquipable,
		},
		{
			Keywords: []string{"calça", "grevas"},
			Type:     TypeArmor, Slot: SlotLegs, ACBonus: 1, MainTag: TagEquipable,
		},
		{
			Keywords: []string{"bota", "sapatos"},
			Type:     TypeArmor, Slot: SlotFeet, ACBonus: 0, MainTag: TagEquipable,
		},
		{
			Keywords: []string{"anel", "colar", "amuleto", "brinco"},
			Type:     TypeGeneric, Slot: SlotAccessory1, MainTag: TagEquipable,
		},
		{
			Keywords: []string{"mochila", "bolsa"},
			Type:     TypeGeneric, Slot: SlotBackpack, MainTag: TagSpecial,
		},
		{
			Keywords: []string{"poção", "frasco", "comida", "leite"},
			Type:     TypeGeneric, Slot: SlotNone, MainTag: TagConsumable,
		},
	}
}

// NewRuleTable builds a table from the given rules. Names that match no rule
// resolve to a plain material with no slot.
//
// Precondition: every rule passes Validate.
func NewRuleTable(rules []Rule) (*RuleTable, error) {
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}
	return &RuleTable{
		rules: rules,
		fallback: Rule{
			Type: TypeGeneric, Slot: SlotNone, MainTag: TagMaterial,
		},
	}, nil
}

// DefaultRuleTable returns a table loaded with the built-in rules.
func DefaultRuleTable() *RuleTable {
	t, err := NewRuleTable(DefaultRules())
	if err != nil {
		panic(err)
	}
	return t
}

type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules parses a YAML rule document and builds a table from it.
func LoadRules(data []byte) (*RuleTable, error) {
	var doc ruleFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("item: parse rules: %w", err)
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("item: rule file defines no rules")
	}
	return NewRuleTable(doc.Rules)
}

// Infer fills in type, slot, damage, AC bonus, and main tag for an item
// known only by name. Matching is case-insensitive substring search.
func (t *RuleTable) Infer(name string) Item {
	lower := strings.ToLower(name)
	rule := t.fallback
	for _, r := range t.rules {
		if matchAny(lower, r.Keywords) {
			rule = r
			break
		}
	}
	it := Item{
		Name:     name,
		Type:     rule.Type,
		Slot:     rule.Slot,
		Damage:   rule.Damage,
		Quantity: 1,
		Tags:     &Tags{Main: rule.MainTag},
	}
	if rule.Type == TypeArmor {
		it.StatModifier = &StatModifier{Stat: "ac", Value: rule.ACBonus}
	}
	return it
}

func matchAny(lowerName string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowerName, kw) {
			return true
		}
	}
	return false
}
