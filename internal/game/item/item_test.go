package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferWeapon(t *testing.T) {
	table := DefaultRuleTable()

	it := table.Infer("Espada Longa")
	assert.Equal(t, TypeWeapon, it.Type)
	assert.Equal(t, SlotMainHand, it.Slot)
	assert.Equal(t, "1d6", it.Damage)
	require.NotNil(t, it.Tags)
	assert.Equal(t, TagEquipable, it.Tags.Main)

	bow := table.Infer("Arco Curto")
	assert.Equal(t, "1d8", bow.Damage)
}

func TestInferShield(t *testing.T) {
	it := DefaultRuleTable().Infer("Escudo de Ferro")

	assert.Equal(t, TypeArmor, it.Type)
	assert.Equal(t, SlotOffHand, it.Slot)
	require.NotNil(t, it.StatModifier)
	assert.Equal(t, "ac", it.StatModifier.Stat)
	assert.Equal(t, 2, it.StatModifier.Value)
}

func TestInferArmorPieces(t *testing.T) {
	table := DefaultRuleTable()

	cases := []struct {
		name  string
		slot  Slot
		bonus int
	}{
		{"Capacete de Couro", SlotHead, 1},
		{"Armadura de Placas", SlotBody, 2},
		{"Grevas de Aço", SlotLegs, 1},
		{"Botas de Viagem", SlotFeet, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			it := table.Infer(tc.name)
			assert.Equal(t, TypeArmor, it.Type)
			assert.Equal(t, tc.slot, it.Slot)
			require.NotNil(t, it.StatModifier)
			assert.Equal(t, tc.bonus, it.StatModifier.Value)
		})
	}
}

func TestInferCaseInsensitive(t *testing.T) {
	it := DefaultRuleTable().Infer("ESPADA ENFERRUJADA")
	assert.Equal(t, TypeWeapon, it.Type)
}

func TestInferAccessoryAndBackpack(t *testing.T) {
	table := DefaultRuleTable()

	ring := table.Infer("Anel de Prata")
	assert.Equal(t, TypeGeneric, ring.Type)
	assert.Equal(t, SlotAccessory1, ring.Slot)

	pack := table.Infer("Mochila de Couro")
	assert.Equal(t, SlotBackpack, pack.Slot)
}

func TestInferConsumableAndFallback(t *testing.T) {
	table := DefaultRuleTable()

	potion := table.Infer("Poção de Cura")
	assert.Equal(t, SlotNone, potion.Slot)
	assert.Equal(t, TagConsumable, potion.Tags.Main)
	assert.True(t, potion.Stackable())

	rock := table.Infer("Pedra Bruta")
	assert.Equal(t, TypeGeneric, rock.Type)
	assert.Equal(t, SlotNone, rock.Slot)
	assert.Equal(t, TagMaterial, rock.Tags.Main)
	assert.Nil(t, rock.StatModifier)
}

func TestStackable(t *testing.T) {
	assert.False(t, Item{Type: TypeWeapon}.Stackable())
	assert.False(t, Item{Type: TypeArmor}.Stackable())
	assert.False(t, Item{Type: TypeGeneric, Tags: &Tags{Main: TagEquipable}}.Stackable())
	assert.True(t, Item{Type: TypeGeneric, Tags: &Tags{Main: TagMaterial}}.Stackable())
	assert.True(t, Item{Type: TypeGeneric}.Stackable())
}

func TestACBonus(t *testing.T) {
	assert.Equal(t, 2, Item{StatModifier: &StatModifier{Stat: "ac", Value: 2}}.ACBonus())
	assert.Equal(t, 0, Item{StatModifier: &StatModifier{Stat: "força", Value: 1}}.ACBonus())
	assert.Equal(t, 0, Item{}.ACBonus())
}

func TestLoadRules(t *testing.T) {
	doc := []byte(`
rules:
  - keywords: [cajado]
    type: weapon
    slot: mainHand
    damage: 1d4
    mainTag: Equipável
`)
	table, err := LoadRules(doc)
	require.NoError(t, err)

	staff := table.Infer("Cajado Torto")
	assert.Equal(t, TypeWeapon, staff.Type)
	assert.Equal(t, "1d4", staff.Damage)

	// Names outside the custom table fall back to material.
	other := table.Infer("Espada")
	assert.Equal(t, TagMaterial, other.Tags.Main)
}

func TestLoadRulesRejectsInvalid(t *testing.T) {
	_, err := LoadRules([]byte(`rules: []`))
	assert.Error(t, err)

	_, err = LoadRules([]byte("rules:\n  - keywords: [x]\n    type: nonsense\n    slot: none\n"))
	assert.Error(t, err)

	_, err = LoadRules([]byte("not yaml: ["))
	assert.Error(t, err)
}
