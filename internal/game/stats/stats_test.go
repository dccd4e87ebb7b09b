package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leitor-rpg/engine/internal/game/effect"
	"github.com/leitor-rpg/engine/internal/game/item"
)

func TestModifier(t *testing.T) {
	assert.Equal(t, 0, Modifier(10))
	assert.Equal(t, 0, Modifier(11))
	assert.Equal(t, 1, Modifier(12))
	assert.Equal(t, -1, Modifier(9))
	assert.Equal(t, -2, Modifier(7))
	assert.Equal(t, 5, Modifier(20))
}

func TestArmorClass(t *testing.T) {
	base := Base{Defense: 14}
	shield := item.Item{
		Name: "Escudo de Ferro", Type: item.TypeArmor, Slot: item.SlotOffHand,
		StatModifier: &item.StatModifier{Stat: "ac", Value: 2},
	}
	helm := item.Item{
		Name: "Elmo", Type: item.TypeArmor, Slot: item.SlotHead,
		StatModifier: &item.StatModifier{Stat: "ac", Value: 1},
	}
	sword := item.Item{Name: "Espada", Type: item.TypeWeapon, Slot: item.SlotMainHand}

	assert.Equal(t, 12, ArmorClass(base, nil))
	assert.Equal(t, 15, ArmorClass(base, []item.Item{shield, helm, sword}))
}

func TestInitiativeMod(t *testing.T) {
	assert.Equal(t, 3, InitiativeMod(Base{Agility: 16}))
	assert.Equal(t, -1, InitiativeMod(Base{Agility: 8}))
}

func TestIsPregnant(t *testing.T) {
	assert.True(t, IsPregnant([]string{"Grávida"}))
	assert.True(t, IsPregnant([]string{"Envenenado", "Grávida (Gêmeos)"}))
	assert.True(t, IsPregnant([]string{"GRÁVIDA"}))
	assert.False(t, IsPregnant([]string{"Feliz"}))
	assert.False(t, IsPregnant(nil))
}

func TestComputeBaseline(t *testing.T) {
	d := Compute(Input{
		Base:  Base{Strength: 10, Defense: 10, Vitality: 10, Agility: 10, Intellect: 10},
		Age:   25,
		HP:    10,
		MaxHP: 20,
	})
	assert.Equal(t, 50, d.VitalityPct)
	assert.Equal(t, 100, d.HPRecovery)
	assert.Equal(t, 100, d.MPRecovery)
	assert.Equal(t, 100, d.Speed)
	assert.Equal(t, 80, d.Fertility) // fertile age band adds 30
	assert.Equal(t, 0, d.DamageBonusPct)
}

func TestComputeVigor(t *testing.T) {
	set := effect.NewSet()
	set.Apply(effect.NameVigor, "", 5)

	d := Compute(Input{
		Base:    Base{Vitality: 12, Intellect: 10, Agility: 10},
		Age:     25,
		Effects: set,
		HP:      20, MaxHP: 20,
	})
	assert.Equal(t, 165, d.HPRecovery) // floor(110 * 1.5)
	assert.Equal(t, 150, d.MPRecovery)
	assert.Equal(t, 100, d.Fertility) // floor(80 * 1.5) capped at 100
}

func TestComputeHappyScalesWithIntensity(t *testing.T) {
	set := effect.NewSet()
	set.ApplyWithIntensity(effect.NameHappy, "", 3, 4) // happyMult = 1.2

	d := Compute(Input{
		Base:    Base{Vitality: 10, Intellect: 10, Agility: 10},
		Age:     25,
		Effects: set,
		HP:      20, MaxHP: 20,
	})
	assert.Equal(t, 156, d.HPRecovery)    // floor(100 * 1.3 * 1.2)
	assert.Equal(t, 138, d.Speed)         // floor(100 * 1.15 * 1.2)
	assert.Equal(t, 180, d.Fertility)     // 80 + flat 100
	assert.Equal(t, 24, d.DamageBonusPct) // floor(20 * 1.2)
}

func TestComputePregnancy(t *testing.T) {
	set := effect.NewSet()
	set.Apply(effect.NameVigor, "", 5)
	set.Apply(effect.NameWellbeing, "", 5)
	set.Apply(effect.NameHappy, "", 5)

	d := Compute(Input{
		Base:       Base{Vitality: 10, Intellect: 10, Agility: 10},
		Age:        25,
		Conditions: []string{"Grávida"},
		Effects:    set,
		HP:         20, MaxHP: 20,
	})
	// Pregnancy zeroes fertility regardless of buffs and slows movement.
	assert.Equal(t, 0, d.Fertility)
	// speed: (100 - 30) then happy at intensity 1: floor(70 * 1.15 * 1.05)
	assert.Equal(t, 84, d.Speed)
	// hpRec: 100 *1.5 -> 150, *1.4 -> 210, *1.3*1.05 -> floor(286.65) = 286
	assert.Equal(t, 286, d.HPRecovery)
}

func TestComputeOrderDependence(t *testing.T) {
	// Vigor before wellbeing: floor(floor(105*1.5)*1.4) = floor(157*1.4) = 219.
	set := effect.NewSet()
	set.Apply(effect.NameVigor, "", 5)
	set.Apply(effect.NameWellbeing, "", 5)

	d := Compute(Input{
		Base:    Base{Vitality: 11, Intellect: 10, Agility: 10},
		Age:     25,
		Effects: set,
		HP:      20, MaxHP: 20,
	})
	assert.Equal(t, 219, d.HPRecovery)
}

func TestComputeVitalityPctClamped(t *testing.T) {
	d := Compute(Input{Base: Base{}, HP: 30, MaxHP: 20})
	assert.Equal(t, 100, d.VitalityPct)

	zero := Compute(Input{Base: Base{}, HP: 5, MaxHP: 0})
	assert.Equal(t, 0, zero.VitalityPct)
}
