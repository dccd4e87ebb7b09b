// Package stats computes armor class, initiative, and the percentage-based
// derived attributes from base scores, equipped gear, and active effects.
// Every function here is pure.
package stats

import (
	"math"
	"strings"

	"github.com/leitor-rpg/engine/internal/game/effect"
	"github.com/leitor-rpg/engine/internal/game/item"
)

// Base holds the five core attribute scores.
type Base struct {
	Strength  int `json:"for" yaml:"for"`
	Defense   int `json:"def" yaml:"def"`
	Vitality  int `json:"vit" yaml:"vit"`
	Agility   int `json:"agi" yaml:"agi"`
	Intellect int `json:"int" yaml:"int"`
}

// Modifier converts an attribute score into its bonus, 10 being neutral.
// Rounds toward negative infinity so a score of 7 yields -2, not -1.
func Modifier(score int) int {
	return int(math.Floor(float64(score-10) / 2))
}

// ArmorClass is 10 plus the defense modifier plus every equipped item's
// armor-class bonus.
func ArmorClass(base Base, equipped []item.Item) int {
	ac := 10 + Modifier(base.Defense)
	for _, it := range equipped {
		ac += it.ACBonus()
	}
	return ac
}

// InitiativeMod is the agility modifier applied to initiative rolls.
func InitiativeMod(base Base) int {
	return Modifier(base.Agility)
}

// PregnancyCondition is the substring that marks a pregnancy condition.
// Condition strings vary ("Grávida", "Grávida (Gêmeos)"), so detection is
// a case-insensitive substring match.
const PregnancyCondition = "grávida"

// IsPregnant reports whether any condition string names a pregnancy.
func IsPregnant(conditions []string) bool {
	for _, c := range conditions {
		if strings.Contains(strings.ToLower(c), PregnancyCondition) {
			return true
		}
	}
	return false
}

// HappyStep is the per-stack scaling of the happiness effect: each stack
// of intensity adds 5% to the effect's own bonuses.
const HappyStep = 0.05

// HappyMultiplier returns 1 + HappyStep per intensity stack.
func HappyMultiplier(intensity int) float64 {
	return 1 + float64(intensity)*HappyStep
}

// Input carries everything the derived-stat pipeline reads.
type Input struct {
	Base       Base
	Age        int
	Conditions []string
	Effects    *effect.Set
	HP         int
	MaxHP      int
}

// Derived is the computed attribute block. Recovery and speed are
// percentages with a 100 baseline; fertility has a 50 baseline.
type Derived struct {
	VitalityPct    int `json:"vitalityPct"`
	HPRecovery     int `json:"hpRecovery"`
	MPRecovery     int `json:"mpRecovery"`
	Speed          int `json:"speed"`
	Fertility      int `json:"fertility"`
	DamageBonusPct int `json:"damageBonusPct"`
}

// Compute runs the derived-stat pipeline.
//
// The effect bonuses apply in a fixed order: vigor first, then wellbeing,
// then happiness. Each step floors after multiplying, so reordering would
// change results once intensity scaling is involved.
func Compute(in Input) Derived {
	pregnant := IsPregnant(in.Conditions)

	var vigor, wellbeing, happy bool
	var happyIntensity int
	if in.Effects != nil {
		vigor = in.Effects.Has(effect.NameVigor)
		wellbeing = in.Effects.Has(effect.NameWellbeing)
		happy = in.Effects.Has(effect.NameHappy)
		happyIntensity = in.Effects.Intensity(effect.NameHappy)
	}
	happyMult := HappyMultiplier(happyIntensity)

	var vitalityPct int
	if in.MaxHP > 0 {
		vitalityPct = int(math.Floor(float64(in.HP) / float64(in.MaxHP) * 100))
		if vitalityPct > 100 {
			vitalityPct = 100
		}
	}

	hpRec := 100 + (in.Base.Vitality-10)*5
	mpRec := 100 + (in.Base.Intellect-10)*5
	if vigor {
		hpRec = floorMul(hpRec, 1.5)
		mpRec = floorMul(mpRec, 1.5)
	}
	if wellbeing {
		hpRec = floorMul(hpRec, 1.4)
	}
	if happy {
		hpRec = floorMul(hpRec, 1.3*happyMult)
	}

	speed := 100 + (in.Base.Agility-10)*2
	if pregnant {
		speed -= 30
	}
	if happy {
		speed = floorMul(speed, 1.15*happyMult)
	}

	fertility := 50
	if in.Age >= 13 && in.Age <= 45 {
		fertility += 30
	}
	if pregnant {
		fertility = 0
	}
	if vigor && !pregnant {
		fertility = floorMul(fertility, 1.5)
		if fertility > 100 {
			fertility = 100
		}
	}
	if happy && !pregnant {
		fertility += 100
	}

	var dmgBonus int
	if happy {
		dmgBonus = int(math.Floor(20 * happyMult))
	}

	return Derived{
		VitalityPct:    vitalityPct,
		HPRecovery:     hpRec,
		MPRecovery:     mpRec,
		Speed:          speed,
		Fertility:      fertility,
		DamageBonusPct: dmgBonus,
	}
}

func floorMul(v int, mult float64) int {
	return int(math.Floor(float64(v) * mult))
}
