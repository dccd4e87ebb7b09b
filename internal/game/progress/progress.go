// Package progress applies experience, level-ups, combat rewards, and
// death penalties to characters.
package progress

import (
	"math"

	"go.uber.org/zap"

	"github.com/leitor-rpg/engine/internal/game/character"
	"github.com/leitor-rpg/engine/internal/game/currency"
	"github.com/leitor-rpg/engine/internal/game/dice"
	"github.com/leitor-rpg/engine/internal/game/item"
)

// Progression tuning.
const (
	// XPGrowth scales the XP requirement on each level-up.
	XPGrowth = 1.5
	// ClassPointEvery grants a class point on levels that are multiples
	// of this value.
	ClassPointEvery = 25

	// VictoryXPPerLevel and VictoryIronPerLevel size combat rewards by
	// monster level.
	VictoryXPPerLevel   = 10
	VictoryIronPerLevel = 5

	// DeathInventoryThreshold is the total item count above which a death
	// costs part of the inventory; DeathDiscardFraction is the share lost.
	DeathInventoryThreshold = 16
	DeathDiscardFraction    = 0.3
)

// LevelUp describes one level gained by GrantXP.
type LevelUp struct {
	NewLevel    int
	EvoPoints   int
	ClassPoints int
}

// GrantXP adds experience and resolves every level-up it pays for: each
// level subtracts the previous requirement, raises the requirement by
// XPGrowth (floored), and grants one evolution point, plus one class point
// on each multiple of ClassPointEvery.
func GrantXP(c *character.Character, amount int, logger *zap.Logger) []LevelUp {
	if amount < 0 {
		amount = 0
	}
	c.XP.Current += amount

	var ups []LevelUp
	for c.XP.Max > 0 && c.XP.Current >= c.XP.Max {
		c.XP.Current -= c.XP.Max
		c.Level++
		c.XP.Max = int(math.Floor(float64(c.XP.Max) * XPGrowth))
		c.EvoPoints.Current++
		c.EvoPoints.Total++

		up := LevelUp{NewLevel: c.Level, EvoPoints: 1}
		if c.Level%ClassPointEvery == 0 {
			c.ClassPoints++
			up.ClassPoints = 1
		}
		ups = append(ups, up)

		logger.Info("level up",
			zap.String("character", c.Name),
			zap.Int("level", c.Level),
			zap.Int("next_xp", c.XP.Max),
		)
	}
	return ups
}

// VictoryReward grants the post-combat XP and iron for a defeated monster
// of the given level to every party member still standing.
func VictoryReward(party []*character.Character, monsterLevel int, logger *zap.Logger) {
	xp := monsterLevel * VictoryXPPerLevel
	iron := monsterLevel * VictoryIronPerLevel
	for _, ch := range party {
		if !ch.Alive() {
			continue
		}
		wallet, err := ch.Wallet.Add(currency.Iron, iron)
		if err == nil {
			ch.Wallet = wallet
		}
		GrantXP(ch, xp, logger)
	}
	logger.Info("victory reward",
		zap.Int("monster_level", monsterLevel),
		zap.Int("xp", xp),
		zap.Int("iron", iron),
	)
}

// ApplyDeathPenalty halves (floored) the fallen character's current XP and
// iron. When the inventory holds more than DeathInventoryThreshold items
// counting stacks, it is shuffled and a DeathDiscardFraction slice of the
// total count is dropped from the front.
func ApplyDeathPenalty(c *character.Character, src dice.Source, logger *zap.Logger) {
	c.XP.Current /= 2
	c.Wallet.Iron /= 2

	total := c.ItemCount()
	if total > DeathInventoryThreshold {
		lost := int(math.Floor(float64(total) * DeathDiscardFraction))
		shuffle(c.Inventory, src)
		if lost > len(c.Inventory) {
			lost = len(c.Inventory)
		}
		c.Inventory = c.Inventory[lost:]
		logger.Info("death penalty inventory loss",
			zap.String("character", c.Name),
			zap.Int("slots_lost", lost),
		)
	}

	logger.Info("death penalty",
		zap.String("character", c.Name),
		zap.Int("xp", c.XP.Current),
		zap.Int("iron", c.Wallet.Iron),
	)
}

// shuffle is a Fisher-Yates pass over the inventory slice.
func shuffle(items []item.Item, src dice.Source) {
	for i := len(items) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
