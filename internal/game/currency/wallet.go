// Package currency implements the four-tier coin wallet: copper, iron, gold,
// and platinum, each worth 100 of the tier below.
package currency

import (
	"encoding/json"
	"fmt"
)

const (
	// TierRatio is how many coins of a tier convert into one coin of the next.
	TierRatio = 100
	// TierCap is the maximum number of coins a single tier can hold.
	TierCap = 9999
)

// Tier names a wallet denomination.
type Tier string

const (
	Copper   Tier = "copper"
	Iron     Tier = "iron"
	Gold     Tier = "gold"
	Platinum Tier = "platinum"
)

// Valid reports whether t is one of the four known tiers.
func (t Tier) Valid() bool {
	switch t {
	case Copper, Iron, Gold, Platinum:
		return true
	}
	return false
}

// Wallet holds the coin counters for one character.
//
// Invariant: every tier is in [0, TierCap], and no tier below platinum is
// >= TierRatio unless it sits exactly at TierCap after clamping.
type Wallet struct {
	Copper   int `json:"copper"`
	Iron     int `json:"iron"`
	Gold     int `json:"gold"`
	Platinum int `json:"platinum"`
}

// Add returns a new wallet with amount coins added to the named tier, surplus
// rolled upward (100 copper -> 1 iron, and so on, one pass in fixed order),
// and every tier clamped to TierCap. Value above the platinum cap is
// discarded. The receiver is not mutated.
//
// Precondition: tier must be valid; amount must be >= 0.
// Postcondition: the returned wallet satisfies the type invariant.
func (w Wallet) Add(tier Tier, amount int) (Wallet, error) {
	if !tier.Valid() {
		return w, fmt.Errorf("currency: unknown tier %q", tier)
	}
	if amount < 0 {
		return w, fmt.Errorf("currency: amount must be >= 0, got %d", amount)
	}

	out := w
	switch tier {
	case Copper:
		out.Copper += amount
	case Iron:
		out.Iron += amount
	case Gold:
		out.Gold += amount
	case Platinum:
		out.Platinum += amount
	}

	// Single cascade pass, lowest tier first.
	if out.Copper >= TierRatio {
		out.Iron += out.Copper / TierRatio
		out.Copper %= TierRatio
	}
	if out.Iron >= TierRatio {
		out.Gold += out.Iron / TierRatio
		out.Iron %= TierRatio
	}
	if out.Gold >= TierRatio {
		out.Platinum += out.Gold / TierRatio
		out.Gold %= TierRatio
	}

	out.Copper = clampCap(out.Copper)
	out.Iron = clampCap(out.Iron)
	out.Gold = clampCap(out.Gold)
	out.Platinum = clampCap(out.Platinum)
	return out, nil
}

// TotalIron returns the wallet's comparison value in iron-equivalent units:
// 100 copper = 1 iron, 1 gold = 100 iron, 1 platinum = 10000 iron. Used for
// affordability checks and display only, never to mutate state.
func (w Wallet) TotalIron() int {
	return w.Copper/TierRatio + w.Iron + w.Gold*TierRatio + w.Platinum*TierRatio*TierRatio
}

// Spend deducts price (in iron-equivalent units) from the wallet, breaking
// the lowest sufficient higher tier one coin at a time: gold breaks into 100
// iron, platinum into 100 gold. Copper is too small a denomination to make
// change with and is left untouched.
//
// Precondition: price >= 0.
// Postcondition: on success the returned wallet's TotalIron decreased by
// exactly price; on ErrInsufficientFunds the receiver is returned unchanged.
func (w Wallet) Spend(price int) (Wallet, error) {
	if price < 0 {
		return w, fmt.Errorf("currency: price must be >= 0, got %d", price)
	}
	// Copper cannot make change for iron-denominated prices, so affordability
	// is judged on the payable tiers only.
	payable := w.Iron + w.Gold*TierRatio + w.Platinum*TierRatio*TierRatio
	if payable < price {
		return w, ErrInsufficientFunds
	}

	out := w
	remaining := price
	for remaining > 0 {
		if out.Iron > 0 {
			pay := out.Iron
			if pay > remaining {
				pay = remaining
			}
			out.Iron -= pay
			remaining -= pay
			continue
		}
		// Break the next tier up that still has coins.
		if out.Gold > 0 {
			out.Gold--
			out.Iron += TierRatio
			continue
		}
		if out.Platinum > 0 {
			out.Platinum--
			out.Gold += TierRatio
			continue
		}
		// Unreachable: the affordability check bounds the loop.
		return w, ErrInsufficientFunds
	}
	return out, nil
}

// ErrInsufficientFunds is returned by Spend when the wallet cannot cover the price.
var ErrInsufficientFunds = fmt.Errorf("currency: insufficient funds")

// UnmarshalJSON accepts both the tiered object form and the legacy save
// form, a bare number counting iron coins.
func (w *Wallet) UnmarshalJSON(data []byte) error {
	var legacy int
	if err := json.Unmarshal(data, &legacy); err == nil {
		*w = Wallet{Iron: clampCap(legacy)}
		return nil
	}
	type tiered Wallet
	var t tiered
	if err := json.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("currency: decoding wallet: %w", err)
	}
	*w = Wallet(t)
	return nil
}

func clampCap(n int) int {
	if n > TierCap {
		return TierCap
	}
	return n
}
