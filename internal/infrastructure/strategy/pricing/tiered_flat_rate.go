// Package pricing holds the rate calculators used for shipping and
// promotion charges.
package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared/strategy"
)

// Tier pairs a spend threshold with the flat amount charged once the
// subject reaches it
type Tier struct {
	Threshold decimal.Decimal
	Amount    decimal.Decimal
}

// TieredFlatRate charges a base flat amount, stepping up to a tier amount
// once the subject's amount reaches that tier's threshold. Tiers are
// cumulative bands: the applicable tier is the one with the greatest
// threshold not exceeding the subject amount.
type TieredFlatRate struct {
	strategy.BaseStrategy
	base  decimal.Decimal
	tiers []Tier
}

// NewTieredFlatRate creates the calculator. Tiers may arrive in any order;
// they are sorted by threshold ascending.
func NewTieredFlatRate(base decimal.Decimal, tiers []Tier) *TieredFlatRate {
	sorted := make([]Tier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Threshold.LessThan(sorted[j].Threshold)
	})

	return &TieredFlatRate{
		BaseStrategy: strategy.NewBaseStrategy(
			"tiered_flat_rate",
			strategy.StrategyTypeShipping,
			"Flat rate stepping up at configured spend thresholds",
		),
		base:  base,
		tiers: sorted,
	}
}

// Valid reports whether every tier threshold is strictly positive
func (c *TieredFlatRate) Valid() bool {
	for _, tier := range c.tiers {
		if !tier.Threshold.IsPositive() {
			return false
		}
	}
	return true
}

// Compute returns the flat amount for the subject's band
func (c *TieredFlatRate) Compute(subject strategy.Computable) decimal.Decimal {
	amount := subject.ComputableAmount()

	charge := c.base
	for _, tier := range c.tiers {
		if amount.LessThan(tier.Threshold) {
			break
		}
		charge = tier.Amount
	}
	return charge
}
