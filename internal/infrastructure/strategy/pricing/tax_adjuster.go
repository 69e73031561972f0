package pricing

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/strategy"
)

// FlatRateTax applies a single tax rate per scope. Line item tax and
// shipment tax are recorded separately on the order so recalculating one
// scope does not disturb the other.
type FlatRateTax struct {
	strategy.BaseStrategy
	rate decimal.Decimal
}

// NewFlatRateTax creates the adjuster with the given rate, e.g. 0.08 for 8%
func NewFlatRateTax(rate decimal.Decimal) *FlatRateTax {
	return &FlatRateTax{
		BaseStrategy: strategy.NewBaseStrategy(
			"flat_rate_tax",
			strategy.StrategyTypeTax,
			"Single flat tax rate applied per charge scope",
		),
		rate: rate,
	}
}

// Adjust recalculates tax for the given scope and refreshes the order totals
func (t *FlatRateTax) Adjust(_ context.Context, o *order.Order, scope order.TaxScope) error {
	switch scope {
	case order.TaxScopeLineItems:
		base := decimal.Zero
		for i := range o.LineItems {
			base = base.Add(o.LineItems[i].ComputableAmount())
		}
		o.ItemTaxTotal = base.Mul(t.rate).Round(2)
	case order.TaxScopeShipments:
		base := decimal.Zero
		for i := range o.Shipments {
			if o.Shipments[i].State != order.ShipmentStateCanceled {
				base = base.Add(o.Shipments[i].Cost)
			}
		}
		o.ShipmentTaxTotal = base.Mul(t.rate).Round(2)
	}

	o.RecalculateTotals()
	return nil
}
