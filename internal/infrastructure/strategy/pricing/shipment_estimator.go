package pricing

import (
	"context"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/strategy"
)

// CalculatedEstimator prices an order's shipments with a rate calculator.
// Canceled and shipped shipments keep their recorded cost.
type CalculatedEstimator struct {
	calculator strategy.RateCalculator
}

// NewCalculatedEstimator creates the estimator
func NewCalculatedEstimator(calculator strategy.RateCalculator) (*CalculatedEstimator, error) {
	if calculator == nil || !calculator.Valid() {
		return nil, shared.NewDomainError("INVALID_CALCULATOR", "Shipment estimator needs a valid rate calculator")
	}
	return &CalculatedEstimator{calculator: calculator}, nil
}

// SetShipmentsCost computes each open shipment's cost and refreshes the
// order totals
func (e *CalculatedEstimator) SetShipmentsCost(_ context.Context, o *order.Order) error {
	for i := range o.Shipments {
		s := &o.Shipments[i]
		if s.State == order.ShipmentStateCanceled || s.State == order.ShipmentStateShipped {
			continue
		}
		s.SetCost(e.calculator.Compute(s))
	}
	o.RecalculateTotals()
	return nil
}
