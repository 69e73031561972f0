package returns

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Exchange swaps returned units for replacement variants on an order. It is
// a transient coordination object, never persisted itself; performing it
// mutates the order and the return items.
type Exchange struct {
	order       *order.Order
	returnItems []*ReturnItem
}

// NewExchange builds an exchange for the given order and return items.
// A nil order or an empty item list yields a valid but empty exchange;
// Perform rejects it.
func NewExchange(o *order.Order, items []*ReturnItem) *Exchange {
	return &Exchange{order: o, returnItems: items}
}

// Order returns the order the exchange operates on
func (e *Exchange) Order() *order.Order {
	return e.order
}

// ReturnItems returns the items participating in the exchange
func (e *Exchange) ReturnItems() []*ReturnItem {
	return e.returnItems
}

// Empty reports whether the exchange has nothing to do
func (e *Exchange) Empty() bool {
	return e == nil || e.order == nil || len(e.returnItems) == 0
}

// Description renders one "original => replacement" line per item, using
// each variant's options text. Items without a loaded variant pair are
// skipped.
func (e *Exchange) Description() string {
	if e == nil || len(e.returnItems) == 0 {
		return ""
	}
	lines := make([]string, 0, len(e.returnItems))
	for _, item := range e.returnItems {
		if item.Variant == nil || item.ExchangeVariant == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s => %s", item.Variant.OptionsText(), item.ExchangeVariant.OptionsText()))
	}
	return strings.Join(lines, "\n")
}

// TotalAmount sums the return item amounts
func (e *Exchange) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range e.returnItems {
		total = total.Add(item.Amount)
	}
	return total
}

// DisplayAmount returns the exchange total as money
func (e *Exchange) DisplayAmount() valueobject.Money {
	return valueobject.NewMoneyUSD(e.TotalAmount())
}

// ToKey identifies the exchange for idempotency checks, derived from its
// order
func (e *Exchange) ToKey() string {
	if e == nil || e.order == nil {
		return ""
	}
	return e.order.ID.String()
}

// Perform creates a single ready shipment carrying one exchange inventory
// unit per return item. Every item is validated before anything mutates:
// each must carry an exchange variant, and every replacement must be in
// stock. Validation failures abort the whole exchange.
func (e *Exchange) Perform(ctx context.Context, stock catalog.StockChecker, shipmentNumber string) (*order.Shipment, error) {
	if e.Empty() {
		return nil, shared.NewDomainError("EMPTY_EXCHANGE", "Exchange has no return items")
	}

	wanted := make(map[string]int)
	for _, item := range e.returnItems {
		if item.ExchangeVariantID == nil {
			return nil, shared.NewDomainError("MISSING_EXCHANGE_VARIANT", "Every return item in an exchange needs a replacement variant")
		}
		if item.ExchangeProcessed {
			return nil, shared.NewDomainError("EXCHANGE_PROCESSED", "Return item has already been exchanged")
		}
		wanted[item.ExchangeVariantID.String()]++
	}

	for _, item := range e.returnItems {
		variantID := *item.ExchangeVariantID
		ok, err := stock.InStock(ctx, variantID, wanted[variantID.String()])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("variant %s: %w", variantID, shared.ErrInsufficientStock)
		}
	}

	shipment, err := order.NewShipment(e.order.ID, shipmentNumber)
	if err != nil {
		return nil, err
	}

	for _, item := range e.returnItems {
		unit, err := order.NewExchangeInventoryUnit(shipment.ID, item.LineItemID, *item.ExchangeVariantID, item.ID)
		if err != nil {
			return nil, err
		}
		// Replacement units ship free; the customer already paid for the item
		if err := shipment.AddInventoryUnit(unit, decimal.Zero); err != nil {
			return nil, err
		}
		if err := item.MarkExchanged(); err != nil {
			return nil, err
		}
	}

	if err := shipment.Ready(); err != nil {
		return nil, err
	}

	e.order.Shipments = append(e.order.Shipments, *shipment)
	e.order.RecalculateShipmentState()
	return shipment, nil
}
