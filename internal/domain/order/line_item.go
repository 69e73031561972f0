package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// LineItem is one ordered variant with its quantity and frozen price
type LineItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	VariantID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
	Amount    decimal.Decimal // Quantity * Price
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewLineItem creates a new line item
func NewLineItem(orderID, variantID uuid.UUID, quantity int, price valueobject.Money) (*LineItem, error) {
	if variantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Variant ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	now := time.Now()
	return &LineItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		VariantID: variantID,
		Quantity:  quantity,
		Price:     price.Amount(),
		Amount:    price.Amount().Mul(decimal.NewFromInt(int64(quantity))),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AdjustQuantity updates the quantity and recalculates the amount
func (i *LineItem) AdjustQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.Quantity = quantity
	i.Amount = i.Price.Mul(decimal.NewFromInt(int64(quantity)))
	i.UpdatedAt = time.Now()
	return nil
}

// ComputableAmount implements strategy.Computable for rate calculators
func (i *LineItem) ComputableAmount() decimal.Decimal {
	return i.Amount
}

// GetAmountMoney returns the line amount as Money
func (i *LineItem) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(i.Amount)
}
