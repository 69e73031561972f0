package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// AcceptanceStatus is the eligibility outcome recorded on a return item
type AcceptanceStatus string

const (
	AcceptancePending            AcceptanceStatus = "pending"
	AcceptanceAccepted           AcceptanceStatus = "accepted"
	AcceptanceRejected           AcceptanceStatus = "rejected"
	AcceptanceManualIntervention AcceptanceStatus = "manual_intervention_required"
)

// ReturnItem records one unit coming back from a customer. It links the
// original inventory unit to an optional desired replacement variant.
// A return item is consumed, never deleted, when its exchange is performed.
type ReturnItem struct {
	shared.BaseEntity
	ReturnAuthorizationID *uuid.UUID
	InventoryUnitID       uuid.UUID
	LineItemID            uuid.UUID
	VariantID             uuid.UUID
	ExchangeVariantID     *uuid.UUID
	Amount                decimal.Decimal
	AcceptanceStatus      AcceptanceStatus
	EligibilityErrors     map[string]string `gorm:"serializer:json"`
	ExchangeProcessed     bool
	PurchasedAt           time.Time

	// Loaded references, populated by the repository
	Variant         *catalog.Variant `gorm:"-"`
	ExchangeVariant *catalog.Variant `gorm:"-"`
}

// NewReturnItem creates a pending return item for an inventory unit
func NewReturnItem(unit *order.InventoryUnit, lineItem *order.LineItem, purchasedAt time.Time) (*ReturnItem, error) {
	if unit == nil {
		return nil, shared.NewDomainError("INVALID_INVENTORY_UNIT", "Inventory unit cannot be nil")
	}
	if lineItem == nil {
		return nil, shared.NewDomainError("INVALID_LINE_ITEM", "Line item cannot be nil")
	}

	return &ReturnItem{
		BaseEntity:       shared.NewBaseEntity(),
		InventoryUnitID:  unit.ID,
		LineItemID:       unit.LineItemID,
		VariantID:        unit.VariantID,
		Amount:           lineItem.Price,
		AcceptanceStatus: AcceptancePending,
		PurchasedAt:      purchasedAt,
	}, nil
}

// SetExchangeVariant records the desired replacement variant
func (ri *ReturnItem) SetExchangeVariant(variant *catalog.Variant) error {
	if variant == nil {
		return shared.NewDomainError("INVALID_VARIANT", "Exchange variant cannot be nil")
	}
	ri.ExchangeVariant = variant
	ri.ExchangeVariantID = &variant.ID
	ri.Touch()
	return nil
}

// Authorize attaches the return item to an active RMA
func (ri *ReturnItem) Authorize(rma *ReturnAuthorization) error {
	if rma == nil || !rma.Active() {
		return shared.NewDomainError("INVALID_RMA", "Return authorization is missing or inactive")
	}
	ri.ReturnAuthorizationID = &rma.ID
	ri.Touch()
	return nil
}

// Evaluate runs the eligibility validator and records the outcome
func (ri *ReturnItem) Evaluate(validator EligibilityValidator) {
	ri.EligibilityErrors = validator.Errors(ri)
	switch {
	case validator.RequiresManualIntervention(ri):
		ri.AcceptanceStatus = AcceptanceManualIntervention
	case validator.EligibleForReturn(ri):
		ri.AcceptanceStatus = AcceptanceAccepted
	default:
		ri.AcceptanceStatus = AcceptanceRejected
	}
	ri.Touch()
}

// Eligible reports whether the item passed eligibility evaluation
func (ri *ReturnItem) Eligible() bool {
	return ri.AcceptanceStatus == AcceptanceAccepted
}

// MarkExchanged consumes the return item after its exchange is performed
func (ri *ReturnItem) MarkExchanged() error {
	if ri.ExchangeProcessed {
		return shared.NewDomainError("INVALID_STATE", "Return item has already been exchanged")
	}
	ri.ExchangeProcessed = true
	ri.Touch()
	return nil
}

// GetAmountMoney returns the item's monetary delta as Money
func (ri *ReturnItem) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(ri.Amount)
}
