package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// InventoryUnitState is the fulfillment state of a single physical unit
type InventoryUnitState string

const (
	InventoryUnitOnHand   InventoryUnitState = "on_hand"
	InventoryUnitShipped  InventoryUnitState = "shipped"
	InventoryUnitReturned InventoryUnitState = "returned"
)

// InventoryUnit represents one physical unit of a variant allocated to a
// shipment. Units created through an exchange carry a reference to the
// return item that produced them.
type InventoryUnit struct {
	ID                   uuid.UUID
	ShipmentID           uuid.UUID
	LineItemID           uuid.UUID
	VariantID            uuid.UUID
	State                InventoryUnitState
	OriginalReturnItemID *uuid.UUID
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewInventoryUnit creates a new on-hand inventory unit for a shipment
func NewInventoryUnit(shipmentID, lineItemID, variantID uuid.UUID) (*InventoryUnit, error) {
	if lineItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LINE_ITEM", "Line item ID cannot be empty")
	}
	if variantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Variant ID cannot be empty")
	}

	now := time.Now()
	return &InventoryUnit{
		ID:         uuid.New(),
		ShipmentID: shipmentID,
		LineItemID: lineItemID,
		VariantID:  variantID,
		State:      InventoryUnitOnHand,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// NewExchangeInventoryUnit creates an inventory unit that replaces a returned
// one: it fulfills the same line item and records the originating return item
func NewExchangeInventoryUnit(shipmentID, lineItemID, variantID, originalReturnItemID uuid.UUID) (*InventoryUnit, error) {
	unit, err := NewInventoryUnit(shipmentID, lineItemID, variantID)
	if err != nil {
		return nil, err
	}
	if originalReturnItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RETURN_ITEM", "Original return item ID cannot be empty")
	}
	unit.OriginalReturnItemID = &originalReturnItemID
	return unit, nil
}

// MarkShipped transitions the unit to shipped
func (u *InventoryUnit) MarkShipped() error {
	if u.State != InventoryUnitOnHand {
		return shared.NewDomainError("INVALID_STATE", "Only on-hand units can ship")
	}
	u.State = InventoryUnitShipped
	u.UpdatedAt = time.Now()
	return nil
}

// MarkReturned transitions the unit to returned
func (u *InventoryUnit) MarkReturned() error {
	if u.State == InventoryUnitReturned {
		return shared.NewDomainError("INVALID_STATE", "Unit is already returned")
	}
	u.State = InventoryUnitReturned
	u.UpdatedAt = time.Now()
	return nil
}
