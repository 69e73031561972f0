package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Shipment groups inventory units that travel together. Its state is
// independent of but constrained by the order state.
type Shipment struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	Number         string
	State          ShipmentState
	Cost           decimal.Decimal
	ItemCost       decimal.Decimal
	InventoryUnits []InventoryUnit
	ShippedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewShipment creates a new pending shipment for an order
func NewShipment(orderID uuid.UUID, number string) (*Shipment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if number == "" {
		return nil, shared.NewDomainError("INVALID_SHIPMENT_NUMBER", "Shipment number cannot be empty")
	}

	now := time.Now()
	return &Shipment{
		ID:             uuid.New(),
		OrderID:        orderID,
		Number:         number,
		State:          ShipmentStatePending,
		Cost:           decimal.Zero,
		ItemCost:       decimal.Zero,
		InventoryUnits: make([]InventoryUnit, 0),
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// AddInventoryUnit allocates a unit to the shipment
func (s *Shipment) AddInventoryUnit(unit *InventoryUnit, unitCost decimal.Decimal) error {
	if unit == nil {
		return shared.NewDomainError("INVALID_UNIT", "Inventory unit cannot be nil")
	}
	if s.State == ShipmentStateShipped || s.State == ShipmentStateCanceled {
		return shared.NewDomainError("INVALID_STATE", "Cannot add units to a shipped or canceled shipment")
	}
	unit.ShipmentID = s.ID
	s.InventoryUnits = append(s.InventoryUnits, *unit)
	s.ItemCost = s.ItemCost.Add(unitCost)
	s.UpdatedAt = time.Now()
	return nil
}

// Ready marks the shipment ready for dispatch
func (s *Shipment) Ready() error {
	if s.State != ShipmentStatePending {
		return shared.NewDomainError("INVALID_STATE", "Only pending shipments can become ready")
	}
	s.State = ShipmentStateReady
	s.UpdatedAt = time.Now()
	return nil
}

// Ship marks the shipment and all its units as shipped
func (s *Shipment) Ship() error {
	if s.State != ShipmentStateReady {
		return shared.NewDomainError("INVALID_STATE", "Only ready shipments can ship")
	}
	now := time.Now()
	for idx := range s.InventoryUnits {
		if err := s.InventoryUnits[idx].MarkShipped(); err != nil {
			return err
		}
	}
	s.State = ShipmentStateShipped
	s.ShippedAt = &now
	s.UpdatedAt = now
	return nil
}

// Cancel cancels the shipment. Shipped shipments cannot be canceled.
func (s *Shipment) Cancel() error {
	if s.State == ShipmentStateShipped {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel a shipped shipment")
	}
	if s.State == ShipmentStateCanceled {
		return nil
	}
	s.State = ShipmentStateCanceled
	s.UpdatedAt = time.Now()
	return nil
}

// SetCost sets the shipping charge computed by the rate calculator
func (s *Shipment) SetCost(cost decimal.Decimal) {
	s.Cost = cost
	s.UpdatedAt = time.Now()
}

// ComputableAmount implements strategy.Computable: shipping rates are
// computed over the cost of the items in the shipment
func (s *Shipment) ComputableAmount() decimal.Decimal {
	return s.ItemCost
}
