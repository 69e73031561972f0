package order

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// State represents the checkout lifecycle state of an order
type State string

const (
	StateCart     State = "cart"
	StateAddress  State = "address"
	StateDelivery State = "delivery"
	StatePayment  State = "payment"
	StateConfirm  State = "confirm"
	StateComplete State = "complete"
	StateCanceled State = "canceled"
	StateResumed  State = "resumed"
)

// IsValid checks if the state is a valid order State
func (s State) IsValid() bool {
	switch s {
	case StateCart, StateAddress, StateDelivery, StatePayment,
		StateConfirm, StateComplete, StateCanceled, StateResumed:
		return true
	}
	return false
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// PaymentState summarizes the order's payments
type PaymentState string

const (
	PaymentStateBalanceDue PaymentState = "balance_due"
	PaymentStatePaid       PaymentState = "paid"
	PaymentStateCreditOwed PaymentState = "credit_owed"
	PaymentStateFailed     PaymentState = "failed"
	PaymentStateVoid       PaymentState = "void"
)

// ShipmentState summarizes the order's shipments
type ShipmentState string

const (
	ShipmentStatePending   ShipmentState = "pending"
	ShipmentStateBackorder ShipmentState = "backorder"
	ShipmentStateReady     ShipmentState = "ready"
	ShipmentStatePartial   ShipmentState = "partial"
	ShipmentStateShipped   ShipmentState = "shipped"
	ShipmentStateCanceled  ShipmentState = "canceled"
)

// AllShipmentStates enumerates every order-level shipment state
func AllShipmentStates() []ShipmentState {
	return []ShipmentState{
		ShipmentStatePending,
		ShipmentStateBackorder,
		ShipmentStateReady,
		ShipmentStatePartial,
		ShipmentStateShipped,
		ShipmentStateCanceled,
	}
}

// Order is the order aggregate root. Its State only moves through the
// transitions driven by StateMachine; orders are never hard-deleted.
type Order struct {
	shared.BaseAggregateRoot
	Number            string
	Email             string
	GuestToken        string
	State             State
	PaymentState      PaymentState
	ShipmentState     ShipmentState
	StateBeforeCancel State
	LineItems         []LineItem
	Shipments         []Shipment
	Payments          []Payment
	ItemTotal         decimal.Decimal
	ShipTotal         decimal.Decimal
	ItemTaxTotal      decimal.Decimal
	ShipmentTaxTotal  decimal.Decimal
	TaxTotal          decimal.Decimal
	Total             decimal.Decimal
	PaymentTotal      decimal.Decimal
	CompletedAt       *time.Time
	CanceledAt        *time.Time
}

// NewOrder creates a new empty order in the cart state
func NewOrder(number, email string) (*Order, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		Email:             email,
		GuestToken:        generateGuestToken(),
		State:             StateCart,
		PaymentState:      PaymentStateBalanceDue,
		LineItems:         make([]LineItem, 0),
		Shipments:         make([]Shipment, 0),
		Payments:          make([]Payment, 0),
		ItemTotal:         decimal.Zero,
		ShipTotal:         decimal.Zero,
		ItemTaxTotal:      decimal.Zero,
		ShipmentTaxTotal:  decimal.Zero,
		TaxTotal:          decimal.Zero,
		Total:             decimal.Zero,
		PaymentTotal:      decimal.Zero,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// generateGuestToken issues the random token that grants storefront access
// to a single order
func generateGuestToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(buf)
}

// AddLineItem adds a variant to the order, merging quantity when the variant
// is already present. Only allowed while the order is still a cart.
func (o *Order) AddLineItem(variantID uuid.UUID, quantity int, price valueobject.Money) (*LineItem, error) {
	if o.State != StateCart {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items outside the cart state")
	}

	for idx := range o.LineItems {
		if o.LineItems[idx].VariantID == variantID {
			if err := o.LineItems[idx].AdjustQuantity(o.LineItems[idx].Quantity + quantity); err != nil {
				return nil, err
			}
			o.RecalculateTotals()
			return &o.LineItems[idx], nil
		}
	}

	item, err := NewLineItem(o.ID, variantID, quantity, price)
	if err != nil {
		return nil, err
	}

	o.LineItems = append(o.LineItems, *item)
	o.RecalculateTotals()
	o.UpdatedAt = time.Now()

	return &o.LineItems[len(o.LineItems)-1], nil
}

// AdjustLineItemQuantity changes a line item's quantity. Forbidden once any
// shipment fulfills the line item.
func (o *Order) AdjustLineItemQuantity(lineItemID uuid.UUID, quantity int) error {
	for s := range o.Shipments {
		for u := range o.Shipments[s].InventoryUnits {
			if o.Shipments[s].InventoryUnits[u].LineItemID == lineItemID {
				return shared.NewDomainError("INVALID_STATE", "Cannot adjust quantity after fulfillment has started")
			}
		}
	}

	for idx := range o.LineItems {
		if o.LineItems[idx].ID == lineItemID {
			if err := o.LineItems[idx].AdjustQuantity(quantity); err != nil {
				return err
			}
			o.RecalculateTotals()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Line item not found")
}

// GetLineItem returns a line item by ID, or nil
func (o *Order) GetLineItem(lineItemID uuid.UUID) *LineItem {
	for idx := range o.LineItems {
		if o.LineItems[idx].ID == lineItemID {
			return &o.LineItems[idx]
		}
	}
	return nil
}

// AddShipment attaches a shipment to the order
func (o *Order) AddShipment(shipment *Shipment) error {
	if shipment == nil {
		return shared.NewDomainError("INVALID_SHIPMENT", "Shipment cannot be nil")
	}
	o.Shipments = append(o.Shipments, *shipment)
	o.RecalculateShipmentState()
	o.RecalculateTotals()
	o.UpdatedAt = time.Now()
	return nil
}

// AddPayment attaches a payment to the order
func (o *Order) AddPayment(payment *Payment) error {
	if payment == nil {
		return shared.NewDomainError("INVALID_PAYMENT", "Payment cannot be nil")
	}
	o.Payments = append(o.Payments, *payment)
	o.UpdatedAt = time.Now()
	return nil
}

// Completed reports whether the order has reached the complete state at
// least once. It stays true across cancel and resume.
func (o *Order) Completed() bool {
	return o.CompletedAt != nil
}

// PaymentRequired reports whether an outstanding balance remains
func (o *Order) PaymentRequired() bool {
	return o.Total.GreaterThan(o.PaymentTotal)
}

// OutstandingBalance returns the unpaid portion of the order total
func (o *Order) OutstandingBalance() decimal.Decimal {
	return o.Total.Sub(o.PaymentTotal)
}

// CanCancel reports whether cancellation is currently legal: the order must
// have completed and its shipments must not have progressed past ready
func (o *Order) CanCancel() bool {
	if !o.Completed() {
		return false
	}
	switch o.ShipmentState {
	case ShipmentStatePending, ShipmentStateBackorder, ShipmentStateReady:
		return true
	}
	return false
}

// AllowCancel is the cancellation guard consulted by the state machine
func (o *Order) AllowCancel() bool {
	return o.CanCancel()
}

// AllowResume reports whether the order can be resumed: it must be canceled
// with a recorded pre-cancel state
func (o *Order) AllowResume() bool {
	return o.State == StateCanceled && o.StateBeforeCancel != ""
}

// HasShippedShipment reports whether any shipment has already shipped
func (o *Order) HasShippedShipment() bool {
	for idx := range o.Shipments {
		if o.Shipments[idx].State == ShipmentStateShipped {
			return true
		}
	}
	return false
}

// InventoryUnits returns every inventory unit across all shipments
func (o *Order) InventoryUnits() []InventoryUnit {
	var units []InventoryUnit
	for s := range o.Shipments {
		units = append(units, o.Shipments[s].InventoryUnits...)
	}
	return units
}

// RecalculateTotals recomputes the monetary totals from line items,
// shipments and payments
func (o *Order) RecalculateTotals() {
	itemTotal := decimal.Zero
	for idx := range o.LineItems {
		itemTotal = itemTotal.Add(o.LineItems[idx].Amount)
	}

	shipTotal := decimal.Zero
	for idx := range o.Shipments {
		if o.Shipments[idx].State != ShipmentStateCanceled {
			shipTotal = shipTotal.Add(o.Shipments[idx].Cost)
		}
	}

	paymentTotal := decimal.Zero
	for idx := range o.Payments {
		if o.Payments[idx].State == PaymentStatusCompleted {
			paymentTotal = paymentTotal.Add(o.Payments[idx].Amount)
		}
	}

	o.ItemTotal = itemTotal
	o.ShipTotal = shipTotal
	o.PaymentTotal = paymentTotal
	o.TaxTotal = o.ItemTaxTotal.Add(o.ShipmentTaxTotal)
	o.Total = itemTotal.Add(shipTotal).Add(o.TaxTotal)
}

// RecalculateShipmentState derives the order-level shipment state from the
// individual shipments
func (o *Order) RecalculateShipmentState() {
	if len(o.Shipments) == 0 {
		o.ShipmentState = ""
		return
	}

	var shipped, canceled, ready, pending int
	for idx := range o.Shipments {
		switch o.Shipments[idx].State {
		case ShipmentStateShipped:
			shipped++
		case ShipmentStateCanceled:
			canceled++
		case ShipmentStateReady:
			ready++
		default:
			pending++
		}
	}

	active := len(o.Shipments) - canceled
	switch {
	case active == 0:
		o.ShipmentState = ShipmentStateCanceled
	case shipped == active:
		o.ShipmentState = ShipmentStateShipped
	case shipped > 0:
		o.ShipmentState = ShipmentStatePartial
	case ready == active:
		o.ShipmentState = ShipmentStateReady
	default:
		o.ShipmentState = ShipmentStatePending
	}
}

// GetTotalMoney returns the order total as Money
func (o *Order) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.Total)
}

// GetShipment returns a shipment by ID, or nil
func (o *Order) GetShipment(shipmentID uuid.UUID) *Shipment {
	for idx := range o.Shipments {
		if o.Shipments[idx].ID == shipmentID {
			return &o.Shipments[idx]
		}
	}
	return nil
}
