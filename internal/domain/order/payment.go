package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// PaymentStatus is the processing state of a single payment
type PaymentStatus string

const (
	PaymentStatusCheckout  PaymentStatus = "checkout"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusVoid      PaymentStatus = "void"
)

// Payment is money tendered against an order
type Payment struct {
	ID               uuid.UUID
	OrderID          uuid.UUID
	Amount           decimal.Decimal
	State            PaymentStatus
	GatewayPaymentID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewPayment creates a new payment in the checkout state
func NewPayment(orderID uuid.UUID, amount decimal.Decimal) (*Payment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	now := time.Now()
	return &Payment{
		ID:        uuid.New(),
		OrderID:   orderID,
		Amount:    amount,
		State:     PaymentStatusCheckout,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Valid reports whether the payment still counts toward the order:
// failed and voided payments do not
func (p *Payment) Valid() bool {
	return p.State != PaymentStatusFailed && p.State != PaymentStatusVoid
}

// Complete marks the payment captured
func (p *Payment) Complete() error {
	if p.State != PaymentStatusCheckout && p.State != PaymentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Payment cannot complete from its current state")
	}
	p.State = PaymentStatusCompleted
	p.UpdatedAt = time.Now()
	return nil
}

// Fail marks the payment as declined by the gateway
func (p *Payment) Fail() error {
	if p.State == PaymentStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Completed payments cannot fail")
	}
	p.State = PaymentStatusFailed
	p.UpdatedAt = time.Now()
	return nil
}

// Cancel voids the payment. Completed payments are refunded by the gateway
// before being voided; the caller performs the gateway refund.
func (p *Payment) Cancel() error {
	if p.State == PaymentStatusVoid {
		return nil
	}
	if p.State == PaymentStatusFailed {
		return shared.NewDomainError("INVALID_STATE", "Failed payments cannot be voided")
	}
	p.State = PaymentStatusVoid
	p.UpdatedAt = time.Now()
	return nil
}
