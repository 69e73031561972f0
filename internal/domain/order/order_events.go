package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated   = "OrderCreated"
	EventTypeOrderCompleted = "OrderCompleted"
	EventTypeOrderCanceled  = "OrderCanceled"
	EventTypeOrderResumed   = "OrderResumed"
)

// OrderCreatedEvent is raised when a new order (cart) is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	Number  string    `json:"number"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Number:          o.Number,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderCompletedEvent is raised the first time an order reaches complete
type OrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID       `json:"order_id"`
	Number  string          `json:"number"`
	Email   string          `json:"email"`
	Total   decimal.Decimal `json:"total"`
}

// NewOrderCompletedEvent creates a new OrderCompletedEvent
func NewOrderCompletedEvent(o *Order) *OrderCompletedEvent {
	return &OrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCompleted, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Number:          o.Number,
		Email:           o.Email,
		Total:           o.Total,
	}
}

// EventType returns the event type name
func (e *OrderCompletedEvent) EventType() string {
	return EventTypeOrderCompleted
}

// OrderCanceledEvent is raised when an order is canceled
// Downstream handlers refund gateway payments and release reservations
type OrderCanceledEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID    `json:"order_id"`
	Number       string       `json:"number"`
	PaymentState PaymentState `json:"payment_state"`
}

// NewOrderCanceledEvent creates a new OrderCanceledEvent
func NewOrderCanceledEvent(o *Order) *OrderCanceledEvent {
	return &OrderCanceledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCanceled, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Number:          o.Number,
		PaymentState:    o.PaymentState,
	}
}

// EventType returns the event type name
func (e *OrderCanceledEvent) EventType() string {
	return EventTypeOrderCanceled
}

// OrderResumedEvent is raised when a canceled order is resumed
type OrderResumedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	Number  string    `json:"number"`
}

// NewOrderResumedEvent creates a new OrderResumedEvent
func NewOrderResumedEvent(o *Order) *OrderResumedEvent {
	return &OrderResumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderResumed, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Number:          o.Number,
	}
}

// EventType returns the event type name
func (e *OrderResumedEvent) EventType() string {
	return EventTypeOrderResumed
}
