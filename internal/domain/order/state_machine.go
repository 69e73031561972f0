package order

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// TaxScope tells the tax adjuster which charges to recalculate
type TaxScope string

const (
	TaxScopeLineItems TaxScope = "line_items"
	TaxScopeShipments TaxScope = "shipments"
)

// TaxAdjuster recalculates tax for the given scope of an order
type TaxAdjuster interface {
	Adjust(ctx context.Context, o *Order, scope TaxScope) error
}

// ShipmentEstimator prices the order's shipments
type ShipmentEstimator interface {
	SetShipmentsCost(ctx context.Context, o *Order) error
}

// PaymentProcessor captures the order's pending payments.
// A non-nil error means the capture was declined or failed; the order must
// stay in the confirm state.
type PaymentProcessor interface {
	ProcessPayments(ctx context.Context, o *Order) error
}

// Finalizer performs the one-time side effects of completion: freezing
// totals and sending the confirmation
type Finalizer interface {
	Finalize(ctx context.Context, o *Order) error
}

// Restocker returns all of an order's allocated inventory to stock
type Restocker interface {
	Restock(ctx context.Context, o *Order) error
}

// PaymentCanceler returns captured funds at the gateway when the order is
// canceled. A non-nil error aborts the cancellation.
type PaymentCanceler interface {
	CancelPayments(ctx context.Context, o *Order) error
}

// CancelNotifier dispatches the cancellation notification. Best-effort:
// the state machine ignores its error.
type CancelNotifier interface {
	NotifyCancel(ctx context.Context, o *Order) error
}

// Hooks are the side-effecting collaborators the state machine drives at
// transitions. Nil hooks are skipped.
type Hooks struct {
	Tax       TaxAdjuster
	Estimator ShipmentEstimator
	Payments  PaymentProcessor
	Finalizer Finalizer
	Restocker Restocker
	Canceler  PaymentCanceler
	Notifier  CancelNotifier
}

// StateMachine drives an order through its lifecycle. All transition guards
// and side effects are explicit here; the Order itself only holds state.
type StateMachine struct {
	order *Order
	hooks Hooks
}

// NewStateMachine creates a state machine over an order
func NewStateMachine(o *Order, hooks Hooks) *StateMachine {
	return &StateMachine{order: o, hooks: hooks}
}

// Order returns the order under the machine
func (m *StateMachine) Order() *Order {
	return m.order
}

// Next attempts the forward transition from the current state. It returns
// false, leaving the order untouched, when no forward transition is legal or
// a guard rejects it.
func (m *StateMachine) Next(ctx context.Context) bool {
	return m.Advance(ctx) == nil
}

// Advance performs the forward transition from the current state, failing
// loudly with a domain error when the transition is illegal or its guard
// rejects it.
func (m *StateMachine) Advance(ctx context.Context) error {
	switch m.order.State {
	case StateCart:
		if len(m.order.LineItems) == 0 {
			return shared.NewDomainError("EMPTY_ORDER", "Cannot advance an order without line items")
		}
		return m.transitionTo(StateAddress)
	case StateAddress:
		return m.enterDelivery(ctx)
	case StateDelivery:
		return m.transitionTo(StatePayment)
	case StatePayment:
		return m.transitionTo(StateConfirm)
	case StateConfirm:
		return m.complete(ctx)
	default:
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("No forward transition from %s state", m.order.State))
	}
}

// enterDelivery moves address -> delivery, recalculating taxes for the line
// items and, when shipments already exist, a second time for the shipments
func (m *StateMachine) enterDelivery(ctx context.Context) error {
	if m.hooks.Tax != nil {
		if err := m.hooks.Tax.Adjust(ctx, m.order, TaxScopeLineItems); err != nil {
			return err
		}
		if len(m.order.Shipments) > 0 {
			if err := m.hooks.Tax.Adjust(ctx, m.order, TaxScopeShipments); err != nil {
				return err
			}
		}
	}
	if m.hooks.Estimator != nil {
		if err := m.hooks.Estimator.SetShipmentsCost(ctx, m.order); err != nil {
			return err
		}
	}
	return m.transitionTo(StateDelivery)
}

// complete moves confirm -> complete. Guard: payment must not be required,
// or payment processing must succeed. Finalization runs exactly once per
// order, on first completion.
func (m *StateMachine) complete(ctx context.Context) error {
	if m.order.PaymentRequired() {
		if m.hooks.Payments == nil {
			return shared.ErrPaymentDeclined
		}
		if err := m.hooks.Payments.ProcessPayments(ctx, m.order); err != nil {
			return err
		}
		m.order.RecalculateTotals()
	}

	firstCompletion := !m.order.Completed()
	if err := m.transitionTo(StateComplete); err != nil {
		return err
	}
	if firstCompletion {
		now := time.Now()
		m.order.CompletedAt = &now
		if m.hooks.Finalizer != nil {
			if err := m.hooks.Finalizer.Finalize(ctx, m.order); err != nil {
				return err
			}
		}
		m.order.AddDomainEvent(NewOrderCompletedEvent(m.order))
	}
	return nil
}

// Cancel cancels a completed order: restocks inventory, cancels every
// unshipped shipment, refunds captured funds at the gateway and voids every
// valid payment, then dispatches the cancellation notification. The
// notification is best-effort; its failure never rolls back the
// cancellation.
func (m *StateMachine) Cancel(ctx context.Context) error {
	if !m.order.AllowCancel() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel order in %s state with %s shipments", m.order.State, m.order.ShipmentState))
	}

	if m.hooks.Restocker != nil {
		if err := m.hooks.Restocker.Restock(ctx, m.order); err != nil {
			return err
		}
	}

	for idx := range m.order.Shipments {
		if m.order.Shipments[idx].State == ShipmentStateShipped {
			continue
		}
		if err := m.order.Shipments[idx].Cancel(); err != nil {
			return err
		}
	}

	if m.hooks.Canceler != nil {
		if err := m.hooks.Canceler.CancelPayments(ctx, m.order); err != nil {
			return err
		}
	}

	for idx := range m.order.Payments {
		if !m.order.Payments[idx].Valid() {
			continue
		}
		if err := m.order.Payments[idx].Cancel(); err != nil {
			return err
		}
	}

	shipped := m.order.HasShippedShipment()
	now := time.Now()
	m.order.StateBeforeCancel = m.order.State
	m.order.State = StateCanceled
	m.order.CanceledAt = &now
	m.order.UpdatedAt = now
	if !shipped {
		m.order.PaymentState = PaymentStateVoid
	}
	m.order.RecalculateShipmentState()

	m.order.AddDomainEvent(NewOrderCanceledEvent(m.order))

	if m.hooks.Notifier != nil {
		// Best-effort: a failed notification does not undo the cancel
		_ = m.hooks.Notifier.NotifyCancel(ctx, m.order)
	}

	return nil
}

// Resume brings a canceled order back. The restored state is recorded as
// resumed; completion history (CompletedAt) is untouched, so an order that
// completed before cancellation still reports Completed.
func (m *StateMachine) Resume(ctx context.Context) error {
	if !m.order.AllowResume() {
		return shared.NewDomainError("INVALID_STATE", "Order cannot be resumed")
	}

	now := time.Now()
	m.order.State = StateResumed
	m.order.StateBeforeCancel = ""
	m.order.CanceledAt = nil
	m.order.UpdatedAt = now

	m.order.AddDomainEvent(NewOrderResumedEvent(m.order))

	return nil
}

// transitionTo moves the order into the target state
func (m *StateMachine) transitionTo(target State) error {
	m.order.State = target
	m.order.UpdatedAt = time.Now()
	return nil
}
