package checkout

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// Service drives the checkout flow: cart assembly, the forward state
// transitions, cancellation and resume. The side effects of each transition
// (taxes, shipment pricing, payment capture, notifications) come in through
// the state machine hooks.
type Service struct {
	orders         order.Repository
	variants       catalog.VariantRepository
	stock          catalog.StockMover
	tx             shared.TransactionManager
	hooks          order.Hooks
	eventPublisher shared.EventPublisher
}

// NewService creates a checkout service
func NewService(orders order.Repository, variants catalog.VariantRepository, stock catalog.StockMover, tx shared.TransactionManager, hooks order.Hooks) *Service {
	return &Service{
		orders:   orders,
		variants: variants,
		stock:    stock,
		tx:       tx,
		hooks:    hooks,
	}
}

// SetEventPublisher sets the event publisher for the service
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create starts a new order in the cart state, optionally seeded with items
func (s *Service) Create(ctx context.Context, req *CreateOrderRequest) (*OrderResponse, error) {
	number, err := s.orders.GenerateNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}

	o, err := order.NewOrder(number, req.Email)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if err := s.addVariant(ctx, o, item.VariantID, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	s.publishEvents(ctx, o)

	resp := ToOrderResponse(o)
	return &resp, nil
}

// Get returns an order by its number
func (s *Service) Get(ctx context.Context, number string) (*OrderResponse, error) {
	o, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// OrderToken returns the guest token guarding access to an order
func (s *Service) OrderToken(ctx context.Context, number string) (string, error) {
	o, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		return "", err
	}
	return o.GuestToken, nil
}

// List returns a page of orders
func (s *Service) List(ctx context.Context, filter *OrderListFilter) ([]OrderResponse, int64, error) {
	f := shared.DefaultFilter()
	if filter != nil {
		if filter.Page > 0 {
			f.Page = filter.Page
		}
		if filter.PageSize > 0 {
			f.PageSize = filter.PageSize
		}
		if filter.OrderBy != "" {
			f.OrderBy = filter.OrderBy
		}
		if filter.OrderDir != "" {
			f.OrderDir = filter.OrderDir
		}
		f.Search = filter.Search
		if filter.State != "" {
			f.Filters = map[string]interface{}{"state": filter.State}
		}
	}

	orders, total, err := s.orders.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// AddLineItem puts a variant into the cart, merging quantity when the
// variant is already present
func (s *Service) AddLineItem(ctx context.Context, number string, req *AddLineItemRequest) (*OrderResponse, error) {
	o, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if err := s.addVariant(ctx, o, req.VariantID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	resp := ToOrderResponse(o)
	return &resp, nil
}

// AddPayment attaches a pending payment. When no amount is given the payment
// covers the outstanding balance.
func (s *Service) AddPayment(ctx context.Context, number string, req *AddPaymentRequest) (*OrderResponse, error) {
	o, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	amount := o.OutstandingBalance()
	if req != nil && req.Amount != nil {
		amount = *req.Amount
	}

	payment, err := order.NewPayment(o.ID, amount)
	if err != nil {
		return nil, err
	}
	if err := o.AddPayment(payment); err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	resp := ToOrderResponse(o)
	return &resp, nil
}

// Advance moves the order one step forward through checkout. Entering
// delivery builds the order's shipment so taxes and shipping costs have
// something to work with.
func (s *Service) Advance(ctx context.Context, number string) (*OrderResponse, error) {
	o, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		if o.State == order.StateAddress && len(o.Shipments) == 0 {
			if err := s.createShipment(ctx, o); err != nil {
				return err
			}
		}

		machine := order.NewStateMachine(o, s.hooks)
		if err := machine.Advance(ctx); err != nil {
			return err
		}

		if err := s.orders.Save(ctx, o); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, o)

	resp := ToOrderResponse(o)
	return &resp, nil
}

// Complete advances the order repeatedly until it finishes checkout
func (s *Service) Complete(ctx context.Context, number string) (*OrderResponse, error) {
	o, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		for o.State != order.StateComplete {
			if o.State == order.StateAddress && len(o.Shipments) == 0 {
				if err := s.createShipment(ctx, o); err != nil {
					return err
				}
			}
			machine := order.NewStateMachine(o, s.hooks)
			if err := machine.Advance(ctx); err != nil {
				return err
			}
		}

		if err := s.orders.Save(ctx, o); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, o)

	resp := ToOrderResponse(o)
	return &resp, nil
}

// Cancel cancels the order, releasing its inventory and voiding pending
// payments
func (s *Service) Cancel(ctx context.Context, number string) (*OrderResponse, error) {
	o, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		machine := order.NewStateMachine(o, s.hooks)
		if err := machine.Cancel(ctx); err != nil {
			return err
		}

		if err := s.orders.Save(ctx, o); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, o)

	resp := ToOrderResponse(o)
	return &resp, nil
}

// Resume returns a canceled order to its pre-cancellation state
func (s *Service) Resume(ctx context.Context, number string) (*OrderResponse, error) {
	o, err := s.orders.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	machine := order.NewStateMachine(o, s.hooks)
	if err := machine.Resume(ctx); err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	s.publishEvents(ctx, o)

	resp := ToOrderResponse(o)
	return &resp, nil
}

// addVariant resolves a variant, checks availability and adds it to the cart
func (s *Service) addVariant(ctx context.Context, o *order.Order, variantID uuid.UUID, quantity int) error {
	variant, err := s.variants.FindByID(ctx, variantID)
	if err != nil {
		return err
	}

	available, err := s.stock.InStock(ctx, variant.ID, quantity)
	if err != nil {
		return fmt.Errorf("failed to check stock: %w", err)
	}
	if !available {
		return fmt.Errorf("variant %s: %w", variant.SKU, shared.ErrInsufficientStock)
	}

	_, err = o.AddLineItem(variant.ID, quantity, variant.GetPriceMoney())
	return err
}

// createShipment allocates stock for every line item and packs the units
// into a single pending shipment. The caller runs it inside a transaction,
// so a failed allocation rolls back the earlier ones.
func (s *Service) createShipment(ctx context.Context, o *order.Order) error {
	number, err := GenerateShipmentNumber()
	if err != nil {
		return err
	}

	shipment, err := order.NewShipment(o.ID, number)
	if err != nil {
		return err
	}

	for i := range o.LineItems {
		li := &o.LineItems[i]
		if err := s.stock.Allocate(ctx, li.VariantID, li.Quantity); err != nil {
			return err
		}

		for n := 0; n < li.Quantity; n++ {
			unit, err := order.NewInventoryUnit(shipment.ID, li.ID, li.VariantID)
			if err != nil {
				return err
			}
			if err := shipment.AddInventoryUnit(unit, li.Price); err != nil {
				return err
			}
		}
	}

	if err := o.AddShipment(shipment); err != nil {
		return err
	}
	o.RecalculateShipmentState()
	return nil
}

func (s *Service) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range o.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	o.ClearDomainEvents()
}

// GenerateShipmentNumber produces a shipment number in the H-prefixed
// nine digit format
func GenerateShipmentNumber() (string, error) {
	max := big.NewInt(1_000_000_000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate shipment number: %w", err)
	}
	return fmt.Sprintf("H%09d", n.Int64()), nil
}

// StockRestocker returns an order's unshipped inventory to stock when the
// order is canceled
type StockRestocker struct {
	stock catalog.StockMover
}

// NewStockRestocker creates a restocker backed by the given stock mover
func NewStockRestocker(stock catalog.StockMover) *StockRestocker {
	return &StockRestocker{stock: stock}
}

// Restock returns every unshipped unit across the order's shipments
func (r *StockRestocker) Restock(ctx context.Context, o *order.Order) error {
	quantities := make(map[uuid.UUID]int)
	for _, unit := range o.InventoryUnits() {
		if unit.State == order.InventoryUnitShipped {
			continue
		}
		quantities[unit.VariantID]++
	}
	for variantID, quantity := range quantities {
		if err := r.stock.Restock(ctx, variantID, quantity); err != nil {
			return fmt.Errorf("failed to restock variant %s: %w", variantID, err)
		}
	}
	return nil
}
