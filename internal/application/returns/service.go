package returns

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/returns"
	"github.com/storefront/backend/internal/domain/shared"
)

// Service manages the return flow: issuing RMAs, registering return items,
// evaluating their eligibility and performing exchanges.
type Service struct {
	orders         order.Repository
	rmas           returns.ReturnAuthorizationRepository
	items          returns.ReturnItemRepository
	variants       catalog.VariantRepository
	stock          catalog.StockMover
	tx             shared.TransactionManager
	eligibility    returns.EligibilityValidator
	exchangeables  returns.VariantEligibility
	eventPublisher shared.EventPublisher
}

// NewService creates a returns service
func NewService(
	orders order.Repository,
	rmas returns.ReturnAuthorizationRepository,
	items returns.ReturnItemRepository,
	variants catalog.VariantRepository,
	stock catalog.StockMover,
	tx shared.TransactionManager,
	eligibility returns.EligibilityValidator,
	exchangeables returns.VariantEligibility,
) *Service {
	return &Service{
		orders:        orders,
		rmas:          rmas,
		items:         items,
		variants:      variants,
		stock:         stock,
		tx:            tx,
		eligibility:   eligibility,
		exchangeables: exchangeables,
	}
}

// SetEventPublisher sets the event publisher for the service
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateReturnAuthorization opens an RMA against a completed order
func (s *Service) CreateReturnAuthorization(ctx context.Context, req *CreateReturnAuthorizationRequest) (*ReturnAuthorizationResponse, error) {
	o, err := s.orders.FindByNumber(ctx, req.OrderNumber)
	if err != nil {
		return nil, err
	}
	if !o.Completed() {
		return nil, shared.NewDomainError("ORDER_NOT_COMPLETED",
			"Return authorizations can only be opened for completed orders")
	}

	number, err := s.rmas.GenerateNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RMA number: %w", err)
	}

	rma, err := returns.NewReturnAuthorization(number, o.ID, req.Memo)
	if err != nil {
		return nil, err
	}

	if err := s.rmas.Save(ctx, rma); err != nil {
		return nil, fmt.Errorf("failed to save return authorization: %w", err)
	}
	s.publishEvents(ctx, rma)

	resp := ToReturnAuthorizationResponse(rma)
	return &resp, nil
}

// GetReturnAuthorization returns an RMA by number, with its items
func (s *Service) GetReturnAuthorization(ctx context.Context, number string) (*ReturnAuthorizationResponse, []ReturnItemResponse, error) {
	rma, err := s.rmas.FindByNumber(ctx, number)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.items.FindByReturnAuthorization(ctx, rma.ID)
	if err != nil {
		return nil, nil, err
	}

	resp := ToReturnAuthorizationResponse(rma)
	return &resp, toReturnItemResponses(items), nil
}

// ListReturnAuthorizations returns a page of RMAs
func (s *Service) ListReturnAuthorizations(ctx context.Context, filter *ReturnAuthorizationListFilter) ([]ReturnAuthorizationResponse, int64, error) {
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

	rmas, total, err := s.rmas.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ReturnAuthorizationResponse, len(rmas))
	for i := range rmas {
		responses[i] = ToReturnAuthorizationResponse(&rmas[i])
	}
	return responses, total, nil
}

// CancelReturnAuthorization revokes the RMA
func (s *Service) CancelReturnAuthorization(ctx context.Context, number string) (*ReturnAuthorizationResponse, error) {
	rma, err := s.rmas.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if err := rma.Cancel(); err != nil {
		return nil, err
	}
	if err := s.rmas.Save(ctx, rma); err != nil {
		return nil, fmt.Errorf("failed to save return authorization: %w", err)
	}

	resp := ToReturnAuthorizationResponse(rma)
	return &resp, nil
}

// CreateReturnItems registers inventory units of the RMA's order for return
// and evaluates each item's eligibility. Items carrying an exchange variant
// must pick it from the variant's eligible exchange set.
func (s *Service) CreateReturnItems(ctx context.Context, rmaNumber string, req *CreateReturnItemsRequest) ([]ReturnItemResponse, error) {
	rma, err := s.rmas.FindByNumber(ctx, rmaNumber)
	if err != nil {
		return nil, err
	}
	o, err := s.orders.FindByID(ctx, rma.OrderID)
	if err != nil {
		return nil, err
	}

	purchasedAt := o.CreatedAt
	if o.CompletedAt != nil {
		purchasedAt = *o.CompletedAt
	}

	units := o.InventoryUnits()
	items := make([]*returns.ReturnItem, 0, len(req.Items))
	for _, input := range req.Items {
		unit := findInventoryUnit(units, input.InventoryUnitID)
		if unit == nil {
			return nil, shared.NewDomainError("INVALID_INVENTORY_UNIT",
				fmt.Sprintf("Inventory unit %s does not belong to order %s", input.InventoryUnitID, o.Number))
		}
		lineItem := o.GetLineItem(unit.LineItemID)
		if lineItem == nil {
			return nil, shared.NewDomainError("INVALID_LINE_ITEM",
				fmt.Sprintf("Line item %s not found on order %s", unit.LineItemID, o.Number))
		}

		item, err := returns.NewReturnItem(unit, lineItem, purchasedAt)
		if err != nil {
			return nil, err
		}
		if err := item.Authorize(rma); err != nil {
			return nil, err
		}

		if input.ExchangeVariantID != nil {
			if err := s.setExchangeVariant(ctx, item, *input.ExchangeVariantID); err != nil {
				return nil, err
			}
		}

		item.Evaluate(s.eligibility)
		items = append(items, item)
	}

	if err := s.items.SaveAll(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to save return items: %w", err)
	}
	return toReturnItemResponses(items), nil
}

// EligibleExchangeVariants lists the variants a return item's variant may be
// exchanged into
func (s *Service) EligibleExchangeVariants(ctx context.Context, returnItemID uuid.UUID) ([]ExchangeVariantResponse, error) {
	item, err := s.items.FindByID(ctx, returnItemID)
	if err != nil {
		return nil, err
	}
	variant, err := s.variants.FindByID(ctx, item.VariantID)
	if err != nil {
		return nil, err
	}

	eligible, err := s.exchangeables.EligibleVariants(ctx, variant)
	if err != nil {
		return nil, err
	}

	responses := make([]ExchangeVariantResponse, len(eligible))
	for i, v := range eligible {
		responses[i] = ToExchangeVariantResponse(v)
	}
	return responses, nil
}

// PreviewExchange describes the exchange the given return items would
// produce, without performing it
func (s *Service) PreviewExchange(ctx context.Context, req *PerformExchangeRequest) (*ExchangePreviewResponse, error) {
	o, items, err := s.loadExchange(ctx, req.ReturnItemIDs)
	if err != nil {
		return nil, err
	}

	exchange := returns.NewExchange(o, items)
	return &ExchangePreviewResponse{
		Description:   exchange.Description(),
		DisplayAmount: exchange.DisplayAmount().Display(),
		Items:         toReturnItemResponses(items),
	}, nil
}

// PerformExchange executes the exchange in one transaction: it creates a
// ready shipment holding the replacement units, allocates their stock and
// consumes the return items. Any failure rolls the whole exchange back.
func (s *Service) PerformExchange(ctx context.Context, req *PerformExchangeRequest) (*ExchangeResultResponse, error) {
	o, items, err := s.loadExchange(ctx, req.ReturnItemIDs)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if !item.Eligible() {
			return nil, shared.NewDomainError("INELIGIBLE_RETURN_ITEM",
				fmt.Sprintf("Return item %s has not been accepted for return", item.ID))
		}
	}

	number, err := checkout.GenerateShipmentNumber()
	if err != nil {
		return nil, err
	}

	exchange := returns.NewExchange(o, items)
	var shipment *order.Shipment
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		shipment, err = exchange.Perform(ctx, s.stock, number)
		if err != nil {
			return err
		}

		allocated := make(map[uuid.UUID]int)
		for i := range shipment.InventoryUnits {
			allocated[shipment.InventoryUnits[i].VariantID]++
		}
		for variantID, quantity := range allocated {
			if err := s.stock.Allocate(ctx, variantID, quantity); err != nil {
				return err
			}
		}

		if err := s.orders.Save(ctx, o); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		if err := s.items.SaveAll(ctx, items); err != nil {
			return fmt.Errorf("failed to save return items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, o)

	return &ExchangeResultResponse{
		ShipmentID:     shipment.ID,
		ShipmentNumber: shipment.Number,
		ShipmentState:  string(shipment.State),
		Items:          toReturnItemResponses(items),
	}, nil
}

// loadExchange resolves the return items, their owning order and the variant
// references the exchange needs
func (s *Service) loadExchange(ctx context.Context, itemIDs []uuid.UUID) (*order.Order, []*returns.ReturnItem, error) {
	items, err := s.items.FindByIDs(ctx, itemIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		return nil, nil, shared.NewDomainError("EMPTY_EXCHANGE", "An exchange requires at least one return item")
	}

	first := items[0]
	if first.ReturnAuthorizationID == nil {
		return nil, nil, shared.NewDomainError("INVALID_RMA", "Return items are not attached to a return authorization")
	}
	rma, err := s.rmas.FindByID(ctx, *first.ReturnAuthorizationID)
	if err != nil {
		return nil, nil, err
	}
	o, err := s.orders.FindByID(ctx, rma.OrderID)
	if err != nil {
		return nil, nil, err
	}

	for _, item := range items {
		if item.ReturnAuthorizationID == nil || *item.ReturnAuthorizationID != rma.ID {
			return nil, nil, shared.NewDomainError("MIXED_EXCHANGE",
				"All return items of an exchange must belong to the same return authorization")
		}
		if err := s.loadVariants(ctx, item); err != nil {
			return nil, nil, err
		}
	}
	return o, items, nil
}

// loadVariants populates the variant references the repository does not carry
func (s *Service) loadVariants(ctx context.Context, item *returns.ReturnItem) error {
	variant, err := s.variants.FindByID(ctx, item.VariantID)
	if err != nil {
		return err
	}
	item.Variant = variant

	if item.ExchangeVariantID != nil {
		exchangeVariant, err := s.variants.FindByID(ctx, *item.ExchangeVariantID)
		if err != nil {
			return err
		}
		item.ExchangeVariant = exchangeVariant
	}
	return nil
}

// setExchangeVariant validates the requested replacement against the
// variant's eligible exchange set and records it
func (s *Service) setExchangeVariant(ctx context.Context, item *returns.ReturnItem, exchangeVariantID uuid.UUID) error {
	source, err := s.variants.FindByID(ctx, item.VariantID)
	if err != nil {
		return err
	}
	item.Variant = source

	eligible, err := s.exchangeables.EligibleVariants(ctx, source)
	if err != nil {
		return err
	}
	for _, candidate := range eligible {
		if candidate.ID == exchangeVariantID {
			return item.SetExchangeVariant(candidate)
		}
	}
	return shared.NewDomainError("INELIGIBLE_EXCHANGE_VARIANT",
		fmt.Sprintf("Variant %s is not an eligible exchange for %s", exchangeVariantID, source.SKU))
}

func findInventoryUnit(units []order.InventoryUnit, id uuid.UUID) *order.InventoryUnit {
	for i := range units {
		if units[i].ID == id {
			return &units[i]
		}
	}
	return nil
}

func (s *Service) publishEvents(ctx context.Context, aggregate interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range aggregate.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	aggregate.ClearDomainEvents()
}
