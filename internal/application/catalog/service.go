package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ExchangeCacheInvalidator drops cached exchange-variant lists. Restocking a
// variant changes which sibling lists it appears on.
type ExchangeCacheInvalidator interface {
	Invalidate(ctx context.Context, variantID string) error
}

// Service manages the product catalog: products with their option types and
// variants, product properties and stock replenishment.
type Service struct {
	products       catalog.ProductRepository
	variants       catalog.VariantRepository
	stock          catalog.StockMover
	exchangeCache  ExchangeCacheInvalidator
	eventPublisher shared.EventPublisher
}

// NewService creates a catalog service
func NewService(products catalog.ProductRepository, variants catalog.VariantRepository, stock catalog.StockMover) *Service {
	return &Service{
		products: products,
		variants: variants,
		stock:    stock,
	}
}

// SetEventPublisher sets the event publisher for the service
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetExchangeCacheInvalidator enables cache invalidation on stock changes
func (s *Service) SetExchangeCacheInvalidator(invalidator ExchangeCacheInvalidator) {
	s.exchangeCache = invalidator
}

// CreateProduct creates a product together with its option types and
// variants, seeding initial stock where given
func (s *Service) CreateProduct(ctx context.Context, req *CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name, req.Slug)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description

	optionTypes := make(map[string]*catalog.OptionType, len(req.OptionTypes))
	for _, input := range req.OptionTypes {
		ot, err := catalog.NewOptionType(input.Name, input.Presentation)
		if err != nil {
			return nil, err
		}
		if err := product.AddOptionType(*ot); err != nil {
			return nil, err
		}
		optionTypes[ot.Name] = ot
	}

	type seeding struct {
		variantID uuid.UUID
		quantity  int
	}
	var seedings []seeding
	for _, input := range req.Variants {
		values := make([]catalog.OptionValue, 0, len(input.OptionValues))
		for _, ov := range input.OptionValues {
			ot, ok := optionTypes[ov.OptionType]
			if !ok {
				return nil, shared.NewDomainError("INVALID_OPTION_TYPE",
					fmt.Sprintf("Option type %s is not registered on the product", ov.OptionType))
			}
			value, err := catalog.NewOptionValue(ot, ov.Value, ov.Presentation)
			if err != nil {
				return nil, err
			}
			value.Position = ot.Position
			values = append(values, *value)
		}

		price := valueobject.NewMoneyUSD(input.Price)
		variant, err := catalog.NewVariant(product.ID, input.SKU, price, values)
		if err != nil {
			return nil, err
		}
		if err := product.AddVariant(variant); err != nil {
			return nil, err
		}
		if input.InitialStock > 0 {
			seedings = append(seedings, seeding{variantID: variant.ID, quantity: input.InitialStock})
		}
	}

	if req.Available {
		product.MakeAvailable()
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}
	for _, seed := range seedings {
		if err := s.stock.Restock(ctx, seed.variantID, seed.quantity); err != nil {
			return nil, fmt.Errorf("failed to seed stock: %w", err)
		}
	}
	s.publishEvents(ctx, product)

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetProduct returns a product by slug
func (s *Service) GetProduct(ctx context.Context, slug string) (*ProductResponse, error) {
	product, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// ListProducts returns a page of products
func (s *Service) ListProducts(ctx context.Context, filter *ProductListFilter) ([]ProductResponse, int64, error) {
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
	}

	products, total, err := s.products.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, total, nil
}

// DeleteProduct removes a product and everything it owns
func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.products.Delete(ctx, id)
}

// AddProperty attaches a property value to the product. A (name, value)
// pair already present on the product is rejected with a field error.
func (s *Service) AddProperty(ctx context.Context, slug string, req *AddPropertyRequest) (*ProductPropertyResponse, error) {
	product, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	property, err := catalog.NewProperty(req.Name, req.Presentation)
	if err != nil {
		return nil, err
	}
	pp, err := product.AddProperty(property, req.Value)
	if err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	resp := ToProductPropertyResponse(pp)
	return &resp, nil
}

// UpdateProperty changes the value of an attached product property
func (s *Service) UpdateProperty(ctx context.Context, slug string, productPropertyID uuid.UUID, req *UpdatePropertyRequest) (*ProductPropertyResponse, error) {
	product, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	pp, err := product.UpdateProperty(productPropertyID, req.Value)
	if err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	resp := ToProductPropertyResponse(pp)
	return &resp, nil
}

// RemoveProperty detaches a product property
func (s *Service) RemoveProperty(ctx context.Context, slug string, productPropertyID uuid.UUID) error {
	product, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}

	if err := product.RemoveProperty(productPropertyID); err != nil {
		return err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// ListProperties returns the product's properties in position order
func (s *Service) ListProperties(ctx context.Context, slug string) ([]ProductPropertyResponse, error) {
	product, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductPropertyResponse, len(product.Properties))
	for i := range product.Properties {
		responses[i] = ToProductPropertyResponse(&product.Properties[i])
	}
	return responses, nil
}

// SetStock replenishes a variant's stock and drops the cached exchange lists
// of every variant sharing its product
func (s *Service) SetStock(ctx context.Context, variantID uuid.UUID, req *SetStockRequest) error {
	if err := s.stock.Restock(ctx, variantID, req.Quantity); err != nil {
		return fmt.Errorf("failed to restock variant %s: %w", variantID, err)
	}
	s.invalidateExchangeLists(ctx, variantID)
	return nil
}

// invalidateExchangeLists is best effort: a failed invalidation only extends
// staleness until the cache TTL expires
func (s *Service) invalidateExchangeLists(ctx context.Context, variantID uuid.UUID) {
	if s.exchangeCache == nil {
		return
	}

	variant, err := s.variants.FindByID(ctx, variantID)
	if err != nil {
		logger.L(ctx).Warn("Could not resolve variant for cache invalidation",
			zap.String("variant_id", variantID.String()), zap.Error(err))
		return
	}
	siblings, err := s.variants.FindByProduct(ctx, variant.ProductID)
	if err != nil {
		logger.L(ctx).Warn("Could not list siblings for cache invalidation",
			zap.String("product_id", variant.ProductID.String()), zap.Error(err))
		return
	}

	for i := range siblings {
		if err := s.exchangeCache.Invalidate(ctx, siblings[i].ID.String()); err != nil {
			logger.L(ctx).Warn("Exchange list invalidation failed",
				zap.String("variant_id", siblings[i].ID.String()), zap.Error(err))
		}
	}
}

func (s *Service) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range product.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	product.ClearDomainEvents()
}
