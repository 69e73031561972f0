package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVariantRepository is a mock implementation of catalog.VariantRepository
type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.Variant, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Variant), args.Error(1)
}

// MockStockMover is a mock implementation of catalog.StockMover
type MockStockMover struct {
	mock.Mock
}

func (m *MockStockMover) CountOnHand(ctx context.Context, variantID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, variantID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockStockMover) InStock(ctx context.Context, variantID uuid.UUID, quantity int) (bool, error) {
	args := m.Called(ctx, variantID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockStockMover) Allocate(ctx context.Context, variantID uuid.UUID, quantity int) error {
	args := m.Called(ctx, variantID, quantity)
	return args.Error(0)
}

func (m *MockStockMover) Restock(ctx context.Context, variantID uuid.UUID, quantity int) error {
	args := m.Called(ctx, variantID, quantity)
	return args.Error(0)
}

func createProductWithProperty(t *testing.T, name, value string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("Slim Jeans", "slim-jeans")
	assert.NoError(t, err)
	property, err := catalog.NewProperty(name, name)
	assert.NoError(t, err)
	_, err = product.AddProperty(property, value)
	assert.NoError(t, err)
	return product
}

func TestCatalogService_CreateProduct(t *testing.T) {
	t.Run("creates product with option types, variants and stock", func(t *testing.T) {
		products := new(MockProductRepository)
		stock := new(MockStockMover)
		service := NewService(products, new(MockVariantRepository), stock)

		products.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)
		stock.On("Restock", mock.Anything, mock.AnythingOfType("uuid.UUID"), 5).Return(nil)

		resp, err := service.CreateProduct(context.Background(), &CreateProductRequest{
			Name: "Slim Jeans",
			Slug: "slim-jeans",
			OptionTypes: []OptionTypeInput{
				{Name: "waist", Presentation: "Waist"},
			},
			Variants: []CreateVariantInput{
				{
					SKU:          "JEANS-32",
					Price:        decimal.NewFromInt(60),
					OptionValues: []OptionValueInput{{OptionType: "waist", Value: "32"}},
					InitialStock: 5,
				},
			},
			Available: true,
		})

		assert.NoError(t, err)
		assert.Equal(t, "slim-jeans", resp.Slug)
		assert.True(t, resp.Available)
		assert.Len(t, resp.Variants, 1)
		assert.Equal(t, "waist: 32", resp.Variants[0].OptionsText)
		stock.AssertExpectations(t)
	})

	t.Run("rejects a variant value for an unregistered option type", func(t *testing.T) {
		products := new(MockProductRepository)
		service := NewService(products, new(MockVariantRepository), new(MockStockMover))

		_, err := service.CreateProduct(context.Background(), &CreateProductRequest{
			Name: "Slim Jeans",
			Slug: "slim-jeans",
			Variants: []CreateVariantInput{
				{
					SKU:          "JEANS-32",
					Price:        decimal.NewFromInt(60),
					OptionValues: []OptionValueInput{{OptionType: "waist", Value: "32"}},
				},
			},
		})

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_OPTION_TYPE", domainErr.Code)
		products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCatalogService_AddProperty(t *testing.T) {
	t.Run("attaches a property value", func(t *testing.T) {
		products := new(MockProductRepository)
		service := NewService(products, new(MockVariantRepository), new(MockStockMover))

		product, err := catalog.NewProduct("Slim Jeans", "slim-jeans")
		assert.NoError(t, err)
		products.On("FindBySlug", mock.Anything, "slim-jeans").Return(product, nil)
		products.On("Save", mock.Anything, product).Return(nil)

		resp, err := service.AddProperty(context.Background(), "slim-jeans",
			&AddPropertyRequest{Name: "Material", Value: "Denim"})

		assert.NoError(t, err)
		assert.Equal(t, "Material", resp.PropertyName)
		assert.Equal(t, "Denim", resp.Value)
	})

	t.Run("surfaces the duplicate value field error", func(t *testing.T) {
		products := new(MockProductRepository)
		service := NewService(products, new(MockVariantRepository), new(MockStockMover))

		product := createProductWithProperty(t, "Material", "Denim")
		products.On("FindBySlug", mock.Anything, "slim-jeans").Return(product, nil)

		_, err := service.AddProperty(context.Background(), "slim-jeans",
			&AddPropertyRequest{Name: "Material", Value: "Denim"})

		var fieldErr *shared.FieldError
		assert.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "value", fieldErr.Field)
		assert.Equal(t, "has already been used for this product", fieldErr.Message)
		products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCatalogService_UpdateProperty(t *testing.T) {
	products := new(MockProductRepository)
	service := NewService(products, new(MockVariantRepository), new(MockStockMover))

	product := createProductWithProperty(t, "Material", "Denim")
	products.On("FindBySlug", mock.Anything, "slim-jeans").Return(product, nil)
	products.On("Save", mock.Anything, product).Return(nil)

	resp, err := service.UpdateProperty(context.Background(), "slim-jeans",
		product.Properties[0].ID, &UpdatePropertyRequest{Value: "Canvas"})

	assert.NoError(t, err)
	assert.Equal(t, "Canvas", resp.Value)
}

func TestCatalogService_RemoveProperty(t *testing.T) {
	products := new(MockProductRepository)
	service := NewService(products, new(MockVariantRepository), new(MockStockMover))

	product := createProductWithProperty(t, "Material", "Denim")
	products.On("FindBySlug", mock.Anything, "slim-jeans").Return(product, nil)
	products.On("Save", mock.Anything, product).Return(nil)

	err := service.RemoveProperty(context.Background(), "slim-jeans", product.Properties[0].ID)

	assert.NoError(t, err)
	assert.Empty(t, product.Properties)
}

type stubInvalidator struct {
	invalidated []string
}

func (s *stubInvalidator) Invalidate(_ context.Context, variantID string) error {
	s.invalidated = append(s.invalidated, variantID)
	return nil
}

func TestCatalogService_SetStock(t *testing.T) {
	t.Run("replenishes the variant", func(t *testing.T) {
		stock := new(MockStockMover)
		service := NewService(new(MockProductRepository), new(MockVariantRepository), stock)

		variantID := uuid.New()
		stock.On("Restock", mock.Anything, variantID, 10).Return(nil)

		err := service.SetStock(context.Background(), variantID, &SetStockRequest{Quantity: 10})

		assert.NoError(t, err)
		stock.AssertExpectations(t)
	})

	t.Run("invalidates the exchange lists of every sibling", func(t *testing.T) {
		stock := new(MockStockMover)
		variants := new(MockVariantRepository)
		invalidator := &stubInvalidator{}
		service := NewService(new(MockProductRepository), variants, stock)
		service.SetExchangeCacheInvalidator(invalidator)

		productID := uuid.New()
		price := valueobject.NewMoneyUSD(decimal.NewFromInt(30))
		restocked, err := catalog.NewVariant(productID, "SHIRT-S", price, nil)
		assert.NoError(t, err)
		sibling, err := catalog.NewVariant(productID, "SHIRT-M", price, nil)
		assert.NoError(t, err)

		stock.On("Restock", mock.Anything, restocked.ID, 4).Return(nil)
		variants.On("FindByID", mock.Anything, restocked.ID).Return(restocked, nil)
		variants.On("FindByProduct", mock.Anything, productID).
			Return([]catalog.Variant{*restocked, *sibling}, nil)

		err = service.SetStock(context.Background(), restocked.ID, &SetStockRequest{Quantity: 4})

		assert.NoError(t, err)
		assert.ElementsMatch(t,
			[]string{restocked.ID.String(), sibling.ID.String()},
			invalidator.invalidated)
	})
}
