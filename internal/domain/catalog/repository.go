package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository provides access to the product aggregate
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// VariantRepository provides read access to variants outside their product
type VariantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Variant, error)
	// FindByProduct returns all variants belonging to the product, master
	// variants excluded
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]Variant, error)
}

// StockChecker answers availability questions against the stock ledger
type StockChecker interface {
	// CountOnHand returns available stock for the variant
	CountOnHand(ctx context.Context, variantID uuid.UUID) (decimal.Decimal, error)
	// InStock reports whether at least quantity units are available
	InStock(ctx context.Context, variantID uuid.UUID, quantity int) (bool, error)
}

// StockMover adjusts the stock ledger
type StockMover interface {
	StockChecker
	// Allocate removes quantity units from available stock
	Allocate(ctx context.Context, variantID uuid.UUID, quantity int) error
	// Restock returns quantity units to available stock
	Restock(ctx context.Context, variantID uuid.UUID, quantity int) error
}
