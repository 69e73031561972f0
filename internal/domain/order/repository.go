package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Repository provides access to the order aggregate. Orders are loaded and
// saved whole: line items, shipments, inventory units and payments travel
// with the root.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByNumber(ctx context.Context, number string) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, int64, error)
	Save(ctx context.Context, o *Order) error
	// GenerateNumber produces the next unique order number
	GenerateNumber(ctx context.Context) (string, error)
}
