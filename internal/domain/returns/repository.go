package returns

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ReturnAuthorizationRepository provides access to return authorizations
type ReturnAuthorizationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReturnAuthorization, error)
	FindByNumber(ctx context.Context, number string) (*ReturnAuthorization, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]ReturnAuthorization, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ReturnAuthorization, int64, error)
	Save(ctx context.Context, rma *ReturnAuthorization) error
	// GenerateNumber issues the next RMA number
	GenerateNumber(ctx context.Context) (string, error)
}

// ReturnItemRepository provides access to return items
type ReturnItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReturnItem, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*ReturnItem, error)
	FindByReturnAuthorization(ctx context.Context, rmaID uuid.UUID) ([]*ReturnItem, error)
	Save(ctx context.Context, item *ReturnItem) error
	SaveAll(ctx context.Context, items []*ReturnItem) error
}
