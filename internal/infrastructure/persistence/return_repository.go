package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/returns"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

const rmaNumberPrefix = "RA"

// GormReturnAuthorizationRepository implements
// returns.ReturnAuthorizationRepository using GORM
type GormReturnAuthorizationRepository struct {
	db *gorm.DB
}

// NewGormReturnAuthorizationRepository creates a new repository
func NewGormReturnAuthorizationRepository(db *gorm.DB) *GormReturnAuthorizationRepository {
	return &GormReturnAuthorizationRepository{db: db}
}

func (r *GormReturnAuthorizationRepository) conn(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).WithContext(ctx)
}

// FindByID finds a return authorization by its ID
func (r *GormReturnAuthorizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.ReturnAuthorization, error) {
	var rma returns.ReturnAuthorization
	if err := r.conn(ctx).First(&rma, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rma, nil
}

// FindByNumber finds a return authorization by its number
func (r *GormReturnAuthorizationRepository) FindByNumber(ctx context.Context, number string) (*returns.ReturnAuthorization, error) {
	var rma returns.ReturnAuthorization
	if err := r.conn(ctx).Where("number = ?", number).First(&rma).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rma, nil
}

// FindByOrder lists the return authorizations raised against an order
func (r *GormReturnAuthorizationRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]returns.ReturnAuthorization, error) {
	var rmas []returns.ReturnAuthorization
	if err := r.conn(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&rmas).Error; err != nil {
		return nil, err
	}
	return rmas, nil
}

// FindAll lists return authorizations matching the filter
func (r *GormReturnAuthorizationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]returns.ReturnAuthorization, int64, error) {
	var rmas []returns.ReturnAuthorization
	var total int64

	query := r.conn(ctx).Model(&returns.ReturnAuthorization{})
	if filter.Search != "" {
		query = query.Where("number ILIKE ?", "%"+filter.Search+"%")
	}
	if state, ok := filter.Filters["state"]; ok {
		query = query.Where("state = ?", state)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, ReturnAuthorizationSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&rmas).Error; err != nil {
		return nil, 0, err
	}
	return rmas, total, nil
}

// Save creates or updates a return authorization
func (r *GormReturnAuthorizationRepository) Save(ctx context.Context, rma *returns.ReturnAuthorization) error {
	return r.conn(ctx).Save(rma).Error
}

// GenerateNumber issues the next RMA number
func (r *GormReturnAuthorizationRepository) GenerateNumber(ctx context.Context) (string, error) {
	return generateUniqueNumber(ctx, dbFor(ctx, r.db), rmaNumberPrefix, func(candidate string) (bool, error) {
		var count int64
		err := r.conn(ctx).Model(&returns.ReturnAuthorization{}).
			Where("number = ?", candidate).Count(&count).Error
		return count == 0, err
	})
}

// GormReturnItemRepository implements returns.ReturnItemRepository using GORM
type GormReturnItemRepository struct {
	db *gorm.DB
}

// NewGormReturnItemRepository creates a new repository
func NewGormReturnItemRepository(db *gorm.DB) *GormReturnItemRepository {
	return &GormReturnItemRepository{db: db}
}

func (r *GormReturnItemRepository) conn(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).WithContext(ctx)
}

// FindByID finds a return item by its ID
func (r *GormReturnItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.ReturnItem, error) {
	var item returns.ReturnItem
	if err := r.conn(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDs loads the given return items. Missing IDs surface as
// shared.ErrNotFound so callers never operate on a partial exchange.
func (r *GormReturnItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*returns.ReturnItem, error) {
	var items []*returns.ReturnItem
	if err := r.conn(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) != len(ids) {
		return nil, shared.ErrNotFound
	}
	return items, nil
}

// FindByReturnAuthorization lists the items attached to an RMA
func (r *GormReturnItemRepository) FindByReturnAuthorization(ctx context.Context, rmaID uuid.UUID) ([]*returns.ReturnItem, error) {
	var items []*returns.ReturnItem
	if err := r.conn(ctx).
		Where("return_authorization_id = ?", rmaID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates a return item
func (r *GormReturnItemRepository) Save(ctx context.Context, item *returns.ReturnItem) error {
	return r.conn(ctx).Save(item).Error
}

// SaveAll persists the items in one transaction
func (r *GormReturnItemRepository) SaveAll(ctx context.Context, items []*returns.ReturnItem) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := tx.Save(item).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
