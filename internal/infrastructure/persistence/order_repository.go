package persistence

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// orderNumberPrefix matches the customer-facing numbers printed on
// receipts and confirmation emails
const orderNumberPrefix = "R"

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) conn(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).WithContext(ctx)
}

// FindByID loads an order with its line items, shipments, inventory units
// and payments
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.conn(ctx).
		Preload("LineItems").
		Preload("Shipments").
		Preload("Shipments.InventoryUnits").
		Preload("Payments").
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByNumber loads an order by its customer-facing number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*order.Order, error) {
	var o order.Order
	if err := r.conn(ctx).
		Preload("LineItems").
		Preload("Shipments").
		Preload("Shipments.InventoryUnits").
		Preload("Payments").
		Where("number = ?", number).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAll lists orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, int64, error) {
	var orders []order.Order
	var total int64

	base := r.applyFilterWithoutPagination(
		r.conn(ctx).Model(&order.Order{}), filter)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.applyFilter(r.conn(ctx).Model(&order.Order{}), filter)
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Save persists the order aggregate whole
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(o).Error; err != nil {
			return err
		}

		for i := range o.LineItems {
			o.LineItems[i].OrderID = o.ID
			if err := tx.Save(&o.LineItems[i]).Error; err != nil {
				return err
			}
		}
		for i := range o.Shipments {
			o.Shipments[i].OrderID = o.ID
			if err := tx.Save(&o.Shipments[i]).Error; err != nil {
				return err
			}
			for j := range o.Shipments[i].InventoryUnits {
				o.Shipments[i].InventoryUnits[j].ShipmentID = o.Shipments[i].ID
				if err := tx.Save(&o.Shipments[i].InventoryUnits[j]).Error; err != nil {
					return err
				}
			}
		}
		for i := range o.Payments {
			o.Payments[i].OrderID = o.ID
			if err := tx.Save(&o.Payments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GenerateNumber produces the next unique order number
func (r *GormOrderRepository) GenerateNumber(ctx context.Context) (string, error) {
	return generateUniqueNumber(ctx, dbFor(ctx, r.db), orderNumberPrefix, func(candidate string) (bool, error) {
		var count int64
		err := r.conn(ctx).Model(&order.Order{}).
			Where("number = ?", candidate).Count(&count).Error
		return count == 0, err
	})
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	return query
}

func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "state":
			query = query.Where("state = ?", value)
		case "payment_state":
			query = query.Where("payment_state = ?", value)
		case "shipment_state":
			query = query.Where("shipment_state = ?", value)
		case "email":
			query = query.Where("email = ?", value)
		case "completed":
			if completed, ok := value.(bool); ok {
				if completed {
					query = query.Where("completed_at IS NOT NULL")
				} else {
					query = query.Where("completed_at IS NULL")
				}
			}
		}
	}
	return query
}

// generateUniqueNumber builds a prefixed nine digit candidate and retries
// until the uniqueness probe accepts it
func generateUniqueNumber(ctx context.Context, db *gorm.DB, prefix string, unique func(string) (bool, error)) (string, error) {
	const attempts = 10
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		var digits strings.Builder
		for j := 0; j < 9; j++ {
			fmt.Fprintf(&digits, "%d", rand.Intn(10))
		}
		candidate := prefix + digits.String()

		ok, err := unique(candidate)
		if err != nil {
			return "", err
		}
		if ok {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique %s number after %d attempts", prefix, attempts)
}
