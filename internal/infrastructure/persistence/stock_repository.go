package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockItem is one row of the stock ledger, keyed by variant
type StockItem struct {
	ID        uuid.UUID
	VariantID uuid.UUID `gorm:"uniqueIndex"`
	OnHand    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GormStockRepository implements catalog.StockMover using GORM.
// Allocate and Restock take a row lock so concurrent checkouts cannot
// oversell a variant.
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

func (r *GormStockRepository) conn(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).WithContext(ctx)
}

// CountOnHand returns available stock for the variant
func (r *GormStockRepository) CountOnHand(ctx context.Context, variantID uuid.UUID) (decimal.Decimal, error) {
	var item StockItem
	if err := r.conn(ctx).Where("variant_id = ?", variantID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return decimal.NewFromInt(int64(item.OnHand)), nil
}

// InStock reports whether at least quantity units are available
func (r *GormStockRepository) InStock(ctx context.Context, variantID uuid.UUID, quantity int) (bool, error) {
	onHand, err := r.CountOnHand(ctx, variantID)
	if err != nil {
		return false, err
	}
	return onHand.GreaterThanOrEqual(decimal.NewFromInt(int64(quantity))), nil
}

// Allocate removes quantity units from available stock
func (r *GormStockRepository) Allocate(ctx context.Context, variantID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("allocate quantity must be positive, got %d", quantity)
	}

	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var item StockItem
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("variant_id = ?", variantID).
			First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrInsufficientStock
			}
			return err
		}

		if item.OnHand < quantity {
			return shared.ErrInsufficientStock
		}

		return tx.Model(&StockItem{}).
			Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"on_hand":    gorm.Expr("on_hand - ?", quantity),
				"updated_at": time.Now(),
			}).Error
	})
}

// Restock returns quantity units to available stock, creating the ledger
// row if the variant has never been stocked
func (r *GormStockRepository) Restock(ctx context.Context, variantID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("restock quantity must be positive, got %d", quantity)
	}

	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var item StockItem
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("variant_id = ?", variantID).
			First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			now := time.Now()
			return tx.Create(&StockItem{
				ID:        uuid.New(),
				VariantID: variantID,
				OnHand:    quantity,
				CreatedAt: now,
				UpdatedAt: now,
			}).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&StockItem{}).
			Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"on_hand":    gorm.Expr("on_hand + ?", quantity),
				"updated_at": time.Now(),
			}).Error
	})
}

// GormSiblingFinder loads the in-stock sibling variants of a variant. It
// backs the exchange variant eligibility strategy.
type GormSiblingFinder struct {
	db *gorm.DB
}

// NewGormSiblingFinder creates a new GormSiblingFinder
func NewGormSiblingFinder(db *gorm.DB) *GormSiblingFinder {
	return &GormSiblingFinder{db: db}
}

func (f *GormSiblingFinder) conn(ctx context.Context) *gorm.DB {
	return dbFor(ctx, f.db).WithContext(ctx)
}

// InStockSiblings returns the variants sharing the source variant's product
// that have at least one unit on hand
func (f *GormSiblingFinder) InStockSiblings(ctx context.Context, variant *catalog.Variant) ([]*catalog.Variant, error) {
	var variants []*catalog.Variant
	if err := f.conn(ctx).
		Joins("JOIN stock_items ON stock_items.variant_id = variants.id").
		Where("variants.product_id = ? AND variants.is_master = ? AND stock_items.on_hand > 0",
			variant.ProductID, false).
		Order("variants.position ASC").
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}
