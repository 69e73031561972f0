package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) conn(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).WithContext(ctx)
}

// FindByID loads a product with its variants and properties
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.conn(ctx).
		Preload("Variants").
		Preload("Properties").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads a product by its URL slug
func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.conn(ctx).
		Preload("Variants").
		Preload("Properties").
		Where("slug = ?", slug).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll lists products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	var products []catalog.Product
	var total int64

	query := r.conn(ctx).Model(&catalog.Product{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR slug ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Save persists the product aggregate whole. Properties removed from the
// aggregate are deleted.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(product).Error; err != nil {
			return err
		}

		currentPropertyIDs := make([]uuid.UUID, len(product.Properties))
		for i := range product.Properties {
			product.Properties[i].ProductID = product.ID
			currentPropertyIDs[i] = product.Properties[i].ID
			if err := tx.Save(&product.Properties[i]).Error; err != nil {
				return err
			}
		}
		pruned := tx.Where("product_id = ?", product.ID)
		if len(currentPropertyIDs) > 0 {
			pruned = pruned.Where("id NOT IN ?", currentPropertyIDs)
		}
		if err := pruned.Delete(&catalog.ProductProperty{}).Error; err != nil {
			return err
		}

		for i := range product.Variants {
			product.Variants[i].ProductID = product.ID
			if err := tx.Save(&product.Variants[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a product and its dependents
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&catalog.ProductProperty{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&catalog.Variant{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&catalog.Product{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// GormVariantRepository implements catalog.VariantRepository using GORM
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

func (r *GormVariantRepository) conn(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).WithContext(ctx)
}

// FindByID finds a variant by its ID
func (r *GormVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	var variant catalog.Variant
	if err := r.conn(ctx).First(&variant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindByProduct returns all variants belonging to the product, master
// variants excluded
func (r *GormVariantRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.Variant, error) {
	var variants []catalog.Variant
	if err := r.conn(ctx).
		Where("product_id = ? AND is_master = ?", productID, false).
		Order("position ASC").
		Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}
