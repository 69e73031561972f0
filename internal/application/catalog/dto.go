package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// CreateProductRequest creates a product with its option types and variants
type CreateProductRequest struct {
	Name        string               `json:"name" binding:"required,min=1,max=200"`
	Slug        string               `json:"slug" binding:"required,min=1,max=200"`
	Description string               `json:"description" binding:"max=2000"`
	OptionTypes []OptionTypeInput    `json:"option_types" binding:"dive"`
	Variants    []CreateVariantInput `json:"variants" binding:"dive"`
	Available   bool                 `json:"available"`
}

// OptionTypeInput declares one axis the product's variants vary along
type OptionTypeInput struct {
	Name         string `json:"name" binding:"required,min=1,max=100"`
	Presentation string `json:"presentation" binding:"max=100"`
}

// CreateVariantInput is one sellable variant of the product
type CreateVariantInput struct {
	SKU          string             `json:"sku" binding:"required,min=1,max=100"`
	Price        decimal.Decimal    `json:"price" binding:"required"`
	OptionValues []OptionValueInput `json:"option_values" binding:"dive"`
	InitialStock int                `json:"initial_stock" binding:"min=0"`
}

// OptionValueInput assigns a value for one of the product's option types
type OptionValueInput struct {
	OptionType   string `json:"option_type" binding:"required"`
	Value        string `json:"value" binding:"required,min=1,max=100"`
	Presentation string `json:"presentation" binding:"max=100"`
}

// AddPropertyRequest attaches a property value to a product
type AddPropertyRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=100"`
	Presentation string `json:"presentation" binding:"max=100"`
	Value        string `json:"value" binding:"required"`
}

// UpdatePropertyRequest changes the value of an attached product property
type UpdatePropertyRequest struct {
	Value string `json:"value" binding:"required"`
}

// SetStockRequest replenishes a variant's stock
type SetStockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// VariantResponse is the API shape of a variant
type VariantResponse struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Price       decimal.Decimal `json:"price"`
	IsMaster    bool            `json:"is_master"`
	OptionsText string          `json:"options_text,omitempty"`
	Position    int             `json:"position"`
}

// ProductPropertyResponse is the API shape of a product property
type ProductPropertyResponse struct {
	ID           uuid.UUID `json:"id"`
	PropertyName string    `json:"property_name"`
	Value        string    `json:"value"`
	Position     int       `json:"position"`
}

// ProductResponse is the API shape of a product
type ProductResponse struct {
	ID          uuid.UUID                 `json:"id"`
	Name        string                    `json:"name"`
	Slug        string                    `json:"slug"`
	Description string                    `json:"description,omitempty"`
	Available   bool                      `json:"available"`
	AvailableOn *time.Time                `json:"available_on,omitempty"`
	Variants    []VariantResponse         `json:"variants"`
	Properties  []ProductPropertyResponse `json:"properties"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// ToProductResponse maps a product aggregate to its API shape
func ToProductResponse(p *catalog.Product) ProductResponse {
	variants := make([]VariantResponse, len(p.Variants))
	for i := range p.Variants {
		variants[i] = ToVariantResponse(&p.Variants[i])
	}

	properties := make([]ProductPropertyResponse, len(p.Properties))
	for i, pp := range p.Properties {
		properties[i] = ToProductPropertyResponse(&pp)
	}

	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Available:   p.Available(),
		AvailableOn: p.AvailableOn,
		Variants:    variants,
		Properties:  properties,
		CreatedAt:   p.CreatedAt,
	}
}

// ToVariantResponse maps a variant to its API shape
func ToVariantResponse(v *catalog.Variant) VariantResponse {
	return VariantResponse{
		ID:          v.ID,
		SKU:         v.SKU,
		Price:       v.Price,
		IsMaster:    v.IsMaster,
		OptionsText: v.OptionsText(),
		Position:    v.Position,
	}
}

// ToProductPropertyResponse maps a product property to its API shape
func ToProductPropertyResponse(pp *catalog.ProductProperty) ProductPropertyResponse {
	return ProductPropertyResponse{
		ID:           pp.ID,
		PropertyName: pp.PropertyName,
		Value:        pp.Value,
		Position:     pp.Position,
	}
}
