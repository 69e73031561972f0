package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Product is the catalog aggregate root. It owns its variants, the option
// types its variants vary along, and its ordered product properties.
type Product struct {
	shared.BaseAggregateRoot
	Name        string
	Slug        string
	Description string
	OptionTypes []OptionType `gorm:"serializer:json"`
	Variants    []Variant
	Properties  []ProductProperty
	AvailableOn *time.Time
}

// NewProduct creates a new product
func NewProduct(name, slug string) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Product slug cannot be empty")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		OptionTypes:       make([]OptionType, 0),
		Variants:          make([]Variant, 0),
		Properties:        make([]ProductProperty, 0),
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// AddOptionType registers an option type on the product
func (p *Product) AddOptionType(ot OptionType) error {
	for _, existing := range p.OptionTypes {
		if existing.Name == ot.Name {
			return shared.NewDomainError("DUPLICATE_OPTION_TYPE", "Option type already registered on product")
		}
	}
	ot.Position = len(p.OptionTypes)
	p.OptionTypes = append(p.OptionTypes, ot)
	p.UpdatedAt = time.Now()
	return nil
}

// AddVariant adds a variant to the product. The variant must carry a value
// for every option type registered on the product.
func (p *Product) AddVariant(variant *Variant) error {
	if variant == nil {
		return shared.NewDomainError("INVALID_VARIANT", "Variant cannot be nil")
	}
	if variant.ProductID != p.ID {
		return shared.NewDomainError("INVALID_VARIANT", "Variant belongs to a different product")
	}
	for _, ot := range p.OptionTypes {
		if variant.OptionValueFor(ot.Name) == nil {
			return shared.NewDomainError("MISSING_OPTION_VALUE", "Variant is missing a value for option type "+ot.Name)
		}
	}

	variant.Position = len(p.Variants)
	p.Variants = append(p.Variants, *variant)
	p.UpdatedAt = time.Now()
	return nil
}

// AddProperty attaches a property value to the product.
// The (property name, value) pair must be unique within the product's
// property set; a duplicate is rejected with a field-level error on value.
func (p *Product) AddProperty(property *Property, value string) (*ProductProperty, error) {
	if property == nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property cannot be nil")
	}
	if err := validatePropertyValue(value); err != nil {
		return nil, err
	}
	for _, existing := range p.Properties {
		if existing.PropertyName == property.Name && existing.Value == value {
			return nil, shared.NewFieldError("value", "has already been used for this product")
		}
	}

	now := time.Now()
	pp := ProductProperty{
		ID:           uuid.New(),
		ProductID:    p.ID,
		PropertyID:   property.ID,
		PropertyName: property.Name,
		Value:        value,
		Position:     len(p.Properties),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	p.Properties = append(p.Properties, pp)
	p.UpdatedAt = now

	return &pp, nil
}

// UpdateProperty changes the value of an attached product property. The
// (property name, value) uniqueness rule applies against the product's
// other properties.
func (p *Product) UpdateProperty(productPropertyID uuid.UUID, value string) (*ProductProperty, error) {
	var target *ProductProperty
	for idx := range p.Properties {
		if p.Properties[idx].ID == productPropertyID {
			target = &p.Properties[idx]
			break
		}
	}
	if target == nil {
		return nil, shared.NewDomainError("PROPERTY_NOT_FOUND", "Product property not found")
	}
	for idx := range p.Properties {
		if p.Properties[idx].ID == productPropertyID {
			continue
		}
		if p.Properties[idx].PropertyName == target.PropertyName && p.Properties[idx].Value == value {
			return nil, shared.NewFieldError("value", "has already been used for this product")
		}
	}
	if err := target.UpdateValue(value); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()
	return target, nil
}

// RemoveProperty detaches a product property by ID
func (p *Product) RemoveProperty(propertyID uuid.UUID) error {
	for idx, pp := range p.Properties {
		if pp.ID == propertyID {
			p.Properties = append(p.Properties[:idx], p.Properties[idx+1:]...)
			for i := range p.Properties {
				p.Properties[i].Position = i
			}
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("PROPERTY_NOT_FOUND", "Product property not found")
}

// GetVariant returns a variant by ID, or nil
func (p *Product) GetVariant(variantID uuid.UUID) *Variant {
	for idx := range p.Variants {
		if p.Variants[idx].ID == variantID {
			return &p.Variants[idx]
		}
	}
	return nil
}

// Available reports whether the product is visible in the store
func (p *Product) Available() bool {
	return p.AvailableOn != nil && !p.AvailableOn.After(time.Now())
}

// MakeAvailable publishes the product as of now
func (p *Product) MakeAvailable() {
	now := time.Now()
	p.AvailableOn = &now
	p.UpdatedAt = now
}
