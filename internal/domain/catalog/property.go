package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// maxPropertyValueLength bounds the free-text value of a product property
const maxPropertyValueLength = 255

// Property is a named descriptive attribute that products can carry,
// e.g. "Brand" or "Material"
type Property struct {
	ID           uuid.UUID
	Name         string
	Presentation string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProperty creates a new property
func NewProperty(name, presentation string) (*Property, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property name cannot be empty")
	}
	if presentation == "" {
		presentation = name
	}
	now := time.Now()
	return &Property{
		ID:           uuid.New(),
		Name:         name,
		Presentation: presentation,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ProductProperty attaches a property with a free-text value to a product.
// Properties are ordered by Position within the product.
type ProductProperty struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	PropertyID   uuid.UUID
	PropertyName string
	Value        string
	Position     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// validatePropertyValue applies the field-level rules for a property value
func validatePropertyValue(value string) error {
	if len(value) > maxPropertyValueLength {
		return shared.NewFieldError("value", "is too long (maximum is 255 characters)")
	}
	return nil
}

// UpdateValue changes the property's value, subject to the same field rules
// as creation. Duplicate checking is the owning product's concern.
func (pp *ProductProperty) UpdateValue(value string) error {
	if err := validatePropertyValue(value); err != nil {
		return err
	}
	pp.Value = value
	pp.UpdatedAt = time.Now()
	return nil
}
