package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Variant is one sellable variation of a product, uniquely identified within
// the product by its set of option values (one per option type)
type Variant struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	SKU          string
	Price        decimal.Decimal
	IsMaster     bool
	OptionValues []OptionValue `gorm:"serializer:json"`
	Position     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewVariant creates a new variant for a product
func NewVariant(productID uuid.UUID, sku string, price valueobject.Money, optionValues []OptionValue) (*Variant, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	seen := make(map[uuid.UUID]bool, len(optionValues))
	for _, ov := range optionValues {
		if seen[ov.OptionTypeID] {
			return nil, shared.NewDomainError("DUPLICATE_OPTION_TYPE", "Variant can hold at most one value per option type")
		}
		seen[ov.OptionTypeID] = true
	}

	now := time.Now()
	return &Variant{
		ID:           uuid.New(),
		ProductID:    productID,
		SKU:          sku,
		Price:        price.Amount(),
		OptionValues: optionValues,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// OptionValueFor returns the variant's option value for the named option type,
// or nil if the variant has no value for that dimension
func (v *Variant) OptionValueFor(optionTypeName string) *OptionValue {
	for idx := range v.OptionValues {
		if v.OptionValues[idx].OptionTypeName == optionTypeName {
			return &v.OptionValues[idx]
		}
	}
	return nil
}

// OptionsText renders the variant's option values for display,
// e.g. "color: blue, waist: 32"
func (v *Variant) OptionsText() string {
	values := make([]OptionValue, len(v.OptionValues))
	copy(values, v.OptionValues)
	sort.SliceStable(values, func(i, j int) bool {
		return values[i].Position < values[j].Position
	})

	parts := make([]string, 0, len(values))
	for _, ov := range values {
		parts = append(parts, ov.OptionTypeName+": "+ov.Presentation)
	}
	return strings.Join(parts, ", ")
}

// GetPriceMoney returns the variant price as Money
func (v *Variant) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(v.Price)
}
