package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// OptionType represents a dimension along which variants of a product differ,
// e.g. "color" or "waist"
type OptionType struct {
	ID           uuid.UUID
	Name         string
	Presentation string
	Position     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewOptionType creates a new option type
func NewOptionType(name, presentation string) (*OptionType, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_OPTION_TYPE", "Option type name cannot be empty")
	}
	if presentation == "" {
		presentation = name
	}
	now := time.Now()
	return &OptionType{
		ID:           uuid.New(),
		Name:         name,
		Presentation: presentation,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// OptionValue is one concrete value of an option type, e.g. "blue" for "color"
type OptionValue struct {
	ID             uuid.UUID
	OptionTypeID   uuid.UUID
	OptionTypeName string
	Name           string
	Presentation   string
	Position       int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewOptionValue creates a new option value for the given option type
func NewOptionValue(optionType *OptionType, name, presentation string) (*OptionValue, error) {
	if optionType == nil {
		return nil, shared.NewDomainError("INVALID_OPTION_TYPE", "Option type cannot be nil")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_OPTION_VALUE", "Option value name cannot be empty")
	}
	if presentation == "" {
		presentation = name
	}
	now := time.Now()
	return &OptionValue{
		ID:             uuid.New(),
		OptionTypeID:   optionType.ID,
		OptionTypeName: optionType.Name,
		Name:           name,
		Presentation:   presentation,
		Position:       optionType.Position,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
