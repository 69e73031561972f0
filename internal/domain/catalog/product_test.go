package catalog

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProduct(t *testing.T) *Product {
	product, err := NewProduct("Slim Jeans", "slim-jeans")
	require.NoError(t, err)
	return product
}

func createTestProperty(t *testing.T, name string) *Property {
	property, err := NewProperty(name, name)
	require.NoError(t, err)
	return property
}

func TestNewProduct(t *testing.T) {
	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct("Slim Jeans", "slim-jeans")
		require.NoError(t, err)
		assert.Equal(t, "Slim Jeans", product.Name)
		assert.Empty(t, product.Variants)
		assert.Len(t, product.GetDomainEvents(), 1)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct("", "slug")
		assert.Error(t, err)
	})
}

func TestProduct_AddVariant(t *testing.T) {
	product := createTestProduct(t)
	color, err := NewOptionType("color", "Color")
	require.NoError(t, err)
	require.NoError(t, product.AddOptionType(*color))

	t.Run("rejects variant missing an option value", func(t *testing.T) {
		v, err := NewVariant(product.ID, "SKU-1", valueobject.ZeroUSD(), nil)
		require.NoError(t, err)
		err = product.AddVariant(v)
		require.Error(t, err)
	})

	t.Run("accepts variant with all option values", func(t *testing.T) {
		blue, err := NewOptionValue(color, "blue", "blue")
		require.NoError(t, err)
		v, err := NewVariant(product.ID, "SKU-1", valueobject.ZeroUSD(), []OptionValue{*blue})
		require.NoError(t, err)
		require.NoError(t, product.AddVariant(v))
		assert.Len(t, product.Variants, 1)
	})
}

func TestProduct_AddProperty(t *testing.T) {
	t.Run("attaches property with position ordering", func(t *testing.T) {
		product := createTestProduct(t)
		brand := createTestProperty(t, "Brand")
		material := createTestProperty(t, "Material")

		first, err := product.AddProperty(brand, "Rolex")
		require.NoError(t, err)
		second, err := product.AddProperty(material, "Steel")
		require.NoError(t, err)

		assert.Equal(t, 0, first.Position)
		assert.Equal(t, 1, second.Position)
	})

	t.Run("rejects duplicate property name and value with field error on value", func(t *testing.T) {
		product := createTestProduct(t)
		brand := createTestProperty(t, "Brand")

		_, err := product.AddProperty(brand, "Rolex")
		require.NoError(t, err)

		_, err = product.AddProperty(brand, "Rolex")
		require.Error(t, err)

		var fieldErr *shared.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "value", fieldErr.Field)
		assert.Equal(t, "has already been used for this product", fieldErr.Message)
	})

	t.Run("allows same value under a different property", func(t *testing.T) {
		product := createTestProduct(t)
		_, err := product.AddProperty(createTestProperty(t, "Brand"), "Rolex")
		require.NoError(t, err)
		_, err = product.AddProperty(createTestProperty(t, "Collection"), "Rolex")
		assert.NoError(t, err)
	})

	t.Run("rejects value longer than 255 characters", func(t *testing.T) {
		product := createTestProduct(t)
		brand := createTestProperty(t, "Brand")

		_, err := product.AddProperty(brand, strings.Repeat("x", 256))
		require.Error(t, err)

		var fieldErr *shared.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "value", fieldErr.Field)
	})
}

func TestProduct_UpdateProperty(t *testing.T) {
	t.Run("changes the value in place", func(t *testing.T) {
		product := createTestProduct(t)
		pp, err := product.AddProperty(createTestProperty(t, "Brand"), "Rolex")
		require.NoError(t, err)

		updated, err := product.UpdateProperty(pp.ID, "Omega")
		require.NoError(t, err)
		assert.Equal(t, "Omega", updated.Value)
		assert.Equal(t, "Omega", product.Properties[0].Value)
	})

	t.Run("rejects a value already used under the same property", func(t *testing.T) {
		product := createTestProduct(t)
		brand := createTestProperty(t, "Brand")
		_, err := product.AddProperty(brand, "Rolex")
		require.NoError(t, err)
		second, err := product.AddProperty(brand, "Omega")
		require.NoError(t, err)

		_, err = product.UpdateProperty(second.ID, "Rolex")
		require.Error(t, err)

		var fieldErr *shared.FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "value", fieldErr.Field)
		assert.Equal(t, "has already been used for this product", fieldErr.Message)
	})

	t.Run("keeping the current value is not a duplicate", func(t *testing.T) {
		product := createTestProduct(t)
		pp, err := product.AddProperty(createTestProperty(t, "Brand"), "Rolex")
		require.NoError(t, err)

		_, err = product.UpdateProperty(pp.ID, "Rolex")
		assert.NoError(t, err)
	})

	t.Run("unknown product property", func(t *testing.T) {
		product := createTestProduct(t)

		_, err := product.UpdateProperty(uuid.New(), "Rolex")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PROPERTY_NOT_FOUND", domainErr.Code)
	})
}

func TestProduct_RemoveProperty(t *testing.T) {
	product := createTestProduct(t)
	first, err := product.AddProperty(createTestProperty(t, "Brand"), "Rolex")
	require.NoError(t, err)
	second, err := product.AddProperty(createTestProperty(t, "Material"), "Steel")
	require.NoError(t, err)

	require.NoError(t, product.RemoveProperty(first.ID))
	require.Len(t, product.Properties, 1)
	assert.Equal(t, second.ID, product.Properties[0].ID)
	assert.Equal(t, 0, product.Properties[0].Position)

	assert.Error(t, product.RemoveProperty(first.ID))
}
