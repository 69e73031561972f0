package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid inputs", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(19.99), USD)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(19.99)))
		assert.Equal(t, USD, m.Currency())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(1), "")
		assert.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyUSDFromFloat(10.50)
	b := NewMoneyUSDFromFloat(4.25)

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "14.75", sum.StringFixed(2))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "6.25", diff.StringFixed(2))
	})

	t.Run("multiply by int", func(t *testing.T) {
		assert.Equal(t, "21.00", a.MultiplyByInt(2).StringFixed(2))
	})

	t.Run("currency mismatch", func(t *testing.T) {
		eur, err := NewMoneyFromFloat(1, EUR)
		require.NoError(t, err)
		_, err = a.Add(eur)
		assert.Error(t, err)
	})

	t.Run("negate and abs", func(t *testing.T) {
		neg := a.Negate()
		assert.True(t, neg.IsNegative())
		assert.True(t, neg.Abs().Equals(a))
	})
}

func TestMoney_Display(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		display string
	}{
		{"zero", 0, "$0.00"},
		{"small", 9.5, "$9.50"},
		{"hundreds", 150, "$150.00"},
		{"thousands", 1234.5, "$1,234.50"},
		{"millions", 1234567.89, "$1,234,567.89"},
		{"negative", -5, "-$5.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.display, NewMoneyUSDFromFloat(tt.amount).Display())
		})
	}
}

func TestMoney_ZeroValueDefaultsToUSD(t *testing.T) {
	var m Money
	assert.Equal(t, USD, m.Currency())
	assert.Equal(t, "$0.00", m.Display())
}

func TestMoney_JSON(t *testing.T) {
	t.Run("marshal", func(t *testing.T) {
		data, err := json.Marshal(NewMoneyUSDFromFloat(42.5))
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"42.50","currency":"USD","display":"$42.50"}`, string(data))
	})

	t.Run("unmarshal object form", func(t *testing.T) {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(`{"amount":"42.50","currency":"USD"}`), &m))
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(42.5)))
	})

	t.Run("unmarshal bare decimal", func(t *testing.T) {
		var m Money
		require.NoError(t, json.Unmarshal([]byte(`"19.99"`), &m))
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(19.99)))
		assert.Equal(t, USD, m.Currency())
	})
}
