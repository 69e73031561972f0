package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared/strategy"
	"github.com/stretchr/testify/assert"
)

type fixedAmount struct {
	amount decimal.Decimal
}

func (f fixedAmount) ComputableAmount() decimal.Decimal {
	return f.amount
}

func createTestCalculator(t *testing.T) *TieredFlatRate {
	t.Helper()
	return NewTieredFlatRate(decimal.NewFromInt(10), []Tier{
		{Threshold: decimal.NewFromInt(100), Amount: decimal.NewFromInt(15)},
		{Threshold: decimal.NewFromInt(200), Amount: decimal.NewFromInt(20)},
	})
}

func TestTieredFlatRate_Compute(t *testing.T) {
	calculator := createTestCalculator(t)

	tests := []struct {
		name   string
		amount float64
		want   int64
	}{
		{"below the first tier", 50, 10},
		{"just under the first threshold", 99.99, 10},
		{"exactly at the first threshold", 100, 15},
		{"between tiers", 150, 15},
		{"exactly at the second threshold", 200, 20},
		{"above every tier", 250, 20},
		{"zero amount", 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject := fixedAmount{amount: decimal.NewFromFloat(tt.amount)}
			got := calculator.Compute(subject)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)),
				"Compute(%v) = %s, want %d", tt.amount, got, tt.want)
		})
	}
}

func TestTieredFlatRate_ComputeSortsUnorderedTiers(t *testing.T) {
	calculator := NewTieredFlatRate(decimal.NewFromInt(10), []Tier{
		{Threshold: decimal.NewFromInt(200), Amount: decimal.NewFromInt(20)},
		{Threshold: decimal.NewFromInt(100), Amount: decimal.NewFromInt(15)},
	})

	got := calculator.Compute(fixedAmount{amount: decimal.NewFromInt(150)})
	assert.True(t, got.Equal(decimal.NewFromInt(15)))
}

func TestTieredFlatRate_NoTiersChargesBase(t *testing.T) {
	calculator := NewTieredFlatRate(decimal.NewFromInt(7), nil)

	got := calculator.Compute(fixedAmount{amount: decimal.NewFromInt(1000)})
	assert.True(t, got.Equal(decimal.NewFromInt(7)))
	assert.True(t, calculator.Valid())
}

func TestTieredFlatRate_Valid(t *testing.T) {
	tests := []struct {
		name  string
		tiers []Tier
		want  bool
	}{
		{
			name:  "positive thresholds",
			tiers: []Tier{{Threshold: decimal.NewFromInt(100), Amount: decimal.NewFromInt(15)}},
			want:  true,
		},
		{
			name:  "zero threshold",
			tiers: []Tier{{Threshold: decimal.Zero, Amount: decimal.NewFromInt(15)}},
			want:  false,
		},
		{
			name:  "negative threshold",
			tiers: []Tier{{Threshold: decimal.NewFromInt(-5), Amount: decimal.NewFromInt(15)}},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calculator := NewTieredFlatRate(decimal.NewFromInt(10), tt.tiers)
			assert.Equal(t, tt.want, calculator.Valid())
		})
	}
}

func TestTieredFlatRate_Strategy(t *testing.T) {
	calculator := createTestCalculator(t)
	assert.Equal(t, "tiered_flat_rate", calculator.Name())
	assert.Equal(t, strategy.StrategyTypeShipping, calculator.Type())

	var _ strategy.RateCalculator = calculator
}
