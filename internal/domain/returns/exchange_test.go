package returns

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStockChecker struct {
	onHand map[uuid.UUID]int
	err    error
}

func (s stubStockChecker) CountOnHand(_ context.Context, variantID uuid.UUID) (decimal.Decimal, error) {
	return decimal.NewFromInt(int64(s.onHand[variantID])), s.err
}

func (s stubStockChecker) InStock(_ context.Context, variantID uuid.UUID, quantity int) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.onHand[variantID] >= quantity, nil
}

func createExchangeOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder("R100000001", "customer@example.com")
	require.NoError(t, err)
	return o
}

// createExchangeItem builds a return item with variants loaded and an
// exchange variant selected
func createExchangeItem(t *testing.T, productID uuid.UUID, amount float64) *ReturnItem {
	t.Helper()

	source := createTestVariant(t, productID, "JEAN-BLUE-32", map[string]string{"color": "blue", "waist": "32"})
	replacement := createTestVariant(t, productID, "JEAN-BLUE-34", map[string]string{"color": "blue", "waist": "34"})

	item := createTestReturnItem(t, time.Now())
	item.Amount = decimal.NewFromFloat(amount)
	item.VariantID = source.ID
	item.Variant = source
	require.NoError(t, item.SetExchangeVariant(replacement))
	return item
}

func TestExchange_Description(t *testing.T) {
	productID := uuid.New()
	o := createExchangeOrder(t)

	itemA := createExchangeItem(t, productID, 10)
	itemB := createExchangeItem(t, productID, 20)

	exchange := NewExchange(o, []*ReturnItem{itemA, itemB})

	want := "color: blue, waist: 32 => color: blue, waist: 34\n" +
		"color: blue, waist: 32 => color: blue, waist: 34"
	assert.Equal(t, want, exchange.Description())
}

func TestExchange_DescriptionWithoutOrder(t *testing.T) {
	productID := uuid.New()
	item := createExchangeItem(t, productID, 10)

	exchange := NewExchange(nil, []*ReturnItem{item})

	assert.Equal(t, "color: blue, waist: 32 => color: blue, waist: 34", exchange.Description())
}

func TestExchange_DescriptionSkipsUnloadedVariants(t *testing.T) {
	o := createExchangeOrder(t)
	item := createTestReturnItem(t, time.Now())

	exchange := NewExchange(o, []*ReturnItem{item})
	assert.Equal(t, "", exchange.Description())
}

func TestExchange_DisplayAmount(t *testing.T) {
	productID := uuid.New()
	o := createExchangeOrder(t)

	exchange := NewExchange(o, []*ReturnItem{
		createExchangeItem(t, productID, 10.50),
		createExchangeItem(t, productID, 4.25),
	})

	assert.True(t, exchange.TotalAmount().Equal(decimal.NewFromFloat(14.75)))
	assert.Equal(t, valueobject.NewMoneyUSDFromFloat(14.75).Display(), exchange.DisplayAmount().Display())
}

func TestExchange_ToKey(t *testing.T) {
	o := createExchangeOrder(t)
	exchange := NewExchange(o, nil)
	assert.Equal(t, o.ID.String(), exchange.ToKey())

	var empty *Exchange
	assert.Equal(t, "", empty.ToKey())
	assert.True(t, empty.Empty())
}

func TestExchange_Perform(t *testing.T) {
	productID := uuid.New()
	o := createExchangeOrder(t)

	itemA := createExchangeItem(t, productID, 10)
	itemB := createExchangeItem(t, productID, 20)
	stock := stubStockChecker{onHand: map[uuid.UUID]int{
		*itemA.ExchangeVariantID: 1,
		*itemB.ExchangeVariantID: 1,
	}}

	exchange := NewExchange(o, []*ReturnItem{itemA, itemB})

	shipment, err := exchange.Perform(context.Background(), stock, "H20000001")
	require.NoError(t, err)

	// One new shipment, ready to ship, holding one unit per return item
	require.Len(t, o.Shipments, 1)
	assert.Equal(t, order.ShipmentStateReady, shipment.State)
	require.Len(t, shipment.InventoryUnits, 2)

	for idx, item := range []*ReturnItem{itemA, itemB} {
		unit := shipment.InventoryUnits[idx]
		assert.Equal(t, item.LineItemID, unit.LineItemID)
		assert.Equal(t, *item.ExchangeVariantID, unit.VariantID)
		require.NotNil(t, unit.OriginalReturnItemID)
		assert.Equal(t, item.ID, *unit.OriginalReturnItemID)
		assert.True(t, item.ExchangeProcessed)
	}
}

func TestExchange_PerformValidatesBeforeMutating(t *testing.T) {
	productID := uuid.New()

	t.Run("missing exchange variant", func(t *testing.T) {
		o := createExchangeOrder(t)
		withVariant := createExchangeItem(t, productID, 10)
		withoutVariant := createTestReturnItem(t, time.Now())

		stock := stubStockChecker{onHand: map[uuid.UUID]int{*withVariant.ExchangeVariantID: 1}}
		exchange := NewExchange(o, []*ReturnItem{withVariant, withoutVariant})

		_, err := exchange.Perform(context.Background(), stock, "H20000002")
		require.Error(t, err)

		assert.Empty(t, o.Shipments)
		assert.False(t, withVariant.ExchangeProcessed)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		o := createExchangeOrder(t)
		item := createExchangeItem(t, productID, 10)

		exchange := NewExchange(o, []*ReturnItem{item})

		_, err := exchange.Perform(context.Background(), stubStockChecker{}, "H20000003")
		require.ErrorIs(t, err, shared.ErrInsufficientStock)

		assert.Empty(t, o.Shipments)
		assert.False(t, item.ExchangeProcessed)
	})

	t.Run("duplicate replacements need combined stock", func(t *testing.T) {
		o := createExchangeOrder(t)
		itemA := createExchangeItem(t, productID, 10)
		itemB := createExchangeItem(t, productID, 10)
		itemB.ExchangeVariantID = itemA.ExchangeVariantID
		itemB.ExchangeVariant = itemA.ExchangeVariant

		stock := stubStockChecker{onHand: map[uuid.UUID]int{*itemA.ExchangeVariantID: 1}}
		exchange := NewExchange(o, []*ReturnItem{itemA, itemB})

		_, err := exchange.Perform(context.Background(), stock, "H20000004")
		require.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("already processed item", func(t *testing.T) {
		o := createExchangeOrder(t)
		item := createExchangeItem(t, productID, 10)
		require.NoError(t, item.MarkExchanged())

		stock := stubStockChecker{onHand: map[uuid.UUID]int{*item.ExchangeVariantID: 1}}
		exchange := NewExchange(o, []*ReturnItem{item})

		_, err := exchange.Perform(context.Background(), stock, "H20000005")
		require.Error(t, err)
		assert.Empty(t, o.Shipments)
	})
}

func TestExchange_PerformEmpty(t *testing.T) {
	exchange := NewExchange(nil, nil)
	_, err := exchange.Perform(context.Background(), stubStockChecker{}, "H20000006")
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EMPTY_EXCHANGE", domainErr.Code)
}
