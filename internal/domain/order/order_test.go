package order

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	t.Run("creates an empty cart", func(t *testing.T) {
		o, err := NewOrder("R100000001", "customer@example.com")
		require.NoError(t, err)
		assert.Equal(t, StateCart, o.State)
		assert.Equal(t, PaymentStateBalanceDue, o.PaymentState)
		assert.NotEmpty(t, o.GuestToken)
		assert.Empty(t, o.LineItems)
		assert.True(t, o.Total.IsZero())
		assert.False(t, o.Completed())
	})

	t.Run("rejects empty number", func(t *testing.T) {
		_, err := NewOrder("", "customer@example.com")
		assert.Error(t, err)
	})
}

func TestOrder_AddLineItem(t *testing.T) {
	t.Run("adds items and recalculates totals", func(t *testing.T) {
		o := createTestOrder(t)
		_, err := o.AddLineItem(uuid.New(), 2, valueobject.NewMoneyUSDFromFloat(10))
		require.NoError(t, err)
		_, err = o.AddLineItem(uuid.New(), 1, valueobject.NewMoneyUSDFromFloat(5.50))
		require.NoError(t, err)

		assert.Len(t, o.LineItems, 2)
		assert.Equal(t, "25.50", o.Total.StringFixed(2))
	})

	t.Run("merges quantity for an existing variant", func(t *testing.T) {
		o := createTestOrder(t)
		variantID := uuid.New()
		_, err := o.AddLineItem(variantID, 1, valueobject.NewMoneyUSDFromFloat(10))
		require.NoError(t, err)
		item, err := o.AddLineItem(variantID, 2, valueobject.NewMoneyUSDFromFloat(10))
		require.NoError(t, err)

		assert.Len(t, o.LineItems, 1)
		assert.Equal(t, 3, item.Quantity)
		assert.Equal(t, "30.00", o.Total.StringFixed(2))
	})

	t.Run("rejected outside the cart state", func(t *testing.T) {
		o := createTestOrder(t)
		o.State = StateDelivery
		_, err := o.AddLineItem(uuid.New(), 1, valueobject.NewMoneyUSDFromFloat(10))
		assert.Error(t, err)
	})
}

func TestOrder_AdjustLineItemQuantity(t *testing.T) {
	t.Run("adjusts before fulfillment", func(t *testing.T) {
		o := createTestOrder(t)
		item := addTestLineItem(t, o, 10)

		require.NoError(t, o.AdjustLineItemQuantity(item.ID, 4))
		assert.Equal(t, "40.00", o.ItemTotal.StringFixed(2))
	})

	t.Run("rejected once a shipment fulfills the line item", func(t *testing.T) {
		o := createTestOrder(t)
		item := addTestLineItem(t, o, 10)
		shipment := addTestShipment(t, o)
		unit, err := NewInventoryUnit(shipment.ID, item.ID, item.VariantID)
		require.NoError(t, err)
		require.NoError(t, shipment.AddInventoryUnit(unit, item.Price))

		assert.Error(t, o.AdjustLineItemQuantity(item.ID, 4))
	})
}

func TestOrder_PaymentRequired(t *testing.T) {
	o := createTestOrder(t)
	assert.False(t, o.PaymentRequired())

	addTestLineItem(t, o, 10)
	assert.True(t, o.PaymentRequired())

	payment, err := NewPayment(o.ID, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, payment.Complete())
	require.NoError(t, o.AddPayment(payment))
	o.RecalculateTotals()
	assert.False(t, o.PaymentRequired())
}

func TestOrder_RecalculateShipmentState(t *testing.T) {
	t.Run("empty when no shipments", func(t *testing.T) {
		o := createTestOrder(t)
		o.RecalculateShipmentState()
		assert.Equal(t, ShipmentState(""), o.ShipmentState)
	})

	t.Run("pending, ready, partial, shipped", func(t *testing.T) {
		o := createTestOrder(t)
		addTestShipment(t, o)
		addTestShipment(t, o)
		// AddShipment can reallocate the slice, so take the pointers last
		first := &o.Shipments[0]
		second := &o.Shipments[1]

		o.RecalculateShipmentState()
		assert.Equal(t, ShipmentStatePending, o.ShipmentState)

		require.NoError(t, first.Ready())
		require.NoError(t, second.Ready())
		o.RecalculateShipmentState()
		assert.Equal(t, ShipmentStateReady, o.ShipmentState)

		require.NoError(t, first.Ship())
		o.RecalculateShipmentState()
		assert.Equal(t, ShipmentStatePartial, o.ShipmentState)

		require.NoError(t, second.Ship())
		o.RecalculateShipmentState()
		assert.Equal(t, ShipmentStateShipped, o.ShipmentState)
	})

	t.Run("canceled when every shipment is canceled", func(t *testing.T) {
		o := createTestOrder(t)
		shipment := addTestShipment(t, o)
		require.NoError(t, shipment.Cancel())
		o.RecalculateShipmentState()
		assert.Equal(t, ShipmentStateCanceled, o.ShipmentState)
	})
}

func TestShipment_Transitions(t *testing.T) {
	o := createTestOrder(t)
	shipment := addTestShipment(t, o)

	assert.Error(t, shipment.Ship(), "pending shipments cannot ship")
	require.NoError(t, shipment.Ready())
	require.NoError(t, shipment.Ship())
	assert.Error(t, shipment.Cancel(), "shipped shipments cannot cancel")
	require.NotNil(t, shipment.ShippedAt)

	for idx := range shipment.InventoryUnits {
		assert.Equal(t, InventoryUnitShipped, shipment.InventoryUnits[idx].State)
	}
}

func TestPayment_Lifecycle(t *testing.T) {
	o := createTestOrder(t)

	t.Run("complete then void", func(t *testing.T) {
		p, err := NewPayment(o.ID, decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.True(t, p.Valid())
		require.NoError(t, p.Complete())
		require.NoError(t, p.Cancel())
		assert.Equal(t, PaymentStatusVoid, p.State)
		assert.False(t, p.Valid())
	})

	t.Run("failed payments are invalid and cannot void", func(t *testing.T) {
		p, err := NewPayment(o.ID, decimal.NewFromInt(10))
		require.NoError(t, err)
		require.NoError(t, p.Fail())
		assert.False(t, p.Valid())
		assert.Error(t, p.Cancel())
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := NewPayment(o.ID, decimal.Zero)
		assert.Error(t, err)
	})
}

func TestNewExchangeInventoryUnit(t *testing.T) {
	shipmentID := uuid.New()
	lineItemID := uuid.New()
	variantID := uuid.New()
	returnItemID := uuid.New()

	unit, err := NewExchangeInventoryUnit(shipmentID, lineItemID, variantID, returnItemID)
	require.NoError(t, err)
	require.NotNil(t, unit.OriginalReturnItemID)
	assert.Equal(t, returnItemID, *unit.OriginalReturnItemID)
	assert.Equal(t, lineItemID, unit.LineItemID)

	_, err = NewExchangeInventoryUnit(shipmentID, lineItemID, variantID, uuid.Nil)
	assert.Error(t, err)
}
