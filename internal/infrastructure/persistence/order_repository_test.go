package persistence

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&order.Order{},
		&order.LineItem{},
		&order.Shipment{},
		&order.InventoryUnit{},
		&order.Payment{},
	)
	require.NoError(t, err)

	return db
}

func buildOrderAggregate(t *testing.T, number string) *order.Order {
	t.Helper()

	o, err := order.NewOrder(number, "jane@example.com")
	require.NoError(t, err)

	variantID := uuid.New()
	li, err := o.AddLineItem(variantID, 2, valueobject.NewMoneyUSD(decimal.NewFromInt(25)))
	require.NoError(t, err)

	shipment, err := order.NewShipment(o.ID, "H000000001")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		unit, err := order.NewInventoryUnit(shipment.ID, li.ID, variantID)
		require.NoError(t, err)
		require.NoError(t, shipment.AddInventoryUnit(unit, li.Price))
	}
	require.NoError(t, o.AddShipment(shipment))

	p, err := order.NewPayment(o.ID, decimal.NewFromInt(50))
	require.NoError(t, err)
	require.NoError(t, o.AddPayment(p))

	return o
}

func TestGormOrderRepository_SaveAndFindByNumber(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := buildOrderAggregate(t, "R123456789")
	require.NoError(t, repo.Save(ctx, o))

	loaded, err := repo.FindByNumber(ctx, "R123456789")
	require.NoError(t, err)

	assert.Equal(t, o.ID, loaded.ID)
	assert.Equal(t, "jane@example.com", loaded.Email)
	assert.Equal(t, o.GuestToken, loaded.GuestToken)
	assert.Equal(t, order.StateCart, loaded.State)
	require.Len(t, loaded.LineItems, 1)
	assert.Equal(t, 2, loaded.LineItems[0].Quantity)
	require.Len(t, loaded.Shipments, 1)
	assert.Len(t, loaded.Shipments[0].InventoryUnits, 2)
	require.Len(t, loaded.Payments, 1)
	assert.True(t, loaded.Payments[0].Amount.Equal(decimal.NewFromInt(50)))
}

func TestGormOrderRepository_FindByID(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := buildOrderAggregate(t, "R200000001")
	require.NoError(t, repo.Save(ctx, o))

	loaded, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "R200000001", loaded.Number)
}

func TestGormOrderRepository_NotFound(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	_, err := repo.FindByNumber(ctx, "R999999999")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOrderRepository_SaveUpdatesExisting(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	o := buildOrderAggregate(t, "R300000001")
	require.NoError(t, repo.Save(ctx, o))

	o.State = order.StateAddress
	require.NoError(t, repo.Save(ctx, o))

	loaded, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StateAddress, loaded.State)

	var count int64
	require.NoError(t, db.Model(&order.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormOrderRepository_GenerateNumber(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewGormOrderRepository(db)

	number, err := repo.GenerateNumber(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^R\d{9}$`), number)
}
