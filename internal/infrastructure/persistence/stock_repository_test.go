package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormStockRepository_InStock(t *testing.T) {
	t.Run("true when on hand covers the quantity", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockRepository(gormDB)

		variantID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "variant_id", "on_hand", "created_at", "updated_at"}).
			AddRow(uuid.New(), variantID, 5, time.Now(), time.Now())

		mock.ExpectQuery(`SELECT \* FROM "stock_items" WHERE variant_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(variantID, 1).
			WillReturnRows(rows)

		ok, err := repo.InStock(context.Background(), variantID, 3)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unstocked variant counts as zero", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockRepository(gormDB)

		variantID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "stock_items" WHERE variant_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(variantID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		ok, err := repo.InStock(context.Background(), variantID, 1)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockRepository_Allocate(t *testing.T) {
	t.Run("rejects non-positive quantities", func(t *testing.T) {
		gormDB, _, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockRepository(gormDB)

		err := repo.Allocate(context.Background(), uuid.New(), 0)
		assert.Error(t, err)
	})

	t.Run("fails when stock is short", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockRepository(gormDB)

		variantID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "variant_id", "on_hand", "created_at", "updated_at"}).
			AddRow(uuid.New(), variantID, 1, time.Now(), time.Now())

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT \* FROM "stock_items" WHERE variant_id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(variantID, 1).
			WillReturnRows(rows)
		mock.ExpectRollback()

		err := repo.Allocate(context.Background(), variantID, 2)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
