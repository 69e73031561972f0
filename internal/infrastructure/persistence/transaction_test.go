package persistence

import (
	"context"
	"testing"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxManager_InTransaction(t *testing.T) {
	t.Run("commits when the function succeeds", func(t *testing.T) {
		db := setupOrderTestDB(t)
		tx := NewTxManager(db)
		repo := NewGormOrderRepository(db)

		o := buildOrderAggregate(t, "R400000001")
		err := tx.InTransaction(context.Background(), func(ctx context.Context) error {
			return repo.Save(ctx, o)
		})
		require.NoError(t, err)

		loaded, err := repo.FindByNumber(context.Background(), "R400000001")
		require.NoError(t, err)
		assert.Equal(t, o.ID, loaded.ID)
	})

	t.Run("rolls back every write when the function fails", func(t *testing.T) {
		db := setupOrderTestDB(t)
		tx := NewTxManager(db)
		repo := NewGormOrderRepository(db)

		first := buildOrderAggregate(t, "R400000002")
		second := buildOrderAggregate(t, "R400000003")

		err := tx.InTransaction(context.Background(), func(ctx context.Context) error {
			if err := repo.Save(ctx, first); err != nil {
				return err
			}
			if err := repo.Save(ctx, second); err != nil {
				return err
			}
			return assert.AnError
		})
		require.ErrorIs(t, err, assert.AnError)

		_, err = repo.FindByNumber(context.Background(), "R400000002")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = repo.FindByNumber(context.Background(), "R400000003")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("joins a transaction already in flight", func(t *testing.T) {
		db := setupOrderTestDB(t)
		tx := NewTxManager(db)
		repo := NewGormOrderRepository(db)

		o := buildOrderAggregate(t, "R400000004")
		err := tx.InTransaction(context.Background(), func(outer context.Context) error {
			return tx.InTransaction(outer, func(inner context.Context) error {
				if err := repo.Save(inner, o); err != nil {
					return err
				}
				return assert.AnError
			})
		})
		require.ErrorIs(t, err, assert.AnError)

		// The inner call joined the outer transaction, so the outer rollback
		// discards the save made inside it.
		_, err = repo.FindByNumber(context.Background(), "R400000004")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
