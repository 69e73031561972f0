package persistence

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager implements shared.TransactionManager on a gorm database. The
// transactional handle travels in the context, so every repository call made
// inside InTransaction joins the same database transaction.
type TxManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager over the given database
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// InTransaction runs fn inside a single transaction. Nested calls join the
// transaction already in flight instead of opening a second one.
func (m *TxManager) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func txFrom(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}

// dbFor returns the transaction in flight on the context, or the given
// connection when there is none
func dbFor(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return db
}
