package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/andrescamacho/outpost-go/internal/domain/shared"
)

type txKey struct{}

// GormTransactor implements shared.Transactor by storing the open *gorm.DB
// transaction in the context. Repositories pick it up through conn.
type GormTransactor struct {
	db *gorm.DB
}

// NewGormTransactor creates a transactor over db
func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

// WithinTransaction runs fn inside a transaction. A call made while a
// transaction is already open joins it instead of starting a new one.
// Errors returned by fn roll back and pass through unchanged; failures to
// begin or commit are reported as *shared.StorageError.
func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	var fnErr error
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(context.WithValue(ctx, txKey{}, tx))
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	return shared.NewStorageError("commit transaction", err)
}

// conn returns the transaction bound to ctx, or db when there is none
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
