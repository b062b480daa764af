package database

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
)

// TxFunc is executed inside a transaction.
type TxFunc func(tx *goqu.TxDatabase) error

// WithTransaction runs fn in a transaction.
// Rolls back when fn returns an error or panics, commits otherwise.
func WithTransaction(ctx context.Context, db *goqu.Database, fn TxFunc) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Wrap handles rollback on error and panic
	if err := tx.Wrap(func() error { return fn(tx) }); err != nil {
		return err
	}
	return nil
}
