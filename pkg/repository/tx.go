package repository

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"book-catalog-api/pkg/database"
)

type txKey struct{}

// InTransaction runs fn in a transaction bound to the context it receives.
// Repository calls made with that context join the transaction. Nested calls
// reuse the outer transaction.
func InTransaction(ctx context.Context, db *goqu.Database, fn func(ctx context.Context) error) error {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}
	return database.WithTransaction(ctx, db, func(tx *goqu.TxDatabase) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func txFrom(ctx context.Context) (*goqu.TxDatabase, bool) {
	tx, ok := ctx.Value(txKey{}).(*goqu.TxDatabase)
	return tx, ok
}

// q returns the transaction bound to ctx, or the database.
func (r *Repository[T]) q(ctx context.Context) querier {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return r.db
}
