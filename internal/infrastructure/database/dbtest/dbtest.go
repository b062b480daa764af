// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"book-catalog-api/internal/infrastructure/database"
)

// Open returns a fresh in-memory SQLite database with every migration applied.
func Open(t testing.TB) database.Connection {
	t.Helper()
	ctx := context.Background()

	conn, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, database.Migrate(ctx, conn, database.MigrateUp))
	return conn
}
