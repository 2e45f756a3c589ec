package testdb

import (
	"context"
	"path/filepath"
	"testing"

	"teacher-service/internal/db"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// SetupSQLite opens a file-backed SQLite database in a per-test temp dir, runs
// the given migrations and closes it when the test ends. Safe for t.Parallel.
func SetupSQLite(t *testing.T, migrations ...db.Migration) *bun.DB {
	t.Helper()

	database, err := db.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	err = db.RunMigrations(context.Background(), database, migrations...)
	require.NoError(t, err, "failed to run migrations")

	return database
}

// CleanupTables empties the given tables and resets their id sequences.
func CleanupTables(t *testing.T, database *bun.DB, tables ...string) {
	t.Helper()

	ctx := context.Background()

	for _, table := range tables {
		if database.Dialect().Name() == dialect.SQLite {
			_, err := database.ExecContext(ctx, "DELETE FROM "+table)
			require.NoError(t, err, "failed to clear table: %s", table)
			// sqlite_sequence only exists once an AUTOINCREMENT table has had a row.
			_, _ = database.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = ?", table)
			continue
		}

		_, err := database.ExecContext(ctx, "TRUNCATE "+table+" RESTART IDENTITY CASCADE")
		require.NoError(t, err, "failed to truncate table: %s", table)
	}
}
