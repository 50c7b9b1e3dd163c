package migrations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/migrations"
)

func TestFiles_SameVersionsPerDriver(t *testing.T) {
	sqliteFiles, err := migrations.Files(database.DriverSQLite)
	require.NoError(t, err)
	postgresFiles, err := migrations.Files(database.DriverPostgres)
	require.NoError(t, err)

	assert.NotEmpty(t, sqliteFiles)
	assert.Equal(t, sqliteFiles, postgresFiles)
}

func TestRun_SQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{SQLitePath: ":memory:"})
	require.NoError(t, err)
	defer conn.Close()

	applied, err := migrations.Run(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_users_todos", "000002_outbox"}, applied)

	for _, table := range []string{"users", "todos", "user_todos", "outbox"} {
		var n int
		err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}

	t.Run("second run is a no-op", func(t *testing.T) {
		applied, err := migrations.Run(ctx, conn)
		require.NoError(t, err)
		assert.Empty(t, applied)
	})
}
