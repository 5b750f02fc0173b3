package migrations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/database"
	_ "github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/database/sqlite"
	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/migrations"
)

func TestRun_SQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := database.NewConnection(ctx, database.Config{URL: ":memory:"})
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, migrations.Run(ctx, conn))
	require.NoError(t, migrations.Run(ctx, conn), "migrations are idempotent")

	for _, table := range []string{"analysis_runs", "outbox"} {
		var name string
		err := conn.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err)
		assert.Equal(t, table, name)
	}
}
