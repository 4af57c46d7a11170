package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a throwaway server whose only database is the
// maintenance one, so bootstrap has to create the target database itself.
func startPostgres(ctx context.Context, t *testing.T) PostgresConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("postgres"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		terminateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pgContainer.Terminate(terminateCtx); err != nil {
			t.Logf("Warning: failed to terminate container: %s", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return PostgresConfig{
		Host:           host,
		Port:           port.Int(),
		User:           "postgres",
		Password:       "postgres",
		Database:       "genricycle",
		AdminDatabase:  "postgres",
		ConnectTimeout: 5 * time.Second,
	}
}

func TestPostgresBackend_Integration(t *testing.T) {
	ctx := context.Background()
	cfg := startPostgres(ctx, t)
	backend := NewPostgres(cfg)

	t.Run("Should bootstrap idempotently into a new database", func(t *testing.T) {
		require.NoError(t, backend.Bootstrap(ctx))
		require.NoError(t, backend.Bootstrap(ctx))

		conn, err := backend.Connect(ctx)
		require.NoError(t, err)
		defer conn.Close(ctx)

		for table, want := range map[string]int64{"categories": 8, "medicines": 9, "doctors": 3, "labs": 2, "lab_tests": 3} {
			n, err := CountRows(ctx, conn, table)
			require.NoError(t, err)
			assert.Equal(t, want, n, table)
		}

		existing, err := postgresDialect{}.existingColumns(ctx, conn, "users")
		require.NoError(t, err)
		assert.True(t, existing["password_hash"])
	})

	t.Run("Should classify foreign key violations", func(t *testing.T) {
		conn, err := backend.Connect(ctx)
		require.NoError(t, err)
		defer conn.Close(ctx)

		_, err = conn.Exec(ctx, "INSERT INTO orders(user_id, status) VALUES(?, ?)", 9999, "pending")
		assert.True(t, IsForeignKeyViolation(err))
	})

	t.Run("Should describe the same structure as the embedded engine", func(t *testing.T) {
		pgConn, err := backend.Connect(ctx)
		require.NoError(t, err)
		defer pgConn.Close(ctx)
		pgReport, err := backend.Introspect(ctx, pgConn)
		require.NoError(t, err)

		lite, liteConn := bootstrapped(t)
		liteReport, err := lite.Introspect(ctx, liteConn)
		require.NoError(t, err)

		assert.Equal(t, liteReport.Tables, pgReport.Tables)
		for _, table := range liteReport.Tables {
			lt, pt := liteReport.Summary[table], pgReport.Summary[table]
			assert.Equal(t, lt.PrimaryKeys(), pt.PrimaryKeys(), table)
			assert.Equal(t, lt.RowCount, pt.RowCount, table)
			require.Len(t, pt.ForeignKeys, len(lt.ForeignKeys), table)
			for i := range lt.ForeignKeys {
				assert.Equal(t, lt.ForeignKeys[i].From, pt.ForeignKeys[i].From, table)
				assert.Equal(t, lt.ForeignKeys[i].Table, pt.ForeignKeys[i].Table, table)
			}
		}
	})
}
