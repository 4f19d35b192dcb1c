//go:build integration

// Package integration runs the blob stores and the assistant against real
// PostgreSQL and Redis servers started with testcontainers.
package integration

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"

	"github.com/ministock/backend/internal/infrastructure/config"
	"github.com/ministock/backend/internal/infrastructure/migration"
)

var (
	// Shared container for all tests in the package
	sharedContainer   *tcpostgres.PostgresContainer
	sharedContainerMu sync.Mutex
)

// TestDB is a migrated PostgreSQL database.
type TestDB struct {
	SqlDB  *sql.DB
	Config config.PostgresConfig
	DSN    string
}

// NewTestDB returns a connection to the shared PostgreSQL container, starting
// it and applying the embedded migrations on first use. The blob table is
// emptied for each test.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	ctx := context.Background()
	if sharedContainer == nil {
		container, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("stocky_test"),
			tcpostgres.WithUsername("postgres"),
			tcpostgres.WithPassword("stocky123"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		require.NoError(t, err, "Failed to start PostgreSQL container")
		sharedContainer = container
	}

	host, err := sharedContainer.Host(ctx)
	require.NoError(t, err)
	port, err := sharedContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.PostgresConfig{
		Host:         host,
		Port:         port.Int(),
		User:         "postgres",
		Password:     "stocky123",
		DBName:       "stocky_test",
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}

	sqlDB, err := sql.Open("postgres", cfg.DSN())
	require.NoError(t, err, "Failed to connect to database")
	require.NoError(t, sqlDB.PingContext(ctx))

	m, err := migration.New(sqlDB, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, m.Up(), "Failed to run migrations")

	_, err = sqlDB.ExecContext(ctx, "TRUNCATE TABLE kv_blobs")
	require.NoError(t, err)

	t.Cleanup(func() { _ = sqlDB.Close() })
	return &TestDB{SqlDB: sqlDB, Config: cfg, DSN: cfg.DSN()}
}

// CleanupSharedContainer terminates the shared container.
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		_ = sharedContainer.Terminate(context.Background())
		sharedContainer = nil
	}
}
