// Package dbtest opens migrated stores for repository and handler tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"sweetdelivery/internal/adapters/out/postgres"
	"sweetdelivery/migrations"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// Tables lists every table in an order that is safe for deletion.
var Tables = []string{
	"order_delivery_hours",
	"orders",
	"courier_working_hours",
	"courier_regions",
	"couriers",
}

// NewSQLite opens a migrated SQLite database in a temporary directory.
// The database is closed when the test ends.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := postgres.Open(postgres.Options{
		Driver: postgres.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "dispatch.db"),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.Up(context.Background(), sqlDB, migrations.DialectSQLite))
	return db
}

// PostgresContainer is a migrated PostgreSQL instance running in Docker.
type PostgresContainer struct {
	Container *tcpostgres.PostgresContainer
	DB        *gorm.DB
}

// StartPostgres runs a PostgreSQL container and applies the migrations.
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	db, err := postgres.Open(postgres.Options{Driver: postgres.DriverPostgres, DSN: connStr})
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	if err := migrations.Up(ctx, sqlDB, migrations.DialectPostgres); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &PostgresContainer{Container: container, DB: db}, nil
}

// Terminate closes the connection and removes the container.
func (p *PostgresContainer) Terminate(ctx context.Context) error {
	if sqlDB, err := p.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return p.Container.Terminate(ctx)
}

// Truncate removes every row from the store.
func Truncate(t testing.TB, db *gorm.DB) {
	t.Helper()

	for _, table := range Tables {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
}
