package database

import (
	"context"
	"testing"
	"time"

	"kart-checkout/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestNewPool_UnreachableHostGivesUp(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:            "127.0.0.1",
		Port:            1,
		User:            "postgres",
		Database:        "kart",
		MaxConnections:  2,
		MinConnections:  1,
		MaxConnLifetime: 60,
		ConnectTimeout:  time.Second,
	}

	start := time.Now()
	pool, err := NewPool(context.Background(), cfg, zerolog.Nop())

	require.Error(t, err)
	assert.Nil(t, pool)
	assert.Contains(t, err.Error(), "failed to connect to database")
	assert.Less(t, time.Since(start), 30*time.Second)
}

func TestNewPool_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := config.DatabaseConfig{
		Host:           "127.0.0.1",
		Port:           1,
		User:           "postgres",
		Database:       "kart",
		MaxConnections: 2,
		MinConnections: 1,
		ConnectTimeout: time.Minute,
	}

	pool, err := NewPool(ctx, cfg, zerolog.Nop())

	require.Error(t, err)
	assert.Nil(t, pool)
}

func TestNewPool_AndEnsureSchema(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "postgres",
		Password:        "postgres",
		Database:        "testdb",
		MaxConnections:  4,
		MinConnections:  1,
		MaxConnLifetime: 60,
		ConnectTimeout:  30 * time.Second,
	}

	pool, err := NewPool(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, EnsureSchema(ctx, pool, zerolog.Nop()))
	// Applying twice must not fail.
	require.NoError(t, EnsureSchema(ctx, pool, zerolog.Nop()))

	var tables int
	err = pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_name IN ('receipts', 'receipt_lines')
	`).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 2, tables)
}
