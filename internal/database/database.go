package database

import (
	"context"
	"fmt"
	"time"

	"kart-checkout/internal/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// NewPool creates a new PostgreSQL connection pool, retrying connect and
// ping with exponential backoff until cfg.ConnectTimeout elapses.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Configure pool settings
	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int("max_connections", cfg.MaxConnections).
		Int("min_connections", cfg.MinConnections).
		Msg("creating database connection pool")

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = cfg.ConnectTimeout
	retryPolicy.MaxInterval = 15 * time.Second

	var pool *pgxpool.Pool
	err = backoff.RetryNotify(
		func() error {
			p, err := pgxpool.NewWithConfig(ctx, poolConfig)
			if err != nil {
				return fmt.Errorf("create pool: %w", err)
			}
			if err := p.Ping(ctx); err != nil {
				p.Close()
				return fmt.Errorf("ping: %w", err)
			}
			pool = p
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, next time.Duration) {
			logger.Warn().
				Err(err).
				Dur("next_attempt_in", next).
				Msg("database connection failed, retrying")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info().Msg("database connection pool created successfully")

	return pool, nil
}

// Schema creates the receipt tables. It is safe to run repeatedly.
const Schema = `
	CREATE TABLE IF NOT EXISTS receipts (
		id UUID PRIMARY KEY,
		subtotal NUMERIC(12, 2) NOT NULL,
		discount NUMERIC(12, 2) NOT NULL,
		total NUMERIC(12, 2) NOT NULL,
		item_count INTEGER NOT NULL CHECK (item_count >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS receipt_lines (
		id UUID PRIMARY KEY,
		receipt_id UUID NOT NULL REFERENCES receipts(id) ON DELETE CASCADE,
		code TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(12, 4) NOT NULL,
		discount_kind TEXT NOT NULL,
		line_subtotal NUMERIC(12, 4) NOT NULL,
		line_discount NUMERIC(12, 4) NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_receipt_lines_receipt_id ON receipt_lines(receipt_id);
	CREATE INDEX IF NOT EXISTS idx_receipts_created_at ON receipts(created_at DESC);
`

// EnsureSchema creates the receipt tables if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		logger.Error().Err(err).Msg("failed to apply receipt schema")
		return fmt.Errorf("failed to apply receipt schema: %w", err)
	}
	logger.Info().Msg("receipt schema ready")
	return nil
}
