//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"

	"kart-checkout/internal/config"
	"kart-checkout/internal/database"
)

// Connects with the configured DB_* settings and creates the receipt schema.
//
// Usage: go run scripts/check_db.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	var dbName string
	err = pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}

	if err := database.EnsureSchema(ctx, pool, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to create schema: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully connected to database %s; receipt schema is ready\n", dbName)
}
