//go:build ignore

package main

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"kart-checkout/internal/catalog"

	"github.com/shopspring/decimal"
)

// generateSampleCatalog writes a gzip-compressed pricing catalog for testing
// the gzip and S3 loading paths.
//
//	FR1  3.11  buy one get one free
//	SR1  5.00  4.50 each when buying 3 or more
//	CF1 11.23  no discount
//
// Usage: go run scripts/generate_sample_catalog.go
func main() {
	dataDir := "data/catalog"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	bulkQty := 3
	bulkPrice := decimal.RequireFromString("4.50")
	records := []catalog.Record{
		{Code: "FR1", Price: decimal.RequireFromString("3.11"), Discount: "BOGOF"},
		{Code: "SR1", Price: decimal.RequireFromString("5.00"), BulkQty: &bulkQty, BulkPrice: &bulkPrice},
		{Code: "CF1", Price: decimal.RequireFromString("11.23")},
	}

	// Refuse to write a catalog the loader would reject
	for _, rec := range records {
		if _, err := rec.Rule(); err != nil {
			log.Fatalf("Invalid record %s: %v", rec.Code, err)
		}
	}

	filePath := filepath.Join(dataDir, "pricing_rules.jsonl.gz")
	if err := createCatalogFile(filePath, records); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d rules\n", filePath, len(records))
}

func createCatalogFile(filePath string, records []catalog.Record) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	defer gzWriter.Close()

	writer := bufio.NewWriter(gzWriter)
	encoder := json.NewEncoder(writer)
	for _, rec := range records {
		if err := encoder.Encode(rec); err != nil {
			return fmt.Errorf("failed to write record %s: %w", rec.Code, err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	return nil
}
