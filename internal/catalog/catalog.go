package catalog

import (
	"context"

	"kart-checkout/internal/pricing"
)

// Loader defines the interface for loading a pricing rule catalog.
type Loader interface {
	// Load reads a catalog (JSON lines, optionally gzipped) and returns its rules.
	Load(ctx context.Context, path string) (*pricing.RuleSet, error)
}
