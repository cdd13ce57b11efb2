package service

import (
	"context"

	"kart-checkout/internal/model"

	"github.com/google/uuid"
)

// CheckoutService defines operations for pricing baskets.
type CheckoutService interface {
	// Checkout scans the request items in order and prices the basket.
	Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResponse, error)

	// GetReceipt retrieves a recorded checkout by its ID.
	GetReceipt(ctx context.Context, id uuid.UUID) (*model.ReceiptResponse, error)
}

// RuleService defines read access to the active pricing catalog.
type RuleService interface {
	// List returns every rule ordered by item code.
	List(ctx context.Context) []model.RuleView

	// Get returns the rule for a single item code.
	Get(ctx context.Context, code string) (*model.RuleView, error)
}
