package model

import (
	"github.com/google/uuid"
)

// CheckoutRequest is the payload for pricing a basket.
// Items are item codes in scan order; duplicates are allowed.
type CheckoutRequest struct {
	Items []string `json:"items" validate:"required,dive,required,max=64"`
}

// CheckoutResponse is the priced basket returned to the caller.
type CheckoutResponse struct {
	TotalPrice string         `json:"total_price"`
	Subtotal   string         `json:"subtotal"`
	Discount   string         `json:"discount"`
	ItemCount  int            `json:"item_count"`
	Lines      []CheckoutLine `json:"lines"`
	ReceiptID  *uuid.UUID     `json:"receipt_id,omitempty"`
}

// CheckoutLine summarises one item code in a priced basket.
type CheckoutLine struct {
	Code         string `json:"code"`
	Quantity     int    `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	DiscountKind string `json:"discount_kind"`
	Subtotal     string `json:"subtotal"`
	Discount     string `json:"discount"`
}
