package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt is the recorded outcome of a completed checkout.
type Receipt struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Subtotal  decimal.Decimal `json:"subtotal" db:"subtotal"`
	Discount  decimal.Decimal `json:"discount" db:"discount"`
	Total     decimal.Decimal `json:"total" db:"total"`
	ItemCount int             `json:"item_count" db:"item_count"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// ReceiptLine is one item code on a receipt.
type ReceiptLine struct {
	ID           uuid.UUID       `json:"-" db:"id"`
	ReceiptID    uuid.UUID       `json:"-" db:"receipt_id"`
	Code         string          `json:"code" db:"code"`
	Quantity     int             `json:"quantity" db:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price" db:"unit_price"`
	DiscountKind string          `json:"discount_kind" db:"discount_kind"`
	Subtotal     decimal.Decimal `json:"subtotal" db:"line_subtotal"`
	Discount     decimal.Decimal `json:"discount" db:"line_discount"`
}

// ReceiptResponse represents the response payload for a receipt.
type ReceiptResponse struct {
	ID         uuid.UUID      `json:"id"`
	TotalPrice string         `json:"total_price"`
	Subtotal   string         `json:"subtotal"`
	Discount   string         `json:"discount"`
	ItemCount  int            `json:"item_count"`
	Lines      []CheckoutLine `json:"lines"`
	CreatedAt  time.Time      `json:"created_at"`
}
