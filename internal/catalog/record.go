package catalog

import (
	"errors"
	"fmt"

	"kart-checkout/internal/pricing"

	"github.com/shopspring/decimal"
)

// ErrInvalidRecord is wrapped by every catalog validation failure.
var ErrInvalidRecord = errors.New("invalid catalog record")

// Record is one catalog line as it appears on disk:
//
//	{"code":"FR1","price":"3.11","discount":"BOGOF"}
//	{"code":"SR1","price":"5.00","bulk_qty":3,"bulk_price":"4.50"}
//	{"code":"CF1","price":"11.23"}
type Record struct {
	Code      string           `json:"code"`
	Price     decimal.Decimal  `json:"price"`
	Discount  string           `json:"discount,omitempty"`
	BulkQty   *int             `json:"bulk_qty,omitempty"`
	BulkPrice *decimal.Decimal `json:"bulk_price,omitempty"`
}

// Rule converts the record into a pricing rule. A record may carry a BOGOF
// discount or bulk fields, never both.
func (r Record) Rule() (pricing.PricingRule, error) {
	if r.Code == "" {
		return pricing.PricingRule{}, fmt.Errorf("%w: code is required", ErrInvalidRecord)
	}
	if !r.Price.IsPositive() {
		return pricing.PricingRule{}, fmt.Errorf("%w: %s: price must be positive", ErrInvalidRecord, r.Code)
	}

	hasBulk := r.BulkQty != nil || r.BulkPrice != nil

	switch {
	case r.Discount != "" && hasBulk:
		return pricing.PricingRule{}, fmt.Errorf("%w: %s: discount and bulk pricing are mutually exclusive", ErrInvalidRecord, r.Code)

	case r.Discount == pricing.KindBOGOF:
		return pricing.PricingRule{UnitPrice: r.Price, Discount: pricing.BOGOF{}}, nil

	case r.Discount != "":
		return pricing.PricingRule{}, fmt.Errorf("%w: %s: unsupported discount %q", ErrInvalidRecord, r.Code, r.Discount)

	case hasBulk:
		if r.BulkQty == nil || r.BulkPrice == nil {
			return pricing.PricingRule{}, fmt.Errorf("%w: %s: bulk_qty and bulk_price must be set together", ErrInvalidRecord, r.Code)
		}
		if *r.BulkQty < 1 {
			return pricing.PricingRule{}, fmt.Errorf("%w: %s: bulk_qty must be at least 1", ErrInvalidRecord, r.Code)
		}
		if !r.BulkPrice.IsPositive() || !r.BulkPrice.LessThan(r.Price) {
			return pricing.PricingRule{}, fmt.Errorf("%w: %s: bulk_price must be positive and below price", ErrInvalidRecord, r.Code)
		}
		return pricing.PricingRule{
			UnitPrice: r.Price,
			Discount:  pricing.BulkThreshold{MinQty: *r.BulkQty, BulkUnitPrice: *r.BulkPrice},
		}, nil

	default:
		return pricing.PricingRule{UnitPrice: r.Price, Discount: pricing.NoDiscount{}}, nil
	}
}
