package model

// RuleView is the public representation of a pricing rule.
type RuleView struct {
	Code          string  `json:"code"`
	UnitPrice     string  `json:"unit_price"`
	DiscountKind  string  `json:"discount_kind"`
	BulkMinQty    *int    `json:"bulk_min_qty,omitempty"`
	BulkUnitPrice *string `json:"bulk_unit_price,omitempty"`
}
