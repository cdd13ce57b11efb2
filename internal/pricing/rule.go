package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Discount is the discount shape attached to a pricing rule.
// The set of implementations is closed: NoDiscount, BOGOF and BulkThreshold.
type Discount interface {
	// Kind returns a stable name for the discount shape.
	Kind() string

	isDiscount()
}

// Discount kinds.
const (
	KindNone  = "NONE"
	KindBOGOF = "BOGOF"
	KindBulk  = "BULK"
)

// NoDiscount charges every unit at the unit price.
type NoDiscount struct{}

// BOGOF makes every second unit of an item free.
type BOGOF struct{}

// BulkThreshold reprices every unit at BulkUnitPrice once the basket holds
// at least MinQty units of the item.
type BulkThreshold struct {
	MinQty        int
	BulkUnitPrice decimal.Decimal
}

func (NoDiscount) Kind() string    { return KindNone }
func (BOGOF) Kind() string         { return KindBOGOF }
func (BulkThreshold) Kind() string { return KindBulk }

func (NoDiscount) isDiscount()    {}
func (BOGOF) isDiscount()         {}
func (BulkThreshold) isDiscount() {}

// PricingRule is the price of a single unit plus an optional discount.
type PricingRule struct {
	UnitPrice decimal.Decimal
	Discount  Discount
}

// discountFor returns the amount taken off n units of this item.
func (r PricingRule) discountFor(n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	qty := decimal.NewFromInt(int64(n))

	switch d := r.Discount.(type) {
	case BOGOF:
		return r.UnitPrice.Mul(decimal.NewFromInt(int64(n / 2)))
	case BulkThreshold:
		if n < d.MinQty {
			return decimal.Zero
		}
		return r.UnitPrice.Sub(d.BulkUnitPrice).Mul(qty)
	case NoDiscount, nil:
		return decimal.Zero
	default:
		panic(fmt.Sprintf("pricing: unhandled discount %T", d))
	}
}

// RuleSet maps item codes to pricing rules. It is immutable after
// construction and safe to share between evaluators.
type RuleSet struct {
	rules map[string]PricingRule
}

// NewRuleSet creates a rule set from a copy of the given rules.
func NewRuleSet(rules map[string]PricingRule) *RuleSet {
	copied := make(map[string]PricingRule, len(rules))
	for code, rule := range rules {
		if rule.Discount == nil {
			rule.Discount = NoDiscount{}
		}
		copied[code] = rule
	}
	return &RuleSet{rules: copied}
}

// Lookup returns the rule for code or an *UnknownItemError.
func (s *RuleSet) Lookup(code string) (PricingRule, error) {
	rule, ok := s.rules[code]
	if !ok {
		return PricingRule{}, &UnknownItemError{Code: code}
	}
	return rule, nil
}

// Has reports whether code has a rule.
func (s *RuleSet) Has(code string) bool {
	_, ok := s.rules[code]
	return ok
}

// Codes returns all item codes in ascending order.
func (s *RuleSet) Codes() []string {
	codes := make([]string, 0, len(s.rules))
	for code := range s.rules {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Len returns the number of rules.
func (s *RuleSet) Len() int {
	return len(s.rules)
}
