package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// State is the logical state of an Evaluator.
type State int

const (
	// Empty means nothing has been scanned yet.
	Empty State = iota
	// Populated means at least one item has been scanned.
	Populated
)

func (s State) String() string {
	if s == Populated {
		return "populated"
	}
	return "empty"
}

// Line is the priced summary of one item code in the basket.
type Line struct {
	Code         string
	Quantity     int
	UnitPrice    decimal.Decimal
	DiscountKind string
	Subtotal     decimal.Decimal
	Discount     decimal.Decimal
}

// Breakdown is a priced basket. Total is rounded to two decimal places,
// half away from zero.
type Breakdown struct {
	Lines    []Line
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Evaluator accumulates scanned item codes and prices them against a RuleSet.
// An Evaluator is not safe for concurrent use; create one per checkout.
type Evaluator struct {
	rules  *RuleSet
	basket []string
}

// NewEvaluator creates an evaluator with an empty basket bound to rules.
func NewEvaluator(rules *RuleSet) *Evaluator {
	if rules == nil {
		rules = NewRuleSet(nil)
	}
	return &Evaluator{rules: rules}
}

// Scan adds code to the basket. Unknown codes leave the basket untouched.
func (e *Evaluator) Scan(code string) error {
	if !e.rules.Has(code) {
		return &UnknownItemError{Code: code}
	}
	e.basket = append(e.basket, code)
	return nil
}

// Items returns the scanned codes in scan order.
func (e *Evaluator) Items() []string {
	items := make([]string, len(e.basket))
	copy(items, e.basket)
	return items
}

// Len returns the number of scanned items.
func (e *Evaluator) Len() int {
	return len(e.basket)
}

// State reports whether anything has been scanned.
func (e *Evaluator) State() State {
	if len(e.basket) == 0 {
		return Empty
	}
	return Populated
}

// Total returns the basket total as a string with exactly two decimals.
func (e *Evaluator) Total() string {
	return e.Breakdown().Total.StringFixed(2)
}

// Breakdown prices the basket. The subtotal is the sum of unit prices over
// every scanned item; discounts are then taken per distinct code, which gives
// the same result as walking the whole catalog since unscanned codes
// contribute nothing.
func (e *Evaluator) Breakdown() Breakdown {
	counts := make(map[string]int, len(e.basket))
	for _, code := range e.basket {
		counts[code]++
	}

	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	b := Breakdown{
		Lines:    make([]Line, 0, len(codes)),
		Subtotal: decimal.Zero,
		Discount: decimal.Zero,
	}
	for _, code := range codes {
		// Every basket entry passed Scan, so the lookup cannot miss.
		rule, _ := e.rules.Lookup(code)
		n := counts[code]

		line := Line{
			Code:         code,
			Quantity:     n,
			UnitPrice:    rule.UnitPrice,
			DiscountKind: rule.Discount.Kind(),
			Subtotal:     rule.UnitPrice.Mul(decimal.NewFromInt(int64(n))),
			Discount:     rule.discountFor(n),
		}
		b.Subtotal = b.Subtotal.Add(line.Subtotal)
		b.Discount = b.Discount.Add(line.Discount)
		b.Lines = append(b.Lines, line)
	}

	b.Total = b.Subtotal.Sub(b.Discount).Round(2)
	return b
}
