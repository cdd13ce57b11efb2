package service

import (
	"context"

	"kart-checkout/internal/model"
	"kart-checkout/internal/pricing"

	"github.com/rs/zerolog"
)

// ruleService implements RuleService.
type ruleService struct {
	rules  *pricing.RuleSet
	logger zerolog.Logger
}

// NewRuleService creates a new rule service.
func NewRuleService(rules *pricing.RuleSet, logger zerolog.Logger) RuleService {
	return &ruleService{
		rules:  rules,
		logger: logger.With().Str("service", "rule").Logger(),
	}
}

// List returns every rule ordered by item code.
func (s *ruleService) List(ctx context.Context) []model.RuleView {
	codes := s.rules.Codes()
	views := make([]model.RuleView, 0, len(codes))
	for _, code := range codes {
		rule, err := s.rules.Lookup(code)
		if err != nil {
			continue
		}
		views = append(views, toRuleView(code, rule))
	}

	s.logger.Debug().Int("count", len(views)).Msg("listed pricing rules")

	return views
}

// Get returns the rule for a single item code.
func (s *ruleService) Get(ctx context.Context, code string) (*model.RuleView, error) {
	rule, err := s.rules.Lookup(code)
	if err != nil {
		s.logger.Debug().Str("code", code).Msg("pricing rule not found")
		return nil, model.ErrRuleNotFound
	}

	view := toRuleView(code, rule)
	return &view, nil
}

func toRuleView(code string, rule pricing.PricingRule) model.RuleView {
	view := model.RuleView{
		Code:         code,
		UnitPrice:    rule.UnitPrice.StringFixed(2),
		DiscountKind: rule.Discount.Kind(),
	}
	if bulk, ok := rule.Discount.(pricing.BulkThreshold); ok {
		minQty := bulk.MinQty
		bulkPrice := bulk.BulkUnitPrice.StringFixed(2)
		view.BulkMinQty = &minQty
		view.BulkUnitPrice = &bulkPrice
	}
	return view
}
