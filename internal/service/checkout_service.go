package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kart-checkout/internal/metrics"
	"kart-checkout/internal/model"
	"kart-checkout/internal/pricing"
	"kart-checkout/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	rules    *pricing.RuleSet
	receipts repository.ReceiptRepository
	recorder metrics.CheckoutRecorder
	validate *validator.Validate
	maxItems int
	logger   zerolog.Logger
	now      func() time.Time
}

// NewCheckoutService creates a new checkout service over an immutable rule set.
// receipts may be nil, in which case checkouts are priced but not recorded.
func NewCheckoutService(
	rules *pricing.RuleSet,
	receipts repository.ReceiptRepository,
	recorder metrics.CheckoutRecorder,
	maxItems int,
	logger zerolog.Logger,
) CheckoutService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &checkoutService{
		rules:    rules,
		receipts: receipts,
		recorder: recorder,
		validate: validator.New(),
		maxItems: maxItems,
		logger:   logger.With().Str("service", "checkout").Logger(),
		now:      time.Now,
	}
}

// Checkout prices the basket described by req. Every request gets its own
// evaluator; the rule set is shared read-only.
func (s *checkoutService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	if err := s.validateCheckoutRequest(req); err != nil {
		s.recorder.ObserveCheckout(metrics.OutcomeInvalid, 0, 0)
		return nil, err
	}

	evaluator := pricing.NewEvaluator(s.rules)
	for i, code := range req.Items {
		if err := evaluator.Scan(code); err != nil {
			s.logger.Warn().
				Int("item_index", i).
				Str("code", code).
				Err(err).
				Msg("unknown item scanned")
			s.recorder.ObserveCheckout(metrics.OutcomeUnknownItem, evaluator.Len(), 0)
			if errors.Is(err, pricing.ErrUnknownItem) {
				return nil, model.WrapDomainError(model.ErrCodeUnknownItem, err)
			}
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
	}

	breakdown := evaluator.Breakdown()
	resp := toCheckoutResponse(breakdown, evaluator.Len())

	if s.receipts != nil {
		id, err := s.recordReceipt(ctx, breakdown, evaluator.Len())
		if err != nil {
			s.recorder.ObserveCheckout(metrics.OutcomeError, evaluator.Len(), 0)
			return nil, err
		}
		resp.ReceiptID = &id
	}

	total, _ := breakdown.Total.Float64()
	s.recorder.ObserveCheckout(metrics.OutcomeSuccess, evaluator.Len(), total)

	s.logger.Info().
		Int("item_count", evaluator.Len()).
		Str("total_price", resp.TotalPrice).
		Str("discount", resp.Discount).
		Msg("basket priced")

	return resp, nil
}

// recordReceipt stores the priced basket and its lines in one transaction.
func (s *checkoutService) recordReceipt(ctx context.Context, b pricing.Breakdown, itemCount int) (id uuid.UUID, err error) {
	tx, err := s.receipts.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return uuid.Nil, fmt.Errorf("failed to record receipt: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	receipt := &model.Receipt{
		ID:        uuid.New(),
		Subtotal:  b.Subtotal,
		Discount:  b.Discount,
		Total:     b.Total,
		ItemCount: itemCount,
		CreatedAt: s.now().UTC(),
	}

	if err = s.receipts.CreateReceipt(ctx, tx, receipt); err != nil {
		s.logger.Error().Err(err).Str("receipt_id", receipt.ID.String()).Msg("failed to create receipt")
		return uuid.Nil, fmt.Errorf("failed to record receipt: %w", err)
	}

	lines := make([]model.ReceiptLine, len(b.Lines))
	for i, l := range b.Lines {
		lines[i] = model.ReceiptLine{
			ID:           uuid.New(),
			ReceiptID:    receipt.ID,
			Code:         l.Code,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			DiscountKind: l.DiscountKind,
			Subtotal:     l.Subtotal,
			Discount:     l.Discount,
		}
	}

	if err = s.receipts.CreateReceiptLines(ctx, tx, lines); err != nil {
		s.logger.Error().
			Err(err).
			Str("receipt_id", receipt.ID.String()).
			Int("line_count", len(lines)).
			Msg("failed to create receipt lines")
		return uuid.Nil, fmt.Errorf("failed to record receipt lines: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("receipt_id", receipt.ID.String()).Msg("failed to commit transaction")
		return uuid.Nil, fmt.Errorf("failed to record receipt: %w", err)
	}

	return receipt.ID, nil
}

// GetReceipt retrieves a recorded checkout by its ID.
func (s *checkoutService) GetReceipt(ctx context.Context, id uuid.UUID) (*model.ReceiptResponse, error) {
	if s.receipts == nil {
		return nil, model.ErrReceiptNotFound
	}

	receipt, lines, err := s.receipts.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("receipt_id", id.String()).Msg("failed to get receipt")
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	if receipt == nil {
		s.logger.Debug().Str("receipt_id", id.String()).Msg("receipt not found")
		return nil, model.ErrReceiptNotFound
	}

	return &model.ReceiptResponse{
		ID:         receipt.ID,
		TotalPrice: receipt.Total.StringFixed(2),
		Subtotal:   receipt.Subtotal.StringFixed(2),
		Discount:   receipt.Discount.StringFixed(2),
		ItemCount:  receipt.ItemCount,
		Lines:      toReceiptLines(lines),
		CreatedAt:  receipt.CreatedAt,
	}, nil
}

// validateCheckoutRequest validates the checkout request.
func (s *checkoutService) validateCheckoutRequest(req *model.CheckoutRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeValidation, "checkout request is nil")
	}

	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return model.NewDomainError(model.ErrCodeValidation, describeFieldError(fieldErrs[0]))
		}
		return model.WrapDomainError(model.ErrCodeValidation, err)
	}

	if len(req.Items) > s.maxItems {
		s.logger.Warn().
			Int("item_count", len(req.Items)).
			Int("max_items", s.maxItems).
			Msg("basket too large")
		return model.NewDomainError(model.ErrCodeValidation,
			fmt.Sprintf("basket may contain at most %d items", s.maxItems))
	}

	return nil
}

// describeFieldError turns a validator failure into a client-facing message.
func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	if strings.HasPrefix(field, "items[") {
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s: item code is required", field)
		case "max":
			return fmt.Sprintf("%s: item code may be at most %s characters", field, fe.Param())
		}
	}
	if fe.Tag() == "required" {
		return fmt.Sprintf("%s is required", field)
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

func toCheckoutResponse(b pricing.Breakdown, itemCount int) *model.CheckoutResponse {
	lines := make([]model.CheckoutLine, len(b.Lines))
	for i, l := range b.Lines {
		lines[i] = model.CheckoutLine{
			Code:         l.Code,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice.StringFixed(2),
			DiscountKind: l.DiscountKind,
			Subtotal:     l.Subtotal.StringFixed(2),
			Discount:     l.Discount.StringFixed(2),
		}
	}
	return &model.CheckoutResponse{
		TotalPrice: b.Total.StringFixed(2),
		Subtotal:   b.Subtotal.StringFixed(2),
		Discount:   b.Discount.StringFixed(2),
		ItemCount:  itemCount,
		Lines:      lines,
	}
}

// toReceiptLines formats stored lines the same way checkout lines are returned.
func toReceiptLines(lines []model.ReceiptLine) []model.CheckoutLine {
	out := make([]model.CheckoutLine, len(lines))
	for i, l := range lines {
		out[i] = model.CheckoutLine{
			Code:         l.Code,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice.StringFixed(2),
			DiscountKind: l.DiscountKind,
			Subtotal:     l.Subtotal.StringFixed(2),
			Discount:     l.Discount.StringFixed(2),
		}
	}
	return out
}
