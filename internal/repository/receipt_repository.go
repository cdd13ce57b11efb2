package repository

import (
	"context"
	"errors"
	"fmt"

	"kart-checkout/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// receiptRepository implements the ReceiptRepository interface using PostgreSQL.
type receiptRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReceiptRepository creates a new PostgreSQL-backed receipt repository.
func NewReceiptRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReceiptRepository {
	return &receiptRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "receipt").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *receiptRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateReceipt inserts a new receipt within the provided transaction.
func (r *receiptRepository) CreateReceipt(ctx context.Context, tx pgx.Tx, receipt *model.Receipt) error {
	query := `
		INSERT INTO receipts (id, subtotal, discount, total, item_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := tx.Exec(ctx, query,
		receipt.ID,
		receipt.Subtotal,
		receipt.Discount,
		receipt.Total,
		receipt.ItemCount,
		receipt.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("receipt_id", receipt.ID.String()).
			Msg("failed to create receipt")
		return fmt.Errorf("failed to create receipt: %w", err)
	}

	r.logger.Debug().
		Str("receipt_id", receipt.ID.String()).
		Msg("receipt created successfully")

	return nil
}

// CreateReceiptLines inserts the lines of a receipt in a single batch.
func (r *receiptRepository) CreateReceiptLines(ctx context.Context, tx pgx.Tx, lines []model.ReceiptLine) error {
	if len(lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO receipt_lines (
			id, receipt_id, code, quantity, unit_price, discount_kind, line_subtotal, line_discount
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(query,
			line.ID,
			line.ReceiptID,
			line.Code,
			line.Quantity,
			line.UnitPrice,
			line.DiscountKind,
			line.Subtotal,
			line.Discount,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(lines); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("receipt_id", lines[i].ReceiptID.String()).
				Str("code", lines[i].Code).
				Msg("failed to create receipt line")
			return fmt.Errorf("failed to create receipt line: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(lines)).
		Msg("receipt lines created successfully")

	return nil
}

// GetByID retrieves a receipt by its ID along with its lines.
func (r *receiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Receipt, []model.ReceiptLine, error) {
	receiptQuery := `
		SELECT id, subtotal, discount, total, item_count, created_at
		FROM receipts
		WHERE id = $1
	`

	var receipt model.Receipt
	err := r.pool.QueryRow(ctx, receiptQuery, id).Scan(
		&receipt.ID,
		&receipt.Subtotal,
		&receipt.Discount,
		&receipt.Total,
		&receipt.ItemCount,
		&receipt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("receipt_id", id.String()).Msg("receipt not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("receipt_id", id.String()).Msg("failed to query receipt")
		return nil, nil, fmt.Errorf("failed to query receipt: %w", err)
	}

	linesQuery := `
		SELECT id, receipt_id, code, quantity, unit_price, discount_kind, line_subtotal, line_discount
		FROM receipt_lines
		WHERE receipt_id = $1
		ORDER BY code
	`

	rows, err := r.pool.Query(ctx, linesQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("receipt_id", id.String()).
			Msg("failed to query receipt lines")
		return nil, nil, fmt.Errorf("failed to query receipt lines: %w", err)
	}
	defer rows.Close()

	lines := []model.ReceiptLine{}
	for rows.Next() {
		var line model.ReceiptLine
		err := rows.Scan(
			&line.ID,
			&line.ReceiptID,
			&line.Code,
			&line.Quantity,
			&line.UnitPrice,
			&line.DiscountKind,
			&line.Subtotal,
			&line.Discount,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan receipt line row")
			return nil, nil, fmt.Errorf("failed to scan receipt line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating receipt line rows")
		return nil, nil, fmt.Errorf("error iterating receipt lines: %w", err)
	}

	return &receipt, lines, nil
}
