package repository

import (
	"context"

	"kart-checkout/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReceiptRepository defines the interface for receipt data access operations.
type ReceiptRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateReceipt inserts a new receipt within the provided transaction.
	CreateReceipt(ctx context.Context, tx pgx.Tx, receipt *model.Receipt) error

	// CreateReceiptLines inserts the lines of a receipt within the provided transaction.
	CreateReceiptLines(ctx context.Context, tx pgx.Tx, lines []model.ReceiptLine) error

	// GetByID retrieves a receipt by its ID along with its lines.
	// It returns nil, nil, nil when the receipt does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Receipt, []model.ReceiptLine, error)
}
