package postgres

import (
	"context"
	"fmt"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// RefundRepository implements ports.RefundRepository on PostgreSQL
type RefundRepository struct {
	db ports.DBPort
}

// NewRefundRepository creates a new refund repository
func NewRefundRepository(db ports.DBPort) *RefundRepository {
	return &RefundRepository{db: db}
}

func (r *RefundRepository) executor(db ports.DBTX) ports.DBTX {
	if db != nil {
		return db
	}
	return r.db.GetDB()
}

// Create inserts one refund attempt record
func (r *RefundRepository) Create(ctx context.Context, tx ports.DBTX, record *domain.RefundRecord) error {
	amount, err := decimalToNumeric(record.Amount)
	if err != nil {
		return fmt.Errorf("convert refund amount: %w", err)
	}

	_, err = r.executor(tx).Exec(ctx, `
		INSERT INTO dispute_refunds
			(id, dispute_id, payment_id, processor_refund_id, amount, status, error_message, initiated_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.ID, record.DisputeID, record.PaymentID,
		nullText(record.ProcessorRefundID), amount, string(record.Status),
		nullText(record.ErrorMessage), record.InitiatedBy, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create refund record: %w", err)
	}
	return nil
}

// ListByDispute returns refund attempts for a dispute, newest first
func (r *RefundRepository) ListByDispute(ctx context.Context, db ports.DBTX, disputeID uuid.UUID) ([]*domain.RefundRecord, error) {
	rows, err := r.executor(db).Query(ctx, `
		SELECT id, dispute_id, payment_id, processor_refund_id, amount, status, error_message, initiated_by, created_at
		FROM dispute_refunds
		WHERE dispute_id = $1
		ORDER BY created_at DESC`, disputeID)
	if err != nil {
		return nil, fmt.Errorf("list refunds: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.RefundRecord, 0, 2)
	for rows.Next() {
		var (
			record domain.RefundRecord
			amount pgtype.Numeric
		)
		if err := rows.Scan(
			&record.ID, &record.DisputeID, &record.PaymentID,
			&record.ProcessorRefundID, &amount, &record.Status,
			&record.ErrorMessage, &record.InitiatedBy, &record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan refund record: %w", err)
		}
		if record.Amount, err = numericToDecimal(amount); err != nil {
			return nil, fmt.Errorf("convert refund amount: %w", err)
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate refunds: %w", err)
	}
	return records, nil
}
