package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
	"github.com/NoussaierSalaani/smuppy-dispute-service/pkg/timeutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// DisputeRepository implements ports.DisputeRepository on PostgreSQL
type DisputeRepository struct {
	db ports.DBPort
}

// NewDisputeRepository creates a new dispute repository
func NewDisputeRepository(db ports.DBPort) *DisputeRepository {
	return &DisputeRepository{db: db}
}

func (r *DisputeRepository) executor(db ports.DBTX) ports.DBTX {
	if db != nil {
		return db
	}
	return r.db.GetDB()
}

const disputeColumns = `
	id, dispute_number, complainant_id, respondent_id, type, priority,
	amount, currency, payment_id, status, resolution, refund_amount,
	resolved_at, resolved_by, evidence_deadline, created_at, updated_at`

// GetByID retrieves a dispute by its ID
func (r *DisputeRepository) GetByID(ctx context.Context, db ports.DBTX, id uuid.UUID) (*domain.Dispute, error) {
	query := `SELECT` + disputeColumns + ` FROM disputes WHERE id = $1`
	row := r.executor(db).QueryRow(ctx, query, id)
	return scanDispute(row)
}

// GetByIDForUpdate retrieves a dispute with a row lock. Serializes
// concurrent resolution/acceptance attempts on the same dispute.
func (r *DisputeRepository) GetByIDForUpdate(ctx context.Context, tx ports.DBTX, id uuid.UUID) (*domain.Dispute, error) {
	query := `SELECT` + disputeColumns + ` FROM disputes WHERE id = $1 FOR UPDATE`
	row := r.executor(tx).QueryRow(ctx, query, id)
	return scanDispute(row)
}

// UpdateLifecycle writes the lifecycle fields of a dispute
func (r *DisputeRepository) UpdateLifecycle(ctx context.Context, tx ports.DBTX, d *domain.Dispute) error {
	var resolution pgtype.Text
	if d.Resolution != nil {
		resolution = pgtype.Text{String: string(*d.Resolution), Valid: true}
	}

	refundAmount, err := nullNumeric(d.RefundAmount)
	if err != nil {
		return fmt.Errorf("convert refund amount: %w", err)
	}

	tag, err := r.executor(tx).Exec(ctx, `
		UPDATE disputes
		SET status = $2, resolution = $3, refund_amount = $4,
		    resolved_at = $5, resolved_by = $6, updated_at = $7
		WHERE id = $1`,
		d.ID, string(d.Status), resolution, refundAmount,
		nullTime(d.ResolvedAt), nullUUID(d.ResolvedBy), d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update dispute lifecycle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDisputeNotFound
	}
	return nil
}

// List returns disputes matching the filter, ordered by status rank,
// then (admin listings) priority rank, then creation time descending.
func (r *DisputeRepository) List(ctx context.Context, db ports.DBTX, filter ports.DisputeFilter) ([]*domain.Dispute, error) {
	query := `SELECT` + disputeColumns + ` FROM disputes WHERE 1=1`
	args := make([]any, 0, 6)

	if filter.PartyID != nil {
		switch filter.Role {
		case ports.RoleComplainant:
			args = append(args, *filter.PartyID)
			query += fmt.Sprintf(" AND complainant_id = $%d", len(args))
		case ports.RoleRespondent:
			args = append(args, *filter.PartyID)
			query += fmt.Sprintf(" AND respondent_id = $%d", len(args))
		default:
			args = append(args, *filter.PartyID)
			query += fmt.Sprintf(" AND (complainant_id = $%d OR respondent_id = $%d)", len(args), len(args))
		}
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Priority != nil {
		args = append(args, string(*filter.Priority))
		query += fmt.Sprintf(" AND priority = $%d", len(args))
	}

	query += `
		ORDER BY
		CASE status
			WHEN 'open' THEN 0
			WHEN 'under_review' THEN 1
			WHEN 'resolved' THEN 2
			WHEN 'closed' THEN 3
			ELSE 4
		END`
	if filter.AdminOrder {
		query += `,
		CASE priority
			WHEN 'urgent' THEN 0
			WHEN 'high' THEN 1
			WHEN 'normal' THEN 2
			ELSE 3
		END`
	}
	query += ", created_at DESC"

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.executor(db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list disputes: %w", err)
	}
	defer rows.Close()

	disputes := make([]*domain.Dispute, 0, filter.Limit)
	for rows.Next() {
		d, err := scanDispute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dispute: %w", err)
		}
		disputes = append(disputes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate disputes: %w", err)
	}
	return disputes, nil
}

// Stats computes the aggregate counts and the average resolution time
// over resolved disputes for the admin listing.
func (r *DisputeRepository) Stats(ctx context.Context, db ports.DBTX) (*ports.DisputeStats, error) {
	row := r.executor(db).QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'open'),
			COUNT(*) FILTER (WHERE status = 'under_review'),
			COUNT(*) FILTER (WHERE status = 'resolved'),
			COUNT(*) FILTER (WHERE status = 'closed'),
			COALESCE(AVG(EXTRACT(EPOCH FROM (resolved_at - created_at))) FILTER (WHERE resolved_at IS NOT NULL), 0)
		FROM disputes`)

	stats := &ports.DisputeStats{ByStatus: make(map[domain.Status]int64, 4)}
	var open, underReview, resolved, closed int64
	if err := row.Scan(&stats.Total, &open, &underReview, &resolved, &closed, &stats.AvgResolutionSeconds); err != nil {
		return nil, fmt.Errorf("dispute stats: %w", err)
	}
	stats.ByStatus[domain.StatusOpen] = open
	stats.ByStatus[domain.StatusUnderReview] = underReview
	stats.ByStatus[domain.StatusResolved] = resolved
	stats.ByStatus[domain.StatusClosed] = closed
	return stats, nil
}

// scanDispute reads one dispute row from a pgx.Row or pgx.Rows
func scanDispute(row pgx.Row) (*domain.Dispute, error) {
	var (
		d            domain.Dispute
		amount       pgtype.Numeric
		refundAmount pgtype.Numeric
		resolution   pgtype.Text
		resolvedAt   pgtype.Timestamptz
		resolvedBy   pgtype.UUID
	)

	err := row.Scan(
		&d.ID, &d.DisputeNumber, &d.ComplainantID, &d.RespondentID,
		&d.Type, &d.Priority, &amount, &d.Currency, &d.PaymentID,
		&d.Status, &resolution, &refundAmount, &resolvedAt, &resolvedBy,
		&d.EvidenceDeadline, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDisputeNotFound
		}
		return nil, fmt.Errorf("scan dispute: %w", err)
	}

	if d.Amount, err = numericToDecimal(amount); err != nil {
		return nil, fmt.Errorf("convert amount: %w", err)
	}
	if d.RefundAmount, err = numericToDecimalPtr(refundAmount); err != nil {
		return nil, fmt.Errorf("convert refund amount: %w", err)
	}
	if resolution.Valid {
		res := domain.Resolution(resolution.String)
		d.Resolution = &res
	}
	if resolvedAt.Valid {
		t := timeutil.ToUTC(resolvedAt.Time)
		d.ResolvedAt = &t
	}
	if resolvedBy.Valid {
		id := uuid.UUID(resolvedBy.Bytes)
		d.ResolvedBy = &id
	}

	// pgx returns timestamptz in the connection's location
	d.EvidenceDeadline = timeutil.ToUTC(d.EvidenceDeadline)
	d.CreatedAt = timeutil.ToUTC(d.CreatedAt)
	d.UpdatedAt = timeutil.ToUTC(d.UpdatedAt)
	return &d, nil
}
