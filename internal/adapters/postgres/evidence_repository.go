package postgres

import (
	"context"
	"fmt"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
	"github.com/google/uuid"
)

// EvidenceRepository implements ports.EvidenceRepository on PostgreSQL
type EvidenceRepository struct {
	db ports.DBPort
}

// NewEvidenceRepository creates a new evidence repository
func NewEvidenceRepository(db ports.DBPort) *EvidenceRepository {
	return &EvidenceRepository{db: db}
}

func (r *EvidenceRepository) executor(db ports.DBTX) ports.DBTX {
	if db != nil {
		return db
	}
	return r.db.GetDB()
}

// Create inserts one evidence item
func (r *EvidenceRepository) Create(ctx context.Context, tx ports.DBTX, item *domain.EvidenceItem) error {
	_, err := r.executor(tx).Exec(ctx, `
		INSERT INTO dispute_evidence
			(id, dispute_id, submitter_id, type, file_url, file_name, text_content, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		item.ID, item.DisputeID, item.SubmitterID, string(item.Type),
		nullText(item.FileURL), nullText(item.FileName), nullText(item.TextContent),
		item.Description, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create evidence: %w", err)
	}
	return nil
}

// CountByDispute returns the number of evidence items on a dispute
func (r *EvidenceRepository) CountByDispute(ctx context.Context, db ports.DBTX, disputeID uuid.UUID) (int, error) {
	var count int
	err := r.executor(db).QueryRow(ctx,
		`SELECT COUNT(*) FROM dispute_evidence WHERE dispute_id = $1`, disputeID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count evidence: %w", err)
	}
	return count, nil
}

// ListByDispute returns the evidence items on a dispute, oldest first
func (r *EvidenceRepository) ListByDispute(ctx context.Context, db ports.DBTX, disputeID uuid.UUID) ([]*domain.EvidenceItem, error) {
	rows, err := r.executor(db).Query(ctx, `
		SELECT id, dispute_id, submitter_id, type, file_url, file_name, text_content, description, created_at
		FROM dispute_evidence
		WHERE dispute_id = $1
		ORDER BY created_at ASC`, disputeID)
	if err != nil {
		return nil, fmt.Errorf("list evidence: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.EvidenceItem, 0, domain.MaxEvidenceItems)
	for rows.Next() {
		var item domain.EvidenceItem
		if err := rows.Scan(
			&item.ID, &item.DisputeID, &item.SubmitterID, &item.Type,
			&item.FileURL, &item.FileName, &item.TextContent,
			&item.Description, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan evidence: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evidence: %w", err)
	}
	return items, nil
}
