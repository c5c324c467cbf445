package ports

import (
	"context"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
	"github.com/google/uuid"
)

// PartyRole selects which side of a dispute the caller wants to list as.
type PartyRole string

const (
	RoleComplainant PartyRole = "complainant"
	RoleRespondent  PartyRole = "respondent"
	RoleAny         PartyRole = "any"
)

// DisputeFilter narrows a dispute listing. A nil PartyID means the caller
// is an administrator and sees every dispute.
type DisputeFilter struct {
	Status     *domain.Status
	Type       *domain.DisputeType
	Priority   *domain.Priority
	PartyID    *uuid.UUID
	Role       PartyRole
	AdminOrder bool
	Limit      int32
	Offset     int32
}

// DisputeStats are the aggregate figures returned on the admin listing.
type DisputeStats struct {
	ByStatus             map[domain.Status]int64
	Total                int64
	AvgResolutionSeconds float64
}

// DisputeRepository persists dispute records.
type DisputeRepository interface {
	GetByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Dispute, error)

	// GetByIDForUpdate fetches the dispute row with a row lock so two
	// concurrent resolution or acceptance attempts serialize on it.
	GetByIDForUpdate(ctx context.Context, tx DBTX, id uuid.UUID) (*domain.Dispute, error)

	// UpdateLifecycle writes the lifecycle fields (status, resolution,
	// refund_amount, resolved_at, resolved_by, updated_at).
	UpdateLifecycle(ctx context.Context, tx DBTX, d *domain.Dispute) error

	List(ctx context.Context, db DBTX, filter DisputeFilter) ([]*domain.Dispute, error)
	Stats(ctx context.Context, db DBTX) (*DisputeStats, error)
}

// EvidenceRepository persists evidence items.
type EvidenceRepository interface {
	Create(ctx context.Context, tx DBTX, item *domain.EvidenceItem) error
	CountByDispute(ctx context.Context, db DBTX, disputeID uuid.UUID) (int, error)
	ListByDispute(ctx context.Context, db DBTX, disputeID uuid.UUID) ([]*domain.EvidenceItem, error)
}

// TimelineRepository appends audit-log rows. There is deliberately no
// update or delete operation.
type TimelineRepository interface {
	Append(ctx context.Context, tx DBTX, event *domain.TimelineEvent) error
	ListByDispute(ctx context.Context, db DBTX, disputeID uuid.UUID) ([]*domain.TimelineEvent, error)
}

// RefundRepository persists refund attempt records.
type RefundRepository interface {
	Create(ctx context.Context, tx DBTX, record *domain.RefundRecord) error
	ListByDispute(ctx context.Context, db DBTX, disputeID uuid.UUID) ([]*domain.RefundRecord, error)
}

// NotificationRepository persists notification rows for the delivery
// collaborator to pick up.
type NotificationRepository interface {
	Create(ctx context.Context, tx DBTX, n *domain.Notification) error
}
