package dispute_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/mock"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
)

// Transaction callbacks run directly against a nil tx in handler tests.
type stubDBPort struct{}

func (stubDBPort) GetDB() *pgxpool.Pool { return nil }

func (stubDBPort) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

func (stubDBPort) WithReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

type mockDisputeRepo struct{ mock.Mock }

func (m *mockDisputeRepo) GetByID(ctx context.Context, db ports.DBTX, id uuid.UUID) (*domain.Dispute, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dispute), args.Error(1)
}

func (m *mockDisputeRepo) GetByIDForUpdate(ctx context.Context, tx ports.DBTX, id uuid.UUID) (*domain.Dispute, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dispute), args.Error(1)
}

func (m *mockDisputeRepo) UpdateLifecycle(ctx context.Context, tx ports.DBTX, d *domain.Dispute) error {
	return m.Called(ctx, tx, d).Error(0)
}

func (m *mockDisputeRepo) List(ctx context.Context, db ports.DBTX, filter ports.DisputeFilter) ([]*domain.Dispute, error) {
	args := m.Called(ctx, db, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Dispute), args.Error(1)
}

func (m *mockDisputeRepo) Stats(ctx context.Context, db ports.DBTX) (*ports.DisputeStats, error) {
	args := m.Called(ctx, db)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.DisputeStats), args.Error(1)
}

type mockEvidenceRepo struct{ mock.Mock }

func (m *mockEvidenceRepo) Create(ctx context.Context, tx ports.DBTX, item *domain.EvidenceItem) error {
	return m.Called(ctx, tx, item).Error(0)
}

func (m *mockEvidenceRepo) CountByDispute(ctx context.Context, db ports.DBTX, disputeID uuid.UUID) (int, error) {
	args := m.Called(ctx, db, disputeID)
	return args.Int(0), args.Error(1)
}

func (m *mockEvidenceRepo) ListByDispute(ctx context.Context, db ports.DBTX, disputeID uuid.UUID) ([]*domain.EvidenceItem, error) {
	args := m.Called(ctx, db, disputeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EvidenceItem), args.Error(1)
}

type mockTimelineRepo struct{ mock.Mock }

func (m *mockTimelineRepo) Append(ctx context.Context, tx ports.DBTX, event *domain.TimelineEvent) error {
	return m.Called(ctx, tx, event).Error(0)
}

func (m *mockTimelineRepo) ListByDispute(ctx context.Context, db ports.DBTX, disputeID uuid.UUID) ([]*domain.TimelineEvent, error) {
	args := m.Called(ctx, db, disputeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TimelineEvent), args.Error(1)
}

type mockRefundRepo struct{ mock.Mock }

func (m *mockRefundRepo) Create(ctx context.Context, tx ports.DBTX, record *domain.RefundRecord) error {
	return m.Called(ctx, tx, record).Error(0)
}

func (m *mockRefundRepo) ListByDispute(ctx context.Context, db ports.DBTX, disputeID uuid.UUID) ([]*domain.RefundRecord, error) {
	args := m.Called(ctx, db, disputeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RefundRecord), args.Error(1)
}

type mockNotificationRepo struct{ mock.Mock }

func (m *mockNotificationRepo) Create(ctx context.Context, tx ports.DBTX, n *domain.Notification) error {
	return m.Called(ctx, tx, n).Error(0)
}

type mockGateway struct{ mock.Mock }

func (m *mockGateway) Refund(ctx context.Context, req *ports.RefundRequest) (*ports.RefundResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.RefundResult), args.Error(1)
}
