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

// MockDBPort runs transaction callbacks directly with a nil tx
type MockDBPort struct {
	mock.Mock
}

func (m *MockDBPort) GetDB() *pgxpool.Pool {
	return nil
}

func (m *MockDBPort) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

func (m *MockDBPort) WithReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

// MockDisputeRepository mocks the dispute repository
type MockDisputeRepository struct {
	mock.Mock
}

func (m *MockDisputeRepository) GetByID(ctx context.Context, db ports.DBTX, id uuid.UUID) (*domain.Dispute, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dispute), args.Error(1)
}

func (m *MockDisputeRepository) GetByIDForUpdate(ctx context.Context, tx ports.DBTX, id uuid.UUID) (*domain.Dispute, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dispute), args.Error(1)
}

func (m *MockDisputeRepository) UpdateLifecycle(ctx context.Context, tx ports.DBTX, d *domain.Dispute) error {
	args := m.Called(ctx, tx, d)
	return args.Error(0)
}

func (m *MockDisputeRepository) List(ctx context.Context, db ports.DBTX, filter ports.DisputeFilter) ([]*domain.Dispute, error) {
	args := m.Called(ctx, db, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Dispute), args.Error(1)
}

func (m *MockDisputeRepository) Stats(ctx context.Context, db ports.DBTX) (*ports.DisputeStats, error) {
	args := m.Called(ctx, db)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.DisputeStats), args.Error(1)
}

// MockEvidenceRepository mocks the evidence repository
type MockEvidenceRepository struct {
	mock.Mock
}

func (m *MockEvidenceRepository) Create(ctx context.Context, tx ports.DBTX, item *domain.EvidenceItem) error {
	args := m.Called(ctx, tx, item)
	return args.Error(0)
}

func (m *MockEvidenceRepository) CountByDispute(ctx context.Context, db ports.DBTX, disputeID uuid.UUID) (int, error) {
	args := m.Called(ctx, db, disputeID)
	return args.Int(0), args.Error(1)
}

func (m *MockEvidenceRepository) ListByDispute(ctx context.Context, db ports.DBTX, disputeID uuid.UUID) ([]*domain.EvidenceItem, error) {
	args := m.Called(ctx, db, disputeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EvidenceItem), args.Error(1)
}

// MockTimelineRepository mocks the timeline repository
type MockTimelineRepository struct {
	mock.Mock
}

func (m *MockTimelineRepository) Append(ctx context.Context, tx ports.DBTX, event *domain.TimelineEvent) error {
	args := m.Called(ctx, tx, event)
	return args.Error(0)
}

func (m *MockTimelineRepository) ListByDispute(ctx context.Context, db ports.DBTX, disputeID uuid.UUID) ([]*domain.TimelineEvent, error) {
	args := m.Called(ctx, db, disputeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TimelineEvent), args.Error(1)
}

// MockRefundRepository mocks the refund repository
type MockRefundRepository struct {
	mock.Mock
}

func (m *MockRefundRepository) Create(ctx context.Context, tx ports.DBTX, record *domain.RefundRecord) error {
	args := m.Called(ctx, tx, record)
	return args.Error(0)
}

func (m *MockRefundRepository) ListByDispute(ctx context.Context, db ports.DBTX, disputeID uuid.UUID) ([]*domain.RefundRecord, error) {
	args := m.Called(ctx, db, disputeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RefundRecord), args.Error(1)
}

// MockNotificationRepository mocks the notification repository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, tx ports.DBTX, n *domain.Notification) error {
	args := m.Called(ctx, tx, n)
	return args.Error(0)
}

// MockRefundGateway mocks the payment processor
type MockRefundGateway struct {
	mock.Mock
}

func (m *MockRefundGateway) Refund(ctx context.Context, req *ports.RefundRequest) (*ports.RefundResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.RefundResult), args.Error(1)
}
