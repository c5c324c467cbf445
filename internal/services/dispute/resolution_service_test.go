package dispute_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
	dispute "github.com/NoussaierSalaani/smuppy-dispute-service/internal/services/dispute"
	"github.com/NoussaierSalaani/smuppy-dispute-service/test/mocks"
)

type resolutionFixture struct {
	svc           *dispute.ResolutionService
	disputes      *MockDisputeRepository
	refunds       *MockRefundRepository
	timeline      *MockTimelineRepository
	notifications *MockNotificationRepository
	gateway       *MockRefundGateway
	opsRecipient  uuid.UUID
}

func newResolutionFixture() *resolutionFixture {
	f := &resolutionFixture{
		disputes:      new(MockDisputeRepository),
		refunds:       new(MockRefundRepository),
		timeline:      new(MockTimelineRepository),
		notifications: new(MockNotificationRepository),
		gateway:       new(MockRefundGateway),
		opsRecipient:  uuid.New(),
	}
	ops := f.opsRecipient
	f.svc = dispute.NewResolutionService(
		new(MockDBPort), f.disputes, f.refunds, f.timeline, f.notifications, f.gateway, &ops, mocks.NewMockLogger(),
	)
	return f
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func (f *resolutionFixture) timelineEventTypes() []domain.TimelineEventType {
	types := make([]domain.TimelineEventType, 0, len(f.timeline.Calls))
	for _, call := range f.timeline.Calls {
		types = append(types, call.Arguments.Get(2).(*domain.TimelineEvent).EventType)
	}
	return types
}

func TestResolve_NoRefund(t *testing.T) {
	d := newOpenDispute(uuid.New(), uuid.New())
	d.Status = domain.StatusUnderReview
	adminID := uuid.New()

	f := newResolutionFixture()
	f.disputes.On("GetByIDForUpdate", mock.Anything, mock.Anything, d.ID).Return(d, nil)
	f.disputes.On("UpdateLifecycle", mock.Anything, mock.Anything, d).Return(nil)
	f.timeline.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.notifications.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := f.svc.Resolve(context.Background(), dispute.ResolveRequest{
		DisputeID:  d.ID,
		AdminID:    adminID,
		Resolution: domain.ResolutionNoRefund,
		Reason:     "no evidence of a missed session",
	})

	require.NoError(t, err)
	assert.Nil(t, result.Refund)
	assert.Equal(t, domain.StatusResolved, result.Dispute.Status)
	require.NotNil(t, result.Dispute.Resolution)
	assert.Equal(t, domain.ResolutionNoRefund, *result.Dispute.Resolution)
	assert.Equal(t, adminID, *result.Dispute.ResolvedBy)
	require.NoError(t, result.Dispute.CheckInvariants())

	f.gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)

	// Both parties are notified
	assert.Len(t, f.notifications.Calls, 2)
	first := f.notifications.Calls[0].Arguments.Get(2).(*domain.Notification)
	second := f.notifications.Calls[1].Arguments.Get(2).(*domain.Notification)
	assert.Equal(t, d.ComplainantID, first.RecipientID)
	assert.Equal(t, d.RespondentID, second.RecipientID)
	assert.Contains(t, first.Body, "without a refund")
}

func TestResolve_FullRefundSuccess(t *testing.T) {
	d := newOpenDispute(uuid.New(), uuid.New())
	d.Status = domain.StatusUnderReview
	adminID := uuid.New()
	amount := decimal.NewFromInt(120)

	f := newResolutionFixture()
	f.disputes.On("GetByIDForUpdate", mock.Anything, mock.Anything, d.ID).Return(d, nil)
	f.disputes.On("UpdateLifecycle", mock.Anything, mock.Anything, d).Return(nil)
	f.timeline.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.notifications.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.refunds.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.gateway.On("Refund", mock.Anything, mock.AnythingOfType("*ports.RefundRequest")).Return(&ports.RefundResult{
		RefundID: "re_789",
		Status:   domain.RefundStatusSucceeded,
	}, nil)

	result, err := f.svc.Resolve(context.Background(), dispute.ResolveRequest{
		DisputeID:     d.ID,
		AdminID:       adminID,
		Resolution:    domain.ResolutionFullRefund,
		Reason:        "tutor no-show confirmed",
		RefundAmount:  decimalPtr(amount),
		ProcessRefund: true,
	})

	require.NoError(t, err)
	require.NotNil(t, result.Refund)
	assert.Equal(t, domain.RefundStatusSucceeded, result.Refund.Status)
	assert.Equal(t, "re_789", *result.Refund.ProcessorRefundID)
	assert.True(t, result.Refund.Amount.Equal(amount))

	// Amount is sent in minor units
	gatewayReq := f.gateway.Calls[0].Arguments.Get(1).(*ports.RefundRequest)
	assert.Equal(t, int64(12000), gatewayReq.AmountMinor)
	assert.Equal(t, "pay_123", gatewayReq.PaymentID)
	assert.Equal(t, d.ID.String(), gatewayReq.Metadata["dispute_id"])

	assert.Equal(t, []domain.TimelineEventType{domain.TimelineResolved, domain.TimelineRefundInitiated}, f.timelineEventTypes())
}

func TestResolve_RefundFailureStillCommits(t *testing.T) {
	d := newOpenDispute(uuid.New(), uuid.New())
	d.Status = domain.StatusUnderReview
	amount := decimal.NewFromInt(50)

	f := newResolutionFixture()
	f.disputes.On("GetByIDForUpdate", mock.Anything, mock.Anything, d.ID).Return(d, nil)
	f.disputes.On("UpdateLifecycle", mock.Anything, mock.Anything, d).Return(nil)
	f.timeline.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.notifications.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.refunds.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.gateway.On("Refund", mock.Anything, mock.Anything).Return(nil, errors.New("processor timeout"))

	result, err := f.svc.Resolve(context.Background(), dispute.ResolveRequest{
		DisputeID:     d.ID,
		AdminID:       uuid.New(),
		Resolution:    domain.ResolutionPartialRefund,
		Reason:        "partial session delivered",
		RefundAmount:  decimalPtr(amount),
		ProcessRefund: true,
	})

	// The decision is durable even though the money did not move
	require.NoError(t, err)
	assert.Nil(t, result.Refund)
	assert.Equal(t, domain.StatusResolved, result.Dispute.Status)

	// Failed attempt is recorded
	record := f.refunds.Calls[0].Arguments.Get(2).(*domain.RefundRecord)
	assert.Equal(t, domain.RefundStatusFailed, record.Status)
	require.NotNil(t, record.ErrorMessage)
	assert.Contains(t, *record.ErrorMessage, "processor timeout")

	assert.Equal(t, []domain.TimelineEventType{domain.TimelineResolved, domain.TimelineRefundFailed}, f.timelineEventTypes())

	// Operator alert plus the two party notifications
	assert.Len(t, f.notifications.Calls, 3)
	alert := f.notifications.Calls[0].Arguments.Get(2).(*domain.Notification)
	assert.Equal(t, domain.NotificationOperatorAlert, alert.Kind)
	assert.Equal(t, f.opsRecipient, alert.RecipientID)
}

func TestResolve_AlreadyResolved(t *testing.T) {
	d := newOpenDispute(uuid.New(), uuid.New())
	d.Status = domain.StatusResolved
	resolution := domain.ResolutionNoRefund
	d.Resolution = &resolution

	f := newResolutionFixture()
	f.disputes.On("GetByIDForUpdate", mock.Anything, mock.Anything, d.ID).Return(d, nil)

	_, err := f.svc.Resolve(context.Background(), dispute.ResolveRequest{
		DisputeID:  d.ID,
		AdminID:    uuid.New(),
		Resolution: domain.ResolutionFullRefund,
	})

	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeAlreadyResolved))
	f.disputes.AssertNotCalled(t, "UpdateLifecycle", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_PreTransactionValidation(t *testing.T) {
	f := newResolutionFixture()

	_, err := f.svc.Resolve(context.Background(), dispute.ResolveRequest{
		DisputeID:  uuid.New(),
		AdminID:    uuid.New(),
		Resolution: domain.Resolution("split_the_difference"),
	})
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeValidationFailed))

	_, err = f.svc.Resolve(context.Background(), dispute.ResolveRequest{
		DisputeID:     uuid.New(),
		AdminID:       uuid.New(),
		Resolution:    domain.ResolutionFullRefund,
		ProcessRefund: true,
	})
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeValidationFailed))

	negative := decimal.NewFromInt(-5)
	_, err = f.svc.Resolve(context.Background(), dispute.ResolveRequest{
		DisputeID:     uuid.New(),
		AdminID:       uuid.New(),
		Resolution:    domain.ResolutionFullRefund,
		RefundAmount:  &negative,
		ProcessRefund: true,
	})
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeValidationFailed))

	// No transaction was opened for any of these
	f.disputes.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_RefundExceedsDisputedAmount(t *testing.T) {
	d := newOpenDispute(uuid.New(), uuid.New())
	d.Status = domain.StatusUnderReview

	f := newResolutionFixture()
	f.disputes.On("GetByIDForUpdate", mock.Anything, mock.Anything, d.ID).Return(d, nil)

	excess := d.Amount.Add(decimal.NewFromInt(1))
	_, err := f.svc.Resolve(context.Background(), dispute.ResolveRequest{
		DisputeID:     d.ID,
		AdminID:       uuid.New(),
		Resolution:    domain.ResolutionFullRefund,
		RefundAmount:  &excess,
		ProcessRefund: true,
	})

	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeValidationFailed))
	f.gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
}

func TestResolve_NotFound(t *testing.T) {
	f := newResolutionFixture()
	id := uuid.New()
	f.disputes.On("GetByIDForUpdate", mock.Anything, mock.Anything, id).Return(nil, domain.ErrDisputeNotFound)

	_, err := f.svc.Resolve(context.Background(), dispute.ResolveRequest{
		DisputeID:  id,
		AdminID:    uuid.New(),
		Resolution: domain.ResolutionNoRefund,
	})

	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeNotFound))
}

func TestResolve_NotificationFailureRollsBack(t *testing.T) {
	d := newOpenDispute(uuid.New(), uuid.New())
	d.Status = domain.StatusUnderReview

	f := newResolutionFixture()
	f.disputes.On("GetByIDForUpdate", mock.Anything, mock.Anything, d.ID).Return(d, nil)
	f.disputes.On("UpdateLifecycle", mock.Anything, mock.Anything, d).Return(nil)
	f.timeline.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.notifications.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	_, err := f.svc.Resolve(context.Background(), dispute.ResolveRequest{
		DisputeID:  d.ID,
		AdminID:    uuid.New(),
		Resolution: domain.ResolutionNoRefund,
		Reason:     "reviewed",
	})

	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeDatabaseError))
}
