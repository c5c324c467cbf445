package dispute

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
	"github.com/NoussaierSalaani/smuppy-dispute-service/pkg/observability"
	"github.com/NoussaierSalaani/smuppy-dispute-service/pkg/timeutil"
)

// ResolveRequest carries an administrator's adjudication decision.
type ResolveRequest struct {
	RefundAmount  *decimal.Decimal
	Resolution    domain.Resolution
	Reason        string
	DisputeID     uuid.UUID
	AdminID       uuid.UUID
	ProcessRefund bool
}

// ResolveResult is returned on a successful resolution. Refund is nil when
// no refund was processed or the processor call failed; the resolution
// itself still committed.
type ResolveResult struct {
	Dispute *domain.Dispute
	Refund  *domain.RefundRecord
}

// ResolutionService adjudicates disputes. Only administrators reach it;
// role enforcement happens at the transport layer and is re-checked here.
type ResolutionService struct {
	db            ports.DBPort
	disputes      ports.DisputeRepository
	refunds       ports.RefundRepository
	timeline      ports.TimelineRepository
	notifications ports.NotificationRepository
	gateway       ports.RefundGateway
	logger        ports.Logger

	// opsRecipient receives operator alerts for failed refunds. Nil means
	// no alert recipient is configured and only the timeline records the
	// failure.
	opsRecipient *uuid.UUID
}

// NewResolutionService creates a new resolution service
func NewResolutionService(
	db ports.DBPort,
	disputes ports.DisputeRepository,
	refunds ports.RefundRepository,
	timeline ports.TimelineRepository,
	notifications ports.NotificationRepository,
	gateway ports.RefundGateway,
	opsRecipient *uuid.UUID,
	logger ports.Logger,
) *ResolutionService {
	return &ResolutionService{
		db:            db,
		disputes:      disputes,
		refunds:       refunds,
		timeline:      timeline,
		notifications: notifications,
		gateway:       gateway,
		opsRecipient:  opsRecipient,
		logger:        logger,
	}
}

// Resolve transitions a dispute to resolved and optionally issues a refund.
// The decision and the money movement have different failure tolerances: a
// processor failure is recorded as durable state and the resolution still
// commits, so an operator can retry the refund manually.
func (s *ResolutionService) Resolve(ctx context.Context, req ResolveRequest) (*ResolveResult, error) {
	// Cheap rejections happen before the transaction opens so no lock is
	// held during authorization or validation failures.
	if !req.Resolution.Valid() {
		return nil, domain.NewDomainError(domain.ErrorCodeValidationFailed, "invalid resolution type")
	}
	if req.ProcessRefund {
		if req.RefundAmount == nil {
			return nil, domain.NewDomainError(domain.ErrorCodeValidationFailed, "refund amount is required when processing a refund")
		}
		if req.RefundAmount.IsNegative() {
			return nil, domain.NewDomainError(domain.ErrorCodeValidationFailed, "refund amount must not be negative")
		}
	}

	result := &ResolveResult{}

	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		d, err := s.disputes.GetByIDForUpdate(ctx, tx, req.DisputeID)
		if err != nil {
			return err
		}

		if req.RefundAmount != nil && req.RefundAmount.GreaterThan(d.Amount) {
			return domain.NewDomainError(domain.ErrorCodeValidationFailed, "refund amount exceeds the disputed amount")
		}

		if err := d.MarkResolved(req.Resolution, req.RefundAmount, req.AdminID); err != nil {
			return err
		}

		if err := s.disputes.UpdateLifecycle(ctx, tx, d); err != nil {
			return fmt.Errorf("update dispute: %w", err)
		}

		payload := map[string]interface{}{
			"resolution": string(req.Resolution),
			"reason":     req.Reason,
		}
		if req.RefundAmount != nil {
			payload["refund_amount"] = req.RefundAmount.String()
		}
		event := &domain.TimelineEvent{
			ID:        uuid.New(),
			DisputeID: d.ID,
			ActorID:   req.AdminID,
			EventType: domain.TimelineResolved,
			Payload:   payload,
			CreatedAt: timeutil.Now(),
		}
		if err := s.timeline.Append(ctx, tx, event); err != nil {
			return fmt.Errorf("append timeline: %w", err)
		}

		if req.ProcessRefund && req.Resolution != domain.ResolutionNoRefund && req.RefundAmount != nil && req.RefundAmount.IsPositive() {
			record, err := s.processRefund(ctx, tx, d, req)
			if err != nil {
				return err
			}
			if record != nil && record.Status != domain.RefundStatusFailed {
				result.Refund = record
			}
		}

		complainantNote := &domain.Notification{
			ID:          uuid.New(),
			DisputeID:   d.ID,
			RecipientID: d.ComplainantID,
			Kind:        domain.NotificationDisputeResolved,
			Title:       "Your dispute has been resolved",
			Body:        domain.ComplainantResolutionBody(d.DisputeNumber, req.Resolution, req.RefundAmount, d.Currency),
			CreatedAt:   timeutil.Now(),
		}
		if err := s.notifications.Create(ctx, tx, complainantNote); err != nil {
			return fmt.Errorf("notify complainant: %w", err)
		}

		respondentNote := &domain.Notification{
			ID:          uuid.New(),
			DisputeID:   d.ID,
			RecipientID: d.RespondentID,
			Kind:        domain.NotificationDisputeResolved,
			Title:       "Dispute resolved",
			Body:        domain.RespondentResolutionBody(d.DisputeNumber),
			CreatedAt:   timeutil.Now(),
		}
		if err := s.notifications.Create(ctx, tx, respondentNote); err != nil {
			return fmt.Errorf("notify respondent: %w", err)
		}

		result.Dispute = d
		return nil
	})

	if err != nil {
		if domain.GetErrorCode(err) == "" {
			s.logger.Error("resolution failed",
				ports.String("dispute_id", req.DisputeID.String()),
				ports.Err(err))
			return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "resolution failed", err)
		}
		return nil, err
	}

	s.logger.Info("dispute resolved",
		ports.String("dispute_id", req.DisputeID.String()),
		ports.String("resolution", string(req.Resolution)),
		ports.String("admin_id", req.AdminID.String()),
		ports.Bool("refund_issued", result.Refund != nil))

	observability.RecordDisputeResolved(
		string(req.Resolution),
		string(result.Dispute.Type),
		timeutil.Now().Sub(result.Dispute.CreatedAt).Seconds(),
	)

	return result, nil
}

// processRefund calls the payment processor and records the outcome. A
// processor failure is converted into durable rows (failed refund record,
// refund_failed timeline event, operator alert) and never propagates as a
// transaction-aborting error. The returned error is non-nil only when one
// of those bookkeeping writes fails.
func (s *ResolutionService) processRefund(ctx context.Context, tx pgx.Tx, d *domain.Dispute, req ResolveRequest) (*domain.RefundRecord, error) {
	amount := *req.RefundAmount

	gatewayReq := &ports.RefundRequest{
		PaymentID:   d.PaymentID,
		AmountMinor: amount.Shift(2).IntPart(),
		Currency:    d.Currency,
		ReasonCode:  "dispute_resolution",
		Metadata: map[string]string{
			"dispute_id":     d.ID.String(),
			"dispute_number": fmt.Sprintf("%d", d.DisputeNumber),
			"admin_id":       req.AdminID.String(),
		},
	}

	record := &domain.RefundRecord{
		ID:          uuid.New(),
		DisputeID:   d.ID,
		PaymentID:   d.PaymentID,
		Amount:      amount,
		InitiatedBy: req.AdminID,
		CreatedAt:   timeutil.Now(),
	}

	callStart := timeutil.Now()
	gatewayResp, gatewayErr := s.gateway.Refund(ctx, gatewayReq)
	callSeconds := timeutil.Now().Sub(callStart).Seconds()

	if gatewayErr != nil {
		observability.RecordRefundAttempt("failed", d.Currency, gatewayReq.AmountMinor, callSeconds)
		s.logger.Warn("refund failed during resolution",
			ports.String("dispute_id", d.ID.String()),
			ports.String("payment_id", d.PaymentID),
			ports.Err(gatewayErr))

		errText := gatewayErr.Error()
		record.Status = domain.RefundStatusFailed
		record.ErrorMessage = &errText

		if err := s.refunds.Create(ctx, tx, record); err != nil {
			return nil, fmt.Errorf("record failed refund: %w", err)
		}

		event := &domain.TimelineEvent{
			ID:        uuid.New(),
			DisputeID: d.ID,
			ActorID:   req.AdminID,
			EventType: domain.TimelineRefundFailed,
			Payload: map[string]interface{}{
				"refund_id": record.ID.String(),
				"amount":    amount.String(),
				"error":     errText,
			},
			CreatedAt: timeutil.Now(),
		}
		if err := s.timeline.Append(ctx, tx, event); err != nil {
			return nil, fmt.Errorf("append timeline: %w", err)
		}

		if s.opsRecipient != nil {
			alert := &domain.Notification{
				ID:          uuid.New(),
				DisputeID:   d.ID,
				RecipientID: *s.opsRecipient,
				Kind:        domain.NotificationOperatorAlert,
				Title:       "Refund requires manual processing",
				Body:        domain.OperatorAlertBody(d.DisputeNumber, amount, d.Currency, errText),
				CreatedAt:   timeutil.Now(),
			}
			if err := s.notifications.Create(ctx, tx, alert); err != nil {
				return nil, fmt.Errorf("create operator alert: %w", err)
			}
		}

		return record, nil
	}

	observability.RecordRefundAttempt(string(gatewayResp.Status), d.Currency, gatewayReq.AmountMinor, callSeconds)

	record.Status = gatewayResp.Status
	record.ProcessorRefundID = &gatewayResp.RefundID

	if err := s.refunds.Create(ctx, tx, record); err != nil {
		return nil, fmt.Errorf("record refund: %w", err)
	}

	event := &domain.TimelineEvent{
		ID:        uuid.New(),
		DisputeID: d.ID,
		ActorID:   req.AdminID,
		EventType: domain.TimelineRefundInitiated,
		Payload: map[string]interface{}{
			"refund_id":           record.ID.String(),
			"processor_refund_id": gatewayResp.RefundID,
			"amount":              amount.String(),
			"status":              string(record.Status),
		},
		CreatedAt: timeutil.Now(),
	}
	if err := s.timeline.Append(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("append timeline: %w", err)
	}

	return record, nil
}
