package dispute

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
	"github.com/NoussaierSalaani/smuppy-dispute-service/pkg/observability"
	"github.com/NoussaierSalaani/smuppy-dispute-service/pkg/timeutil"
)

// ClosureService handles the complainant accepting a resolution.
type ClosureService struct {
	db            ports.DBPort
	disputes      ports.DisputeRepository
	timeline      ports.TimelineRepository
	notifications ports.NotificationRepository
	logger        ports.Logger
}

// NewClosureService creates a new closure service
func NewClosureService(
	db ports.DBPort,
	disputes ports.DisputeRepository,
	timeline ports.TimelineRepository,
	notifications ports.NotificationRepository,
	logger ports.Logger,
) *ClosureService {
	return &ClosureService{
		db:            db,
		disputes:      disputes,
		timeline:      timeline,
		notifications: notifications,
		logger:        logger,
	}
}

// Accept transitions resolved -> closed. Only the complainant may accept;
// the respondent has no equivalent action.
func (s *ClosureService) Accept(ctx context.Context, disputeID, actorID uuid.UUID) (*domain.Dispute, error) {
	var result *domain.Dispute

	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		d, err := s.disputes.GetByIDForUpdate(ctx, tx, disputeID)
		if err != nil {
			return err
		}

		if d.ComplainantID != actorID {
			return domain.NewDomainError(domain.ErrorCodeForbidden, "only the complainant may accept a resolution")
		}

		// MarkClosed distinguishes "already closed" from "not yet resolved"
		priorResolution := d.Resolution
		if err := d.MarkClosed(); err != nil {
			return err
		}

		if err := s.disputes.UpdateLifecycle(ctx, tx, d); err != nil {
			return fmt.Errorf("update dispute: %w", err)
		}

		payload := map[string]interface{}{}
		if priorResolution != nil {
			payload["resolution"] = string(*priorResolution)
		}
		event := &domain.TimelineEvent{
			ID:        uuid.New(),
			DisputeID: d.ID,
			ActorID:   actorID,
			EventType: domain.TimelineAccepted,
			Payload:   payload,
			CreatedAt: timeutil.Now(),
		}
		if err := s.timeline.Append(ctx, tx, event); err != nil {
			return fmt.Errorf("append timeline: %w", err)
		}

		notification := &domain.Notification{
			ID:          uuid.New(),
			DisputeID:   d.ID,
			RecipientID: d.RespondentID,
			Kind:        domain.NotificationDisputeClosed,
			Title:       "Dispute closed",
			Body:        domain.ClosureBody(d.DisputeNumber),
			CreatedAt:   timeutil.Now(),
		}
		if err := s.notifications.Create(ctx, tx, notification); err != nil {
			return fmt.Errorf("create notification: %w", err)
		}

		result = d
		return nil
	})

	if err != nil {
		if domain.GetErrorCode(err) == "" {
			s.logger.Error("acceptance failed",
				ports.String("dispute_id", disputeID.String()),
				ports.Err(err))
			return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "acceptance failed", err)
		}
		return nil, err
	}

	s.logger.Info("dispute closed",
		ports.String("dispute_id", disputeID.String()),
		ports.String("actor_id", actorID.String()))

	observability.RecordDisputeClosed()

	return result, nil
}
