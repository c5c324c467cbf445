package dispute

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
	"github.com/NoussaierSalaani/smuppy-dispute-service/pkg/observability"
	"github.com/NoussaierSalaani/smuppy-dispute-service/pkg/timeutil"
)

// SubmitEvidenceRequest is the payload for an evidence submission.
type SubmitEvidenceRequest struct {
	FileURL     *string
	FileName    *string
	TextContent *string
	Type        domain.EvidenceType
	Description string
	DisputeID   uuid.UUID
	SubmitterID uuid.UUID
}

// EvidenceService appends evidence to an active dispute.
type EvidenceService struct {
	db            ports.DBPort
	disputes      ports.DisputeRepository
	evidence      ports.EvidenceRepository
	timeline      ports.TimelineRepository
	notifications ports.NotificationRepository
	logger        ports.Logger
}

// NewEvidenceService creates a new evidence service
func NewEvidenceService(
	db ports.DBPort,
	disputes ports.DisputeRepository,
	evidence ports.EvidenceRepository,
	timeline ports.TimelineRepository,
	notifications ports.NotificationRepository,
	logger ports.Logger,
) *EvidenceService {
	return &EvidenceService{
		db:            db,
		disputes:      disputes,
		evidence:      evidence,
		timeline:      timeline,
		notifications: notifications,
		logger:        logger,
	}
}

// Submit validates and appends one evidence item. A dispute still in
// "open" is promoted to "under_review" in the same transaction. The four
// writes (evidence, timeline, notification, status) commit or roll back
// as a unit.
func (s *EvidenceService) Submit(ctx context.Context, req SubmitEvidenceRequest) (*domain.EvidenceItem, error) {
	var item *domain.EvidenceItem
	var submitterRole string

	err := s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		// Row lock keeps the evidence count check and insert atomic
		// against a concurrent submission on the same dispute.
		d, err := s.disputes.GetByIDForUpdate(ctx, tx, req.DisputeID)
		if err != nil {
			return err
		}

		if !d.IsParty(req.SubmitterID) {
			return domain.ErrForbidden
		}
		submitterRole = "respondent"
		if d.ComplainantID == req.SubmitterID {
			submitterRole = "complainant"
		}

		if d.IsTerminal() {
			return domain.NewDomainError(domain.ErrorCodeInvalidState, "dispute is no longer accepting evidence")
		}

		if d.DeadlineExpired() {
			return domain.ErrDeadlinePassed
		}

		count, err := s.evidence.CountByDispute(ctx, tx, d.ID)
		if err != nil {
			return fmt.Errorf("count evidence: %w", err)
		}
		if count >= domain.MaxEvidenceItems {
			return domain.ErrEvidenceLimit
		}

		candidate := &domain.EvidenceItem{
			ID:          uuid.New(),
			DisputeID:   d.ID,
			SubmitterID: req.SubmitterID,
			Type:        req.Type,
			Description: req.Description,
			FileURL:     req.FileURL,
			FileName:    req.FileName,
			TextContent: req.TextContent,
			CreatedAt:   timeutil.Now(),
		}
		if err := candidate.Validate(); err != nil {
			return err
		}

		if err := s.evidence.Create(ctx, tx, candidate); err != nil {
			return fmt.Errorf("create evidence: %w", err)
		}

		event := &domain.TimelineEvent{
			ID:        uuid.New(),
			DisputeID: d.ID,
			ActorID:   req.SubmitterID,
			EventType: domain.TimelineEvidenceSubmitted,
			Payload: map[string]interface{}{
				"evidence_id":   candidate.ID.String(),
				"evidence_type": string(candidate.Type),
			},
			CreatedAt: timeutil.Now(),
		}
		if err := s.timeline.Append(ctx, tx, event); err != nil {
			return fmt.Errorf("append timeline: %w", err)
		}

		notification := &domain.Notification{
			ID:          uuid.New(),
			DisputeID:   d.ID,
			RecipientID: d.OtherParty(req.SubmitterID),
			Kind:        domain.NotificationEvidenceSubmitted,
			Title:       "New evidence submitted",
			Body:        domain.EvidenceSubmittedBody(d.DisputeNumber),
			CreatedAt:   timeutil.Now(),
		}
		if err := s.notifications.Create(ctx, tx, notification); err != nil {
			return fmt.Errorf("create notification: %w", err)
		}

		if d.Status == domain.StatusOpen {
			d.Status = domain.StatusUnderReview
			d.UpdatedAt = timeutil.Now()
			if err := s.disputes.UpdateLifecycle(ctx, tx, d); err != nil {
				return fmt.Errorf("promote dispute: %w", err)
			}
		}

		item = candidate
		return nil
	})

	if err != nil {
		if code := domain.GetErrorCode(err); code != "" {
			observability.RecordEvidenceRejection(strings.ToLower(string(code)))
			return nil, err
		}
		s.logger.Error("evidence submission failed",
			ports.String("dispute_id", req.DisputeID.String()),
			ports.Err(err))
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "evidence submission failed", err)
	}

	s.logger.Info("evidence submitted",
		ports.String("dispute_id", req.DisputeID.String()),
		ports.String("evidence_id", item.ID.String()),
		ports.String("type", string(item.Type)))

	observability.RecordEvidenceSubmission(string(item.Type), submitterRole)

	return item, nil
}
