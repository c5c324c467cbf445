package dispute

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListRequest describes a dispute listing query.
type ListRequest struct {
	Status   *domain.Status
	Type     *domain.DisputeType
	Priority *domain.Priority

	// Role narrows participant listings to one side of the dispute.
	Role ports.PartyRole

	Cursor   string
	CallerID uuid.UUID
	Limit    int32
	IsAdmin  bool
}

// ListResult is one page of disputes. Stats is populated for
// administrators only.
type ListResult struct {
	Disputes   []*domain.Dispute
	Stats      *ports.DisputeStats
	NextCursor string
	HasMore    bool
}

// DisputeDetail is the full view of one dispute for a permitted caller.
type DisputeDetail struct {
	Dispute  *domain.Dispute
	Evidence []*domain.EvidenceItem
	Timeline []*domain.TimelineEvent
	Refunds  []*domain.RefundRecord
}

// QueryService serves role-aware dispute reads.
type QueryService struct {
	db       ports.DBPort
	disputes ports.DisputeRepository
	evidence ports.EvidenceRepository
	timeline ports.TimelineRepository
	refunds  ports.RefundRepository
	logger   ports.Logger
}

// NewQueryService creates a new query service
func NewQueryService(
	db ports.DBPort,
	disputes ports.DisputeRepository,
	evidence ports.EvidenceRepository,
	timeline ports.TimelineRepository,
	refunds ports.RefundRepository,
	logger ports.Logger,
) *QueryService {
	return &QueryService{
		db:       db,
		disputes: disputes,
		evidence: evidence,
		timeline: timeline,
		refunds:  refunds,
		logger:   logger,
	}
}

// List returns one page of disputes visible to the caller. Administrators
// see everything plus aggregate stats; participants see only disputes
// where they are a party. One extra row is fetched to detect further
// pages; it is dropped from the returned slice.
func (s *QueryService) List(ctx context.Context, req ListRequest) (*ListResult, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	offset, err := decodeCursor(req.Cursor, limit)
	if err != nil {
		return nil, err
	}

	filter := ports.DisputeFilter{
		Status:   req.Status,
		Type:     req.Type,
		Priority: req.Priority,
		Limit:    limit + 1,
		Offset:   offset,
	}
	if req.IsAdmin {
		filter.AdminOrder = true
	} else {
		callerID := req.CallerID
		filter.PartyID = &callerID
		filter.Role = req.Role
		if filter.Role == "" {
			filter.Role = ports.RoleAny
		}
	}

	result := &ListResult{}

	err = s.db.WithReadOnlyTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := s.disputes.List(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("list disputes: %w", err)
		}

		if int32(len(rows)) > limit {
			result.HasMore = true
			rows = rows[:limit]
			result.NextCursor = encodeCursor(offset+limit, limit)
		}
		result.Disputes = rows

		if req.IsAdmin {
			stats, err := s.disputes.Stats(ctx, tx)
			if err != nil {
				return fmt.Errorf("dispute stats: %w", err)
			}
			result.Stats = stats
		}

		return nil
	})

	if err != nil {
		if domain.GetErrorCode(err) == "" {
			s.logger.Error("dispute listing failed", ports.Err(err))
			return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "listing failed", err)
		}
		return nil, err
	}

	return result, nil
}

// Get returns the full dispute view. Participants may only read disputes
// they are a party to.
func (s *QueryService) Get(ctx context.Context, disputeID, callerID uuid.UUID, isAdmin bool) (*DisputeDetail, error) {
	detail := &DisputeDetail{}

	err := s.db.WithReadOnlyTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		d, err := s.disputes.GetByID(ctx, tx, disputeID)
		if err != nil {
			return err
		}

		if !isAdmin && !d.IsParty(callerID) {
			return domain.ErrForbidden
		}

		evidence, err := s.evidence.ListByDispute(ctx, tx, d.ID)
		if err != nil {
			return fmt.Errorf("list evidence: %w", err)
		}

		timeline, err := s.timeline.ListByDispute(ctx, tx, d.ID)
		if err != nil {
			return fmt.Errorf("list timeline: %w", err)
		}

		refunds, err := s.refunds.ListByDispute(ctx, tx, d.ID)
		if err != nil {
			return fmt.Errorf("list refunds: %w", err)
		}

		detail.Dispute = d
		detail.Evidence = evidence
		detail.Timeline = timeline
		detail.Refunds = refunds
		return nil
	})

	if err != nil {
		if domain.GetErrorCode(err) == "" {
			s.logger.Error("dispute fetch failed",
				ports.String("dispute_id", disputeID.String()),
				ports.Err(err))
			return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "dispute fetch failed", err)
		}
		return nil, err
	}

	return detail, nil
}
