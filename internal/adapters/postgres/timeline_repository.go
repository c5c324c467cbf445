package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
	"github.com/google/uuid"
)

// TimelineRepository implements ports.TimelineRepository on PostgreSQL.
// Timeline rows are append-only; this type has no update or delete method.
type TimelineRepository struct {
	db ports.DBPort
}

// NewTimelineRepository creates a new timeline repository
func NewTimelineRepository(db ports.DBPort) *TimelineRepository {
	return &TimelineRepository{db: db}
}

func (r *TimelineRepository) executor(db ports.DBTX) ports.DBTX {
	if db != nil {
		return db
	}
	return r.db.GetDB()
}

// Append inserts one timeline event
func (r *TimelineRepository) Append(ctx context.Context, tx ports.DBTX, event *domain.TimelineEvent) error {
	payload := []byte("{}")
	if event.Payload != nil {
		var err error
		payload, err = json.Marshal(event.Payload)
		if err != nil {
			return fmt.Errorf("marshal timeline payload: %w", err)
		}
	}

	_, err := r.executor(tx).Exec(ctx, `
		INSERT INTO dispute_timeline (id, dispute_id, event_type, actor_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		event.ID, event.DisputeID, string(event.EventType), event.ActorID, payload, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append timeline event: %w", err)
	}
	return nil
}

// ListByDispute returns the timeline of a dispute, oldest first
func (r *TimelineRepository) ListByDispute(ctx context.Context, db ports.DBTX, disputeID uuid.UUID) ([]*domain.TimelineEvent, error) {
	rows, err := r.executor(db).Query(ctx, `
		SELECT id, dispute_id, event_type, actor_id, payload, created_at
		FROM dispute_timeline
		WHERE dispute_id = $1
		ORDER BY created_at ASC`, disputeID)
	if err != nil {
		return nil, fmt.Errorf("list timeline: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.TimelineEvent, 0, 8)
	for rows.Next() {
		var (
			event   domain.TimelineEvent
			payload []byte
		)
		if err := rows.Scan(&event.ID, &event.DisputeID, &event.EventType, &event.ActorID, &payload, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan timeline event: %w", err)
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &event.Payload); err != nil {
				return nil, fmt.Errorf("unmarshal timeline payload: %w", err)
			}
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timeline: %w", err)
	}
	return events, nil
}
