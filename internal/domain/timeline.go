package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimelineEventType identifies the kind of audit entry.
type TimelineEventType string

const (
	TimelineEvidenceSubmitted TimelineEventType = "evidence_submitted"
	TimelineResolved          TimelineEventType = "resolved"
	TimelineAccepted          TimelineEventType = "accepted"
	TimelineRefundInitiated   TimelineEventType = "refund_initiated"
	TimelineRefundFailed      TimelineEventType = "refund_failed"
)

// TimelineEvent is an immutable audit-log row attached to a dispute.
// Rows are only ever inserted; there is no update or delete path.
type TimelineEvent struct {
	CreatedAt time.Time              `json:"created_at"`
	Payload   map[string]interface{} `json:"payload"`
	EventType TimelineEventType      `json:"event_type"`
	ID        uuid.UUID              `json:"id"`
	DisputeID uuid.UUID              `json:"dispute_id"`
	ActorID   uuid.UUID              `json:"actor_id"`
}
