package domain

import (
	"time"

	"github.com/NoussaierSalaani/smuppy-dispute-service/pkg/timeutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the dispute lifecycle state.
// Transitions are strictly forward: open -> under_review -> resolved -> closed.
type Status string

const (
	StatusOpen        Status = "open"
	StatusUnderReview Status = "under_review"
	StatusResolved    Status = "resolved"
	StatusClosed      Status = "closed"
)

// statusRank is the total order used for listings: active work first.
var statusRank = map[Status]int{
	StatusOpen:        0,
	StatusUnderReview: 1,
	StatusResolved:    2,
	StatusClosed:      3,
}

// Rank returns the sort rank for a status. Unknown statuses sort last.
func (s Status) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return len(statusRank)
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Priority represents dispute urgency for the admin queue.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

var priorityRank = map[Priority]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityNormal: 2,
}

// Rank returns the sort rank for a priority. Unknown priorities sort last.
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// Valid reports whether p is a known priority value.
func (p Priority) Valid() bool {
	_, ok := priorityRank[p]
	return ok
}

// Resolution is the administrator's final decision type.
type Resolution string

const (
	ResolutionFullRefund    Resolution = "full_refund"
	ResolutionPartialRefund Resolution = "partial_refund"
	ResolutionNoRefund      Resolution = "no_refund"
	ResolutionRescheduled   Resolution = "rescheduled"
)

// Valid reports whether r is one of the four allowed resolution types.
func (r Resolution) Valid() bool {
	switch r {
	case ResolutionFullRefund, ResolutionPartialRefund, ResolutionNoRefund, ResolutionRescheduled:
		return true
	}
	return false
}

// InvolvesRefund reports whether the resolution authorizes money movement.
func (r Resolution) InvolvesRefund() bool {
	return r == ResolutionFullRefund || r == ResolutionPartialRefund
}

// DisputeType classifies what the complainant is contesting.
type DisputeType string

const (
	DisputeTypeQuality DisputeType = "quality"
	DisputeTypeNoShow  DisputeType = "no_show"
	DisputeTypeBilling DisputeType = "billing"
	DisputeTypeOther   DisputeType = "other"
)

// Valid reports whether t is a known dispute type.
func (t DisputeType) Valid() bool {
	switch t {
	case DisputeTypeQuality, DisputeTypeNoShow, DisputeTypeBilling, DisputeTypeOther:
		return true
	}
	return false
}

// Dispute is a formal contest over a completed paid transaction between two parties.
// It is a permanent financial/audit record and is never deleted.
type Dispute struct {
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	EvidenceDeadline time.Time        `json:"evidence_deadline"`
	ResolvedAt       *time.Time       `json:"resolved_at"`
	ResolvedBy       *uuid.UUID       `json:"resolved_by"`
	Resolution       *Resolution      `json:"resolution"`
	RefundAmount     *decimal.Decimal `json:"refund_amount"`
	Status           Status           `json:"status"`
	Type             DisputeType      `json:"type"`
	Priority         Priority         `json:"priority"`
	Currency         string           `json:"currency"`
	PaymentID        string           `json:"payment_id"`
	Amount           decimal.Decimal  `json:"amount"`
	DisputeNumber    int64            `json:"dispute_number"`
	ID               uuid.UUID        `json:"id"`
	ComplainantID    uuid.UUID        `json:"complainant_id"`
	RespondentID     uuid.UUID        `json:"respondent_id"`
}

// IsParty reports whether userID is the complainant or the respondent.
func (d *Dispute) IsParty(userID uuid.UUID) bool {
	return d.ComplainantID == userID || d.RespondentID == userID
}

// OtherParty returns the counterparty of userID.
// Callers must check IsParty first.
func (d *Dispute) OtherParty(userID uuid.UUID) uuid.UUID {
	if d.ComplainantID == userID {
		return d.RespondentID
	}
	return d.ComplainantID
}

// IsTerminal reports whether the dispute has been adjudicated.
func (d *Dispute) IsTerminal() bool {
	return d.Status == StatusResolved || d.Status == StatusClosed
}

// CanAcceptEvidence reports whether new evidence may still be attached,
// ignoring the per-dispute item ceiling (checked against the store).
func (d *Dispute) CanAcceptEvidence() bool {
	if d.IsTerminal() {
		return false
	}
	return !timeutil.Now().After(d.EvidenceDeadline)
}

// DeadlineExpired reports whether the evidence window has closed.
func (d *Dispute) DeadlineExpired() bool {
	return timeutil.Now().After(d.EvidenceDeadline)
}

// MarkResolved applies an adjudication decision to the in-memory record.
// The resolution invariant (resolution non-nil iff resolved/closed) holds
// after this call.
func (d *Dispute) MarkResolved(resolution Resolution, refundAmount *decimal.Decimal, adminID uuid.UUID) error {
	if !resolution.Valid() {
		return NewDomainError(ErrorCodeValidationFailed, "invalid resolution type")
	}
	if d.IsTerminal() {
		return ErrAlreadyResolved
	}

	now := timeutil.Now()
	d.Status = StatusResolved
	d.Resolution = &resolution
	d.RefundAmount = refundAmount
	d.ResolvedAt = &now
	d.ResolvedBy = &adminID
	d.UpdatedAt = now
	return nil
}

// MarkClosed finalizes a resolved dispute. Only the transition
// resolved -> closed is legal; everything else is a state error.
func (d *Dispute) MarkClosed() error {
	switch d.Status {
	case StatusResolved:
		now := timeutil.Now()
		d.Status = StatusClosed
		d.UpdatedAt = now
		return nil
	case StatusClosed:
		return NewDomainError(ErrorCodeInvalidState, "dispute is already closed")
	default:
		return NewDomainError(ErrorCodeInvalidState, "dispute must be resolved before it can be accepted")
	}
}

// CheckInvariants validates the record-level invariants. Used by tests and
// the seed tool, not on the hot path.
func (d *Dispute) CheckInvariants() error {
	if d.ComplainantID == d.RespondentID {
		return NewDomainError(ErrorCodeValidationFailed, "complainant and respondent must be distinct")
	}
	terminal := d.IsTerminal()
	if terminal && d.Resolution == nil {
		return NewDomainError(ErrorCodeValidationFailed, "terminal dispute missing resolution")
	}
	if !terminal && d.Resolution != nil {
		return NewDomainError(ErrorCodeValidationFailed, "non-terminal dispute carries a resolution")
	}
	return nil
}
