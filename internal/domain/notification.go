package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NotificationKind identifies the transition a notification announces.
type NotificationKind string

const (
	NotificationEvidenceSubmitted NotificationKind = "evidence_submitted"
	NotificationDisputeResolved   NotificationKind = "dispute_resolved"
	NotificationDisputeClosed     NotificationKind = "dispute_closed"
	NotificationOperatorAlert     NotificationKind = "operator_alert"
)

// Notification is one row per recipient per significant transition.
// Delivery is handled by an external collaborator reading these rows.
type Notification struct {
	CreatedAt   time.Time        `json:"created_at"`
	ReadAt      *time.Time       `json:"read_at"`
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Body        string           `json:"body"`
	ID          uuid.UUID        `json:"id"`
	DisputeID   uuid.UUID        `json:"dispute_id"`
	RecipientID uuid.UUID        `json:"recipient_id"`
}

// ComplainantResolutionBody composes the complainant-facing message for a
// resolution decision. The wording branches on the resolution type.
func ComplainantResolutionBody(disputeNumber int64, resolution Resolution, refundAmount *decimal.Decimal, currency string) string {
	switch resolution {
	case ResolutionFullRefund:
		if refundAmount != nil {
			return fmt.Sprintf("Your dispute #%d was resolved in your favor. A full refund of %s %s has been initiated.",
				disputeNumber, refundAmount.StringFixed(2), currency)
		}
		return fmt.Sprintf("Your dispute #%d was resolved in your favor. A full refund has been initiated.", disputeNumber)
	case ResolutionPartialRefund:
		if refundAmount != nil {
			return fmt.Sprintf("Your dispute #%d was resolved with a partial refund of %s %s.",
				disputeNumber, refundAmount.StringFixed(2), currency)
		}
		return fmt.Sprintf("Your dispute #%d was resolved with a partial refund.", disputeNumber)
	case ResolutionRescheduled:
		return fmt.Sprintf("Your dispute #%d was resolved: the session will be rescheduled. Check the app for the new time.", disputeNumber)
	default:
		return fmt.Sprintf("Your dispute #%d was reviewed and closed without a refund. Reply to this decision if you disagree.", disputeNumber)
	}
}

// RespondentResolutionBody composes the neutral respondent-facing message.
func RespondentResolutionBody(disputeNumber int64) string {
	return fmt.Sprintf("The dispute #%d you were involved in has been resolved by our support team.", disputeNumber)
}

// ClosureBody composes the respondent-facing closure announcement.
func ClosureBody(disputeNumber int64) string {
	return fmt.Sprintf("Dispute #%d has been closed. The complainant accepted the resolution.", disputeNumber)
}

// EvidenceSubmittedBody notifies the counterparty of a new evidence item.
func EvidenceSubmittedBody(disputeNumber int64) string {
	return fmt.Sprintf("New evidence was submitted on dispute #%d. You can review it and respond with your own.", disputeNumber)
}

// OperatorAlertBody flags a failed refund for manual completion.
func OperatorAlertBody(disputeNumber int64, amount decimal.Decimal, currency string, reason string) string {
	return fmt.Sprintf("Refund of %s %s for dispute #%d failed and needs manual processing: %s",
		amount.StringFixed(2), currency, disputeNumber, reason)
}
