package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RefundStatus mirrors the payment processor's reported state.
type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusSucceeded RefundStatus = "succeeded"
	RefundStatusFailed    RefundStatus = "failed"
)

// RefundRecord is created only when a resolution authorizes money movement.
// A failed processor call still produces a record so an operator can retry
// the refund out of band.
type RefundRecord struct {
	CreatedAt         time.Time       `json:"created_at"`
	ProcessorRefundID *string         `json:"processor_refund_id"`
	ErrorMessage      *string         `json:"error_message"`
	Status            RefundStatus    `json:"status"`
	PaymentID         string          `json:"payment_id"`
	Amount            decimal.Decimal `json:"amount"`
	ID                uuid.UUID       `json:"id"`
	DisputeID         uuid.UUID       `json:"dispute_id"`
	InitiatedBy       uuid.UUID       `json:"initiated_by"`
}

// Succeeded reports whether the processor confirmed the refund.
func (r *RefundRecord) Succeeded() bool {
	return r.Status == RefundStatusSucceeded
}
