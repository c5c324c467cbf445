package ports

import (
	"context"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
)

// RefundRequest is sent to the payment processor. Amounts are integer
// minor currency units as the processor API requires.
type RefundRequest struct {
	Metadata    map[string]string
	PaymentID   string
	ReasonCode  string
	Currency    string
	AmountMinor int64
}

// RefundResult reports the processor's view of the refund.
type RefundResult struct {
	RefundID string
	Status   domain.RefundStatus
}

// RefundGateway is the external payment-processor integration that performs
// actual money movement. Implementations must enforce their own call
// timeout; callers treat any returned error as a failed, recorded attempt.
type RefundGateway interface {
	Refund(ctx context.Context, req *RefundRequest) (*RefundResult, error)
}
