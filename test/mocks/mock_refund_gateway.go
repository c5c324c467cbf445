package mocks

import (
	"context"
	"sync"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
)

// MockRefundGateway is a mock implementation of RefundGateway for testing
type MockRefundGateway struct {
	mu sync.Mutex

	// Responses to return
	refundResponse *ports.RefundResult
	refundError    error

	// Call tracking
	RefundCalls int

	// Last request received
	LastRefundReq *ports.RefundRequest
}

// NewMockRefundGateway creates a new mock refund gateway
func NewMockRefundGateway() *MockRefundGateway {
	return &MockRefundGateway{}
}

// SetRefundResponse sets the response to return from Refund
func (m *MockRefundGateway) SetRefundResponse(result *ports.RefundResult, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refundResponse = result
	m.refundError = err
}

// Refund records the call and returns the configured response
func (m *MockRefundGateway) Refund(ctx context.Context, req *ports.RefundRequest) (*ports.RefundResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RefundCalls++
	m.LastRefundReq = req
	if m.refundError != nil {
		return nil, m.refundError
	}
	return m.refundResponse, nil
}

// Reset clears captured calls and responses
func (m *MockRefundGateway) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refundResponse = nil
	m.refundError = nil
	m.RefundCalls = 0
	m.LastRefundReq = nil
}
