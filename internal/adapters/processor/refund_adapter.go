package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
	pkgerrors "github.com/NoussaierSalaani/smuppy-dispute-service/pkg/errors"
)

// Config holds the processor connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	// Timeout bounds each refund call independently of the caller's context.
	Timeout time.Duration
}

// RefundAdapter implements the RefundGateway interface against the payment
// processor's refund API.
type RefundAdapter struct {
	config     Config
	httpClient ports.HTTPClient
	breaker    *CircuitBreaker
	logger     ports.Logger
}

// NewRefundAdapter creates a new refund adapter with dependency injection
func NewRefundAdapter(config Config, httpClient ports.HTTPClient, breaker *CircuitBreaker, logger ports.Logger) *RefundAdapter {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &RefundAdapter{
		config:     config,
		httpClient: httpClient,
		breaker:    breaker,
		logger:     logger,
	}
}

// NewRefundAdapterWithDefaults creates a new refund adapter with a default
// HTTP client and circuit breaker
func NewRefundAdapterWithDefaults(config Config, logger ports.Logger) *RefundAdapter {
	return NewRefundAdapter(config, &http.Client{
		Timeout: 30 * time.Second,
	}, NewCircuitBreaker(DefaultCircuitBreakerConfig()), logger)
}

type refundAPIRequest struct {
	Metadata  map[string]string `json:"metadata,omitempty"`
	PaymentID string            `json:"payment_id"`
	Reason    string            `json:"reason"`
	Currency  string            `json:"currency"`
	Amount    int64             `json:"amount"`
}

type refundAPIResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Refund implements RefundGateway.Refund
func (a *RefundAdapter) Refund(ctx context.Context, req *ports.RefundRequest) (*ports.RefundResult, error) {
	if req.PaymentID == "" {
		return nil, pkgerrors.NewValidationError("payment_id", "payment id is required")
	}
	if req.AmountMinor <= 0 {
		return nil, pkgerrors.NewValidationError("amount", "refund amount must be positive")
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	apiReq := refundAPIRequest{
		PaymentID: req.PaymentID,
		Amount:    req.AmountMinor,
		Currency:  req.Currency,
		Reason:    req.ReasonCode,
		Metadata:  req.Metadata,
	}

	var resp refundAPIResponse
	err := a.breaker.Call(func() error {
		return a.makeRequest(ctx, http.MethodPost, "/v1/refunds", apiReq, &resp)
	})
	if err != nil {
		if err == ErrCircuitOpen || err == ErrTooManyRequests {
			return nil, pkgerrors.NewProcessorError("CIRCUIT_OPEN", "Payment processor unavailable", pkgerrors.CategoryNetworkError, true)
		}
		return nil, err
	}

	switch resp.Status {
	case "succeeded", "pending":
		status := domain.RefundStatusSucceeded
		if resp.Status == "pending" {
			status = domain.RefundStatusPending
		}
		return &ports.RefundResult{
			RefundID: resp.ID,
			Status:   status,
		}, nil
	default:
		return nil, a.declineError(resp)
	}
}

// declineError maps a processor decline onto an error category the caller
// can record and report.
func (a *RefundAdapter) declineError(resp refundAPIResponse) *pkgerrors.ProcessorError {
	category := pkgerrors.CategoryDeclined
	retriable := false
	switch resp.Code {
	case "already_refunded":
		category = pkgerrors.CategoryAlreadyRefunded
	case "payment_not_found", "payment_not_settled":
		category = pkgerrors.CategoryInvalidPayment
	case "processor_unavailable":
		category = pkgerrors.CategorySystemError
		retriable = true
	}

	perr := pkgerrors.NewProcessorError(resp.Code, "Refund declined by processor", category, retriable)
	perr.ProcessorMessage = resp.Message
	perr.Details["refund_id"] = resp.ID
	return perr
}

func (a *RefundAdapter) makeRequest(ctx context.Context, method, endpoint string, request interface{}, response interface{}) error {
	payloadBytes, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := a.config.BaseURL + endpoint
	httpReq, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.config.APIKey)

	// Log request (excluding sensitive data)
	if a.logger != nil {
		a.logger.Info("making request to payment processor",
			ports.String("method", method),
			ports.String("endpoint", endpoint),
		)
	}

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.NewProcessorError("NETWORK_ERROR", "Failed to connect to payment processor", pkgerrors.CategoryNetworkError, true)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if httpResp.StatusCode >= 500 {
		return pkgerrors.NewProcessorError("PROCESSOR_ERROR", "Payment processor error", pkgerrors.CategorySystemError, true)
	}

	if httpResp.StatusCode >= 400 {
		// Declines come back as 4xx with a decode-able body
		var decline refundAPIResponse
		if jsonErr := json.Unmarshal(body, &decline); jsonErr == nil && decline.Code != "" {
			return a.declineError(decline)
		}
		return pkgerrors.NewProcessorError("REQUEST_ERROR", "Invalid request to payment processor", pkgerrors.CategoryInvalidRequest, false)
	}

	if err := json.Unmarshal(body, response); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
