package errors

import "fmt"

// ErrorCategory represents the category of a processor error for handling
type ErrorCategory string

const (
	CategoryDeclined        ErrorCategory = "declined"
	CategoryAlreadyRefunded ErrorCategory = "already_refunded"
	CategoryInvalidPayment  ErrorCategory = "invalid_payment"
	CategorySystemError     ErrorCategory = "system_error"
	CategoryNetworkError    ErrorCategory = "network_error"
	CategoryInvalidRequest  ErrorCategory = "invalid_request"
)

// ProcessorError represents a payment-processor error with detailed context.
// IsRetriable tells the operator whether a manual retry can succeed.
type ProcessorError struct {
	Details          map[string]interface{}
	Code             string
	Message          string
	ProcessorMessage string
	Category         ErrorCategory
	IsRetriable      bool
}

func (e *ProcessorError) Error() string {
	if e.ProcessorMessage != "" {
		return fmt.Sprintf("%s: %s (processor: %s)", e.Code, e.Message, e.ProcessorMessage)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewProcessorError creates a new processor error
func NewProcessorError(code, message string, category ErrorCategory, retriable bool) *ProcessorError {
	return &ProcessorError{
		Code:        code,
		Message:     message,
		Category:    category,
		IsRetriable: retriable,
		Details:     make(map[string]interface{}),
	}
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
