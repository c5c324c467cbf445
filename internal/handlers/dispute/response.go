package dispute

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
)

type errorBody struct {
	Code    domain.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, payload map[string]interface{}) {
	body := map[string]interface{}{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// nullableCursor renders an exhausted pagination cursor as an explicit
// JSON null rather than an empty string.
func nullableCursor(cursor string) interface{} {
	if cursor == "" {
		return nil
	}
	return cursor
}

// jsonAmount renders a monetary amount as a bare JSON number with two
// decimal places.
func jsonAmount(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// statusForCode maps stable error codes onto HTTP statuses.
var statusForCode = map[domain.ErrorCode]int{
	domain.ErrorCodeUnauthorized:     http.StatusUnauthorized,
	domain.ErrorCodeForbidden:        http.StatusForbidden,
	domain.ErrorCodeNotFound:         http.StatusNotFound,
	domain.ErrorCodeInvalidState:     http.StatusBadRequest,
	domain.ErrorCodeAlreadyResolved:  http.StatusBadRequest,
	domain.ErrorCodeDeadlinePassed:   http.StatusUnprocessableEntity,
	domain.ErrorCodeLimitReached:     http.StatusUnprocessableEntity,
	domain.ErrorCodeValidationFailed: http.StatusBadRequest,
	domain.ErrorCodeRateLimited:      http.StatusTooManyRequests,
}

// writeDomainError converts a service error into the uniform envelope.
// Unknown and internal errors become a generic 500; the underlying error
// text is logged, never echoed.
func writeDomainError(w http.ResponseWriter, logger ports.Logger, err error) {
	code := domain.GetErrorCode(err)
	status, known := statusForCode[code]
	if !known {
		logger.Error("request failed", ports.Err(err))
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   errorBody{Code: domain.ErrorCodeInternalError, Message: "internal server error"},
		})
		return
	}

	message := http.StatusText(status)
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		message = domainErr.Message
	}

	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   errorBody{Code: code, Message: message},
	})
}

func writeValidationError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"success": false,
		"error":   errorBody{Code: domain.ErrorCodeValidationFailed, Message: message},
	})
}
