package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
)

type errorBody struct {
	Code    domain.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

type errorEnvelope struct {
	Error   errorBody `json:"error"`
	Success bool      `json:"success"`
}

// writeError emits the uniform JSON error envelope. Middleware rejections
// never echo internal detail, only the stable code and a generic message.
func writeError(w http.ResponseWriter, status int, code domain.ErrorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorEnvelope{
		Success: false,
		Error:   errorBody{Code: code, Message: message},
	})
}
