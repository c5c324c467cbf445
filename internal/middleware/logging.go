package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
)

// RequestLogger logs one structured line per request with status, latency
// and the chi request id.
func RequestLogger(logger ports.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				ports.String("method", r.Method),
				ports.String("path", r.URL.Path),
				ports.Int("status", ww.Status()),
				ports.Int("bytes", ww.BytesWritten()),
				ports.Int64("duration_ms", time.Since(start).Milliseconds()),
				ports.String("request_id", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}
