package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/auth"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_LimitsPerUser(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	defer rl.Shutdown()
	handler := rl.Middleware(true)(okHandler())

	actor := &auth.Actor{UserID: uuid.New(), Role: auth.RoleUser}

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/v1/disputes/x/evidence", nil)
		req = req.WithContext(auth.WithActor(req.Context(), actor))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	assert.Equal(t, []int{200, 200, 429}, statuses)
}

func TestRateLimiter_SeparateBudgetsPerUser(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Shutdown()
	handler := rl.Middleware(true)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/v1/disputes/x/evidence", nil)
		req = req.WithContext(auth.WithActor(req.Context(), &auth.Actor{UserID: uuid.New(), Role: auth.RoleUser}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiter_AnonymousKeyedByHost(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Shutdown()
	handler := rl.Middleware(true)(okHandler())

	req := httptest.NewRequest("GET", "/v1/disputes", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest("GET", "/v1/disputes", nil)
	req.RemoteAddr = "10.0.0.1:9999"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestRateLimiter_FailMode(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Shutdown()

	// No actor and no parseable remote address
	req := httptest.NewRequest("GET", "/v1/disputes", nil)
	req.RemoteAddr = ""

	rec := httptest.NewRecorder()
	rl.Middleware(true)(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = httptest.NewRecorder()
	rl.Middleware(false)(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
