package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/auth"
	"github.com/NoussaierSalaani/smuppy-dispute-service/test/mocks"
)

func newTestJWT(t *testing.T) *auth.JWTManager {
	t.Helper()
	privateKey, _, err := auth.GenerateRSAKeyPair(2048)
	require.NoError(t, err)
	jm, err := auth.NewJWTManager(auth.PrivateKeyToPEM(privateKey), "test", time.Hour)
	require.NoError(t, err)
	return jm
}

func echoActorHandler(t *testing.T, wantUser uuid.UUID, wantAdmin bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		require.NoError(t, err)
		assert.Equal(t, wantUser, actor.UserID)
		assert.Equal(t, wantAdmin, actor.IsAdmin())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	jm := newTestJWT(t)
	userID := uuid.New()
	token, err := jm.GenerateToken(userID, auth.RoleUser)
	require.NoError(t, err)

	am := NewAuthMiddleware(jm, mocks.NewMockLogger())
	handler := am.Authenticate(echoActorHandler(t, userID, false))

	req := httptest.NewRequest("GET", "/v1/disputes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_UniformUnauthorized(t *testing.T) {
	jm := newTestJWT(t)
	am := NewAuthMiddleware(jm, mocks.NewMockLogger())
	handler := am.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	cases := map[string]func(r *http.Request){
		"missing header": func(r *http.Request) {},
		"not bearer":     func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") },
		"garbage token":  func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/disputes", nil)
			mutate(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body errorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, "authentication required", body.Error.Message)
		})
	}
}

func TestAuthMiddleware_RequireAdmin(t *testing.T) {
	jm := newTestJWT(t)
	am := NewAuthMiddleware(jm, mocks.NewMockLogger())

	adminID := uuid.New()
	okHandler := am.Authenticate(am.RequireAdmin(echoActorHandler(t, adminID, true)))

	adminToken, err := jm.GenerateToken(adminID, auth.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/v1/admin/disputes/x/resolve", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	okHandler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	userToken, err := jm.GenerateToken(uuid.New(), auth.RoleUser)
	require.NoError(t, err)

	denyHandler := am.Authenticate(am.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	})))

	req = httptest.NewRequest("POST", "/v1/admin/disputes/x/resolve", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec = httptest.NewRecorder()
	denyHandler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
