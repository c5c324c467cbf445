package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/auth"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain/ports"
)

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.JWTClaims, error)
}

// AuthMiddleware authenticates requests via JWT bearer tokens and attaches
// the resulting Actor to the request context. Every rejection is a uniform
// 401 so callers cannot distinguish missing, expired, or forged tokens.
type AuthMiddleware struct {
	validator TokenValidator
	logger    ports.Logger
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(validator TokenValidator, logger ports.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		logger:    logger,
	}
}

// Authenticate wraps a handler with bearer-token authentication
func (am *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, domain.ErrorCodeUnauthorized, "authentication required")
			return
		}

		claims, err := am.validator.ValidateToken(token)
		if err != nil {
			am.logger.Debug("token validation failed", ports.Err(err))
			writeError(w, http.StatusUnauthorized, domain.ErrorCodeUnauthorized, "authentication required")
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil || userID == uuid.Nil {
			am.logger.Warn("token carries malformed user id", ports.String("jti", claims.ID))
			writeError(w, http.StatusUnauthorized, domain.ErrorCodeUnauthorized, "authentication required")
			return
		}

		actor := &auth.Actor{
			UserID:   userID,
			Role:     claims.Role,
			TokenJTI: claims.ID,
		}

		ctx := auth.WithActor(r.Context(), actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects authenticated callers without the admin role.
// Must run after Authenticate.
func (am *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := auth.ActorFromContext(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, domain.ErrorCodeUnauthorized, "authentication required")
			return
		}
		if !actor.IsAdmin() {
			writeError(w, http.StatusForbidden, domain.ErrorCodeForbidden, "administrator role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
