package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
)

// Context keys for authentication data
type contextKey string

const (
	actorKey     contextKey = "actor"
	requestIDKey contextKey = "request_id"
	clientIPKey  contextKey = "client_ip"
)

// Actor is the authenticated caller attached to a request context.
type Actor struct {
	UserID   uuid.UUID
	Role     Role
	TokenJTI string
}

// IsAdmin reports whether the actor carries the admin role.
func (a *Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// WithActor attaches the authenticated actor to the context
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext extracts the authenticated actor. Returns ErrUnauthorized
// when the request was not authenticated.
func ActorFromContext(ctx context.Context) (*Actor, error) {
	actor, ok := ctx.Value(actorKey).(*Actor)
	if !ok || actor == nil || actor.UserID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}
	return actor, nil
}

// RequireAdmin extracts the actor and rejects non-admin callers.
func RequireAdmin(ctx context.Context) (*Actor, error) {
	actor, err := ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, domain.NewDomainError(domain.ErrorCodeForbidden, "administrator role required")
	}
	return actor, nil
}

// WithRequestID attaches the request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID safely extracts the request ID from the context
func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey).(string)
	return requestID
}

// WithClientIP attaches the client IP to the context
func WithClientIP(ctx context.Context, clientIP string) context.Context {
	return context.WithValue(ctx, clientIPKey, clientIP)
}

// GetClientIP safely extracts the client IP from the context
func GetClientIP(ctx context.Context) string {
	clientIP, _ := ctx.Value(clientIPKey).(string)
	return clientIP
}
