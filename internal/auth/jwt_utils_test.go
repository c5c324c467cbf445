package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NoussaierSalaani/smuppy-dispute-service/internal/domain"
)

func newTestManager(t *testing.T, expiry time.Duration) *JWTManager {
	t.Helper()
	privateKey, _, err := GenerateRSAKeyPair(2048)
	require.NoError(t, err)

	jm, err := NewJWTManager(PrivateKeyToPEM(privateKey), "dispute-service-test", expiry)
	require.NoError(t, err)
	return jm
}

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	jm := newTestManager(t, time.Hour)
	userID := uuid.New()

	token, err := jm.GenerateToken(userID, RoleAdmin)
	require.NoError(t, err)

	claims, err := jm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "dispute-service-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	jm := newTestManager(t, -time.Minute)

	token, err := jm.GenerateToken(uuid.New(), RoleUser)
	require.NoError(t, err)

	_, err = jm.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsForeignKey(t *testing.T) {
	jm := newTestManager(t, time.Hour)
	other := newTestManager(t, time.Hour)

	token, err := jm.GenerateToken(uuid.New(), RoleUser)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsGarbage(t *testing.T) {
	jm := newTestManager(t, time.Hour)

	_, err := jm.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestActorContext(t *testing.T) {
	userID := uuid.New()
	ctx := WithActor(context.Background(), &Actor{UserID: userID, Role: RoleUser})

	actor, err := ActorFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, userID, actor.UserID)
	assert.False(t, actor.IsAdmin())
}

func TestActorContext_Missing(t *testing.T) {
	_, err := ActorFromContext(context.Background())
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeUnauthorized))
}

func TestRequireAdmin(t *testing.T) {
	userCtx := WithActor(context.Background(), &Actor{UserID: uuid.New(), Role: RoleUser})
	_, err := RequireAdmin(userCtx)
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeForbidden))

	adminCtx := WithActor(context.Background(), &Actor{UserID: uuid.New(), Role: RoleAdmin})
	actor, err := RequireAdmin(adminCtx)
	require.NoError(t, err)
	assert.True(t, actor.IsAdmin())
}
