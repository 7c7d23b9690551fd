package middleware

import (
	"context"
	"testing"
	"time"

	"attendance-svc/src/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentityStore struct {
	identities map[string]*models.Identity
}

func (f *fakeIdentityStore) GetIdentity(ctx context.Context, userID string) (*models.Identity, error) {
	identity, ok := f.identities[userID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return identity, nil
}

func testIdentity() *models.Identity {
	return &models.Identity{
		UserID: "64f0aa11bb22cc33dd44ee55",
		Name:   "Ada",
		Email:  "ada@example.com",
		Role:   models.RoleTeacher,
	}
}

func TestIssueAndAuthenticateRoundTrip(t *testing.T) {
	identity := testIdentity()
	store := &fakeIdentityStore{identities: map[string]*models.Identity{
		identity.UserID: identity,
	}}
	m := NewAuthMiddleware("test-key", nil, store)

	token, err := IssueToken("test-key", time.Hour, identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := m.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, identity.UserID, resolved.UserID)
	assert.Equal(t, models.RoleTeacher, resolved.Role)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	identity := testIdentity()
	m := NewAuthMiddleware("test-key", nil, &fakeIdentityStore{})

	token, err := IssueToken("test-key", -time.Minute, identity)
	require.NoError(t, err)

	_, err = m.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, models.ErrTokenExpired)
}

func TestAuthenticateRejectsWrongKey(t *testing.T) {
	identity := testIdentity()
	m := NewAuthMiddleware("test-key", nil, &fakeIdentityStore{})

	token, err := IssueToken("other-key", time.Hour, identity)
	require.NoError(t, err)

	_, err = m.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	m := NewAuthMiddleware("test-key", nil, &fakeIdentityStore{})

	_, err := m.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthenticateUnknownIdentity(t *testing.T) {
	identity := testIdentity()
	m := NewAuthMiddleware("test-key", nil, &fakeIdentityStore{identities: map[string]*models.Identity{}})

	token, err := IssueToken("test-key", time.Hour, identity)
	require.NoError(t, err)

	_, err = m.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}
