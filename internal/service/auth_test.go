package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/stayseek/gateway/internal/domain/auth"
	apperrors "github.com/stayseek/gateway/internal/errors"
	mockauth "github.com/stayseek/gateway/internal/mocks/auth"
	"github.com/stayseek/gateway/internal/ports"
)

func newTestAuthService() (*AuthService, *mockauth.MockAuthProvider, *mockauth.MemorySessionStore) {
	provider := mockauth.NewMockAuthProvider()
	store := mockauth.NewMemorySessionStore()
	svc := NewAuthService(AuthServiceOptions{
		Provider: provider,
		Sessions: store,
		Roles:    mockauth.StaticRoleMapper{AdminGroup: "site-admins", HostGroup: "hosts"},
	})
	return svc, provider, store
}

func TestBeginLogin(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	result, err := svc.BeginLogin(ctx, "http://localhost:8080/auth/callback")
	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", result.AuthURL)
	assert.NotEmpty(t, result.State)
	assert.NotEmpty(t, result.Nonce)

	_, err = svc.BeginLogin(ctx, "")
	assert.Error(t, err)
}

func TestCompleteLogin_MapsRoleAndSavesSession(t *testing.T) {
	svc, provider, store := newTestAuthService()
	provider.DefaultUser.Groups = []string{"hosts"}
	ctx := context.Background()

	result, err := svc.CompleteLogin(ctx, CompleteLoginInput{
		Code: "code", State: "state-1", Nonce: "nonce-1",
	})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleHost, result.Session.Role)
	assert.NotEmpty(t, result.Session.ID)

	stored, err := store.Get(ctx, result.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Session, stored)
}

func TestCompleteLogin_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	cases := []struct {
		name  string
		input CompleteLoginInput
	}{
		{"missing code", CompleteLoginInput{State: "s", Nonce: "n"}},
		{"missing state", CompleteLoginInput{Code: "c", Nonce: "n"}},
		{"missing nonce", CompleteLoginInput{Code: "c", State: "s"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CompleteLogin(ctx, tc.input)
			assert.Error(t, err)
		})
	}
}

func TestCompleteLogin_ExchangeFailure(t *testing.T) {
	svc, provider, store := newTestAuthService()
	provider.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
		return domainauth.Identity{}, errors.New("idp rejected code")
	}

	_, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{
		Code: "used-code", State: "s", Nonce: "n",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsExchangeFailed(err))
	assert.Equal(t, 0, store.Len(), "no session on failed exchange")
}

func TestResolve_EmptyAndUnknownCredential(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	sess, newCred := svc.Resolve(ctx, "")
	assert.Nil(t, sess)
	assert.Empty(t, newCred)

	sess, newCred = svc.Resolve(ctx, "no-such-session")
	assert.Nil(t, sess)
	assert.Empty(t, newCred)
}

func TestResolve_ExpiredSessionDeleted(t *testing.T) {
	svc, _, store := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Session{
		ID: "stale", UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute),
	}))

	sess, _ := svc.Resolve(ctx, "stale")
	assert.Nil(t, sess)
	assert.Equal(t, 0, store.Len(), "expired record is deleted on read")
}

func TestResolve_HealthySessionNotRotated(t *testing.T) {
	svc, _, store := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Session{
		ID: "healthy", UserID: "u1", Role: domainauth.RoleGuest,
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	sess, newCred := svc.Resolve(ctx, "healthy")
	require.NotNil(t, sess)
	assert.Equal(t, "healthy", sess.ID)
	assert.Empty(t, newCred, "a session far from expiry keeps its credential")
}

func TestResolve_NearExpiryRotates(t *testing.T) {
	svc, _, store := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Session{
		ID: "aging", UserID: "u1", Role: domainauth.RoleHost,
		ExpiresAt: time.Now().Add(time.Minute),
	}))

	sess, newCred := svc.Resolve(ctx, "aging")
	require.NotNil(t, sess)
	assert.Equal(t, "rotated-1", newCred)
	assert.Equal(t, newCred, sess.ID)
	assert.Equal(t, "u1", sess.UserID)
	assert.Greater(t, time.Until(sess.ExpiresAt), 20*time.Minute, "rotation extends the expiry")

	// The rotated record resolves on the next request.
	next, again := svc.Resolve(ctx, newCred)
	require.NotNil(t, next)
	assert.Empty(t, again)
}

func TestResolve_RotationUnsupportedKeepsCredential(t *testing.T) {
	svc, _, store := newTestAuthService()
	store.RotateErr = ports.ErrRotationUnsupported
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Session{
		ID: "aging", UserID: "u1", ExpiresAt: time.Now().Add(time.Minute),
	}))

	sess, newCred := svc.Resolve(ctx, "aging")
	require.NotNil(t, sess)
	assert.Equal(t, "aging", sess.ID)
	assert.Empty(t, newCred)
}

func TestLogout(t *testing.T) {
	svc, _, store := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Session{
		ID: "s1", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour),
	}))

	require.NoError(t, svc.Logout(ctx, "s1"))
	assert.Equal(t, 0, store.Len())

	// Logout without a session is a no-op.
	assert.NoError(t, svc.Logout(ctx, ""))
}
