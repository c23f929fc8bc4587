package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/stayseek/gateway/internal/domain/auth"
	"github.com/stayseek/gateway/internal/ports"
)

func TestMockAuthProvider_Begin_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/auth/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", authURL)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	// Second call should increment counters
	_, state2, nonce2, err2 := provider.Begin(ctx, input)
	require.NoError(t, err2)
	assert.Equal(t, "state-2", state2)
	assert.Equal(t, "nonce-2", nonce2)
}

func TestMockAuthProvider_Exchange_Defaults(t *testing.T) {
	provider := NewMockAuthProvider()

	identity, err := provider.Exchange(context.Background(), ports.ExchangeInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "mock-user-1", identity.UserID)
	assert.Equal(t, 1, provider.ExchangeCalls)
}

func TestMemorySessionStore_RoundTrip(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	sess := domainauth.Session{ID: "s1", UserID: "u1", Role: domainauth.RoleHost}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemorySessionStore_Rotate(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	sess := domainauth.Session{ID: "s1", UserID: "u1", Role: domainauth.RoleGuest}
	require.NoError(t, store.Save(ctx, sess))

	rotated, err := store.Rotate(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, "rotated-1", rotated.ID)
	assert.Equal(t, "u1", rotated.UserID)

	store.RotateErr = ports.ErrRotationUnsupported
	_, err = store.Rotate(ctx, rotated)
	assert.ErrorIs(t, err, ports.ErrRotationUnsupported)
}

func TestStaticRoleMapper(t *testing.T) {
	mapper := StaticRoleMapper{AdminGroup: "site-admins", HostGroup: "hosts"}

	assert.Equal(t, domainauth.RoleAdmin, mapper.Map([]string{"hosts", "site-admins"}))
	assert.Equal(t, domainauth.RoleHost, mapper.Map([]string{"hosts"}))
	assert.Equal(t, domainauth.RoleGuest, mapper.Map([]string{"travellers"}))
	assert.Equal(t, domainauth.RoleGuest, mapper.Map(nil))
}
