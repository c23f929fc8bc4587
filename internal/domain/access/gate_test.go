package access

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/stayseek/gateway/internal/domain/auth"
)

func sessionWithRole(role domainauth.Role) *domainauth.Session {
	return &domainauth.Session{ID: "sess-1", UserID: "user-1", Role: role}
}

func TestDecide_PublicAlwaysAllowsAnonymous(t *testing.T) {
	table := DefaultRouteTable()
	for _, path := range []string{"/", "/apartments", "/hotels/5", "/tours", "/search", "/property/9"} {
		d := Decide(nil, table.Classify(path), path)
		assert.True(t, d.Allowed, "anonymous access to %s", path)
	}
}

func TestDecide_UnauthenticatedRedirectsToLoginWithReplayPath(t *testing.T) {
	table := DefaultRouteTable()
	for _, path := range []string{"/dashboard", "/bookings/b-1", "/wishlist", "/profile", "/host/listings", "/admin/users"} {
		d := Decide(nil, table.Classify(path), path)
		require.False(t, d.Allowed, "path %s", path)
		assert.Equal(t, ReasonUnauthenticated, d.Reason)

		u, err := url.Parse(d.Target)
		require.NoError(t, err)
		assert.Equal(t, LoginPath, u.Path)
		assert.Equal(t, path, u.Query().Get("redirect_uri"), "original path must be replayable")
	}
}

func TestDecide_AdminPages(t *testing.T) {
	table := DefaultRouteTable()
	class := table.Classify("/admin/users")

	d := Decide(sessionWithRole(domainauth.RoleAdmin), class, "/admin/users")
	assert.True(t, d.Allowed)

	for _, role := range []domainauth.Role{domainauth.RoleGuest, domainauth.RoleHost} {
		d := Decide(sessionWithRole(role), class, "/admin/users")
		require.False(t, d.Allowed, "role %s", role)
		assert.Equal(t, HomePath, d.Target)
		assert.Equal(t, ReasonForbidden, d.Reason)
	}
}

func TestDecide_HostPages(t *testing.T) {
	table := DefaultRouteTable()
	class := table.Classify("/host/listings")

	for _, role := range []domainauth.Role{domainauth.RoleHost, domainauth.RoleAdmin} {
		d := Decide(sessionWithRole(role), class, "/host/listings")
		assert.True(t, d.Allowed, "role %s", role)
	}

	d := Decide(sessionWithRole(domainauth.RoleGuest), class, "/host/listings")
	require.False(t, d.Allowed)
	assert.Equal(t, HostOnboardingPath, d.Target)
	assert.Equal(t, ReasonNotAHost, d.Reason)
}

func TestDecide_HostOverridePathsAllowAnyAuthenticatedRole(t *testing.T) {
	table := DefaultRouteTable()
	for _, path := range []string{"/host/register", "/host/pending"} {
		for _, role := range []domainauth.Role{domainauth.RoleGuest, domainauth.RoleHost, domainauth.RoleAdmin} {
			d := Decide(sessionWithRole(role), table.Classify(path), path)
			assert.True(t, d.Allowed, "path %s role %s", path, role)
		}
	}
}

func TestDecide_SignedInUserCannotReenterAuthFlow(t *testing.T) {
	table := DefaultRouteTable()
	for _, path := range []string{"/auth/login", "/auth/signup", "/auth/login/"} {
		d := Decide(sessionWithRole(domainauth.RoleGuest), table.Classify(path), path)
		require.False(t, d.Allowed, "path %s", path)
		assert.Equal(t, DashboardPath, d.Target)
		assert.Equal(t, ReasonAlreadyAuthenticated, d.Reason)
	}

	// Other auth pages remain reachable for signed-in users.
	d := Decide(sessionWithRole(domainauth.RoleGuest), table.Classify("/auth/signed-out"), "/auth/signed-out")
	assert.True(t, d.Allowed)
}

func TestDecide_AuthenticatedAllowedOnProtectedPages(t *testing.T) {
	table := DefaultRouteTable()
	for _, path := range []string{"/dashboard", "/bookings", "/wishlist", "/profile"} {
		for _, role := range []domainauth.Role{domainauth.RoleGuest, domainauth.RoleHost, domainauth.RoleAdmin} {
			d := Decide(sessionWithRole(role), table.Classify(path), path)
			assert.True(t, d.Allowed, "path %s role %s", path, role)
		}
	}
}

func TestDecide_IsPureForConcurrentUse(t *testing.T) {
	// Repeated invocations over shared inputs must not interfere. Decide
	// holds no state, so this is a smoke check that the table is not
	// mutated by classification.
	table := DefaultRouteTable()
	done := make(chan struct{})
	for range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 100 {
				Decide(sessionWithRole(domainauth.RoleHost), table.Classify("/host"), "/host")
				Decide(nil, table.Classify("/dashboard"), "/dashboard")
			}
		}()
	}
	for range 8 {
		<-done
	}
	assert.True(t, Decide(nil, table.Classify("/"), "/").Allowed)
}
