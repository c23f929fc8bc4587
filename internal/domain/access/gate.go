package access

import (
	"net/url"

	domainauth "github.com/stayseek/gateway/internal/domain/auth"
)

// Well-known redirect targets used by gate decisions.
const (
	LoginPath          = "/auth/login"
	SignupPath         = "/auth/signup"
	HomePath           = "/"
	DashboardPath      = "/dashboard"
	HostOnboardingPath = "/host/register"
)

// Reason categorizes why a redirect decision was made.
type Reason string

const (
	ReasonUnauthenticated      Reason = "unauthenticated"
	ReasonForbidden            Reason = "forbidden"
	ReasonNotAHost             Reason = "not_a_host"
	ReasonAlreadyAuthenticated Reason = "already_authenticated"
)

// Decision is the allow-or-redirect outcome for one (session, path) pair.
// The zero value is not meaningful; use Allow or RedirectTo.
type Decision struct {
	Allowed bool
	// Target is the redirect location when Allowed is false. When the
	// reason is ReasonUnauthenticated it carries the original request
	// path in a redirect_uri query parameter for replay after sign-in.
	Target string
	Reason Reason
}

// Allow is the decision that lets a request proceed.
func Allow() Decision { return Decision{Allowed: true} }

// RedirectTo builds a redirect decision to the given target.
func RedirectTo(target string, reason Reason) Decision {
	return Decision{Target: target, Reason: reason}
}

// redirectToLogin builds the unauthenticated redirect, preserving the
// originally requested path so it can be replayed after authentication.
func redirectToLogin(originalPath string) Decision {
	target := LoginPath
	if originalPath != "" {
		target += "?redirect_uri=" + url.QueryEscape(originalPath)
	}
	return RedirectTo(target, ReasonUnauthenticated)
}

// Decide computes the authorization outcome for a session (nil when
// unauthenticated) and an already-classified path. Pure function: the full
// decision table is unit-testable without a backend.
//
// Rules, first match wins:
//  1. Public class allows unconditionally (except signed-in users on auth
//     entry pages, rule 5).
//  2. No session on any protected class redirects to login with the
//     original path attached for replay.
//  3. Admin pages require the admin role; others go home.
//  4. Host pages require host or admin; plain guests go to host onboarding.
//  5. A signed-in user on a login/signup page goes to the dashboard.
//  6. Otherwise allow.
func Decide(session *domainauth.Session, class RouteClass, path string) Decision {
	if session == nil {
		if class == ClassPublic {
			return Allow()
		}
		return redirectToLogin(path)
	}

	switch class {
	case ClassRequiresAdmin:
		if !session.IsAdmin() {
			return RedirectTo(HomePath, ReasonForbidden)
		}
	case ClassRequiresHost:
		if !session.IsHost() {
			return RedirectTo(HostOnboardingPath, ReasonNotAHost)
		}
	case ClassPublic, ClassRequiresAuth:
		// fall through to the auth entry page check
	}

	if isAuthEntryPath(path) {
		return RedirectTo(DashboardPath, ReasonAlreadyAuthenticated)
	}

	return Allow()
}

// isAuthEntryPath reports whether path is an authentication entry page that
// an already-signed-in user should not re-enter.
func isAuthEntryPath(path string) bool {
	p := normalizePath(path)
	return p == LoginPath || p == SignupPath
}
