package httpx

import (
	"net/http"
	"strings"
	"time"

	domainauth "github.com/stayseek/gateway/internal/domain/auth"
)

// CookieWriter writes and clears the gateway's cookies with consistent
// attributes. Shared between the session middleware and the auth handlers
// so a cookie is always cleared with the same attributes it was set with.
type CookieWriter struct {
	// Domain for all cookies; empty uses the request domain.
	Domain string
	// Secure forces the Secure attribute even off-TLS (behind a
	// terminating proxy the request itself is plain HTTP).
	Secure bool
}

func (c CookieWriter) secure(r *http.Request) bool {
	return c.Secure || r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// SetSession writes the session cookie based on the session's expiry.
func (c CookieWriter) SetSession(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   c.secure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// SetTemp writes a short-lived cookie for OAuth handshake state.
func (c CookieWriter) SetTemp(w http.ResponseWriter, r *http.Request, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   c.secure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})
}

// Clear expires a cookie immediately, mirroring the attributes used when
// setting it so deletion works across browsers.
func (c CookieWriter) Clear(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   c.secure(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
