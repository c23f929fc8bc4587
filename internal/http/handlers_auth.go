package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stayseek/gateway/internal/domain/access"
	"github.com/stayseek/gateway/internal/service"
)

// Cookie names used by the OAuth handshake.
const (
	oauthStateCookie    = "oauth_state"
	oauthNonceCookie    = "oauth_nonce"
	postLoginRedirectTo = "post_login_redirect"
)

// defaultFailureRedirectDelay lets the failure response settle before the
// client is sent back to the login page.
const defaultFailureRedirectDelay = 2 * time.Second

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc     *service.AuthService
	Cookies CookieWriter
	Logger  *slog.Logger

	// FailureRedirectDelay overrides the pause before redirecting a
	// failed handshake. Negative disables the pause.
	FailureRedirectDelay time.Duration
}

func (h *AuthHandlers) failureDelay() time.Duration {
	if h.FailureRedirectDelay != 0 {
		return h.FailureRedirectDelay
	}
	return defaultFailureRedirectDelay
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login handles the login initiation endpoint.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	result, err := h.Svc.BeginLogin(r.Context(), redirectURI)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     err,
		})
		return
	}

	// Store state, nonce, and the original redirect URI in secure cookies
	h.Cookies.SetTemp(w, r, oauthStateCookie, result.State)
	h.Cookies.SetTemp(w, r, oauthNonceCookie, result.Nonce)
	h.Cookies.SetTemp(w, r, postLoginRedirectTo, redirectURI)

	// Redirect to the identity provider
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback handles the OAuth callback endpoint, driving one handshake
// through the exchanger.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	// State echo must match the handshake cookie before anything runs;
	// a mismatched callback is discarded without consuming the code.
	if code != "" {
		stateCookie, err := r.Cookie(oauthStateCookie)
		if err != nil || stateCookie.Value != state {
			h.logger().Warn("callback state mismatch", "path", r.URL.Path)
			code = "" // fall through to the recovery path
		}
	}

	var nonce string
	if nonceCookie, err := r.Cookie(oauthNonceCookie); err == nil {
		nonce = nonceCookie.Value
	}
	var existing string
	if sessionCookie, err := r.Cookie(SessionCookieName); err == nil {
		existing = sessionCookie.Value
	}

	exchanger := service.NewCallbackExchanger(h.Svc, h.Logger)
	result := exchanger.Run(r.Context(), service.CallbackInput{
		Code:               code,
		State:              state,
		Nonce:              nonce,
		ExistingCredential: existing,
		Target:             h.consumePostLoginRedirect(w, r),
	})

	h.Cookies.Clear(w, r, oauthStateCookie)
	h.Cookies.Clear(w, r, oauthNonceCookie)

	if result != service.CallbackSucceeded {
		// Failed handshakes pause briefly so the client is not bounced
		// through an instant redirect loop on a flapping IdP.
		target, err := exchanger.RedirectAfter(r.Context(), h.failureDelay())
		if err != nil {
			return // client went away
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	if sess := exchanger.Session(); sess != nil && sess.ID != existing {
		h.Cookies.SetSession(w, r, *sess)
	}
	http.Redirect(w, r, exchanger.RedirectTarget(), http.StatusFound)
}

// Logout handles the logout endpoint.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie(SessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}

	h.Cookies.Clear(w, r, SessionCookieName)

	isAJAX := strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
	if isAJAX {
		WriteJSON(w, http.StatusOK, map[string]string{
			"status":      "success",
			"redirect_to": access.HomePath,
		})
		return
	}

	http.Redirect(w, r, access.HomePath, http.StatusFound)
}

// Status returns the current authentication status.
// GET /api/auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteJSON(w, http.StatusOK, map[string]any{
			"authenticated": false,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":         session.UserID,
			"first_name": session.FirstName,
			"last_name":  session.LastName,
			"email":      session.Email,
			"role":       session.Role,
			"is_host":    session.IsHost(),
		},
		"expires_at": session.ExpiresAt,
	})
}

// consumePostLoginRedirect returns the post-login redirect target and
// clears its cookie.
func (h *AuthHandlers) consumePostLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	target := access.DashboardPath
	if redirectCookie, err := r.Cookie(postLoginRedirectTo); err == nil {
		if safe := safeRedirectPath(redirectCookie.Value); safe != "/" {
			target = safe
		}
		h.Cookies.Clear(w, r, postLoginRedirectTo)
	}
	return target
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
