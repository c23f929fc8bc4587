package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/stayseek/gateway/internal/domain/auth"

	"github.com/stayseek/gateway/internal/domain/access"
	"github.com/stayseek/gateway/internal/observability/metrics"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionResolver turns a cookie into a session for one request.
// Implemented by service.AuthService.
type SessionResolver interface {
	Resolve(ctx context.Context, credential string) (sess *domainauth.Session, newCredential string)
}

// SessionCookieName is the browser cookie carrying the session credential.
const SessionCookieName = "session_id"

// ResolveSession returns a middleware that resolves the session cookie into
// a session, attaching it to the request context. When the resolver rotated
// the session, the fresh credential is written back to the client before
// any downstream handler runs, so the gate decision and the Set-Cookie
// always travel in the same response.
func ResolveSession(resolver SessionResolver, cookies CookieWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var credential string
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				credential = cookie.Value
			}

			session, rotated := resolver.Resolve(r.Context(), credential)
			if session == nil && credential != "" {
				// Dead credential: clear it so the browser stops
				// presenting it.
				cookies.Clear(w, r, SessionCookieName)
			}
			if rotated != "" {
				cookies.SetSession(w, r, *session)
			}

			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), session)))
		})
	}
}

// GateOptions configures the route authorization gate.
type GateOptions struct {
	Table   *access.RouteTable
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Gate returns the route-authorization middleware. It classifies the
// request path, computes the access decision against the resolved session,
// and either forwards the request or issues the redirect. Static assets
// and API routes are not page navigations and bypass the gate; API
// handlers enforce their own auth.
func Gate(opts GateOptions) func(http.Handler) http.Handler {
	table := opts.Table
	if table == nil {
		table = access.DefaultRouteTable()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypassesGate(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			session := GetSessionFromContext(r.Context())
			class := table.Classify(r.URL.Path)
			decision := access.Decide(session, class, r.URL.Path)

			if decision.Allowed {
				opts.Metrics.GateDecision("allowed", "")
				next.ServeHTTP(w, r)
				return
			}

			opts.Metrics.GateDecision("redirect", string(decision.Reason))
			logger.Debug("gate redirect",
				"path", r.URL.Path,
				"class", string(class),
				"reason", string(decision.Reason),
				"target", decision.Target,
			)
			http.Redirect(w, r, decision.Target, http.StatusSeeOther)
		})
	}
}

// bypassesGate reports whether the path is exempt from page-level
// authorization.
func bypassesGate(path string) bool {
	return strings.HasPrefix(path, "/static/") ||
		strings.HasPrefix(path, "/api/") ||
		path == "/healthz"
}
