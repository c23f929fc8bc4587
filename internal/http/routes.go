package httpx

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stayseek/gateway/internal/domain/access"
	"github.com/stayseek/gateway/internal/observability/metrics"
	"github.com/stayseek/gateway/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth          *service.AuthService
	Notifications *service.NotificationService

	// RouteTable overrides the default route classification (tests).
	RouteTable *access.RouteTable

	Cookies CookieWriter
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// NewRouter creates the gateway handler: session resolution, the
// authorization gate, and the auth/notification endpoints.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:     services.Auth,
		Cookies: services.Cookies,
		Logger:  logger,
	}
	mux.HandleFunc("GET /auth/login", authHandlers.Login)
	mux.HandleFunc("GET /auth/callback", authHandlers.Callback)
	mux.HandleFunc("POST /auth/logout", authHandlers.Logout)
	mux.HandleFunc("GET /api/auth/status", authHandlers.Status)

	if services.Notifications != nil {
		notifHandlers := &NotificationHandlers{
			Svc:    services.Notifications,
			Logger: logger,
		}
		mux.HandleFunc("GET /api/notifications", notifHandlers.List)
		mux.HandleFunc("POST /api/notifications/{id}/read", notifHandlers.MarkRead)
		mux.HandleFunc("POST /api/notifications/read-all", notifHandlers.MarkAllRead)
		mux.HandleFunc("GET /api/notifications/stream", notifHandlers.Stream)
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /metrics", promhttp.Handler())

	// Everything else is a page navigation handled by the front end;
	// the gate has already ruled on it by the time it reaches here.
	mux.HandleFunc("/", pageHandler)

	var handler http.Handler = mux
	handler = Gate(GateOptions{
		Table:   services.RouteTable,
		Metrics: services.Metrics,
		Logger:  logger,
	})(handler)
	handler = ResolveSession(services.Auth, services.Cookies)(handler)
	return handler
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// pageHandler acknowledges an allowed page navigation. The rendered pages
// come from the front-end build; behind a reverse proxy this branch serves
// as the allow signal.
func pageHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("<!doctype html><title>stayseek</title>\n"))
}
