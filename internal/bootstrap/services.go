package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/stayseek/gateway/config"
	redisadapter "github.com/stayseek/gateway/internal/adapters/redis"
	"github.com/stayseek/gateway/internal/data"
	"github.com/stayseek/gateway/internal/observability/metrics"
	"github.com/stayseek/gateway/internal/service"
)

// ServiceContainer holds the constructed application services.
type ServiceContainer struct {
	Auth          *service.AuthService
	Notifications *service.NotificationService
	Metrics       *metrics.Metrics
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger

	// MetricsRegistry overrides the default Prometheus registry (tests).
	MetricsRegistry prometheus.Registerer
}

// NewServices wires adapters into application services from shared
// infrastructure connections.
func NewServices(deps *ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.AppConfig{}
	}

	m := metrics.New(metrics.Options{Registry: deps.MetricsRegistry})

	container := ServiceContainer{
		Metrics: m,
		Auth: BuildAuthService(AuthConfig{
			Auth:        cfg.Auth,
			RedisClient: deps.RedisClient,
			Logger:      logger,
			Metrics:     m,
		}),
	}

	// Notifications need both the durable store and the live feed;
	// without either the gateway still serves auth and routing.
	if deps.DB != nil && deps.RedisClient != nil {
		feed := redisadapter.NewNotificationFeedWithOptions(deps.RedisClient, redisadapter.NotificationFeedOptions{
			Prefix:  cfg.Notifications.ChannelPrefix,
			Logger:  logger,
			BufSize: cfg.Notifications.BufferSize,
		})
		container.Notifications = service.NewNotificationService(service.NotificationServiceOptions{
			Repo:          data.NewNotificationRepo(deps.DB),
			Feed:          feed,
			Logger:        logger,
			Metrics:       m,
			SnapshotLimit: cfg.Notifications.SnapshotLimit,
			RetryBase:     cfg.Notifications.RetryBase,
			RetryMax:      cfg.Notifications.RetryMax,
		})
	} else {
		logger.Warn("notification service disabled: database or redis not configured")
	}

	return container
}
