package bootstrap

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayseek/gateway/config"
)

func testAppConfig() *config.AppConfig {
	return &config.AppConfig{
		Auth: config.AuthConfig{
			Mode: config.AuthModeMock,
			DevAuth: config.DevAuthConfig{
				UserID: "dev-user",
				Email:  "dev@example.com",
				Groups: []string{"hosts"},
			},
			AdminGroup: "admins",
			HostGroup:  "hosts",
		},
	}
}

func TestNewServices_WithoutInfrastructure(t *testing.T) {
	container := NewServices(&ServiceDeps{
		Config:          testAppConfig(),
		MetricsRegistry: prometheus.NewRegistry(),
	})

	require.NotNil(t, container.Metrics)
	assert.Nil(t, container.Auth, "auth requires a redis client")
	assert.Nil(t, container.Notifications, "notifications require db and redis")
}

func TestNewServices_WithRedisOnly(t *testing.T) {
	container := NewServices(&ServiceDeps{
		Config:          testAppConfig(),
		RedisClient:     testRedisClient(),
		MetricsRegistry: prometheus.NewRegistry(),
	})

	require.NotNil(t, container.Auth)
	assert.Nil(t, container.Notifications, "notifications also require the database")
}

func TestNewServices_NilConfig(t *testing.T) {
	container := NewServices(&ServiceDeps{
		MetricsRegistry: prometheus.NewRegistry(),
	})
	assert.Nil(t, container.Auth)
	assert.Nil(t, container.Notifications)
}

func TestNewHTTPServer(t *testing.T) {
	cfg := testAppConfig()
	cfg.HTTP.Addr = ":9091"

	server := NewHTTPServer(&HTTPServerConfig{
		Config: cfg,
		Services: NewServices(&ServiceDeps{
			Config:          cfg,
			RedisClient:     testRedisClient(),
			MetricsRegistry: prometheus.NewRegistry(),
		}),
	})

	require.NotNil(t, server)
	assert.Equal(t, ":9091", server.Addr)
	assert.NotNil(t, server.Handler)
}

func TestNewHTTPServer_NilConfig(t *testing.T) {
	assert.Nil(t, NewHTTPServer(nil))

	server := NewHTTPServer(&HTTPServerConfig{})
	require.NotNil(t, server)
	assert.Equal(t, ":8080", server.Addr)
}
