package bootstrap

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayseek/gateway/config"
)

// client construction does not dial, so these tests run without Redis.
func testRedisClient() redis.UniversalClient {
	return redis.NewClient(&redis.Options{Addr: "localhost:6379"})
}

func TestBuildAuthService_NoRedis(t *testing.T) {
	svc := BuildAuthService(AuthConfig{
		Auth: config.AuthConfig{Mode: config.AuthModeMock},
	})
	assert.Nil(t, svc)
}

func TestBuildAuthService_MockMode(t *testing.T) {
	svc := BuildAuthService(AuthConfig{
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
		RedisClient: testRedisClient(),
	})
	require.NotNil(t, svc)
}

func TestBuildAuthService_MockModeMissingIdentity(t *testing.T) {
	svc := BuildAuthService(AuthConfig{
		Auth: config.AuthConfig{
			Mode: config.AuthModeMock,
		},
		RedisClient: testRedisClient(),
	})
	assert.Nil(t, svc)
}

func TestBuildAuthService_OAuthModeMissingConfig(t *testing.T) {
	svc := BuildAuthService(AuthConfig{
		Auth: config.AuthConfig{
			Mode: config.AuthModeOAuth,
			OAuth: config.OAuthConfig{
				ClientID: "stayseek",
				// no client secret, no discovery URL
			},
		},
		RedisClient: testRedisClient(),
	})
	assert.Nil(t, svc)
}

func TestBuildAuthService_UnknownMode(t *testing.T) {
	svc := BuildAuthService(AuthConfig{
		Auth:        config.AuthConfig{Mode: "saml"},
		RedisClient: testRedisClient(),
	})
	assert.Nil(t, svc)
}
