package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("DISCOVERY_DEFAULT_RADIUS_METERS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3000", cfg.App.Addr())
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Equal(t, 10000.0, cfg.Discovery.DefaultRadiusMeters)
	assert.Equal(t, 30*time.Second, cfg.Discovery.CacheTTL())
	assert.Equal(t, 10*time.Second, cfg.App.RequestTimeout())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("JWT_EXPIRE_MINUTES", "15")
	t.Setenv("DISCOVERY_CACHE_TTL_SECONDS", "0")
	t.Setenv("REDIS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL())
	assert.Zero(t, cfg.Discovery.CacheTTL())
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("REDIS_DB", "0")
	t.Setenv("DISCOVERY_MAX_RADIUS_METERS", "far")
	_, err = Load()
	require.Error(t, err)
}

func TestGetEnvAsInt_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "x1")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))
}

func TestRequestTimeout_Disabled(t *testing.T) {
	assert.Zero(t, AppConfig{RequestTimeoutSeconds: 0}.RequestTimeout())
}
