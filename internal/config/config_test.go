package config_test

import (
	"testing"
	"time"

	"github.com/database-playground/query-console/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("BACKEND_URI", "http://localhost:9070/")
	t.Setenv("BACKEND_REQUEST_TIMEOUT", "15s")
	t.Setenv("METRICS_PORT", "9100")
	t.Setenv("POSTHOG_API_KEY", "phc_test")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://localhost:9070/", cfg.Backend.URI)
	assert.Equal(t, "/query", cfg.Backend.QueryPath)
	assert.Equal(t, 15*time.Second, cfg.Backend.RequestTimeout)
	assert.Equal(t, "http://localhost:9070/query", cfg.Backend.QueryURL())
	assert.Equal(t, "http://localhost:9070/healthz", cfg.Backend.HealthURL())
	assert.Equal(t, 9100, cfg.MetricsPort)
	assert.True(t, cfg.PostHog.Enabled())
	assert.False(t, cfg.OTel.Enabled)
	assert.Equal(t, "query-console", cfg.OTel.ServiceName)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := config.Config{
		MetricsPort: -1,
		Backend: config.BackendConfig{
			QueryPath:      "query",
			RequestTimeout: -time.Second,
		},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "METRICS_PORT")
	assert.Contains(t, err.Error(), "BACKEND_URI is required")
	assert.Contains(t, err.Error(), "BACKEND_QUERY_PATH")
	assert.Contains(t, err.Error(), "BACKEND_REQUEST_TIMEOUT")
}

func TestBackendConfig_RejectsRelativeURI(t *testing.T) {
	cfg := config.BackendConfig{URI: "localhost", QueryPath: "/query"}
	require.ErrorContains(t, cfg.Validate(), "absolute URL")
}

func TestLoadDevServerConfig(t *testing.T) {
	t.Setenv("DEVSERVER_PORT", "9070")
	t.Setenv("DEVSERVER_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := config.LoadDevServerConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9070, cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.NotEmpty(t, cfg.DSN)
}

func TestDevServerConfig_Validate(t *testing.T) {
	require.Error(t, config.DevServerConfig{}.Validate())
}
