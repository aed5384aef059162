package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"etm/config"
)

func TestDefaults(t *testing.T) {
	def := config.Defaults()

	assert.Equal(t, "development", def.Server.Env)
	assert.Equal(t, "8080", def.Server.Port)
	assert.Equal(t, "UTC", def.App.Timezone)
	assert.Contains(t, def.Security.PublicPaths, "/api/auth/**")
	assert.Contains(t, def.Security.PublicPaths, "/health")
	assert.NotContains(t, def.Security.PublicPaths, "/api/**")
	assert.Equal(t, "file://migrations/postgres", def.DB.Postgres.MigrationPath)
	assert.Positive(t, def.JWT.ExpireMin)
	assert.InDelta(t, 1.0, def.External.Otel.SampleRatio, 0)
}

func TestGet_EnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_TIMEZONE", "Europe/Rome")
	t.Setenv("SECURITY_PUBLIC_PATHS", "/health,/docs/**")

	cfg := config.Get()
	require.NotNil(t, cfg)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "Europe/Rome", cfg.App.Timezone)
	assert.Equal(t, []string{"/health", "/docs/**"}, cfg.Security.PublicPaths)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Same(t, cfg, config.Get())
}
