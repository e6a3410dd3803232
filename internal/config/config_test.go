package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonesrussell/boardwatch/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err, "a missing config file runs on defaults")

	assert.Equal(t, 8070, cfg.Server.Port)
	assert.Equal(t, config.BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 8*time.Second, cfg.Probe.Timeout)
	assert.Equal(t, 200*time.Millisecond, cfg.Probe.Delay)
	assert.Equal(t, 100, cfg.Probe.RatePerMinute)
	assert.Equal(t, 50, cfg.Probe.MaxURLs)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, `
debug: true
server:
  port: 9000
  cors_origins:
    - https://app.example.com
store:
  backend: redis
  redis:
    address: redis.internal:6379
probe:
  rate_per_minute: 10
auth:
  cookie_secret: super-secret
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, config.BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "redis.internal:6379", cfg.Store.Redis.Address)
	assert.Equal(t, 10, cfg.Probe.RatePerMinute)
	assert.Equal(t, "super-secret", cfg.Auth.CookieSecret)
}

func TestEnvOverridesWin(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
`)

	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_ADDRESS", "override:6379")
	t.Setenv("PROBE_RATE_LIMIT", "42")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, config.BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "override:6379", cfg.Store.Redis.Address)
	assert.Equal(t, 42, cfg.Probe.RatePerMinute)
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown backend", func(c *config.Config) { c.Store.Backend = "etcd" }},
		{"postgres without host", func(c *config.Config) {
			c.Store.Backend = config.BackendPostgres
			c.Store.Postgres.Host = ""
		}},
		{"non-positive rate", func(c *config.Config) { c.Probe.RatePerMinute = 0 }},
		{"non-positive max urls", func(c *config.Config) { c.Probe.MaxURLs = -1 }},
		{"missing cookie secret", func(c *config.Config) { c.Auth.CookieSecret = "" }},
		{"bad port", func(c *config.Config) { c.Server.Port = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yml"))
			require.NoError(t, err)

			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
