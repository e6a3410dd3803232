package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/boardwatch/internal/logger"
	"github.com/jonesrussell/boardwatch/internal/miro"
	"github.com/jonesrussell/boardwatch/internal/store"
)

const (
	defaultServerPort      = 8070
	defaultServerTimeout   = 30 * time.Second
	defaultShutdownTimeout = 30 * time.Second

	defaultProbeTimeout       = 8 * time.Second
	defaultProbeDelay         = 200 * time.Millisecond
	defaultProbeRatePerMinute = 100
	defaultProbeMaxURLs       = 50

	defaultRedisAddress = "localhost:6379"
	defaultDatabasePort = 5432

	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config is the full service configuration.
type Config struct {
	Debug   bool          `env:"APP_DEBUG" yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Logging logger.Config `yaml:"logging"`
	Store   StoreConfig   `yaml:"store"`
	Miro    miro.Config   `yaml:"miro"`
	Probe   ProbeConfig   `yaml:"probe"`
	Auth    AuthConfig    `yaml:"auth"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST"  yaml:"host"`
	Port            int           `env:"SERVER_PORT"  yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" yaml:"cors_origins"`
}

// StoreConfig selects and configures the persistence backend. The backend is
// chosen once at process start; every backend satisfies the same contract.
type StoreConfig struct {
	Backend  string               `env:"STORE_BACKEND" yaml:"backend"`
	Redis    store.RedisConfig    `yaml:"redis"`
	Postgres store.PostgresConfig `yaml:"postgres"`
}

// ProbeConfig tunes the link-probe classifier and its rate limit.
type ProbeConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	Delay         time.Duration `yaml:"delay"`
	RatePerMinute int           `env:"PROBE_RATE_LIMIT" yaml:"rate_per_minute"`
	MaxURLs       int           `yaml:"max_urls"`
}

// AuthConfig holds identity-cookie settings.
type AuthConfig struct {
	CookieSecret  string `env:"AUTH_COOKIE_SECRET"  yaml:"cookie_secret"`
	SecureCookies bool   `env:"AUTH_SECURE_COOKIES" yaml:"secure_cookies"`
}

// Load reads, defaults and validates the configuration.
func Load(path string) (*Config, error) {
	cfg, err := loadWithDefaults(path, setDefaults)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for impossible values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("server.port must be positive")
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Store.Redis.Address == "" {
			return errors.New("store.redis.address is required for the redis backend")
		}
	case BackendPostgres:
		if c.Store.Postgres.Host == "" {
			return errors.New("store.postgres.host is required for the postgres backend")
		}
		if c.Store.Postgres.User == "" {
			return errors.New("store.postgres.user is required for the postgres backend")
		}
		if c.Store.Postgres.DBName == "" {
			return errors.New("store.postgres.dbname is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Probe.RatePerMinute <= 0 {
		return errors.New("probe.rate_per_minute must be positive")
	}
	if c.Probe.MaxURLs <= 0 {
		return errors.New("probe.max_urls must be positive")
	}
	if c.Auth.CookieSecret == "" {
		return errors.New("auth.cookie_secret is required")
	}

	return nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultServerTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultServerTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendMemory
	}
	if cfg.Store.Redis.Address == "" {
		cfg.Store.Redis.Address = defaultRedisAddress
	}
	if cfg.Store.Postgres.Port == 0 {
		cfg.Store.Postgres.Port = defaultDatabasePort
	}
	if cfg.Store.Postgres.SSLMode == "" {
		cfg.Store.Postgres.SSLMode = "disable"
	}
	if cfg.Store.Postgres.MaxOpenConns == 0 {
		cfg.Store.Postgres.MaxOpenConns = defaultMaxOpenConns
	}
	if cfg.Store.Postgres.MaxIdleConns == 0 {
		cfg.Store.Postgres.MaxIdleConns = defaultMaxIdleConns
	}
	if cfg.Store.Postgres.ConnMaxLifetime == 0 {
		cfg.Store.Postgres.ConnMaxLifetime = defaultConnMaxLifetime
	}

	if cfg.Probe.Timeout == 0 {
		cfg.Probe.Timeout = defaultProbeTimeout
	}
	if cfg.Probe.Delay == 0 {
		cfg.Probe.Delay = defaultProbeDelay
	}
	if cfg.Probe.RatePerMinute == 0 {
		cfg.Probe.RatePerMinute = defaultProbeRatePerMinute
	}
	if cfg.Probe.MaxURLs == 0 {
		cfg.Probe.MaxURLs = defaultProbeMaxURLs
	}

	if cfg.Auth.CookieSecret == "" {
		cfg.Auth.CookieSecret = "dev-only-cookie-secret"
	}
}
