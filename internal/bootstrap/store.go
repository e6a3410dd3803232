package bootstrap

import (
	"fmt"

	"github.com/jonesrussell/boardwatch/internal/config"
	"github.com/jonesrussell/boardwatch/internal/logger"
	"github.com/jonesrussell/boardwatch/internal/store"
)

// SetupStore creates the persistence backend selected in configuration.
func SetupStore(cfg *config.Config, log logger.Logger) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		log.Info("Using in-memory store; records do not survive restarts")
		return store.NewMemoryStore(), nil

	case config.BackendRedis:
		st, err := store.NewRedisStore(cfg.Store.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		log.Info("Connected to Redis store",
			logger.String("address", cfg.Store.Redis.Address),
		)
		return st, nil

	case config.BackendPostgres:
		st, err := store.NewPostgresStore(cfg.Store.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		log.Info("Connected to Postgres store",
			logger.String("host", cfg.Store.Postgres.Host),
			logger.String("database", cfg.Store.Postgres.DBName),
		)
		return st, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
