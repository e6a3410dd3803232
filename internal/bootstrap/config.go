package bootstrap

import (
	"flag"
	"fmt"

	"github.com/jonesrussell/boardwatch/internal/config"
	"github.com/jonesrussell/boardwatch/internal/logger"
)

// LoadConfig loads configuration. Uses the -config flag with CONFIG_PATH default.
func LoadConfig() (*config.Config, error) {
	configPath := flag.String("config", config.GetConfigPath("config.yml"), "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config) (logger.Logger, error) {
	logCfg := cfg.Logging
	if logCfg.Level == "" {
		logCfg.Level = "info"
	}
	logCfg.Development = logCfg.Development || cfg.Debug

	log, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(
		logger.String("service", "boardwatch"),
		logger.String("version", version),
	), nil
}
