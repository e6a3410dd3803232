// Package bootstrap handles application initialization and lifecycle
// management for the boardwatch service.
package bootstrap

import (
	"fmt"

	"github.com/jonesrussell/boardwatch/internal/logger"
)

const version = "dev"

// Start initializes and runs the boardwatch application.
func Start() error {
	// Phase 1: Load config and create logger
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: Setup store
	st, err := SetupStore(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to setup store: %w", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			log.Error("Failed to close store", logger.Error(closeErr))
		}
	}()

	// Phase 3: Setup and run HTTP server
	server := SetupHTTPServer(cfg, st, log)

	if runErr := server.Run(); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}
