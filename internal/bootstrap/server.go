package bootstrap

import (
	"github.com/jonesrussell/boardwatch/internal/api"
	"github.com/jonesrussell/boardwatch/internal/auth"
	"github.com/jonesrussell/boardwatch/internal/config"
	"github.com/jonesrussell/boardwatch/internal/logger"
	"github.com/jonesrussell/boardwatch/internal/metrics"
	"github.com/jonesrussell/boardwatch/internal/miro"
	"github.com/jonesrussell/boardwatch/internal/normalizer"
	"github.com/jonesrussell/boardwatch/internal/probe"
	"github.com/jonesrussell/boardwatch/internal/repository"
	"github.com/jonesrussell/boardwatch/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// SetupHTTPServer wires the domain services into the HTTP server.
func SetupHTTPServer(cfg *config.Config, st store.Store, log logger.Logger) *api.Server {
	repo := repository.New(st, log)
	limiter := repository.NewRateLimiter(st, cfg.Probe.RatePerMinute, repository.ProbeRateWindow)
	identity := auth.NewIdentity(repo, cfg.Auth.CookieSecret, cfg.Auth.SecureCookies)

	miroClient := miro.NewClient(log, cfg.Miro)
	if !cfg.Miro.Configured() {
		log.Warn("Provider credentials not configured; scans will use sample boards")
	}

	norm := normalizer.New(log, normalizer.NewVerifier())
	prober := probe.New(log, probe.Config{
		Timeout: cfg.Probe.Timeout,
		Delay:   cfg.Probe.Delay,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	router := api.NewRouter(api.Deps{
		Config:     cfg,
		Version:    version,
		Store:      st,
		Repository: repo,
		Limiter:    limiter,
		Identity:   identity,
		Miro:       miroClient,
		Normalizer: norm,
		Prober:     prober,
		Metrics:    m,
		Registry:   registry,
		Logger:     log,
	})

	return api.NewServer(router, cfg.Server, log)
}
