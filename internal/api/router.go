// Package api assembles the gin router and its middleware.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/boardwatch/internal/auth"
	"github.com/jonesrussell/boardwatch/internal/config"
	"github.com/jonesrussell/boardwatch/internal/handlers"
	"github.com/jonesrussell/boardwatch/internal/logger"
	"github.com/jonesrussell/boardwatch/internal/metrics"
	"github.com/jonesrussell/boardwatch/internal/miro"
	"github.com/jonesrussell/boardwatch/internal/normalizer"
	"github.com/jonesrussell/boardwatch/internal/probe"
	"github.com/jonesrussell/boardwatch/internal/repository"
	"github.com/jonesrussell/boardwatch/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps carries everything the router needs.
type Deps struct {
	Config     *config.Config
	Version    string
	Store      store.Store
	Repository *repository.Repository
	Limiter    *repository.RateLimiter
	Identity   *auth.Identity
	Miro       *miro.Client
	Normalizer *normalizer.Normalizer
	Prober     *probe.Prober
	Metrics    *metrics.Metrics
	Registry   *prometheus.Registry
	Logger     logger.Logger
}

// NewRouter builds the HTTP API.
func NewRouter(deps Deps) *gin.Engine {
	if !deps.Config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// CORS must run before anything that can short-circuit the request.
	router.Use(corsMiddleware(deps.Config.Server.CORSOrigins))
	router.Use(ginLogger(deps.Logger))
	router.Use(gin.Recovery())

	router.GET("/health", healthHandler(deps.Store, deps.Version))

	if deps.Registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	scanHandler := handlers.NewScanHandler(
		deps.Repository, deps.Identity, deps.Miro, deps.Config.Miro,
		deps.Normalizer, deps.Metrics, deps.Logger,
	)
	probeHandler := handlers.NewProbeHandler(
		deps.Repository, deps.Limiter, deps.Prober,
		deps.Metrics, deps.Logger, deps.Config.Probe.MaxURLs,
	)
	settingsHandler := handlers.NewSettingsHandler(deps.Repository, deps.Identity, deps.Logger)
	exportHandler := handlers.NewExportHandler(deps.Repository, deps.Logger)
	authHandler := handlers.NewAuthHandler(deps.Repository, deps.Identity, deps.Miro, deps.Config.Miro, deps.Logger)

	v1 := router.Group("/api/v1")

	scans := v1.Group("/scan")
	scans.POST("", scanHandler.Create)
	scans.GET("", scanHandler.List)
	scans.GET("/:id", scanHandler.GetByID)

	probes := v1.Group("/probe")
	probes.POST("", probeHandler.Create)
	probes.GET("/:id", probeHandler.GetByID)

	settings := v1.Group("/settings")
	settings.GET("", settingsHandler.Get)
	settings.PUT("", settingsHandler.Update)

	v1.GET("/export/:id", exportHandler.Get)

	authGroup := v1.Group("/auth")
	authGroup.GET("/miro", authHandler.Login)
	authGroup.GET("/miro/callback", authHandler.Callback)

	return router
}

func healthHandler(s store.Store, version string) gin.HandlerFunc {
	started := time.Now()
	return func(c *gin.Context) {
		if err := s.Healthy(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"service": "boardwatch",
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "boardwatch",
			"version": version,
			"uptime":  time.Since(started).Round(time.Second).String(),
		})
	}
}
