// Package handlers implements the HTTP API on top of the domain packages.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/boardwatch/internal/auth"
	"github.com/jonesrussell/boardwatch/internal/logger"
	"github.com/jonesrussell/boardwatch/internal/metrics"
	"github.com/jonesrussell/boardwatch/internal/miro"
	"github.com/jonesrussell/boardwatch/internal/models"
	"github.com/jonesrussell/boardwatch/internal/normalizer"
	"github.com/jonesrussell/boardwatch/internal/repository"
	"github.com/jonesrussell/boardwatch/internal/sample"
	"github.com/jonesrussell/boardwatch/internal/scanner"
)

// Board sources reported to the caller.
const (
	SourceMiro   = "miro"
	SourceSample = "sample"
)

const sampleWarning = "No provider connection; scanned the built-in sample boards."

// ScanHandler runs scans and serves scan history.
type ScanHandler struct {
	repo     *repository.Repository
	identity *auth.Identity
	boards   *miro.Client
	miroCfg  miro.Config
	norm     *normalizer.Normalizer
	metrics  *metrics.Metrics
	logger   logger.Logger
}

// NewScanHandler wires the scan endpoints.
func NewScanHandler(
	repo *repository.Repository,
	identity *auth.Identity,
	boards *miro.Client,
	miroCfg miro.Config,
	norm *normalizer.Normalizer,
	m *metrics.Metrics,
	log logger.Logger,
) *ScanHandler {
	return &ScanHandler{
		repo:     repo,
		identity: identity,
		boards:   boards,
		miroCfg:  miroCfg,
		norm:     norm,
		metrics:  m,
		logger:   log,
	}
}

type scanRequest struct {
	// Settings optionally overrides the stored settings for this and future
	// scans. Absent fields keep their current values.
	Settings *models.SettingsConfig `json:"settings"`
}

// Create runs a scan for the calling user.
func (h *ScanHandler) Create(c *gin.Context) {
	user, err := h.identity.Resolve(c)
	if err != nil {
		h.logger.Error("Failed to resolve identity", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve identity"})
		return
	}
	h.identity.Apply(c, user)

	var req scanRequest
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			h.logger.Debug("Invalid request body", logger.String("error", bindErr.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": bindErr.Error()})
			return
		}
	}

	settings, err := h.resolveSettings(c.Request.Context(), user.UserID, req.Settings)
	if err != nil {
		var invalid *invalidSettingsError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid settings", "details": invalid.Error()})
			return
		}
		h.logger.Error("Failed to resolve settings", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve settings"})
		return
	}

	records, source, warning := h.fetchBoards(c.Request.Context(), user)

	// Sample boards have no live counterpart at the provider, so verifying
	// their URLs would only fetch 404s that erase the document signals.
	states := make([]models.BoardState, 0, len(records))
	for _, record := range records {
		if source == SourceMiro {
			states = append(states, h.norm.Normalize(c.Request.Context(), record.Raw, record.Members, record.Items))
		} else {
			states = append(states, h.norm.NormalizeOffline(record.Raw, record.Members, record.Items))
		}
	}

	record := scanner.Run(user.UserID, states, settings)

	if err := h.repo.PutScan(c.Request.Context(), user.UserID, record); err != nil {
		h.logger.Error("Failed to store scan",
			logger.String("scan_id", record.Summary.ID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store scan"})
		return
	}

	h.observe(record)

	h.logger.Info("Scan completed",
		logger.String("scan_id", record.Summary.ID),
		logger.String("user_id", user.UserID),
		logger.String("source", source),
		logger.Int("boards", record.Summary.TotalBoards),
		logger.Int("overall_score", record.Summary.OverallScore),
	)

	response := gin.H{
		"source":   source,
		"summary":  record.Summary,
		"boards":   record.Boards,
		"settings": settings,
	}
	if warning != "" {
		response["warning"] = warning
	}
	c.JSON(http.StatusCreated, response)
}

// List returns the calling user's scan summaries, newest first.
func (h *ScanHandler) List(c *gin.Context) {
	user, err := h.identity.Resolve(c)
	if err != nil {
		h.logger.Error("Failed to resolve identity", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve identity"})
		return
	}
	h.identity.Apply(c, user)

	summaries, err := h.repo.ListScanSummaries(c.Request.Context(), user.UserID)
	if err != nil {
		h.logger.Error("Failed to list scans",
			logger.String("user_id", user.UserID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list scans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scans": summaries,
		"count": len(summaries),
	})
}

// GetByID returns one full scan record.
func (h *ScanHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	record, err := h.repo.GetScan(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scan not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to load scan",
			logger.String("scan_id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load scan"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// resolveSettings loads the user's settings, applying and persisting an
// override first when one was submitted.
func (h *ScanHandler) resolveSettings(ctx context.Context, userID string, override *models.SettingsConfig) (models.SettingsConfig, error) {
	if override != nil {
		if err := override.Validate(); err != nil {
			return models.SettingsConfig{}, &invalidSettingsError{err: err}
		}
		if err := h.repo.PutSettings(ctx, userID, *override); err != nil {
			return models.SettingsConfig{}, err
		}
	}
	return h.repo.GetSettings(ctx, userID)
}

// fetchBoards prefers the live provider; without a usable session or
// credentials, or when the provider fails, it falls back to the sample fleet.
func (h *ScanHandler) fetchBoards(ctx context.Context, user auth.CurrentUser) ([]miro.BoardRecord, string, string) {
	if user.AccessToken == "" || !h.miroCfg.Configured() {
		return sample.Boards(), SourceSample, sampleWarning
	}

	records, err := h.boards.FetchBoards(ctx, user.AccessToken)
	if err != nil {
		h.logger.Warn("Provider board listing failed, using sample boards",
			logger.String("user_id", user.UserID),
			logger.Error(err),
		)
		return sample.Boards(), SourceSample, "Provider board listing failed; scanned the built-in sample boards."
	}

	return records, SourceMiro, ""
}

func (h *ScanHandler) observe(record models.ScanRecord) {
	if h.metrics == nil {
		return
	}
	h.metrics.ScansTotal.Inc()
	h.metrics.BoardsScannedTotal.Add(float64(record.Summary.TotalBoards))
	for _, board := range record.Boards {
		for _, finding := range board.Findings {
			h.metrics.FindingsTotal.WithLabelValues(string(finding.Check)).Inc()
		}
	}
}

// invalidSettingsError marks a settings payload rejected by validation.
type invalidSettingsError struct {
	err error
}

func (e *invalidSettingsError) Error() string { return e.err.Error() }

func (e *invalidSettingsError) Unwrap() error { return e.err }
