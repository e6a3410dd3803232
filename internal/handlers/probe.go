package handlers

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/boardwatch/internal/logger"
	"github.com/jonesrussell/boardwatch/internal/metrics"
	"github.com/jonesrussell/boardwatch/internal/models"
	"github.com/jonesrussell/boardwatch/internal/probe"
	"github.com/jonesrussell/boardwatch/internal/repository"
)

// urlSplitPattern tokenizes free-text probe input on whitespace and commas.
var urlSplitPattern = regexp.MustCompile(`[\s,]+`)

// ProbeHandler runs link probes and serves probe sessions.
type ProbeHandler struct {
	repo    *repository.Repository
	limiter *repository.RateLimiter
	prober  *probe.Prober
	metrics *metrics.Metrics
	logger  logger.Logger
	maxURLs int
}

// NewProbeHandler wires the probe endpoints.
func NewProbeHandler(
	repo *repository.Repository,
	limiter *repository.RateLimiter,
	prober *probe.Prober,
	m *metrics.Metrics,
	log logger.Logger,
	maxURLs int,
) *ProbeHandler {
	return &ProbeHandler{
		repo:    repo,
		limiter: limiter,
		prober:  prober,
		metrics: m,
		logger:  log,
		maxURLs: maxURLs,
	}
}

type probeRequest struct {
	// URLs is the explicit candidate list.
	URLs []string `json:"urls"`
	// Input is free-form pasted text, split on whitespace and commas. Used
	// when URLs is empty. Text is an accepted alias.
	Input string `json:"input"`
	Text  string `json:"text"`
}

// freeText returns the free-form field, preferring the canonical name.
func (r probeRequest) freeText() string {
	if r.Input != "" {
		return r.Input
	}
	return r.Text
}

// Create probes a batch of candidate board URLs for the calling IP.
func (h *ProbeHandler) Create(c *gin.Context) {
	ip := c.ClientIP()

	if err := h.limiter.CheckProbe(c.Request.Context(), ip); err != nil {
		if errors.Is(err, repository.ErrRateLimited) {
			if h.metrics != nil {
				h.metrics.ProbeRateLimited.Inc()
			}
			h.logger.Warn("Probe submission rate limited", logger.String("client_ip", ip))
			c.Header("Retry-After", "60")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded",
				"limit": h.limiter.Limit(),
			})
			return
		}
		h.logger.Error("Probe rate check failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check rate limit"})
		return
	}

	var req probeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Invalid request body", logger.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	urls := req.URLs
	if len(urls) == 0 && req.freeText() != "" {
		urls = splitURLText(req.freeText())
	}
	if len(urls) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No URLs to probe"})
		return
	}
	if len(urls) > h.maxURLs {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Too many URLs in one submission",
			"max":   h.maxURLs,
		})
		return
	}

	session := h.prober.Run(c.Request.Context(), urls)

	if err := h.repo.PutProbeSession(c.Request.Context(), session); err != nil {
		h.logger.Error("Failed to store probe session",
			logger.String("session_id", session.ID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store probe session"})
		return
	}

	h.observe(session)

	h.logger.Info("Probe session completed",
		logger.String("session_id", session.ID),
		logger.String("client_ip", ip),
		logger.Int("urls", len(session.Results)),
	)

	c.JSON(http.StatusCreated, gin.H{
		"session": session,
		"summary": sessionSummary(session),
	})
}

// GetByID returns one stored probe session.
func (h *ProbeHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	session, err := h.repo.GetProbeSession(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Probe session not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to load probe session",
			logger.String("session_id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load probe session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": session,
		"summary": sessionSummary(session),
	})
}

func (h *ProbeHandler) observe(session models.ProbeSession) {
	if h.metrics == nil {
		return
	}
	for _, result := range session.Results {
		h.metrics.ProbesTotal.WithLabelValues(string(result.Status)).Inc()
	}
}

// splitURLText extracts candidate URLs from pasted free text.
func splitURLText(text string) []string {
	parts := urlSplitPattern.Split(text, -1)
	urls := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			urls = append(urls, part)
		}
	}
	return urls
}

func sessionSummary(session models.ProbeSession) gin.H {
	counts := map[models.ProbeStatus]int{}
	for _, result := range session.Results {
		counts[result.Status]++
	}
	return gin.H{
		"total":       len(session.Results),
		"viewable":    counts[models.ProbeViewable],
		"protected":   counts[models.ProbeProtected],
		"unreachable": counts[models.ProbeUnreachable],
	}
}
