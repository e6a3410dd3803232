package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/boardwatch/internal/auth"
	"github.com/jonesrussell/boardwatch/internal/logger"
	"github.com/jonesrussell/boardwatch/internal/models"
	"github.com/jonesrussell/boardwatch/internal/repository"
)

// SettingsHandler serves the per-user scan settings.
type SettingsHandler struct {
	repo     *repository.Repository
	identity *auth.Identity
	logger   logger.Logger
}

// NewSettingsHandler wires the settings endpoints.
func NewSettingsHandler(repo *repository.Repository, identity *auth.Identity, log logger.Logger) *SettingsHandler {
	return &SettingsHandler{repo: repo, identity: identity, logger: log}
}

// Get returns the calling user's fully resolved settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	user, err := h.identity.Resolve(c)
	if err != nil {
		h.logger.Error("Failed to resolve identity", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve identity"})
		return
	}
	h.identity.Apply(c, user)

	settings, err := h.repo.GetSettings(c.Request.Context(), user.UserID)
	if err != nil {
		h.logger.Error("Failed to load settings",
			logger.String("user_id", user.UserID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// Update validates and stores the calling user's settings, last write wins.
func (h *SettingsHandler) Update(c *gin.Context) {
	user, err := h.identity.Resolve(c)
	if err != nil {
		h.logger.Error("Failed to resolve identity", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve identity"})
		return
	}
	h.identity.Apply(c, user)

	var settings models.SettingsConfig
	if err := c.ShouldBindJSON(&settings); err != nil {
		h.logger.Debug("Invalid request body", logger.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := settings.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid settings", "details": err.Error()})
		return
	}

	if err := h.repo.PutSettings(c.Request.Context(), user.UserID, settings); err != nil {
		h.logger.Error("Failed to store settings",
			logger.String("user_id", user.UserID),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store settings"})
		return
	}

	h.logger.Info("Settings updated", logger.String("user_id", user.UserID))

	c.JSON(http.StatusOK, settings.Merged())
}
