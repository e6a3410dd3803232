package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/boardwatch/internal/auth"
	"github.com/jonesrussell/boardwatch/internal/logger"
	"github.com/jonesrussell/boardwatch/internal/miro"
	"github.com/jonesrussell/boardwatch/internal/models"
	"github.com/jonesrussell/boardwatch/internal/repository"
)

// oauthStateTTL bounds how long an authorization redirect may stay pending.
const oauthStateTTL = 10 * time.Minute

// AuthHandler implements the provider OAuth flow.
type AuthHandler struct {
	repo     *repository.Repository
	identity *auth.Identity
	client   *miro.Client
	cfg      miro.Config
	logger   logger.Logger
}

// NewAuthHandler wires the OAuth endpoints.
func NewAuthHandler(
	repo *repository.Repository,
	identity *auth.Identity,
	client *miro.Client,
	cfg miro.Config,
	log logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		repo:     repo,
		identity: identity,
		client:   client,
		cfg:      cfg,
		logger:   log,
	}
}

// Login records a fresh state token and redirects to the provider.
func (h *AuthHandler) Login(c *gin.Context) {
	if !h.cfg.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Provider OAuth is not configured"})
		return
	}

	state := models.NewID("state")
	if err := h.repo.PutOAuthState(c.Request.Context(), state); err != nil {
		h.logger.Error("Failed to store OAuth state", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start OAuth flow"})
		return
	}

	c.Redirect(http.StatusFound, h.client.AuthURL(state))
}

// Callback completes the OAuth flow: verify state, exchange the code, resolve
// the token owner and install the provider session cookie.
func (h *AuthHandler) Callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		h.logger.Warn("OAuth denied by provider", logger.String("reason", errParam))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization was denied", "reason": errParam})
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing code or state"})
		return
	}

	valid, err := h.repo.ConsumeOAuthState(c.Request.Context(), state, oauthStateTTL)
	if err != nil {
		h.logger.Error("Failed to consume OAuth state", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete OAuth flow"})
		return
	}
	if !valid {
		h.logger.Warn("Rejected unknown or expired OAuth state")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired state"})
		return
	}

	token, err := h.client.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		h.logger.Error("OAuth code exchange failed", logger.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Code exchange failed"})
		return
	}

	user, err := h.client.CurrentUser(c.Request.Context(), token.AccessToken)
	if err != nil {
		h.logger.Error("Failed to resolve token owner", logger.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to resolve token owner"})
		return
	}

	now := time.Now()
	session := models.BoardSession{
		ID:           models.NewID("bsess"),
		UserID:       user.ID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		CreatedAt:    now.UnixMilli(),
	}
	if token.ExpiresIn > 0 {
		session.ExpiresAt = now.Add(time.Duration(token.ExpiresIn) * time.Second).UnixMilli()
	}

	if err := h.repo.PutSession(c.Request.Context(), session); err != nil {
		h.logger.Error("Failed to store provider session", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store session"})
		return
	}

	h.identity.SetSessionCookie(c, session.ID)

	h.logger.Info("Provider session established",
		logger.String("user_id", user.ID),
	)

	c.Redirect(http.StatusFound, "/")
}
