// Package auth resolves the calling user's identity from cookies.
//
// A provider session cookie wins when it maps to a stored session; otherwise a
// signed anonymous-identity cookie is used, minted on first contact. Anonymous
// identities keep per-user settings and scan history stable across visits
// without any account system.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jonesrussell/boardwatch/internal/models"
	"github.com/jonesrussell/boardwatch/internal/repository"
)

// Cookie names.
const (
	SessionCookie = "board_session_id"
	AnonCookie    = "anon_identity"
)

const (
	anonTokenTTL = 30 * 24 * time.Hour

	cookieMaxAge = int(anonTokenTTL / time.Second)
)

// Claims is the anonymous-identity token payload.
type Claims struct {
	Sub string `json:"sub"`
	jwt.RegisteredClaims
}

// CurrentUser is the resolved identity for one request.
type CurrentUser struct {
	UserID      string
	AccessToken string
	// anonTokenToSet is non-empty when a fresh anonymous cookie must be
	// attached to the response.
	anonTokenToSet string
}

// Identity resolves and mints request identities.
type Identity struct {
	repo   *repository.Repository
	secret []byte
	secure bool
}

// NewIdentity creates an Identity signing anonymous cookies with the secret.
func NewIdentity(repo *repository.Repository, secret string, secureCookies bool) *Identity {
	return &Identity{repo: repo, secret: []byte(secret), secure: secureCookies}
}

// Resolve determines the calling user. A valid provider session carries its
// access token; a valid anonymous cookie reuses its subject; otherwise a new
// anonymous identity is minted.
func (i *Identity) Resolve(c *gin.Context) (CurrentUser, error) {
	if sessionID, err := c.Cookie(SessionCookie); err == nil && sessionID != "" {
		session, sessionErr := i.repo.GetSession(c.Request.Context(), sessionID)
		if sessionErr == nil {
			return CurrentUser{UserID: session.UserID, AccessToken: session.AccessToken}, nil
		}
		if !errors.Is(sessionErr, repository.ErrNotFound) {
			return CurrentUser{}, fmt.Errorf("resolve session: %w", sessionErr)
		}
	}

	if token, err := c.Cookie(AnonCookie); err == nil && token != "" {
		if userID, parseErr := i.parseAnonToken(token); parseErr == nil {
			return CurrentUser{UserID: userID}, nil
		}
		// An invalid or expired token just falls through to a fresh identity.
	}

	userID := models.NewID("anon")
	token, err := i.mintAnonToken(userID)
	if err != nil {
		return CurrentUser{}, fmt.Errorf("mint anonymous identity: %w", err)
	}

	return CurrentUser{UserID: userID, anonTokenToSet: token}, nil
}

// Apply attaches a freshly minted anonymous cookie to the response when one
// was created during Resolve.
func (i *Identity) Apply(c *gin.Context, user CurrentUser) {
	if user.anonTokenToSet == "" {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AnonCookie, user.anonTokenToSet, cookieMaxAge, "/", "", i.secure, true)
}

// SetSessionCookie attaches the provider session cookie after OAuth completes.
func (i *Identity) SetSessionCookie(c *gin.Context, sessionID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, sessionID, cookieMaxAge, "/", "", i.secure, true)
}

func (i *Identity) mintAnonToken(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		Sub: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(anonTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (i *Identity) parseAnonToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return i.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Sub == "" {
		return "", errors.New("invalid token claims")
	}
	return claims.Sub, nil
}
