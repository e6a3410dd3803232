package miro

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// AuthURL builds the provider's OAuth authorization URL for the given state.
func (c *Client) AuthURL(state string) string {
	query := url.Values{}
	query.Set("response_type", "code")
	query.Set("client_id", c.cfg.ClientID)
	query.Set("redirect_uri", c.cfg.RedirectURI)
	query.Set("scope", oauthScope)
	query.Set("state", state)

	return c.authBaseURL + "/oauth/authorize?" + query.Encode()
}

// ExchangeCode trades an authorization code for tokens.
func (c *Client) ExchangeCode(ctx context.Context, code string) (TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("redirect_uri", c.cfg.RedirectURI)

	tokenURL := c.apiBaseURL + "/v1/oauth/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return TokenResponse{}, fmt.Errorf("token exchange failed (%d): %s", resp.StatusCode, string(body))
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return TokenResponse{}, fmt.Errorf("decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return TokenResponse{}, fmt.Errorf("token exchange returned no access token")
	}
	return token, nil
}

// CurrentUser resolves the token's owner from the token-context endpoint.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (User, error) {
	var payload struct {
		User struct {
			ID    any    `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}

	contextURL := c.apiBaseURL + "/v1/oauth-token"
	if err := c.getJSON(ctx, contextURL, accessToken, &payload); err != nil {
		return User{}, fmt.Errorf("token context: %w", err)
	}

	// The id comes back as a string on some plans and a number on others.
	var userID string
	switch id := payload.User.ID.(type) {
	case string:
		userID = id
	case float64:
		userID = strconv.FormatFloat(id, 'f', -1, 64)
	}
	if userID == "" {
		return User{}, fmt.Errorf("token context: missing user id")
	}

	return User{
		ID:    userID,
		Name:  payload.User.Name,
		Email: payload.User.Email,
	}, nil
}
