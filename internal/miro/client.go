// Package miro is the board-list provider client. It returns raw,
// loosely-typed board records; the normalizer is the only component that
// interprets their shape.
package miro

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jonesrussell/boardwatch/internal/httpx"
	"github.com/jonesrussell/boardwatch/internal/logger"
)

const (
	defaultAPIBaseURL  = "https://api.miro.com"
	defaultAuthBaseURL = "https://miro.com"

	requestTimeout = 30 * time.Second

	// pageGuard caps boards pagination so a misbehaving cursor cannot loop forever.
	pageGuard = 10

	defaultPageLimit = 50

	oauthScope = "boards:read team:read"
)

// Config holds the OAuth application credentials.
type Config struct {
	ClientID     string `env:"MIRO_CLIENT_ID"     yaml:"client_id"`
	ClientSecret string `env:"MIRO_CLIENT_SECRET" yaml:"client_secret"`
	RedirectURI  string `env:"MIRO_REDIRECT_URI"  yaml:"redirect_uri"`
}

// Configured reports whether live board listing is possible. Without
// credentials the service degrades to the sample board set.
func (c Config) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// BoardRecord carries one raw board plus its optional enrichment records.
// Members and Items stay nil when enrichment was not retrievable, which the
// normalizer treats differently from empty.
type BoardRecord struct {
	Raw     map[string]any
	Members []map[string]any
	Items   []map[string]any
}

// TokenResponse is the OAuth token exchange result.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
}

// User identifies the token's owner.
type User struct {
	ID    string
	Name  string
	Email string
}

// Client talks to the provider API.
type Client struct {
	cfg         Config
	client      *http.Client
	apiBaseURL  string
	authBaseURL string
	log         logger.Logger
}

// NewClient creates a production Client.
func NewClient(log logger.Logger, cfg Config) *Client {
	return &Client{
		cfg:         cfg,
		client:      httpx.NewClient(&httpx.ClientConfig{Timeout: requestTimeout}),
		apiBaseURL:  defaultAPIBaseURL,
		authBaseURL: defaultAuthBaseURL,
		log:         log,
	}
}

// NewClientWithBaseURLs creates a Client against custom endpoints. Used by tests.
func NewClientWithBaseURLs(log logger.Logger, cfg Config, apiBaseURL, authBaseURL string) *Client {
	c := NewClient(log, cfg)
	c.apiBaseURL = apiBaseURL
	c.authBaseURL = authBaseURL
	return c
}

// FetchBoards lists the user's boards and enriches each with member and item
// records on a best-effort basis. Enrichment failures degrade that board to
// document-only signals; they never fail the fetch.
func (c *Client) FetchBoards(ctx context.Context, accessToken string) ([]BoardRecord, error) {
	rawBoards, err := c.listBoards(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	records := make([]BoardRecord, 0, len(rawBoards))
	for _, raw := range rawBoards {
		record := BoardRecord{Raw: raw}

		boardID, _ := raw["id"].(string)
		if boardID != "" {
			if members, memberErr := c.boardCollection(ctx, accessToken, boardID, "members"); memberErr == nil {
				record.Members = members
			} else {
				c.log.Debug("Board member enrichment unavailable",
					logger.String("board_id", boardID),
					logger.Error(memberErr),
				)
			}

			if items, itemErr := c.boardCollection(ctx, accessToken, boardID, "items"); itemErr == nil {
				record.Items = items
			} else {
				c.log.Debug("Board item enrichment unavailable",
					logger.String("board_id", boardID),
					logger.Error(itemErr),
				)
			}
		}

		records = append(records, record)
	}

	return records, nil
}

// listBoards pages through the v2 boards listing.
func (c *Client) listBoards(ctx context.Context, accessToken string) ([]map[string]any, error) {
	var boards []map[string]any
	cursor := ""

	for page := 0; page < pageGuard; page++ {
		listURL := fmt.Sprintf("%s/v2/boards?limit=%d", c.apiBaseURL, defaultPageLimit)
		if cursor != "" {
			listURL += "&cursor=" + url.QueryEscape(cursor)
		}

		var payload struct {
			Data   []map[string]any `json:"data"`
			Cursor string           `json:"cursor"`
		}
		if err := c.getJSON(ctx, listURL, accessToken, &payload); err != nil {
			return nil, fmt.Errorf("list boards: %w", err)
		}

		boards = append(boards, payload.Data...)

		cursor = payload.Cursor
		if cursor == "" {
			break
		}
	}

	return boards, nil
}

// boardCollection fetches a per-board sub-listing (members or items) as raw records.
func (c *Client) boardCollection(ctx context.Context, accessToken, boardID, collection string) ([]map[string]any, error) {
	collectionURL := fmt.Sprintf("%s/v2/boards/%s/%s?limit=%d",
		c.apiBaseURL, url.PathEscape(boardID), collection, defaultPageLimit)

	var payload struct {
		Data []map[string]any `json:"data"`
	}
	if err := c.getJSON(ctx, collectionURL, accessToken, &payload); err != nil {
		return nil, fmt.Errorf("fetch board %s: %w", collection, err)
	}
	if payload.Data == nil {
		payload.Data = []map[string]any{}
	}
	return payload.Data, nil
}

func (c *Client) getJSON(ctx context.Context, requestURL, accessToken string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
