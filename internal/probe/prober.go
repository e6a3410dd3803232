// Package probe implements the best-effort black-box reachability classifier
// for board URLs.
//
// Each candidate URL gets at most one page request plus, on a 200, one
// corroborating API request. The prober never authenticates, never follows
// redirects, and never attempts any write. URLs in a submission are processed
// strictly sequentially with a fixed inter-request delay so the target is
// crawled politely; the ordering of results always matches the input.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/jonesrussell/boardwatch/internal/httpx"
	"github.com/jonesrussell/boardwatch/internal/logger"
	"github.com/jonesrussell/boardwatch/internal/models"
)

const (
	// DefaultTimeout bounds each network call independently.
	DefaultTimeout = 8 * time.Second
	// DefaultDelay is the pause between consecutive URLs in one submission.
	DefaultDelay = 200 * time.Millisecond
	// DefaultUserAgent identifies the prober to the target.
	DefaultUserAgent = "MiroSecurityPostureAnalyzer/1.0"

	defaultAPIBaseURL = "https://miro.com/api/v1/boards"

	// maxBodyBytes caps how much page content is read for signature matching.
	maxBodyBytes = 256 << 10
)

// Config tunes a Prober. Zero values fall back to production defaults; tests
// override the pattern, API base and delay to run against local servers.
type Config struct {
	Timeout    time.Duration
	Delay      time.Duration
	UserAgent  string
	APIBaseURL string
	// URLPattern must capture the board identifier in group 1.
	URLPattern *regexp.Regexp
}

// Prober classifies board URLs into viewable, protected or unreachable.
type Prober struct {
	client     *http.Client
	log        logger.Logger
	delay      time.Duration
	userAgent  string
	apiBaseURL string
	pattern    *regexp.Regexp
}

// New creates a Prober with the given configuration.
func New(log logger.Logger, cfg Config) *Prober {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Delay == 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.URLPattern == nil {
		cfg.URLPattern = boardURLPattern
	}

	return &Prober{
		client: httpx.NewClient(&httpx.ClientConfig{
			Timeout:           cfg.Timeout,
			NoFollowRedirects: true,
		}),
		log:        log,
		delay:      cfg.Delay,
		userAgent:  cfg.UserAgent,
		apiBaseURL: cfg.APIBaseURL,
		pattern:    cfg.URLPattern,
	}
}

// Run probes every URL in order under one fresh session id. Individual
// failures degrade to unreachable results; Run itself only stops early when
// the context is cancelled, and then returns what it has so far.
func (p *Prober) Run(ctx context.Context, urls []string) models.ProbeSession {
	session := models.ProbeSession{
		ID:        models.NewID("sess"),
		CreatedAt: models.NowISO(),
		Results:   make([]models.ProbeResult, 0, len(urls)),
	}

	for i, rawURL := range urls {
		if i > 0 {
			select {
			case <-ctx.Done():
				return session
			case <-time.After(p.delay):
			}
		}

		result := p.probeOne(ctx, session.ID, rawURL)
		session.Results = append(session.Results, result)

		p.log.Debug("Probed URL",
			logger.String("session_id", session.ID),
			logger.String("board_id", result.BoardID),
			logger.String("status", string(result.Status)),
			logger.Int("http_code", result.HTTPCode),
		)
	}

	return session
}

// probeOne runs the per-URL state machine: parse, fetch, classify, with an
// optional API cross-check on an initial 200.
func (p *Prober) probeOne(ctx context.Context, sessionID, rawURL string) models.ProbeResult {
	result := models.ProbeResult{
		ID:        models.NewID("probe"),
		SessionID: sessionID,
		BoardURL:  rawURL,
		BoardID:   "invalid",
		Status:    models.ProbeUnreachable,
		CheckedAt: models.NowISO(),
	}

	boardID, ok := p.parseBoardID(rawURL)
	if !ok {
		// Not a board link; no network call is made.
		result.HTTPCode = http.StatusNotFound
		return result
	}
	result.BoardID = boardID

	statusCode, body, err := p.fetch(ctx, rawURL)
	if err != nil {
		// Timeouts and transport failures degrade to unreachable, code 0.
		result.HTTPCode = 0
		return result
	}

	effectiveCode := statusCode
	if statusCode == http.StatusOK {
		if apiCode, apiErr := p.fetchAPIStatus(ctx, boardID); apiErr == nil {
			switch apiCode {
			case http.StatusOK, http.StatusUnauthorized, http.StatusForbidden:
				// The API endpoint is more authoritative than the page shell.
				effectiveCode = apiCode
			}
		}
	}

	result.HTTPCode = effectiveCode
	result.Status = Classify(effectiveCode)

	if result.Status == models.ProbeViewable && HasWallSignature(body) {
		result.Status = models.ProbeProtected
	}

	return result
}

func (p *Prober) parseBoardID(rawURL string) (string, bool) {
	match := p.pattern.FindStringSubmatch(rawURL)
	if match == nil || len(match) < 2 {
		return "", false
	}
	return match[1], true
}

// fetch issues the single page request and returns the status plus a bounded
// read of the body for signature matching.
func (p *Prober) fetch(ctx context.Context, rawURL string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return 0, "", fmt.Errorf("build probe request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("probe request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		// The status line already arrived; a truncated body is still usable.
		return resp.StatusCode, "", nil
	}

	return resp.StatusCode, string(body), nil
}

// fetchAPIStatus cross-checks a 200 against the lower-level board API.
func (p *Prober) fetchAPIStatus(ctx context.Context, boardID string) (int, error) {
	apiURL := fmt.Sprintf("%s/%s", p.apiBaseURL, url.PathEscape(boardID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("build api request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("api request: %w", err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	return resp.StatusCode, nil
}
