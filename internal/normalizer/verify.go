package normalizer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jonesrussell/boardwatch/internal/httpx"
)

const (
	verifyTimeout   = 8 * time.Second
	verifyUserAgent = "MiroSecurityPostureAnalyzer/1.0"

	defaultBoardBaseURL = "https://miro.com/app/board"
)

// Verifier checks a board's public URL without credentials to establish ground
// truth for its access flags. It never follows redirects and never mutates the
// board in any way.
type Verifier struct {
	client  *http.Client
	baseURL string
}

// NewVerifier creates a Verifier against the production board URL space.
func NewVerifier() *Verifier {
	return NewVerifierWithBaseURL(defaultBoardBaseURL)
}

// NewVerifierWithBaseURL creates a Verifier against a custom base URL.
// Used by tests to point at a local server.
func NewVerifierWithBaseURL(baseURL string) *Verifier {
	return &Verifier{
		client: httpx.NewClient(&httpx.ClientConfig{
			Timeout:           verifyTimeout,
			NoFollowRedirects: true,
		}),
		baseURL: baseURL,
	}
}

// Verify issues one unauthenticated GET of the board's public URL. A clear
// signal produces a definite verdict: 200 means publicly viewable, 401/403/404
// mean not publicly viewable. Anything else — redirects included — is
// ambiguous and yields nil so the document-derived signal stands.
func (v *Verifier) Verify(ctx context.Context, boardID string) (*bool, error) {
	if boardID == "" || boardID == "unknown" {
		return nil, nil
	}

	boardURL := fmt.Sprintf("%s/%s/", v.baseURL, url.PathEscape(boardID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, boardURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build verification request: %w", err)
	}
	req.Header.Set("User-Agent", verifyUserAgent)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verification request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		verdict := true
		return &verdict, nil
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		verdict := false
		return &verdict, nil
	default:
		return nil, nil
	}
}
