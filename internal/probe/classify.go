package probe

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/jonesrussell/boardwatch/internal/models"
)

// boardURLPattern extracts a Miro-style board identifier from a candidate URL.
var boardURLPattern = regexp.MustCompile(`miro\.com/app/board/([a-zA-Z0-9_=-]+)`)

// wallSignatures are page-content fragments indicating a password wall or an
// anonymous-entry gate behind an otherwise successful response.
var wallSignatures = []string{
	"password-protected",
	"password_protected",
	"enter the password",
	"board password",
	"anonymous_login",
}

// ParseBoardID extracts the board identifier from a URL. The second return is
// false when the URL does not look like a board link at all.
func ParseBoardID(rawURL string) (string, bool) {
	match := boardURLPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// Classify maps an HTTP status code to an accessibility verdict.
//
// Every 3xx is conservatively treated as protected: boards that redirect for
// unrelated reasons (canonical URLs, regional hosts) are misclassified by this
// heuristic, which is a documented limitation rather than a bug to fix here.
func Classify(httpCode int) models.ProbeStatus {
	switch {
	case httpCode == http.StatusOK:
		return models.ProbeViewable
	case httpCode == http.StatusUnauthorized || httpCode == http.StatusForbidden:
		return models.ProbeProtected
	case httpCode >= 300 && httpCode < 400:
		return models.ProbeProtected
	default:
		// 404 and anything unrecognized.
		return models.ProbeUnreachable
	}
}

// HasWallSignature reports whether page content matches a known password-wall
// or anonymous-entry signature. A 200 carrying one of these is not actually
// viewable content.
func HasWallSignature(body string) bool {
	lower := strings.ToLower(body)
	for _, signature := range wallSignatures {
		if strings.Contains(lower, signature) {
			return true
		}
	}
	return false
}
