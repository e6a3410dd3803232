// Package models defines the shared data model for board scans and link probes.
package models

// Severity buckets a numeric risk score.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// CheckType identifies one of the fixed risk checks.
type CheckType string

const (
	CheckPublicLink       CheckType = "public_link"
	CheckPublicEditAccess CheckType = "public_edit_access"
	CheckStale            CheckType = "stale"
	CheckEditors          CheckType = "editors"
	CheckSensitiveText    CheckType = "sensitive_text"
)

// AllChecks lists every known check in a stable order.
var AllChecks = []CheckType{
	CheckPublicLink,
	CheckPublicEditAccess,
	CheckStale,
	CheckEditors,
	CheckSensitiveText,
}

// ProbeStatus is the accessibility verdict for one probed board URL.
type ProbeStatus string

const (
	ProbeViewable    ProbeStatus = "viewable"
	ProbeProtected   ProbeStatus = "protected"
	ProbeUnreachable ProbeStatus = "unreachable"
)

// BoardState is the canonical, normalized view of one board's exposure-relevant
// attributes. Access flags are tri-state: nil means the signal could not be
// determined and must not be treated as safe or unsafe.
type BoardState struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Owner and Team are denormalized display fields; empty when unknown.
	Owner string `json:"owner,omitempty"`
	Team  string `json:"team,omitempty"`
	// ModifiedAt is an ISO 8601 timestamp; empty when unknown.
	ModifiedAt string `json:"modifiedAt,omitempty"`
	// EditorCount is nil when no member list was retrievable. A known zero is
	// distinct from unavailable data.
	EditorCount *int `json:"editorCount,omitempty"`
	// PublicAccess is nil when no sharing signal was found.
	PublicAccess *bool `json:"publicAccess,omitempty"`
	// PublicEditAccess is only meaningful when PublicAccess is true.
	PublicEditAccess *bool `json:"publicEditAccess,omitempty"`
	// ContentText is the lowercased, HTML-stripped, whitespace-collapsed text
	// blob extracted from the board's name, description and item content.
	ContentText string `json:"contentText,omitempty"`
}

// Finding is one fired risk check against one board in one scan.
type Finding struct {
	ID        string         `json:"id"`
	ScanID    string         `json:"scanId"`
	BoardID   string         `json:"boardId"`
	BoardName string         `json:"boardName"`
	Check     CheckType      `json:"check"`
	Score     int            `json:"score"`
	Severity  Severity       `json:"severity"`
	Details   map[string]any `json:"details"`
}

// ScannedBoard aggregates a board's findings with its clamped risk score.
type ScannedBoard struct {
	BoardID      string    `json:"boardId"`
	BoardName    string    `json:"boardName"`
	Owner        string    `json:"owner"`
	Team         string    `json:"team"`
	LastModified string    `json:"lastModified"`
	RiskScore    int       `json:"riskScore"`
	Severity     Severity  `json:"severity"`
	Findings     []Finding `json:"findings"`
}

// ScanSummary holds per-run aggregate counts.
type ScanSummary struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	CreatedAt   string `json:"createdAt"`
	TotalBoards int    `json:"totalBoards"`
	// OverallScore is the rounded mean of the member boards' risk scores, so its
	// severity bucket is derivable from the same thresholds used per board.
	OverallScore int `json:"overallScore"`
	HighRisk     int `json:"highRisk"`
	MediumRisk   int `json:"mediumRisk"`
	LowRisk      int `json:"lowRisk"`
}

// ScanRecord is one stored scan run.
type ScanRecord struct {
	Summary ScanSummary    `json:"summary"`
	Boards  []ScannedBoard `json:"boards"`
}

// ProbeResult is the verdict for one probed URL.
type ProbeResult struct {
	ID        string      `json:"id"`
	SessionID string      `json:"sessionId"`
	BoardURL  string      `json:"boardUrl"`
	BoardID   string      `json:"boardId"`
	Status    ProbeStatus `json:"status"`
	HTTPCode  int         `json:"httpCode"`
	CheckedAt string      `json:"checkedAt"`
}

// ProbeSession groups the ordered results of one probe submission.
type ProbeSession struct {
	ID        string        `json:"id"`
	CreatedAt string        `json:"createdAt"`
	Results   []ProbeResult `json:"results"`
}

// RiskCheckSetting configures one risk check.
type RiskCheckSetting struct {
	Enabled bool `json:"enabled"`
	Weight  int  `json:"weight" binding:"min=0,max=100"`
}

// SettingsConfig holds the per-user scan thresholds and check weights.
// A scan takes a snapshot of the settings current at invocation time.
type SettingsConfig struct {
	StaleDaysThreshold  int                            `json:"staleDaysThreshold"`
	MaxEditorsThreshold int                            `json:"maxEditorsThreshold"`
	SensitiveKeywords   []string                       `json:"sensitiveKeywords"`
	RiskChecks          map[CheckType]RiskCheckSetting `json:"riskChecks"`
}

// Check returns the setting for the given check, falling back to the default
// weight with the check enabled when the map has no entry.
func (c SettingsConfig) Check(check CheckType) RiskCheckSetting {
	if s, ok := c.RiskChecks[check]; ok {
		return s
	}
	return RiskCheckSetting{Enabled: true, Weight: DefaultCheckWeights[check]}
}

// BoardSession associates a browser session with a provider access token.
type BoardSession struct {
	ID           string `json:"id"`
	UserID       string `json:"userId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresAt    int64  `json:"expiresAt,omitempty"`
	CreatedAt    int64  `json:"createdAt"`
}

// OAuthState is a single-use CSRF token for the OAuth redirect flow.
type OAuthState struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"createdAt"`
}
