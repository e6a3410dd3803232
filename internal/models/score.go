package models

import (
	"time"

	"github.com/google/uuid"
)

// Severity thresholds. A score of 50 or more is high, 20 or more is medium.
const (
	HighScoreThreshold   = 50
	MediumScoreThreshold = 20
)

// Risk score bounds.
const (
	MinRiskScore = 0
	MaxRiskScore = 100
)

// SeverityFromScore maps a numeric score to its severity bucket. The mapping is
// the single source of truth for both per-finding and per-board severity.
func SeverityFromScore(score int) Severity {
	switch {
	case score >= HighScoreThreshold:
		return SeverityHigh
	case score >= MediumScoreThreshold:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// ClampScore bounds a score to [MinRiskScore, MaxRiskScore].
func ClampScore(score int) int {
	if score < MinRiskScore {
		return MinRiskScore
	}
	if score > MaxRiskScore {
		return MaxRiskScore
	}
	return score
}

// NewID returns a prefixed random identifier, e.g. "scan-<uuid>".
func NewID(prefix string) string {
	return prefix + "-" + uuid.New().String()
}

// NowISO returns the current UTC time in ISO 8601 format.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
