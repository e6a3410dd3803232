// Package scanner turns normalized board states into weighted risk findings.
//
// Checks evaluate independently and are additive. A check disabled in settings
// never fires regardless of board state, and unknown signals (nil access flags,
// nil editor count) never fire a check on their own.
package scanner

import (
	"math"
	"strings"
	"time"

	"github.com/jonesrussell/boardwatch/internal/models"
)

const hoursPerDay = 24

// maxStaleDays stands in for "modified at an unknown or unparseable time",
// which is treated as maximally stale.
const maxStaleDays = math.MaxInt32

// Run scores every board with a snapshot of the given settings and returns the
// complete scan record. A fault in one board never aborts the rest; scoring is
// pure and cannot fail per board.
func Run(userID string, boards []models.BoardState, settings models.SettingsConfig) models.ScanRecord {
	scanID := models.NewID("scan")

	scanned := make([]models.ScannedBoard, 0, len(boards))
	for _, board := range boards {
		scanned = append(scanned, ScanBoard(scanID, board, settings))
	}

	summary := models.ScanSummary{
		ID:           scanID,
		UserID:       userID,
		CreatedAt:    models.NowISO(),
		TotalBoards:  len(scanned),
		OverallScore: overallScore(scanned),
	}
	for _, board := range scanned {
		switch board.Severity {
		case models.SeverityHigh:
			summary.HighRisk++
		case models.SeverityMedium:
			summary.MediumRisk++
		case models.SeverityLow:
			summary.LowRisk++
		}
	}

	return models.ScanRecord{Summary: summary, Boards: scanned}
}

// ScanBoard applies every enabled check to one board.
func ScanBoard(scanID string, board models.BoardState, settings models.SettingsConfig) models.ScannedBoard {
	findings := make([]models.Finding, 0, len(models.AllChecks))

	if setting := settings.Check(models.CheckPublicLink); setting.Enabled && isTrue(board.PublicAccess) {
		findings = append(findings, newFinding(scanID, board, models.CheckPublicLink, setting.Weight, map[string]any{
			"publicAccess": true,
		}))
	}

	if setting := settings.Check(models.CheckPublicEditAccess); setting.Enabled &&
		isTrue(board.PublicAccess) && isTrue(board.PublicEditAccess) {
		findings = append(findings, newFinding(scanID, board, models.CheckPublicEditAccess, setting.Weight, map[string]any{
			"publicAccess":     true,
			"publicEditAccess": true,
		}))
	}

	if setting := settings.Check(models.CheckStale); setting.Enabled {
		if staleDays := daysSince(board.ModifiedAt); staleDays >= settings.StaleDaysThreshold {
			findings = append(findings, newFinding(scanID, board, models.CheckStale, setting.Weight, map[string]any{
				"daysSinceModified": staleDays,
				"threshold":         settings.StaleDaysThreshold,
			}))
		}
	}

	if setting := settings.Check(models.CheckEditors); setting.Enabled &&
		board.EditorCount != nil && *board.EditorCount > settings.MaxEditorsThreshold {
		findings = append(findings, newFinding(scanID, board, models.CheckEditors, setting.Weight, map[string]any{
			"editorCount": *board.EditorCount,
			"threshold":   settings.MaxEditorsThreshold,
		}))
	}

	if setting := settings.Check(models.CheckSensitiveText); setting.Enabled {
		if hits := sensitiveHits(board.ContentText, settings.SensitiveKeywords); len(hits) > 0 {
			findings = append(findings, newFinding(scanID, board, models.CheckSensitiveText, setting.Weight, map[string]any{
				"keywords": hits,
			}))
		}
	}

	total := 0
	for _, finding := range findings {
		total += finding.Score
	}
	riskScore := models.ClampScore(total)

	return models.ScannedBoard{
		BoardID:      board.ID,
		BoardName:    board.Name,
		Owner:        orUnknown(board.Owner),
		Team:         orUnknown(board.Team),
		LastModified: board.ModifiedAt,
		RiskScore:    riskScore,
		Severity:     models.SeverityFromScore(riskScore),
		Findings:     findings,
	}
}

func newFinding(scanID string, board models.BoardState, check models.CheckType, score int, details map[string]any) models.Finding {
	return models.Finding{
		ID:        models.NewID("finding"),
		ScanID:    scanID,
		BoardID:   board.ID,
		BoardName: board.Name,
		Check:     check,
		Score:     score,
		Severity:  models.SeverityFromScore(score),
		Details:   details,
	}
}

// daysSince returns whole days elapsed since the given ISO timestamp.
// Missing or unparseable timestamps count as maximally stale.
func daysSince(iso string) int {
	if iso == "" {
		return maxStaleDays
	}
	modifiedAt, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return maxStaleDays
	}
	days := int(time.Since(modifiedAt).Hours() / hoursPerDay)
	if days < 0 {
		return 0
	}
	return days
}

// sensitiveHits returns every configured keyword present in the content,
// matched case-insensitively as a substring.
func sensitiveHits(content string, keywords []string) []string {
	if content == "" || len(keywords) == 0 {
		return nil
	}
	source := strings.ToLower(content)

	var hits []string
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(source, strings.ToLower(keyword)) {
			hits = append(hits, keyword)
		}
	}
	return hits
}

// overallScore is the rounded mean of all board risk scores; zero boards yield zero.
func overallScore(boards []models.ScannedBoard) int {
	if len(boards) == 0 {
		return 0
	}
	total := 0
	for _, board := range boards {
		total += board.RiskScore
	}
	return int(math.Round(float64(total) / float64(len(boards))))
}

func isTrue(flag *bool) bool {
	return flag != nil && *flag
}

func orUnknown(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
