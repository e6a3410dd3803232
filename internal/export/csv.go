// Package export serializes scan records and probe sessions for download.
package export

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jonesrussell/boardwatch/internal/models"
)

// scanHeader is the flat scan export layout: one row per (board, finding)
// pair, board-level fields repeated on every row.
var scanHeader = []string{
	"scan_id", "created_at", "board_id", "board_name", "owner", "team",
	"risk_score", "severity", "check", "check_score", "check_severity", "details",
}

var probeHeader = []string{
	"session_id", "board_url", "board_id", "status", "http_code", "checked_at",
}

// ScanToCSV renders a scan record. A board with zero findings still emits
// exactly one row, with the finding-level fields empty.
func ScanToCSV(record models.ScanRecord) string {
	rows := make([][]string, 0, len(record.Boards)+1)
	rows = append(rows, scanHeader)

	for _, board := range record.Boards {
		rows = append(rows, scanRows(record.Summary, board)...)
	}

	return joinRows(rows)
}

// ScanRows flattens one board into export rows shared by the CSV and Excel writers.
func scanRows(summary models.ScanSummary, board models.ScannedBoard) [][]string {
	base := []string{
		summary.ID,
		summary.CreatedAt,
		board.BoardID,
		board.BoardName,
		board.Owner,
		board.Team,
		strconv.Itoa(board.RiskScore),
		string(board.Severity),
	}

	if len(board.Findings) == 0 {
		return [][]string{append(base, "", "", "", "")}
	}

	rows := make([][]string, 0, len(board.Findings))
	for _, finding := range board.Findings {
		row := make([]string, 0, len(scanHeader))
		row = append(row, base...)
		row = append(row,
			string(finding.Check),
			strconv.Itoa(finding.Score),
			string(finding.Severity),
			detailsJSON(finding.Details),
		)
		rows = append(rows, row)
	}
	return rows
}

// ProbeToCSV renders a probe session, one row per result in probe order.
func ProbeToCSV(session models.ProbeSession) string {
	rows := make([][]string, 0, len(session.Results)+1)
	rows = append(rows, probeHeader)

	for _, result := range session.Results {
		rows = append(rows, probeRow(result))
	}

	return joinRows(rows)
}

func probeRow(result models.ProbeResult) []string {
	return []string{
		result.SessionID,
		result.BoardURL,
		result.BoardID,
		string(result.Status),
		strconv.Itoa(result.HTTPCode),
		result.CheckedAt,
	}
}

func detailsJSON(details map[string]any) string {
	if len(details) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

func joinRows(rows [][]string) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		escaped := make([]string, 0, len(row))
		for _, field := range row {
			escaped = append(escaped, escapeCSV(field))
		}
		lines = append(lines, strings.Join(escaped, ","))
	}
	return strings.Join(lines, "\n")
}

// escapeCSV quotes fields containing commas, quotes or newlines, doubling
// internal quotes.
func escapeCSV(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
