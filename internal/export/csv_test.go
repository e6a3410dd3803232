package export_test

import (
	"strings"
	"testing"

	"github.com/jonesrussell/boardwatch/internal/export"
	"github.com/jonesrussell/boardwatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() models.ScanRecord {
	return models.ScanRecord{
		Summary: models.ScanSummary{
			ID:        "scan-1",
			CreatedAt: "2026-08-01T00:00:00Z",
		},
		Boards: []models.ScannedBoard{
			{
				BoardID:   "b1",
				BoardName: "Risky",
				Owner:     "dana@example.com",
				Team:      "Product",
				RiskScore: 50,
				Severity:  models.SeverityHigh,
				Findings: []models.Finding{
					{
						Check:    models.CheckPublicLink,
						Score:    30,
						Severity: models.SeverityMedium,
						Details:  map[string]any{"publicAccess": true},
					},
					{
						Check:    models.CheckPublicEditAccess,
						Score:    20,
						Severity: models.SeverityMedium,
						Details:  map[string]any{"publicEditAccess": true},
					},
				},
			},
			{
				BoardID:   "b2",
				BoardName: "Clean",
				Owner:     "sam@example.com",
				Team:      "Product",
				RiskScore: 0,
				Severity:  models.SeverityLow,
			},
		},
	}
}

func TestScanToCSVRowLayout(t *testing.T) {
	lines := strings.Split(export.ScanToCSV(sampleRecord()), "\n")

	// Header + two finding rows + one zero-finding row.
	require.Len(t, lines, 4)
	assert.Equal(t,
		"scan_id,created_at,board_id,board_name,owner,team,risk_score,severity,check,check_score,check_severity,details",
		lines[0],
	)
	assert.Contains(t, lines[1], "public_link")
	assert.Contains(t, lines[2], "public_edit_access")
}

func TestScanToCSVZeroFindingsBoardGetsOneRow(t *testing.T) {
	lines := strings.Split(export.ScanToCSV(sampleRecord()), "\n")

	last := lines[len(lines)-1]
	assert.True(t, strings.HasPrefix(last, "scan-1,2026-08-01T00:00:00Z,b2,Clean"))
	// Finding-level columns stay empty.
	assert.True(t, strings.HasSuffix(last, "0,low,,,,"))
}

func TestScanToCSVEscaping(t *testing.T) {
	record := sampleRecord()
	record.Boards[1].BoardName = `Launch, "phase 2"`

	out := export.ScanToCSV(record)
	assert.Contains(t, out, `"Launch, ""phase 2"""`)
}

func TestScanToCSVDetailsAreJSON(t *testing.T) {
	lines := strings.Split(export.ScanToCSV(sampleRecord()), "\n")
	assert.True(t, strings.HasSuffix(lines[1], `"{""publicAccess"":true}"`))
}

func TestProbeToCSV(t *testing.T) {
	session := models.ProbeSession{
		ID: "sess-1",
		Results: []models.ProbeResult{
			{
				SessionID: "sess-1",
				BoardURL:  "https://miro.com/app/board/abc/",
				BoardID:   "abc",
				Status:    models.ProbeViewable,
				HTTPCode:  200,
				CheckedAt: "2026-08-01T00:00:00Z",
			},
			{
				SessionID: "sess-1",
				BoardURL:  "garbage",
				BoardID:   "invalid",
				Status:    models.ProbeUnreachable,
				HTTPCode:  404,
				CheckedAt: "2026-08-01T00:00:01Z",
			},
		},
	}

	lines := strings.Split(export.ProbeToCSV(session), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "session_id,board_url,board_id,status,http_code,checked_at", lines[0])
	assert.Equal(t, "sess-1,https://miro.com/app/board/abc/,abc,viewable,200,2026-08-01T00:00:00Z", lines[1])
	assert.Equal(t, "sess-1,garbage,invalid,unreachable,404,2026-08-01T00:00:01Z", lines[2])
}

func TestScanToExcel(t *testing.T) {
	payload, err := export.ScanToExcel(sampleRecord())
	require.NoError(t, err)
	// xlsx is a zip archive; check the magic bytes.
	require.Greater(t, len(payload), 4)
	assert.Equal(t, []byte{'P', 'K'}, payload[:2])
}

func TestProbeToExcel(t *testing.T) {
	payload, err := export.ProbeToExcel(models.ProbeSession{ID: "sess-1"})
	require.NoError(t, err)
	require.Greater(t, len(payload), 4)
	assert.Equal(t, []byte{'P', 'K'}, payload[:2])
}
