package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportScanCSV(t *testing.T) {
	e := newEnv(t, envOptions{})

	created := e.do(t, http.MethodPost, "/api/v1/scan", nil)
	require.Equal(t, http.StatusCreated, created.Code)
	scanID := decodeJSON(t, created)["summary"].(map[string]any)["id"].(string)

	recorder := e.do(t, http.MethodGet, "/api/v1/export/"+scanID+"?type=scan&format=csv", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	assert.Equal(t, "text/csv", recorder.Header().Get("Content-Type"))
	assert.Contains(t, recorder.Header().Get("Content-Disposition"), scanID)

	lines := strings.Split(recorder.Body.String(), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "scan_id,created_at,board_id"))
	assert.Greater(t, len(lines), 5, "five sample boards produce at least one row each")
}

func TestExportScanExcel(t *testing.T) {
	e := newEnv(t, envOptions{})

	created := e.do(t, http.MethodPost, "/api/v1/scan", nil)
	require.Equal(t, http.StatusCreated, created.Code)
	scanID := decodeJSON(t, created)["summary"].(map[string]any)["id"].(string)

	recorder := e.do(t, http.MethodGet, "/api/v1/export/"+scanID+"?format=xlsx", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "spreadsheetml")
	assert.Equal(t, "PK", recorder.Body.String()[:2])
}

func TestExportDefaultsToScanCSV(t *testing.T) {
	e := newEnv(t, envOptions{})

	created := e.do(t, http.MethodPost, "/api/v1/scan", nil)
	scanID := decodeJSON(t, created)["summary"].(map[string]any)["id"].(string)

	recorder := e.do(t, http.MethodGet, "/api/v1/export/"+scanID, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "text/csv", recorder.Header().Get("Content-Type"))
}

func TestExportProbeCSV(t *testing.T) {
	target := probeTarget(t)
	e := newEnv(t, envOptions{proberURL: target.URL})

	created := e.do(t, http.MethodPost, "/api/v1/probe", map[string]any{
		"urls": []string{target.URL + "/board/one"},
	})
	require.Equal(t, http.StatusCreated, created.Code)
	sessionID := decodeJSON(t, created)["session"].(map[string]any)["id"].(string)

	recorder := e.do(t, http.MethodGet, "/api/v1/export/"+sessionID+"?type=probe", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, strings.HasPrefix(recorder.Body.String(), "session_id,board_url"))
	assert.Contains(t, recorder.Body.String(), "viewable")
}

func TestExportUnknownRecord(t *testing.T) {
	e := newEnv(t, envOptions{})

	recorder := e.do(t, http.MethodGet, "/api/v1/export/scan-missing", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestExportBadParams(t *testing.T) {
	e := newEnv(t, envOptions{})

	recorder := e.do(t, http.MethodGet, "/api/v1/export/x?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = e.do(t, http.MethodGet, "/api/v1/export/x?type=everything", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
