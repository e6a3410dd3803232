package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonesrussell/boardwatch/internal/api"
	"github.com/jonesrussell/boardwatch/internal/auth"
	"github.com/jonesrussell/boardwatch/internal/config"
	"github.com/jonesrussell/boardwatch/internal/metrics"
	"github.com/jonesrussell/boardwatch/internal/miro"
	"github.com/jonesrussell/boardwatch/internal/normalizer"
	"github.com/jonesrussell/boardwatch/internal/probe"
	"github.com/jonesrussell/boardwatch/internal/repository"
	"github.com/jonesrussell/boardwatch/internal/store"
	"github.com/jonesrussell/boardwatch/internal/testhelpers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Port = 8070
	cfg.Store.Backend = config.BackendMemory
	cfg.Probe.RatePerMinute = 100
	cfg.Probe.MaxURLs = 50
	cfg.Auth.CookieSecret = "test-secret"

	log := testhelpers.NewTestLogger()
	st := store.NewMemoryStore()
	repo := repository.New(st, log)
	registry := prometheus.NewRegistry()

	return api.NewRouter(api.Deps{
		Config:     cfg,
		Version:    "test",
		Store:      st,
		Repository: repo,
		Limiter:    repository.NewRateLimiter(st, cfg.Probe.RatePerMinute, repository.ProbeRateWindow),
		Identity:   auth.NewIdentity(repo, cfg.Auth.CookieSecret, false),
		Miro:       miro.NewClient(log, miro.Config{}),
		Normalizer: normalizer.New(log, nil),
		Prober:     probe.New(log, probe.Config{}),
		Metrics:    metrics.New(registry),
		Registry:   registry,
		Logger:     log,
	})
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "boardwatch", body["service"])
	assert.Equal(t, "test", body["version"])
	assert.Contains(t, body, "uptime")
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "boardwatch_scans_total")
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/scan", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "http://localhost:3000", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/scan", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
}
