package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/boardwatch/internal/auth"
	"github.com/jonesrussell/boardwatch/internal/handlers"
	"github.com/jonesrussell/boardwatch/internal/miro"
	"github.com/jonesrussell/boardwatch/internal/normalizer"
	"github.com/jonesrussell/boardwatch/internal/probe"
	"github.com/jonesrussell/boardwatch/internal/repository"
	"github.com/jonesrussell/boardwatch/internal/store"
	"github.com/jonesrussell/boardwatch/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

const testMaxProbeURLs = 50

// env bundles the wired test fixture around one in-memory store.
type env struct {
	router   *gin.Engine
	repo     *repository.Repository
	limiter  *repository.RateLimiter
	identity *auth.Identity
}

type envOptions struct {
	probeLimit  int
	proberURL   string
	miroCfg     miro.Config
	miroBaseURL string
	verifierURL string
}

func newEnv(t *testing.T, opts envOptions) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := testhelpers.NewTestLogger()
	st := store.NewMemoryStore()
	repo := repository.New(st, log)

	limit := opts.probeLimit
	if limit == 0 {
		limit = 100
	}
	limiter := repository.NewRateLimiter(st, limit, time.Minute)
	identity := auth.NewIdentity(repo, "test-secret", false)

	var miroClient *miro.Client
	if opts.miroBaseURL != "" {
		miroClient = miro.NewClientWithBaseURLs(log, opts.miroCfg, opts.miroBaseURL, opts.miroBaseURL)
	} else {
		miroClient = miro.NewClient(log, opts.miroCfg)
	}

	var verifier *normalizer.Verifier
	if opts.verifierURL != "" {
		verifier = normalizer.NewVerifierWithBaseURL(opts.verifierURL)
	}
	norm := normalizer.New(log, verifier)
	prober := probe.New(log, probe.Config{
		Timeout:    2 * time.Second,
		Delay:      time.Millisecond,
		APIBaseURL: opts.proberURL + "/api",
		URLPattern: regexp.MustCompile(`/board/([a-zA-Z0-9_=-]+)`),
	})

	scanHandler := handlers.NewScanHandler(repo, identity, miroClient, opts.miroCfg, norm, nil, log)
	probeHandler := handlers.NewProbeHandler(repo, limiter, prober, nil, log, testMaxProbeURLs)
	settingsHandler := handlers.NewSettingsHandler(repo, identity, log)
	exportHandler := handlers.NewExportHandler(repo, log)
	authHandler := handlers.NewAuthHandler(repo, identity, miroClient, opts.miroCfg, log)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.POST("/scan", scanHandler.Create)
	v1.GET("/scan", scanHandler.List)
	v1.GET("/scan/:id", scanHandler.GetByID)
	v1.POST("/probe", probeHandler.Create)
	v1.GET("/probe/:id", probeHandler.GetByID)
	v1.GET("/settings", settingsHandler.Get)
	v1.PUT("/settings", settingsHandler.Update)
	v1.GET("/export/:id", exportHandler.Get)
	v1.GET("/auth/miro", authHandler.Login)
	v1.GET("/auth/miro/callback", authHandler.Callback)

	return &env{router: router, repo: repo, limiter: limiter, identity: identity}
}

// do performs one request, carrying over any cookies supplied.
func (e *env) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func decodeJSON(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	return payload
}

// anonCookie extracts the anonymous identity cookie set by a response.
func anonCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == auth.AnonCookie {
			return cookie
		}
	}
	t.Fatal("expected an anonymous identity cookie")
	return nil
}
