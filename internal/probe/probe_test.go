package probe_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jonesrussell/boardwatch/internal/models"
	"github.com/jonesrussell/boardwatch/internal/probe"
	"github.com/jonesrussell/boardwatch/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testURLPattern matches the local test server's board URLs, capturing the id.
var testURLPattern = regexp.MustCompile(`/board/([a-zA-Z0-9_=-]+)`)

func newTestProber(apiBaseURL string) *probe.Prober {
	return probe.New(testhelpers.NewTestLogger(), probe.Config{
		Timeout:    2 * time.Second,
		Delay:      time.Millisecond,
		APIBaseURL: apiBaseURL,
		URLPattern: testURLPattern,
	})
}

// boardServer serves /board/:id with a fixed status and body, and /api/:id
// with the given API status. A zero apiStatus disables the API route.
func boardServer(t *testing.T, pageStatus int, body string, apiStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/board/", func(w http.ResponseWriter, _ *http.Request) {
		if pageStatus >= 300 && pageStatus < 400 {
			w.Header().Set("Location", "/elsewhere")
		}
		w.WriteHeader(pageStatus)
		_, _ = w.Write([]byte(body))
	})
	if apiStatus != 0 {
		mux.HandleFunc("/api/", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(apiStatus)
		})
	}
	return httptest.NewServer(mux)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		code     int
		expected models.ProbeStatus
	}{
		{200, models.ProbeViewable},
		{401, models.ProbeProtected},
		{403, models.ProbeProtected},
		{301, models.ProbeProtected},
		{302, models.ProbeProtected},
		{307, models.ProbeProtected},
		{404, models.ProbeUnreachable},
		{500, models.ProbeUnreachable},
		{0, models.ProbeUnreachable},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, probe.Classify(tt.code), "code %d", tt.code)
	}
}

func TestParseBoardID(t *testing.T) {
	id, ok := probe.ParseBoardID("https://miro.com/app/board/uXjVN_abc123=/")
	require.True(t, ok)
	assert.Equal(t, "uXjVN_abc123=", id)

	_, ok = probe.ParseBoardID("https://example.com/not-a-board")
	assert.False(t, ok)
}

func TestHasWallSignature(t *testing.T) {
	assert.True(t, probe.HasWallSignature("<div class=\"Password-Protected\">"))
	assert.True(t, probe.HasWallSignature("please enter the password to continue"))
	assert.False(t, probe.HasWallSignature("<h1>Team roadmap</h1>"))
}

func TestProbeStatuses(t *testing.T) {
	tests := []struct {
		name       string
		pageStatus int
		body       string
		apiStatus  int
		expected   models.ProbeStatus
		expectCode int
	}{
		{"open board", http.StatusOK, "<h1>Board</h1>", http.StatusOK, models.ProbeViewable, http.StatusOK},
		{"unauthorized", http.StatusUnauthorized, "", 0, models.ProbeProtected, http.StatusUnauthorized},
		{"forbidden", http.StatusForbidden, "", 0, models.ProbeProtected, http.StatusForbidden},
		{"redirect to login", http.StatusFound, "", 0, models.ProbeProtected, http.StatusFound},
		{"missing board", http.StatusNotFound, "", 0, models.ProbeUnreachable, http.StatusNotFound},
		{"api override to protected", http.StatusOK, "<h1>Shell</h1>", http.StatusUnauthorized, models.ProbeProtected, http.StatusUnauthorized},
		{"api error keeps page verdict", http.StatusOK, "<h1>Board</h1>", http.StatusTeapot, models.ProbeViewable, http.StatusOK},
		{"password wall behind 200", http.StatusOK, "enter the password", http.StatusOK, models.ProbeProtected, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := boardServer(t, tt.pageStatus, tt.body, tt.apiStatus)
			defer server.Close()

			prober := newTestProber(server.URL + "/api")
			session := prober.Run(context.Background(), []string{server.URL + "/board/b1"})

			require.Len(t, session.Results, 1)
			result := session.Results[0]
			assert.Equal(t, "b1", result.BoardID)
			assert.Equal(t, tt.expected, result.Status)
			assert.Equal(t, tt.expectCode, result.HTTPCode)
		})
	}
}

func TestProbeMalformedURLSkipsNetwork(t *testing.T) {
	var hit bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hit = true
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	prober := newTestProber(server.URL + "/api")
	session := prober.Run(context.Background(), []string{"not a board url"})

	require.Len(t, session.Results, 1)
	result := session.Results[0]
	assert.Equal(t, "invalid", result.BoardID)
	assert.Equal(t, models.ProbeUnreachable, result.Status)
	assert.Equal(t, http.StatusNotFound, result.HTTPCode)
	assert.False(t, hit, "malformed URLs must not trigger a request")
}

func TestProbeNetworkFailure(t *testing.T) {
	// A server that is already closed produces a transport error.
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	dead := server.URL
	server.Close()

	prober := newTestProber(dead + "/api")
	session := prober.Run(context.Background(), []string{dead + "/board/b1"})

	require.Len(t, session.Results, 1)
	result := session.Results[0]
	assert.Equal(t, "b1", result.BoardID)
	assert.Equal(t, models.ProbeUnreachable, result.Status)
	assert.Equal(t, 0, result.HTTPCode)
}

func TestProbeOrderPreserved(t *testing.T) {
	server := boardServer(t, http.StatusOK, "board", http.StatusOK)
	defer server.Close()

	urls := []string{
		server.URL + "/board/first",
		"garbage",
		server.URL + "/board/third",
	}

	prober := newTestProber(server.URL + "/api")
	session := prober.Run(context.Background(), urls)

	require.Len(t, session.Results, 3)
	assert.Equal(t, "first", session.Results[0].BoardID)
	assert.Equal(t, "invalid", session.Results[1].BoardID)
	assert.Equal(t, "third", session.Results[2].BoardID)
	for i, result := range session.Results {
		assert.Equal(t, urls[i], result.BoardURL)
		assert.Equal(t, session.ID, result.SessionID)
	}
}

func TestProbeCancelledContextStopsEarly(t *testing.T) {
	server := boardServer(t, http.StatusOK, "board", http.StatusOK)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())

	prober := probe.New(testhelpers.NewTestLogger(), probe.Config{
		Timeout:    2 * time.Second,
		Delay:      200 * time.Millisecond,
		APIBaseURL: server.URL + "/api",
		URLPattern: testURLPattern,
	})

	urls := []string{
		server.URL + "/board/one",
		server.URL + "/board/two",
		server.URL + "/board/three",
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	session := prober.Run(ctx, urls)
	assert.Less(t, len(session.Results), len(urls))
	assert.True(t, strings.HasPrefix(session.ID, "sess-"))
}
