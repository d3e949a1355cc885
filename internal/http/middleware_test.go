package httpx

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	counts []map[string]string
	timed  int
}

func (s *recordingSink) Count(_ string, _ int64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = append(s.counts, tags)
}

func (s *recordingSink) Timing(string, time.Duration, map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timed++
}

func TestIsBrowserRequest(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		accept string
		htmx   bool
		want   bool
	}{
		{name: "html accept", path: "/visitors", accept: "text/html,application/xhtml+xml", want: true},
		{name: "no accept header", path: "/visitors", want: true},
		{name: "json client", path: "/visitors", accept: "application/json", want: false},
		{name: "htmx", path: "/users", accept: "*/*", htmx: true, want: true},
		{name: "static asset", path: "/static/css/app.css", accept: "text/html", want: false},
		{name: "status endpoint", path: "/auth/status", accept: "text/html", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				r.Header.Set("Accept", tt.accept)
			}
			if tt.htmx {
				r.Header.Set("Hx-Request", "true")
			}
			assert.Equal(t, tt.want, IsBrowserRequest(r))
		})
	}
}

func TestBrowserDetection_StoresResult(t *testing.T) {
	var seen bool
	h := BrowserDetection()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		// Changing the header afterwards must not change the answer.
		r.Header.Set("Accept", "application/json")
		seen = IsBrowserRequest(r)
	}))
	r := httptest.NewRequest(http.MethodGet, "/visitors", nil)
	r.Header.Set("Accept", "text/html")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.True(t, seen)
}

func TestMetrics(t *testing.T) {
	sink := &recordingSink{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /visitors", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("GET /static/", func(http.ResponseWriter, *http.Request) {})
	h := Metrics(sink)(mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/visitors", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/static/app.css", nil))

	require.Len(t, sink.counts, 1)
	assert.Equal(t, map[string]string{"method": "GET", "route": "GET /visitors", "status": "202"}, sink.counts[0])
	assert.Equal(t, 1, sink.timed)
}

func TestMetrics_RouteThroughRouter(t *testing.T) {
	sink := &recordingSink{}
	h := Metrics(sink)(NewRouter(RouterServices{TemplateFS: os.DirFS(TemplatePathFromTest)}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	r := httptest.NewRequest(http.MethodGet, "/nope", nil)
	r.Header.Set("Accept", "application/json")
	h.ServeHTTP(httptest.NewRecorder(), r)

	require.Len(t, sink.counts, 2)
	assert.Equal(t, "GET /healthz", sink.counts[0]["route"])
	assert.Equal(t, "unmatched", sink.counts[1]["route"])
	assert.Equal(t, "404", sink.counts[1]["status"])
}

func TestMetrics_NilSink(t *testing.T) {
	h := Metrics(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "boom")
	assert.Contains(t, buf.String(), "path=/users")
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	r := httptest.NewRequest(http.MethodGet, "/missing", nil)
	r.Header.Set("Hx-Request", "true")
	h.ServeHTTP(httptest.NewRecorder(), r)

	out := buf.String()
	assert.Contains(t, out, "status=404")
	assert.Contains(t, out, "htmx=true")
}
