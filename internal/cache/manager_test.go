package cache

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	werrors "github.com/cristianoliveira/wardlink/internal/errors"
)

// fakeTransport serves canned responses and counts how often each URL is
// actually fetched.
type fakeTransport struct {
	mu      sync.Mutex
	calls   map[string]int
	offline bool
	handler func(req *http.Request) *http.Response
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		calls: make(map[string]int),
		handler: func(req *http.Request) *http.Response {
			return textResponse(req, 200, "body of "+req.URL.Path)
		},
	}
}

func (t *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	t.calls[req.URL.String()]++
	offline := t.offline
	t.mu.Unlock()
	if offline {
		return nil, errors.New("connection refused")
	}
	return t.handler(req), nil
}

func (t *fakeTransport) callCount(url string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls[url]
}

func (t *fakeTransport) setOffline(offline bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.offline = offline
}

func textResponse(req *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"text/plain"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

func newTestManager(t *testing.T, transport http.RoundTripper) *Manager {
	t.Helper()
	origin, err := url.Parse("http://hms.local")
	require.NoError(t, err)
	m := NewManager(NewMemoryStore(), Options{
		Origin:       origin,
		StaticPrefix: "/static/",
		APIPrefix:    "/api/v1/",
		Version:      "v1",
		Allowlist:    []string{"/api/v1/dashboard/", "/api/v1/patients/"},
		OfflinePage:  []byte("<html>offline page</html>"),
		Transport:    transport,
	})
	require.NoError(t, m.Activate("v1"))
	return m
}

func get(t *testing.T, m *Manager, target string, headers ...string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := m.RoundTrip(req)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return string(body)
}

func TestClassify(t *testing.T) {
	m := newTestManager(t, newFakeTransport())

	tests := []struct {
		name   string
		target string
		accept string
		want   Route
	}{
		{name: "static prefix", target: "http://hms.local/static/app.js", want: RouteStatic},
		{name: "cross origin", target: "http://cdn.example.com/lib.js", want: RouteStatic},
		{name: "api prefix", target: "http://hms.local/api/v1/patients/", want: RouteAPI},
		{name: "html page", target: "http://hms.local/patients/", accept: "text/html,application/xhtml+xml", want: RoutePage},
		{name: "static wins over accept", target: "http://hms.local/static/doc.html", accept: "text/html", want: RouteStatic},
		{name: "api wins over accept", target: "http://hms.local/api/v1/export/", accept: "text/html", want: RouteAPI},
		{name: "catch all", target: "http://hms.local/metrics", want: RoutePassthrough},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			assert.Equal(t, tt.want, m.Classify(req))
		})
	}
}

func TestStaticCacheFirst(t *testing.T) {
	transport := newFakeTransport()
	m := newTestManager(t, transport)
	target := "http://hms.local/static/app.js"

	resp := get(t, m, target)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "body of /static/app.js", readBody(t, resp))
	m.Flush()

	// A second identical request must never reach the network.
	resp = get(t, m, target)
	assert.Equal(t, "body of /static/app.js", readBody(t, resp))
	assert.Equal(t, "hit", resp.Header.Get(HeaderCacheServed))
	assert.Equal(t, 1, transport.callCount(target))
}

func TestStaticOfflineWithoutCache(t *testing.T) {
	transport := newFakeTransport()
	transport.setOffline(true)
	m := newTestManager(t, transport)

	resp := get(t, m, "http://hms.local/static/missing.css")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "unavailable offline")
}

func TestAPINetworkFirstWithFallback(t *testing.T) {
	transport := newFakeTransport()
	m := newTestManager(t, transport)
	target := "http://hms.local/api/v1/dashboard/stats/"

	resp := get(t, m, target)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(HeaderCacheServed), "live response must not be tagged")
	readBody(t, resp)
	m.Flush()

	// Simulated network failure: the cached copy is served, tagged.
	transport.setOffline(true)
	resp = get(t, m, target)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "hit", resp.Header.Get(HeaderCacheServed))
	assert.Equal(t, "body of /api/v1/dashboard/stats/", readBody(t, resp))
}

func TestAPINotAllowlistedNeverCached(t *testing.T) {
	transport := newFakeTransport()
	m := newTestManager(t, transport)
	target := "http://hms.local/api/v1/audit-log/"

	readBody(t, get(t, m, target))
	m.Flush()

	transport.setOffline(true)
	resp := get(t, m, target)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `"offline":true`)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestPageFallbackChain(t *testing.T) {
	transport := newFakeTransport()
	m := newTestManager(t, transport)

	// Cached page wins over the offline page.
	readBody(t, get(t, m, "http://hms.local/patients/", "Accept", "text/html"))
	m.Flush()
	transport.setOffline(true)
	resp := get(t, m, "http://hms.local/patients/", "Accept", "text/html")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "body of /patients/", readBody(t, resp))

	// An uncached page falls back to the bundled offline page.
	resp = get(t, m, "http://hms.local/billing/", "Accept", "text/html")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "<html>offline page</html>", readBody(t, resp))
}

func TestPageFallbackWithoutOfflinePage(t *testing.T) {
	origin, _ := url.Parse("http://hms.local")
	transport := newFakeTransport()
	transport.setOffline(true)
	m := NewManager(NewMemoryStore(), Options{
		Origin:       origin,
		StaticPrefix: "/static/",
		APIPrefix:    "/api/v1/",
		Version:      "v1",
		Transport:    transport,
	})
	require.NoError(t, m.Activate("v1"))

	resp := get(t, m, "http://hms.local/doctors/", "Accept", "text/html")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "offline")
}

func TestNonGETNeverCached(t *testing.T) {
	transport := newFakeTransport()
	m := newTestManager(t, transport)
	target := "http://hms.local/api/v1/patients/"

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader([]byte("{}")))
	resp, err := m.RoundTrip(req)
	require.NoError(t, err)
	readBody(t, resp)
	m.Flush()

	stats, err := m.Stats()
	require.NoError(t, err)
	assert.Empty(t, stats)

	// A failing POST surfaces the transport error instead of a fallback.
	transport.setOffline(true)
	req = httptest.NewRequest(http.MethodPost, target, bytes.NewReader([]byte("{}")))
	_, err = m.RoundTrip(req)
	assert.Error(t, err)
}

func TestInactiveManagerPassesThrough(t *testing.T) {
	origin, _ := url.Parse("http://hms.local")
	transport := newFakeTransport()
	m := NewManager(NewMemoryStore(), Options{
		Origin:       origin,
		StaticPrefix: "/static/",
		APIPrefix:    "/api/v1/",
		Version:      "v1",
		Transport:    transport,
	})
	target := "http://hms.local/static/app.js"

	readBody(t, get(t, m, target))
	readBody(t, get(t, m, target))
	m.Flush()
	assert.Equal(t, 2, transport.callCount(target), "inactive manager must not serve from cache")
}

func TestKeyNormalization(t *testing.T) {
	a := httptest.NewRequest(http.MethodGet, "http://hms.local/page?q=1#section", nil)
	b := httptest.NewRequest(http.MethodGet, "http://hms.local/page?q=1", nil)
	assert.Equal(t, Key(b), Key(a), "fragment must not affect the cache key")
	assert.True(t, strings.HasPrefix(Key(a), http.MethodGet+" "))
}

func TestNetworkFailureNeverSurfacesOnGET(t *testing.T) {
	transport := newFakeTransport()
	transport.setOffline(true)
	m := newTestManager(t, transport)

	for _, target := range []string{
		"http://hms.local/static/a.js",
		"http://hms.local/api/v1/dashboard/stats/",
		"http://hms.local/metrics",
	} {
		resp, err := m.RoundTrip(httptest.NewRequest(http.MethodGet, target, nil))
		require.NoError(t, err, target)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, target)
		resp.Body.Close()
	}
}

func TestCacheMissError(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get("static-v1", "GET http://hms.local/nothing")
	assert.True(t, errors.Is(err, werrors.ErrCacheMiss))
}
