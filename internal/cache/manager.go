package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/wardlink/internal/logging"
)

// HeaderCacheServed marks a response that was served from the cache instead
// of the network.
const HeaderCacheServed = "X-Wardlink-Cache"

// Route identifies how an intercepted request is handled.
type Route int

const (
	// RouteStatic is cache-first, for immutable assets.
	RouteStatic Route = iota
	// RouteAPI is network-first with allow-listed caching.
	RouteAPI
	// RoutePage is network-first with offline page fallback.
	RoutePage
	// RoutePassthrough is network with generic cache fallback.
	RoutePassthrough
)

func (r Route) String() string {
	switch r {
	case RouteStatic:
		return "static"
	case RouteAPI:
		return "api"
	case RoutePage:
		return "page"
	default:
		return "passthrough"
	}
}

// Options configures a Manager.
type Options struct {
	// Origin is the serving origin; requests to any other host are treated
	// as static assets (fonts, CDN scripts).
	Origin *url.URL
	// StaticPrefix is the path prefix of immutable assets.
	StaticPrefix string
	// APIPrefix is the path prefix of the REST API.
	APIPrefix string
	// Version tags the active cache generation.
	Version string
	// Allowlist holds API path prefixes whose responses may be cached.
	Allowlist []string
	// OfflinePage is the HTML served when a page is unreachable and uncached.
	OfflinePage []byte
	// Transport performs the actual network fetch. Defaults to
	// http.DefaultTransport.
	Transport http.RoundTripper
	Logger    logging.Logger
}

// Manager intercepts outgoing requests and serves best-effort responses.
// It implements http.RoundTripper so it can sit directly under an
// http.Client. One logical instance exists per deployed version.
type Manager struct {
	opts  Options
	store Store

	mu      sync.RWMutex
	version string
	active  bool

	// writes tracks fire-and-forget cache writes so Flush and install can
	// await them without blocking the response path.
	writes sync.WaitGroup
}

// NewManager creates a Manager over the given store. The manager does not
// serve from cache until Activate has completed.
func NewManager(store Store, opts Options) *Manager {
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}
	if opts.Logger == nil {
		opts.Logger = logging.Noop()
	}
	return &Manager{opts: opts, store: store, version: opts.Version}
}

// Version returns the active cache generation version.
func (m *Manager) Version() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// Active reports whether activation has completed.
func (m *Manager) Active() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// partition returns the version-tagged partition name for a kind.
func (m *Manager) partition(kind string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return PartitionName(kind, m.version)
}

// Classify determines the route for a request. Priority order: static
// (static prefix or cross-origin), api, page (Accept indicates HTML),
// passthrough.
func (m *Manager) Classify(req *http.Request) Route {
	if strings.HasPrefix(req.URL.Path, m.opts.StaticPrefix) {
		return RouteStatic
	}
	if m.opts.Origin != nil && req.URL.Host != "" && req.URL.Host != m.opts.Origin.Host {
		return RouteStatic
	}
	if strings.HasPrefix(req.URL.Path, m.opts.APIPrefix) {
		return RouteAPI
	}
	if strings.Contains(req.Header.Get("Accept"), "text/html") {
		return RoutePage
	}
	return RoutePassthrough
}

// RoundTrip implements http.RoundTripper.
//
// Only GET requests participate in caching; everything else goes straight
// to the network. Network failures on GET are degraded to cache lookups or
// synthesized offline responses and never surface as errors.
func (m *Manager) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet || !m.Active() {
		return m.opts.Transport.RoundTrip(req)
	}
	route := m.Classify(req)
	switch route {
	case RouteStatic:
		return m.serveStatic(req)
	case RouteAPI:
		return m.serveAPI(req)
	case RoutePage:
		return m.servePage(req)
	default:
		return m.servePassthrough(req)
	}
}

// serveStatic is cache-first: a cached asset is returned without touching
// the network.
func (m *Manager) serveStatic(req *http.Request) (*http.Response, error) {
	part := m.partition(PartitionStatic)
	if e, err := m.store.Get(part, Key(req)); err == nil {
		return m.fromEntry(req, e), nil
	}
	resp, err := m.opts.Transport.RoundTrip(req)
	if err != nil {
		m.opts.Logger.Debug("static fetch failed", "url", req.URL.String(), "error", err)
		return m.offline503(req, "text/plain", []byte("Asset unavailable offline.\n")), nil
	}
	if isSuccess(resp) {
		m.storeAsync(part, req, resp)
	}
	return resp, nil
}

// serveAPI is network-first. Successful responses for allow-listed paths
// are cached; on network failure a cached copy is served tagged as such,
// falling back to a synthesized offline JSON body.
func (m *Manager) serveAPI(req *http.Request) (*http.Response, error) {
	part := m.partition(PartitionAPI)
	resp, err := m.opts.Transport.RoundTrip(req)
	if err == nil {
		if isSuccess(resp) && m.allowlisted(req.URL.Path) {
			m.storeAsync(part, req, resp)
		}
		return resp, nil
	}
	m.opts.Logger.Debug("api fetch failed", "url", req.URL.String(), "error", err)
	if e, cerr := m.store.Get(part, Key(req)); cerr == nil {
		return m.fromEntry(req, e), nil
	}
	body := []byte(`{"error":"offline","message":"The server is unreachable and no cached data is available.","offline":true}`)
	return m.offline503(req, "application/json", body), nil
}

// servePage is network-first. Every successful page fetch is cached; on
// failure the cached page is served, then the bundled offline page, then a
// minimal synthesized error page.
func (m *Manager) servePage(req *http.Request) (*http.Response, error) {
	part := m.partition(PartitionDynamic)
	resp, err := m.opts.Transport.RoundTrip(req)
	if err == nil {
		if isSuccess(resp) {
			m.storeAsync(part, req, resp)
		}
		return resp, nil
	}
	m.opts.Logger.Debug("page fetch failed", "url", req.URL.String(), "error", err)
	if e, cerr := m.store.Get(part, Key(req)); cerr == nil {
		return m.fromEntry(req, e), nil
	}
	if len(m.opts.OfflinePage) > 0 {
		return m.offline503(req, "text/html; charset=utf-8", m.opts.OfflinePage), nil
	}
	return m.offline503(req, "text/html; charset=utf-8",
		[]byte("<!doctype html><title>Offline</title><h1>You are offline</h1>")), nil
}

// servePassthrough forwards to the network, with a generic cache fallback.
func (m *Manager) servePassthrough(req *http.Request) (*http.Response, error) {
	resp, err := m.opts.Transport.RoundTrip(req)
	if err == nil {
		return resp, nil
	}
	if e, cerr := m.store.Get(m.partition(PartitionDynamic), Key(req)); cerr == nil {
		return m.fromEntry(req, e), nil
	}
	return m.offline503(req, "text/plain", []byte("Service unavailable.\n")), nil
}

// allowlisted reports whether an API path prefix-matches any cacheable pattern.
func (m *Manager) allowlisted(path string) bool {
	for _, pattern := range m.opts.Allowlist {
		if strings.HasPrefix(path, pattern) {
			return true
		}
	}
	return false
}

// Key normalizes a request into its cache key: method plus URL without
// fragment.
func Key(req *http.Request) string {
	u := *req.URL
	u.Fragment = ""
	return req.Method + " " + u.String()
}

// storeAsync caches a copy of resp without blocking the caller. The write
// is tracked so Flush can await it.
func (m *Manager) storeAsync(partition string, req *http.Request, resp *http.Response) {
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		resp.Body = io.NopCloser(bytes.NewReader(body))
		return
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	entry := &Entry{
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     append([]byte(nil), body...),
		StoredAt: time.Now().UTC(),
	}
	key := Key(req)
	m.writes.Add(1)
	go func() {
		defer m.writes.Done()
		if err := m.store.Put(partition, key, entry); err != nil {
			m.opts.Logger.Warn("cache write failed", "partition", partition, "key", key, "error", err)
		}
	}()
}

// Stats reports the entry count of every partition in the store.
func (m *Manager) Stats() (map[string]int, error) {
	parts, err := m.store.Partitions()
	if err != nil {
		return nil, err
	}
	stats := make(map[string]int, len(parts))
	for _, part := range parts {
		n, err := m.store.Len(part)
		if err != nil {
			return nil, err
		}
		stats[part] = n
	}
	return stats, nil
}

// Flush blocks until all in-flight cache writes have completed.
func (m *Manager) Flush() {
	m.writes.Wait()
}

// Close flushes pending writes and closes the store.
func (m *Manager) Close() error {
	m.Flush()
	return m.store.Close()
}

// fromEntry materializes a stored entry as an HTTP response, tagged as
// cache-served.
func (m *Manager) fromEntry(req *http.Request, e *Entry) *http.Response {
	header := e.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	header.Set(HeaderCacheServed, "hit")
	return &http.Response{
		StatusCode:    e.Status,
		Status:        fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status)),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}

// offline503 synthesizes a 503 response with the given body.
func (m *Manager) offline503(req *http.Request, contentType string, body []byte) *http.Response {
	header := make(http.Header)
	header.Set("Content-Type", contentType)
	header.Set("Content-Length", strconv.Itoa(len(body)))
	return &http.Response{
		StatusCode:    http.StatusServiceUnavailable,
		Status:        "503 " + http.StatusText(http.StatusServiceUnavailable),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

func isSuccess(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
