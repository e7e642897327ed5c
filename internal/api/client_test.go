package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	csrf   string
	accept string
}

func newRecordingServer(t *testing.T, status int, body string) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		reqs = append(reqs, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			csrf:   r.Header.Get(CSRFHeader),
			accept: r.Header.Get("Accept"),
		})
		mu.Unlock()
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), reqs...)
	}
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	origin, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return NewClient(origin, "42", "csrf-token-abc", http.DefaultTransport)
}

func TestDashboardStats(t *testing.T) {
	srv, requests := newRecordingServer(t, http.StatusOK,
		`{"total_patients":120,"total_doctors":14,"today_appointments":9,"pending_bills":3,"occupancy_rate":0.82}`)
	client := newTestClient(t, srv)

	stats, err := client.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120, stats.TotalPatients)
	assert.Equal(t, 14, stats.TotalDoctors)
	assert.Equal(t, 9, stats.TodayAppointments)
	assert.InDelta(t, 0.82, stats.OccupancyRate, 1e-9)

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].method)
	assert.Equal(t, "/api/v1/dashboard/stats/", reqs[0].path)
	assert.Equal(t, "application/json", reqs[0].accept)
	assert.Empty(t, reqs[0].csrf, "reads must not carry the CSRF token")
}

func TestUnreadCount(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusOK, `{"count":5}`)
	client := newTestClient(t, srv)

	count, err := client.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestMarkNotificationReadCarriesCSRF(t *testing.T) {
	srv, requests := newRecordingServer(t, http.StatusOK, `{}`)
	client := newTestClient(t, srv)

	require.NoError(t, client.MarkNotificationRead(context.Background(), "n-1"))

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].method)
	assert.Equal(t, "/api/v1/notifications/n-1/read/", reqs[0].path)
	assert.Equal(t, "csrf-token-abc", reqs[0].csrf)
}

func TestNonSuccessStatusIsError(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusForbidden, `{"detail":"forbidden"}`)
	client := newTestClient(t, srv)

	_, err := client.DashboardStats(context.Background())
	assert.Error(t, err)

	assert.Error(t, client.MarkNotificationRead(context.Background(), "n-1"))
}

func TestMalformedResponseIsError(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusOK, `not json`)
	client := newTestClient(t, srv)

	_, err := client.UnreadCount(context.Background())
	assert.Error(t, err)
}

func TestUserID(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusOK, `{}`)
	client := newTestClient(t, srv)
	assert.Equal(t, "42", client.UserID())
}
