// Package api is the REST client for the hospital backend.
//
// The backend embeds a per-user identifier and a CSRF token in each served
// page; both are read once at startup and handed to NewClient. Every
// mutating request carries the token in the X-CSRFToken header. Any non-2xx
// status is treated as failure.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cristianoliveira/wardlink/internal/errors"
)

// CSRFHeader is the header name the backend expects on mutating calls.
const CSRFHeader = "X-CSRFToken"

const basePrefix = "/api/v1/"

// DashboardStats are the headline numbers the dashboard polls for.
type DashboardStats struct {
	TotalPatients     int     `json:"total_patients"`
	TotalDoctors      int     `json:"total_doctors"`
	TodayAppointments int     `json:"today_appointments"`
	PendingBills      int     `json:"pending_bills"`
	OccupancyRate     float64 `json:"occupancy_rate"`
}

// Client talks to the REST API.
type Client struct {
	origin    *url.URL
	userID    string
	csrfToken string
	http      *http.Client
}

// NewClient creates a Client. transport is the round tripper every request
// goes through; passing the cache manager here gives API reads offline
// fallback for free.
func NewClient(origin *url.URL, userID, csrfToken string, transport http.RoundTripper) *Client {
	return &Client{
		origin:    origin,
		userID:    userID,
		csrfToken: csrfToken,
		http: &http.Client{
			Transport: transport,
			Timeout:   15 * time.Second,
		},
	}
}

// UserID returns the identifier read from the page at startup.
func (c *Client) UserID() string { return c.userID }

// DashboardStats fetches the dashboard statistics.
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.getJSON(ctx, basePrefix+"dashboard/stats/", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// UnreadCount fetches the authoritative unread notification count.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var payload struct {
		Count int `json:"count"`
	}
	if err := c.getJSON(ctx, basePrefix+"notifications/unread-count/", &payload); err != nil {
		return 0, err
	}
	return payload.Count, nil
}

// MarkNotificationRead tells the backend a notification was read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodPost, basePrefix+"notifications/"+id+"/read/", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mark notification read: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// getJSON fetches path and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Network("GET "+path, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("GET %s: decode response: %w", path, err)
	}
	return nil
}

// do issues a request against the origin, attaching the CSRF token on
// mutating methods.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	u := *c.origin
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		req.Header.Set(CSRFHeader, c.csrfToken)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Network(method+" "+path, err)
	}
	return resp, nil
}
