package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/wardlink/internal/channel"
	"github.com/cristianoliveira/wardlink/internal/toast"
	"github.com/cristianoliveira/wardlink/internal/tray"
)

// neverDialer always refuses, keeping channels in their retry loop so
// client tests can focus on message handling and polling.
type neverDialer struct{}

func (neverDialer) Dial(ctx context.Context, url string) (channel.MessageConn, error) {
	return nil, errors.New("dial refused")
}

type pollCounter struct {
	mu    sync.Mutex
	count int
}

func (p *pollCounter) poll(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	return nil
}

func (p *pollCounter) value() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

func newTestClient(pollInterval time.Duration, poll func(context.Context) error) *Client {
	return New(Options{
		WSOrigin:          "ws://hms.local",
		UserID:            "42",
		Tray:              tray.New(10),
		Toasts:            toast.NewStack(),
		Dialer:            neverDialer{},
		NotificationRetry: time.Hour,
		StatusRetry:       time.Hour,
		PollInterval:      pollInterval,
		Poll:              poll,
	})
}

func TestAuthoritativeCountThenLocalIncrement(t *testing.T) {
	c := newTestClient(0, nil)

	c.HandleMessage(ChannelNotifications, []byte(`{"type":"unread_count","count":7}`))
	require.Equal(t, 7, c.Tray().Unread())

	// A locally generated increment builds on the authoritative count.
	c.HandleMessage(ChannelNotifications, []byte(
		`{"type":"notification","notification":{"title":"New admission","message":"Bed 12"}}`))
	assert.Equal(t, 8, c.Tray().Unread())
}

func TestUnreadCountIsIdempotent(t *testing.T) {
	c := newTestClient(0, nil)

	c.HandleMessage(ChannelNotifications, []byte(`{"type":"unread_count","count":7}`))
	c.HandleMessage(ChannelNotifications, []byte(`{"type":"unread_count","count":7}`))
	assert.Equal(t, 7, c.Tray().Unread())
}

func TestPersistentAlertsAllRemainVisible(t *testing.T) {
	c := newTestClient(0, nil)

	for _, msg := range []string{
		`{"type":"system_alert","alert":{"message":"alert one"}}`,
		`{"type":"system_alert","alert":{"message":"alert two","severity":"error"}}`,
		`{"type":"system_alert","alert":{"message":"alert three","severity":"info"}}`,
	} {
		c.HandleMessage(ChannelSystemStatus, []byte(msg))
	}

	active := c.Toasts().Active()
	require.Len(t, active, 3)
	for _, tst := range active {
		assert.True(t, tst.Persistent())
		assert.Equal(t, toast.StateVisible, tst.State)
	}

	// None auto-expire.
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, c.Toasts().Active(), 3)

	// Explicit dismissal removes exactly one.
	c.Toasts().Dismiss(active[1].ID)
	assert.Len(t, c.Toasts().Active(), 2)
}

func TestMalformedFrameIsDropped(t *testing.T) {
	c := newTestClient(0, nil)
	c.HandleMessage(ChannelNotifications, []byte(`not json`))
	assert.Zero(t, c.Tray().Unread())
	assert.Empty(t, c.Toasts().Active())
}

func TestOfflineSuppressesPolling(t *testing.T) {
	counter := &pollCounter{}
	c := newTestClient(5*time.Millisecond, counter.poll)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)
	defer c.Stop()

	require.Eventually(t, func() bool { return counter.value() >= 2 }, time.Second, time.Millisecond)

	c.SetOnline(false)
	// Let any in-flight tick drain, then verify the count freezes.
	time.Sleep(15 * time.Millisecond)
	frozen := counter.value()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, frozen, counter.value(), "polling must pause while offline")
}

func TestOnlineResumesPollingExactlyOnce(t *testing.T) {
	counter := &pollCounter{}
	// An hour-long interval isolates the single resume refresh.
	c := newTestClient(time.Hour, counter.poll)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)
	defer c.Stop()

	c.SetOnline(false)
	time.Sleep(10 * time.Millisecond)
	c.SetOnline(true)

	require.Eventually(t, func() bool { return counter.value() == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, counter.value(), "resume must refresh exactly once, not per missed tick")

	// The transition also surfaces a transient toast.
	active := c.Toasts().Active()
	require.NotEmpty(t, active)
	assert.Equal(t, "Connection restored", active[0].Message)
	assert.False(t, active[0].Persistent())
}

func TestSetOnlineSameValueIsNoop(t *testing.T) {
	c := newTestClient(0, nil)
	c.SetOnline(true)
	assert.Empty(t, c.Toasts().Active(), "no transition, no toast")
	c.SetOnline(false)
	c.SetOnline(false)
	assert.False(t, c.Online())
}

func TestChannelStates(t *testing.T) {
	c := newTestClient(0, nil)
	states := c.ChannelStates()
	require.Len(t, states, 2)
	assert.Contains(t, states, ChannelNotifications)
	assert.Contains(t, states, ChannelSystemStatus)
}

func TestStartIsIdempotent(t *testing.T) {
	counter := &pollCounter{}
	c := newTestClient(time.Hour, counter.poll)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)
	c.Start(ctx)
	c.Stop()
}
