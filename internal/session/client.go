package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/wardlink/internal/channel"
	"github.com/cristianoliveira/wardlink/internal/logging"
	"github.com/cristianoliveira/wardlink/internal/toast"
	"github.com/cristianoliveira/wardlink/internal/tray"
)

// Channel names.
const (
	ChannelNotifications = "notifications"
	ChannelSystemStatus  = "system-status"
)

// SystemNotifier raises platform-level notifications.
type SystemNotifier interface {
	Raise(title, body string)
}

// Options configures a Client.
type Options struct {
	// WSOrigin is the realtime backend base URL, e.g. ws://host.
	WSOrigin string
	// UserID addresses the per-user notification channel.
	UserID string

	Tray   *tray.Tray
	Toasts *toast.Stack
	Dialer channel.Dialer

	// NotificationRetry and StatusRetry are the fixed per-channel
	// reconnect delays.
	NotificationRetry time.Duration
	StatusRetry       time.Duration
	// PollInterval is the dashboard polling cadence.
	PollInterval time.Duration
	// Poll fetches the dashboard statistics once. May be nil to disable
	// polling.
	Poll func(ctx context.Context) error

	// NotifyPermitted mirrors a granted platform notification permission.
	NotifyPermitted bool
	// Notifier raises platform notifications; nil means none are raised.
	Notifier SystemNotifier

	Logger logging.Logger
}

// Client is the live session client. One instance exists per session,
// constructed at startup and injected into whatever needs it; it owns the
// tray, the toast stack and both channel connections exclusively.
type Client struct {
	opts   Options
	logger logging.Logger

	conns map[string]*channel.Conn

	mu       sync.Mutex
	online   bool
	started  bool
	resumeCh chan struct{}
	stopPoll context.CancelFunc
	pollDone chan struct{}
}

// New creates a Client. The channels are not dialed until Start.
func New(opts Options) *Client {
	if opts.Logger == nil {
		opts.Logger = logging.Noop()
	}
	if opts.Tray == nil {
		opts.Tray = tray.New(0)
	}
	if opts.Toasts == nil {
		opts.Toasts = toast.NewStack()
	}
	c := &Client{
		opts:     opts,
		logger:   opts.Logger,
		conns:    make(map[string]*channel.Conn),
		online:   true,
		resumeCh: make(chan struct{}, 1),
	}
	base := strings.TrimRight(opts.WSOrigin, "/")
	c.conns[ChannelNotifications] = channel.New(
		ChannelNotifications,
		fmt.Sprintf("%s/ws/notifications/%s/", base, opts.UserID),
		opts.NotificationRetry,
		opts.Dialer,
		func(data []byte) { c.HandleMessage(ChannelNotifications, data) },
		opts.Logger,
	)
	c.conns[ChannelSystemStatus] = channel.New(
		ChannelSystemStatus,
		base+"/ws/system/status/",
		opts.StatusRetry,
		opts.Dialer,
		func(data []byte) { c.HandleMessage(ChannelSystemStatus, data) },
		opts.Logger,
	)
	return c
}

// Tray returns the notification queue.
func (c *Client) Tray() *tray.Tray { return c.opts.Tray }

// Toasts returns the toast stack.
func (c *Client) Toasts() *toast.Stack { return c.opts.Toasts }

// Start dials both channels and begins dashboard polling.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	pollCtx, cancel := context.WithCancel(ctx)
	c.stopPoll = cancel
	c.pollDone = make(chan struct{})
	c.mu.Unlock()

	for _, conn := range c.conns {
		conn.Start(ctx)
	}
	go c.pollLoop(pollCtx)
}

// Stop tears down both channels and the poller.
func (c *Client) Stop() {
	for _, conn := range c.conns {
		conn.Stop()
	}
	c.mu.Lock()
	cancel := c.stopPoll
	done := c.pollDone
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// ChannelStates reports the lifecycle state of every channel.
func (c *Client) ChannelStates() map[string]channel.State {
	states := make(map[string]channel.State, len(c.conns))
	for name, conn := range c.conns {
		states[name] = conn.State()
	}
	return states
}

// HandleMessage dispatches one inbound frame and applies its effects.
func (c *Client) HandleMessage(channelName string, raw []byte) {
	effects, err := Dispatch(raw, DispatchOptions{NotifyPermitted: c.opts.NotifyPermitted})
	if err != nil {
		c.logger.Warn("dropping malformed frame", "channel", channelName, "error", err)
		return
	}
	c.Apply(effects)
}

// Apply executes a batch of effects against the owned state.
func (c *Client) Apply(effects []Effect) {
	for _, e := range effects {
		switch e := e.(type) {
		case AppendNotification:
			c.opts.Tray.Push(e.Item)
		case SetUnread:
			c.opts.Tray.SetUnread(e.Count)
		case ShowToast:
			c.opts.Toasts.Show(e.Message, e.Severity, e.Duration)
		case RaiseSystemNotification:
			if c.opts.Notifier != nil {
				c.opts.Notifier.Raise(e.Title, e.Body)
			}
		}
	}
}

// Online reports the connectivity flag.
func (c *Client) Online() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

// SetOnline records a connectivity transition. Going offline suppresses
// dashboard polling (channel reconnects keep trying); coming back online
// surfaces a transient toast and resumes polling with a single immediate
// refresh, regardless of how many ticks were missed.
func (c *Client) SetOnline(online bool) {
	c.mu.Lock()
	was := c.online
	c.online = online
	c.mu.Unlock()
	if was == online {
		return
	}
	if online {
		c.opts.Toasts.Show("Connection restored", tray.SeveritySuccess, TransientToastDuration)
		select {
		case c.resumeCh <- struct{}{}:
		default:
		}
	} else {
		c.logger.Info("connection lost, pausing dashboard refresh")
	}
}

// pollLoop refreshes the dashboard on a fixed cadence while online.
func (c *Client) pollLoop(ctx context.Context) {
	defer close(c.pollDone)
	if c.opts.Poll == nil || c.opts.PollInterval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !c.Online() {
				continue
			}
			c.pollOnce(ctx)
		case <-c.resumeCh:
			c.pollOnce(ctx)
		}
	}
}

func (c *Client) pollOnce(ctx context.Context) {
	if err := c.opts.Poll(ctx); err != nil {
		c.logger.Debug("dashboard refresh failed", "error", err)
	}
}
