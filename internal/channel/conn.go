// Package channel maintains resilient realtime channel connections.
//
// Each logical channel (notifications, system status) owns one Conn. A Conn
// dials, reads until the connection drops, waits a fixed per-channel delay
// and dials again, indefinitely. The only way out of the retry loop is an
// explicit Stop.
package channel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cristianoliveira/wardlink/internal/errors"
	"github.com/cristianoliveira/wardlink/internal/logging"
)

// State is the connection lifecycle state.
type State string

const (
	StateConnecting     State = "connecting"
	StateOpen           State = "open"
	StateClosedRetrying State = "closed-retrying"
	StateClosedFinal    State = "closed-final"
)

// MessageConn is a single established connection delivering text frames.
type MessageConn interface {
	// ReadMessage blocks until the next frame or a close/error.
	ReadMessage() ([]byte, error)
	// WriteMessage sends a text frame.
	WriteMessage(data []byte) error
	Close() error
}

// Dialer establishes connections for a Conn.
type Dialer interface {
	Dial(ctx context.Context, url string) (MessageConn, error)
}

// Conn is a reconnecting channel connection.
type Conn struct {
	name       string
	url        string
	retryDelay time.Duration
	dialer     Dialer
	onMessage  func(data []byte)
	logger     logging.Logger

	mu      sync.Mutex
	state   State
	current MessageConn
	stopped bool
	stopCh  chan struct{}
	done    chan struct{}
}

// New creates a Conn for the given channel endpoint. onMessage is invoked
// for every inbound frame, from the connection's read goroutine.
func New(name, url string, retryDelay time.Duration, dialer Dialer, onMessage func([]byte), logger logging.Logger) *Conn {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Conn{
		name:       name,
		url:        url,
		retryDelay: retryDelay,
		dialer:     dialer,
		onMessage:  onMessage,
		logger:     logger.With("channel", name),
		state:      StateConnecting,
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Name returns the channel name.
func (c *Conn) Name() string { return c.name }

// Start launches the connect/read/retry loop. It returns immediately.
func (c *Conn) Start(ctx context.Context) {
	go c.run(ctx)
}

// Send writes a frame on the current connection. Returns ErrChannelClosed
// when the channel is not open.
func (c *Conn) Send(data []byte) error {
	c.mu.Lock()
	mc := c.current
	state := c.state
	c.mu.Unlock()
	if state != StateOpen || mc == nil {
		return fmt.Errorf("%s: %w", c.name, errors.ErrChannelClosed)
	}
	return mc.WriteMessage(data)
}

// Stop tears the connection down and leaves the retry loop. Safe to call
// more than once.
func (c *Conn) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	c.state = StateClosedFinal
	mc := c.current
	c.current = nil
	close(c.stopCh)
	c.mu.Unlock()
	if mc != nil {
		mc.Close()
	}
}

// Done is closed once the run loop has exited.
func (c *Conn) Done() <-chan struct{} { return c.done }

func (c *Conn) run(ctx context.Context) {
	defer close(c.done)
	for {
		if c.isStopped() {
			return
		}
		c.setState(StateConnecting)
		mc, err := c.dialer.Dial(ctx, c.url)
		if err != nil {
			c.logger.Debug("dial failed", "error", err)
			if !c.waitRetry(ctx) {
				return
			}
			continue
		}

		c.mu.Lock()
		if c.stopped {
			// Stop raced with the dial; drop the redundant connection.
			c.mu.Unlock()
			mc.Close()
			return
		}
		c.current = mc
		c.state = StateOpen
		c.mu.Unlock()
		c.logger.Debug("channel open")

		c.readLoop(mc)

		c.mu.Lock()
		c.current = nil
		stopped := c.stopped
		if !stopped {
			c.state = StateClosedRetrying
		}
		c.mu.Unlock()
		if stopped {
			return
		}
		c.logger.Debug("channel closed, scheduling reconnect", "delay", c.retryDelay)
		if !c.waitRetry(ctx) {
			return
		}
	}
}

// readLoop consumes frames until the connection errors or closes.
func (c *Conn) readLoop(mc MessageConn) {
	for {
		data, err := mc.ReadMessage()
		if err != nil {
			mc.Close()
			return
		}
		if c.onMessage != nil {
			c.onMessage(data)
		}
	}
}

// waitRetry sleeps the fixed retry delay. Returns false when the Conn was
// stopped or the context cancelled during the wait.
func (c *Conn) waitRetry(ctx context.Context) bool {
	t := time.NewTimer(c.retryDelay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-c.stopCh:
		return false
	case <-ctx.Done():
		c.Stop()
		return false
	}
}

func (c *Conn) isStopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

func (c *Conn) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.stopped {
		c.state = s
	}
}
