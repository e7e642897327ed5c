// Package toast manages transient and persistent visual notifications.
//
// Toasts stack in a single container in arrival order. A toast with a zero
// duration stays until dismissed; any other duration auto-dismisses by
// first entering a closing state and detaching after a short transition
// window, mirroring a fade-out.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cristianoliveira/wardlink/internal/tray"
)

// State of a single toast.
type State string

const (
	StateVisible State = "visible"
	StateClosing State = "closing"
)

// TransitionWindow is the time a toast spends in the closing state before
// it is detached.
const TransitionWindow = 300 * time.Millisecond

// Toast is one stacked notification.
type Toast struct {
	ID       string
	Message  string
	Severity tray.Severity
	Duration time.Duration
	State    State
	ShownAt  time.Time
}

// Persistent reports whether the toast must be dismissed explicitly.
func (t Toast) Persistent() bool { return t.Duration == 0 }

// Stack is the toast container. Safe for concurrent use. No maximum length
// is enforced on purpose: persistent alerts must all stay visible until
// dismissed.
type Stack struct {
	mu         sync.Mutex
	toasts     []Toast
	timers     map[string]*time.Timer
	transition time.Duration
}

// NewStack creates an empty Stack with the standard transition window.
func NewStack() *Stack {
	return &Stack{timers: make(map[string]*time.Timer), transition: TransitionWindow}
}

// NewStackWithTransition creates a Stack with a custom closing transition,
// used by tests to keep timings short.
func NewStackWithTransition(transition time.Duration) *Stack {
	return &Stack{timers: make(map[string]*time.Timer), transition: transition}
}

// Show appends a toast. duration 0 means persistent; otherwise the toast
// auto-dismisses after duration.
func (s *Stack) Show(message string, severity tray.Severity, duration time.Duration) Toast {
	if !severity.IsValid() {
		severity = tray.SeverityInfo
	}
	t := Toast{
		ID:       uuid.NewString(),
		Message:  message,
		Severity: severity,
		Duration: duration,
		State:    StateVisible,
		ShownAt:  time.Now(),
	}
	s.mu.Lock()
	s.toasts = append(s.toasts, t)
	if duration > 0 {
		id := t.ID
		s.timers[id] = time.AfterFunc(duration, func() { s.beginClose(id) })
	}
	s.mu.Unlock()
	return t
}

// Dismiss removes a toast immediately, cancelling any pending timers.
func (s *Stack) Dismiss(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
	for i := range s.toasts {
		if s.toasts[i].ID == id {
			s.toasts = append(s.toasts[:i], s.toasts[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns a snapshot of the stacked toasts in arrival order.
func (s *Stack) Active() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Toast(nil), s.toasts...)
}

// beginClose transitions a toast to closing, then detaches it after the
// transition window.
func (s *Stack) beginClose(id string) {
	s.mu.Lock()
	found := false
	for i := range s.toasts {
		if s.toasts[i].ID == id {
			s.toasts[i].State = StateClosing
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return
	}
	s.timers[id] = time.AfterFunc(s.transition, func() { s.Dismiss(id) })
	s.mu.Unlock()
}
