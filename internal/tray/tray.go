// Package tray holds the in-memory notification queue and unread badge.
//
// The queue is most-recent-first and bounded: once capacity is reached the
// oldest item is evicted. Nothing is persisted; the queue belongs to one
// session and is gone when it ends.
package tray

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity of a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// IsValid checks if the severity is one of the known values.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError:
		return true
	default:
		return false
	}
}

// Item is a single notification.
type Item struct {
	ID        string
	Title     string
	Message   string
	Severity  Severity
	Timestamp time.Time
	Read      bool
}

// DefaultCapacity bounds the queue when no capacity is configured.
const DefaultCapacity = 200

// Tray is the notification queue. Safe for concurrent use.
type Tray struct {
	mu       sync.RWMutex
	items    []Item
	capacity int
	unread   int
}

// New creates a Tray with the given capacity. Non-positive capacities fall
// back to DefaultCapacity.
func New(capacity int) *Tray {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Tray{capacity: capacity}
}

// Push prepends an item and increments the unread badge. An item without
// an ID gets one assigned. The oldest item is evicted at capacity.
func (t *Tray) Push(item Item) Item {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if !item.Severity.IsValid() {
		item.Severity = SeverityInfo
	}
	if item.Timestamp.IsZero() {
		item.Timestamp = time.Now()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append([]Item{item}, t.items...)
	if len(t.items) > t.capacity {
		t.items = t.items[:t.capacity]
	}
	if !item.Read {
		t.unread++
	}
	return item
}

// Unread returns the current unread badge value.
func (t *Tray) Unread() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.unread
}

// SetUnread replaces the badge outright. Server-pushed counts are
// authoritative and override any locally incremented value.
func (t *Tray) SetUnread(n int) {
	if n < 0 {
		n = 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unread = n
}

// Len returns the number of queued items.
func (t *Tray) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.items)
}

// Items returns a snapshot of the queue, most recent first.
func (t *Tray) Items() []Item {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Item(nil), t.items...)
}

// MarkRead marks an item read and decrements the badge. Marking an already
// read item is a no-op, so the operation is idempotent.
func (t *Tray) MarkRead(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.items {
		if t.items[i].ID == id {
			if !t.items[i].Read {
				t.items[i].Read = true
				if t.unread > 0 {
					t.unread--
				}
			}
			return true
		}
	}
	return false
}

// MarkUnread clears the read flag and increments the badge.
func (t *Tray) MarkUnread(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.items {
		if t.items[i].ID == id {
			if t.items[i].Read {
				t.items[i].Read = false
				t.unread++
			}
			return true
		}
	}
	return false
}

// Dismiss removes an item from the queue. Dismissing an unread item also
// decrements the badge.
func (t *Tray) Dismiss(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.items {
		if t.items[i].ID == id {
			if !t.items[i].Read && t.unread > 0 {
				t.unread--
			}
			t.items = append(t.items[:i], t.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the queue and resets the badge.
func (t *Tray) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = nil
	t.unread = 0
}
