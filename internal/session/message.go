// Package session implements the live session client: reconnecting realtime
// channels, the notification tray, toast surfacing and dashboard polling.
package session

import (
	"encoding/json"
	"time"

	"github.com/cristianoliveira/wardlink/internal/tray"
)

// Message tags carried in the "type" field of every channel frame.
const (
	TagNotification = "notification"
	TagSystemAlert  = "system_alert"
	TagUnreadCount  = "unread_count"
)

// TransientToastDuration is how long a notification toast stays up.
const TransientToastDuration = 5 * time.Second

// envelope is the wire form of a channel frame.
type envelope struct {
	Type         string          `json:"type"`
	Notification json.RawMessage `json:"notification"`
	Alert        json.RawMessage `json:"alert"`
	Count        *int            `json:"count"`
	Timestamp    string          `json:"timestamp"`
}

type notificationPayload struct {
	ID       string `json:"notification_id"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

type alertPayload struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Effect describes a state change or surface action produced by dispatching
// one inbound message. Dispatch returns effects instead of mutating state so
// the message handling is testable without a live channel.
type Effect interface {
	effect()
}

// AppendNotification prepends an item to the tray and bumps the badge.
type AppendNotification struct {
	Item tray.Item
}

// SetUnread replaces the unread badge with an authoritative server count.
type SetUnread struct {
	Count int
}

// ShowToast surfaces a visual notification. A zero duration is persistent.
type ShowToast struct {
	Message  string
	Severity tray.Severity
	Duration time.Duration
}

// RaiseSystemNotification raises a platform-level notification. Only
// produced when permission was granted beforehand.
type RaiseSystemNotification struct {
	Title string
	Body  string
}

func (AppendNotification) effect()      {}
func (SetUnread) effect()               {}
func (ShowToast) effect()               {}
func (RaiseSystemNotification) effect() {}

// DispatchOptions parameterize Dispatch.
type DispatchOptions struct {
	// NotifyPermitted reports whether platform notification permission was
	// granted; without it no RaiseSystemNotification effect is produced.
	NotifyPermitted bool
	// Now stamps notifications missing a timestamp. Zero means time.Now.
	Now time.Time
}

// Dispatch decodes one inbound frame and returns the effects it implies.
// Unrecognized tags return no effects and no error; malformed JSON returns
// an error. Dispatch never mutates anything.
func Dispatch(raw []byte, opts DispatchOptions) ([]Effect, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	switch env.Type {
	case TagNotification:
		var p notificationPayload
		if len(env.Notification) > 0 {
			if err := json.Unmarshal(env.Notification, &p); err != nil {
				return nil, err
			}
		}
		severity := tray.Severity(p.Severity)
		if !severity.IsValid() {
			severity = tray.SeverityInfo
		}
		item := tray.Item{
			ID:        p.ID,
			Title:     p.Title,
			Message:   p.Message,
			Severity:  severity,
			Timestamp: parseTimestamp(env.Timestamp, now),
		}
		effects := []Effect{
			AppendNotification{Item: item},
			ShowToast{Message: toastText(p.Title, p.Message), Severity: severity, Duration: TransientToastDuration},
		}
		if opts.NotifyPermitted {
			effects = append(effects, RaiseSystemNotification{Title: p.Title, Body: p.Message})
		}
		return effects, nil

	case TagSystemAlert:
		var p alertPayload
		if len(env.Alert) > 0 {
			if err := json.Unmarshal(env.Alert, &p); err != nil {
				return nil, err
			}
		}
		severity := tray.Severity(p.Severity)
		if !severity.IsValid() {
			severity = tray.SeverityWarning
		}
		// Persistent: a system alert stays until explicitly dismissed.
		return []Effect{
			ShowToast{Message: toastText(p.Title, p.Message), Severity: severity, Duration: 0},
		}, nil

	case TagUnreadCount:
		if env.Count == nil {
			return nil, nil
		}
		return []Effect{SetUnread{Count: *env.Count}}, nil

	default:
		return nil, nil
	}
}

func toastText(title, message string) string {
	if title == "" {
		return message
	}
	if message == "" {
		return title
	}
	return title + ": " + message
}

func parseTimestamp(ts string, fallback time.Time) time.Time {
	if ts == "" {
		return fallback
	}
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t
	}
	return fallback
}
