package session

import (
	"sync"
	"time"
)

// NotificationTTL is how long a toast stays visible.
const NotificationTTL = 5 * time.Second

// Level is the toast style.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Notification is a transient toast.
type Notification struct {
	Message   string    `json:"message"`
	Level     Level     `json:"level"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifications holds the single visible toast. A new toast replaces the old one.
type Notifications struct {
	mu      sync.Mutex
	current *Notification
	now     func() time.Time
}

func newNotifications(now func() time.Time) *Notifications {
	return &Notifications{now: now}
}

// Show replaces the visible toast.
func (n *Notifications) Show(message string, level Level) Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	note := Notification{
		Message:   message,
		Level:     level,
		ExpiresAt: n.now().Add(NotificationTTL),
	}
	n.current = &note
	return note
}

// Current returns the visible toast, if it has not expired.
func (n *Notifications) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.current == nil {
		return Notification{}, false
	}
	if !n.now().Before(n.current.ExpiresAt) {
		n.current = nil
		return Notification{}, false
	}
	return *n.current, true
}

// Dismiss removes the toast.
func (n *Notifications) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = nil
}
