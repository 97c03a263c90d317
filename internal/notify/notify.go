// Package notify shows desktop notifications for focus sessions.
package notify

// Urgency is the freedesktop notification urgency level.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification is one desktop notification.
type Notification struct {
	Title      string
	Body       string
	Icon       string // image path or icon name
	Timeout    int32  // ms; -1 lets the server decide, 0 never expires
	ReplacesID uint32 // id of a notification to update in place
	Urgency    Urgency
	Category   string // e.g. "x-neurobeats.task"
	// Transient notifications skip the server's history.
	Transient bool
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns its id, or 0 when nothing was shown.
	Notify(n Notification) (uint32, error)
	// Close withdraws a notification.
	Close(id uint32) error
}

// Noop drops every notification.
type Noop struct{}

func (Noop) Notify(Notification) (uint32, error) { return 0, nil }

func (Noop) Close(uint32) error { return nil }
