// Package notify raises now-playing desktop notifications over D-Bus.
package notify

// Urgency is the freedesktop notification priority.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Notification is one message for the notification daemon. ReplacesID
// chains updates: passing the ID of an earlier notification swaps its
// content in place, so skipping through tracks does not stack bubbles.
type Notification struct {
	Title      string
	Body       string
	Timeout    int32 // ms; -1 = server default, 0 = never expire
	ReplacesID uint32
	Urgency    Urgency
}

// Notifier delivers notifications. Notify returns the server-assigned
// ID, or 0 when notifications are unavailable.
type Notifier interface {
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}
