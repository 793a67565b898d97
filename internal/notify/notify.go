// Package notify sends desktop notifications for long-running soundboard
// work such as pack imports.
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
	Title      string // summary, required
	Body       string // optional, basic markup allowed
	Icon       string // icon name or image path
	Timeout    int32  // ms; -1 server default, 0 never expires
	ReplacesID uint32 // >0 replaces a shown notification
	Urgency    Urgency
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns its ID. Unavailable notifiers return 0
	// and no error.
	Notify(n Notification) (uint32, error)
	// Close withdraws a shown notification.
	Close(id uint32) error
}

// Discard is a Notifier that shows nothing.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Notification) (uint32, error) { return 0, nil }
func (discard) Close(uint32) error                  { return nil }
