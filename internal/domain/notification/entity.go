// internal/domain/notification/entity.go
package notification

import "time"

// Notification is an ephemeral toast message shown to the session.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
}

type EventKind string

const (
	EventAdded   EventKind = "added"
	EventRemoved EventKind = "removed"
	EventCleared EventKind = "cleared"
	EventRead    EventKind = "read"
)

// Event describes a change to a session's queue.
type Event struct {
	Kind         EventKind     `json:"kind"`
	Notification *Notification `json:"notification,omitempty"`
	ID           string        `json:"id,omitempty"`
	Unread       int           `json:"unread"`
}
