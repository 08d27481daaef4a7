package state

import "automate-service/internal/domain/notification"

type EventType string

const (
	EventSync         EventType = "sync"
	EventNotification EventType = "notification"
	EventLogout       EventType = "session:logout"
)

// Event is pushed to a session's listeners. Data is a SyncEvent, a
// notification.Event, or nil for logout.
type Event struct {
	Type EventType
	Data interface{}
}

// EventSink fans events out to a session's connected clients. Publish must
// not block.
type EventSink interface {
	Publish(sid string, ev Event)
}

type nopSink struct{}

func (nopSink) Publish(string, Event) {}

func notificationEvent(ev notification.Event) Event {
	return Event{Type: EventNotification, Data: ev}
}
