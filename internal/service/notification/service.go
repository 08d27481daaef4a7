// Package notification keeps a session's transient toast messages.
package notification

import (
	"sync"
	"time"

	"automate-service/internal/domain/notification"

	"github.com/oklog/ulid/v2"
)

// Observer receives every queue change after it is applied.
type Observer func(notification.Event)

// Queue is a most-recent-first list of notifications. It never dedupes,
// never rate limits and never persists.
type Queue struct {
	mu       sync.Mutex
	items    []notification.Notification
	observer Observer
}

func NewQueue(observer Observer) *Queue {
	return &Queue{observer: observer}
}

func (q *Queue) emit(ev notification.Event) {
	if q.observer != nil {
		q.observer(ev)
	}
}

func (q *Queue) unreadLocked() int {
	n := 0
	for _, it := range q.items {
		if !it.Read {
			n++
		}
	}
	return n
}

// Add prepends an unread notification and returns it.
func (q *Queue) Add(message string) notification.Notification {
	n := notification.Notification{
		ID:        ulid.Make().String(),
		Message:   message,
		Timestamp: time.Now(),
	}

	q.mu.Lock()
	q.items = append([]notification.Notification{n}, q.items...)
	unread := q.unreadLocked()
	q.mu.Unlock()

	added := n
	q.emit(notification.Event{Kind: notification.EventAdded, Notification: &added, ID: n.ID, Unread: unread})
	return n
}

// Remove drops the entry with id, keeping the order of the rest.
func (q *Queue) Remove(id string) bool {
	q.mu.Lock()
	idx := -1
	for i, it := range q.items {
		if it.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items[:idx:idx], q.items[idx+1:]...)
	unread := q.unreadLocked()
	q.mu.Unlock()

	q.emit(notification.Event{Kind: notification.EventRemoved, ID: id, Unread: unread})
	return true
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()

	q.emit(notification.Event{Kind: notification.EventCleared})
}

// MarkRead flags the entry with id as read.
func (q *Queue) MarkRead(id string) bool {
	q.mu.Lock()
	found := false
	for i := range q.items {
		if q.items[i].ID == id {
			q.items[i].Read = true
			found = true
			break
		}
	}
	unread := q.unreadLocked()
	q.mu.Unlock()

	if found {
		q.emit(notification.Event{Kind: notification.EventRead, ID: id, Unread: unread})
	}
	return found
}

// List returns a copy of the queue, newest first.
func (q *Queue) List() []notification.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]notification.Notification(nil), q.items...)
}

func (q *Queue) UnreadCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.unreadLocked()
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
