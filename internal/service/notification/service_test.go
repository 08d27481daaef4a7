package notification

import (
	"sync"
	"testing"

	"automate-service/internal/domain/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_AddPrependsUnread(t *testing.T) {
	q := NewQueue(nil)
	first := q.Add("first")
	second := q.Add("second")

	list := q.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.False(t, list[0].Read)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, list[0].Timestamp.IsZero())
}

func TestQueue_DuplicatesAreKept(t *testing.T) {
	q := NewQueue(nil)
	q.Add("same")
	q.Add("same")
	assert.Equal(t, 2, q.Len())
}

func TestQueue_RemovePreservesOrder(t *testing.T) {
	q := NewQueue(nil)
	a := q.Add("a")
	b := q.Add("b")
	c := q.Add("c")

	assert.True(t, q.Remove(b.ID))
	list := q.List()
	require.Len(t, list, 2)
	assert.Equal(t, c.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)

	assert.False(t, q.Remove("missing"))
	assert.Equal(t, 2, q.Len())
}

func TestQueue_ClearAndMarkRead(t *testing.T) {
	q := NewQueue(nil)
	a := q.Add("a")
	q.Add("b")

	assert.True(t, q.MarkRead(a.ID))
	assert.Equal(t, 1, q.UnreadCount())
	assert.False(t, q.MarkRead("missing"))

	q.Clear()
	assert.Empty(t, q.List())
	assert.Equal(t, 0, q.UnreadCount())
}

func TestQueue_ObserverSeesEveryChange(t *testing.T) {
	var mu sync.Mutex
	var kinds []notification.EventKind
	q := NewQueue(func(ev notification.Event) {
		mu.Lock()
		kinds = append(kinds, ev.Kind)
		mu.Unlock()
	})

	n := q.Add("hello")
	q.MarkRead(n.ID)
	q.Remove(n.ID)
	q.Clear()

	assert.Equal(t, []notification.EventKind{
		notification.EventAdded,
		notification.EventRead,
		notification.EventRemoved,
		notification.EventCleared,
	}, kinds)
}

func TestQueue_ListIsACopy(t *testing.T) {
	q := NewQueue(nil)
	q.Add("a")
	list := q.List()
	list[0].Message = "changed"
	assert.Equal(t, "a", q.List()[0].Message)
}
