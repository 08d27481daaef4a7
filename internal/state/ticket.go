package state

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type TicketStatus string

const (
	TicketPending TicketStatus = "pending"
	TicketSynced  TicketStatus = "synced"
	TicketFailed  TicketStatus = "failed"
	// TicketLocal resolves demo-mode mutations that have no remote side.
	TicketLocal TicketStatus = "local"
)

// Ticket tracks the remote half of an optimistic mutation. The local change
// is already visible when the ticket is handed out.
type Ticket struct {
	ID      string
	Op      string
	Created time.Time

	done chan struct{}

	mu       sync.Mutex
	status   TicketStatus
	err      error
	resolved time.Time
}

func newTicket(op string) *Ticket {
	return &Ticket{
		ID:      ulid.Make().String(),
		Op:      op,
		Created: time.Now(),
		done:    make(chan struct{}),
		status:  TicketPending,
	}
}

func localTicket(op string) *Ticket {
	t := newTicket(op)
	t.resolve(TicketLocal, nil)
	return t
}

func (t *Ticket) resolve(status TicketStatus, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != TicketPending {
		return
	}
	t.status = status
	t.err = err
	t.resolved = time.Now()
	close(t.done)
}

// Done is closed once the remote call has finished.
func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// Err is the remote failure, nil while pending or on success.
func (t *Ticket) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Ticket) Status() TicketStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Wait blocks until the ticket resolves or ctx ends.
func (t *Ticket) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SyncEvent is the published form of a ticket.
type SyncEvent struct {
	TicketID   string       `json:"ticketId"`
	Op         string       `json:"op"`
	Status     TicketStatus `json:"status"`
	Error      string       `json:"error,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	ResolvedAt *time.Time   `json:"resolvedAt,omitempty"`
}

func (t *Ticket) Event() SyncEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	ev := SyncEvent{TicketID: t.ID, Op: t.Op, Status: t.status, CreatedAt: t.Created}
	if t.err != nil {
		ev.Error = t.err.Error()
	}
	if !t.resolved.IsZero() {
		r := t.resolved
		ev.ResolvedAt = &r
	}
	return ev
}

func (t *Ticket) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Event())
}
