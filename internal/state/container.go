// Package state holds the per-session application state: the signed-in
// account, fleet, drivers, bookings and notifications. Mutations apply
// locally first and reconcile against the remote gateway in the background.
package state

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"automate-service/internal/domain/account"
	"automate-service/internal/domain/booking"
	"automate-service/internal/domain/notification"
	"automate-service/internal/domain/vehicle"
	"automate-service/internal/gateway"
	"automate-service/internal/pkg/metrics"
	"automate-service/internal/pkg/session"
	notifysvc "automate-service/internal/service/notification"

	"go.uber.org/zap"
)

const (
	defaultSyncTimeout = 30 * time.Second
	recentTickets      = 64
)

var errClosed = errors.New("session closed")

// Deps are the collaborators shared by every container.
type Deps struct {
	// Gateway is nil in demo mode.
	Gateway     gateway.Gateway
	Store       session.Store
	Sink        EventSink
	Logger      *zap.Logger
	SyncTimeout time.Duration
}

// Container is one browser session's state. All methods are safe for
// concurrent use; each mutation is atomic and visible to the next read.
// There is no duplicate-submit protection.
type Container struct {
	sid         string
	gw          gateway.Gateway
	store       session.Store
	sink        EventSink
	logger      *zap.Logger
	syncTimeout time.Duration

	mu            sync.RWMutex
	current       account.Account
	authenticated bool
	loading       bool
	authSession   *gateway.Session
	vehicles      []vehicle.Vehicle
	bookings      []booking.Booking
	drivers       []account.Driver
	tickets       []*Ticket
	closed        bool

	notifications *notifysvc.Queue
	bootOnce      sync.Once
	inflight      sync.WaitGroup
	lastUsed      atomic.Int64
}

// New creates a signed-out container for sid. Call Bootstrap before use.
func New(sid string, deps Deps) *Container {
	if deps.Store == nil {
		deps.Store = session.NewMemoryStore()
	}
	if deps.Sink == nil {
		deps.Sink = nopSink{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.SyncTimeout <= 0 {
		deps.SyncTimeout = defaultSyncTimeout
	}

	c := &Container{
		sid:         sid,
		gw:          deps.Gateway,
		store:       deps.Store,
		sink:        deps.Sink,
		logger:      deps.Logger.With(zap.String("session_id", sid)),
		syncTimeout: deps.SyncTimeout,
		current:     account.Anonymous(),
	}
	c.notifications = notifysvc.NewQueue(func(ev notification.Event) {
		c.sink.Publish(c.sid, notificationEvent(ev))
	})
	c.touch()
	return c
}

func (c *Container) SessionID() string { return c.sid }

// Demo reports whether the container runs without a remote gateway.
func (c *Container) Demo() bool { return c.gw == nil }

func (c *Container) touch() {
	c.lastUsed.Store(time.Now().UnixNano())
}

// LastUsed is the time of the most recent operation.
func (c *Container) LastUsed() time.Time {
	return time.Unix(0, c.lastUsed.Load())
}

// View is a deep copy of the container's state.
type View struct {
	SessionID     string                      `json:"sessionId"`
	Account       account.Record              `json:"account"`
	Role          account.Role                `json:"role"`
	Authenticated bool                        `json:"authenticated"`
	Loading       bool                        `json:"loading"`
	DemoMode      bool                        `json:"demoMode"`
	Vehicles      []vehicle.Vehicle           `json:"vehicles"`
	Bookings      []booking.Booking           `json:"bookings"`
	Drivers       []account.Driver            `json:"drivers"`
	Notifications []notification.Notification `json:"notifications"`
}

// Snapshot returns a copy of everything the session can see.
func (c *Container) Snapshot() View {
	c.touch()
	c.mu.RLock()
	v := View{
		SessionID:     c.sid,
		Account:       account.ToRecord(c.current),
		Role:          c.current.Role(),
		Authenticated: c.authenticated,
		Loading:       c.loading,
		DemoMode:      c.gw == nil,
		Vehicles:      cloneVehicles(c.vehicles),
		Bookings:      cloneBookings(c.bookings),
		Drivers:       append([]account.Driver{}, c.drivers...),
	}
	c.mu.RUnlock()
	v.Notifications = c.notifications.List()
	if v.Notifications == nil {
		v.Notifications = []notification.Notification{}
	}
	return v
}

func cloneVehicles(in []vehicle.Vehicle) []vehicle.Vehicle {
	out := make([]vehicle.Vehicle, len(in))
	for i, v := range in {
		out[i] = v.Clone()
	}
	return out
}

func cloneBookings(in []booking.Booking) []booking.Booking {
	out := make([]booking.Booking, len(in))
	for i, b := range in {
		out[i] = b.Clone()
	}
	return out
}

// Account is the current account, the anonymous placeholder when signed out.
func (c *Container) Account() account.Account {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

func (c *Container) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authenticated
}

func (c *Container) Vehicles() []vehicle.Vehicle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneVehicles(c.vehicles)
}

func (c *Container) Vehicle(id string) (vehicle.Vehicle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, v := range c.vehicles {
		if v.ID == id {
			return v.Clone(), true
		}
	}
	return vehicle.Vehicle{}, false
}

func (c *Container) Bookings() []booking.Booking {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneBookings(c.bookings)
}

func (c *Container) Booking(id string) (booking.Booking, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, b := range c.bookings {
		if b.ID == id {
			return b.Clone(), true
		}
	}
	return booking.Booking{}, false
}

func (c *Container) Drivers() []account.Driver {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]account.Driver{}, c.drivers...)
}

func (c *Container) Driver(id string) (account.Driver, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, d := range c.drivers {
		if d.ID == id {
			return d, true
		}
	}
	return account.Driver{}, false
}

// Ticket finds a recently issued ticket by id.
func (c *Container) Ticket(id string) (*Ticket, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tickets {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

func (c *Container) rememberLocked(t *Ticket) {
	c.tickets = append(c.tickets, t)
	if len(c.tickets) > recentTickets {
		c.tickets = c.tickets[len(c.tickets)-recentTickets:]
	}
}

// localLocked issues an already resolved ticket for a demo-mode mutation.
// Caller holds c.mu.
func (c *Container) localLocked(op string) *Ticket {
	t := localTicket(op)
	c.rememberLocked(t)
	c.sink.Publish(c.sid, Event{Type: EventSync, Data: t.Event()})
	return t
}

// dispatchLocked runs call against the gateway in the background and returns
// its ticket. after, if set, runs once call returns and before the ticket
// resolves; it is skipped in demo mode. Caller holds c.mu.
func (c *Container) dispatchLocked(ctx context.Context, op string, call func(context.Context) error, after func(error)) *Ticket {
	if c.gw == nil {
		return c.localLocked(op)
	}

	t := newTicket(op)
	c.rememberLocked(t)
	if c.closed {
		t.resolve(TicketFailed, errClosed)
		return t
	}

	bg := gateway.WithSession(context.WithoutCancel(ctx), c.authSession)
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()

		callCtx, cancel := context.WithTimeout(bg, c.syncTimeout)
		start := time.Now()
		err := call(callCtx)
		cancel()

		status := TicketSynced
		if err != nil {
			status = TicketFailed
			c.logger.Warn("gateway sync failed",
				zap.String("op", op),
				zap.String("ticket_id", t.ID),
				zap.Error(err),
			)
		}
		metrics.RecordSync(op, string(status), time.Since(start))

		if after != nil {
			after(err)
		}
		t.resolve(status, err)
		c.sink.Publish(c.sid, Event{Type: EventSync, Data: t.Event()})
	}()
	return t
}

// Close waits for in-flight syncs. Later mutations still apply locally but
// their tickets fail immediately.
func (c *Container) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.inflight.Wait()
}

func (c *Container) notify(message string) notification.Notification {
	return c.notifications.Add(message)
}
