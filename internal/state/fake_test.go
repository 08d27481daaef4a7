package state

import (
	"context"
	"errors"
	"sync"

	"automate-service/internal/demo"
	"automate-service/internal/domain/account"
	"automate-service/internal/domain/booking"
	"automate-service/internal/domain/vehicle"
	"automate-service/internal/gateway"
)

var errRemote = errors.New("remote unavailable")

// fakeGateway records calls and fails those named in failing.
type fakeGateway struct {
	mu      sync.Mutex
	failing map[string]bool
	calls   []string
	release chan struct{}

	profile  account.Account
	vehicles []vehicle.Vehicle
	bookings []booking.Booking
	drivers  []account.Driver

	inserted []booking.Booking
	updates  map[string]booking.Fields
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		failing:  map[string]bool{},
		profile:  account.New(account.RoleUser, account.Profile{ID: "remote-1", Name: "Remote User", Email: "remote@example.com"}),
		vehicles: demo.Vehicles()[:2],
		drivers:  demo.Drivers()[:1],
		bookings: []booking.Booking{{ID: "B1", Type: booking.TypeRental, Status: booking.StatusPending}},
		updates:  map[string]booking.Fields{},
	}
}

func (f *fakeGateway) fail(ops ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, op := range ops {
		f.failing[op] = true
	}
}

func (f *fakeGateway) record(ctx context.Context, op string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	failing, release := f.failing[op], f.release
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if failing {
		return errRemote
	}
	return nil
}

func (f *fakeGateway) called(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeGateway) SignUp(ctx context.Context, _ gateway.SignUpRequest) error {
	return f.record(ctx, "SignUp")
}

func (f *fakeGateway) SignIn(ctx context.Context, email, _ string) (*gateway.Session, error) {
	if err := f.record(ctx, "SignIn"); err != nil {
		return nil, err
	}
	return &gateway.Session{AccessToken: "token", UserID: f.profile.Identity().ID, Email: email}, nil
}

func (f *fakeGateway) SignOut(ctx context.Context, _ *gateway.Session) error {
	return f.record(ctx, "SignOut")
}

func (f *fakeGateway) GetSession(ctx context.Context, s *gateway.Session) (*gateway.Session, error) {
	if err := f.record(ctx, "GetSession"); err != nil {
		return nil, err
	}
	return s, nil
}

func (f *fakeGateway) FetchProfile(ctx context.Context, _ string) (account.Account, error) {
	if err := f.record(ctx, "FetchProfile"); err != nil {
		return nil, err
	}
	return f.profile, nil
}

func (f *fakeGateway) UpdateProfile(ctx context.Context, _ string, _ account.Profile) error {
	return f.record(ctx, "UpdateProfile")
}

func (f *fakeGateway) ListDrivers(ctx context.Context) ([]account.Driver, error) {
	if err := f.record(ctx, "ListDrivers"); err != nil {
		return nil, err
	}
	return append([]account.Driver(nil), f.drivers...), nil
}

func (f *fakeGateway) ListVehicles(ctx context.Context) ([]vehicle.Vehicle, error) {
	if err := f.record(ctx, "ListVehicles"); err != nil {
		return nil, err
	}
	return append([]vehicle.Vehicle(nil), f.vehicles...), nil
}

func (f *fakeGateway) InsertVehicle(ctx context.Context, _ vehicle.Vehicle) error {
	return f.record(ctx, "InsertVehicle")
}

func (f *fakeGateway) DeleteVehicle(ctx context.Context, _ string) error {
	return f.record(ctx, "DeleteVehicle")
}

func (f *fakeGateway) ListBookings(ctx context.Context) ([]booking.Booking, error) {
	if err := f.record(ctx, "ListBookings"); err != nil {
		return nil, err
	}
	return append([]booking.Booking(nil), f.bookings...), nil
}

func (f *fakeGateway) InsertBooking(ctx context.Context, b booking.Booking) error {
	if err := f.record(ctx, "InsertBooking"); err != nil {
		return err
	}
	f.mu.Lock()
	f.inserted = append(f.inserted, b)
	f.mu.Unlock()
	return nil
}

func (f *fakeGateway) UpdateBooking(ctx context.Context, id string, fields booking.Fields) error {
	if err := f.record(ctx, "UpdateBooking"); err != nil {
		return err
	}
	f.mu.Lock()
	f.updates[id] = fields
	f.mu.Unlock()
	return nil
}

// recordingSink keeps every published event.
type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Publish(_ string, ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *recordingSink) types() []EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]EventType, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Type
	}
	return out
}
