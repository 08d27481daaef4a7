package state

import (
	"context"
	"testing"
	"time"

	"automate-service/internal/domain/account"
	"automate-service/internal/domain/booking"
	"automate-service/internal/domain/vehicle"
	"automate-service/internal/gateway"
	xerrors "automate-service/internal/pkg/errors"
	"automate-service/internal/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messages(c *Container) []string {
	var out []string
	for _, n := range c.Notifications() {
		out = append(out, n.Message)
	}
	return out
}

func demoContainer(t *testing.T) (*Container, *session.MemoryStore, *recordingSink) {
	t.Helper()
	store := session.NewMemoryStore()
	sink := &recordingSink{}
	c := New("sid-1", Deps{Store: store, Sink: sink})
	c.Bootstrap(context.Background())
	return c, store, sink
}

func remoteContainer(t *testing.T, gw *fakeGateway) (*Container, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	c := New("sid-2", Deps{Gateway: gw, Store: store, SyncTimeout: time.Second})
	c.Bootstrap(context.Background())
	return c, store
}

func waitTicket(t *testing.T, tk *Ticket) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	select {
	case <-tk.Done():
	case <-ctx.Done():
		t.Fatalf("ticket %s did not resolve", tk.Op)
	}
	return tk.Err()
}

func TestLoginRequiresPassword(t *testing.T) {
	c, _, _ := demoContainer(t)

	err := c.Login(context.Background(), LoginRequest{Email: "a@b.com"})
	require.ErrorIs(t, err, xerrors.ErrPasswordRequired)
	assert.Equal(t, "Password required", err.Error())
	assert.False(t, c.Authenticated())
}

func TestDemoLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("customer", func(t *testing.T) {
		c, store, _ := demoContainer(t)
		require.NoError(t, c.Login(ctx, LoginRequest{Role: account.RoleUser, Email: "jane@example.com", Password: "secret1"}))

		assert.True(t, c.Authenticated())
		a := c.Account()
		assert.Equal(t, account.RoleUser, a.Role())
		assert.Equal(t, "Demo User", a.Identity().Name)
		assert.Equal(t, "jane@example.com", a.Identity().Email)
		assert.Len(t, c.Vehicles(), 6)
		assert.Len(t, c.Drivers(), 3)
		assert.Equal(t, []string{"Demo Mode: Logged in (Local Storage)"}, messages(c))

		snap, err := store.Load(ctx, "sid-1")
		require.NoError(t, err)
		assert.Equal(t, account.RoleUser, snap.Role)
	})

	t.Run("admin keeps name", func(t *testing.T) {
		c, _, _ := demoContainer(t)
		require.NoError(t, c.Login(ctx, LoginRequest{Role: account.RoleAdmin, Email: "boss@example.com", Password: "secret1", Name: "Boss"}))
		_, ok := c.Account().(account.Admin)
		assert.True(t, ok)
		assert.Equal(t, "Boss", c.Account().Identity().Name)
	})

	t.Run("driver uses first fixture driver", func(t *testing.T) {
		c, _, _ := demoContainer(t)
		require.NoError(t, c.Login(ctx, LoginRequest{Role: account.RoleDriver, Email: "x@y.com", Password: "secret1"}))
		d, ok := c.Account().(account.Driver)
		require.True(t, ok)
		assert.Equal(t, "d1", d.ID)
	})
}

func TestBootstrapRestoresDemoSession(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	admin := account.New(account.RoleAdmin, account.Profile{ID: "u1", Name: "Ada"})
	require.NoError(t, store.Save(ctx, "sid-9", session.NewSnapshot(admin)))

	c := New("sid-9", Deps{Store: store})
	c.Bootstrap(ctx)

	assert.True(t, c.Authenticated())
	assert.Equal(t, account.RoleAdmin, c.Account().Role())
	assert.Len(t, c.Vehicles(), 6)
}

func TestLogoutKeepsNotifications(t *testing.T) {
	ctx := context.Background()
	c, store, sink := demoContainer(t)
	require.NoError(t, c.Login(ctx, LoginRequest{Email: "a@b.com", Password: "secret1"}))

	c.Logout(ctx)

	assert.False(t, c.Authenticated())
	assert.True(t, account.IsAnonymous(c.Account()))
	assert.Empty(t, c.Vehicles())
	assert.Empty(t, c.Drivers())
	assert.Len(t, c.Notifications(), 1)
	assert.Contains(t, sink.types(), EventLogout)

	_, err := store.Load(ctx, "sid-1")
	assert.ErrorIs(t, err, xerrors.ErrNoSession)
}

func TestDemoAddBooking(t *testing.T) {
	ctx := context.Background()
	c, _, sink := demoContainer(t)
	require.NoError(t, c.Login(ctx, LoginRequest{Email: "a@b.com", Password: "secret1"}))

	c.AddBooking(ctx, booking.Booking{ID: "OLD", Type: booking.TypeService, Status: booking.StatusPending})
	tk := c.AddBooking(ctx, booking.Booking{ID: "NEW", Type: booking.TypeRental, Status: booking.StatusPending})

	assert.Equal(t, TicketLocal, tk.Status())
	bs := c.Bookings()
	require.Len(t, bs, 2)
	assert.Equal(t, "NEW", bs[0].ID)
	assert.Equal(t, "Booking confirmed! ID: NEW", messages(c)[0])
	assert.Contains(t, sink.types(), EventSync)
}

func TestUpdateBookingStatusMessages(t *testing.T) {
	driver := "d1"
	cases := []struct {
		name   string
		status booking.Status
		update booking.Update
		want   string
	}{
		{"accepted", booking.StatusConfirmed, booking.Update{DriverID: &driver}, "Driver Accepted Booking! Vehicle is on the way."},
		{"confirmed without driver", booking.StatusConfirmed, booking.Update{}, "Booking Confirmed"},
		{"rejected", booking.StatusRejected, booking.Update{}, "Booking Rejected. Please try another vehicle."},
		{"completed", booking.StatusCompleted, booking.Update{}, "Trip Completed. Thank you!"},
		{"cancelled", booking.StatusCancelled, booking.Update{}, "Booking Cancelled"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			c, _, _ := demoContainer(t)
			c.AddBooking(ctx, booking.Booking{ID: "B1", Type: booking.TypeRental, Status: booking.StatusPending})
			before := len(c.Notifications())

			c.UpdateBookingStatus(ctx, "B1", tc.status, tc.update)

			require.Len(t, c.Notifications(), before+1)
			assert.Equal(t, tc.want, messages(c)[0])
			b, ok := c.Booking("B1")
			require.True(t, ok)
			assert.Equal(t, tc.status, b.Status)
		})
	}
}

func TestDriverTripLifecycle(t *testing.T) {
	ctx := context.Background()
	c, _, _ := demoContainer(t)
	require.NoError(t, c.Login(ctx, LoginRequest{Role: account.RoleDriver, Email: "x@y.com", Password: "secret1"}))
	before := c.Account().(account.Driver).TripsCompleted

	c.AddBooking(ctx, booking.Booking{ID: "R1", Type: booking.TypeRental, Status: booking.StatusPending})
	me := "d1"
	c.UpdateBookingStatus(ctx, "R1", booking.StatusConfirmed, booking.Update{DriverID: &me})

	assert.Equal(t, account.DriverOnTrip, c.Account().(account.Driver).Status)
	roster, ok := c.Driver("d1")
	require.True(t, ok)
	assert.Equal(t, account.DriverOnTrip, roster.Status)

	_, err := c.SetDriverStatus(account.DriverOffDuty)
	assert.ErrorIs(t, err, xerrors.ErrDriverOnTrip)
	assert.Equal(t, "Cannot change status while on a trip.", err.Error())

	c.UpdateBookingStatus(ctx, "R1", booking.StatusCompleted, booking.Update{})

	d := c.Account().(account.Driver)
	assert.Equal(t, account.DriverAvailable, d.Status)
	assert.Equal(t, before+1, d.TripsCompleted)

	d, err = c.SetDriverStatus(account.DriverOffDuty)
	require.NoError(t, err)
	assert.Equal(t, account.DriverOffDuty, d.Status)
}

func TestSetDriverStatusRequiresDriver(t *testing.T) {
	c, _, _ := demoContainer(t)
	require.NoError(t, c.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "secret1"}))

	_, err := c.SetDriverStatus(account.DriverAvailable)
	assert.ErrorIs(t, err, xerrors.ErrNotDriver)

	_, err = c.SetDriverStatus(account.DriverOnTrip)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestRateBooking(t *testing.T) {
	ctx := context.Background()
	c, _, _ := demoContainer(t)
	c.AddBooking(ctx, booking.Booking{ID: "B1", Type: booking.TypeRental, Status: booking.StatusCompleted})

	c.RateBooking(ctx, "B1", 4, "Great")
	c.RateBooking(ctx, "missing", 5, "")

	b, _ := c.Booking("B1")
	require.NotNil(t, b.Rating)
	assert.Equal(t, 4, *b.Rating)
	assert.Equal(t, "Great", b.Feedback)
	assert.Equal(t, "Feedback submitted.", messages(c)[0])
	assert.Equal(t, "Feedback submitted.", messages(c)[1])
}

func TestFleetAdmin(t *testing.T) {
	ctx := context.Background()
	c, _, _ := demoContainer(t)
	require.NoError(t, c.Login(ctx, LoginRequest{Role: account.RoleAdmin, Email: "a@b.com", Password: "secret1"}))

	v, _ := c.AddCar(ctx, vehicle.Vehicle{Brand: "Tesla", Model: "Model 3", Available: true})
	assert.NotEmpty(t, v.ID)
	assert.Len(t, c.Vehicles(), 7)

	c.DeleteCar(ctx, v.ID)
	c.DeleteCar(ctx, "c1")
	assert.Len(t, c.Vehicles(), 5)
	_, ok := c.Vehicle("c1")
	assert.False(t, ok)

	c.AddDriver(account.Driver{})
	c.DeleteDriver("d1")
	assert.Len(t, c.Drivers(), 3)
	assert.Equal(t, []string{
		"Driver deletion restricted.",
		"To add a driver, they must Sign Up with the 'Driver' role.",
		"Car removed.",
		"Car removed.",
		"Car added successfully.",
		"Demo Mode: Logged in (Local Storage)",
	}, messages(c))
}

func TestBookRental(t *testing.T) {
	ctx := context.Background()
	c, _, _ := demoContainer(t)
	require.NoError(t, c.Login(ctx, LoginRequest{Email: "a@b.com", Password: "secret1"}))

	b, tk, err := c.BookRental(ctx, RentalOrder{VehicleID: "c1", Mode: booking.QuoteDays, Duration: 2, Payment: booking.Payment{Method: booking.PayCard}})
	require.NoError(t, err)
	assert.Equal(t, TicketLocal, tk.Status())
	assert.Equal(t, booking.StatusConfirmed, b.Status)
	assert.Equal(t, 10400.0, b.TotalCost)
	assert.Equal(t, "u1", b.UserID)

	_, _, err = c.BookRental(ctx, RentalOrder{VehicleID: "nope", Mode: booking.QuoteDays, Duration: 1})
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	parked, _ := c.AddCar(ctx, vehicle.Vehicle{Brand: "Fiat", Model: "Punto", Available: false})
	_, _, err = c.BookRental(ctx, RentalOrder{VehicleID: parked.ID, Mode: booking.QuoteHours, Duration: 1, Payment: booking.Payment{Method: booking.PayAtPickup}})
	assert.ErrorIs(t, err, xerrors.ErrVehicleUnavailable)
}

func TestBookService(t *testing.T) {
	ctx := context.Background()
	c, _, _ := demoContainer(t)
	require.NoError(t, c.Login(ctx, LoginRequest{Email: "a@b.com", Password: "secret1"}))

	b, _, err := c.BookService(ctx, "s2", "c3")
	require.NoError(t, err)
	assert.Equal(t, booking.TypeService, b.Type)
	assert.Equal(t, 1500.0, b.TotalCost)
	msgs := messages(c)
	assert.Equal(t, "Service Request Sent! We will contact you shortly.", msgs[0])
	assert.Equal(t, "Booking confirmed! ID: "+b.ID, msgs[1])

	_, _, err = c.BookService(ctx, "s99", "c3")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestDemoProfileUpdate(t *testing.T) {
	ctx := context.Background()
	c, store, _ := demoContainer(t)
	require.NoError(t, c.Login(ctx, LoginRequest{Role: account.RoleDriver, Email: "x@y.com", Password: "secret1"}))

	name := "Alex J."
	tk := c.UpdateCurrentUser(ctx, account.ProfileUpdate{Name: &name})

	assert.Equal(t, TicketLocal, tk.Status())
	assert.Equal(t, name, c.Account().Identity().Name)
	d, _ := c.Driver("d1")
	assert.Equal(t, name, d.Name)
	assert.Equal(t, "Profile saved (Local Only).", messages(c)[0])

	snap, err := store.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, name, snap.User.Name)
}

func TestRemoteLogin(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	c, store := remoteContainer(t, gw)

	require.NoError(t, c.Login(ctx, LoginRequest{Email: "remote@example.com", Password: "secret1"}))

	assert.True(t, c.Authenticated())
	assert.Equal(t, "remote-1", c.Account().Identity().ID)
	assert.Len(t, c.Vehicles(), 2)
	assert.Len(t, c.Bookings(), 1)
	assert.Equal(t, []string{"Logged in successfully."}, messages(c))

	s, err := store.LoadAuth(ctx, "sid-2")
	require.NoError(t, err)
	assert.Equal(t, "token", s.AccessToken)
}

func TestRemoteLoginErrors(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	gw.fail("SignIn")
	c, _ := remoteContainer(t, gw)

	err := c.Login(ctx, LoginRequest{Email: "a@b.com", Password: "secret1"})
	assert.ErrorIs(t, err, errRemote)
	assert.False(t, c.Authenticated())
	assert.Empty(t, messages(c))
}

func TestRemoteSignUpStaysLoggedOut(t *testing.T) {
	gw := newFakeGateway()
	c, _ := remoteContainer(t, gw)

	require.NoError(t, c.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "secret1", Name: "A", Role: account.RoleDriver, SignUp: true}))
	assert.False(t, c.Authenticated())
	assert.Equal(t, []string{"Account created! Please login."}, messages(c))
	assert.Equal(t, 1, gw.called("SignUp"))
}

func TestRemoteProfileFallback(t *testing.T) {
	gw := newFakeGateway()
	gw.fail("FetchProfile")
	c, _ := remoteContainer(t, gw)

	require.NoError(t, c.Login(context.Background(), LoginRequest{Email: "who@example.com", Password: "secret1"}))

	a := c.Account()
	assert.Equal(t, account.RoleUser, a.Role())
	assert.Equal(t, "remote-1", a.Identity().ID)
	assert.Equal(t, "who@example.com", a.Identity().Email)
	assert.Equal(t, "John Doe", a.Identity().Name)
}

func TestRefreshFallbacks(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	c, _ := remoteContainer(t, gw)
	require.NoError(t, c.Login(ctx, LoginRequest{Email: "a@b.com", Password: "secret1"}))
	require.Len(t, c.Bookings(), 1)

	gw.fail("ListVehicles", "ListDrivers", "ListBookings")
	c.Refresh(ctx)

	assert.Len(t, c.Vehicles(), 6)
	assert.Len(t, c.Drivers(), 3)
	assert.Len(t, c.Bookings(), 1)
}

func TestRemoteBootstrapRestoresSession(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	store := session.NewMemoryStore()
	require.NoError(t, store.SaveAuth(ctx, "sid-3", &gateway.Session{AccessToken: "t", UserID: "remote-1"}))

	c := New("sid-3", Deps{Gateway: gw, Store: store})
	c.Bootstrap(ctx)
	c.Bootstrap(ctx)

	assert.True(t, c.Authenticated())
	assert.Equal(t, 1, gw.called("GetSession"))
	assert.Equal(t, 1, gw.called("ListVehicles"))
}

func TestRemoteProfileUpdateFailureKeepsLocalChange(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	c, _ := remoteContainer(t, gw)
	require.NoError(t, c.Login(ctx, LoginRequest{Email: "a@b.com", Password: "secret1"}))
	gw.fail("UpdateProfile")

	bio := "New bio"
	tk := c.UpdateCurrentUser(ctx, account.ProfileUpdate{Bio: &bio})
	assert.Equal(t, bio, c.Account().Identity().Bio)

	err := waitTicket(t, tk)
	assert.ErrorIs(t, err, errRemote)
	assert.Equal(t, TicketFailed, tk.Status())
	assert.Equal(t, bio, c.Account().Identity().Bio)
	assert.Equal(t, "Saved locally (DB sync failed).", messages(c)[0])
}

func TestRemoteProfileUpdateSuccess(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	c, _ := remoteContainer(t, gw)
	require.NoError(t, c.Login(ctx, LoginRequest{Email: "a@b.com", Password: "secret1"}))

	name := "Renamed"
	tk := c.UpdateCurrentUser(ctx, account.ProfileUpdate{Name: &name})

	require.NoError(t, waitTicket(t, tk))
	assert.Equal(t, TicketSynced, tk.Status())
	assert.Equal(t, "Profile saved.", messages(c)[0])
}

func TestRemoteBookingSync(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	c, _ := remoteContainer(t, gw)
	require.NoError(t, c.Login(ctx, LoginRequest{Email: "a@b.com", Password: "secret1"}))

	tk := c.AddBooking(ctx, booking.Booking{ID: "N1", Type: booking.TypeRental, Status: booking.StatusPending})
	require.NoError(t, waitTicket(t, tk))
	require.Len(t, gw.inserted, 1)
	assert.Equal(t, "N1", gw.inserted[0].ID)

	driver := "d1"
	tk = c.UpdateBookingStatus(ctx, "N1", booking.StatusConfirmed, booking.Update{DriverID: &driver})
	require.NoError(t, waitTicket(t, tk))
	fields := gw.updates["N1"]
	require.NotNil(t, fields.Status)
	assert.Equal(t, booking.StatusConfirmed, *fields.Status)
	require.NotNil(t, fields.DriverID)
	assert.Equal(t, "d1", *fields.DriverID)

	found, ok := c.Ticket(tk.ID)
	assert.True(t, ok)
	assert.Same(t, tk, found)
}

func TestSyncSurvivesCanceledRequest(t *testing.T) {
	gw := newFakeGateway()
	c, _ := remoteContainer(t, gw)
	require.NoError(t, c.Login(context.Background(), LoginRequest{Email: "a@b.com", Password: "secret1"}))

	ctx, cancel := context.WithCancel(context.Background())
	tk := c.AddBooking(ctx, booking.Booking{ID: "N2", Type: booking.TypeService, Status: booking.StatusPending})
	cancel()

	require.NoError(t, waitTicket(t, tk))
	assert.Equal(t, TicketSynced, tk.Status())
}

func TestCloseWaitsForInflightSyncs(t *testing.T) {
	ctx := context.Background()
	gw := newFakeGateway()
	c, _ := remoteContainer(t, gw)
	require.NoError(t, c.Login(ctx, LoginRequest{Email: "a@b.com", Password: "secret1"}))

	gw.mu.Lock()
	gw.release = make(chan struct{})
	release := gw.release
	gw.mu.Unlock()

	tk := c.DeleteCar(ctx, "c1")
	assert.Equal(t, TicketPending, tk.Status())

	closed := make(chan struct{})
	go func() {
		c.Close()
		close(closed)
	}()
	close(release)
	<-closed

	assert.Equal(t, TicketSynced, tk.Status())

	late := c.DeleteCar(ctx, "c2")
	assert.Equal(t, TicketFailed, late.Status())
	assert.ErrorIs(t, late.Err(), errClosed)
}

func TestNotificationPassthroughs(t *testing.T) {
	c, _, sink := demoContainer(t)

	first := c.AddNotification("first")
	second := c.AddNotification("second")
	assert.Equal(t, 2, c.UnreadCount())

	require.True(t, c.MarkNotificationRead(first.ID))
	assert.Equal(t, 1, c.UnreadCount())

	require.True(t, c.RemoveNotification(second.ID))
	assert.False(t, c.RemoveNotification(second.ID))
	require.Len(t, c.Notifications(), 1)
	assert.Equal(t, first.ID, c.Notifications()[0].ID)

	c.ClearNotifications()
	assert.Empty(t, c.Notifications())
	assert.Contains(t, sink.types(), EventNotification)
}

func TestUpdateBookingStatusIgnoresEmptyDriver(t *testing.T) {
	ctx := context.Background()
	c, _, _ := demoContainer(t)
	require.NoError(t, c.Login(ctx, LoginRequest{Email: "a@b.com", Password: "secret1"}))
	c.AddBooking(ctx, booking.Booking{ID: "R1", Type: booking.TypeRental, Status: booking.StatusPending})

	d1 := "d1"
	c.UpdateBookingStatus(ctx, "R1", booking.StatusConfirmed, booking.Update{DriverID: &d1})

	empty := ""
	c.UpdateBookingStatus(ctx, "R1", booking.StatusConfirmed, booking.Update{DriverID: &empty})

	assert.Equal(t, "Booking Confirmed", messages(c)[0])
	b, ok := c.Booking("R1")
	require.True(t, ok)
	assert.Equal(t, "d1", b.DriverID)
	d, ok := c.Driver("d1")
	require.True(t, ok)
	assert.Equal(t, account.DriverOnTrip, d.Status)
}

func TestReassignedRentalReleasesPreviousDriver(t *testing.T) {
	ctx := context.Background()
	c, _, _ := demoContainer(t)
	require.NoError(t, c.Login(ctx, LoginRequest{Email: "a@b.com", Password: "secret1"}))
	c.AddBooking(ctx, booking.Booking{ID: "R1", Type: booking.TypeRental, Status: booking.StatusPending})

	d1, d3 := "d1", "d3"
	c.UpdateBookingStatus(ctx, "R1", booking.StatusConfirmed, booking.Update{DriverID: &d1})
	c.UpdateBookingStatus(ctx, "R1", booking.StatusConfirmed, booking.Update{DriverID: &d3})

	first, ok := c.Driver("d1")
	require.True(t, ok)
	assert.Equal(t, account.DriverAvailable, first.Status)

	second, ok := c.Driver("d3")
	require.True(t, ok)
	assert.Equal(t, account.DriverOnTrip, second.Status)
}
