package state

import (
	"context"
	"fmt"
	"time"

	"automate-service/internal/demo"
	"automate-service/internal/domain/account"
	"automate-service/internal/domain/booking"
	"automate-service/internal/domain/notification"
	"automate-service/internal/domain/vehicle"
	xerrors "automate-service/internal/pkg/errors"
	"automate-service/internal/pkg/session"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Operation names carried by tickets and sync metrics.
const (
	OpUpdateProfile = "update_profile"
	OpAddBooking    = "add_booking"
	OpUpdateStatus  = "update_booking_status"
	OpRateBooking   = "rate_booking"
	OpAddCar        = "add_car"
	OpDeleteCar     = "delete_car"
)

const (
	msgProfileSaved     = "Profile saved."
	msgProfileLocalOnly = "Profile saved (Local Only)."
	msgProfileSyncFail  = "Saved locally (DB sync failed)."
	msgDriverAccepted   = "Driver Accepted Booking! Vehicle is on the way."
	msgBookingRejected  = "Booking Rejected. Please try another vehicle."
	msgTripCompleted    = "Trip Completed. Thank you!"
	msgFeedback         = "Feedback submitted."
	msgCarAdded         = "Car added successfully."
	msgCarRemoved       = "Car removed."
	msgAddDriver        = "To add a driver, they must Sign Up with the 'Driver' role."
	msgDeleteDriver     = "Driver deletion restricted."
	msgServiceRequested = "Service Request Sent! We will contact you shortly."
)

// UpdateCurrentUser merges u into the signed-in profile.
func (c *Container) UpdateCurrentUser(ctx context.Context, u account.ProfileUpdate) *Ticket {
	c.touch()
	c.mu.Lock()
	p := u.Apply(c.current.Identity())
	c.current = account.WithProfile(c.current, p)
	if d, ok := c.current.(account.Driver); ok {
		c.updateDriverLocked(d.ID, func(r *account.Driver) { r.Profile = d.Profile })
	}
	updated := c.current

	if c.gw == nil {
		t := c.localLocked(OpUpdateProfile)
		c.mu.Unlock()
		if err := c.store.Save(ctx, c.sid, session.NewSnapshot(updated)); err != nil {
			c.logger.Warn("failed to persist demo session", zap.Error(err))
		}
		c.notify(msgProfileLocalOnly)
		return t
	}

	t := c.dispatchLocked(ctx, OpUpdateProfile,
		func(ctx context.Context) error { return c.gw.UpdateProfile(ctx, p.ID, p) },
		func(err error) {
			if err != nil {
				c.notify(msgProfileSyncFail)
				return
			}
			c.notify(msgProfileSaved)
		},
	)
	c.mu.Unlock()
	return t
}

// AddBooking prepends b and inserts it remotely.
func (c *Container) AddBooking(ctx context.Context, b booking.Booking) *Ticket {
	c.touch()
	c.mu.Lock()
	c.bookings = append([]booking.Booking{b.Clone()}, c.bookings...)
	if b.Type == booking.TypeRental && b.Status == booking.StatusConfirmed && b.DriverID != "" {
		c.settleDriverLocked(booking.Booking{}, b)
	}
	row := b.Clone()
	t := c.dispatchLocked(ctx, OpAddBooking,
		func(ctx context.Context) error { return c.gw.InsertBooking(ctx, row) }, nil)
	c.mu.Unlock()

	c.notify("Booking confirmed! ID: " + b.ID)
	return t
}

// UpdateBookingStatus sets status and the fields of u on every booking with
// the given id. A missing id still notifies and syncs.
func (c *Container) UpdateBookingStatus(ctx context.Context, id string, status booking.Status, u booking.Update) *Ticket {
	c.touch()
	c.mu.Lock()
	for i, b := range c.bookings {
		if b.ID != id {
			continue
		}
		next := u.Apply(b, status)
		c.bookings[i] = next
		c.settleDriverLocked(b, next)
	}

	fields := booking.Fields{Status: &status}
	if u.AssignsDriver() {
		driverID := *u.DriverID
		fields.DriverID = &driverID
	}
	t := c.dispatchLocked(ctx, OpUpdateStatus,
		func(ctx context.Context) error { return c.gw.UpdateBooking(ctx, id, fields) }, nil)
	c.mu.Unlock()

	c.notify(statusMessage(status, u))
	return t
}

func statusMessage(status booking.Status, u booking.Update) string {
	switch {
	case status == booking.StatusConfirmed && u.AssignsDriver():
		return msgDriverAccepted
	case status == booking.StatusRejected:
		return msgBookingRejected
	case status == booking.StatusCompleted:
		return msgTripCompleted
	}
	return fmt.Sprintf("Booking %s", status)
}

// settleDriverLocked keeps the assigned driver's status in line with a
// booking transition from before to after. Caller holds c.mu.
func (c *Container) settleDriverLocked(before, after booking.Booking) {
	if before.Type == booking.TypeRental && before.DriverID != "" && before.DriverID != after.DriverID {
		c.releaseDriverLocked(before.DriverID)
	}
	if after.Type != booking.TypeRental || after.DriverID == "" {
		return
	}
	if before.Status == after.Status && before.DriverID == after.DriverID {
		return
	}

	switch {
	case after.Status == booking.StatusConfirmed:
		c.updateDriverLocked(after.DriverID, func(d *account.Driver) {
			d.Status = account.DriverOnTrip
		})
	case after.Status.Terminal():
		free := !c.onTripLocked(after.DriverID)
		completed := after.Status == booking.StatusCompleted
		c.updateDriverLocked(after.DriverID, func(d *account.Driver) {
			if free && d.Status == account.DriverOnTrip {
				d.Status = account.DriverAvailable
			}
			if completed {
				d.TripsCompleted++
			}
		})
	}
}

// releaseDriverLocked puts an ON_TRIP driver back to AVAILABLE once no
// confirmed rental is assigned to them. Caller holds c.mu.
func (c *Container) releaseDriverLocked(driverID string) {
	if c.onTripLocked(driverID) {
		return
	}
	c.updateDriverLocked(driverID, func(d *account.Driver) {
		if d.Status == account.DriverOnTrip {
			d.Status = account.DriverAvailable
		}
	})
}

// onTripLocked reports whether driverID holds a confirmed rental.
func (c *Container) onTripLocked(driverID string) bool {
	for _, b := range c.bookings {
		if b.Type == booking.TypeRental && b.DriverID == driverID && b.Status == booking.StatusConfirmed {
			return true
		}
	}
	return false
}

// updateDriverLocked applies fn to the roster entry and, when it is the
// signed-in driver, to the current account. Caller holds c.mu.
func (c *Container) updateDriverLocked(id string, fn func(*account.Driver)) {
	for i := range c.drivers {
		if c.drivers[i].ID == id {
			fn(&c.drivers[i])
		}
	}
	if d, ok := c.current.(account.Driver); ok && d.ID == id {
		fn(&d)
		c.current = d
	}
}

// RateBooking records a rating and feedback. Unknown ids are ignored locally.
func (c *Container) RateBooking(ctx context.Context, id string, rating int, feedback string) *Ticket {
	c.touch()
	c.mu.Lock()
	for i := range c.bookings {
		if c.bookings[i].ID == id {
			r := rating
			c.bookings[i].Rating = &r
			c.bookings[i].Feedback = feedback
		}
	}
	fields := booking.Fields{Rating: &rating, Feedback: &feedback}
	t := c.dispatchLocked(ctx, OpRateBooking,
		func(ctx context.Context) error { return c.gw.UpdateBooking(ctx, id, fields) }, nil)
	c.mu.Unlock()

	c.notify(msgFeedback)
	return t
}

// AddCar appends v to the fleet, assigning an id when it has none.
func (c *Container) AddCar(ctx context.Context, v vehicle.Vehicle) (vehicle.Vehicle, *Ticket) {
	c.touch()
	if v.ID == "" {
		v.ID = ulid.Make().String()
	}
	row := v.Clone()

	c.mu.Lock()
	c.vehicles = append(c.vehicles, v.Clone())
	t := c.dispatchLocked(ctx, OpAddCar,
		func(ctx context.Context) error { return c.gw.InsertVehicle(ctx, row) }, nil)
	c.mu.Unlock()

	c.notify(msgCarAdded)
	return v, t
}

// DeleteCar removes every vehicle with the given id.
func (c *Container) DeleteCar(ctx context.Context, id string) *Ticket {
	c.touch()
	c.mu.Lock()
	kept := c.vehicles[:0]
	for _, v := range c.vehicles {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	c.vehicles = kept
	t := c.dispatchLocked(ctx, OpDeleteCar,
		func(ctx context.Context) error { return c.gw.DeleteVehicle(ctx, id) }, nil)
	c.mu.Unlock()

	c.notify(msgCarRemoved)
	return t
}

// AddDriver does not create drivers; drivers self-register.
func (c *Container) AddDriver(account.Driver) {
	c.touch()
	c.notify(msgAddDriver)
}

// DeleteDriver is not permitted.
func (c *Container) DeleteDriver(string) {
	c.touch()
	c.notify(msgDeleteDriver)
}

// SetDriverStatus changes the signed-in driver's availability. Only
// AVAILABLE and OFF_DUTY can be chosen, and not while a trip is active.
func (c *Container) SetDriverStatus(status account.DriverStatus) (account.Driver, error) {
	c.touch()
	if status != account.DriverAvailable && status != account.DriverOffDuty {
		return account.Driver{}, fmt.Errorf("%w: status %q cannot be set manually", xerrors.ErrInvalidInput, status)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.current.(account.Driver)
	if !ok {
		return account.Driver{}, xerrors.ErrNotDriver
	}
	if c.onTripLocked(d.ID) {
		return d, xerrors.ErrDriverOnTrip
	}
	c.updateDriverLocked(d.ID, func(r *account.Driver) { r.Status = status })
	return c.current.(account.Driver), nil
}

// RentalOrder is a rental request against a vehicle in the session's fleet.
type RentalOrder struct {
	VehicleID string
	Mode      booking.QuoteMode
	Duration  int
	Payment   booking.Payment
}

// BookRental prices and records a rental for the signed-in account.
func (c *Container) BookRental(ctx context.Context, o RentalOrder) (booking.Booking, *Ticket, error) {
	v, ok := c.Vehicle(o.VehicleID)
	if !ok {
		return booking.Booking{}, nil, fmt.Errorf("%w: vehicle %s", xerrors.ErrNotFound, o.VehicleID)
	}
	b, err := booking.NewRental(booking.RentalRequest{
		UserID:   c.Account().Identity().ID,
		Vehicle:  v,
		Mode:     o.Mode,
		Duration: o.Duration,
		Payment:  o.Payment,
	}, time.Now())
	if err != nil {
		return booking.Booking{}, nil, err
	}
	return b, c.AddBooking(ctx, b), nil
}

// BookService records a pending maintenance job for one of the fleet's cars.
func (c *Container) BookService(ctx context.Context, serviceID, carID string) (booking.Booking, *Ticket, error) {
	svc, ok := demo.ServiceType(serviceID)
	if !ok {
		return booking.Booking{}, nil, fmt.Errorf("%w: service %s", xerrors.ErrNotFound, serviceID)
	}
	if _, ok := c.Vehicle(carID); !ok {
		return booking.Booking{}, nil, fmt.Errorf("%w: vehicle %s", xerrors.ErrNotFound, carID)
	}
	b := booking.NewService(c.Account().Identity().ID, carID, svc, time.Now())
	t := c.AddBooking(ctx, b)
	c.notify(msgServiceRequested)
	return b, t, nil
}

func (c *Container) Notifications() []notification.Notification {
	c.touch()
	return c.notifications.List()
}

func (c *Container) UnreadCount() int {
	return c.notifications.UnreadCount()
}

func (c *Container) AddNotification(message string) notification.Notification {
	c.touch()
	return c.notify(message)
}

func (c *Container) RemoveNotification(id string) bool {
	c.touch()
	return c.notifications.Remove(id)
}

func (c *Container) ClearNotifications() {
	c.touch()
	c.notifications.Clear()
}

func (c *Container) MarkNotificationRead(id string) bool {
	c.touch()
	return c.notifications.MarkRead(id)
}
