// internal/domain/booking/repository.go
package booking

import "context"

// Repository is the remote bookings table.
type Repository interface {
	ListBookings(ctx context.Context) ([]Booking, error)
	InsertBooking(ctx context.Context, b Booking) error
	UpdateBooking(ctx context.Context, id string, fields Fields) error
}

// Fields is the column set written by UpdateBooking. Nil pointers are left untouched.
type Fields struct {
	Status   *Status
	DriverID *string
	Rating   *int
	Feedback *string
}
