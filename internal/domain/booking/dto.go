// internal/domain/booking/dto.go
package booking

import (
	"fmt"
	"time"

	xerrors "automate-service/internal/pkg/errors"
)

// CreateRequest records a fully formed booking as submitted.
type CreateRequest struct {
	ID        string     `json:"id"`
	CarID     string     `json:"carId"`
	ServiceID string     `json:"serviceId"`
	Type      Type       `json:"type" binding:"required"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
	TotalCost float64    `json:"totalCost" binding:"gte=0"`
	Status    Status     `json:"status"`
	Location  string     `json:"location"`
	Notes     string     `json:"notes"`
}

// ToBooking validates r and fills in id, start and status when absent.
func (r CreateRequest) ToBooking(userID string, now time.Time) (Booking, error) {
	if !r.Type.Valid() {
		return Booking{}, fmt.Errorf("%w: unknown booking type %q", xerrors.ErrInvalidInput, r.Type)
	}
	status := r.Status
	if status == "" {
		status = StatusPending
	}
	if !status.ValidFor(r.Type) {
		return Booking{}, fmt.Errorf("%w: status %q does not apply to %s bookings", xerrors.ErrInvalidInput, status, r.Type)
	}
	b := Booking{
		ID:        r.ID,
		UserID:    userID,
		CarID:     r.CarID,
		ServiceID: r.ServiceID,
		Type:      r.Type,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		TotalCost: r.TotalCost,
		Status:    status,
		Location:  r.Location,
		Notes:     r.Notes,
	}
	if b.ID == "" {
		b.ID = NewID()
	}
	if b.StartDate.IsZero() {
		b.StartDate = now
	}
	return b, nil
}

// RentalBookingRequest books a car from the fleet.
type RentalBookingRequest struct {
	CarID    string        `json:"carId" binding:"required"`
	Mode     QuoteMode     `json:"mode" binding:"required,oneof=hours days"`
	Duration int           `json:"duration" binding:"required,min=1"`
	Payment  PaymentMethod `json:"paymentMethod" binding:"required,oneof=pickup card upi netbanking"`
	Bank     string        `json:"bank"`
}

// ServiceBookingRequest asks for a maintenance job on a car.
type ServiceBookingRequest struct {
	ServiceID string `json:"serviceId" binding:"required"`
	CarID     string `json:"carId" binding:"required"`
}

// StatusRequest moves a booking to a new status.
type StatusRequest struct {
	Status   Status     `json:"status" binding:"required"`
	DriverID *string    `json:"driverId"`
	Location *string    `json:"location"`
	Notes    *string    `json:"notes"`
	EndDate  *time.Time `json:"endDate"`
}

// Update returns the optional fields of r.
func (r StatusRequest) Update() Update {
	return Update{DriverID: r.DriverID, Location: r.Location, Notes: r.Notes, EndDate: r.EndDate}
}

// Validate checks r against the booking it applies to. A driver may only
// be assigned to rentals.
func (r StatusRequest) Validate(b Booking) error {
	if !r.Status.ValidFor(b.Type) {
		return fmt.Errorf("%w: status %q does not apply to %s bookings", xerrors.ErrInvalidInput, r.Status, b.Type)
	}
	if r.Update().AssignsDriver() && b.Type != TypeRental {
		return fmt.Errorf("%w: drivers can only be assigned to rentals", xerrors.ErrInvalidInput)
	}
	return nil
}

// RatingRequest leaves feedback on a completed booking.
type RatingRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback"`
}
