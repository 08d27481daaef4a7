// internal/domain/booking/entity.go
package booking

import "time"

type Type string
type Status string

const (
	TypeRental  Type = "RENTAL"
	TypeService Type = "SERVICE"
)

// Status values are shared by rentals and service jobs; the stored value is
// the display string.
const (
	StatusPending    Status = "Pending"
	StatusConfirmed  Status = "Confirmed"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
	StatusRejected   Status = "Rejected"
)

func (t Type) Valid() bool {
	return t == TypeRental || t == TypeService
}

// ValidFor reports whether s belongs to the status set of bookings of type t.
func (s Status) ValidFor(t Type) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return t.Valid()
	case StatusConfirmed, StatusRejected:
		return t == TypeRental
	case StatusInProgress:
		return t == TypeService
	}
	return false
}

// Terminal reports whether no further transitions are expected.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRejected
}

// Booking is a rental or a service job.
type Booking struct {
	ID        string     `json:"id"`
	CarID     string     `json:"carId,omitempty"`
	ServiceID string     `json:"serviceId,omitempty"`
	UserID    string     `json:"userId"`
	DriverID  string     `json:"driverId,omitempty"`
	Type      Type       `json:"type"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	TotalCost float64    `json:"totalCost"`
	Status    Status     `json:"status"`
	Location  string     `json:"location,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Rating    *int       `json:"rating,omitempty"`
	Feedback  string     `json:"feedback,omitempty"`
}

// Clone returns a copy that shares no pointers with b.
func (b Booking) Clone() Booking {
	if b.EndDate != nil {
		t := *b.EndDate
		b.EndDate = &t
	}
	if b.Rating != nil {
		r := *b.Rating
		b.Rating = &r
	}
	return b
}

// Rated reports whether feedback has been left.
func (b Booking) Rated() bool {
	return b.Rating != nil
}

// Update carries the optional fields that may change alongside a status.
type Update struct {
	DriverID *string    `json:"driverId,omitempty"`
	Location *string    `json:"location,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
	EndDate  *time.Time `json:"endDate,omitempty"`
}

// AssignsDriver reports whether u names a driver. An empty id assigns no one.
func (u Update) AssignsDriver() bool {
	return u.DriverID != nil && *u.DriverID != ""
}

// Apply sets status and every non-nil field of u on b. An empty driver id
// leaves the current driver in place.
func (u Update) Apply(b Booking, status Status) Booking {
	b.Status = status
	if u.AssignsDriver() {
		b.DriverID = *u.DriverID
	}
	if u.Location != nil {
		b.Location = *u.Location
	}
	if u.Notes != nil {
		b.Notes = *u.Notes
	}
	if u.EndDate != nil {
		t := *u.EndDate
		b.EndDate = &t
	}
	return b
}

// ServiceType is an entry of the maintenance catalog.
type ServiceType struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"basePrice"`
	Icon        string  `json:"icon"`
}
