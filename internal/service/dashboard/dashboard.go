// Package dashboard derives the read-only views shown to customers, drivers
// and admins from a session's bookings, fleet and roster.
package dashboard

import (
	"automate-service/internal/domain/account"
	"automate-service/internal/domain/booking"
	"automate-service/internal/domain/vehicle"
)

// DriverShare is the part of a fare credited to the driver when no earnings
// figure is on record.
const DriverShare = 0.4

const defaultPickup = "Central Station"

// ActiveRental is a rental under way, with its car and driver when known.
type ActiveRental struct {
	Booking booking.Booking  `json:"booking"`
	Vehicle *vehicle.Vehicle `json:"vehicle,omitempty"`
	Driver  *account.Driver  `json:"driver,omitempty"`
}

type UserDashboard struct {
	TotalTrips     int              `json:"totalTrips"`
	TotalSpend     float64          `json:"totalSpend"`
	Active         *ActiveRental    `json:"active,omitempty"`
	Unrated        *booking.Booking `json:"unrated,omitempty"`
	UnratedVehicle *vehicle.Vehicle `json:"unratedVehicle,omitempty"`
}

func findVehicle(vehicles []vehicle.Vehicle, id string) *vehicle.Vehicle {
	for i := range vehicles {
		if vehicles[i].ID == id {
			v := vehicles[i].Clone()
			return &v
		}
	}
	return nil
}

func findDriver(drivers []account.Driver, id string) *account.Driver {
	if id == "" {
		return nil
	}
	for i := range drivers {
		if drivers[i].ID == id {
			d := drivers[i]
			return &d
		}
	}
	return nil
}

// ForUser summarizes userID's bookings.
func ForUser(userID string, bookings []booking.Booking, vehicles []vehicle.Vehicle, drivers []account.Driver) UserDashboard {
	var d UserDashboard
	for _, b := range bookings {
		if b.UserID != userID {
			continue
		}
		d.TotalSpend += b.TotalCost
		if b.Status == booking.StatusCompleted {
			d.TotalTrips++
			if d.Unrated == nil && !b.Rated() {
				u := b.Clone()
				d.Unrated = &u
				d.UnratedVehicle = findVehicle(vehicles, b.CarID)
			}
		}
		if d.Active == nil && b.Type == booking.TypeRental &&
			(b.Status == booking.StatusConfirmed || b.Status == booking.StatusInProgress) {
			d.Active = &ActiveRental{
				Booking: b.Clone(),
				Vehicle: findVehicle(vehicles, b.CarID),
				Driver:  findDriver(drivers, b.DriverID),
			}
		}
	}
	return d
}

// PendingTrip is a rental request a driver may accept.
type PendingTrip struct {
	Booking booking.Booking `json:"booking"`
	Pickup  string          `json:"pickup"`
}

type DriverDashboard struct {
	Driver    account.Driver    `json:"driver"`
	Pending   *PendingTrip      `json:"pending,omitempty"`
	Active    *booking.Booking  `json:"active,omitempty"`
	Completed []booking.Booking `json:"completed"`
	Earnings  float64           `json:"earnings"`
}

// ForDriver lists the first open request, the active trip and completed
// trips for d. Earnings fall back to DriverShare of completed fares.
func ForDriver(d account.Driver, bookings []booking.Booking) DriverDashboard {
	out := DriverDashboard{Driver: d, Completed: []booking.Booking{}}
	var share float64
	for _, b := range bookings {
		if b.Type != booking.TypeRental {
			continue
		}
		switch {
		case b.Status == booking.StatusConfirmed && b.DriverID == d.ID:
			if out.Active == nil {
				a := b.Clone()
				out.Active = &a
			}
		case b.Status == booking.StatusPending && (b.DriverID == "" || b.DriverID == d.ID):
			if out.Pending == nil {
				pickup := b.Location
				if pickup == "" {
					pickup = defaultPickup
				}
				out.Pending = &PendingTrip{Booking: b.Clone(), Pickup: pickup}
			}
		case b.Status == booking.StatusCompleted && b.DriverID == d.ID:
			out.Completed = append(out.Completed, b.Clone())
			share += b.TotalCost * DriverShare
		}
	}
	out.Earnings = d.Earnings
	if out.Earnings == 0 {
		out.Earnings = share
	}
	if out.Active != nil {
		out.Driver.Status = account.DriverOnTrip
	}
	return out
}
