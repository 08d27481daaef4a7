package dashboard

import (
	"fmt"

	"automate-service/internal/domain/account"
	"automate-service/internal/domain/booking"
	"automate-service/internal/domain/vehicle"
	xerrors "automate-service/internal/pkg/errors"
)

// Bounds of the mock city map.
const (
	mapMinLat = 37.70
	mapMaxLat = 37.82
	mapMinLng = -122.52
	mapMaxLng = -122.37
)

// Position is a marker offset on the mock map, in percent of its size.
type Position struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

func clamp(v float64) float64 {
	return max(5, min(95, v))
}

// MapPosition projects a coordinate onto the mock map, keeping markers
// between 5% and 95% on both axes.
func MapPosition(loc vehicle.Location) Position {
	top := (mapMaxLat - loc.Lat) / (mapMaxLat - mapMinLat) * 100
	left := (loc.Lng - mapMinLng) / (mapMaxLng - mapMinLng) * 100
	return Position{Top: clamp(top), Left: clamp(left)}
}

type FleetEntry struct {
	Vehicle    vehicle.Vehicle    `json:"vehicle"`
	Assessment vehicle.Assessment `json:"assessment"`
	Position   Position           `json:"position"`
}

type FleetOverview struct {
	Vehicles     []FleetEntry `json:"vehicles"`
	NeedsService int          `json:"needsService"`
	Available    int          `json:"available"`
}

// Fleet assesses every vehicle and places it on the map.
func Fleet(vehicles []vehicle.Vehicle) FleetOverview {
	out := FleetOverview{Vehicles: make([]FleetEntry, 0, len(vehicles))}
	for _, v := range vehicles {
		a := vehicle.Assess(v)
		if !a.Healthy {
			out.NeedsService++
		}
		if v.Available {
			out.Available++
		}
		out.Vehicles = append(out.Vehicles, FleetEntry{
			Vehicle:    v.Clone(),
			Assessment: a,
			Position:   MapPosition(v.Location),
		})
	}
	return out
}

const (
	defaultCurrentLocation = "Current Location"
	defaultDestination     = "Destination"
)

// Tracking is the live view of one booking.
type Tracking struct {
	Reference       string          `json:"reference"`
	Booking         booking.Booking `json:"booking"`
	Vehicle         vehicle.Vehicle `json:"vehicle"`
	VehicleLabel    string          `json:"vehicleLabel"`
	CurrentLocation string          `json:"currentLocation"`
	Destination     string          `json:"destination"`
	Position        Position        `json:"position"`
	Driver          *account.Driver `json:"driver,omitempty"`
}

// Track builds the tracking view for b. The booked car must be in vehicles.
func Track(b booking.Booking, vehicles []vehicle.Vehicle, drivers []account.Driver) (Tracking, error) {
	v := findVehicle(vehicles, b.CarID)
	if v == nil {
		return Tracking{}, fmt.Errorf("%w: vehicle %s for booking %s", xerrors.ErrNotFound, b.CarID, b.ID)
	}

	ref := b.ID
	if len(ref) > 8 {
		ref = ref[len(ref)-8:]
	}
	current := v.Location.Name
	if current == "" {
		current = defaultCurrentLocation
	}
	dest := b.Location
	if dest == "" {
		dest = defaultDestination
	}

	return Tracking{
		Reference:       ref,
		Booking:         b.Clone(),
		Vehicle:         *v,
		VehicleLabel:    v.Label(),
		CurrentLocation: current,
		Destination:     dest,
		Position:        MapPosition(v.Location),
		Driver:          findDriver(drivers, b.DriverID),
	}, nil
}
