package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"automate-service/internal/domain/account"
	"automate-service/internal/domain/booking"
	"automate-service/internal/domain/vehicle"
)

// Table names in the remote store.
const (
	TableProfiles = "profiles"
	TableCars     = "cars"
	TableBookings = "bookings"
)

// FallbackDriverEmail is shown for driver rows stored without an email.
const FallbackDriverEmail = "driver@test.com"

// ProfileRow is a row of the profiles table. Nullable columns are pointers.
type ProfileRow struct {
	ID             string   `json:"id"`
	Name           *string  `json:"name"`
	Email          *string  `json:"email"`
	Role           *string  `json:"role"`
	Avatar         *string  `json:"avatar"`
	Phone          *string  `json:"phone"`
	Address        *string  `json:"address"`
	Bio            *string  `json:"bio"`
	LicenseNumber  *string  `json:"license_number"`
	Status         *string  `json:"status"`
	Rating         *float64 `json:"rating"`
	TripsCompleted *int     `json:"trips_completed"`
	Earnings       *float64 `json:"earnings"`
	Quote          *string  `json:"quote"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func (r ProfileRow) profile() account.Profile {
	return account.Profile{
		ID:      r.ID,
		Name:    str(r.Name),
		Email:   str(r.Email),
		Avatar:  orDefault(str(r.Avatar), account.DefaultAvatar),
		Phone:   str(r.Phone),
		Address: str(r.Address),
		Bio:     str(r.Bio),
	}
}

// Account maps the row to its account variant. The session email wins over
// the stored one; unknown roles map to a customer.
func (r ProfileRow) Account(email string) account.Account {
	p := r.profile()
	if email != "" {
		p.Email = email
	}
	role, err := account.ParseRole(str(r.Role))
	if err != nil {
		role = account.RoleUser
	}
	if role != account.RoleDriver {
		return account.New(role, p)
	}
	d := r.Driver()
	d.Profile = p
	return d
}

// Driver maps the row to a roster entry with defaults for missing columns.
func (r ProfileRow) Driver() account.Driver {
	p := r.profile()
	p.Email = orDefault(p.Email, FallbackDriverEmail)

	d := account.Driver{
		Profile:       p,
		LicenseNumber: str(r.LicenseNumber),
		Status:        account.DriverStatus(str(r.Status)),
		Rating:        account.DefaultDriverRating,
		Quote:         str(r.Quote),
	}
	if !d.Status.Valid() {
		d.Status = account.DriverAvailable
	}
	if r.Rating != nil && *r.Rating != 0 {
		d.Rating = *r.Rating
	}
	if r.TripsCompleted != nil {
		d.TripsCompleted = *r.TripsCompleted
	}
	if r.Earnings != nil {
		d.Earnings = *r.Earnings
	}
	return d
}

// ProfilePatch is the column set written on a profile edit.
func ProfilePatch(p account.Profile) map[string]interface{} {
	return map[string]interface{}{
		"name":    p.Name,
		"avatar":  p.Avatar,
		"phone":   p.Phone,
		"address": p.Address,
		"bio":     p.Bio,
	}
}

// CarRow is a row of the cars table. Location may be stored either as a
// JSON object or as a string holding JSON.
type CarRow struct {
	ID           string          `json:"id,omitempty"`
	Brand        string          `json:"brand"`
	Model        string          `json:"model"`
	Image        *string         `json:"image"`
	PricePerHour float64         `json:"price_per_hour"`
	PricePerDay  float64         `json:"price_per_day"`
	FuelType     string          `json:"fuel_type"`
	Transmission string          `json:"transmission"`
	Seats        int             `json:"seats"`
	Location     json.RawMessage `json:"location"`
	Available    bool            `json:"available"`
	Rating       *float64        `json:"rating"`
	Health       json.RawMessage `json:"health,omitempty"`
}

// DecodeLocation accepts an object or a JSON-encoded string of one.
func DecodeLocation(raw []byte) (vehicle.Location, error) {
	var loc vehicle.Location
	if len(raw) == 0 || string(raw) == "null" {
		return loc, nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return loc, fmt.Errorf("invalid location string: %w", err)
		}
		raw = []byte(inner)
	}
	if err := json.Unmarshal(raw, &loc); err != nil {
		return loc, fmt.Errorf("invalid location: %w", err)
	}
	return loc, nil
}

// Vehicle maps the row to the domain type.
func (r CarRow) Vehicle() (vehicle.Vehicle, error) {
	loc, err := DecodeLocation(r.Location)
	if err != nil {
		return vehicle.Vehicle{}, fmt.Errorf("car %s: %w", r.ID, err)
	}
	v := vehicle.Vehicle{
		ID:           r.ID,
		Brand:        r.Brand,
		Model:        r.Model,
		Image:        str(r.Image),
		PricePerHour: r.PricePerHour,
		PricePerDay:  r.PricePerDay,
		FuelType:     vehicle.FuelType(r.FuelType),
		Transmission: vehicle.TransmissionType(r.Transmission),
		Seats:        r.Seats,
		Location:     loc,
		Available:    r.Available,
	}
	if r.Rating != nil {
		v.Rating = *r.Rating
	}
	if len(r.Health) > 0 && string(r.Health) != "null" {
		var h vehicle.Health
		if err := json.Unmarshal(r.Health, &h); err == nil {
			v.Health = &h
		}
	}
	return v, nil
}

// NewCarRow builds the insert row for v.
func NewCarRow(v vehicle.Vehicle) (CarRow, error) {
	loc, err := json.Marshal(v.Location)
	if err != nil {
		return CarRow{}, fmt.Errorf("failed to marshal location: %w", err)
	}
	rating := v.Rating
	image := v.Image
	row := CarRow{
		ID:           v.ID,
		Brand:        v.Brand,
		Model:        v.Model,
		Image:        &image,
		PricePerHour: v.PricePerHour,
		PricePerDay:  v.PricePerDay,
		FuelType:     string(v.FuelType),
		Transmission: string(v.Transmission),
		Seats:        v.Seats,
		Location:     loc,
		Available:    v.Available,
		Rating:       &rating,
	}
	if v.Health != nil {
		h, err := json.Marshal(v.Health)
		if err != nil {
			return CarRow{}, fmt.Errorf("failed to marshal health: %w", err)
		}
		row.Health = h
	}
	return row, nil
}

// BookingRow is a row of the bookings table.
type BookingRow struct {
	ID        string     `json:"id,omitempty"`
	UserID    string     `json:"user_id"`
	CarID     *string    `json:"car_id"`
	ServiceID *string    `json:"service_id"`
	DriverID  *string    `json:"driver_id,omitempty"`
	Type      string     `json:"type"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	TotalCost float64    `json:"total_cost"`
	Status    string     `json:"status"`
	Location  *string    `json:"location"`
	Notes     *string    `json:"notes"`
	Rating    *int       `json:"rating,omitempty"`
	Feedback  *string    `json:"feedback,omitempty"`
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Booking maps the row to the domain type.
func (r BookingRow) Booking() booking.Booking {
	b := booking.Booking{
		ID:        r.ID,
		UserID:    r.UserID,
		CarID:     str(r.CarID),
		ServiceID: str(r.ServiceID),
		DriverID:  str(r.DriverID),
		Type:      booking.Type(r.Type),
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		TotalCost: r.TotalCost,
		Status:    booking.Status(r.Status),
		Location:  str(r.Location),
		Notes:     str(r.Notes),
		Rating:    r.Rating,
		Feedback:  str(r.Feedback),
	}
	return b.Clone()
}

// NewBookingRow builds the insert row for b. The local id is kept so later
// updates address the same row.
func NewBookingRow(b booking.Booking) BookingRow {
	return BookingRow{
		ID:        b.ID,
		UserID:    b.UserID,
		CarID:     ptr(b.CarID),
		ServiceID: ptr(b.ServiceID),
		DriverID:  ptr(b.DriverID),
		Type:      string(b.Type),
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		TotalCost: b.TotalCost,
		Status:    string(b.Status),
		Location:  ptr(b.Location),
		Notes:     ptr(b.Notes),
	}
}

// BookingPatch is the column set written for f.
func BookingPatch(f booking.Fields) map[string]interface{} {
	patch := map[string]interface{}{}
	if f.Status != nil {
		patch["status"] = string(*f.Status)
	}
	if f.DriverID != nil {
		patch["driver_id"] = *f.DriverID
	}
	if f.Rating != nil {
		patch["rating"] = *f.Rating
	}
	if f.Feedback != nil {
		patch["feedback"] = *f.Feedback
	}
	return patch
}
