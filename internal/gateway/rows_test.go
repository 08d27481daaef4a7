package gateway

import (
	"encoding/json"
	"testing"
	"time"

	"automate-service/internal/domain/account"
	"automate-service/internal/domain/booking"
	"automate-service/internal/domain/vehicle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sp(s string) *string { return &s }

func TestProfileRowAccount(t *testing.T) {
	row := ProfileRow{ID: "u9", Name: sp("Ana"), Email: sp("stored@x.com"), Role: sp("ADMIN")}

	a := row.Account("session@x.com")
	admin, ok := a.(account.Admin)
	require.True(t, ok)
	assert.Equal(t, "session@x.com", admin.Email)
	assert.Equal(t, account.DefaultAvatar, admin.Avatar)

	a = ProfileRow{ID: "u9", Role: sp("SUPERUSER"), Email: sp("stored@x.com")}.Account("")
	assert.IsType(t, account.Customer{}, a)
	assert.Equal(t, "stored@x.com", a.Identity().Email)
}

func TestProfileRowDriverDefaults(t *testing.T) {
	d := ProfileRow{ID: "d7", Role: sp("DRIVER"), Status: sp("NAPPING")}.Driver()

	assert.Equal(t, FallbackDriverEmail, d.Email)
	assert.Equal(t, account.DriverAvailable, d.Status)
	assert.Equal(t, account.DefaultDriverRating, d.Rating)
	assert.Zero(t, d.TripsCompleted)

	rating := 4.1
	trips := 12
	d = ProfileRow{ID: "d8", Status: sp("OFF_DUTY"), Rating: &rating, TripsCompleted: &trips, LicenseNumber: sp("DL-9")}.Driver()
	assert.Equal(t, account.DriverOffDuty, d.Status)
	assert.Equal(t, 4.1, d.Rating)
	assert.Equal(t, 12, d.TripsCompleted)
	assert.Equal(t, "DL-9", d.LicenseNumber)

	a := ProfileRow{ID: "d8", Role: sp("DRIVER"), Email: sp("stored@x.com")}.Account("live@x.com")
	drv, ok := a.(account.Driver)
	require.True(t, ok)
	assert.Equal(t, "live@x.com", drv.Email)
}

func TestDecodeLocation(t *testing.T) {
	want := vehicle.Location{Lat: 37.7, Lng: -122.4, Name: "Pier"}

	obj, err := DecodeLocation([]byte(`{"lat":37.7,"lng":-122.4,"name":"Pier"}`))
	require.NoError(t, err)
	assert.Equal(t, want, obj)

	str, err := DecodeLocation([]byte(`"{\"lat\":37.7,\"lng\":-122.4,\"name\":\"Pier\"}"`))
	require.NoError(t, err)
	assert.Equal(t, want, str)

	empty, err := DecodeLocation([]byte("null"))
	require.NoError(t, err)
	assert.Equal(t, vehicle.Location{}, empty)

	_, err = DecodeLocation([]byte(`"not json"`))
	assert.Error(t, err)
}

func TestCarRowRoundTrip(t *testing.T) {
	v := vehicle.Vehicle{
		ID: "c1", Brand: "Tata", Model: "Nexon", PricePerHour: 1000, PricePerDay: 6800,
		FuelType: vehicle.FuelTypeDiesel, Transmission: vehicle.TransmissionManual, Seats: 5,
		Location: vehicle.Location{Lat: 1, Lng: 2, Name: "Airport"}, Available: true, Rating: 4.3,
		Health: &vehicle.Health{OilLife: 45},
	}

	row, err := NewCarRow(v)
	require.NoError(t, err)

	raw, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"price_per_hour":1000`)

	var decoded CarRow
	require.NoError(t, json.Unmarshal(raw, &decoded))
	back, err := decoded.Vehicle()
	require.NoError(t, err)
	assert.Equal(t, v, back)
}

func TestBookingRow(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	b := booking.Booking{ID: "B1", UserID: "u1", CarID: "c1", Type: booking.TypeRental, StartDate: start, TotalCost: 800, Status: booking.StatusPending}

	row := NewBookingRow(b)
	assert.Nil(t, row.ServiceID)
	assert.Nil(t, row.DriverID)
	assert.Equal(t, "c1", *row.CarID)

	assert.Equal(t, b, row.Booking())
}

func TestBookingPatch(t *testing.T) {
	status := booking.StatusCompleted
	rating := 5
	patch := BookingPatch(booking.Fields{Status: &status, Rating: &rating})

	assert.Equal(t, map[string]interface{}{"status": "Completed", "rating": 5}, patch)
	assert.Empty(t, BookingPatch(booking.Fields{}))
}

func TestSessionContext(t *testing.T) {
	s := &Session{AccessToken: "tok"}
	ctx := WithSession(t.Context(), s)

	got, ok := SessionFrom(ctx)
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = SessionFrom(WithSession(t.Context(), nil))
	assert.False(t, ok)

	assert.True(t, (&Session{ExpiresAt: time.Now().Add(-time.Minute)}).Expired(time.Now()))
	assert.False(t, (&Session{}).Expired(time.Now()))
}
