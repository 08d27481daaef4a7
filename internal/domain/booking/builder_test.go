package booking

import (
	"strings"
	"testing"
	"time"

	"automate-service/internal/domain/vehicle"
	xerrors "automate-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var swift = vehicle.Vehicle{
	ID:           "c1",
	PricePerHour: 800,
	PricePerDay:  5200,
	Available:    true,
	Location:     vehicle.Location{Name: "Downtown Hub"},
}

func TestQuote(t *testing.T) {
	total, err := Quote(swift, QuoteHours, 3)
	require.NoError(t, err)
	assert.Equal(t, 2400.0, total)

	total, err = Quote(swift, QuoteDays, 2)
	require.NoError(t, err)
	assert.Equal(t, 10400.0, total)

	_, err = Quote(swift, QuoteDays, 0)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	_, err = Quote(swift, "weeks", 1)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestNewRentalPaidOnline(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	b, err := NewRental(RentalRequest{
		UserID:   "u1",
		Vehicle:  swift,
		Mode:     QuoteHours,
		Duration: 4,
		Payment:  Payment{Method: PayNetBanking, Bank: "HDFC"},
	}, now)
	require.NoError(t, err)

	assert.Len(t, b.ID, 9)
	assert.Equal(t, TypeRental, b.Type)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, 3200.0, b.TotalCost)
	assert.Equal(t, "Downtown Hub", b.Location)
	require.NotNil(t, b.EndDate)
	assert.Equal(t, now.Add(4*time.Hour), *b.EndDate)
	assert.True(t, strings.HasPrefix(b.Notes, "NetBanking: HDFC (Txn: "), b.Notes)
}

func TestNewRentalPayAtPickup(t *testing.T) {
	now := time.Now()
	b, err := NewRental(RentalRequest{UserID: "u1", Vehicle: swift, Mode: QuoteDays, Duration: 1, Payment: Payment{Method: PayAtPickup}}, now)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, "Payment Due at Pickup", b.Notes)
	assert.Equal(t, now.Add(24*time.Hour), *b.EndDate)
}

func TestNewRentalRejects(t *testing.T) {
	now := time.Now()

	booked := swift
	booked.Available = false
	_, err := NewRental(RentalRequest{Vehicle: booked, Mode: QuoteHours, Duration: 1, Payment: Payment{Method: PayCard}}, now)
	assert.ErrorIs(t, err, xerrors.ErrVehicleUnavailable)

	_, err = NewRental(RentalRequest{Vehicle: swift, Mode: QuoteHours, Duration: 1, Payment: Payment{Method: PayNetBanking}}, now)
	require.ErrorIs(t, err, xerrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Please select a bank to proceed.")

	_, err = NewRental(RentalRequest{Vehicle: swift, Mode: QuoteHours, Duration: 1, Payment: Payment{Method: "cash"}}, now)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestPaymentNote(t *testing.T) {
	assert.Equal(t, "UPI Payment (Txn: 42)", Payment{Method: PayUPI}.Note(42))
	assert.Equal(t, "Card Payment (Txn: 7)", Payment{Method: PayCard}.Note(7))
	assert.Equal(t, "Payment Due at Pickup", Payment{Method: PayAtPickup}.Note(7))
}

func TestNewService(t *testing.T) {
	now := time.Now()
	b := NewService("u1", "c2", ServiceType{ID: "s2", BasePrice: 1500}, now)

	assert.Equal(t, TypeService, b.Type)
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, "s2", b.ServiceID)
	assert.Equal(t, "c2", b.CarID)
	assert.Equal(t, 1500.0, b.TotalCost)
	assert.Nil(t, b.EndDate)
}

func TestStatusRules(t *testing.T) {
	assert.True(t, StatusConfirmed.ValidFor(TypeRental))
	assert.False(t, StatusConfirmed.ValidFor(TypeService))
	assert.True(t, StatusInProgress.ValidFor(TypeService))
	assert.False(t, StatusInProgress.ValidFor(TypeRental))
	assert.True(t, StatusCancelled.ValidFor(TypeService))
	assert.False(t, Status("Lost").ValidFor(TypeRental))

	assert.True(t, StatusRejected.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
}

func TestUpdateApply(t *testing.T) {
	driver := "d1"
	notes := "gate 4"
	orig := Booking{ID: "b1", Status: StatusPending, Location: "Airport"}

	b := Update{DriverID: &driver, Notes: &notes}.Apply(orig, StatusConfirmed)

	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, "d1", b.DriverID)
	assert.Equal(t, "gate 4", b.Notes)
	assert.Equal(t, "Airport", b.Location)
	assert.Equal(t, StatusPending, orig.Status)

	empty := ""
	kept := Update{DriverID: &empty}.Apply(b, StatusInProgress)
	assert.Equal(t, "d1", kept.DriverID)
	assert.False(t, Update{DriverID: &empty}.AssignsDriver())
	assert.True(t, Update{DriverID: &driver}.AssignsDriver())
}

func TestCloneIsDeep(t *testing.T) {
	r := 4
	end := time.Now()
	b := Booking{Rating: &r, EndDate: &end}
	c := b.Clone()
	*c.Rating = 1

	assert.Equal(t, 4, *b.Rating)
	assert.NotSame(t, b.EndDate, c.EndDate)
}
