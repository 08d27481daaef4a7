package booking

import (
	"fmt"
	"math/rand/v2"
	"time"

	"automate-service/internal/domain/vehicle"
	xerrors "automate-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
)

type QuoteMode string

const (
	QuoteHours QuoteMode = "hours"
	QuoteDays  QuoteMode = "days"
)

// Quote prices a rental of duration units.
func Quote(v vehicle.Vehicle, mode QuoteMode, duration int) (float64, error) {
	if duration < 1 {
		return 0, fmt.Errorf("%w: duration must be at least 1", xerrors.ErrInvalidInput)
	}
	switch mode {
	case QuoteHours:
		return v.PricePerHour * float64(duration), nil
	case QuoteDays:
		return v.PricePerDay * float64(duration), nil
	}
	return 0, fmt.Errorf("%w: unknown quote mode %q", xerrors.ErrInvalidInput, mode)
}

func (m QuoteMode) span(duration int) time.Duration {
	if m == QuoteDays {
		return time.Duration(duration) * 24 * time.Hour
	}
	return time.Duration(duration) * time.Hour
}

type PaymentMethod string

const (
	PayAtPickup   PaymentMethod = "pickup"
	PayCard       PaymentMethod = "card"
	PayUPI        PaymentMethod = "upi"
	PayNetBanking PaymentMethod = "netbanking"
)

// Payment describes how a rental is settled.
type Payment struct {
	Method PaymentMethod `json:"method"`
	Bank   string        `json:"bank,omitempty"`
}

// PaidOnline reports whether the payment was settled at booking time.
func (p Payment) PaidOnline() bool {
	return p.Method == PayCard || p.Method == PayUPI || p.Method == PayNetBanking
}

func (p Payment) validate() error {
	switch p.Method {
	case PayAtPickup, PayCard, PayUPI:
		return nil
	case PayNetBanking:
		if p.Bank == "" {
			return fmt.Errorf("%w: Please select a bank to proceed.", xerrors.ErrInvalidInput)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown payment method %q", xerrors.ErrInvalidInput, p.Method)
}

// Note renders the payment line stored on the booking.
func (p Payment) Note(txn int) string {
	var note string
	switch p.Method {
	case PayNetBanking:
		note = "NetBanking: " + p.Bank
	case PayUPI:
		note = "UPI Payment"
	case PayCard:
		note = "Card Payment"
	default:
		return "Payment Due at Pickup"
	}
	return fmt.Sprintf("%s (Txn: %d)", note, txn)
}

// NewID returns a 9 character upper-case booking id.
func NewID() string {
	s := ulid.Make().String()
	return s[len(s)-9:]
}

// RentalRequest is everything needed to book a vehicle.
type RentalRequest struct {
	UserID   string
	Vehicle  vehicle.Vehicle
	Mode     QuoteMode
	Duration int
	Payment  Payment
}

// NewRental builds a rental starting at now. Online payments confirm the
// booking immediately, pickup payments leave it pending.
func NewRental(req RentalRequest, now time.Time) (Booking, error) {
	if !req.Vehicle.Available {
		return Booking{}, xerrors.ErrVehicleUnavailable
	}
	if err := req.Payment.validate(); err != nil {
		return Booking{}, err
	}
	total, err := Quote(req.Vehicle, req.Mode, req.Duration)
	if err != nil {
		return Booking{}, err
	}

	status := StatusPending
	if req.Payment.PaidOnline() {
		status = StatusConfirmed
	}
	end := now.Add(req.Mode.span(req.Duration))

	return Booking{
		ID:        NewID(),
		UserID:    req.UserID,
		CarID:     req.Vehicle.ID,
		Type:      TypeRental,
		StartDate: now,
		EndDate:   &end,
		TotalCost: total,
		Status:    status,
		Location:  req.Vehicle.Location.Name,
		Notes:     req.Payment.Note(rand.IntN(1000000)),
	}, nil
}

// NewService builds a pending service job priced at the catalog base price.
func NewService(userID, carID string, svc ServiceType, now time.Time) Booking {
	return Booking{
		ID:        NewID(),
		UserID:    userID,
		CarID:     carID,
		ServiceID: svc.ID,
		Type:      TypeService,
		StartDate: now,
		TotalCost: svc.BasePrice,
		Status:    StatusPending,
	}
}
