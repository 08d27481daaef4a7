// internal/handlers/booking/booking_handler.go
package booking

import (
	"context"
	"net/http"
	"time"

	"automate-service/internal/domain/account"
	"automate-service/internal/domain/booking"
	"automate-service/internal/middleware"
	xerrors "automate-service/internal/pkg/errors"
	"automate-service/internal/pkg/response"
	"automate-service/internal/service/dashboard"
	"automate-service/internal/state"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxSyncWait = 10 * time.Second

type BookingHandler struct {
	logger *zap.Logger
}

func NewBookingHandler(logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		logger: logger,
	}
}

// ListBookings returns the caller's bookings. Admins and drivers see all.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	sc := middleware.MustGetContainer(c)
	me := sc.Account()
	bookings := sc.Bookings()

	if me.Role() == account.RoleUser {
		own := bookings[:0]
		for _, b := range bookings {
			if b.UserID == me.Identity().ID {
				own = append(own, b)
			}
		}
		bookings = own
	}

	response.Success(c, http.StatusOK, "bookings retrieved", gin.H{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// CreateBooking records a booking exactly as submitted.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req booking.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	sc := middleware.MustGetContainer(c)
	b, err := req.ToBooking(sc.Account().Identity().ID, time.Now())
	if err != nil {
		response.ValidationError(c, "invalid booking", err)
		return
	}

	ticket := sc.AddBooking(c.Request.Context(), b)
	h.logCreated(sc, b)
	response.Success(c, http.StatusCreated, "booking created", gin.H{
		"booking": b,
		"sync":    ticket,
	})
}

// BookRental prices and books a car.
func (h *BookingHandler) BookRental(c *gin.Context) {
	var req booking.RentalBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	sc := middleware.MustGetContainer(c)
	b, ticket, err := sc.BookRental(c.Request.Context(), state.RentalOrder{
		VehicleID: req.CarID,
		Mode:      req.Mode,
		Duration:  req.Duration,
		Payment:   booking.Payment{Method: req.Payment, Bank: req.Bank},
	})
	if err != nil {
		response.FromError(c, "failed to book rental", err)
		return
	}

	h.logCreated(sc, b)
	response.Success(c, http.StatusCreated, "rental booked", gin.H{
		"booking": b,
		"sync":    ticket,
	})
}

// BookService requests a maintenance job.
func (h *BookingHandler) BookService(c *gin.Context) {
	var req booking.ServiceBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	sc := middleware.MustGetContainer(c)
	b, ticket, err := sc.BookService(c.Request.Context(), req.ServiceID, req.CarID)
	if err != nil {
		response.FromError(c, "failed to book service", err)
		return
	}

	h.logCreated(sc, b)
	response.Success(c, http.StatusCreated, "service requested", gin.H{
		"booking": b,
		"sync":    ticket,
	})
}

// UpdateStatus moves a booking to a new status. Customers may only touch
// their own bookings.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req booking.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	sc := middleware.MustGetContainer(c)
	b, ok := h.ownedBooking(c, sc)
	if !ok {
		return
	}
	if err := req.Validate(b); err != nil {
		response.ValidationError(c, "invalid status change", err)
		return
	}

	ticket := sc.UpdateBookingStatus(c.Request.Context(), b.ID, req.Status, req.Update())
	h.respondUpdated(c, sc, b.ID, "booking updated", ticket)
}

// RateBooking leaves a rating on a completed booking.
func (h *BookingHandler) RateBooking(c *gin.Context) {
	var req booking.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	sc := middleware.MustGetContainer(c)
	b, ok := h.ownedBooking(c, sc)
	if !ok {
		return
	}
	if b.Status != booking.StatusCompleted {
		response.ValidationError(c, "only completed bookings can be rated", nil)
		return
	}

	ticket := sc.RateBooking(c.Request.Context(), b.ID, req.Rating, req.Feedback)
	h.respondUpdated(c, sc, b.ID, "feedback submitted", ticket)
}

// Track returns the live view of a booking.
func (h *BookingHandler) Track(c *gin.Context) {
	sc := middleware.MustGetContainer(c)
	b, ok := h.ownedBooking(c, sc)
	if !ok {
		return
	}

	tracking, err := dashboard.Track(b, sc.Vehicles(), sc.Drivers())
	if err != nil {
		response.FromError(c, "tracking unavailable", err)
		return
	}
	response.Success(c, http.StatusOK, "tracking retrieved", tracking)
}

// SyncStatus reports a ticket. ?wait=2s blocks until it resolves or the wait
// runs out.
func (h *BookingHandler) SyncStatus(c *gin.Context) {
	sc := middleware.MustGetContainer(c)
	ticket, ok := sc.Ticket(c.Param("ticket"))
	if !ok {
		response.NotFound(c, "sync ticket not found")
		return
	}

	if raw := c.Query("wait"); raw != "" {
		wait, err := time.ParseDuration(raw)
		if err != nil || wait <= 0 {
			response.ValidationError(c, "invalid wait duration", err)
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), min(wait, maxSyncWait))
		defer cancel()
		_ = ticket.Wait(ctx)
	}

	response.Success(c, http.StatusOK, "sync status retrieved", ticket.Event())
}

// AcceptTrip assigns a pending rental to the signed-in driver.
func (h *BookingHandler) AcceptTrip(c *gin.Context) {
	sc := middleware.MustGetContainer(c)
	b, ok := sc.Booking(c.Param("id"))
	if !ok {
		response.NotFound(c, "booking not found")
		return
	}
	if b.Type != booking.TypeRental || b.Status != booking.StatusPending || b.DriverID != "" {
		response.Error(c, http.StatusConflict, "trip is no longer available", nil)
		return
	}

	driverID := sc.Account().Identity().ID
	ticket := sc.UpdateBookingStatus(c.Request.Context(), b.ID, booking.StatusConfirmed, booking.Update{DriverID: &driverID})

	h.logger.Info("trip accepted",
		zap.String("booking_id", b.ID),
		zap.String("driver_id", driverID),
	)
	h.respondUpdated(c, sc, b.ID, "trip accepted", ticket)
}

// CompleteTrip finishes the driver's active trip.
func (h *BookingHandler) CompleteTrip(c *gin.Context) {
	sc := middleware.MustGetContainer(c)
	b, ok := sc.Booking(c.Param("id"))
	if !ok {
		response.NotFound(c, "booking not found")
		return
	}
	if b.DriverID != sc.Account().Identity().ID {
		response.Forbidden(c, "trip is assigned to another driver")
		return
	}
	if b.Status != booking.StatusConfirmed && b.Status != booking.StatusInProgress {
		response.Error(c, http.StatusConflict, "trip is not active", nil)
		return
	}

	ticket := sc.UpdateBookingStatus(c.Request.Context(), b.ID, booking.StatusCompleted, booking.Update{})
	h.respondUpdated(c, sc, b.ID, "trip completed", ticket)
}

// ownedBooking loads the :id booking, writing the error response itself
// when it is missing or belongs to another customer.
func (h *BookingHandler) ownedBooking(c *gin.Context, sc *state.Container) (booking.Booking, bool) {
	b, ok := sc.Booking(c.Param("id"))
	if !ok {
		response.NotFound(c, "booking not found")
		return booking.Booking{}, false
	}
	me := sc.Account()
	if me.Role() == account.RoleUser && b.UserID != me.Identity().ID {
		response.FromError(c, "booking belongs to another account", xerrors.ErrForbidden)
		return booking.Booking{}, false
	}
	return b, true
}

func (h *BookingHandler) respondUpdated(c *gin.Context, sc *state.Container, id, message string, ticket *state.Ticket) {
	b, _ := sc.Booking(id)
	response.Accepted(c, message, gin.H{
		"booking": b,
		"sync":    ticket,
	})
}

func (h *BookingHandler) logCreated(sc *state.Container, b booking.Booking) {
	h.logger.Info("booking created",
		zap.String("session_id", sc.SessionID()),
		zap.String("booking_id", b.ID),
		zap.String("type", string(b.Type)),
	)
}
