// internal/repository/postgres/booking_repo.go
package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"automate-service/internal/domain/booking"
	"automate-service/internal/gateway"

	"github.com/lib/pq"
)

type BookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

// ListBookings returns every booking, newest first.
func (r *BookingRepository) ListBookings(ctx context.Context) ([]booking.Booking, error) {
	query := `
		SELECT id, user_id, car_id, service_id, driver_id, type, start_date, end_date,
		       total_cost, status, location, notes, rating, feedback
		FROM bookings
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []booking.Booking
	for rows.Next() {
		var b gateway.BookingRow
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.CarID, &b.ServiceID, &b.DriverID, &b.Type, &b.StartDate, &b.EndDate,
			&b.TotalCost, &b.Status, &b.Location, &b.Notes, &b.Rating, &b.Feedback,
		); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b.Booking())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// InsertBooking stores b under its local id.
func (r *BookingRepository) InsertBooking(ctx context.Context, b booking.Booking) error {
	row := gateway.NewBookingRow(b)
	query := `
		INSERT INTO bookings (id, user_id, car_id, service_id, driver_id, type, start_date,
		                      end_date, total_cost, status, location, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		row.ID, row.UserID, row.CarID, row.ServiceID, row.DriverID, row.Type, row.StartDate,
		row.EndDate, row.TotalCost, row.Status, row.Location, row.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

// UpdateBooking writes the non-nil fields.
func (r *BookingRepository) UpdateBooking(ctx context.Context, id string, fields booking.Fields) error {
	query, args := buildUpdate("bookings", id, gateway.BookingPatch(fields))
	if query == "" {
		return nil
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	return nil
}

// buildUpdate renders "UPDATE table SET col = $n ... WHERE id = $1" with the
// columns in a stable order.
func buildUpdate(table, id string, patch map[string]interface{}) (string, []interface{}) {
	if len(patch) == 0 {
		return "", nil
	}
	cols := make([]string, 0, len(patch))
	for col := range patch {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	args := []interface{}{id}
	sets := make([]string, 0, len(cols))
	for _, col := range cols {
		args = append(args, patch[col])
		sets = append(sets, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(col), len(args)))
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = $1", pq.QuoteIdentifier(table), strings.Join(sets, ", ")), args
}
