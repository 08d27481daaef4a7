package supabase

import (
	"context"
	"fmt"
	"net/url"

	"automate-service/internal/domain/account"
	"automate-service/internal/domain/booking"
	"automate-service/internal/domain/vehicle"
	"automate-service/internal/gateway"
	xerrors "automate-service/internal/pkg/errors"
)

// FetchProfile reads a single profiles row by id.
func (c *Client) FetchProfile(ctx context.Context, id string) (account.Account, error) {
	q := eq("id", id)
	q.Set("select", "*")
	var rows []gateway.ProfileRow
	if err := c.selectRows(ctx, gateway.TableProfiles, q, &rows); err != nil {
		return nil, err
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("profile %s: %w", id, xerrors.ErrNotFound)
	}
	email := ""
	if s, ok := gateway.SessionFrom(ctx); ok {
		email = s.Email
	}
	return rows[0].Account(email), nil
}

// UpdateProfile writes the editable profile columns.
func (c *Client) UpdateProfile(ctx context.Context, id string, p account.Profile) error {
	return c.updateRows(ctx, gateway.TableProfiles, eq("id", id), gateway.ProfilePatch(p))
}

// ListDrivers reads every profile with the driver role.
func (c *Client) ListDrivers(ctx context.Context) ([]account.Driver, error) {
	q := eq("role", string(account.RoleDriver))
	q.Set("select", "*")
	var rows []gateway.ProfileRow
	if err := c.selectRows(ctx, gateway.TableProfiles, q, &rows); err != nil {
		return nil, err
	}
	drivers := make([]account.Driver, 0, len(rows))
	for _, r := range rows {
		drivers = append(drivers, r.Driver())
	}
	return drivers, nil
}

// ListVehicles reads the cars table.
func (c *Client) ListVehicles(ctx context.Context) ([]vehicle.Vehicle, error) {
	q := url.Values{}
	q.Set("select", "*")
	var rows []gateway.CarRow
	if err := c.selectRows(ctx, gateway.TableCars, q, &rows); err != nil {
		return nil, err
	}
	vehicles := make([]vehicle.Vehicle, 0, len(rows))
	for _, r := range rows {
		v, err := r.Vehicle()
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}

func (c *Client) InsertVehicle(ctx context.Context, v vehicle.Vehicle) error {
	row, err := gateway.NewCarRow(v)
	if err != nil {
		return err
	}
	return c.insertRow(ctx, gateway.TableCars, row)
}

func (c *Client) DeleteVehicle(ctx context.Context, id string) error {
	return c.deleteRows(ctx, gateway.TableCars, eq("id", id))
}

// ListBookings reads bookings newest first.
func (c *Client) ListBookings(ctx context.Context) ([]booking.Booking, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")
	var rows []gateway.BookingRow
	if err := c.selectRows(ctx, gateway.TableBookings, q, &rows); err != nil {
		return nil, err
	}
	bookings := make([]booking.Booking, 0, len(rows))
	for _, r := range rows {
		bookings = append(bookings, r.Booking())
	}
	return bookings, nil
}

func (c *Client) InsertBooking(ctx context.Context, b booking.Booking) error {
	return c.insertRow(ctx, gateway.TableBookings, gateway.NewBookingRow(b))
}

func (c *Client) UpdateBooking(ctx context.Context, id string, fields booking.Fields) error {
	patch := gateway.BookingPatch(fields)
	if len(patch) == 0 {
		return nil
	}
	return c.updateRows(ctx, gateway.TableBookings, eq("id", id), patch)
}
