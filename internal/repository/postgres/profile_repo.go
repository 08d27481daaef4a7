// internal/repository/postgres/profile_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"automate-service/internal/domain/account"
	"automate-service/internal/gateway"
	xerrors "automate-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
)

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, name, email, role, avatar, phone, address, bio,
	license_number, status, rating, trips_completed, earnings, quote`

func scanProfile(row pgx.Row) (gateway.ProfileRow, error) {
	var p gateway.ProfileRow
	err := row.Scan(
		&p.ID, &p.Name, &p.Email, &p.Role, &p.Avatar, &p.Phone, &p.Address, &p.Bio,
		&p.LicenseNumber, &p.Status, &p.Rating, &p.TripsCompleted, &p.Earnings, &p.Quote,
	)
	return p, err
}

// FetchProfile reads a profile by id.
func (r *ProfileRepository) FetchProfile(ctx context.Context, id string) (account.Account, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", id, xerrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	email := ""
	if s, ok := gateway.SessionFrom(ctx); ok {
		email = s.Email
	}
	return p.Account(email), nil
}

// UpdateProfile writes the editable profile columns.
func (r *ProfileRepository) UpdateProfile(ctx context.Context, id string, p account.Profile) error {
	query := `
		UPDATE profiles
		SET name = $2, avatar = $3, phone = $4, address = $5, bio = $6
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, id, p.Name, p.Avatar, p.Phone, p.Address, p.Bio)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", id, xerrors.ErrNotFound)
	}
	return nil
}

// ListDrivers returns every profile with the driver role.
func (r *ProfileRepository) ListDrivers(ctx context.Context) ([]account.Driver, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE role = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, string(account.RoleDriver))
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	defer rows.Close()

	var drivers []account.Driver
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan driver: %w", err)
		}
		drivers = append(drivers, p.Driver())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	return drivers, nil
}
