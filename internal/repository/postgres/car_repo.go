// internal/repository/postgres/car_repo.go
package postgres

import (
	"context"
	"fmt"

	"automate-service/internal/domain/vehicle"
	"automate-service/internal/gateway"
)

type CarRepository struct {
	db DBTX
}

func NewCarRepository(db DBTX) *CarRepository {
	return &CarRepository{db: db}
}

// ListVehicles reads the whole fleet.
func (r *CarRepository) ListVehicles(ctx context.Context) ([]vehicle.Vehicle, error) {
	query := `
		SELECT id, brand, model, image, price_per_hour, price_per_day,
		       fuel_type, transmission, seats, location, available, rating, health
		FROM cars
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	defer rows.Close()

	var vehicles []vehicle.Vehicle
	for rows.Next() {
		var c gateway.CarRow
		var location, health []byte
		if err := rows.Scan(
			&c.ID, &c.Brand, &c.Model, &c.Image, &c.PricePerHour, &c.PricePerDay,
			&c.FuelType, &c.Transmission, &c.Seats, &location, &c.Available, &c.Rating, &health,
		); err != nil {
			return nil, fmt.Errorf("failed to scan car: %w", err)
		}
		c.Location = location
		c.Health = health

		v, err := c.Vehicle()
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	return vehicles, nil
}

// InsertVehicle stores v under its local id.
func (r *CarRepository) InsertVehicle(ctx context.Context, v vehicle.Vehicle) error {
	c, err := gateway.NewCarRow(v)
	if err != nil {
		return err
	}
	var health []byte
	if len(c.Health) > 0 {
		health = c.Health
	}

	query := `
		INSERT INTO cars (id, brand, model, image, price_per_hour, price_per_day,
		                  fuel_type, transmission, seats, location, available, rating, health)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = r.db.Exec(ctx, query,
		c.ID, c.Brand, c.Model, c.Image, c.PricePerHour, c.PricePerDay,
		c.FuelType, c.Transmission, c.Seats, string(c.Location), c.Available, c.Rating, health,
	)
	if err != nil {
		return fmt.Errorf("failed to insert car: %w", err)
	}
	return nil
}

func (r *CarRepository) DeleteVehicle(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}
	return nil
}
