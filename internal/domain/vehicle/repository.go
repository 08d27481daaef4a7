// internal/domain/vehicle/repository.go
package vehicle

import "context"

// Repository is the remote cars table.
type Repository interface {
	ListVehicles(ctx context.Context) ([]Vehicle, error)
	InsertVehicle(ctx context.Context, v Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error
}
