// internal/domain/account/repository.go
package account

import "context"

// Repository is the remote profile table.
type Repository interface {
	FetchProfile(ctx context.Context, id string) (Account, error)
	UpdateProfile(ctx context.Context, id string, p Profile) error
	ListDrivers(ctx context.Context) ([]Driver, error)
}
