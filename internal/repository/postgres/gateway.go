// internal/repository/postgres/gateway.go
package postgres

import (
	"time"

	"automate-service/internal/gateway"
)

// Gateway serves the remote data surface straight from PostgreSQL.
type Gateway struct {
	*AuthRepository
	*ProfileRepository
	*CarRepository
	*BookingRepository
}

var _ gateway.Gateway = (*Gateway)(nil)

func NewGateway(db DBTX, sessionTTL time.Duration) *Gateway {
	return &Gateway{
		AuthRepository:    NewAuthRepository(db, sessionTTL),
		ProfileRepository: NewProfileRepository(db),
		CarRepository:     NewCarRepository(db),
		BookingRepository: NewBookingRepository(db),
	}
}
