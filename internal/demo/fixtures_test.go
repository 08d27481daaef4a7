package demo

import (
	"testing"

	"automate-service/internal/domain/account"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVehiclesAreCopies(t *testing.T) {
	a := Vehicles()
	require.Len(t, a, 6)
	a[0].Model = "Changed"
	a[0].Health.OilLife = 0

	b := Vehicles()
	assert.Equal(t, "Swift", b[0].Model)
	assert.Equal(t, 85, b[0].Health.OilLife)
}

func TestDrivers(t *testing.T) {
	d := Drivers()
	require.Len(t, d, 3)
	assert.Equal(t, account.DriverAvailable, d[0].Status)
	assert.Equal(t, account.DriverOnTrip, d[1].Status)
	assert.Equal(t, account.DriverOffDuty, d[2].Status)

	d[0].Name = "Changed"
	assert.Equal(t, "Alex Johnson", Drivers()[0].Name)
}

func TestServiceType(t *testing.T) {
	s, ok := ServiceType("s3")
	require.True(t, ok)
	assert.Equal(t, "Wash and polish", s.Name)
	assert.Equal(t, 800.0, s.BasePrice)

	_, ok = ServiceType("s9")
	assert.False(t, ok)
	assert.Len(t, ServiceTypes(), 4)
}

func TestUser(t *testing.T) {
	u := User()
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, account.RoleUser, u.Role())
}
