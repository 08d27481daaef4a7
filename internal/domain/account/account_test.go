package account

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPicksVariant(t *testing.T) {
	p := Profile{ID: "x1", Name: "Sam"}

	assert.IsType(t, Customer{}, New(RoleUser, p))
	assert.IsType(t, Admin{}, New(RoleAdmin, p))
	assert.IsType(t, Customer{}, New("OWNER", p))

	d, ok := New(RoleDriver, p).(Driver)
	require.True(t, ok)
	assert.Equal(t, DriverAvailable, d.Status)
	assert.Equal(t, DefaultDriverRating, d.Rating)
	assert.Equal(t, DefaultAvatar, d.Avatar)
}

func TestAnonymous(t *testing.T) {
	assert.True(t, IsAnonymous(Anonymous()))
	assert.True(t, IsAnonymous(nil))
	assert.False(t, IsAnonymous(Customer{Profile: Profile{ID: "u1"}}))
	assert.Equal(t, RoleUser, Anonymous().Role())
}

func TestProfileUpdateApply(t *testing.T) {
	name := "New Name"
	bio := ""
	p := ProfileUpdate{Name: &name, Bio: &bio}.Apply(Profile{Name: "Old", Bio: "keep?", Phone: "123"})

	assert.Equal(t, "New Name", p.Name)
	assert.Equal(t, "", p.Bio)
	assert.Equal(t, "123", p.Phone)
}

func TestWithProfileKeepsDriverFields(t *testing.T) {
	d := Driver{Profile: Profile{ID: "d1"}, LicenseNumber: "DL-1", TripsCompleted: 7}
	updated := WithProfile(d, Profile{ID: "d1", Name: "Renamed"})

	got, ok := updated.(Driver)
	require.True(t, ok)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "DL-1", got.LicenseNumber)
	assert.Equal(t, 7, got.TripsCompleted)
}

func TestRecordRoundTrip(t *testing.T) {
	d := Driver{
		Profile:        Profile{ID: "d1", Name: "Alex", Email: "a@x.com", Phone: "+1"},
		LicenseNumber:  "DL-1",
		Status:         DriverOffDuty,
		Rating:         4.2,
		TripsCompleted: 3,
	}

	raw, err := json.Marshal(ToRecord(d))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"licenseNumber":"DL-1"`)
	assert.Contains(t, string(raw), `"role":"DRIVER"`)

	var rec Record
	require.NoError(t, json.Unmarshal(raw, &rec))
	back, err := rec.Account()
	require.NoError(t, err)
	assert.Equal(t, d, back)
}

func TestRecordAccountDefaults(t *testing.T) {
	a, err := Record{ID: "d1", Role: RoleDriver}.Account()
	require.NoError(t, err)
	d := a.(Driver)
	assert.Equal(t, DriverAvailable, d.Status)
	assert.Equal(t, DefaultDriverRating, d.Rating)

	_, err = Record{ID: "x", Role: "ROOT"}.Account()
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("ADMIN")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("admin")
	assert.Error(t, err)
}
