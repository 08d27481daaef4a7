// internal/domain/account/entity.go
package account

import "fmt"

type Role string
type DriverStatus string

const (
	RoleUser   Role = "USER"
	RoleAdmin  Role = "ADMIN"
	RoleDriver Role = "DRIVER"

	DriverAvailable DriverStatus = "AVAILABLE"
	DriverOnTrip    DriverStatus = "ON_TRIP"
	DriverOffDuty   DriverStatus = "OFF_DUTY"
)

// DefaultAvatar is used whenever a profile carries no avatar.
const DefaultAvatar = "https://via.placeholder.com/150"

// DefaultDriverRating applies to drivers without a recorded rating.
const DefaultDriverRating = 5.0

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleDriver:
		return true
	}
	return false
}

// ParseRole accepts the stored role string; anything unknown is an error.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (s DriverStatus) Valid() bool {
	switch s {
	case DriverAvailable, DriverOnTrip, DriverOffDuty:
		return true
	}
	return false
}

// Profile holds the fields shared by every account kind.
type Profile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Avatar  string `json:"avatar"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Bio     string `json:"bio,omitempty"`
}

// Account is the closed set of signed-in identities: Customer, Admin or Driver.
type Account interface {
	Role() Role
	Identity() Profile
	withProfile(p Profile) Account
}

type Customer struct {
	Profile
}

type Admin struct {
	Profile
}

// Driver carries the fields only drivers have. Phone is mandatory for drivers.
type Driver struct {
	Profile
	LicenseNumber  string       `json:"licenseNumber"`
	LicenseExpiry  string       `json:"licenseExpiry,omitempty"`
	Status         DriverStatus `json:"status"`
	Rating         float64      `json:"rating"`
	TripsCompleted int          `json:"tripsCompleted"`
	Earnings       float64      `json:"earnings"`
	Age            int          `json:"age,omitempty"`
	Quote          string       `json:"quote,omitempty"`
}

func (Customer) Role() Role { return RoleUser }
func (Admin) Role() Role    { return RoleAdmin }
func (Driver) Role() Role   { return RoleDriver }

func (c Customer) Identity() Profile { return c.Profile }
func (a Admin) Identity() Profile    { return a.Profile }
func (d Driver) Identity() Profile   { return d.Profile }

func (c Customer) withProfile(p Profile) Account { c.Profile = p; return c }
func (a Admin) withProfile(p Profile) Account    { a.Profile = p; return a }
func (d Driver) withProfile(p Profile) Account   { d.Profile = p; return d }

// Anonymous returns the signed-out placeholder account.
func Anonymous() Account {
	return Customer{Profile: Profile{Avatar: DefaultAvatar}}
}

// New builds the variant matching role around a profile. Drivers start
// available with the default rating.
func New(role Role, p Profile) Account {
	if p.Avatar == "" {
		p.Avatar = DefaultAvatar
	}
	switch role {
	case RoleAdmin:
		return Admin{Profile: p}
	case RoleDriver:
		return Driver{Profile: p, Status: DriverAvailable, Rating: DefaultDriverRating}
	default:
		return Customer{Profile: p}
	}
}

// WithProfile returns a copy of a with its shared profile replaced.
func WithProfile(a Account, p Profile) Account {
	return a.withProfile(p)
}

// IsAnonymous reports whether a is the signed-out placeholder.
func IsAnonymous(a Account) bool {
	return a == nil || a.Identity().ID == ""
}
