package account

import "fmt"

// ProfileUpdate is a partial change to the editable profile fields.
type ProfileUpdate struct {
	Name    *string `json:"name,omitempty"`
	Avatar  *string `json:"avatar,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Bio     *string `json:"bio,omitempty"`
}

// Apply merges the set fields of u into p.
func (u ProfileUpdate) Apply(p Profile) Profile {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Avatar != nil {
		p.Avatar = *u.Avatar
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	if u.Address != nil {
		p.Address = *u.Address
	}
	if u.Bio != nil {
		p.Bio = *u.Bio
	}
	return p
}

// Record is the flat serialized form of any Account, discriminated by Role.
type Record struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	Role           Role         `json:"role"`
	Avatar         string       `json:"avatar"`
	Phone          string       `json:"phone,omitempty"`
	Address        string       `json:"address,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	LicenseNumber  string       `json:"licenseNumber,omitempty"`
	LicenseExpiry  string       `json:"licenseExpiry,omitempty"`
	Status         DriverStatus `json:"status,omitempty"`
	Rating         float64      `json:"rating,omitempty"`
	TripsCompleted int          `json:"tripsCompleted,omitempty"`
	Earnings       float64      `json:"earnings,omitempty"`
	Age            int          `json:"age,omitempty"`
	Quote          string       `json:"quote,omitempty"`
}

// ToRecord flattens a into its serialized form.
func ToRecord(a Account) Record {
	p := a.Identity()
	rec := Record{
		ID:      p.ID,
		Name:    p.Name,
		Email:   p.Email,
		Role:    a.Role(),
		Avatar:  p.Avatar,
		Phone:   p.Phone,
		Address: p.Address,
		Bio:     p.Bio,
	}
	if d, ok := a.(Driver); ok {
		rec.LicenseNumber = d.LicenseNumber
		rec.LicenseExpiry = d.LicenseExpiry
		rec.Status = d.Status
		rec.Rating = d.Rating
		rec.TripsCompleted = d.TripsCompleted
		rec.Earnings = d.Earnings
		rec.Age = d.Age
		rec.Quote = d.Quote
	}
	return rec
}

// Account rebuilds the variant named by r.Role.
func (r Record) Account() (Account, error) {
	p := Profile{
		ID:      r.ID,
		Name:    r.Name,
		Email:   r.Email,
		Avatar:  r.Avatar,
		Phone:   r.Phone,
		Address: r.Address,
		Bio:     r.Bio,
	}
	switch r.Role {
	case RoleUser:
		return Customer{Profile: p}, nil
	case RoleAdmin:
		return Admin{Profile: p}, nil
	case RoleDriver:
		status := r.Status
		if !status.Valid() {
			status = DriverAvailable
		}
		rating := r.Rating
		if rating == 0 {
			rating = DefaultDriverRating
		}
		return Driver{
			Profile:        p,
			LicenseNumber:  r.LicenseNumber,
			LicenseExpiry:  r.LicenseExpiry,
			Status:         status,
			Rating:         rating,
			TripsCompleted: r.TripsCompleted,
			Earnings:       r.Earnings,
			Age:            r.Age,
			Quote:          r.Quote,
		}, nil
	}
	return nil, fmt.Errorf("unknown role %q", r.Role)
}
