package vehicle

// CreateRequest is the payload for adding a car to the fleet.
type CreateRequest struct {
	Brand        string           `json:"brand" binding:"required"`
	Model        string           `json:"model" binding:"required"`
	Image        string           `json:"image"`
	PricePerHour float64          `json:"pricePerHour" binding:"required,gt=0"`
	PricePerDay  float64          `json:"pricePerDay"`
	FuelType     FuelType         `json:"fuelType" binding:"required"`
	Transmission TransmissionType `json:"transmission"`
	Seats        int              `json:"seats" binding:"required,min=1"`
	Location     *Location        `json:"location,omitempty"`
	Rating       float64          `json:"rating"`
}

// Defaults applied to cars listed from the driver portal.
const (
	DayRateHours   = 8
	DefaultRating  = 5.0
	DefaultLat     = 37.77
	DefaultLng     = -122.41
	DefaultLocName = "Driver Location"
)

// ToVehicle fills in the portal defaults for anything left unset.
func (r CreateRequest) ToVehicle(id string) Vehicle {
	v := Vehicle{
		ID:           id,
		Brand:        r.Brand,
		Model:        r.Model,
		Image:        r.Image,
		PricePerHour: r.PricePerHour,
		PricePerDay:  r.PricePerDay,
		FuelType:     r.FuelType,
		Transmission: r.Transmission,
		Seats:        r.Seats,
		Available:    true,
		Rating:       r.Rating,
		Location:     Location{Lat: DefaultLat, Lng: DefaultLng, Name: DefaultLocName},
	}
	if v.PricePerDay == 0 {
		v.PricePerDay = r.PricePerHour * DayRateHours
	}
	if v.Transmission == "" {
		v.Transmission = TransmissionAutomatic
	}
	if v.Rating == 0 {
		v.Rating = DefaultRating
	}
	if r.Location != nil {
		v.Location = *r.Location
	}
	return v
}
