// internal/domain/vehicle/entity.go
package vehicle

type FuelType string
type TransmissionType string

const (
	FuelTypePetrol   FuelType = "Petrol"
	FuelTypeDiesel   FuelType = "Diesel"
	FuelTypeElectric FuelType = "Electric"
	FuelTypeHybrid   FuelType = "Hybrid"

	TransmissionManual    TransmissionType = "Manual"
	TransmissionAutomatic TransmissionType = "Automatic"
)

func (f FuelType) Valid() bool {
	switch f {
	case FuelTypePetrol, FuelTypeDiesel, FuelTypeElectric, FuelTypeHybrid:
		return true
	}
	return false
}

func (t TransmissionType) Valid() bool {
	return t == TransmissionManual || t == TransmissionAutomatic
}

// Location is a named point on the map.
type Location struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Name string  `json:"name"`
}

// Health is the telemetry snapshot reported for a vehicle.
type Health struct {
	OilLife         int    `json:"oilLife"`         // percent
	TirePressure    int    `json:"tirePressure"`    // PSI
	BatteryHealth   int    `json:"batteryHealth"`   // percent
	BrakePadWear    int    `json:"brakePadWear"`    // percent remaining
	LastServiceDate string `json:"lastServiceDate"` // YYYY-MM-DD
	Mileage         int    `json:"mileage"`
}

// Vehicle represents a fleet car offered for rental.
type Vehicle struct {
	ID           string           `json:"id"`
	Brand        string           `json:"brand"`
	Model        string           `json:"model"`
	Image        string           `json:"image"`
	PricePerHour float64          `json:"pricePerHour"`
	PricePerDay  float64          `json:"pricePerDay"`
	FuelType     FuelType         `json:"fuelType"`
	Transmission TransmissionType `json:"transmission"`
	Seats        int              `json:"seats"`
	Location     Location         `json:"location"`
	Available    bool             `json:"available"`
	Rating       float64          `json:"rating"`
	Health       *Health          `json:"health,omitempty"`
}

// Label is the "Brand Model" display name.
func (v Vehicle) Label() string {
	return v.Brand + " " + v.Model
}

// Clone returns a copy that shares no pointers with v.
func (v Vehicle) Clone() Vehicle {
	if v.Health != nil {
		h := *v.Health
		v.Health = &h
	}
	return v
}
