package vehicle

// Thresholds used by the fleet health view.
const (
	OilServiceThreshold     = 30
	BatteryWarningThreshold = 50
	BrakeCriticalThreshold  = 20
)

type HealthLevel string

const (
	HealthGood     HealthLevel = "good"
	HealthWarning  HealthLevel = "warning"
	HealthCritical HealthLevel = "critical"
)

// Assessment summarizes a vehicle's telemetry for the admin fleet view.
type Assessment struct {
	VehicleID    string      `json:"vehicleId"`
	Healthy      bool        `json:"healthy"`
	Status       string      `json:"status"`
	Oil          HealthLevel `json:"oil"`
	Battery      HealthLevel `json:"battery"`
	Brakes       HealthLevel `json:"brakes"`
	HasTelemetry bool        `json:"hasTelemetry"`
}

// NeedsService reports whether the oil life has dropped below the service threshold.
func (h Health) NeedsService() bool {
	return h.OilLife < OilServiceThreshold
}

// Assess grades v's health. Vehicles without telemetry count as healthy.
func Assess(v Vehicle) Assessment {
	a := Assessment{
		VehicleID: v.ID,
		Healthy:   true,
		Status:    "Healthy",
		Oil:       HealthGood,
		Battery:   HealthGood,
		Brakes:    HealthGood,
	}
	if v.Health == nil {
		return a
	}
	h := *v.Health
	a.HasTelemetry = true
	if h.NeedsService() {
		a.Healthy = false
		a.Status = "Needs Service"
		a.Oil = HealthCritical
	}
	if h.BatteryHealth < BatteryWarningThreshold {
		a.Battery = HealthWarning
	}
	if h.BrakePadWear < BrakeCriticalThreshold {
		a.Brakes = HealthCritical
	}
	return a
}
