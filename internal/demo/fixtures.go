// Package demo holds the fixture data used when no remote gateway is
// configured, and as a fallback when remote fetches fail.
package demo

import (
	"automate-service/internal/domain/account"
	"automate-service/internal/domain/booking"
	"automate-service/internal/domain/vehicle"
)

var vehicles = []vehicle.Vehicle{
	{
		ID: "c1", Brand: "Maruti Suzuki", Model: "Swift",
		Image:        "https://images.unsplash.com/photo-1541899481282-d53bffe3c35d?auto=format&fit=crop&w=800&q=80",
		PricePerHour: 800, PricePerDay: 5200,
		FuelType: vehicle.FuelTypePetrol, Transmission: vehicle.TransmissionManual, Seats: 5,
		Location:  vehicle.Location{Lat: 37.7749, Lng: -122.4194, Name: "Downtown Hub"},
		Available: true, Rating: 4.2,
		Health: &vehicle.Health{OilLife: 85, TirePressure: 32, BatteryHealth: 92, BrakePadWear: 15, LastServiceDate: "2024-02-15", Mileage: 12500},
	},
	{
		ID: "c2", Brand: "Tata", Model: "Nexon",
		Image:        "https://images.unsplash.com/photo-1590362891991-f776e747a588?auto=format&fit=crop&w=800&q=80",
		PricePerHour: 1000, PricePerDay: 6800,
		FuelType: vehicle.FuelTypeDiesel, Transmission: vehicle.TransmissionManual, Seats: 5,
		Location:  vehicle.Location{Lat: 37.7849, Lng: -122.4094, Name: "Airport"},
		Available: true, Rating: 4.3,
		Health: &vehicle.Health{OilLife: 45, TirePressure: 30, BatteryHealth: 88, BrakePadWear: 40, LastServiceDate: "2023-11-20", Mileage: 28400},
	},
	{
		ID: "c3", Brand: "Hyundai", Model: "Creta",
		Image:        "https://images.unsplash.com/photo-1533473359331-0135ef1b58bf?auto=format&fit=crop&w=800&q=80",
		PricePerHour: 1200, PricePerDay: 8000,
		FuelType: vehicle.FuelTypePetrol, Transmission: vehicle.TransmissionAutomatic, Seats: 5,
		Location:  vehicle.Location{Lat: 37.7649, Lng: -122.4294, Name: "Suburban Center"},
		Available: true, Rating: 4.5,
		Health: &vehicle.Health{OilLife: 15, TirePressure: 28, BatteryHealth: 95, BrakePadWear: 10, LastServiceDate: "2023-08-10", Mileage: 45200},
	},
	{
		ID: "c4", Brand: "Mahindra", Model: "Thar",
		Image:        "https://images.unsplash.com/photo-1533558701576-23c65e0272fb?auto=format&fit=crop&w=800&q=80",
		PricePerHour: 1400, PricePerDay: 9600,
		FuelType: vehicle.FuelTypeDiesel, Transmission: vehicle.TransmissionManual, Seats: 4,
		Location:  vehicle.Location{Lat: 37.7549, Lng: -122.4394, Name: "Luxury Garage"},
		Available: true, Rating: 4.6,
		Health: &vehicle.Health{OilLife: 98, TirePressure: 35, BatteryHealth: 100, BrakePadWear: 2, LastServiceDate: "2024-03-01", Mileage: 1200},
	},
	{
		ID: "c5", Brand: "Kia", Model: "Seltos",
		Image:        "https://images.unsplash.com/photo-1550355291-bbee04a92027?auto=format&fit=crop&w=800&q=80",
		PricePerHour: 1300, PricePerDay: 9000,
		FuelType: vehicle.FuelTypePetrol, Transmission: vehicle.TransmissionAutomatic, Seats: 5,
		Location:  vehicle.Location{Lat: 37.7549, Lng: -122.4394, Name: "City Center"},
		Available: true, Rating: 4.4,
		Health: &vehicle.Health{OilLife: 60, TirePressure: 33, BatteryHealth: 85, BrakePadWear: 30, LastServiceDate: "2024-01-10", Mileage: 18900},
	},
	{
		ID: "c6", Brand: "Mahindra", Model: "Scorpio",
		Image:        "https://images.unsplash.com/photo-1506015391300-4802dc74de2e?auto=format&fit=crop&w=800&q=80",
		PricePerHour: 1500, PricePerDay: 10500,
		FuelType: vehicle.FuelTypeDiesel, Transmission: vehicle.TransmissionManual, Seats: 7,
		Location:  vehicle.Location{Lat: 37.7549, Lng: -122.4394, Name: "City Center"},
		Available: true, Rating: 4.5,
		Health: &vehicle.Health{OilLife: 78, TirePressure: 34, BatteryHealth: 90, BrakePadWear: 25, LastServiceDate: "2024-02-05", Mileage: 22100},
	},
}

var drivers = []account.Driver{
	{
		Profile: account.Profile{
			ID: "d1", Name: "Alex Johnson", Email: "alex@driver.com",
			Avatar: "https://i.pravatar.cc/150?u=alex", Phone: "+1 555-101-202",
			Address: "12 Baker St, San Francisco, CA",
		},
		LicenseNumber: "DL-CA-908712", LicenseExpiry: "2026-08-15",
		Status: account.DriverAvailable, Rating: 4.7, TripsCompleted: 142,
		Earnings: 12450, Age: 32, Quote: "Smooth driving and punctual.",
	},
	{
		Profile: account.Profile{
			ID: "d2", Name: "Priya Singh", Email: "priya@driver.com",
			Avatar: "https://i.pravatar.cc/150?u=priya", Phone: "+1 555-303-404",
			Address: "55 Elm Ave, San Jose, CA",
		},
		LicenseNumber: "DL-CA-774420", LicenseExpiry: "2025-11-30",
		Status: account.DriverOnTrip, Rating: 4.9, TripsCompleted: 215,
		Earnings: 18900, Age: 28, Quote: "Very courteous and safe.",
	},
	{
		Profile: account.Profile{
			ID: "d3", Name: "Marcus Lee", Email: "marcus@driver.com",
			Avatar: "https://i.pravatar.cc/150?u=marcus", Phone: "+1 555-505-606",
			Address: "98 Pearl Rd, Oakland, CA",
		},
		LicenseNumber: "DL-CA-662100", LicenseExpiry: "2024-05-20",
		Status: account.DriverOffDuty, Rating: 4.5, TripsCompleted: 89,
		Earnings: 7800, Age: 41, Quote: "No feedback yet",
	},
}

var demoUser = account.Customer{
	Profile: account.Profile{
		ID:      "u1",
		Name:    "John Doe",
		Email:   "john@example.com",
		Avatar:  "https://picsum.photos/100/100?random=user",
		Phone:   "+1 555-0199",
		Address: "123 Market St, San Francisco",
		Bio:     "Car enthusiast and frequent traveler.",
	},
}

var serviceTypes = []booking.ServiceType{
	{ID: "s1", Name: "General service", Description: "Complete vehicle inspection", BasePrice: 2000, Icon: "wrench"},
	{ID: "s2", Name: "Oil change", Description: "Engine oil replacement", BasePrice: 1500, Icon: "droplet"},
	{ID: "s3", Name: "Wash and polish", Description: "Complete cleaning", BasePrice: 800, Icon: "sparkles"},
	{ID: "s4", Name: "Dent and paint", Description: "Body repair works", BasePrice: 5000, Icon: "hammer"},
}

// Vehicles returns a fresh copy of the six fixture cars.
func Vehicles() []vehicle.Vehicle {
	out := make([]vehicle.Vehicle, len(vehicles))
	for i, v := range vehicles {
		out[i] = v.Clone()
	}
	return out
}

// Drivers returns a fresh copy of the three fixture drivers.
func Drivers() []account.Driver {
	return append([]account.Driver(nil), drivers...)
}

// User returns the demo customer profile.
func User() account.Customer {
	return demoUser
}

// ServiceTypes returns the maintenance catalog.
func ServiceTypes() []booking.ServiceType {
	return append([]booking.ServiceType(nil), serviceTypes...)
}

// ServiceType looks up a catalog entry by id.
func ServiceType(id string) (booking.ServiceType, bool) {
	for _, s := range serviceTypes {
		if s.ID == id {
			return s, true
		}
	}
	return booking.ServiceType{}, false
}
