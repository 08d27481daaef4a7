// internal/handlers/vehicle/vehicle_handler.go
package vehicle

import (
	"net/http"

	"automate-service/internal/demo"
	"automate-service/internal/domain/vehicle"
	"automate-service/internal/middleware"
	"automate-service/internal/pkg/response"
	"automate-service/internal/service/dashboard"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type VehicleHandler struct {
	logger *zap.Logger
}

func NewVehicleHandler(logger *zap.Logger) *VehicleHandler {
	return &VehicleHandler{
		logger: logger,
	}
}

// ListVehicles returns the fleet. ?available=true hides booked cars.
func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	vehicles := middleware.MustGetContainer(c).Vehicles()

	if c.Query("available") == "true" {
		filtered := vehicles[:0]
		for _, v := range vehicles {
			if v.Available {
				filtered = append(filtered, v)
			}
		}
		vehicles = filtered
	}

	response.Success(c, http.StatusOK, "vehicles retrieved", gin.H{
		"vehicles": vehicles,
		"count":    len(vehicles),
	})
}

// GetVehicle returns one car with its health assessment.
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	v, ok := middleware.MustGetContainer(c).Vehicle(c.Param("id"))
	if !ok {
		response.NotFound(c, "vehicle not found")
		return
	}

	response.Success(c, http.StatusOK, "vehicle retrieved", gin.H{
		"vehicle":    v,
		"assessment": vehicle.Assess(v),
	})
}

// ListServices returns the maintenance catalog.
func (h *VehicleHandler) ListServices(c *gin.Context) {
	response.Success(c, http.StatusOK, "services retrieved", demo.ServiceTypes())
}

// AddVehicle adds a car to the fleet. Admins and drivers share it.
func (h *VehicleHandler) AddVehicle(c *gin.Context) {
	var req vehicle.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	if !req.FuelType.Valid() {
		response.ValidationError(c, "invalid fuel type", nil)
		return
	}
	if req.Transmission != "" && !req.Transmission.Valid() {
		response.ValidationError(c, "invalid transmission", nil)
		return
	}

	sc := middleware.MustGetContainer(c)
	v, ticket := sc.AddCar(c.Request.Context(), req.ToVehicle(ulid.Make().String()))

	h.logger.Info("vehicle added",
		zap.String("session_id", sc.SessionID()),
		zap.String("vehicle_id", v.ID),
	)
	response.Success(c, http.StatusCreated, "vehicle added", gin.H{
		"vehicle": v,
		"sync":    ticket,
	})
}

// DeleteVehicle removes a car from the fleet.
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	sc := middleware.MustGetContainer(c)
	id := c.Param("id")
	if _, ok := sc.Vehicle(id); !ok {
		response.NotFound(c, "vehicle not found")
		return
	}

	ticket := sc.DeleteCar(c.Request.Context(), id)
	response.Accepted(c, "vehicle removed", gin.H{
		"sync": ticket,
	})
}

// Fleet returns the admin fleet overview.
func (h *VehicleHandler) Fleet(c *gin.Context) {
	response.Success(c, http.StatusOK, "fleet retrieved", dashboard.Fleet(middleware.MustGetContainer(c).Vehicles()))
}
