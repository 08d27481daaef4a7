// internal/handlers/dashboard/dashboard_handler.go
package dashboard

import (
	"net/http"

	"automate-service/internal/domain/account"
	"automate-service/internal/middleware"
	"automate-service/internal/pkg/response"
	"automate-service/internal/service/dashboard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	logger *zap.Logger
}

func NewDashboardHandler(logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		logger: logger,
	}
}

// UserDashboard returns trip totals and the active rental.
func (h *DashboardHandler) UserDashboard(c *gin.Context) {
	sc := middleware.MustGetContainer(c)
	d := dashboard.ForUser(sc.Account().Identity().ID, sc.Bookings(), sc.Vehicles(), sc.Drivers())
	response.Success(c, http.StatusOK, "dashboard retrieved", d)
}

// DriverDashboard returns trip requests, the active trip and earnings.
func (h *DashboardHandler) DriverDashboard(c *gin.Context) {
	sc := middleware.MustGetContainer(c)
	me, ok := sc.Account().(account.Driver)
	if !ok {
		response.Forbidden(c, "driver account required")
		return
	}
	response.Success(c, http.StatusOK, "dashboard retrieved", dashboard.ForDriver(me, sc.Bookings()))
}

type driverStatusRequest struct {
	Status account.DriverStatus `json:"status" binding:"required"`
}

// SetDriverStatus toggles the signed-in driver between available and off duty.
func (h *DashboardHandler) SetDriverStatus(c *gin.Context) {
	var req driverStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	sc := middleware.MustGetContainer(c)
	d, err := sc.SetDriverStatus(req.Status)
	if err != nil {
		response.FromError(c, err.Error(), err)
		return
	}

	h.logger.Info("driver status changed",
		zap.String("driver_id", d.ID),
		zap.String("status", string(d.Status)),
	)
	response.Success(c, http.StatusOK, "status updated", account.ToRecord(d))
}

// ListDrivers returns the driver roster.
func (h *DashboardHandler) ListDrivers(c *gin.Context) {
	drivers := middleware.MustGetContainer(c).Drivers()
	records := make([]account.Record, 0, len(drivers))
	for _, d := range drivers {
		records = append(records, account.ToRecord(d))
	}
	response.Success(c, http.StatusOK, "drivers retrieved", gin.H{
		"drivers": records,
		"count":   len(records),
	})
}

// AddDriver explains how drivers join. Accounts are created through sign-up.
func (h *DashboardHandler) AddDriver(c *gin.Context) {
	sc := middleware.MustGetContainer(c)
	sc.AddDriver(account.Driver{})
	response.Accepted(c, "drivers must sign up with the driver role", nil)
}

// DeleteDriver is refused; the roster mirrors registered accounts.
func (h *DashboardHandler) DeleteDriver(c *gin.Context) {
	sc := middleware.MustGetContainer(c)
	sc.DeleteDriver(c.Param("id"))
	response.Accepted(c, "driver deletion restricted", nil)
}
