// internal/app/router.go
package app

import (
	"net/http"

	assistantHandler "automate-service/internal/handlers/assistant"
	authHandler "automate-service/internal/handlers/auth"
	bookingHandler "automate-service/internal/handlers/booking"
	dashboardHandler "automate-service/internal/handlers/dashboard"
	notifyHandler "automate-service/internal/handlers/notification"
	sessionHandler "automate-service/internal/handlers/session"
	vehicleHandler "automate-service/internal/handlers/vehicle"
	wsHandler "automate-service/internal/handlers/websocket"
	"automate-service/internal/middleware"
	"automate-service/internal/pkg/metrics"
	"automate-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	SessionHandler   *sessionHandler.SessionHandler
	AuthHandler      *authHandler.AuthHandler
	VehicleHandler   *vehicleHandler.VehicleHandler
	BookingHandler   *bookingHandler.BookingHandler
	NotifHandler     *notifyHandler.NotificationHandler
	DashboardHandler *dashboardHandler.DashboardHandler
	AssistantHandler *assistantHandler.AssistantHandler
	WSHandler        *wsHandler.WebSocketHandler
	AuthMiddleware   *middleware.AuthMiddleware
	ChatLimiter      *middleware.RateLimiter

	DemoMode            bool
	AssistantConfigured bool
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "ok", gin.H{
			"status":    "ok",
			"version":   "1.0.0",
			"demoMode":  h.DemoMode,
			"assistant": h.AssistantConfigured,
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Sessions ====================
	api.POST("/sessions", h.SessionHandler.Open)
	api.GET("/services", h.VehicleHandler.ListServices)

	// ==================== Session Routes (signed in or not) ====================
	anon := api.Group("")
	anon.Use(h.AuthMiddleware.Session())
	{
		anon.GET("/state", h.SessionHandler.State)
		anon.POST("/state/refresh", h.SessionHandler.Refresh)

		anon.POST("/auth/login", h.AuthHandler.Login)
		anon.POST("/auth/logout", h.AuthHandler.Logout)

		anon.GET("/vehicles", h.VehicleHandler.ListVehicles)
		anon.GET("/vehicles/:id", h.VehicleHandler.GetVehicle)

		anon.GET("/notifications", h.NotifHandler.GetNotifications)
		anon.PUT("/notifications/:id/read", h.NotifHandler.MarkAsRead)
		anon.DELETE("/notifications/:id", h.NotifHandler.DeleteNotification)
		anon.DELETE("/notifications", h.NotifHandler.ClearNotifications)
	}

	// ==================== Signed-in Routes ====================
	authed := api.Group("")
	authed.Use(h.AuthMiddleware.Authenticated()...)
	{
		authed.PUT("/auth/profile", h.AuthHandler.UpdateProfile)

		authed.GET("/bookings", h.BookingHandler.ListBookings)
		authed.POST("/bookings", h.BookingHandler.CreateBooking)
		authed.POST("/bookings/rental", h.BookingHandler.BookRental)
		authed.POST("/bookings/service", h.BookingHandler.BookService)
		authed.GET("/bookings/sync/:ticket", h.BookingHandler.SyncStatus)
		authed.PUT("/bookings/:id/status", h.BookingHandler.UpdateStatus)
		authed.POST("/bookings/:id/rating", h.BookingHandler.RateBooking)
		authed.GET("/bookings/:id/tracking", h.BookingHandler.Track)

		authed.GET("/dashboard", h.DashboardHandler.UserDashboard)

		authed.GET("/assistant", h.AssistantHandler.Greeting)
		authed.POST("/assistant/chat", h.ChatLimiter.Handler(), h.AssistantHandler.Chat)
	}

	// ==================== Driver Routes ====================
	driver := api.Group("/driver")
	driver.Use(h.AuthMiddleware.DriverOnly()...)
	{
		driver.GET("/dashboard", h.DashboardHandler.DriverDashboard)
		driver.PUT("/status", h.DashboardHandler.SetDriverStatus)
		driver.POST("/bookings/:id/accept", h.BookingHandler.AcceptTrip)
		driver.POST("/bookings/:id/complete", h.BookingHandler.CompleteTrip)
		driver.POST("/vehicles", h.VehicleHandler.AddVehicle)
	}

	// ==================== Admin Routes ====================
	admin := api.Group("/admin")
	admin.Use(h.AuthMiddleware.AdminOnly()...)
	{
		admin.POST("/vehicles", h.VehicleHandler.AddVehicle)
		admin.DELETE("/vehicles/:id", h.VehicleHandler.DeleteVehicle)
		admin.GET("/fleet", h.VehicleHandler.Fleet)

		admin.GET("/drivers", h.DashboardHandler.ListDrivers)
		admin.POST("/drivers", h.DashboardHandler.AddDriver)
		admin.DELETE("/drivers/:id", h.DashboardHandler.DeleteDriver)

		admin.PUT("/bookings/:id/status", h.BookingHandler.UpdateStatus)
		admin.GET("/ws/stats", h.WSHandler.GetStats)
	}

	logger.Info("routes registered", zap.Int("count", len(r.Routes())))
}
