// internal/handlers/websocket/websocket.go
package handlers

import (
	"net/http"
	"time"

	"automate-service/internal/middleware"
	"automate-service/internal/pkg/response"
	"automate-service/internal/state"
	ws "automate-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WebSocketHandler struct {
	hub      *ws.Hub
	sessions *state.Registry
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler builds the upgrade endpoint. An empty allowedOrigins
// accepts any origin.
func NewWebSocketHandler(hub *ws.Hub, sessions *state.Registry, allowedOrigins []string, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:      hub,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return middleware.OriginAllowed(allowedOrigins, r.Header.Get("Origin"))
			},
		},
		logger: logger,
	}
}

// HandleConnection upgrades a request carrying a valid session token.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	auth, err := h.hub.AuthenticateClient(middleware.ExtractToken(c))
	if err != nil {
		h.logger.Warn("websocket authentication failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		response.Error(c, http.StatusUnauthorized, "authentication failed", err)
		return
	}

	// Restore the session before events start flowing.
	h.sessions.Get(c.Request.Context(), auth.SessionID)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		return
	}

	client := ws.NewClient(h.hub, conn, auth)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

// GetStats returns connection statistics. ?session_id= adds that session's
// connection count.
func (h *WebSocketHandler) GetStats(c *gin.Context) {
	stats := gin.H{
		"total_connections": h.hub.TotalClients(),
		"live_sessions":     h.sessions.Len(),
		"timestamp":         time.Now(),
	}
	if sid := c.Query("session_id"); sid != "" {
		stats["session_connections"] = h.hub.GetConnectedClients(sid)
	}
	response.Success(c, http.StatusOK, "websocket stats", stats)
}
