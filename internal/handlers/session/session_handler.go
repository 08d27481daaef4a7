// internal/handlers/session/session_handler.go
package session

import (
	"net/http"
	"time"

	"automate-service/internal/domain/auth"
	"automate-service/internal/middleware"
	"automate-service/internal/pkg/jwt"
	"automate-service/internal/pkg/response"
	"automate-service/internal/state"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SessionHandler struct {
	sessions  *state.Registry
	generator *jwt.Generator
	logger    *zap.Logger
}

func NewSessionHandler(sessions *state.Registry, generator *jwt.Generator, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:  sessions,
		generator: generator,
		logger:    logger,
	}
}

// Open starts a browser session and returns the token that addresses it.
func (h *SessionHandler) Open(c *gin.Context) {
	sc := h.sessions.Open(c.Request.Context())

	token, _, err := h.generator.GenerateSessionToken(sc.SessionID())
	if err != nil {
		h.logger.Error("failed to sign session token", zap.Error(err))
		response.Internal(c, "failed to open session", err)
		return
	}

	h.logger.Info("session opened", zap.String("session_id", sc.SessionID()))
	response.Success(c, http.StatusCreated, "session opened", auth.SessionResponse{
		SessionID: sc.SessionID(),
		Token:     token,
		ExpiresAt: time.Now().Add(h.generator.Ttl),
		DemoMode:  sc.Demo(),
	})
}

// State returns everything the session can see.
func (h *SessionHandler) State(c *gin.Context) {
	response.Success(c, http.StatusOK, "state retrieved", middleware.MustGetContainer(c).Snapshot())
}

// Refresh reloads the session's fleet, bookings and drivers.
func (h *SessionHandler) Refresh(c *gin.Context) {
	sc := middleware.MustGetContainer(c)
	sc.Refresh(c.Request.Context())
	response.Success(c, http.StatusOK, "state refreshed", sc.Snapshot())
}
