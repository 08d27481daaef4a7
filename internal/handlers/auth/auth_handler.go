// internal/handlers/auth/auth_handler.go
package auth

import (
	"context"
	"net/http"

	"automate-service/internal/domain/account"
	"automate-service/internal/domain/auth"
	"automate-service/internal/middleware"
	"automate-service/internal/pkg/response"
	"automate-service/internal/state"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoginLimiter counts sign-in attempts per session and email.
type LoginLimiter interface {
	CheckLoginAttempt(ctx context.Context, sid, email string) (bool, int64, error)
	ResetLoginAttempts(ctx context.Context, sid, email string) error
}

type AuthHandler struct {
	limiter LoginLimiter
	logger  *zap.Logger
}

// NewAuthHandler creates the handler. limiter may be nil.
func NewAuthHandler(limiter LoginLimiter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		limiter: limiter,
		logger:  logger,
	}
}

// Login signs the session in, or registers when signUp is set.
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	sc := middleware.MustGetContainer(c)
	if h.limiter != nil && !req.SignUp {
		allowed, _, err := h.limiter.CheckLoginAttempt(c.Request.Context(), sc.SessionID(), req.Email)
		if err != nil {
			h.logger.Warn("login rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			response.Error(c, http.StatusTooManyRequests, "too many login attempts, try again later", nil)
			return
		}
	}

	err := sc.Login(c.Request.Context(), state.LoginRequest{
		Role:     req.Role,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		SignUp:   req.SignUp,
	})
	if err != nil {
		h.logger.Warn("login failed",
			zap.String("email", req.Email),
			zap.Bool("sign_up", req.SignUp),
			zap.Error(err),
		)
		// Gateway messages are shown to the user as is.
		response.Error(c, http.StatusUnauthorized, err.Error(), err)
		return
	}

	if h.limiter != nil && !req.SignUp {
		if err := h.limiter.ResetLoginAttempts(c.Request.Context(), sc.SessionID(), req.Email); err != nil {
			h.logger.Warn("failed to reset login attempts", zap.Error(err))
		}
	}

	resp := auth.LoginResponse{
		Authenticated: sc.Authenticated(),
		Account:       account.ToRecord(sc.Account()),
	}
	if latest := sc.Notifications(); len(latest) > 0 {
		resp.Notification = &latest[0]
	}

	message := "login successful"
	if req.SignUp {
		message = "registration successful"
	}
	response.Success(c, http.StatusOK, message, resp)
}

// Logout signs the session out.
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.MustGetContainer(c).Logout(c.Request.Context())
	response.Success(c, http.StatusOK, "logged out", nil)
}

// UpdateProfile edits the signed-in account's profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req account.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	sc := middleware.MustGetContainer(c)
	ticket := sc.UpdateCurrentUser(c.Request.Context(), req)

	response.Accepted(c, "profile updated", gin.H{
		"account": account.ToRecord(sc.Account()),
		"sync":    ticket,
	})
}
