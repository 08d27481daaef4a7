// internal/middleware/auth_middleware.go
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"automate-service/internal/domain/account"
	"automate-service/internal/pkg/jwt"
	"automate-service/internal/pkg/response"
	"automate-service/internal/state"

	"github.com/gin-gonic/gin"
)

const (
	ctxSessionID = "session_id"
	ctxContainer = "container"
)

type AuthMiddleware struct {
	verifier *jwt.Verifier
	sessions *state.Registry
}

func NewAuthMiddleware(verifier *jwt.Verifier, sessions *state.Registry) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		sessions: sessions,
	}
}

// Session resolves the bearer's session token to its state container.
func (m *AuthMiddleware) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing session token", nil)
			return
		}

		sid, err := m.verifier.VerifySessionToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired session token", err)
			return
		}

		c.Set(ctxSessionID, sid)
		c.Set(ctxContainer, m.sessions.Get(c.Request.Context(), sid))
		c.Next()
	}
}

// RequireLogin rejects sessions that are not signed in.
// MUST be used after Session() middleware
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !MustGetContainer(c).Authenticated() {
			response.Error(c, http.StatusUnauthorized, "login required", nil)
			return
		}
		c.Next()
	}
}

// RequireRole requires the signed-in account to hold one of roles.
// MUST be used after Session() middleware
func (m *AuthMiddleware) RequireRole(roles ...account.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := MustGetContainer(c)
		if !sc.Authenticated() {
			response.Error(c, http.StatusUnauthorized, "login required", nil)
			return
		}

		current := sc.Account().Role()
		for _, r := range roles {
			if r == current {
				c.Next()
				return
			}
		}

		err := errors.New("account does not have required role")
		response.Error(c, http.StatusForbidden, "insufficient permissions", err, map[string]interface{}{
			"required_roles": roles,
			"role":           current,
		})
	}
}

// Authenticated returns middlewares for routes that need a signed-in session.
func (m *AuthMiddleware) Authenticated() []gin.HandlerFunc {
	return []gin.HandlerFunc{m.Session(), m.RequireLogin()}
}

// AdminOnly returns middlewares for admin-only routes (Session + RequireRole)
func (m *AuthMiddleware) AdminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{m.Session(), m.RequireRole(account.RoleAdmin)}
}

// DriverOnly returns middlewares for the driver portal.
func (m *AuthMiddleware) DriverOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{m.Session(), m.RequireRole(account.RoleDriver)}
}

// ExtractToken extracts Bearer token from Authorization header
func ExtractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	// Browsers cannot set headers on websocket upgrades.
	return c.Query("token")
}

// GetSessionID returns the session id set by Session().
func GetSessionID(c *gin.Context) (string, bool) {
	sid, exists := c.Get(ctxSessionID)
	if !exists {
		return "", false
	}
	s, ok := sid.(string)
	return s, ok
}

// GetContainer returns the state container set by Session().
func GetContainer(c *gin.Context) (*state.Container, bool) {
	v, exists := c.Get(ctxContainer)
	if !exists {
		return nil, false
	}
	sc, ok := v.(*state.Container)
	return sc, ok
}
