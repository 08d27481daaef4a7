// internal/middleware/helpers.go
package middleware

import (
	"automate-service/internal/state"

	"github.com/gin-gonic/gin"
)

// MustGetContainer gets the session container from context or panics
func MustGetContainer(c *gin.Context) *state.Container {
	sc, exists := GetContainer(c)
	if !exists {
		panic("session container not found in context")
	}
	return sc
}

// MustGetSessionID gets the session id from context or panics
func MustGetSessionID(c *gin.Context) string {
	sid, exists := GetSessionID(c)
	if !exists {
		panic("session_id not found in context")
	}
	return sid
}
