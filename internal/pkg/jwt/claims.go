// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// PurposeSession marks tokens that carry a browser session id.
const PurposeSession = "session"

// Claims represents the JWT claims
type Claims struct {
	SessionID string `json:"session_id"`
	Purpose   string `json:"purpose"`
	jwt.RegisteredClaims
}

// VerifyAudience checks if the expected audience is listed in the claims.
func (c *Claims) VerifyAudience(audience string, required bool) bool {
	if len(c.Audience) == 0 {
		return !required
	}

	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}

	return false
}
