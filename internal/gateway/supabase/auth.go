package supabase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"automate-service/internal/gateway"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// SignUp registers a new identity with name and role as user metadata.
func (c *Client) SignUp(ctx context.Context, req gateway.SignUpRequest) error {
	body := map[string]interface{}{
		"email":    req.Email,
		"password": req.Password,
		"data": map[string]interface{}{
			"name": req.Name,
			"role": string(req.Role),
		},
	}
	if _, err := c.request(ctx, http.MethodPost, c.authURL+"/signup", body, nil); err != nil {
		return err
	}
	c.logger.Info("gateway sign-up", zap.String("email", req.Email), zap.String("role", string(req.Role)))
	return nil
}

// SignIn exchanges email and password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*gateway.Session, error) {
	body := map[string]string{"email": email, "password": password}
	data, err := c.request(ctx, http.MethodPost, c.authURL+"/token?grant_type=password", body, nil)
	if err != nil {
		return nil, err
	}

	res := gjson.ParseBytes(data)
	s := &gateway.Session{
		AccessToken:  res.Get("access_token").String(),
		RefreshToken: res.Get("refresh_token").String(),
		UserID:       res.Get("user.id").String(),
		Email:        res.Get("user.email").String(),
	}
	if s.AccessToken == "" || s.UserID == "" {
		return nil, fmt.Errorf("sign-in response carried no session")
	}
	if exp := res.Get("expires_in").Int(); exp > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(exp) * time.Second)
	}
	return s, nil
}

// SignOut revokes the session's tokens.
func (c *Client) SignOut(ctx context.Context, s *gateway.Session) error {
	if s == nil {
		return nil
	}
	_, err := c.request(gateway.WithSession(ctx, s), http.MethodPost, c.authURL+"/logout", nil, nil)
	return err
}

// GetSession checks s against /auth/v1/user.
func (c *Client) GetSession(ctx context.Context, s *gateway.Session) (*gateway.Session, error) {
	if s == nil || s.AccessToken == "" {
		return nil, fmt.Errorf("no session")
	}
	if s.Expired(time.Now()) {
		return nil, fmt.Errorf("session expired")
	}
	data, err := c.request(gateway.WithSession(ctx, s), http.MethodGet, c.authURL+"/user", nil, nil)
	if err != nil {
		return nil, err
	}

	live := *s
	live.UserID = gjson.GetBytes(data, "id").String()
	live.Email = gjson.GetBytes(data, "email").String()
	if live.UserID == "" {
		return nil, fmt.Errorf("session user not found")
	}
	return &live, nil
}
