// internal/websocket/errors.go
package websocket

import "errors"

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidToken  = errors.New("invalid token")
	ErrUnknownTarget = errors.New("notification not found")
)
