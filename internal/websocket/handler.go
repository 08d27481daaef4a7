// internal/websocket/handler.go
package websocket

import (
	"context"
	"fmt"
	"sync"

	wstypes "automate-service/internal/domain/websocket"
)

// MessageHandler serves client messages of the event types it claims.
type MessageHandler interface {
	HandleMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error
	SupportedEvents() []wstypes.EventType
}

// HandlerRegistry routes client messages by event type. An event type has at
// most one handler.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[wstypes.EventType]MessageHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[wstypes.EventType]MessageHandler)}
}

// Register claims every event type handler supports. It fails without
// registering anything when one of them is already taken.
func (r *HandlerRegistry) Register(handler MessageHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := handler.SupportedEvents()
	for _, ev := range events {
		if _, taken := r.handlers[ev]; taken {
			return fmt.Errorf("websocket event %q already has a handler", ev)
		}
	}
	for _, ev := range events {
		r.handlers[ev] = handler
	}
	return nil
}

func (r *HandlerRegistry) GetHandler(eventType wstypes.EventType) (MessageHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[eventType]
	return handler, ok
}
