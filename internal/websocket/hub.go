// internal/websocket/hub.go
package websocket

import (
	"context"
	"fmt"
	"sync"

	"automate-service/internal/domain/notification"
	wstypes "automate-service/internal/domain/websocket"
	"automate-service/internal/pkg/jwt"
	"automate-service/internal/state"

	"go.uber.org/zap"
)

type Hub struct {
	// Registered clients by session ID
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *BroadcastMessage

	// Handler registry for modular message handling
	handlerRegistry *HandlerRegistry

	jwtVerifier *jwt.Verifier
	logger      *zap.Logger
}

type BroadcastMessage struct {
	SessionID string
	Channel   wstypes.ChannelType
	Messages  []*wstypes.WSMessage
}

var _ state.EventSink = (*Hub)(nil)

func NewHub(jwtVerifier *jwt.Verifier, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:         make(map[string]map[*Client]bool),
		Register:        make(chan *Client),
		unregister:      make(chan *Client, 64),
		broadcast:       make(chan *BroadcastMessage, 256),
		handlerRegistry: NewHandlerRegistry(),
		jwtVerifier:     jwtVerifier,
		logger:          logger,
	}
}

// AuthenticateClient validates the session token a client connects with.
func (h *Hub) AuthenticateClient(token string) (*ClientAuth, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	sid, err := h.jwtVerifier.VerifySessionToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &ClientAuth{SessionID: sid}, nil
}

// RegisterHandler adds a handler for client messages.
func (h *Hub) RegisterHandler(handler MessageHandler) error {
	return h.handlerRegistry.Register(handler)
}

// HandleClientMessage processes a message from a client using registered handlers
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error {
	handler, exists := h.handlerRegistry.GetHandler(msg.Type)
	if !exists {
		return nil // Will be handled by client's default handler
	}
	return handler.HandleMessage(ctx, client, msg)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastMessage(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.sessionID] == nil {
		h.clients[client.sessionID] = make(map[*Client]bool)
	}
	h.clients[client.sessionID][client] = true
	for _, ch := range wstypes.DefaultChannels {
		client.Subscribe(ch)
	}

	h.logger.Info("websocket client connected",
		zap.String("session_id", client.sessionID),
		zap.Int("total", h.totalClients()),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"session_id": client.sessionID,
		"channels":   wstypes.DefaultChannels,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.sessionID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.sessionID)
			}

			h.logger.Info("websocket client disconnected",
				zap.String("session_id", client.sessionID),
				zap.Int("total", h.totalClients()),
			)
		}
	}
}

func (h *Hub) BroadcastMessage(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[msg.SessionID] {
		if !client.IsSubscribed(msg.Channel) {
			continue
		}
		for _, m := range msg.Messages {
			client.SendMessage(m)
		}
	}
}

// Publish queues ev for the session's connected clients. It never blocks;
// when the queue is full the event is dropped.
func (h *Hub) Publish(sid string, ev state.Event) {
	msg := translate(sid, ev)
	if msg == nil {
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("websocket broadcast queue full, dropping event",
			zap.String("session_id", sid),
			zap.String("type", string(ev.Type)),
		)
	}
}

func translate(sid string, ev state.Event) *BroadcastMessage {
	switch ev.Type {
	case state.EventSync:
		return &BroadcastMessage{
			SessionID: sid,
			Channel:   wstypes.ChannelSync,
			Messages:  []*wstypes.WSMessage{wstypes.NewMessage(wstypes.EventTypeSync, ev.Data)},
		}

	case state.EventLogout:
		return &BroadcastMessage{
			SessionID: sid,
			Channel:   wstypes.ChannelSystem,
			Messages:  []*wstypes.WSMessage{wstypes.NewMessage(wstypes.EventTypeLogout, nil)},
		}

	case state.EventNotification:
		nev, ok := ev.Data.(notification.Event)
		if !ok {
			return nil
		}
		var first *wstypes.WSMessage
		switch nev.Kind {
		case notification.EventAdded:
			first = wstypes.NewMessage(wstypes.EventTypeNotification, nev.Notification)
		case notification.EventRemoved:
			first = wstypes.NewMessage(wstypes.EventTypeNotificationRemoved, wstypes.NotificationIDData{ID: nev.ID, Unread: nev.Unread})
		case notification.EventCleared:
			first = wstypes.NewMessage(wstypes.EventTypeNotificationCleared, nil)
		case notification.EventRead:
			first = wstypes.NewMessage(wstypes.EventTypeNotificationRead, wstypes.NotificationIDData{ID: nev.ID, Unread: nev.Unread})
		default:
			return nil
		}
		return &BroadcastMessage{
			SessionID: sid,
			Channel:   wstypes.ChannelNotifications,
			Messages: []*wstypes.WSMessage{
				first,
				wstypes.NewMessage(wstypes.EventTypeNotificationCount, wstypes.CountData{Unread: nev.Unread}),
			},
		}
	}
	return nil
}

func (h *Hub) GetConnectedClients(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
	h.clients = make(map[string]map[*Client]bool)
}
