// internal/websocket/handler/notification.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	wstypes "automate-service/internal/domain/websocket"
	"automate-service/internal/state"
	ws "automate-service/internal/websocket"
)

// NotificationHandler lets a connected client read and dismiss its
// session's notifications.
type NotificationHandler struct {
	sessions *state.Registry
}

func NewNotificationHandler(sessions *state.Registry) *NotificationHandler {
	return &NotificationHandler{
		sessions: sessions,
	}
}

// SupportedEvents returns events this handler supports
func (h *NotificationHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{
		wstypes.EventTypeNotificationRead,
		wstypes.EventTypeNotificationDismiss,
		wstypes.EventTypeNotificationCount,
	}
}

// HandleMessage processes notification-related messages
func (h *NotificationHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	c := h.sessions.Get(ctx, client.GetSessionID())

	switch msg.Type {
	case wstypes.EventTypeNotificationCount:
		client.SendMessage(wstypes.NewMessage(wstypes.EventTypeNotificationCount, wstypes.CountData{
			Unread: c.UnreadCount(),
		}))
		return nil

	case wstypes.EventTypeNotificationRead, wstypes.EventTypeNotificationDismiss:
		var req wstypes.NotificationRequest
		if err := decodeData(msg.Data, &req); err != nil {
			client.SendError("invalid_request", "Invalid notification request", err.Error())
			return nil
		}

		// The resulting queue event reaches the client through the hub.
		var ok bool
		if msg.Type == wstypes.EventTypeNotificationRead {
			ok = c.MarkNotificationRead(req.ID)
		} else {
			ok = c.RemoveNotification(req.ID)
		}
		if !ok {
			client.SendError("not_found", ws.ErrUnknownTarget.Error(), req.ID)
		}
		return nil

	default:
		return fmt.Errorf("unsupported event type: %s", msg.Type)
	}
}

// Helper function to convert interface{} to struct
func decodeData(data interface{}, target interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonData, target)
}
