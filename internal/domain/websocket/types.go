// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventType represents different real-time event types
type EventType string

const (
	// Connection events
	EventTypePing      EventType = "ping"
	EventTypePong      EventType = "pong"
	EventTypeConnected EventType = "connected"
	EventTypeError     EventType = "error"

	// Notification events (server -> client)
	EventTypeNotification        EventType = "notification"
	EventTypeNotificationRemoved EventType = "notification:removed"
	EventTypeNotificationCleared EventType = "notification:cleared"
	EventTypeNotificationCount   EventType = "notification:count"

	// Notification events (client -> server, echoed back)
	EventTypeNotificationRead    EventType = "notification:read"
	EventTypeNotificationDismiss EventType = "notification:dismiss"

	// Sync and session events
	EventTypeSync   EventType = "sync"
	EventTypeLogout EventType = "session:logout"

	// Subscription events
	EventTypeSubscribe   EventType = "subscribe"
	EventTypeUnsubscribe EventType = "unsubscribe"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	ID        string      `json:"id,omitempty"`
}

// Subscription channels that clients can subscribe to
type ChannelType string

const (
	ChannelNotifications ChannelType = "notifications"
	ChannelSync          ChannelType = "sync"
	ChannelSystem        ChannelType = "system"
)

// DefaultChannels are subscribed on connect.
var DefaultChannels = []ChannelType{ChannelNotifications, ChannelSync, ChannelSystem}

// SubscribeRequest sent by client to subscribe to specific channels
type SubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// UnsubscribeRequest sent by client to unsubscribe from channels
type UnsubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// NotificationRequest names a notification for read or dismiss.
type NotificationRequest struct {
	ID string `json:"id"`
}

// ErrorData for error events
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// CountData carries the unread notification count.
type CountData struct {
	Unread int `json:"unread"`
}

// NotificationIDData identifies a removed or read notification.
type NotificationIDData struct {
	ID     string `json:"id"`
	Unread int    `json:"unread"`
}

// Helper to create messages
func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
		ID:        ulid.Make().String(),
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	err := json.Unmarshal(data, &msg)
	return &msg, err
}
