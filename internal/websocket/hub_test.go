package websocket

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"testing"
	"time"

	"automate-service/internal/domain/notification"
	wstypes "automate-service/internal/domain/websocket"
	"automate-service/internal/pkg/jwt"
	"automate-service/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testHub(t *testing.T) (*Hub, *jwt.Manager) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	m := jwt.Build(jwt.Config{Issuer: "automate", Audience: "web", TTL: time.Hour}, priv, &priv.PublicKey)
	return NewHub(m.Verifier, zap.NewNop()), m
}

// fakeClient is a client without a connection; tests read its send buffer.
func fakeClient(h *Hub, sid string) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		hub:           h,
		send:          make(chan []byte, 16),
		sessionID:     sid,
		subscriptions: make(map[wstypes.ChannelType]bool),
		ctx:           ctx,
		cancel:        cancel,
	}
}

func next(t *testing.T, c *Client) *wstypes.WSMessage {
	t.Helper()
	select {
	case raw := <-c.send:
		msg, err := wstypes.ParseMessage(raw)
		require.NoError(t, err)
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message delivered")
		return nil
	}
}

func TestAuthenticateClient(t *testing.T) {
	h, m := testHub(t)

	_, err := h.AuthenticateClient("")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = h.AuthenticateClient("nope")
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, _, err := m.Generator.GenerateSessionToken("S1")
	require.NoError(t, err)
	auth, err := h.AuthenticateClient(token)
	require.NoError(t, err)
	assert.Equal(t, "S1", auth.SessionID)
}

func TestTranslate(t *testing.T) {
	n := &notification.Notification{ID: "n1", Message: "hi"}

	msg := translate("S1", state.Event{Type: state.EventNotification, Data: notification.Event{Kind: notification.EventAdded, Notification: n, Unread: 3}})
	require.NotNil(t, msg)
	assert.Equal(t, wstypes.ChannelNotifications, msg.Channel)
	require.Len(t, msg.Messages, 2)
	assert.Equal(t, wstypes.EventTypeNotification, msg.Messages[0].Type)
	assert.Equal(t, wstypes.EventTypeNotificationCount, msg.Messages[1].Type)

	msg = translate("S1", state.Event{Type: state.EventSync, Data: state.SyncEvent{TicketID: "t1"}})
	require.NotNil(t, msg)
	assert.Equal(t, wstypes.ChannelSync, msg.Channel)

	msg = translate("S1", state.Event{Type: state.EventLogout})
	require.NotNil(t, msg)
	assert.Equal(t, wstypes.ChannelSystem, msg.Channel)

	assert.Nil(t, translate("S1", state.Event{Type: state.EventNotification, Data: "junk"}))
	assert.Nil(t, translate("S1", state.Event{Type: "other"}))
}

func TestHubDeliversToSubscribedSession(t *testing.T) {
	h, _ := testHub(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	mine := fakeClient(h, "S1")
	other := fakeClient(h, "S2")
	h.Register <- mine
	h.Register <- other

	assert.Equal(t, wstypes.EventTypeConnected, next(t, mine).Type)
	assert.Equal(t, wstypes.EventTypeConnected, next(t, other).Type)
	assert.Equal(t, 2, h.TotalClients())

	h.Publish("S1", state.Event{Type: state.EventNotification, Data: notification.Event{Kind: notification.EventRemoved, ID: "n1", Unread: 0}})

	removed := next(t, mine)
	assert.Equal(t, wstypes.EventTypeNotificationRemoved, removed.Type)
	raw, err := json.Marshal(removed.Data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"n1","unread":0}`, string(raw))
	assert.Equal(t, wstypes.EventTypeNotificationCount, next(t, mine).Type)

	mine.Unsubscribe(wstypes.ChannelSync)
	h.Publish("S1", state.Event{Type: state.EventSync, Data: state.SyncEvent{TicketID: "t1"}})
	h.Publish("S1", state.Event{Type: state.EventLogout})
	assert.Equal(t, wstypes.EventTypeLogout, next(t, mine).Type)

	select {
	case raw := <-other.send:
		t.Fatalf("other session received %s", raw)
	default:
	}
}

func TestClientCloseIsIdempotent(t *testing.T) {
	h, _ := testHub(t)
	c := fakeClient(h, "S1")

	c.Close()
	c.Close()
	c.SendMessage(wstypes.NewMessage(wstypes.EventTypePing, nil))

	_, open := <-c.send
	assert.False(t, open)
}

func TestSubscribeRejectsUnknownChannel(t *testing.T) {
	h, _ := testHub(t)
	c := fakeClient(h, "S1")

	assert.True(t, c.Subscribe(wstypes.ChannelSync))
	assert.False(t, c.Subscribe("payments"))
	assert.True(t, c.IsSubscribed(wstypes.ChannelSync))
	assert.False(t, c.IsSubscribed("payments"))
}

type stubHandler struct {
	events []wstypes.EventType
	calls  int
}

func (s *stubHandler) HandleMessage(context.Context, *Client, *wstypes.WSMessage) error {
	s.calls++
	return nil
}

func (s *stubHandler) SupportedEvents() []wstypes.EventType { return s.events }

func TestRegisterHandlerRejectsTakenEvents(t *testing.T) {
	h, _ := testHub(t)
	first := &stubHandler{events: []wstypes.EventType{wstypes.EventTypeNotificationRead}}
	require.NoError(t, h.RegisterHandler(first))

	second := &stubHandler{events: []wstypes.EventType{wstypes.EventTypeNotificationDismiss, wstypes.EventTypeNotificationRead}}
	require.Error(t, h.RegisterHandler(second))

	// the failed registration claims nothing
	_, ok := h.handlerRegistry.GetHandler(wstypes.EventTypeNotificationDismiss)
	assert.False(t, ok)

	c := fakeClient(h, "sid")
	require.NoError(t, h.HandleClientMessage(t.Context(), c, wstypes.NewMessage(wstypes.EventTypeNotificationRead, nil)))
	assert.Equal(t, 1, first.calls)
}
