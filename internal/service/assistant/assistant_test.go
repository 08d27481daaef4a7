package assistant

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"automate-service/internal/domain/vehicle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewService(Config{APIKey: "k", BaseURL: srv.URL}, nil)
}

func TestReplyWithoutKey(t *testing.T) {
	s := NewService(Config{}, nil)
	assert.Equal(t, ReplyNoAPIKey, s.Reply(context.Background(), "hi", ""))
}

func TestReplySendsPrompt(t *testing.T) {
	var path, key, text string
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		path = r.URL.Path
		key = r.URL.Query().Get("key")
		text = gjson.GetBytes(body, "contents.0.parts.0.text").String()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Try the Creta."}]}}]}`))
	})

	got := s.Reply(context.Background(), "Which SUV?", "User: Ann")

	assert.Equal(t, "Try the Creta.", got)
	assert.Equal(t, "/models/gemini-1.5-flash:generateContent", path)
	assert.Equal(t, "k", key)
	assert.Equal(t, "User: Ann\n\nUser query: Which SUV?", text)
}

func TestReplyFallbacks(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom"}}`, ReplyUnreachable},
		{"no candidates", http.StatusOK, `{}`, ReplyNoResponse},
		{"empty text", http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":""}]}}]}`, ReplyEmptyResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			assert.Equal(t, tc.want, s.Reply(context.Background(), "q", "c"))
		})
	}
}

func TestReplyUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	s := NewService(Config{APIKey: "k", BaseURL: url}, nil)
	assert.Equal(t, ReplyUnreachable, s.Reply(context.Background(), "q", "c"))
}

func TestBuildContext(t *testing.T) {
	vehicles := []vehicle.Vehicle{
		{Brand: "Tata", Model: "Nexon", PricePerDay: 6800, Available: true},
		{Brand: "Kia", Model: "Seltos", PricePerDay: 9000, Available: false},
		{Brand: "Hyundai", Model: "Creta", PricePerDay: 8000.5, Available: true},
	}

	got := BuildContext("Ann", vehicles)
	assert.Equal(t, "User: Ann\nAvailable Cars: Tata Nexon ($6800/day), Hyundai Creta ($8000.5/day)", got)

	require.Equal(t, "User: Ann\nAvailable Cars: None at the moment", BuildContext("Ann", nil))
}

func TestGreeting(t *testing.T) {
	assert.Equal(t, "Hi Ann! I can help you find a rental car, book a service, or check availability.", Greeting("Ann"))
}
