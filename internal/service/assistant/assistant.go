// Package assistant answers free-text questions through the Gemini
// generateContent API, seeded with a short description of the session.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"automate-service/internal/domain/vehicle"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-1.5-flash"
)

// Canned replies. Reply never returns an error; these stand in for one.
const (
	ReplyNoAPIKey       = "API Key not configured. Please add your Gemini API Key."
	ReplyUnreachable    = "I'm currently having trouble connecting to the server. Please try again later."
	ReplyNoResponse     = "I'm sorry, I couldn't generate a response due to an API issue."
	ReplyEmptyResponse  = "I'm sorry, I couldn't generate a response."
	noVehiclesAvailable = "None at the moment"
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type Service struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

func NewService(cfg Config, logger *zap.Logger) *Service {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Configured reports whether an API key is set.
func (s *Service) Configured() bool {
	return s.cfg.APIKey != ""
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

// Reply asks the model about prompt with contextData prepended.
func (s *Service) Reply(ctx context.Context, prompt, contextData string) string {
	if !s.Configured() {
		return ReplyNoAPIKey
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: contextData + "\n\nUser query: " + prompt}}}},
	})
	if err != nil {
		s.logger.Error("failed to encode assistant request", zap.Error(err))
		return ReplyUnreachable
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(s.cfg.BaseURL, "/"), url.PathEscape(s.cfg.Model), url.QueryEscape(s.cfg.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		s.logger.Error("failed to build assistant request", zap.Error(err))
		return ReplyUnreachable
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		s.logger.Warn("assistant request failed", zap.Error(err))
		return ReplyUnreachable
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Warn("failed to read assistant response", zap.Error(err))
		return ReplyUnreachable
	}
	if resp.StatusCode >= http.StatusBadRequest {
		s.logger.Warn("assistant API error",
			zap.Int("status", resp.StatusCode),
			zap.String("error", gjson.GetBytes(raw, "error.message").String()),
		)
		return ReplyUnreachable
	}

	parsed := gjson.ParseBytes(raw)
	if !parsed.Get("candidates.0").Exists() {
		return ReplyNoResponse
	}
	text := parsed.Get("candidates.0.content.parts.0.text").String()
	if text == "" {
		return ReplyEmptyResponse
	}
	return text
}

// BuildContext describes the user and the bookable fleet for the model.
func BuildContext(name string, vehicles []vehicle.Vehicle) string {
	var cars []string
	for _, v := range vehicles {
		if !v.Available {
			continue
		}
		cars = append(cars, fmt.Sprintf("%s ($%s/day)", v.Label(), strconv.FormatFloat(v.PricePerDay, 'f', -1, 64)))
	}
	available := strings.Join(cars, ", ")
	if available == "" {
		available = noVehiclesAvailable
	}
	return fmt.Sprintf("User: %s\nAvailable Cars: %s", name, available)
}

// Greeting is the assistant's opening line.
func Greeting(name string) string {
	return fmt.Sprintf("Hi %s! I can help you find a rental car, book a service, or check availability.", name)
}
