package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"automate-service/internal/pkg/jwt"
)

// Gateway drivers.
const (
	GatewaySupabase = "supabase"
	GatewayPostgres = "postgres"
	GatewayDemo     = "demo"
)

type AppConfig struct {
	// Server
	HTTPAddr       string
	AllowedOrigins []string

	// Remote gateway
	GatewayDriver   string
	SupabaseURL     string
	SupabaseAnonKey string
	DatabaseURL     string
	GatewayTimeout  time.Duration
	AuthSessionTTL  time.Duration

	// Redis
	RedisAddr string
	RedisPass string

	// JWT
	JWT jwt.Config

	// Sessions
	SessionIdleTimeout time.Duration
	EvictionSchedule   string

	// Assistant
	GeminiAPIKey      string
	GeminiModel       string
	ChatRatePerMinute int
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8000"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		GatewayDriver:   strings.ToLower(getEnv("GATEWAY_DRIVER", GatewaySupabase)),
		SupabaseURL:     getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey: getEnv("SUPABASE_ANON_KEY", ""),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		GatewayTimeout:  getEnvDuration("GATEWAY_TIMEOUT", 30*time.Second),
		AuthSessionTTL:  getEnvDuration("AUTH_SESSION_TTL", 24*time.Hour),

		RedisAddr: getEnv("REDIS_ADDR", ""),
		RedisPass: getEnv("REDIS_PASS", ""),

		JWT: jwt.Config{
			PrivPath: getEnv("JWT_PRIVATE_KEY_PATH", ""),
			PubPath:  getEnv("JWT_PUBLIC_KEY_PATH", ""),
			Issuer:   "automate-service",
			Audience: "automate-web",
			TTL:      getEnvDuration("SESSION_TOKEN_TTL", 720*time.Hour),
			KID:      "automate-key",
		},

		SessionIdleTimeout: getEnvDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		EvictionSchedule:   getEnv("EVICTION_SCHEDULE", "@every 5m"),

		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		ChatRatePerMinute: getEnvInt("CHAT_RATE_PER_MINUTE", 10),
	}
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
