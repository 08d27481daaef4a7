// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"automate-service/internal/config"
	"automate-service/internal/db"
	"automate-service/internal/gateway"
	"automate-service/internal/gateway/supabase"
	assistantHandler "automate-service/internal/handlers/assistant"
	authHandler "automate-service/internal/handlers/auth"
	bookingHandler "automate-service/internal/handlers/booking"
	dashboardHandler "automate-service/internal/handlers/dashboard"
	notifyHandler "automate-service/internal/handlers/notification"
	sessionHandler "automate-service/internal/handlers/session"
	vehicleHandler "automate-service/internal/handlers/vehicle"
	wsHandler "automate-service/internal/handlers/websocket"
	"automate-service/internal/middleware"
	"automate-service/internal/pkg/jwt"
	"automate-service/internal/pkg/metrics"
	"automate-service/internal/pkg/session"
	"automate-service/internal/repository/postgres"
	"automate-service/internal/service/assistant"
	"automate-service/internal/state"
	"automate-service/internal/websocket"
	wsHandlers "automate-service/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg      config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	http     *http.Server
	sessions *state.Registry
	pool     *pgxpool.Pool
	redis    *redis.Client
	stopHub  context.CancelFunc
}

func NewServer(logger *zap.Logger) *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine, logger: logger}
}

// Start wires every component and serves HTTP until Shutdown is called.
func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Remote Gateway -----
	gw, err := s.connectGateway(ctx)
	if err != nil {
		return err
	}

	// ----- Redis -----
	var (
		store        session.Store
		loginLimiter authHandler.LoginLimiter
	)
	if s.cfg.RedisAddr != "" {
		redisClient, err := db.NewRedisClient(ctx, db.RedisConfig{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPass,
			PoolSize: 10,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		s.redis = redisClient
		store = session.NewRedisStore(redisClient)
		loginLimiter = session.NewRateLimiter(redisClient)
		s.logger.Info("redis session store connected", zap.String("addr", s.cfg.RedisAddr))
	} else {
		store = session.NewMemoryStore()
		s.logger.Warn("REDIS_ADDR not set, sessions are kept in memory")
	}

	// ----- JWT Manager -----
	if s.cfg.JWT.Ephemeral() {
		s.logger.Warn("JWT key paths not set, signing with an ephemeral key")
	}
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(jwtManager.Verifier, s.logger)

	// ----- Session Registry -----
	s.sessions = state.NewRegistry(state.Deps{
		Gateway:     gw,
		Store:       store,
		Sink:        hub,
		Logger:      s.logger,
		SyncTimeout: s.cfg.GatewayTimeout,
	}, s.cfg.SessionIdleTimeout)
	if err := s.sessions.Start(s.cfg.EvictionSchedule); err != nil {
		return fmt.Errorf("failed to schedule session eviction: %w", err)
	}

	if err := hub.RegisterHandler(wsHandlers.NewNotificationHandler(s.sessions)); err != nil {
		return fmt.Errorf("failed to register websocket handler: %w", err)
	}
	hubCtx, stopHub := context.WithCancel(ctx)
	s.stopHub = stopHub
	go hub.Run(hubCtx)

	// ----- Services -----
	assistantService := assistant.NewService(assistant.Config{
		APIKey: s.cfg.GeminiAPIKey,
		Model:  s.cfg.GeminiModel,
	}, s.logger)

	// ----- Handlers -----
	handlers := &Handlers{
		SessionHandler:      sessionHandler.NewSessionHandler(s.sessions, jwtManager.Generator, s.logger),
		AuthHandler:         authHandler.NewAuthHandler(loginLimiter, s.logger),
		VehicleHandler:      vehicleHandler.NewVehicleHandler(s.logger),
		BookingHandler:      bookingHandler.NewBookingHandler(s.logger),
		NotifHandler:        notifyHandler.NewNotificationHandler(),
		DashboardHandler:    dashboardHandler.NewDashboardHandler(s.logger),
		AssistantHandler:    assistantHandler.NewAssistantHandler(assistantService),
		WSHandler:           wsHandler.NewWebSocketHandler(hub, s.sessions, s.cfg.AllowedOrigins, s.logger),
		AuthMiddleware:      middleware.NewAuthMiddleware(jwtManager.Verifier, s.sessions),
		ChatLimiter:         middleware.NewRateLimiter(s.cfg.ChatRatePerMinute, s.cfg.ChatRatePerMinute),
		DemoMode:            s.sessions.Demo(),
		AssistantConfigured: assistantService.Configured(),
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingMiddleware(s.logger),
		middleware.CORSMiddleware(s.cfg.AllowedOrigins),
		metrics.Middleware(),
	)

	SetupRouter(s.engine, s.logger, handlers)

	// ----- Start HTTP -----
	s.http = &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("server running",
		zap.String("addr", s.cfg.HTTPAddr),
		zap.Bool("demo_mode", s.sessions.Demo()),
	)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// connectGateway picks the remote gateway. A nil gateway means demo mode.
func (s *Server) connectGateway(ctx context.Context) (gateway.Gateway, error) {
	switch s.cfg.GatewayDriver {
	case config.GatewayPostgres:
		pool, err := db.ConnectDB(ctx, db.PostgresConfig{DSN: s.cfg.DatabaseURL, MaxConns: 10})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		if err := postgres.NewDB(pool).EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
		s.pool = pool
		s.logger.Info("postgres gateway connected")
		return postgres.NewGateway(pool, s.cfg.AuthSessionTTL), nil

	case config.GatewaySupabase:
		cfg := supabase.Config{
			ProjectURL: s.cfg.SupabaseURL,
			AnonKey:    s.cfg.SupabaseAnonKey,
			Timeout:    s.cfg.GatewayTimeout,
		}
		if !cfg.Configured() {
			s.logger.Warn("supabase credentials missing, running in demo mode")
			return nil, nil
		}
		client, err := supabase.New(cfg, s.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create supabase client: %w", err)
		}
		s.logger.Info("supabase gateway configured", zap.String("url", s.cfg.SupabaseURL))
		return client, nil

	case config.GatewayDemo:
		s.logger.Info("running in demo mode")
		return nil, nil
	}
	return nil, fmt.Errorf("unknown gateway driver %q", s.cfg.GatewayDriver)
}

// Shutdown stops HTTP, waits for in-flight syncs, then closes connections.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	if s.sessions != nil {
		s.sessions.Close()
	}
	if s.stopHub != nil {
		s.stopHub()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
