// Package main is the entrypoint for the transcription API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Ali34f/VideoTranscriber/internal/cache"
	"github.com/Ali34f/VideoTranscriber/internal/config"
	"github.com/Ali34f/VideoTranscriber/internal/handler"
	"github.com/Ali34f/VideoTranscriber/internal/metrics"
	"github.com/Ali34f/VideoTranscriber/internal/middleware"
	"github.com/Ali34f/VideoTranscriber/internal/repository"
	"github.com/Ali34f/VideoTranscriber/internal/server"
	"github.com/Ali34f/VideoTranscriber/internal/service"
	"github.com/Ali34f/VideoTranscriber/internal/transcriber"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	if err := repo.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", slog.String("error", sanitizeError(err, cfg.DatabaseURL)))
		os.Exit(1)
	}

	// Initialize session store
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	sessions := cache.NewSessionStore(cacheClient, cfg.SessionTTL)

	// Select the transcription backend
	var engine transcriber.Transcriber
	if cfg.WhisperURL != "" {
		engine = transcriber.NewClient(cfg.WhisperURL, cfg.WhisperModel, cfg.WhisperTimeout)
		logger.Info("using remote transcription backend",
			"url", redactURL(cfg.WhisperURL),
			"model", cfg.WhisperModel,
		)
	} else {
		engine = transcriber.NewLocal(cfg.WhisperModel)
		logger.Info("using local transcription backend", "model", cfg.WhisperModel)
	}

	// Initialize services
	recorder := metrics.NewInMemory()
	accounts := service.NewAccountService(repo, sessions, recorder)
	transcriptions := service.NewTranscriptionService(repo, engine, cfg.UploadDir, recorder)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(accounts, logger, handler.CookieConfig{
		Name:   cfg.SessionCookieName,
		Secure: cfg.SessionCookieSecure,
		TTL:    cfg.SessionTTL,
	})
	transcriptionHandler := handler.NewTranscriptionHandler(transcriptions, accounts, logger, cfg.MaxUploadSize)

	r := setupRouter(h, healthHandler, authHandler, transcriptionHandler, sessions, cacheClient, cfg, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	transcriptionHandler *handler.TranscriptionHandler,
	sessions *cache.SessionStore,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: cfg.IsDevelopment(),
	}))
	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		r.Use(middleware.CORS(middleware.DefaultCORSConfig(origins)))
	}

	// Health endpoints
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root info endpoint
	r.Get("/", h.Hello)

	sessionAuth := middleware.SessionAuth(middleware.SessionAuthConfig{
		Logger:     logger,
		Sessions:   sessions,
		CookieName: cfg.SessionCookieName,
	})

	rateLimitAuth := middleware.RateLimitAuth(middleware.RateLimitConfig{
		Logger:  logger,
		Cache:   cacheClient,
		Enabled: cfg.RateLimitAuthEnabled,
		RPS:     cfg.RateLimitAuthRPS,
		Burst:   cfg.RateLimitAuthBurst,
	})

	r.Route("/api", func(r chi.Router) {
		// Credential endpoints, rate limited per IP
		r.With(rateLimitAuth).Post("/signup", authHandler.Signup)
		r.With(rateLimitAuth).Post("/login", authHandler.Login)

		// Session-optional endpoints
		r.Post("/logout", authHandler.Logout)
		r.Get("/check-auth", authHandler.CheckAuth)

		// Session-required endpoints
		r.Group(func(r chi.Router) {
			r.Use(sessionAuth)
			r.Get("/history", transcriptionHandler.History)
			r.Get("/transcription/{id}", transcriptionHandler.Get)
			r.Get("/profile", transcriptionHandler.Profile)
		})
	})

	// Upload endpoint lives at the root, session-gated
	r.With(sessionAuth).Post("/transcribe", transcriptionHandler.Transcribe)

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
