package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/brightsmile/clinic-platform/internal/api/router"
	"github.com/brightsmile/clinic-platform/internal/appointments"
	"github.com/brightsmile/clinic-platform/internal/auth"
	"github.com/brightsmile/clinic-platform/internal/chat"
	"github.com/brightsmile/clinic-platform/internal/clinic"
	appconfig "github.com/brightsmile/clinic-platform/internal/config"
	"github.com/brightsmile/clinic-platform/internal/llm"
	"github.com/brightsmile/clinic-platform/internal/notify"
	"github.com/brightsmile/clinic-platform/internal/observability/metrics"
	"github.com/brightsmile/clinic-platform/internal/users"
	"github.com/brightsmile/clinic-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()

	// Postgres
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping postgres", "error", err)
		os.Exit(1)
	}

	// Redis for clinic settings
	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() { _ = redisClient.Close() }()

	// Metrics
	registry := prometheus.NewRegistry()
	clinicMetrics := metrics.NewClinicMetrics(registry)

	// LLM provider
	model, err := newModel(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize llm client", "error", err, "provider", cfg.LLMProvider)
		os.Exit(1)
	}
	logger.Info("llm client ready", "provider", model.Provider())

	// Email
	var emailSender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	} else {
		logger.Warn("sendgrid not configured, email delivery disabled")
		emailSender = notify.NewStubEmailSender(logger)
	}

	// Repositories and services
	userRepo := users.NewPostgresRepository(pool)
	apptRepo := appointments.NewPostgresRepository(pool)
	sessionStore := chat.NewPostgresSessionStore(pool)
	settingsStore := clinic.NewStore(redisClient)

	authSvc := auth.NewService(userRepo, cfg.JWTSecret, cfg.TokenExpiry, logger)
	notifySvc := notify.NewService(emailSender, logger)
	apptSvc := appointments.NewService(apptRepo, userRepo, notifySvc, clinicMetrics, logger)
	interpreter := chat.NewInterpreter(authSvc, userRepo, apptSvc, logger)
	chatSvc := chat.NewService(sessionStore, interpreter, model, userRepo, settingsStore, chat.ServiceConfig{
		HistoryWindow: cfg.ChatHistoryWindow,
		MaxTokens:     int32(cfg.LLMMaxTokens),
		Temperature:   float32(cfg.LLMTemperature),
	}, clinicMetrics, logger)

	// Setup router
	routerCfg := &router.Config{
		Logger:              logger,
		AuthHandler:         auth.NewHandler(authSvc, logger),
		ChatHandler:         chat.NewHandler(chatSvc, logger),
		AppointmentsHandler: appointments.NewHandler(apptSvc, logger),
		ClinicHandler:       clinic.NewHandler(settingsStore, logger),
		UsersHandler:        users.NewHandler(userRepo, logger),
		TokenVerifier:       authSvc,
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		ChatRateLimit:       cfg.ChatRateLimit,
		ChatRateBurst:       cfg.ChatRateBurst,
	}
	r := router.New(routerCfg)

	// Transcript retention sweep
	if cfg.ChatRetention > 0 {
		go func() {
			ticker := time.NewTicker(24 * time.Hour)
			defer ticker.Stop()
			for range ticker.C {
				removed, err := sessionStore.DeleteOlderThan(ctx, cfg.ChatRetention)
				if err != nil {
					logger.Error("transcript purge failed", "error", err)
					continue
				}
				if removed > 0 {
					logger.Info("purged expired chat sessions", "sessions", removed)
				}
			}
		}()
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func newModel(ctx context.Context, cfg *appconfig.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModelID)
	case "gemini", "":
		return llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}
