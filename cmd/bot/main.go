package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"englishcard/internal/config"
	"englishcard/internal/database"
	"englishcard/internal/dialog"
	"englishcard/internal/handler"
	"englishcard/internal/metrics"
	"englishcard/internal/middleware"
	"englishcard/internal/repository/postgres"
	"englishcard/internal/service"
	"englishcard/internal/session"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting EnglishCard Bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully",
		zap.String("session_backend", cfg.Session.Backend),
		zap.Int("rate_limit_per_minute", cfg.RateLimitPerMinute),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database with retries
	db, err := connectDatabase(ctx, cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := database.RunMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")

	// Session store
	sessions, closeSessions, err := newSessionStore(ctx, cfg.Session, logger)
	if err != nil {
		logger.Fatal("Failed to initialize session store", zap.Error(err))
	}
	defer closeSessions()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	wordRepo := postgres.NewWordRepo(db)

	// Initialize services
	userService := service.NewUserService(userRepo)
	wordService := service.NewWordService(wordRepo)
	quizService := service.NewQuizService(
		wordRepo,
		cfg.QuizMaxAttempts,
		rand.New(rand.NewSource(time.Now().UnixNano())),
	)

	dispatcher := dialog.NewDispatcher(userService, wordService, quizService, sessions, collector, logger)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("Telegram error", zap.Error(err))
		},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		PerMinute: cfg.RateLimitPerMinute,
	}, collector, logger)

	bot.Use(
		middleware.Recover(logger),
		middleware.Logging(logger),
		limiter.Middleware(),
	)

	// Initialize handler
	h := handler.NewHandler(dispatcher, logger)
	h.RegisterHandlers(bot)

	logger.Info("Handlers registered")

	// Metrics endpoint
	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metrics.Handler(registry),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("Metrics server listening", zap.String("addr", cfg.MetricsAddr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cancel()

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to stop metrics server", zap.Error(err))
		}
	}

	logger.Info("Bot stopped gracefully")
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(ctx context.Context, dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.PingContext(ctx); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		// Connection successful
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// newSessionStore builds the configured session backend. The returned
// func releases its resources.
func newSessionStore(ctx context.Context, cfg config.SessionConfig, logger *zap.Logger) (session.Store, func(), error) {
	switch cfg.Backend {
	case config.SessionBackendRedis:
		client, err := session.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using redis session store", zap.Duration("ttl", cfg.TTL))
		return session.NewRedisStore(client, cfg.TTL), func() {
			if err := client.Close(); err != nil {
				logger.Warn("Failed to close redis client", zap.Error(err))
			}
		}, nil
	default:
		logger.Info("Using in-memory session store")
		return session.NewMemoryStore(), func() {}, nil
	}
}
