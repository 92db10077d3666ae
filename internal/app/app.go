package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ShanmukPranay/Health-Chatbot/internal/auth"
	"github.com/ShanmukPranay/Health-Chatbot/internal/config"
	"github.com/ShanmukPranay/Health-Chatbot/internal/database"
	"github.com/ShanmukPranay/Health-Chatbot/internal/domain"
	"github.com/ShanmukPranay/Health-Chatbot/internal/event"
	handler "github.com/ShanmukPranay/Health-Chatbot/internal/handler/http"
	"github.com/ShanmukPranay/Health-Chatbot/internal/health"
	appkafka "github.com/ShanmukPranay/Health-Chatbot/internal/kafka"
	"github.com/ShanmukPranay/Health-Chatbot/internal/mailer"
	"github.com/ShanmukPranay/Health-Chatbot/internal/ratelimit"
	"github.com/ShanmukPranay/Health-Chatbot/internal/repository/postgres"
	"github.com/ShanmukPranay/Health-Chatbot/internal/service"
	"github.com/ShanmukPranay/Health-Chatbot/migrations"
)

// App wires together all dependencies and runs the chatbot backend.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	redis      *redis.Client
	producer   *appkafka.Producer
	httpServer *http.Server
}

// New creates the application, initializing all dependencies.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// PostgreSQL connection pool.
	pool, err := database.NewPostgresPool(ctx, database.PostgresConfig{
		DSN:             cfg.PostgresDSN(),
		MaxConns:        10,
		MinConns:        2,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Redis backs rate limiting only; the limiter fails open, so an
	// unreachable Redis degrades the service instead of stopping it.
	var redisClient *redis.Client
	redisClient, err = database.NewRedisClient(ctx, database.RedisConfig{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Warn("redis unavailable, rate limiting disabled",
			slog.String("addr", cfg.RedisAddr()),
			slog.String("error", err.Error()),
		)
		redisClient = nil
	}

	// Kafka producer.
	producer := appkafka.NewProducer(appkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	eventProducer := event.NewProducer(producer, logger)

	// Build the dependency graph.
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionExpiry(), cfg.ResetExpiry())
	policy := auth.NewPolicy(cfg.AdminEmail)

	userRepo := postgres.NewUserRepository(pool)
	otpRepo := postgres.NewOTPRepository(pool)
	chatRepo := postgres.NewChatRepository(pool)
	feedbackRepo := postgres.NewFeedbackRepository(pool)

	var mail mailer.Mailer = mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPUser,
		FromName: cfg.AppName,
	}, logger)
	if !mail.Enabled() {
		logger.Info("SMTP not configured, email delivery is simulated")
		mail = mailer.NewLogMailer(logger)
	}

	// Echoing reset codes in API responses is a development convenience
	// for running without SMTP. Never enabled outside development.
	echoCodes := cfg.Development()

	authService := service.NewAuthService(
		userRepo, otpRepo, tokens, policy, mail, eventProducer, logger,
		cfg.OTPExpiry(), echoCodes,
	)
	chatService := service.NewChatService(chatRepo, eventProducer, logger, cfg.MaxChatHistory)
	feedbackService := service.NewFeedbackService(feedbackRepo, logger)
	statsService := service.NewStatsService(userRepo, chatRepo, otpRepo, policy, logger)

	// Provision the designated admin and, in development, the demo account.
	if err := authService.EnsureAccount(ctx, cfg.AdminEmail, cfg.AdminName, cfg.AdminPassword); err != nil {
		pool.Close()
		return nil, fmt.Errorf("provision admin account: %w", err)
	}
	if cfg.SeedDemoUser {
		if err := authService.EnsureAccount(ctx, "demo@example.com", "Demo User", "demo123"); err != nil {
			logger.Warn("seed demo user failed", slog.String("error", err.Error()))
		}
	}

	var limiter *ratelimit.Limiter
	if redisClient != nil {
		limiter = ratelimit.NewLimiter(redisClient, logger,
			ratelimit.Rule{Max: cfg.RateLimitPerMinute, Window: time.Minute},
			ratelimit.Rule{Max: cfg.RateLimitPerHour, Window: time.Hour},
		)
	}

	// Health checks. Postgres is the source of truth; Redis and Kafka
	// only degrade the service when down.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})
	healthHandler.RegisterNonCritical("admin_account", func(ctx context.Context) error {
		u, err := userRepo.GetByEmail(ctx, cfg.AdminEmail)
		if err != nil {
			return fmt.Errorf("designated admin missing: %w", err)
		}
		if u.Role != domain.RoleAdmin {
			return fmt.Errorf("designated admin holds role %q", u.Role)
		}
		return nil
	})

	router := handler.NewRouter(handler.RouterDeps{
		AuthService:     authService,
		ChatService:     chatService,
		FeedbackService: feedbackService,
		StatsService:    statsService,
		Tokens:          tokens,
		Users:           userRepo,
		Health:          healthHandler,
		Limiter:         limiter,
		Logger:          logger,
		AppName:         cfg.AppName,
		CORS: handler.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		redis:      redisClient,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in order: drain in-flight
// HTTP requests, flush the Kafka producer, then close Redis and the
// PostgreSQL pool.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
