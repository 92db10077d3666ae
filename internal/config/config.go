package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const defaultJWTSecret = "health-chatbot-dev-secret-change-in-production"

// Config holds all configuration for the assistant backend, loaded once at
// startup from environment variables.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AppName     string `env:"APP_NAME" envDefault:"Health Chatbot"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"chatbot"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"chatbot_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"chatbot_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Redis (rate limiting)
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Tokens. Session tokens live for hours, reset tokens and one-time
	// codes for minutes.
	JWTSecret          string `env:"JWT_SECRET"`
	SessionExpiryHours int    `env:"SESSION_EXPIRY_HOURS" envDefault:"24"`
	ResetExpiryMinutes int    `env:"RESET_TOKEN_EXPIRY_MINUTES" envDefault:"15"`
	OTPExpiryMinutes   int    `env:"OTP_EXPIRY_MINUTES" envDefault:"10"`

	// The single email address permanently entitled to the admin role.
	AdminEmail    string `env:"ADMIN_EMAIL,required"`
	AdminName     string `env:"ADMIN_NAME" envDefault:"Admin User"`
	AdminPassword string `env:"ADMIN_PASSWORD,required"`

	// Development conveniences, off outside development.
	SeedDemoUser bool `env:"SEED_DEMO_USER" envDefault:"false"`

	// SMTP. Leaving user/password empty puts the mailer in simulation
	// mode: sends are logged, not delivered.
	SMTPHost     string `env:"EMAIL_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort     int    `env:"EMAIL_PORT" envDefault:"587"`
	SMTPUser     string `env:"EMAIL_USER" envDefault:""`
	SMTPPassword string `env:"EMAIL_PASSWORD" envDefault:""`

	// Chat
	MaxChatHistory int `env:"MAX_CHAT_HISTORY" envDefault:"100"`

	// Rate limiting on public auth endpoints.
	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
	RateLimitPerHour   int `env:"RATE_LIMIT_PER_HOUR" envDefault:"1000"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	// The admin email is compared against normalized account emails, so
	// it must be normalized the same way.
	cfg.AdminEmail = strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if !strings.Contains(cfg.AdminEmail, "@") {
		return nil, fmt.Errorf("invalid admin email: %q", cfg.AdminEmail)
	}

	if cfg.JWTSecret == "" {
		if cfg.Environment != "development" {
			return nil, fmt.Errorf("JWT_SECRET must be explicitly set in %q mode", cfg.Environment)
		}
		cfg.JWTSecret = defaultJWTSecret
	}
	if cfg.Environment != "development" {
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(cfg.JWTSecret))
		}
		if cfg.SeedDemoUser {
			return nil, fmt.Errorf("SEED_DEMO_USER is a development convenience and cannot be enabled in %q mode", cfg.Environment)
		}
	}

	return cfg, nil
}

// Development reports whether the process runs in development mode.
func (c *Config) Development() bool {
	return c.Environment == "development"
}

// SessionExpiry returns the session token lifetime.
func (c *Config) SessionExpiry() time.Duration {
	return time.Duration(c.SessionExpiryHours) * time.Hour
}

// ResetExpiry returns the reset token lifetime.
func (c *Config) ResetExpiry() time.Duration {
	return time.Duration(c.ResetExpiryMinutes) * time.Minute
}

// OTPExpiry returns the one-time code lifetime.
func (c *Config) OTPExpiry() time.Duration {
	return time.Duration(c.OTPExpiryMinutes) * time.Minute
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.PostgresUser, c.PostgresPass, c.PostgresHost, c.PostgresPort, c.PostgresDB, c.PostgresSSL,
	)
}

// RedisAddr returns the Redis address string.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}
