package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Session backends
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	BotToken string
	Database DatabaseConfig
	Session  SessionConfig

	// QuizMaxAttempts bounds the draws spent looking for distractors
	QuizMaxAttempts int
	// RateLimitPerMinute is the per-user update budget, 0 disables limiting
	RateLimitPerMinute int
	// MetricsAddr is the listen address of the /metrics endpoint, empty disables it
	MetricsAddr string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// SessionConfig selects where dialog state is kept
type SessionConfig struct {
	Backend  string
	RedisURL string
	// TTL expires idle Redis sessions, 0 keeps them forever
	TTL time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken: os.Getenv("BOT_TOKEN"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "englishcard"),
			User:     getEnv("DB_USER", "englishcard"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		Session: SessionConfig{
			Backend:  getEnv("SESSION_BACKEND", SessionBackendMemory),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		MetricsAddr: getEnv("METRICS_ADDR", ":9090"),
	}

	var err error
	if cfg.Session.TTL, err = getEnvDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.QuizMaxAttempts, err = getEnvInt("QUIZ_MAX_ATTEMPTS", 30); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 30); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}

	switch c.Session.Backend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if c.Session.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis session backend")
		}
	default:
		return fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q",
			SessionBackendMemory, SessionBackendRedis, c.Session.Backend)
	}

	if c.Session.TTL < 0 {
		return fmt.Errorf("SESSION_TTL must not be negative")
	}
	if c.QuizMaxAttempts < 1 {
		return fmt.Errorf("QUIZ_MAX_ATTEMPTS must be positive")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	return nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 30m or 24h: %w", key, err)
	}
	return d, nil
}
