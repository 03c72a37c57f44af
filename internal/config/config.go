package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort              = "8080"
	defaultDatabaseURL       = "hotel.db"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultJWTAccessTTL      = "24h"
	defaultDBLogLevel        = "warn"
	defaultDBSlowThreshold   = "200ms"
	defaultBookingCodeLength = "6"
	defaultNotifyWorkers     = "2"
	defaultNotifyQueueSize   = "256"
	defaultNotifyChannel     = "hotel.booking-events"
	defaultRateLimitRPS      = "5"
	defaultRateLimitBurst    = "10"
	defaultCORSOrigins       = "http://localhost:3000"
	defaultShutdownTimeout   = "15s"
)

type Config struct {
	AppEnv string
	Port   string

	DatabaseURL     string
	DBLogLevel      string
	DBSlowThreshold time.Duration

	JWTSecret    string
	JWTAccessTTL time.Duration

	BookingCodeLength int

	NotifyWorkers   int
	NotifyQueueSize int
	NotifyChannel   string
	RedisURL        string

	RateLimitRPS   float64
	RateLimitBurst int

	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = strings.TrimSpace(getEnv("PORT", defaultPort))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.DBLogLevel = strings.TrimSpace(getEnv("DB_LOG_LEVEL", defaultDBLogLevel))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.NotifyChannel = strings.TrimSpace(getEnv("NOTIFY_CHANNEL", defaultNotifyChannel))
	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins))

	var err error
	if cfg.DBSlowThreshold, err = parseDurationEnv("DB_SLOW_THRESHOLD", defaultDBSlowThreshold); err != nil {
		return nil, err
	}
	if cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout); err != nil {
		return nil, err
	}
	if cfg.BookingCodeLength, err = parseIntEnv("BOOKING_CODE_LENGTH", defaultBookingCodeLength); err != nil {
		return nil, err
	}
	if cfg.NotifyWorkers, err = parseIntEnv("NOTIFY_WORKERS", defaultNotifyWorkers); err != nil {
		return nil, err
	}
	if cfg.NotifyQueueSize, err = parseIntEnv("NOTIFY_QUEUE_SIZE", defaultNotifyQueueSize); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = parseIntEnv("RATE_LIMIT_BURST", defaultRateLimitBurst); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = parseFloatEnv("RATE_LIMIT_RPS", defaultRateLimitRPS); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s port=%s db_log_level=%s notify_workers=%d redis=%t",
		cfg.AppEnv, cfg.Port, cfg.DBLogLevel, cfg.NotifyWorkers, cfg.RedisURL != "")

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.BookingCodeLength < 4 || cfg.BookingCodeLength > 32 {
		return fmt.Errorf("BOOKING_CODE_LENGTH must be between 4 and 32")
	}
	if cfg.NotifyWorkers <= 0 {
		return fmt.Errorf("NOTIFY_WORKERS must be > 0")
	}
	if cfg.NotifyQueueSize <= 0 {
		return fmt.Errorf("NOTIFY_QUEUE_SIZE must be > 0")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be > 0")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}

	if IsProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if !strings.HasPrefix(cfg.DatabaseURL, "postgres") {
			return fmt.Errorf("in prod/release DATABASE_URL must point to PostgreSQL")
		}
	}

	return nil
}

func IsProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseFloatEnv(name, fallback string) (float64, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return f, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
