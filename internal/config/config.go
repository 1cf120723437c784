package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string
	DBDSN        string
	DBMaxConns   int
	JWTSecret    string

	HotelAPIBaseURL string
	HotelAPIKey     string
	HotelAPITimeout time.Duration
	// HotelLocation decides what "today" is when validating check-in dates.
	HotelLocation *time.Location

	SessionTTL         time.Duration
	RateLimitPerMinute int
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	cfg.DBMaxConns, err = getEnvAsInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	// JWT secret is required for verifying tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// Hotel API base URL is required
	cfg.HotelAPIBaseURL = os.Getenv("HOTEL_API_BASE_URL")
	if cfg.HotelAPIBaseURL == "" {
		return nil, fmt.Errorf("HOTEL_API_BASE_URL is required")
	}
	cfg.HotelAPIKey = getEnv("HOTEL_API_KEY", "")

	cfg.HotelAPITimeout, err = getEnvAsDuration("HOTEL_API_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid HOTEL_API_TIMEOUT: %w", err)
	}

	// IANA zone name, e.g. "Asia/Taipei" (default: UTC)
	cfg.HotelLocation, err = time.LoadLocation(getEnv("HOTEL_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid HOTEL_TIMEZONE: %w", err)
	}

	// Idle lifetime of a booking session (default: 30m)
	cfg.SessionTTL, err = getEnvAsDuration("SESSION_TTL", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}

	cfg.RateLimitPerMinute, err = getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		// Return 0 and a wrapped error to provide context
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsDuration is getEnvAsInt for values like "15m" or "10s".
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid duration: %w", key, valStr, err)
	}

	return val, nil
}
