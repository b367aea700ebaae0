// Package config loads storefront settings from the environment.
//
// An optional .env file in the working directory is read first; variables
// already present in the process environment take precedence over it.
package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is used when JWT_SECRET is not set. It is only suitable for local development.
const DefaultJWTSecret = "cityshades-dev-secret-change-me"

// Config is the full application configuration.
type Config struct {
	Port            int
	ShutdownTimeout time.Duration

	Store     StoreConfig
	Auth      AuthConfig
	Catalog   CatalogConfig
	Checkout  CheckoutConfig
	RateLimit RateLimitConfig
}

// StoreConfig selects and configures the collection backend.
type StoreConfig struct {
	Driver      string // file, sqlite, postgres or memory
	DataDir     string
	SQLitePath  string
	DatabaseURL string
}

// AuthConfig configures token issuance and the bootstrap admin account.
type AuthConfig struct {
	JWTSecret     string
	Issuer        string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
}

// CatalogConfig configures storefront listings.
type CatalogConfig struct {
	FeaturedLimit int
}

// CheckoutConfig holds the pricing policy used for cart quotes.
type CheckoutConfig struct {
	ShippingFlatRate      float64
	FreeShippingThreshold float64
	TaxRate               float64
}

// RateLimitConfig enables Redis-backed rate limiting when RedisAddr is set.
type RateLimitConfig struct {
	RedisAddr string
	Requests  int
	Window    time.Duration
}

// Enabled reports whether a Redis address was configured.
func (c RateLimitConfig) Enabled() bool {
	return c.RedisAddr != ""
}

// Load reads .env (if present) and the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: failed to read .env file: %v", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	cfg := Config{
		Port:            getEnvInt("PORT", 3000),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		Store: StoreConfig{
			Driver:      getEnv("STORE_DRIVER", "file"),
			DataDir:     getEnv("DATA_DIR", "./data"),
			SQLitePath:  getEnv("SQLITE_PATH", "cityshades.db"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", DefaultJWTSecret),
			Issuer:        getEnv("JWT_ISSUER", "cityshades"),
			TokenTTL:      getEnvDuration("JWT_TTL", 24*time.Hour),
			AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
			AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		},
		Catalog: CatalogConfig{
			FeaturedLimit: getEnvInt("CATALOG_FEATURED_LIMIT", 8),
		},
		Checkout: CheckoutConfig{
			ShippingFlatRate:      getEnvFloat("SHIPPING_FLAT_RATE", 9.99),
			FreeShippingThreshold: getEnvFloat("FREE_SHIPPING_THRESHOLD", 100),
			TaxRate:               getEnvFloat("TAX_RATE", 0.08),
		},
		RateLimit: RateLimitConfig{
			RedisAddr: os.Getenv("REDIS_ADDR"),
			Requests:  getEnvInt("RATE_LIMIT_REQUESTS", 20),
			Window:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}

	if cfg.Auth.JWTSecret == DefaultJWTSecret {
		log.Println("Warning: JWT_SECRET is not set, using the development secret")
	}
	return cfg
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvFloat returns environment variable as float64 or default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Warning: invalid float value for %s: %s, using default: %v", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as time.Duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
