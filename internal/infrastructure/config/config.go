package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	OTLP     OTLPConfig
	Log      LogConfig
	Catalog  CatalogConfig
	Storage  StorageConfig
	Checkout CheckoutConfig
	Session  SessionConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type OTLPConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	Environment string
}

type LogConfig struct {
	Level string
}

// CatalogConfig points the loader at the product collection and configures the
// collection endpoint this process serves itself.
type CatalogConfig struct {
	BaseURL     string
	Timeout     time.Duration
	DatabaseURL string
}

// StorageConfig selects where cart records live.
type StorageConfig struct {
	Backend  string // memory, file, redis
	Dir      string
	RedisURL string
	CartKey  string
	CartTTL  time.Duration
}

type CheckoutConfig struct {
	ProcessingDelay time.Duration
}

type SessionConfig struct {
	CookieName   string
	CookieMaxAge time.Duration
	IdleTTL      time.Duration
}

// LoadConfig loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment variables win.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		OTLP: OTLPConfig{
			Enabled:     getEnvBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "moka-storefront"),
			Environment: getEnv("OTEL_ENVIRONMENT", "development"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Catalog: CatalogConfig{
			BaseURL:     strings.TrimRight(getEnv("CATALOG_BASE_URL", "http://localhost:8080"), "/"),
			Timeout:     getEnvDuration("CATALOG_TIMEOUT", 5*time.Second),
			DatabaseURL: getEnv("CATALOG_DATABASE_URL", ""),
		},
		Storage: StorageConfig{
			Backend:  strings.ToLower(getEnv("CART_STORAGE", "memory")),
			Dir:      getEnv("CART_STORAGE_DIR", "data/carts"),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
			CartKey:  getEnv("CART_STORAGE_KEY", "moka_cart"),
			CartTTL:  getEnvDuration("CART_STORAGE_TTL", 30*24*time.Hour),
		},
		Checkout: CheckoutConfig{
			ProcessingDelay: getEnvDuration("CHECKOUT_PROCESSING_DELAY", 3*time.Second),
		},
		Session: SessionConfig{
			CookieName:   getEnv("SESSION_COOKIE", "moka_session"),
			CookieMaxAge: getEnvDuration("SESSION_COOKIE_MAX_AGE", 30*24*time.Hour),
			IdleTTL:      getEnvDuration("SESSION_IDLE_TTL", 30*time.Minute),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}
