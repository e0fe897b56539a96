package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string
	// CORSAllowedHosts are the storefront and admin hosts allowed to call
	// the API from a browser.
	CORSAllowedHosts []string

	DB          DatabaseConfig
	Redis       RedisConfig
	WooCommerce WooCommerceConfig
	Store       StoreConfig
	Cache       CacheConfig
	Worker      WorkerConfig
	Kafka       KafkaConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// WooCommerceConfig contains credentials of the upstream commerce backend.
type WooCommerceConfig struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	Timeout        time.Duration
}

// StoreConfig contains storefront business rules.
type StoreConfig struct {
	FreeShippingThreshold decimal.Decimal
	HomeCountry           string
	VATRate               decimal.Decimal
	Currency              string
	// CODTitleMarkers classify uncategorized shipping methods as cash on
	// delivery by a case-insensitive title match.
	CODTitleMarkers []string
}

// CacheConfig contains TTLs of cached upstream data.
type CacheConfig struct {
	CatalogStaticTTL  time.Duration
	CatalogDynamicTTL time.Duration
	CatalogStaleTTL   time.Duration
	IdempotencyTTL    time.Duration
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	ShippingSyncInterval time.Duration
	CartPurgeInterval    time.Duration
	// CartRetention is how long an untouched server-side cart is kept.
	CartRetention time.Duration
}

// KafkaConfig contains the order event publisher settings. Publishing is
// disabled when Brokers is empty.
type KafkaConfig struct {
	Brokers    []string
	OrderTopic string
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Missing .env is fine, production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.CORSAllowedHosts = getEnvList("CORS_ALLOWED_HOSTS", "localhost:3000,127.0.0.1:3000,hvyt.pl,www.hvyt.pl")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	var err error

	// WooCommerce
	cfg.WooCommerce = WooCommerceConfig{
		BaseURL:        strings.TrimRight(getEnv("WOO_BASE_URL", ""), "/"),
		ConsumerKey:    getEnv("WOO_CONSUMER_KEY", ""),
		ConsumerSecret: getEnv("WOO_CONSUMER_SECRET", ""),
	}
	if cfg.WooCommerce.Timeout, err = parseDurationEnv("WOO_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid WOO_TIMEOUT: %w", err)
	}

	// Store rules
	cfg.Store = StoreConfig{
		HomeCountry:     getEnv("STORE_HOME_COUNTRY", "PL"),
		Currency:        getEnv("STORE_CURRENCY", "PLN"),
		CODTitleMarkers: getEnvList("STORE_COD_TITLE_MARKERS", "pobranie,cash on delivery"),
	}
	if cfg.Store.FreeShippingThreshold, err = getEnvDecimal("STORE_FREE_SHIPPING_THRESHOLD", "300"); err != nil {
		return nil, fmt.Errorf("invalid STORE_FREE_SHIPPING_THRESHOLD: %w", err)
	}
	if cfg.Store.VATRate, err = getEnvDecimal("STORE_VAT_RATE", "0.23"); err != nil {
		return nil, fmt.Errorf("invalid STORE_VAT_RATE: %w", err)
	}

	// Cache TTLs
	if cfg.Cache.CatalogStaticTTL, err = parseDurationEnv("CATALOG_STATIC_TTL", "1h"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_STATIC_TTL: %w", err)
	}
	if cfg.Cache.CatalogDynamicTTL, err = parseDurationEnv("CATALOG_DYNAMIC_TTL", "60s"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_DYNAMIC_TTL: %w", err)
	}
	if cfg.Cache.CatalogStaleTTL, err = parseDurationEnv("CATALOG_STALE_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid CATALOG_STALE_TTL: %w", err)
	}
	if cfg.Cache.IdempotencyTTL, err = parseDurationEnv("IDEMPOTENCY_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
	}

	// Workers (durations)
	if cfg.Worker.ShippingSyncInterval, err = parseDurationEnv("SHIPPING_SYNC_INTERVAL", "10m"); err != nil {
		return nil, fmt.Errorf("invalid SHIPPING_SYNC_INTERVAL: %w", err)
	}
	if cfg.Worker.CartPurgeInterval, err = parseDurationEnv("CART_PURGE_INTERVAL", "1h"); err != nil {
		return nil, fmt.Errorf("invalid CART_PURGE_INTERVAL: %w", err)
	}
	if cfg.Worker.CartRetention, err = parseDurationEnv("CART_RETENTION", "720h"); err != nil {
		return nil, fmt.Errorf("invalid CART_RETENTION: %w", err)
	}

	// Kafka
	cfg.Kafka = KafkaConfig{
		Brokers:    getEnvList("KAFKA_BROKERS", ""),
		OrderTopic: getEnv("KAFKA_ORDER_TOPIC", "storefront.order.placed"),
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}
	if cfg.WooCommerce.BaseURL == "" {
		return nil, errors.New("WOO_BASE_URL must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key, def string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, def), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvDecimal parses a money or rate value.
func getEnvDecimal(key, def string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getEnv(key, def))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("value must be >= 0")
	}
	return d, nil
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
