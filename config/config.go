// Package config provides configuration management for the advice service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds the complete application configuration.
type Config struct {
	Server         ServerConfig
	Logging        LoggingConfig
	Auth           AuthConfig
	Database       DatabaseConfig
	CostStore      CostStoreConfig
	Redis          RedisConfig
	OrderSystem    OrderSystemConfig
	Engine         EngineConfig
	CircuitBreaker CircuitBreakerConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port              string
	RateLimit         int
	RateWindow        time.Duration
	RequestTimeout    time.Duration
	CORSOrigins       []string
	SwaggerUser       string
	SwaggerPass       string
	EnableIdempotency bool
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level  string
	Pretty bool
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled bool
	APIKeys map[string]bool
	// WebhookSecret signs the cost invalidation webhook tokens.
	WebhookSecret string
	WebhookIssuer string
}

// DatabaseConfig holds the MongoDB connection of the advice store and catalog.
type DatabaseConfig struct {
	URI            string
	DatabaseName   string
	MaxPoolSize    uint64
	ConnectTimeout time.Duration
}

// CostStoreConfig holds the published cost table connection.
type CostStoreConfig struct {
	DSN       string
	PriceTier string
	TTL       time.Duration
}

// Enabled reports whether a cost database is configured.
func (c CostStoreConfig) Enabled() bool {
	return c.DSN != ""
}

// RedisConfig holds the Redis connection used for cache invalidation and idempotency.
type RedisConfig struct {
	URL     string
	Channel string
}

// Enabled reports whether Redis is configured.
func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

// OrderSystemConfig holds the order system REST client configuration.
type OrderSystemConfig struct {
	BaseURL           string
	APIKey            string
	UserAgent         string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	MaxRetries        int
}

// Enabled reports whether the order system is configured.
func (c OrderSystemConfig) Enabled() bool {
	return c.BaseURL != ""
}

// EngineConfig holds advice engine tuning.
type EngineConfig struct {
	MaxIterations     int
	ClassifyBatchSize int
	TagPrefix         string
	AllowedCountries  []string
	Fields            FieldIDConfig
}

// FieldIDConfig holds the order system custom field ids read during product sync.
type FieldIDConfig struct {
	PotSize     int64
	Height      int64
	ProductType int64
	Fragile     int64
	Mixable     int64
}

// CircuitBreakerConfig holds the shared circuit breaker settings.
type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	Timeout          time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first; variables already set win. Malformed
// values fall back to their defaults, Validate catches the combinations
// that cannot work.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Failed to read .env file")
	}

	return Config{
		Server: ServerConfig{
			Port:              str("PORT", "8080"),
			RateLimit:         env("RATE_LIMIT", 100, strconv.Atoi),
			RateWindow:        env("RATE_WINDOW", time.Minute, time.ParseDuration),
			RequestTimeout:    env("REQUEST_TIMEOUT", 30*time.Second, time.ParseDuration),
			CORSOrigins:       append([]string{"http://localhost:3000", "http://127.0.0.1:3000"}, splitList(os.Getenv("CORS_ORIGINS"), nil)...),
			SwaggerUser:       os.Getenv("SWAGGER_USER"),
			SwaggerPass:       os.Getenv("SWAGGER_PASS"),
			EnableIdempotency: env("IDEMPOTENCY_ENABLED", true, strconv.ParseBool),
		},
		Logging: LoggingConfig{
			Level:  str("LOG_LEVEL", "info"),
			Pretty: env("LOG_PRETTY", false, strconv.ParseBool),
		},
		Auth: AuthConfig{
			Enabled:       env("AUTH_ENABLED", false, strconv.ParseBool),
			APIKeys:       keySet(splitList(os.Getenv("API_KEYS"), nil)),
			WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
			WebhookIssuer: str("WEBHOOK_ISSUER", "cost-table"),
		},
		Database: DatabaseConfig{
			URI:            str("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:   str("MONGODB_DATABASE", "pack_advice"),
			MaxPoolSize:    env("MONGODB_MAX_POOL_SIZE", uint64(50), parseUint),
			ConnectTimeout: env("MONGODB_CONNECT_TIMEOUT", 10*time.Second, time.ParseDuration),
		},
		CostStore: CostStoreConfig{
			DSN:       os.Getenv("COST_DB_DSN"),
			PriceTier: str("COST_PRICE_TIER", "standard"),
			TTL:       env("COST_CACHE_TTL", 15*time.Minute, time.ParseDuration),
		},
		Redis: RedisConfig{
			URL:     os.Getenv("REDIS_URL"),
			Channel: str("REDIS_INVALIDATION_CHANNEL", "pack-advice:cost-cache:invalidate"),
		},
		OrderSystem: OrderSystemConfig{
			BaseURL:           strings.TrimRight(os.Getenv("ORDER_SYSTEM_URL"), "/"),
			APIKey:            os.Getenv("ORDER_SYSTEM_API_KEY"),
			UserAgent:         str("ORDER_SYSTEM_USER_AGENT", "pack-advice"),
			RequestsPerSecond: env("ORDER_SYSTEM_RPS", 2.0, parsePositiveFloat),
			Burst:             env("ORDER_SYSTEM_BURST", 5, strconv.Atoi),
			Timeout:           env("ORDER_SYSTEM_TIMEOUT", 10*time.Second, time.ParseDuration),
			MaxRetries:        env("ORDER_SYSTEM_MAX_RETRIES", 3, strconv.Atoi),
		},
		Engine: EngineConfig{
			MaxIterations:     env("ENGINE_MAX_ITERATIONS", 20, strconv.Atoi),
			ClassifyBatchSize: env("ENGINE_CLASSIFY_BATCH_SIZE", 5, strconv.Atoi),
			TagPrefix:         str("ENGINE_TAG_PREFIX", "C-"),
			AllowedCountries:  splitList(os.Getenv("ALLOWED_COUNTRIES"), strings.ToUpper),
			Fields: FieldIDConfig{
				PotSize:     env("FIELD_ID_POT_SIZE", int64(5768), parseInt64),
				Height:      env("FIELD_ID_HEIGHT", int64(5769), parseInt64),
				ProductType: env("FIELD_ID_PRODUCT_TYPE", int64(5770), parseInt64),
				Fragile:     env("FIELD_ID_FRAGILE", int64(5771), parseInt64),
				Mixable:     env("FIELD_ID_MIXABLE", int64(5772), parseInt64),
			},
		},
		CircuitBreaker: CircuitBreakerConfig{
			FailureThreshold: env("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5, strconv.Atoi),
			SuccessThreshold: env("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2, strconv.Atoi),
			Timeout:          env("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second, time.ParseDuration),
		},
	}
}

// Validate reports every setting the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Server.Port != "", "PORT is empty")
	check(c.Server.RateLimit >= 0, "RATE_LIMIT must not be negative, got %d", c.Server.RateLimit)
	check(c.Server.RequestTimeout > 0, "REQUEST_TIMEOUT must be positive, got %s", c.Server.RequestTimeout)
	check(!c.Auth.Enabled || len(c.Auth.APIKeys) > 0, "AUTH_ENABLED needs at least one API_KEYS entry")
	check(c.Database.URI != "" && c.Database.DatabaseName != "", "MONGODB_URI and MONGODB_DATABASE are required")
	check(c.Engine.MaxIterations > 0, "ENGINE_MAX_ITERATIONS must be positive, got %d", c.Engine.MaxIterations)
	check(c.Engine.ClassifyBatchSize > 0, "ENGINE_CLASSIFY_BATCH_SIZE must be positive, got %d", c.Engine.ClassifyBatchSize)
	check(c.CircuitBreaker.FailureThreshold > 0 && c.CircuitBreaker.SuccessThreshold > 0,
		"circuit breaker thresholds must be positive")
	if c.OrderSystem.Enabled() {
		check(c.OrderSystem.Burst > 0, "ORDER_SYSTEM_BURST must be positive, got %d", c.OrderSystem.Burst)
		check(c.OrderSystem.MaxRetries >= 0, "ORDER_SYSTEM_MAX_RETRIES must not be negative")
	}
	return errors.Join(errs...)
}

func str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// env parses the variable key, keeping def when it is unset or malformed.
func env[T any](key string, def T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("Ignoring malformed setting, using default")
		return def
	}
	return v
}

func parseInt64(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }

func parseUint(s string) (uint64, error) { return strconv.ParseUint(s, 10, 64) }

func parsePositiveFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err == nil && f <= 0 {
		err = fmt.Errorf("%v is not positive", f)
	}
	return f, err
}

// splitList splits a comma separated list, trimming and optionally mapping
// each item. Empty input gives nil so callers can apply their own defaults.
func splitList(s string, mapItem func(string) string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if mapItem != nil {
			item = mapItem(item)
		}
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func keySet(keys []string) map[string]bool {
	if len(keys) == 0 {
		return nil
	}
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}
