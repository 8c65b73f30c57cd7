package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-secret"

// Config holds environment-driven configuration.
type Config struct {
	Addr             string
	JWTSecret        string
	DatabaseURL      string
	CatalogSource    string
	RedisAddr        string
	KafkaBroker      string
	KafkaOrderTopic  string
	CORSAllowOrigins string
	PublicBaseURL    string
	LogLevel         string
	LogFormat        string

	ChatBaseURL        string
	ChatSearchEngine   string
	ChatPollInterval   time.Duration
	ChatMaxAttempts    int
	ChatRequestTimeout time.Duration

	VerificationCodeTTL time.Duration

	warnings []string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is honoured when present.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:             getenv("MENU_ASSISTANT_ADDR", ":8080"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		CatalogSource:    strings.ToLower(getenv("CATALOG_SOURCE", "bundled")),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		KafkaBroker:      os.Getenv("KAFKA_BROKER"),
		KafkaOrderTopic:  getenv("KAFKA_ORDER_TOPIC", "orders"),
		CORSAllowOrigins: getenv("CORS_ALLOW_ORIGINS", "*"),
		PublicBaseURL:    os.Getenv("PUBLIC_BASE_URL"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		LogFormat:        getenv("LOG_FORMAT", "text"),
		ChatBaseURL:      strings.TrimRight(getenv("CHAT_BASE_URL", "http://localhost:8000"), "/"),
		ChatSearchEngine: getenv("CHAT_SEARCH_ENGINE", "vector"),
	}

	cfg.ChatPollInterval = cfg.duration("CHAT_POLL_INTERVAL", 10*time.Second)
	cfg.ChatRequestTimeout = cfg.duration("CHAT_REQUEST_TIMEOUT", 30*time.Second)
	cfg.ChatMaxAttempts = cfg.positiveInt("CHAT_MAX_ATTEMPTS", 24)
	cfg.VerificationCodeTTL = cfg.duration("VERIFICATION_CODE_TTL", 10*time.Minute)

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = devJWTSecret
		cfg.warnings = append(cfg.warnings, "JWT_SECRET is not set, using the development secret")
	}
	if cfg.CatalogSource != "bundled" && cfg.CatalogSource != "postgres" {
		cfg.warnings = append(cfg.warnings, fmt.Sprintf("unknown CATALOG_SOURCE %q, using bundled", cfg.CatalogSource))
		cfg.CatalogSource = "bundled"
	}
	if cfg.CatalogSource == "postgres" && cfg.DatabaseURL == "" {
		cfg.warnings = append(cfg.warnings, "CATALOG_SOURCE=postgres requires DATABASE_URL, using bundled")
		cfg.CatalogSource = "bundled"
	}

	return cfg
}

// Warnings lists the values that were rejected while loading and replaced
// with defaults.
func (c Config) Warnings() []string {
	return c.warnings
}

func (c *Config) duration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		c.warnings = append(c.warnings, fmt.Sprintf("invalid %s=%q, using %s", key, raw, def))
		return def
	}
	return d
}

func (c *Config) positiveInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		c.warnings = append(c.warnings, fmt.Sprintf("invalid %s=%q, using %d", key, raw, def))
		return def
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
