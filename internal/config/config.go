package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendRemote   = "remote"
)

// Object stores
const (
	ObjectStoreNone   = "none"
	ObjectStoreMemory = "memory"
	ObjectStoreS3     = "s3"
)

// Config holds all configuration for the application
type Config struct {
	// Server
	Port        string
	Env         string
	LogLevel    string
	CORSOrigins []string

	// Storage
	StorageBackend string
	SQLitePath     string
	DatabaseURL    string
	Redis          RedisConfig
	RemoteAPIURL   string
	RemoteTimeout  time.Duration

	// Events
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Attachments
	ObjectStore string
	S3          S3Config

	// Misc
	ExportLocale       string
	RateLimitRPS       float64
	RateLimitBurst     int
	BudgetSyncInterval time.Duration
}

// RedisConfig holds the redis kv store connection settings
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// S3Config holds S3-compatible object storage configuration
type S3Config struct {
	Endpoint        string // Optional: for MinIO/LocalStack local dev
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string // Optional: serve objects from here instead of presigned URLs
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendMemory)),
		SQLitePath:     getEnv("SQLITE_PATH", "budget-loop.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", ""),
		},
		RemoteAPIURL:  getEnv("REMOTE_API_URL", ""),
		RemoteTimeout: getEnvDuration("REMOTE_TIMEOUT", 10*time.Second),

		AMQPURL:      getEnv("AMQP_URL", ""), // Empty = events stay in-process
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budget-loop.events"),
		AMQPQueue:    getEnv("AMQP_QUEUE", ""),

		ObjectStore: strings.ToLower(getEnv("OBJECT_STORE", ObjectStoreMemory)),
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""), // Empty = use AWS
			Region:          getEnv("S3_REGION", "us-east-1"),
			Bucket:          getEnv("S3_BUCKET", "budget-loop-attachments"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			PublicURL:       getEnv("S3_PUBLIC_URL", ""),
		},

		ExportLocale:       getEnv("EXPORT_LOCALE", "pt-BR"),
		RateLimitRPS:       getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 40),
		BudgetSyncInterval: getEnvDuration("BUDGET_SYNC_INTERVAL", 5*time.Minute),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid PORT %q", c.Port))
	}

	switch c.StorageBackend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, "SQLITE_PATH is required for the sqlite backend")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, "REDIS_ADDR is required for the redis backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required for the postgres backend")
		}
	case BackendRemote:
		if u, err := url.Parse(c.RemoteAPIURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("invalid REMOTE_API_URL %q", c.RemoteAPIURL))
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid STORAGE_BACKEND %q", c.StorageBackend))
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil || (u.Scheme != "amqp" && u.Scheme != "amqps") {
			errs = append(errs, fmt.Sprintf("invalid AMQP_URL %q: scheme must be amqp or amqps", c.AMQPURL))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP_EXCHANGE cannot be empty when AMQP_URL is set")
		}
	}

	switch c.ObjectStore {
	case ObjectStoreNone, ObjectStoreMemory:
	case ObjectStoreS3:
		if c.S3.Bucket == "" {
			errs = append(errs, "S3_BUCKET is required for the s3 object store")
		}
	default:
		errs = append(errs, fmt.Sprintf("invalid OBJECT_STORE %q", c.ObjectStore))
	}

	if c.RateLimitRPS <= 0 {
		errs = append(errs, "RATE_LIMIT_RPS must be positive")
	}
	if c.RateLimitBurst < 1 {
		errs = append(errs, "RATE_LIMIT_BURST must be at least 1")
	}
	if c.BudgetSyncInterval < 0 {
		errs = append(errs, "BUDGET_SYNC_INTERVAL cannot be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
