package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the service
type Config struct {
	Environment string
	Server      ServerConfig
	Logging     LoggingConfig
	Auth        AuthConfig
	Store       StoreConfig
	Scylla      ScyllaConfig
	Redis       RedisConfig
	RateLimit   RateLimitConfig
	Kafka       KafkaConfig
	Metrics     MetricsConfig
}

type ServerConfig struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	CORSOrigins    []string

	// TrustedProxyHops is how many reverse proxies append to X-Forwarded-For
	// in front of the service. Zero keys clients on the socket peer.
	TrustedProxyHops int
}

type LoggingConfig struct {
	Level  string
	Format string
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// StoreConfig selects the record store backend ("scylla" or "memory")
type StoreConfig struct {
	Driver       string
	QueryTimeout time.Duration
}

type ScyllaConfig struct {
	Nodes             []string
	Keyspace          string
	Username          string
	Password          string
	Consistency       string
	ReplicationFactor int
	AutoMigrate       bool
	CAPath            string
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
	PoolSize int
}

// PolicyConfig is a fixed window: at most Max requests per Window
type PolicyConfig struct {
	Window time.Duration
	Max    int
}

type RateLimitConfig struct {
	Backend       string
	Global        PolicyConfig
	Auth          PolicyConfig
	Submission    PolicyConfig
	Shards        int
	SweepInterval time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// LoadConfig reads configuration from the environment, loading .env first if present
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:             getEnvInt("PORT", 8000),
			ReadTimeout:      getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:     getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:      getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout:   getEnvDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
			MaxBodyBytes:     int64(getEnvInt("MAX_BODY_BYTES", 100*1024)),
			CORSOrigins:      getEnvList("CORS_ORIGIN", nil),
			TrustedProxyHops: getEnvInt("TRUST_PROXY_HOPS", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret:  os.Getenv("JWT_SECRET"),
			TokenTTL:   getEnvDuration("TOKEN_TTL", 5*24*time.Hour),
			BcryptCost: getEnvInt("BCRYPT_COST", 10),
		},
		Store: StoreConfig{
			Driver:       getEnv("STORE_DRIVER", "scylla"),
			QueryTimeout: getEnvDuration("STORE_QUERY_TIMEOUT", 5*time.Second),
		},
		Scylla: ScyllaConfig{
			Nodes:             getEnvList("SCYLLA_NODES", []string{"127.0.0.1:9042"}),
			Keyspace:          getEnv("SCYLLA_KEYSPACE", "site"),
			Username:          os.Getenv("SCYLLA_USERNAME"),
			Password:          os.Getenv("SCYLLA_PASSWORD"),
			Consistency:       getEnv("SCYLLA_CONSISTENCY", "LOCAL_QUORUM"),
			ReplicationFactor: getEnvInt("SCYLLA_REPLICATION_FACTOR", 1),
			AutoMigrate:       getEnvBool("SCYLLA_AUTO_MIGRATE", true),
			CAPath:            os.Getenv("SCYLLA_TLS_CA_FILE"),
		},
		Redis: RedisConfig{
			URL:      os.Getenv("REDIS_URL"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
			PoolSize: getEnvInt("REDIS_POOL_SIZE", 20),
		},
		RateLimit: RateLimitConfig{
			Backend: getEnv("RATE_LIMIT_BACKEND", "memory"),
			Global: PolicyConfig{
				Window: getEnvDuration("RATE_LIMIT_GLOBAL_WINDOW", time.Minute),
				Max:    getEnvInt("RATE_LIMIT_GLOBAL_MAX", 30),
			},
			Auth: PolicyConfig{
				Window: getEnvDuration("RATE_LIMIT_AUTH_WINDOW", 10*time.Minute),
				Max:    getEnvInt("RATE_LIMIT_AUTH_MAX", 15),
			},
			Submission: PolicyConfig{
				Window: getEnvDuration("RATE_LIMIT_SUBMISSION_WINDOW", 10*time.Minute),
				Max:    getEnvInt("RATE_LIMIT_SUBMISSION_MAX", 3),
			},
			Shards:        getEnvInt("RATE_LIMIT_SHARDS", 32),
			SweepInterval: getEnvDuration("RATE_LIMIT_SWEEP_INTERVAL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_SUBMISSIONS_TOPIC", "site.submissions"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and value ranges
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	if c.IsProduction() && len(c.Auth.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 bytes in production")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Server.TrustedProxyHops < 0 {
		return errors.New("TRUST_PROXY_HOPS must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New("MAX_BODY_BYTES must be positive")
	}
	switch c.Store.Driver {
	case "scylla", "memory":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.RateLimit.Backend {
	case "memory":
	case "redis":
		if c.Redis.URL == "" {
			return errors.New("REDIS_URL is required when RATE_LIMIT_BACKEND=redis")
		}
	default:
		return fmt.Errorf("unsupported RATE_LIMIT_BACKEND %q", c.RateLimit.Backend)
	}
	for name, p := range map[string]PolicyConfig{
		"global":     c.RateLimit.Global,
		"auth":       c.RateLimit.Auth,
		"submission": c.RateLimit.Submission,
	} {
		if p.Window <= 0 || p.Max <= 0 {
			return fmt.Errorf("rate limit policy %s needs a positive window and max", name)
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) GetServerAddress() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
