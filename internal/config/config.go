package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const EnvPrefix = "MEDICONSULT"

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Store      StoreConfig      `mapstructure:"store"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Generation GenerationConfig `mapstructure:"generation"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Email      EmailConfig      `mapstructure:"email"`
	Log        LogConfig        `mapstructure:"log"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyMB       int64         `mapstructure:"max_body_mb"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// StoreConfig selects the entity store backend: memory, redis, postgres or
// mongo.
type StoreConfig struct {
	Backend  string         `mapstructure:"backend"`
	Prefix   string         `mapstructure:"prefix"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	Channel      string        `mapstructure:"channel"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	Channel  string `mapstructure:"channel"`
}

type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
	BcryptCost  int    `mapstructure:"bcrypt_cost"`
	// CleanupInterval is how often expired sessions are swept. Zero
	// disables the sweep.
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// GenerationConfig selects the prescription generator: gemini or static.
type GenerationConfig struct {
	Provider          string        `mapstructure:"provider"`
	APIKey            string        `mapstructure:"api_key"`
	PrescriptionModel string        `mapstructure:"prescription_model"`
	SearchModel       string        `mapstructure:"search_model"`
	Timeout           time.Duration `mapstructure:"timeout"`
	BreakerFailures   uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout    time.Duration `mapstructure:"breaker_timeout"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
	AllowCredentials bool          `mapstructure:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age"`
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	From         string `mapstructure:"from"`
	AdminAddress string `mapstructure:"admin_address"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool   `mapstructure:"prometheus_enabled"`
	Namespace         string `mapstructure:"namespace"`
}

// Secrets are read from the environment only, e.g. MEDICONSULT_JWT_SECRET.
// A non-empty value overrides the file.
type Secrets struct {
	JWTSecret        string `envconfig:"JWT_SECRET"`
	GeminiAPIKey     string `envconfig:"GEMINI_API_KEY"`
	SMTPPassword     string `envconfig:"SMTP_PASSWORD"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_body_mb", 8)
	v.SetDefault("server.max_header_bytes", 1<<14)

	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.prefix", "mediConsult_")
	v.SetDefault("store.redis.url", "redis://localhost:6379/0")
	v.SetDefault("store.redis.channel", "mediconsult:changes")
	v.SetDefault("store.redis.pool_size", 10)
	v.SetDefault("store.postgres.host", "localhost")
	v.SetDefault("store.postgres.port", 5432)
	v.SetDefault("store.postgres.user", "postgres")
	v.SetDefault("store.postgres.name", "mediconsult")
	v.SetDefault("store.postgres.sslmode", "disable")
	v.SetDefault("store.postgres.channel", "mediconsult_changes")
	v.SetDefault("store.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("store.mongo.database", "mediconsult")
	v.SetDefault("store.mongo.collection", "kv_store")

	v.SetDefault("jwt.expiry_hours", 24*7)
	v.SetDefault("jwt.bcrypt_cost", 10)
	v.SetDefault("jwt.cleanup_interval", time.Hour)

	v.SetDefault("generation.provider", "gemini")
	v.SetDefault("generation.prescription_model", "gemini-3-pro-preview")
	v.SetDefault("generation.search_model", "gemini-3-flash-preview")
	v.SetDefault("generation.timeout", 90*time.Second)
	v.SetDefault("generation.breaker_failures", 3)
	v.SetDefault("generation.breaker_timeout", 30*time.Second)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.max_age", 12*time.Hour)

	v.SetDefault("email.port", 587)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("monitoring.prometheus_enabled", true)
	v.SetDefault("monitoring.namespace", "mediconsult")
}

// LoadConfig reads config.yml from the usual locations, or the file named by
// path when it is not empty. A missing default file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/app")
		v.AddConfigPath("/app/config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var secrets Secrets
	if err := envconfig.Process(EnvPrefix, &secrets); err != nil {
		return nil, fmt.Errorf("failed to read secrets: %w", err)
	}
	config.applySecrets(secrets)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applySecrets(s Secrets) {
	if s.JWTSecret != "" {
		c.JWT.Secret = s.JWTSecret
	}
	if s.GeminiAPIKey != "" {
		c.Generation.APIKey = s.GeminiAPIKey
	}
	if s.SMTPPassword != "" {
		c.Email.Password = s.SMTPPassword
	}
	if s.PostgresPassword != "" {
		c.Store.Postgres.Password = s.PostgresPassword
	}
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory", "redis", "postgres", "mongo":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.Generation.Provider {
	case "gemini", "static":
	default:
		return fmt.Errorf("unknown generation provider %q", c.Generation.Provider)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is not configured")
	}
	if c.Generation.Provider == "gemini" && c.Generation.APIKey == "" {
		return fmt.Errorf("gemini api key is not configured")
	}
	return nil
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.ExpiryHours) * time.Hour
}
