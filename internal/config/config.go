// Package config loads the process-wide configuration once at startup.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends accepted by storage.type.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// ErrMissingSecret is returned when no token signing secret is configured.
var ErrMissingSecret = errors.New("token.secret is required")

// HTTPConfig holds the listener address and server timeouts.
type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig bounds requests per client IP within a window.
type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

// LoggerConfig selects the log level and output format.
type LoggerConfig struct {
	Level  string
	Format string
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Type string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// DSN builds a libpq-compatible connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// TokenConfig holds the bearer token signing secret and lifetime.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// AIConfig configures the OpenAI-compatible content generator.
type AIConfig struct {
	Enabled     bool
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// Config is the top-level application configuration. It is built once and
// passed by value; nothing reads the environment after Load returns.
type Config struct {
	HTTP      HTTPConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Logger    LoggerConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Token     TokenConfig
	AI        AIConfig
}

// Load reads an optional .env file, an optional config file and environment
// overrides such as TOKEN_SECRET or DATABASE_HOST.
func Load(configFile string) (Config, error) {
	_ = godotenv.Load() // ok if missing

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %q: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	// AutomaticEnv only applies to Get calls, so lists need an explicit read.
	cfg.CORS.AllowedOrigins = splitList(v.GetString("cors.allowedOrigins"), cfg.CORS.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration that the service cannot start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Token.Secret) == "" {
		return ErrMissingSecret
	}
	if c.AI.Enabled && strings.TrimSpace(c.AI.APIKey) == "" {
		return errors.New("ai.apiKey is required when ai.enabled is true")
	}
	switch c.Storage.Type {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 3000)
	v.SetDefault("http.readTimeout", 15*time.Second)
	v.SetDefault("http.writeTimeout", 150*time.Second)
	v.SetDefault("cors.allowedOrigins", []string{"*"})
	v.SetDefault("rateLimit.enabled", false)
	v.SetDefault("rateLimit.requests", 100)
	v.SetDefault("rateLimit.window", time.Minute)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("storage.type", StoragePostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "social_serve")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxConns", 20)
	v.SetDefault("database.minConns", 2)
	v.SetDefault("token.secret", "")
	v.SetDefault("token.ttl", time.Hour)
	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.baseURL", "https://models.github.ai/inference")
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.model", "openai/gpt-4.1-mini")
	v.SetDefault("ai.temperature", 1.1)
	v.SetDefault("ai.timeout", 60*time.Second)
}

func splitList(raw string, fallback []string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if s := strings.TrimRight(strings.TrimSpace(p), "/"); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
