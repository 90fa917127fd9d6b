package app

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Token store backends.
const (
	TokenStoreFile   = "file"
	TokenStoreRedis  = "redis"
	TokenStoreMemory = "memory"
)

// Config holds runtime configuration for the console.
type Config struct {
	AppEnv    string `envconfig:"APP_ENV" default:"development"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	APIBaseURL string `envconfig:"API_BASE_URL" default:"http://127.0.0.1:4000"`
	// APITimeout bounds dialing and the TLS handshake only; request
	// lifetime is governed by the caller's context.
	APITimeout time.Duration `envconfig:"API_TIMEOUT" default:"10s"`

	TokenStore    string        `envconfig:"TOKEN_STORE" default:"file"`
	TokenFile     string        `envconfig:"TOKEN_FILE"`
	TokenKey      string        `envconfig:"TOKEN_KEY" default:"marketops_token"`
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"0"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`

	PageLimit int           `envconfig:"PAGE_LIMIT" default:"10"`
	BannerTTL time.Duration `envconfig:"BANNER_TTL" default:"3s"`

	MetricsAddr string `envconfig:"METRICS_ADDR"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api base url must be absolute, got %q", c.APIBaseURL)
	}
	switch c.TokenStore {
	case TokenStoreFile, TokenStoreRedis, TokenStoreMemory:
	default:
		return fmt.Errorf("unknown token store %q", c.TokenStore)
	}
	if c.TokenKey == "" {
		return errors.New("token key must be provided")
	}
	if c.PageLimit <= 0 || c.PageLimit > 100 {
		return fmt.Errorf("page limit must be between 1 and 100, got %d", c.PageLimit)
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// StubConfig configures the in-memory development backend.
type StubConfig struct {
	AppEnv    string `envconfig:"APP_ENV" default:"development"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	Addr           string        `envconfig:"STUB_ADDR" default:":4000"`
	ReadTimeout    time.Duration `envconfig:"STUB_READ_TIMEOUT" default:"15s"`
	WriteTimeout   time.Duration `envconfig:"STUB_WRITE_TIMEOUT" default:"15s"`
	RequestTimeout time.Duration `envconfig:"STUB_REQUEST_TIMEOUT" default:"30s"`

	JWTSecret     string        `envconfig:"STUB_JWT_SECRET" required:"true"`
	TokenTTL      time.Duration `envconfig:"STUB_TOKEN_TTL" default:"12h"`
	AdminEmail    string        `envconfig:"STUB_ADMIN_EMAIL" default:"admin@marketops.local"`
	AdminPassword string        `envconfig:"STUB_ADMIN_PASSWORD" default:"admin1234"`
	Seed          bool          `envconfig:"STUB_SEED" default:"true"`
	RateLimit     int           `envconfig:"STUB_RATE_LIMIT" default:"30"`
}

// LoadStubConfig reads the stub backend configuration.
func LoadStubConfig() (*StubConfig, error) {
	var cfg StubConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if len(cfg.JWTSecret) < 16 {
		return nil, errors.New("jwt secret must be at least 16 bytes")
	}
	return &cfg, nil
}

// IsProduction returns true when the stub runs with APP_ENV=production.
func (c *StubConfig) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
