package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"30s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	SheetID           string `envconfig:"SHEET_ID"`
	GoogleCredentials string `envconfig:"GOOGLE_CREDENTIALS" default:"credentials.json"`

	AppPIN     string `envconfig:"APP_PIN"`
	AppPINHash string `envconfig:"APP_PIN_HASH"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTExpiry time.Duration `envconfig:"JWT_EXPIRY" default:"168h"`

	RedisAddr string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	CacheTTL  time.Duration `envconfig:"CACHE_TTL" default:"30s"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret must be provided")
	}
	if cfg.SheetID == "" {
		return nil, errors.New("sheet id must be provided")
	}
	if cfg.AppPIN == "" && cfg.AppPINHash == "" {
		return nil, errors.New("either APP_PIN or APP_PIN_HASH must be provided")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// JWTExpiryDays reports the token lifetime in whole days for API responses.
func (c *Config) JWTExpiryDays() int {
	if c == nil || c.JWTExpiry <= 0 {
		return 0
	}
	return int(c.JWTExpiry / (24 * time.Hour))
}
