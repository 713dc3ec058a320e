// Package config loads process configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const devSessionSecret = "dev-insecure-secret-change-me"

type Config struct {
	HTTPAddr       string `env:"HTTP_ADDR,default=:8080"`
	DatabaseURL    string `env:"DATABASE_URL,required"`
	DBAutoMigrate  bool   `env:"DB_AUTO_MIGRATE,default=true"`
	AppEnv         string `env:"APP_ENV,default=development"`
	E2EEnabled     bool   `env:"E2E_ENABLED,default=false"`
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`

	SessionSecret       string `env:"SESSION_SECRET"`
	SessionCookieSecure bool   `env:"SESSION_COOKIE_SECURE,default=false"`
	FirebaseCredentials string `env:"GOOGLE_APPLICATION_CREDENTIALS"`

	RedisURL        string `env:"REDIS_URL"`
	ActivityDataURL string `env:"ACTIVITY_DATA_URL"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS,default=10"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST,default=30"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`
}

// Load reads .env when present, then decodes and validates the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values and fills the development session secret.
func (c *Config) Validate() error {
	switch c.AppEnv {
	case "development", "test", "production":
	default:
		return fmt.Errorf("config: APP_ENV must be development, test or production, got %q", c.AppEnv)
	}
	if c.DatabaseURL == "" {
		return errors.New("config: DATABASE_URL is required")
	}
	if c.SessionSecret == "" {
		if c.IsProduction() {
			return errors.New("config: SESSION_SECRET is required in production")
		}
		c.SessionSecret = devSessionSecret
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return errors.New("config: RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("config: LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

// TestEndpointsEnabled gates the test-only login and cleanup endpoints.
func (c *Config) TestEndpointsEnabled() bool { return c.AppEnv == "test" && c.E2EEnabled }

// Origins splits ALLOWED_ORIGINS on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
