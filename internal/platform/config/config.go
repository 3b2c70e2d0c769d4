// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full process configuration
type Config struct {
	Host     string `env:"HOST"      envDefault:"0.0.0.0"`
	Port     int    `env:"PORT"      envDefault:"5000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// RedisURL selects the Redis backend when set; otherwise DatabaseURL is used
	RedisURL    string `env:"REDIS_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	DBMaxOpenConns      int           `env:"DB_MAX_OPEN_CONNS"        envDefault:"25"`
	DBMaxIdleConns      int           `env:"DB_MAX_IDLE_CONNS"        envDefault:"5"`
	DBConnMaxLifetime   time.Duration `env:"DB_CONN_MAX_LIFETIME"     envDefault:"5m"`
	DBConnMaxIdleTime   time.Duration `env:"DB_CONN_MAX_IDLE_TIME"    envDefault:"1m"`
	StoreCleanupPeriod  time.Duration `env:"STORE_CLEANUP_INTERVAL"   envDefault:"15m"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD"    envDefault:"30s"`

	Auth0Domain       string `env:"AUTH0_DOMAIN"`
	Auth0ClientID     string `env:"AUTH0_CLIENT_ID"`
	Auth0ClientSecret string `env:"AUTH0_CLIENT_SECRET"`
	Auth0CallbackURL  string `env:"AUTH0_CALLBACK_URL"`
	Auth0Audience     string `env:"AUTH0_AUDIENCE"`

	HerokuAppName string `env:"HEROKU_APP_NAME"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`

	BoxClientID          string `env:"BOX_CLIENT_ID"`
	BoxClientSecret      string `env:"BOX_CLIENT_SECRET"`
	StorageSharedBaseURL string `env:"STORAGE_SHARED_BASE_URL" envDefault:"https://amadeus.box.com"`

	StaticDir    string `env:"STATIC_DIR"    envDefault:"./dist"`
	AuthBypass   bool   `env:"AUTH_BYPASS"   envDefault:"false"`
	SecretKey    string `env:"SECRET_KEY"`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"false"`
}

// Load parses the environment and validates the result
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements
func (c *Config) Validate() error {
	if c.RedisURL == "" && c.DatabaseURL == "" {
		return fmt.Errorf("either REDIS_URL or DATABASE_URL must be set")
	}
	if c.RedisURL == "" && c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required with the Postgres backend")
	}
	if !c.AuthBypass && c.Auth0Domain == "" {
		return fmt.Errorf("AUTH0_DOMAIN is required unless AUTH_BYPASS is set")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	return nil
}

// PublicURL is the externally reachable base URL, without a trailing slash
func (c *Config) PublicURL() string {
	switch {
	case c.PublicBaseURL != "":
		return strings.TrimSuffix(c.PublicBaseURL, "/")
	case c.HerokuAppName != "":
		return "https://" + c.HerokuAppName + ".herokuapp.com"
	default:
		return fmt.Sprintf("http://localhost:%d", c.Port)
	}
}

// StorageRedirectURI is the storage provider's OAuth callback URL
func (c *Config) StorageRedirectURI() string {
	return c.PublicURL() + "/api/box/callback"
}

// LogoutReturnURL is where the identity provider sends the browser after logout
func (c *Config) LogoutReturnURL() string {
	return c.PublicURL() + "/"
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
