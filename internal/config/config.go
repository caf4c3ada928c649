// Package config reads the server and CLI settings from the environment.
//
// A .env file in the working directory is loaded first (if present) and never
// overrides variables that are already set, so production environments win
// over a stray .env.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting the portfolio server understands.
type Config struct {
	Port         int    `env:"PORT" envDefault:"3001"`
	DBPath       string `env:"DB_PATH" envDefault:"data/portfolio.db"`
	StaticDir    string `env:"STATIC_DIR" envDefault:"web/dist"`
	WellKnownDir string `env:"WELL_KNOWN_DIR" envDefault:".well-known"`
	Environment  string `env:"ENVIRONMENT" envDefault:"production"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"https://personal-website-admin-panel.vercel.app,http://localhost:5173"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Auth  AuthConfig
	Email EmailConfig
}

// AuthConfig configures owner sign-in. An empty JWTSecret disables all
// authentication routes; the site then serves legacy content only.
type AuthConfig struct {
	JWTSecret          string `env:"JWT_SECRET"`
	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GitHubCallbackURL  string `env:"GITHUB_CALLBACK_URL"`
	OwnerEmail         string `env:"OWNER_EMAIL"`
	OwnerPasswordHash  string `env:"OWNER_PASSWORD_HASH"`
}

// EmailConfig is the SMTP account for the contact relay.
type EmailConfig struct {
	Host      string        `env:"EMAIL_HOST" envDefault:"smtp.gmail.com"`
	Port      int           `env:"EMAIL_PORT" envDefault:"587"`
	Secure    bool          `env:"EMAIL_SECURE" envDefault:"false"`
	User      string        `env:"EMAIL_USER"`
	Password  string        `env:"EMAIL_PASS"`
	From      string        `env:"EMAIL_FROM"`
	Recipient string        `env:"EMAIL_RECIPIENT"`
	Timeout   time.Duration `env:"EMAIL_TIMEOUT" envDefault:"15s"`
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}
	return parse(env.Options{})
}

// LoadFrom parses settings from environ only, ignoring the process
// environment and any .env file.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	if cfg.Auth.GitHubCallbackURL == "" {
		cfg.Auth.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port)
	}
	for i, origin := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(origin)
	}

	return &cfg, nil
}

// IsDevelopment reports whether error details may be shown to clients.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// AuthEnabled reports whether session auth is configured.
func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != ""
}

// GitHubEnabled reports whether GitHub sign-in is configured.
func (c *Config) GitHubEnabled() bool {
	return c.AuthEnabled() && c.Auth.GitHubClientID != "" && c.Auth.GitHubClientSecret != ""
}

// MailEnabled reports whether the contact relay has an account to send from.
func (c *Config) MailEnabled() bool {
	return c.Email.User != "" || (c.Email.From != "" && c.Email.Recipient != "")
}

// SecureCookies reports whether session cookies should carry the Secure flag.
func (c *Config) SecureCookies() bool {
	return !c.IsDevelopment()
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to Info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
