// Package config resolves the server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Profile names accepted in APP_SETTINGS.
const (
	Development = "development"
	Production  = "production"
)

// Storage drivers derived from DATABASE_URL.
const (
	DriverNone     = "none"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrProfile is returned for an unknown APP_SETTINGS value.
var ErrProfile = errors.New("config: unknown profile")

// Config holds everything main needs to start the server.
type Config struct {
	Profile          string
	Debug            bool
	Port             string
	DatabaseURL      string
	AllowedOrigins   []string
	SanitizeMessages bool
}

// Load reads .env (when present) and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env file: %w", err)
	}

	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("app_settings", Production)
	v.SetDefault("port", "8080")
	v.SetDefault("database_url", "")
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("sanitize_messages", false)

	return v
}

// FromViper builds a Config from already populated settings.
func FromViper(v *viper.Viper) (*Config, error) {
	profile, err := parseProfile(v.GetString("app_settings"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Profile:          profile,
		Debug:            profile == Development,
		Port:             v.GetString("port"),
		DatabaseURL:      strings.TrimSpace(v.GetString("database_url")),
		AllowedOrigins:   splitList(v.GetString("cors_allowed_origins")),
		SanitizeMessages: v.GetBool("sanitize_messages"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	return cfg, nil
}

// parseProfile also accepts the class style names the first deployments
// used, e.g. "config.DevelopmentConfig".
func parseProfile(s string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(s))
	p = strings.TrimPrefix(p, "config.")
	p = strings.TrimSuffix(p, "config")

	switch p {
	case "", Production:
		return Production, nil
	case Development:
		return Development, nil
	}

	return "", fmt.Errorf("%w: %q", ErrProfile, s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Driver picks the message store implementation from DatabaseURL.
func (c *Config) Driver() string {
	u := strings.ToLower(c.DatabaseURL)

	switch {
	case u == "":
		return DriverNone
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(u, "sqlite://"), strings.HasPrefix(u, "file:"):
		return DriverSQLite
	}

	return ""
}

// SQLitePath returns the database path for the sqlite driver.
func (c *Config) SQLitePath() string {
	return strings.TrimPrefix(c.DatabaseURL, "sqlite://")
}

// Logger returns the process logger for the profile: text at debug level
// while developing, JSON at info level in production.
func (c *Config) Logger() *slog.Logger {
	if c.Debug {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		}))
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
