package config

import (
	"context"
	"log/slog"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfile(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", Production, false},
		{"production", Production, false},
		{"Development", Development, false},
		{"config.DevelopmentConfig", Development, false},
		{"config.ProductionConfig", Production, false},
		{"staging", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseProfile(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrProfile)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_SETTINGS", "development")
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "sqlite://chat.db")
	t.Setenv("CORS_ALLOWED_ORIGINS", "example.com, chat.example.com")
	t.Setenv("SANITIZE_MESSAGES", "true")

	cfg, err := FromViper(newViper())
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Profile)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.Driver())
	assert.Equal(t, "chat.db", cfg.SQLitePath())
	assert.Equal(t, []string{"example.com", "chat.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.SanitizeMessages)
	assert.True(t, cfg.Logger().Enabled(context.Background(), slog.LevelDebug))
}

func TestDefaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, Production, cfg.Profile)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverNone, cfg.Driver())
	assert.False(t, cfg.Logger().Enabled(context.Background(), slog.LevelDebug))
}

func TestDriver(t *testing.T) {
	tests := map[string]string{
		"":                                DriverNone,
		"postgres://u:p@localhost/chat":   DriverPostgres,
		"postgresql://u:p@localhost/chat": DriverPostgres,
		"sqlite:///tmp/chat.db":           DriverSQLite,
		"file:chat.db?cache=shared":       DriverSQLite,
		"mysql://u:p@localhost/chat":      "",
	}

	for url, want := range tests {
		cfg := &Config{DatabaseURL: url}
		assert.Equal(t, want, cfg.Driver(), url)
	}
}

func TestInvalidProfile(t *testing.T) {
	v := viper.New()
	v.Set("app_settings", "qa")

	_, err := FromViper(v)
	assert.ErrorIs(t, err, ErrProfile)
}
