package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "PORT", "TOKEN_TTL", "ALLOWED_ORIGINS", "GIN_MODE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	require.Equal(t, "mysql", cfg.DBDriver)
	require.Equal(t, "5000", cfg.Port)
	require.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	require.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins)
	require.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("PORT", "8080")
	t.Setenv("TOKEN_TTL", "12h")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("GIN_MODE", "release")

	cfg := Load()

	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 12*time.Hour, cfg.TokenTTL)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
	require.True(t, cfg.IsProduction())
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	t.Setenv("TOKEN_TTL", "not-a-duration")

	cfg := Load()

	require.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
}
