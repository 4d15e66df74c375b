package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/gamehub/internal/factory"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.AppEnv)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, factory.StorageTypeMemory, cfg.StorageType)
	assert.False(t, cfg.IsProduction())

	assert.Zero(t, cfg.Redis().LobbyTTL)

	fc := cfg.Factory(nil)
	assert.Nil(t, fc.RedisConfig)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("STORAGE_TYPE", "redis")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("REDIS_LOBBY_TTL", "1h")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server().Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 2*time.Hour, cfg.Auth().TokenTTL)

	fc := cfg.Factory(nil)
	require.NotNil(t, fc.RedisConfig)
	assert.Equal(t, "redis://cache:6379/1", fc.RedisConfig.URL)
	assert.Equal(t, time.Hour, fc.RedisConfig.LobbyTTL)
	assert.Positive(t, fc.RedisConfig.MaxTxRetries)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "production without secret",
			env:  map[string]string{"APP_ENV": "production"},
			want: "JWT_SECRET is required in production",
		},
		{
			name: "unknown environment",
			env:  map[string]string{"APP_ENV": "staging"},
			want: "invalid APP_ENV",
		},
		{
			name: "unknown storage",
			env:  map[string]string{"STORAGE_TYPE": "postgres"},
			want: "invalid STORAGE_TYPE",
		},
		{
			name: "bad port",
			env:  map[string]string{"PORT": "not-a-port"},
			want: "parse env:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Parse()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestProductionWithSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "s3cret", cfg.Auth().Secret)
}
