package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mcoot/gamehub/internal/api"
	"github.com/mcoot/gamehub/internal/factory"
	"github.com/mcoot/gamehub/internal/services/auth"
	redisstorage "github.com/mcoot/gamehub/internal/storage/redis"
)

// Application environments
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the server configuration, read from the environment
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	Host            string        `env:"HOST"`
	Port            int           `env:"PORT"             envDefault:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT"     envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"    envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`

	JWTSecret    string        `env:"JWT_SECRET"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN" envDefault:"168h"`

	StorageType       string        `env:"STORAGE_TYPE"         envDefault:"memory"`
	RedisURL          string        `env:"REDIS_URL"            envDefault:"redis://localhost:6379"`
	RedisPoolSize     int           `env:"REDIS_POOL_SIZE"      envDefault:"10"`
	RedisMinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	RedisLobbyTTL     time.Duration `env:"REDIS_LOBBY_TTL"`
}

// Load reads an optional .env file into the environment, then parses it
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the process environment and validates it
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the parser cannot
func (c Config) Validate() error {
	switch c.AppEnv {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("invalid APP_ENV %q: must be %s or %s", c.AppEnv, EnvDevelopment, EnvProduction)
	}

	switch c.StorageType {
	case factory.StorageTypeMemory, factory.StorageTypeRedis:
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be %s or %s", c.StorageType, factory.StorageTypeMemory, factory.StorageTypeRedis)
	}

	if c.IsProduction() && c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	if c.JWTExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}
	return nil
}

// IsProduction reports whether APP_ENV is production
func (c Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// Server returns the HTTP server settings
func (c Config) Server() api.ServerConfig {
	return api.ServerConfig{
		Host:            c.Host,
		Port:            c.Port,
		ReadTimeout:     c.ReadTimeout,
		WriteTimeout:    c.WriteTimeout,
		ShutdownTimeout: c.ShutdownTimeout,
	}
}

// Auth returns the token settings. An empty secret falls back to the development default.
func (c Config) Auth() auth.Config {
	return auth.Config{
		Secret:   c.JWTSecret,
		TokenTTL: c.JWTExpiresIn,
	}
}

// Redis returns the Redis storage settings
func (c Config) Redis() redisstorage.Config {
	cfg := redisstorage.DefaultConfig()
	cfg.URL = c.RedisURL
	cfg.PoolSize = c.RedisPoolSize
	cfg.MinIdleConns = c.RedisMinIdleConns
	cfg.LobbyTTL = c.RedisLobbyTTL
	return cfg
}

// Factory returns the application wiring settings
func (c Config) Factory(logger *slog.Logger) factory.Config {
	cfg := factory.Config{
		AuthConfig:  c.Auth(),
		Logger:      logger,
		StorageType: c.StorageType,
	}
	if c.StorageType == factory.StorageTypeRedis {
		redisCfg := c.Redis()
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}
