package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/gamehub/internal/dependencies/clock"
	"github.com/mcoot/gamehub/internal/dependencies/random"
	"github.com/mcoot/gamehub/internal/services/auth"
	"github.com/mcoot/gamehub/internal/services/catalog"
	"github.com/mcoot/gamehub/internal/services/lobby"
	"github.com/mcoot/gamehub/internal/services/player"
	"github.com/mcoot/gamehub/internal/services/session"
	"github.com/mcoot/gamehub/internal/storage"
	"github.com/mcoot/gamehub/internal/storage/memory"
	redisstorage "github.com/mcoot/gamehub/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService       *auth.Service
	PlayerService     *player.Service
	CatalogService    *catalog.Service
	LobbyController   *lobby.Controller
	SessionController *session.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// Zero fields fall back to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	return newWithDependencies(store, clock.New(), random.New(), cfg.AuthConfig, logger), nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		return redisStore, nil
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	authService := auth.New(store, clk, rnd, authCfg, logger)
	playerService := player.New(store, clk, logger)
	catalogService := catalog.New(store, clk, rnd, logger)
	lobbyController := lobby.NewController(store, catalogService, clk, rnd, logger)
	sessionController := session.NewController(store, playerService, clk, rnd, logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		AuthService:       authService,
		PlayerService:     playerService,
		CatalogService:    catalogService,
		LobbyController:   lobbyController,
		SessionController: sessionController,
	}
}
