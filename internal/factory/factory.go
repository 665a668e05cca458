package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/oche-club/dartscore-go/internal/dependencies/clock"
	"github.com/oche-club/dartscore-go/internal/dependencies/random"
	"github.com/oche-club/dartscore-go/internal/services/auth"
	"github.com/oche-club/dartscore-go/internal/services/checkout"
	"github.com/oche-club/dartscore-go/internal/services/match"
	"github.com/oche-club/dartscore-go/internal/services/stats"
	"github.com/oche-club/dartscore-go/internal/sse"
	"github.com/oche-club/dartscore-go/internal/storage"
	"github.com/oche-club/dartscore-go/internal/storage/memory"
	redisstorage "github.com/oche-club/dartscore-go/internal/storage/redis"
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
	CheckoutService *checkout.Service
	StatsService    *stats.Service
	MatchController *match.Controller
	AuthService     *auth.Service
	HubManager      *sse.HubManager
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// StatsConfig holds configuration for the stats service (optional)
	// Zero fields fall back to stats.DefaultConfig()
	StatsConfig stats.Config
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
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, authCfg, cfg.StatsConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, statsCfg stats.Config, logger *slog.Logger) *App {
	// Create services. The checkout table is precomputed here, once, so
	// every later lookup is a map read.
	checkoutService := checkout.New()
	statsService := stats.New(statsCfg)
	matchController := match.NewController(store, checkoutService, statsService, clk, rnd, logger)
	authService := auth.New(store, clk, authCfg)
	hubManager := sse.NewHubManager(logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		CheckoutService: checkoutService,
		StatsService:    statsService,
		MatchController: matchController,
		AuthService:     authService,
		HubManager:      hubManager,
	}
}
