package fx

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/nutshell-sh/nutshell/config"
	"github.com/nutshell-sh/nutshell/internal/application"
	"github.com/nutshell-sh/nutshell/internal/domain"
	noopCache "github.com/nutshell-sh/nutshell/internal/infrastructure/cache"
	"github.com/nutshell-sh/nutshell/internal/infrastructure/lru"
	memoryRepo "github.com/nutshell-sh/nutshell/internal/infrastructure/memory"
	postgresRepo "github.com/nutshell-sh/nutshell/internal/infrastructure/postgres"
	redisCache "github.com/nutshell-sh/nutshell/internal/infrastructure/redis"
	sqliteRepo "github.com/nutshell-sh/nutshell/internal/infrastructure/sqlite"
	"github.com/nutshell-sh/nutshell/internal/pkg/metrics"
)

// ProvideLogger creates and configures the application logger
func ProvideLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// ProvideMetricsRegistry creates the Prometheus registry, or a no-op one
// when metrics are disabled.
func ProvideMetricsRegistry(cfg *config.Config) (metrics.Registry, error) {
	if !cfg.Metrics.Enabled {
		return metrics.NewNoOpRegistry(), nil
	}
	return metrics.NewPrometheusRegistry(cfg.Metrics)
}

// ProvideRepository creates the appropriate repository based on configuration
func ProvideRepository(cfg *config.Config, logger *slog.Logger) (domain.LinkRepository, error) {
	switch cfg.Database.Type {
	case "memory":
		logger.Info("Using in-memory repository")
		return memoryRepo.NewLinkRepository(), nil

	case "sqlite":
		dbURL := cfg.GetDatabaseURL()
		logger.Info("Using SQLite repository", "path", dbURL)

		// Create data directory if it doesn't exist
		if err := os.MkdirAll("./data", 0750); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}

		db, err := sqlx.Connect("sqlite3", dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
		}

		if err := runMigrations(db, "sqlite3", "sqlite"); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		return sqliteRepo.NewLinkRepository(db), nil

	case "postgres":
		dbURL := cfg.GetDatabaseURL()
		logger.Info("Using PostgreSQL repository", "url", dbURL)

		db, err := sqlx.Connect("postgres", dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}

		if err := runMigrations(db, "postgres", "postgres"); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		return postgresRepo.NewLinkRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
}

// ProvideRedisClient creates a Redis client when the redis cache backend is
// selected; otherwise it provides nil and no connection is made.
func ProvideRedisClient(cfg *config.Config) *goredis.Client {
	if cfg.Cache.Backend != "redis" {
		return nil
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
}

// ProvideCache selects the link cache backend. The in-process LRU cache is
// the default; redis serves multi-instance deployments and "none" disables
// caching entirely.
func ProvideCache(cfg *config.Config, repo domain.LinkRepository, client *goredis.Client, logger *slog.Logger, registry metrics.Registry) (domain.LinkCache, error) {
	switch cfg.Cache.Backend {
	case "lru":
		logger.Info("Using LRU link cache", "capacity", cfg.Cache.Capacity)
		return lru.New(cfg.Cache.Capacity, repo, registry), nil

	case "redis":
		ttl, err := time.ParseDuration(cfg.Cache.Redis.TTL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis cache ttl: %w", err)
		}
		logger.Info("Using Redis link cache", "addr", cfg.Cache.Redis.Addr, "ttl", ttl)
		return redisCache.NewCache(client, repo, ttl, logger), nil

	case "none":
		logger.Info("Link caching disabled")
		return noopCache.NewNoOpCache(repo), nil

	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Cache.Backend)
	}
}

// ProvideLinkService wires the application service from its dependencies.
func ProvideLinkService(repo domain.LinkRepository, cache domain.LinkCache, cfg *config.Config, logger *slog.Logger, registry metrics.Registry) *application.LinkService {
	return application.NewLinkService(repo, cache, cfg.App.CodeLength, logger, registry)
}

// runMigrations runs database migrations
func runMigrations(db *sqlx.DB, driverName, migrationDir string) error {
	var driver database.Driver
	var err error

	sqlDB := db.DB

	switch driverName {
	case "sqlite3":
		driver, err = sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	case "postgres":
		driver, err = postgres.WithInstance(sqlDB, &postgres.Config{})
	default:
		return fmt.Errorf("unsupported driver: %s", driverName)
	}

	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrationPath := fmt.Sprintf("file://migrations/%s", migrationDir)
	m, err := migrate.NewWithDatabaseInstance(
		migrationPath,
		driverName,
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("Migrations completed successfully")
	return nil
}

// RepositoryParams holds the parameters needed for repository lifecycle management
type RepositoryParams struct {
	fx.In

	Repository domain.LinkRepository
	Logger     *slog.Logger
}

// RegisterRepositoryHooks registers repository lifecycle hooks with FX
func RegisterRepositoryHooks(lc fx.Lifecycle, params RepositoryParams) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := params.Repository.Close(); err != nil {
				params.Logger.Error("Failed to close repository resources", "error", err)
				return err
			}
			params.Logger.Info("Repository resources closed successfully")
			return nil
		},
	})
}

// CacheParams holds the parameters needed for cache lifecycle management
type CacheParams struct {
	fx.In

	Config *config.Config
	Cache  domain.LinkCache
	Client *goredis.Client
	Logger *slog.Logger
}

// RegisterCacheHooks verifies the cache backend on startup and closes the
// Redis client, when there is one, on shutdown.
func RegisterCacheHooks(lc fx.Lifecycle, params CacheParams) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := params.Cache.Ping(ctx); err != nil {
				params.Logger.Error("Cache backend unavailable", "error", err)
				return err
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if params.Client == nil {
				return nil
			}
			if err := params.Client.Close(); err != nil {
				params.Logger.Error("Failed to close Redis client", "error", err)
				return err
			}
			params.Logger.Info("Redis client closed successfully")
			return nil
		},
	})
}
