// Package main is the entry point for the quote board service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/jsamuelsen/quoteboard/internal/adapters/cache"
	"github.com/jsamuelsen/quoteboard/internal/adapters/http"
	"github.com/jsamuelsen/quoteboard/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quoteboard/internal/adapters/persistence"
	"github.com/jsamuelsen/quoteboard/internal/app"
	"github.com/jsamuelsen/quoteboard/internal/platform/config"
	"github.com/jsamuelsen/quoteboard/internal/platform/logging"
	"github.com/jsamuelsen/quoteboard/internal/platform/telemetry"
	"github.com/jsamuelsen/quoteboard/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

// commandMigrate applies the schema and exits without serving.
const commandMigrate = "migrate"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run starts the service. With the "migrate" argument it only applies the
// schema, which is how profiles with database.auto_migrate off get their tables.
func run(args []string) error {
	ctx := context.Background()

	command := ""
	if len(args) > 0 {
		command = args[0]
	}

	if command != "" && command != commandMigrate {
		return fmt.Errorf("unknown command %q", command)
	}

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	if command == commandMigrate {
		return migrate(&cfg.Database, logger)
	}

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	healthRegistry := ports.NewHealthRegistry()

	db, err := openDatabase(&cfg.Database, logger)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := persistence.Close(db); closeErr != nil {
			logger.Error("database close error", slog.Any("error", closeErr))
		}
	}()

	if err := healthRegistry.Register(persistence.NewHealthChecker(db)); err != nil {
		return fmt.Errorf("registering database health check: %w", err)
	}

	var leaderboardCache ports.Cache

	if cfg.Cache.Enabled {
		rdb := cache.NewClient(cache.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})

		defer func() {
			if closeErr := rdb.Close(); closeErr != nil {
				logger.Error("redis close error", slog.Any("error", closeErr))
			}
		}()

		if err := healthRegistry.Register(cache.NewHealthChecker(rdb)); err != nil {
			return fmt.Errorf("registering redis health check: %w", err)
		}

		leaderboardCache = cache.NewRedisCache(rdb, cfg.Cache.Prefix)

		logger.Info("leaderboard cache enabled", slog.String("addr", cfg.Cache.Addr))
	}

	sources := persistence.NewSourceRepository(db)
	quotes := persistence.NewQuoteRepository(db)
	votes := persistence.NewVoteRepository(db)
	users := persistence.NewUserRepository(db)

	leaderboard := app.NewLeaderboard(app.LeaderboardConfig{
		Quotes: quotes,
		Cache:  leaderboardCache,
		TTL:    cfg.Cache.TTL,
		Size:   cfg.Quotes.TopSize,
		Logger: logger,
	})

	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Quotes:      quotes,
		Leaderboard: leaderboard,
		PageSize:    cfg.Quotes.PageSize,
		Logger:      logger,
	})

	voteService := app.NewVoteService(app.VoteServiceConfig{
		Votes:       votes,
		Quotes:      quotes,
		Users:       users,
		Leaderboard: leaderboard,
		PageSize:    cfg.Quotes.PageSize,
		Logger:      logger,
	})

	catalogService := app.NewCatalogService(app.CatalogServiceConfig{
		Sources:     sources,
		Quotes:      quotes,
		Votes:       votes,
		Leaderboard: leaderboard,
		Logger:      logger,
	})

	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)

	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:        logger,
		AuthConfig:    &cfg.Auth,
		AppConfig:     &cfg.App,
		HealthHandler: handlers.NewHealthHandler(healthRegistry, buildInfo),
		QuoteHandler:  handlers.NewQuoteHandler(quoteService),
		VoteHandler:   handlers.NewVoteHandler(voteService),
		AdminHandler:  handlers.NewAdminHandler(catalogService),
		Timeout:       cfg.Server.RequestTimeout,
	})

	serverErr := server.Start()

	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// migrate applies the schema regardless of database.auto_migrate.
func migrate(cfg *config.DatabaseConfig, logger *slog.Logger) error {
	forced := *cfg
	forced.AutoMigrate = true

	db, err := openDatabase(&forced, logger)
	if err != nil {
		return err
	}

	return persistence.Close(db)
}

// openDatabase connects to the store and applies the schema when configured.
func openDatabase(cfg *config.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	db, err := persistence.Open(persistence.Options{
		Driver:          cfg.Driver,
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		Logger:          logger,
		SlowThreshold:   cfg.SlowQueryThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := persistence.Migrate(db); err != nil {
			_ = persistence.Close(db)
			return nil, fmt.Errorf("migrating database: %w", err)
		}

		logger.Info("database schema migrated", slog.String("driver", cfg.Driver))
	}

	return db, nil
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
