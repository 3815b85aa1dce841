package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	portsrepo "github.com/SscSPs/fuel_credit_app/internal/core/ports/repositories"
	"github.com/SscSPs/fuel_credit_app/internal/core/services"
	"github.com/SscSPs/fuel_credit_app/internal/handlers"
	"github.com/SscSPs/fuel_credit_app/internal/platform/config"
	"github.com/SscSPs/fuel_credit_app/internal/platform/logger"
	"github.com/SscSPs/fuel_credit_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/fuel_credit_app/internal/repositories/database/sqlite"
	"github.com/SscSPs/fuel_credit_app/internal/utils"
	"github.com/SscSPs/fuel_credit_app/pkg/database"
)

// @title Fuel Credit API
// @version 1.0
// @description Authentication and account backend for the fuel credit mobile app.

// @host localhost:3000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Service:    "fuel-credit-backend",
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Production: cfg.IsProduction,
		Output:     os.Stdout,
	})

	app, err := newApplication(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := app.run(); err != nil {
		log.Error("Application stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("Application stopped")
}

// application owns every long-lived resource of the server process.
type application struct {
	cfg          *config.Config
	logger       *slog.Logger
	server       *http.Server
	housekeeping *services.HousekeepingService
	analytics    *utils.PosthogClientWrapper
	closeStore   func()
}

func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger) (*application, error) {
	repos, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	analytics := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, log)

	container, err := services.NewServiceContainer(cfg, repos, analytics)
	if err != nil {
		closeStore()
		return nil, err
	}

	router, err := handlers.NewRouter(cfg, container, analytics, log)
	if err != nil {
		closeStore()
		return nil, err
	}

	return &application{
		cfg:          cfg,
		logger:       log,
		server:       &http.Server{Addr: ":" + cfg.Port, Handler: router},
		housekeeping: services.NewHousekeepingService(repos.RefreshTokenRepo, log, cfg.HousekeepingInterval),
		analytics:    analytics,
		closeStore:   closeStore,
	}, nil
}

// openStore connects the configured driver and brings its schema up to date.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath, log)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		if err := sqlite.ApplyMigrations(db); err != nil {
			_ = db.Close()
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to apply sqlite migrations: %w", err)
		}
		log.Info("SQLite store ready", slog.String("path", cfg.SQLitePath))
		return sqlite.NewRepositoryProvider(db), func() {
			if err := db.Close(); err != nil {
				log.Error("Error closing database", slog.String("error", err.Error()))
			}
		}, nil

	default:
		if err := pgsql.ApplyMigrations(cfg.DatabaseURL, log); err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return pgsql.NewRepositoryProvider(pool), pool.Close, nil
	}
}

// run starts the application and blocks until shutdown is requested.
func (app *application) run() error {
	app.housekeeping.Start()

	app.logger.Info("Server starting", slog.String("port", app.cfg.Port), slog.String("db_driver", app.cfg.DBDriver))

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		app.release()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("Shutdown signal received", slog.String("signal", sig.String()))
		app.shutdown()
	}
	return nil
}

// shutdown gives outstanding requests the grace period, then releases resources.
func (app *application) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("Graceful server shutdown failed", slog.String("error", err.Error()))
		if err := app.server.Close(); err != nil {
			app.logger.Error("Error closing server", slog.String("error", err.Error()))
		}
	}
	app.release()
}

func (app *application) release() {
	app.housekeeping.Stop()
	app.analytics.Close()
	app.closeStore()
}
