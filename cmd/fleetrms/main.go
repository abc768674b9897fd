// FleetRMS server entrypoint.
//
// Wires configuration, logging, storage, the device registry, the
// command dispatcher and the HTTP API together, then runs until
// interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/machinech97-sudo/fleetrms/internal/api"
	"github.com/machinech97-sudo/fleetrms/internal/capture"
	"github.com/machinech97-sudo/fleetrms/internal/command"
	"github.com/machinech97-sudo/fleetrms/internal/device"
	"github.com/machinech97-sudo/fleetrms/internal/infrastructure/config"
	"github.com/machinech97-sudo/fleetrms/internal/infrastructure/database"
	"github.com/machinech97-sudo/fleetrms/internal/infrastructure/influxdb"
	"github.com/machinech97-sudo/fleetrms/internal/infrastructure/logging"
	"github.com/machinech97-sudo/fleetrms/internal/settings"
	_ "github.com/machinech97-sudo/fleetrms/migrations"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fleetrms: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Logging, version)
	logger.Info("starting fleetrms", "version", version)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("closing database", "error", err)
		}
	}()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("database ready", "path", db.Path())

	registry := device.NewRegistry(device.NewRepository(db), cfg.OnlineThreshold())
	registry.SetLogger(logger.With("component", "device"))

	dispatcher := command.NewDispatcher(command.NewRepository(db))
	dispatcher.SetLogger(logger.With("component", "command"))

	if cfg.InfluxDB.Enabled {
		metrics, err := influxdb.New(ctx, cfg.InfluxDB, logger.With("component", "influxdb"))
		if err != nil {
			return fmt.Errorf("connecting to influxdb: %w", err)
		}
		defer metrics.Close()
		registry.SetMetrics(metrics)
		logger.Info("check-in telemetry enabled", "bucket", cfg.InfluxDB.Bucket)
	}

	server, err := api.New(api.Deps{
		Config:     cfg,
		Logger:     logger,
		DB:         db,
		Registry:   registry,
		Dispatcher: dispatcher,
		Settings:   settings.NewStore(db),
		Capture:    capture.NewRepository(db),
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating api server: %w", err)
	}

	if err := server.Start(ctx); err != nil {
		return err
	}

	logger.Info("fleetrms stopped")
	return nil
}

// getConfigPath returns the config file path from FLEETRMS_CONFIG, or
// the default location.
func getConfigPath() string {
	if path := os.Getenv("FLEETRMS_CONFIG"); path != "" {
		return path
	}
	return "configs/config.yaml"
}
