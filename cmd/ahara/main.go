package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"mcp-ahara/internal/config"
	"mcp-ahara/internal/dataset"
	"mcp-ahara/internal/logger"
	"mcp-ahara/internal/models"
	"mcp-ahara/internal/planner"
	"mcp-ahara/internal/scoring"
	"mcp-ahara/internal/server"
	"mcp-ahara/internal/storage"
)

var (
	configPath = flag.String("config", "", "Path to a YAML config file")
	transport  = flag.String("transport", "", "Transport mode: http")
	port       = flag.Int("port", 0, "Port for HTTP transport")
	host       = flag.String("host", "", "Host address")
	address    = flag.String("address", "", "Address (alias for host)")
	dbPath     = flag.String("db-path", "", "Database path")
	version    = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *version {
		fmt.Printf("mcp-ahara version %s\n", cfg.App.Version)
		os.Exit(0)
	}

	// Flags win over file and environment
	if *transport != "" {
		cfg.Server.Transport = *transport
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *address != "" {
		cfg.Server.Host = *address
	}
	if *dbPath != "" {
		cfg.Storage.DBPath = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: !cfg.IsProduction(),
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Error("Server failed", zap.Error(err))
		_ = zapLogger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	catalog, err := dataset.Load()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	stor, err := storage.NewSQLiteStorage(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer stor.Close()

	service := planner.New(catalog, planner.Config{
		Scoring: scoring.Config{
			AyurvedicWeight:   cfg.Scoring.AyurvedicWeight,
			NutritionalWeight: cfg.Scoring.NutritionalWeight,
			CalorieTarget:     cfg.Scoring.CalorieTarget,
			ProteinTarget:     cfg.Scoring.ProteinTarget,
			Season:            models.Season(cfg.Scoring.Season),
		},
		AllergyMatching: cfg.Composer.AllergyMatching,
	}, planner.WithStore(stor))

	srv, err := server.NewAharaServer(&server.Config{
		Transport:       cfg.Server.Transport,
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		Name:            cfg.App.Name,
		Version:         cfg.App.Version,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, service, zapLogger, server.WithPinger(stor))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	zapLogger.Info("Catalog loaded",
		zap.Int("foods", len(catalog.Foods())),
		zap.Int("recipes", len(catalog.Recipes())),
		zap.Int("rules", len(catalog.Rules())),
		zap.Int("skipped_rules", len(service.Issues())),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case sig := <-sigCh:
		zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	zapLogger.Info("Shutting down")
	cancel()
	if err := <-errCh; err != nil {
		zapLogger.Error("Error during shutdown", zap.Error(err))
	}
	return nil
}
