package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/falconstore/oddswatch/internal/catalog"
	"github.com/falconstore/oddswatch/internal/detector"
	"github.com/falconstore/oddswatch/internal/health"
	"github.com/falconstore/oddswatch/internal/infra"
	"github.com/falconstore/oddswatch/internal/normalizer"
	"github.com/falconstore/oddswatch/internal/orchestrator"
	"github.com/falconstore/oddswatch/internal/provider"
	"github.com/falconstore/oddswatch/internal/publisher"
	"github.com/falconstore/oddswatch/internal/repository"
	"github.com/falconstore/oddswatch/internal/resolver"
	"github.com/falconstore/oddswatch/internal/source"
	"github.com/falconstore/oddswatch/internal/source/feed"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel()}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
}

func logLevel() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to postgres")

	if err := infra.RunMigrations(cfg.DSN(), logger); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	store := repository.NewPostgres(pool)
	cat := catalog.New(store, logger)
	res := resolver.New(cat, store, cfg.PrimaryBookmaker, logger)
	leagues := normalizer.NewLeagueMatcher(cat)
	norm := normalizer.New(cat, res, leagues, store, cfg.PrimaryBookmaker, logger)
	det := detector.New(cat, store, cfg.ArbitrageThreshold, cfg.ValueBetThreshold, logger)

	object := provider.NewStorageClient(cfg.StorageURL, cfg.StorageServiceKey, cfg.StorageBucket)
	pub := publisher.New(store, object, cfg.ArtifactPath, logger)

	registry := source.NewRegistry()
	for name, url := range cfg.Feeds() {
		if err := registry.Register(feed.New(name, url, logger)); err != nil {
			return fmt.Errorf("register source %s: %w", name, err)
		}
	}
	if len(registry.Sources()) == 0 {
		logger.Warn("no feed sources configured, cycles will only clean up and publish")
	}

	orch := orchestrator.New(registry, cat, res, norm, det, pub, store, orchestrator.Options{
		Interval:             cfg.CycleInterval(),
		CatalogRefreshCycles: cfg.CatalogRefreshCycles,
		RunOnce:              cfg.RunOnce,
	}, logger)

	if cfg.HealthPort > 0 {
		srv := health.NewServer(cfg.HealthPort, orch, pool, logger)
		go func() {
			if err := srv.Start(ctx); err != nil {
				logger.Error("health server failed", "error", err)
			}
		}()
	}

	logger.Info("pipeline starting",
		"interval", cfg.CycleInterval(),
		"primary_bookmaker", cfg.PrimaryBookmaker,
		"sources", len(registry.Sources()),
		"run_once", cfg.RunOnce)
	return orch.Run(ctx)
}
