package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tkarimov/cryptostats/internal/config"
	"github.com/tkarimov/cryptostats/internal/database"
	"github.com/tkarimov/cryptostats/internal/ingest"
	"github.com/tkarimov/cryptostats/internal/ratelimit"
	"github.com/tkarimov/cryptostats/internal/server"
	"github.com/tkarimov/cryptostats/internal/stats"
	"github.com/tkarimov/cryptostats/internal/store"
	"github.com/tkarimov/cryptostats/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/cryptostats.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting cryptostats",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"driver", cfg.Database.Driver,
		"prices_dir", cfg.Ingest.Directory,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Open the price store
	priceStore, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open price store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Ingest price batches before serving any query
	pipeline := ingest.NewPipeline(ingest.NewOSDirSource(cfg.Ingest.Directory), priceStore, logger)
	summary, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("ingestion failed", "error", err)
		os.Exit(1)
	}
	logger.Info("ingestion complete",
		"inserted", summary.Inserted(),
		"batches", len(summary.Results),
		"already_ingested", len(summary.Skipped),
		"failed", len(summary.Failed()),
	)

	// Wire the query path
	engine := stats.NewEngine(stats.Config{QueryConcurrency: cfg.Stats.QueryConcurrency}, priceStore, logger)
	limiter := ratelimit.New(ratelimit.Config{
		Capacity: cfg.RateLimit.Requests,
		Period:   cfg.RateLimit.Period,
	}, logger)
	srv := server.New(server.Config{DatePattern: cfg.Server.DatePattern}, engine, limiter, priceStore, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("http server listening", "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown", "error", err)
	}

	logger.Info("cryptostats stopped")
}

// openStore builds the configured PriceStore backend.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.PriceStore, func(), error) {
	switch cfg.Database.Driver {
	case "memory":
		logger.Warn("using in-memory store, data will not survive restarts")
		return store.NewMemory(), func() {}, nil
	default:
		logger.Info("connecting to database",
			"host", cfg.Database.Postgres.Host,
			"port", cfg.Database.Postgres.Port,
			"database", cfg.Database.Postgres.Name,
		)
		pool, err := database.Connect(ctx, cfg.Database.Postgres)
		if err != nil {
			return nil, nil, err
		}
		pg := store.NewPostgres(pool, logger)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("database connected")
		return pg, pool.Close, nil
	}
}
