package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantfeed/tickersync/internal/api"
	"github.com/quantfeed/tickersync/internal/config"
	"github.com/quantfeed/tickersync/internal/database"
	"github.com/quantfeed/tickersync/internal/job"
	"github.com/quantfeed/tickersync/internal/loader"
	"github.com/quantfeed/tickersync/internal/model"
	"github.com/quantfeed/tickersync/internal/scheduler"
	"github.com/quantfeed/tickersync/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/tickersync.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single sync job synchronously and exit")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting tickersync",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration; a misconfigured process must not attempt any sync.
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"api_url", cfg.API.BaseURL,
		"table", cfg.Loader.Table,
		"daily_at", cfg.Scheduler.DailyAt,
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

	// Connect to the warehouse
	logger.Info("connecting to warehouse",
		"host", cfg.Warehouse.Host,
		"port", cfg.Warehouse.Port,
		"database", cfg.Warehouse.Name,
	)

	pool, err := database.Connect(ctx, cfg.Warehouse)
	if err != nil {
		logger.Error("failed to connect to warehouse", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("warehouse connected")

	// Create upstream API client
	apiClient := api.NewClient(
		cfg.API.BaseURL,
		cfg.API.Key,
		api.WithLogger(logger),
		api.WithTimeout(time.Duration(cfg.API.Timeout)),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
	)

	fetchOpts := api.GetTickersOptions{
		Limit:      cfg.API.PageLimit,
		Market:     "stocks",
		ActiveOnly: true,
		Order:      "asc",
		Sort:       "ticker",
	}
	fetcher := job.FetcherFunc(func(ctx context.Context) (model.SyncBatch, error) {
		return apiClient.GetAllTickers(ctx, fetchOpts)
	})

	ld := loader.New(loader.Config{
		Table:     cfg.Loader.Table,
		ChunkSize: cfg.Loader.ChunkSize,
	}, pool, logger)

	syncJob := job.New(fetcher, ld, logger)

	sched, err := scheduler.New(scheduler.Config{
		DailyAt:      cfg.Scheduler.DailyAt,
		PollInterval: time.Duration(cfg.Scheduler.PollInterval),
	}, syncJob, nil, logger)
	if err != nil {
		logger.Error("failed to create scheduler", "error", err)
		os.Exit(1)
	}

	if *once {
		result := sched.RunOnce(ctx)
		if !result.Success {
			os.Exit(1)
		}
		return
	}

	// Health server
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
		Handler: createHealthHandler(pool, sched),
	}

	go func() {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	// Run the trigger loop until cancelled.
	sched.Run(ctx)

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	healthServer.Shutdown(shutdownCtx)

	logger.Info("tickersync stopped")
}

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(pool *pgxpool.Pool, sched *scheduler.Scheduler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		// Check warehouse
		if err := pool.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["warehouse"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["warehouse"] = "connected"
		}

		// Check scheduler
		schedInfo := map[string]any{
			"state": sched.State().String(),
		}
		if last := sched.LastResult(); last != nil {
			schedInfo["last_run_id"] = last.RunID.String()
			schedInfo["last_run_success"] = last.Success
			schedInfo["last_run_records"] = last.Records
		}
		health.Components["scheduler"] = schedInfo

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
