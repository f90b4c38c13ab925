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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/MikeSquared-Agency/Topsis/internal/api"
	"github.com/MikeSquared-Agency/Topsis/internal/config"
	"github.com/MikeSquared-Agency/Topsis/internal/events"
	"github.com/MikeSquared-Agency/Topsis/internal/metrics"
	"github.com/MikeSquared-Agency/Topsis/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sessions
	var sessions store.Store
	if cfg.Database.URL != "" {
		db, err := store.NewPostgresStore(ctx, cfg.Database.URL, cfg.SessionTTL())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		sessions = db
		logger.Info("connected to database")
	} else {
		sessions = store.NewMemoryStore(cfg.SessionTTL())
		logger.Info("using in-memory session store")
	}
	defer sessions.Close()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Events (optional)
	var eventsClient events.Client
	if cfg.Events.URL != "" {
		nc, err := events.NewNATSClient(ctx, cfg.Events.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to nats, running without events", "error", err)
		} else {
			eventsClient = nc
			defer nc.Close()
			logger.Info("connected to nats")
		}
	}

	// Janitor
	janitor := store.NewJanitor(sessions, cfg.SweepInterval(), m.SweptFunc(), logger)
	janitor.Start(ctx)
	defer janitor.Stop()
	logger.Info("session janitor started", "ttl", cfg.SessionTTL(), "interval", cfg.SweepInterval())

	// API server
	router := api.NewRouter(sessions, eventsClient, m, cfg, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(reg),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
