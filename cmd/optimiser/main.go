package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MikeSquared-Agency/Optimiser/internal/api"
	"github.com/MikeSquared-Agency/Optimiser/internal/broker"
	"github.com/MikeSquared-Agency/Optimiser/internal/config"
	"github.com/MikeSquared-Agency/Optimiser/internal/hermes"
	"github.com/MikeSquared-Agency/Optimiser/internal/metrics"
	"github.com/MikeSquared-Agency/Optimiser/internal/store"
	"github.com/MikeSquared-Agency/Optimiser/internal/suggestions"
	"github.com/MikeSquared-Agency/Optimiser/internal/wordpress"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger = newLogger(cfg.Logging)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := store.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database", "driver", cfg.Database.Driver)

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := hermes.NewNATSClient(ctx, cfg.Hermes.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	// WordPress
	if cfg.WordPress.URL == "" {
		logger.Error("wordpress url is required")
		os.Exit(1)
	}
	wp := wordpress.NewHTTPClient(cfg.WordPress.URL, cfg.WordPress.Username, cfg.WordPress.AppPassword, cfg.WordPressTimeout()).
		WithRenderedHTML(cfg.WordPress.FetchRendered)

	// Broker
	m := metrics.New(prometheus.DefaultRegisterer)
	b, err := broker.New(db, wp, hermesClient, m, cfg, logger)
	if err != nil {
		logger.Error("failed to create broker", "error", err)
		os.Exit(1)
	}
	if err := b.SetupSubscriptions(ctx); err != nil {
		logger.Warn("failed to subscribe to analysis requests", "error", err)
	}
	logger.Info("broker ready", "parallelism", cfg.Analysis.Parallelism, "timeout", cfg.AnalysisTimeout())

	// API server
	router := api.NewRouter(b, db, suggestions.Default(), cfg.Server.AdminToken, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
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

func newLogger(c config.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
