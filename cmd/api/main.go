// Package main is the entry point for the TravelMate API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/Mitali-Laddha/travelmate-smart-travel-api/api"
	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/config"
	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/handler"
	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/repo"
	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/service"
	"github.com/Mitali-Laddha/travelmate-smart-travel-api/internal/telemetry"
	"github.com/Mitali-Laddha/travelmate-smart-travel-api/migrations"
)

const serviceName = "travelmate-api"

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// --- Tracing ----------------------------------------------------------
	// An empty OTLP endpoint keeps a no-op tracer so spans cost nothing.
	tracing, err := telemetry.NewTracing(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to start tracing", "error", err)
		os.Exit(1)
	}

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if cfg.MigrateOnStart {
		// goose speaks database/sql; borrow a handle backed by the same pool.
		sqlDB := stdlib.OpenDBFromPool(pool)
		applied, err := migrations.Up(ctx, sqlDB)
		_ = sqlDB.Close()
		if err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations applied", "count", applied)
	}

	// --- Redis ------------------------------------------------------------
	// Left as a nil interface when REDIS_ADDR is unset, which disables
	// idempotent replay. A nil *redis.Client must never be assigned here.
	var rdb redis.UniversalClient
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			// The middleware fails open, so keep serving without replay.
			slog.Warn("redis unreachable; idempotency keys will not be honoured until it recovers", "error", err)
		}
		rdb = client
	}

	// --- Metrics ----------------------------------------------------------
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	writeMetrics := telemetry.NewWriteMetrics(registry)

	// --- Services ---------------------------------------------------------
	store := repo.NewStore(pool, logger)
	tripSvc := service.NewTripService(store,
		service.WithMetrics(writeMetrics),
		service.WithTracer(tracing.Tracer()),
		service.WithLogger(logger),
		service.WithTxTimeout(cfg.TxTimeout),
	)
	savedSvc := service.NewSavedDestinationService(store.Repos().SavedDestinations)
	exportSvc := service.NewExportService(tripSvc)

	// --- Router -----------------------------------------------------------
	srv := handler.NewServer(tripSvc, savedSvc, exportSvc, logger)
	router := handler.NewRouter(srv, handler.RouterConfig{
		Logger:       logger,
		CORSOrigins:  cfg.CORSOrigins,
		MaxBodyBytes: cfg.MaxBodyBytes,
		JWTSecret:    []byte(cfg.JWTSecret),
		Redis:        rdb,
		Gatherer:     registry,
		OpenAPI:      api.OpenAPI,
	})

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	if err := tracing.Shutdown(shutdownCtx); err != nil {
		slog.Error("tracing shutdown error", "error", err)
	}
	slog.Info("server stopped")
}
