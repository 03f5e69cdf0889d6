package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/cache"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/config"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/db"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/middleware"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/registry"
)

func main() {
	slog.Info("🚀 Starting Gridiron Stats API...")

	cfg := config.LoadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbClient, err := db.NewClient(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		slog.Error("❌ Failed to connect to stats database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer dbClient.Close()
	slog.Info("✓ Connected to stats database", "driver", dbClient.Driver())

	if err := dbClient.Migrate(ctx); err != nil {
		slog.Error("❌ Failed to migrate stats tables", "error", err)
		os.Exit(1)
	}

	var store db.StatsDB = dbClient
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			slog.Error("❌ Failed to parse Redis URL", "error", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			// the cache falls through to the database on every error
			slog.Warn("⚠️  Redis unreachable, serving uncached until it returns", "error", err)
		} else {
			slog.Info("✓ Connected to Redis", "ttl", cfg.Redis.CacheTTL)
		}
		store = cache.NewCachedDB(dbClient, redisClient, cfg.Redis.CacheTTL)
	}

	reg := registry.New()
	handler := handlers.NewHandler(store, reg)
	summary := handlers.NewSummaryHandler(handler, cfg.Dataset.EndYear)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", handler.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/stats", handler.GetSeasonStats)
	r.Get("/summary.png", summary.GetSummaryChart)

	r.Route("/{statType}", func(r chi.Router) {
		r.Get("/players", handler.GetPlayers)
		r.Get("/numeric-columns", handler.GetNumericColumns)
		r.Get("/player-stats", handler.GetPlayerStats)
		r.Get("/scatter-data", handler.GetScatterData)
	})

	server := &http.Server{
		Addr:    cfg.Server.StatsAddr,
		Handler: r,
	}

	go func() {
		slog.Info("✓ Stats API listening", "addr", cfg.Server.StatsAddr, "stat_types", reg.Keys())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("❌ Server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("🛑 Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("⚠️  Server shutdown error", "error", err)
	}

	slog.Info("✓ Shutdown complete")
}
