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

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/config"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/hub"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/middleware"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/queryclient"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/registry"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/session"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/web"
)

func main() {
	slog.Info("🚀 Starting Gridiron Dashboard...")

	cfg := config.LoadConfig()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queries := queryclient.New(cfg.Query.BaseURL, cfg.Query.Timeout, cfg.Query.Retries)
	slog.Info("✓ Query service configured", "url", cfg.Query.BaseURL, "retries", cfg.Query.Retries)

	h := hub.NewHub(slog.Default())
	hubDone := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(hubDone)
	}()

	sessionCfg := session.Config{
		DatasetStart:  cfg.Dataset.StartYear,
		DatasetEnd:    cfg.Dataset.EndYear,
		DefaultPoints: cfg.Dataset.DefaultPoints,
	}
	handler := web.NewHandler(ctx, h, queries, sessionCfg, registry.New().Keys(), cfg.Server.CORSOrigins, slog.Default())

	r := newRouter(handler, cfg.Server.CORSOrigins)

	server := &http.Server{
		Addr:    cfg.Server.DashboardAddr,
		Handler: r,
	}

	go func() {
		slog.Info("✓ Dashboard listening", "addr", cfg.Server.DashboardAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("❌ Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("🛑 Shutting down...")

	// Cancel context to stop the hub and every session
	cancel()
	<-hubDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("⚠️  Server shutdown error", "error", err)
	}
	if err := h.Wait(shutdownCtx); err != nil {
		slog.Warn("⚠️  Sessions still running at shutdown", "error", err)
	}

	slog.Info("✓ Shutdown complete")
}

// newRouter mounts the dashboard routes behind the shared middleware chain
func newRouter(handler *web.Handler, origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	// the websocket upgrader checks the same origins
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", handler.HandleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", handler.HandleWebSocket)

	// page routes get access logs; the socket is long-lived
	r.Group(func(r chi.Router) {
		r.Use(middleware.Logger)
		r.Get("/", handler.HandleIndex)
		r.Handle("/static/*", handler.Static())
		r.Get("/sessions", handler.HandleSessions)
		r.Get("/sessions/{id}/chart.png", handler.HandleChartPNG)
	})
	return r
}
