// Command statsload loads a season CSV export into one of the stats tables.
//
//	statsload -type receiving -file receiving_2023.csv [-truncate]
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/cache"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/config"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/db"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/registry"
)

func main() {
	statType := flag.String("type", "", "stat type to load (receiving, rushing, passing)")
	file := flag.String("file", "", "CSV file to load; - reads stdin")
	truncate := flag.Bool("truncate", false, "delete existing rows first")
	flag.Parse()

	if err := run(*statType, *file, *truncate); err != nil {
		slog.Error("❌ Load failed", "error", err)
		os.Exit(1)
	}
}

func run(statType, file string, truncate bool) error {
	cfg := config.LoadConfig()

	st, err := registry.New().Get(statType)
	if err != nil {
		return err
	}

	in := os.Stdin
	if file != "" && file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.NewClient(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer dbClient.Close()
	slog.Info("✓ Connected to stats database", "driver", dbClient.Driver())

	if err := dbClient.Migrate(ctx); err != nil {
		return err
	}

	n, err := dbClient.LoadCSV(ctx, st.Table, in, db.LoadOptions{Truncate: truncate})
	if err != nil {
		return err
	}
	slog.Info("✓ Loaded rows", "table", st.Table, "rows", n, "truncated", truncate)

	if cfg.Redis.URL == "" {
		return nil
	}
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return err
	}
	redisClient := redis.NewClient(opts)
	defer redisClient.Close()

	if err := cache.NewCachedDB(dbClient, redisClient, cfg.Redis.CacheTTL).Invalidate(ctx); err != nil {
		// stale entries still expire on their TTL
		slog.Warn("⚠️  Failed to invalidate response cache", "error", err)
		return nil
	}
	slog.Info("✓ Response cache invalidated")
	return nil
}
