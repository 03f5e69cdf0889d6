package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/db"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/gridiron/pkg/models"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL applies when a zero TTL is configured
const DefaultTTL = 10 * time.Minute

// CachedDB is a read-through Redis cache in front of a StatsDB.
// Cache failures are logged and fall through to the database.
type CachedDB struct {
	db.StatsDB
	client *redis.Client
	ttl    time.Duration
}

// NewCachedDB wraps inner with a Redis read-through cache
func NewCachedDB(inner db.StatsDB, client *redis.Client, ttl time.Duration) *CachedDB {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedDB{
		StatsDB: inner,
		client:  client,
		ttl:     ttl,
	}
}

// NumericColumns returns the cached column list for table
func (c *CachedDB) NumericColumns(ctx context.Context, table string) ([]string, error) {
	key := fmt.Sprintf("gridiron:columns:%s", table)
	var cols []string
	err := c.readThrough(ctx, "columns", key, &cols, func() (interface{}, error) {
		return c.StatsDB.NumericColumns(ctx, table)
	})
	return cols, err
}

// PlayerSeries returns the cached per-season series for a player
func (c *CachedDB) PlayerSeries(ctx context.Context, table, player, stat string) ([]models.SeasonValue, error) {
	key := fmt.Sprintf("gridiron:series:%s:%s:%s", table, stat, player)
	var series []models.SeasonValue
	err := c.readThrough(ctx, "series", key, &series, func() (interface{}, error) {
		return c.StatsDB.PlayerSeries(ctx, table, player, stat)
	})
	return series, err
}

// Scatter returns the cached scatter aggregate for the full parameter tuple
func (c *CachedDB) Scatter(ctx context.Context, table string, q models.ScatterQuery) ([]models.ScatterPoint, error) {
	key := fmt.Sprintf("gridiron:scatter:%s:%s:%s:%s:%s:%s:%d",
		table, q.PrimaryStat, q.SecondaryStat, yearKey(q.StartYear), yearKey(q.EndYear), q.Aggregate, q.Limit)
	var points []models.ScatterPoint
	err := c.readThrough(ctx, "scatter", key, &points, func() (interface{}, error) {
		return c.StatsDB.Scatter(ctx, table, q)
	})
	return points, err
}

// Invalidate removes every cached response, used after a data load
func (c *CachedDB) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "gridiron:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// readThrough decodes key into dest, or calls load and stores its result
func (c *CachedDB) readThrough(ctx context.Context, kind, key string, dest interface{}, load func() (interface{}, error)) error {
	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(data, dest); jsonErr == nil {
			metrics.CacheLookups.WithLabelValues(kind, "hit").Inc()
			return nil
		}
		slog.Warn("discarding undecodable cache entry", "key", key)
		metrics.CacheLookups.WithLabelValues(kind, "error").Inc()
	case errors.Is(err, redis.Nil):
		metrics.CacheLookups.WithLabelValues(kind, "miss").Inc()
	default:
		slog.Warn("cache read failed, falling back to database", "key", key, "error", err)
		metrics.CacheLookups.WithLabelValues(kind, "error").Inc()
	}

	value, err := load()
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", kind, err)
	}
	if err := c.client.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}

	return json.Unmarshal(encoded, dest)
}

func yearKey(year *int) string {
	if year == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *year)
}
