package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/cache"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/db"
	"github.com/XavierBriggs/fortuna/services/gridiron/pkg/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingDB is a StatsDB that records how often each query reaches it
type countingDB struct {
	db.StatsDB
	seriesCalls  int
	scatterCalls int
	columnCalls  int
	err          error
}

func (c *countingDB) PlayerSeries(ctx context.Context, table, player, stat string) ([]models.SeasonValue, error) {
	c.seriesCalls++
	if c.err != nil {
		return nil, c.err
	}
	return []models.SeasonValue{{Season: 2020, Value: 1000}, {Season: 2021, Value: 1100}}, nil
}

func (c *countingDB) Scatter(ctx context.Context, table string, q models.ScatterQuery) ([]models.ScatterPoint, error) {
	c.scatterCalls++
	return []models.ScatterPoint{{Player: "Player A", Primary: 1200, Secondary: 10}}, nil
}

func (c *countingDB) NumericColumns(ctx context.Context, table string) ([]string, error) {
	c.columnCalls++
	return []string{"yards", "touchdowns"}, nil
}

func setup(t *testing.T) (*cache.CachedDB, *countingDB, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	inner := &countingDB{}
	return cache.NewCachedDB(inner, client, time.Minute), inner, mr
}

func TestPlayerSeries_ReadThrough(t *testing.T) {
	cached, inner, _ := setup(t)
	ctx := context.Background()

	first, err := cached.PlayerSeries(ctx, "receiving_stats", "Player A", "yards")
	require.NoError(t, err)
	second, err := cached.PlayerSeries(ctx, "receiving_stats", "Player A", "yards")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.seriesCalls)

	// a different stat is a different key
	_, err = cached.PlayerSeries(ctx, "receiving_stats", "Player A", "touchdowns")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.seriesCalls)
}

// exactNameDB only knows "Player A", matching the case-sensitive store query
type exactNameDB struct {
	db.StatsDB
}

func (exactNameDB) PlayerSeries(ctx context.Context, table, player, stat string) ([]models.SeasonValue, error) {
	if player != "Player A" {
		return []models.SeasonValue{}, nil
	}
	return []models.SeasonValue{{Season: 2020, Value: 1000}}, nil
}

func TestPlayerSeries_KeyKeepsNameCase(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	cached := cache.NewCachedDB(exactNameDB{}, client, time.Minute)
	ctx := context.Background()

	miss, err := cached.PlayerSeries(ctx, "receiving_stats", "player a", "yards")
	require.NoError(t, err)
	assert.Empty(t, miss)

	hit, err := cached.PlayerSeries(ctx, "receiving_stats", "Player A", "yards")
	require.NoError(t, err)
	assert.Equal(t, []models.SeasonValue{{Season: 2020, Value: 1000}}, hit)
}

func TestPlayerSeries_ErrorsAreNotCached(t *testing.T) {
	cached, inner, _ := setup(t)
	inner.err = errors.New("boom")

	_, err := cached.PlayerSeries(context.Background(), "receiving_stats", "Player A", "yards")
	require.Error(t, err)

	inner.err = nil
	series, err := cached.PlayerSeries(context.Background(), "receiving_stats", "Player A", "yards")
	require.NoError(t, err)
	assert.Len(t, series, 2)
	assert.Equal(t, 2, inner.seriesCalls)
}

func TestScatter_KeyIncludesYears(t *testing.T) {
	cached, inner, _ := setup(t)
	ctx := context.Background()
	start := 2020

	q := models.ScatterQuery{PrimaryStat: "yards", SecondaryStat: "touchdowns", Aggregate: "average", Limit: 50}
	_, err := cached.Scatter(ctx, "receiving_stats", q)
	require.NoError(t, err)

	q.StartYear = &start
	_, err = cached.Scatter(ctx, "receiving_stats", q)
	require.NoError(t, err)
	_, err = cached.Scatter(ctx, "receiving_stats", q)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.scatterCalls)
}

func TestTTLExpiry(t *testing.T) {
	cached, inner, mr := setup(t)
	ctx := context.Background()

	_, err := cached.NumericColumns(ctx, "receiving_stats")
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = cached.NumericColumns(ctx, "receiving_stats")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.columnCalls)
}

func TestRedisDown_FallsBackToDatabase(t *testing.T) {
	cached, inner, mr := setup(t)
	mr.Close()

	cols, err := cached.NumericColumns(context.Background(), "receiving_stats")
	require.NoError(t, err)
	assert.Equal(t, []string{"yards", "touchdowns"}, cols)
	assert.Equal(t, 1, inner.columnCalls)
}

func TestInvalidate(t *testing.T) {
	cached, inner, mr := setup(t)
	ctx := context.Background()

	_, err := cached.NumericColumns(ctx, "receiving_stats")
	require.NoError(t, err)
	require.True(t, mr.Exists("gridiron:columns:receiving_stats"))

	require.NoError(t, cached.Invalidate(ctx))
	assert.False(t, mr.Exists("gridiron:columns:receiving_stats"))

	_, err = cached.NumericColumns(ctx, "receiving_stats")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.columnCalls)
}
