package db_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/db"
	"github.com/XavierBriggs/fortuna/services/gridiron/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const receivingCSV = `Player,Team,Position,Season,Age,Games,Targets,Receptions,Yards,Touchdowns,Yards Per Reception
Player A,KC,WR,2020,25,16,120,90,1200,10,13.3
Player A,KC,WR,2021,26,17,130,95,1300,11,13.7
Player B,BUF,WR,2021,24,17,110,80,900,6,11.25
Player B,MIA,WR,2021,24,4,20,12,150,1,12.5
Player B,BUF,WR,2022,25,17,140,100,1500,12,15
Player C,DET,TE,2022,28,15,60,40,400,2,10
Player D,NYJ,WR,2022,22,3,5,0,0,0,NA
`

func newTestClient(t *testing.T) *db.Client {
	t.Helper()

	client, err := db.NewClient("sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	require.NoError(t, client.Migrate(ctx))

	n, err := client.LoadCSV(ctx, "receiving_stats", strings.NewReader(receivingCSV), db.LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 7, n)

	return client
}

func intPtr(v int) *int { return &v }

func TestNewClient_UnsupportedDriver(t *testing.T) {
	_, err := db.NewClient("mysql", "whatever")
	require.Error(t, err)
}

func TestNumericColumns(t *testing.T) {
	client := newTestClient(t)

	cols, err := client.NumericColumns(context.Background(), "receiving_stats")
	require.NoError(t, err)

	assert.Contains(t, cols, "yards")
	assert.Contains(t, cols, "touchdowns")
	assert.Contains(t, cols, "yards_per_reception")
	assert.NotContains(t, cols, "season")
	assert.NotContains(t, cols, "age")
	assert.NotContains(t, cols, "id")
	assert.NotContains(t, cols, "player")
}

func TestNumericColumns_UnknownTable(t *testing.T) {
	client := newTestClient(t)

	_, err := client.NumericColumns(context.Background(), "kicking_stats")
	require.Error(t, err)
	assert.True(t, errors.Is(err, db.ErrUnknownTable))
}

func TestPlayerSeries_MaxPerSeason(t *testing.T) {
	client := newTestClient(t)

	series, err := client.PlayerSeries(context.Background(), "receiving_stats", "Player B", "yards")
	require.NoError(t, err)

	require.Len(t, series, 2)
	assert.Equal(t, models.SeasonValue{Season: 2021, Value: 900}, series[0])
	assert.Equal(t, models.SeasonValue{Season: 2022, Value: 1500}, series[1])
}

func TestPlayerSeries_InvalidStat(t *testing.T) {
	client := newTestClient(t)

	_, err := client.PlayerSeries(context.Background(), "receiving_stats", "Player A", "yards; DROP TABLE receiving_stats")
	require.Error(t, err)
	assert.True(t, errors.Is(err, db.ErrInvalidStat))

	_, err = client.PlayerSeries(context.Background(), "receiving_stats", "Player A", "season")
	assert.True(t, errors.Is(err, db.ErrInvalidStat))
}

func TestSearchPlayers(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	rows, err := client.SearchPlayers(ctx, "receiving_stats", models.PlayerQuery{Stat: "yards", Limit: 20})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Player B", rows[0].Player) // 2550 total
	assert.Equal(t, "Player A", rows[1].Player) // 2500 total
	assert.Equal(t, "Player C", rows[2].Player)

	// year window
	rows, err = client.SearchPlayers(ctx, "receiving_stats", models.PlayerQuery{
		Stat: "yards", StartYear: intPtr(2022), EndYear: intPtr(2022), Limit: 20,
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Player B", rows[0].Player)

	// substring, case-insensitive, paged
	rows, err = client.SearchPlayers(ctx, "receiving_stats", models.PlayerQuery{Query: "PLAYER", Stat: "touchdowns", Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Player C", rows[0].Player)

	// inverted range degrades to an empty result
	rows, err = client.SearchPlayers(ctx, "receiving_stats", models.PlayerQuery{
		Stat: "yards", StartYear: intPtr(2022), EndYear: intPtr(2020), Limit: 20,
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestScatter(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	points, err := client.Scatter(ctx, "receiving_stats", models.ScatterQuery{
		PrimaryStat:   "yards",
		SecondaryStat: "touchdowns",
		Aggregate:     models.AggregateTotal,
		Limit:         50,
	})
	require.NoError(t, err)

	// Player D has no positive totals and is excluded
	require.Len(t, points, 3)
	assert.Equal(t, "Player B", points[0].Player)
	assert.Equal(t, 2550.0, points[0].Primary)
	assert.Equal(t, 19.0, points[0].Secondary)

	points, err = client.Scatter(ctx, "receiving_stats", models.ScatterQuery{
		PrimaryStat:   "yards",
		SecondaryStat: "touchdowns",
		StartYear:     intPtr(2020),
		EndYear:       intPtr(2021),
		Aggregate:     models.AggregateAverage,
		Limit:         1,
	})
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, "Player A", points[0].Player)
	assert.InDelta(t, 1250.0, points[0].Primary, 0.001)
	assert.InDelta(t, 10.5, points[0].Secondary, 0.001)
}

func TestSeasonRows(t *testing.T) {
	client := newTestClient(t)

	rows, err := client.SeasonRows(context.Background(), "receiving_stats", intPtr(2020))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Player A", rows[0]["player"])

	rows, err = client.SeasonRows(context.Background(), "receiving_stats", nil)
	require.NoError(t, err)
	assert.Len(t, rows, 7)
}

func TestLoadCSV_Truncate(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	n, err := client.LoadCSV(ctx, "receiving_stats", strings.NewReader("player,season,yards\nPlayer Z,2023,700\n"), db.LoadOptions{Truncate: true})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := client.SeasonRows(ctx, "receiving_stats", nil)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestLoadCSV_BadNumber(t *testing.T) {
	client := newTestClient(t)

	_, err := client.LoadCSV(context.Background(), "receiving_stats", strings.NewReader("player,season,yards\nPlayer Z,2023,lots\n"), db.LoadOptions{})
	require.Error(t, err)

	// failed load leaves the table untouched
	rows, err := client.SeasonRows(context.Background(), "receiving_stats", nil)
	require.NoError(t, err)
	assert.Len(t, rows, 7)
}
