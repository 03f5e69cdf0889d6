package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/planner"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/readiness"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/render"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/state"
	"github.com/XavierBriggs/fortuna/services/gridiron/pkg/models"
)

func barState(players ...string) state.AppState {
	s := state.Initial(2007, 2024, 50)
	s.ChartType = state.ChartBar
	s.StatType = state.StatReceiving
	s.PrimaryStat = "receiving_yards"
	s.Players = players
	return s
}

func readySeries(players ...string) planner.Snapshot {
	snap := planner.Snapshot{
		Players:      players,
		Series:       map[string][]models.SeasonValue{},
		Years:        []int{2020, 2021},
		SeriesStatus: planner.StatusReady,
	}
	for _, p := range players {
		snap.Series[p] = []models.SeasonValue{{Season: 2020, Value: 800}, {Season: 2021, Value: 950}}
	}
	return snap
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Receiving Yards", Label("receiving_yards"))
	assert.Equal(t, "Average", Label("average"))
	assert.Equal(t, "Yards", Label("yards"))
}

func TestCompose_GateComesFirst(t *testing.T) {
	s := state.Initial(2007, 2024, 50)
	v := Compose(s, planner.Snapshot{}, 2007, 2024)
	assert.Equal(t, readiness.MsgSelectChartType, v.Message)
	assert.False(t, v.Ready())
	assert.False(t, v.Loading)
}

func TestCompose_SeriesLoadingListsPlayers(t *testing.T) {
	s := barState("Player A", "", "Player B")
	v := Compose(s, planner.Snapshot{SeriesStatus: planner.StatusLoading}, 2007, 2024)
	assert.Equal(t, "Loading stats for Player A, Player B...", v.Message)
	assert.True(t, v.Loading)

	// data committed for a different player set is not shown
	v = Compose(s, readySeries("Player A"), 2007, 2024)
	assert.True(t, v.Loading)

	// a failed fetch stays in loading
	v = Compose(s, planner.Snapshot{SeriesStatus: planner.StatusFailed}, 2007, 2024)
	assert.True(t, v.Loading)
}

func TestCompose_SeriesTitles(t *testing.T) {
	v := Compose(barState("Player A"), readySeries("Player A"), 2007, 2024)
	require.True(t, v.Ready())
	assert.Equal(t, "Player A Receiving Yards by Season", v.Title)
	assert.Equal(t, render.KindBar, v.Chart.Kind())

	s := barState("Player A", "Player B")
	s.ChartType = state.ChartLine
	v = Compose(s, readySeries("Player A", "Player B"), 2007, 2024)
	require.True(t, v.Ready())
	assert.Equal(t, "Grouped Receiving Yards by Season", v.Title)
	assert.Equal(t, render.KindLine, v.Chart.Kind())

	line := v.Chart.(render.LineChart)
	require.Len(t, line.Series, 2)
	assert.Equal(t, "Player B", line.Series[1].Name)
	assert.Equal(t, []int{2020, 2021}, line.Years)
}

func TestCompose_EmptyWindowShowsNoData(t *testing.T) {
	snap := readySeries("Player A")
	snap.Years = nil
	v := Compose(barState("Player A"), snap, 2007, 2024)
	assert.Equal(t, MsgNoData, v.Message)
	assert.False(t, v.Ready())
}

func TestCompose_Scatter(t *testing.T) {
	s := state.Initial(2007, 2024, 50)
	s.ChartType = state.ChartScatter
	s.StatType = state.StatReceiving
	s.PrimaryStat = "yards"
	s.SecondaryStat = "touchdowns"

	v := Compose(s, planner.Snapshot{ScatterStatus: planner.StatusReady}, 2007, 2024)
	assert.Equal(t, readiness.MsgSelectAggregate, v.Message)

	s.Aggregate = state.AggregateTotal
	v = Compose(s, planner.Snapshot{ScatterStatus: planner.StatusLoading}, 2007, 2024)
	assert.Equal(t, MsgLoadingScatter, v.Message)

	start := 2015
	s.StartYear = &start
	snap := planner.Snapshot{
		ScatterStatus: planner.StatusReady,
		Scatter:       []models.ScatterPoint{{Player: "Player A", Primary: 1500, Secondary: 12}},
	}
	v = Compose(s, snap, 2007, 2024)
	require.True(t, v.Ready())
	assert.Equal(t, "Yards vs Touchdowns Scatter Plot (Total) - 2015-2024", v.Title)
	sc := v.Chart.(render.ScatterChart)
	assert.Equal(t, []render.ScatterDatum{{Name: "Player A", X: 1500, Y: 12}}, sc.Points)
	assert.Equal(t, "Yards", sc.XLabel)
}
