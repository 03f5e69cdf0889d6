package session

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/planner"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/readiness"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/render"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/state"
	"github.com/XavierBriggs/fortuna/services/gridiron/pkg/models"
)

// Status lines shown in place of a chart
const (
	MsgLoadingScatter = "Loading scatter plot data..."
	MsgNoData         = "No data for the selected filters"
)

// View is what the browser shows for one AppState: either a status line
// or a titled chart
type View struct {
	Message string
	Loading bool
	Title   string
	Chart   render.Chart

	// Series and Scatter hold the data behind Chart for static export
	Series  []SeriesData
	Years   []int
	Scatter []models.ScatterPoint
	XLabel  string
	YLabel  string
}

// SeriesData is one player's filtered season values
type SeriesData struct {
	Player string
	Points []models.SeasonValue
}

// Ready reports whether the view carries a chart
func (v View) Ready() bool { return v.Chart != nil }

var titleCaser = cases.Title(language.Und)

// Label turns a column or enum name into display text: "receiving_yards" → "Receiving Yards"
func Label(name string) string {
	return titleCaser.String(strings.ReplaceAll(name, "_", " "))
}

// LoadingMessage lists the players whose series are being fetched
func LoadingMessage(players []string) string {
	return "Loading stats for " + strings.Join(players, ", ") + "..."
}

// Compose gates s, then either reports loading or builds the chart from
// the planner's snapshot. defaultStart and defaultEnd bound unset years.
func Compose(s state.AppState, snap planner.Snapshot, defaultStart, defaultEnd int) View {
	if msg, ready := readiness.NextStep(s); !ready {
		return View{Message: msg}
	}
	if s.ChartType == state.ChartScatter {
		return composeScatter(s, snap, defaultStart, defaultEnd)
	}
	return composeSeries(s, snap)
}

func composeScatter(s state.AppState, snap planner.Snapshot, defaultStart, defaultEnd int) View {
	if snap.ScatterStatus != planner.StatusReady {
		return View{Message: MsgLoadingScatter, Loading: true}
	}
	if len(snap.Scatter) == 0 {
		return View{Message: MsgNoData}
	}

	start, end := s.YearBounds(defaultStart, defaultEnd)
	agg := s.Aggregate
	if agg == "" {
		agg = state.AggregateAverage
	}
	v := View{
		Title: fmt.Sprintf("%s vs %s Scatter Plot (%s) - %d-%d",
			Label(s.PrimaryStat), Label(s.SecondaryStat), Label(string(agg)), start, end),
		Scatter: snap.Scatter,
		XLabel:  Label(s.PrimaryStat),
		YLabel:  Label(s.SecondaryStat),
	}
	points := make([]render.ScatterDatum, len(snap.Scatter))
	for i, p := range snap.Scatter {
		points[i] = render.ScatterDatum{Name: p.Player, X: p.Primary, Y: p.Secondary}
	}
	v.Chart = render.ScatterChart{Points: points, XLabel: v.XLabel, YLabel: v.YLabel}
	return v
}

func composeSeries(s state.AppState, snap planner.Snapshot) View {
	players := s.NonBlankPlayers()
	if snap.SeriesStatus != planner.StatusReady || !slices.Equal(snap.Players, players) {
		return View{Message: LoadingMessage(players), Loading: true}
	}
	if len(snap.Years) == 0 {
		return View{Message: MsgNoData}
	}

	stat := Label(s.PrimaryStat)
	v := View{
		Years:  snap.Years,
		XLabel: "Season",
		YLabel: stat,
	}
	if len(players) == 1 {
		v.Title = fmt.Sprintf("%s %s by Season", players[0], stat)
	} else {
		v.Title = fmt.Sprintf("Grouped %s by Season", stat)
	}

	series := make([]render.Series, len(players))
	for i, player := range players {
		points := snap.Series[player]
		v.Series = append(v.Series, SeriesData{Player: player, Points: points})
		data := make([]render.Datum, len(points))
		for j, p := range points {
			data[j] = render.Datum{Year: p.Season, Value: p.Value}
		}
		series[i] = render.Series{Name: player, Points: data}
	}

	if s.ChartType == state.ChartLine {
		v.Chart = render.LineChart{Series: series, Years: snap.Years, XLabel: v.XLabel, YLabel: v.YLabel}
	} else {
		v.Chart = render.BarChart{Series: series, Years: snap.Years, XLabel: v.XLabel, YLabel: v.YLabel}
	}
	return v
}
