// Package export renders chart data to static PNG images with go-chart.
// The interactive renderers stream scene frames; these images back the
// download links and the season summary chart.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/XavierBriggs/fortuna/services/gridiron/pkg/models"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when there is nothing to draw
var ErrNoData = errors.New("no chart data")

const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Series is one named track of season values
type Series struct {
	Name   string
	Points []models.SeasonValue
}

// Options holds the shared labels and size of an exported chart
type Options struct {
	Title  string
	XLabel string
	YLabel string
	Width  int
	Height int
	Colors []string
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

func (o Options) color(i int) drawing.Color {
	if len(o.Colors) == 0 {
		return chart.GetDefaultColor(i)
	}
	return parseColor(o.Colors[i%len(o.Colors)])
}

var namedColors = map[string]string{
	"steelblue": "4682b4",
	"black":     "000000",
	"white":     "ffffff",
}

func parseColor(c string) drawing.Color {
	if hex, ok := namedColors[strings.ToLower(c)]; ok {
		return drawing.ColorFromHex(hex)
	}
	return drawing.ColorFromHex(strings.TrimPrefix(c, "#"))
}

// LinePNG draws one line per series over the season axis
func LinePNG(w io.Writer, series []Series, opts Options) error {
	minYear, maxYear, maxValue, ok := extent(series)
	if !ok {
		return ErrNoData
	}

	chartSeries := make([]chart.Series, 0, len(series))
	for i, s := range series {
		xs := make([]float64, 0, len(s.Points))
		ys := make([]float64, 0, len(s.Points))
		for _, p := range s.Points {
			xs = append(xs, float64(p.Season))
			ys = append(ys, p.Value)
		}
		if len(xs) == 0 {
			continue
		}
		col := opts.color(i)
		chartSeries = append(chartSeries, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 3,
				DotColor:    col,
				DotWidth:    4,
			},
		})
	}

	width, height := opts.size()
	ch := chart.Chart{
		Title:      opts.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 24}},
		XAxis:      yearAxis(opts.XLabel, minYear, maxYear),
		YAxis: chart.YAxis{
			Name:  opts.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: headroom(maxValue)},
		},
		Series: chartSeries,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render line chart: %w", err)
	}
	return nil
}

// BarPNG draws grouped bars, year-major, coloured by series index.
// go-chart has no grouped layout, so each group is a run of adjacent bars
// labelled once with its year.
func BarPNG(w io.Writer, series []Series, years []int, opts Options) error {
	_, _, maxValue, ok := extent(series)
	if !ok {
		return ErrNoData
	}

	values := make([]chart.Value, 0, len(years)*len(series))
	for _, year := range years {
		label := fmt.Sprintf("%d", year)
		for i, s := range series {
			v, found := valueAt(s.Points, year)
			if !found {
				continue
			}
			values = append(values, chart.Value{
				Label: label,
				Value: v,
				Style: chart.Style{FillColor: opts.color(i), StrokeColor: opts.color(i)},
			})
			label = ""
		}
	}
	if len(values) == 0 {
		return ErrNoData
	}

	width, height := opts.size()
	barWidth := (width-120)/len(values) - 2
	if barWidth < 2 {
		barWidth = 2
	}
	bc := chart.BarChart{
		Title:      opts.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		BarWidth:   barWidth,
		BarSpacing: 2,
		YAxis: chart.YAxis{
			Name:  opts.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: headroom(maxValue)},
		},
		Bars: values,
	}

	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

// ScatterPNG draws one dot per player
func ScatterPNG(w io.Writer, points []models.ScatterPoint, opts Options) error {
	if len(points) == 0 {
		return ErrNoData
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, p := range points {
		xs[i], ys[i] = p.Primary, p.Secondary
		minX, maxX = math.Min(minX, p.Primary), math.Max(maxX, p.Primary)
		minY, maxY = math.Min(minY, p.Secondary), math.Max(maxY, p.Secondary)
	}

	width, height := opts.size()
	col := opts.color(0)
	ch := chart.Chart{
		Title:      opts.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 24}},
		XAxis: chart.XAxis{
			Name:  opts.XLabel,
			Range: paddedRange(minX, maxX),
		},
		YAxis: chart.YAxis{
			Name:  opts.YLabel,
			Range: paddedRange(minY, maxY),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    6,
					DotColor:    col.WithAlpha(180),
				},
			},
		},
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render scatter chart: %w", err)
	}
	return nil
}

func extent(series []Series) (minYear, maxYear int, maxValue float64, ok bool) {
	minYear, maxYear = math.MaxInt, math.MinInt
	for _, s := range series {
		for _, p := range s.Points {
			ok = true
			if p.Season < minYear {
				minYear = p.Season
			}
			if p.Season > maxYear {
				maxYear = p.Season
			}
			maxValue = math.Max(maxValue, p.Value)
		}
	}
	return minYear, maxYear, maxValue, ok
}

func valueAt(points []models.SeasonValue, year int) (float64, bool) {
	for _, p := range points {
		if p.Season == year {
			return p.Value, true
		}
	}
	return 0, false
}

func yearAxis(name string, minYear, maxYear int) chart.XAxis {
	lo, hi := float64(minYear), float64(maxYear)
	if hi <= lo {
		lo, hi = lo-1, hi+1
	}
	ticks := make([]chart.Tick, 0, int(hi-lo)+1)
	for y := int(lo); y <= int(hi); y++ {
		ticks = append(ticks, chart.Tick{Value: float64(y), Label: fmt.Sprintf("%d", y)})
	}
	return chart.XAxis{
		Name:  name,
		Range: &chart.ContinuousRange{Min: lo, Max: hi},
		Ticks: ticks,
	}
}

// headroom leaves 10% above the data maximum
func headroom(max float64) float64 {
	if max <= 0 {
		return 1
	}
	return max * 1.1
}

func paddedRange(min, max float64) *chart.ContinuousRange {
	pad := (max - min) * 0.1
	lo := math.Max(0, min-pad)
	hi := max * 1.05
	if hi <= lo {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

// LeaderboardPNG draws one labelled bar per player using the primary value
func LeaderboardPNG(w io.Writer, leaders []models.ScatterPoint, opts Options) error {
	if len(leaders) == 0 {
		return ErrNoData
	}

	values := make([]chart.Value, len(leaders))
	maxValue := 0.0
	for i, p := range leaders {
		values[i] = chart.Value{
			Label: lastName(p.Player),
			Value: p.Primary,
			Style: chart.Style{FillColor: opts.color(0), StrokeColor: opts.color(0)},
		}
		maxValue = math.Max(maxValue, p.Primary)
	}

	width, height := opts.size()
	bc := chart.BarChart{
		Title:      opts.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		BarWidth:   (width-120)/len(values) - 10,
		BarSpacing: 10,
		YAxis: chart.YAxis{
			Name:  opts.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: headroom(maxValue)},
		},
		Bars: values,
	}

	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render leaderboard: %w", err)
	}
	return nil
}

func lastName(player string) string {
	fields := strings.Fields(player)
	if len(fields) == 0 {
		return player
	}
	return fields[len(fields)-1]
}
