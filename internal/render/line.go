package render

import (
	"math"
	"slices"
	"strconv"
)

// LineMargin surrounds the line plot
var LineMargin = Margin{Top: 20, Right: 20, Bottom: 60, Left: 60}

// LineChart draws one monotone line per series with a marker per season.
// Seasons sit on a linear year axis, so a season missing from Years leaves
// a proportional gap. Non-positive values are treated as missing.
type LineChart struct {
	Series []Series
	Years  []int
	XLabel string
	YLabel string
}

// Kind implements Chart
func (LineChart) Kind() string { return KindLine }

// Layout implements Chart. Hovering any marker selects its season across all series.
func (c LineChart) Layout(size Size, hover string) Scene {
	size = size.orDefault()
	m := LineMargin
	bottom := size.Height - m.Bottom

	x := yearScale(c.Years, m.Left, size.Width-m.Right)
	y := NewLinear(0, maxValue(c.Series)*1.1, bottom, m.Top).Nice(10)
	base := y.Scale(0)
	pos := func(k string) (float64, bool) {
		year, err := strconv.Atoi(k)
		if err != nil || !slices.Contains(c.Years, year) {
			return 0, false
		}
		return x.Scale(float64(year)), true
	}

	hoverYear := ""
	if hover != "" {
		hoverYear = hoverSuffix(hover)
		if _, ok := pos(hoverYear); !ok {
			hoverYear = ""
		}
	}

	var scene Scene
	var ticks []Tick
	if len(c.Years) > 0 {
		for _, v := range x.Ticks(10) {
			if v != math.Trunc(v) {
				continue
			}
			k := strconv.Itoa(int(v))
			ticks = append(ticks, Tick{Key: k, Label: k, Pos: x.Scale(v)})
		}
	}
	scene.Add(xAxis(ticks, bottom, m.Left, size.Width-m.Right)...)
	scene.Add(yAxis(y, m.Left, m.Top, bottom)...)

	var markers []Node
	tipLines := []string{hoverYear}
	for i, s := range c.Series {
		color := Color(i)
		var pts, flat []Point
		for _, d := range s.Points {
			if d.Value <= 0 {
				continue
			}
			k := strconv.Itoa(d.Year)
			px, ok := pos(k)
			if !ok {
				continue
			}
			py := y.Scale(d.Value)
			pts = append(pts, Point{X: px, Y: py})
			flat = append(flat, Point{X: px, Y: base})

			r := "4"
			if k == hoverYear {
				r = "6"
				tipLines = append(tipLines, s.Name+": "+FormatValue(d.Value))
			}
			markers = append(markers, Node{
				Key:   "point:" + s.Name + ":" + k,
				Kind:  "circle",
				Layer: "points",
				Attrs: Attrs{"cx": num(px), "cy": num(py), "r": r, "fill": color, "stroke": "white", "stroke-width": "1.5"},
				Enter: Attrs{"r": "0"},
				Exit:  Attrs{"r": "0"},
			})
		}
		if len(pts) == 0 {
			continue
		}
		scene.Add(Node{
			Key:   "line:" + s.Name,
			Kind:  "path",
			Layer: "lines",
			Attrs: Attrs{"d": MonotoneX(pts), "fill": "none", "stroke": color, "stroke-width": "3", "opacity": "1"},
			Enter: Attrs{"d": MonotoneX(flat), "opacity": "0"},
			Exit:  Attrs{"opacity": "0"},
		})
	}

	if hoverYear != "" {
		gx, _ := pos(hoverYear)
		scene.Add(Node{
			Key:   "hover:guide",
			Kind:  "line",
			Layer: "hover",
			Attrs: Attrs{"x1": num(gx), "x2": num(gx), "y1": num(m.Top), "y2": num(bottom), "stroke": "#999", "stroke-dasharray": "4 2", "opacity": "1"},
			Exit:  fadeOut,
		})
	}
	scene.Add(markers...)
	scene.Add(legend(seriesNames(c.Series), size, m)...)
	scene.Add(axisTitles(size, m, c.XLabel, c.YLabel)...)
	if hoverYear != "" && len(tipLines) > 1 {
		gx, _ := pos(hoverYear)
		scene.Add(tooltip(gx, m.Top+40, tipLines, size, m)...)
	}
	return scene
}

// yearScale maps seasons linearly onto [r0, r1] over the span of years
func yearScale(years []int, r0, r1 float64) *Linear {
	if len(years) == 0 {
		return NewLinear(0, 0, r0, r1)
	}
	return NewLinear(float64(slices.Min(years)), float64(slices.Max(years)), r0, r1)
}
