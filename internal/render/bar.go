package render

import (
	"math"
	"strconv"
)

// BarMargin surrounds the grouped bar plot
var BarMargin = Margin{Top: 20, Right: 20, Bottom: 60, Left: 60}

// BarChart draws one group per year with one bar per series
type BarChart struct {
	Series []Series
	Years  []int
	XLabel string
	YLabel string
}

// Kind implements Chart
func (BarChart) Kind() string { return KindBar }

// Layout implements Chart
func (c BarChart) Layout(size Size, _ string) Scene {
	size = size.orDefault()
	m := BarMargin
	bottom := size.Height - m.Bottom

	x0 := NewBand(yearKeys(c.Years), m.Left, size.Width-m.Right).Padding(0.1)
	x1 := NewBand(seriesNames(c.Series), 0, x0.Bandwidth()).Padding(0.05)
	y := NewLinear(0, maxValue(c.Series)*1.1, bottom, m.Top).Nice(10)
	base := y.Scale(0)

	var scene Scene
	ticks := make([]Tick, 0, len(c.Years))
	for _, year := range c.Years {
		k := strconv.Itoa(year)
		pos, _ := x0.Pos(k)
		ticks = append(ticks, Tick{Key: k, Label: k, Pos: pos + x0.Bandwidth()/2})
	}
	scene.Add(xAxis(ticks, bottom, m.Left, size.Width-m.Right)...)
	scene.Add(yAxis(y, m.Left, m.Top, bottom)...)

	var labels []Node
	for i, s := range c.Series {
		sub, _ := x1.Pos(s.Name)
		for _, d := range s.Points {
			group, ok := x0.Pos(strconv.Itoa(d.Year))
			if !ok {
				continue
			}
			cell := strconv.Itoa(d.Year) + ":" + s.Name
			bx := group + sub
			top := y.Scale(d.Value)
			scene.Add(Node{
				Key:   "bar:" + cell,
				Kind:  "rect",
				Layer: "bars",
				Attrs: Attrs{
					"x":      num(bx),
					"y":      num(top),
					"width":  num(x1.Bandwidth()),
					"height": num(math.Max(0, base-top)),
					"fill":   Color(i),
				},
				Enter: Attrs{"y": num(base), "height": "0"},
				Exit:  Attrs{"y": num(base), "height": "0"},
			})
			labels = append(labels, Node{
				Key:   "bar-label:" + cell,
				Kind:  "text",
				Layer: "labels",
				Attrs: Attrs{
					"x":           num(bx + x1.Bandwidth()/2),
					"y":           num(math.Max(top-5, m.Top+12)),
					"text-anchor": "middle",
					"font-size":   "10",
					"opacity":     "1",
				},
				Text:  FormatValue(d.Value),
				Enter: Attrs{"y": num(base), "opacity": "0"},
				Exit:  Attrs{"y": num(base), "opacity": "0"},
			})
		}
	}
	scene.Add(labels...)
	scene.Add(legend(seriesNames(c.Series), size, m)...)
	scene.Add(axisTitles(size, m, c.XLabel, c.YLabel)...)
	return scene
}
