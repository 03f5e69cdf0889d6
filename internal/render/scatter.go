package render

import "math"

// ScatterMargin surrounds the scatter plot
var ScatterMargin = Margin{Top: 20, Right: 20, Bottom: 80, Left: 80}

// ScatterDatum is one player's aggregated pair of stats
type ScatterDatum struct {
	Name string
	X    float64
	Y    float64
}

// ScatterChart draws one labelled point per player
type ScatterChart struct {
	Points []ScatterDatum
	XLabel string
	YLabel string
}

// Kind implements Chart
func (ScatterChart) Kind() string { return KindScatter }

// scatterDomain pads the observed range by 10% below, floored at zero, and 5% above
func scatterDomain(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 1
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	lo = math.Max(0, lo-(hi-lo)*0.1)
	hi *= 1.05
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

// Layout implements Chart. hover is the key of the point under the pointer.
func (c ScatterChart) Layout(size Size, hover string) Scene {
	size = size.orDefault()
	m := ScatterMargin
	bottom := size.Height - m.Bottom

	xs := make([]float64, len(c.Points))
	ys := make([]float64, len(c.Points))
	for i, p := range c.Points {
		xs[i], ys[i] = p.X, p.Y
	}
	x0, x1 := scatterDomain(xs)
	y0, y1 := scatterDomain(ys)
	x := NewLinear(x0, x1, m.Left, size.Width-m.Right).Nice(10)
	y := NewLinear(y0, y1, bottom, m.Top).Nice(10)

	var scene Scene
	scene.Add(xLinearAxis(x, bottom, m.Left, size.Width-m.Right)...)
	scene.Add(yAxis(y, m.Left, m.Top, bottom)...)

	hovered := hoverSuffix(hover)
	var labels []Node
	var tip []Node
	for _, p := range c.Points {
		cx, cy := x.Scale(p.X), y.Scale(p.Y)
		r, opacity := "6", "0.7"
		if hover != "" && p.Name == hovered {
			r, opacity = "8", "1"
			tip = tooltip(cx, cy, []string{
				p.Name,
				c.XLabel + ": " + FormatValue(p.X),
				c.YLabel + ": " + FormatValue(p.Y),
			}, size, m)
		}
		scene.Add(Node{
			Key:   "dot:" + p.Name,
			Kind:  "circle",
			Layer: "points",
			Attrs: Attrs{"cx": num(cx), "cy": num(cy), "r": r, "fill": Color(0), "stroke": "#fff", "opacity": opacity},
			Enter: Attrs{"r": "0", "opacity": "0"},
			Exit:  Attrs{"r": "0", "opacity": "0"},
		})
		labels = append(labels, Node{
			Key:   "dot-label:" + p.Name,
			Kind:  "text",
			Layer: "labels",
			Attrs: Attrs{"x": num(cx), "y": num(cy - 10), "text-anchor": "middle", "font-size": "10", "opacity": "1"},
			Text:  p.Name,
			Enter: fadeOut,
			Exit:  fadeOut,
		})
	}
	scene.Add(labels...)
	scene.Add(axisTitles(size, m, c.XLabel, c.YLabel)...)
	scene.Add(tip...)
	return scene
}
