package render

// Margin around the plot area
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Tick is one labelled position on a category axis
type Tick struct {
	Key   string
	Label string
	Pos   float64
}

var fadeOut = Attrs{"opacity": "0"}

// xAxis draws a bottom axis at baseline spanning [x0, x1]
func xAxis(ticks []Tick, baseline, x0, x1 float64) []Node {
	nodes := []Node{{
		Key:   "axis-x:domain",
		Kind:  "line",
		Layer: "axis-x",
		Attrs: Attrs{"x1": num(x0), "x2": num(x1), "y1": num(baseline), "y2": num(baseline), "stroke": "#000"},
	}}
	for _, t := range ticks {
		nodes = append(nodes,
			Node{
				Key:   "axis-x:tick:" + t.Key,
				Kind:  "line",
				Layer: "axis-x",
				Attrs: Attrs{"x1": num(t.Pos), "x2": num(t.Pos), "y1": num(baseline), "y2": num(baseline + 6), "stroke": "#000", "opacity": "1"},
				Enter: fadeOut,
				Exit:  fadeOut,
			},
			Node{
				Key:   "axis-x:label:" + t.Key,
				Kind:  "text",
				Layer: "axis-x",
				Attrs: Attrs{"x": num(t.Pos), "y": num(baseline + 20), "text-anchor": "middle", "font-size": "10", "opacity": "1"},
				Text:  t.Label,
				Enter: fadeOut,
				Exit:  fadeOut,
			},
		)
	}
	return nodes
}

// yAxis draws a left axis for a linear scale at x = left between top and bottom
func yAxis(scale *Linear, left, top, bottom float64) []Node {
	nodes := []Node{{
		Key:   "axis-y:domain",
		Kind:  "line",
		Layer: "axis-y",
		Attrs: Attrs{"x1": num(left), "x2": num(left), "y1": num(top), "y2": num(bottom), "stroke": "#000"},
	}}
	for _, v := range scale.Ticks(10) {
		y := scale.Scale(v)
		label := FormatValue(v)
		nodes = append(nodes,
			Node{
				Key:   "axis-y:tick:" + label,
				Kind:  "line",
				Layer: "axis-y",
				Attrs: Attrs{"x1": num(left - 6), "x2": num(left), "y1": num(y), "y2": num(y), "stroke": "#000", "opacity": "1"},
				Enter: fadeOut,
				Exit:  fadeOut,
			},
			Node{
				Key:   "axis-y:label:" + label,
				Kind:  "text",
				Layer: "axis-y",
				Attrs: Attrs{"x": num(left - 9), "y": num(y + 3), "text-anchor": "end", "font-size": "10", "opacity": "1"},
				Text:  label,
				Enter: fadeOut,
				Exit:  fadeOut,
			},
		)
	}
	return nodes
}

// xLinearAxis draws a bottom axis for a linear scale
func xLinearAxis(scale *Linear, baseline, x0, x1 float64) []Node {
	var ticks []Tick
	for _, v := range scale.Ticks(10) {
		label := FormatValue(v)
		ticks = append(ticks, Tick{Key: label, Label: label, Pos: scale.Scale(v)})
	}
	return xAxis(ticks, baseline, x0, x1)
}

// axisTitles places the axis captions below the x axis and left of the y axis
func axisTitles(size Size, m Margin, xLabel, yLabel string) []Node {
	plotMid := m.Top + (size.Height-m.Top-m.Bottom)/2
	return []Node{
		{
			Key:   "axis-title:x",
			Kind:  "text",
			Layer: "axis-title",
			Attrs: Attrs{"x": num(m.Left + (size.Width-m.Left-m.Right)/2), "y": num(size.Height - m.Bottom/4), "text-anchor": "middle", "font-size": "14"},
			Text:  xLabel,
		},
		{
			Key:   "axis-title:y",
			Kind:  "text",
			Layer: "axis-title",
			Attrs: Attrs{"x": num(-plotMid), "y": num(m.Left / 4), "transform": "rotate(-90)", "text-anchor": "middle", "font-size": "14"},
			Text:  yLabel,
		},
	}
}

// legend lists series names with their palette swatches in the top right
func legend(names []string, size Size, m Margin) []Node {
	x := size.Width - m.Right - 100
	var nodes []Node
	for i, name := range names {
		y := m.Top + float64(i)*20
		nodes = append(nodes,
			Node{
				Key:   "legend:swatch:" + name,
				Kind:  "rect",
				Layer: "legend",
				Attrs: Attrs{"x": num(x), "y": num(y), "width": "15", "height": "15", "fill": Color(i), "opacity": "1"},
				Enter: fadeOut,
				Exit:  fadeOut,
			},
			Node{
				Key:   "legend:text:" + name,
				Kind:  "text",
				Layer: "legend",
				Attrs: Attrs{"x": num(x + 20), "y": num(y + 12), "font-size": "12", "opacity": "1"},
				Text:  name,
				Enter: fadeOut,
				Exit:  fadeOut,
			},
		)
	}
	return nodes
}
