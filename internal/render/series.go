package render

import (
	"math"
	"strconv"
	"strings"
)

// Datum is one season value of a series
type Datum struct {
	Year  int
	Value float64
}

// Series is one named track of a bar or line chart
type Series struct {
	Name   string
	Points []Datum
}

// Chart kinds
const (
	KindBar     = "bar"
	KindLine    = "line"
	KindScatter = "scatter"
)

func yearKeys(years []int) []string {
	keys := make([]string, len(years))
	for i, y := range years {
		keys[i] = strconv.Itoa(y)
	}
	return keys
}

func seriesNames(series []Series) []string {
	names := make([]string, len(series))
	for i, s := range series {
		names[i] = s.Name
	}
	return names
}

// maxValue returns the largest value across series, or 1 when there is none
func maxValue(series []Series) float64 {
	m := 0.0
	for _, s := range series {
		for _, d := range s.Points {
			m = math.Max(m, d.Value)
		}
	}
	if m <= 0 {
		return 1
	}
	return m
}

// tooltip draws a boxed multi-line note next to (x, y), flipped left when it
// would overflow the plot area
func tooltip(x, y float64, lines []string, size Size, m Margin) []Node {
	const width, lineHeight = 170.0, 16.0
	height := lineHeight*float64(len(lines)) + 8
	left := x + 10
	if left+width > size.Width-m.Right {
		left = x - 10 - width
	}
	top := math.Max(m.Top, y-height/2)
	return []Node{
		{
			Key:   "hover:box",
			Kind:  "rect",
			Layer: "hover",
			Attrs: Attrs{"x": num(left), "y": num(top), "width": num(width), "height": num(height), "fill": "white", "stroke": "#ccc", "rx": "4", "opacity": "0.95"},
			Exit:  fadeOut,
		},
		{
			Key:   "hover:text",
			Kind:  "text",
			Layer: "hover",
			Attrs: Attrs{"x": num(left + 8), "y": num(top + lineHeight), "font-size": "12", "line-height": num(lineHeight), "opacity": "1"},
			Text:  strings.Join(lines, "\n"),
			Exit:  fadeOut,
		},
	}
}

// hoverSuffix returns the part of a node key after its last colon
func hoverSuffix(key string) string {
	if i := strings.LastIndexByte(key, ':'); i >= 0 {
		return key[i+1:]
	}
	return key
}
