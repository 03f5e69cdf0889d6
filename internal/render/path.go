package render

import (
	"math"
	"strings"
)

// Point is a position in screen space
type Point struct {
	X, Y float64
}

// MonotoneX returns an SVG path through pts using cubic segments that
// preserve monotonicity in y, assuming pts are ordered by x
func MonotoneX(pts []Point) string {
	var b strings.Builder
	switch len(pts) {
	case 0:
		return ""
	case 1:
		b.WriteString("M" + num(pts[0].X) + "," + num(pts[0].Y) + "Z")
		return b.String()
	case 2:
		b.WriteString("M" + num(pts[0].X) + "," + num(pts[0].Y))
		b.WriteString("L" + num(pts[1].X) + "," + num(pts[1].Y))
		return b.String()
	}

	n := len(pts)
	tangents := make([]float64, n)
	for i := 1; i < n-1; i++ {
		tangents[i] = interiorSlope(pts[i-1], pts[i], pts[i+1])
	}
	tangents[0] = endSlope(pts[0], pts[1], tangents[1])
	tangents[n-1] = endSlope(pts[n-2], pts[n-1], tangents[n-2])

	b.WriteString("M" + num(pts[0].X) + "," + num(pts[0].Y))
	for i := 0; i < n-1; i++ {
		p0, p1 := pts[i], pts[i+1]
		dx := (p1.X - p0.X) / 3
		b.WriteString("C" +
			num(p0.X+dx) + "," + num(p0.Y+dx*tangents[i]) + "," +
			num(p1.X-dx) + "," + num(p1.Y-dx*tangents[i+1]) + "," +
			num(p1.X) + "," + num(p1.Y))
	}
	return b.String()
}

// interiorSlope is the Fritsch-Carlson tangent at p1 (Steffen's variant)
func interiorSlope(p0, p1, p2 Point) float64 {
	h0 := p1.X - p0.X
	h1 := p2.X - p1.X
	if h0 == 0 || h1 == 0 || h0+h1 == 0 {
		return 0
	}
	s0 := (p1.Y - p0.Y) / h0
	s1 := (p2.Y - p1.Y) / h1
	p := (s0*h1 + s1*h0) / (h0 + h1)
	t := (sign(s0) + sign(s1)) * math.Min(math.Min(math.Abs(s0), math.Abs(s1)), 0.5*math.Abs(p))
	if math.IsNaN(t) {
		return 0
	}
	return t
}

// endSlope is the one-sided tangent at an end point given its neighbour's tangent
func endSlope(p0, p1 Point, t float64) float64 {
	h := p1.X - p0.X
	if h == 0 {
		return t
	}
	return (3*(p1.Y-p0.Y)/h - t) / 2
}

func sign(v float64) float64 {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
