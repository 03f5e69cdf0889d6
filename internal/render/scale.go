package render

import "math"

// Band maps ordinal categories to evenly spaced bands of a continuous range
type Band struct {
	domain       []string
	index        map[string]int
	r0, r1       float64
	paddingInner float64
	paddingOuter float64
	align        float64

	step      float64
	start     float64
	bandwidth float64
}

// NewBand returns a band scale over domain with no padding
func NewBand(domain []string, r0, r1 float64) *Band {
	b := &Band{
		domain: append([]string(nil), domain...),
		index:  make(map[string]int, len(domain)),
		r0:     r0,
		r1:     r1,
		align:  0.5,
	}
	for i, d := range b.domain {
		if _, dup := b.index[d]; !dup {
			b.index[d] = i
		}
	}
	b.rescale()
	return b
}

// Padding sets both inner and outer padding
func (b *Band) Padding(p float64) *Band {
	b.paddingInner = math.Min(1, p)
	b.paddingOuter = p
	b.rescale()
	return b
}

// PaddingInner sets the gap between bands as a fraction of the step
func (b *Band) PaddingInner(p float64) *Band {
	b.paddingInner = math.Min(1, p)
	b.rescale()
	return b
}

// PaddingOuter sets the gap before the first and after the last band
func (b *Band) PaddingOuter(p float64) *Band {
	b.paddingOuter = p
	b.rescale()
	return b
}

func (b *Band) rescale() {
	n := float64(len(b.domain))
	start, stop := b.r0, b.r1
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	b.step = (stop - start) / math.Max(1, n-b.paddingInner+b.paddingOuter*2)
	start += (stop - start - b.step*(n-b.paddingInner)) * b.align
	b.bandwidth = b.step * (1 - b.paddingInner)
	if reverse {
		b.start = start + b.step*(n-1)
		b.step = -b.step
	} else {
		b.start = start
	}
}

// Pos returns the start of the band for key
func (b *Band) Pos(key string) (float64, bool) {
	i, ok := b.index[key]
	if !ok {
		return 0, false
	}
	return b.start + b.step*float64(i), true
}

// Bandwidth returns the width of each band
func (b *Band) Bandwidth() float64 { return b.bandwidth }

// Step returns the distance between the starts of adjacent bands
func (b *Band) Step() float64 { return math.Abs(b.step) }

// Domain returns the categories in order
func (b *Band) Domain() []string { return append([]string(nil), b.domain...) }

// Linear maps a continuous domain onto a continuous range
type Linear struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinear returns a linear scale from [d0, d1] to [r0, r1]
func NewLinear(d0, d1, r0, r1 float64) *Linear {
	return &Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Scale maps v from the domain to the range
func (l *Linear) Scale(v float64) float64 {
	if l.d1 == l.d0 {
		return (l.r0 + l.r1) / 2
	}
	t := (v - l.d0) / (l.d1 - l.d0)
	return l.r0 + t*(l.r1-l.r0)
}

// Domain returns the current domain bounds
func (l *Linear) Domain() (float64, float64) { return l.d0, l.d1 }

// Nice extends the domain to round values at the tick step for count ticks
func (l *Linear) Nice(count int) *Linear {
	start, stop := l.d0, l.d1
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	var prestep float64
	for i := 0; i < 10; i++ {
		step := tickIncrement(start, stop, count)
		if step == prestep || step == 0 {
			break
		}
		if step > 0 {
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		} else {
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		}
		prestep = step
	}
	if reverse {
		l.d0, l.d1 = stop, start
	} else {
		l.d0, l.d1 = start, stop
	}
	return l
}

// Ticks returns roughly count round values inside the domain
func (l *Linear) Ticks(count int) []float64 {
	start, stop := l.d0, l.d1
	if stop < start {
		start, stop = stop, start
	}
	if count <= 0 {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	i1, i2, inc := tickSpec(start, stop, count)
	if i2 < i1 {
		return nil
	}
	ticks := make([]float64, 0, int(i2-i1)+1)
	for i := i1; i <= i2; i++ {
		if inc < 0 {
			ticks = append(ticks, i/-inc)
		} else {
			ticks = append(ticks, i*inc)
		}
	}
	return ticks
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickSpec returns the first and last tick multipliers and the increment.
// A negative increment means ticks are i / -inc.
func tickSpec(start, stop float64, count int) (float64, float64, float64) {
	step := (stop - start) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}

	var i1, i2, inc float64
	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	if i2 < i1 && count > 0 && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

func tickIncrement(start, stop float64, count int) float64 {
	if stop <= start || count <= 0 {
		return 0
	}
	_, _, inc := tickSpec(start, stop, count)
	return inc
}
