package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinear_NiceExtendsToRoundStep(t *testing.T) {
	y := NewLinear(0, 1540*1.1, 540, 20).Nice(10)
	d0, d1 := y.Domain()
	assert.Equal(t, 0.0, d0)
	assert.Equal(t, 1800.0, d1)

	ticks := y.Ticks(10)
	require.Len(t, ticks, 10)
	assert.Equal(t, 0.0, ticks[0])
	assert.Equal(t, 200.0, ticks[1])
	assert.Equal(t, 1800.0, ticks[9])

	assert.Equal(t, 540.0, y.Scale(0))
	assert.Equal(t, 20.0, y.Scale(1800))
}

func TestLinear_FractionalDomain(t *testing.T) {
	y := NewLinear(0, 0.93, 100, 0).Nice(10)
	d0, d1 := y.Domain()
	assert.InDelta(t, 0, d0, 1e-9)
	assert.InDelta(t, 1, d1, 1e-9)

	ticks := y.Ticks(10)
	require.Len(t, ticks, 11)
	assert.InDelta(t, 0.3, ticks[3], 1e-9)
}

func TestLinear_DegenerateDomain(t *testing.T) {
	y := NewLinear(5, 5, 100, 0).Nice(10)
	assert.Equal(t, 50.0, y.Scale(5))
	assert.Equal(t, []float64{5}, y.Ticks(10))
}

func TestBand_Padding(t *testing.T) {
	b := NewBand([]string{"a", "b", "c"}, 0, 300).Padding(0.1)

	a, ok := b.Pos("a")
	require.True(t, ok)
	c, _ := b.Pos("c")
	assert.InDelta(t, 9.677, a, 1e-3)
	assert.InDelta(t, 203.226, c, 1e-3)
	assert.InDelta(t, 87.097, b.Bandwidth(), 1e-3)

	_, ok = b.Pos("z")
	assert.False(t, ok)
}

func TestBand_SubBandFillsGroup(t *testing.T) {
	group := NewBand([]string{"2020", "2021"}, 60, 780).Padding(0.1)
	sub := NewBand([]string{"A", "B"}, 0, group.Bandwidth()).Padding(0.05)

	a, _ := sub.Pos("A")
	b, _ := sub.Pos("B")
	assert.Greater(t, a, 0.0)
	assert.Less(t, b+sub.Bandwidth(), group.Bandwidth())
	assert.InDelta(t, sub.Step(), b-a, 1e-9)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "1,234", FormatValue(1234))
	assert.Equal(t, "12.3", FormatValue(12.345))
	assert.Equal(t, "0", FormatValue(0))
}
