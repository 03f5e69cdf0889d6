package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frames struct {
	got []Frame
}

func (f *frames) sink(fr Frame) { f.got = append(f.got, fr) }

func (f *frames) last(t *testing.T) map[string]Op {
	t.Helper()
	require.NotEmpty(t, f.got)
	return opsByKey(f.got[len(f.got)-1].Ops)
}

func TestStage_AddingSeriesEntersOnlyNewBars(t *testing.T) {
	var f frames
	vp := NewViewport()
	st := NewStage(vp, f.sink)

	one := BarChart{Series: twoPlayers()[:1], Years: []int{2020, 2021}}
	st.Show(one, "Player A Yards by Season")
	first := f.last(t)
	assert.Zero(t, first["axis-x:domain"].Duration)
	assert.Equal(t, OpEnter, first["bar:2020:Player A"].Op)
	assert.Equal(t, "Player A Yards by Season", f.got[0].Title)

	st.Show(BarChart{Series: twoPlayers(), Years: []int{2020, 2021}}, "Grouped Yards by Season")
	ops := f.last(t)
	assert.Equal(t, OpEnter, ops["bar:2021:Player B"].Op)
	assert.Equal(t, "0", ops["bar:2021:Player B"].From["height"])
	assert.Equal(t, OpUpdate, ops["bar:2020:Player A"].Op)
	for _, op := range ops {
		assert.NotEqual(t, OpExit, op.Op, op.Key)
	}

	st.Show(one, "Player A Yards by Season")
	ops = f.last(t)
	assert.Equal(t, OpExit, ops["bar:2021:Player B"].Op)
	assert.Equal(t, OpExit, ops["legend:swatch:Player B"].Op)
}

func TestStage_ResizeRelayoutsMountedChart(t *testing.T) {
	var f frames
	vp := NewViewport()
	st := NewStage(vp, f.sink)

	st.Show(BarChart{Series: twoPlayers(), Years: []int{2020, 2021}}, "")
	require.Equal(t, 1, vp.Listeners())

	vp.Resize(Size{Width: 1000, Height: 600})
	require.Len(t, f.got, 2)
	assert.Equal(t, 1000.0, f.got[1].Width)
	assert.Equal(t, OpUpdate, f.last(t)["axis-x:domain"].Op)

	vp.Resize(Size{Width: 1000, Height: 600})
	assert.Len(t, f.got, 2)
}

func TestStage_SwitchingKindsUnmountsPrevious(t *testing.T) {
	var f frames
	vp := NewViewport()
	st := NewStage(vp, f.sink)

	st.Show(BarChart{Series: twoPlayers(), Years: []int{2020, 2021}}, "")
	st.Show(ScatterChart{Points: []ScatterDatum{{"Player A", 10, 2}}}, "")

	require.Len(t, f.got, 3)
	exit := f.got[1]
	assert.Equal(t, KindBar, exit.Chart)
	for _, op := range exit.Ops {
		assert.Equal(t, OpExit, op.Op)
	}
	assert.Equal(t, KindScatter, st.Mounted())
	assert.Equal(t, 1, vp.Listeners())

	st.Unmount()
	assert.Equal(t, 0, vp.Listeners())
	assert.Empty(t, st.Mounted())
	assert.Empty(t, st.Scene().Nodes)
}

func TestStage_HoverUsesShortTransition(t *testing.T) {
	var f frames
	st := NewStage(NewViewport(), f.sink)
	st.Show(ScatterChart{Points: []ScatterDatum{{"Player A", 10, 2}}}, "")

	st.Hover("dot:Player A")
	ops := f.last(t)
	assert.Equal(t, int64(200), ops["dot:Player A"].Duration)
	assert.Equal(t, "8", ops["dot:Player A"].To["r"])

	n := len(f.got)
	st.Hover("dot:Player A")
	assert.Len(t, f.got, n)

	st.HoverEnd()
	ops = f.last(t)
	assert.Equal(t, OpExit, ops["hover:text"].Op)
	assert.Equal(t, "6", ops["dot:Player A"].To["r"])
}
