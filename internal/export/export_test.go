package export_test

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/export"
	"github.com/XavierBriggs/fortuna/services/gridiron/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var twoPlayers = []export.Series{
	{Name: "Player A", Points: []models.SeasonValue{{Season: 2020, Value: 1200}, {Season: 2021, Value: 1300}}},
	{Name: "Player B", Points: []models.SeasonValue{{Season: 2021, Value: 900}, {Season: 2022, Value: 1500}}},
}

func decodeSize(t *testing.T, buf *bytes.Buffer) (int, int) {
	t.Helper()
	img, err := png.Decode(buf)
	require.NoError(t, err)
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestLinePNG(t *testing.T) {
	var buf bytes.Buffer
	err := export.LinePNG(&buf, twoPlayers, export.Options{Title: "Grouped Yards by Season", Width: 640, Height: 400})
	require.NoError(t, err)

	w, h := decodeSize(t, &buf)
	assert.Equal(t, 640, w)
	assert.Equal(t, 400, h)
}

func TestBarPNG(t *testing.T) {
	var buf bytes.Buffer
	err := export.BarPNG(&buf, twoPlayers, []int{2020, 2021, 2022}, export.Options{Colors: []string{"steelblue", "#ff7f0e"}})
	require.NoError(t, err)

	w, h := decodeSize(t, &buf)
	assert.Equal(t, export.DefaultWidth, w)
	assert.Equal(t, export.DefaultHeight, h)
}

func TestScatterPNG(t *testing.T) {
	var buf bytes.Buffer
	points := []models.ScatterPoint{
		{Player: "Player A", Primary: 1250, Secondary: 10.5},
		{Player: "Player B", Primary: 850, Secondary: 6.3},
	}
	require.NoError(t, export.ScatterPNG(&buf, points, export.Options{}))
	assert.Greater(t, buf.Len(), 0)
}

func TestNoData(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, errors.Is(export.LinePNG(&buf, nil, export.Options{}), export.ErrNoData))
	assert.True(t, errors.Is(export.BarPNG(&buf, []export.Series{{Name: "Empty"}}, []int{2020}, export.Options{}), export.ErrNoData))
	assert.True(t, errors.Is(export.ScatterPNG(&buf, nil, export.Options{}), export.ErrNoData))
}

func TestLeaderboardPNG(t *testing.T) {
	var buf bytes.Buffer
	leaders := []models.ScatterPoint{
		{Player: "Player A", Primary: 1500, Secondary: 1500},
		{Player: "Player B", Primary: 1300, Secondary: 1300},
		{Player: "Player C", Primary: 1100, Secondary: 1100},
	}
	require.NoError(t, export.LeaderboardPNG(&buf, leaders, export.Options{Title: "Top Receivers"}))

	w, _ := decodeSize(t, &buf)
	assert.Equal(t, export.DefaultWidth, w)
}
