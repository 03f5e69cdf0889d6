package session

import (
	"context"
	"errors"
	"io"

	"github.com/XavierBriggs/fortuna/services/gridiron/internal/export"
	"github.com/XavierBriggs/fortuna/services/gridiron/internal/render"
)

var (
	// ErrClosed is returned for requests against a session that has stopped
	ErrClosed = errors.New("session closed")
	// ErrNotReady is returned when the session has no chart to export
	ErrNotReady = errors.New("chart not ready")
)

// WriteChartPNG renders the chart currently shown to the browser as a PNG
func (s *Session) WriteChartPNG(ctx context.Context, w io.Writer) error {
	type snapshot struct {
		view View
		size render.Size
	}
	result := make(chan snapshot, 1)
	s.Post(func() { result <- snapshot{view: s.view, size: s.vp.Size()} })

	var snap snapshot
	select {
	case snap = <-result:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	v := snap.view
	if !v.Ready() {
		return ErrNotReady
	}
	opts := export.Options{
		Title:  v.Title,
		XLabel: v.XLabel,
		YLabel: v.YLabel,
		Width:  int(snap.size.Width),
		Height: int(snap.size.Height),
		Colors: render.Palette,
	}

	switch v.Chart.Kind() {
	case render.KindScatter:
		return export.ScatterPNG(w, v.Scatter, opts)
	case render.KindLine:
		return export.LinePNG(w, exportSeries(v.Series), opts)
	default:
		return export.BarPNG(w, exportSeries(v.Series), v.Years, opts)
	}
}

func exportSeries(series []SeriesData) []export.Series {
	out := make([]export.Series, len(series))
	for i, s := range series {
		out[i] = export.Series{Name: s.Player, Points: s.Points}
	}
	return out
}
