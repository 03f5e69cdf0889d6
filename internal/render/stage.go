package render

import "time"

// Chart lays out one chart kind for a given surface size
type Chart interface {
	Kind() string
	// Layout returns the full scene; hover is the key under the pointer or ""
	Layout(size Size, hover string) Scene
}

// Stage hosts the mounted chart on a viewport and turns layout changes into
// frames. It is confined to the session loop.
type Stage struct {
	vp     *Viewport
	sink   func(Frame)
	chart  Chart
	scene  Scene
	hover  string
	title  string
	detach func()
}

// NewStage returns a stage that sends frames to sink
func NewStage(vp *Viewport, sink func(Frame)) *Stage {
	return &Stage{vp: vp, sink: sink}
}

// Mounted returns the mounted chart kind, or "" when nothing is mounted
func (s *Stage) Mounted() string {
	if s.chart == nil {
		return ""
	}
	return s.chart.Kind()
}

// Show mounts c, or updates the mounted chart when c is of the same kind.
// Switching kinds unmounts the previous chart first so its nodes exit.
func (s *Stage) Show(c Chart, title string) {
	if s.chart != nil && s.chart.Kind() != c.Kind() {
		s.Unmount()
	}
	if s.chart == nil {
		s.detach = s.vp.OnResize(func(Size) { s.draw(UpdateDuration) })
		s.hover = ""
	}
	s.chart = c
	s.title = title
	s.draw(UpdateDuration)
}

// Unmount removes the chart and detaches it from the viewport
func (s *Stage) Unmount() {
	if s.chart == nil {
		return
	}
	if s.detach != nil {
		s.detach()
		s.detach = nil
	}
	ops := Diff(s.scene, Scene{}, UpdateDuration)
	kind := s.chart.Kind()
	s.chart = nil
	s.scene = Scene{}
	s.hover = ""
	if len(ops) > 0 {
		size := s.vp.Size()
		s.sink(Frame{Chart: kind, Width: size.Width, Height: size.Height, Ops: ops})
	}
}

// Hover marks key as under the pointer
func (s *Stage) Hover(key string) {
	if s.chart == nil || key == s.hover {
		return
	}
	s.hover = key
	s.draw(HoverDuration)
}

// HoverEnd clears the hover state
func (s *Stage) HoverEnd() {
	s.Hover("")
}

// Scene returns the scene last sent to the client
func (s *Stage) Scene() Scene { return s.scene }

func (s *Stage) draw(d time.Duration) {
	size := s.vp.Size()
	next := s.chart.Layout(size, s.hover)
	ops := Diff(s.scene, next, d)
	s.scene = next
	s.sink(Frame{
		Chart:  s.chart.Kind(),
		Width:  size.Width,
		Height: size.Height,
		Title:  s.title,
		Ops:    ops,
	})
}
