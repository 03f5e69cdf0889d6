package render

// Default chart surface size
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Size of the host surface in pixels
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// orDefault fills zero dimensions with the defaults
func (s Size) orDefault() Size {
	if s.Width <= 0 {
		s.Width = DefaultWidth
	}
	if s.Height <= 0 {
		s.Height = DefaultHeight
	}
	return s
}

// Viewport tracks the host surface size and notifies resize listeners.
// It is confined to the session loop.
type Viewport struct {
	size      Size
	listeners map[int]func(Size)
	next      int
}

// NewViewport returns a viewport of the default size
func NewViewport() *Viewport {
	return &Viewport{
		size:      Size{Width: DefaultWidth, Height: DefaultHeight},
		listeners: make(map[int]func(Size)),
	}
}

// Size returns the current size
func (v *Viewport) Size() Size { return v.size }

// Resize updates the size and notifies listeners when it changed
func (v *Viewport) Resize(s Size) {
	s = s.orDefault()
	if s == v.size {
		return
	}
	v.size = s
	for i := 0; i < v.next; i++ {
		if fn, ok := v.listeners[i]; ok {
			fn(s)
		}
	}
}

// OnResize registers fn and returns a function that detaches it
func (v *Viewport) OnResize(fn func(Size)) (detach func()) {
	id := v.next
	v.next++
	v.listeners[id] = fn
	return func() { delete(v.listeners, id) }
}

// Listeners returns the number of attached resize listeners
func (v *Viewport) Listeners() int { return len(v.listeners) }
