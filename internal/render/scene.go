package render

import (
	"maps"
	"strings"
	"time"
)

// Transition timings
const (
	UpdateDuration = 700 * time.Millisecond
	HoverDuration  = 200 * time.Millisecond
)

// Attrs are SVG attributes; numeric values are interpolated by the client
type Attrs map[string]string

// Node is one keyed primitive of a chart scene
type Node struct {
	Key   string
	Kind  string // rect, circle, line, path, text
	Layer string
	Attrs Attrs
	Text  string
	// Enter holds the attributes a new node starts from. Nil means the node
	// appears in place without a transition.
	Enter Attrs
	// Exit holds the attributes a removed node animates to before removal
	Exit Attrs
}

// Scene is an ordered list of nodes; later nodes draw on top
type Scene struct {
	Nodes []Node
}

// Add appends nodes to the scene
func (s *Scene) Add(nodes ...Node) {
	s.Nodes = append(s.Nodes, nodes...)
}

// Find returns the node with key
func (s Scene) Find(key string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.Key == key {
			return n, true
		}
	}
	return Node{}, false
}

// Layer returns the nodes of one layer in order
func (s Scene) Layer(layer string) []Node {
	var out []Node
	for _, n := range s.Nodes {
		if n.Layer == layer {
			out = append(out, n)
		}
	}
	return out
}

// Op kinds
const (
	OpEnter  = "enter"
	OpUpdate = "update"
	OpExit   = "exit"
)

// Op is one element transition sent to the client
type Op struct {
	Op       string `json:"op"`
	Key      string `json:"key"`
	Kind     string `json:"kind"`
	Layer    string `json:"layer"`
	From     Attrs  `json:"from,omitempty"`
	To       Attrs  `json:"to"`
	Text     string `json:"text,omitempty"`
	Duration int64  `json:"duration"` // milliseconds
	Order    int    `json:"order"`
}

// Frame is the set of transitions that takes the client from one scene to the next
type Frame struct {
	Chart  string  `json:"chart"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Title  string  `json:"title,omitempty"`
	Ops    []Op    `json:"ops"`
}

// Empty reports whether the frame changes nothing
func (f Frame) Empty() bool { return len(f.Ops) == 0 }

// Diff reconciles prev and next by node key. Entering nodes grow from their
// Enter attributes, persisting nodes interpolate when anything changed and
// exiting nodes shrink to their Exit attributes. Axis layers drawn for the
// first time appear without a transition.
func Diff(prev, next Scene, d time.Duration) []Op {
	ms := d.Milliseconds()
	drawn := make(map[string]bool)
	for _, n := range prev.Nodes {
		drawn[n.Layer] = true
	}
	order := make(map[string]int, len(next.Nodes))
	for i, n := range next.Nodes {
		order[n.Key] = i
	}

	j := Reconcile(prev.Nodes, next.Nodes, func(n Node) string { return n.Key })
	ops := make([]Op, 0, len(j.Entering)+len(j.Persisting)+len(j.Exiting))

	for _, n := range j.Exiting {
		ops = append(ops, Op{
			Op:       OpExit,
			Key:      n.Key,
			Kind:     n.Kind,
			Layer:    n.Layer,
			From:     n.Attrs,
			To:       merge(n.Attrs, n.Exit),
			Text:     n.Text,
			Duration: ms,
			Order:    -1,
		})
	}
	for _, n := range j.Entering {
		op := Op{
			Op:       OpEnter,
			Key:      n.Key,
			Kind:     n.Kind,
			Layer:    n.Layer,
			To:       n.Attrs,
			Text:     n.Text,
			Duration: ms,
			Order:    order[n.Key],
		}
		if n.Enter == nil || (isAxisLayer(n.Layer) && !drawn[n.Layer]) {
			op.Duration = 0
		} else {
			op.From = merge(n.Attrs, n.Enter)
		}
		ops = append(ops, op)
	}
	for _, p := range j.Persisting {
		if maps.Equal(p.Prev.Attrs, p.Next.Attrs) && p.Prev.Text == p.Next.Text && p.Prev.Kind == p.Next.Kind {
			continue
		}
		ops = append(ops, Op{
			Op:       OpUpdate,
			Key:      p.Next.Key,
			Kind:     p.Next.Kind,
			Layer:    p.Next.Layer,
			From:     p.Prev.Attrs,
			To:       p.Next.Attrs,
			Text:     p.Next.Text,
			Duration: ms,
			Order:    order[p.Next.Key],
		})
	}
	return ops
}

func isAxisLayer(layer string) bool {
	return strings.HasPrefix(layer, "axis")
}

func merge(base, over Attrs) Attrs {
	out := make(Attrs, len(base)+len(over))
	maps.Copy(out, base)
	maps.Copy(out, over)
	return out
}
