package layout

import (
	"context"
	"iter"

	"github.com/teranos/resultviz/graph"
)

// NodeRecord is the render record of one node at one tick.
type NodeRecord struct {
	Index    int     `json:"index"`
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Category int     `json:"category"`
	Color    string  `json:"color,omitempty"`
	Stroke   string  `json:"stroke,omitempty"`
	Selected bool    `json:"selected"`
	Fixed    bool    `json:"fixed,omitempty"`
}

// LinkRecord is the render record of one link at one tick, endpoints
// resolved to coordinates.
type LinkRecord struct {
	Source   int     `json:"source"`
	Target   int     `json:"target"`
	X1       float64 `json:"x1"`
	Y1       float64 `json:"y1"`
	X2       float64 `json:"x2"`
	Y2       float64 `json:"y2"`
	Type     string  `json:"type"`
	Selected bool    `json:"selected"`
}

// Frame is a snapshot of the simulation after a tick.
type Frame struct {
	Version uint64       `json:"version"`
	Tick    int          `json:"tick"`
	Alpha   float64      `json:"alpha"`
	Energy  float64      `json:"energy"`
	State   State        `json:"state"`
	Nodes   []NodeRecord `json:"nodes"`
	Links   []LinkRecord `json:"links"`
}

// Frame snapshots the committed positions. Node colors come from the
// categories already assigned on the graph.
func (s *Simulation) Frame() Frame {
	palette := graph.NewPalette(0)
	f := Frame{
		Version: s.graph.Version,
		Tick:    s.tick,
		Alpha:   s.alpha,
		Energy:  s.energy,
		State:   s.state,
		Nodes:   make([]NodeRecord, len(s.x)),
		Links:   make([]LinkRecord, len(s.source)),
	}
	for i, node := range s.graph.Nodes {
		f.Nodes[i] = NodeRecord{
			Index:    i,
			ID:       node.ID,
			X:        s.x[i],
			Y:        s.y[i],
			Category: node.Category,
			Color:    palette.Color(node.Category),
			Stroke:   graph.Highlight(node),
			Selected: node.Selected,
			Fixed:    s.fixed[i],
		}
	}
	for i, link := range s.graph.Links {
		src, dst := s.source[i], s.target[i]
		f.Links[i] = LinkRecord{
			Source:   src,
			Target:   dst,
			X1:       s.x[src],
			Y1:       s.y[src],
			X2:       s.x[dst],
			Y2:       s.y[dst],
			Type:     link.Type,
			Selected: link.Selected,
		}
	}
	return f
}

// Frames yields a frame after every tick until the simulation converges or
// is stopped. Breaking out of the loop leaves the simulation where it was.
func (s *Simulation) Frames() iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for s.Step() {
			if !yield(s.Frame()) {
				return
			}
		}
	}
}

// Run steps until the simulation converges, is stopped, or ctx is done.
func (s *Simulation) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.Step() {
			return nil
		}
	}
}

// Positioned returns a copy of the simulated graph with every node's
// Position set to its committed coordinates.
func (s *Simulation) Positioned() *graph.Graph {
	out := s.graph.Clone()
	for i := range out.Nodes {
		out.Nodes[i].Position = &graph.Point{X: s.x[i], Y: s.y[i]}
	}
	return out
}

// Layout runs a simulation over g to completion and returns the positioned
// graph together with the final frame.
func Layout(g *graph.Graph, cfg Config) (*graph.Graph, Frame, error) {
	sim, err := New(g, cfg)
	if err != nil {
		return nil, Frame{}, err
	}
	for sim.Step() {
	}
	return sim.Positioned(), sim.Frame(), nil
}
