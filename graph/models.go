package graph

import "sync/atomic"

// Graph is one version of a query-result graph. Link endpoints index into
// Nodes of the same Graph; every derived sub-graph gets a fresh Version so
// indices from different versions can never be confused.
type Graph struct {
	Nodes   []Node `json:"nodes"`
	Links   []Link `json:"links"`
	Version uint64 `json:"version"`
}

// Point is a 2-D canvas position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node represents an entity in the graph
type Node struct {
	ID         string                 `json:"id"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Selected   bool                   `json:"selected"`
	SelectedBy string                 `json:"selected_by,omitempty"` // Result column that selected the node, if known
	Category   int                    `json:"category"`              // Palette bucket, see Palette.Assign
	Position   *Point                 `json:"position,omitempty"`    // Prior position for layout continuity
	Index      int                    `json:"$index"`                // Position in Nodes of the owning graph
}

// Link represents a relationship between two nodes, addressed by index
type Link struct {
	Source     int                    `json:"source"`
	Target     int                    `json:"target"`
	Type       string                 `json:"type"`
	Selected   bool                   `json:"selected"`
	Weight     float64                `json:"weight"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// Stats provides graph statistics
type Stats struct {
	TotalNodes    int `json:"total_nodes"`
	TotalEdges    int `json:"total_edges"`
	SelectedNodes int `json:"selected_nodes"`
	SelectedEdges int `json:"selected_edges"`
}

var versionCounter atomic.Uint64

// nextVersion hands out index-space versions. Versions are never reused.
func nextVersion() uint64 {
	return versionCounter.Add(1)
}

// Empty returns a graph with no nodes or links.
func Empty() *Graph {
	return &Graph{
		Nodes:   []Node{},
		Links:   []Link{},
		Version: nextVersion(),
	}
}

// Stats counts nodes, links and selections.
func (g *Graph) Stats() Stats {
	stats := Stats{
		TotalNodes: len(g.Nodes),
		TotalEdges: len(g.Links),
	}
	for _, n := range g.Nodes {
		if n.Selected {
			stats.SelectedNodes++
		}
	}
	for _, l := range g.Links {
		if l.Selected {
			stats.SelectedEdges++
		}
	}
	return stats
}

// Clone copies the node and link sequences into a new version. Property maps
// are shared since graphs never mutate them.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		Nodes:   make([]Node, len(g.Nodes)),
		Links:   make([]Link, len(g.Links)),
		Version: nextVersion(),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Links, g.Links)
	for i := range out.Nodes {
		if p := out.Nodes[i].Position; p != nil {
			pos := *p
			out.Nodes[i].Position = &pos
		}
	}
	return out
}
