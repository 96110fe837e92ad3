package layout

import "github.com/teranos/resultviz/graph"

// Carry seeds g with the positions nodes had in a previous frame, matched by
// node ID, so a re-rendered result does not scatter nodes that were already
// placed. Nodes not present in prev are left without a position. g is not
// modified.
func Carry(prev Frame, g *graph.Graph) *graph.Graph {
	out := g.Clone()
	if len(prev.Nodes) == 0 {
		return out
	}
	seen := make(map[string]graph.Point, len(prev.Nodes))
	for _, rec := range prev.Nodes {
		seen[rec.ID] = graph.Point{X: rec.X, Y: rec.Y}
	}
	for i := range out.Nodes {
		if p, ok := seen[out.Nodes[i].ID]; ok {
			out.Nodes[i].Position = &p
		}
	}
	return out
}
