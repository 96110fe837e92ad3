package graph

// Filter reduces g to the sub-graph implied by the selection marks.
//
// With restrictToSelected false the input is returned unchanged. Otherwise the
// selected nodes keep their relative order and receive new indices. When any
// link is individually selected exactly those links are kept; when none is,
// links between two selected nodes are kept. Retained links are re-pointed to
// the new indices. A selected link with an unselected endpoint has nothing to
// point at in the new index space and is dropped.
//
// g is never modified; the result is a new graph version.
func Filter(g *Graph, restrictToSelected bool) (*Graph, error) {
	if err := Validate(g); err != nil {
		return nil, err
	}
	if !restrictToSelected {
		return g, nil
	}

	out := &Graph{
		Nodes:   make([]Node, 0, len(g.Nodes)),
		Links:   make([]Link, 0, len(g.Links)),
		Version: nextVersion(),
	}

	remap := make([]int, len(g.Nodes))
	for i, node := range g.Nodes {
		remap[i] = -1
		if !node.Selected {
			continue
		}
		remap[i] = len(out.Nodes)
		node.Index = len(out.Nodes)
		out.Nodes = append(out.Nodes, node)
	}

	hasSelectedLinks := false
	for _, link := range g.Links {
		if link.Selected {
			hasSelectedLinks = true
			break
		}
	}

	for _, link := range g.Links {
		keep := link.Selected ||
			(!hasSelectedLinks && g.Nodes[link.Source].Selected && g.Nodes[link.Target].Selected)
		if !keep {
			continue
		}
		source, target := remap[link.Source], remap[link.Target]
		if source < 0 || target < 0 {
			continue
		}
		link.Source, link.Target = source, target
		out.Links = append(out.Links, link)
	}

	return out, nil
}
