package graph

import "fmt"

// MalformedGraphError reports a link whose endpoint does not resolve to a
// node of the same graph.
type MalformedGraphError struct {
	Link      int // Offending link position
	Source    int
	Target    int
	NodeCount int
}

func (e *MalformedGraphError) Error() string {
	return fmt.Sprintf("malformed graph: link %d (%d -> %d) references a node outside [0, %d)",
		e.Link, e.Source, e.Target, e.NodeCount)
}

// Validate checks that every link endpoint lies in [0, len(g.Nodes)).
// Out-of-range links are reported, never clamped or dropped.
func Validate(g *Graph) error {
	n := len(g.Nodes)
	for i, l := range g.Links {
		if l.Source < 0 || l.Source >= n || l.Target < 0 || l.Target >= n {
			return &MalformedGraphError{
				Link:      i,
				Source:    l.Source,
				Target:    l.Target,
				NodeCount: n,
			}
		}
	}
	return nil
}
