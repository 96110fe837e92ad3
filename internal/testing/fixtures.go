// Package testing provides graph fixtures and loggers shared by package tests.
package testing

import (
	"strconv"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/resultviz/graph"
)

// Logger returns a sugared logger writing through t.Log.
func Logger(t *testing.T) *zap.SugaredLogger {
	t.Helper()
	return zaptest.NewLogger(t).Sugar()
}

// Node builds a node with the given ID and properties.
func Node(id string, selected bool, props map[string]interface{}) graph.Node {
	if props == nil {
		props = map[string]interface{}{}
	}
	return graph.Node{ID: id, Properties: props, Selected: selected}
}

// ChainGraph returns n nodes linked 0-1-2-...-(n-1) with unit weights.
func ChainGraph(n int) *graph.Graph {
	g := graph.Empty()
	for i := 0; i < n; i++ {
		id := strconv.Itoa(i)
		g.Nodes = append(g.Nodes, Node(id, false, map[string]interface{}{"name": "n" + id}))
		g.Nodes[i].Index = i
		if i > 0 {
			g.Links = append(g.Links, graph.Link{Source: i - 1, Target: i, Type: "NEXT", Weight: 1})
		}
	}
	return g
}

// TreeGraph returns n nodes as a binary tree: node i hangs off (i-1)/2.
func TreeGraph(n int) *graph.Graph {
	g := graph.Empty()
	for i := 0; i < n; i++ {
		id := strconv.Itoa(i)
		g.Nodes = append(g.Nodes, Node(id, false, map[string]interface{}{"name": "t" + id}))
		g.Nodes[i].Index = i
		if i > 0 {
			g.Links = append(g.Links, graph.Link{Source: (i - 1) / 2, Target: i, Type: "CHILD", Weight: 1})
		}
	}
	return g
}

// StarGraph returns a hub at index 0 linked to n leaves.
func StarGraph(n int) *graph.Graph {
	g := graph.Empty()
	g.Nodes = append(g.Nodes, Node("hub", true, map[string]interface{}{"name": "hub", "kind": "hub"}))
	for i := 1; i <= n; i++ {
		id := "leaf" + strconv.Itoa(i)
		g.Nodes = append(g.Nodes, Node(id, false, map[string]interface{}{"name": id}))
		g.Links = append(g.Links, graph.Link{Source: 0, Target: i, Type: "HAS", Weight: 1})
	}
	for i := range g.Nodes {
		g.Nodes[i].Index = i
	}
	return g
}

// SelectionGraph is the canonical three-node result: A and C selected,
// B unselected, links A-B and B-C, none individually selected.
func SelectionGraph() *graph.Graph {
	g := graph.Empty()
	g.Nodes = []graph.Node{
		Node("A", true, map[string]interface{}{"name": "A"}),
		Node("B", false, map[string]interface{}{"name": "B"}),
		Node("C", true, map[string]interface{}{"name": "C"}),
	}
	g.Links = []graph.Link{
		{Source: 0, Target: 1, Type: "KNOWS", Weight: 1},
		{Source: 1, Target: 2, Type: "KNOWS", Weight: 1},
	}
	for i := range g.Nodes {
		g.Nodes[i].Index = i
	}
	return g
}
