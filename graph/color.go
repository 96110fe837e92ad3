package graph

import (
	"fmt"
	"sort"
	"strings"
)

// Category20 is the 20-entry qualitative palette nodes are colored from.
var Category20 = []string{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
	"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
	"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f",
	"#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
}

// Palette maps property signatures to a fixed number of color buckets.
type Palette struct {
	size int
}

// NewPalette creates a palette with size buckets. Non-positive sizes fall
// back to DefaultPaletteSize.
func NewPalette(size int) Palette {
	if size <= 0 {
		size = DefaultPaletteSize
	}
	return Palette{size: size}
}

// Size returns the number of buckets.
func (p Palette) Size() int {
	if p.size <= 0 {
		return DefaultPaletteSize
	}
	return p.size
}

// Assign returns the node's category in [0, Size()). Identical key sets
// always land in the same bucket.
func (p Palette) Assign(node Node) int {
	n := int64(p.Size())
	category := PropertyHash(node.Properties) % n
	if category < 0 {
		category += n
	}
	return int(category)
}

// Color returns the fill color for a category. Buckets beyond the base
// palette wrap around it.
func (p Palette) Color(category int) string {
	if category < 0 {
		category = -category
	}
	return Category20[category%len(Category20)]
}

// Highlight returns the stroke marking a selected node, or "" for none.
// It is a presentation flag and leaves the category untouched.
func Highlight(node Node) string {
	if node.Selected {
		return highlightStroke
	}
	return ""
}

// Colorize returns a copy of g with every node's Category assigned.
func (p Palette) Colorize(g *Graph) *Graph {
	out := g.Clone()
	for i := range out.Nodes {
		out.Nodes[i].Category = p.Assign(out.Nodes[i])
	}
	return out
}

// Title renders the non-reserved properties as "key: value " pairs in key
// order, for tooltips.
func Title(node Node) string {
	keys := make([]string, 0, len(node.Properties))
	for key := range node.Properties {
		if IsReserved(key) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s: %v ", key, node.Properties[key])
	}
	return b.String()
}
