package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAssignBoundedness tests categories always fall in [0, size)
func TestAssignBoundedness(t *testing.T) {
	keys := []string{"name", "born", "title", "released", "tagline", "labels", "id", "polygenelubricants", "roles", "summary"}

	for _, size := range []int{1, 3, 7, 20, 64} {
		palette := NewPalette(size)
		for mask := 0; mask < 1<<len(keys); mask += 7 {
			props := map[string]interface{}{}
			for i, k := range keys {
				if mask&(1<<i) != 0 {
					props[k] = i
				}
			}
			category := palette.Assign(Node{Properties: props})
			if category < 0 || category >= size {
				t.Fatalf("Assign() with size %d = %d, out of range (props %v)", size, category, props)
			}
		}
	}
}

// TestAssignSameKeysSameCategory tests the category reflects the key set only
func TestAssignSameKeysSameCategory(t *testing.T) {
	palette := NewPalette(DefaultPaletteSize)
	a := Node{Properties: map[string]interface{}{"name": "Neo", "born": 1964}}
	b := Node{Properties: map[string]interface{}{"born": 1967, "name": "Trinity"}, Selected: true}

	assert.Equal(t, palette.Assign(a), palette.Assign(b))

	want := int((int64(Hash("name")) + int64(Hash("born"))) % 20)
	if want < 0 {
		want += 20
	}
	assert.Equal(t, want, palette.Assign(a))
}

// TestAssignNegativeHash tests negative property hashes still map into range
func TestAssignNegativeHash(t *testing.T) {
	n := Node{Properties: map[string]interface{}{"polygenelubricants": 1}}
	require.Less(t, PropertyHash(n.Properties), int64(0))

	category := NewPalette(20).Assign(n)
	assert.Equal(t, 12, category) // -2147483648 mod 20 = -8 -> 12
}

func TestNewPaletteDefaults(t *testing.T) {
	assert.Equal(t, DefaultPaletteSize, NewPalette(0).Size())
	assert.Equal(t, DefaultPaletteSize, Palette{}.Size())
	assert.Equal(t, 5, NewPalette(5).Size())
}

func TestColor(t *testing.T) {
	palette := NewPalette(20)
	assert.Equal(t, "#1f77b4", palette.Color(0))
	assert.Equal(t, "#9edae5", palette.Color(19))
	assert.Equal(t, "#1f77b4", palette.Color(20))
	assert.Len(t, Category20, 20)
}

func TestHighlight(t *testing.T) {
	assert.Equal(t, "red", Highlight(Node{Selected: true}))
	assert.Equal(t, "", Highlight(Node{}))
}

func TestColorize(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "0", Properties: map[string]interface{}{"name": "Neo"}},
			{ID: "1", Properties: map[string]interface{}{"title": "The Matrix"}},
		},
		Links: []Link{{Source: 0, Target: 1, Type: "ACTED_IN", Weight: 1}},
	}
	palette := NewPalette(20)

	out := palette.Colorize(g)
	require.Len(t, out.Nodes, 2)
	for i := range out.Nodes {
		assert.Equal(t, palette.Assign(g.Nodes[i]), out.Nodes[i].Category)
		assert.Equal(t, 0, g.Nodes[i].Category, "input must not be modified")
	}
}

func TestTitle(t *testing.T) {
	n := Node{Properties: map[string]interface{}{"name": "Neo", "born": 1964, "x": 3.0, "selected": true}}
	assert.Equal(t, "born: 1964 name: Neo ", Title(n))
	assert.Equal(t, "", Title(Node{}))
}

func TestLegend(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{Category: 3}, {Category: 1}, {Category: 3}, {Category: 5}},
		Links: []Link{{Type: "KNOWS"}, {Type: "ACTED_IN"}, {Type: "KNOWS"}},
	}

	legend := NewPalette(20).Legend(g)
	require.Len(t, legend.Categories, 3)
	assert.Equal(t, CategoryInfo{Category: 3, Color: Category20[3], Count: 2}, legend.Categories[0])
	assert.Equal(t, 1, legend.Categories[1].Category)
	assert.Equal(t, 5, legend.Categories[2].Category)

	require.Len(t, legend.RelationshipTypes, 2)
	assert.Equal(t, RelationshipTypeInfo{Type: "KNOWS", Count: 2}, legend.RelationshipTypes[0])
	assert.Equal(t, "ACTED_IN", legend.RelationshipTypes[1].Type)
}

func ExamplePalette_Assign() {
	palette := NewPalette(20)
	neo := Node{Properties: map[string]interface{}{"name": "Neo"}}
	trinity := Node{Properties: map[string]interface{}{"name": "Trinity"}}
	fmt.Println(palette.Assign(neo) == palette.Assign(trinity))
	// Output: true
}
