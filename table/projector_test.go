package table

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCell(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"null", nil, "<null>"},
		{"string", "Neo", "Neo"},
		{"integer", 42, "42"},
		{"whole float", 5.0, "5"},
		{"fraction", 2.5, "2.5"},
		{"json number keeps literal", json.Number("1.50"), "1.50"},
		{"bool", true, "true"},
		{"node", map[string]interface{}{"_id": 5, "name": "Neo"}, `Node[5] {"name":"Neo"}`},
		{"node without properties", map[string]interface{}{"_id": 7}, "Node[7] "},
		{"relationship", map[string]interface{}{"_id": 3, "_type": "KNOWS", "since": 1999}, `:KNOWS[3] {"since":1999}`},
		{"labels are metadata", map[string]interface{}{"_id": 1, "_labels": []string{"Person"}, "a": 1, "b": "<x>"}, `Node[1] {"a":1,"b":"<x>"}`},
		{"unencodable properties", map[string]interface{}{"_id": 5, "score": math.NaN()}, "Node[5] map[score:NaN]"},
		{"plain map", map[string]interface{}{"b": 2, "a": 1}, `{"a":1,"b":2}`},
		{"array", []interface{}{1, "x", nil}, "[1, x, <null>]"},
		{"typed slice", []string{"a", "b"}, "[a, b]"},
		{"empty array", []interface{}{}, "[]"},
		{"unknown type", struct{ N int }{3}, `{"N":3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderCell(tt.value).Text)
		})
	}
}

func TestRenderCellNested(t *testing.T) {
	cell := RenderCell([]interface{}{
		map[string]interface{}{"_id": 1},
		[]interface{}{"x", "y"},
	})

	require.Len(t, cell.Items, 2)
	assert.Equal(t, "Node[1] ", cell.Items[0].Text)
	require.Len(t, cell.Items[1].Items, 2)
	assert.Equal(t, "y", cell.Items[1].Items[1].Text)
	assert.Equal(t, "[Node[1] , [x, y]]", cell.Text)
}

func TestRenderCellMaxDepth(t *testing.T) {
	p := NewProjector()
	p.MaxDepth = 1

	cell := p.RenderCell([]interface{}{[]interface{}{[]interface{}{1}}})
	require.Len(t, cell.Items, 1)
	require.Len(t, cell.Items[0].Items, 1)
	assert.Equal(t, "[1]", cell.Items[0].Items[0].Text)
	assert.Empty(t, cell.Items[0].Items[0].Items, "beyond MaxDepth values are stringified")
}

func TestRenderCellCustomNull(t *testing.T) {
	p := NewProjector()
	p.NullText = "-"
	assert.Equal(t, "-", p.RenderCell(nil).Text)
	assert.Equal(t, "[-]", p.RenderCell([]interface{}{nil}).Text)
}

func TestProject(t *testing.T) {
	columns := []string{"n", "name"}
	rows := []map[string]interface{}{
		{"n": map[string]interface{}{"_id": 5, "name": "Neo"}, "name": "Neo"},
		{"name": "Trinity"},
	}

	res := Project(columns, rows)

	require.Len(t, res.Columns, 2)
	require.Len(t, res.Rows, 2)
	for _, row := range res.Rows {
		assert.Len(t, row, 2)
	}
	assert.Equal(t, "<null>", res.Rows[1][0].Text)
	assert.Equal(t, "Trinity", res.Rows[1][1].Text)

	// Node[5] {"name":"Neo"} is 22 characters, Trinity 7.
	assert.InDelta(t, 100*22.0/29.0, res.Columns[0].Width, 1e-9)
	assert.Equal(t, "76%", res.Columns[0].CSSWidth())
	assert.Equal(t, "24%", res.Columns[1].CSSWidth())

	total := 0.0
	for _, c := range res.Columns {
		total += c.Width
	}
	assert.InDelta(t, 100, total, 1e-9)
}

func TestProjectEqualSplit(t *testing.T) {
	res := Project([]string{"", ""}, []map[string]interface{}{{"": ""}})

	require.Len(t, res.Columns, 2)
	assert.Equal(t, 50.0, res.Columns[0].Width)
	assert.Equal(t, 50.0, res.Columns[1].Width)
}

func TestProjectEmpty(t *testing.T) {
	res := Project(nil, nil)
	assert.Empty(t, res.Columns)
	assert.Empty(t, res.Rows)

	res = Project([]string{"a"}, nil)
	require.Len(t, res.Columns, 1)
	assert.Equal(t, 100.0, res.Columns[0].Width)
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Query took 12 ms and returned 3 rows. ",
		Summary(Stats{Time: 12, Rows: 3}, true))
	assert.Equal(t, "Query took 4 ms and returned no rows. ",
		Summary(Stats{Time: 4, Rows: 3}, false))

	stats := Stats{
		Time:                 1,
		ContainsUpdates:      true,
		NodesCreated:         1,
		RelationshipsCreated: 2,
		NodesDeleted:         3,
		PropertiesSet:        2,
	}
	assert.Equal(t,
		"Query took 1 ms and returned no rows. \nUpdated the graph - "+
			"created 1 node and 2 relationships deleted 3 nodes set 2 properties ",
		Summary(stats, true))

	stats = Stats{ContainsUpdates: true, PropertiesSet: 1}
	assert.Contains(t, Summary(stats, true), "set 1 property ")
}
