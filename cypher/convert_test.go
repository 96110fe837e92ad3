package cypher

import (
	"context"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/resultviz/errors"
	"github.com/teranos/resultviz/graph"
	grapherr "github.com/teranos/resultviz/graph/error"
	vizt "github.com/teranos/resultviz/internal/testing"
	"github.com/teranos/resultviz/table"
	"github.com/teranos/resultviz/viz"
)

var (
	neo      = dbtype.Node{Id: 1, Labels: []string{"Person"}, Props: map[string]any{"name": "Neo"}}
	trinity  = dbtype.Node{Id: 2, Labels: []string{"Person"}, Props: map[string]any{"name": "Trinity"}}
	morpheus = dbtype.Node{Id: 3, Labels: []string{"Person"}, Props: map[string]any{"name": "Morpheus"}}
	knows    = dbtype.Relationship{Id: 10, StartId: 1, EndId: 2, Type: "KNOWS", Props: map[string]any{"since": int64(1999)}}
	loves    = dbtype.Relationship{Id: 11, StartId: 2, EndId: 4, Type: "LOVES", Props: map[string]any{}}
)

func record(keys []string, values ...any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

func TestConvertSubGraph(t *testing.T) {
	keys := []string{"m", "n", "r"}
	records := []*neo4j.Record{
		record(keys, trinity, neo, knows),
		record(keys, morpheus, nil, loves),
	}

	resp := Convert(keys, records, table.Stats{Time: 3})

	assert.Equal(t, keys, resp.Columns)
	assert.Equal(t, 2, resp.Stats.Rows)
	require.Len(t, resp.JSON, 2)

	in := resp.Visualization
	require.Len(t, in.Nodes, 3)
	assert.Equal(t, int64(1), in.Nodes[0]["id"], "nodes are ordered by id")
	assert.Equal(t, int64(3), in.Nodes[2]["id"])
	assert.Equal(t, "n", in.Nodes[0]["selected"])
	assert.Equal(t, "m", in.Nodes[1]["selected"])

	require.Len(t, in.Links, 1, "relationships with a missing endpoint are dropped")
	assert.Equal(t, 0, in.Links[0]["source"])
	assert.Equal(t, 1, in.Links[0]["target"])
	assert.Equal(t, "KNOWS", in.Links[0]["type"])
	assert.Equal(t, "r", in.Links[0]["selected"])

	g, err := graph.Build(*in)
	require.NoError(t, err)
	assert.Equal(t, "1", g.Nodes[0].ID)
	assert.True(t, g.Links[0].Selected)
}

func TestConvertTableCells(t *testing.T) {
	keys := []string{"n", "r", "count"}
	resp := Convert(keys, []*neo4j.Record{record(keys, neo, knows, int64(4))}, table.Stats{})

	res := table.Project(resp.Columns, resp.JSON)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, `Node[1] {"name":"Neo"}`, res.Rows[0][0].Text)
	assert.Equal(t, `:KNOWS[10] {"since":1999}`, res.Rows[0][1].Text)
	assert.Equal(t, "4", res.Rows[0][2].Text)

	cell := resp.JSON[0]["n"].(map[string]interface{})
	assert.Equal(t, []string{"Person"}, cell[table.KeyLabels])
}

func TestConvertPathAndCollections(t *testing.T) {
	path := dbtype.Path{
		Nodes:         []dbtype.Node{neo, trinity},
		Relationships: []dbtype.Relationship{knows},
	}
	keys := []string{"p", "friends", "byName"}
	resp := Convert(keys, []*neo4j.Record{
		record(keys, path, []any{morpheus}, map[string]any{"neo": neo}),
	}, table.Stats{})

	in := resp.Visualization
	assert.Len(t, in.Nodes, 3)
	assert.Len(t, in.Links, 1)
	for _, n := range in.Nodes {
		_, selected := n["selected"]
		assert.False(t, selected, "entities nested in paths or lists are not selected")
	}

	cells := resp.JSON[0]["p"].([]interface{})
	require.Len(t, cells, 3)
	assert.Equal(t, "KNOWS", cells[1].(map[string]interface{})[table.KeyType])
	assert.Equal(t, "[Node[1] {\"name\":\"Neo\"}, :KNOWS[10] {\"since\":1999}, Node[2] {\"name\":\"Trinity\"}]",
		table.RenderCell(resp.JSON[0]["p"]).Text)
}

func TestConvertEmpty(t *testing.T) {
	resp := Convert(nil, nil, table.Stats{})
	assert.Empty(t, resp.Columns)
	assert.Empty(t, resp.JSON)
	assert.Empty(t, resp.Visualization.Nodes)
	assert.Empty(t, resp.Visualization.Links)

	resp = FromEager(nil, 0)
	assert.NotNil(t, resp.Visualization)
}

func TestConvertDropsUnusableWeight(t *testing.T) {
	weighted := dbtype.Relationship{Id: 12, StartId: 1, EndId: 2, Type: "KNOWS", Props: map[string]any{"weight": "heavy"}}
	keys := []string{"a", "b", "r"}
	resp := Convert(keys, []*neo4j.Record{record(keys, neo, trinity, weighted)}, table.Stats{})

	_, ok := resp.Visualization.Links[0]["weight"]
	assert.False(t, ok)
	_, err := graph.Build(*resp.Visualization)
	assert.NoError(t, err)
}

type fakeRunner struct {
	result *neo4j.EagerResult
	err    error
	query  string
}

func (f *fakeRunner) Run(_ context.Context, query string, _ map[string]interface{}) (*neo4j.EagerResult, error) {
	f.query = query
	return f.result, f.err
}

func TestSourceQuery(t *testing.T) {
	keys := []string{"n"}
	runner := &fakeRunner{result: &neo4j.EagerResult{
		Keys:    keys,
		Records: []*neo4j.Record{record(keys, neo)},
	}}
	src := NewSource(runner, vizt.Logger(t))

	resp, err := src.Query(context.Background(), "MATCH (n) RETURN n", nil)
	require.NoError(t, err)
	assert.Equal(t, "MATCH (n) RETURN n", runner.query)
	assert.Len(t, resp.Visualization.Nodes, 1)

	view, err := viz.NewRenderer(viz.DefaultOptions(200, 200), 0, vizt.Logger(t)).Prepare(resp)
	require.NoError(t, err)
	assert.True(t, view.Graph.Nodes[0].Selected)
}

func TestSourceQueryErrors(t *testing.T) {
	src := NewSource(&fakeRunner{err: errors.New("Neo.ClientError.Statement.SyntaxError")}, vizt.Logger(t))
	_, err := src.Query(context.Background(), "MATC (n)", nil)
	require.Error(t, err)
	graphErr, ok := grapherr.From(err)
	require.True(t, ok)
	assert.True(t, graphErr.IsSubcategory(grapherr.SubcategoryQueryExecution))
	assert.Equal(t, "MATC (n)", graphErr.Context["query"])

	down := errors.Wrap(errors.ErrServiceUnavailable, "connection refused")
	src = NewSource(&fakeRunner{err: down}, vizt.Logger(t))
	_, err = src.Query(context.Background(), "RETURN 1", nil)
	graphErr, ok = grapherr.From(err)
	require.True(t, ok)
	assert.True(t, graphErr.IsSubcategory(grapherr.SubcategoryQueryConnection))
}

func TestNewExecutorRequiresURI(t *testing.T) {
	_, err := NewExecutor(Config{})
	assert.True(t, errors.IsInvalidRequestError(err))
}
