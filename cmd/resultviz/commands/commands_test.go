package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/resultviz/am"
	"github.com/teranos/resultviz/layout"
)

const movieResponse = `{
  "columns": ["m", "p"],
  "json": [
    {"m": {"_id": 1, "_labels": ["Movie"], "title": "The Matrix"}, "p": {"_id": 2, "_labels": ["Person"], "name": "Keanu"}}
  ],
  "visualization": {
    "nodes": [
      {"id": 1, "title": "The Matrix", "selected": "m"},
      {"id": 2, "name": "Keanu", "selected": "p"},
      {"id": 3, "name": "Carrie", "selected": false}
    ],
    "links": [
      {"source": 1, "target": 0, "type": "ACTED_IN", "selected": true},
      {"source": 2, "target": 0, "type": "ACTED_IN", "selected": false}
    ]
  },
  "stats": {"time": 4, "rows": 1}
}`

func isolate(t *testing.T) string {
	t.Helper()
	am.Reset()
	t.Cleanup(am.Reset)
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{`name="Keanu"`, "limit=25", "raw=hello", "flags=[1,2]"})
	require.NoError(t, err)
	assert.Equal(t, "Keanu", params["name"])
	assert.Equal(t, float64(25), params["limit"])
	assert.Equal(t, "hello", params["raw"])
	assert.Equal(t, []interface{}{float64(1), float64(2)}, params["flags"])

	_, err = parseParams([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseParams([]string{"=1"})
	assert.Error(t, err)
}

func TestReadResponse_BareGraph(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "graph.json", `{"nodes":[{"id":"a"},{"id":"b"}],"links":[{"source":0,"target":1}]}`)

	resp, err := readResponse(&cobra.Command{}, path)
	require.NoError(t, err)
	require.NotNil(t, resp.Visualization)
	assert.Len(t, resp.Visualization.Nodes, 2)
	assert.Empty(t, resp.Columns)
}

func TestReadResponse_Stdin(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(movieResponse))
	resp, err := readResponse(cmd, "-")
	require.NoError(t, err)
	assert.Equal(t, []string{"m", "p"}, resp.Columns)
}

func TestReadResponse_Invalid(t *testing.T) {
	dir := t.TempDir()
	_, err := readResponse(&cobra.Command{}, writeFile(t, dir, "bad.json", "{"))
	assert.Error(t, err)

	_, err = readResponse(&cobra.Command{}, filepath.Join(dir, "absent.json"))
	assert.Error(t, err)
}

func TestLayoutCommand(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "result.json", movieResponse)

	out, err := execute(t, LayoutCmd, path, "--selected", "--seed", "7", "--format", "json")
	require.NoError(t, err)

	var frame layout.Frame
	require.NoError(t, json.Unmarshal([]byte(out), &frame))
	assert.Len(t, frame.Nodes, 2, "only the returned nodes are laid out")
	assert.Len(t, frame.Links, 1)
	assert.Equal(t, layout.Converged, frame.State)
}

func TestLayoutCommand_MalformedGraph(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "bad.json", `{"nodes":[{"id":1}],"links":[{"source":0,"target":5}]}`)

	_, err := execute(t, LayoutCmd, path)
	assert.Error(t, err)
}

func TestTableCommand_FromURL(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(movieResponse))
	}))
	defer srv.Close()

	out, err := execute(t, TableCmd, srv.URL, "--allow-private", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "The Matrix")
}

func TestTableCommand(t *testing.T) {
	dir := isolate(t)
	path := writeFile(t, dir, "result.json", movieResponse)

	out, err := execute(t, TableCmd, path, "--format", "json")
	require.NoError(t, err)

	var got tableOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Table.Columns, 2)
	assert.Equal(t, `Node[1] {"title":"The Matrix"}`, got.Table.Rows[0][0].Text)
	assert.Equal(t, "Query took 4 ms and returned 1 rows. ", got.Summary)
}

func TestAmShowAndGet(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, am.ConfigFileName, "[layout]\ncharge = -42\n\n[neo4j]\npassword = \"secret\"\n")

	out, err := execute(t, AmCmd, "show", "--format", "json")
	require.NoError(t, err)
	var shown map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, float64(-42), shown["layout"]["charge"])
	assert.Equal(t, "********", shown["neo4j"]["password"])

	out, err = execute(t, AmCmd, "get", "layout.charge", "--source")
	require.NoError(t, err)
	assert.Contains(t, out, "-42")
	assert.Contains(t, out, string(am.SourceProject))

	_, err = execute(t, AmCmd, "get", "layout.unknown")
	assert.Error(t, err)
}

func TestAmValidate_Invalid(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, am.ConfigFileName, "[layout]\nfriction = 3\n")

	_, err := execute(t, AmCmd, "validate")
	assert.Error(t, err)
}
