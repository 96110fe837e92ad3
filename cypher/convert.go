package cypher

import (
	"sort"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/teranos/resultviz/graph"
	"github.com/teranos/resultviz/table"
	"github.com/teranos/resultviz/viz"
)

// FromEager converts a buffered query result, taking counters from its
// summary when present.
func FromEager(result *neo4j.EagerResult, elapsed time.Duration) *viz.Response {
	stats := table.Stats{Time: elapsed.Milliseconds()}
	if result == nil {
		return Convert(nil, nil, stats)
	}
	if result.Summary != nil {
		if c := result.Summary.Counters(); c != nil {
			stats.ContainsUpdates = c.ContainsUpdates()
			stats.NodesCreated = c.NodesCreated()
			stats.NodesDeleted = c.NodesDeleted()
			stats.RelationshipsCreated = c.RelationshipsCreated()
			stats.RelationshipsDeleted = c.RelationshipsDeleted()
			stats.PropertiesSet = c.PropertiesSet()
			stats.LabelsAdded = c.LabelsAdded()
			stats.LabelsRemoved = c.LabelsRemoved()
		}
	}
	return Convert(result.Keys, result.Records, stats)
}

// Convert builds a response from records: rows of entity maps for the
// table, and the sub-graph of every node and relationship they contain for
// the visualization. Entities are marked selected by the first column that
// returned them directly. Relationships whose endpoints are not both in the
// result are left out of the graph.
func Convert(keys []string, records []*neo4j.Record, stats table.Stats) *viz.Response {
	sg := newSubGraph()
	rows := make([]map[string]interface{}, 0, len(records))

	for _, record := range records {
		row := make(map[string]interface{}, len(record.Keys))
		for i, key := range record.Keys {
			if i >= len(record.Values) {
				break
			}
			value := record.Values[i]
			sg.mark(key, value)
			row[key] = sg.collect(value)
		}
		rows = append(rows, row)
	}

	if keys == nil && len(records) > 0 {
		keys = records[0].Keys
	}
	if keys == nil {
		keys = []string{}
	}
	stats.Rows = len(rows)

	return &viz.Response{
		Columns:       keys,
		JSON:          rows,
		Visualization: sg.input(),
		Stats:         stats,
	}
}

type subGraph struct {
	nodes         map[int64]dbtype.Node
	relationships map[int64]dbtype.Relationship
	selectedNodes map[int64]string
	selectedRels  map[int64]string
}

func newSubGraph() *subGraph {
	return &subGraph{
		nodes:         make(map[int64]dbtype.Node),
		relationships: make(map[int64]dbtype.Relationship),
		selectedNodes: make(map[int64]string),
		selectedRels:  make(map[int64]string),
	}
}

// mark records column as the selector of a directly returned entity.
func (sg *subGraph) mark(column string, value interface{}) {
	switch v := value.(type) {
	case dbtype.Node:
		if _, ok := sg.selectedNodes[v.Id]; !ok {
			sg.selectedNodes[v.Id] = column
		}
	case dbtype.Relationship:
		if _, ok := sg.selectedRels[v.Id]; !ok {
			sg.selectedRels[v.Id] = column
		}
	}
}

// collect adds every entity inside value to the sub-graph and returns the
// table form of value.
func (sg *subGraph) collect(value interface{}) interface{} {
	switch v := value.(type) {
	case dbtype.Node:
		sg.nodes[v.Id] = v
		return nodeCell(v)
	case dbtype.Relationship:
		sg.relationships[v.Id] = v
		return relationshipCell(v)
	case dbtype.Path:
		cells := make([]interface{}, 0, len(v.Nodes)+len(v.Relationships))
		for i, n := range v.Nodes {
			cells = append(cells, sg.collect(n))
			if i < len(v.Relationships) {
				cells = append(cells, sg.collect(v.Relationships[i]))
			}
		}
		return cells
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = sg.collect(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, item := range v {
			out[k] = sg.collect(item)
		}
		return out
	}
	return value
}

func nodeCell(n dbtype.Node) map[string]interface{} {
	cell := make(map[string]interface{}, len(n.Props)+2)
	for k, v := range n.Props {
		cell[k] = v
	}
	cell[table.KeyID] = n.Id
	if len(n.Labels) > 0 {
		cell[table.KeyLabels] = n.Labels
	}
	return cell
}

func relationshipCell(r dbtype.Relationship) map[string]interface{} {
	cell := make(map[string]interface{}, len(r.Props)+2)
	for k, v := range r.Props {
		cell[k] = v
	}
	cell[table.KeyID] = r.Id
	cell[table.KeyType] = r.Type
	return cell
}

// input lays out the sub-graph as a visualization payload: nodes ordered by
// id, links addressing them by position.
func (sg *subGraph) input() *graph.Input {
	nodeIDs := make([]int64, 0, len(sg.nodes))
	for id := range sg.nodes {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Slice(nodeIDs, func(i, j int) bool { return nodeIDs[i] < nodeIDs[j] })

	index := make(map[int64]int, len(nodeIDs))
	in := &graph.Input{
		Nodes: make([]map[string]interface{}, 0, len(nodeIDs)),
		Links: []map[string]interface{}{},
	}
	for i, id := range nodeIDs {
		index[id] = i
		n := sg.nodes[id]
		m := make(map[string]interface{}, len(n.Props)+3)
		for k, v := range n.Props {
			m[k] = v
		}
		m["id"] = n.Id
		m["labels"] = n.Labels
		delete(m, "selected")
		if column, ok := sg.selectedNodes[id]; ok {
			m["selected"] = column
		}
		in.Nodes = append(in.Nodes, m)
	}

	relIDs := make([]int64, 0, len(sg.relationships))
	for id := range sg.relationships {
		relIDs = append(relIDs, id)
	}
	sort.Slice(relIDs, func(i, j int) bool { return relIDs[i] < relIDs[j] })

	for _, id := range relIDs {
		r := sg.relationships[id]
		source, okS := index[r.StartId]
		target, okT := index[r.EndId]
		if !okS || !okT {
			continue
		}
		m := make(map[string]interface{}, len(r.Props)+7)
		for k, v := range r.Props {
			m[k] = v
		}
		m["id"] = r.Id
		m["start"] = r.StartId
		m["end"] = r.EndId
		m["type"] = r.Type
		m["source"] = source
		m["target"] = target
		if !positive(m["weight"]) {
			delete(m, "weight")
		}
		delete(m, "selected")
		if column, ok := sg.selectedRels[id]; ok {
			m["selected"] = column
		}
		in.Links = append(in.Links, m)
	}
	return in
}

// positive reports whether a weight property can serve as a link weight.
func positive(v interface{}) bool {
	switch w := v.(type) {
	case int64:
		return w > 0
	case float64:
		return w > 0
	}
	return false
}
