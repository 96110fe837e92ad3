package table

import (
	"fmt"
	"strings"
)

// Stats are the execution statistics reported with a query result.
type Stats struct {
	Time                 int64 `json:"time"` // Milliseconds
	Rows                 int   `json:"rows"`
	ContainsUpdates      bool  `json:"containsUpdates"`
	NodesCreated         int   `json:"nodesCreated"`
	NodesDeleted         int   `json:"nodesDeleted"`
	RelationshipsCreated int   `json:"relationshipsCreated"`
	RelationshipsDeleted int   `json:"relationshipsDeleted"`
	PropertiesSet        int   `json:"propertiesSet"`
	LabelsAdded          int   `json:"labelsAdded"`
	LabelsRemoved        int   `json:"labelsRemoved"`
}

type count struct {
	n        int
	singular string
	plural   string
}

// Summary renders stats as a one-line report, followed by an update clause
// when the query changed the graph. hasRows is false when the result carried
// no tabular data, which reports "no rows" whatever Rows says.
func Summary(stats Stats, hasRows bool) string {
	rows := 0
	if hasRows {
		rows = stats.Rows
	}
	returned := "no"
	if rows > 0 {
		returned = fmt.Sprint(rows)
	}
	info := fmt.Sprintf("Query took %d ms and returned %s rows. ", stats.Time, returned)

	if !stats.ContainsUpdates {
		return info
	}
	return info + "\nUpdated the graph - " +
		clause("created",
			count{stats.NodesCreated, "node", "nodes"},
			count{stats.RelationshipsCreated, "relationship", "relationships"}) +
		clause("deleted",
			count{stats.NodesDeleted, "node", "nodes"},
			count{stats.RelationshipsDeleted, "relationship", "relationships"}) +
		clause("set",
			count{stats.PropertiesSet, "property", "properties"}) +
		clause("added",
			count{stats.LabelsAdded, "label", "labels"}) +
		clause("removed",
			count{stats.LabelsRemoved, "label", "labels"})
}

// clause joins the non-zero counts as "prefix a, b and c ", or "" if all
// are zero.
func clause(prefix string, counts ...count) string {
	var parts []string
	for _, c := range counts {
		if c.n == 0 {
			continue
		}
		noun := c.singular
		if c.n > 1 {
			noun = c.plural
		}
		parts = append(parts, fmt.Sprintf("%d %s", c.n, noun))
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return prefix + " " + parts[0] + " "
	}
	return prefix + " " + strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1] + " "
}
