// Package viz turns a query response into what a drawing surface needs: the
// selected, coloured sub-graph ready for layout, its legend, and the
// projected result table.
package viz

import (
	"bytes"
	"encoding/json"

	"github.com/teranos/resultviz/errors"
	"github.com/teranos/resultviz/graph"
	grapherr "github.com/teranos/resultviz/graph/error"
	"github.com/teranos/resultviz/table"
)

// Response is the envelope a query backend answers with.
type Response struct {
	Columns       []string                 `json:"columns"`
	JSON          []map[string]interface{} `json:"json"`
	Visualization *graph.Input             `json:"visualization,omitempty"`
	Stats         table.Stats              `json:"stats"`
	Error         string                   `json:"error,omitempty"`
}

// DecodeResponse parses a response envelope. Numbers are kept as json.Number
// so table cells show them exactly as the backend sent them.
func DecodeResponse(data []byte) (*Response, error) {
	var resp Response
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		return nil, grapherr.New(
			grapherr.CategoryParse,
			errors.Wrap(err, "failed to decode query response"),
			"",
		).WithSubcategory(grapherr.SubcategoryParseInvalidJSON)
	}
	return &resp, nil
}
