package display

import (
	"io"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/teranos/resultviz/errors"
	"github.com/teranos/resultviz/graph"
	"github.com/teranos/resultviz/table"
)

// RenderTable draws a projected table with its header row.
func RenderTable(w io.Writer, result *table.Result) error {
	if result == nil || len(result.Columns) == 0 {
		return nil
	}

	data := make(pterm.TableData, 0, len(result.Rows)+1)
	header := make([]string, len(result.Columns))
	for i, c := range result.Columns {
		header[i] = c.Title
	}
	data = append(data, header)
	for _, row := range result.Rows {
		line := make([]string, len(row))
		for i, cell := range row {
			line[i] = cell.Text
		}
		data = append(data, line)
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	_, err = io.WriteString(w, out+"\n")
	return err
}

// RenderLegend lists node categories and relationship types by count.
func RenderLegend(w io.Writer, legend graph.Legend) error {
	if len(legend.Categories) == 0 && len(legend.RelationshipTypes) == 0 {
		return nil
	}

	data := pterm.TableData{{"Kind", "Name", "Count"}}
	for _, c := range legend.Categories {
		data = append(data, []string{"category", c.Color, strconv.Itoa(c.Count)})
	}
	for _, r := range legend.RelationshipTypes {
		data = append(data, []string{"relationship", r.Type, strconv.Itoa(r.Count)})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render legend")
	}
	_, err = io.WriteString(w, out+"\n")
	return err
}
