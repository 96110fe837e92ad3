// Package table projects tabular query results into fixed-width columns of
// rendered cells for grid widgets.
package table

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// Defaults for a Projector.
const (
	DefaultCharWidth = 8
	DefaultNullText  = "<null>"
	DefaultMaxDepth  = 64
)

// Cell is one rendered table value. Arrays keep their element cells in Items.
type Cell struct {
	Text  string `json:"text"`
	Items []Cell `json:"items,omitempty"`
}

// ColumnSpec describes one output column. Width is the column's share of
// the table in percent.
type ColumnSpec struct {
	Title string  `json:"title"`
	Width float64 `json:"width"`
}

// CSSWidth renders Width as a rounded "NN%" string.
func (c ColumnSpec) CSSWidth() string {
	return fmt.Sprintf("%d%%", int(math.Round(c.Width)))
}

// Result is a projected table: every row holds exactly one cell per column.
type Result struct {
	Columns []ColumnSpec `json:"columns"`
	Rows    [][]Cell     `json:"rows"`
}

// Projector renders rows of values into a sized table.
type Projector struct {
	CharWidth int    // Estimated pixels per character
	NullText  string // Text for missing and null values
	MaxDepth  int    // Nesting beyond this is stringified generically
}

// NewProjector returns a projector with the default settings.
func NewProjector() Projector {
	return Projector{
		CharWidth: DefaultCharWidth,
		NullText:  DefaultNullText,
		MaxDepth:  DefaultMaxDepth,
	}
}

func (p Projector) normalized() Projector {
	if p.CharWidth <= 0 {
		p.CharWidth = DefaultCharWidth
	}
	if p.NullText == "" {
		p.NullText = DefaultNullText
	}
	if p.MaxDepth <= 0 {
		p.MaxDepth = DefaultMaxDepth
	}
	return p
}

// Project renders rows under columns. Column widths start from the title
// length and widen to the longest rendered cell, then are normalised to
// percentages of the total. A row missing a column gets the null cell.
func (p Projector) Project(columns []string, rows []map[string]interface{}) *Result {
	p = p.normalized()

	widths := make([]int, len(columns))
	for i, title := range columns {
		widths[i] = p.CharWidth * utf8.RuneCountInString(title)
	}

	out := &Result{
		Columns: make([]ColumnSpec, len(columns)),
		Rows:    make([][]Cell, len(rows)),
	}
	for r, row := range rows {
		cells := make([]Cell, len(columns))
		for i, column := range columns {
			cells[i] = p.RenderCell(row[column])
			if w := p.CharWidth * utf8.RuneCountInString(cells[i].Text); w > widths[i] {
				widths[i] = w
			}
		}
		out.Rows[r] = cells
	}

	total := 0
	for _, w := range widths {
		total += w
	}
	for i, title := range columns {
		share := 100 / float64(len(columns))
		if total > 0 {
			share = 100 * float64(widths[i]) / float64(total)
		}
		out.Columns[i] = ColumnSpec{Title: title, Width: share}
	}
	return out
}

// Project renders rows with a default Projector.
func Project(columns []string, rows []map[string]interface{}) *Result {
	return NewProjector().Project(columns, rows)
}
