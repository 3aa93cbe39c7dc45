package ui

import (
	"fmt"
	"strings"
)

// Column describes one column of a file listing. Numeric columns
// (sizes, counts) set Right so their digits line up.
type Column struct {
	Title string
	Min   int
	Right bool
}

// Table renders rows of file metadata under a dashed header, sized to
// the widest cell in each column.
type Table struct {
	columns []Column
	rows    [][]string
}

// NewTable creates an empty listing with the given columns
func NewTable(columns ...Column) *Table {
	return &Table{columns: columns}
}

// Add appends one row; missing cells render empty
func (t *Table) Add(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render produces the listing text, trailing newline included
func (t *Table) Render() string {
	if len(t.columns) == 0 {
		return ""
	}

	widths := t.widths()

	var b strings.Builder
	b.WriteString(StyleTableHeader.Render(t.line(widths, t.headers())))
	b.WriteByte('\n')

	rule := make([]string, len(t.columns))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}
	b.WriteString(StyleTableBorder.Render(strings.Join(rule, "  ")))
	b.WriteByte('\n')

	for _, row := range t.rows {
		b.WriteString(StyleTableRow.Render(t.line(widths, row)))
		b.WriteByte('\n')
	}
	return b.String()
}

func (t *Table) headers() []string {
	h := make([]string, len(t.columns))
	for i, c := range t.columns {
		h[i] = c.Title
	}
	return h
}

// widths sizes each column to its widest cell, floored at Min
func (t *Table) widths() []int {
	widths := make([]int, len(t.columns))
	for i, c := range t.columns {
		widths[i] = len(c.Title)
		if c.Min > widths[i] {
			widths[i] = c.Min
		}
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	return widths
}

func (t *Table) line(widths []int, cells []string) string {
	parts := make([]string, len(t.columns))
	for i := range t.columns {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if t.columns[i].Right {
			parts[i] = fmt.Sprintf("%*s", widths[i], cell)
		} else {
			parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
	}
	return strings.Join(parts, "  ")
}

// RenderKeyValue renders a key-value pair
func RenderKeyValue(key, value string) string {
	return fmt.Sprintf("%s: %s",
		StyleAccent.Render(key),
		value,
	)
}
