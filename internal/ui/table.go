package ui

import "strings"

// Table renders a spacing-aligned listing without borders. It is
// display-only output; nothing parses it back.
type Table struct {
	titles    []string
	rows      [][]string
	colWidths []int
	padding   int
}

// NewTable creates a table with the given column titles.
func NewTable(titles ...string) *Table {
	t := &Table{
		titles:    titles,
		colWidths: make([]int, len(titles)),
		padding:   2,
	}
	for i, title := range titles {
		t.colWidths[i] = len(title)
	}
	return t
}

// AddRow appends one row; extra cells beyond the title count are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.colWidths))
	for i := 0; i < len(t.colWidths) && i < len(cells); i++ {
		row[i] = cells[i]
		if len(cells[i]) > t.colWidths[i] {
			t.colWidths[i] = len(cells[i])
		}
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// String renders the table, titles first, left-aligned.
func (t *Table) String() string {
	if len(t.rows) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(Header(t.renderRow(t.titles)))
	sb.WriteString("\n")
	for _, row := range t.rows {
		sb.WriteString(t.renderRow(row))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Table) renderRow(cells []string) string {
	var sb strings.Builder
	pad := strings.Repeat(" ", t.padding)
	for i, cell := range cells {
		if i > 0 {
			sb.WriteString(pad)
		}
		sb.WriteString(cell)
		if i < len(cells)-1 {
			sb.WriteString(strings.Repeat(" ", t.colWidths[i]-len(cell)))
		}
	}
	return sb.String()
}
