// Package filter hides and shows table rows by matching their first cell
// against a search query.
package filter

import "strings"

// Row is one table row. Cells holds the data cells in column order; a row
// with no cells (a header or separator) has no first cell.
type Row struct {
	Cells   []string
	Visible bool
}

// FirstCell returns the row's first cell and whether it has one.
func (r Row) FirstCell() (string, bool) {
	if len(r.Cells) == 0 {
		return "", false
	}
	return r.Cells[0], true
}

// Normalize returns the query in the form it is compared in.
func Normalize(query string) string {
	return strings.ToUpper(query)
}

// Match reports whether cell contains query, ignoring case.
// The empty query matches every cell.
func Match(cell, query string) bool {
	return strings.Contains(Normalize(cell), Normalize(query))
}

// Apply recomputes the visibility of every row from scratch. Rows without
// a first cell are left as they are.
func Apply(rows []Row, query string) {
	for i := range rows {
		cell, ok := rows[i].FirstCell()
		if !ok {
			continue
		}
		rows[i].Visible = Match(cell, query)
	}
}

// Visible returns the visible rows in order.
func Visible(rows []Row) []Row {
	var out []Row
	for _, r := range rows {
		if r.Visible {
			out = append(out, r)
		}
	}
	return out
}

// FromCells builds visible rows from cell slices.
func FromCells(cells [][]string) []Row {
	rows := make([]Row, len(cells))
	for i, c := range cells {
		rows[i] = Row{Cells: c, Visible: true}
	}
	return rows
}
