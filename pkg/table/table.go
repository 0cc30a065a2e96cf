package table

import (
	"strings"
)

// Presence is the literal written into the last column of every row.
const Presence = "Sì"

// Columns is the fixed export header.
var Columns = []string{
	"Nome PDF",
	"Spessore Fasciame",
	"Materiale Fasciame",
	"Spessore Fondo",
	"Materiale Fondo",
	"Libretto",
}

// Row holds what was extracted from one document. Shell is the cylindrical
// body (fasciame), head the end cap (fondo). Only Name is guaranteed.
type Row struct {
	Name string `json:"name"`

	ShellThickness string `json:"shell_thickness"`
	ShellQuality   string `json:"shell_quality"`

	HeadThickness string `json:"head_thickness"`
	HeadQuality   string `json:"head_quality"`
}

// Empty returns the row used for any document that failed.
func Empty(name string) Row {
	return Row{
		Name: name,
	}
}

// IsEmpty reports whether none of the four data fields is set.
func (r Row) IsEmpty() bool {
	return strings.TrimSpace(r.ShellThickness) == "" &&
		strings.TrimSpace(r.ShellQuality) == "" &&
		strings.TrimSpace(r.HeadThickness) == "" &&
		strings.TrimSpace(r.HeadQuality) == ""
}

// Values returns the row in export column order.
func (r Row) Values() []string {
	return []string{
		r.Name,
		r.ShellThickness,
		r.ShellQuality,
		r.HeadThickness,
		r.HeadQuality,
		Presence,
	}
}

// Table is an append-only, ordered list of rows with a single writer.
type Table struct {
	rows []Row
}

func New(capacity int) *Table {
	return &Table{
		rows: make([]Row, 0, capacity),
	}
}

func (t *Table) Append(row Row) {
	t.rows = append(t.rows, row)
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the finalized rows.
func (t *Table) Rows() []Row {
	result := make([]Row, len(t.rows))
	copy(result, t.rows)

	return result
}
