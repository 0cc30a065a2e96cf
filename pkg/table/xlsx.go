package table

import (
	"io"

	"github.com/xuri/excelize/v2"
)

const sheet = "Sheet1"

// WriteXLSX writes a header row followed by one row per document. There is
// no index column.
func (t *Table) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(sheet)

	if err != nil {
		return err
	}

	if err := sw.SetRow("A1", toCells(Columns)); err != nil {
		return err
	}

	for i, row := range t.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)

		if err != nil {
			return err
		}

		if err := sw.SetRow(cell, toCells(row.Values())); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	return f.Write(w)
}

func toCells(values []string) []any {
	result := make([]any, len(values))

	for i, v := range values {
		result[i] = v
	}

	return result
}
