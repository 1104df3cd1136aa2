// Package preview renders the first rows of a reader as a text table.
package preview

import (
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"csvreader/internal/csvin"
	"csvreader/internal/datareader"
)

// Missing is shown for a field the row does not have.
const Missing = "NULL"

// Render writes up to limit rows of r to w and returns how many were shown.
// A limit of zero or less renders every row.
func Render(w io.Writer, r *datareader.Reader, limit int) (int, error) {
	cols := r.FieldCount()
	header := make(table.Row, cols)
	for i := range header {
		name, err := r.Name(i)
		if err != nil {
			return 0, err
		}
		header[i] = name
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)

	n := 0
	for (limit <= 0 || n < limit) && r.Read() {
		row := make(table.Row, cols)
		for i := range row {
			v, err := r.Item(i)
			switch {
			case errors.Is(err, csvin.ErrOutOfRange):
				v = Missing
			case err != nil:
				return n, err
			}
			row[i] = v
		}
		t.AppendRow(row)
		n++
	}
	if err := r.Err(); err != nil {
		return n, err
	}

	if n == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return 0, nil
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", n)
	return n, nil
}
