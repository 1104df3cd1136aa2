// Package jsonl exports cursor rows as JSON lines, one object per row.
package jsonl

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/bytedance/sonic"

	"csvreader/internal/csvin"
)

// ExtraKey holds the fields a row has beyond the header, as a JSON array.
const ExtraKey = "_extra"

type Options struct {
	// Limit stops after this many rows. Zero means no limit.
	Limit int64
	// Fields restricts the output to these column ordinals, in this order.
	Fields []int
}

// Export writes every remaining row of rows to w. Keys follow header order.
// A field the row lacks is written as null.
func Export(w io.Writer, rows csvin.RowCursor, opt Options) (int64, error) {
	fields := opt.Fields
	if len(fields) == 0 {
		fields = make([]int, rows.FieldCount())
		for i := range fields {
			fields[i] = i
		}
	}
	keys := make([][]byte, len(fields))
	for i, f := range fields {
		name, err := rows.Name(f)
		if err != nil {
			return 0, err
		}
		if keys[i], err = sonic.Marshal(name); err != nil {
			return 0, err
		}
	}
	extras := len(opt.Fields) == 0

	bw := bufio.NewWriterSize(w, 1<<20)
	var n int64
	for (opt.Limit == 0 || n < opt.Limit) && rows.Next() {
		if err := writeRow(bw, rows, fields, keys, extras); err != nil {
			return n, fmt.Errorf("row %d: %w", n+1, err)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, err
	}
	return n, bw.Flush()
}

func writeRow(w *bufio.Writer, rows csvin.RowCursor, fields []int, keys [][]byte, extras bool) error {
	w.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.Write(keys[i])
		w.WriteByte(':')
		v, err := rows.Value(f)
		switch {
		case errors.Is(err, csvin.ErrOutOfRange):
			w.WriteString("null")
			continue
		case err != nil:
			return err
		}
		b, err := sonic.Marshal(v)
		if err != nil {
			return err
		}
		w.Write(b)
	}

	if extras {
		var extra []string
		for i := len(fields); ; i++ {
			v, err := rows.Value(i)
			if err != nil {
				break
			}
			extra = append(extra, v)
		}
		if len(extra) > 0 {
			b, err := sonic.Marshal(extra)
			if err != nil {
				return err
			}
			if len(fields) > 0 {
				w.WriteByte(',')
			}
			w.WriteString(`"` + ExtraKey + `":`)
			w.Write(b)
		}
	}

	w.WriteByte('}')
	_, err := w.WriteString("\n")
	return err
}
