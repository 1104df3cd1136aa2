// Package loader copies cursor rows into a MySQL table with chunked
// multi-row INSERT statements.
package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"csvreader/internal/csvin"
)

var ErrRowWidth = errors.New("loader: row wider than header")

type Options struct {
	Table string
	// Chunk is the number of rows per INSERT. Zero means 2000.
	Chunk int
	// Truncate deletes existing rows before loading, in the same transaction.
	Truncate bool
}

type Result struct {
	Rows   int64
	Chunks int
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Load reads every remaining row of rows and inserts it into opt.Table inside
// one transaction. Short rows are padded with NULL.
func Load(ctx context.Context, db *sql.DB, rows csvin.RowCursor, opt Options) (Result, error) {
	var res Result
	if opt.Table == "" {
		return res, errors.New("loader: table is required")
	}
	if opt.Chunk <= 0 {
		opt.Chunk = 2000
	}
	cols, err := header(rows)
	if err != nil {
		return res, err
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return res, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if opt.Truncate {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+quoteTable(opt.Table)); err != nil {
			return res, fmt.Errorf("truncate %s: %w", opt.Table, err)
		}
	}

	batch := make([][]any, 0, opt.Chunk)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := bulkInsert(ctx, tx, opt.Table, cols, batch); err != nil {
			return fmt.Errorf("insert rows %d-%d: %w", res.Rows-int64(len(batch))+1, res.Rows, err)
		}
		res.Chunks++
		batch = batch[:0]
		return nil
	}

	for rows.Next() {
		var r []any
		if r, err = rowArgs(rows, len(cols), res.Rows+1); err != nil {
			return res, err
		}
		batch = append(batch, r)
		res.Rows++
		if len(batch) == opt.Chunk {
			if err = flush(); err != nil {
				return res, err
			}
		}
	}
	if err = rows.Err(); err != nil {
		return res, err
	}
	if err = flush(); err != nil {
		return res, err
	}
	if err = tx.Commit(); err != nil {
		return res, err
	}
	return res, nil
}

func header(rows csvin.RowCursor) ([]string, error) {
	cols := make([]string, rows.FieldCount())
	for i := range cols {
		name, err := rows.Name(i)
		if err != nil {
			return nil, err
		}
		cols[i] = name
	}
	return cols, nil
}

func rowArgs(rows csvin.RowCursor, width int, n int64) ([]any, error) {
	out := make([]any, width)
	for i := 0; ; i++ {
		v, err := rows.Value(i)
		if errors.Is(err, csvin.ErrOutOfRange) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if i >= width {
			return nil, fmt.Errorf("%w: row %d has more than %d fields", ErrRowWidth, n, width)
		}
		out[i] = v
	}
}

func bulkInsert(ctx context.Context, db execer, table string, cols []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	pl := "(" + strings.TrimRight(strings.Repeat("?,", len(cols)), ",") + ")"
	valPlace := strings.TrimRight(strings.Repeat(pl+",", len(rows)), ",")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", quoteTable(table), strings.Join(quoted, ","), valPlace)

	args := make([]any, 0, len(rows)*len(cols))
	for _, r := range rows {
		args = append(args, r...)
	}
	_, err := db.ExecContext(ctx, query, args...)
	return err
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// quoteTable quotes a table name that may be qualified as schema.table.
func quoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = quoteIdent(p)
	}
	return strings.Join(parts, ".")
}
