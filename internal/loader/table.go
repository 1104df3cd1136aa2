package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoDatabase    = errors.New("loader: no database selected")
	ErrTableMissing  = errors.New("loader: target table does not exist")
	ErrColumnMissing = errors.New("loader: target table lacks columns")
)

// CurrentSchema returns the schema selected on the connection (DATABASE()).
func CurrentSchema(ctx context.Context, conn *sql.DB) (string, error) {
	var s sql.NullString
	if err := conn.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&s); err != nil {
		return "", err
	}
	if !s.Valid || s.String == "" {
		return "", ErrNoDatabase
	}
	return s.String, nil
}

// CheckTable verifies that table exists and has a column for every name in
// cols, compared without case as MySQL does.
func CheckTable(ctx context.Context, conn *sql.DB, table string, cols []string) error {
	schema, name := splitTable(table)
	if schema == "" {
		var err error
		if schema, err = CurrentSchema(ctx, conn); err != nil {
			return err
		}
	}

	const q = `
		SELECT COLUMN_NAME
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
	`
	rows, err := conn.QueryContext(ctx, q, schema, name)
	if err != nil {
		return fmt.Errorf("column list query failed: %w", err)
	}
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return fmt.Errorf("scan column failed: %w", err)
		}
		found[strings.ToLower(c)] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(found) == 0 {
		return fmt.Errorf("%w: %s.%s", ErrTableMissing, schema, name)
	}

	var missing []string
	for _, c := range cols {
		if !found[strings.ToLower(c)] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s.%s %v", ErrColumnMissing, schema, name, missing)
	}
	return nil
}

func splitTable(table string) (schema, name string) {
	if i := strings.LastIndexByte(table, '.'); i >= 0 {
		return table[:i], table[i+1:]
	}
	return "", table
}
