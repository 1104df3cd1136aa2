package lock

import (
	"context"
	"database/sql"
)

// Session is the connection holding the lock. MySQL advisory locks belong to
// one session, so callers using a pool should pass a *sql.Conn.
type Session interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Key names the advisory lock guarding loads into table.
func Key(table string) string { return "csvreader_load_" + table }

// Get takes the named MySQL advisory lock, waiting up to timeoutSeconds.
// It reports false when another session holds the lock.
func Get(ctx context.Context, s Session, key string, timeoutSeconds int) (bool, error) {
	var res sql.NullInt64
	if err := s.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", key, timeoutSeconds).Scan(&res); err != nil {
		return false, err
	}
	return res.Valid && res.Int64 == 1, nil
}

func Release(ctx context.Context, s Session, key string) error {
	_, err := s.ExecContext(ctx, "SELECT RELEASE_LOCK(?)", key)
	return err
}
