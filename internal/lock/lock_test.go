package lock

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name   string
		result any
		want   bool
	}{
		{name: "acquired", result: int64(1), want: true},
		{name: "timeout", result: int64(0), want: false},
		{name: "null", result: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(regexp.QuoteMeta("SELECT GET_LOCK(?, ?)")).
				WithArgs(Key("events"), 10).
				WillReturnRows(sqlmock.NewRows([]string{"GET_LOCK"}).AddRow(tt.result))

			got, err := Get(context.Background(), db, Key("events"), 10)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRelease(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("SELECT RELEASE_LOCK(?)")).
		WithArgs("csvreader_load_events").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Release(context.Background(), db, Key("events")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOnConn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT GET_LOCK(?, ?)")).
		WithArgs(Key("t"), 1).
		WillReturnRows(sqlmock.NewRows([]string{"GET_LOCK"}).AddRow(int64(1)))
	mock.ExpectExec(regexp.QuoteMeta("SELECT RELEASE_LOCK(?)")).
		WithArgs(Key("t")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	conn, err := db.Conn(ctx)
	require.NoError(t, err)
	defer conn.Close()

	got, err := Get(ctx, conn, Key("t"), 1)
	require.NoError(t, err)
	assert.True(t, got)
	require.NoError(t, Release(ctx, conn, Key("t")))
	assert.NoError(t, mock.ExpectationsWereMet())
}
