package datareader

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvreader/internal/csvin"
)

func openReader(t *testing.T, content string) *Reader {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	r, err := Open(path, csvin.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Release() })
	return r
}

func TestReaderSurface(t *testing.T) {
	r := openReader(t, "Header1,Header2\nRow1A,\"Q,A\"\n")

	assert.Equal(t, 0, r.Depth())
	assert.Equal(t, -1, r.RecordsAffected())
	assert.False(t, r.NextResult())
	assert.False(t, r.IsClosed())

	require.True(t, r.Read())

	v, err := r.Item(0)
	require.NoError(t, err)
	assert.Equal(t, "Row1A", v, "indexer returns the field, not a placeholder")

	v, err = r.ItemByName("HEADER2")
	require.NoError(t, err)
	assert.Equal(t, "Q,A", v)

	_, err = r.ItemByName("ZZZZ")
	assert.ErrorIs(t, err, csvin.ErrColumnNotFound)

	_, err = r.Item(5)
	assert.ErrorIs(t, err, csvin.ErrOutOfRange)

	assert.False(t, r.Read())
	assert.False(t, r.NextResult())
}

func TestValues(t *testing.T) {
	r := openReader(t, "a,b,c\n1,2,3\n")
	require.True(t, r.Read())

	short := make([]any, 2)
	assert.Equal(t, 2, r.Values(short))
	assert.Equal(t, []any{"1", "2"}, short)

	long := make([]any, 5)
	assert.Equal(t, 3, r.Values(long))
	assert.Equal(t, []any{"1", "2", "3", nil, nil}, long)
}

func TestTypeDescriptions(t *testing.T) {
	r := openReader(t, "a,b\n1,2\n")

	name, err := r.DataTypeName(1)
	require.NoError(t, err)
	assert.Equal(t, "string", name)

	typ, err := r.FieldType(0)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(""), typ)

	_, err = r.DataTypeName(2)
	assert.ErrorIs(t, err, csvin.ErrOutOfRange)
	_, err = r.FieldType(-1)
	assert.ErrorIs(t, err, csvin.ErrOutOfRange)
}

func TestUnsupportedAccessors(t *testing.T) {
	r := openReader(t, "a\n1\n")
	require.True(t, r.Read())

	calls := map[string]func() error{
		"Bool":        func() error { _, err := r.Bool(0); return err },
		"Byte":        func() error { _, err := r.Byte(0); return err },
		"Char":        func() error { _, err := r.Char(0); return err },
		"GUID":        func() error { _, err := r.GUID(0); return err },
		"Int16":       func() error { _, err := r.Int16(0); return err },
		"Int32":       func() error { _, err := r.Int32(0); return err },
		"Int64":       func() error { _, err := r.Int64(0); return err },
		"Float32":     func() error { _, err := r.Float32(0); return err },
		"Float64":     func() error { _, err := r.Float64(0); return err },
		"Decimal":     func() error { _, err := r.Decimal(0); return err },
		"Time":        func() error { _, err := r.Time(0); return err },
		"IsNull":      func() error { _, err := r.IsNull(0); return err },
		"Bytes":       func() error { _, err := r.Bytes(0, 0, nil); return err },
		"Chars":       func() error { _, err := r.Chars(0, 0, nil); return err },
		"Data":        func() error { _, err := r.Data(0); return err },
		"SchemaTable": func() error { _, err := r.SchemaTable(); return err },
	}
	for op, call := range calls {
		t.Run(op, func(t *testing.T) {
			err := call()
			require.ErrorIs(t, err, ErrNotSupported)
			var ue *UnsupportedError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, op, ue.Op)
			assert.Contains(t, err.Error(), op)
		})
	}
}

func TestCloseKeepsRowReadable(t *testing.T) {
	r := openReader(t, "a\n1\n")
	require.True(t, r.Read())
	r.Close()
	r.Close()
	assert.True(t, r.IsClosed())

	v, err := r.Item(0)
	require.NoError(t, err)
	assert.Equal(t, "1", v)
	assert.Equal(t, "line=2 fields=1 closed=true", r.Describe())

	require.NoError(t, r.Release())
	require.NoError(t, r.Release())
}
