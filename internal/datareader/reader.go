// Package datareader exposes a csvin.Cursor through a generic data reader
// surface: result-set navigation, indexers and typed accessors.
//
// Every value is text. Typed accessors, nested readers and schema tables
// are not available and fail with ErrNotSupported.
package datareader

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"csvreader/internal/csvin"
)

// ErrNotSupported is matched by every *UnsupportedError.
var ErrNotSupported = errors.New("datareader: not supported")

// UnsupportedError names the accessor that was called.
type UnsupportedError struct {
	Op string
}

func (e *UnsupportedError) Error() string { return "datareader: " + e.Op + " not supported" }

func (e *UnsupportedError) Unwrap() error { return ErrNotSupported }

func unsupported(op string) error { return &UnsupportedError{Op: op} }

var stringType = reflect.TypeOf("")

// Reader adds the data reader surface on top of a cursor it owns.
type Reader struct {
	*csvin.Cursor
}

func New(c *csvin.Cursor) *Reader { return &Reader{Cursor: c} }

// Open opens path as a Reader.
func Open(path string, opts csvin.Options) (*Reader, error) {
	c, err := csvin.OpenWith(path, opts)
	if err != nil {
		return nil, err
	}
	return New(c), nil
}

// Read advances to the next row.
func (r *Reader) Read() bool { return r.Next() }

// Depth is always zero; rows do not nest.
func (r *Reader) Depth() int { return 0 }

// RecordsAffected is -1: reading changes nothing.
func (r *Reader) RecordsAffected() int { return -1 }

// NextResult reports false; a file holds a single result set.
func (r *Reader) NextResult() bool { return false }

// Item returns field i of the current row.
func (r *Reader) Item(i int) (any, error) {
	return r.Value(i)
}

// ItemByName returns the field of the column called name, ignoring case.
func (r *Reader) ItemByName(name string) (any, error) {
	i, err := r.Ordinal(name)
	if err != nil {
		return nil, err
	}
	return r.Item(i)
}

// Values copies the current row into dst and returns how many fields were copied.
func (r *Reader) Values(dst []any) int {
	row := r.Row()
	n := min(len(dst), len(row))
	for i := 0; i < n; i++ {
		dst[i] = row[i]
	}
	return n
}

// DataTypeName names the type of column i as stored in the source.
func (r *Reader) DataTypeName(i int) (string, error) {
	if _, err := r.Name(i); err != nil {
		return "", err
	}
	return "string", nil
}

// FieldType returns the Go type of values in column i.
func (r *Reader) FieldType(i int) (reflect.Type, error) {
	if _, err := r.Name(i); err != nil {
		return nil, err
	}
	return stringType, nil
}

func (r *Reader) Bool(int) (bool, error)       { return false, unsupported("Bool") }
func (r *Reader) Byte(int) (byte, error)       { return 0, unsupported("Byte") }
func (r *Reader) Char(int) (rune, error)       { return 0, unsupported("Char") }
func (r *Reader) GUID(int) ([16]byte, error)   { return [16]byte{}, unsupported("GUID") }
func (r *Reader) Int16(int) (int16, error)     { return 0, unsupported("Int16") }
func (r *Reader) Int32(int) (int32, error)     { return 0, unsupported("Int32") }
func (r *Reader) Int64(int) (int64, error)     { return 0, unsupported("Int64") }
func (r *Reader) Float32(int) (float32, error) { return 0, unsupported("Float32") }
func (r *Reader) Float64(int) (float64, error) { return 0, unsupported("Float64") }
func (r *Reader) Decimal(int) (string, error)  { return "", unsupported("Decimal") }
func (r *Reader) Time(int) (time.Time, error)  { return time.Time{}, unsupported("Time") }
func (r *Reader) IsNull(int) (bool, error)     { return false, unsupported("IsNull") }

func (r *Reader) Bytes(i int, offset int64, buf []byte) (int64, error) {
	return 0, unsupported("Bytes")
}

func (r *Reader) Chars(i int, offset int64, buf []rune) (int64, error) {
	return 0, unsupported("Chars")
}

// Data would return a nested reader for column i.
func (r *Reader) Data(int) (*Reader, error) { return nil, unsupported("Data") }

// SchemaTable would describe the columns as a table.
func (r *Reader) SchemaTable() ([][]any, error) { return nil, unsupported("SchemaTable") }

// Describe renders the reader position for logs.
func (r *Reader) Describe() string {
	return fmt.Sprintf("line=%d fields=%d closed=%v", r.Line(), r.FieldCount(), r.IsClosed())
}
