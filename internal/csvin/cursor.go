// Package csvin reads delimiter-separated files one row at a time.
//
// A Cursor reads the header when it is opened and then advances one line per
// call to Next. Fields are split with csvline, so delimiters inside double
// quotes do not split. Static columns add fixed values to every row.
//
// A Cursor is not safe for concurrent use.
package csvin

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"slices"
	"strings"

	"csvreader/internal/csvline"
	"csvreader/internal/iox"
)

// StaticColumn is a column injected into every row with a fixed value.
type StaticColumn struct {
	Name  string
	Value string
}

// StaticColumns keeps static columns in the order they are appended.
type StaticColumns []StaticColumn

// Options configures how a Cursor reads its source.
type Options struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
	// Static columns are appended to the header and to every row.
	Static StaticColumns
	// Encoding of the input file, see iox.Open. Empty means UTF-8.
	Encoding string
	// Strict stops iteration at the first row whose width differs from the
	// header or whose quotes are unbalanced. Rows are not validated otherwise.
	Strict bool
}

// RowCursor is the capability set consumed by generic tabular readers.
type RowCursor interface {
	Next() bool
	Err() error
	Value(i int) (string, error)
	Name(i int) (string, error)
	Ordinal(name string) (int, error)
	FieldCount() int
}

var _ RowCursor = (*Cursor)(nil)

// Cursor reads one row per Next call from a header-first source.
type Cursor struct {
	src    LineSource
	split  csvline.Splitter
	header []string
	suffix string
	row    []string
	line   int
	strict bool

	closed   bool
	released bool
	done     bool
	err      error
}

// Open opens a comma separated file.
func Open(path string) (*Cursor, error) {
	return OpenWith(path, Options{})
}

// OpenDelimited opens a file whose fields are separated by delim.
func OpenDelimited(path string, delim rune) (*Cursor, error) {
	return OpenWith(path, Options{Delimiter: delim})
}

// OpenStatic opens a comma separated file and appends static to every row.
func OpenStatic(path string, static StaticColumns) (*Cursor, error) {
	return OpenWith(path, Options{Static: static})
}

// OpenWith opens path with opts. It fails with ErrFileNotFound when path does
// not name a readable file.
func OpenWith(path string, opts Options) (*Cursor, error) {
	rc, err := iox.Open(path, opts.Encoding)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) || errors.Is(err, iox.ErrNotFile) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	c, err := New(NewLineReader(rc), opts)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return c, nil
}

// New reads the header from src and returns a Cursor positioned before the
// first row. The Cursor owns src from then on; on error src is left open.
func New(src LineSource, opts Options) (*Cursor, error) {
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}
	split, err := csvline.New(delim)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, delim)
	}
	suffix, err := staticSuffix(opts.Static, delim)
	if err != nil {
		return nil, err
	}

	raw, err := src.ReadLine()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header := csvline.SplitHeader(raw, delim)
	for _, sc := range opts.Static {
		header = append(header, sc.Name)
	}

	return &Cursor{
		src:    src,
		split:  split,
		header: header,
		suffix: suffix,
		line:   1,
		strict: opts.Strict,
	}, nil
}

// staticSuffix renders the text appended to every raw row. A value holding
// the delimiter is quoted. Values holding a quote are rejected: an odd count
// would merge the static columns after them into one field.
func staticSuffix(static StaticColumns, delim rune) (string, error) {
	var b strings.Builder
	d := string(delim)
	for _, sc := range static {
		if strings.Contains(sc.Name, d) || strings.ContainsAny(sc.Name, "\r\n") {
			return "", fmt.Errorf("%w: name %q", ErrInvalidStaticColumn, sc.Name)
		}
		v := sc.Value
		if strings.ContainsRune(v, '"') || strings.ContainsAny(v, "\r\n") {
			return "", fmt.Errorf("%w: value %q of %q", ErrInvalidStaticColumn, sc.Value, sc.Name)
		}
		if strings.Contains(v, d) {
			v = `"` + v + `"`
		}
		if got := csvline.Split(d+v, delim); len(got) != 2 || got[1] != sc.Value {
			return "", fmt.Errorf("%w: value %q of %q", ErrInvalidStaticColumn, sc.Value, sc.Name)
		}
		b.WriteString(d)
		b.WriteString(v)
	}
	return b.String(), nil
}

// Next advances to the next row. It returns false when the source is
// exhausted or released, or after an error; see Err.
func (c *Cursor) Next() bool {
	if c.src == nil || c.released || c.done {
		return false
	}
	raw, err := c.src.ReadLine()
	if err != nil {
		c.done = true
		if err != io.EOF {
			c.err = fmt.Errorf("read line %d: %w", c.line+1, err)
		}
		return false
	}
	c.line++
	raw += c.suffix

	if c.strict && !csvline.Balanced(raw) {
		c.done = true
		c.err = &RowError{Line: c.line, Err: ErrUnbalancedQuotes}
		return false
	}
	row := c.split.Split(raw)
	if c.strict && len(row) != len(c.header) {
		c.done = true
		c.err = &RowError{Line: c.line, Got: len(row), Want: len(c.header), Err: ErrFieldCount}
		return false
	}
	c.row = row
	return true
}

// Err returns the error that ended iteration, or nil at a clean end.
func (c *Cursor) Err() error { return c.err }

// Value returns field i of the current row.
func (c *Cursor) Value(i int) (string, error) {
	if i < 0 || i >= len(c.row) {
		return "", &RangeError{What: "field", Index: i, Len: len(c.row)}
	}
	return c.row[i], nil
}

// Name returns the header name of column i.
func (c *Cursor) Name(i int) (string, error) {
	if i < 0 || i >= len(c.header) {
		return "", &RangeError{What: "column", Index: i, Len: len(c.header)}
	}
	return c.header[i], nil
}

// FieldCount returns the number of header columns. A malformed row may hold
// a different number of fields.
func (c *Cursor) FieldCount() int { return len(c.header) }

// Ordinal returns the position of the first header column whose name equals
// name, ignoring case.
func (c *Cursor) Ordinal(name string) (int, error) {
	for i, h := range c.header {
		if strings.EqualFold(h, name) {
			return i, nil
		}
	}
	return -1, &ColumnNotFoundError{Name: name}
}

// Header returns a copy of the column names.
func (c *Cursor) Header() []string { return slices.Clone(c.header) }

// Row returns a copy of the current row.
func (c *Cursor) Row() []string { return slices.Clone(c.row) }

// Line returns the 1-based source line of the current row; the header is line 1.
func (c *Cursor) Line() int { return c.line }

// Delimiter returns the field delimiter.
func (c *Cursor) Delimiter() rune { return c.split.Delimiter() }

// Close marks the cursor closed. It does not release the source, and the
// current row stays readable.
func (c *Cursor) Close() { c.closed = true }

// IsClosed reports whether Close has been called.
func (c *Cursor) IsClosed() bool { return c.closed }

// Release closes the underlying source. Only the first call has an effect.
func (c *Cursor) Release() error {
	if c.released {
		return nil
	}
	c.released = true
	if c.src == nil {
		return nil
	}
	return c.src.Close()
}

// Use opens path, passes the cursor to fn and releases it on every exit
// path, panics included. A release error is joined with fn's error.
func Use(path string, opts Options, fn func(*Cursor) error) (err error) {
	c, err := OpenWith(path, opts)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := c.Release(); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()
	return fn(c)
}
