package csvin

import (
	"errors"
	"fmt"

	"csvreader/internal/csvline"
)

var (
	// ErrFileNotFound is returned when the input path does not name a readable file.
	ErrFileNotFound = errors.New("csvin: file not found")
	// ErrNoHeader is returned when the input has no header line.
	ErrNoHeader = errors.New("csvin: missing header line")
	// ErrColumnNotFound is matched by every *ColumnNotFoundError.
	ErrColumnNotFound = errors.New("csvin: column not found")
	// ErrOutOfRange is matched by every *RangeError.
	ErrOutOfRange = errors.New("csvin: index out of range")
	// ErrInvalidDelimiter aliases the splitter's delimiter error.
	ErrInvalidDelimiter = csvline.ErrInvalidDelimiter
	// ErrInvalidStaticColumn is returned for static columns that would break the header.
	ErrInvalidStaticColumn = errors.New("csvin: invalid static column")
	// ErrFieldCount is reported in strict mode when a row and the header differ in width.
	ErrFieldCount = errors.New("csvin: wrong number of fields")
	// ErrUnbalancedQuotes is reported in strict mode when a quoted span is not closed.
	ErrUnbalancedQuotes = errors.New("csvin: unbalanced quotes")
)

// ColumnNotFoundError reports a failed case-insensitive header lookup.
type ColumnNotFoundError struct {
	Name string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("the column %s could not be found in the results", e.Name)
}

func (e *ColumnNotFoundError) Unwrap() error { return ErrColumnNotFound }

// RangeError reports access outside the header or the current row.
type RangeError struct {
	What  string // "field" or "column"
	Index int
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("csvin: %s index %d out of range [0,%d)", e.What, e.Index, e.Len)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// RowError locates a strict-mode violation.
type RowError struct {
	Line int
	Got  int
	Want int
	Err  error
}

func (e *RowError) Error() string {
	if e.Err == ErrFieldCount {
		return fmt.Sprintf("csvin: line %d: %v: got %d, header has %d", e.Line, e.Err, e.Got, e.Want)
	}
	return fmt.Sprintf("csvin: line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
