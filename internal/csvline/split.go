// Package csvline splits single delimiter-separated lines into fields.
//
// Double quotes mark spans in which the delimiter is not a split point.
// After splitting, leading and trailing quotes are trimmed from each field;
// doubled quotes inside a field are left as they are.
package csvline

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const quote = '"'

// ErrInvalidDelimiter is returned for delimiters that cannot separate fields.
var ErrInvalidDelimiter = errors.New("csvline: invalid delimiter")

// ValidDelimiter reports whether delim can be used to split lines.
func ValidDelimiter(delim rune) error {
	switch {
	case delim == quote, delim == '\r', delim == '\n':
		return ErrInvalidDelimiter
	case delim == utf8.RuneError, !utf8.ValidRune(delim):
		return ErrInvalidDelimiter
	}
	return nil
}

// Split returns the fields of line. A delimiter inside a quoted span does
// not split. An empty line yields one empty field.
func Split(line string, delim rune) []string {
	var fields []string
	if delim < utf8.RuneSelf {
		fields = splitBytes(line, byte(delim))
	} else {
		fields = splitRunes(line, delim)
	}
	for i, f := range fields {
		fields[i] = strings.Trim(f, `"`)
	}
	return fields
}

// splitBytes handles ASCII delimiters; an ASCII byte never occurs inside a
// multi-byte UTF-8 sequence, so a byte scan is exact.
func splitBytes(line string, delim byte) []string {
	fields := make([]string, 0, strings.Count(line, string(delim))+1)
	inQuote := false
	start := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case quote:
			inQuote = !inQuote
		case delim:
			if !inQuote {
				fields = append(fields, line[start:i])
				start = i + 1
			}
		}
	}
	return append(fields, line[start:])
}

func splitRunes(line string, delim rune) []string {
	fields := make([]string, 0, 8)
	inQuote := false
	start := 0
	for i, r := range line {
		switch r {
		case quote:
			inQuote = !inQuote
		case delim:
			if !inQuote {
				fields = append(fields, line[start:i])
				start = i + utf8.RuneLen(r)
			}
		}
	}
	return append(fields, line[start:])
}

// Balanced reports whether every quoted span in line is closed.
func Balanced(line string) bool {
	return strings.Count(line, `"`)%2 == 0
}

// SplitHeader splits line on every delimiter, ignoring quotes and keeping
// fields untouched. Header names are expected to be unquoted.
func SplitHeader(line string, delim rune) []string {
	return strings.Split(line, string(delim))
}

// Splitter is a Split bound to one validated delimiter.
type Splitter struct {
	delim rune
}

// New returns a Splitter for delim.
func New(delim rune) (Splitter, error) {
	if err := ValidDelimiter(delim); err != nil {
		return Splitter{}, err
	}
	return Splitter{delim: delim}, nil
}

// Delimiter returns the delimiter the Splitter splits on.
func (s Splitter) Delimiter() rune { return s.delim }

// Split splits line on the Splitter's delimiter.
func (s Splitter) Split(line string) []string { return Split(line, s.delim) }
