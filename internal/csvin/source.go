package csvin

import (
	"bufio"
	"io"
	"strings"
)

// LineSource yields one text line per call. ReadLine returns io.EOF once no
// line remains. Close releases whatever backs the source.
type LineSource interface {
	ReadLine() (string, error)
	Close() error
}

type lineReader struct {
	br *bufio.Reader
	c  io.Closer
}

// NewLineReader returns a LineSource over rc. Lines end at "\n" or "\r\n";
// a final line without terminator is still returned.
func NewLineReader(rc io.ReadCloser) LineSource {
	return &lineReader{br: bufio.NewReaderSize(rc, 1<<20), c: rc}
}

func (l *lineReader) ReadLine() (string, error) {
	s, err := l.br.ReadString('\n')
	if err != nil {
		if err == io.EOF && s != "" {
			return strings.TrimSuffix(s, "\r"), nil
		}
		return "", err
	}
	s = s[:len(s)-1]
	return strings.TrimSuffix(s, "\r"), nil
}

func (l *lineReader) Close() error { return l.c.Close() }
