package iox

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrNotFile is returned when the path exists but is not a regular file.
	ErrNotFile = errors.New("iox: not a regular file")
	// ErrUnknownEncoding is returned for text encodings Open cannot decode.
	ErrUnknownEncoding = errors.New("iox: unknown text encoding")
)

// Exists reports whether path names a regular file.
func Exists(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !st.Mode().IsRegular() {
		return &fs.PathError{Op: "open", Path: path, Err: ErrNotFile}
	}
	return nil
}

// Open opens path for reading as UTF-8 text. Files ending in .gz or .zst are
// decompressed, then the content is decoded from enc (empty means UTF-8).
// A leading byte order mark is dropped.
func Open(path, enc string) (io.ReadCloser, error) {
	dec, err := decoder(enc)
	if err != nil {
		return nil, err
	}
	if err := Exists(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := &rc{Reader: f, Closers: []io.Closer{f}}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		r.Reader = gr
		r.Closers = []io.Closer{gr, f}
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd %s: %w", path, err)
		}
		r.Reader = zr
		r.Closers = []io.Closer{zstdCloser{zr}, f}
	}
	r.Reader = transform.NewReader(r.Reader, dec.NewDecoder())
	return r, nil
}

// decoder maps an encoding label to a decoder that also strips a BOM.
func decoder(enc string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "", "utf-8", "utf8", "utf-8-sig":
		return unicode.UTF8BOM, nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), nil
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, enc)
}

type zstdCloser struct{ d *zstd.Decoder }

func (z zstdCloser) Close() error {
	z.d.Close()
	return nil
}

type rc struct {
	io.Reader
	Closers []io.Closer
}

func (r *rc) Close() error {
	var err error
	for i := range r.Closers {
		if e := r.Closers[i].Close(); err == nil && e != nil {
			err = e
		}
	}
	return err
}
