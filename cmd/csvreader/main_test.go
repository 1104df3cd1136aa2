package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvreader/internal/csvin"
)

const simple = "Header1,Header2,Header3\nRow1A,Row1B,Row1C\nQuotes,Row2B,\"Q,A\"\nRow3A,Row3B,Row3C\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestHeaderCommand(t *testing.T) {
	path := writeFile(t, "in.csv", simple)

	out, _, err := run(t, "header", path)
	require.NoError(t, err)
	assert.Equal(t, "0\tHeader1\n1\tHeader2\n2\tHeader3\n", out)
}

func TestHeaderWithStaticColumns(t *testing.T) {
	path := writeFile(t, "in.csv", simple)

	out, _, err := run(t, "header", path, "--static", "Source=feed", "--static", "Batch=7")
	require.NoError(t, err)
	assert.Equal(t, "0\tHeader1\n1\tHeader2\n2\tHeader3\n3\tSource\n4\tBatch\n", out)
}

func TestStaticFileCommand(t *testing.T) {
	path := writeFile(t, "in.csv", simple)
	static := writeFile(t, "static.yaml", "Source: feed\n")

	out, _, err := run(t, "get", path, "source", "--static-file", static)
	require.NoError(t, err)
	assert.Equal(t, "feed\nfeed\nfeed\n", out)
}

func TestStaticFlagsAreExclusive(t *testing.T) {
	path := writeFile(t, "in.csv", simple)
	static := writeFile(t, "static.yaml", "Source: feed\n")

	_, _, err := run(t, "count", path, "--static", "a=b", "--static-file", static)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "static-file")
}

func TestCountCommand(t *testing.T) {
	path := writeFile(t, "in.csv", simple)

	out, _, err := run(t, "count", path)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestCountStrict(t *testing.T) {
	path := writeFile(t, "in.csv", "a,b\n1,2\n3\n")

	out, _, err := run(t, "count", path)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	_, _, err = run(t, "count", path, "--strict")
	assert.ErrorIs(t, err, csvin.ErrFieldCount)
}

func TestGetCommand(t *testing.T) {
	path := writeFile(t, "in.csv", simple)

	out, _, err := run(t, "get", path, "HEADER3")
	require.NoError(t, err)
	assert.Equal(t, "Row1C\nQ,A\nRow3C\n", out)

	_, _, err = run(t, "get", path, "Nope")
	assert.ErrorIs(t, err, csvin.ErrColumnNotFound)
}

func TestTabDelimiter(t *testing.T) {
	path := writeFile(t, "in.tsv", "a\tb\n1\t2,3\n")

	out, _, err := run(t, "get", path, "b", "-d", "tab")
	require.NoError(t, err)
	assert.Equal(t, "2,3\n", out)
}

func TestHeadCommand(t *testing.T) {
	path := writeFile(t, "in.csv", simple)

	out, _, err := run(t, "head", path, "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Row1A")
	assert.NotContains(t, out, "Quotes")
	assert.Contains(t, out, "(1 rows)")
}

func TestExportCommand(t *testing.T) {
	path := writeFile(t, "in.csv", simple)

	out, _, err := run(t, "export", path, "--limit", "2", "--columns", "header3,Header1")
	require.NoError(t, err)
	assert.Equal(t, "{\"Header3\":\"Row1C\",\"Header1\":\"Row1A\"}\n{\"Header3\":\"Q,A\",\"Header1\":\"Quotes\"}\n", out)

	dst := filepath.Join(t.TempDir(), "out.jsonl")
	_, logs, err := run(t, "export", path, "-o", dst)
	require.NoError(t, err)
	assert.Contains(t, logs, "[OK] exported 3 rows")

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(b)), "\n"), 3)
}

func TestMissingFile(t *testing.T) {
	_, _, err := run(t, "count", filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, csvin.ErrFileNotFound)
}

func TestLoadRequiresTable(t *testing.T) {
	path := writeFile(t, "in.csv", simple)

	_, _, err := run(t, "load", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table")
}

func TestLoadChecksFileBeforeConnecting(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.csv")

	_, _, err := run(t, "load", missing, "--table", "people")
	assert.ErrorIs(t, err, csvin.ErrFileNotFound)

	_, _, err = run(t, "load", t.TempDir(), "--table", "people")
	assert.ErrorIs(t, err, csvin.ErrFileNotFound)
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{in: ",", want: ','},
		{in: "|", want: '|'},
		{in: "tab", want: '\t'},
		{in: `\t`, want: '\t'},
		{in: "§", want: '§'},
		{in: "", wantErr: true},
		{in: ";;", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDelimiter(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, csvin.ErrInvalidDelimiter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInvalidDelimiterFlag(t *testing.T) {
	path := writeFile(t, "in.csv", simple)

	_, _, err := run(t, "count", path, "-d", `"`)
	assert.ErrorIs(t, err, csvin.ErrInvalidDelimiter)
}
