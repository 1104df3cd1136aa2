package main

import (
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"csvreader/internal/config"
	"csvreader/internal/csvin"
	"csvreader/internal/staticcols"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	delimiter  string
	encoding   string
	static     []string
	staticFile string
	strict     bool
	envFile    string

	cfg  *config.Config
	opts csvin.Options
}

// NewRootCommand builds the csvreader command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "csvreader",
		Short: "Read delimited text files row by row",
		Long: `csvreader reads delimiter-separated files with a header line.

Delimiters inside double quotes do not split fields. Static columns add a
fixed value to every row. Input may be gzip or zstd compressed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			log.SetOutput(cmd.ErrOrStderr())
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.delimiter, "delimiter", "d", ",", `field delimiter, one character ("tab" or \t for tab)`)
	pf.StringVar(&a.encoding, "encoding", "", "input encoding: utf-8, latin1, windows-1252, utf-16, utf-16le, utf-16be")
	pf.StringArrayVar(&a.static, "static", nil, "static column name=value appended to every row (repeatable)")
	pf.StringVar(&a.staticFile, "static-file", "", "YAML or JSON file mapping static column names to values")
	pf.BoolVar(&a.strict, "strict", false, "stop at the first row whose width differs from the header")
	pf.StringVar(&a.envFile, "env-file", ".env", "optional env file with CSV_* and MYSQL_* settings")
	root.MarkFlagsMutuallyExclusive("static", "static-file")

	root.AddCommand(
		a.headerCommand(),
		a.headCommand(),
		a.countCommand(),
		a.getCommand(),
		a.exportCommand(),
		a.loadCommand(),
	)
	return root
}

// setup loads config and resolves reader options. Flags set on the command
// line win over config values.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}
	a.cfg = cfg

	flags := cmd.Flags()
	delim, enc, strict := cfg.Delimiter, cfg.Encoding, cfg.Strict
	if flags.Changed("delimiter") {
		delim = a.delimiter
	}
	if flags.Changed("encoding") {
		enc = a.encoding
	}
	if flags.Changed("strict") {
		strict = a.strict
	}

	d, err := parseDelimiter(delim)
	if err != nil {
		return err
	}
	a.opts = csvin.Options{Delimiter: d, Encoding: enc, Strict: strict}

	switch {
	case a.staticFile != "":
		a.opts.Static, err = staticcols.Load(a.staticFile)
	case len(a.static) > 0:
		a.opts.Static, err = staticcols.Parse(a.static)
	}
	return err
}

func parseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		return 0, fmt.Errorf("%w: want a single character, got %q", csvin.ErrInvalidDelimiter, s)
	}
	return r, nil
}
