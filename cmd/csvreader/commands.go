package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"csvreader/internal/csvin"
	"csvreader/internal/datareader"
	"csvreader/internal/jsonl"
	"csvreader/internal/preview"
)

func (a *app) headerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "header FILE",
		Short: "Print the ordinal and name of every column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			return csvin.Use(args[0], a.opts, func(c *csvin.Cursor) error {
				for i, name := range c.Header() {
					fmt.Fprintf(w, "%d\t%s\n", i, name)
				}
				return nil
			})
		},
	}
}

func (a *app) headCommand() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "head FILE",
		Short: "Show the first rows as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := datareader.Open(args[0], a.opts)
			if err != nil {
				return err
			}
			defer r.Release()
			_, err = preview.Render(cmd.OutOrStdout(), r, n)
			return err
		},
	}
	cmd.Flags().IntVarP(&n, "rows", "n", 10, "number of rows to show (0 for all)")
	return cmd
}

func (a *app) countCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count FILE",
		Short: "Count data rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return csvin.Use(args[0], a.opts, func(c *csvin.Cursor) error {
				var n int64
				for c.Next() {
					n++
				}
				if err := c.Err(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			})
		},
	}
}

func (a *app) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE COLUMN",
		Short: "Print the values of one column, matched without case",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			return csvin.Use(args[0], a.opts, func(c *csvin.Cursor) error {
				i, err := c.Ordinal(args[1])
				if err != nil {
					return err
				}
				for c.Next() {
					v, err := c.Value(i)
					if err != nil && !errors.Is(err, csvin.ErrOutOfRange) {
						return err
					}
					fmt.Fprintln(w, v)
				}
				return c.Err()
			})
		},
	}
}

func (a *app) exportCommand() *cobra.Command {
	var (
		out     string
		limit   int64
		columns []string
	)
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write rows as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return csvin.Use(args[0], a.opts, func(c *csvin.Cursor) error {
				opt := jsonl.Options{Limit: limit}
				for _, name := range columns {
					i, err := c.Ordinal(strings.TrimSpace(name))
					if err != nil {
						return err
					}
					opt.Fields = append(opt.Fields, i)
				}

				var w io.Writer = cmd.OutOrStdout()
				if out != "-" {
					f, err := os.Create(out)
					if err != nil {
						return fmt.Errorf("create output: %w", err)
					}
					defer f.Close()
					w = f
				}

				n, err := jsonl.Export(w, c, opt)
				if err != nil {
					return err
				}
				if out != "-" {
					log.Printf("[OK] exported %d rows to %s", n, out)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output path, - for stdout")
	cmd.Flags().Int64Var(&limit, "limit", 0, "stop after this many rows (0 for all)")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "only these columns, in this order")
	return cmd
}
