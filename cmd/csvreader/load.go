package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"csvreader/internal/csvin"
	"csvreader/internal/db"
	"csvreader/internal/iox"
	"csvreader/internal/loader"
	"csvreader/internal/lock"
)

func (a *app) loadCommand() *cobra.Command {
	var (
		table    string
		chunk    int
		truncate bool
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "load FILE",
		Short: "Bulk insert rows into a MySQL table",
		Long: `load inserts every row into an existing MySQL table inside one
transaction. Header names must match table columns. A MySQL advisory lock
keeps two loads into the same table from running at once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if !cmd.Flags().Changed("chunk") {
				chunk = cfg.LoadChunk
			}

			if err := iox.Exists(args[0]); err != nil {
				return fmt.Errorf("%w: %s", csvin.ErrFileNotFound, args[0])
			}

			conn, err := db.Open(cfg)
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			defer conn.Close()

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			// GET_LOCK belongs to one session, so hold a dedicated connection.
			sess, err := conn.Conn(ctx)
			if err != nil {
				return err
			}
			defer sess.Close()

			key := lock.Key(table)
			{
				lctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout+time.Duration(cfg.LoadLockTimeout)*time.Second)
				got, err := lock.Get(lctx, sess, key, cfg.LoadLockTimeout)
				cancel()
				if err != nil {
					return fmt.Errorf("GET_LOCK: %w", err)
				}
				if !got {
					return fmt.Errorf("another load into %s is running", table)
				}
				defer func() { _ = lock.Release(context.Background(), sess, key) }()
			}
			log.Printf("[INFO] lock %s acquired", key)

			return csvin.Use(args[0], a.opts, func(c *csvin.Cursor) error {
				{
					qctx, cancel := context.WithTimeout(ctx, cfg.QueryTimeout)
					err := loader.CheckTable(qctx, conn, table, c.Header())
					cancel()
					if err != nil {
						return err
					}
				}
				log.Printf("[INFO] table %s ok, columns=%d", table, c.FieldCount())

				start := time.Now()
				res, err := loader.Load(ctx, conn, c, loader.Options{Table: table, Chunk: chunk, Truncate: truncate})
				if err != nil {
					return fmt.Errorf("load %s: %w", table, err)
				}
				log.Printf("[OK] %s: rows=%d chunks=%d", table, res.Rows, res.Chunks)
				log.Printf("[DONE] load finished in %s", time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "target table, optionally schema.table")
	cmd.Flags().IntVar(&chunk, "chunk", 2000, "rows per INSERT statement (default from LOAD_CHUNK)")
	cmd.Flags().BoolVar(&truncate, "truncate", false, "delete existing rows first, in the same transaction")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "overall time limit (0 for none)")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}
