package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sambeau/eol/pkg/eol/format"
	"github.com/sambeau/eol/pkg/index"
)

// indexFlags are shared by the index subcommands and watch.
type indexFlags struct {
	driver string
	dsn    string
}

func (f *indexFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.driver, "driver", "", "index database driver: sqlite, postgres or mysql (default from config)")
	cmd.Flags().StringVar(&f.dsn, "db", "", "index data source; a file path for sqlite (default from config)")
}

// openIndex connects to the index chosen by flags, falling back to config.
func (a *app) openIndex(f indexFlags) (*index.Index, error) {
	driver, dsn := a.cfg.Index.Driver, a.cfg.Index.DSN
	if f.driver != "" {
		driver = f.driver
	}
	if f.dsn != "" {
		dsn = f.dsn
	}
	a.log.Debug("opening index", zap.String("driver", driver), zap.String("dsn", dsn))
	return index.Open(driver, dsn,
		index.WithLogger(a.log.Named("index")),
		index.WithMaxDepth(a.cfg.Parser.MaxDepth))
}

// roots returns args, or the configured roots when there are none.
func (a *app) roots(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return a.cfg.Index.Roots
}

func (a *app) indexCmd() *cobra.Command {
	var flags indexFlags
	cmd := &cobra.Command{
		Use:   "index [roots...]",
		Short: "index the declarations of eol files under the given roots",
		Long: `
	Scans the roots (default from config) for eol files, parses the new and
	changed ones and records their declarations. Files that no longer exist
	are dropped from the index.
	`,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.openIndex(flags)
			if err != nil {
				return err
			}
			defer idx.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			stats, err := idx.Sync(ctx, a.roots(args), a.cfg.Index.Extensions)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Indexed %d files: %d new, %d changed, %d unchanged, %d deleted (%v)\n",
				stats.Scanned, stats.New, stats.Changed, stats.Unchanged, stats.Deleted,
				stats.Duration.Round(time.Millisecond))

			files, err := idx.Files(ctx)
			if err != nil {
				return err
			}
			invalid := 0
			for _, f := range files {
				if f.Error != "" {
					fmt.Fprintf(a.stderr, "%s: %s\n", f.Path, f.Error)
					invalid++
				}
			}
			if invalid > 0 {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.AddCommand(a.indexQueryCmd(), a.indexTreeCmd(), a.indexStatsCmd())
	return cmd
}

func (a *app) indexQueryCmd() *cobra.Command {
	var (
		flags  indexFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "query <name>",
		Short: "find declarations by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.openIndex(flags)
			if err != nil {
				return err
			}
			defer idx.Close()

			entries, err := idx.Lookup(context.Background(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return errors.Wrap(enc.Encode(entries), "encoding entries")
			}
			if len(entries) == 0 {
				fmt.Fprintf(a.stderr, "no declarations named %q\n", args[0])
				return &exitError{code: 1}
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			for _, e := range entries {
				fmt.Fprintf(tw, "%s:%d\t%s\t%s\n", e.Path, e.Line, e.Kind, e.Signature)
			}
			return tw.Flush()
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}

func (a *app) indexTreeCmd() *cobra.Command {
	var (
		flags indexFlags
		style string
	)
	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "print the stored syntax tree of an indexed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if style == "" {
				style = a.cfg.Output.Format
			}
			st, err := format.ParseStyle(style)
			if err != nil {
				return err
			}
			idx, err := a.openIndex(flags)
			if err != nil {
				return err
			}
			defer idx.Close()

			node, err := idx.Tree(context.Background(), args[0])
			if err != nil {
				return err
			}
			return writeTree(a.stdout, node, st, false)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&style, "format", "", "output format: "+joinNames(format.Styles)+" (default from config)")
	return cmd
}

func (a *app) indexStatsCmd() *cobra.Command {
	var flags indexFlags
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "show index statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.openIndex(flags)
			if err != nil {
				return err
			}
			defer idx.Close()

			s, err := idx.Stats(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "files: %d\ndeclarations: %d\nerrors: %d\n", s.Files, s.Declarations, s.Errors)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
