package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sambeau/eol/pkg/index"
)

func (a *app) watchCmd() *cobra.Command {
	var flags indexFlags
	cmd := &cobra.Command{
		Use:   "watch [roots...]",
		Short: "keep the index in sync as files change",
		Long: `
	Indexes the roots once, then watches them and re-indexes a root whenever
	its eol files change. Runs until interrupted.
	`,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := a.openIndex(flags)
			if err != nil {
				return err
			}
			defer idx.Close()

			w, err := index.NewWatcher(idx, a.roots(args), a.cfg.Index.Extensions, a.cfg.Index.Debounce)
			if err != nil {
				return err
			}
			defer w.Close()

			w.OnSync = func(root string, stats *index.SyncStats, err error) {
				if err != nil {
					a.log.Error("sync failed", zap.String("root", root), zap.Error(err))
					fmt.Fprintf(a.stderr, "%s: %v\n", root, err)
					return
				}
				if stats.New+stats.Changed+stats.Deleted == 0 {
					return
				}
				fmt.Fprintf(a.stdout, "%s: %d new, %d changed, %d deleted, %d invalid\n",
					root, stats.New, stats.Changed, stats.Deleted, stats.Invalid)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintln(a.stderr, "Watching for changes (Ctrl+C to stop)")
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
