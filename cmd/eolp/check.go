package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	perrors "github.com/sambeau/eol/pkg/eol/errors"
	"github.com/sambeau/eol/pkg/eol/parser"
)

// checkResult is the outcome of checking one file.
type checkResult struct {
	source string
	ioErr  error
	err    error
}

func (a *app) checkCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "check eol files for syntax errors",
		Long: `
	Parses every file as a module, several at a time. Exits with status 1 if
	any file has a syntax error and 2 if any file could not be read.
	`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]checkResult, len(args))
			var g errgroup.Group
			g.SetLimit(runtime.GOMAXPROCS(0))
			for i, path := range args {
				g.Go(func() error {
					data, err := os.ReadFile(path)
					if err != nil {
						results[i].ioErr = err
						return nil
					}
					results[i].source = string(data)
					_, results[i].err = parser.ParseModule(string(data),
						parser.WithFilename(path), parser.WithMaxDepth(a.cfg.Parser.MaxDepth))
					return nil
				})
			}
			g.Wait()

			code := 0
			for i, r := range results {
				switch {
				case r.ioErr != nil:
					fmt.Fprintf(a.stderr, "Error reading %s: %v\n", args[i], r.ioErr)
					code = 2
				case r.err != nil:
					if jsonOut {
						if err := printJSONError(a, r.err); err != nil {
							return err
						}
					} else {
						printParseError(a.stderr, r.err, r.source)
					}
					if code == 0 {
						code = 1
					}
				default:
					a.log.Debug("ok", zap.String("path", args[i]))
				}
			}
			if code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print syntax errors as JSON lines on stdout")
	return cmd
}

func printJSONError(a *app, err error) error {
	var pe *perrors.ParseError
	if !errors.As(err, &pe) {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return nil
	}
	data, jerr := pe.ToJSON()
	if jerr != nil {
		return errors.Wrap(jerr, "encoding error")
	}
	fmt.Fprintln(a.stdout, string(data))
	return nil
}
