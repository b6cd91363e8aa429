package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/sambeau/eol/pkg/eol/format"
	"github.com/sambeau/eol/pkg/eol/parser"
)

type fmtOptions struct {
	write bool
	diff  bool
	list  bool
	force bool
}

func (a *app) fmtCmd() *cobra.Command {
	var opts fmtOptions
	cmd := &cobra.Command{
		Use:   "fmt <file>...",
		Short: "format eol source files",
		Long: `
	Regenerates each file from its syntax tree in canonical layout. Comments
	are not part of the tree, so -w refuses to rewrite a file that has any
	unless --force is given.
	`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, path := range args {
				if err := a.formatFile(path, opts); err != nil {
					if !errors.Is(err, errSyntax) {
						fmt.Fprintf(a.stderr, "Error formatting %s: %v\n", path, err)
						for _, hint := range errors.GetAllHints(err) {
							fmt.Fprintf(a.stderr, "  hint: %s\n", hint)
						}
					}
					failed = true
				}
			}
			if failed {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.BoolVarP(&opts.write, "write", "w", false, "write result to source file instead of stdout")
	flags.BoolVarP(&opts.diff, "diff", "d", false, "display diffs instead of rewriting files")
	flags.BoolVarP(&opts.list, "list", "l", false, "list files whose formatting differs")
	flags.BoolVar(&opts.force, "force", false, "rewrite files even if they contain comments")
	return cmd
}

var errSyntax = errors.New("syntax error")

func (a *app) formatFile(path string, opts fmtOptions) error {
	source, err := a.readSource(path)
	if err != nil {
		return err
	}

	module, err := parser.ParseModule(source,
		parser.WithFilename(path), parser.WithMaxDepth(a.cfg.Parser.MaxDepth))
	if err != nil {
		printParseError(a.stderr, err, source)
		return errSyntax
	}

	formatted := format.Source(module)
	changed := formatted != source

	switch {
	case opts.list:
		if changed {
			fmt.Fprintln(a.stdout, path)
		}
	case opts.diff:
		if changed {
			showDiff(a.stdout, path, source, formatted)
		}
	case opts.write:
		if !changed {
			return nil
		}
		if format.HasComments(source) && !opts.force {
			return errors.WithHint(errors.Newf("%s contains comments, which formatting removes", path),
				"use --force to rewrite it anyway")
		}
		info, err := os.Stat(path)
		if err != nil {
			return errors.Wrap(err, "stat")
		}
		if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
			return errors.Wrap(err, "writing file")
		}
	default:
		_, err := io.WriteString(a.stdout, formatted)
		return errors.Wrap(err, "writing output")
	}
	return nil
}

// showDiff displays a simple line-by-line diff between original and
// formatted content
func showDiff(w io.Writer, filename, original, formatted string) {
	fmt.Fprintf(w, "diff %s\n", filename)

	origLines := strings.Split(original, "\n")
	fmtLines := strings.Split(formatted, "\n")

	for i := range max(len(fmtLines), len(origLines)) {
		var origLine, fmtLine string
		if i < len(origLines) {
			origLine = origLines[i]
		}
		if i < len(fmtLines) {
			fmtLine = fmtLines[i]
		}
		if origLine == fmtLine {
			continue
		}
		if origLine != "" {
			fmt.Fprintf(w, "-%d: %s\n", i+1, origLine)
		}
		if fmtLine != "" {
			fmt.Fprintf(w, "+%d: %s\n", i+1, fmtLine)
		}
	}
}
