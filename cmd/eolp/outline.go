package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/sambeau/eol/pkg/eol/outline"
	"github.com/sambeau/eol/pkg/eol/parser"
)

func (a *app) outlineCmd() *cobra.Command {
	var asHTML, asJSON bool
	cmd := &cobra.Command{
		Use:   "outline <file>",
		Short: "list the imports, models and operations of an eol module",
		Long: `
	Prints a Markdown outline of the module's declarations, or HTML with
	--html, or the raw declarations with --json. Use - to read stdin.
	`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asHTML && asJSON {
				return errors.New("--html and --json are mutually exclusive")
			}
			path := args[0]
			source, err := a.readSource(path)
			if err != nil {
				return err
			}
			module, err := parser.ParseModule(source,
				parser.WithFilename(path), parser.WithMaxDepth(a.cfg.Parser.MaxDepth))
			if err != nil {
				printParseError(a.stderr, err, source)
				return &exitError{code: 1}
			}

			name := path
			if name == "-" {
				name = ""
			}
			o := outline.Extract(name, module)
			switch {
			case asJSON:
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return errors.Wrap(enc.Encode(o), "encoding outline")
			case asHTML:
				html, err := o.HTML()
				if err != nil {
					return err
				}
				_, err = io.WriteString(a.stdout, html)
				return errors.Wrap(err, "writing output")
			default:
				_, err := fmt.Fprint(a.stdout, o.Markdown())
				return errors.Wrap(err, "writing output")
			}
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "render the outline as HTML")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print declarations as JSON")
	return cmd
}
