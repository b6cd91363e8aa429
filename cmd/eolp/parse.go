package main

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/sambeau/eol/pkg/eol/ast"
	perrors "github.com/sambeau/eol/pkg/eol/errors"
	"github.com/sambeau/eol/pkg/eol/format"
	"github.com/sambeau/eol/pkg/eol/parser"
)

func (a *app) parseCmd() *cobra.Command {
	var (
		eval   string
		rule   string
		style  string
		gzip   bool
		maxDep int
	)
	cmd := &cobra.Command{
		Use:   "parse [files...]",
		Short: "print the syntax tree of eol sources",
		Long: `
	Parses each file (or -e code, or stdin when neither is given) with the
	chosen entry rule and prints its tree. Formats: ` + joinNames(format.Styles) + `.
	`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rule == "" {
				rule = a.cfg.Parser.Entry
			}
			if style == "" {
				style = a.cfg.Output.Format
			}
			if !cmd.Flags().Changed("gzip") {
				gzip = a.cfg.Output.Gzip
			}
			if maxDep == 0 {
				maxDep = a.cfg.Parser.MaxDepth
			}
			st, err := format.ParseStyle(style)
			if err != nil {
				return err
			}
			if !isRule(parser.Rule(rule)) {
				return errors.WithHintf(errors.Newf("unknown rule %q", rule),
					"use one of: %s", joinNames(parser.Rules))
			}

			type input struct{ name, src string }
			var inputs []input
			switch {
			case eval != "":
				inputs = append(inputs, input{"<eval>", eval})
			case len(args) == 0:
				src, err := a.readSource("-")
				if err != nil {
					return err
				}
				inputs = append(inputs, input{"<stdin>", src})
			default:
				for _, path := range args {
					src, err := a.readSource(path)
					if err != nil {
						return err
					}
					inputs = append(inputs, input{path, src})
				}
			}

			failed := false
			for _, in := range inputs {
				node, err := parser.ParseString(parser.Rule(rule), in.src,
					parser.WithFilename(in.name), parser.WithMaxDepth(maxDep))
				if err != nil {
					printParseError(a.stderr, err, in.src)
					failed = true
					continue
				}
				if len(inputs) > 1 && st != format.StyleJSON {
					fmt.Fprintf(a.stdout, "==> %s <==\n", in.name)
				}
				if err := writeTree(a.stdout, node, st, gzip); err != nil {
					return err
				}
			}
			if failed {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&eval, "eval", "e", "", "parse this code instead of files")
	flags.StringVar(&rule, "rule", "", "entry rule: "+joinNames(parser.Rules)+" (default from config)")
	flags.StringVar(&style, "format", "", "output format (default from config)")
	flags.BoolVar(&gzip, "gzip", false, "gzip JSON output")
	flags.IntVar(&maxDep, "max-depth", 0, "nesting limit (default from config)")
	return cmd
}

// writeTree writes a tree, ending text output with a newline.
func writeTree(w io.Writer, n *ast.Node, st format.Style, gzip bool) error {
	if st == format.StyleSource {
		out := format.Source(n)
		if len(out) > 0 && out[len(out)-1] != '\n' {
			out += "\n"
		}
		_, err := io.WriteString(w, out)
		return errors.Wrap(err, "writing output")
	}
	return format.Write(w, n, st, gzip)
}

// printParseError reports a parse error with the offending source line.
func printParseError(w io.Writer, err error, source string) {
	var pe *perrors.ParseError
	if errors.As(err, &pe) {
		fmt.Fprintln(w, pe.PrettyString(source))
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func isRule(r parser.Rule) bool {
	for _, known := range parser.Rules {
		if r == known {
			return true
		}
	}
	return false
}
