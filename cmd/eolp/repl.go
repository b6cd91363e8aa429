package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/sambeau/eol/pkg/eol/format"
	"github.com/sambeau/eol/pkg/eol/parser"
	"github.com/sambeau/eol/pkg/eol/repl"
)

func (a *app) replCmd() *cobra.Command {
	var (
		rule  string
		style string
	)
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "parse eol interactively",
		Long: `
	Reads entries from the terminal and prints their syntax trees. Entries
	with unbalanced brackets continue on the next line. Type :help for the
	REPL's own commands.
	`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if style == "" {
				style = a.cfg.Output.Format
			}
			st, err := format.ParseStyle(style)
			if err != nil {
				return err
			}
			if r := parser.Rule(rule); r != repl.RuleAuto && !isRule(r) {
				return errors.WithHintf(errors.Newf("unknown rule %q", rule),
					"use auto or one of: %s", joinNames(parser.Rules))
			}
			repl.Start(a.stdout, Version, repl.Options{
				Rule:     parser.Rule(rule),
				Format:   st,
				MaxDepth: a.cfg.Parser.MaxDepth,
			})
			return nil
		},
	}
	cmd.Flags().StringVar(&rule, "rule", string(repl.RuleAuto), "entry rule for each entry")
	cmd.Flags().StringVar(&style, "format", "", "output format (default from config)")
	return cmd
}
