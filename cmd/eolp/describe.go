package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sambeau/eol/pkg/eol/help"
)

func (a *app) describeCmd() *cobra.Command {
	var (
		asJSON bool
		width  int
	)
	cmd := &cobra.Command{
		Use:   "describe <topic>",
		Short: "describe operators, keywords, statements, node kinds or rules",
		Long: `
	Topics are operators, keywords, statements, kinds and rules. A single
	operator symbol, statement keyword or node kind name is also accepted.
	`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := help.DescribeTopic(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				data, err := help.FormatJSON(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, string(data))
				return nil
			}
			fmt.Fprint(a.stdout, help.FormatText(result, width))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the description as JSON")
	cmd.Flags().IntVar(&width, "width", 80, "wrap text at this width")
	return cmd
}
