package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCommandsCmd(opts *options) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "commands [pattern]",
		Short: "List commands",
		Long: `List the commands of the command table with their usage and summary.
The optional pattern is a glob matched against qualified names ("tab*",
"hint.*"). Hidden commands are listed only with --all.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			program, err := loadProgram(opts.manifest)
			if err != nil {
				return err
			}

			symbols := program.Visible()
			switch {
			case len(args) > 0:
				symbols = program.Find(args[0])
			case all:
				symbols = program.All()
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, s := range symbols {
				usage := s.Qualified() + strings.TrimPrefix(s.Usage(), s.Name)
				fmt.Fprintf(w, "%s\t%s\n", usage, s.Summary())
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include hidden commands")
	return cmd
}
