package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCompleteCmd(opts *options) *cobra.Command {
	var (
		limit int
		setup []string
	)

	cmd := &cobra.Command{
		Use:   "complete <line>",
		Short: "Complete a partial command line",
		Long: `Print completions for the last word of a partially typed command line.
Without a space the command name is completed; after it, arguments with a
closed set of values and tab references are completed. Commands given
with --run are interpreted first, so tabs they open can be completed.`,
		Example: `  tabstorm complete "scroll"
  tabstorm complete "mute t"
  tabstorm complete --run "tabopen example.com" "tab exa"`,
		Args: cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			for _, line := range setup {
				if msg := s.Dispatch(line); msg != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), msg)
				}
			}

			line := strings.Join(args, "")
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, m := range s.completer.Complete(line, limit) {
				fmt.Fprintf(w, "%s\t%s\n", m.Text, m.Detail)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of completions (0 for all)")
	cmd.Flags().StringArrayVar(&setup, "run", nil, "command to interpret before completing (repeatable)")
	return cmd
}
