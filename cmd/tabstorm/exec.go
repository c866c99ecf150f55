package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/tabstorm/internal/dispatcher"
)

func newExecCmd(opts *options) *cobra.Command {
	var stats bool

	cmd := &cobra.Command{
		Use:   "exec <command>...",
		Short: "Dispatch command strings",
		Long: `Dispatch each argument as a command string, in order, against a fresh
browser. Messages produced by the commands are printed, followed by the
browser status.`,
		Example: `  tabstorm exec "tabopen example.com" "scrollline 10"
  tabstorm exec "composite echo example.org | clipboard yank; clipboard tabopen"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			for _, line := range args {
				if msg := s.Dispatch(line); msg != "" {
					fmt.Fprintln(out, msg)
				}
			}
			fmt.Fprintln(out, s.browser.Status())

			if stats {
				return printStats(out, s.dispatcher.Metrics())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "print dispatch statistics")
	return cmd
}

// printStats writes the dispatch totals followed by one line per command.
func printStats(out io.Writer, m *dispatcher.Metrics) error {
	snap := m.Snapshot()
	fmt.Fprintf(out, "%d dispatches, %d errors, %d panics, avg %v\n",
		snap.TotalDispatches, snap.TotalErrors, snap.TotalPanics, snap.AverageDuration)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, c := range m.TopCommands(0) {
		fmt.Fprintf(w, "  %s\t%d\t%d errors\t%v\n", c.Name, c.DispatchCount, c.ErrorCount, c.AverageDuration())
	}
	return w.Flush()
}
