package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/tabstorm/internal/input/key"
	"github.com/dshills/tabstorm/internal/input/mode"
)

func newKeysCmd(opts *options) *cobra.Command {
	var (
		modeName string
		list     bool
	)

	cmd := &cobra.Command{
		Use:   "keys <keys>",
		Short: "Feed a key sequence to the interpreter",
		Long: `Feed a key sequence, written like a binding ("gg", "3j", "<C-f>"), to the
key resolver and dispatch every command it resolves. With --list, print
the bindings that start with the sequence instead.`,
		Example: `  tabstorm keys 3j
  tabstorm keys --list g`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer s.Close()

			if modeName != "" {
				if err := s.resolver.SetModeName(modeName); err != nil {
					return err
				}
			}

			var seq key.Sequence
			if len(args) > 0 {
				seq = key.ParseSequence(args[0])
			}
			out := cmd.OutOrStdout()
			if list {
				return listBindings(out, s, seq)
			}
			if len(seq) == 0 {
				return fmt.Errorf("no keys given")
			}
			return feedKeys(out, s, seq)
		},
	}
	cmd.Flags().StringVarP(&modeName, "mode", "m", "", "mode to start in (default from settings)")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list bindings starting with the keys")
	return cmd
}

func feedKeys(out io.Writer, s *session, seq key.Sequence) error {
	s.resolver.OnCommand(func(cmd string) {
		fmt.Fprintf(out, "%s\n", cmd)
		if msg := s.Dispatch(cmd); msg != "" {
			fmt.Fprintf(out, "  %s\n", msg)
		}
	})
	s.resolver.OnModeChange(func(from, to mode.Mode) {
		fmt.Fprintf(out, "mode %s -> %s\n", from, to)
	})
	s.resolver.OnNoMatch(func(ev key.Event) {
		fmt.Fprintf(out, "no binding for %s\n", ev)
	})

	for _, ev := range seq {
		s.resolver.HandleKeyDown(ev)
	}
	if suffix := s.resolver.Suffix(); suffix != "" {
		fmt.Fprintf(out, "pending %s\n", suffix)
	}
	fmt.Fprintln(out, s.browser.Status())
	return nil
}

func listBindings(out io.Writer, s *session, prefix key.Sequence) error {
	bindings, err := s.cfg.Keymaps().Completions(string(s.resolver.Mode().BindingMode()), prefix)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, b := range bindings {
		fmt.Fprintf(w, "%s\t%s\t%s\n", b.Sequence, b.Command, b.Description)
	}
	return w.Flush()
}
