// Command tabstorm runs the modal command interpreter against an
// in-memory browser.
//
// Without a subcommand it reads keystrokes from the terminal, resolves them
// through the binding tables of the current mode and dispatches the
// resulting commands. The exec, keys, commands and complete subcommands
// expose the same pipeline non-interactively.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	var watch bool

	rootCmd := &cobra.Command{
		Use:   "tabstorm",
		Short: "Modal keystroke command interpreter",
		Long: `tabstorm resolves keystrokes through per-mode binding tables and
dispatches the bound commands to an in-memory browser.

Press Ctrl-C to quit the interactive session.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.watch = watch
			return runInteractive(cmd.Context(), opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "settings file (default: user config dir)")
	flags.BoolVar(&opts.noConfig, "no-config", false, "ignore the settings file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level, overriding the settings file")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	flags.StringVar(&opts.manifest, "manifest", "", "JSON command manifest to add to the command table")
	flags.StringArrayVar(&opts.scripts, "script", nil, "serve a namespace from a Lua script (namespace=file.lua)")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", true, "reload the settings file when it changes")

	rootCmd.AddCommand(
		newExecCmd(opts),
		newKeysCmd(opts),
		newCommandsCmd(opts),
		newCompleteCmd(opts),
	)
	return rootCmd
}
