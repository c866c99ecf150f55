// Command metagen compiles command declarations into metadata tables.
//
//	//go:generate go run github.com/dshills/tabstorm/cmd/metagen -o zz_metadata.go .
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dshills/tabstorm/internal/logging"
	"github.com/dshills/tabstorm/internal/metagen"
)

// Version information (set via ldflags during build).
var version = "dev"

type options struct {
	out       string
	pkg       string
	varName   string
	namespace string
	manifest  string
	maxFields int
	verbose   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "metagen [flags] <dir|file.go>...",
		Short: "Compile command declarations into metadata tables",
		Long: `metagen reads Go files declaring browser commands and writes a Go file
constructing their metadata.Program, a JSON manifest, or both.`,
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, args)
		},
	}

	def := metagen.DefaultConfig()
	flags := rootCmd.Flags()
	flags.StringVarP(&opts.out, "out", "o", "", "Go output file (stdout when neither --out nor --json is set)")
	flags.StringVarP(&opts.pkg, "pkg", "p", "", "package of the generated file (defaults to $GOPACKAGE or the output directory)")
	flags.StringVar(&opts.varName, "var", "Program", "name of the generated variable")
	flags.StringVarP(&opts.namespace, "namespace", "n", "", "namespace of the compiled commands")
	flags.StringVar(&opts.manifest, "json", "", "write a JSON manifest to this file")
	flags.IntVar(&opts.maxFields, "max-fields", def.MaxObjectFields, "maximum fields kept for a struct type")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")

	return rootCmd
}

func run(opts options, args []string) error {
	logCfg := logging.DefaultConfig()
	logCfg.Output = os.Stderr
	if !opts.verbose {
		logCfg.Level = logging.LevelWarn
	}

	cfg := metagen.DefaultConfig()
	cfg.Namespace = opts.namespace
	cfg.MaxObjectFields = opts.maxFields
	cfg.Logger = logging.New(logCfg)

	c := metagen.New(cfg)
	var sources []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return err
		}
		if info.IsDir() {
			err = c.AddDir(arg)
		} else {
			err = c.AddFile(arg, nil)
		}
		if err != nil {
			return err
		}
		sources = append(sources, filepath.Base(arg))
	}

	files, err := c.Compile()
	if err != nil {
		return err
	}

	if opts.manifest != "" {
		data, err := metagen.GenerateManifest(files)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.manifest, data, 0o644); err != nil {
			return err
		}
		if opts.out == "" {
			return nil
		}
	}

	src, err := metagen.GenerateGo(files, metagen.GoOptions{
		Package: packageName(opts),
		Var:     opts.varName,
		Sources: sources,
	})
	if err != nil {
		return err
	}
	if opts.out == "" {
		_, err = os.Stdout.Write(src)
		return err
	}
	return os.WriteFile(opts.out, src, 0o644)
}

// packageName picks the package clause: the flag, then the package go
// generate runs in, then the output directory name.
func packageName(opts options) string {
	if opts.pkg != "" {
		return opts.pkg
	}
	if pkg := os.Getenv("GOPACKAGE"); pkg != "" {
		return pkg
	}
	dir, err := filepath.Abs(filepath.Dir(opts.out))
	if err != nil {
		return "main"
	}
	return filepath.Base(dir)
}
