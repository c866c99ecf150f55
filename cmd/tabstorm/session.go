package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dshills/tabstorm/internal/browser"
	"github.com/dshills/tabstorm/internal/completion"
	"github.com/dshills/tabstorm/internal/config"
	"github.com/dshills/tabstorm/internal/config/notify"
	"github.com/dshills/tabstorm/internal/dispatcher"
	"github.com/dshills/tabstorm/internal/dispatcher/transport"
	"github.com/dshills/tabstorm/internal/input"
	"github.com/dshills/tabstorm/internal/logging"
	"github.com/dshills/tabstorm/internal/metadata"
)

// options holds the flags shared by every subcommand.
type options struct {
	configPath string
	noConfig   bool
	logLevel   string
	logFile    string
	manifest   string
	scripts    []string
	watch      bool
}

// session wires configuration, the key resolver, the dispatcher and the
// browser together.
type session struct {
	ctx        context.Context
	cfg        *config.Config
	browser    *browser.Browser
	resolver   *input.Resolver
	dispatcher *dispatcher.Dispatcher
	completer  *completion.Completer
	logger     *logging.Logger

	levelOverride bool
	closers       []func()
}

func newSession(ctx context.Context, opts *options, logOut io.Writer) (*session, error) {
	logCfg := logging.DefaultConfig()
	logCfg.Output = logOut
	logger := logging.New(logCfg)

	s := &session{logger: logger}
	ready := false
	defer func() {
		if !ready {
			s.Close()
		}
	}()

	if opts.logLevel != "" {
		level, ok := logging.ParseLevel(opts.logLevel)
		if !ok {
			return nil, fmt.Errorf("unknown log level %q", opts.logLevel)
		}
		logger.SetLevel(level)
		s.levelOverride = true
	}

	path := opts.configPath
	if path == "" && !opts.noConfig {
		path = config.DefaultPath()
	}
	s.cfg = config.New(
		config.WithPath(path),
		config.WithWatcher(opts.watch),
		config.WithLogger(logger),
	)
	s.closers = append(s.closers, s.cfg.Close)
	if err := s.cfg.Load(ctx); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	settings := s.cfg.Settings()
	if !s.levelOverride {
		logger.SetLevel(settings.LogLevel())
	}

	program, err := loadProgram(opts.manifest)
	if err != nil {
		return nil, err
	}
	s.dispatcher = dispatcher.New(program, settings.DispatcherConfig(logger).WithMetrics())
	s.dispatcher.RegisterHook(dispatcher.NewLoggingHook(logger))
	if err := browser.Register(s.dispatcher); err != nil {
		return nil, err
	}
	if err := s.loadScripts(ctx, opts.scripts); err != nil {
		return nil, err
	}

	s.browser = browser.New(browser.Config{Logger: logger})
	s.resolver = input.NewResolver(s.cfg.Keymaps(), settings.ResolverConfig(logger))
	s.browser.SetModeController(s.resolver)
	s.ctx = browser.NewContext(ctx, s.browser)

	s.completer = completion.New(program)
	s.completer.Register("tab", s.tabCandidates)
	s.completer.Register("tabclose", s.tabCandidates)

	sub := s.cfg.Subscribe(s.onConfigChange)
	s.closers = append(s.closers, sub.Unsubscribe)
	ready = true
	return s, nil
}

// loadProgram combines the browser commands, the builtins and the
// commands described by an optional manifest.
func loadProgram(manifest string) (*metadata.Program, error) {
	files := append(browser.Program.Files(), dispatcher.Builtins())
	if manifest == "" {
		return metadata.NewProgram(files...), nil
	}
	data, err := os.ReadFile(manifest)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	extra, err := metadata.UnmarshalManifest(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", manifest, err)
	}
	return metadata.NewProgram(append(files, extra...)...), nil
}

// loadScripts starts a Lua context per "namespace=file" spec and routes
// the namespace to it.
func (s *session) loadScripts(ctx context.Context, specs []string) error {
	for _, spec := range specs {
		ns, path, ok := strings.Cut(spec, "=")
		if !ok || ns == "" || path == "" {
			return fmt.Errorf("bad script %q, want namespace=file.lua", spec)
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		lua, err := transport.NewLua(ctx, string(src))
		if err != nil {
			return fmt.Errorf("script %s: %w", path, err)
		}
		s.closers = append(s.closers, lua.Close)
		s.dispatcher.RegisterNamespace(ns, lua)
		s.logger.Info("namespace %s served by %s", ns, path)
	}
	return nil
}

func (s *session) onConfigChange(ch notify.Change) {
	if ch.Type == notify.ChangeReload && !s.levelOverride {
		s.logger.SetLevel(s.cfg.Settings().LogLevel())
	}
}

// tabCandidates offers the 1-based tab indexes, matched on their URLs.
func (s *session) tabCandidates() []completion.Candidate {
	tabs := s.browser.Tabs()
	out := make([]completion.Candidate, 0, len(tabs))
	for i, t := range tabs {
		url := t.URL()
		out = append(out, completion.Candidate{Text: strconv.Itoa(i + 1), Detail: url, Key: url})
	}
	return out
}

// Dispatch runs a command string against the session browser and returns
// the message to show.
func (s *session) Dispatch(cmd string) string {
	return s.dispatcher.Interpret(s.ctx, cmd)
}

// Close releases the session in reverse order of acquisition.
func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
