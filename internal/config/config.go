package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dshills/tabstorm/internal/config/loader"
	"github.com/dshills/tabstorm/internal/config/notify"
	"github.com/dshills/tabstorm/internal/config/watcher"
	"github.com/dshills/tabstorm/internal/input/keymap"
	"github.com/dshills/tabstorm/internal/logging"
)

// maxIncludeDepth bounds nested include directives.
const maxIncludeDepth = 8

// Config is the central configuration store.
//
// Four layers are merged, later layers overriding earlier ones: built-in
// defaults, the settings file (with its includes), TABSTORM_ environment
// variables, and runtime changes made through Set and Bind. The merged
// result is decoded into Settings and applied to the KeymapStore.
//
// Config is safe for concurrent use.
type Config struct {
	mu sync.RWMutex

	path      string
	fs        loader.FileSystem
	envPrefix string

	fileData    map[string]any
	envData     map[string]any
	runtimeData map[string]any

	// runtimeBindings holds Bind calls; key sequences may contain dots
	// and are kept out of the path-addressed layers.
	runtimeBindings map[string]map[string]string

	merged   map[string]any
	settings Settings

	keymaps       *KeymapStore
	keymapLoader  *keymap.Loader
	bindingFiles  []string
	watcher       *watcher.Watcher
	notifier      *notify.Notifier
	logger        *logging.Logger
	enableWatcher bool
	debounce      time.Duration
}

// Option configures a Config.
type Option func(*Config)

// WithPath sets the settings file. An empty path loads defaults and the
// environment only.
func WithPath(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithFileSystem sets the file system the settings file is read from.
func WithFileSystem(fs loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fs
	}
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithWatcher enables reloading when the settings or keymap files change.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// WithDebounce sets the file watcher debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(c *Config) {
		c.debounce = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithKeymaps sets the store configured bindings are applied to.
func WithKeymaps(store *KeymapStore) Option {
	return func(c *Config) {
		c.keymaps = store
	}
}

// DefaultPath returns the settings file under the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tabstorm", "settings.toml")
}

// New creates a configuration store. Call Load before use.
func New(opts ...Option) *Config {
	c := &Config{
		fs:              loader.DefaultFS(),
		envPrefix:       loader.EnvPrefix,
		runtimeData:     make(map[string]any),
		runtimeBindings: make(map[string]map[string]string),
		notifier:        notify.New(),
		keymapLoader:    keymap.NewLoader(),
		debounce:        100 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.keymaps == nil {
		c.keymaps = NewKeymapStore()
	}
	if c.logger == nil {
		c.logger = logging.Null()
	}
	c.logger = c.logger.WithComponent("config")

	return c
}

// Load reads the settings file and environment and applies the result.
// A missing settings file is not an error.
func (c *Config) Load(_ context.Context) error {
	if err := c.Reload(); err != nil {
		return err
	}

	if c.enableWatcher && c.path != "" {
		if err := c.startWatcher(); err != nil {
			return fmt.Errorf("watching config: %w", err)
		}
	}
	return nil
}

// Reload re-reads the settings file and environment. On error the
// previous settings stay in effect.
func (c *Config) Reload() error {
	var fileData map[string]any
	if c.path != "" {
		var err error
		fileData, err = loader.NewTOMLLoaderWithFS(c.fs, c.path).LoadWithIncludes(c.path, maxIncludeDepth)
		if err != nil {
			return err
		}
	}

	envData, err := loader.NewEnvLoader(c.envPrefix).Load()
	if err != nil {
		return err
	}

	c.mu.Lock()
	prevFile, prevEnv := c.fileData, c.envData
	c.fileData, c.envData = fileData, envData
	if err := c.rebuildLocked(); err != nil {
		c.fileData, c.envData = prevFile, prevEnv
		c.mu.Unlock()
		return err
	}
	files := c.bindingFiles
	c.mu.Unlock()

	c.logger.Info("loaded %s (%d keymap files)", c.source(), len(files))
	c.syncWatcher(files)
	c.notifier.NotifyReload(c.source())
	return nil
}

// rebuildLocked merges the layers, decodes and validates the result, and
// applies it to the keymap store. The caller holds c.mu.
func (c *Config) rebuildLocked() error {
	merged := defaultSettings()
	merged = loader.DeepMerge(merged, loader.Clone(c.fileData))
	merged = loader.DeepMerge(merged, loader.Clone(c.envData))
	merged = loader.DeepMerge(merged, loader.Clone(c.runtimeData))

	settings, err := decodeSettings(merged)
	if err != nil {
		return fmt.Errorf("%s: %w", c.source(), err)
	}
	for m, binds := range c.runtimeBindings {
		if settings.Bindings == nil {
			settings.Bindings = make(map[string]map[string]string)
		}
		if settings.Bindings[m] == nil {
			settings.Bindings[m] = make(map[string]string)
		}
		for k, cmd := range binds {
			settings.Bindings[m][k] = cmd
		}
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	files, paths, err := c.loadKeymapFiles(settings.BindingFiles)
	if err != nil {
		return err
	}
	if err := c.keymaps.Apply(settings, files); err != nil {
		return err
	}

	c.merged = merged
	c.settings = settings
	c.bindingFiles = paths
	return nil
}

// loadKeymapFiles loads the JSON and YAML keymap files named in the
// settings, resolved against the settings file directory. They are read
// from the OS file system.
func (c *Config) loadKeymapFiles(names []string) ([]*keymap.Keymap, []string, error) {
	files := make([]*keymap.Keymap, 0, len(names))
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := name
		if !filepath.IsAbs(path) && c.path != "" {
			path = filepath.Join(filepath.Dir(c.path), path)
		}
		km, err := c.keymapLoader.LoadFile(path)
		if err != nil {
			return nil, nil, err
		}
		files = append(files, km)
		paths = append(paths, path)
	}
	return files, paths, nil
}

// Close stops the file watcher and drops all subscriptions.
func (c *Config) Close() {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	if w != nil {
		w.Stop()
	}
	c.notifier.Close()
}

// Settings returns the current typed settings.
func (c *Config) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// Keymaps returns the binding table source.
func (c *Config) Keymaps() *KeymapStore {
	return c.keymaps
}

// Path returns the settings file path.
func (c *Config) Path() string {
	return c.path
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.GetByPath(c.merged, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetStringSlice returns a string slice at the given path.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}

	switch val := v.(type) {
	case []string:
		return val, nil
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
			}
			result[i] = s
		}
		return result, nil
	default:
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
}

// Set changes a setting at runtime. The value is validated with the rest
// of the configuration; an invalid value is rejected and nothing changes.
func (c *Config) Set(path string, value any) error {
	if path == "" || path[0] == '.' || path[len(path)-1] == '.' {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	c.mu.Lock()
	oldValue, _ := loader.GetByPath(c.merged, path)
	prev := loader.Clone(c.runtimeData)
	loader.SetByPath(c.runtimeData, path, value)
	if err := c.rebuildLocked(); err != nil {
		c.runtimeData = prev
		c.mu.Unlock()
		return err
	}
	newValue, _ := loader.GetByPath(c.merged, path)
	c.mu.Unlock()

	c.notifier.NotifySet(path, oldValue, newValue, "user")
	return nil
}

// Bind sets a binding for a mode at runtime. An empty command masks the
// key sequence.
func (c *Config) Bind(mode, keys, command string) error {
	if keys == "" {
		return keymap.ErrEmptyKeys
	}

	c.mu.Lock()
	binds := c.runtimeBindings[mode]
	if binds == nil {
		binds = make(map[string]string)
		c.runtimeBindings[mode] = binds
	}
	old, had := binds[keys]
	binds[keys] = command
	if err := c.rebuildLocked(); err != nil {
		if had {
			binds[keys] = old
		} else {
			delete(binds, keys)
		}
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	c.notifier.NotifySet("bindings."+mode, nil, map[string]any{keys: command}, "user")
	return nil
}

// Unbind masks a key sequence in a mode.
func (c *Config) Unbind(mode, keys string) error {
	return c.Bind(mode, keys, "")
}

// Subscribe registers an observer for all configuration changes.
func (c *Config) Subscribe(observer notify.Observer) *notify.Subscription {
	return c.notifier.Subscribe(observer)
}

// SubscribePath registers an observer for changes to a specific path.
func (c *Config) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return c.notifier.SubscribePath(path, observer)
}

// WatchedFiles returns the files the watcher follows.
func (c *Config) WatchedFiles() []string {
	c.mu.RLock()
	w := c.watcher
	c.mu.RUnlock()
	if w == nil {
		return nil
	}
	return w.WatchedFiles()
}

func (c *Config) source() string {
	if c.path == "" {
		return "<defaults>"
	}
	return c.path
}

func (c *Config) startWatcher() error {
	w, err := watcher.New(
		watcher.WithDebounce(c.debounce),
		watcher.WithErrorHandler(func(err error) {
			c.logger.Warn("watcher: %v", err)
		}),
	)
	if err != nil {
		return err
	}
	if err := w.Watch(c.path); err != nil {
		w.Stop()
		return err
	}
	w.OnChange(c.handleFileChange)

	c.mu.Lock()
	c.watcher = w
	files := c.bindingFiles
	c.mu.Unlock()

	c.syncWatcher(files)
	w.Start()
	return nil
}

// syncWatcher makes the watcher follow the current keymap files.
func (c *Config) syncWatcher(files []string) {
	c.mu.RLock()
	w := c.watcher
	c.mu.RUnlock()
	if w == nil {
		return
	}

	want := make(map[string]bool, len(files)+1)
	for _, f := range append([]string{c.path}, files...) {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		want[abs] = true
		if err := w.Watch(abs); err != nil && !errors.Is(err, watcher.ErrWatcherClosed) {
			c.logger.Warn("watch %s: %v", abs, err)
		}
	}
	for _, f := range w.WatchedFiles() {
		if !want[f] {
			_ = w.Unwatch(f)
		}
	}
}

func (c *Config) handleFileChange(ev watcher.Event) {
	c.logger.Debug("%s: %s", ev.Path, ev.Op)
	if err := c.Reload(); err != nil {
		c.logger.Error("reload failed, keeping previous settings: %v", err)
		c.notifier.NotifyError(ev.Path, err)
	}
}
