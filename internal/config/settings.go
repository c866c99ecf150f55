package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/tabstorm/internal/dispatcher"
	"github.com/dshills/tabstorm/internal/input"
	"github.com/dshills/tabstorm/internal/input/key"
	"github.com/dshills/tabstorm/internal/input/keymap"
	"github.com/dshills/tabstorm/internal/input/mode"
	"github.com/dshills/tabstorm/internal/logging"
)

// Settings is the typed view of the merged configuration.
type Settings struct {
	Logging      LoggingSettings      `toml:"logging"`
	Input        InputSettings        `toml:"input"`
	Dispatch     DispatchSettings     `toml:"dispatch"`
	KeyTranslate KeyTranslateSettings `toml:"keytranslate"`

	// Aliases maps a command word to its expansion.
	Aliases map[string]string `toml:"aliases"`

	// Bindings maps a mode name to key sequence -> command template.
	// An empty template masks an inherited or default binding.
	Bindings map[string]map[string]string `toml:"bindings"`

	// BindingFiles lists JSON or YAML keymap files, relative to the
	// settings file.
	BindingFiles []string `toml:"binding_files"`
}

// LoggingSettings configures the logger.
type LoggingSettings struct {
	Level string `toml:"level"`
}

// InputSettings configures the key resolvers.
type InputSettings struct {
	DefaultMode string `toml:"default_mode"`
	NoMatchBell bool   `toml:"nomatch_bell"`
	MaxPending  int    `toml:"max_pending"`
}

// DispatchSettings configures the command dispatcher.
type DispatchSettings struct {
	// Timeout bounds a single command invocation; "0s" disables it.
	Timeout string `toml:"timeout"`
	// MaxRepeat clamps repeat counts; 0 disables the limit.
	MaxRepeat int `toml:"max_repeat"`
}

// KeyTranslateSettings configures per-mode key translation.
type KeyTranslateSettings struct {
	// Modes lists the modes whose keys are translated.
	Modes []string `toml:"modes"`
	// Map translates single characters to single characters.
	Map map[string]string `toml:"map"`
}

// defaultSettings returns the built-in configuration layer.
func defaultSettings() map[string]any {
	return map[string]any{
		"logging": map[string]any{
			"level": "info",
		},
		"input": map[string]any{
			"default_mode": string(mode.Normal),
			"nomatch_bell": true,
			"max_pending":  int64(input.DefaultMaxPending),
		},
		"dispatch": map[string]any{
			"timeout":    "0s",
			"max_repeat": int64(dispatcher.DefaultConfig().MaxRepeatCount),
		},
		"keytranslate": map[string]any{
			"modes": []any{string(mode.Normal)},
		},
	}
}

// decodeSettings converts a merged configuration map to Settings.
func decodeSettings(data map[string]any) (Settings, error) {
	var s Settings
	b, err := toml.Marshal(data)
	if err != nil {
		return s, fmt.Errorf("encoding settings: %w", err)
	}
	if err := toml.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("decoding settings: %w", err)
	}
	return s, nil
}

// Validate checks every setting and returns the first invalid one.
func (s Settings) Validate() error {
	if _, ok := logging.ParseLevel(s.Logging.Level); !ok {
		return &ValidationError{Path: "logging.level", Message: "unknown log level", Value: s.Logging.Level}
	}

	m, err := mode.ParseName(s.Input.DefaultMode)
	if err != nil {
		return &ValidationError{Path: "input.default_mode", Message: err.Error(), Value: s.Input.DefaultMode}
	}
	if m.IsTransient() {
		return &ValidationError{Path: "input.default_mode", Message: "transient mode", Value: s.Input.DefaultMode}
	}
	if s.Input.MaxPending < 0 {
		return &ValidationError{Path: "input.max_pending", Message: "must not be negative", Value: s.Input.MaxPending}
	}

	if _, err := s.Dispatch.TimeoutDuration(); err != nil {
		return &ValidationError{Path: "dispatch.timeout", Message: err.Error(), Value: s.Dispatch.Timeout}
	}
	if s.Dispatch.MaxRepeat < 0 {
		return &ValidationError{Path: "dispatch.max_repeat", Message: "must not be negative", Value: s.Dispatch.MaxRepeat}
	}

	if err := s.KeyTranslate.TranslateMap().Validate(); err != nil {
		return &ValidationError{Path: "keytranslate.map", Message: err.Error(), Value: s.KeyTranslate.Map}
	}

	for _, name := range sortedNames(s.Aliases) {
		if s.Aliases[name] == "" {
			return &ValidationError{Path: "aliases." + name, Message: "empty expansion", Value: ""}
		}
	}
	return nil
}

// TimeoutDuration parses the dispatch timeout.
func (d DispatchSettings) TimeoutDuration() (time.Duration, error) {
	if d.Timeout == "" {
		return 0, nil
	}
	t, err := time.ParseDuration(d.Timeout)
	if err != nil {
		return 0, err
	}
	if t < 0 {
		return 0, fmt.Errorf("negative duration")
	}
	return t, nil
}

// TranslateMap returns the key translation map.
func (k KeyTranslateSettings) TranslateMap() key.TranslateMap {
	if len(k.Map) == 0 {
		return nil
	}
	m := make(key.TranslateMap, len(k.Map))
	for from, to := range k.Map {
		m[key.Key(from)] = key.Key(to)
	}
	return m
}

// Tables returns the binding table names of the translated modes.
func (k KeyTranslateSettings) Tables() []string {
	tables := make([]string, len(k.Modes))
	for i, m := range k.Modes {
		tables[i] = keymap.TableName(m)
	}
	return tables
}

// LogLevel returns the configured log level, or Info when unset.
func (s Settings) LogLevel() logging.Level {
	if l, ok := logging.ParseLevel(s.Logging.Level); ok {
		return l
	}
	return logging.LevelInfo
}

// ResolverConfig returns the key resolver configuration.
func (s Settings) ResolverConfig(logger *logging.Logger) input.Config {
	cfg := input.DefaultConfig()
	if m, err := mode.ParseName(s.Input.DefaultMode); err == nil && !m.IsTransient() {
		cfg.DefaultMode = m
	}
	cfg.NoMatchIndicator = s.Input.NoMatchBell
	if s.Input.MaxPending > 0 {
		cfg.MaxPending = s.Input.MaxPending
	}
	cfg.Logger = logger
	return cfg
}

// DispatcherConfig returns the dispatcher configuration.
func (s Settings) DispatcherConfig(logger *logging.Logger) dispatcher.Config {
	cfg := dispatcher.DefaultConfig().
		WithAliases(s.Aliases).
		WithMaxRepeatCount(s.Dispatch.MaxRepeat).
		WithLogger(logger)
	if t, err := s.Dispatch.TimeoutDuration(); err == nil && t > 0 {
		cfg = cfg.WithTimeout(t)
	}
	return cfg
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
