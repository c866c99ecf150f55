package dispatcher

import (
	"time"

	"github.com/dshills/tabstorm/internal/logging"
)

// Config holds dispatcher configuration options.
type Config struct {
	// EnableMetrics enables dispatch timing and statistics collection.
	EnableMetrics bool

	// RecoverFromPanic wraps command execution in panic recovery.
	RecoverFromPanic bool

	// DefaultTimeout bounds each command invocation.
	// Zero means no timeout.
	DefaultTimeout time.Duration

	// MaxRepeatCount limits the iterations of the repeat builtin, nested
	// repeats included. Zero means no limit.
	MaxRepeatCount int

	// Aliases are expanded before lookup.
	Aliases Aliases

	// Logger receives dispatch logs. Nil means no logging.
	Logger *logging.Logger
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableMetrics:    false,
		RecoverFromPanic: true,
		DefaultTimeout:   0,
		MaxRepeatCount:   10000,
	}
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}

// WithTimeout returns a copy of the config with the default timeout set.
func (c Config) WithTimeout(timeout time.Duration) Config {
	c.DefaultTimeout = timeout
	return c
}

// WithMaxRepeatCount returns a copy of the config with the max repeat count set.
func (c Config) WithMaxRepeatCount(max int) Config {
	c.MaxRepeatCount = max
	return c
}

// WithAliases returns a copy of the config with the given aliases.
func (c Config) WithAliases(aliases map[string]string) Config {
	c.Aliases = Aliases(aliases).Clone()
	return c
}

// WithLogger returns a copy of the config with the given logger.
func (c Config) WithLogger(logger *logging.Logger) Config {
	c.Logger = logger
	return c
}
