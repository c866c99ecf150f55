// Package config loads tabstorm settings and binding tables.
//
// Configuration is merged from four layers, each overriding the previous:
//
//  1. Built-in defaults
//  2. The settings file, ~/.config/tabstorm/settings.toml by default,
//     together with the files named by its include key
//  3. TABSTORM_ environment variables
//  4. Runtime changes made with Set and Bind
//
// A settings file looks like:
//
//	include = ["local.toml"]
//	binding_files = ["bindings.yaml"]
//
//	[logging]
//	level = "debug"
//
//	[input]
//	default_mode = "normal"
//	nomatch_bell = true
//
//	[dispatch]
//	timeout = "5s"
//
//	[keytranslate]
//	modes = ["normal", "ignore"]
//	map = { "о" = "j", "л" = "k" }
//
//	[aliases]
//	o = "open"
//
//	[bindings.normal]
//	j = "scrollline 5"
//	"<C-f>" = "scrollpage 1"
//	gt = ""
//
// Binding tables are applied to a KeymapStore, which implements the
// keymap.Source the key resolvers read on every keystroke. With the
// watcher enabled, edits to the settings file or any keymap file are
// reloaded; a file that fails to load leaves the previous settings in
// effect and is reported to subscribers as a notify.ChangeError.
//
// # Environment
//
// TABSTORM_LOG_LEVEL, TABSTORM_DEFAULT_MODE and TABSTORM_BELL map to
// logging.level, input.default_mode and input.nomatch_bell. Any other
// TABSTORM_SECTION_SETTING variable sets section.setting, so
// TABSTORM_DISPATCH_MAX_REPEAT sets dispatch.max_repeat.
//
// # Sub-packages
//
//   - loader: TOML and environment loading, map merging
//   - watcher: fsnotify-based file watching
//   - notify: change notification
package config
