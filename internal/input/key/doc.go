// Package key provides keystroke types and key-sequence parsing for the
// input system.
//
// This package defines the fundamental types for representing keyboard input
// as delivered by a browser-style host:
//
//   - Key: a key value such as "j", "J", "Escape" or "ArrowUp"
//   - Modifier: the modifier flags (Alt, Ctrl, Meta, Shift)
//   - Event: a single keystroke with modifiers, physical code and target
//   - Sequence: an ordered series of events forming a binding or a buffer
//
// # Key-Sequence Strings
//
// Bindings are written as key-sequence strings ("mapstrs"). Each plain
// character is one key; a bracket expression names a special key or adds
// modifiers:
//
//   - Plain keys: "j", "gg", "ZZ", ";"
//   - Special keys: "<Escape>", "<ArrowDown>", "<F1>"
//   - With modifiers: "<C-f>", "<A-p>", "<CA-Escape>", "<S-Insert>"
//   - Aliases: "<CR>", "<Esc>", "<Space>", "<Bar>", "<lt>", "<BS>", "<Del>"
//
// Modifier letters and aliases are case-insensitive. A "<" that does not
// open a valid bracket expression stands for itself.
//
// # Matching
//
// Shift is ignored when comparing single-character keys, because the
// character itself already carries it ("J" is "j" with Shift). For every
// other key all four modifier flags must agree.
package key
