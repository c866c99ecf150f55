// Package keymap provides binding tables for the modal key resolver.
//
// A binding table maps key-sequence strings to command-string templates for
// one mode. Tables are named after the mode they serve ("nmaps" for normal
// mode, "imaps" for insert mode, and so on; see TableName).
//
// # Key Concepts
//
// Keymap: A named table of bindings, optionally inheriting from another table.
//
// Binding: Maps a key sequence to a command template. An empty template
// unbinds the sequence, which lets a table mask an inherited binding.
//
// ParsedKeymap: A keymap with pre-parsed sequences indexed in a prefix tree.
//
// Registry: Holds the tables and per-table key translation settings. It
// implements Source, the boundary the resolver reads tables through.
//
// # Key Sequence Syntax
//
//	"j"           - Single character
//	"gg"          - Multi-key sequence
//	"<C-f>"       - Ctrl+F
//	"<AC-Escape>" - Alt+Ctrl+Escape
//	"<C-w>v"      - Ctrl+W followed by v
//
// # Usage
//
//	registry := keymap.NewRegistry()
//	if err := keymap.LoadDefaults(registry); err != nil {
//	    return err
//	}
//
//	km, err := registry.Keymap(keymap.TableName("normal"))
//	if err != nil {
//	    // No bindings for this mode
//	}
//	if b, ok := km.Lookup(key.ParseSequence("gg")); ok {
//	    // Run b.Command
//	}
package keymap
