// Package completion offers command-line completions for partially typed
// command strings.
//
// Candidates are filtered with a fuzzy matcher: every rune of the typed word
// must appear in the candidate in order. Scoring favors consecutive runs,
// matches at word boundaries and prefixes, and shorter candidates.
//
// A line without a space completes command names from the command table.
// After the command name, arguments are completed from a source registered
// for the command or, failing that, from the literal alternatives of the
// parameter's declared type:
//
//	c := completion.New(program)
//	c.Register("tab", tabCandidates)
//	c.Complete("mute t", 10) // "mute toggle"
package completion
