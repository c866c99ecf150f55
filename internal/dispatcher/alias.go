package dispatcher

import (
	"fmt"
	"strings"
)

// Aliases maps a command word to the text that replaces it.
type Aliases map[string]string

// Expand replaces the head word of cmd with its alias, repeating until the
// head is not an alias. An alias reached twice is an ErrAliasLoop.
func (a Aliases) Expand(cmd string) (string, error) {
	cmd = strings.TrimSpace(cmd)
	seen := make(map[string]bool)
	for {
		head, rest := SplitHead(cmd)
		repl, ok := a[head]
		if !ok {
			return cmd, nil
		}
		if seen[head] {
			return "", fmt.Errorf("%w: %s", ErrAliasLoop, head)
		}
		seen[head] = true
		cmd = strings.TrimSpace(repl + " " + rest)
	}
}

// Clone returns a copy of a.
func (a Aliases) Clone() Aliases {
	out := make(Aliases, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
