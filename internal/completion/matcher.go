package completion

import (
	"sort"
	"strings"
)

// Candidate is one completion.
type Candidate struct {
	// Text replaces the word being completed.
	Text string

	// Detail is shown beside the completion: a usage line, a summary or
	// a URL.
	Detail string

	// Key is matched against the typed word instead of Text when set.
	Key string
}

func (c Candidate) key() string {
	if c.Key != "" {
		return c.Key
	}
	return c.Text
}

// Match is a candidate that matched, with its score and the rune indices
// of the matched runes in the candidate's key.
type Match struct {
	Candidate
	Score     int
	Positions []int
}

// Filter returns the candidates matching query, best first, at most limit
// of them when limit is positive. Matching ignores case. An empty query
// matches every candidate in the given order.
func Filter(query string, candidates []Candidate, limit int) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]Match, 0, len(candidates))
		for _, c := range candidates {
			out = append(out, Match{Candidate: c})
		}
		return truncate(out, limit)
	}

	q := []rune(query)
	out := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		if s, pos := matchKey(q, c.key()); s > 0 {
			out = append(out, Match{Candidate: c, Score: s, Positions: pos})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].key() < out[j].key()
	})
	return truncate(out, limit)
}

// matchKey finds the query runes in key with a greedy left-to-right scan.
func matchKey(query []rune, key string) (int, []int) {
	if key == "" {
		return 0, nil
	}
	original := []rune(key)
	text := []rune(strings.ToLower(key))

	positions := make([]int, 0, len(query))
	qi := 0
	for i := 0; i < len(text) && qi < len(query); i++ {
		if text[i] == query[qi] {
			positions = append(positions, i)
			qi++
		}
	}
	if qi != len(query) {
		return 0, nil
	}
	return score(query, original, text, positions), positions
}

func truncate(m []Match, limit int) []Match {
	if limit <= 0 || limit >= len(m) {
		return m
	}
	return m[:limit]
}
