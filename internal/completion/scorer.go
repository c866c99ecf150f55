package completion

import "unicode"

// score rates a match of query against text. positions are the rune
// indices of the matched runes in text; original keeps the case of text
// for boundary detection. Any match scores at least 1.
func score(query, original, text []rune, positions []int) int {
	if len(positions) == 0 {
		return 0
	}

	s := 100

	for i := 1; i < len(positions); i++ {
		if positions[i] == positions[i-1]+1 {
			s += 20
		}
	}
	for _, idx := range positions {
		if isWordBoundary(original, idx) {
			s += 15
		}
	}

	if positions[0] == 0 {
		s += 25
	} else {
		s -= positions[0]
	}
	if len(positions) > 1 {
		if gap := positions[len(positions)-1] - positions[0] - len(positions) + 1; gap > 0 {
			s -= gap * 2
		}
	}

	if n := len(text); n < 20 {
		s += 20 - n
	}
	if hasPrefix(text, query) {
		s += 50
	}

	return max(s, 1)
}

func hasPrefix(text, prefix []rune) bool {
	if len(text) < len(prefix) {
		return false
	}
	for i, r := range prefix {
		if text[i] != r {
			return false
		}
	}
	return true
}

// isWordBoundary reports whether the rune at idx starts a word: the first
// rune, a rune after a separator such as "." or "/", or a camelCase hump.
func isWordBoundary(runes []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	if idx >= len(runes) {
		return false
	}
	prev, cur := runes[idx-1], runes[idx]
	if unicode.IsSpace(prev) || unicode.IsPunct(prev) || unicode.IsSymbol(prev) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(cur)
}
