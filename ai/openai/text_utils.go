package openai

import "strings"

// scrubString normalizes text before it is sent to a model: control
// characters are dropped and runs of whitespace collapse to a single
// space. Punctuation is kept, the snapshots rely on it.
func scrubString(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < ' ' && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
