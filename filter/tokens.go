package filter

import "strings"

// tokenize lowercases text and splits it into word tokens, stripping
// punctuation. This is the BM25 tokenizer; the teacher's character-count
// token estimator (cleaner/tokens.go) serves a different purpose (budget
// estimation) and isn't reused here.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	return fields
}

func termFreq(tokens []string) map[string]int {
	freq := make(map[string]int, len(tokens))
	for _, t := range tokens {
		freq[t]++
	}
	return freq
}
