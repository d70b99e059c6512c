package ingest

import "strings"

// NGrams returns every n-gram of tokens with minN <= n <= maxN, joined by a
// single space. Terms are emitted position by position; at one position the
// shorter gram comes first.
func NGrams(tokens []string, minN, maxN int) []string {
	if minN < 1 {
		minN = 1
	}
	if maxN < minN {
		return nil
	}

	var grams []string
	for i := range tokens {
		for n := minN; n <= maxN && i+n <= len(tokens); n++ {
			grams = append(grams, strings.Join(tokens[i:i+n], " "))
		}
	}
	return grams
}

// TermCounts tokenizes text and counts its n-grams. The returned order slice
// lists terms by first appearance.
func (t *Tokenizer) TermCounts(text string, minN, maxN int) (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	for _, g := range NGrams(t.Tokenize(text), minN, maxN) {
		if _, seen := counts[g]; !seen {
			order = append(order, g)
		}
		counts[g]++
	}
	return counts, order
}
