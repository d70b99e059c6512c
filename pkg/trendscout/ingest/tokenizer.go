package ingest

import (
	"strings"
	"unicode"
)

// Tokenizer handles text tokenization and normalization
type Tokenizer struct {
	stopwords   map[string]struct{}
	phrases     *MultiTokenParser // Optional: merges dictionary phrases into one token
	keepNumbers bool
}

// NewTokenizer creates a new tokenizer with the given stopword list
func NewTokenizer(stopwords []string) *Tokenizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stopwords: stops}
}

// SetPhrases assigns a phrase dictionary. When set, known multi-word phrases
// are collapsed into a single underscore-joined token before stopwords are
// removed, so "state of the art" survives as "state_of_the_art".
func (t *Tokenizer) SetPhrases(p *MultiTokenParser) {
	t.phrases = p
}

// SetKeepNumbers controls whether number-only tokens such as "2024" are
// emitted. They are dropped by default.
func (t *Tokenizer) SetKeepNumbers(keep bool) {
	t.keepNumbers = keep
}

// Tokenize splits text into normalized tokens, removing stopwords.
func (t *Tokenizer) Tokenize(text string) []string {
	words := splitWords(text)
	if t.phrases != nil {
		words = t.phrases.Parse(words)
	}

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if word := t.processToken(w); word != "" {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

// splitWords lowercases text and cuts it on anything that is not a letter,
// digit, hyphen or underscore.
func splitWords(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '_' {
			current.WriteRune(unicode.ToLower(r))
			continue
		}
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}

// processToken applies cleaning and stopword filtering.
func (t *Tokenizer) processToken(token string) string {
	word := cleanToken(token)
	if word == "" || len([]rune(word)) <= 1 {
		return ""
	}

	// Mixed tokens like "gpt-4" or "python3" are kept.
	if !t.keepNumbers && isNumericOnly(word) {
		return ""
	}

	if t.IsStopword(word) {
		return ""
	}
	return word
}

// cleanToken strips leading/trailing separators and collapses repeated hyphens
func cleanToken(token string) string {
	token = strings.Trim(token, "-_")
	for strings.Contains(token, "--") {
		token = strings.ReplaceAll(token, "--", "-")
	}
	return token
}

// isNumericOnly returns true if the token contains only digits and hyphens.
func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}

// IsStopword reports whether word is filtered by this tokenizer.
func (t *Tokenizer) IsStopword(word string) bool {
	_, ok := t.stopwords[strings.ToLower(word)]
	return ok
}

// AddStopword adds a word to the stopword list
func (t *Tokenizer) AddStopword(word string) {
	t.stopwords[strings.ToLower(word)] = struct{}{}
}

// RemoveStopword removes a word from the stopword list
func (t *Tokenizer) RemoveStopword(word string) {
	delete(t.stopwords, strings.ToLower(word))
}
