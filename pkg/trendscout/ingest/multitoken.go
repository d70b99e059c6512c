package ingest

import "strings"

// PhraseJoiner joins the words of a recognized phrase into one token.
const PhraseJoiner = "_"

// MultiTokenParser handles recognition of multi-word phrases
type MultiTokenParser struct {
	dict   map[string]DictEntry // lowercased phrase -> entry
	maxLen int
}

// DictEntry represents a dictionary entry for a multi-token phrase
type DictEntry struct {
	Canonical string
	Category  string
	Variants  []string
}

// Token returns the single-token form of the canonical phrase.
func (e DictEntry) Token() string {
	return strings.Join(strings.Fields(strings.ToLower(e.Canonical)), PhraseJoiner)
}

// NewMultiTokenParser creates a new parser with the given dictionary
func NewMultiTokenParser(entries []DictEntry) *MultiTokenParser {
	dict := make(map[string]DictEntry)
	maxLen := 1
	add := func(phrase string, e DictEntry) {
		key := strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
		if key == "" {
			return
		}
		dict[key] = e
		if l := phraseLen(key); l > maxLen {
			maxLen = l
		}
	}
	for _, e := range entries {
		add(e.Canonical, e)
		for _, v := range e.Variants {
			add(v, e)
		}
	}
	return &MultiTokenParser{dict: dict, maxLen: maxLen}
}

// Len returns the number of phrase keys (canonical forms plus variants).
func (p *MultiTokenParser) Len() int {
	return len(p.dict)
}

// Parse applies greedy longest-match to recognize multi-token phrases.
// Matches are replaced by the entry's underscore-joined canonical token.
func (p *MultiTokenParser) Parse(tokens []string) []string {
	result := make([]string, 0, len(tokens))
	i := 0

	for i < len(tokens) {
		matched := ""
		matchLen := 1

		maxPhrase := p.maxLen
		if remaining := len(tokens) - i; maxPhrase > remaining {
			maxPhrase = remaining
		}
		for n := maxPhrase; n >= 2; n-- {
			key := strings.ToLower(strings.Join(tokens[i:i+n], " "))
			if entry, ok := p.dict[key]; ok {
				matched = entry.Token()
				matchLen = n
				break
			}
		}

		if matched != "" {
			result = append(result, matched)
			i += matchLen
			continue
		}

		// Single-token variants ("llm") map to their canonical phrase.
		if entry, ok := p.dict[strings.ToLower(tokens[i])]; ok {
			result = append(result, entry.Token())
		} else {
			result = append(result, tokens[i])
		}
		i++
	}

	return result
}

func phraseLen(phrase string) int {
	if phrase == "" {
		return 1
	}
	return len(strings.Fields(phrase))
}
