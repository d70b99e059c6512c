package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/trendscout/pkg/trendscout/internalerr"
)

// Stoplist is the extra stop-word file: {terms: [...]}.
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist reads a stoplist file. Terms come back lowercased and trimmed,
// without blanks or repeats, in file order.
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrInvalidConfig, err)
	}

	var raw Stoplist
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, internalerr.ErrInvalidConfig, err)
	}

	sl := &Stoplist{Terms: make([]string, 0, len(raw.Terms))}
	seen := make(map[string]struct{}, len(raw.Terms))
	for _, term := range raw.Terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		sl.Terms = append(sl.Terms, term)
	}
	return sl, nil
}

// Dict is a phrase dictionary: multi-word topics and the spellings that
// should count as them.
type Dict struct {
	Entries []DictEntry
}

// DictEntry is one canonical phrase
type DictEntry struct {
	Canonical string
	Variants  []string
	Category  string
}

// LoadDict reads a phrase dictionary, one entry per line:
//
//	canonical|variant1|variant2|category
//
// Blank lines and # comments are ignored. Every entry needs a canonical
// phrase and a category. A canonical repeated under the same category merges
// its variants into the first entry; under a different category it is an
// error. Errors carry the 1-based line number.
func LoadDict(path string) (*Dict, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrInvalidConfig, err)
	}

	dict := &Dict{Entries: []DictEntry{}}
	index := make(map[string]int)
	for n, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseDictLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w: %w", path, n+1, internalerr.ErrInvalidConfig, err)
		}

		i, dup := index[entry.Canonical]
		if !dup {
			index[entry.Canonical] = len(dict.Entries)
			dict.Entries = append(dict.Entries, entry)
			continue
		}
		prev := &dict.Entries[i]
		if prev.Category != entry.Category {
			return nil, fmt.Errorf("%s:%d: %w: %q already listed under category %q",
				path, n+1, internalerr.ErrInvalidConfig, entry.Canonical, prev.Category)
		}
		prev.Variants = mergeVariants(prev.Variants, entry.Variants)
	}

	return dict, nil
}

func parseDictLine(line string) (DictEntry, error) {
	parts := strings.Split(line, "|")
	if len(parts) < 2 {
		return DictEntry{}, fmt.Errorf("want canonical|variants...|category, got %q", line)
	}
	for i := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(parts[i]))
	}

	entry := DictEntry{
		Canonical: parts[0],
		Category:  parts[len(parts)-1],
	}
	if entry.Canonical == "" {
		return DictEntry{}, fmt.Errorf("empty canonical phrase")
	}
	if entry.Category == "" {
		return DictEntry{}, fmt.Errorf("empty category for %q", entry.Canonical)
	}
	entry.Variants = mergeVariants(nil, parts[1:len(parts)-1])
	return entry, nil
}

// mergeVariants appends the non-blank variants of add that are not yet in
// have.
func mergeVariants(have, add []string) []string {
	out := have
	if out == nil {
		out = []string{}
	}
	for _, v := range add {
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
