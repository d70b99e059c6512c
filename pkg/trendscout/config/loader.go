package config

import (
	"fmt"

	"github.com/cognicore/trendscout/pkg/trendscout/ingest"
	"github.com/cognicore/trendscout/pkg/trendscout/stoplist"
)

// Loader loads the optional vocabulary files and constructs components
type Loader struct {
	StoplistPath string
	DictPath     string
	StopWords    []string // inline extras, merged with the stoplist file
}

// Components holds the loaded vocabulary components
type Components struct {
	Stops     *stoplist.Manager
	Parser    *ingest.MultiTokenParser
	Tokenizer *ingest.Tokenizer // Stops plus the English list, with phrases
}

// Load reads the configured files and returns initialized components.
// Missing paths yield empty components; unreadable files are configuration errors.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{Stops: stoplist.NewManager(l.StopWords)}

	if l.StoplistPath != "" {
		sl, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		for _, term := range sl.Terms {
			comp.Stops.Add(term)
		}
	}

	if l.DictPath != "" {
		dict, err := LoadDict(l.DictPath)
		if err != nil {
			return nil, fmt.Errorf("load dictionary: %w", err)
		}
		entries := make([]ingest.DictEntry, len(dict.Entries))
		for i, e := range dict.Entries {
			entries[i] = ingest.DictEntry{
				Canonical: e.Canonical,
				Variants:  e.Variants,
				Category:  e.Category,
			}
		}
		comp.Parser = ingest.NewMultiTokenParser(entries)
	} else {
		comp.Parser = ingest.NewMultiTokenParser([]ingest.DictEntry{})
	}

	comp.Tokenizer = ingest.NewTokenizer(comp.Stops.Union(stoplist.NewEnglish()).All())
	comp.Tokenizer.SetPhrases(comp.Parser)

	return comp, nil
}
