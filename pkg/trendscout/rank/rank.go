package rank

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/trendscout/pkg/trendscout/ingest"
	"github.com/cognicore/trendscout/pkg/trendscout/internalerr"
	"github.com/cognicore/trendscout/pkg/trendscout/stoplist"
	"github.com/cognicore/trendscout/pkg/trendscout/store"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultMinLength      = 3
	DefaultMinClusterDocs = 5
	DefaultMaxTopics      = 5
)

// DefaultStopWords are uninformative words seen in aggregator titles.
var DefaultStopWords = []string{"mcp", "show", "new", "get", "use", "one"}

// OutlierID identifies the catch-all group of a fitted model.
const OutlierID = -1

// Modeler groups documents into topics. Fit may fail on degenerate input.
type Modeler interface {
	Fit(ctx context.Context, documents []string) (Model, error)
}

// Model is the result of fitting a Modeler
type Model struct {
	Groups []Group
}

// Group is one topic of a fitted model
type Group struct {
	ID    int
	Count int      // member documents
	Terms []string // most characteristic first
}

// Candidate is a scored term
type Candidate struct {
	Text  string
	Score float64
}

// Options configures a Ranker
type Options struct {
	StopWords      []string // checked against every returned term
	MinLength      int
	MinClusterDocs int // below this only frequency ranking runs
	MaxTopics      int // groups considered from a fitted model
	Modeler        Modeler
	Phrases        *ingest.MultiTokenParser
	Logger         *log.Logger
}

// Ranker picks one topic label from a set of short documents
type Ranker struct {
	stops          *stoplist.Manager
	tokenizer      *ingest.Tokenizer
	minLength      int
	minClusterDocs int
	maxTopics      int
	modeler        Modeler
	logger         *log.Logger
}

// New creates a ranker. Zero options fall back to the package defaults; a nil
// StopWords slice means DefaultStopWords.
func New(opts Options) *Ranker {
	if opts.StopWords == nil {
		opts.StopWords = DefaultStopWords
	}
	if opts.MinLength <= 0 {
		opts.MinLength = DefaultMinLength
	}
	if opts.MinClusterDocs <= 0 {
		opts.MinClusterDocs = DefaultMinClusterDocs
	}
	if opts.MaxTopics <= 0 {
		opts.MaxTopics = DefaultMaxTopics
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	stops := stoplist.NewManager(opts.StopWords)
	tok := ingest.NewTokenizer(stops.Union(stoplist.NewEnglish()).All())
	tok.SetKeepNumbers(true)
	if opts.Phrases != nil {
		tok.SetPhrases(opts.Phrases)
	}

	return &Ranker{
		stops:          stops,
		tokenizer:      tok,
		minLength:      opts.MinLength,
		minClusterDocs: opts.MinClusterDocs,
		maxTopics:      opts.MaxTopics,
		modeler:        opts.Modeler,
		logger:         opts.Logger,
	}
}

// attempt is one step of the fallback chain
type attempt struct {
	name string
	run  func() (string, bool, error)
}

// RankTopic returns the best admissible topic for documents, or false when
// none exists. Failures inside a strategy are logged and the next strategy
// is tried; they never reach the caller.
func (r *Ranker) RankTopic(ctx context.Context, documents []string, excluded store.TopicSet) (string, bool) {
	if len(documents) == 0 {
		return "", false
	}

	var chain []attempt
	if len(documents) >= r.minClusterDocs && r.modeler != nil {
		chain = append(chain, attempt{"clustering", func() (string, bool, error) {
			return r.ClusterTopic(ctx, documents, excluded)
		}})
	}
	chain = append(chain, attempt{"frequency fallback", func() (string, bool, error) {
		return r.FrequencyTopic(documents, excluded)
	}})

	for _, a := range chain {
		topic, ok, err := a.run()
		if err != nil {
			r.logger.Printf("rank: %s failed: %v", a.name, err)
			continue
		}
		if !ok {
			r.logger.Printf("rank: %s found no unique, valid topic", a.name)
			continue
		}
		r.logger.Printf("rank: selected %s topic %q", a.name, topic)
		return topic, true
	}
	return "", false
}

// ClusterTopic fits the modeler and walks non-outlier groups by descending
// size, returning the first admissible representative term.
func (r *Ranker) ClusterTopic(ctx context.Context, documents []string, excluded store.TopicSet) (string, bool, error) {
	if r.modeler == nil {
		return "", false, fmt.Errorf("no topic model configured: %w", internalerr.ErrExtraction)
	}

	model, err := r.fit(ctx, documents)
	if err != nil {
		return "", false, err
	}

	groups := make([]Group, 0, len(model.Groups))
	for _, g := range model.Groups {
		if g.ID != OutlierID {
			groups = append(groups, g)
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	if len(groups) > r.maxTopics {
		groups = groups[:r.maxTopics]
	}

	for _, g := range groups {
		if len(g.Terms) == 0 {
			continue
		}
		if term := g.Terms[0]; r.Admissible(term, excluded) {
			r.logger.Printf("rank: group %d (count %d) -> %q", g.ID, g.Count, term)
			return Normalize(term), true, nil
		}
	}
	return "", false, nil
}

// fit calls the modeler, converting a panic into an extraction error.
func (r *Ranker) fit(ctx context.Context, documents []string) (model Model, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("topic model panicked: %v: %w", p, internalerr.ErrExtraction)
		}
	}()

	model, err = r.modeler.Fit(ctx, documents)
	if err != nil {
		return Model{}, fmt.Errorf("fit topic model: %w: %w", internalerr.ErrExtraction, err)
	}
	return model, nil
}

// FrequencyTopic returns the first admissible term of FrequencyRanking.
func (r *Ranker) FrequencyTopic(documents []string, excluded store.TopicSet) (string, bool, error) {
	ranked := r.FrequencyRanking(documents)
	if len(ranked) == 0 {
		return "", false, fmt.Errorf("empty vocabulary: %w", internalerr.ErrExtraction)
	}
	for _, c := range ranked {
		if r.Admissible(c.Text, excluded) {
			return Normalize(c.Text), true, nil
		}
	}
	return "", false, nil
}

// FrequencyRanking counts unigrams and bigrams over all documents and sorts
// them by total count, descending. Equal counts keep first-appearance order:
// earlier document first, then earlier position, unigram before the bigram
// that starts at the same token.
func (r *Ranker) FrequencyRanking(documents []string) []Candidate {
	totals := make(map[string]int)
	var order []string
	for _, doc := range documents {
		counts, docOrder := r.tokenizer.TermCounts(doc, 1, 2)
		for _, term := range docOrder {
			if _, seen := totals[term]; !seen {
				order = append(order, term)
			}
			totals[term] += counts[term]
		}
	}

	ranked := make([]Candidate, len(order))
	for i, term := range order {
		ranked[i] = Candidate{Text: term, Score: float64(totals[term])}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Admissible reports whether term may be emitted: not already excluded, long
// enough once trimmed, and not a configured stop word.
func (r *Ranker) Admissible(term string, excluded store.TopicSet) bool {
	norm := Normalize(term)
	if excluded.Has(term) || excluded.Has(norm) {
		return false
	}
	if utf8.RuneCountInString(norm) < r.minLength {
		return false
	}
	if r.stops.IsStop(term) || r.stops.IsStop(norm) {
		return false
	}
	return true
}

// Normalize turns an underscore-joined phrase token into plain words.
func Normalize(term string) string {
	return strings.TrimSpace(strings.ReplaceAll(term, ingest.PhraseJoiner, " "))
}
