// Package cluster groups short documents into topics and names each group by
// its most characteristic n-gram.
//
// Documents become L2-normalized TF-IDF vectors over 1..MaxNGram grams.
// Average-link agglomeration merges groups whose similarity reaches
// MinSimilarity; groups smaller than MinTopicSize become outliers and the rest
// are merged further until at most MaxTopics remain. Each group is described
// by class-based TF-IDF:
//
//	w(t,g) = tf(t,g) * ln(1 + A/f(t))
//
// where A is the mean term mass per group and f(t) the corpus frequency of t.
package cluster

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/cognicore/trendscout/pkg/trendscout/ingest"
	"github.com/cognicore/trendscout/pkg/trendscout/rank"
	"github.com/cognicore/trendscout/pkg/trendscout/stoplist"
)

var (
	// ErrEmptyCorpus is returned when Fit receives no documents.
	ErrEmptyCorpus = errors.New("cluster: no documents")
	// ErrDegenerate is returned when the vocabulary is too small to group.
	ErrDegenerate = errors.New("cluster: fewer than 2 distinct terms")
)

// Options configures a Model
type Options struct {
	Tokenizer     *ingest.Tokenizer
	MaxNGram      int
	MaxTopics     int
	MinTopicSize  int
	MinSimilarity float64
	TopTerms      int
}

// DefaultOptions returns the settings used by the news pipeline.
func DefaultOptions() Options {
	return Options{
		MaxNGram:      3,
		MaxTopics:     5,
		MinTopicSize:  2,
		MinSimilarity: 0.1,
		TopTerms:      10,
	}
}

// Model implements rank.Modeler
type Model struct {
	opts Options
}

// New creates a model. Zero-valued options take DefaultOptions values and a
// nil tokenizer filters the standard English stop words.
func New(opts Options) *Model {
	def := DefaultOptions()
	if opts.Tokenizer == nil {
		opts.Tokenizer = ingest.NewTokenizer(stoplist.English())
	}
	if opts.MaxNGram <= 0 {
		opts.MaxNGram = def.MaxNGram
	}
	if opts.MaxTopics <= 0 {
		opts.MaxTopics = def.MaxTopics
	}
	if opts.MinTopicSize <= 0 {
		opts.MinTopicSize = def.MinTopicSize
	}
	if opts.MinSimilarity <= 0 {
		opts.MinSimilarity = def.MinSimilarity
	}
	if opts.TopTerms <= 0 {
		opts.TopTerms = def.TopTerms
	}
	return &Model{opts: opts}
}

// corpus holds per-document term counts over a shared vocabulary.
type corpus struct {
	vocab  []string       // first-appearance order
	index  map[string]int // term -> vocab position
	counts []map[int]int  // per document
}

func (m *Model) build(documents []string) *corpus {
	c := &corpus{index: make(map[string]int)}
	for _, doc := range documents {
		counts, order := m.opts.Tokenizer.TermCounts(doc, 1, m.opts.MaxNGram)
		docCounts := make(map[int]int, len(counts))
		for _, term := range order {
			id, ok := c.index[term]
			if !ok {
				id = len(c.vocab)
				c.index[term] = id
				c.vocab = append(c.vocab, term)
			}
			docCounts[id] = counts[term]
		}
		c.counts = append(c.counts, docCounts)
	}
	return c
}

// Fit implements rank.Modeler.
func (m *Model) Fit(ctx context.Context, documents []string) (rank.Model, error) {
	if len(documents) == 0 {
		return rank.Model{}, ErrEmptyCorpus
	}

	c := m.build(documents)
	if len(c.vocab) < 2 {
		return rank.Model{}, ErrDegenerate
	}

	sim := similarities(c.vectors())

	groups := make([][]int, len(documents))
	for i := range groups {
		groups[i] = []int{i}
	}

	// Merge everything similar enough.
	for len(groups) > 1 {
		if err := ctx.Err(); err != nil {
			return rank.Model{}, err
		}
		a, b, best := closestPair(groups, sim)
		if best < m.opts.MinSimilarity {
			break
		}
		groups = merge(groups, a, b)
	}

	var topics [][]int
	var outliers []int
	for _, g := range groups {
		if len(g) < m.opts.MinTopicSize {
			outliers = append(outliers, g...)
			continue
		}
		topics = append(topics, g)
	}

	for len(topics) > m.opts.MaxTopics {
		if err := ctx.Err(); err != nil {
			return rank.Model{}, err
		}
		a, b, _ := closestPair(topics, sim)
		topics = merge(topics, a, b)
	}

	// Largest first; equal sizes keep the group holding the earliest document first.
	sort.SliceStable(topics, func(i, j int) bool {
		if len(topics[i]) != len(topics[j]) {
			return len(topics[i]) > len(topics[j])
		}
		return minOf(topics[i]) < minOf(topics[j])
	})

	members := make([][]int, 0, len(topics)+1)
	ids := make([]int, 0, len(topics)+1)
	for i, g := range topics {
		members = append(members, g)
		ids = append(ids, i)
	}
	if len(outliers) > 0 {
		sort.Ints(outliers)
		members = append(members, outliers)
		ids = append(ids, rank.OutlierID)
	}

	terms := c.representatives(members, m.opts.TopTerms)
	model := rank.Model{Groups: make([]rank.Group, len(members))}
	for i := range members {
		model.Groups[i] = rank.Group{ID: ids[i], Count: len(members[i]), Terms: terms[i]}
	}
	return model, nil
}

// vectors returns L2-normalized TF-IDF vectors with smoothed idf.
func (c *corpus) vectors() []map[int]float64 {
	n := float64(len(c.counts))
	df := make([]int, len(c.vocab))
	for _, doc := range c.counts {
		for id := range doc {
			df[id]++
		}
	}

	vecs := make([]map[int]float64, len(c.counts))
	for i, doc := range c.counts {
		v := make(map[int]float64, len(doc))
		var norm float64
		for _, id := range sortedIDs(doc) {
			cnt := doc[id]
			w := float64(cnt) * (math.Log((1+n)/(1+float64(df[id]))) + 1)
			v[id] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for id := range v {
				v[id] /= norm
			}
		}
		vecs[i] = v
	}
	return vecs
}

func similarities(vecs []map[int]float64) [][]float64 {
	sim := make([][]float64, len(vecs))
	for i := range vecs {
		sim[i] = make([]float64, len(vecs))
	}
	for i := range vecs {
		for j := i + 1; j < len(vecs); j++ {
			s := dot(vecs[i], vecs[j])
			sim[i][j], sim[j][i] = s, s
		}
	}
	return sim
}

func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var s float64
	for _, id := range sortedIDs(a) {
		s += a[id] * b[id]
	}
	return s
}

// sortedIDs fixes summation order so similarities are reproducible.
func sortedIDs[V int | float64](m map[int]V) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// closestPair returns the pair of groups with the highest average-link
// similarity. Ties keep the lowest indices. a < b always holds.
func closestPair(groups [][]int, sim [][]float64) (a, b int, best float64) {
	best = math.Inf(-1)
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			var total float64
			for _, x := range groups[i] {
				for _, y := range groups[j] {
					total += sim[x][y]
				}
			}
			avg := total / float64(len(groups[i])*len(groups[j]))
			if avg > best {
				a, b, best = i, j, avg
			}
		}
	}
	return a, b, best
}

func merge(groups [][]int, a, b int) [][]int {
	groups[a] = append(groups[a], groups[b]...)
	return append(groups[:b], groups[b+1:]...)
}

func minOf(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

// representatives ranks terms per group by class-based TF-IDF.
func (c *corpus) representatives(groups [][]int, top int) [][]string {
	freq := make([]float64, len(c.vocab))
	var mass float64
	tf := make([]map[int]float64, len(groups))
	for g, members := range groups {
		tf[g] = make(map[int]float64)
		for _, d := range members {
			for id, cnt := range c.counts[d] {
				tf[g][id] += float64(cnt)
				freq[id] += float64(cnt)
				mass += float64(cnt)
			}
		}
	}
	avg := mass / float64(len(groups))

	out := make([][]string, len(groups))
	for g := range groups {
		type scored struct {
			id int
			w  float64
		}
		terms := make([]scored, 0, len(tf[g]))
		for id, n := range tf[g] {
			terms = append(terms, scored{id: id, w: n * math.Log(1+avg/freq[id])})
		}
		sort.Slice(terms, func(i, j int) bool {
			if terms[i].w != terms[j].w {
				return terms[i].w > terms[j].w
			}
			return terms[i].id < terms[j].id
		})
		if len(terms) > top {
			terms = terms[:top]
		}
		names := make([]string, len(terms))
		for i, t := range terms {
			names[i] = c.vocab[t.id]
		}
		out[g] = names
	}
	return out
}
