// Package pipeline wires candidate sources, topic extraction and a topic
// store into the news and trends runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/cognicore/trendscout/pkg/trendscout/internalerr"
	"github.com/cognicore/trendscout/pkg/trendscout/store"
)

// Messages reported when a run ends without saving anything.
const (
	MsgNoPosts      = "No posts retrieved"
	MsgNoTopic      = "No topic extracted"
	MsgNoRising     = "No unique rising topics found."
	MsgAllSaved     = "All top filtered topics already saved. No new topics added."
	MsgTrendsFailed = "Trends query failed"
)

// PostSource yields the documents a news run ranks.
type PostSource interface {
	Headlines(ctx context.Context) ([]string, error)
}

// TopicRanker picks one admissible topic from documents.
type TopicRanker interface {
	RankTopic(ctx context.Context, documents []string, excluded store.TopicSet) (string, bool)
}

// TrendsClient returns the labeled trends summary for a keyword.
type TrendsClient interface {
	Query(ctx context.Context, keyword string) (string, error)
}

// State is threaded through the stages of a run.
type State struct {
	Keyword    string
	Raw        string
	Documents  []string
	Candidates []string
	Topics     []string // deduplicated candidates
	Chosen     []string // handed to the store in order
	Existing   store.TopicSet
	Saved      []string
	Skipped    []string
	Failed     []string
}

// Report summarizes a finished run.
type Report struct {
	Pipeline  string
	Keyword   string
	Documents int
	Preview   []string
	Saved     []string
	Skipped   []string
	Failed    []string
	Message   string
}

// Summary renders the report for humans.
func (r Report) Summary() string {
	var b strings.Builder
	if r.Keyword != "" {
		fmt.Fprintf(&b, "Keyword: %s\n", r.Keyword)
	}
	if r.Pipeline == "news" && r.Documents > 0 {
		fmt.Fprintf(&b, "Scraped %d posts\n", r.Documents)
	}
	if len(r.Preview) > 0 {
		fmt.Fprintf(&b, "Filtered unique topics: %s\n", strings.Join(r.Preview, ", "))
	}
	for _, t := range r.Saved {
		fmt.Fprintf(&b, "Saved new topic: %s\n", t)
	}
	for _, t := range r.Failed {
		fmt.Fprintf(&b, "Failed to save topic: %s\n", t)
	}
	switch {
	case r.Message != "":
		b.WriteString(r.Message)
	case len(r.Saved) > 0:
		fmt.Fprintf(&b, "Saved %d new topic(s).", len(r.Saved))
	case len(r.Failed) > 0:
		b.WriteString("No new topics added.")
	default:
		b.WriteString(MsgAllSaved)
	}
	return b.String()
}

func logger(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Default()
	}
	return l
}

// loadExisting treats an unreadable store as empty.
func loadExisting(ctx context.Context, s store.TopicStore, l *log.Logger) store.TopicSet {
	existing, err := s.LoadExisting(ctx)
	if err != nil {
		l.Printf("pipeline: load existing topics: %v (continuing with none)", err)
		return store.NewTopicSet()
	}
	if existing == nil {
		return store.NewTopicSet()
	}
	return existing
}

// persist appends st.Chosen in order, skipping known topics, until maxNew
// topics are saved. Write failures are logged and collected.
func persist(ctx context.Context, st *State, s store.TopicStore, maxNew int, l *log.Logger) error {
	if maxNew < 1 {
		maxNew = 1
	}
	var errs []error
	for _, topic := range st.Chosen {
		if len(st.Saved) >= maxNew {
			break
		}
		if st.Existing.Has(topic) {
			st.Skipped = append(st.Skipped, topic)
			continue
		}
		if err := s.Append(ctx, topic); err != nil {
			l.Printf("pipeline: save %q: %v", topic, err)
			st.Failed = append(st.Failed, topic)
			errs = append(errs, err)
			continue
		}
		l.Printf("pipeline: saved topic %q, status: %d", topic, store.StatusInit)
		st.Saved = append(st.Saved, topic)
		st.Existing.Add(topic)
	}
	if len(errs) == 0 {
		return nil
	}
	err := errors.Join(errs...)
	if !errors.Is(err, internalerr.ErrPersistenceWrite) {
		err = fmt.Errorf("%w: %w", internalerr.ErrPersistenceWrite, err)
	}
	return err
}

func fetchError(stage string, err error) error {
	if errors.Is(err, internalerr.ErrFetch) {
		return fmt.Errorf("%s: %w", stage, err)
	}
	return fmt.Errorf("%s: %w: %w", stage, internalerr.ErrFetch, err)
}
