package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cognicore/trendscout/pkg/trendscout/dedupe"
	"github.com/cognicore/trendscout/pkg/trendscout/internalerr"
	"github.com/cognicore/trendscout/pkg/trendscout/segment"
	"github.com/cognicore/trendscout/pkg/trendscout/store"
)

// Trends saves up to MaxNew rising related queries for a keyword.
type Trends struct {
	Client       TrendsClient
	Store        store.TopicStore
	MaxNew       int // default 3
	PreviewLimit int // default 10
	Logger       *log.Logger
}

// Run executes one trends pass for keyword.
func (t *Trends) Run(ctx context.Context, keyword string) (Report, error) {
	l := logger(t.Logger)
	maxNew := t.MaxNew
	if maxNew < 1 {
		maxNew = 3
	}
	preview := t.PreviewLimit
	if preview < 1 {
		preview = 10
	}
	st := &State{Keyword: strings.TrimSpace(keyword)}
	rep := Report{Pipeline: "trends", Keyword: st.Keyword}

	if st.Keyword == "" {
		rep.Message = MsgTrendsFailed
		return rep, fmt.Errorf("trends: empty keyword: %w", internalerr.ErrInvalidInput)
	}

	l.Printf("trends: searching for %q", st.Keyword)
	raw, err := t.Client.Query(ctx, st.Keyword)
	if err != nil {
		l.Printf("trends: query %q: %v", st.Keyword, err)
		rep.Message = MsgTrendsFailed
		return rep, fetchError("trends", err)
	}
	st.Raw = raw
	st.Candidates = segment.Segment(raw)
	st.Topics = dedupe.Subtopics(st.Candidates)
	rep.Documents = len(st.Candidates)
	rep.Preview = st.Topics[:min(preview, len(st.Topics))]
	if len(st.Topics) == 0 {
		rep.Message = MsgNoRising
		return rep, nil
	}

	st.Existing = loadExisting(ctx, t.Store, l)
	st.Chosen = st.Topics
	err = persist(ctx, st, t.Store, maxNew, l)
	rep.Saved, rep.Skipped, rep.Failed = st.Saved, st.Skipped, st.Failed
	return rep, err
}
