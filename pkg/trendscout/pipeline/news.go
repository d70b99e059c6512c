package pipeline

import (
	"context"
	"log"

	"github.com/cognicore/trendscout/pkg/trendscout/store"
)

// News ranks front page headlines and saves at most MaxNew new topics.
type News struct {
	Source PostSource
	Ranker TopicRanker
	Store  store.TopicStore
	MaxNew int // default 1
	Logger *log.Logger
}

// Run executes one news pass. A fetch failure aborts before the store is
// touched; a write failure is returned after the report is complete.
func (n *News) Run(ctx context.Context) (Report, error) {
	l := logger(n.Logger)
	maxNew := n.MaxNew
	if maxNew < 1 {
		maxNew = 1
	}
	st := &State{}
	rep := Report{Pipeline: "news"}

	docs, err := n.Source.Headlines(ctx)
	if err != nil {
		l.Printf("news: fetch posts: %v", err)
		rep.Message = MsgNoPosts
		return rep, fetchError("news", err)
	}
	st.Documents = docs
	rep.Documents = len(docs)
	l.Printf("news: scraped %d posts: %q", len(docs), docs)
	if len(docs) == 0 {
		rep.Message = MsgNoPosts
		return rep, nil
	}

	st.Existing = loadExisting(ctx, n.Store, l)
	topic, ok := n.Ranker.RankTopic(ctx, st.Documents, st.Existing)
	if !ok {
		rep.Message = MsgNoTopic
		return rep, nil
	}
	st.Candidates = []string{topic}
	st.Topics = st.Candidates
	st.Chosen = st.Topics

	err = persist(ctx, st, n.Store, maxNew, l)
	rep.Saved, rep.Skipped, rep.Failed = st.Saved, st.Skipped, st.Failed
	if len(st.Saved) == 0 && len(st.Failed) == 0 {
		rep.Message = MsgNoTopic
	}
	return rep, err
}
