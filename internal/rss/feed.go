package rss

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/cognicore/trendscout/pkg/trendscout/internalerr"
)

const defaultFeedTimeout = 10 * time.Second

// FeedSource serves headlines from an RSS or Atom feed.
type FeedSource struct {
	URL       string
	Limit     int // 0 means all entries
	UserAgent string
	Timeout   time.Duration
	Client    *http.Client
}

// Items fetches and parses the feed.
func (s FeedSource) Items(ctx context.Context) ([]Item, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultFeedTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fp := gofeed.NewParser()
	if s.UserAgent != "" {
		fp.UserAgent = s.UserAgent
	}
	if s.Client != nil {
		fp.Client = s.Client
	}

	feed, err := fp.ParseURLWithContext(s.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("feed %s: %w: %w", s.URL, internalerr.ErrFetch, err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, fi := range feed.Items {
		it := Item{URL: fi.Link, Title: fi.Title, Outlet: feed.Title}
		if fi.PublishedParsed != nil {
			it.PublishedAt = *fi.PublishedParsed
		}
		items = append(items, it)
	}
	return items, nil
}

// Headlines returns the entry titles in feed order.
func (s FeedSource) Headlines(ctx context.Context) ([]string, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	return titles(firstN(items, s.Limit)), nil
}
