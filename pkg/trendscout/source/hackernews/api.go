package hackernews

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cognicore/trendscout/pkg/trendscout/internalerr"
)

// DefaultAPIURL is the public Hacker News Firebase API.
const DefaultAPIURL = "https://hacker-news.firebaseio.com/v0"

// APIOptions configures an API client
type APIOptions struct {
	BaseURL     string
	Timeout     time.Duration
	MaxRows     int
	MinScore    int
	MinComments int
	Delay       time.Duration // pause between item requests
}

// API reads top stories from the Hacker News API.
type API struct {
	http *resty.Client
	opts APIOptions
}

type apiItem struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	Dead        bool   `json:"dead"`
	Deleted     bool   `json:"deleted"`
}

// NewAPI creates an API client; zero options take the scraper defaults.
// MinScore and MinComments are used as given, see Popular.
func NewAPI(opts APIOptions) *API {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultAPIURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = DefaultMaxRows
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	client.SetTimeout(opts.Timeout)
	client.SetHeader("Accept", "application/json")
	return &API{http: client, opts: opts}
}

// TopStories returns up to n stories from the top list in rank order,
// popular or not. Items that fail to load are skipped.
func (a *API) TopStories(ctx context.Context, n int) ([]Post, error) {
	var ids []int64
	resp, err := a.http.R().SetContext(ctx).SetResult(&ids).Get("/topstories.json")
	if err != nil {
		return nil, fmt.Errorf("top stories: %w: %w", internalerr.ErrFetch, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("top stories: %s: %w", resp.Status(), internalerr.ErrFetch)
	}
	if n > 0 && n < len(ids) {
		ids = ids[:n]
	}

	posts := make([]Post, 0, len(ids))
	for i, id := range ids {
		if i > 0 && a.opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return posts, fmt.Errorf("top stories: %w: %w", internalerr.ErrFetch, ctx.Err())
			case <-time.After(a.opts.Delay):
			}
		}
		item, err := a.item(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return posts, fmt.Errorf("top stories: %w: %w", internalerr.ErrFetch, ctx.Err())
			}
			continue
		}
		if item.Type != "story" || item.Title == "" || item.Dead || item.Deleted {
			continue
		}

		link := item.URL
		if link == "" {
			link = "https://news.ycombinator.com/item?id=" + strconv.FormatInt(item.ID, 10)
		}
		posts = append(posts, Post{
			ID:        item.ID,
			Title:     item.Title,
			Link:      link,
			Score:     item.Score,
			Comments:  item.Descendants,
			Published: time.Unix(item.Time, 0).UTC(),
		})
	}
	return posts, nil
}

func (a *API) item(ctx context.Context, id int64) (*apiItem, error) {
	var item apiItem
	resp, err := a.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		SetResult(&item).
		Get("/item/{id}.json")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("item %d: %s", id, resp.Status())
	}
	return &item, nil
}

// Fetch returns the popular stories among the first MaxRows top stories.
func (a *API) Fetch(ctx context.Context) ([]Post, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	posts, err := a.TopStories(ctx, a.opts.MaxRows)
	if err != nil {
		return nil, err
	}
	return Popular(posts, a.opts.MinScore, a.opts.MinComments), nil
}

// Headlines returns the titles of the popular top stories.
func (a *API) Headlines(ctx context.Context) ([]string, error) {
	posts, err := a.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Titles(posts), nil
}
