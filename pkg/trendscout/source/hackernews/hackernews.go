// Package hackernews scrapes the Hacker News front page for popular posts.
package hackernews

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/cognicore/trendscout/pkg/trendscout/internalerr"
)

// Defaults for the front page scraper
const (
	DefaultURL         = "https://news.ycombinator.com"
	DefaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultTimeout     = 10 * time.Second
	DefaultMaxRows     = 15
	DefaultMinScore    = 50
	DefaultMinComments = 20

	maxPageBytes = 4 << 20
)

// Post is one front page story
type Post struct {
	ID        int64 // set by the API client only
	Title     string
	Link      string
	Score     int
	Comments  int
	Published time.Time
}

// Options configures a Scraper
type Options struct {
	URL           string
	UserAgent     string
	Timeout       time.Duration
	MaxRows       int // rows examined, popular or not
	MinScore      int // kept if score > MinScore
	MinComments   int // or comments > MinComments; both zero keeps every post
	RespectRobots bool
	Client        *http.Client
}

// Scraper fetches and filters front page posts
type Scraper struct {
	opts   Options
	client *http.Client
	robots *RobotsChecker
}

// New creates a scraper. Zero options take the package defaults, except the
// popularity thresholds, which are used as given.
func New(opts Options) *Scraper {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = DefaultMaxRows
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	s := &Scraper{opts: opts, client: client}
	if opts.RespectRobots {
		s.robots = NewRobotsChecker(client, opts.UserAgent)
	}
	return s
}

// Fetch downloads the front page and returns the popular posts among the
// first MaxRows rows.
func (s *Scraper) Fetch(ctx context.Context) ([]Post, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	if s.robots != nil {
		allowed, err := s.robots.Allowed(ctx, s.opts.URL)
		if err != nil {
			return nil, fmt.Errorf("robots.txt: %w: %w", internalerr.ErrFetch, err)
		}
		if !allowed {
			return nil, fmt.Errorf("robots.txt disallows %s: %w", s.opts.URL, internalerr.ErrFetch)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w: %w", internalerr.ErrFetch, err)
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w: %w", s.opts.URL, internalerr.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d: %w", s.opts.URL, resp.StatusCode, internalerr.ErrFetch)
	}

	posts, err := Parse(io.LimitReader(resp.Body, maxPageBytes), s.opts.MaxRows)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", s.opts.URL, internalerr.ErrFetch, err)
	}
	return Popular(posts, s.opts.MinScore, s.opts.MinComments), nil
}

// Headlines returns the titles of the popular front page posts.
func (s *Scraper) Headlines(ctx context.Context) ([]string, error) {
	posts, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Titles(posts), nil
}

// Popular keeps posts with score > minScore or comments > minComments. With
// both thresholds at zero or below every post is kept.
func Popular(posts []Post, minScore, minComments int) []Post {
	if minScore <= 0 && minComments <= 0 {
		return posts
	}
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.Score > minScore || p.Comments > minComments {
			out = append(out, p)
		}
	}
	return out
}

// Titles returns the post titles in order.
func Titles(posts []Post) []string {
	titles := make([]string, len(posts))
	for i, p := range posts {
		titles[i] = p.Title
	}
	return titles
}

var (
	scorePattern    = regexp.MustCompile(`(\d+)\s*points?`)
	commentsPattern = regexp.MustCompile(`(\d+)[\s\x{00a0}]*comment`)
)

// Parse reads a front page and returns up to maxRows posts, popular or not.
// Rows without a title are skipped.
func Parse(r io.Reader, maxRows int) ([]Post, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	doc := goquery.NewDocumentFromNode(root)

	var posts []Post
	doc.Find("tr.athing").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if maxRows > 0 && i >= maxRows {
			return false
		}

		anchor := row.Find("span.titleline > a").First()
		title := strings.TrimSpace(anchor.Text())
		if title == "" {
			return true
		}
		link, _ := anchor.Attr("href")

		p := Post{Title: title, Link: link}
		subline := row.Next()
		if m := scorePattern.FindStringSubmatch(subline.Find("span.score").Text()); m != nil {
			p.Score, _ = strconv.Atoi(m[1])
		}
		subline.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if m := commentsPattern.FindStringSubmatch(a.Text()); m != nil {
				p.Comments, _ = strconv.Atoi(m[1])
				return false
			}
			return true
		})

		posts = append(posts, p)
		return true
	})
	return posts, nil
}
