package rss

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/trendscout/pkg/trendscout/internalerr"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Hacker News: Front Page</title>
  <link>https://news.ycombinator.com/</link>
  <item><title>Rust compiler gets faster builds</title><link>https://example.com/1</link></item>
  <item><title>OpenAI releases reasoning model</title><link>https://example.com/2</link></item>
  <item><title>  </title><link>https://example.com/3</link></item>
  <item><title>Gardening tips for spring</title><link>https://example.com/4</link></item>
</channel>
</rss>`

func TestFeedSourceHeadlines(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, feedXML)
	}))
	defer srv.Close()

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"all", 0, []string{"Rust compiler gets faster builds", "OpenAI releases reasoning model", "Gardening tips for spring"}},
		{"limited", 2, []string{"Rust compiler gets faster builds", "OpenAI releases reasoning model"}},
		{"limit counts blank rows", 3, []string{"Rust compiler gets faster builds", "OpenAI releases reasoning model"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := FeedSource{URL: srv.URL, Limit: tt.limit, UserAgent: "trendscout-test"}
			got, err := src.Headlines(context.Background())
			if err != nil {
				t.Fatalf("Headlines: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("headlines mismatch (-want +got):\n%s", diff)
			}
			if gotUA != "trendscout-test" {
				t.Errorf("User-Agent = %q", gotUA)
			}
		})
	}
}

func TestFeedSourceItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML)
	}))
	defer srv.Close()

	items, err := FeedSource{URL: srv.URL}.Items(context.Background())
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	if items[0].Outlet != "Hacker News: Front Page" || items[0].URL != "https://example.com/1" {
		t.Errorf("unexpected item %+v", items[0])
	}
}

func TestFeedSourceHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	_, err := FeedSource{URL: srv.URL}.Headlines(context.Background())
	if !errors.Is(err, internalerr.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestLoadFromJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hn.jsonl")
	content := `{"url":"https://example.com/1","title":"First story","score":120}
not json

{"url":"https://example.com/2","title":"Second story"}
{"url":"https://example.com/3","title":""}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	items, err := LoadFromJSONL(path)
	if err != nil {
		t.Fatalf("LoadFromJSONL: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Score != 120 {
		t.Errorf("score = %d", items[0].Score)
	}

	got, err := FileSource{Path: path}.Headlines(context.Background())
	if err != nil {
		t.Fatalf("Headlines: %v", err)
	}
	if diff := cmp.Diff([]string{"First story", "Second story"}, got); diff != "" {
		t.Errorf("headlines mismatch (-want +got):\n%s", diff)
	}
}

func TestFileSourcePopularity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hn.jsonl")
	content := `{"title":"Unpopular post","score":1,"comments":0}
{"title":"Popular post","score":500,"comments":90}
{"title":"Talked about","score":3,"comments":21}
{"title":"Past the limit","score":900,"comments":400}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		src  FileSource
		want []string
	}{
		{"popular only", FileSource{Path: path, MinScore: 50, MinComments: 20}, []string{"Popular post", "Talked about", "Past the limit"}},
		{"limit counts rows examined", FileSource{Path: path, Limit: 2, MinScore: 50, MinComments: 20}, []string{"Popular post"}},
		{"zero thresholds keep all", FileSource{Path: path, Limit: 2}, []string{"Unpopular post", "Popular post"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.src.Headlines(context.Background())
			if err != nil {
				t.Fatalf("Headlines: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("headlines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFileSourceMissing(t *testing.T) {
	_, err := FileSource{Path: filepath.Join(t.TempDir(), "missing.jsonl")}.Headlines(context.Background())
	if !errors.Is(err, internalerr.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}

func TestFileSourceEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.jsonl")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	got, err := FileSource{Path: path}.Headlines(context.Background())
	if err != nil {
		t.Fatalf("Headlines: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no headlines, got %v", got)
	}
}

func TestWriteJSONLRoundTrip(t *testing.T) {
	items := []Item{
		{URL: "https://example.com/1", Title: "First story", Outlet: "news.ycombinator.com", PublishedAt: time.Unix(1700000000, 0).UTC(), Score: 10},
		{URL: "https://example.com/2", Title: "Second story", Comments: 4},
	}

	var buf bytes.Buffer
	if err := WriteJSONL(&buf, items); err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.jsonl")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFromJSONL(path)
	if err != nil {
		t.Fatalf("LoadFromJSONL: %v", err)
	}
	if diff := cmp.Diff(items, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
