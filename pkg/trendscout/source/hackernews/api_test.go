package hackernews

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/trendscout/pkg/trendscout/internalerr"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	items := map[string]string{
		"1": `{"id":1,"type":"story","title":"Popular by score","url":"https://a.example","score":120,"descendants":3,"time":1700000000}`,
		"2": `{"id":2,"type":"story","title":"Popular by comments","score":12,"descendants":45,"time":1700000100}`,
		"3": `{"id":3,"type":"job","title":"Hiring","score":200}`,
		"4": `{"id":4,"type":"story","title":"Quiet post","score":1,"descendants":0}`,
		"5": `{"id":5,"type":"story","title":"Flagged","score":500,"dead":true}`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/topstories.json" {
			fmt.Fprint(w, `[1,2,3,4,5,6]`)
			return
		}
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/item/"), ".json")
		body, ok := items[id]
		if !ok {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAPITopStories(t *testing.T) {
	srv := newAPIServer(t)

	posts, err := NewAPI(APIOptions{BaseURL: srv.URL}).TopStories(context.Background(), 0)
	if err != nil {
		t.Fatalf("TopStories: %v", err)
	}
	want := []Post{
		{ID: 1, Title: "Popular by score", Link: "https://a.example", Score: 120, Comments: 3, Published: time.Unix(1700000000, 0).UTC()},
		{ID: 2, Title: "Popular by comments", Link: "https://news.ycombinator.com/item?id=2", Score: 12, Comments: 45, Published: time.Unix(1700000100, 0).UTC()},
		{ID: 4, Title: "Quiet post", Link: "https://news.ycombinator.com/item?id=4", Score: 1, Published: time.Unix(0, 0).UTC()},
	}
	if diff := cmp.Diff(want, posts); diff != "" {
		t.Errorf("TopStories mismatch (-want +got):\n%s", diff)
	}
}

func TestAPITopStoriesLimit(t *testing.T) {
	srv := newAPIServer(t)

	posts, err := NewAPI(APIOptions{BaseURL: srv.URL}).TopStories(context.Background(), 1)
	if err != nil {
		t.Fatalf("TopStories: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != 1 {
		t.Errorf("expected only story 1, got %+v", posts)
	}
}

func TestAPIHeadlines(t *testing.T) {
	srv := newAPIServer(t)

	opts := APIOptions{BaseURL: srv.URL, MinScore: DefaultMinScore, MinComments: DefaultMinComments}
	titles, err := NewAPI(opts).Headlines(context.Background())
	if err != nil {
		t.Fatalf("Headlines: %v", err)
	}
	if diff := cmp.Diff([]string{"Popular by score", "Popular by comments"}, titles); diff != "" {
		t.Errorf("Headlines mismatch (-want +got):\n%s", diff)
	}
}

func TestAPIHeadlinesZeroThresholdsKeepAll(t *testing.T) {
	srv := newAPIServer(t)

	titles, err := NewAPI(APIOptions{BaseURL: srv.URL}).Headlines(context.Background())
	if err != nil {
		t.Fatalf("Headlines: %v", err)
	}
	if diff := cmp.Diff([]string{"Popular by score", "Popular by comments", "Quiet post"}, titles); diff != "" {
		t.Errorf("Headlines mismatch (-want +got):\n%s", diff)
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewAPI(APIOptions{BaseURL: srv.URL}).Fetch(context.Background())
	if !errors.Is(err, internalerr.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
}
