package serpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/trendscout/pkg/trendscout/internalerr"
	"github.com/cognicore/trendscout/pkg/trendscout/segment"
)

const timeseriesJSON = `{
  "interest_over_time": {
    "timeline_data": [
      {"date": "Jan 1 - 7, 2024", "values": [{"query": "AI Agent", "extracted_value": 20}]},
      {"date": "Jan 8 - 14, 2024", "values": [{"query": "AI Agent", "extracted_value": 30}]},
      {"date": "Jan 15 - 21, 2024", "values": [{"query": "AI Agent", "extracted_value": 40}]}
    ]
  }
}`

const relatedJSON = `{
  "related_queries": {
    "rising": [
      {"query": "ai agent builder", "value": "+250%"},
      {"query": "ai agent framework", "value": "+180%"}
    ],
    "top": [
      {"query": "ai agent", "value": "100"},
      {"query": "best ai agent", "value": "64"}
    ]
  }
}`

func newTestServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query()
		if q.Get("api_key") != "secret" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": "Invalid API key"}`))
			return
		}
		if q.Get("engine") != "google_trends" {
			t.Errorf("engine = %q", q.Get("engine"))
		}
		w.Header().Set("Content-Type", "application/json")
		switch q.Get("data_type") {
		case "TIMESERIES":
			_, _ = w.Write([]byte(timeseriesJSON))
		case "RELATED_QUERIES":
			_, _ = w.Write([]byte(relatedJSON))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": "bad data_type"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewMissingKey(t *testing.T) {
	_, err := New(Options{APIKey: "  "})
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestFetch(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, &calls)

	client, err := New(Options{APIKey: "secret", BaseURL: srv.URL, RatePerSecond: 100})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := client.Fetch(context.Background(), "AI Agent")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	want := &Result{
		Query:    "AI Agent",
		DateFrom: "Jan 1 - 7, 2024",
		DateTo:   "Jan 15 - 21, 2024",
		Values:   []float64{20, 30, 40},
		Rising:   []string{"ai agent builder", "ai agent framework"},
		Top:      []string{"ai agent", "best ai agent"},
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 API calls, got %d", calls.Load())
	}

	// cached
	if _, err := client.Fetch(context.Background(), "ai agent"); err != nil {
		t.Fatalf("cached Fetch: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected cached result, got %d calls", calls.Load())
	}
}

func TestQuerySegments(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, &calls)

	client, err := New(Options{APIKey: "secret", BaseURL: srv.URL, RatePerSecond: 100})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	blob, err := client.Query(context.Background(), "AI Agent")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	for _, line := range []string{
		"Query: AI Agent",
		"Min Value: 20",
		"Max Value: 40",
		"Average Value: 30.00",
		"Percent Change: 100.00%",
		"Trend values: 20, 30, 40",
	} {
		if !strings.Contains(blob, line) {
			t.Errorf("summary missing %q:\n%s", line, blob)
		}
	}

	got := segment.Segment(blob)
	want := []string{"ai agent builder", "ai agent framework"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("segment mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchAPIError(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, &calls)

	client, err := New(Options{APIKey: "wrong", BaseURL: srv.URL, RatePerSecond: 100})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = client.Query(context.Background(), "AI Agent")
	if !errors.Is(err, internalerr.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid API key") {
		t.Fatalf("expected API message in error, got %v", err)
	}
}

func TestFetchEmptyKeyword(t *testing.T) {
	client, err := New(Options{APIKey: "secret"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.Fetch(context.Background(), " "); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNoTimeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"interest_over_time": {}}`))
	}))
	defer srv.Close()

	client, err := New(Options{APIKey: "secret", BaseURL: srv.URL, RatePerSecond: 100})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	blob, err := client.Query(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if blob != NoResult {
		t.Fatalf("expected %q, got %q", NoResult, blob)
	}
	if got := segment.Segment(blob); len(got) != 0 {
		t.Fatalf("expected no candidates, got %v", got)
	}
}
