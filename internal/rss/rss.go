// Package rss provides headline sources backed by RSS/Atom feeds and by
// JSONL dumps of downloaded items.
package rss

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cognicore/trendscout/pkg/trendscout/internalerr"
)

// Item represents a simplified RSS/news item
type Item struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Outlet      string    `json:"outlet"`
	PublishedAt time.Time `json:"published_at"`
	Score       int       `json:"score,omitempty"`
	Comments    int       `json:"comments,omitempty"`
}

// LoadFromJSONL loads items from a JSONL file, skipping malformed lines.
func LoadFromJSONL(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var items []Item
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var item Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// WriteJSONL writes items one JSON object per line.
func WriteJSONL(w io.Writer, items []Item) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return fmt.Errorf("encode item %q: %w", item.URL, err)
		}
	}
	return nil
}

// FileSource serves headlines from a JSONL file. The first Limit rows are
// examined and, like the front page scraper, only rows with score > MinScore
// or comments > MinComments are kept. Both thresholds at zero keep every row.
type FileSource struct {
	Path        string
	Limit       int // rows examined; 0 means all items
	MinScore    int
	MinComments int
}

// Headlines returns the non-empty popular titles in file order.
func (s FileSource) Headlines(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrFetch, err)
	}
	items, err := LoadFromJSONL(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internalerr.ErrFetch, err)
	}
	return titles(popular(firstN(items, s.Limit), s.MinScore, s.MinComments)), nil
}

func firstN(items []Item, limit int) []Item {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func popular(items []Item, minScore, minComments int) []Item {
	if minScore <= 0 && minComments <= 0 {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Score > minScore || it.Comments > minComments {
			out = append(out, it)
		}
	}
	return out
}

func titles(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if t := strings.TrimSpace(it.Title); t != "" {
			out = append(out, t)
		}
	}
	return out
}
