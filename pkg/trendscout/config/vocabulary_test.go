package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/trendscout/pkg/trendscout/internalerr"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadStoplist(t *testing.T) {
	path := writeTemp(t, "stoplist.yaml", `terms:
  - the
  - " Launch "
  - ""
  - launch
  - and
`)

	sl, err := LoadStoplist(path)
	if err != nil {
		t.Fatalf("LoadStoplist: %v", err)
	}
	if diff := cmp.Diff([]string{"the", "launch", "and"}, sl.Terms); diff != "" {
		t.Errorf("terms mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadStoplistInvalidYAML(t *testing.T) {
	path := writeTemp(t, "stoplist.yaml", "terms: [unclosed")
	if _, err := LoadStoplist(path); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadDict(t *testing.T) {
	path := writeTemp(t, "dict.txt", `# Comment
Large Language Model|LLM|llms|ai
model context protocol|mcp|ai
open source|oss||tech
large language model|llms|foundation model|ai
`)

	dict, err := LoadDict(path)
	if err != nil {
		t.Fatalf("LoadDict: %v", err)
	}

	want := []DictEntry{
		{Canonical: "large language model", Variants: []string{"llm", "llms", "foundation model"}, Category: "ai"},
		{Canonical: "model context protocol", Variants: []string{"mcp"}, Category: "ai"},
		{Canonical: "open source", Variants: []string{"oss"}, Category: "tech"},
	}
	if diff := cmp.Diff(want, dict.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDictCategoryOnly(t *testing.T) {
	path := writeTemp(t, "dict.txt", "kubernetes|infra\n")

	dict, err := LoadDict(path)
	if err != nil {
		t.Fatalf("LoadDict: %v", err)
	}
	want := []DictEntry{{Canonical: "kubernetes", Variants: []string{}, Category: "infra"}}
	if diff := cmp.Diff(want, dict.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDictInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    string
	}{
		{"no separator", "open source|oss|tech\nnopipes\n", ":2:"},
		{"empty canonical", "|orphan|tech\n", ":1:"},
		{"empty category", "# header\n\nopen source|oss|\n", ":3:"},
		{"conflicting category", "open source|oss|tech\nOpen Source|foss|law\n", ":2:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "dict.txt", tt.content)
			_, err := LoadDict(path)
			if !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), path+tt.line) {
				t.Errorf("error %q should name line %s", err, tt.line)
			}
		})
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	if _, err := LoadStoplist("/nonexistent/path.yaml"); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("stoplist: expected ErrInvalidConfig, got %v", err)
	}
	if _, err := LoadDict("/nonexistent/path.txt"); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("dict: expected ErrInvalidConfig, got %v", err)
	}
}
