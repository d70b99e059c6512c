package segment

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "inline markers",
			text: "Rising Related Queries: a, b, c Top Related Queries: x, y",
			want: []string{"a", "b", "c"},
		},
		{
			name: "multi-line blob",
			text: "Query: AI Agent\nTrend values: 1, 2\nRising Related Queries: crewai, , n8n ai agent \nTop Related Queries: ai agent",
			want: []string{"crewai", "n8n ai agent"},
		},
		{
			name: "missing rising marker",
			text: "Top Related Queries: x, y",
			want: []string{},
		},
		{
			name: "missing top marker",
			text: "Rising Related Queries: a, b",
			want: []string{},
		},
		{
			name: "markers reversed",
			text: "Top Related Queries: x Rising Related Queries: a",
			want: []string{},
		},
		{
			name: "empty section",
			text: "Rising Related Queries: Top Related Queries: x",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segment(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Segment(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestTopQueries(t *testing.T) {
	text := "Rising Related Queries: a\nTop Related Queries: ai agent, what is ai agent\nTrailer: z"
	want := []string{"ai agent", "what is ai agent"}
	if diff := cmp.Diff(want, TopQueries(text)); diff != "" {
		t.Errorf("TopQueries mismatch (-want +got):\n%s", diff)
	}
	if got := TopQueries("nothing here"); len(got) != 0 {
		t.Errorf("TopQueries without marker = %v", got)
	}
}
