// Package segment extracts query lists from labeled trends text.
package segment

import "strings"

// Section markers emitted by the trends client.
const (
	RisingMarker = "Rising Related Queries:"
	TopMarker    = "Top Related Queries:"
)

// Segment returns the rising related queries found between RisingMarker and
// TopMarker. A missing marker yields an empty slice.
func Segment(text string) []string {
	return Section(text, RisingMarker, TopMarker)
}

// Section returns the comma separated items strictly between start and end.
// Pieces are trimmed and empty pieces dropped. If either marker is missing,
// or end only occurs before start finishes, the result is empty.
func Section(text, start, end string) []string {
	i := strings.Index(text, start)
	if i == -1 {
		return []string{}
	}
	j := strings.Index(text, end)
	if j == -1 || j < i+len(start) {
		return []string{}
	}
	return splitList(text[i+len(start) : j])
}

// TopQueries returns the items listed after TopMarker up to the end of that line.
func TopQueries(text string) []string {
	i := strings.Index(text, TopMarker)
	if i == -1 {
		return []string{}
	}
	rest := text[i+len(TopMarker):]
	if nl := strings.IndexByte(rest, '\n'); nl != -1 {
		rest = rest[:nl]
	}
	return splitList(rest)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
