// Package dedupe suppresses candidate phrases that overlap an earlier one.
package dedupe

import "strings"

// Subtopics keeps candidates in first-seen order, dropping any candidate that
// contains, or is contained in, an already accepted one (case-insensitive).
// Blank candidates are skipped.
func Subtopics(candidates []string) []string {
	accepted := make([]string, 0, len(candidates))
	keys := make([]string, 0, len(candidates))

	for _, c := range candidates {
		key := strings.ToLower(c)
		if strings.TrimSpace(key) == "" {
			continue
		}
		if overlaps(key, keys) {
			continue
		}
		accepted = append(accepted, c)
		keys = append(keys, key)
	}
	return accepted
}

func overlaps(key string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(key, k) || strings.Contains(k, key) {
			return true
		}
	}
	return false
}
