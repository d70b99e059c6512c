package store

import (
	"context"
	"strings"
)

// StatusInit marks a freshly appended topic. Downstream consumers may advance
// it; this module never writes any other value.
const StatusInit = 0

// TopicStore is an append-only record of emitted topics
type TopicStore interface {
	Close() error

	// LoadExisting returns every stored topic, lowercased. A store that does
	// not exist yet yields an empty set and no error. On a read failure the
	// returned set is empty (never nil) and the error wraps
	// internalerr.ErrPersistenceRead.
	LoadExisting(ctx context.Context) (TopicSet, error)

	// Append writes {topic, StatusInit}. Existing records are never touched.
	Append(ctx context.Context, topic string) error

	// List returns all records in insertion order.
	List(ctx context.Context) ([]TopicRecord, error)
}

// TopicRecord is one stored row
type TopicRecord struct {
	Topic  string
	Status int
}

// TopicSet is a set of lowercased topics
type TopicSet map[string]struct{}

// NewTopicSet builds a set from topics, lowercasing and trimming each one.
func NewTopicSet(topics ...string) TopicSet {
	s := make(TopicSet, len(topics))
	for _, t := range topics {
		s.Add(t)
	}
	return s
}

// Key normalizes a topic for membership checks.
func Key(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}

// Has reports whether topic is in the set, ignoring case.
func (s TopicSet) Has(topic string) bool {
	_, ok := s[Key(topic)]
	return ok
}

// Add inserts topic. Blank topics are ignored.
func (s TopicSet) Add(topic string) {
	if k := Key(topic); k != "" {
		s[k] = struct{}{}
	}
}

// Len returns the number of topics.
func (s TopicSet) Len() int {
	return len(s)
}
