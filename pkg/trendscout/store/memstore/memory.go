package memstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cognicore/trendscout/pkg/trendscout/internalerr"
	"github.com/cognicore/trendscout/pkg/trendscout/store"
)

// Store is an in-memory implementation of store.TopicStore for tests.
type Store struct {
	mu      sync.RWMutex
	records []store.TopicRecord

	// Injected failures.
	LoadErr   error
	AppendErr error

	// Loads counts LoadExisting calls.
	Loads int
}

// New creates a new in-memory store seeded with topics.
func New(topics ...string) *Store {
	s := &Store{}
	for _, t := range topics {
		s.records = append(s.records, store.TopicRecord{Topic: t, Status: store.StatusInit})
	}
	return s
}

// Close implements store.TopicStore.
func (s *Store) Close() error { return nil }

// LoadExisting implements store.TopicStore.
func (s *Store) LoadExisting(ctx context.Context) (store.TopicSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Loads++

	if s.LoadErr != nil {
		return store.NewTopicSet(), fmt.Errorf("memstore: %w: %w", internalerr.ErrPersistenceRead, s.LoadErr)
	}
	existing := store.NewTopicSet()
	for _, r := range s.records {
		existing.Add(r.Topic)
	}
	return existing, nil
}

// Append implements store.TopicStore.
func (s *Store) Append(ctx context.Context, topic string) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return fmt.Errorf("append: empty topic: %w", internalerr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.AppendErr != nil {
		return fmt.Errorf("memstore: %w: %w", internalerr.ErrPersistenceWrite, s.AppendErr)
	}
	s.records = append(s.records, store.TopicRecord{Topic: topic, Status: store.StatusInit})
	return nil
}

// List implements store.TopicStore.
func (s *Store) List(ctx context.Context) ([]store.TopicRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.TopicRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Topics returns the stored topic strings in insertion order.
func (s *Store) Topics() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.records))
	for i, r := range s.records {
		out[i] = r.Topic
	}
	return out
}
