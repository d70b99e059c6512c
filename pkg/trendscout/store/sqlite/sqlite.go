package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/cognicore/trendscout/pkg/trendscout/internalerr"
	"github.com/cognicore/trendscout/pkg/trendscout/store"
)

// sqliteStore implements store.TopicStore using SQLite
type sqliteStore struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// topics table if needed.
func OpenSQLite(ctx context.Context, path string) (store.TopicStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS topics (
	id TEXT PRIMARY KEY,
	topic TEXT NOT NULL,
	topic_key TEXT NOT NULL,
	status INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_topics_key ON topics(topic_key);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// LoadExisting implements store.TopicStore.
func (s *sqliteStore) LoadExisting(ctx context.Context) (store.TopicSet, error) {
	existing := store.NewTopicSet()

	rows, err := s.db.QueryContext(ctx, `SELECT topic_key FROM topics`)
	if err != nil {
		return existing, fmt.Errorf("query topics: %w: %w", internalerr.ErrPersistenceRead, err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return store.NewTopicSet(), fmt.Errorf("scan topic: %w: %w", internalerr.ErrPersistenceRead, err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return store.NewTopicSet(), fmt.Errorf("iterate topics: %w: %w", internalerr.ErrPersistenceRead, err)
	}

	for _, k := range keys {
		existing.Add(k)
	}
	return existing, nil
}

// Append implements store.TopicStore.
func (s *sqliteStore) Append(ctx context.Context, topic string) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return fmt.Errorf("append: empty topic: %w", internalerr.ErrInvalidInput)
	}

	now := time.Now().UTC()
	s.mu.Lock()
	id := ulid.MustNew(ulid.Timestamp(now), s.entropy).String()
	s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO topics (id, topic, topic_key, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, topic, store.Key(topic), store.StatusInit, now.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert topic: %w: %w", internalerr.ErrPersistenceWrite, err)
	}
	return nil
}

// List implements store.TopicStore. ULIDs sort by creation time.
func (s *sqliteStore) List(ctx context.Context) ([]store.TopicRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT topic, status FROM topics ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w: %w", internalerr.ErrPersistenceRead, err)
	}
	defer rows.Close()

	var records []store.TopicRecord
	for rows.Next() {
		var rec store.TopicRecord
		if err := rows.Scan(&rec.Topic, &rec.Status); err != nil {
			return nil, fmt.Errorf("scan topic: %w: %w", internalerr.ErrPersistenceRead, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topics: %w: %w", internalerr.ErrPersistenceRead, err)
	}
	return records, nil
}
