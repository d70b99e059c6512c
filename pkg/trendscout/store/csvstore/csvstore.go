// Package csvstore keeps topic records in a flat "topic,status" CSV file.
package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/cognicore/trendscout/pkg/trendscout/internalerr"
	"github.com/cognicore/trendscout/pkg/trendscout/store"
)

// Header is the first row of every file written by this package.
var Header = []string{"topic", "status"}

// Store appends topic records to a CSV file.
//
// Appends from one process are serialized. Separate processes writing the same
// file are not coordinated.
type Store struct {
	path string
	mu   sync.Mutex
}

// Open returns a store backed by path. The file is created on first Append.
func Open(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Close implements store.TopicStore.
func (s *Store) Close() error { return nil }

// LoadExisting implements store.TopicStore.
func (s *Store) LoadExisting(ctx context.Context) (store.TopicSet, error) {
	existing := store.NewTopicSet()

	records, err := s.read(false)
	if err != nil {
		return existing, err
	}
	for _, r := range records {
		existing.Add(r.Topic)
	}
	return existing, nil
}

// List implements store.TopicStore.
func (s *Store) List(ctx context.Context) ([]store.TopicRecord, error) {
	return s.read(true)
}

// Append implements store.TopicStore.
func (s *Store) Append(ctx context.Context, topic string) (err error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return fmt.Errorf("append: empty topic: %w", internalerr.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w: %w", s.path, internalerr.ErrPersistenceWrite, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w: %w", s.path, internalerr.ErrPersistenceWrite, closeErr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w: %w", s.path, internalerr.ErrPersistenceWrite, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("write header: %w: %w", internalerr.ErrPersistenceWrite, err)
		}
	} else if !endsWithNewline(f, info.Size()) {
		if _, err := f.WriteString("\n"); err != nil {
			return fmt.Errorf("write %s: %w: %w", s.path, internalerr.ErrPersistenceWrite, err)
		}
	}

	if err := w.Write([]string{topic, strconv.Itoa(store.StatusInit)}); err != nil {
		return fmt.Errorf("write record: %w: %w", internalerr.ErrPersistenceWrite, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w: %w", s.path, internalerr.ErrPersistenceWrite, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w: %w", s.path, internalerr.ErrPersistenceWrite, err)
	}
	return nil
}

// read parses the whole file. A missing or empty file yields no records.
// Status values are only validated when withStatus is set.
func (s *Store) read(withStatus bool) ([]store.TopicRecord, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", s.path, internalerr.ErrPersistenceRead, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w: %w", s.path, internalerr.ErrPersistenceRead, err)
	}

	topicCol, statusCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "topic":
			topicCol = i
		case "status":
			statusCol = i
		}
	}
	if topicCol == -1 {
		return nil, fmt.Errorf("%s has no topic column: %w", s.path, internalerr.ErrPersistenceRead)
	}

	var records []store.TopicRecord
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w: %w", s.path, internalerr.ErrPersistenceRead, err)
		}
		if topicCol >= len(row) || strings.TrimSpace(row[topicCol]) == "" {
			continue
		}

		rec := store.TopicRecord{Topic: strings.TrimSpace(row[topicCol])}
		if withStatus && statusCol >= 0 && statusCol < len(row) && strings.TrimSpace(row[statusCol]) != "" {
			status, err := strconv.Atoi(strings.TrimSpace(row[statusCol]))
			if err != nil {
				return nil, fmt.Errorf("%s line %d: bad status %q: %w", s.path, line, row[statusCol], internalerr.ErrPersistenceRead)
			}
			rec.Status = status
		}
		records = append(records, rec)
	}
	return records, nil
}

func endsWithNewline(f *os.File, size int64) bool {
	buf := make([]byte, 1)
	if _, err := f.ReadAt(buf, size-1); err != nil {
		return true
	}
	return buf[0] == '\n'
}
