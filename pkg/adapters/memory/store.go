// Package memory implements ports.RecordStore in process memory. Records
// accumulate for the process lifetime; a wave is a daily batch, not a
// high-volume stream, so there is no eviction.
package memory

import (
	"context"
	"sync"

	"github.com/dmelnikov/healthwave/pkg/domain"
)

type key struct {
	identity string
	date     string
}

// Store implements ports.RecordStore in memory. Safe for concurrent use.
type Store struct {
	data map[key]*domain.Record
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[key]*domain.Record),
	}
}

// Save persists a copy of the record so callers can't mutate stored state
// through the pointer afterwards.
func (s *Store) Save(ctx context.Context, identity, date string, rec *domain.Record) error {
	copied := *rec

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key{identity, date}] = &copied
	return nil
}

// Load retrieves a copy of the record for (identity, date).
func (s *Store) Load(ctx context.Context, identity, date string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[key{identity, date}]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	ret := *rec
	return &ret, nil
}

// Identities returns the identities holding a record at the given date.
func (s *Store) Identities(ctx context.Context, date string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for k := range s.data {
		if k.date == date {
			ids = append(ids, k.identity)
		}
	}
	return ids, nil
}
