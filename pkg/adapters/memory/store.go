package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/switchyard/pkg/domain"
)

// Store implements ports.ProjectStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.ProjectRecord
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.ProjectRecord),
	}
}

// Save persists the record in memory.
func (s *Store) Save(ctx context.Context, rec *domain.ProjectRecord) error {
	copied := copyRecord(rec)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[rec.ID] = copied
	return nil
}

// Load retrieves the record from memory.
func (s *Store) Load(ctx context.Context, id string) (*domain.ProjectRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}

	// Copy on read so callers can't mutate stored records by pointer.
	return copyRecord(rec), nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns stored record ids, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.data)), nil
}

func copyRecord(rec *domain.ProjectRecord) *domain.ProjectRecord {
	c := *rec
	c.Answers = maps.Clone(rec.Answers)
	return &c
}
