// memory based implementation, used by tests and as the default CLI backend
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/openbook/libperiod/storage"
)

// Store implements storage.Storage interface using an in-memory map
type Store struct {
	mu      sync.RWMutex
	records map[string]*storage.Record // key: record ID
	now     func() time.Time
}

// New creates a new in-memory storage
func New() *Store {
	return &Store{
		records: make(map[string]*storage.Record),
		now:     time.Now,
	}
}

func (s *Store) GetRecord(_ context.Context, id string) (*storage.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, &storage.Error{
			Type:    storage.ErrNotFound,
			Message: "record not found",
		}
	}

	return rec.Clone(), nil
}

func (s *Store) ListRecords(_ context.Context, opts *storage.ListOptions) ([]*storage.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*storage.Record
	for _, rec := range s.records {
		if opts.Matches(rec) {
			records = append(records, rec.Clone())
		}
	}
	storage.SortRecords(records)

	return records, nil
}

func (s *Store) CreateRecord(_ context.Context, rec *storage.Record) error {
	if rec == nil {
		return &storage.Error{
			Type:    storage.ErrInvalidInput,
			Message: "record is nil",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = storage.NewID()
	}
	if _, exists := s.records[rec.ID]; exists {
		return &storage.Error{
			Type:    storage.ErrAlreadyExists,
			Message: "record already exists",
		}
	}

	now := s.now()
	rec.Created = now
	rec.Modified = now
	s.records[rec.ID] = rec.Clone()

	return nil
}

func (s *Store) UpdateRecord(_ context.Context, rec *storage.Record) error {
	if rec == nil || rec.ID == "" {
		return &storage.Error{
			Type:    storage.ErrInvalidInput,
			Message: "record id is required",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, exists := s.records[rec.ID]
	if !exists {
		return &storage.Error{
			Type:    storage.ErrNotFound,
			Message: "record not found",
		}
	}

	rec.Created = old.Created
	rec.Modified = s.now()
	s.records[rec.ID] = rec.Clone()

	return nil
}

func (s *Store) DeleteRecord(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; !exists {
		return &storage.Error{
			Type:    storage.ErrNotFound,
			Message: "record not found",
		}
	}

	delete(s.records, id)

	return nil
}

// Load replaces the whole content of the store. It is used by backends that
// keep their records elsewhere and mirror them here.
func (s *Store) Load(records []*storage.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*storage.Record, len(records))
	for _, rec := range records {
		s.records[rec.ID] = rec.Clone()
	}
}

// Snapshot returns copies of all records, ordered like ListRecords
func (s *Store) Snapshot() []*storage.Record {
	records, _ := s.ListRecords(context.Background(), nil)
	return records
}
