// internal/history/history.go
package history

import (
	"context"
	"errors"
	"sync"

	"github.com/stratum-labs/stratum/internal/models"
)

// ErrNotFound is returned when no record exists for the requested run id
var ErrNotFound = errors.New("decomposition record not found")

// Store keeps a log of past decomposition runs for observability. It is
// injected into the engine rather than held as package state so that
// tests and embedders can run isolated instances side by side.
type Store interface {
	Append(ctx context.Context, rec models.DecompositionRecord) error
	Get(ctx context.Context, id string) (*models.DecompositionRecord, error)
	// Recent returns up to n records, newest first
	Recent(ctx context.Context, n int) ([]models.DecompositionRecord, error)
}

// MemoryStore is a bounded in-memory ring of the most recent runs. Once
// capacity is reached the oldest record is evicted. Safe for use from
// multiple goroutines.
type MemoryStore struct {
	mu       sync.RWMutex
	capacity int
	records  []models.DecompositionRecord
}

// NewMemoryStore creates a ring holding at most capacity records.
// A capacity below 1 is treated as 1.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryStore{capacity: capacity}
}

func (s *MemoryStore) Append(ctx context.Context, rec models.DecompositionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, rec)
	if len(s.records) > s.capacity {
		s.records = s.records[len(s.records)-s.capacity:]
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.DecompositionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].ID == id {
			rec := s.records[i]
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Recent(ctx context.Context, n int) ([]models.DecompositionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.records) {
		n = len(s.records)
	}

	out := make([]models.DecompositionRecord, 0, n)
	for i := len(s.records) - 1; i >= len(s.records)-n; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// Len reports how many records are currently retained
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
