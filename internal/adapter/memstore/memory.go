package memstore

import (
	"context"
	"fmt"
	"sync"

	"neurabase/internal/adapter/store"
	"neurabase/internal/domain"
	"neurabase/internal/port"
)

var _ port.VectorStore = (*MemoryStore)(nil)

// MemoryStore is a process-local VectorStore. Contents are lost on exit;
// it backs tests and the "memory" index backend.
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	records   map[string]domain.VectorRecord
}

// NewMemoryStore creates a store. A dimension of 0 is fixed by the first write.
func NewMemoryStore(dimension int) *MemoryStore {
	return &MemoryStore{
		dimension: dimension,
		records:   make(map[string]domain.VectorRecord),
	}
}

func (s *MemoryStore) Upsert(ctx context.Context, records []domain.VectorRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dim := s.dimension
	for _, rec := range records {
		if rec.ID == "" {
			return fmt.Errorf("record has empty id")
		}
		if dim == 0 {
			dim = len(rec.Embedding)
		}
		if len(rec.Embedding) != dim {
			return fmt.Errorf("vector dimension mismatch for %s: expected %d, got %d", rec.ID, dim, len(rec.Embedding))
		}
	}

	s.dimension = dim
	for _, rec := range records {
		rec.Embedding = append([]float32(nil), rec.Embedding...)
		s.records[rec.ID] = rec
	}
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, embedding []float32, k int) ([]domain.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 || len(s.records) == 0 {
		return nil, nil
	}
	if len(embedding) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(embedding))
	}

	matches := make([]domain.Match, 0, len(s.records))
	for _, rec := range s.records {
		matches = append(matches, domain.Match{
			ID:       rec.ID,
			Text:     rec.Text,
			Score:    store.CosineSimilarity(embedding, rec.Embedding),
			Metadata: rec.Metadata,
		})
	}
	return store.TopK(matches, k), nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func (s *MemoryStore) Close() error {
	return nil
}
