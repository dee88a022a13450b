package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.etcd.io/bbolt"

	"neurabase/internal/domain"
	"neurabase/internal/port"
)

var _ port.VectorStore = (*BoltVectorStore)(nil)

// BoltVectorStore implements VectorStore using BoltDB for persistence.
// Uses brute-force search over an in-memory copy of the records; writes go
// through a single bolt transaction so a batch lands completely or not at all.
type BoltVectorStore struct {
	db        *bbolt.DB
	dimension int
	mu        sync.RWMutex
	records   map[string]recordEntry
}

type recordEntry struct {
	text     string
	vector   []float32
	metadata domain.RecordMetadata
}

type storedRecord struct {
	Text     string                `json:"t"`
	Vector   []float32             `json:"v"`
	Metadata domain.RecordMetadata `json:"m"`
}

// OpenBoltVectorStore opens the bolt index at path. The embedding dimension
// is pinned on first open and checked on every later one.
func OpenBoltVectorStore(path string, dimension int, model string) (*BoltVectorStore, error) {
	db, err := openBolt(path)
	if err != nil {
		return nil, err
	}

	if err := checkSchema(db, dimension, model); err != nil {
		db.Close()
		return nil, err
	}

	store := &BoltVectorStore{
		db:        db,
		dimension: dimension,
		records:   make(map[string]recordEntry),
	}

	// Load existing records into memory
	if err := store.loadRecords(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	return store, nil
}

// loadRecords loads all records from BoltDB into memory.
func (s *BoltVectorStore) loadRecords() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRecords).ForEach(func(k, v []byte) error {
			var stored storedRecord
			if err := json.Unmarshal(v, &stored); err != nil {
				return fmt.Errorf("corrupted record %s: %w", k, err)
			}
			s.records[string(k)] = recordEntry{
				text:     stored.Text,
				vector:   stored.Vector,
				metadata: stored.Metadata,
			}
			return nil
		})
	})
}

// Upsert writes all records in one transaction.
func (s *BoltVectorStore) Upsert(ctx context.Context, records []domain.VectorRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateRecords(records, s.dimension); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketRecords)
		for _, rec := range records {
			data, err := json.Marshal(storedRecord{
				Text:     rec.Text,
				Vector:   rec.Embedding,
				Metadata: rec.Metadata,
			})
			if err != nil {
				return err
			}
			if err := b.Put([]byte(rec.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Update in-memory cache only after the transaction committed
	for _, rec := range records {
		s.records[rec.ID] = recordEntry{
			text:     rec.Text,
			vector:   rec.Embedding,
			metadata: rec.Metadata,
		}
	}
	return nil
}

// Query finds the k nearest records to the embedding using cosine similarity.
func (s *BoltVectorStore) Query(ctx context.Context, embedding []float32, k int) ([]domain.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(embedding) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(embedding))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 || len(s.records) == 0 {
		return nil, nil
	}

	matches := make([]domain.Match, 0, len(s.records))
	for id, entry := range s.records {
		matches = append(matches, domain.Match{
			ID:       id,
			Text:     entry.text,
			Score:    CosineSimilarity(embedding, entry.vector),
			Metadata: entry.metadata,
		})
	}

	return TopK(matches, k), nil
}

// Count returns the number of records in the store.
func (s *BoltVectorStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func (s *BoltVectorStore) Close() error {
	return s.db.Close()
}

// validateRecords rejects a batch before anything is written.
func validateRecords(records []domain.VectorRecord, dimension int) error {
	for _, rec := range records {
		if rec.ID == "" {
			return fmt.Errorf("record has empty id")
		}
		if len(rec.Embedding) != dimension {
			return fmt.Errorf("vector dimension mismatch for %s: expected %d, got %d", rec.ID, dimension, len(rec.Embedding))
		}
	}
	return nil
}

// TopK sorts matches by descending score (ties by id) and keeps the first k.
func TopK(matches []domain.Match, k int) []domain.Match {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})
	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k]
}

// CosineSimilarity calculates the cosine similarity between two vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
