package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"neurabase/internal/domain"
	"neurabase/internal/port"
)

var _ port.VectorStore = (*ChromemStore)(nil)

const chromemSchemaFile = "neurabase_schema.json"

// ChromemStore implements VectorStore on a persistent chromem-go collection.
// Embeddings are always supplied by the caller; the collection never embeds.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	dimension  int
	mu         sync.Mutex
}

// OpenChromemStore opens the collection persisted under dir.
func OpenChromemStore(dir, collection string, dimension int, model string) (*ChromemStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}
	if err := checkSchemaFile(filepath.Join(dir, chromemSchemaFile), dimension, model); err != nil {
		return nil, err
	}

	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open chromem db: %w", err)
	}

	col, err := db.GetOrCreateCollection(collection, map[string]string{"hnsw:space": "cosine"}, refuseEmbedding)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %s: %w", collection, err)
	}

	return &ChromemStore{db: db, collection: col, dimension: dimension}, nil
}

func refuseEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("collection does not embed text, pass precomputed embeddings")
}

// Upsert adds the records; an existing id is replaced.
func (s *ChromemStore) Upsert(ctx context.Context, records []domain.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := validateRecords(records, s.dimension); err != nil {
		return err
	}

	docs := make([]chromem.Document, len(records))
	for i, rec := range records {
		docs[i] = chromem.Document{
			ID: rec.ID,
			Metadata: map[string]string{
				"source":   rec.Metadata.Source,
				"chunk_id": strconv.Itoa(rec.Metadata.ChunkID),
			},
			// chromem normalises in place, keep the caller's slice intact
			Embedding: append([]float32(nil), rec.Embedding...),
			Content:   rec.Text,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// AddDocuments returns nil when ctx is done, whether or not anything
	// was written.
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return err
	}
	return ctx.Err()
}

// Query returns up to k nearest records. chromem normalises zero vectors
// into NaN, so every record is scored, NaN becomes 0 and the ranking is
// redone with TopK to agree with the other backends.
func (s *ChromemStore) Query(ctx context.Context, embedding []float32, k int) ([]domain.Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(embedding) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(embedding))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.collection.Count()
	if k <= 0 || n == 0 {
		return nil, nil
	}

	results, err := s.collection.QueryEmbedding(ctx, append([]float32(nil), embedding...), n, nil, nil)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.Match, 0, len(results))
	for _, r := range results {
		score := float64(r.Similarity)
		if math.IsNaN(score) {
			score = 0
		}
		chunkID, _ := strconv.Atoi(r.Metadata["chunk_id"])
		matches = append(matches, domain.Match{
			ID:    r.ID,
			Text:  r.Content,
			Score: score,
			Metadata: domain.RecordMetadata{
				Source:  r.Metadata["source"],
				ChunkID: chunkID,
			},
		})
	}
	return TopK(matches, k), nil
}

func (s *ChromemStore) Count(ctx context.Context) (int, error) {
	return s.collection.Count(), nil
}

// Close is a no-op; chromem persists every write as it happens.
func (s *ChromemStore) Close() error {
	return nil
}

// checkSchemaFile is the chromem counterpart of the bolt meta bucket.
func checkSchemaFile(path string, dimension int, model string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		data, err = json.Marshal(SchemaInfo{Version: CurrentSchemaVersion, Dimension: dimension, Model: model})
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0644)
	}
	if err != nil {
		return fmt.Errorf("failed to read schema info: %w", err)
	}

	var info SchemaInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return fmt.Errorf("corrupted schema info %s: %w", path, err)
	}
	return verifySchema(info, dimension)
}
