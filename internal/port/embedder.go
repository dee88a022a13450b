package port

import (
	"context"

	"neurabase/internal/domain"
)

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates embeddings for the given texts.
	// Returns a slice of vectors, one per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}

// VectorStore stores chunk records and searches them by embedding.
// Implementations must be safe for concurrent use.
type VectorStore interface {
	// Upsert writes records in one batch. Existing ids are overwritten.
	Upsert(ctx context.Context, records []domain.VectorRecord) error

	// Query returns at most k records nearest to the embedding, best first.
	Query(ctx context.Context, embedding []float32, k int) ([]domain.Match, error)

	// Count returns the number of records in the store.
	Count(ctx context.Context) (int, error)

	Close() error
}
