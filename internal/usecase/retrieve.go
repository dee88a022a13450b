package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"neurabase/internal/domain"
	"neurabase/internal/port"
)

// RetrieveUseCase handles semantic search over the vector store.
type RetrieveUseCase struct {
	embedder port.Embedder
	store    port.VectorStore
	logger   *slog.Logger
}

// NewRetrieveUseCase creates a new retrieve use case.
func NewRetrieveUseCase(embedder port.Embedder, store port.VectorStore, logger *slog.Logger) *RetrieveUseCase {
	return &RetrieveUseCase{
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// Retrieve returns the texts of the topK chunks closest to question, best
// first. It never fails: a blank question, an empty store or a backend error
// all yield an empty slice, the latter logged as a warning.
func (u *RetrieveUseCase) Retrieve(ctx context.Context, question string, topK int) []string {
	matches, err := u.Search(ctx, question, topK)
	if err != nil {
		u.logger.Warn("retrieval failed", "error", err)
		return []string{}
	}

	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Text
	}
	return texts
}

// Search is Retrieve with scores and metadata, and with errors reported.
func (u *RetrieveUseCase) Search(ctx context.Context, question string, topK int) ([]domain.Match, error) {
	if strings.TrimSpace(question) == "" {
		return nil, nil
	}
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	embeddings, err := u.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
	}
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("%w: got %d embeddings for 1 query", domain.ErrEmbedding, len(embeddings))
	}

	matches, err := u.store.Query(ctx, embeddings[0], topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// TotalChunks reports how many chunks are indexed.
func (u *RetrieveUseCase) TotalChunks(ctx context.Context) (int, error) {
	n, err := u.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
	return n, nil
}

// BuildContext joins retrieved texts into the context passed to the answer
// generator.
func BuildContext(texts []string) string {
	return strings.Join(texts, "\n\n")
}
