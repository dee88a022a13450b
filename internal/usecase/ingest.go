package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"neurabase/internal/adapter/parser"
	"neurabase/internal/domain"
	"neurabase/internal/port"
)

// DocumentParser extracts the text of a file, dispatching on its extension.
// *parser.Registry implements it.
type DocumentParser interface {
	Parse(path string) (string, error)
}

// IngestUseCase runs one file through parse, chunk, embed and store.
type IngestUseCase struct {
	parser   DocumentParser
	chunker  port.Chunker
	embedder port.Embedder
	store    port.VectorStore
	logger   *slog.Logger
}

// NewIngestUseCase creates a new ingest use case.
func NewIngestUseCase(
	parser DocumentParser,
	chunker port.Chunker,
	embedder port.Embedder,
	store port.VectorStore,
	logger *slog.Logger,
) *IngestUseCase {
	return &IngestUseCase{
		parser:   parser,
		chunker:  chunker,
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// Ingest indexes the file at path. Chunks are keyed by the file's base name,
// so ingesting a file with the same name again overwrites the ids it shares
// with the earlier copy. Every failure is a *domain.StageError.
func (u *IngestUseCase) Ingest(ctx context.Context, path string) (*domain.IngestResult, error) {
	doc := domain.Document{
		Name: filepath.Base(path),
		Ext:  parser.Extension(path),
		Path: path,
	}

	result, err := u.ingest(ctx, doc)
	if err != nil {
		u.logger.Error("ingestion failed", "file", doc.Name, "error", err)
		return nil, err
	}

	u.logger.Info("ingested document", "file", doc.Name, "chunks", result.ChunksWritten)
	return result, nil
}

func (u *IngestUseCase) ingest(ctx context.Context, doc domain.Document) (*domain.IngestResult, error) {
	fail := func(stage domain.Stage, err error) error {
		return &domain.StageError{Stage: stage, Source: doc.Name, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, fail(domain.StageReceived, err)
	}

	// Received -> Parsed
	text, err := u.parser.Parse(doc.Path)
	if err != nil {
		return nil, fail(domain.StageParsed, err)
	}

	// Parsed -> Chunked
	chunks, err := u.chunker.Chunk(doc.Name, text)
	if err != nil {
		return nil, fail(domain.StageChunked, err)
	}
	u.logger.Debug("chunked document", "file", doc.Name, "chunks", len(chunks))

	// Chunked -> Embedded, one batch call
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	embeddings, err := u.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fail(domain.StageEmbedded, fmt.Errorf("%w: %w", domain.ErrEmbedding, err))
	}
	if len(embeddings) != len(chunks) {
		return nil, fail(domain.StageEmbedded, fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrEmbedding, len(embeddings), len(chunks)))
	}

	// Embedded -> Stored, one upsert call
	records := make([]domain.VectorRecord, len(chunks))
	for i, c := range chunks {
		records[i] = domain.VectorRecord{
			ID:        c.ID,
			Text:      c.Text,
			Embedding: embeddings[i],
			Metadata:  domain.RecordMetadata{Source: c.Source, ChunkID: c.Index},
		}
	}
	if err := u.store.Upsert(ctx, records); err != nil {
		return nil, fail(domain.StageStored, fmt.Errorf("%w: %w", domain.ErrStore, err))
	}

	return &domain.IngestResult{Source: doc.Name, ChunksWritten: len(records)}, nil
}

// FileOutcome is the result of one file in a batch.
type FileOutcome struct {
	Path   string
	Result *domain.IngestResult
	Err    error
}

// IngestBatch ingests paths with at most workers files in flight. A failed
// file never stops its siblings; outcomes come back in input order. done, if
// set, is called once per file from the worker goroutines.
func (u *IngestUseCase) IngestBatch(ctx context.Context, paths []string, workers int, done func(FileOutcome)) []FileOutcome {
	if workers <= 0 {
		workers = 1
	}

	outcomes := make([]FileOutcome, len(paths))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			res, err := u.Ingest(ctx, path)
			out := FileOutcome{Path: path, Result: res, Err: err}
			outcomes[i] = out
			if done != nil {
				mu.Lock()
				done(out)
				mu.Unlock()
			}
			return nil
		})
	}
	g.Wait()

	return outcomes
}
