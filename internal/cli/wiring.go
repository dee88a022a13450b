package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"neurabase/config"
	"neurabase/internal/adapter/chunker"
	"neurabase/internal/adapter/embedding"
	"neurabase/internal/adapter/llm"
	"neurabase/internal/adapter/memstore"
	"neurabase/internal/adapter/parser"
	"neurabase/internal/adapter/store"
	"neurabase/internal/port"
	"neurabase/internal/usecase"
)

// app holds the adapters and pipelines built from one config.
type app struct {
	cfg      *config.Config
	embedder port.Embedder
	store    port.VectorStore
	llm      port.LLM
	closers  []io.Closer

	ingest   *usecase.IngestUseCase
	retrieve *usecase.RetrieveUseCase
	query    *usecase.QueryUseCase
}

// newApp wires the pipelines. withLLM is false for commands that never
// generate answers, so they run without LLM credentials.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, withLLM bool) (*app, error) {
	a := &app{cfg: cfg}

	emb, err := newEmbedder(ctx, cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	a.embedder = emb
	a.track(emb)

	st, err := openStore(cfg, emb)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open index store: %w", err)
	}
	a.store = st
	a.closers = append(a.closers, st)

	chk, err := chunker.NewFixedChunker(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.ingest = usecase.NewIngestUseCase(parser.Default(), chk, emb, st, logger)
	a.retrieve = usecase.NewRetrieveUseCase(emb, st, logger)

	if withLLM {
		model, err := newLLM(ctx, cfg.LLM)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create llm: %w", err)
		}
		a.llm = model
		a.track(model)
		a.query = usecase.NewQueryUseCase(a.retrieve, usecase.NewAnswerUseCase(model, logger), cfg.Retrieve.MaxSources)
	}

	return a, nil
}

// track registers v for Close when it holds resources.
func (a *app) track(v any) {
	if c, ok := v.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func newEmbedder(ctx context.Context, cfg config.EmbeddingConfig) (port.Embedder, error) {
	opts := []embedding.Option{
		embedding.WithDimension(cfg.Dimension),
		embedding.WithBatchSize(cfg.BatchSize),
		embedding.WithTimeout(cfg.Timeout),
	}

	switch cfg.Provider {
	case "openai":
		if cfg.BaseURL != "" {
			return embedding.NewOpenAICompatibleEmbedder(cfg.APIKeyEnv, cfg.Model, cfg.BaseURL, opts...)
		}
		return embedding.NewOpenAIEmbedder(cfg.APIKeyEnv, cfg.Model, opts...)
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg.Model, cfg.BaseURL, opts...), nil
	case "gemini":
		return embedding.NewGeminiEmbedder(ctx, cfg.APIKeyEnv, cfg.Model, cfg.Dimension, cfg.BatchSize)
	case "hash":
		return embedding.NewHashEmbedder(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

func openStore(cfg *config.Config, emb port.Embedder) (port.VectorStore, error) {
	switch cfg.Index.Backend {
	case "bolt":
		return store.OpenBoltVectorStore(cfg.BoltPath(), emb.Dimension(), emb.ModelName())
	case "chromem":
		return store.OpenChromemStore(cfg.Index.Dir, cfg.Index.Collection, emb.Dimension(), emb.ModelName())
	case "memory":
		return memstore.NewMemoryStore(emb.Dimension()), nil
	default:
		return nil, fmt.Errorf("unsupported index backend: %s", cfg.Index.Backend)
	}
}

func newLLM(ctx context.Context, cfg config.LLMConfig) (port.LLM, error) {
	switch cfg.Provider {
	case "gemini":
		return llm.NewGeminiLLM(ctx, cfg.APIKeyEnv, cfg.Model)
	case "openai", "ollama":
		return llm.NewChatLLM(cfg.Provider, cfg.Model, cfg.BaseURL, cfg.APIKeyEnv, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
