package embedding

import (
	"context"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"neurabase/internal/port"
)

var _ port.Embedder = (*GeminiEmbedder)(nil)

// geminiMaxBatch is the request limit of batchEmbedContents.
const geminiMaxBatch = 100

// GeminiEmbedder embeds texts with a Gemini embedding model.
type GeminiEmbedder struct {
	client    *genai.Client
	model     *genai.EmbeddingModel
	modelName string
	dimension int
	batchSize int
}

func NewGeminiEmbedder(ctx context.Context, apiKeyEnv, model string, dimension, batchSize int) (*GeminiEmbedder, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	if dimension <= 0 {
		dimension = 768
	}
	if batchSize <= 0 || batchSize > geminiMaxBatch {
		batchSize = geminiMaxBatch
	}

	em := client.EmbeddingModel(model)
	em.TaskType = genai.TaskTypeRetrievalDocument

	return &GeminiEmbedder{
		client:    client,
		model:     em,
		modelName: model,
		dimension: dimension,
		batchSize: batchSize,
	}, nil
}

func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	results := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += e.batchSize {
		end := i + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch := e.model.NewBatch()
		for _, text := range texts[i:end] {
			batch.AddContent(genai.Text(text))
		}

		resp, err := e.model.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("gemini batch embedding failed: %w", err)
		}
		if len(resp.Embeddings) != end-i {
			return nil, fmt.Errorf("gemini returned %d embeddings for %d texts", len(resp.Embeddings), end-i)
		}

		for _, emb := range resp.Embeddings {
			vec := make([]float32, len(emb.Values))
			for j, v := range emb.Values {
				vec[j] = float32(v)
			}
			results = append(results, vec)
		}
	}

	return results, nil
}

func (e *GeminiEmbedder) Dimension() int {
	return e.dimension
}

func (e *GeminiEmbedder) ModelName() string {
	return e.modelName
}

func (e *GeminiEmbedder) Close() error {
	return e.client.Close()
}
