package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"neurabase/internal/port"
)

var _ port.LLM = (*GeminiLLM)(nil)

// GeminiLLM generates answers with a Gemini model.
type GeminiLLM struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

func NewGeminiLLM(ctx context.Context, apiKeyEnv, model string) (*GeminiLLM, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiLLM{
		client:    client,
		model:     client.GenerativeModel(model),
		modelName: model,
	}, nil
}

func (g *GeminiLLM) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		// first candidate with content is the answer
		if sb.Len() > 0 {
			break
		}
	}

	answer := strings.TrimSpace(sb.String())
	if answer == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	return answer, nil
}

func (g *GeminiLLM) ModelName() string {
	return g.modelName
}

func (g *GeminiLLM) Close() error {
	return g.client.Close()
}
