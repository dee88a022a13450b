package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"neurabase/internal/adapter/llm"
	"neurabase/internal/domain"
	"neurabase/internal/port"
)

// NoContextAnswer is returned when nothing relevant was retrieved.
const NoContextAnswer = "I could not find any relevant information in the knowledge base to answer your question. Please try rephrasing or upload relevant documents."

// AnswerUseCase produces a grounded answer from retrieved context.
type AnswerUseCase struct {
	llm    port.LLM
	logger *slog.Logger
}

func NewAnswerUseCase(model port.LLM, logger *slog.Logger) *AnswerUseCase {
	return &AnswerUseCase{llm: model, logger: logger}
}

// Answer asks the model to answer question from docContext.
func (u *AnswerUseCase) Answer(ctx context.Context, question, docContext string) (string, error) {
	prompt, err := llm.BuildAnswerPrompt(question, docContext)
	if err != nil {
		return "", err
	}

	answer, err := u.llm.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrLLM, err)
	}

	u.logger.Debug("generated answer", "model", u.llm.ModelName(), "prompt_chars", len(prompt), "answer_chars", len(answer))
	return answer, nil
}

// QueryResult is the outcome of one question.
type QueryResult struct {
	Answer     string
	Sources    []string // first maxSources retrieved texts
	NumSources int      // number of texts retrieved
}

// QueryUseCase chains retrieval and answer generation.
type QueryUseCase struct {
	retrieve   *RetrieveUseCase
	answer     *AnswerUseCase
	maxSources int
}

func NewQueryUseCase(retrieve *RetrieveUseCase, answer *AnswerUseCase, maxSources int) *QueryUseCase {
	if maxSources <= 0 {
		maxSources = domain.DefaultTopK
	}
	return &QueryUseCase{retrieve: retrieve, answer: answer, maxSources: maxSources}
}

// Query answers q. When nothing is retrieved the model is not called and
// the result carries NoContextAnswer with no sources.
func (u *QueryUseCase) Query(ctx context.Context, q domain.Query) (*QueryResult, error) {
	texts := u.retrieve.Retrieve(ctx, q.Question, q.TopK)
	if len(texts) == 0 {
		return &QueryResult{Answer: NoContextAnswer, Sources: []string{}}, nil
	}

	answer, err := u.answer.Answer(ctx, q.Question, BuildContext(texts))
	if err != nil {
		return nil, err
	}

	sources := texts
	if len(sources) > u.maxSources {
		sources = sources[:u.maxSources]
	}
	return &QueryResult{Answer: answer, Sources: sources, NumSources: len(texts)}, nil
}
