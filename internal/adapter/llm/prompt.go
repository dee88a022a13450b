package llm

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.txt
var promptTemplates embed.FS

var answerTemplate = template.Must(template.ParseFS(promptTemplates, "templates/answer_prompt.txt"))

type promptData struct {
	Question string
	Context  string
}

// BuildAnswerPrompt renders the fixed answer prompt for one question.
func BuildAnswerPrompt(question, context string) (string, error) {
	var sb strings.Builder
	if err := answerTemplate.Execute(&sb, promptData{Question: question, Context: context}); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return sb.String(), nil
}
