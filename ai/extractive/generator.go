// Package extractive provides a deterministic ai.Generator that answers
// from the prompt's own context chunks, requiring no external model. It is
// the default generator when no LLM is configured.
package extractive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bharatrag/bharatrag/ai"
)

// Generator answers by extracting from the context section of a composed
// prompt. Prompts are expected to carry "QUESTION:" and "CONTEXT:"
// sections with chunks separated by "\n---\n"; other prompts are returned
// unchanged.
type Generator struct {
	logger *slog.Logger
}

var _ ai.Generator = (*Generator)(nil)

// NewGenerator creates an extractive generator.
func NewGenerator() *Generator {
	return &Generator{
		logger: slog.Default().With("component", "extractive-generator"),
	}
}

// Generate produces an extractive answer from the prompt's context.
func (g *Generator) Generate(_ context.Context, prompt string) (string, error) {
	if !strings.Contains(prompt, "QUESTION:") || !strings.Contains(prompt, "CONTEXT:") {
		g.logger.Warn("unexpected prompt structure, returning prompt as-is")
		return prompt, nil
	}

	question := strings.TrimSpace(strings.Split(strings.Split(prompt, "QUESTION:")[1], "CONTEXT:")[0])
	contextPart := strings.Split(prompt, "CONTEXT:")[1]
	if i := strings.LastIndex(contextPart, "ANSWER:"); i >= 0 {
		contextPart = contextPart[:i]
	}
	contextPart = strings.TrimSpace(contextPart)

	var chunks []string
	for _, c := range strings.Split(contextPart, "\n---\n") {
		if c = strings.TrimSpace(c); c != "" {
			chunks = append(chunks, c)
		}
	}

	if len(chunks) == 0 {
		g.logger.Warn("no context chunks found for answer generation")
		return fmt.Sprintf("Based on the available information, I cannot find relevant context to answer: %s", question), nil
	}

	// Use the top chunks verbatim; retrieval order already ranks them.
	answer := chunks[0]
	if len(chunks) > 1 {
		answer = chunks[0] + " " + chunks[1]
	}
	if len(chunks) > 2 {
		answer += fmt.Sprintf(" [Additional context available: %d more chunks]", len(chunks)-2)
	}

	return "Based on the provided context: " + answer, nil
}
