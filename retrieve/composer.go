package retrieve

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/bharatrag/bharatrag/ai"
	"github.com/bharatrag/bharatrag/core"
)

const (
	// DefaultContextTokens is the default token budget for context chunks
	// in a composed prompt.
	DefaultContextTokens = 3000

	// charsPerToken is the character estimate used to convert the token
	// budget into a character budget.
	charsPerToken = 4

	// minTruncateChars is the smallest remaining budget worth filling
	// with a truncated chunk. Below this the chunk is dropped instead.
	minTruncateChars = 100

	// chunkSeparator joins context chunks inside the prompt.
	chunkSeparator = "\n---\n"

	// NoAnswerText is returned when retrieval finds nothing to ground an
	// answer in. The generator is not invoked in that case.
	NoAnswerText = "I could not find relevant information in the knowledge base to answer this question."
)

// Answer is a composed response grounded in retrieved chunks. Citations
// appear in retrieval order, one per retrieved chunk; the prompt budget
// shapes the generated text only, never the citations.
type Answer struct {
	Text      string
	Citations []core.Citation
	Results   []*core.SearchResult
}

// Composer turns retrieval results into a citation-backed answer by
// prompting a text generator with a budgeted context.
type Composer struct {
	engine        *Engine
	generator     ai.Generator
	contextTokens int
	logger        *slog.Logger
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithContextTokens sets the token budget for context chunks.
// Default is DefaultContextTokens; non-positive values are ignored.
func WithContextTokens(tokens int) ComposerOption {
	return func(c *Composer) {
		if tokens > 0 {
			c.contextTokens = tokens
		}
	}
}

// WithComposerLogger sets a custom logger.
// Default is slog.Default().
func WithComposerLogger(logger *slog.Logger) ComposerOption {
	return func(c *Composer) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewComposer creates a new answer composer over a retrieval engine.
func NewComposer(engine *Engine, generator ai.Generator, opts ...ComposerOption) (*Composer, error) {
	if engine == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	c := &Composer{
		engine:        engine,
		generator:     generator,
		contextTokens: DefaultContextTokens,
		logger:        slog.Default().With("component", "answer-composer"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Answer retrieves context for the question and composes a grounded
// answer. With no retrieval hits the fixed NoAnswerText is returned and
// the generator is never invoked.
func (c *Composer) Answer(ctx context.Context, collectionID uuid.UUID, question string, topK int) (*Answer, error) {
	results, err := c.engine.Query(ctx, collectionID, question, topK)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return &Answer{Text: NoAnswerText}, nil
	}

	citations := make([]core.Citation, 0, len(results))
	for _, r := range results {
		citations = append(citations, core.Citation{
			DocumentID: r.Chunk.DocumentID,
			ChunkID:    r.Chunk.ID,
			ChunkIndex: r.Chunk.Index,
		})
	}

	contexts := c.fitBudget(results)
	if len(contexts) == 0 {
		return &Answer{Text: NoAnswerText, Citations: citations, Results: results}, nil
	}

	prompt := buildPrompt(question, contexts)
	text, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		c.logger.Error("error generating answer", "err", err)
		return nil, err
	}

	return &Answer{
		Text:      strings.TrimSpace(text),
		Citations: citations,
		Results:   results,
	}, nil
}

// fitBudget selects chunk texts in retrieval order until the character
// budget runs out. The last chunk may be truncated with an ellipsis, but
// only when at least minTruncateChars of budget remain; otherwise it is
// dropped.
func (c *Composer) fitBudget(results []*core.SearchResult) []string {
	remaining := c.contextTokens * charsPerToken

	var contexts []string
	for _, r := range results {
		if len(contexts) > 0 {
			remaining -= len(chunkSeparator)
		}

		text := r.Chunk.Text
		if len(text) > remaining {
			if remaining < minTruncateChars {
				break
			}
			text = text[:remaining] + "..."
			remaining = 0
		} else {
			remaining -= len(text)
		}

		contexts = append(contexts, text)

		if remaining <= 0 {
			break
		}
	}
	return contexts
}

// buildPrompt assembles the generation prompt from the question and the
// selected context chunks.
func buildPrompt(question string, contexts []string) string {
	var sb strings.Builder
	sb.WriteString("You are a helpful assistant. Answer the question using only the provided context. ")
	sb.WriteString("If the context does not contain the answer, say so.\n\n")
	sb.WriteString("QUESTION:\n")
	sb.WriteString(question)
	sb.WriteString("\n\nCONTEXT:\n")
	sb.WriteString(strings.Join(contexts, chunkSeparator))
	sb.WriteString("\n\nANSWER:")
	return sb.String()
}
