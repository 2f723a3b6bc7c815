package openai

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/bharatrag/bharatrag/ai"
)

// Generator implements ai.Generator using an OpenAI-compatible chat API.
//
// The underlying model client is constructed lazily on first use, guarded
// by sync.Once, so building a provider stays cheap when only embeddings
// are exercised.
type Generator struct {
	config  *ai.Config
	once    sync.Once
	client  llms.Model
	initErr error
	logger  *slog.Logger
}

var _ ai.Generator = (*Generator)(nil)

// newGenerator is an internal constructor that returns the concrete type.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		config: config,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

func (g *Generator) init() (llms.Model, error) {
	g.once.Do(func() {
		g.logger.Debug("initializing generation model", "model", g.config.GeneratorModel)
		g.client, g.initErr = openai.New(
			openai.WithBaseURL(g.config.GeneratorHost),
			openai.WithToken(g.config.Token),
			openai.WithModel(g.config.GeneratorModel),
		)
	})
	return g.client, g.initErr
}

// Generate returns the model's completion for the prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := g.init()
	if err != nil {
		g.logger.Error("failed to initialize generation model", "err", err)
		return "", err
	}

	g.logger.Debug("generating answer", "prompt_length", len(prompt))

	answer, err := llms.GenerateFromSinglePrompt(ctx, client, prompt)
	if err != nil {
		g.logger.Error("answer generation failed", "err", err)
		return "", err
	}

	return answer, nil
}
