package ai

import "context"

// Embedder maps text to fixed-dimension vectors for similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedTexts generates vector embeddings for the given texts in a batch.
	// The returned slice has the same length and order as the input; an
	// empty string yields a defined vector, never an error.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Dim returns the fixed dimension of the vectors this embedder produces.
	Dim() int
}

// Generator produces an answer from a fully composed prompt.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate returns the model's answer for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// Generator instances, ensuring they share configuration.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Generator returns the answer generation service.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	Close() error
}
