package mock

import "github.com/bharatrag/bharatrag/ai"

// Provider is a test double for ai.Provider aggregating mock services.
type Provider struct {
	embedder  *Embedder
	generator *Generator
}

var _ ai.Provider = (*Provider)(nil)

// NewProvider creates a provider with default mock services.
func NewProvider() *Provider {
	return &Provider{
		embedder:  NewEmbedder(),
		generator: NewGenerator(),
	}
}

// Embedder returns the mock embedder as the ai.Embedder interface.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Generator returns the mock generator as the ai.Generator interface.
func (p *Provider) Generator() ai.Generator {
	return p.generator
}

// MockEmbedder returns the concrete mock for test assertions.
func (p *Provider) MockEmbedder() *Embedder {
	return p.embedder
}

// MockGenerator returns the concrete mock for test assertions.
func (p *Provider) MockGenerator() *Generator {
	return p.generator
}

// Close is a no-op.
func (p *Provider) Close() error {
	return nil
}
