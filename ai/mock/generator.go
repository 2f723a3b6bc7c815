package mock

import "context"

// Generator is a test double for ai.Generator.
type Generator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, returns a fixed canned answer.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	// Prompts records every prompt passed to Generate.
	Prompts []string

	callCount int
}

// NewGenerator creates a mock generator.
// Returns the concrete type to allow test assertions.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate records the prompt and returns the injected or canned answer.
func (m *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	m.callCount++
	m.Prompts = append(m.Prompts, prompt)

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "mock answer", nil
}

// CallCount returns the number of times Generate was called.
func (m *Generator) CallCount() int {
	return m.callCount
}

// Reset clears recorded prompts, the call count and injected behavior.
func (m *Generator) Reset() {
	m.callCount = 0
	m.Prompts = nil
	m.GenerateFunc = nil
}
