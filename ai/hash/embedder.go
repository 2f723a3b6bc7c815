// Package hash provides a deterministic content-hash embedder.
//
// The vectors carry no semantic meaning: identical text always produces an
// identical vector, which is exactly what plumbing and tests need. Swap in
// ai/openai for semantic retrieval quality.
package hash

import (
	"context"

	"github.com/go-crypt/x/blake2b"

	"github.com/bharatrag/bharatrag/ai"
)

// DefaultDim is the dimension of vectors produced by default.
const DefaultDim = 384

// Embedder implements ai.Embedder by expanding a BLAKE2b digest of the
// text into a fixed-dimension vector.
type Embedder struct {
	dim int
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates a hash embedder with the given dimension.
// A non-positive dim falls back to DefaultDim.
func NewEmbedder(dim int) *Embedder {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &Embedder{dim: dim}
}

// Dim returns the fixed vector dimension.
func (e *Embedder) Dim() int {
	return e.dim
}

// EmbedTexts generates one vector per input text, preserving order.
// Empty strings embed like any other text.
func (e *Embedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.embed(t)
	}
	return out, nil
}

// embed expands the digest bytes cyclically into dim floats in [-1, 1].
func (e *Embedder) embed(text string) []float32 {
	h, _ := blake2b.New(64, nil)
	h.Write([]byte(text))
	sum := h.Sum(nil)

	vec := make([]float32, e.dim)
	for i := range vec {
		b := sum[i%len(sum)]
		vec[i] = (float32(b)/255.0)*2.0 - 1.0
	}
	return vec
}
