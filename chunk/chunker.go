// Package chunk splits unit text into ordered, bounded passages.
//
// Two interchangeable, pure, deterministic strategies are provided:
// FixedWindow slides a character window; Sentence packs whole sentences
// and carries a sentence-aligned overlap between chunks.
package chunk

import (
	"errors"
	"fmt"
)

// Defaults match typical passage sizes for 384-dim sentence embeddings.
const (
	DefaultSize    = 800
	DefaultOverlap = 120
)

// ErrInvalidConfig indicates chunk_size/overlap values outside
// chunk_size > 0, 0 <= overlap < chunk_size.
var ErrInvalidConfig = errors.New("invalid chunker configuration")

// Piece is one passage emitted by a Chunker. Index is 0-based and
// contiguous within a single Chunk call.
type Piece struct {
	Index int
	Text  string
}

// Chunker splits text into ordered, bounded passages covering the input
// in original order. Empty input yields a single sentinel Piece with empty
// text; otherwise no Piece has empty text. Implementations are pure:
// identical input always yields identical output.
type Chunker interface {
	Chunk(text string) []Piece
}

func validateConfig(size, overlap int) error {
	if size <= 0 {
		return fmt.Errorf("%w: chunk size must be > 0, got %d", ErrInvalidConfig, size)
	}
	if overlap < 0 || overlap >= size {
		return fmt.Errorf("%w: overlap must be in [0, %d), got %d", ErrInvalidConfig, size, overlap)
	}
	return nil
}
