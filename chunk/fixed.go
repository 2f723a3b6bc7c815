package chunk

import "strings"

// FixedWindow slides a character window of chunk size over the text,
// stepping by size minus overlap. Whitespace-only windows are dropped.
type FixedWindow struct {
	size    int
	overlap int
}

var _ Chunker = (*FixedWindow)(nil)

// NewFixedWindow creates a fixed-window chunker.
// Returns ErrInvalidConfig unless size > 0 and 0 <= overlap < size.
func NewFixedWindow(size, overlap int) (*FixedWindow, error) {
	if err := validateConfig(size, overlap); err != nil {
		return nil, err
	}
	return &FixedWindow{size: size, overlap: overlap}, nil
}

// Chunk splits text into window-sized pieces in original order.
func (c *FixedWindow) Chunk(text string) []Piece {
	t := strings.TrimSpace(text)
	if t == "" {
		return []Piece{{Index: 0, Text: ""}}
	}

	step := c.size - c.overlap
	pieces := make([]Piece, 0, len(t)/step+1)

	for start := 0; start < len(t); start += step {
		end := start + c.size
		if end > len(t) {
			end = len(t)
		}
		part := strings.TrimSpace(t[start:end])
		if part != "" {
			pieces = append(pieces, Piece{Index: len(pieces), Text: part})
		}
	}

	return pieces
}
