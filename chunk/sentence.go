package chunk

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentence packs whole sentences greedily into chunks of at most the
// configured size, then seeds the next chunk with the trailing sentences
// that fit within the overlap budget, preserving semantic boundaries.
type Sentence struct {
	size    int
	overlap int
}

var _ Chunker = (*Sentence)(nil)

// NewSentence creates a sentence-aware chunker.
// Returns ErrInvalidConfig unless size > 0 and 0 <= overlap < size.
func NewSentence(size, overlap int) (*Sentence, error) {
	if err := validateConfig(size, overlap); err != nil {
		return nil, err
	}
	return &Sentence{size: size, overlap: overlap}, nil
}

// Chunk splits text at sentence boundaries and packs sentences into
// bounded pieces in original order.
func (c *Sentence) Chunk(text string) []Piece {
	t := strings.TrimSpace(text)
	if t == "" {
		return []Piece{{Index: 0, Text: ""}}
	}

	sentences := splitSentences(t)

	var pieces []Piece
	var current []string
	currentLen := 0

	flush := func() {
		joined := strings.Join(current, " ")
		if joined != "" {
			pieces = append(pieces, Piece{Index: len(pieces), Text: joined})
		}
	}

	for _, sentence := range sentences {
		sentenceLen := len(sentence) + 1 // +1 for the separator

		if currentLen+sentenceLen > c.size && len(current) > 0 {
			flush()

			// Carry trailing sentences that fit within the overlap budget
			// into the next chunk's seed.
			var seed []string
			seedLen := 0
			for i := len(current) - 1; i >= 0; i-- {
				l := len(current[i]) + 1
				if seedLen+l > c.overlap {
					break
				}
				seed = append([]string{current[i]}, seed...)
				seedLen += l
			}
			current = seed
			currentLen = seedLen
		}

		current = append(current, sentence)
		currentLen += sentenceLen
	}

	if len(current) > 0 {
		flush()
	}

	return pieces
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// splitSentences splits text at punctuation followed by whitespace and an
// upper-case letter, or at end of string. Whitespace inside each sentence
// is collapsed. Text without any boundary comes back as one sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	i := 0

	for i < len(text) {
		switch text[i] {
		case '.', '!', '?':
			// Swallow the punctuation run, then look past whitespace.
			j := i + 1
			for j < len(text) && (text[j] == '.' || text[j] == '!' || text[j] == '?') {
				j++
			}
			k := j
			for k < len(text) {
				r, w := utf8.DecodeRuneInString(text[k:])
				if !unicode.IsSpace(r) {
					break
				}
				k += w
			}

			boundary := k >= len(text)
			if !boundary && k > j {
				r, _ := utf8.DecodeRuneInString(text[k:])
				boundary = unicode.IsUpper(r)
			}
			if boundary {
				if s := cleanSentence(text[start:j]); s != "" {
					sentences = append(sentences, s)
				}
				start = k
			}
			i = j
		default:
			i++
		}
	}

	if start < len(text) {
		if s := cleanSentence(text[start:]); s != "" {
			sentences = append(sentences, s)
		}
	}

	if len(sentences) == 0 {
		sentences = []string{cleanSentence(text)}
	}
	return sentences
}

func cleanSentence(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}
