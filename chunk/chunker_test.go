package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFixedWindow(t *testing.T) {
	t.Run("rejects non-positive size", func(t *testing.T) {
		_, err := NewFixedWindow(0, 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("rejects overlap not below size", func(t *testing.T) {
		_, err := NewFixedWindow(100, 100)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)

		_, err = NewFixedWindow(100, -1)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("accepts zero overlap", func(t *testing.T) {
		c, err := NewFixedWindow(100, 0)
		require.NoError(t, err)
		assert.NotNil(t, c)
	})
}

func TestFixedWindowChunk(t *testing.T) {
	t.Run("empty input yields one empty piece", func(t *testing.T) {
		c, err := NewFixedWindow(100, 20)
		require.NoError(t, err)

		for _, input := range []string{"", "   ", "\n\t "} {
			pieces := c.Chunk(input)
			require.Len(t, pieces, 1)
			assert.Equal(t, 0, pieces[0].Index)
			assert.Empty(t, pieces[0].Text)
		}
	})

	t.Run("short text yields a single piece", func(t *testing.T) {
		c, err := NewFixedWindow(100, 20)
		require.NoError(t, err)

		pieces := c.Chunk("hello world")
		require.Len(t, pieces, 1)
		assert.Equal(t, "hello world", pieces[0].Text)
	})

	t.Run("windows step by size minus overlap", func(t *testing.T) {
		c, err := NewFixedWindow(10, 4)
		require.NoError(t, err)

		text := "abcdefghijklmnopqrst"
		pieces := c.Chunk(text)
		require.GreaterOrEqual(t, len(pieces), 2)
		assert.Equal(t, "abcdefghij", pieces[0].Text)
		assert.Equal(t, "ghijklmnop", pieces[1].Text)
	})

	t.Run("indices are contiguous from zero", func(t *testing.T) {
		c, err := NewFixedWindow(10, 2)
		require.NoError(t, err)

		pieces := c.Chunk(strings.Repeat("x ", 50))
		for i, p := range pieces {
			assert.Equal(t, i, p.Index)
			assert.NotEmpty(t, p.Text)
		}
	})

	t.Run("identical input yields identical output", func(t *testing.T) {
		c, err := NewFixedWindow(16, 4)
		require.NoError(t, err)

		text := "The quick brown fox jumps over the lazy dog."
		assert.Equal(t, c.Chunk(text), c.Chunk(text))
	})
}

func TestSentenceChunk(t *testing.T) {
	t.Run("empty input yields one empty piece", func(t *testing.T) {
		c, err := NewSentence(100, 20)
		require.NoError(t, err)

		pieces := c.Chunk("  ")
		require.Len(t, pieces, 1)
		assert.Empty(t, pieces[0].Text)
	})

	t.Run("packs whole sentences", func(t *testing.T) {
		c, err := NewSentence(40, 0)
		require.NoError(t, err)

		pieces := c.Chunk("First sentence here. Second sentence here. Third sentence here.")
		require.GreaterOrEqual(t, len(pieces), 2)
		for _, p := range pieces {
			// No piece starts or ends mid-sentence.
			assert.True(t, strings.HasSuffix(p.Text, "."), "piece %q should end at a boundary", p.Text)
		}
	})

	t.Run("overlap repeats trailing sentences", func(t *testing.T) {
		c, err := NewSentence(50, 25)
		require.NoError(t, err)

		pieces := c.Chunk("Alpha is first. Bravo is second. Charlie is third. Delta is fourth.")
		require.GreaterOrEqual(t, len(pieces), 2)

		// The seed of each following piece comes from the previous one.
		first := strings.Split(pieces[1].Text, ". ")[0] + "."
		assert.Contains(t, pieces[0].Text, first)
	})

	t.Run("text without boundaries is one sentence", func(t *testing.T) {
		c, err := NewSentence(1000, 0)
		require.NoError(t, err)

		pieces := c.Chunk("no terminal punctuation at all")
		require.Len(t, pieces, 1)
		assert.Equal(t, "no terminal punctuation at all", pieces[0].Text)
	})

	t.Run("abbreviation mid-sentence does not split", func(t *testing.T) {
		pieces := splitSentences("The file is approx. ready for review now. Next sentence.")
		// "approx. ready" is not followed by an upper-case letter, so the
		// period does not end the sentence.
		require.Len(t, pieces, 2)
		assert.Contains(t, pieces[0], "approx. ready")
	})
}
