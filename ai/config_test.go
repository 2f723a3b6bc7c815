package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults target a local service", func(t *testing.T) {
		c := NewConfig()
		assert.Equal(t, "http://localhost:11434/v1", c.EmbeddingHost)
		assert.Equal(t, "http://localhost:11434/v1", c.GeneratorHost)
		assert.Equal(t, DefaultDim, c.Dim)
	})

	t.Run("options override defaults", func(t *testing.T) {
		c := NewConfig(
			WithHost("http://example.com/v1"),
			WithEmbeddingModel("custom-embed"),
			WithGeneratorModel("custom-gen"),
			WithDim(768),
			WithToken("secret"),
		)
		assert.Equal(t, "http://example.com/v1", c.EmbeddingHost)
		assert.Equal(t, "http://example.com/v1", c.GeneratorHost)
		assert.Equal(t, "custom-embed", c.EmbeddingModel)
		assert.Equal(t, "custom-gen", c.GeneratorModel)
		assert.Equal(t, 768, c.Dim)
		assert.Equal(t, "secret", c.Token)
	})

	t.Run("empty token option is ignored", func(t *testing.T) {
		c := NewConfig(WithToken("keep"), WithToken(""))
		assert.Equal(t, "keep", c.Token)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("defaults validate", func(t *testing.T) {
		require.NoError(t, NewConfig().Validate())
	})

	t.Run("trims trailing host slash", func(t *testing.T) {
		c := NewConfig(WithHost("http://example.com/v1/"))
		require.NoError(t, c.Validate())
		assert.Equal(t, "http://example.com/v1", c.EmbeddingHost)
		assert.Equal(t, "http://example.com/v1", c.GeneratorHost)
	})

	t.Run("empty token becomes none", func(t *testing.T) {
		c := NewConfig()
		require.NoError(t, c.Validate())
		assert.Equal(t, "none", c.Token)
	})

	t.Run("rejects missing embedding host", func(t *testing.T) {
		c := NewConfig()
		c.EmbeddingHost = ""
		assert.Error(t, c.Validate())
	})

	t.Run("rejects missing embedding model", func(t *testing.T) {
		c := NewConfig()
		c.EmbeddingModel = ""
		assert.Error(t, c.Validate())
	})

	t.Run("rejects non-positive dimension", func(t *testing.T) {
		c := NewConfig(WithDim(0))
		assert.Error(t, c.Validate())
	})

	t.Run("nil config errors", func(t *testing.T) {
		var c *Config
		assert.Error(t, c.Validate())
	})
}
