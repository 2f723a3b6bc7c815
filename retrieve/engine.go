package retrieve

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/bharatrag/bharatrag/ai"
	"github.com/bharatrag/bharatrag/core"
	"github.com/bharatrag/bharatrag/storage"
)

// Engine runs semantic retrieval over a collection's chunks. The query
// is embedded with the same embedder the ingestion pipeline used, so
// query and chunk vectors live in one space.
type Engine struct {
	chunks   storage.ChunkRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineLogger sets a custom logger.
// Default is slog.Default().
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
	}
}

// NewEngine creates a new retrieval engine.
func NewEngine(chunks storage.ChunkRepository, embedder ai.Embedder, opts ...EngineOption) (*Engine, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	e := &Engine{
		chunks:   chunks,
		embedder: embedder,
		logger:   slog.Default().With("component", "retrieval-engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Query retrieves the chunks most similar to the query text, scoped to
// one collection. Returns up to topK results ordered by score; an empty
// result set is not an error.
func (e *Engine) Query(ctx context.Context, collectionID uuid.UUID, query string, topK int) ([]*core.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	vectors, err := e.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		e.logger.Error("error embedding query", "err", err)
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, ErrEmptyQueryEmbedding
	}

	results, err := e.chunks.SearchSimilar(ctx, collectionID, vectors[0], topK)
	if err != nil {
		e.logger.Error("error searching similar chunks", "err", err)
		return nil, err
	}

	e.logger.Debug("retrieval finished", "hits", len(results))
	return results, nil
}
