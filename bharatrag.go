// Copyright 2026 BharatRAG Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package bharatrag

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/bharatrag/bharatrag/ai"
	"github.com/bharatrag/bharatrag/ai/extractive"
	"github.com/bharatrag/bharatrag/ai/hash"
	"github.com/bharatrag/bharatrag/ai/openai"
	"github.com/bharatrag/bharatrag/chunk"
	"github.com/bharatrag/bharatrag/config"
	"github.com/bharatrag/bharatrag/core"
	"github.com/bharatrag/bharatrag/extract"
	"github.com/bharatrag/bharatrag/ingest"
	"github.com/bharatrag/bharatrag/retrieve"
	"github.com/bharatrag/bharatrag/storage"
	"github.com/bharatrag/bharatrag/storage/badger"
)

// Service wires storage, extraction, chunking, embedding and generation
// into one RAG system, built from an application config.
type Service struct {
	repos     *badger.Repositories
	embedder  ai.Embedder
	generator ai.Generator
	registry  *extract.Registry
	pipeline  *ingest.Pipeline
	engine    *retrieve.Engine
	composer  *retrieve.Composer
	cfg       *config.AppConfig
	logger    *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	transcriber extract.Transcriber
	inMemory    bool
}

// WithTranscriber enables media ingestion (image OCR, audio/video ASR)
// through the given transcriber.
func WithTranscriber(t extract.Transcriber) ServiceOption {
	return func(o *serviceOptions) {
		o.transcriber = t
	}
}

// WithInMemoryStorage uses an in-memory store instead of the configured
// path. Intended for tests.
func WithInMemoryStorage() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemory = true
	}
}

// NewService builds a Service from the application config.
func NewService(cfg *config.AppConfig, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{}
	for _, opt := range opts {
		opt(options)
	}

	var repos *badger.Repositories
	var err error
	if options.inMemory {
		repos, err = badger.NewMemoryRepositories()
	} else {
		repos, err = badger.NewRepositories(cfg.Storage.Path)
	}
	if err != nil {
		return nil, err
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		repos.Close()
		return nil, err
	}
	generator, err := buildGenerator(cfg)
	if err != nil {
		repos.Close()
		return nil, err
	}
	chunker, err := buildChunker(cfg)
	if err != nil {
		repos.Close()
		return nil, err
	}

	registry := buildRegistry(options.transcriber)

	stores := ingest.Stores{
		Collections: repos.Collections,
		Documents:   repos.Documents,
		Chunks:      repos.Chunks,
		Jobs:        repos.Jobs,
	}
	pipelineOpts := []ingest.Option{ingest.WithChunker(chunker)}
	if cfg.Ingest.PoolSize > 0 {
		pipelineOpts = append(pipelineOpts, ingest.WithPoolSize(cfg.Ingest.PoolSize))
	}
	pipeline, err := ingest.NewPipeline(stores, registry, embedder, pipelineOpts...)
	if err != nil {
		repos.Close()
		return nil, err
	}

	engine, err := retrieve.NewEngine(repos.Chunks, embedder)
	if err != nil {
		pipeline.Release()
		repos.Close()
		return nil, err
	}
	composer, err := retrieve.NewComposer(engine, generator,
		retrieve.WithContextTokens(cfg.Retrieve.ContextTokens))
	if err != nil {
		pipeline.Release()
		repos.Close()
		return nil, err
	}

	return &Service{
		repos:     repos,
		embedder:  embedder,
		generator: generator,
		registry:  registry,
		pipeline:  pipeline,
		engine:    engine,
		composer:  composer,
		cfg:       cfg,
		logger:    slog.Default(),
	}, nil
}

// Close releases the pipeline's worker pool and the storage backend.
func (s *Service) Close() error {
	s.pipeline.Release()
	if err := s.repos.Close(); err != nil {
		s.logger.Error("error closing storage", "err", err)
		return err
	}
	return nil
}

// CreateCollection creates a named collection.
func (s *Service) CreateCollection(ctx context.Context, name string) (*core.Collection, error) {
	return s.repos.Collections.AddCollection(ctx, &core.Collection{Name: name})
}

// Collections lists all collections ordered by name.
func (s *Service) Collections(ctx context.Context) ([]*core.Collection, error) {
	return s.repos.Collections.ListCollections(ctx)
}

// Collection resolves a collection by name.
func (s *Service) Collection(ctx context.Context, name string) (*core.Collection, error) {
	return s.repos.Collections.FindCollectionByName(ctx, name)
}

// Ingest runs the ingestion pipeline synchronously and returns the job
// in its terminal state.
func (s *Service) Ingest(ctx context.Context, req ingest.Request) (*core.IngestionJob, error) {
	return s.pipeline.Ingest(ctx, req)
}

// IngestAsync schedules ingestion on the worker pool and returns the
// PENDING job immediately.
func (s *Service) IngestAsync(ctx context.Context, req ingest.Request) (*core.IngestionJob, error) {
	return s.pipeline.IngestAsync(ctx, req)
}

// Job retrieves an ingestion job by ID.
func (s *Service) Job(ctx context.Context, id uuid.UUID) (*core.IngestionJob, error) {
	return s.repos.Jobs.GetJob(ctx, id)
}

// Jobs lists the most recent ingestion jobs, newest first. Passing
// uuid.Nil as the collection ID lists jobs across all collections.
func (s *Service) Jobs(ctx context.Context, collectionID uuid.UUID, limit int) ([]*core.IngestionJob, error) {
	return s.repos.Jobs.ListJobs(ctx, collectionID, limit)
}

// Documents lists a collection's documents in insertion order.
func (s *Service) Documents(ctx context.Context, collectionID uuid.UUID) ([]*core.Document, error) {
	return s.repos.Documents.ListDocuments(ctx, collectionID)
}

// AmendDocumentMetadata merges metadata entries into a stored document.
func (s *Service) AmendDocumentMetadata(ctx context.Context, id uuid.UUID, metadata map[string]string) (*core.Document, error) {
	return s.repos.Documents.AmendDocumentMetadata(ctx, id, metadata)
}

// Query retrieves the chunks most similar to the query text.
func (s *Service) Query(ctx context.Context, collectionID uuid.UUID, query string, topK int) ([]*core.SearchResult, error) {
	if topK <= 0 {
		topK = s.cfg.Retrieve.TopK
	}
	return s.engine.Query(ctx, collectionID, query, topK)
}

// Answer composes a citation-backed answer for the question.
func (s *Service) Answer(ctx context.Context, collectionID uuid.UUID, question string, topK int) (*retrieve.Answer, error) {
	if topK <= 0 {
		topK = s.cfg.Retrieve.TopK
	}
	return s.composer.Answer(ctx, collectionID, question, topK)
}

// Repositories exposes the underlying repository set.
func (s *Service) Repositories() (storage.CollectionRepository, storage.DocumentRepository, storage.ChunkRepository, storage.JobRepository) {
	return s.repos.Collections, s.repos.Documents, s.repos.Chunks, s.repos.Jobs
}

func buildEmbedder(cfg *config.AppConfig) (ai.Embedder, error) {
	switch cfg.Embedder.Type {
	case "", "hash":
		return hash.NewEmbedder(cfg.Embedder.Dim), nil
	case "openai":
		return openai.NewEmbedder(openAIConfig(cfg.Embedder.OpenAI, cfg.Embedder.Dim))
	}
	return nil, fmt.Errorf("unknown embedder type %q", cfg.Embedder.Type)
}

func buildGenerator(cfg *config.AppConfig) (ai.Generator, error) {
	switch cfg.Generator.Type {
	case "", "extractive":
		return extractive.NewGenerator(), nil
	case "openai":
		return openai.NewGenerator(openAIConfig(cfg.Generator.OpenAI, 0))
	}
	return nil, fmt.Errorf("unknown generator type %q", cfg.Generator.Type)
}

func buildChunker(cfg *config.AppConfig) (chunk.Chunker, error) {
	switch cfg.Chunker.Type {
	case "", "fixed":
		return chunk.NewFixedWindow(cfg.Chunker.Size, cfg.Chunker.Overlap)
	case "sentence":
		return chunk.NewSentence(cfg.Chunker.Size, cfg.Chunker.Overlap)
	}
	return nil, fmt.Errorf("unknown chunker type %q", cfg.Chunker.Type)
}

func buildRegistry(transcriber extract.Transcriber) *extract.Registry {
	// Media is always registered so image and audio/video formats never
	// fall through to the raw fallback; without a transcriber they fail
	// the job with ErrNoTranscriber.
	extractors := []extract.Extractor{
		extract.NewText(),
		extract.NewPDF(),
		extract.NewWeb(),
		extract.NewMedia(transcriber),
	}
	return extract.NewRegistry(extractors, extract.WithFallback(extract.NewRaw()))
}

// openAIConfig translates the YAML config into the ai package's config.
func openAIConfig(c *config.OpenAIConfig, dim int) *ai.Config {
	opts := []ai.ConfigOption{}
	if dim > 0 {
		opts = append(opts, ai.WithDim(dim))
	}
	if c != nil {
		if c.BaseURL != "" {
			opts = append(opts, ai.WithHost(c.BaseURL))
		}
		if c.EmbeddingModel != "" {
			opts = append(opts, ai.WithEmbeddingModel(c.EmbeddingModel))
		}
		if c.GeneratorModel != "" {
			opts = append(opts, ai.WithGeneratorModel(c.GeneratorModel))
		}
		if c.APIKeyEnv != "" {
			opts = append(opts, ai.WithToken(os.Getenv(c.APIKeyEnv)))
		}
	}
	return ai.NewConfig(opts...)
}
