package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/bharatrag/bharatrag/ai"
	"github.com/bharatrag/bharatrag/chunk"
	"github.com/bharatrag/bharatrag/core"
	"github.com/bharatrag/bharatrag/extract"
	"github.com/bharatrag/bharatrag/storage"
)

// Stores bundles the repositories the pipeline writes to.
type Stores struct {
	Collections storage.CollectionRepository
	Documents   storage.DocumentRepository
	Chunks      storage.ChunkRepository
	Jobs        storage.JobRepository
}

func (s Stores) complete() bool {
	return s.Collections != nil && s.Documents != nil && s.Chunks != nil && s.Jobs != nil
}

// Request describes one source to ingest.
type Request struct {
	CollectionID uuid.UUID
	SourceType   core.SourceType
	Format       string
	URI          string
	Title        string
	Metadata     map[string]string // optional document metadata
}

// Pipeline orchestrates the ingestion of document sources: extraction,
// chunking, embedding and persistence, with the job record tracking
// every stage.
type Pipeline struct {
	stores   Stores
	registry *extract.Registry
	embedder ai.Embedder
	chunker  chunk.Chunker
	pool     *ants.Pool
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithChunker sets the chunking strategy.
// Default is the fixed window chunker with default size and overlap.
func WithChunker(c chunk.Chunker) Option {
	return func(p *Pipeline) error {
		if c != nil {
			p.chunker = c
		}
		return nil
	}
}

// WithPoolSize sets the worker pool size for asynchronous ingestion.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(stores Stores, registry *extract.Registry, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if !stores.complete() {
		return nil, ErrStoresIncomplete
	}
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	chunker, err := chunk.NewFixedWindow(chunk.DefaultSize, chunk.DefaultOverlap)
	if err != nil {
		return nil, err
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		stores:   stores,
		registry: registry,
		embedder: embedder,
		chunker:  chunker,
		pool:     pool,
		logger:   slog.Default().With("component", "ingest-pipeline"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// releaseTimeout bounds how long Release waits for in-flight jobs.
const releaseTimeout = 30 * time.Second

// Release shuts down the worker pool, waiting for in-flight asynchronous
// jobs to reach a terminal state so none is abandoned mid-run.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		if err := p.pool.ReleaseTimeout(releaseTimeout); err != nil {
			p.logger.Warn("worker pool released with jobs still running", "err", err)
		}
	}
}

// Ingest runs the full pipeline for one source and returns the job in
// its terminal state. Request validation errors are returned before any
// job is recorded; once a job exists, failures land in the job record as
// a FAILED or PARTIAL status and are not returned as errors.
func (p *Pipeline) Ingest(ctx context.Context, req Request) (*core.IngestionJob, error) {
	job, err := p.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	return p.run(ctx, job, req), nil
}

// IngestAsync records the job and schedules the pipeline on the worker
// pool, returning the PENDING job immediately. The job record is the
// only channel for the outcome.
func (p *Pipeline) IngestAsync(ctx context.Context, req Request) (*core.IngestionJob, error) {
	job, err := p.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	submitted := *job
	err = p.pool.Submit(func() {
		p.run(context.Background(), &submitted, req)
	})
	if err != nil {
		job.Status = core.JobStatusFailed
		job.ErrorSummary = err.Error()
		return p.stores.Jobs.UpdateJob(ctx, job)
	}
	return job, nil
}

// prepare validates the request and records the PENDING job.
func (p *Pipeline) prepare(ctx context.Context, req Request) (*core.IngestionJob, error) {
	if err := core.ValidateSourceType(req.SourceType); err != nil {
		return nil, err
	}
	if req.Format == "" {
		return nil, core.ErrEmptyFormat
	}
	if req.SourceType != core.SourceTypeText && req.URI == "" {
		return nil, core.ErrMissingURI
	}
	if _, err := p.stores.Collections.GetCollection(ctx, req.CollectionID); err != nil {
		return nil, fmt.Errorf("collection %s: %w", req.CollectionID, err)
	}

	return p.stores.Jobs.AddJob(ctx, &core.IngestionJob{
		CollectionID: req.CollectionID,
		SourceType:   req.SourceType,
		Format:       strings.ToLower(req.Format),
		Status:       core.JobStatusPending,
	})
}

// run executes the pipeline stages for a prepared job. It always returns
// the job in a terminal state.
func (p *Pipeline) run(ctx context.Context, job *core.IngestionJob, req Request) *core.IngestionJob {
	logger := p.logger.With("job_id", job.ID.String())

	document, err := p.stores.Documents.AddDocument(ctx, &core.Document{
		CollectionID: req.CollectionID,
		SourceType:   req.SourceType,
		Format:       job.Format,
		Title:        req.Title,
		URI:          req.URI,
		Metadata:     req.Metadata,
	})
	if err != nil {
		return p.fail(ctx, job, fmt.Errorf("create document: %w", err))
	}
	job.DocumentID = document.ID
	job.Status = core.JobStatusRunning
	job.Progress.Stage = core.StageDocumentCreated
	if job, err = p.stores.Jobs.UpdateJob(ctx, job); err != nil {
		return p.fail(ctx, job, err)
	}

	extractor, err := p.registry.Resolve(job.Format, job.SourceType)
	if err != nil {
		return p.fail(ctx, job, err)
	}

	job.Progress.Stage = core.StageExtracting
	if job, err = p.stores.Jobs.UpdateJob(ctx, job); err != nil {
		return p.fail(ctx, job, err)
	}

	units, err := extractor.Extract(ctx, req.URI)
	if err != nil {
		return p.fail(ctx, job, fmt.Errorf("extract: %w", err))
	}

	var failures []string
	chunks := make([]*core.Chunk, 0, len(units))
	for unitIdx, unit := range units {
		if unit.Failed() {
			failures = append(failures, fmt.Sprintf("unit %d: %s", unitIdx+1, unit.Metadata[extract.MetaError]))
			continue
		}
		for _, piece := range p.chunker.Chunk(unit.Text) {
			if piece.Text == "" {
				continue
			}
			chunks = append(chunks, &core.Chunk{
				DocumentID:   document.ID,
				CollectionID: req.CollectionID,
				Index:        len(chunks),
				Text:         piece.Text,
				Metadata:     chunkMetadata(unit, unitIdx),
			})
		}
	}

	if meta := documentMetadata(units); len(meta) > 0 {
		if document, err = p.stores.Documents.AmendDocumentMetadata(ctx, document.ID, meta); err != nil {
			return p.fail(ctx, job, fmt.Errorf("amend document metadata: %w", err))
		}
	}

	job.Progress.UnitsTotal = len(units)
	job.Progress.UnitsFailed = len(failures)
	job.Progress.Chunks = len(chunks)
	job.Progress.Stage = core.StageChunked
	if job, err = p.stores.Jobs.UpdateJob(ctx, job); err != nil {
		return p.fail(ctx, job, err)
	}

	if len(units) > 0 && len(failures) == len(units) {
		return p.fail(ctx, job, fmt.Errorf("%w: %s", ErrAllUnitsFailed, strings.Join(failures, "; ")))
	}

	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Text
		}
		vectors, err := p.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return p.fail(ctx, job, fmt.Errorf("embed: %w", err))
		}
		if len(vectors) != len(chunks) {
			return p.fail(ctx, job, fmt.Errorf("embed: got %d vectors for %d chunks", len(vectors), len(chunks)))
		}
		for i, v := range vectors {
			if len(v) != p.embedder.Dim() {
				return p.fail(ctx, job, &core.DimensionError{Want: p.embedder.Dim(), Got: len(v)})
			}
			chunks[i].Vector = v
		}

		job.Progress.Stage = core.StageEmbedded
		if job, err = p.stores.Jobs.UpdateJob(ctx, job); err != nil {
			return p.fail(ctx, job, err)
		}

		if _, err := p.stores.Chunks.AddChunks(ctx, chunks...); err != nil {
			return p.fail(ctx, job, fmt.Errorf("persist chunks: %w", err))
		}

		job.Progress.Stage = core.StagePersisted
		if job, err = p.stores.Jobs.UpdateJob(ctx, job); err != nil {
			return p.fail(ctx, job, err)
		}
	}

	job.Progress.Stage = core.StageCompleted
	if len(failures) > 0 {
		job.Status = core.JobStatusPartial
		job.ErrorSummary = fmt.Sprintf("%d of %d units failed extraction: %s",
			len(failures), len(units), strings.Join(failures, "; "))
	} else {
		job.Status = core.JobStatusCompleted
	}

	final, err := p.stores.Jobs.UpdateJob(ctx, job)
	if err != nil {
		logger.Error("failed to record terminal job status", "err", err)
		return job
	}

	logger.Info("ingestion finished",
		"status", string(final.Status),
		"units_total", final.Progress.UnitsTotal,
		"units_failed", final.Progress.UnitsFailed,
		"chunks", final.Progress.Chunks)
	return final
}

// fail moves the job to FAILED with the error as its summary. Update
// errors here are logged and swallowed; the in-memory job still carries
// the failure.
func (p *Pipeline) fail(ctx context.Context, job *core.IngestionJob, cause error) *core.IngestionJob {
	p.logger.Error("ingestion failed", "job_id", job.ID.String(), "err", cause)

	job.Status = core.JobStatusFailed
	job.ErrorSummary = cause.Error()

	final, err := p.stores.Jobs.UpdateJob(ctx, job)
	if err != nil {
		p.logger.Error("failed to record job failure", "job_id", job.ID.String(), "err", err)
		return job
	}
	return final
}

// documentMetaKeys are the unit metadata entries worth recording on the
// document itself: the page title a web extraction found, its resolved
// URL, and a PDF's page count.
var documentMetaKeys = []string{"title", "canonical_url", "total_pages"}

// documentMetadata folds document-level metadata out of the extracted
// units. The first unit to carry a key wins.
func documentMetadata(units []extract.Unit) map[string]string {
	meta := make(map[string]string)
	for _, unit := range units {
		if unit.Failed() {
			continue
		}
		for _, key := range documentMetaKeys {
			if v := unit.Metadata[key]; v != "" {
				if _, ok := meta[key]; !ok {
					meta[key] = v
				}
			}
		}
	}
	return meta
}

// chunkMetadata copies a unit's metadata into chunk metadata, recording
// which unit the chunk came from.
func chunkMetadata(unit extract.Unit, unitIdx int) map[string]string {
	m := make(map[string]string, len(unit.Metadata)+1)
	for k, v := range unit.Metadata {
		m[k] = v
	}
	m["unit_index"] = fmt.Sprintf("%d", unitIdx+1)
	return m
}
