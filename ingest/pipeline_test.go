package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatrag/bharatrag/ai/mock"
	"github.com/bharatrag/bharatrag/core"
	"github.com/bharatrag/bharatrag/extract"
	badgerstore "github.com/bharatrag/bharatrag/storage/badger"
)

// unitsExtractor returns a fixed set of units for any source.
type unitsExtractor struct {
	units []extract.Unit
	err   error
}

func (e *unitsExtractor) Supports(string, core.SourceType) bool { return true }

func (e *unitsExtractor) Extract(context.Context, string) ([]extract.Unit, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.units, nil
}

func newTestPipeline(t *testing.T, registry *extract.Registry, embedder *mock.Embedder) (*Pipeline, *badgerstore.Repositories, *core.Collection) {
	t.Helper()

	repos, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	collection, err := repos.Collections.AddCollection(context.Background(), &core.Collection{Name: "test"})
	require.NoError(t, err)

	if registry == nil {
		registry = extract.NewDefaultRegistry()
	}
	if embedder == nil {
		embedder = mock.NewEmbedder()
	}

	p, err := NewPipeline(Stores{
		Collections: repos.Collections,
		Documents:   repos.Documents,
		Chunks:      repos.Chunks,
		Jobs:        repos.Jobs,
	}, registry, embedder)
	require.NoError(t, err)
	t.Cleanup(p.Release)

	return p, repos, collection
}

func TestIngestRawTextCompletes(t *testing.T) {
	p, repos, collection := newTestPipeline(t, nil, nil)
	ctx := context.Background()

	job, err := p.Ingest(ctx, Request{
		CollectionID: collection.ID,
		SourceType:   core.SourceTypeText,
		Format:       "txt",
		URI:          "The quick brown fox jumps over the lazy dog.",
		Title:        "fox",
	})
	require.NoError(t, err)

	assert.Equal(t, core.JobStatusCompleted, job.Status)
	assert.Empty(t, job.ErrorSummary)
	assert.Equal(t, core.StageCompleted, job.Progress.Stage)
	assert.Equal(t, 1, job.Progress.UnitsTotal)
	assert.Zero(t, job.Progress.UnitsFailed)
	assert.GreaterOrEqual(t, job.Progress.Chunks, 1)
	assert.NotEqual(t, job.DocumentID.String(), "00000000-0000-0000-0000-000000000000")
	assert.False(t, job.StartedAt.IsZero())
	assert.False(t, job.CompletedAt.IsZero())

	// Chunks landed with contiguous indices and embeddings
	chunks, err := repos.Chunks.ListChunksByDocument(ctx, job.DocumentID)
	require.NoError(t, err)
	require.Equal(t, job.Progress.Chunks, len(chunks))
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Len(t, c.Vector, 384)
		assert.Equal(t, collection.ID, c.CollectionID)
	}

	// Document carries request metadata
	doc, err := repos.Documents.GetDocument(ctx, job.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, "fox", doc.Title)
}

func TestIngestPartialOnUnitFailure(t *testing.T) {
	extractor := &unitsExtractor{units: []extract.Unit{
		{Text: "unit one content", Metadata: map[string]string{}},
		extract.FailedUnit("decode failure", map[string]string{"page_number": "2"}),
		{Text: "unit three content", Metadata: map[string]string{}},
	}}
	registry := extract.NewRegistry([]extract.Extractor{extractor})

	p, repos, collection := newTestPipeline(t, registry, nil)
	ctx := context.Background()

	job, err := p.Ingest(ctx, Request{
		CollectionID: collection.ID,
		SourceType:   core.SourceTypeFile,
		Format:       "pdf",
		URI:          "/data/scan.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, core.JobStatusPartial, job.Status)
	assert.Equal(t, 3, job.Progress.UnitsTotal)
	assert.Equal(t, 1, job.Progress.UnitsFailed)
	assert.Contains(t, job.ErrorSummary, "unit 2")
	assert.Contains(t, job.ErrorSummary, "decode failure")

	// Chunks from the surviving units persisted
	chunks, err := repos.Chunks.ListChunksByDocument(ctx, job.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, 2, len(chunks))
}

func TestIngestFailsWhenAllUnitsFail(t *testing.T) {
	extractor := &unitsExtractor{units: []extract.Unit{
		extract.FailedUnit("page 1 broken", nil),
		extract.FailedUnit("page 2 broken", nil),
	}}
	registry := extract.NewRegistry([]extract.Extractor{extractor})

	p, repos, collection := newTestPipeline(t, registry, nil)
	ctx := context.Background()

	job, err := p.Ingest(ctx, Request{
		CollectionID: collection.ID,
		SourceType:   core.SourceTypeFile,
		Format:       "pdf",
		URI:          "/data/broken.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, core.JobStatusFailed, job.Status)
	assert.Contains(t, job.ErrorSummary, "all extraction units failed")

	chunks, err := repos.Chunks.ListChunksByDocument(ctx, job.DocumentID)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestIngestFailsOnSourceError(t *testing.T) {
	extractor := &unitsExtractor{err: fmt.Errorf("%w: boom", extract.ErrSourceUnreadable)}
	registry := extract.NewRegistry([]extract.Extractor{extractor})

	p, repos, collection := newTestPipeline(t, registry, nil)

	job, err := p.Ingest(context.Background(), Request{
		CollectionID: collection.ID,
		SourceType:   core.SourceTypeFile,
		Format:       "pdf",
		URI:          "/data/missing.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, core.JobStatusFailed, job.Status)
	assert.Contains(t, job.ErrorSummary, "source unreadable")

	// Terminal state survived in storage
	stored, err := repos.Jobs.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusFailed, stored.Status)
}

func TestIngestFailsOnEmbedderError(t *testing.T) {
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
		return nil, errors.New("embedder down")
	}

	p, _, collection := newTestPipeline(t, nil, embedder)

	job, err := p.Ingest(context.Background(), Request{
		CollectionID: collection.ID,
		SourceType:   core.SourceTypeText,
		Format:       "txt",
		URI:          "some content to embed",
	})
	require.NoError(t, err)

	assert.Equal(t, core.JobStatusFailed, job.Status)
	assert.Contains(t, job.ErrorSummary, "embedder down")
}

func TestIngestFailsOnDimensionMismatch(t *testing.T) {
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = []float32{1, 2, 3} // wrong dimension
		}
		return vectors, nil
	}

	p, _, collection := newTestPipeline(t, nil, embedder)

	job, err := p.Ingest(context.Background(), Request{
		CollectionID: collection.ID,
		SourceType:   core.SourceTypeText,
		Format:       "txt",
		URI:          "dimension check content",
	})
	require.NoError(t, err)

	assert.Equal(t, core.JobStatusFailed, job.Status)
	assert.Contains(t, job.ErrorSummary, "dimension")
}

func TestIngestRequestValidation(t *testing.T) {
	p, _, collection := newTestPipeline(t, nil, nil)
	ctx := context.Background()

	_, err := p.Ingest(ctx, Request{
		CollectionID: collection.ID,
		SourceType:   "carrier-pigeon",
		Format:       "txt",
	})
	assert.ErrorIs(t, err, core.ErrInvalidSourceType)

	_, err = p.Ingest(ctx, Request{
		CollectionID: collection.ID,
		SourceType:   core.SourceTypeText,
	})
	assert.ErrorIs(t, err, core.ErrEmptyFormat)

	_, err = p.Ingest(ctx, Request{
		CollectionID: collection.ID,
		SourceType:   core.SourceTypeFile,
		Format:       "pdf",
	})
	assert.ErrorIs(t, err, core.ErrMissingURI)

	// Unknown collection fails before any job is recorded
	_, err = p.Ingest(ctx, Request{
		CollectionID: core.NewID(),
		SourceType:   core.SourceTypeText,
		Format:       "txt",
		URI:          "content",
	})
	require.Error(t, err)

	jobs, listErr := p.stores.Jobs.ListJobs(ctx, uuid.Nil, 10)
	require.NoError(t, listErr)
	assert.Empty(t, jobs)
}

func TestIngestAsync(t *testing.T) {
	p, repos, collection := newTestPipeline(t, nil, nil)
	ctx := context.Background()

	job, err := p.IngestAsync(ctx, Request{
		CollectionID: collection.ID,
		SourceType:   core.SourceTypeText,
		Format:       "txt",
		URI:          "async ingestion content",
	})
	require.NoError(t, err)
	require.NotNil(t, job)

	// Poll the job record until the pipeline finishes
	deadline := time.Now().Add(5 * time.Second)
	var final *core.IngestionJob
	for time.Now().Before(deadline) {
		final, err = repos.Jobs.GetJob(ctx, job.ID)
		require.NoError(t, err)
		if final.Status.Terminal() {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	require.NotNil(t, final)
	assert.Equal(t, core.JobStatusCompleted, final.Status)
	assert.GreaterOrEqual(t, final.Progress.Chunks, 1)
}

func TestIngestFormatNormalized(t *testing.T) {
	p, _, collection := newTestPipeline(t, nil, nil)

	job, err := p.Ingest(context.Background(), Request{
		CollectionID: collection.ID,
		SourceType:   core.SourceTypeText,
		Format:       "TXT",
		URI:          "mixed case format",
	})
	require.NoError(t, err)

	assert.Equal(t, "txt", job.Format)
	assert.True(t, strings.EqualFold(string(core.JobStatusCompleted), string(job.Status)))
}

// slowExtractor delays extraction so shutdown ordering can be observed.
type slowExtractor struct {
	delay time.Duration
}

func (e *slowExtractor) Supports(string, core.SourceType) bool { return true }

func (e *slowExtractor) Extract(context.Context, string) ([]extract.Unit, error) {
	time.Sleep(e.delay)
	return []extract.Unit{{Text: "slowly extracted content", Metadata: map[string]string{}}}, nil
}

func TestIngestMediaWithoutTranscriberFails(t *testing.T) {
	p, repos, collection := newTestPipeline(t, nil, nil)

	job, err := p.Ingest(context.Background(), Request{
		CollectionID: collection.ID,
		SourceType:   core.SourceTypeFile,
		Format:       "png",
		URI:          "/tmp/scan.png",
	})
	require.NoError(t, err)

	// Image bytes must never reach the raw fallback and get embedded
	assert.Equal(t, core.JobStatusFailed, job.Status)
	assert.Contains(t, job.ErrorSummary, "transcriber")

	chunks, err := repos.Chunks.ListChunksByDocument(context.Background(), job.DocumentID)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestIngestRecordsDocumentMetadata(t *testing.T) {
	extractor := &unitsExtractor{units: []extract.Unit{
		{Text: "page one content", Metadata: map[string]string{
			"title":       "Quarterly Report",
			"total_pages": "3",
			"page_number": "1",
		}},
		{Text: "page two content", Metadata: map[string]string{
			"total_pages": "3",
			"page_number": "2",
		}},
	}}
	registry := extract.NewRegistry([]extract.Extractor{extractor})

	p, repos, collection := newTestPipeline(t, registry, nil)
	ctx := context.Background()

	job, err := p.Ingest(ctx, Request{
		CollectionID: collection.ID,
		SourceType:   core.SourceTypeFile,
		Format:       "pdf",
		URI:          "file:///report.pdf",
	})
	require.NoError(t, err)
	require.Equal(t, core.JobStatusCompleted, job.Status)

	doc, err := repos.Documents.GetDocument(ctx, job.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Report", doc.Metadata["title"])
	assert.Equal(t, "3", doc.Metadata["total_pages"])
	// Per-page keys stay on the chunks, not the document
	assert.NotContains(t, doc.Metadata, "page_number")
}

func TestReleaseWaitsForAsyncJobs(t *testing.T) {
	registry := extract.NewRegistry([]extract.Extractor{&slowExtractor{delay: 150 * time.Millisecond}})
	p, repos, collection := newTestPipeline(t, registry, nil)
	ctx := context.Background()

	job, err := p.IngestAsync(ctx, Request{
		CollectionID: collection.ID,
		SourceType:   core.SourceTypeText,
		Format:       "txt",
		URI:          "content",
	})
	require.NoError(t, err)

	p.Release()

	final, err := repos.Jobs.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, final.Status.Terminal(), "job left in %s after release", final.Status)
	assert.Equal(t, core.JobStatusCompleted, final.Status)
}
