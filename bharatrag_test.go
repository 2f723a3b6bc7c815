package bharatrag

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatrag/bharatrag/config"
	"github.com/bharatrag/bharatrag/core"
	"github.com/bharatrag/bharatrag/ingest"
	"github.com/bharatrag/bharatrag/retrieve"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	cfg, err := config.Load("/nonexistent/bharatrag.yaml")
	require.NoError(t, err)

	svc, err := NewService(cfg, WithInMemoryStorage())
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestServiceEndToEnd(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	collection, err := svc.CreateCollection(ctx, "handbook")
	require.NoError(t, err)

	job, err := svc.Ingest(ctx, ingest.Request{
		CollectionID: collection.ID,
		SourceType:   core.SourceTypeText,
		Format:       "txt",
		URI:          "Remote employees submit expense reports through the finance portal by the fifth of each month.",
		Title:        "expenses",
	})
	require.NoError(t, err)
	require.Equal(t, core.JobStatusCompleted, job.Status)
	require.GreaterOrEqual(t, job.Progress.Chunks, 1)

	// Identical text embeds identically under the hash embedder, so the
	// ingested chunk must come back as the top hit.
	results, err := svc.Query(ctx, collection.ID,
		"Remote employees submit expense reports through the finance portal by the fifth of each month.", 0)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Chunk.Text, "expense reports")

	answer, err := svc.Answer(ctx, collection.ID,
		"Remote employees submit expense reports through the finance portal by the fifth of each month.", 0)
	require.NoError(t, err)
	assert.NotEqual(t, retrieve.NoAnswerText, answer.Text)
	assert.Contains(t, answer.Text, "expense reports")
	require.NotEmpty(t, answer.Citations)
	assert.Equal(t, job.DocumentID, answer.Citations[0].DocumentID)
}

func TestServiceAnswerEmptyCollection(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	collection, err := svc.CreateCollection(ctx, "empty")
	require.NoError(t, err)

	answer, err := svc.Answer(ctx, collection.ID, "anything at all", 0)
	require.NoError(t, err)
	assert.Equal(t, retrieve.NoAnswerText, answer.Text)
	assert.Empty(t, answer.Citations)
}

func TestServiceCollectionsAndJobs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	collection, err := svc.CreateCollection(ctx, "ops")
	require.NoError(t, err)

	_, err = svc.Ingest(ctx, ingest.Request{
		CollectionID: collection.ID,
		SourceType:   core.SourceTypeText,
		Format:       "txt",
		URI:          "first document",
	})
	require.NoError(t, err)

	collections, err := svc.Collections(ctx)
	require.NoError(t, err)
	require.Len(t, collections, 1)
	assert.Equal(t, "ops", collections[0].Name)

	byName, err := svc.Collection(ctx, "ops")
	require.NoError(t, err)
	assert.Equal(t, collection.ID, byName.ID)

	jobs, err := svc.Jobs(ctx, uuid.Nil, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.True(t, jobs[0].Status.Terminal())

	scoped, err := svc.Jobs(ctx, collection.ID, 10)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, jobs[0].ID, scoped[0].ID)

	other, err := svc.Jobs(ctx, core.NewID(), 10)
	require.NoError(t, err)
	assert.Empty(t, other)

	job, err := svc.Job(ctx, jobs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, jobs[0].ID, job.ID)

	docs, err := svc.Documents(ctx, collection.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	amended, err := svc.AmendDocumentMetadata(ctx, docs[0].ID, map[string]string{"reviewed": "true"})
	require.NoError(t, err)
	assert.Equal(t, "true", amended.Metadata["reviewed"])
}

func TestServiceUnknownEmbedderType(t *testing.T) {
	cfg, err := config.Load("/nonexistent/bharatrag.yaml")
	require.NoError(t, err)
	cfg.Embedder.Type = "quantum"

	_, err = NewService(cfg, WithInMemoryStorage())
	require.Error(t, err)
}
