package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/bharatrag/bharatrag/core"
)

// CollectionRepository provides operations for managing collections.
// Implementations must be thread-safe and support concurrent access.
type CollectionRepository interface {
	// AddCollection adds a collection to storage.
	// Generates an ID if the collection has none and sets CreatedAt/UpdatedAt.
	// Returns ErrDuplicateKey if a collection with the same name exists.
	AddCollection(ctx context.Context, collection *core.Collection) (*core.Collection, error)

	// GetCollection retrieves a single collection by ID.
	// Returns ErrNotFound if the collection doesn't exist.
	GetCollection(ctx context.Context, id uuid.UUID) (*core.Collection, error)

	// FindCollectionByName finds a collection by its unique name.
	// Returns ErrNotFound if no matching collection exists.
	FindCollectionByName(ctx context.Context, name string) (*core.Collection, error)

	// ListCollections retrieves all collections, ordered by name.
	ListCollections(ctx context.Context) ([]*core.Collection, error)

	// DeleteCollection removes a collection by ID.
	// Documents and chunks owned by the collection are not cascaded;
	// callers delete those first.
	// Returns ErrNotFound if the collection doesn't exist.
	DeleteCollection(ctx context.Context, id uuid.UUID) error
}

// DocumentRepository provides operations for managing documents.
type DocumentRepository interface {
	// AddDocument adds a document to storage.
	// Generates an ID if the document has none and sets CreatedAt/UpdatedAt.
	AddDocument(ctx context.Context, document *core.Document) (*core.Document, error)

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id uuid.UUID) (*core.Document, error)

	// ListDocuments retrieves all documents in a collection, in insertion order.
	ListDocuments(ctx context.Context, collectionID uuid.UUID) ([]*core.Document, error)

	// AmendDocumentMetadata merges the given entries into the document's
	// metadata and bumps UpdatedAt. Existing keys are overwritten; other
	// document fields are immutable after creation.
	// Returns ErrNotFound if the document doesn't exist.
	AmendDocumentMetadata(ctx context.Context, id uuid.UUID, metadata map[string]string) (*core.Document, error)

	// DeleteDocument removes a document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}

// ChunkRepository provides operations for managing chunks and running
// similarity search over them.
type ChunkRepository interface {
	// AddChunks adds chunks to storage in a single transaction: either
	// all chunks persist or none do. Generates IDs where missing and sets
	// CreatedAt.
	AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id uuid.UUID) (*core.Chunk, error)

	// ListChunksByDocument retrieves a document's chunks ordered by Index.
	ListChunksByDocument(ctx context.Context, documentID uuid.UUID) ([]*core.Chunk, error)

	// DeleteChunksByDocument removes all chunks belonging to a document.
	// Missing documents are not an error; deleting zero chunks is fine.
	DeleteChunksByDocument(ctx context.Context, documentID uuid.UUID) error

	// SearchSimilar finds the chunks in a collection closest to the given
	// vector. limit is clamped to [1, MaxSearchLimit]. Results are ordered
	// by score (highest first) with insertion order breaking ties; an
	// empty result is not an error.
	SearchSimilar(ctx context.Context, collectionID uuid.UUID, vector []float32, limit int) ([]*core.SearchResult, error)
}

// JobRepository provides operations for managing ingestion jobs.
type JobRepository interface {
	// AddJob adds an ingestion job to storage.
	// Generates an ID if the job has none, sets CreatedAt and defaults
	// the status to PENDING.
	AddJob(ctx context.Context, job *core.IngestionJob) (*core.IngestionJob, error)

	// GetJob retrieves a single job by ID.
	// Returns ErrNotFound if the job doesn't exist.
	GetJob(ctx context.Context, id uuid.UUID) (*core.IngestionJob, error)

	// UpdateJob persists the job's current state. The status transition
	// from the stored state is validated: terminal states are sticky and
	// invalid transitions are rejected. StartedAt is stamped on the first
	// move to RUNNING and CompletedAt on the first terminal transition.
	// Returns ErrNotFound if the job doesn't exist.
	UpdateJob(ctx context.Context, job *core.IngestionJob) (*core.IngestionJob, error)

	// ListJobs retrieves the most recently created jobs, newest first.
	// Passing uuid.Nil lists jobs across all collections; any other ID
	// scopes the listing to that collection. Returns up to limit jobs.
	ListJobs(ctx context.Context, collectionID uuid.UUID, limit int) ([]*core.IngestionJob, error)
}
