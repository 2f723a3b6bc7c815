package core

import (
	"time"

	"github.com/google/uuid"
)

// SourceType identifies where a document's content comes from.
type SourceType string

const (
	// SourceTypeFile represents content read from the local filesystem.
	SourceTypeFile SourceType = "file"
	// SourceTypeText represents raw content carried in the request itself.
	SourceTypeText SourceType = "text"
	// SourceTypeURL represents content fetched from a remote URL.
	SourceTypeURL SourceType = "url"
)

// JobStatus is the state of an ingestion job.
//
// The lifecycle is PENDING -> RUNNING -> {COMPLETED | PARTIAL | FAILED}.
// CANCELED is reserved; no code path currently produces it.
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusPartial   JobStatus = "PARTIAL"
	JobStatusFailed    JobStatus = "FAILED"
	JobStatusCanceled  JobStatus = "CANCELED"
)

// Terminal reports whether the status is final. A job in a terminal
// status never transitions again.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusPartial, JobStatusFailed, JobStatusCanceled:
		return true
	}
	return false
}

// Stage names recorded in job progress as the orchestrator advances.
const (
	StageDocumentCreated = "document_created"
	StageExtracting      = "extracting"
	StageChunked         = "chunked"
	StageEmbedded        = "embedded"
	StagePersisted       = "persisted"
	StageCompleted       = "completed"
)

// Collection is a tenant-scoped namespace owning documents and chunks.
type Collection struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Document is one ingested source (file, raw text, or URL). It is created
// by the orchestrator before extraction; only Metadata may be amended
// afterwards.
type Document struct {
	ID           uuid.UUID
	CollectionID uuid.UUID
	SourceType   SourceType
	Format       string
	Title        string
	URI          string
	Metadata     map[string]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Chunk is a bounded passage of a document together with its embedding.
// Index is 0-based and contiguous per document in emission order.
// CollectionID is denormalized so similarity queries can scope without a
// document lookup.
type Chunk struct {
	ID           uuid.UUID
	DocumentID   uuid.UUID
	CollectionID uuid.UUID
	Index        int
	Text         string
	Vector       []float32
	Metadata     map[string]string
	CreatedAt    time.Time
}

// Progress tracks how far an ingestion job has advanced.
type Progress struct {
	Stage       string
	UnitsTotal  int
	UnitsFailed int
	Chunks      int
}

// IngestionJob is the persistent record of one ingestion request.
// Exactly one job exists per request. Status transitions are monotonic:
// once a job reaches a terminal status it never changes again.
type IngestionJob struct {
	ID           uuid.UUID
	CollectionID uuid.UUID
	DocumentID   uuid.UUID // uuid.Nil until the document is created
	SourceType   SourceType
	Format       string
	Status       JobStatus
	Progress     Progress
	ErrorSummary string
	CreatedAt    time.Time
	StartedAt    time.Time // zero until the job enters RUNNING
	CompletedAt  time.Time // zero until the first terminal transition
}

// SearchResult is a retrieved chunk with its relevance score.
// Score is 1 - cosine distance, so higher is closer.
type SearchResult struct {
	Chunk *Chunk
	Score float32
}

// Citation grounds an answer in a stored chunk.
type Citation struct {
	DocumentID uuid.UUID
	ChunkID    uuid.UUID
	ChunkIndex int
}

// NewID generates a fresh entity identifier.
func NewID() uuid.UUID {
	return uuid.New()
}
