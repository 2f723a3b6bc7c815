// Package ingest provides pipeline orchestration for turning document
// sources into embedded, searchable chunks.
//
// The Pipeline type manages the ingestion workflow for one source:
//   - Recording an ingestion job and advancing its status
//   - Extracting text units through the extraction registry
//   - Chunking and embedding the extracted text
//   - Persisting chunks in a single transaction
//
// Unit-level extraction failures do not abort the job; they are counted
// and surface as a PARTIAL terminal status. Whole-source failures mark
// the job FAILED. Asynchronous ingestion runs on a worker pool; errors
// there land in the job record rather than the caller.
package ingest
