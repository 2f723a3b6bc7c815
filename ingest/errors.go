package ingest

import "errors"

var (
	// ErrStoresIncomplete is returned when one of the required repositories
	// is not provided.
	ErrStoresIncomplete = errors.New("collection, document, chunk and job repositories required")

	// ErrRegistryRequired is returned when an extraction registry is not provided.
	ErrRegistryRequired = errors.New("extraction registry required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrAllUnitsFailed indicates every extraction unit of a source failed.
	ErrAllUnitsFailed = errors.New("all extraction units failed")
)
