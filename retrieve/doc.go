// Package retrieve provides semantic retrieval and citation-backed
// answer composition over ingested chunks.
//
// The Engine embeds a query with the same embedder the ingestion
// pipeline used and runs similarity search scoped to one collection.
// The Composer builds a budgeted prompt from the retrieved chunks,
// invokes a text generator and returns the answer together with one
// citation per context chunk, in retrieval order.
package retrieve
