package badger

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
)

// Key prefixes for different data types
const (
	collectionPrefix     = "colrec"
	collectionNamePrefix = "colna"
	documentPrefix       = "docrec"
	documentCollPrefix   = "doccol"
	chunkPrefix          = "churec"
	chunkCollPrefix      = "chucol"
	chunkDocPrefix       = "chudoc"
	jobPrefix            = "jobrec"
	jobDatePrefix        = "jobd"
	jobCollPrefix        = "jobc"
)

// composeKey concatenates a prefix, a separator and the given parts.
func composeKey(prefix string, parts ...[]byte) []byte {
	size := len(prefix) + 1
	for _, p := range parts {
		size += len(p)
	}
	buf := make([]byte, 0, size)
	buf = append(buf, prefix...)
	buf = append(buf, ':')
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return buf
}

// uint64BE encodes v in BigEndian order so lexicographic sort works correctly.
func uint64BE(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

// makeCollectionKey generates a key for a collection by ID.
func makeCollectionKey(id uuid.UUID) []byte {
	return composeKey(collectionPrefix, id[:])
}

// makeCollectionNameKey generates a key for the unique name index.
func makeCollectionNameKey(name string) []byte {
	return composeKey(collectionNamePrefix, []byte(name))
}

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id uuid.UUID) []byte {
	return composeKey(documentPrefix, id[:])
}

// makeDocumentCollKey generates a composite key for the per-collection
// document index. The creation timestamp precedes the ID so iteration
// yields insertion order.
// Format: prefix:collectionID:createdAt:documentID
func makeDocumentCollKey(collectionID uuid.UUID, createdAt time.Time, documentID uuid.UUID) []byte {
	return composeKey(documentCollPrefix, collectionID[:], uint64BE(uint64(createdAt.UnixMicro())), documentID[:])
}

// makePartialDocumentCollKey generates the iteration prefix for a
// collection's documents.
func makePartialDocumentCollKey(collectionID uuid.UUID) []byte {
	return composeKey(documentCollPrefix, collectionID[:])
}

// makeChunkKey generates a key for a chunk by ID.
func makeChunkKey(id uuid.UUID) []byte {
	return composeKey(chunkPrefix, id[:])
}

// makeChunkCollKey generates a composite key for the per-collection chunk
// index used by similarity search. The creation timestamp precedes the
// document ID so iteration yields insertion order and equal-score results
// tie-break by it.
// Format: prefix:collectionID:createdAt:documentID:index
func makeChunkCollKey(collectionID uuid.UUID, createdAt time.Time, documentID uuid.UUID, index int) []byte {
	return composeKey(chunkCollPrefix, collectionID[:], uint64BE(uint64(createdAt.UnixMicro())), documentID[:], uint64BE(uint64(index)))
}

// makePartialChunkCollKey generates the iteration prefix for a
// collection's chunks.
func makePartialChunkCollKey(collectionID uuid.UUID) []byte {
	return composeKey(chunkCollPrefix, collectionID[:])
}

// makeChunkDocKey generates a composite key for the per-document chunk
// index, ordered by chunk index.
// Format: prefix:documentID:index
func makeChunkDocKey(documentID uuid.UUID, index int) []byte {
	return composeKey(chunkDocPrefix, documentID[:], uint64BE(uint64(index)))
}

// makePartialChunkDocKey generates the iteration prefix for a document's
// chunks.
func makePartialChunkDocKey(documentID uuid.UUID) []byte {
	return composeKey(chunkDocPrefix, documentID[:])
}

// makeJobKey generates a key for an ingestion job by ID.
func makeJobKey(id uuid.UUID) []byte {
	return composeKey(jobPrefix, id[:])
}

// makeJobDateKey generates a composite key for the job date index.
// Format: prefix:createdAt:jobID
func makeJobDateKey(createdAt time.Time, id uuid.UUID) []byte {
	return composeKey(jobDatePrefix, uint64BE(uint64(createdAt.UnixMicro())), id[:])
}

// makePartialJobDateKey generates a partial key for date-ordered job scans.
func makePartialJobDateKey(createdAt time.Time) []byte {
	return composeKey(jobDatePrefix, uint64BE(uint64(createdAt.UnixMicro())))
}

// makeJobCollKey generates a composite key for the per-collection job
// index, date-ordered like the global job date index.
// Format: prefix:collectionID:createdAt:jobID
func makeJobCollKey(collectionID uuid.UUID, createdAt time.Time, id uuid.UUID) []byte {
	return composeKey(jobCollPrefix, collectionID[:], uint64BE(uint64(createdAt.UnixMicro())), id[:])
}

// makePartialJobCollDateKey generates a partial key for a collection's
// date-ordered job scans.
func makePartialJobCollDateKey(collectionID uuid.UUID, createdAt time.Time) []byte {
	return composeKey(jobCollPrefix, collectionID[:], uint64BE(uint64(createdAt.UnixMicro())))
}

// makePartialJobCollKey generates the iteration prefix for a collection's
// jobs.
func makePartialJobCollKey(collectionID uuid.UUID) []byte {
	return composeKey(jobCollPrefix, collectionID[:])
}
