package badger

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/bharatrag/bharatrag/core"
	"github.com/bharatrag/bharatrag/storage"
)

// ChunkRepository implements storage.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ storage.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) *ChunkRepository {
	return &ChunkRepository{backend: backend}
}

// AddChunks adds chunks to storage in a single transaction. Embedded
// chunks must match the dimension already established for their
// collection; a mismatch rejects the whole batch with a
// core.DimensionError before anything is written.
func (r *ChunkRepository) AddChunks(ctx context.Context, chunks ...*core.Chunk) ([]*core.Chunk, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		dims := make(map[uuid.UUID]int)
		now := time.Now().UTC().Truncate(time.Microsecond)
		for _, chunk := range chunks {
			if err := core.ValidateChunk(chunk); err != nil {
				return err
			}
			if len(chunk.Vector) > 0 {
				want, ok := dims[chunk.CollectionID]
				if !ok {
					var err error
					if want, err = collectionDim(tx, chunk.CollectionID); err != nil {
						return err
					}
					if want == 0 {
						want = len(chunk.Vector)
					}
					dims[chunk.CollectionID] = want
				}
				if len(chunk.Vector) != want {
					return &core.DimensionError{Want: want, Got: len(chunk.Vector)}
				}
			}
			if chunk.ID == uuid.Nil {
				chunk.ID = core.NewID()
			}
			chunk.CreatedAt = now

			key := makeChunkKey(chunk.ID)
			if err := tx.Set(key, storage.MarshalChunk(chunk)); err != nil {
				return err
			}

			id := storage.MarshalUUID(chunk.ID)
			collKey := makeChunkCollKey(chunk.CollectionID, chunk.CreatedAt, chunk.DocumentID, chunk.Index)
			if err := tx.Set(collKey, id); err != nil {
				return err
			}
			docKey := makeChunkDocKey(chunk.DocumentID, chunk.Index)
			if err := tx.Set(docKey, id); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return chunks, err
}

// GetChunk retrieves a single chunk by ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id uuid.UUID) (*core.Chunk, error) {
	var result *core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readChunk(tx, makeChunkKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListChunksByDocument retrieves a document's chunks ordered by Index.
func (r *ChunkRepository) ListChunksByDocument(ctx context.Context, documentID uuid.UUID) ([]*core.Chunk, error) {
	var results []*core.Chunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialChunkDocKey(documentID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunkID uuid.UUID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				chunkID, err = storage.UnmarshalUUID(val)
				return err
			}); err != nil {
				return err
			}

			chunk, err := readChunk(tx, makeChunkKey(chunkID))
			if err != nil {
				return err
			}
			if chunk != nil {
				results = append(results, chunk)
			}
		}
		return nil
	}, false)

	return results, err
}

// DeleteChunksByDocument removes all chunks belonging to a document.
func (r *ChunkRepository) DeleteChunksByDocument(ctx context.Context, documentID uuid.UUID) error {
	chunks, err := r.ListChunksByDocument(ctx, documentID)
	if err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			if err := tx.Delete(makeChunkCollKey(chunk.CollectionID, chunk.CreatedAt, chunk.DocumentID, chunk.Index)); err != nil {
				return err
			}
			if err := tx.Delete(makeChunkDocKey(chunk.DocumentID, chunk.Index)); err != nil {
				return err
			}
			if err := tx.Delete(makeChunkKey(chunk.ID)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// SearchSimilar finds the chunks in a collection closest to the given
// vector. Scans the collection's chunk index, scores every embedded
// chunk by cosine similarity and keeps the top results. A query vector
// whose dimension differs from the stored chunks fails with a
// core.DimensionError.
func (r *ChunkRepository) SearchSimilar(ctx context.Context, collectionID uuid.UUID, vector []float32, limit int) ([]*core.SearchResult, error) {
	if len(vector) == 0 {
		return nil, storage.ErrInvalidQuery
	}
	if limit < 1 {
		limit = 1
	}
	if limit > storage.MaxSearchLimit {
		limit = storage.MaxSearchLimit
	}

	var results []*core.SearchResult
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialChunkCollKey(collectionID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunkID uuid.UUID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				chunkID, err = storage.UnmarshalUUID(val)
				return err
			}); err != nil {
				return err
			}

			chunk, err := readChunk(tx, makeChunkKey(chunkID))
			if err != nil {
				return err
			}
			if chunk == nil || len(chunk.Vector) == 0 {
				continue
			}
			if len(chunk.Vector) != len(vector) {
				return &core.DimensionError{Want: len(chunk.Vector), Got: len(vector)}
			}

			results = append(results, &core.SearchResult{
				Chunk: chunk,
				Score: cosineSimilarity(vector, chunk.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Stable sort keeps scan order (insertion order) for ties
	slices.SortStableFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// collectionDim returns the embedding dimension established by the first
// embedded chunk stored in the collection, or 0 when none exists yet.
func collectionDim(tx *badger.Txn, collectionID uuid.UUID) (int, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makePartialChunkCollKey(collectionID)
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		var chunkID uuid.UUID
		if err := iter.Item().Value(func(val []byte) error {
			var err error
			chunkID, err = storage.UnmarshalUUID(val)
			return err
		}); err != nil {
			return 0, err
		}

		chunk, err := readChunk(tx, makeChunkKey(chunkID))
		if err != nil {
			return 0, err
		}
		if chunk != nil && len(chunk.Vector) > 0 {
			return len(chunk.Vector), nil
		}
	}
	return 0, nil
}

// readChunk reads a chunk from the transaction.
func readChunk(tx *badger.Txn, key []byte) (*core.Chunk, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var chunk *core.Chunk
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		chunk, unmarshalErr = storage.UnmarshalChunk(val)
		return unmarshalErr
	})
	return chunk, err
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths and zero vectors score 0.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
