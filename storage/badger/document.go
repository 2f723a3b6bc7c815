package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/bharatrag/bharatrag/core"
	"github.com/bharatrag/bharatrag/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) *DocumentRepository {
	return &DocumentRepository{backend: backend}
}

// AddDocument adds a document to storage.
func (r *DocumentRepository) AddDocument(ctx context.Context, document *core.Document) (*core.Document, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if document.ID == uuid.Nil {
			document.ID = core.NewID()
		}
		document.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
		document.UpdatedAt = document.CreatedAt

		key := makeDocumentKey(document.ID)
		if err := tx.Set(key, storage.MarshalDocument(document)); err != nil {
			return err
		}

		collKey := makeDocumentCollKey(document.CollectionID, document.CreatedAt, document.ID)
		if err := tx.Set(collKey, storage.MarshalUUID(document.ID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return document, err
}

// GetDocument retrieves a single document by ID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id uuid.UUID) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readDocument(tx, makeDocumentKey(id))
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

// ListDocuments retrieves all documents in a collection, in insertion order.
func (r *DocumentRepository) ListDocuments(ctx context.Context, collectionID uuid.UUID) ([]*core.Document, error) {
	var results []*core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialDocumentCollKey(collectionID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var documentID uuid.UUID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				documentID, err = storage.UnmarshalUUID(val)
				return err
			}); err != nil {
				return err
			}

			document, err := readDocument(tx, makeDocumentKey(documentID))
			if err != nil {
				return err
			}
			if document != nil {
				results = append(results, document)
			}
		}
		return nil
	}, false)

	return results, err
}

// AmendDocumentMetadata merges the given entries into the document's
// metadata and bumps UpdatedAt.
func (r *DocumentRepository) AmendDocumentMetadata(ctx context.Context, id uuid.UUID, metadata map[string]string) (*core.Document, error) {
	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(id)
		document, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		if document == nil {
			return storage.ErrNotFound
		}

		if document.Metadata == nil {
			document.Metadata = make(map[string]string, len(metadata))
		}
		for k, v := range metadata {
			document.Metadata[k] = v
		}
		document.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)

		if err := tx.Set(key, storage.MarshalDocument(document)); err != nil {
			return err
		}
		result = document
		return tx.Commit()
	}, true)

	return result, err
}

// DeleteDocument removes a document by ID.
func (r *DocumentRepository) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(id)
		document, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		if document == nil {
			return storage.ErrNotFound
		}

		collKey := makeDocumentCollKey(document.CollectionID, document.CreatedAt, document.ID)
		if err := tx.Delete(collKey); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readDocument reads a document from the transaction.
func readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var document *core.Document
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		document, unmarshalErr = storage.UnmarshalDocument(val)
		return unmarshalErr
	})
	return document, err
}
