package badger

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/bharatrag/bharatrag/core"
	"github.com/bharatrag/bharatrag/storage"
)

// CollectionRepository implements storage.CollectionRepository for BadgerDB.
type CollectionRepository struct {
	backend *Backend
}

var _ storage.CollectionRepository = (*CollectionRepository)(nil)

// NewCollectionRepository creates a new CollectionRepository.
func NewCollectionRepository(backend *Backend) *CollectionRepository {
	return &CollectionRepository{backend: backend}
}

// AddCollection adds a collection to storage.
func (r *CollectionRepository) AddCollection(ctx context.Context, collection *core.Collection) (*core.Collection, error) {
	if err := core.ValidateCollection(collection); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Enforce name uniqueness
		nameKey := makeCollectionNameKey(collection.Name)
		if _, err := tx.Get(nameKey); err == nil {
			return fmt.Errorf("%w: collection name %q", storage.ErrDuplicateKey, collection.Name)
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		if collection.ID == uuid.Nil {
			collection.ID = core.NewID()
		}
		collection.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
		collection.UpdatedAt = collection.CreatedAt

		key := makeCollectionKey(collection.ID)
		if err := tx.Set(key, storage.MarshalCollection(collection)); err != nil {
			return err
		}
		if err := tx.Set(nameKey, storage.MarshalUUID(collection.ID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return collection, err
}

// GetCollection retrieves a single collection by ID.
func (r *CollectionRepository) GetCollection(ctx context.Context, id uuid.UUID) (*core.Collection, error) {
	var result *core.Collection
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readCollection(tx, makeCollectionKey(id))
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

// FindCollectionByName finds a collection by its unique name.
func (r *CollectionRepository) FindCollectionByName(ctx context.Context, name string) (*core.Collection, error) {
	var result *core.Collection
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCollectionNameKey(name))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var id uuid.UUID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalUUID(val)
			return err
		}); err != nil {
			return err
		}

		result, err = readCollection(tx, makeCollectionKey(id))
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

// ListCollections retrieves all collections, ordered by name.
func (r *CollectionRepository) ListCollections(ctx context.Context) ([]*core.Collection, error) {
	var results []*core.Collection
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(collectionPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var collection *core.Collection
			err := iter.Item().Value(func(val []byte) error {
				var err error
				collection, err = storage.UnmarshalCollection(val)
				return err
			})
			if err != nil {
				return err
			}
			if collection != nil {
				results = append(results, collection)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.Collection) int {
		return strings.Compare(a.Name, b.Name)
	})
	return results, nil
}

// DeleteCollection removes a collection by ID.
func (r *CollectionRepository) DeleteCollection(ctx context.Context, id uuid.UUID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCollectionKey(id)
		collection, err := readCollection(tx, key)
		if err != nil {
			return err
		}
		if collection == nil {
			return storage.ErrNotFound
		}

		if err := tx.Delete(makeCollectionNameKey(collection.Name)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readCollection reads a collection from the transaction.
func readCollection(tx *badger.Txn, key []byte) (*core.Collection, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var collection *core.Collection
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		collection, unmarshalErr = storage.UnmarshalCollection(val)
		return unmarshalErr
	})
	return collection, err
}
