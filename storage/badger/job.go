package badger

import (
	"bytes"
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/bharatrag/bharatrag/core"
	"github.com/bharatrag/bharatrag/storage"
)

// JobRepository implements storage.JobRepository for BadgerDB.
type JobRepository struct {
	backend *Backend
}

var _ storage.JobRepository = (*JobRepository)(nil)

// NewJobRepository creates a new JobRepository.
func NewJobRepository(backend *Backend) *JobRepository {
	return &JobRepository{backend: backend}
}

// AddJob adds an ingestion job to storage.
func (r *JobRepository) AddJob(ctx context.Context, job *core.IngestionJob) (*core.IngestionJob, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if job.ID == uuid.Nil {
			job.ID = core.NewID()
		}
		if job.Status == "" {
			job.Status = core.JobStatusPending
		}
		job.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

		key := makeJobKey(job.ID)
		if err := tx.Set(key, storage.MarshalJob(job)); err != nil {
			return err
		}

		dateKey := makeJobDateKey(job.CreatedAt, job.ID)
		if err := tx.Set(dateKey, storage.MarshalUUID(job.ID)); err != nil {
			return err
		}
		collKey := makeJobCollKey(job.CollectionID, job.CreatedAt, job.ID)
		if err := tx.Set(collKey, storage.MarshalUUID(job.ID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return job, err
}

// GetJob retrieves a single job by ID.
func (r *JobRepository) GetJob(ctx context.Context, id uuid.UUID) (*core.IngestionJob, error) {
	var result *core.IngestionJob
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readJob(tx, makeJobKey(id))
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

// UpdateJob persists the job's current state after validating the status
// transition against the stored record. StartedAt and CompletedAt are
// stamped exactly once, on the first move to RUNNING and on the first
// terminal transition respectively.
func (r *JobRepository) UpdateJob(ctx context.Context, job *core.IngestionJob) (*core.IngestionJob, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeJobKey(job.ID)
		old, err := readJob(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}

		if err := core.ValidateTransition(old.Status, job.Status); err != nil {
			return err
		}

		job.CreatedAt = old.CreatedAt
		job.StartedAt = old.StartedAt
		job.CompletedAt = old.CompletedAt

		now := time.Now().UTC().Truncate(time.Microsecond)
		if job.Status == core.JobStatusRunning && job.StartedAt.IsZero() {
			job.StartedAt = now
		}
		if job.Status.Terminal() && job.CompletedAt.IsZero() {
			job.CompletedAt = now
		}

		if err := tx.Set(key, storage.MarshalJob(job)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	return job, err
}

// ListJobs retrieves the most recently created jobs, newest first.
// A non-nil collectionID scopes the listing to that collection's jobs.
func (r *JobRepository) ListJobs(ctx context.Context, collectionID uuid.UUID, limit int) ([]*core.IngestionJob, error) {
	if limit < 1 {
		return nil, nil
	}

	var results []*core.IngestionJob
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Seek past the last possible date key, then walk backwards
		maxDate := time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC)
		startKey := makePartialJobDateKey(maxDate)
		prefix := []byte(jobDatePrefix + ":")
		if collectionID != uuid.Nil {
			startKey = makePartialJobCollDateKey(collectionID, maxDate)
			prefix = makePartialJobCollKey(collectionID)
		}

		for iter.Seek(startKey); iter.Valid() && len(results) < limit; iter.Next() {
			key := iter.Item().Key()
			if !bytes.HasPrefix(key, prefix) {
				break
			}

			var jobID uuid.UUID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				jobID, err = storage.UnmarshalUUID(val)
				return err
			}); err != nil {
				return err
			}

			job, err := readJob(tx, makeJobKey(jobID))
			if err != nil {
				return err
			}
			if job != nil {
				results = append(results, job)
			}
		}
		return nil
	}, false)

	return results, err
}

// readJob reads an ingestion job from the transaction.
func readJob(tx *badger.Txn, key []byte) (*core.IngestionJob, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var job *core.IngestionJob
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		job, unmarshalErr = storage.UnmarshalJob(val)
		return unmarshalErr
	})
	return job, err
}
