package badger

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/baibhavbista/gai-workcycles/core"
	"github.com/baibhavbista/gai-workcycles/storage"
)

// JobRepository implements storage.JobStore for BadgerDB.
type JobRepository struct {
	backend *Backend
}

var _ storage.JobStore = (*JobRepository)(nil)

// NewJobRepository creates a new JobRepository.
//
// Returns storage.JobStore interface to enforce abstraction.
func NewJobRepository(backend *Backend) storage.JobStore {
	return &JobRepository{backend: backend}
}

// Close is a no-op; the shared backend owns the database handle.
func (r *JobRepository) Close() error {
	return nil
}

// CreateJob persists a new job. Returns storage.ErrDuplicateKey if a
// job with the same deterministic id already exists.
func (r *JobRepository) CreateJob(ctx context.Context, job *core.Job) error {
	if err := core.ValidateJob(job); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeJobKey(job.Id)
		if _, err := tx.Get(key); err == nil {
			return storage.ErrDuplicateKey
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		if job.CreatedAt.IsZero() {
			job.CreatedAt = time.Now().UTC()
		}

		if err := tx.Set(key, storage.MarshalJob(job)); err != nil {
			return err
		}

		// Pending jobs carry a queue index entry for ordered pickup.
		if job.Status == core.StatusPending {
			pendingKey := makeJobPendingKey(job.Level, job.CreatedAt, job.Id)
			if err := tx.Set(pendingKey, []byte(job.Id)); err != nil {
				return err
			}
		}

		return tx.Commit()
	}, true)
}

// ReplaceJob overwrites a terminal job with a fresh pending job under
// the same id. The ingestion layer uses this when a record's text
// changed after its previous embedding completed.
func (r *JobRepository) ReplaceJob(ctx context.Context, job *core.Job) error {
	if err := core.ValidateJob(job); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeJobKey(job.Id)
		existing, err := readJob(tx, key)
		if err != nil {
			return err
		}
		if existing != nil && existing.Status != core.StatusDone && existing.Status != core.StatusError {
			return fmt.Errorf("%w: cannot replace %s job %s", storage.ErrInvalidTransition, existing.Status, job.Id)
		}

		if job.CreatedAt.IsZero() {
			job.CreatedAt = time.Now().UTC()
		}
		job.Status = core.StatusPending
		job.ErrorMessage = ""
		job.ProcessedAt = time.Time{}

		if err := tx.Set(key, storage.MarshalJob(job)); err != nil {
			return err
		}
		pendingKey := makeJobPendingKey(job.Level, job.CreatedAt, job.Id)
		if err := tx.Set(pendingKey, []byte(job.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetJob retrieves a job by id.
func (r *JobRepository) GetJob(ctx context.Context, id string) (*core.Job, error) {
	var result *core.Job
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		job, err := readJob(tx, makeJobKey(id))
		if err != nil {
			return err
		}
		if job == nil {
			return storage.ErrNotFound
		}
		result = job
		return nil
	}, false)
	return result, err
}

// ListPending returns up to limit pending jobs ordered by
// (level, createdAt) ascending: cheap field jobs before cycle and
// session jobs.
func (r *JobRepository) ListPending(ctx context.Context, limit int) ([]*core.Job, error) {
	var results []*core.Job
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(jobPendingPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid() && len(results) < limit; iter.Next() {
			var id string
			if err := iter.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return err
			}

			job, err := readJob(tx, makeJobKey(id))
			if err != nil {
				return err
			}
			// A stale index entry can outlive its job; skip it.
			if job == nil || job.Status != core.StatusPending {
				continue
			}
			results = append(results, job)
		}
		return nil
	}, false)
	return results, err
}

// ListByStatus returns up to limit jobs in the given status, ordered by
// creation time ascending. This is a full scan; queue sizes stay small
// enough for that on a single desktop.
func (r *JobRepository) ListByStatus(ctx context.Context, status core.JobStatus, limit int) ([]*core.Job, error) {
	var results []*core.Job
	err := r.forEachJob(func(job *core.Job) error {
		if job.Status == status {
			results = append(results, job)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortJobsByCreatedAt(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// MarkProcessing transitions a pending job to processing and drops its
// queue index entry.
func (r *JobRepository) MarkProcessing(ctx context.Context, id string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		job, err := readJob(tx, makeJobKey(id))
		if err != nil {
			return err
		}
		if job == nil {
			return storage.ErrNotFound
		}
		if job.Status != core.StatusPending {
			return fmt.Errorf("%w: %s -> processing", storage.ErrInvalidTransition, job.Status)
		}

		pendingKey := makeJobPendingKey(job.Level, job.CreatedAt, job.Id)
		if err := tx.Delete(pendingKey); err != nil {
			return err
		}

		job.Status = core.StatusProcessing
		if err := tx.Set(makeJobKey(id), storage.MarshalJob(job)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// MarkDone transitions a processing job to done.
func (r *JobRepository) MarkDone(ctx context.Context, id string) error {
	return r.terminalize(id, core.StatusDone, "")
}

// MarkError transitions a pending or processing job to error.
func (r *JobRepository) MarkError(ctx context.Context, id string, message string) error {
	return r.terminalize(id, core.StatusError, message)
}

// terminalize moves a job to a terminal status and stamps ProcessedAt.
func (r *JobRepository) terminalize(id string, status core.JobStatus, message string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		job, err := readJob(tx, makeJobKey(id))
		if err != nil {
			return err
		}
		if job == nil {
			return storage.ErrNotFound
		}

		switch job.Status {
		case core.StatusProcessing:
			// normal path
		case core.StatusPending:
			// errors may land before a job was ever picked up
			if status != core.StatusError {
				return fmt.Errorf("%w: pending -> %s", storage.ErrInvalidTransition, status)
			}
			pendingKey := makeJobPendingKey(job.Level, job.CreatedAt, job.Id)
			if err := tx.Delete(pendingKey); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s -> %s", storage.ErrInvalidTransition, job.Status, status)
		}

		job.Status = status
		job.ErrorMessage = message
		job.ProcessedAt = time.Now().UTC()
		if err := tx.Set(makeJobKey(id), storage.MarshalJob(job)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Requeue resets an error job to a fresh pending state in place.
// This is the only path by which a terminal job regresses.
func (r *JobRepository) Requeue(ctx context.Context, id string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		job, err := readJob(tx, makeJobKey(id))
		if err != nil {
			return err
		}
		if job == nil {
			return storage.ErrNotFound
		}
		if job.Status != core.StatusError {
			return fmt.Errorf("%w: %s -> pending", storage.ErrInvalidTransition, job.Status)
		}

		job.Status = core.StatusPending
		job.ErrorMessage = ""
		job.CreatedAt = time.Now().UTC()
		job.ProcessedAt = time.Time{}
		if err := tx.Set(makeJobKey(id), storage.MarshalJob(job)); err != nil {
			return err
		}

		pendingKey := makeJobPendingKey(job.Level, job.CreatedAt, job.Id)
		if err := tx.Set(pendingKey, []byte(job.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Counts returns aggregate queue counts by status.
func (r *JobRepository) Counts(ctx context.Context) (core.QueueCounts, error) {
	var counts core.QueueCounts
	err := r.forEachJob(func(job *core.Job) error {
		counts.Total++
		switch job.Status {
		case core.StatusPending:
			counts.Pending++
		case core.StatusProcessing:
			counts.Processing++
		case core.StatusDone:
			counts.Done++
		case core.StatusError:
			counts.Error++
		}
		return nil
	})
	return counts, err
}

// Cleanup deletes done jobs processed before doneBefore and error jobs
// processed before errorBefore.
func (r *JobRepository) Cleanup(ctx context.Context, doneBefore, errorBefore time.Time) (int, int, error) {
	var doneIds, errorIds []string
	err := r.forEachJob(func(job *core.Job) error {
		switch job.Status {
		case core.StatusDone:
			if job.ProcessedAt.Before(doneBefore) {
				doneIds = append(doneIds, job.Id)
			}
		case core.StatusError:
			if job.ProcessedAt.Before(errorBefore) {
				errorIds = append(errorIds, job.Id)
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range append(append([]string{}, doneIds...), errorIds...) {
			if err := tx.Delete(makeJobKey(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, 0, err
	}

	return len(doneIds), len(errorIds), nil
}

// forEachJob iterates all primary job rows in a read transaction.
func (r *JobRepository) forEachJob(fn func(*core.Job) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(jobPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var job *core.Job
			err := iter.Item().Value(func(val []byte) error {
				var err error
				job, err = storage.UnmarshalJob(val)
				return err
			})
			if err != nil {
				return err
			}
			if job == nil {
				continue
			}
			if err := fn(job); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// readJob reads a job from the transaction. Returns nil, nil when the
// key is absent.
func readJob(tx *badger.Txn, key []byte) (*core.Job, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var job *core.Job
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		job, unmarshalErr = storage.UnmarshalJob(val)
		return unmarshalErr
	})
	return job, err
}

func sortJobsByCreatedAt(jobs []*core.Job) {
	slices.SortStableFunc(jobs, func(a, b *core.Job) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}
