package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/baibhavbista/gai-workcycles/core"
	"github.com/baibhavbista/gai-workcycles/storage"
)

// VectorRepository implements storage.VectorStore for BadgerDB.
// It keeps a secondary index by level so queries filtered to one level
// only scan that level's records.
type VectorRepository struct {
	backend *Backend
}

var _ storage.VectorStore = (*VectorRepository)(nil)

// NewVectorRepository creates a new VectorRepository.
//
// Returns storage.VectorStore interface to enforce abstraction.
func NewVectorRepository(backend *Backend) storage.VectorStore {
	return &VectorRepository{backend: backend}
}

// Close is a no-op; the shared backend owns the database handle.
func (r *VectorRepository) Close() error {
	return nil
}

// Upsert writes a vector record, replacing any record with the same id.
func (r *VectorRepository) Upsert(ctx context.Context, record *core.VectorRecord) error {
	if err := core.ValidateVectorRecord(record); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if record.CreatedAt.IsZero() {
			record.CreatedAt = time.Now().UTC()
		}

		key := makeVectorKey(record.Id)

		// Drop the old level index entry if a prior record moved level.
		// Ids encode the level, so in practice this only fires on
		// malformed data, but the index must never go stale.
		old, err := readVectorRecord(tx, key)
		if err != nil {
			return err
		}
		if old != nil && old.Level != record.Level {
			if err := tx.Delete(makeVectorLevelKey(old.Level, old.Id)); err != nil {
				return err
			}
		}

		if err := tx.Set(key, storage.MarshalVectorRecord(record)); err != nil {
			return err
		}
		if err := tx.Set(makeVectorLevelKey(record.Level, record.Id), []byte(record.Id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Get retrieves a vector record by id.
func (r *VectorRepository) Get(ctx context.Context, id string) (*core.VectorRecord, error) {
	var result *core.VectorRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		record, err := readVectorRecord(tx, makeVectorKey(id))
		if err != nil {
			return err
		}
		if record == nil {
			return storage.ErrNotFound
		}
		result = record
		return nil
	}, false)
	return result, err
}

// Exists reports whether a live record with the id exists.
func (r *VectorRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeVectorKey(id))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	}, false)
	return exists, err
}

// Query returns up to limit records matching the filter, ordered by
// cosine similarity to the query vector (highest first). Vectors are
// stored unit-length, so the dot product is the cosine similarity.
func (r *VectorRepository) Query(ctx context.Context, vector []float32, filter storage.VectorFilter, limit int) ([]*core.RawResult, error) {
	var results []*core.RawResult

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		if filter.Level != 0 {
			opts.Prefix = makePartialVectorLevelKey(filter.Level)
		} else {
			opts.Prefix = []byte(vectorLevelPrefix + ":")
		}
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id string
			if err := iter.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			}); err != nil {
				return err
			}

			record, err := readVectorRecord(tx, makeVectorKey(id))
			if err != nil {
				return err
			}
			if record == nil || len(record.Vector) == 0 {
				continue
			}
			if !filter.Matches(record) {
				continue
			}

			results = append(results, &core.RawResult{
				Record:     record,
				Similarity: dotProduct(vector, record.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortStableFunc(results, func(a, b *core.RawResult) int {
		if a.Similarity > b.Similarity {
			return -1
		}
		if a.Similarity < b.Similarity {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Delete removes records by id. Missing ids are ignored.
func (r *VectorRepository) Delete(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			record, err := readVectorRecord(tx, makeVectorKey(id))
			if err != nil {
				return err
			}
			if record == nil {
				continue
			}
			if err := tx.Delete(makeVectorLevelKey(record.Level, record.Id)); err != nil {
				return err
			}
			if err := tx.Delete(makeVectorKey(id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readVectorRecord reads a vector record from the transaction.
// Returns nil, nil when the key is absent.
func readVectorRecord(tx *badger.Txn, key []byte) (*core.VectorRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.VectorRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalVectorRecord(val)
		return unmarshalErr
	})
	return record, err
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
