package storage

import (
	"context"
	"time"

	"github.com/baibhavbista/gai-workcycles/core"
)

// JobStore is the durable queue of embedding jobs.
// Implementations must be thread-safe and support concurrent access.
type JobStore interface {
	// CreateJob persists a new job.
	// Returns ErrDuplicateKey if a job with the same id already exists;
	// the deterministic id scheme makes this the de-duplication mechanism.
	CreateJob(ctx context.Context, job *core.Job) error

	// ReplaceJob overwrites an existing terminal (done or error) job
	// with a fresh pending job under the same id. Used when a unit's
	// text changed after it was embedded. Behaves like CreateJob when
	// no job exists; returns ErrInvalidTransition if the existing job
	// is still pending or processing.
	ReplaceJob(ctx context.Context, job *core.Job) error

	// GetJob retrieves a job by id.
	// Returns ErrNotFound if the job doesn't exist.
	GetJob(ctx context.Context, id string) (*core.Job, error)

	// ListPending returns up to limit pending jobs ordered by
	// (level, createdAt) ascending, so field-level jobs come first.
	ListPending(ctx context.Context, limit int) ([]*core.Job, error)

	// ListByStatus returns up to limit jobs in the given status,
	// ordered by creation time ascending.
	ListByStatus(ctx context.Context, status core.JobStatus, limit int) ([]*core.Job, error)

	// MarkProcessing transitions a job to processing.
	MarkProcessing(ctx context.Context, id string) error

	// MarkDone transitions a job to done and stamps ProcessedAt.
	MarkDone(ctx context.Context, id string) error

	// MarkError transitions a job to error with a message and stamps
	// ProcessedAt.
	MarkError(ctx context.Context, id string, message string) error

	// Requeue resets an error job to a fresh pending state in place:
	// status pending, error message cleared, ProcessedAt zeroed.
	// This is the only path by which a terminal job regresses.
	Requeue(ctx context.Context, id string) error

	// Counts returns aggregate queue counts by status.
	Counts(ctx context.Context) (core.QueueCounts, error)

	// Cleanup deletes done jobs processed before doneBefore and error
	// jobs processed before errorBefore. Returns the removal counts.
	Cleanup(ctx context.Context, doneBefore, errorBefore time.Time) (completedRemoved, errorsRemoved int, err error)

	// Close releases store resources.
	Close() error
}

// VectorStore is the thin interface over the vector database.
// Any backend with vector similarity search and equality filtering is
// sufficient; the bundled implementation runs on BadgerDB.
type VectorStore interface {
	// Upsert writes a vector record, replacing any record with the same id.
	Upsert(ctx context.Context, record *core.VectorRecord) error

	// Get retrieves a vector record by id.
	// Returns ErrNotFound if the record doesn't exist.
	Get(ctx context.Context, id string) (*core.VectorRecord, error)

	// Exists reports whether a live record with the id exists.
	Exists(ctx context.Context, id string) (bool, error)

	// Query returns up to limit records matching the equality filter,
	// ordered by cosine similarity to the query vector (highest first).
	Query(ctx context.Context, vector []float32, filter VectorFilter, limit int) ([]*core.RawResult, error)

	// Delete removes records by id. Missing ids are ignored.
	Delete(ctx context.Context, ids ...string) error

	// Close releases store resources.
	Close() error
}

// VectorFilter restricts a vector query with equality constraints.
// Zero values match everything.
type VectorFilter struct {
	Level     core.JobLevel
	SessionId string
	CycleId   string
}

// Matches reports whether a record satisfies the filter.
func (f VectorFilter) Matches(record *core.VectorRecord) bool {
	if f.Level != 0 && record.Level != f.Level {
		return false
	}
	if f.SessionId != "" && record.SessionId != f.SessionId {
		return false
	}
	if f.CycleId != "" && record.CycleId != f.CycleId {
		return false
	}
	return true
}
