package ingestion

import "errors"

var (
	// ErrJobStoreRequired is returned when a nil job store is passed to a constructor
	ErrJobStoreRequired = errors.New("job store is required")

	// ErrVectorStoreRequired is returned when a nil vector store is passed to a constructor
	ErrVectorStoreRequired = errors.New("vector store is required")

	// ErrSessionNotCompleted is returned when a session-level job is
	// requested for a session that is still running.
	ErrSessionNotCompleted = errors.New("session is not completed")

	// ErrCycleNotEnded is returned when a cycle-level job is requested
	// for a cycle that has not been reviewed.
	ErrCycleNotEnded = errors.New("cycle has not ended")
)
