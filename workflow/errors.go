package workflow

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrEmbeddingMismatch is returned when the embedder returns a
	// different number of vectors than texts submitted.
	ErrEmbeddingMismatch = errors.New("embedding count does not match text count")

	// ErrWrongLevel is returned when a job is handed to a workflow
	// built for a different level.
	ErrWrongLevel = errors.New("job level does not match workflow")
)
