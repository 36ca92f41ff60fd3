// Package workflow runs the per-level embedding workflows that turn
// pending jobs into stored vectors.
//
// Field jobs are embedded in rate-limited concurrent batches with
// per-job failure isolation. Cycle jobs embed their combined narrative
// text directly. Session jobs are summarized first and fall back to the
// raw snapshot when the summarizer is unavailable.
//
// Provider calls retry with exponential backoff, and every claimed job
// ends in a terminal state so the queue never leaks a stuck job.
package workflow
