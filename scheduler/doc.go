// Package scheduler drives the embedding pipeline. A single scheduler
// per process polls the job queue on a fixed interval, skips the whole
// cycle when the AI provider is offline, dispatches pending jobs to the
// per-level workflows, and sweeps expired terminal jobs on a slower
// cleanup timer. It also exposes backfill for enabling the pipeline on
// pre-existing data and requeue for failed jobs.
package scheduler
