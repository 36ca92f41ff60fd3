// Package ingestion creates embedding jobs from session and cycle
// records.
//
// Job creation is idempotent: deterministic ids plus a safe-create path
// that checks the job store, the vector store, and the text hash make
// re-running creation for the same record a no-op unless its text
// changed. The Pipeline type attaches creation to record writes as a
// fire-and-forget operation so the primary write never blocks on the
// embedding subsystem.
package ingestion
