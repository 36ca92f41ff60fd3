// Copyright 2026 Baibhav Bista
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/baibhavbista/gai-workcycles/core"
	"github.com/baibhavbista/gai-workcycles/records"
	"github.com/baibhavbista/gai-workcycles/storage"
)

// Creator turns sessions and cycles into embedding jobs. All creation
// goes through a safe path that consults both the job store and the
// vector store, so re-running creation for the same record is a no-op
// unless the record's text changed since it was last embedded.
type Creator struct {
	jobs    storage.JobStore
	vectors storage.VectorStore
	logger  *slog.Logger
}

// NewCreator creates a job creator over the given stores.
func NewCreator(jobs storage.JobStore, vectors storage.VectorStore) (*Creator, error) {
	if jobs == nil {
		return nil, ErrJobStoreRequired
	}
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	return &Creator{
		jobs:    jobs,
		vectors: vectors,
		logger:  slog.Default().With("component", "ingestion"),
	}, nil
}

// CreateSessionFieldJobs creates one field-level job per non-empty
// session column. Returns the number of jobs actually created; columns
// already embedded with unchanged text are skipped.
func (c *Creator) CreateSessionFieldJobs(ctx context.Context, s *records.Session) (int, error) {
	return c.createFieldJobs(ctx, s.Id, "sessions", s.Id, "", s.EmbeddableColumns())
}

// CreateCycleFieldJobs creates one field-level job per non-empty cycle
// column.
func (c *Creator) CreateCycleFieldJobs(ctx context.Context, cy *records.Cycle) (int, error) {
	return c.createFieldJobs(ctx, cy.SessionId, "cycles", cy.Id, cy.Id, cy.EmbeddableColumns())
}

// CreateCycleJob creates the single cycle-level job carrying the
// cycle's combined plan/review narrative. The cycle must have ended.
// Returns the job id, or empty string if nothing needed creating.
func (c *Creator) CreateCycleJob(ctx context.Context, cy *records.Cycle) (string, error) {
	if !cy.Ended() {
		return "", ErrCycleNotEnded
	}

	text := cy.CombinedText()
	if text == "" {
		return "", nil
	}

	return c.createJobSafe(ctx, &core.Job{
		Id:          core.CycleJobID(cy.Id),
		Level:       core.LevelCycle,
		SessionId:   cy.SessionId,
		CycleId:     cy.Id,
		SourceTable: "cycles",
		SourceRowId: cy.Id,
		Text:        text,
	})
}

// CreateSessionJob creates the single session-level job carrying the
// session snapshot. The session must be completed. Returns the job id,
// or empty string if nothing needed creating.
func (c *Creator) CreateSessionJob(ctx context.Context, s *records.Session, cycles []*records.Cycle) (string, error) {
	if !s.Completed() {
		return "", ErrSessionNotCompleted
	}

	text := SessionSnapshot(s, cycles)
	if text == "" {
		return "", nil
	}

	return c.createJobSafe(ctx, &core.Job{
		Id:          core.SessionJobID(s.Id),
		Level:       core.LevelSession,
		SessionId:   s.Id,
		SourceTable: "sessions",
		SourceRowId: s.Id,
		Text:        text,
	})
}

func (c *Creator) createFieldJobs(ctx context.Context, sessionID, table, rowID, cycleID string, columns []records.Column) (int, error) {
	created := 0
	for _, col := range columns {
		id, err := c.createJobSafe(ctx, &core.Job{
			Id:          core.FieldJobID(rowID, col.Name),
			Level:       core.LevelField,
			SessionId:   sessionID,
			CycleId:     cycleID,
			SourceTable: table,
			SourceRowId: rowID,
			ColumnName:  col.Name,
			FieldLabel:  col.Label,
			Text:        col.Text,
		})
		if err != nil {
			return created, err
		}
		if id != "" {
			created++
		}
	}
	return created, nil
}

// createJobSafe creates a job unless an equivalent one already exists.
// The checks run against both stores so duplicate provider calls are
// avoided across process restarts:
//
//   - a pending or processing job with the id: skip
//   - a terminal job or live vector with the id and the same text
//     hash: skip, the unit is already embedded (or about to fail
//     permanently, which a requeue handles)
//   - a terminal job or live vector with a different text hash: the
//     record was edited, so a replacement job is queued with a bumped
//     version
//
// The existence check is not atomic against concurrent creation; the
// deterministic id makes the race benign (duplicate creation fails on
// the id, and vector writes are upserts).
func (c *Creator) createJobSafe(ctx context.Context, job *core.Job) (string, error) {
	job.Status = core.StatusPending
	job.TextHash = core.ContentHash(job.Text)
	job.Version = 1
	job.CreatedAt = time.Now().UTC()

	existing, err := c.jobs.GetJob(ctx, job.Id)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return "", err
	}

	if existing != nil {
		switch existing.Status {
		case core.StatusPending, core.StatusProcessing:
			return "", nil
		default:
			if existing.TextHash == job.TextHash {
				return "", nil
			}
			// Text changed since the terminal run; re-embed.
			job.Version = existing.Version + 1
			if err := c.jobs.ReplaceJob(ctx, job); err != nil {
				return "", err
			}
			c.logger.Debug("replaced job for edited text", "job", job.Id, "version", job.Version)
			return job.Id, nil
		}
	}

	record, err := c.vectors.Get(ctx, job.Id)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return "", err
	}
	if record != nil {
		if record.TextHash == job.TextHash {
			return "", nil
		}
		job.Version = record.Version + 1
	}

	if err := c.jobs.CreateJob(ctx, job); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			// Lost a benign race with another creator.
			return "", nil
		}
		return "", err
	}
	return job.Id, nil
}
