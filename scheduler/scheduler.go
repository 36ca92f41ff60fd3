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

package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/baibhavbista/gai-workcycles/ai"
	"github.com/baibhavbista/gai-workcycles/core"
	"github.com/baibhavbista/gai-workcycles/ingestion"
	"github.com/baibhavbista/gai-workcycles/records"
	"github.com/baibhavbista/gai-workcycles/storage"
	"github.com/baibhavbista/gai-workcycles/workflow"
)

// Config holds scheduler timing and batch settings.
type Config struct {
	// PollInterval is how often the queue is polled
	PollInterval time.Duration

	// BatchSize is the maximum number of jobs pulled per cycle
	BatchSize int

	// CleanupInterval is how often terminal jobs are swept
	CleanupInterval time.Duration

	// DoneTTL is how long done jobs are kept after processing
	DoneTTL time.Duration

	// ErrorTTL is how long error jobs are kept after processing.
	// Longer than DoneTTL so failures stay inspectable.
	ErrorTTL time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		PollInterval:    30 * time.Second,
		BatchSize:       50,
		CleanupInterval: 4 * time.Hour,
		DoneTTL:         7 * 24 * time.Hour,
		ErrorTTL:        30 * 24 * time.Hour,
	}
}

// Statistics accumulates counters across the scheduler's lifetime.
type Statistics struct {
	CyclesRun     int
	CyclesSkipped int // provider offline
	JobsSucceeded int
	JobsFailed    int
	JobsCleaned   int
	LastRunAt     time.Time
	LastCleanupAt time.Time
}

// Status is a point-in-time view of the scheduler and its queue.
type Status struct {
	IsProcessing bool
	QueueCounts  core.QueueCounts
	Statistics   Statistics
}

// BackfillResult reports what a backfill pass created.
type BackfillResult struct {
	SessionsProcessed int
	CyclesProcessed   int
	JobsCreated       int
}

// Scheduler is the single driver of the embedding pipeline: it polls
// the job queue, checks provider connectivity, dispatches batches to
// the per-level workflows, and sweeps terminal jobs on a slower timer.
// One scheduler runs per process.
type Scheduler struct {
	jobs      storage.JobStore
	processor *workflow.Processor
	creator   *ingestion.Creator
	records   records.Store
	config    *Config
	logger    *slog.Logger

	mu         sync.Mutex // guards running, stopCh, stats
	running    bool
	processing bool
	stats      Statistics
	stopCh     chan struct{}
	wg         sync.WaitGroup
}

// New creates a scheduler. A nil config uses DefaultConfig. The records
// store may be nil; backfill then reports zero work.
func New(jobs storage.JobStore, processor *workflow.Processor, creator *ingestion.Creator, recs records.Store, config *Config) *Scheduler {
	if config == nil {
		config = DefaultConfig()
	}
	return &Scheduler{
		jobs:      jobs,
		processor: processor,
		creator:   creator,
		records:   recs,
		config:    config,
		logger:    slog.Default().With("component", "scheduler"),
	}
}

// Start launches the polling and cleanup loops. Both run once
// immediately. Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	s.logger.Info("scheduler starting",
		"pollInterval", s.config.PollInterval,
		"batchSize", s.config.BatchSize)

	s.wg.Add(2)
	go s.pollLoop(stopCh)
	go s.cleanupLoop(stopCh)
}

// Stop halts the loops and waits for any in-flight cycle to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) pollLoop(stopCh chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	// Once immediately, then on the interval.
	s.runOnce()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *Scheduler) cleanupLoop(stopCh chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	s.runCleanup()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.runCleanup()
		}
	}
}

func (s *Scheduler) runOnce() {
	if _, err := s.ProcessOnce(context.Background()); err != nil {
		s.logger.Error("processing cycle failed", "err", err)
	}
}

func (s *Scheduler) runCleanup() {
	if _, err := s.Cleanup(context.Background()); err != nil {
		s.logger.Error("cleanup failed", "err", err)
	}
}

// ProcessOnce runs a single processing cycle: connectivity check, pull
// pending jobs, dispatch by level. If the provider is offline the
// cycle is skipped whole, with no job state touched. Overlapping calls
// are rejected; only one cycle runs at a time.
func (s *Scheduler) ProcessOnce(ctx context.Context) (workflow.BatchResult, error) {
	s.mu.Lock()
	if s.processing {
		s.mu.Unlock()
		return workflow.BatchResult{}, nil
	}
	s.processing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.processing = false
		s.mu.Unlock()
	}()

	// Atomic skip: no partial processing when the provider is down.
	if err := s.processor.Provider().Ping(ctx); err != nil {
		s.logger.Debug("provider offline, skipping cycle", "err", err)
		s.recordSkip()
		return workflow.BatchResult{}, nil
	}

	pending, err := s.jobs.ListPending(ctx, s.config.BatchSize)
	if err != nil {
		return workflow.BatchResult{}, err
	}
	if len(pending) == 0 {
		s.recordRun(workflow.BatchResult{})
		return workflow.BatchResult{}, nil
	}

	var fields []*core.Job
	var singles []*core.Job
	for _, job := range pending {
		if job.Level == core.LevelField {
			fields = append(fields, job)
		} else {
			singles = append(singles, job)
		}
	}

	var total workflow.BatchResult

	if len(fields) > 0 {
		result, err := s.processor.ProcessFieldBatch(ctx, fields)
		total.Succeeded += result.Succeeded
		total.Failed += result.Failed
		if err != nil {
			s.recordRun(total)
			return total, err
		}
	}

	// Cycle and session jobs run one at a time; the rate limiter
	// inside the workflows bounds provider pressure either way.
	for _, job := range singles {
		if err := ctx.Err(); err != nil {
			s.recordRun(total)
			return total, err
		}
		if err := s.processor.ProcessJob(ctx, job); err != nil {
			total.Failed++
			continue
		}
		total.Succeeded++
	}

	s.recordRun(total)
	s.logger.Info("processing cycle complete",
		"pulled", len(pending),
		"succeeded", total.Succeeded,
		"failed", total.Failed)
	return total, nil
}

// Cleanup sweeps terminal jobs past their TTLs.
func (s *Scheduler) Cleanup(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	doneRemoved, errorsRemoved, err := s.jobs.Cleanup(ctx,
		now.Add(-s.config.DoneTTL), now.Add(-s.config.ErrorTTL))
	if err != nil {
		return 0, err
	}

	removed := doneRemoved + errorsRemoved
	s.mu.Lock()
	s.stats.JobsCleaned += removed
	s.stats.LastCleanupAt = now
	s.mu.Unlock()

	if removed > 0 {
		s.logger.Info("cleanup removed terminal jobs",
			"done", doneRemoved, "errors", errorsRemoved)
	}
	return removed, nil
}

// Status reports the current processing state, queue counts, and
// lifetime statistics.
func (s *Scheduler) Status(ctx context.Context) (Status, error) {
	counts, err := s.jobs.Counts(ctx)
	if err != nil {
		return Status{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		IsProcessing: s.processing,
		QueueCounts:  counts,
		Statistics:   s.stats,
	}, nil
}

// Backfill scans recently completed sessions and ended cycles and
// creates any missing jobs. Safe to run repeatedly; creation skips
// everything already embedded with unchanged text. Used when the
// feature is enabled on existing data.
func (s *Scheduler) Backfill(ctx context.Context, limit int) (BackfillResult, error) {
	var result BackfillResult
	if s.records == nil || s.creator == nil {
		return result, nil
	}

	sessions, err := s.records.RecentCompletedSessions(ctx, limit)
	if err != nil {
		return result, err
	}
	for _, session := range sessions {
		created, err := s.creator.CreateSessionFieldJobs(ctx, session)
		if err != nil {
			s.logger.Warn("backfill: session field jobs failed", "session", session.Id, "err", err)
			continue
		}
		result.JobsCreated += created

		cycles, err := s.records.CyclesForSession(ctx, session.Id)
		if err != nil {
			s.logger.Warn("backfill: listing cycles failed", "session", session.Id, "err", err)
			cycles = nil
		}
		if id, err := s.creator.CreateSessionJob(ctx, session, cycles); err != nil {
			s.logger.Warn("backfill: session job failed", "session", session.Id, "err", err)
		} else if id != "" {
			result.JobsCreated++
		}
		result.SessionsProcessed++
	}

	cycles, err := s.records.RecentEndedCycles(ctx, limit)
	if err != nil {
		return result, err
	}
	for _, cycle := range cycles {
		created, err := s.creator.CreateCycleFieldJobs(ctx, cycle)
		if err != nil {
			s.logger.Warn("backfill: cycle field jobs failed", "cycle", cycle.Id, "err", err)
			continue
		}
		result.JobsCreated += created

		if id, err := s.creator.CreateCycleJob(ctx, cycle); err != nil {
			s.logger.Warn("backfill: cycle job failed", "cycle", cycle.Id, "err", err)
		} else if id != "" {
			result.JobsCreated++
		}
		result.CyclesProcessed++
	}

	s.logger.Info("backfill complete",
		"sessions", result.SessionsProcessed,
		"cycles", result.CyclesProcessed,
		"jobsCreated", result.JobsCreated)
	return result, nil
}

// RetryErrors requeues up to limit error jobs for another attempt.
func (s *Scheduler) RetryErrors(ctx context.Context, limit int) (int, error) {
	failed, err := s.jobs.ListByStatus(ctx, core.StatusError, limit)
	if err != nil {
		return 0, err
	}

	requeued := 0
	for _, job := range failed {
		if err := s.jobs.Requeue(ctx, job.Id); err != nil {
			s.logger.Warn("requeue failed", "job", job.Id, "err", err)
			continue
		}
		requeued++
	}
	return requeued, nil
}

// Reconfigure swaps the AI provider, e.g. after the user changes the
// model host in settings. Takes effect on the next processing cycle.
func (s *Scheduler) Reconfigure(provider ai.Provider) {
	s.processor.Reconfigure(provider)
	s.logger.Info("provider reconfigured")
}

func (s *Scheduler) recordRun(result workflow.BatchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.CyclesRun++
	s.stats.JobsSucceeded += result.Succeeded
	s.stats.JobsFailed += result.Failed
	s.stats.LastRunAt = time.Now().UTC()
}

func (s *Scheduler) recordSkip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.CyclesSkipped++
}
