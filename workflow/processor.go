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

package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/baibhavbista/gai-workcycles/ai"
	"github.com/baibhavbista/gai-workcycles/core"
	"github.com/baibhavbista/gai-workcycles/ratelimit"
	"github.com/baibhavbista/gai-workcycles/storage"
)

// Config holds configuration for job processing workflows.
type Config struct {
	// MaxRetries is the maximum number of attempts for each provider call
	MaxRetries int

	// RetryBaseDelay is the base delay for exponential backoff
	RetryBaseDelay time.Duration

	// Concurrency caps how many field jobs embed in parallel
	Concurrency int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:     3,
		RetryBaseDelay: 1 * time.Second,
		Concurrency:    4,
	}
}

// Processor runs the per-level embedding workflows. A job handed to a
// workflow is always left in a terminal state (done or error); failures
// never leak a job stuck in processing.
type Processor struct {
	jobs    storage.JobStore
	vectors storage.VectorStore
	limiter *ratelimit.Limiter
	config  *Config
	logger  *slog.Logger

	mu       sync.RWMutex // guards provider
	provider ai.Provider
}

// NewProcessor creates a processor over the given stores and provider.
// A nil config uses DefaultConfig.
func NewProcessor(jobs storage.JobStore, vectors storage.VectorStore, provider ai.Provider, limiter *ratelimit.Limiter, config *Config) *Processor {
	if config == nil {
		config = DefaultConfig()
	}
	if limiter == nil {
		limiter = ratelimit.NewDefaultLimiter()
	}
	return &Processor{
		jobs:     jobs,
		vectors:  vectors,
		provider: provider,
		limiter:  limiter,
		config:   config,
		logger:   slog.Default().With("component", "workflow"),
	}
}

// Provider returns the current AI provider.
func (p *Processor) Provider() ai.Provider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.provider
}

// Reconfigure swaps the AI provider and closes the previous one.
// In-flight jobs finish against the provider they started with.
func (p *Processor) Reconfigure(provider ai.Provider) {
	p.mu.Lock()
	old := p.provider
	p.provider = provider
	p.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			p.logger.Warn("closing previous provider", "err", err)
		}
	}
}

// BatchResult summarizes one batch run.
type BatchResult struct {
	Succeeded int
	Failed    int
}

// ProcessFieldBatch embeds a batch of field-level jobs concurrently.
// Each job fails or succeeds on its own: one bad field never aborts the
// rest of the batch. The returned error is non-nil only when the
// context is cancelled; per-job failures land in the job's error state
// and the BatchResult counts.
func (p *Processor) ProcessFieldBatch(ctx context.Context, jobs []*core.Job) (BatchResult, error) {
	var succeeded, failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.Concurrency)

	for _, job := range jobs {
		if job.Level != core.LevelField {
			p.logger.Warn("skipping non-field job in field batch", "job", job.Id, "level", job.Level)
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := p.processOne(gctx, job, job.Text); err != nil {
				failed.Add(1)
			} else {
				succeeded.Add(1)
			}
			return nil
		})
	}

	err := g.Wait()
	result := BatchResult{Succeeded: int(succeeded.Load()), Failed: int(failed.Load())}
	if err != nil {
		return result, err
	}

	p.logger.Debug("field batch complete", "succeeded", result.Succeeded, "failed", result.Failed)
	return result, nil
}

// ProcessCycleJob embeds a single cycle-level job. The job text is the
// combined plan/outcome narrative built at ingestion time.
func (p *Processor) ProcessCycleJob(ctx context.Context, job *core.Job) error {
	if job.Level != core.LevelCycle {
		return fmt.Errorf("%w: got %s", ErrWrongLevel, job.Level)
	}
	return p.processOne(ctx, job, job.Text)
}

// ProcessSessionJob summarizes and embeds a session-level job. The
// snapshot is first condensed by the summarizer; if summarization
// fails the raw snapshot text is embedded instead, so a flaky chat
// model degrades quality but never blocks the pipeline.
func (p *Processor) ProcessSessionJob(ctx context.Context, job *core.Job) error {
	if job.Level != core.LevelSession {
		return fmt.Errorf("%w: got %s", ErrWrongLevel, job.Level)
	}

	text := job.Text
	if err := p.limiter.WaitForSlot(ctx); err != nil {
		return err
	}
	summary, err := p.Provider().Summarizer().Summarize(ctx, job.Text)
	if err != nil {
		p.logger.Warn("summarization failed, embedding raw snapshot", "job", job.Id, "err", err)
	} else {
		text = summary
	}

	return p.processOne(ctx, job, text)
}

// ProcessJob dispatches a job to the workflow for its level.
func (p *Processor) ProcessJob(ctx context.Context, job *core.Job) error {
	switch job.Level {
	case core.LevelField, core.LevelCycle:
		return p.processOne(ctx, job, job.Text)
	case core.LevelSession:
		return p.ProcessSessionJob(ctx, job)
	default:
		return fmt.Errorf("%w: %d", core.ErrInvalidLevel, job.Level)
	}
}

// processOne runs the shared tail of every workflow: claim the job,
// embed the text, store the vector, mark terminal. Any failure after
// the claim marks the job as errored with the cause.
func (p *Processor) processOne(ctx context.Context, job *core.Job, text string) error {
	if err := p.jobs.MarkProcessing(ctx, job.Id); err != nil {
		// Another worker claimed it, or it already finished.
		p.logger.Debug("could not claim job", "job", job.Id, "err", err)
		return err
	}

	vector, err := p.embed(ctx, text)
	if err != nil {
		return p.fail(ctx, job, fmt.Errorf("embedding failed after %d attempts: %w", p.config.MaxRetries, err))
	}

	record := recordFromJob(job, vector, text)
	if err := p.vectors.Upsert(ctx, record); err != nil {
		return p.fail(ctx, job, fmt.Errorf("vector upsert failed: %w", err))
	}

	if err := p.jobs.MarkDone(ctx, job.Id); err != nil {
		return err
	}
	p.logger.Debug("job embedded", "job", job.Id, "level", job.Level)
	return nil
}

// embed waits for a rate limit slot, then calls the embedder with
// retry and returns a unit-length vector.
func (p *Processor) embed(ctx context.Context, text string) ([]float32, error) {
	if err := p.limiter.WaitForSlot(ctx); err != nil {
		return nil, err
	}

	var vector []float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		vector, err = p.Provider().Embedder().EmbedText(ctx, text)
		return err
	}, p.config.MaxRetries, p.config.RetryBaseDelay)
	if err != nil {
		return nil, err
	}

	return NormalizeVector(vector), nil
}

// fail records the cause on the job and returns it.
func (p *Processor) fail(ctx context.Context, job *core.Job, cause error) error {
	if err := p.jobs.MarkError(ctx, job.Id, cause.Error()); err != nil {
		p.logger.Error("failed to mark job as errored", "job", job.Id, "err", err)
	}
	p.logger.Warn("job failed", "job", job.Id, "level", job.Level, "err", cause)
	return cause
}

// recordFromJob builds the vector record stored for a completed job.
// The record reuses the job id, so re-running a job overwrites its
// previous vector instead of accumulating duplicates.
func recordFromJob(job *core.Job, vector []float32, text string) *core.VectorRecord {
	return &core.VectorRecord{
		Id:         job.Id,
		Level:      job.Level,
		SessionId:  job.SessionId,
		CycleId:    job.CycleId,
		Column:     job.ColumnName,
		FieldLabel: job.FieldLabel,
		Vector:     vector,
		Text:       text,
		TextHash:   job.TextHash,
		Version:    job.Version,
		CreatedAt:  time.Now().UTC(),
	}
}
