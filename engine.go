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


package workcycles

import (
	"log/slog"

	"github.com/baibhavbista/gai-workcycles/ai"
	"github.com/baibhavbista/gai-workcycles/ai/openai"
	"github.com/baibhavbista/gai-workcycles/ingestion"
	"github.com/baibhavbista/gai-workcycles/ratelimit"
	"github.com/baibhavbista/gai-workcycles/records"
	"github.com/baibhavbista/gai-workcycles/scheduler"
	"github.com/baibhavbista/gai-workcycles/search"
	"github.com/baibhavbista/gai-workcycles/storage"
	"github.com/baibhavbista/gai-workcycles/storage/badger"
	"github.com/baibhavbista/gai-workcycles/workflow"
)

// Engine wires the embedding pipeline and search stack over one badger
// database: job queue, vector store, AI provider, processor, and job
// creator. The desktop app holds a single Engine for its lifetime.
type Engine struct {
	backend   *badger.Backend
	jobs      storage.JobStore
	vectors   storage.VectorStore
	records   records.Store
	provider  ai.Provider
	limiter   *ratelimit.Limiter
	processor *workflow.Processor
	creator   *ingestion.Creator
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig       *ai.Config
	workflowConfig *workflow.Config
	records        records.Store
	limiter        *ratelimit.Limiter
	provider       ai.Provider
	inMemory       bool
}

// WithAIConfig sets the AI provider configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithWorkflowConfig sets retry and concurrency settings for job
// processing.
func WithWorkflowConfig(config *workflow.Config) EngineOption {
	return func(o *engineOptions) {
		if config != nil {
			o.workflowConfig = config
		}
	}
}

// WithRecordsStore sets the accessor for sessions and cycles. Without
// one, backfill and result enrichment are unavailable.
func WithRecordsStore(store records.Store) EngineOption {
	return func(o *engineOptions) {
		o.records = store
	}
}

// WithRateLimiter overrides the provider rate limiter.
func WithRateLimiter(limiter *ratelimit.Limiter) EngineOption {
	return func(o *engineOptions) {
		o.limiter = limiter
	}
}

// WithProvider overrides the AI provider. Used by tests and by callers
// that manage provider lifecycle themselves; WithAIConfig is ignored
// when set.
func WithProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithInMemoryStorage keeps all state in memory. Used by tests and the
// seeder.
func WithInMemoryStorage() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// NewEngine opens the database at filePath and wires the stack.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	jobs := badger.NewJobRepository(backend)
	vectors := badger.NewVectorRepository(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	limiter := options.limiter
	if limiter == nil {
		limiter = ratelimit.NewDefaultLimiter()
	}

	processor := workflow.NewProcessor(jobs, vectors, provider, limiter, options.workflowConfig)

	creator, err := ingestion.NewCreator(jobs, vectors)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:   backend,
		jobs:      jobs,
		vectors:   vectors,
		records:   options.records,
		provider:  provider,
		limiter:   limiter,
		processor: processor,
		creator:   creator,
		logger:    slog.Default(),
	}, nil
}

// Close shuts down the provider and storage. The caller stops any
// schedulers and pipelines first.
func (e *Engine) Close() error {
	if err := e.processor.Provider().Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}

	if err := e.vectors.Close(); err != nil {
		e.logger.Error("error closing vector store", "err", err)
		return err
	}
	if err := e.jobs.Close(); err != nil {
		e.logger.Error("error closing job store", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// JobStore exposes the durable job queue.
func (e *Engine) JobStore() storage.JobStore {
	return e.jobs
}

// VectorStore exposes the embedded records.
func (e *Engine) VectorStore() storage.VectorStore {
	return e.vectors
}

// Creator exposes direct job creation for callers that bypass the
// ingestion pipeline.
func (e *Engine) Creator() *ingestion.Creator {
	return e.creator
}

// Processor exposes direct job processing for callers that bypass the
// scheduler.
func (e *Engine) Processor() *workflow.Processor {
	return e.processor
}

// NewIngestionPipeline creates the fire-and-forget save-hook pipeline.
func (e *Engine) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(e.creator, opts...)
}

// NewScheduler creates the background processing scheduler. It is not
// started; the caller owns Start and Stop.
func (e *Engine) NewScheduler(config *scheduler.Config) *scheduler.Scheduler {
	return scheduler.New(e.jobs, e.processor, e.creator, e.records, config)
}

// NewSearcher creates a cascading searcher over the embedded records.
func (e *Engine) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(e.vectors, e.records, e.processor.Provider(), opts...)
}
