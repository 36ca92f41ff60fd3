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

package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/baibhavbista/gai-workcycles/ai"
	"github.com/baibhavbista/gai-workcycles/core"
	"github.com/baibhavbista/gai-workcycles/records"
	"github.com/baibhavbista/gai-workcycles/storage"
)

// DefaultMaxHits is the result count when the caller passes a
// non-positive limit.
const DefaultMaxHits = 10

// Searcher runs cascading semantic search over embedded work records.
type Searcher struct {
	vectors  storage.VectorStore
	records  records.Store
	embedder ai.Embedder

	ranking  *RankingConfig
	dedup    *DedupConfig
	enriched *EnrichOptions

	deduplicator *Deduplicator
	enricher     *Enricher
	logger       *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithRankingConfig overrides the ranking weights.
func WithRankingConfig(config *RankingConfig) Option {
	return func(s *Searcher) error {
		if config != nil {
			s.ranking = config
		}
		return nil
	}
}

// WithDedupConfig overrides the deduplication settings.
func WithDedupConfig(config *DedupConfig) Option {
	return func(s *Searcher) error {
		if config != nil {
			s.dedup = config
		}
		return nil
	}
}

// WithEnrichOptions overrides the enrichment settings.
func WithEnrichOptions(opts *EnrichOptions) Option {
	return func(s *Searcher) error {
		if opts != nil {
			s.enriched = opts
		}
		return nil
	}
}

// NewSearcher creates a new searcher. The records store may be nil;
// context and metadata enrichment are then skipped.
func NewSearcher(
	vectors storage.VectorStore,
	store records.Store,
	provider ai.Provider,
	opts ...Option,
) (*Searcher, error) {
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		vectors:  vectors,
		records:  store,
		embedder: provider.Embedder(),
		ranking:  DefaultRankingConfig(),
		dedup:    DefaultDedupConfig(),
		enriched: DefaultEnrichOptions(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.deduplicator = NewDeduplicator(s.embedder)
	s.enricher = NewEnricher(store)
	return s, nil
}

// Search runs the full pipeline and returns up to maxHits enriched
// results: embed the query, cascade through granularity levels, rank,
// deduplicate, truncate, enrich.
func (s *Searcher) Search(ctx context.Context, query string, maxHits int) ([]*core.EnrichedResult, error) {
	return s.SearchWithMonitor(ctx, query, maxHits, nil)
}

// SearchWithMonitor runs Search with stage callbacks. The monitor
// receives intermediate state at each pipeline stage; a nil monitor is
// replaced with a no-op.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, maxHits int, monitor SearchMonitor) ([]*core.EnrichedResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if maxHits <= 0 {
		maxHits = DefaultMaxHits
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	ranked, level, err := s.rankedResults(ctx, query, query, maxHits, monitor)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		monitor.Finish(nil)
		return nil, nil
	}

	kept, err := s.deduplicator.Deduplicate(ctx, ranked, s.dedup)
	if err != nil {
		s.logger.Error("deduplication failed", "err", err)
		return nil, err
	}
	monitor.AfterDeduplication(kept)

	truncated := kept
	if len(truncated) > maxHits {
		truncated = truncated[:maxHits]
	}

	// Enrichment draws related results from the full ranked list so
	// truncation does not hide same-session material.
	results := s.enricher.Enrich(ctx, truncated, ranked, query, s.enriched)
	monitor.Finish(results)

	s.logger.Debug("search complete",
		"query", query,
		"level", level.String(),
		"ranked", len(ranked),
		"returned", len(results))
	return results, nil
}

// CascadingSearch runs the pipeline up to ranking and returns ranked,
// undeduplicated results. Callers that want plain scored hits without
// presentation concerns use this. The intent text steers the level
// order independently of the query; empty intent falls back to the
// query itself.
func (s *Searcher) CascadingSearch(ctx context.Context, query, intent string, maxHits int) ([]*core.RankedResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if strings.TrimSpace(intent) == "" {
		intent = query
	}
	if maxHits <= 0 {
		maxHits = DefaultMaxHits
	}

	ranked, _, err := s.rankedResults(ctx, query, intent, maxHits, &noopMonitor{})
	if err != nil {
		return nil, err
	}
	if len(ranked) > maxHits {
		ranked = ranked[:maxHits]
	}
	return ranked, nil
}

func (s *Searcher) rankedResults(ctx context.Context, query, intent string, maxHits int, monitor SearchMonitor) ([]*core.RankedResult, core.JobLevel, error) {
	queryVector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error embedding query", "query", query, "err", err)
		return nil, 0, err
	}
	monitor.AfterQueryEmbedding(queryVector)

	hits, level, err := cascade(ctx, s.vectors, queryVector, intent, maxHits)
	if err != nil {
		s.logger.Error("cascade failed", "err", err)
		return nil, 0, err
	}
	monitor.AfterCascade(level, hits)
	if len(hits) == 0 {
		return nil, 0, nil
	}

	ranked := Rank(hits, query, s.ranking, time.Now().UTC())
	monitor.AfterRanking(ranked)
	return ranked, level, nil
}
