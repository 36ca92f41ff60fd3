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

	"github.com/baibhavbista/gai-workcycles/ai"
	"github.com/baibhavbista/gai-workcycles/core"
)

// Strategy selects a deduplication algorithm.
type Strategy string

const (
	// StrategyExact drops textually identical results after
	// normalization, keeping the highest-ranked member.
	StrategyExact Strategy = "exact"

	// StrategySemantic clusters results by pairwise similarity (string
	// similarity for short texts, embedding cosine for long texts) and
	// keeps the highest-ranked member per cluster. The default.
	StrategySemantic Strategy = "semantic"

	// StrategyHierarchical prefers one strong session-level hit per
	// session over that session's cycle and field hits.
	StrategyHierarchical Strategy = "hierarchical"

	// StrategySession caps results per session.
	StrategySession Strategy = "session"

	// StrategyContentLength collapses near-duplicate pairs, preferring
	// the member with the more readable length.
	StrategyContentLength Strategy = "content-length"

	// StrategyHybrid chains exact, semantic, session, and
	// content-length in that order.
	StrategyHybrid Strategy = "hybrid"
)

// DedupConfig holds deduplication parameters. Immutable value object,
// passed per call.
type DedupConfig struct {
	Strategy Strategy

	// SimilarityThreshold is the clustering threshold for the semantic
	// strategy.
	SimilarityThreshold float64

	// MaxPerSession caps results per session for the session strategy.
	MaxPerSession int

	// ContentLengthThreshold is the pair-collapse threshold for the
	// content-length strategy.
	ContentLengthThreshold float64

	// ShortTextChars is the length under which string similarity is
	// used instead of embeddings in the semantic strategy.
	ShortTextChars int

	// SessionScoreCutoff is the composite score a session-level hit
	// needs for the hierarchical strategy to prefer it alone.
	SessionScoreCutoff float64
}

// DefaultDedupConfig returns the standard settings.
func DefaultDedupConfig() *DedupConfig {
	return &DedupConfig{
		Strategy:               StrategySemantic,
		SimilarityThreshold:    0.85,
		MaxPerSession:          3,
		ContentLengthThreshold: 0.9,
		ShortTextChars:         200,
		SessionScoreCutoff:     0.7,
	}
}

// Deduplicator removes redundant results from a ranked list. Every
// strategy preserves the relative order of survivors; deduplication
// filters, it never reorders.
type Deduplicator struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewDeduplicator creates a deduplicator. The embedder is used only by
// the semantic strategy on long texts; it may be nil, in which case
// long texts fall back to string similarity.
func NewDeduplicator(embedder ai.Embedder) *Deduplicator {
	return &Deduplicator{
		embedder: embedder,
		logger:   slog.Default().With("component", "search-dedup"),
	}
}

// Deduplicate applies the configured strategy. Input must be in rank
// order; the highest-ranked member of any duplicate group survives.
func (d *Deduplicator) Deduplicate(ctx context.Context, results []*core.RankedResult, config *DedupConfig) ([]*core.RankedResult, error) {
	if config == nil {
		config = DefaultDedupConfig()
	}
	if len(results) <= 1 {
		return results, nil
	}

	switch config.Strategy {
	case StrategyExact:
		return d.exact(results), nil
	case StrategySemantic, "":
		return d.semantic(ctx, results, config)
	case StrategyHierarchical:
		return d.hierarchical(results, config), nil
	case StrategySession:
		return d.perSession(results, config), nil
	case StrategyContentLength:
		return d.contentLength(results, config), nil
	case StrategyHybrid:
		out := d.exact(results)
		out, err := d.semantic(ctx, out, config)
		if err != nil {
			return nil, err
		}
		out = d.perSession(out, config)
		return d.contentLength(out, config), nil
	default:
		return d.semantic(ctx, results, config)
	}
}

// exact drops results whose normalized text was already seen. Input is
// rank-ordered, so first-seen is highest-scoring.
func (d *Deduplicator) exact(results []*core.RankedResult) []*core.RankedResult {
	seen := make(map[string]bool, len(results))
	kept := make([]*core.RankedResult, 0, len(results))
	for _, r := range results {
		key := normalizeText(r.Record.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, r)
	}
	return kept
}

// semantic greedily clusters in rank order: each result joins the
// first kept result it is similar enough to, otherwise it is kept as a
// new cluster representative.
func (d *Deduplicator) semantic(ctx context.Context, results []*core.RankedResult, config *DedupConfig) ([]*core.RankedResult, error) {
	vectors, err := d.longTextVectors(ctx, results, config)
	if err != nil {
		return nil, err
	}

	kept := make([]*core.RankedResult, 0, len(results))
	var keptIdx []int
	for i, candidate := range results {
		duplicate := false
		for j, keeper := range kept {
			if d.pairSimilarity(candidate, keeper, vectors[i], vectors[keptIdx[j]]) >= config.SimilarityThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, candidate)
			keptIdx = append(keptIdx, i)
		}
	}
	return kept, nil
}

// longTextVectors embeds all long texts in one batch. Short texts get
// nil entries and compare by string similarity instead.
func (d *Deduplicator) longTextVectors(ctx context.Context, results []*core.RankedResult, config *DedupConfig) ([][]float32, error) {
	vectors := make([][]float32, len(results))
	if d.embedder == nil {
		return vectors, nil
	}

	var texts []string
	var indexes []int
	for i, r := range results {
		if len(r.Record.Text) >= config.ShortTextChars {
			texts = append(texts, r.Record.Text)
			indexes = append(indexes, i)
		}
	}
	if len(texts) == 0 {
		return vectors, nil
	}

	embedded, err := d.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		// Degrade to string similarity rather than failing the search.
		d.logger.Warn("dedup embedding failed, using string similarity", "err", err)
		return vectors, nil
	}
	if len(embedded) != len(indexes) {
		d.logger.Warn("dedup embedding count mismatch, using string similarity",
			"want", len(indexes), "got", len(embedded))
		return vectors, nil
	}
	for k, i := range indexes {
		vectors[i] = embedded[k]
	}
	return vectors, nil
}

func (d *Deduplicator) pairSimilarity(a, b *core.RankedResult, va, vb []float32) float64 {
	if va != nil && vb != nil {
		return cosineSimilarity(va, vb)
	}
	return stringSimilarity(a.Record.Text, b.Record.Text)
}

// hierarchical keeps, per session, the strongest representation:
// a session-level hit above the cutoff wins alone; otherwise the best
// one or two cycle hits; otherwise the field hits.
func (d *Deduplicator) hierarchical(results []*core.RankedResult, config *DedupConfig) []*core.RankedResult {
	type sessionGroup struct {
		strongSession *core.RankedResult
		cycleCount    int
		hasCycles     bool
	}

	groups := make(map[string]*sessionGroup)
	for _, r := range results {
		g := groups[r.Record.SessionId]
		if g == nil {
			g = &sessionGroup{}
			groups[r.Record.SessionId] = g
		}
		if r.Record.Level == core.LevelSession && r.CompositeScore > config.SessionScoreCutoff && g.strongSession == nil {
			g.strongSession = r
		}
		if r.Record.Level == core.LevelCycle {
			g.hasCycles = true
		}
	}

	kept := make([]*core.RankedResult, 0, len(results))
	for _, r := range results {
		g := groups[r.Record.SessionId]

		if g.strongSession != nil {
			if r == g.strongSession {
				kept = append(kept, r)
			}
			continue
		}

		switch r.Record.Level {
		case core.LevelCycle:
			if g.cycleCount < 2 {
				g.cycleCount++
				kept = append(kept, r)
			}
		case core.LevelField:
			if !g.hasCycles {
				kept = append(kept, r)
			}
		case core.LevelSession:
			// Below the cutoff; the session's cycles or fields stand in.
		}
	}
	return kept
}

// perSession caps results per session, keeping the highest-ranked.
func (d *Deduplicator) perSession(results []*core.RankedResult, config *DedupConfig) []*core.RankedResult {
	counts := make(map[string]int)
	kept := make([]*core.RankedResult, 0, len(results))
	for _, r := range results {
		if counts[r.Record.SessionId] >= config.MaxPerSession {
			continue
		}
		counts[r.Record.SessionId]++
		kept = append(kept, r)
	}
	return kept
}

// contentLength collapses near-duplicate pairs, preferring the member
// whose length reads best; when the later member is the better one it
// replaces the earlier in place so order is preserved.
func (d *Deduplicator) contentLength(results []*core.RankedResult, config *DedupConfig) []*core.RankedResult {
	kept := make([]*core.RankedResult, 0, len(results))
	for _, candidate := range results {
		collapsed := false
		for i, keeper := range kept {
			if stringSimilarity(candidate.Record.Text, keeper.Record.Text) >= config.ContentLengthThreshold {
				if contentLengthScore(len(candidate.Record.Text)) > contentLengthScore(len(keeper.Record.Text)) {
					kept[i] = candidate
				}
				collapsed = true
				break
			}
		}
		if !collapsed {
			kept = append(kept, candidate)
		}
	}
	return kept
}
