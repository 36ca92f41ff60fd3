package search

import (
	"context"
	"strings"
	"testing"

	"github.com/baibhavbista/gai-workcycles/ai/mock"
	"github.com/baibhavbista/gai-workcycles/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankedHit(id, sessionId, cycleId string, level core.JobLevel, score float64, text string) *core.RankedResult {
	return &core.RankedResult{
		RawResult: core.RawResult{
			Record: &core.VectorRecord{
				Id:        id,
				Level:     level,
				SessionId: sessionId,
				CycleId:   cycleId,
				Text:      text,
			},
		},
		CompositeScore: score,
	}
}

func ids(results []*core.RankedResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Record.Id
	}
	return out
}

func TestDeduplicate_Exact(t *testing.T) {
	d := NewDeduplicator(nil)
	config := &DedupConfig{Strategy: StrategyExact}

	results := []*core.RankedResult{
		rankedHit("a", "s-1", "", core.LevelField, 0.9, "Finish the parser rewrite"),
		rankedHit("b", "s-2", "", core.LevelField, 0.8, "finish the parser rewrite!"),
		rankedHit("c", "s-3", "", core.LevelField, 0.7, "Write the release notes"),
	}

	kept, err := d.Deduplicate(context.Background(), results, config)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids(kept))

	// Idempotent: a second pass changes nothing.
	again, err := d.Deduplicate(context.Background(), kept, config)
	require.NoError(t, err)
	assert.Equal(t, ids(kept), ids(again))
}

func TestDeduplicate_SemanticShortTexts(t *testing.T) {
	d := NewDeduplicator(nil)
	config := DefaultDedupConfig()

	results := []*core.RankedResult{
		rankedHit("a", "s-1", "", core.LevelField, 0.9, "refactor the storage layer for clarity"),
		rankedHit("b", "s-2", "", core.LevelField, 0.8, "refactor the storage layer for clarity today"),
		rankedHit("c", "s-3", "", core.LevelField, 0.7, "plan the quarterly team offsite"),
	}

	kept, err := d.Deduplicate(context.Background(), results, config)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids(kept))
}

func TestDeduplicate_SemanticLongTextsUseEmbeddings(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	d := NewDeduplicator(embedder)
	config := DefaultDedupConfig()

	long := strings.Repeat("the same long review text over and over. ", 8)
	other := strings.Repeat("a completely different planning narrative here. ", 8)

	results := []*core.RankedResult{
		rankedHit("a", "s-1", "", core.LevelSession, 0.9, long),
		rankedHit("b", "s-2", "", core.LevelSession, 0.8, long),
		rankedHit("c", "s-3", "", core.LevelSession, 0.7, other),
	}

	kept, err := d.Deduplicate(context.Background(), results, config)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids(kept))
	assert.Positive(t, embedder.CallCount())
}

func TestDeduplicate_SemanticEmbedFailureDegrades(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, assert.AnError
	}
	d := NewDeduplicator(embedder)

	long := strings.Repeat("identical long text block repeated for length purposes. ", 6)
	results := []*core.RankedResult{
		rankedHit("a", "s-1", "", core.LevelSession, 0.9, long),
		rankedHit("b", "s-2", "", core.LevelSession, 0.8, long),
	}

	// String similarity still catches the duplicate.
	kept, err := d.Deduplicate(context.Background(), results, DefaultDedupConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(kept))
}

func TestDeduplicate_Session(t *testing.T) {
	d := NewDeduplicator(nil)
	config := &DedupConfig{Strategy: StrategySession, MaxPerSession: 2}

	results := []*core.RankedResult{
		rankedHit("a", "s-1", "", core.LevelField, 0.9, "one"),
		rankedHit("b", "s-1", "", core.LevelField, 0.8, "two"),
		rankedHit("c", "s-1", "", core.LevelField, 0.7, "three"),
		rankedHit("d", "s-2", "", core.LevelField, 0.6, "four"),
	}

	kept, err := d.Deduplicate(context.Background(), results, config)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "d"}, ids(kept))
}

func TestDeduplicate_Hierarchical(t *testing.T) {
	d := NewDeduplicator(nil)
	config := DefaultDedupConfig()
	config.Strategy = StrategyHierarchical

	t.Run("strong session hit wins alone", func(t *testing.T) {
		results := []*core.RankedResult{
			rankedHit("sess", "s-1", "", core.LevelSession, 0.85, "session summary"),
			rankedHit("cyc", "s-1", "c-1", core.LevelCycle, 0.8, "cycle text"),
			rankedHit("fld", "s-1", "c-1", core.LevelField, 0.75, "field text"),
			rankedHit("other", "s-2", "c-9", core.LevelCycle, 0.7, "other session"),
		}
		kept, err := d.Deduplicate(context.Background(), results, config)
		require.NoError(t, err)
		assert.Equal(t, []string{"sess", "other"}, ids(kept))
	})

	t.Run("weak session falls back to cycles", func(t *testing.T) {
		results := []*core.RankedResult{
			rankedHit("c1", "s-1", "c-1", core.LevelCycle, 0.8, "first cycle"),
			rankedHit("sess", "s-1", "", core.LevelSession, 0.5, "weak summary"),
			rankedHit("c2", "s-1", "c-2", core.LevelCycle, 0.7, "second cycle"),
			rankedHit("c3", "s-1", "c-3", core.LevelCycle, 0.6, "third cycle"),
			rankedHit("fld", "s-1", "c-1", core.LevelField, 0.55, "field"),
		}
		kept, err := d.Deduplicate(context.Background(), results, config)
		require.NoError(t, err)
		// Best two cycles only; fields are shadowed by cycles.
		assert.Equal(t, []string{"c1", "c2"}, ids(kept))
	})

	t.Run("fields survive when nothing coarser exists", func(t *testing.T) {
		results := []*core.RankedResult{
			rankedHit("f1", "s-1", "c-1", core.LevelField, 0.8, "field one"),
			rankedHit("f2", "s-1", "c-2", core.LevelField, 0.7, "field two"),
		}
		kept, err := d.Deduplicate(context.Background(), results, config)
		require.NoError(t, err)
		assert.Equal(t, []string{"f1", "f2"}, ids(kept))
	})
}

func TestDeduplicate_ContentLengthPrefersReadable(t *testing.T) {
	d := NewDeduplicator(nil)
	config := DefaultDedupConfig()
	config.Strategy = StrategyContentLength

	base := strings.Repeat("shipped the importer and cleaned the queue ", 3)
	longer := base + "fully"

	results := []*core.RankedResult{
		rankedHit("short", "s-1", "", core.LevelField, 0.9, base),
		rankedHit("longer", "s-2", "", core.LevelField, 0.8, longer),
		rankedHit("other", "s-3", "", core.LevelField, 0.7, "unrelated planning note"),
	}

	kept, err := d.Deduplicate(context.Background(), results, config)
	require.NoError(t, err)

	// The near-duplicate pair collapses into the better-length member,
	// which takes the earlier slot so order is preserved.
	assert.Equal(t, []string{"longer", "other"}, ids(kept))
}

func TestDeduplicate_OrderPreserved(t *testing.T) {
	d := NewDeduplicator(nil)

	results := []*core.RankedResult{
		rankedHit("a", "s-1", "", core.LevelField, 0.9, "write the migration runbook"),
		rankedHit("b", "s-2", "", core.LevelField, 0.8, "profile allocation hot spots"),
		rankedHit("c", "s-3", "", core.LevelField, 0.7, "draft onboarding checklist"),
		rankedHit("d", "s-4", "", core.LevelField, 0.6, "fix flaky scheduler polling"),
	}

	for _, strategy := range []Strategy{StrategyExact, StrategySemantic, StrategySession, StrategyContentLength, StrategyHybrid} {
		config := DefaultDedupConfig()
		config.Strategy = strategy
		kept, err := d.Deduplicate(context.Background(), results, config)
		require.NoError(t, err, string(strategy))

		prev := -1
		positions := make(map[string]int, len(results))
		for i, r := range results {
			positions[r.Record.Id] = i
		}
		for _, r := range kept {
			pos := positions[r.Record.Id]
			assert.Greater(t, pos, prev, "strategy %s reordered results", strategy)
			prev = pos
		}
	}
}

func TestDeduplicate_SingleResultPassesThrough(t *testing.T) {
	d := NewDeduplicator(nil)
	results := []*core.RankedResult{rankedHit("only", "s-1", "", core.LevelField, 0.9, "text")}
	kept, err := d.Deduplicate(context.Background(), results, nil)
	require.NoError(t, err)
	assert.Equal(t, results, kept)
}
