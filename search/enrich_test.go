package search

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/baibhavbista/gai-workcycles/core"
	"github.com/baibhavbista/gai-workcycles/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSnippet(t *testing.T) {
	t.Run("short text returned whole", func(t *testing.T) {
		assert.Equal(t, "short text", buildSnippet("short text", "query", 240))
	})

	t.Run("window centered on first query term", func(t *testing.T) {
		text := strings.Repeat("padding words here ", 20) +
			"the badger compaction stalled under load" +
			strings.Repeat(" trailing words here", 20)

		snippet := buildSnippet(text, "why did compaction stall", 120)
		assert.Contains(t, snippet, "compaction")
		assert.LessOrEqual(t, len(snippet), 160, "word-boundary extension stays modest")
		assert.True(t, strings.HasPrefix(snippet, "..."))
		assert.True(t, strings.HasSuffix(snippet, "..."))
	})

	t.Run("no match falls back to head", func(t *testing.T) {
		text := strings.Repeat("alpha beta gamma ", 40)
		snippet := buildSnippet(text, "zzz unmatched", 100)
		assert.True(t, strings.HasPrefix(snippet, "alpha"))
		assert.True(t, strings.HasSuffix(snippet, "..."))
	})

	t.Run("never cuts mid-word", func(t *testing.T) {
		text := strings.Repeat("suprasegmental ", 40)
		snippet := buildSnippet(text, "", 100)
		trimmed := strings.Trim(snippet, ".")
		for _, word := range strings.Fields(trimmed) {
			assert.Equal(t, "suprasegmental", word)
		}
	})
}

func enrichFixture(t *testing.T) (*Enricher, *records.MemoryStore) {
	t.Helper()
	store := records.NewMemoryStore()
	store.PutSession(&records.Session{
		Id:        "s-1",
		Title:     "Importer work",
		Objective: "Finish the CSV importer",
		StartedAt: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
	})
	store.PutCycle(&records.Cycle{
		Id:        "c-1",
		SessionId: "s-1",
		Goal:      "Parse headers",
		Outcome:   core.OutcomeHit,
		StartedAt: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2026, 8, 20, 9, 30, 0, 0, time.UTC),
	})
	store.PutCycle(&records.Cycle{
		Id:        "c-2",
		SessionId: "s-1",
		Goal:      "Handle quoting",
		Outcome:   core.OutcomeMiss,
		StartedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC),
	})
	return NewEnricher(store), store
}

func TestEnrich_ContextAndMetadata(t *testing.T) {
	enricher, _ := enrichFixture(t)

	result := rankedHit("field:r1:goal", "s-1", "c-1", core.LevelField, 0.9, "Parse headers first")
	enriched := enricher.Enrich(context.Background(), []*core.RankedResult{result}, []*core.RankedResult{result}, "headers", nil)
	require.Len(t, enriched, 1)

	er := enriched[0]
	require.NotNil(t, er.Context)
	assert.Equal(t, "Finish the CSV importer", er.Context.SessionObjective)
	assert.Equal(t, "Parse headers", er.Context.CycleGoal)
	assert.Equal(t, core.OutcomeHit, er.Context.CycleOutcome)

	require.NotNil(t, er.Metadata)
	assert.Equal(t, 2, er.Metadata.CycleCount)
	assert.InDelta(t, 0.5, er.Metadata.SuccessRate, 1e-9)
}

func TestEnrich_MissingSessionLeavesContextNil(t *testing.T) {
	enricher, _ := enrichFixture(t)

	result := rankedHit("field:r9:goal", "s-unknown", "", core.LevelField, 0.9, "orphan text")
	enriched := enricher.Enrich(context.Background(), []*core.RankedResult{result}, []*core.RankedResult{result}, "orphan", nil)
	require.Len(t, enriched, 1)
	assert.Nil(t, enriched[0].Context)
	assert.Nil(t, enriched[0].Metadata)
	assert.NotEmpty(t, enriched[0].Snippet)
}

func TestEnrich_RelatedFromFullList(t *testing.T) {
	enricher, _ := enrichFixture(t)

	target := rankedHit("a", "s-1", "c-1", core.LevelField, 0.9, "target")
	fullList := []*core.RankedResult{
		target,
		rankedHit("same-cycle", "s-1", "c-1", core.LevelField, 0.8, "same cycle"),
		rankedHit("same-session", "s-1", "c-2", core.LevelField, 0.7, "same session"),
		rankedHit("unrelated", "s-9", "c-9", core.LevelField, 0.6, "unrelated"),
	}

	enriched := enricher.Enrich(context.Background(), []*core.RankedResult{target}, fullList, "target", nil)
	require.Len(t, enriched, 1)

	related := enriched[0].Related
	require.Len(t, related, 2)
	// Same-cycle hits come before same-session hits.
	assert.Equal(t, "same-cycle", related[0].Record.Id)
	assert.Equal(t, "same-session", related[1].Record.Id)
}

func TestEnrich_NeverReorders(t *testing.T) {
	enricher, _ := enrichFixture(t)

	results := []*core.RankedResult{
		rankedHit("first", "s-1", "c-1", core.LevelField, 0.9, "one"),
		rankedHit("second", "s-1", "c-2", core.LevelField, 0.8, "two"),
		rankedHit("third", "s-9", "", core.LevelSession, 0.7, "three"),
	}

	enriched := enricher.Enrich(context.Background(), results, results, "query", DefaultEnrichOptions())
	require.Len(t, enriched, 3)
	assert.Equal(t, "first", enriched[0].Record.Id)
	assert.Equal(t, "second", enriched[1].Record.Id)
	assert.Equal(t, "third", enriched[2].Record.Id)
}

func TestEnrich_OptionsDisableSteps(t *testing.T) {
	enricher, _ := enrichFixture(t)

	result := rankedHit("a", "s-1", "c-1", core.LevelField, 0.9, "text")
	enriched := enricher.Enrich(context.Background(), []*core.RankedResult{result}, []*core.RankedResult{result}, "q",
		&EnrichOptions{})
	require.Len(t, enriched, 1)
	assert.Empty(t, enriched[0].Snippet)
	assert.Nil(t, enriched[0].Context)
	assert.Nil(t, enriched[0].Metadata)
	assert.Nil(t, enriched[0].Related)
}
