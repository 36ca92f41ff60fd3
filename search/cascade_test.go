package search

import (
	"context"
	"testing"
	"time"

	"github.com/baibhavbista/gai-workcycles/ai/mock"
	"github.com/baibhavbista/gai-workcycles/core"
	"github.com/baibhavbista/gai-workcycles/storage"
	"github.com/baibhavbista/gai-workcycles/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelOrder(t *testing.T) {
	t.Run("aggregate intent goes coarse first", func(t *testing.T) {
		for _, query := range []string{
			"summary of last week",
			"what are my productivity trends",
			"how do sessions typically go",
			"overall progress on the parser",
		} {
			order := levelOrder(query)
			assert.Equal(t, core.LevelSession, order[0], "query %q", query)
			assert.Equal(t, core.LevelField, order[2], "query %q", query)
		}
	})

	t.Run("specific intent goes fine first", func(t *testing.T) {
		for _, query := range []string{
			"what was the goal of the auth work",
			"obstacle with the importer",
			"when did I work on badger compaction",
		} {
			order := levelOrder(query)
			assert.Equal(t, core.LevelField, order[0], "query %q", query)
			assert.Equal(t, core.LevelSession, order[2], "query %q", query)
		}
	})
}

func seedRecord(t *testing.T, vectors storage.VectorStore, id string, level core.JobLevel, sessionId, cycleId, column, text string) {
	t.Helper()
	err := vectors.Upsert(context.Background(), &core.VectorRecord{
		Id:        id,
		Level:     level,
		SessionId: sessionId,
		CycleId:   cycleId,
		Column:    column,
		Vector:    mock.DeterministicVector(text, 384),
		Text:      text,
		TextHash:  core.ContentHash(text),
		Version:   1,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func TestCascade_StopsAtFirstNonEmptyLevel(t *testing.T) {
	_, vectors, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	seedRecord(t, vectors, "field:r1:objective", core.LevelField, "s-1", "", "objective", "ship the importer")
	seedRecord(t, vectors, "cycle:c-1", core.LevelCycle, "s-1", "c-1", "", "START: ship the importer.")
	seedRecord(t, vectors, "session:s-1", core.LevelSession, "s-1", "", "", "Session: importer work.")

	query := mock.DeterministicVector("ship the importer", 384)

	t.Run("fine intent returns field hits only", func(t *testing.T) {
		hits, level, err := cascade(ctx, vectors, query, "what was the importer goal", 5)
		require.NoError(t, err)
		assert.Equal(t, core.LevelField, level)
		require.Len(t, hits, 1)
		assert.Equal(t, "field:r1:objective", hits[0].Record.Id)
	})

	t.Run("aggregate intent returns session hits only", func(t *testing.T) {
		hits, level, err := cascade(ctx, vectors, query, "summary of importer work", 5)
		require.NoError(t, err)
		assert.Equal(t, core.LevelSession, level)
		require.Len(t, hits, 1)
		assert.Equal(t, "session:s-1", hits[0].Record.Id)
	})
}

func TestCascade_FallsThroughEmptyLevels(t *testing.T) {
	_, vectors, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	// Only cycle-level data exists; both intents must land on it.
	seedRecord(t, vectors, "cycle:c-1", core.LevelCycle, "s-1", "c-1", "", "START: debug the race.")

	query := mock.DeterministicVector("debug the race", 384)

	hits, level, err := cascade(ctx, vectors, query, "summary of debugging", 5)
	require.NoError(t, err)
	assert.Equal(t, core.LevelCycle, level)
	assert.Len(t, hits, 1)

	hits, level, err = cascade(ctx, vectors, query, "which race did I debug", 5)
	require.NoError(t, err)
	assert.Equal(t, core.LevelCycle, level)
	assert.Len(t, hits, 1)
}

func TestCascade_EmptyStore(t *testing.T) {
	_, vectors, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	hits, level, err := cascade(context.Background(), vectors, mock.DeterministicVector("anything", 384), "anything", 5)
	require.NoError(t, err)
	assert.Nil(t, hits)
	assert.Equal(t, core.JobLevel(0), level)
}

func TestDedupeWithinLevel(t *testing.T) {
	record := func(id string, level core.JobLevel, sessionId, cycleId, column string) *core.RawResult {
		return &core.RawResult{Record: &core.VectorRecord{
			Id: id, Level: level, SessionId: sessionId, CycleId: cycleId, Column: column,
		}}
	}

	t.Run("one hit per cycle at field level", func(t *testing.T) {
		hits := []*core.RawResult{
			record("f1", core.LevelField, "s-1", "c-1", "goal"),
			record("f2", core.LevelField, "s-1", "c-1", "improvement"),
			record("f3", core.LevelField, "s-1", "c-2", "goal"),
		}
		kept := dedupeWithinLevel(hits)
		require.Len(t, kept, 2)
		assert.Equal(t, "f1", kept[0].Record.Id)
		assert.Equal(t, "f3", kept[1].Record.Id)
	})

	t.Run("session-row fields keyed by column", func(t *testing.T) {
		hits := []*core.RawResult{
			record("f1", core.LevelField, "s-1", "", "objective"),
			record("f2", core.LevelField, "s-1", "", "review_lessons"),
			record("f3", core.LevelField, "s-1", "", "objective"),
		}
		kept := dedupeWithinLevel(hits)
		require.Len(t, kept, 2)
	})

	t.Run("one hit per session at session level", func(t *testing.T) {
		hits := []*core.RawResult{
			record("s1", core.LevelSession, "s-1", "", ""),
			record("s2", core.LevelSession, "s-1", "", ""),
			record("s3", core.LevelSession, "s-2", "", ""),
		}
		kept := dedupeWithinLevel(hits)
		require.Len(t, kept, 2)
	})
}
