package search

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/baibhavbista/gai-workcycles/ai/mock"
	"github.com/baibhavbista/gai-workcycles/core"
	"github.com/baibhavbista/gai-workcycles/records"
	"github.com/baibhavbista/gai-workcycles/storage"
	"github.com/baibhavbista/gai-workcycles/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchFixture struct {
	searcher *Searcher
	vectors  storage.VectorStore
	records  *records.MemoryStore
	provider *mock.MockProvider
}

func newSearchFixture(t *testing.T) *searchFixture {
	t.Helper()

	_, vectors, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	store := records.NewMemoryStore()
	provider := mock.NewMockProvider()

	searcher, err := NewSearcher(vectors, store, provider)
	require.NoError(t, err)

	return &searchFixture{
		searcher: searcher,
		vectors:  vectors,
		records:  store,
		provider: provider,
	}
}

func TestNewSearcher(t *testing.T) {
	_, vectors, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	store := records.NewMemoryStore()
	provider := mock.NewMockProvider()

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(vectors, store, provider)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil records store allowed", func(t *testing.T) {
		searcher, err := NewSearcher(vectors, nil, provider)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with custom logger", func(t *testing.T) {
		searcher, err := NewSearcher(vectors, store, provider, WithLogger(slog.Default()))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil vector store", func(t *testing.T) {
		_, err := NewSearcher(nil, store, provider)
		assert.Equal(t, ErrVectorStoreRequired, err)
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewSearcher(vectors, store, nil)
		assert.Equal(t, ErrAIProviderRequired, err)
	})
}

func TestSearch_EmptyQuery(t *testing.T) {
	f := newSearchFixture(t)

	_, err := f.searcher.Search(context.Background(), "", 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = f.searcher.Search(context.Background(), "   \n ", 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = f.searcher.CascadingSearch(context.Background(), "", "", 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearch_EmptyStoreReturnsNoResults(t *testing.T) {
	f := newSearchFixture(t)

	results, err := f.searcher.Search(context.Background(), "anything at all", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_ClosestTextRanksFirst(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()

	// The mock embedder maps identical text to identical vectors, so a
	// record whose text equals the query gets similarity 1.0.
	query := "rewrite the config loader"
	seedRecord(t, f.vectors, "field:r1:objective", core.LevelField, "s-1", "", "objective", query)
	seedRecord(t, f.vectors, "field:r2:objective", core.LevelField, "s-2", "", "objective", "water the office plants")
	seedRecord(t, f.vectors, "field:r3:objective", core.LevelField, "s-3", "", "objective", "book the team dinner")

	results, err := f.searcher.Search(ctx, query, 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "field:r1:objective", results[0].Record.Id)
	assert.Equal(t, 1, results[0].Rank)
}

func TestSearch_AggregateQueryPrefersSessions(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()

	seedRecord(t, f.vectors, "session:s-1", core.LevelSession, "s-1", "", "", "Session: deep work on the importer.")
	seedRecord(t, f.vectors, "field:r1:objective", core.LevelField, "s-1", "", "objective", "ship the importer")

	results, err := f.searcher.Search(ctx, "summary of my importer work", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, core.LevelSession, results[0].Record.Level)
}

func TestSearch_TruncatesToMaxHits(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()

	texts := []string{
		"profile the hot allocation path",
		"cut startup time in half",
		"untangle the retry logic",
		"write the on-call handbook",
		"move builds onto the new runner",
	}
	for i, text := range texts {
		seedRecord(t, f.vectors, "field:r"+string(rune('a'+i))+":objective",
			core.LevelField, "s-"+string(rune('a'+i)), "", "objective", text)
	}

	results, err := f.searcher.Search(ctx, "engineering work", 2)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 2)
	assert.NotEmpty(t, results)
}

func TestSearch_EnrichesWithContext(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()

	f.records.PutSession(&records.Session{
		Id:        "s-1",
		Objective: "Ship the importer",
		StartedAt: time.Now().UTC().Add(-2 * time.Hour),
	})

	seedRecord(t, f.vectors, "field:r1:objective", core.LevelField, "s-1", "", "objective", "ship the importer")

	results, err := f.searcher.Search(ctx, "ship the importer", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	first := results[0]
	assert.NotEmpty(t, first.Snippet)
	require.NotNil(t, first.Context)
	assert.Equal(t, "Ship the importer", first.Context.SessionObjective)
}

func TestSearchWithMonitor_StagesFire(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()

	seedRecord(t, f.vectors, "field:r1:objective", core.LevelField, "s-1", "", "objective", "tune the compactor")

	monitor := &recordingMonitor{}
	results, err := f.searcher.SearchWithMonitor(ctx, "tune the compactor", 5, monitor)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "tune the compactor", monitor.query)
	assert.NotEmpty(t, monitor.embedding)
	assert.Equal(t, core.LevelField, monitor.level)
	assert.NotEmpty(t, monitor.cascadeHits)
	assert.NotEmpty(t, monitor.ranked)
	assert.NotEmpty(t, monitor.deduped)
	assert.Len(t, monitor.finished, len(results))
}

func TestCascadingSearch_ReturnsRankedOnly(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()

	seedRecord(t, f.vectors, "field:r1:objective", core.LevelField, "s-1", "", "objective", "plan the migration")
	seedRecord(t, f.vectors, "field:r2:objective", core.LevelField, "s-2", "", "objective", "plan the migration carefully")

	ranked, err := f.searcher.CascadingSearch(ctx, "plan the migration", "", 5)
	require.NoError(t, err)
	require.NotEmpty(t, ranked)
	assert.Equal(t, 1, ranked[0].Rank)
	for i := 1; i < len(ranked); i++ {
		assert.LessOrEqual(t, ranked[i].CompositeScore, ranked[i-1].CompositeScore)
	}
}

func TestCascadingSearch_ExplicitIntent(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()

	seedRecord(t, f.vectors, "session:s-1", core.LevelSession, "s-1", "", "", "Session: importer work.")
	seedRecord(t, f.vectors, "field:r1:objective", core.LevelField, "s-1", "", "objective", "ship the importer")

	// The intent steers the cascade even when the query itself carries
	// no aggregate words.
	ranked, err := f.searcher.CascadingSearch(ctx, "importer work", "summary", 5)
	require.NoError(t, err)
	require.NotEmpty(t, ranked)
	assert.Equal(t, core.LevelSession, ranked[0].Record.Level)
}

// recordingMonitor captures every stage callback for assertions.
type recordingMonitor struct {
	query       string
	embedding   []float32
	level       core.JobLevel
	cascadeHits []*core.RawResult
	ranked      []*core.RankedResult
	deduped     []*core.RankedResult
	finished    []*core.EnrichedResult
}

var _ SearchMonitor = (*recordingMonitor)(nil)

func (m *recordingMonitor) Start(query string)               { m.query = query }
func (m *recordingMonitor) AfterQueryEmbedding(v []float32)  { m.embedding = v }
func (m *recordingMonitor) AfterCascade(level core.JobLevel, hits []*core.RawResult) {
	m.level = level
	m.cascadeHits = hits
}
func (m *recordingMonitor) AfterRanking(r []*core.RankedResult)       { m.ranked = r }
func (m *recordingMonitor) AfterDeduplication(r []*core.RankedResult) { m.deduped = r }
func (m *recordingMonitor) Finish(r []*core.EnrichedResult)           { m.finished = r }
