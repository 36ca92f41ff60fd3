package records

import (
	"context"
	"testing"
	"time"

	"github.com/baibhavbista/gai-workcycles/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionEmbeddableColumns(t *testing.T) {
	session := &Session{
		Id:        "s-1",
		Objective: "ship the importer",
		Hazards:   "flaky third-party API",
	}

	columns := session.EmbeddableColumns()
	require.Len(t, columns, 2)
	assert.Equal(t, "objective", columns[0].Name)
	assert.Equal(t, "hazards", columns[1].Name)

	t.Run("whitespace-only text is skipped", func(t *testing.T) {
		session.Importance = "   "
		assert.Len(t, session.EmbeddableColumns(), 2)
	})
}

func TestCycleCombinedText(t *testing.T) {
	t.Run("plan and review", func(t *testing.T) {
		cycle := &Cycle{
			Goal:       "draft the migration script",
			FirstStep:  "open schema file",
			Outcome:    core.OutcomeHit,
			Noteworthy: "went faster than expected",
		}
		text := cycle.CombinedText()
		assert.Equal(t, "START: draft the migration script; open schema file. END: hit; went faster than expected.", text)
	})

	t.Run("plan only", func(t *testing.T) {
		cycle := &Cycle{Goal: "write tests"}
		assert.Equal(t, "START: write tests.", cycle.CombinedText())
	})

	t.Run("review only", func(t *testing.T) {
		cycle := &Cycle{Outcome: core.OutcomeMiss, Distractions: "slack"}
		assert.Equal(t, "END: miss; slack.", cycle.CombinedText())
	})

	t.Run("unreviewed cycle omits the outcome", func(t *testing.T) {
		cycle := &Cycle{Goal: "spike", Noteworthy: "promising"}
		assert.Equal(t, "START: spike. END: promising.", cycle.CombinedText())
	})

	t.Run("empty cycle yields empty text", func(t *testing.T) {
		assert.Empty(t, (&Cycle{}).CombinedText())
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now().UTC()

	store.PutSession(&Session{Id: "s-1", Objective: "a", StartedAt: now.Add(-3 * time.Hour), CompletedAt: now.Add(-2 * time.Hour)})
	store.PutSession(&Session{Id: "s-2", Objective: "b", StartedAt: now.Add(-1 * time.Hour), CompletedAt: now})
	store.PutSession(&Session{Id: "s-3", Objective: "c", StartedAt: now}) // running

	store.PutCycle(&Cycle{Id: "c-1", SessionId: "s-1", StartedAt: now.Add(-3 * time.Hour), EndedAt: now.Add(-170 * time.Minute)})
	store.PutCycle(&Cycle{Id: "c-2", SessionId: "s-1", StartedAt: now.Add(-160 * time.Minute), EndedAt: now.Add(-150 * time.Minute)})
	store.PutCycle(&Cycle{Id: "c-3", SessionId: "s-2", StartedAt: now.Add(-30 * time.Minute)}) // running

	t.Run("get session", func(t *testing.T) {
		session, err := store.GetSession(ctx, "s-1")
		require.NoError(t, err)
		assert.Equal(t, "a", session.Objective)

		_, err = store.GetSession(ctx, "s-404")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("cycles for session ordered by start", func(t *testing.T) {
		cycles, err := store.CyclesForSession(ctx, "s-1")
		require.NoError(t, err)
		require.Len(t, cycles, 2)
		assert.Equal(t, "c-1", cycles[0].Id)
		assert.Equal(t, "c-2", cycles[1].Id)
	})

	t.Run("recent completed sessions newest first", func(t *testing.T) {
		sessions, err := store.RecentCompletedSessions(ctx, 10)
		require.NoError(t, err)
		require.Len(t, sessions, 2)
		assert.Equal(t, "s-2", sessions[0].Id)
		assert.Equal(t, "s-1", sessions[1].Id)
	})

	t.Run("scan window respects limit", func(t *testing.T) {
		sessions, err := store.RecentCompletedSessions(ctx, 1)
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, "s-2", sessions[0].Id)
	})

	t.Run("recent ended cycles excludes running", func(t *testing.T) {
		cycles, err := store.RecentEndedCycles(ctx, 10)
		require.NoError(t, err)
		require.Len(t, cycles, 2)
		assert.Equal(t, "c-2", cycles[0].Id)
	})
}
