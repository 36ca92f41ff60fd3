package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldJobID(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		id1 := FieldJobID("row-42", "objective")
		id2 := FieldJobID("row-42", "objective")
		assert.Equal(t, id1, id2)
	})

	t.Run("encodes row and column", func(t *testing.T) {
		assert.Equal(t, "field:row-42:objective", FieldJobID("row-42", "objective"))
	})

	t.Run("distinct columns yield distinct ids", func(t *testing.T) {
		assert.NotEqual(t, FieldJobID("row-42", "objective"), FieldJobID("row-42", "hazards"))
	})
}

func TestCycleJobID(t *testing.T) {
	assert.Equal(t, "cycle:c-7", CycleJobID("c-7"))
	assert.Equal(t, CycleJobID("c-7"), CycleJobID("c-7"))
}

func TestSessionJobID(t *testing.T) {
	assert.Equal(t, "session:s-1", SessionJobID("s-1"))
}

func TestContentHash(t *testing.T) {
	t.Run("same text produces same hash", func(t *testing.T) {
		h1 := ContentHash("finish the quarterly report")
		h2 := ContentHash("finish the quarterly report")
		assert.Equal(t, h1, h2)
	})

	t.Run("different text produces different hash", func(t *testing.T) {
		h1 := ContentHash("finish the quarterly report")
		h2 := ContentHash("finish the quarterly report.")
		assert.NotEqual(t, h1, h2)
	})

	t.Run("empty text hashes without panic", func(t *testing.T) {
		assert.NotZero(t, ContentHash(""))
	})
}

func TestJobLevelString(t *testing.T) {
	assert.Equal(t, "field", LevelField.String())
	assert.Equal(t, "cycle", LevelCycle.String())
	assert.Equal(t, "session", LevelSession.String())
	assert.Equal(t, "unknown", JobLevel(0).String())
}

func TestJobStatusString(t *testing.T) {
	assert.Equal(t, "pending", StatusPending.String())
	assert.Equal(t, "processing", StatusProcessing.String())
	assert.Equal(t, "done", StatusDone.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "unknown", JobStatus(99).String())
}

func TestCycleOutcomeString(t *testing.T) {
	assert.Equal(t, "hit", OutcomeHit.String())
	assert.Equal(t, "miss", OutcomeMiss.String())
	assert.Equal(t, "partial", OutcomePartial.String())
	assert.Equal(t, "unknown", CycleOutcome(0).String())
}

func TestLevelOrdering(t *testing.T) {
	// Pending-job pickup relies on field < cycle < session.
	assert.Less(t, int(LevelField), int(LevelCycle))
	assert.Less(t, int(LevelCycle), int(LevelSession))
}
