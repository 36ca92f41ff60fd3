package ingestion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baibhavbista/gai-workcycles/core"
)

func TestPipeline_FireAndForget(t *testing.T) {
	creator, jobs, _ := newCreator(t)

	pipeline, err := NewPipeline(creator, WithPoolSize(2))
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()

	t.Run("session save queues field jobs", func(t *testing.T) {
		pipeline.SessionSaved(testSession())

		assert.Eventually(t, func() bool {
			counts, err := jobs.Counts(ctx)
			return err == nil && counts.Pending == 3
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("cycle end queues field and cycle jobs", func(t *testing.T) {
		pipeline.CycleEnded(testCycle())

		assert.Eventually(t, func() bool {
			_, err := jobs.GetJob(ctx, core.CycleJobID("c-1"))
			return err == nil
		}, 2*time.Second, 10*time.Millisecond)

		// Field jobs for the cycle columns landed too.
		_, err := jobs.GetJob(ctx, core.FieldJobID("c-1", "goal"))
		assert.NoError(t, err)
	})

	t.Run("session completion queues the snapshot job", func(t *testing.T) {
		s := testSession()
		s.CompletedAt = time.Now().UTC()
		pipeline.SessionCompleted(s, nil)

		assert.Eventually(t, func() bool {
			_, err := jobs.GetJob(ctx, core.SessionJobID("s-1"))
			return err == nil
		}, 2*time.Second, 10*time.Millisecond)
	})
}

func TestNewCreator_Validation(t *testing.T) {
	_, jobs, vectors := newCreator(t)

	_, err := NewCreator(nil, vectors)
	assert.ErrorIs(t, err, ErrJobStoreRequired)

	_, err = NewCreator(jobs, nil)
	assert.ErrorIs(t, err, ErrVectorStoreRequired)
}
