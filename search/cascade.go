package search

import (
	"context"
	"strings"

	"github.com/baibhavbista/gai-workcycles/core"
	"github.com/baibhavbista/gai-workcycles/storage"
)

// coarseIntentWords signal that the user is asking about aggregates
// rather than specific moments: the cascade then tries session-level
// summaries before drilling down.
var coarseIntentWords = []string{
	"overall", "trend", "trends", "summary", "summaries", "summarize",
	"pattern", "patterns", "history", "generally", "typically",
}

// levelOrder picks the level-priority order for a cascade from the
// intent text. Coarse-first (session, cycle, field) for aggregate
// questions; fine-first (field, cycle, session) otherwise.
func levelOrder(intent string) []core.JobLevel {
	lowered := strings.ToLower(intent)
	for _, word := range coarseIntentWords {
		if strings.Contains(lowered, word) {
			return []core.JobLevel{core.LevelSession, core.LevelCycle, core.LevelField}
		}
	}
	return []core.JobLevel{core.LevelField, core.LevelCycle, core.LevelSession}
}

// cascade tries each level in priority order and returns the first
// level that yields at least one hit after within-level deduplication.
// Returns the hits, the level they came from, and zero level when no
// level produced anything.
func cascade(ctx context.Context, vectors storage.VectorStore, queryVector []float32, intent string, k int) ([]*core.RawResult, core.JobLevel, error) {
	// Over-fetch per level so dedup still leaves enough candidates.
	fetch := k * 3
	if fetch < 10 {
		fetch = 10
	}

	for _, level := range levelOrder(intent) {
		hits, err := vectors.Query(ctx, queryVector, storage.VectorFilter{Level: level}, fetch)
		if err != nil {
			return nil, 0, err
		}
		if len(hits) == 0 {
			continue
		}

		deduped := dedupeWithinLevel(hits)
		if len(deduped) > 0 {
			return deduped, level, nil
		}
	}

	return nil, 0, nil
}

// dedupeWithinLevel keeps the first-seen (highest-similarity) hit per
// owning unit: per session at session level, per cycle otherwise.
// Field hits on session rows carry no cycle id and fall back to
// (session, column) so distinct answers from one session survive.
func dedupeWithinLevel(hits []*core.RawResult) []*core.RawResult {
	seen := make(map[string]bool, len(hits))
	kept := make([]*core.RawResult, 0, len(hits))

	for _, hit := range hits {
		key := cascadeKey(hit.Record)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, hit)
	}
	return kept
}

func cascadeKey(record *core.VectorRecord) string {
	if record.Level == core.LevelSession {
		return record.SessionId
	}
	if record.CycleId != "" {
		return record.CycleId
	}
	return record.SessionId + "/" + record.Column
}
