package search

import (
	"github.com/baibhavbista/gai-workcycles/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results
// during a cascading search.
type SearchMonitor interface {
	Start(query string)
	AfterQueryEmbedding(vector []float32)
	AfterCascade(level core.JobLevel, hits []*core.RawResult)
	AfterRanking(ranked []*core.RankedResult)
	AfterDeduplication(kept []*core.RankedResult)
	Finish(results []*core.EnrichedResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                    {}
func (n *noopMonitor) AfterQueryEmbedding(_ []float32)                   {}
func (n *noopMonitor) AfterCascade(_ core.JobLevel, _ []*core.RawResult) {}
func (n *noopMonitor) AfterRanking(_ []*core.RankedResult)               {}
func (n *noopMonitor) AfterDeduplication(_ []*core.RankedResult)         {}
func (n *noopMonitor) Finish(_ []*core.EnrichedResult)                   {}
