package core

//go:generate go run ../cmd/musgen

import (
	"time"
)

// JobLevel is the granularity of an embeddable unit of text.
// Field jobs sort before cycle and session jobs: they are cheaper to
// embed and unlock the higher-level summaries sooner.
type JobLevel int

const (
	// LevelField is a single form answer (one column of one row).
	LevelField JobLevel = iota + 1
	// LevelCycle is one work interval, plan and review combined.
	LevelCycle
	// LevelSession is one full work session, summarized before embedding.
	LevelSession
)

// String returns the lowercase level name used in job ids and logs.
func (l JobLevel) String() string {
	switch l {
	case LevelField:
		return "field"
	case LevelCycle:
		return "cycle"
	case LevelSession:
		return "session"
	default:
		return "unknown"
	}
}

// JobStatus is the lifecycle state of an embedding job.
// Transitions only move forward: pending -> processing -> done|error.
// An error job returns to pending only through an explicit requeue.
type JobStatus int

const (
	StatusPending JobStatus = iota + 1
	StatusProcessing
	StatusDone
	StatusError
)

// String returns the lowercase status name.
func (s JobStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusDone:
		return "done"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// CycleOutcome records how a work cycle ended relative to its goal.
type CycleOutcome int

const (
	OutcomeHit CycleOutcome = iota + 1
	OutcomeMiss
	OutcomePartial
)

// String returns the lowercase outcome name.
func (o CycleOutcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeMiss:
		return "miss"
	case OutcomePartial:
		return "partial"
	default:
		return "unknown"
	}
}

// Job is one durable unit of embedding work: a single piece of text
// awaiting a provider call. Its Id is deterministic (see FieldJobID,
// CycleJobID, SessionJobID), which is the sole de-duplication
// mechanism across process restarts.
type Job struct {
	Id           string
	Level        JobLevel
	SessionId    string
	CycleId      string // empty for session-level jobs
	SourceTable  string
	SourceRowId  string
	ColumnName   string // field-level only
	FieldLabel   string // field-level only
	Text         string
	TextHash     uint64 // ContentHash of Text at creation time
	Status       JobStatus
	ErrorMessage string
	Version      int // starts at 1, reserved for re-embedding
	CreatedAt    time.Time
	ProcessedAt  time.Time // zero until the job reaches done or error
}

// VectorRecord is one embedded unit stored in the vector store.
// It shares the job id scheme so existence checks can skip re-embedding.
// At most one live record exists per id; writes are upserts.
type VectorRecord struct {
	Id         string
	Level      JobLevel
	SessionId  string
	CycleId    string
	Column     string
	FieldLabel string
	Vector     []float32 // unit length, so dot product is cosine similarity
	Text       string
	TextHash   uint64
	Version    int
	CreatedAt  time.Time
}

// QueueCounts is an aggregate snapshot of job states.
type QueueCounts struct {
	Pending    int
	Processing int
	Done       int
	Error      int
	Total      int
}

// RawResult is a vector store hit before ranking.
// Similarity is cosine similarity in [0, 1] (1 - distance).
type RawResult struct {
	Record     *VectorRecord
	Similarity float32
}

// RankedResult is a RawResult with its composite score and final rank.
type RankedResult struct {
	RawResult
	CompositeScore float64
	Rank           int
}

// ResultContext carries session/cycle context fetched during enrichment.
type ResultContext struct {
	SessionObjective string
	SessionStartedAt time.Time
	CycleGoal        string
	CycleOutcome     CycleOutcome
}

// ResultMetadata carries metadata derived from the owning session.
type ResultMetadata struct {
	CycleCount  int
	SuccessRate float64 // fraction of cycles that were hits
}

// EnrichedResult is the final search result surfaced to consumers.
// Enrichment never changes ranking order; results live for one search
// call and are never persisted.
type EnrichedResult struct {
	RankedResult
	Snippet  string
	Context  *ResultContext
	Metadata *ResultMetadata
	Related  []*RankedResult
}
