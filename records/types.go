package records

import (
	"strings"
	"time"

	"github.com/baibhavbista/gai-workcycles/core"
)

// The relational store holding sessions and cycles lives outside this
// module; these types mirror only the fields the embedding pipeline and
// search enrichment consume. Validation happens at this boundary, not
// downstream.

// Column is one embeddable unit of text within a row.
type Column struct {
	Name  string // column name, part of the deterministic job id
	Label string // human-readable label shown with search results
	Text  string
}

// Session is one full work session: planning fields filled at start,
// review fields at completion.
type Session struct {
	Id             string
	Title          string
	Objective      string
	Importance     string
	DoneDefinition string
	Hazards        string
	Concrete       string
	AIEnabled      bool
	StartedAt      time.Time
	CompletedAt    time.Time // zero while the session is running

	// Review answers, empty until the session completes.
	ReviewAccomplishments string
	ReviewComparison      string
	ReviewObstacles       string
	ReviewLessons         string
}

// Completed reports whether the session has been wrapped up.
func (s *Session) Completed() bool {
	return !s.CompletedAt.IsZero()
}

// EmbeddableColumns returns the session's non-empty text columns in a
// stable order. Each becomes one field-level job.
func (s *Session) EmbeddableColumns() []Column {
	all := []Column{
		{Name: "objective", Label: "Objective", Text: s.Objective},
		{Name: "importance", Label: "Why this matters", Text: s.Importance},
		{Name: "done_definition", Label: "Definition of done", Text: s.DoneDefinition},
		{Name: "hazards", Label: "Potential hazards", Text: s.Hazards},
		{Name: "concrete", Label: "First concrete step", Text: s.Concrete},
		{Name: "review_accomplishments", Label: "What got done", Text: s.ReviewAccomplishments},
		{Name: "review_comparison", Label: "Compared to the plan", Text: s.ReviewComparison},
		{Name: "review_obstacles", Label: "Obstacles", Text: s.ReviewObstacles},
		{Name: "review_lessons", Label: "Lessons", Text: s.ReviewLessons},
	}
	return nonEmpty(all)
}

// Cycle is one work interval within a session: a short plan before,
// a short review after.
type Cycle struct {
	Id        string
	SessionId string

	// Plan fields.
	Goal      string
	FirstStep string
	Hazards   string
	Energy    string
	Morale    string

	// Review fields.
	Outcome      core.CycleOutcome // hit, miss, or partial
	Noteworthy   string
	Distractions string
	Improvement  string

	StartedAt time.Time
	EndedAt   time.Time // zero while the cycle is running
}

// Ended reports whether the cycle has been reviewed.
func (c *Cycle) Ended() bool {
	return !c.EndedAt.IsZero()
}

// EmbeddableColumns returns the cycle's non-empty text columns in a
// stable order.
func (c *Cycle) EmbeddableColumns() []Column {
	all := []Column{
		{Name: "goal", Label: "Cycle goal", Text: c.Goal},
		{Name: "first_step", Label: "First step", Text: c.FirstStep},
		{Name: "hazards", Label: "Hazards", Text: c.Hazards},
		{Name: "noteworthy", Label: "Noteworthy", Text: c.Noteworthy},
		{Name: "distractions", Label: "Distractions", Text: c.Distractions},
		{Name: "improvement", Label: "Improvement", Text: c.Improvement},
	}
	return nonEmpty(all)
}

// CombinedText assembles the cycle's plan and review into the single
// text embedded at cycle level. Absent sub-fields are omitted.
// Shape: "START: <plan fields>. END: <review fields>".
func (c *Cycle) CombinedText() string {
	plan := joinNonEmpty([]string{c.Goal, c.FirstStep, c.Hazards})
	review := joinNonEmpty([]string{c.Outcome.String(), c.Noteworthy, c.Distractions, c.Improvement})
	if c.Outcome == 0 {
		review = joinNonEmpty([]string{c.Noteworthy, c.Distractions, c.Improvement})
	}

	var b strings.Builder
	if plan != "" {
		b.WriteString("START: ")
		b.WriteString(plan)
		b.WriteString(".")
	}
	if review != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString("END: ")
		b.WriteString(review)
		b.WriteString(".")
	}
	return b.String()
}

func nonEmpty(columns []Column) []Column {
	result := make([]Column, 0, len(columns))
	for _, c := range columns {
		if strings.TrimSpace(c.Text) != "" {
			result = append(result, c)
		}
	}
	return result
}

func joinNonEmpty(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	return strings.Join(kept, "; ")
}
