package ingestion

import (
	"fmt"
	"strings"

	"github.com/baibhavbista/gai-workcycles/core"
	"github.com/baibhavbista/gai-workcycles/records"
)

// SessionSnapshot builds the structured text that a session-level job
// carries. The summarizer condenses it before embedding; if the
// summarizer is unavailable this exact text is embedded instead, so it
// has to stand on its own: intentions, review answers, and cycle
// statistics in plain prose.
func SessionSnapshot(s *records.Session, cycles []*records.Cycle) string {
	var b strings.Builder

	if s.Title != "" {
		fmt.Fprintf(&b, "Session: %s.\n", s.Title)
	}
	writeLine(&b, "Objective", s.Objective)
	writeLine(&b, "Why it matters", s.Importance)
	writeLine(&b, "Done when", s.DoneDefinition)
	writeLine(&b, "Hazards", s.Hazards)
	writeLine(&b, "First concrete step", s.Concrete)
	writeLine(&b, "Accomplished", s.ReviewAccomplishments)
	writeLine(&b, "Compared to plan", s.ReviewComparison)
	writeLine(&b, "Obstacles", s.ReviewObstacles)
	writeLine(&b, "Lessons", s.ReviewLessons)

	if len(cycles) > 0 {
		hits, misses, partials := 0, 0, 0
		goals := make([]string, 0, len(cycles))
		for _, c := range cycles {
			switch c.Outcome {
			case core.OutcomeHit:
				hits++
			case core.OutcomeMiss:
				misses++
			case core.OutcomePartial:
				partials++
			}
			if strings.TrimSpace(c.Goal) != "" {
				goals = append(goals, strings.TrimSpace(c.Goal))
			}
		}
		fmt.Fprintf(&b, "Cycles: %d total, %d hit, %d miss, %d partial.\n",
			len(cycles), hits, misses, partials)
		if len(goals) > 0 {
			fmt.Fprintf(&b, "Cycle goals: %s.\n", strings.Join(goals, "; "))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeLine(b *strings.Builder, label, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, text)
}
