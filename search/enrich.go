package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/baibhavbista/gai-workcycles/core"
	"github.com/baibhavbista/gai-workcycles/records"
)

// EnrichOptions selects which enrichment steps run. Enrichment adds
// presentation material to results that already have their final order;
// it never reorders or removes anything.
type EnrichOptions struct {
	Snippet  bool
	Context  bool
	Metadata bool
	Related  bool

	// SnippetMaxLen caps snippet length in characters before the
	// word-boundary extension.
	SnippetMaxLen int

	// MaxRelated caps the related results attached per result.
	MaxRelated int
}

// DefaultEnrichOptions enables every step.
func DefaultEnrichOptions() *EnrichOptions {
	return &EnrichOptions{
		Snippet:       true,
		Context:       true,
		Metadata:      true,
		Related:       true,
		SnippetMaxLen: 240,
		MaxRelated:    3,
	}
}

// Enricher decorates ranked results with snippets, session/cycle
// context, metadata, and related results.
type Enricher struct {
	records records.Store
	logger  *slog.Logger
}

// NewEnricher creates an enricher. The records store may be nil, in
// which case context and metadata enrichment are skipped.
func NewEnricher(store records.Store) *Enricher {
	return &Enricher{
		records: store,
		logger:  slog.Default().With("component", "search-enrich"),
	}
}

// Enrich decorates the given results. The full ranked list (pre
// truncation) supplies related-result candidates. Lookup failures are
// logged and leave the corresponding field nil; enrichment never fails
// a search.
func (e *Enricher) Enrich(ctx context.Context, results []*core.RankedResult, fullList []*core.RankedResult, query string, opts *EnrichOptions) []*core.EnrichedResult {
	if opts == nil {
		opts = DefaultEnrichOptions()
	}

	enriched := make([]*core.EnrichedResult, len(results))
	for i, r := range results {
		er := &core.EnrichedResult{RankedResult: *r}
		if opts.Snippet {
			er.Snippet = buildSnippet(r.Record.Text, query, opts.SnippetMaxLen)
		}
		if opts.Context && e.records != nil {
			er.Context = e.buildContext(ctx, r.Record)
		}
		if opts.Metadata && e.records != nil {
			er.Metadata = e.buildMetadata(ctx, r.Record)
		}
		if opts.Related {
			er.Related = relatedResults(r, fullList, opts.MaxRelated)
		}
		enriched[i] = er
	}
	return enriched
}

// buildSnippet extracts a window around the first query term match,
// extended outward to word boundaries, with ellipses marking cuts.
// When no term matches, the snippet is the head of the text.
func buildSnippet(text, query string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 240
	}
	if len(text) <= maxLen {
		return text
	}

	lower := strings.ToLower(text)
	start := 0
	for _, term := range tokenizeAndFilter(query) {
		if idx := strings.Index(lower, term); idx >= 0 {
			// Center the window on the match.
			start = idx - maxLen/2
			break
		}
	}
	if start < 0 {
		start = 0
	}
	end := start + maxLen
	if end > len(text) {
		end = len(text)
		start = end - maxLen
		if start < 0 {
			start = 0
		}
	}

	// Extend to word boundaries so the snippet never cuts mid-word.
	for start > 0 && text[start-1] != ' ' && text[start-1] != '\n' {
		start--
	}
	for end < len(text) && text[end] != ' ' && text[end] != '\n' {
		end++
	}

	snippet := strings.TrimSpace(text[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(text) {
		snippet = snippet + "..."
	}
	return snippet
}

func (e *Enricher) buildContext(ctx context.Context, record *core.VectorRecord) *core.ResultContext {
	session, err := e.records.GetSession(ctx, record.SessionId)
	if err != nil {
		e.logger.Debug("context enrichment skipped", "session", record.SessionId, "err", err)
		return nil
	}
	rc := &core.ResultContext{
		SessionObjective: session.Objective,
		SessionStartedAt: session.StartedAt,
	}
	if record.CycleId != "" {
		cycle, err := e.records.GetCycle(ctx, record.CycleId)
		if err != nil {
			e.logger.Debug("cycle context skipped", "cycle", record.CycleId, "err", err)
		} else {
			rc.CycleGoal = cycle.Goal
			rc.CycleOutcome = cycle.Outcome
		}
	}
	return rc
}

func (e *Enricher) buildMetadata(ctx context.Context, record *core.VectorRecord) *core.ResultMetadata {
	cycles, err := e.records.CyclesForSession(ctx, record.SessionId)
	if err != nil {
		e.logger.Debug("metadata enrichment skipped", "session", record.SessionId, "err", err)
		return nil
	}
	md := &core.ResultMetadata{CycleCount: len(cycles)}
	if len(cycles) > 0 {
		hits := 0
		for _, c := range cycles {
			if c.Outcome == core.OutcomeHit {
				hits++
			}
		}
		md.SuccessRate = float64(hits) / float64(len(cycles))
	}
	return md
}

// relatedResults picks other hits from the same session, preferring
// same-cycle hits, in rank order.
func relatedResults(r *core.RankedResult, fullList []*core.RankedResult, max int) []*core.RankedResult {
	if max <= 0 {
		return nil
	}

	var sameCycle, sameSession []*core.RankedResult
	for _, other := range fullList {
		if other == r || other.Record.Id == r.Record.Id {
			continue
		}
		if r.Record.CycleId != "" && other.Record.CycleId == r.Record.CycleId {
			sameCycle = append(sameCycle, other)
		} else if other.Record.SessionId == r.Record.SessionId {
			sameSession = append(sameSession, other)
		}
	}

	related := append(sameCycle, sameSession...)
	if len(related) > max {
		related = related[:max]
	}
	return related
}
