package openai

import (
	"fmt"
)

const summaryPromptTemplate = `You summarize work session logs for later semantic search.

The user message is a structured snapshot of one deep-work session: the
intentions set at the start, the review answers given at the end, and
statistics about its work cycles.

Write a summary of at most %d words. Rules:
- Plain prose, no headings, no bullet points, no preamble.
- Keep concrete nouns: project names, tools, deliverables, obstacles.
- State what was attempted, what got done, and what got in the way.
- Mention the cycle outcomes only if they are notable (mostly misses,
  all hits, and so on).
- Do not invent anything that is not in the snapshot.`

// buildSummaryPrompt creates the system prompt with the word cap embedded.
func buildSummaryPrompt(maxWords int) string {
	return fmt.Sprintf(summaryPromptTemplate, maxWords)
}
